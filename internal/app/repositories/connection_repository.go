package repositories

import (
	"context"
	"fmt"

	"github.com/gradlink/alumni/internal/app/models"
	"github.com/gradlink/alumni/internal/db"
	"github.com/gradlink/alumni/internal/pkg/apperrors"
	"github.com/gradlink/alumni/internal/pkg/dberrors"
	"github.com/jackc/pgx/v5"
)

const connectionColumns = `id, sender_id, receiver_id, status, message, created_at, updated_at`

// ConnectionRepository handles the connection ledger
type ConnectionRepository struct {
	db db.Pool
}

// NewConnectionRepository creates a new ConnectionRepository
func NewConnectionRepository(pool db.Pool) *ConnectionRepository {
	return &ConnectionRepository{db: pool}
}

func scanConnection(row pgx.Row, c *models.Connection) error {
	return row.Scan(&c.ID, &c.SenderID, &c.ReceiverID, &c.Status, &c.Message, &c.CreatedAt, &c.UpdatedAt)
}

// ExistsBetween reports whether any connection row exists for the unordered pair {a, b}
func (r *ConnectionRepository) ExistsBetween(ctx context.Context, a, b int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM connections
			WHERE LEAST(sender_id, receiver_id) = LEAST($1::BIGINT, $2::BIGINT)
			  AND GREATEST(sender_id, receiver_id) = GREATEST($1::BIGINT, $2::BIGINT)
		)`, a, b,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error executing query: %w", err)
	}
	return exists, nil
}

// Create inserts a pending connection. A concurrent request for the same pair loses on the unique index.
func (r *ConnectionRepository) Create(ctx context.Context, c *models.Connection) error {
	c.Status = models.ConnectionPending
	err := r.db.QueryRow(ctx, `
		INSERT INTO connections (sender_id, receiver_id, status, message)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`,
		c.SenderID, c.ReceiverID, c.Status, c.Message,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		switch {
		case dberrors.IsDuplicateConstraintError(err, "uq_connections_pair"):
			return apperrors.NewConflictError("a connection between these users already exists")
		case dberrors.IsCheckViolation(err):
			return apperrors.NewBadRequestError("you cannot connect with yourself")
		case dberrors.IsForeignKeyViolation(err):
			return apperrors.NewResourceNotFoundError("user not found")
		}
		return fmt.Errorf("error inserting connection: %w", err)
	}
	return nil
}

// FindForReceiver loads a connection only if receiverID is its receiver
func (r *ConnectionRepository) FindForReceiver(ctx context.Context, id, receiverID int64) (*models.Connection, error) {
	var c models.Connection
	err := scanConnection(r.db.QueryRow(ctx,
		`SELECT `+connectionColumns+` FROM connections WHERE id = $1 AND receiver_id = $2`, id, receiverID), &c)
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.NewResourceNotFoundError("connection request not found")
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	return &c, nil
}

// Transition moves a connection from one status to another. It fails with a conflict
// when the row is no longer in the expected status.
func (r *ConnectionRepository) Transition(ctx context.Context, id int64, from, to models.ConnectionStatus) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE connections SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3`, to, id, from)
	if err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewConflictError("connection request has already been answered")
	}
	return nil
}

// ListForUser returns every connection the user is part of, newest first
func (r *ConnectionRepository) ListForUser(ctx context.Context, userID int64) ([]models.Connection, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+connectionColumns+` FROM connections
		WHERE sender_id = $1 OR receiver_id = $1
		ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	connections := []models.Connection{}
	for rows.Next() {
		var c models.Connection
		if err := scanConnection(rows, &c); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		connections = append(connections, c)
	}
	return connections, rows.Err()
}

// CountPendingReceived counts requests waiting for the user's answer
func (r *ConnectionRepository) CountPendingReceived(ctx context.Context, userID int64) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM connections WHERE receiver_id = $1 AND status = $2`,
		userID, models.ConnectionPending).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("error executing query: %w", err)
	}
	return n, nil
}

// FindBetween returns the connection row for the unordered pair {a, b}, or NotFound
func (r *ConnectionRepository) FindBetween(ctx context.Context, a, b int64) (*models.Connection, error) {
	var c models.Connection
	err := scanConnection(r.db.QueryRow(ctx, `
		SELECT `+connectionColumns+` FROM connections
		WHERE LEAST(sender_id, receiver_id) = LEAST($1::BIGINT, $2::BIGINT)
		  AND GREATEST(sender_id, receiver_id) = GREATEST($1::BIGINT, $2::BIGINT)`, a, b), &c)
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.NewResourceNotFoundError("connection not found")
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	return &c, nil
}
