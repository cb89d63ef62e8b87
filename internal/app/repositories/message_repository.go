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

const messageColumns = `id, sender_id, receiver_id, subject, content, is_read, created_at`

// MessageRepository handles private messages
type MessageRepository struct {
	db db.Pool
}

// NewMessageRepository creates a new MessageRepository
func NewMessageRepository(pool db.Pool) *MessageRepository {
	return &MessageRepository{db: pool}
}

func scanMessage(row pgx.Row, m *models.Message) error {
	return row.Scan(&m.ID, &m.SenderID, &m.ReceiverID, &m.Subject, &m.Content, &m.IsRead, &m.CreatedAt)
}

func (r *MessageRepository) queryMessages(ctx context.Context, sql string, args ...interface{}) ([]models.Message, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	messages := []models.Message{}
	for rows.Next() {
		var m models.Message
		if err := scanMessage(rows, &m); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

// Create stores a new unread message
func (r *MessageRepository) Create(ctx context.Context, m *models.Message) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO messages (sender_id, receiver_id, subject, content)
		VALUES ($1, $2, $3, $4)
		RETURNING id, is_read, created_at`,
		m.SenderID, m.ReceiverID, m.Subject, m.Content,
	).Scan(&m.ID, &m.IsRead, &m.CreatedAt)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.NewResourceNotFoundError("recipient not found")
		}
		return fmt.Errorf("error inserting message: %w", err)
	}
	return nil
}

// FindForParticipant loads a message only if userID sent or received it
func (r *MessageRepository) FindForParticipant(ctx context.Context, id, userID int64) (*models.Message, error) {
	var m models.Message
	err := scanMessage(r.db.QueryRow(ctx, `
		SELECT `+messageColumns+` FROM messages
		WHERE id = $1 AND (sender_id = $2 OR receiver_id = $2)`, id, userID), &m)
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.NewResourceNotFoundError("message not found")
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	return &m, nil
}

// ListReceived returns the user's inbox, newest first
func (r *MessageRepository) ListReceived(ctx context.Context, userID int64) ([]models.Message, error) {
	return r.queryMessages(ctx, `
		SELECT `+messageColumns+` FROM messages WHERE receiver_id = $1 ORDER BY created_at DESC, id DESC`, userID)
}

// ListSent returns the messages the user sent, newest first
func (r *MessageRepository) ListSent(ctx context.Context, userID int64) ([]models.Message, error) {
	return r.queryMessages(ctx, `
		SELECT `+messageColumns+` FROM messages WHERE sender_id = $1 ORDER BY created_at DESC, id DESC`, userID)
}

// MarkRead flags a received message as read. Already-read messages are left alone.
func (r *MessageRepository) MarkRead(ctx context.Context, id, receiverID int64) error {
	_, err := r.db.Exec(ctx, `
		UPDATE messages SET is_read = TRUE
		WHERE id = $1 AND receiver_id = $2 AND NOT is_read`, id, receiverID)
	if err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}
	return nil
}

// CountUnread counts the user's unread received messages
func (r *MessageRepository) CountUnread(ctx context.Context, userID int64) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM messages WHERE receiver_id = $1 AND NOT is_read`, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("error executing query: %w", err)
	}
	return n, nil
}
