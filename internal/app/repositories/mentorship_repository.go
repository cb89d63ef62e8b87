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

const mentorshipColumns = `id, mentee_id, mentor_id, subject, message, status, created_at, updated_at`

// MentorshipRepository handles mentorship requests
type MentorshipRepository struct {
	db db.Pool
}

// NewMentorshipRepository creates a new MentorshipRepository
func NewMentorshipRepository(pool db.Pool) *MentorshipRepository {
	return &MentorshipRepository{db: pool}
}

func scanMentorship(row pgx.Row, m *models.MentorshipRequest) error {
	return row.Scan(&m.ID, &m.MenteeID, &m.MentorID, &m.Subject, &m.Message, &m.Status, &m.CreatedAt, &m.UpdatedAt)
}

// Create inserts a pending request. Repeated requests for the same pair are allowed.
func (r *MentorshipRepository) Create(ctx context.Context, m *models.MentorshipRequest) error {
	m.Status = models.MentorshipPending
	err := r.db.QueryRow(ctx, `
		INSERT INTO mentorship_requests (mentee_id, mentor_id, subject, message, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`,
		m.MenteeID, m.MentorID, m.Subject, m.Message, m.Status,
	).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		switch {
		case dberrors.IsCheckViolation(err):
			return apperrors.NewBadRequestError("you cannot request mentorship from yourself")
		case dberrors.IsForeignKeyViolation(err):
			return apperrors.NewResourceNotFoundError("mentor not found")
		}
		return fmt.Errorf("error inserting mentorship request: %w", err)
	}
	return nil
}

// FindForMentor loads a request only if mentorID is its mentor
func (r *MentorshipRepository) FindForMentor(ctx context.Context, id, mentorID int64) (*models.MentorshipRequest, error) {
	var m models.MentorshipRequest
	err := scanMentorship(r.db.QueryRow(ctx,
		`SELECT `+mentorshipColumns+` FROM mentorship_requests WHERE id = $1 AND mentor_id = $2`, id, mentorID), &m)
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.NewResourceNotFoundError("mentorship request not found")
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	return &m, nil
}

// Transition moves a request between statuses, failing with a conflict if it already moved
func (r *MentorshipRepository) Transition(ctx context.Context, id int64, from, to models.MentorshipStatus) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE mentorship_requests SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3`, to, id, from)
	if err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewConflictError("mentorship request has already been answered")
	}
	return nil
}

// ListForUser returns requests sent or received by the user, newest first
func (r *MentorshipRepository) ListForUser(ctx context.Context, userID int64) ([]models.MentorshipRequest, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+mentorshipColumns+` FROM mentorship_requests
		WHERE mentee_id = $1 OR mentor_id = $1
		ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	requests := []models.MentorshipRequest{}
	for rows.Next() {
		var m models.MentorshipRequest
		if err := scanMentorship(rows, &m); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		requests = append(requests, m)
	}
	return requests, rows.Err()
}
