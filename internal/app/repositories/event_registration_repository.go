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

// RegistrationGuard decides, on the locked snapshot, whether a registration may proceed
type RegistrationGuard func(snapshot models.RegistrationSnapshot) error

// EventRegistrationRepository handles event registrations
type EventRegistrationRepository struct {
	db db.Pool
}

// NewEventRegistrationRepository creates a new EventRegistrationRepository
func NewEventRegistrationRepository(pool db.Pool) *EventRegistrationRepository {
	return &EventRegistrationRepository{db: pool}
}

// Register inserts a registration for (eventID, userID) if guard accepts the current state.
//
// The event row is locked FOR UPDATE for the whole transaction, so concurrent registrations
// for the same event are serialized and the capacity count cannot go stale between the
// check and the insert.
func (r *EventRegistrationRepository) Register(ctx context.Context, eventID, userID int64, guard RegistrationGuard) (*models.EventRegistration, error) {
	var reg models.EventRegistration

	err := db.RunInTx(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		var snap models.RegistrationSnapshot
		err := tx.QueryRow(ctx, `
			SELECT id, organizer_id, max_attendees, registration_deadline, is_active
			FROM events WHERE id = $1 FOR UPDATE`, eventID,
		).Scan(&snap.Event.ID, &snap.Event.OrganizerID, &snap.Event.MaxAttendees,
			&snap.Event.RegistrationDeadline, &snap.Event.IsActive)
		if err != nil {
			if dberrors.IsNoRows(err) {
				return apperrors.NewResourceNotFoundError("event not found")
			}
			return fmt.Errorf("error locking event: %w", err)
		}
		if !snap.Event.IsActive {
			return apperrors.NewResourceNotFoundError("event not found")
		}

		err = tx.QueryRow(ctx, `
			SELECT COUNT(*) FILTER (WHERE status = 'registered'),
				COALESCE(BOOL_OR(user_id = $2), FALSE)
			FROM event_registrations WHERE event_id = $1`, eventID, userID,
		).Scan(&snap.RegisteredCount, &snap.AlreadyRegistered)
		if err != nil {
			return fmt.Errorf("error counting registrations: %w", err)
		}

		if err := guard(snap); err != nil {
			return err
		}

		err = tx.QueryRow(ctx, `
			INSERT INTO event_registrations (event_id, user_id, status)
			VALUES ($1, $2, $3)
			RETURNING id, event_id, user_id, status, notes, registered_at`,
			eventID, userID, models.RegistrationRegistered,
		).Scan(&reg.ID, &reg.EventID, &reg.UserID, &reg.Status, &reg.Notes, &reg.RegisteredAt)
		if err != nil {
			if dberrors.IsDuplicateConstraintError(err, "uq_event_registrations_event_user") {
				return apperrors.NewConflictError("you are already registered for this event")
			}
			return fmt.Errorf("error inserting registration: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

// Unregister deletes the user's registration row
func (r *EventRegistrationRepository) Unregister(ctx context.Context, eventID, userID int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM event_registrations WHERE event_id = $1 AND user_id = $2`, eventID, userID)
	if err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewResourceNotFoundError("you are not registered for this event")
	}
	return nil
}

// IsRegistered reports whether a registration row exists for (eventID, userID)
func (r *EventRegistrationRepository) IsRegistered(ctx context.Context, eventID, userID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM event_registrations WHERE event_id = $1 AND user_id = $2)`,
		eventID, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error executing query: %w", err)
	}
	return exists, nil
}

// CountRegistered counts registrations with status 'registered'
func (r *EventRegistrationRepository) CountRegistered(ctx context.Context, eventID int64) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM event_registrations WHERE event_id = $1 AND status = $2`,
		eventID, models.RegistrationRegistered).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("error executing query: %w", err)
	}
	return n, nil
}
