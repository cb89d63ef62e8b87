package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/gradlink/alumni/internal/app/models"
	"github.com/gradlink/alumni/internal/db"
	"github.com/gradlink/alumni/internal/pkg/apperrors"
	"github.com/gradlink/alumni/internal/pkg/dberrors"
	"github.com/jackc/pgx/v5"
)

// eventSelectColumns includes the live attendee count as the last column
var eventSelectColumns = []string{
	"e.id", "e.title", "e.description", "e.event_type", "e.category_id", "e.organizer_id",
	"e.start_date", "e.end_date", "e.location", "e.is_virtual", "e.virtual_link", "e.max_attendees",
	"e.registration_deadline", "e.is_free", "e.price", "e.image_url", "e.is_active",
	"e.created_at", "e.updated_at",
	"(SELECT COUNT(*) FROM event_registrations r WHERE r.event_id = e.id AND r.status = 'registered') AS attendee_count",
}

// EventTimeFilter selects events relative to now
type EventTimeFilter string

const (
	EventsUpcoming EventTimeFilter = "upcoming"
	EventsPast     EventTimeFilter = "past"
	EventsAll      EventTimeFilter = "all"
)

// EventFilter narrows the event listing
type EventFilter struct {
	Time       EventTimeFilter
	Now        time.Time
	Search     string
	CategoryID *int64
	EventType  models.EventType
	IsVirtual  *bool
	Page       Page
}

// EventRepository handles events and event categories
type EventRepository struct {
	db db.Pool
}

// NewEventRepository creates a new EventRepository
func NewEventRepository(pool db.Pool) *EventRepository {
	return &EventRepository{db: pool}
}

func scanEvent(row pgx.Row, e *models.Event) error {
	return row.Scan(
		&e.ID, &e.Title, &e.Description, &e.EventType, &e.CategoryID, &e.OrganizerID,
		&e.StartDate, &e.EndDate, &e.Location, &e.IsVirtual, &e.VirtualLink, &e.MaxAttendees,
		&e.RegistrationDeadline, &e.IsFree, &e.Price, &e.ImageURL, &e.IsActive,
		&e.CreatedAt, &e.UpdatedAt, &e.AttendeeCount,
	)
}

func (r *EventRepository) queryEvents(ctx context.Context, q squirrel.SelectBuilder) ([]models.Event, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	events := []models.Event{}
	for rows.Next() {
		var e models.Event
		if err := scanEvent(rows, &e); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// Create inserts a new event owned by e.OrganizerID
func (r *EventRepository) Create(ctx context.Context, e *models.Event) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO events (title, description, event_type, category_id, organizer_id, start_date, end_date,
			location, is_virtual, virtual_link, max_attendees, registration_deadline, is_free, price, image_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id, is_active, created_at, updated_at`,
		e.Title, e.Description, e.EventType, e.CategoryID, e.OrganizerID, e.StartDate, e.EndDate,
		e.Location, e.IsVirtual, e.VirtualLink, e.MaxAttendees, e.RegistrationDeadline, e.IsFree, e.Price, e.ImageURL,
	).Scan(&e.ID, &e.IsActive, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.NewResourceNotFoundError("event category not found")
		}
		return fmt.Errorf("error inserting event: %w", err)
	}
	return nil
}

// Update rewrites an event. Only the organizer's own events match.
func (r *EventRepository) Update(ctx context.Context, e *models.Event) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE events
		SET title = $1, description = $2, event_type = $3, category_id = $4, start_date = $5, end_date = $6,
			location = $7, is_virtual = $8, virtual_link = $9, max_attendees = $10, registration_deadline = $11,
			is_free = $12, price = $13, updated_at = NOW()
		WHERE id = $14 AND organizer_id = $15`,
		e.Title, e.Description, e.EventType, e.CategoryID, e.StartDate, e.EndDate,
		e.Location, e.IsVirtual, e.VirtualLink, e.MaxAttendees, e.RegistrationDeadline,
		e.IsFree, e.Price, e.ID, e.OrganizerID,
	)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.NewResourceNotFoundError("event category not found")
		}
		return fmt.Errorf("error executing query: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewResourceNotFoundError("event not found")
	}
	return nil
}

// Delete removes an event owned by organizerID along with its registrations
func (r *EventRepository) Delete(ctx context.Context, id, organizerID int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM events WHERE id = $1 AND organizer_id = $2`, id, organizerID)
	if err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewResourceNotFoundError("event not found")
	}
	return nil
}

// FindActiveByID loads an active event with its attendee count
func (r *EventRepository) FindActiveByID(ctx context.Context, id int64) (*models.Event, error) {
	sql, args, err := psql.Select(eventSelectColumns...).
		From("events e").
		Where(squirrel.Eq{"e.id": id, "e.is_active": true}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	var e models.Event
	if err := scanEvent(r.db.QueryRow(ctx, sql, args...), &e); err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.NewResourceNotFoundError("event not found")
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	return &e, nil
}

// buildEventListQuery applies the filter to a SELECT over active events
func buildEventListQuery(base squirrel.SelectBuilder, f EventFilter) squirrel.SelectBuilder {
	q := base.From("events e").Where(squirrel.Eq{"e.is_active": true})

	switch f.Time {
	case EventsPast:
		q = q.Where(squirrel.Lt{"e.start_date": f.Now})
	case EventsAll:
	default:
		q = q.Where(squirrel.GtOrEq{"e.start_date": f.Now})
	}

	if f.Search != "" {
		pattern := likePattern(f.Search)
		q = q.Where(squirrel.Or{
			squirrel.ILike{"e.title": pattern},
			squirrel.ILike{"e.description": pattern},
			squirrel.ILike{"e.location": pattern},
		})
	}
	if f.CategoryID != nil {
		q = q.Where(squirrel.Eq{"e.category_id": *f.CategoryID})
	}
	if f.EventType != "" {
		q = q.Where(squirrel.Eq{"e.event_type": string(f.EventType)})
	}
	if f.IsVirtual != nil {
		q = q.Where(squirrel.Eq{"e.is_virtual": *f.IsVirtual})
	}
	return q
}

// List returns one page of events matching the filter and the total count.
// Upcoming events come soonest first, past events most recent first.
func (r *EventRepository) List(ctx context.Context, f EventFilter) ([]models.Event, int64, error) {
	countSQL, countArgs, err := buildEventListQuery(psql.Select("COUNT(*)"), f).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building SQL: %w", err)
	}
	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting events: %w", err)
	}

	order := "e.start_date ASC"
	if f.Time == EventsPast {
		order = "e.start_date DESC"
	}
	offset, limit := f.Page.offsetLimit()

	events, err := r.queryEvents(ctx, buildEventListQuery(psql.Select(eventSelectColumns...), f).
		OrderBy(order, "e.id").
		Offset(offset).
		Limit(limit))
	if err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

// ListUpcoming returns the next active events starting from now
func (r *EventRepository) ListUpcoming(ctx context.Context, now time.Time, limit uint64) ([]models.Event, error) {
	return r.queryEvents(ctx, psql.Select(eventSelectColumns...).
		From("events e").
		Where(squirrel.Eq{"e.is_active": true}).
		Where(squirrel.GtOrEq{"e.start_date": now}).
		OrderBy("e.start_date ASC").
		Limit(limit))
}

// ListByOrganizer returns every event the user organizes, including inactive ones
func (r *EventRepository) ListByOrganizer(ctx context.Context, organizerID int64) ([]models.Event, error) {
	return r.queryEvents(ctx, psql.Select(eventSelectColumns...).
		From("events e").
		Where(squirrel.Eq{"e.organizer_id": organizerID}).
		OrderBy("e.start_date DESC"))
}

// ListRegisteredBy returns the events the user holds a registration for
func (r *EventRepository) ListRegisteredBy(ctx context.Context, userID int64) ([]models.Event, error) {
	return r.queryEvents(ctx, psql.Select(eventSelectColumns...).
		From("events e").
		Join("event_registrations reg ON reg.event_id = e.id").
		Where(squirrel.Eq{"reg.user_id": userID, "reg.status": string(models.RegistrationRegistered)}).
		OrderBy("e.start_date DESC"))
}

// ListCategories returns all event categories
func (r *EventRepository) ListCategories(ctx context.Context) ([]models.EventCategory, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, description, color FROM event_categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	categories := []models.EventCategory{}
	for rows.Next() {
		var c models.EventCategory
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.Color); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// EnsureCategory inserts a category unless one with the same name exists
func (r *EventRepository) EnsureCategory(ctx context.Context, c *models.EventCategory) (bool, error) {
	color := c.Color
	if color == "" {
		color = "#007bff"
	}
	tag, err := r.db.Exec(ctx, `
		INSERT INTO event_categories (name, description, color) VALUES ($1, $2, $3)
		ON CONFLICT (name) DO NOTHING`, c.Name, c.Description, color)
	if err != nil {
		return false, fmt.Errorf("error executing query: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}
