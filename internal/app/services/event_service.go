package services

import (
	"context"

	"github.com/benbjohnson/clock"
	"github.com/gradlink/alumni/internal/app/models"
	"github.com/gradlink/alumni/internal/app/models/dto"
	"github.com/gradlink/alumni/internal/app/repositories"
	"github.com/gradlink/alumni/internal/pkg/apperrors"
	"github.com/rs/zerolog"
)

// EventService manages events and registrations
type EventService interface {
	CreateEvent(ctx context.Context, organizerID int64, req *dto.EventRequest) (*dto.EventResponse, error)
	UpdateEvent(ctx context.Context, organizerID, eventID int64, req *dto.EventRequest) (*dto.EventResponse, error)
	DeleteEvent(ctx context.Context, organizerID, eventID int64) error
	GetEvent(ctx context.Context, viewerID, eventID int64) (*dto.EventResponse, error)
	ListEvents(ctx context.Context, viewerID int64, query dto.EventQuery, page, size int) (*dto.EventListResponse, error)
	ListMyEvents(ctx context.Context, userID int64) (*dto.MyEventsResponse, error)
	ListCategories(ctx context.Context) ([]dto.EventCategoryResponse, error)
	Register(ctx context.Context, userID, eventID int64) (*dto.RegistrationResponse, error)
	Unregister(ctx context.Context, userID, eventID int64) error
}

type eventServiceImpl struct {
	events        EventStore
	registrations RegistrationStore
	users         UserStore
	notifier      Notifier
	clock         clock.Clock
	logger        zerolog.Logger
}

// NewEventService creates a new EventService
func NewEventService(
	events EventStore,
	registrations RegistrationStore,
	users UserStore,
	notifier Notifier,
	clk clock.Clock,
	logger zerolog.Logger,
) EventService {
	return &eventServiceImpl{
		events:        events,
		registrations: registrations,
		users:         users,
		notifier:      notifier,
		clock:         clk,
		logger:        logger,
	}
}

func validateEventDates(req *dto.EventRequest) error {
	if req.EndDate.Before(req.StartDate) {
		return apperrors.NewBadRequestError("end date must not be before start date")
	}
	return nil
}

// CreateEvent publishes a new event organized by the caller
func (s *eventServiceImpl) CreateEvent(ctx context.Context, organizerID int64, req *dto.EventRequest) (*dto.EventResponse, error) {
	if err := validateEventDates(req); err != nil {
		return nil, err
	}

	event := req.ToModel(organizerID)
	if err := s.events.Create(ctx, event); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("eventID", event.ID).Int64("organizerID", organizerID).Msg("Event created")
	return s.GetEvent(ctx, organizerID, event.ID)
}

// UpdateEvent replaces the editable fields. Events of other organizers are reported as not found.
func (s *eventServiceImpl) UpdateEvent(ctx context.Context, organizerID, eventID int64, req *dto.EventRequest) (*dto.EventResponse, error) {
	if err := validateEventDates(req); err != nil {
		return nil, err
	}

	event := req.ToModel(organizerID)
	event.ID = eventID
	if err := s.events.Update(ctx, event); err != nil {
		return nil, err
	}
	return s.GetEvent(ctx, organizerID, eventID)
}

// DeleteEvent removes an event owned by the caller
func (s *eventServiceImpl) DeleteEvent(ctx context.Context, organizerID, eventID int64) error {
	if err := s.events.Delete(ctx, eventID, organizerID); err != nil {
		return err
	}
	s.logger.Info().Int64("eventID", eventID).Int64("organizerID", organizerID).Msg("Event deleted")
	return nil
}

// GetEvent returns an active event. viewerID is zero for anonymous callers.
func (s *eventServiceImpl) GetEvent(ctx context.Context, viewerID, eventID int64) (*dto.EventResponse, error) {
	event, err := s.events.FindActiveByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	registered := false
	if viewerID != 0 {
		if registered, err = s.registrations.IsRegistered(ctx, eventID, viewerID); err != nil {
			return nil, err
		}
	}

	users, err := loadUsers(ctx, s.users, []int64{event.OrganizerID})
	if err != nil {
		return nil, err
	}
	event.Organizer = users[event.OrganizerID]

	resp := dto.FromEvent(event, viewerID, registered)
	return &resp, nil
}

// ListEvents pages through active events. Time defaults to upcoming.
func (s *eventServiceImpl) ListEvents(ctx context.Context, viewerID int64, query dto.EventQuery, page, size int) (*dto.EventListResponse, error) {
	timeFilter := repositories.EventsUpcoming
	switch query.Time {
	case string(repositories.EventsPast):
		timeFilter = repositories.EventsPast
	case string(repositories.EventsAll):
		timeFilter = repositories.EventsAll
	}

	events, total, err := s.events.List(ctx, repositories.EventFilter{
		Time:       timeFilter,
		Now:        s.clock.Now(),
		Search:     query.Search,
		CategoryID: query.CategoryID,
		EventType:  query.EventType,
		IsVirtual:  query.IsVirtual,
		Page:       pageOf(page, size),
	})
	if err != nil {
		return nil, err
	}

	items, err := s.toResponses(ctx, viewerID, events)
	if err != nil {
		return nil, err
	}
	return &dto.EventListResponse{
		Events:     items,
		Pagination: paginationOf(total, page, size),
	}, nil
}

// ListMyEvents returns the events the user organizes and the ones they registered for
func (s *eventServiceImpl) ListMyEvents(ctx context.Context, userID int64) (*dto.MyEventsResponse, error) {
	organized, err := s.events.ListByOrganizer(ctx, userID)
	if err != nil {
		return nil, err
	}
	registered, err := s.events.ListRegisteredBy(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := &dto.MyEventsResponse{}
	if resp.Organized, err = s.toResponses(ctx, userID, organized); err != nil {
		return nil, err
	}
	if resp.Registered, err = s.toResponses(ctx, userID, registered); err != nil {
		return nil, err
	}
	return resp, nil
}

// ListCategories lists all event categories
func (s *eventServiceImpl) ListCategories(ctx context.Context) ([]dto.EventCategoryResponse, error) {
	categories, err := s.events.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.EventCategoryResponse, 0, len(categories))
	for i := range categories {
		out = append(out, dto.FromEventCategory(&categories[i]))
	}
	return out, nil
}

// Register reserves a seat for userID. The checks run against the locked event row, in this order:
// organizer, deadline, capacity, duplicate.
func (s *eventServiceImpl) Register(ctx context.Context, userID, eventID int64) (*dto.RegistrationResponse, error) {
	now := s.clock.Now()
	var organizerID int64
	var attendees int

	reg, err := s.registrations.Register(ctx, eventID, userID, func(snap models.RegistrationSnapshot) error {
		organizerID = snap.Event.OrganizerID
		switch {
		case snap.Event.OrganizerID == userID:
			return apperrors.NewForbiddenError("organizers cannot register for their own event")
		case snap.Event.RegistrationClosed(now):
			return apperrors.NewDeadlineExceededError("registration deadline has passed")
		case snap.AlreadyRegistered:
			return apperrors.NewConflictError("you are already registered for this event")
		case snap.Event.IsFull(snap.RegisteredCount):
			return apperrors.NewCapacityExceededError("event is full")
		}
		attendees = snap.RegisteredCount + 1
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, models.Notification{
		AggregateType: "event",
		AggregateID:   eventID,
		EventType:     models.EventEventRegistered,
		RecipientID:   organizerID,
		ActorID:       userID,
	})

	return &dto.RegistrationResponse{
		ID:            reg.ID,
		EventID:       reg.EventID,
		Status:        string(reg.Status),
		RegisteredAt:  reg.RegisteredAt,
		AttendeeCount: attendees,
	}, nil
}

// Unregister deletes the caller's registration, freeing the seat
func (s *eventServiceImpl) Unregister(ctx context.Context, userID, eventID int64) error {
	event, err := s.events.FindActiveByID(ctx, eventID)
	if err != nil {
		return err
	}
	if err := s.registrations.Unregister(ctx, eventID, userID); err != nil {
		return err
	}

	s.notifier.Notify(ctx, models.Notification{
		AggregateType: "event",
		AggregateID:   eventID,
		EventType:     models.EventEventUnregistered,
		RecipientID:   event.OrganizerID,
		ActorID:       userID,
	})
	return nil
}

func (s *eventServiceImpl) toResponses(ctx context.Context, viewerID int64, events []models.Event) ([]dto.EventResponse, error) {
	eventIDs := make([]int64, 0, len(events))
	organizerIDs := make([]int64, 0, len(events))
	for i := range events {
		eventIDs = append(eventIDs, events[i].ID)
		organizerIDs = append(organizerIDs, events[i].OrganizerID)
	}

	registered := map[int64]bool{}
	if viewerID != 0 && len(eventIDs) > 0 {
		var err error
		if registered, err = s.registrations.RegisteredAmong(ctx, viewerID, eventIDs); err != nil {
			return nil, err
		}
	}
	organizers, err := loadUsers(ctx, s.users, organizerIDs)
	if err != nil {
		return nil, err
	}

	out := make([]dto.EventResponse, 0, len(events))
	for i := range events {
		e := &events[i]
		e.Organizer = organizers[e.OrganizerID]
		out = append(out, dto.FromEvent(e, viewerID, registered[e.ID]))
	}
	return out, nil
}
