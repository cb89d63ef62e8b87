package models

import "time"

// EventType enumerates the kinds of events
type EventType string

const (
	EventNetworking EventType = "networking"
	EventWorkshop   EventType = "workshop"
	EventSeminar    EventType = "seminar"
	EventConference EventType = "conference"
	EventSocial     EventType = "social"
	EventCareerFair EventType = "career_fair"
)

// EventCategory groups events
type EventCategory struct {
	ID          int64  `json:"id" db:"id"`
	Name        string `json:"name" db:"name"`
	Description string `json:"description" db:"description"`
	Color       string `json:"color" db:"color"`
}

// Event defines the event model based on the 'events' table
type Event struct {
	ID                   int64      `json:"id" db:"id"`
	Title                string     `json:"title" db:"title"`
	Description          string     `json:"description" db:"description"`
	EventType            EventType  `json:"eventType" db:"event_type"`
	CategoryID           *int64     `json:"categoryId,omitempty" db:"category_id"`
	OrganizerID          int64      `json:"organizerId" db:"organizer_id"`
	StartDate            time.Time  `json:"startDate" db:"start_date"`
	EndDate              time.Time  `json:"endDate" db:"end_date"`
	Location             string     `json:"location" db:"location"`
	IsVirtual            bool       `json:"isVirtual" db:"is_virtual"`
	VirtualLink          string     `json:"virtualLink" db:"virtual_link"`
	MaxAttendees         *int       `json:"maxAttendees,omitempty" db:"max_attendees"`
	RegistrationDeadline *time.Time `json:"registrationDeadline,omitempty" db:"registration_deadline"`
	IsFree               bool       `json:"isFree" db:"is_free"`
	Price                float64    `json:"price" db:"price"`
	ImageURL             *string    `json:"imageUrl,omitempty" db:"image_url"`
	IsActive             bool       `json:"isActive" db:"is_active"`
	CreatedAt            time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt            time.Time  `json:"updatedAt" db:"updated_at"`

	AttendeeCount int            `json:"attendeeCount"`       // Computed: registrations with status 'registered'
	Category      *EventCategory `json:"category,omitempty"`  // Relation, no db tag
	Organizer     *User          `json:"organizer,omitempty"` // Relation, no db tag
}

// IsFull reports whether the event has no free slot left for the given registered count
func (e *Event) IsFull(registered int) bool {
	return e.MaxAttendees != nil && registered >= *e.MaxAttendees
}

// RegistrationClosed reports whether now is past the registration deadline
func (e *Event) RegistrationClosed(now time.Time) bool {
	return e.RegistrationDeadline != nil && now.After(*e.RegistrationDeadline)
}

// EventRegistration is one user's seat at an event. Unique per (event, user).
type EventRegistration struct {
	ID           int64              `json:"id" db:"id"`
	EventID      int64              `json:"eventId" db:"event_id"`
	UserID       int64              `json:"userId" db:"user_id"`
	Status       RegistrationStatus `json:"status" db:"status"`
	Notes        string             `json:"notes" db:"notes"`
	RegisteredAt time.Time          `json:"registeredAt" db:"registered_at"`
}

// RegistrationSnapshot is the locked state a registration guard decides on
type RegistrationSnapshot struct {
	Event             Event
	RegisteredCount   int
	AlreadyRegistered bool
}
