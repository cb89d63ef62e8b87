package dto

import (
	"time"

	"github.com/gradlink/alumni/internal/app/models"
)

// EventRequest creates or updates an event
type EventRequest struct {
	Title                string           `json:"title" binding:"required,max=200" example:"Class of 2015 reunion"`
	Description          string           `json:"description" binding:"required"`
	EventType            models.EventType `json:"eventType" binding:"required,oneof=networking workshop seminar conference social career_fair" example:"networking"`
	CategoryID           *int64           `json:"categoryId" binding:"omitempty,min=1"`
	StartDate            time.Time        `json:"startDate" binding:"required" example:"2026-06-01T18:00:00Z"`
	EndDate              time.Time        `json:"endDate" binding:"required" example:"2026-06-01T21:00:00Z"`
	Location             string           `json:"location" binding:"max=200"`
	IsVirtual            bool             `json:"isVirtual"`
	VirtualLink          string           `json:"virtualLink" binding:"omitempty,url,max=500"`
	MaxAttendees         *int             `json:"maxAttendees" binding:"omitempty,min=1"`
	RegistrationDeadline *time.Time       `json:"registrationDeadline"`
	IsFree               *bool            `json:"isFree"`
	Price                float64          `json:"price" binding:"min=0"`
}

// ToModel builds the event owned by organizerID
func (r *EventRequest) ToModel(organizerID int64) *models.Event {
	isFree := true
	if r.IsFree != nil {
		isFree = *r.IsFree
	}
	price := r.Price
	if isFree {
		price = 0
	}
	return &models.Event{
		Title:                r.Title,
		Description:          r.Description,
		EventType:            r.EventType,
		CategoryID:           r.CategoryID,
		OrganizerID:          organizerID,
		StartDate:            r.StartDate,
		EndDate:              r.EndDate,
		Location:             r.Location,
		IsVirtual:            r.IsVirtual,
		VirtualLink:          r.VirtualLink,
		MaxAttendees:         r.MaxAttendees,
		RegistrationDeadline: r.RegistrationDeadline,
		IsFree:               isFree,
		Price:                price,
	}
}

// EventResponse represents an event with the viewer's relation to it
type EventResponse struct {
	ID                   int64        `json:"id"`
	Title                string       `json:"title"`
	Description          string       `json:"description"`
	EventType            string       `json:"eventType"`
	CategoryID           *int64       `json:"categoryId,omitempty"`
	StartDate            time.Time    `json:"startDate"`
	EndDate              time.Time    `json:"endDate"`
	Location             string       `json:"location"`
	IsVirtual            bool         `json:"isVirtual"`
	VirtualLink          string       `json:"virtualLink,omitempty"`
	MaxAttendees         *int         `json:"maxAttendees,omitempty"`
	RegistrationDeadline *time.Time   `json:"registrationDeadline,omitempty"`
	IsFree               bool         `json:"isFree"`
	Price                float64      `json:"price"`
	ImageURL             *string      `json:"imageUrl,omitempty"`
	AttendeeCount        int          `json:"attendeeCount"`
	SpotsLeft            *int         `json:"spotsLeft,omitempty"`
	IsRegistered         bool         `json:"isRegistered"`
	IsOrganizer          bool         `json:"isOrganizer"`
	Organizer            *UserSummary `json:"organizer,omitempty"`
}

// EventListResponse is a page of events
type EventListResponse struct {
	Events     []EventResponse `json:"events"`
	Pagination PaginationInfo  `json:"pagination"`
}

// MyEventsResponse lists the events the user organizes and the ones they registered for
type MyEventsResponse struct {
	Organized  []EventResponse `json:"organized"`
	Registered []EventResponse `json:"registered"`
}

// RegistrationResponse confirms a registration
type RegistrationResponse struct {
	ID            int64     `json:"id"`
	EventID       int64     `json:"eventId"`
	Status        string    `json:"status" example:"registered"`
	RegisteredAt  time.Time `json:"registeredAt"`
	AttendeeCount int       `json:"attendeeCount"`
}

// EventCategoryResponse represents an event category
type EventCategoryResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Color       string `json:"color" example:"#007bff"`
}

// FromEvent converts an event seen by viewerID
func FromEvent(e *models.Event, viewerID int64, registered bool) EventResponse {
	resp := EventResponse{
		ID:                   e.ID,
		Title:                e.Title,
		Description:          e.Description,
		EventType:            string(e.EventType),
		CategoryID:           e.CategoryID,
		StartDate:            e.StartDate,
		EndDate:              e.EndDate,
		Location:             e.Location,
		IsVirtual:            e.IsVirtual,
		VirtualLink:          e.VirtualLink,
		MaxAttendees:         e.MaxAttendees,
		RegistrationDeadline: e.RegistrationDeadline,
		IsFree:               e.IsFree,
		Price:                e.Price,
		ImageURL:             e.ImageURL,
		AttendeeCount:        e.AttendeeCount,
		IsRegistered:         registered,
		IsOrganizer:          viewerID != 0 && e.OrganizerID == viewerID,
		Organizer:            FromUserSummary(e.Organizer),
	}
	if e.MaxAttendees != nil {
		left := *e.MaxAttendees - e.AttendeeCount
		if left < 0 {
			left = 0
		}
		resp.SpotsLeft = &left
	}
	return resp
}

// EventQuery holds the event listing filters. Time defaults to upcoming.
type EventQuery struct {
	Time       string           `form:"time" binding:"omitempty,oneof=upcoming past all"`
	Search     string           `form:"search"`
	CategoryID *int64           `form:"category" binding:"omitempty,min=1"`
	EventType  models.EventType `form:"event_type" binding:"omitempty,oneof=networking workshop seminar conference social career_fair"`
	IsVirtual  *bool            `form:"is_virtual"`
}

// FromEventCategory converts an event category
func FromEventCategory(c *models.EventCategory) EventCategoryResponse {
	return EventCategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Color:       c.Color,
	}
}
