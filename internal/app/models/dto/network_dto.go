package dto

import (
	"time"

	"github.com/gradlink/alumni/internal/app/models"
)

// CreateConnectionRequest asks another user to connect
type CreateConnectionRequest struct {
	ReceiverID int64  `json:"receiverId" binding:"required,min=1" example:"2"`
	Message    string `json:"message" binding:"max=1000" example:"Hi, we were in the same cohort!"`
}

// RespondRequest answers a pending connection or mentorship request
type RespondRequest struct {
	Action models.ResponseAction `json:"action" binding:"required,oneof=accept decline" example:"accept"`
}

// ConnectionResponse is a connection seen from one side
type ConnectionResponse struct {
	ID          int64        `json:"id"`
	Status      string       `json:"status" example:"pending"`
	Message     string       `json:"message"`
	Direction   string       `json:"direction" example:"sent" enums:"sent,received"`
	Counterpart *UserSummary `json:"counterpart,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// ConnectionsResponse groups the user's connections
type ConnectionsResponse struct {
	Accepted        []ConnectionResponse `json:"accepted"`
	SentPending     []ConnectionResponse `json:"sentPending"`
	ReceivedPending []ConnectionResponse `json:"receivedPending"`
}

// CreateMentorshipRequest asks a mentor for guidance
type CreateMentorshipRequest struct {
	MentorID int64  `json:"mentorId" binding:"required,min=1" example:"3"`
	Subject  string `json:"subject" binding:"required,max=200" example:"Breaking into data engineering"`
	Message  string `json:"message" binding:"max=2000"`
}

// MentorshipResponse is a mentorship request seen from one side
type MentorshipResponse struct {
	ID          int64        `json:"id"`
	Subject     string       `json:"subject"`
	Message     string       `json:"message"`
	Status      string       `json:"status" example:"pending"`
	Direction   string       `json:"direction" example:"received" enums:"sent,received"`
	Counterpart *UserSummary `json:"counterpart,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// MentorshipsResponse groups the user's mentorship requests
type MentorshipsResponse struct {
	Sent     []MentorshipResponse `json:"sent"`
	Received []MentorshipResponse `json:"received"`
}

// FromConnection converts a connection seen by viewerID
func FromConnection(c *models.Connection, viewerID int64, counterpart *models.User) ConnectionResponse {
	direction := "received"
	if c.SenderID == viewerID {
		direction = "sent"
	}
	return ConnectionResponse{
		ID:          c.ID,
		Status:      string(c.Status),
		Message:     c.Message,
		Direction:   direction,
		Counterpart: FromUserSummary(counterpart),
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// FromMentorship converts a mentorship request seen by viewerID
func FromMentorship(m *models.MentorshipRequest, viewerID int64, counterpart *models.User) MentorshipResponse {
	direction := "received"
	if m.MenteeID == viewerID {
		direction = "sent"
	}
	return MentorshipResponse{
		ID:          m.ID,
		Subject:     m.Subject,
		Message:     m.Message,
		Status:      string(m.Status),
		Direction:   direction,
		Counterpart: FromUserSummary(counterpart),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
