package models

import "time"

// Connection is a directed request between two users. At most one row exists per unordered pair.
type Connection struct {
	ID         int64            `json:"id" db:"id"`
	SenderID   int64            `json:"senderId" db:"sender_id"`
	ReceiverID int64            `json:"receiverId" db:"receiver_id"`
	Status     ConnectionStatus `json:"status" db:"status"`
	Message    string           `json:"message" db:"message"`
	CreatedAt  time.Time        `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time        `json:"updatedAt" db:"updated_at"`

	Sender   *User `json:"sender,omitempty"`   // Relation, no db tag
	Receiver *User `json:"receiver,omitempty"` // Relation, no db tag
}

// Counterpart returns the id of the other side of the connection
func (c *Connection) Counterpart(userID int64) int64 {
	if c.SenderID == userID {
		return c.ReceiverID
	}
	return c.SenderID
}

// MentorshipRequest is a mentee asking a mentor for guidance. Pairs are not unique.
type MentorshipRequest struct {
	ID        int64            `json:"id" db:"id"`
	MenteeID  int64            `json:"menteeId" db:"mentee_id"`
	MentorID  int64            `json:"mentorId" db:"mentor_id"`
	Subject   string           `json:"subject" db:"subject"`
	Message   string           `json:"message" db:"message"`
	Status    MentorshipStatus `json:"status" db:"status"`
	CreatedAt time.Time        `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time        `json:"updatedAt" db:"updated_at"`

	Mentee *User `json:"mentee,omitempty"` // Relation, no db tag
	Mentor *User `json:"mentor,omitempty"` // Relation, no db tag
}
