package models

// RoleType defines the user role type. It is chosen at signup and never updated.
type RoleType string

const (
	RoleStudent    RoleType = "student"
	RoleAlumni     RoleType = "alumni"
	RoleUniversity RoleType = "university"
	RoleCompany    RoleType = "company"
)

// Valid reports whether r is one of the known roles
func (r RoleType) Valid() bool {
	switch r {
	case RoleStudent, RoleAlumni, RoleUniversity, RoleCompany:
		return true
	}
	return false
}

// ConnectionStatus is the state of a connection request
type ConnectionStatus string

const (
	ConnectionPending  ConnectionStatus = "pending"
	ConnectionAccepted ConnectionStatus = "accepted"
	ConnectionDeclined ConnectionStatus = "declined"
)

// MentorshipStatus is the state of a mentorship request.
// MentorshipCompleted has no transition leading to it.
type MentorshipStatus string

const (
	MentorshipPending   MentorshipStatus = "pending"
	MentorshipAccepted  MentorshipStatus = "accepted"
	MentorshipDeclined  MentorshipStatus = "declined"
	MentorshipCompleted MentorshipStatus = "completed"
)

// RegistrationStatus is the state of an event registration.
// Unregistering deletes the row, so RegistrationCancelled is never written.
type RegistrationStatus string

const (
	RegistrationRegistered RegistrationStatus = "registered"
	RegistrationAttended   RegistrationStatus = "attended"
	RegistrationCancelled  RegistrationStatus = "cancelled"
)

// ApplicationStatus is the state of a job application
type ApplicationStatus string

const (
	ApplicationApplied   ApplicationStatus = "applied"
	ApplicationReviewing ApplicationStatus = "reviewing"
	ApplicationInterview ApplicationStatus = "interview"
	ApplicationAccepted  ApplicationStatus = "accepted"
	ApplicationRejected  ApplicationStatus = "rejected"
)

// ResponseAction is the counterpart's answer to a pending request
type ResponseAction string

const (
	ActionAccept  ResponseAction = "accept"
	ActionDecline ResponseAction = "decline"
)
