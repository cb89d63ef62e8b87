package repositories

import (
	"github.com/Masterminds/squirrel"
	"github.com/gradlink/alumni/internal/db"
)

// psql builds statements with PostgreSQL $n placeholders
var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository              *UserRepository
	ProfileRepository           *ProfileRepository
	UniversityRepository        *UniversityRepository
	DirectoryRepository         *DirectoryRepository
	ConnectionRepository        *ConnectionRepository
	MentorshipRepository        *MentorshipRepository
	EventRepository             *EventRepository
	EventRegistrationRepository *EventRegistrationRepository
	JobRepository               *JobRepository
	JobApplicationRepository    *JobApplicationRepository
	PostRepository              *PostRepository
	CommentRepository           *CommentRepository
	MessageRepository           *MessageRepository
	OutboxRepository            *OutboxRepository
}

// NewRepositories initializes all repositories
func NewRepositories(pool db.Pool) *Repositories {
	return &Repositories{
		UserRepository:              NewUserRepository(pool),
		ProfileRepository:           NewProfileRepository(pool),
		UniversityRepository:        NewUniversityRepository(pool),
		DirectoryRepository:         NewDirectoryRepository(pool),
		ConnectionRepository:        NewConnectionRepository(pool),
		MentorshipRepository:        NewMentorshipRepository(pool),
		EventRepository:             NewEventRepository(pool),
		EventRegistrationRepository: NewEventRegistrationRepository(pool),
		JobRepository:               NewJobRepository(pool),
		JobApplicationRepository:    NewJobApplicationRepository(pool),
		PostRepository:              NewPostRepository(pool),
		CommentRepository:           NewCommentRepository(pool),
		MessageRepository:           NewMessageRepository(pool),
		OutboxRepository:            NewOutboxRepository(pool),
	}
}

// Page is a 1-based page request shared by the list queries
type Page struct {
	Number int
	Size   int
}

// offsetLimit converts the page into SQL OFFSET/LIMIT values
func (p Page) offsetLimit() (uint64, uint64) {
	size := p.Size
	if size <= 0 {
		size = 10
	}
	number := p.Number
	if number < 1 {
		number = 1
	}
	return uint64((number - 1) * size), uint64(size)
}

// likePattern wraps a search term for ILIKE
func likePattern(term string) string {
	return "%" + term + "%"
}
