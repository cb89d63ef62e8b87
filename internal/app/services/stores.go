package services

import (
	"context"
	"mime/multipart"
	"time"

	"github.com/gradlink/alumni/internal/app/models"
	"github.com/gradlink/alumni/internal/app/repositories"
	"github.com/gradlink/alumni/internal/pkg/filestorage"
	"github.com/gradlink/alumni/internal/pkg/websocket"
)

// The store interfaces list what each service needs from the repositories package.
// The concrete repositories satisfy them; tests use in-memory fakes.

// UserStore is the identity side of UserRepository
type UserStore interface {
	Create(ctx context.Context, user *models.User) (int64, error)
	FindByID(ctx context.Context, id int64) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByIDs(ctx context.Context, ids []int64) (map[int64]*models.User, error)
	Exists(ctx context.Context, id int64) (bool, error)
	UpdatePersonal(ctx context.Context, user *models.User) error
	UpdateProfilePicture(ctx context.Context, userID int64, url string) error
	DeleteCascade(ctx context.Context, userID int64) error
}

// ProfileStore covers profiles and directory settings
type ProfileStore interface {
	GetOrCreate(ctx context.Context, userID int64) (*models.UserProfile, error)
	Update(ctx context.Context, p *models.UserProfile) error
	IsMentor(ctx context.Context, userID int64) (bool, error)
	GetDirectoryEntry(ctx context.Context, userID int64) (*models.DirectoryEntry, error)
	UpsertDirectoryEntry(ctx context.Context, e *models.DirectoryEntry) error
}

// UniversityStore lists universities
type UniversityStore interface {
	List(ctx context.Context) ([]models.University, error)
}

// DirectoryStore runs member searches
type DirectoryStore interface {
	Search(ctx context.Context, f repositories.DirectoryFilter) ([]models.Member, int64, error)
	GraduationYears(ctx context.Context) ([]int, error)
	Industries(ctx context.Context) ([]string, error)
}

// ConnectionStore is the connection ledger
type ConnectionStore interface {
	ExistsBetween(ctx context.Context, a, b int64) (bool, error)
	FindBetween(ctx context.Context, a, b int64) (*models.Connection, error)
	Create(ctx context.Context, c *models.Connection) error
	FindForReceiver(ctx context.Context, id, receiverID int64) (*models.Connection, error)
	Transition(ctx context.Context, id int64, from, to models.ConnectionStatus) error
	ListForUser(ctx context.Context, userID int64) ([]models.Connection, error)
	CountPendingReceived(ctx context.Context, userID int64) (int, error)
}

// MentorshipStore is the mentorship ledger
type MentorshipStore interface {
	Create(ctx context.Context, m *models.MentorshipRequest) error
	FindForMentor(ctx context.Context, id, mentorID int64) (*models.MentorshipRequest, error)
	Transition(ctx context.Context, id int64, from, to models.MentorshipStatus) error
	ListForUser(ctx context.Context, userID int64) ([]models.MentorshipRequest, error)
}

// EventStore holds events and categories
type EventStore interface {
	Create(ctx context.Context, e *models.Event) error
	Update(ctx context.Context, e *models.Event) error
	Delete(ctx context.Context, id, organizerID int64) error
	FindActiveByID(ctx context.Context, id int64) (*models.Event, error)
	List(ctx context.Context, f repositories.EventFilter) ([]models.Event, int64, error)
	ListUpcoming(ctx context.Context, now time.Time, limit uint64) ([]models.Event, error)
	ListByOrganizer(ctx context.Context, organizerID int64) ([]models.Event, error)
	ListRegisteredBy(ctx context.Context, userID int64) ([]models.Event, error)
	ListCategories(ctx context.Context) ([]models.EventCategory, error)
}

// RegistrationStore holds event registrations
type RegistrationStore interface {
	Register(ctx context.Context, eventID, userID int64, guard repositories.RegistrationGuard) (*models.EventRegistration, error)
	Unregister(ctx context.Context, eventID, userID int64) error
	IsRegistered(ctx context.Context, eventID, userID int64) (bool, error)
	CountRegistered(ctx context.Context, eventID int64) (int, error)
	RegisteredAmong(ctx context.Context, userID int64, eventIDs []int64) (map[int64]bool, error)
}

// JobStore holds job postings and categories
type JobStore interface {
	Create(ctx context.Context, j *models.Job) error
	FindActiveByID(ctx context.Context, id int64) (*models.Job, error)
	List(ctx context.Context, f repositories.JobFilter) ([]models.Job, int64, error)
	ListRecent(ctx context.Context, limit uint64) ([]models.Job, error)
	ListByPoster(ctx context.Context, userID int64) ([]models.Job, error)
	ListCategories(ctx context.Context) ([]models.JobCategory, error)
}

// ApplicationStore holds job applications
type ApplicationStore interface {
	Create(ctx context.Context, a *models.JobApplication) error
	HasApplied(ctx context.Context, jobID, userID int64) (bool, error)
	ListByApplicant(ctx context.Context, userID int64) ([]models.JobApplication, error)
	AppliedAmong(ctx context.Context, userID int64, jobIDs []int64) (map[int64]bool, error)
}

// PostStore holds feed posts and likes
type PostStore interface {
	Create(ctx context.Context, p *models.Post) error
	FindActiveByID(ctx context.Context, id int64) (*models.Post, error)
	ListFeed(ctx context.Context, f repositories.PostFilter) ([]models.Post, int64, error)
	ListRecent(ctx context.Context, limit uint64) ([]models.Post, error)
	ListByAuthor(ctx context.Context, authorID int64) ([]models.Post, error)
	Delete(ctx context.Context, id, authorID int64) error
	ToggleLike(ctx context.Context, postID, userID int64) (*repositories.LikeResult, error)
	LikedBy(ctx context.Context, userID int64, postIDs []int64) (map[int64]bool, error)
}

// CommentStore holds post comments
type CommentStore interface {
	Create(ctx context.Context, c *models.Comment) error
	FindByID(ctx context.Context, id int64) (*models.Comment, error)
	ListByPost(ctx context.Context, postID int64) ([]models.Comment, error)
}

// MessageStore holds private messages
type MessageStore interface {
	Create(ctx context.Context, m *models.Message) error
	FindForParticipant(ctx context.Context, id, userID int64) (*models.Message, error)
	ListReceived(ctx context.Context, userID int64) ([]models.Message, error)
	ListSent(ctx context.Context, userID int64) ([]models.Message, error)
	MarkRead(ctx context.Context, id, receiverID int64) error
	CountUnread(ctx context.Context, userID int64) (int, error)
}

// OutboxWriter appends domain events to the outbox
type OutboxWriter interface {
	Insert(ctx context.Context, e *models.OutboxEvent) error
}

// FileStore stores uploads. filestorage.LocalStorage implements it.
type FileStore interface {
	SaveFileWithPath(fileHeader *multipart.FileHeader, folder string, policy filestorage.Policy) (string, error)
	DeleteFile(fileURL string) error
}

// LivePusher delivers realtime frames. websocket.Hub implements it.
type LivePusher interface {
	SendToUser(userID int64, frame websocket.Frame)
}
