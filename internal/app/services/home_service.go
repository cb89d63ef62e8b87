package services

import (
	"context"

	"github.com/benbjohnson/clock"
	"github.com/gradlink/alumni/internal/app/models/dto"
	"github.com/rs/zerolog"
)

// Landing page sizes
const (
	homeJobs        = 6
	homeEvents      = 4
	homePosts       = 5
	dashboardJobs   = 5
	dashboardEvents = 3
	dashboardPosts  = 4
)

// HomeService builds the landing pages
type HomeService interface {
	Home(ctx context.Context) (*dto.HomeResponse, error)
	Dashboard(ctx context.Context, userID int64) (*dto.DashboardResponse, error)
}

type homeServiceImpl struct {
	jobs        JobStore
	events      EventStore
	posts       PostStore
	connections ConnectionStore
	messages    MessageStore
	users       UserStore
	clock       clock.Clock
	logger      zerolog.Logger
}

// NewHomeService creates a new HomeService
func NewHomeService(
	jobs JobStore,
	events EventStore,
	posts PostStore,
	connections ConnectionStore,
	messages MessageStore,
	users UserStore,
	clk clock.Clock,
	logger zerolog.Logger,
) HomeService {
	return &homeServiceImpl{
		jobs:        jobs,
		events:      events,
		posts:       posts,
		connections: connections,
		messages:    messages,
		users:       users,
		clock:       clk,
		logger:      logger,
	}
}

// Home is the public teaser: recent jobs, upcoming events and recent posts
func (s *homeServiceImpl) Home(ctx context.Context) (*dto.HomeResponse, error) {
	jobs, events, posts, err := s.teasers(ctx, homeJobs, homeEvents, homePosts)
	if err != nil {
		return nil, err
	}
	return &dto.HomeResponse{
		RecentJobs:     jobs,
		UpcomingEvents: events,
		RecentPosts:    posts,
	}, nil
}

// Dashboard adds the caller's pending connection requests and unread messages
func (s *homeServiceImpl) Dashboard(ctx context.Context, userID int64) (*dto.DashboardResponse, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	jobs, events, posts, err := s.teasers(ctx, dashboardJobs, dashboardEvents, dashboardPosts)
	if err != nil {
		return nil, err
	}

	pending, err := s.connections.CountPendingReceived(ctx, userID)
	if err != nil {
		return nil, err
	}
	unread, err := s.messages.CountUnread(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &dto.DashboardResponse{
		User:               *dto.FromUserSummary(user),
		RecentJobs:         jobs,
		UpcomingEvents:     events,
		RecentPosts:        posts,
		PendingConnections: pending,
		UnreadMessages:     unread,
	}, nil
}

func (s *homeServiceImpl) teasers(ctx context.Context, jobLimit, eventLimit, postLimit uint64) ([]dto.JobResponse, []dto.EventResponse, []dto.PostResponse, error) {
	jobs, err := s.jobs.ListRecent(ctx, jobLimit)
	if err != nil {
		return nil, nil, nil, err
	}
	events, err := s.events.ListUpcoming(ctx, s.clock.Now(), eventLimit)
	if err != nil {
		return nil, nil, nil, err
	}
	posts, err := s.posts.ListRecent(ctx, postLimit)
	if err != nil {
		return nil, nil, nil, err
	}

	ids := make([]int64, 0, len(jobs)+len(events)+len(posts))
	for i := range jobs {
		ids = append(ids, jobs[i].PostedBy)
	}
	for i := range events {
		ids = append(ids, events[i].OrganizerID)
	}
	for i := range posts {
		ids = append(ids, posts[i].AuthorID)
	}
	users, err := loadUsers(ctx, s.users, ids)
	if err != nil {
		return nil, nil, nil, err
	}

	jobOut := make([]dto.JobResponse, 0, len(jobs))
	for i := range jobs {
		jobs[i].Poster = users[jobs[i].PostedBy]
		jobOut = append(jobOut, dto.FromJob(&jobs[i], false))
	}
	eventOut := make([]dto.EventResponse, 0, len(events))
	for i := range events {
		events[i].Organizer = users[events[i].OrganizerID]
		eventOut = append(eventOut, dto.FromEvent(&events[i], 0, false))
	}
	postOut := make([]dto.PostResponse, 0, len(posts))
	for i := range posts {
		posts[i].Author = users[posts[i].AuthorID]
		postOut = append(postOut, dto.FromPost(&posts[i], false))
	}
	return jobOut, eventOut, postOut, nil
}
