package services

import (
	"context"
	"errors"
	"mime/multipart"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/gradlink/alumni/internal/app/models"
	"github.com/gradlink/alumni/internal/app/models/dto"
	"github.com/gradlink/alumni/internal/pkg/apperrors"
	"github.com/gradlink/alumni/internal/pkg/auth"
	"github.com/gradlink/alumni/internal/pkg/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

func mockClock() *clock.Mock {
	mock := clock.NewMock()
	mock.Set(now)
	return mock
}

func members(n int) *fakeUsers {
	users := newFakeUsers()
	for i := 1; i <= n; i++ {
		users.rows[int64(i)] = &models.User{
			ID:        int64(i),
			Email:     "user" + string(rune('0'+i)) + "@alumni.edu",
			Username:  "user" + string(rune('0'+i)),
			FirstName: "User",
			RoleType:  models.RoleAlumni,
		}
	}
	return users
}

func TestConnectionPairIsUniqueInBothDirections(t *testing.T) {
	ctx := context.Background()
	outbox := &fakeOutbox{}
	conns := &fakeConnections{}
	svc := NewConnectionService(conns, members(3), NewNotifier(outbox, mockClock(), zerolog.Nop()), zerolog.Nop())

	created, err := svc.RequestConnection(ctx, 1, &dto.CreateConnectionRequest{ReceiverID: 2, Message: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "pending", created.Status)
	assert.Equal(t, "sent", created.Direction)
	require.NotNil(t, created.Counterpart)
	assert.Equal(t, int64(2), created.Counterpart.ID)

	_, err = svc.RequestConnection(ctx, 1, &dto.CreateConnectionRequest{ReceiverID: 2})
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	_, err = svc.RequestConnection(ctx, 2, &dto.CreateConnectionRequest{ReceiverID: 1})
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	_, err = svc.RequestConnection(ctx, 1, &dto.CreateConnectionRequest{ReceiverID: 1})
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)

	_, err = svc.RequestConnection(ctx, 1, &dto.CreateConnectionRequest{ReceiverID: 99})
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)

	assert.Len(t, conns.rows, 1)
	assert.Equal(t, []string{models.EventConnectionRequested}, outbox.types())
}

func TestRespondConnection(t *testing.T) {
	ctx := context.Background()
	outbox := &fakeOutbox{}
	conns := &fakeConnections{}
	svc := NewConnectionService(conns, members(3), NewNotifier(outbox, mockClock(), zerolog.Nop()), zerolog.Nop())

	first, err := svc.RequestConnection(ctx, 1, &dto.CreateConnectionRequest{ReceiverID: 2})
	require.NoError(t, err)
	second, err := svc.RequestConnection(ctx, 3, &dto.CreateConnectionRequest{ReceiverID: 1})
	require.NoError(t, err)

	// only the receiver may answer
	_, err = svc.RespondConnection(ctx, 1, first.ID, models.ActionAccept)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)

	accepted, err := svc.RespondConnection(ctx, 2, first.ID, models.ActionAccept)
	require.NoError(t, err)
	assert.Equal(t, "accepted", accepted.Status)
	assert.Equal(t, "received", accepted.Direction)

	_, err = svc.RespondConnection(ctx, 2, first.ID, models.ActionDecline)
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	mine, err := svc.ListMyConnections(ctx, 1)
	require.NoError(t, err)
	require.Len(t, mine.Accepted, 1)
	assert.Equal(t, int64(2), mine.Accepted[0].Counterpart.ID)
	assert.Empty(t, mine.SentPending)
	require.Len(t, mine.ReceivedPending, 1)
	assert.Equal(t, second.ID, mine.ReceivedPending[0].ID)

	assert.Contains(t, outbox.types(), models.EventConnectionResponded)
	assert.Equal(t, int64(1), outbox.events[len(outbox.events)-1].AggregateID)
}

func TestDeclinedConnectionBlocksNewRequest(t *testing.T) {
	ctx := context.Background()
	svc := NewConnectionService(&fakeConnections{}, members(2), NewNotifier(&fakeOutbox{}, mockClock(), zerolog.Nop()), zerolog.Nop())

	conn, err := svc.RequestConnection(ctx, 1, &dto.CreateConnectionRequest{ReceiverID: 2})
	require.NoError(t, err)
	_, err = svc.RespondConnection(ctx, 2, conn.ID, models.ActionDecline)
	require.NoError(t, err)

	_, err = svc.RequestConnection(ctx, 1, &dto.CreateConnectionRequest{ReceiverID: 2})
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestMentorship(t *testing.T) {
	ctx := context.Background()
	profiles := newFakeProfiles()
	profiles.profiles[2] = &models.UserProfile{UserID: 2, IsMentor: true}
	mentorships := &fakeMentorships{}
	outbox := &fakeOutbox{}
	svc := NewMentorshipService(mentorships, profiles, members(3), NewNotifier(outbox, mockClock(), zerolog.Nop()), zerolog.Nop())

	_, err := svc.RequestMentorship(ctx, 1, &dto.CreateMentorshipRequest{MentorID: 3, Subject: "career"})
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)

	_, err = svc.RequestMentorship(ctx, 2, &dto.CreateMentorshipRequest{MentorID: 2, Subject: "career"})
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)

	first, err := svc.RequestMentorship(ctx, 1, &dto.CreateMentorshipRequest{MentorID: 2, Subject: "career"})
	require.NoError(t, err)
	assert.Equal(t, "pending", first.Status)

	// repeated requests to the same mentor are allowed
	_, err = svc.RequestMentorship(ctx, 1, &dto.CreateMentorshipRequest{MentorID: 2, Subject: "again"})
	require.NoError(t, err)

	_, err = svc.RespondMentorship(ctx, 1, first.ID, models.ActionAccept)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)

	resp, err := svc.RespondMentorship(ctx, 2, first.ID, models.ActionAccept)
	require.NoError(t, err)
	assert.Equal(t, "accepted", resp.Status)

	_, err = svc.RespondMentorship(ctx, 2, first.ID, models.ActionDecline)
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	mine, err := svc.ListMyMentorships(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, mine.Received, 2)
	assert.Empty(t, mine.Sent)

	assert.Equal(t, []string{
		models.EventMentorshipRequested,
		models.EventMentorshipRequested,
		models.EventMentorshipResponded,
	}, outbox.types())
}

func newEventService(events *fakeEvents, users *fakeUsers, clk clock.Clock, outbox *fakeOutbox) EventService {
	return NewEventService(events, events, users, NewNotifier(outbox, clk, zerolog.Nop()), clk, zerolog.Nop())
}

func TestRegisterCapacityScenario(t *testing.T) {
	ctx := context.Background()
	capacity := 2
	deadline := now.Add(48 * time.Hour)
	events := newFakeEvents(&models.Event{
		ID: 1, OrganizerID: 9, MaxAttendees: &capacity, RegistrationDeadline: &deadline,
		StartDate: now.Add(72 * time.Hour), EndDate: now.Add(75 * time.Hour),
	})
	users := members(9)
	svc := newEventService(events, users, mockClock(), &fakeOutbox{})

	r1, err := svc.Register(ctx, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, r1.AttendeeCount)

	r2, err := svc.Register(ctx, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, r2.AttendeeCount)

	_, err = svc.Register(ctx, 3, 1)
	assert.ErrorIs(t, err, apperrors.ErrCapacityExceeded)

	require.NoError(t, svc.Unregister(ctx, 1, 1))
	event, err := svc.GetEvent(ctx, 3, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, event.AttendeeCount)

	r3, err := svc.Register(ctx, 3, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, r3.AttendeeCount)
}

func TestRegisterGuards(t *testing.T) {
	ctx := context.Background()
	past := now.Add(-time.Hour)
	capacity := 1

	tests := []struct {
		name    string
		event   *models.Event
		setup   func(t *testing.T, svc EventService)
		userID  int64
		wantErr error
	}{
		{
			name:    "organizer",
			event:   &models.Event{ID: 1, OrganizerID: 5},
			userID:  5,
			wantErr: apperrors.ErrPermissionDenied,
		},
		{
			name:    "deadline passed",
			event:   &models.Event{ID: 1, OrganizerID: 5, RegistrationDeadline: &past},
			userID:  1,
			wantErr: apperrors.ErrDeadlineExceeded,
		},
		{
			name:  "full",
			event: &models.Event{ID: 1, OrganizerID: 5, MaxAttendees: &capacity},
			setup: func(t *testing.T, svc EventService) {
				_, err := svc.Register(ctx, 2, 1)
				require.NoError(t, err)
			},
			userID:  1,
			wantErr: apperrors.ErrCapacityExceeded,
		},
		{
			name:  "already registered",
			event: &models.Event{ID: 1, OrganizerID: 5},
			setup: func(t *testing.T, svc EventService) {
				_, err := svc.Register(ctx, 1, 1)
				require.NoError(t, err)
			},
			userID:  1,
			wantErr: apperrors.ErrConflict,
		},
		{
			name:  "already holding the last seat",
			event: &models.Event{ID: 1, OrganizerID: 5, MaxAttendees: &capacity},
			setup: func(t *testing.T, svc EventService) {
				_, err := svc.Register(ctx, 1, 1)
				require.NoError(t, err)
			},
			userID:  1,
			wantErr: apperrors.ErrConflict,
		},
		{
			name:    "organizer check comes before the deadline",
			event:   &models.Event{ID: 1, OrganizerID: 5, RegistrationDeadline: &past},
			userID:  5,
			wantErr: apperrors.ErrPermissionDenied,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events := newFakeEvents(tt.event)
			svc := newEventService(events, members(5), mockClock(), &fakeOutbox{})
			if tt.setup != nil {
				tt.setup(t, svc)
			}
			_, err := svc.Register(ctx, tt.userID, 1)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestDoubleRegisterAddsOneRow(t *testing.T) {
	ctx := context.Background()
	events := newFakeEvents(&models.Event{ID: 1, OrganizerID: 5, StartDate: now.Add(time.Hour)})
	outbox := &fakeOutbox{}
	svc := newEventService(events, members(5), mockClock(), outbox)

	_, err := svc.Register(ctx, 1, 1)
	require.NoError(t, err)
	_, err = svc.Register(ctx, 1, 1)
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	count, err := events.CountRegistered(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	require.Len(t, outbox.events, 1)
	assert.Equal(t, models.EventEventRegistered, outbox.events[0].EventType)
	assert.Contains(t, string(outbox.events[0].Payload), `"recipientId":5`)
}

func TestDeadlineFollowsClock(t *testing.T) {
	ctx := context.Background()
	deadline := now.Add(time.Hour)
	events := newFakeEvents(&models.Event{ID: 1, OrganizerID: 5, RegistrationDeadline: &deadline})
	clk := mockClock()
	svc := newEventService(events, members(5), clk, &fakeOutbox{})

	_, err := svc.Register(ctx, 1, 1)
	require.NoError(t, err)

	clk.Add(2 * time.Hour)
	_, err = svc.Register(ctx, 2, 1)
	assert.ErrorIs(t, err, apperrors.ErrDeadlineExceeded)
}

func TestUnregisterWithoutRegistration(t *testing.T) {
	events := newFakeEvents(&models.Event{ID: 1, OrganizerID: 5})
	svc := newEventService(events, members(5), mockClock(), &fakeOutbox{})

	err := svc.Unregister(context.Background(), 1, 1)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestEventLifecycle(t *testing.T) {
	ctx := context.Background()
	events := newFakeEvents()
	svc := newEventService(events, members(3), mockClock(), &fakeOutbox{})

	req := &dto.EventRequest{
		Title:     "Reunion",
		EventType: models.EventSocial,
		StartDate: now.Add(24 * time.Hour),
		EndDate:   now.Add(20 * time.Hour),
	}
	_, err := svc.CreateEvent(ctx, 1, req)
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)

	req.EndDate = now.Add(27 * time.Hour)
	created, err := svc.CreateEvent(ctx, 1, req)
	require.NoError(t, err)
	assert.True(t, created.IsOrganizer)
	require.NotNil(t, created.Organizer)
	assert.Equal(t, int64(1), created.Organizer.ID)

	_, err = svc.UpdateEvent(ctx, 2, created.ID, req)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)

	req.Title = "Reunion 2026"
	updated, err := svc.UpdateEvent(ctx, 1, created.ID, req)
	require.NoError(t, err)
	assert.Equal(t, "Reunion 2026", updated.Title)

	_, err = svc.Register(ctx, 2, created.ID)
	require.NoError(t, err)

	list, err := svc.ListEvents(ctx, 2, dto.EventQuery{}, 1, 10)
	require.NoError(t, err)
	require.Len(t, list.Events, 1)
	assert.True(t, list.Events[0].IsRegistered)
	assert.Equal(t, int64(1), list.Pagination.TotalItems)

	past, err := svc.ListEvents(ctx, 2, dto.EventQuery{Time: "past"}, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, past.Events)

	mine, err := svc.ListMyEvents(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, mine.Organized)
	assert.Len(t, mine.Registered, 1)

	assert.ErrorIs(t, svc.DeleteEvent(ctx, 2, created.ID), apperrors.ErrResourceNotFound)
	require.NoError(t, svc.DeleteEvent(ctx, 1, created.ID))
	_, err = svc.GetEvent(ctx, 0, created.ID)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestToggleLikeTwiceRestoresState(t *testing.T) {
	ctx := context.Background()
	posts := newFakePosts(&models.Post{ID: 1, AuthorID: 1, Content: "hello"})
	svc := NewCommunityService(posts, fakeComments{posts}, members(2), zerolog.Nop())

	before, err := svc.GetPost(ctx, 2, 1)
	require.NoError(t, err)

	liked, err := svc.ToggleLike(ctx, 2, 1)
	require.NoError(t, err)
	assert.True(t, liked.Liked)
	assert.Equal(t, before.LikeCount+1, liked.LikeCount)

	unliked, err := svc.ToggleLike(ctx, 2, 1)
	require.NoError(t, err)
	assert.False(t, unliked.Liked)
	assert.Equal(t, before.LikeCount, unliked.LikeCount)

	after, err := svc.GetPost(ctx, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, before.LikedByMe, after.LikedByMe)

	_, err = svc.ToggleLike(ctx, 2, 42)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestCommentsFormATree(t *testing.T) {
	ctx := context.Background()
	posts := newFakePosts(
		&models.Post{ID: 1, AuthorID: 1, Content: "first"},
		&models.Post{ID: 2, AuthorID: 1, Content: "second"},
	)
	svc := NewCommunityService(posts, fakeComments{posts}, members(2), zerolog.Nop())

	top, err := svc.CreateComment(ctx, 2, 1, &dto.CreateCommentRequest{Content: "nice"})
	require.NoError(t, err)
	require.NotNil(t, top.Author)

	_, err = svc.CreateComment(ctx, 1, 1, &dto.CreateCommentRequest{Content: "thanks", ParentID: &top.ID})
	require.NoError(t, err)

	// a reply must stay on the parent's post
	_, err = svc.CreateComment(ctx, 1, 2, &dto.CreateCommentRequest{Content: "wrong post", ParentID: &top.ID})
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)

	post, err := svc.GetPost(ctx, 0, 1)
	require.NoError(t, err)
	require.Len(t, post.Comments, 1)
	require.Len(t, post.Comments[0].Replies, 1)
	assert.Equal(t, "thanks", post.Comments[0].Replies[0].Content)
}

func TestCreateAndDeletePost(t *testing.T) {
	ctx := context.Background()
	posts := newFakePosts()
	svc := NewCommunityService(posts, fakeComments{posts}, members(2), zerolog.Nop())

	created, err := svc.CreatePost(ctx, 1, &dto.CreatePostRequest{Content: "Hiring!", Tags: []string{" go ", "Go", ""}})
	require.NoError(t, err)
	assert.Equal(t, "text", created.PostType)
	assert.Equal(t, []string{"go"}, created.Tags)

	feed, err := svc.ListFeed(ctx, 2, dto.FeedQuery{}, 1, 10)
	require.NoError(t, err)
	assert.Len(t, feed.Posts, 1)

	assert.ErrorIs(t, svc.DeletePost(ctx, 2, created.ID), apperrors.ErrResourceNotFound)
	require.NoError(t, svc.DeletePost(ctx, 1, created.ID))

	mine, err := svc.ListMyPosts(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, mine)
}

func TestApply(t *testing.T) {
	ctx := context.Background()
	jobs := newFakeJobs(&models.Job{ID: 1, Title: "Backend Engineer", Company: "Acme", PostedBy: 3})
	files := &fakeFiles{}
	outbox := &fakeOutbox{}
	svc := NewJobService(jobs, fakeApplications{fakeJobs: jobs}, members(3), files, NewNotifier(outbox, mockClock(), zerolog.Nop()), zerolog.Nop())

	_, err := svc.Apply(ctx, 1, 1, "", &multipart.FileHeader{Filename: "cv.exe", Size: 10})
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)

	app, err := svc.Apply(ctx, 1, 1, "Hire me", &multipart.FileHeader{Filename: "cv.pdf", Size: 10})
	require.NoError(t, err)
	assert.Equal(t, "applied", app.Status)
	assert.Equal(t, "Backend Engineer", app.JobTitle)
	require.NotNil(t, app.ResumeURL)

	_, err = svc.Apply(ctx, 1, 1, "again", nil)
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	_, err = svc.Apply(ctx, 1, 7, "", nil)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)

	job, err := svc.GetJob(ctx, 1, 1)
	require.NoError(t, err)
	assert.True(t, job.HasApplied)

	list, err := svc.ListJobs(ctx, 2, dto.JobQuery{}, 1, 10)
	require.NoError(t, err)
	require.Len(t, list.Jobs, 1)
	assert.False(t, list.Jobs[0].HasApplied)

	mine, err := svc.ListMyApplications(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	assert.Equal(t, []string{models.EventJobApplied}, outbox.types())
}

func TestApplyRemovesResumeWhenInsertFails(t *testing.T) {
	jobs := newFakeJobs(&models.Job{ID: 1, PostedBy: 3})
	files := &fakeFiles{}
	apps := fakeApplications{fakeJobs: jobs, createErr: errors.New("connection reset")}
	svc := NewJobService(jobs, apps, members(3), files, NewNotifier(&fakeOutbox{}, mockClock(), zerolog.Nop()), zerolog.Nop())

	_, err := svc.Apply(context.Background(), 1, 1, "", &multipart.FileHeader{Filename: "cv.pdf", Size: 10})
	require.Error(t, err)
	assert.Equal(t, files.saved, files.deleted)
}

func TestPostJobSalaryRange(t *testing.T) {
	jobs := newFakeJobs()
	svc := NewJobService(jobs, fakeApplications{fakeJobs: jobs}, members(1), &fakeFiles{}, NewNotifier(&fakeOutbox{}, mockClock(), zerolog.Nop()), zerolog.Nop())

	low, high := 90000, 60000
	_, err := svc.PostJob(context.Background(), 1, &dto.JobRequest{Title: "SRE", SalaryMin: &low, SalaryMax: &high})
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)

	high = 120000
	job, err := svc.PostJob(context.Background(), 1, &dto.JobRequest{Title: "SRE", SalaryMin: &low, SalaryMax: &high})
	require.NoError(t, err)
	require.NotNil(t, job.PostedBy)
	assert.Equal(t, int64(1), job.PostedBy.ID)
}

func TestMessages(t *testing.T) {
	ctx := context.Background()
	messages := &fakeMessages{}
	pusher := &fakePusher{}
	outbox := &fakeOutbox{}
	svc := NewMessageService(messages, members(3), NewNotifier(outbox, mockClock(), zerolog.Nop()), pusher, mockClock(), zerolog.Nop())

	_, err := svc.SendMessage(ctx, 1, &dto.SendMessageRequest{ReceiverID: 9, Content: "hello"})
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)

	sent, err := svc.SendMessage(ctx, 1, &dto.SendMessageRequest{ReceiverID: 2, Subject: "Hi", Content: "hello"})
	require.NoError(t, err)
	assert.False(t, sent.IsRead)
	require.Len(t, pusher.frames[2], 1)
	assert.Equal(t, websocket.FrameMessageNew, pusher.frames[2][0].Type)
	assert.Equal(t, []string{models.EventMessageSent}, outbox.types())

	inbox, err := svc.Inbox(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, inbox.UnreadCount)
	require.Len(t, inbox.Received, 1)
	assert.Equal(t, int64(1), inbox.Received[0].Sender.ID)

	// reading as the sender does not mark it read
	_, err = svc.GetMessage(ctx, 1, sent.ID)
	require.NoError(t, err)
	assert.False(t, messages.rows[0].IsRead)

	read, err := svc.GetMessage(ctx, 2, sent.ID)
	require.NoError(t, err)
	assert.True(t, read.IsRead)
	assert.True(t, messages.rows[0].IsRead)

	_, err = svc.GetMessage(ctx, 3, sent.ID)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func newAccountService(users *fakeUsers, profiles *fakeProfiles, conns *fakeConnections, files *fakeFiles) AccountService {
	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:       "test-secret",
		AccessTokenExp:  15 * time.Minute,
		RefreshTokenExp: time.Hour,
		TokenIssuer:     "gradlink.test",
	}, nil)
	return NewAccountService(users, profiles, conns, files, jwtService, zerolog.Nop())
}

func TestRegisterLoginRefresh(t *testing.T) {
	ctx := context.Background()
	svc := newAccountService(newFakeUsers(), newFakeProfiles(), &fakeConnections{}, &fakeFiles{})

	registered, err := svc.Register(ctx, &dto.RegisterRequest{
		Email: " Jane@Alumni.edu ", Username: "jane", Password: "s3cretpassw0rd",
		FirstName: "Jane", LastName: "Doe", RoleType: models.RoleAlumni,
	})
	require.NoError(t, err)
	assert.Equal(t, "jane@alumni.edu", registered.User.Email)
	assert.NotEmpty(t, registered.Token.AccessToken)

	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "jane@alumni.edu", Password: "wrong"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "nobody@alumni.edu", Password: "wrong"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	loggedIn, err := svc.Login(ctx, &dto.LoginRequest{Email: "jane@alumni.edu", Password: "s3cretpassw0rd"})
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(ctx, loggedIn.Token.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "Bearer", refreshed.TokenType)

	_, err = svc.RefreshToken(ctx, loggedIn.Token.AccessToken)
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)
}

func TestGetUserHidesContactDetails(t *testing.T) {
	ctx := context.Background()
	users := members(2)
	users.rows[2].Phone = "+49 30 1234"
	profiles := newFakeProfiles()
	profiles.entries[2] = &models.DirectoryEntry{UserID: 2, IsPublic: true, AllowContact: false}
	conns := &fakeConnections{rows: []*models.Connection{{ID: 1, SenderID: 1, ReceiverID: 2, Status: models.ConnectionAccepted}}}
	svc := newAccountService(users, profiles, conns, &fakeFiles{})

	other, err := svc.GetUser(ctx, 1, 2)
	require.NoError(t, err)
	assert.Empty(t, other.User.Phone)
	assert.Empty(t, other.User.Email)
	assert.Equal(t, "accepted", other.ConnectionStatus)

	self, err := svc.GetUser(ctx, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, "+49 30 1234", self.User.Phone)

	profiles.entries[2].AllowContact = true
	other, err = svc.GetUser(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, "+49 30 1234", other.User.Phone)
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()
	profiles := newFakeProfiles()
	svc := newAccountService(members(1), profiles, &fakeConnections{}, &fakeFiles{})

	private := false
	me, err := svc.UpdateProfile(ctx, 1, &dto.UpdateProfileRequest{
		FirstName: "Ada", LastName: "Lovelace", Industry: "Software",
		Skills: []string{"Go", "go", "SQL"}, IsMentor: true, IsPublic: &private,
	})
	require.NoError(t, err)
	assert.Equal(t, "Ada", me.User.FirstName)
	assert.Equal(t, []string{"Go", "SQL"}, me.Profile.Skills)
	assert.True(t, me.Profile.IsMentor)
	assert.False(t, me.Directory.IsPublic)
	assert.True(t, me.Directory.AllowContact)
}

func TestProfilePictureReplacesOldFile(t *testing.T) {
	ctx := context.Background()
	users := members(1)
	old := "/uploads/profile_pictures/old.png"
	users.rows[1].ProfilePictureURL = &old
	files := &fakeFiles{}
	svc := newAccountService(users, newFakeProfiles(), &fakeConnections{}, files)

	_, err := svc.UpdateProfilePicture(ctx, 1, &multipart.FileHeader{Filename: "me.pdf", Size: 10})
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)

	resp, err := svc.UpdateProfilePicture(ctx, 1, &multipart.FileHeader{Filename: "me.png", Size: 10})
	require.NoError(t, err)
	assert.Equal(t, "/uploads/profile_pictures/me.png", resp.ProfilePictureURL)
	assert.Equal(t, []string{old}, files.deleted)
}

func TestDeleteAccount(t *testing.T) {
	ctx := context.Background()
	users := newFakeUsers()
	svc := newAccountService(users, newFakeProfiles(), &fakeConnections{}, &fakeFiles{})

	reg, err := svc.Register(ctx, &dto.RegisterRequest{
		Email: "sam@alumni.edu", Username: "sam", Password: "s3cretpassw0rd", RoleType: models.RoleStudent,
	})
	require.NoError(t, err)

	err = svc.DeleteAccount(ctx, reg.User.ID, "nope")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	require.NoError(t, svc.DeleteAccount(ctx, reg.User.ID, "s3cretpassw0rd"))
	assert.Equal(t, []int64{reg.User.ID}, users.deleted)
}

func TestDashboard(t *testing.T) {
	ctx := context.Background()
	clk := mockClock()
	events := newFakeEvents(
		&models.Event{ID: 1, OrganizerID: 2, StartDate: now.Add(time.Hour)},
		&models.Event{ID: 2, OrganizerID: 2, StartDate: now.Add(-time.Hour)},
	)
	jobs := newFakeJobs(&models.Job{ID: 1, PostedBy: 2})
	posts := newFakePosts(&models.Post{ID: 1, AuthorID: 2})
	conns := &fakeConnections{rows: []*models.Connection{{ID: 1, SenderID: 2, ReceiverID: 1, Status: models.ConnectionPending}}}
	messages := &fakeMessages{rows: []*models.Message{{ID: 1, SenderID: 2, ReceiverID: 1}}}
	svc := NewHomeService(jobs, events, posts, conns, messages, members(2), clk, zerolog.Nop())

	home, err := svc.Home(ctx)
	require.NoError(t, err)
	assert.Len(t, home.RecentJobs, 1)
	require.Len(t, home.UpcomingEvents, 1)
	assert.Equal(t, int64(1), home.UpcomingEvents[0].ID)
	assert.Len(t, home.RecentPosts, 1)

	dash, err := svc.Dashboard(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), dash.User.ID)
	assert.Equal(t, 1, dash.PendingConnections)
	assert.Equal(t, 1, dash.UnreadMessages)
}
