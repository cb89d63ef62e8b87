package services

import (
	"context"
	"mime/multipart"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gradlink/alumni/internal/app/models"
	"github.com/gradlink/alumni/internal/app/repositories"
	"github.com/gradlink/alumni/internal/pkg/apperrors"
	"github.com/gradlink/alumni/internal/pkg/filestorage"
	"github.com/gradlink/alumni/internal/pkg/websocket"
)

// In-memory stores mirroring the repository contracts the services rely on.

type fakeUsers struct {
	rows    map[int64]*models.User
	deleted []int64
}

func newFakeUsers(users ...*models.User) *fakeUsers {
	f := &fakeUsers{rows: map[int64]*models.User{}}
	for _, u := range users {
		f.rows[u.ID] = u
	}
	return f
}

func (f *fakeUsers) Create(_ context.Context, user *models.User) (int64, error) {
	for _, u := range f.rows {
		if u.Email == user.Email {
			return 0, apperrors.NewConflictError("a user with this email already exists")
		}
	}
	user.ID = int64(len(f.rows) + 1)
	cp := *user
	f.rows[user.ID] = &cp
	return user.ID, nil
}

func (f *fakeUsers) FindByID(_ context.Context, id int64) (*models.User, error) {
	u, ok := f.rows[id]
	if !ok {
		return nil, apperrors.NewResourceNotFoundError("user not found")
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.rows {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperrors.NewResourceNotFoundError("user not found")
}

func (f *fakeUsers) FindByIDs(_ context.Context, ids []int64) (map[int64]*models.User, error) {
	out := map[int64]*models.User{}
	for _, id := range ids {
		if u, ok := f.rows[id]; ok {
			cp := *u
			out[id] = &cp
		}
	}
	return out, nil
}

func (f *fakeUsers) Exists(_ context.Context, id int64) (bool, error) {
	_, ok := f.rows[id]
	return ok, nil
}

func (f *fakeUsers) UpdatePersonal(_ context.Context, user *models.User) error {
	cp := *user
	f.rows[user.ID] = &cp
	return nil
}

func (f *fakeUsers) UpdateProfilePicture(_ context.Context, userID int64, url string) error {
	f.rows[userID].ProfilePictureURL = &url
	return nil
}

func (f *fakeUsers) DeleteCascade(_ context.Context, userID int64) error {
	delete(f.rows, userID)
	f.deleted = append(f.deleted, userID)
	return nil
}

type fakeProfiles struct {
	profiles map[int64]*models.UserProfile
	entries  map[int64]*models.DirectoryEntry
}

func newFakeProfiles() *fakeProfiles {
	return &fakeProfiles{profiles: map[int64]*models.UserProfile{}, entries: map[int64]*models.DirectoryEntry{}}
}

func (f *fakeProfiles) GetOrCreate(_ context.Context, userID int64) (*models.UserProfile, error) {
	p, ok := f.profiles[userID]
	if !ok {
		p = &models.UserProfile{UserID: userID}
		f.profiles[userID] = p
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProfiles) Update(_ context.Context, p *models.UserProfile) error {
	cp := *p
	f.profiles[p.UserID] = &cp
	return nil
}

func (f *fakeProfiles) IsMentor(_ context.Context, userID int64) (bool, error) {
	p, ok := f.profiles[userID]
	return ok && p.IsMentor, nil
}

func (f *fakeProfiles) GetDirectoryEntry(_ context.Context, userID int64) (*models.DirectoryEntry, error) {
	if e, ok := f.entries[userID]; ok {
		cp := *e
		return &cp, nil
	}
	return &models.DirectoryEntry{UserID: userID, IsPublic: true, AllowContact: true}, nil
}

func (f *fakeProfiles) UpsertDirectoryEntry(_ context.Context, e *models.DirectoryEntry) error {
	cp := *e
	f.entries[e.UserID] = &cp
	return nil
}

type fakeConnections struct {
	rows []*models.Connection
}

func (f *fakeConnections) FindBetween(_ context.Context, a, b int64) (*models.Connection, error) {
	for _, c := range f.rows {
		if (c.SenderID == a && c.ReceiverID == b) || (c.SenderID == b && c.ReceiverID == a) {
			cp := *c
			return &cp, nil
		}
	}
	return nil, apperrors.NewResourceNotFoundError("connection not found")
}

func (f *fakeConnections) ExistsBetween(ctx context.Context, a, b int64) (bool, error) {
	_, err := f.FindBetween(ctx, a, b)
	return err == nil, nil
}

func (f *fakeConnections) Create(_ context.Context, c *models.Connection) error {
	c.ID = int64(len(f.rows) + 1)
	c.Status = models.ConnectionPending
	cp := *c
	f.rows = append(f.rows, &cp)
	return nil
}

func (f *fakeConnections) FindForReceiver(_ context.Context, id, receiverID int64) (*models.Connection, error) {
	for _, c := range f.rows {
		if c.ID == id && c.ReceiverID == receiverID {
			cp := *c
			return &cp, nil
		}
	}
	return nil, apperrors.NewResourceNotFoundError("connection request not found")
}

func (f *fakeConnections) Transition(_ context.Context, id int64, from, to models.ConnectionStatus) error {
	for _, c := range f.rows {
		if c.ID == id && c.Status == from {
			c.Status = to
			return nil
		}
	}
	return apperrors.NewConflictError("this request has already been answered")
}

func (f *fakeConnections) ListForUser(_ context.Context, userID int64) ([]models.Connection, error) {
	var out []models.Connection
	for _, c := range f.rows {
		if c.SenderID == userID || c.ReceiverID == userID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeConnections) CountPendingReceived(_ context.Context, userID int64) (int, error) {
	n := 0
	for _, c := range f.rows {
		if c.ReceiverID == userID && c.Status == models.ConnectionPending {
			n++
		}
	}
	return n, nil
}

type fakeMentorships struct {
	rows []*models.MentorshipRequest
}

func (f *fakeMentorships) Create(_ context.Context, m *models.MentorshipRequest) error {
	m.ID = int64(len(f.rows) + 1)
	cp := *m
	f.rows = append(f.rows, &cp)
	return nil
}

func (f *fakeMentorships) FindForMentor(_ context.Context, id, mentorID int64) (*models.MentorshipRequest, error) {
	for _, m := range f.rows {
		if m.ID == id && m.MentorID == mentorID {
			cp := *m
			return &cp, nil
		}
	}
	return nil, apperrors.NewResourceNotFoundError("mentorship request not found")
}

func (f *fakeMentorships) Transition(_ context.Context, id int64, from, to models.MentorshipStatus) error {
	for _, m := range f.rows {
		if m.ID == id && m.Status == from {
			m.Status = to
			return nil
		}
	}
	return apperrors.NewConflictError("this request has already been answered")
}

func (f *fakeMentorships) ListForUser(_ context.Context, userID int64) ([]models.MentorshipRequest, error) {
	var out []models.MentorshipRequest
	for _, m := range f.rows {
		if m.MenteeID == userID || m.MentorID == userID {
			out = append(out, *m)
		}
	}
	return out, nil
}

// fakeEvents also keeps the registrations so attendee counts stay live
type fakeEvents struct {
	mu     sync.Mutex
	events map[int64]*models.Event
	regs   map[[2]int64]*models.EventRegistration
	nextID int64
}

func newFakeEvents(events ...*models.Event) *fakeEvents {
	f := &fakeEvents{events: map[int64]*models.Event{}, regs: map[[2]int64]*models.EventRegistration{}}
	for _, e := range events {
		e.IsActive = true
		f.events[e.ID] = e
		if e.ID > f.nextID {
			f.nextID = e.ID
		}
	}
	return f
}

func (f *fakeEvents) count(eventID int64) int {
	n := 0
	for key, r := range f.regs {
		if key[0] == eventID && r.Status == models.RegistrationRegistered {
			n++
		}
	}
	return n
}

func (f *fakeEvents) snapshot(e *models.Event) models.Event {
	cp := *e
	cp.AttendeeCount = f.count(e.ID)
	return cp
}

func (f *fakeEvents) Create(_ context.Context, e *models.Event) error {
	f.nextID++
	e.ID = f.nextID
	e.IsActive = true
	cp := *e
	f.events[e.ID] = &cp
	return nil
}

func (f *fakeEvents) Update(_ context.Context, e *models.Event) error {
	cur, ok := f.events[e.ID]
	if !ok || cur.OrganizerID != e.OrganizerID {
		return apperrors.NewResourceNotFoundError("event not found")
	}
	cp := *e
	cp.IsActive = true
	f.events[e.ID] = &cp
	return nil
}

func (f *fakeEvents) Delete(_ context.Context, id, organizerID int64) error {
	cur, ok := f.events[id]
	if !ok || cur.OrganizerID != organizerID {
		return apperrors.NewResourceNotFoundError("event not found")
	}
	delete(f.events, id)
	return nil
}

func (f *fakeEvents) FindActiveByID(_ context.Context, id int64) (*models.Event, error) {
	e, ok := f.events[id]
	if !ok || !e.IsActive {
		return nil, apperrors.NewResourceNotFoundError("event not found")
	}
	cp := f.snapshot(e)
	return &cp, nil
}

func (f *fakeEvents) sorted(keep func(e *models.Event) bool) []models.Event {
	var out []models.Event
	for _, e := range f.events {
		if e.IsActive && keep(e) {
			out = append(out, f.snapshot(e))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	return out
}

func (f *fakeEvents) List(_ context.Context, filter repositories.EventFilter) ([]models.Event, int64, error) {
	out := f.sorted(func(e *models.Event) bool {
		switch filter.Time {
		case repositories.EventsUpcoming:
			return !e.StartDate.Before(filter.Now)
		case repositories.EventsPast:
			return e.StartDate.Before(filter.Now)
		}
		return true
	})
	return out, int64(len(out)), nil
}

func (f *fakeEvents) ListUpcoming(_ context.Context, now time.Time, limit uint64) ([]models.Event, error) {
	out := f.sorted(func(e *models.Event) bool { return !e.StartDate.Before(now) })
	if uint64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeEvents) ListByOrganizer(_ context.Context, organizerID int64) ([]models.Event, error) {
	return f.sorted(func(e *models.Event) bool { return e.OrganizerID == organizerID }), nil
}

func (f *fakeEvents) ListRegisteredBy(_ context.Context, userID int64) ([]models.Event, error) {
	return f.sorted(func(e *models.Event) bool { return f.regs[[2]int64{e.ID, userID}] != nil }), nil
}

func (f *fakeEvents) ListCategories(_ context.Context) ([]models.EventCategory, error) {
	return []models.EventCategory{{ID: 1, Name: "Networking", Color: "#007bff"}}, nil
}

func (f *fakeEvents) Register(_ context.Context, eventID, userID int64, guard repositories.RegistrationGuard) (*models.EventRegistration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	e, ok := f.events[eventID]
	if !ok || !e.IsActive {
		return nil, apperrors.NewResourceNotFoundError("event not found")
	}
	snap := models.RegistrationSnapshot{
		Event:             *e,
		RegisteredCount:   f.count(eventID),
		AlreadyRegistered: f.regs[[2]int64{eventID, userID}] != nil,
	}
	if err := guard(snap); err != nil {
		return nil, err
	}

	reg := &models.EventRegistration{
		ID:           int64(len(f.regs) + 1),
		EventID:      eventID,
		UserID:       userID,
		Status:       models.RegistrationRegistered,
		RegisteredAt: time.Now(),
	}
	f.regs[[2]int64{eventID, userID}] = reg
	return reg, nil
}

func (f *fakeEvents) Unregister(_ context.Context, eventID, userID int64) error {
	key := [2]int64{eventID, userID}
	if f.regs[key] == nil {
		return apperrors.NewResourceNotFoundError("you are not registered for this event")
	}
	delete(f.regs, key)
	return nil
}

func (f *fakeEvents) IsRegistered(_ context.Context, eventID, userID int64) (bool, error) {
	return f.regs[[2]int64{eventID, userID}] != nil, nil
}

func (f *fakeEvents) CountRegistered(_ context.Context, eventID int64) (int, error) {
	return f.count(eventID), nil
}

func (f *fakeEvents) RegisteredAmong(_ context.Context, userID int64, eventIDs []int64) (map[int64]bool, error) {
	out := map[int64]bool{}
	for _, id := range eventIDs {
		if f.regs[[2]int64{id, userID}] != nil {
			out[id] = true
		}
	}
	return out, nil
}

type fakeJobs struct {
	jobs map[int64]*models.Job
	apps []*models.JobApplication
}

func newFakeJobs(jobs ...*models.Job) *fakeJobs {
	f := &fakeJobs{jobs: map[int64]*models.Job{}}
	for _, j := range jobs {
		j.IsActive = true
		f.jobs[j.ID] = j
	}
	return f
}

func (f *fakeJobs) Create(_ context.Context, j *models.Job) error {
	j.ID = int64(len(f.jobs) + 1)
	j.IsActive = true
	cp := *j
	f.jobs[j.ID] = &cp
	return nil
}

func (f *fakeJobs) FindActiveByID(_ context.Context, id int64) (*models.Job, error) {
	j, ok := f.jobs[id]
	if !ok || !j.IsActive {
		return nil, apperrors.NewResourceNotFoundError("job not found")
	}
	cp := *j
	return &cp, nil
}

func (f *fakeJobs) List(_ context.Context, _ repositories.JobFilter) ([]models.Job, int64, error) {
	out, _ := f.ListRecent(context.Background(), uint64(len(f.jobs)))
	return out, int64(len(out)), nil
}

func (f *fakeJobs) ListRecent(_ context.Context, limit uint64) ([]models.Job, error) {
	var out []models.Job
	for _, j := range f.jobs {
		if j.IsActive {
			out = append(out, *j)
		}
	}
	sort.Slice(out, func(i, k int) bool { return out[i].ID > out[k].ID })
	if uint64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeJobs) ListByPoster(_ context.Context, userID int64) ([]models.Job, error) {
	var out []models.Job
	for _, j := range f.jobs {
		if j.PostedBy == userID {
			out = append(out, *j)
		}
	}
	return out, nil
}

func (f *fakeJobs) ListCategories(_ context.Context) ([]models.JobCategory, error) {
	return nil, nil
}

func (f *fakeJobs) HasApplied(_ context.Context, jobID, userID int64) (bool, error) {
	for _, a := range f.apps {
		if a.JobID == jobID && a.ApplicantID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeJobs) ListByApplicant(_ context.Context, userID int64) ([]models.JobApplication, error) {
	var out []models.JobApplication
	for _, a := range f.apps {
		if a.ApplicantID == userID {
			cp := *a
			cp.Job = f.jobs[a.JobID]
			out = append(out, cp)
		}
	}
	return out, nil
}

func (f *fakeJobs) AppliedAmong(ctx context.Context, userID int64, jobIDs []int64) (map[int64]bool, error) {
	out := map[int64]bool{}
	for _, id := range jobIDs {
		if ok, _ := f.HasApplied(ctx, id, userID); ok {
			out[id] = true
		}
	}
	return out, nil
}

// fakeApplications adapts fakeJobs to ApplicationStore, whose Create clashes with JobStore.Create
type fakeApplications struct {
	*fakeJobs
	createErr error
}

func (f fakeApplications) Create(_ context.Context, a *models.JobApplication) error {
	if f.createErr != nil {
		return f.createErr
	}
	a.ID = int64(len(f.apps) + 1)
	cp := *a
	f.fakeJobs.apps = append(f.fakeJobs.apps, &cp)
	return nil
}

type fakePosts struct {
	posts    map[int64]*models.Post
	likes    map[[2]int64]bool
	comments []*models.Comment
}

func newFakePosts(posts ...*models.Post) *fakePosts {
	f := &fakePosts{posts: map[int64]*models.Post{}, likes: map[[2]int64]bool{}}
	for _, p := range posts {
		p.IsActive = true
		f.posts[p.ID] = p
	}
	return f
}

func (f *fakePosts) likeCount(postID int64) int {
	n := 0
	for key := range f.likes {
		if key[0] == postID {
			n++
		}
	}
	return n
}

func (f *fakePosts) Create(_ context.Context, p *models.Post) error {
	p.ID = int64(len(f.posts) + 1)
	p.IsActive = true
	cp := *p
	f.posts[p.ID] = &cp
	return nil
}

func (f *fakePosts) FindActiveByID(_ context.Context, id int64) (*models.Post, error) {
	p, ok := f.posts[id]
	if !ok || !p.IsActive {
		return nil, apperrors.NewResourceNotFoundError("post not found")
	}
	cp := *p
	cp.LikeCount = f.likeCount(id)
	return &cp, nil
}

func (f *fakePosts) all(keep func(p *models.Post) bool) []models.Post {
	var out []models.Post
	for _, p := range f.posts {
		if p.IsActive && keep(p) {
			cp := *p
			cp.LikeCount = f.likeCount(p.ID)
			out = append(out, cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (f *fakePosts) ListFeed(_ context.Context, _ repositories.PostFilter) ([]models.Post, int64, error) {
	out := f.all(func(*models.Post) bool { return true })
	return out, int64(len(out)), nil
}

func (f *fakePosts) ListRecent(_ context.Context, limit uint64) ([]models.Post, error) {
	out := f.all(func(*models.Post) bool { return true })
	if uint64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakePosts) ListByAuthor(_ context.Context, authorID int64) ([]models.Post, error) {
	return f.all(func(p *models.Post) bool { return p.AuthorID == authorID }), nil
}

func (f *fakePosts) Delete(_ context.Context, id, authorID int64) error {
	p, ok := f.posts[id]
	if !ok || p.AuthorID != authorID {
		return apperrors.NewResourceNotFoundError("post not found")
	}
	delete(f.posts, id)
	return nil
}

func (f *fakePosts) ToggleLike(_ context.Context, postID, userID int64) (*repositories.LikeResult, error) {
	key := [2]int64{postID, userID}
	liked := !f.likes[key]
	if liked {
		f.likes[key] = true
	} else {
		delete(f.likes, key)
	}
	return &repositories.LikeResult{Liked: liked, LikeCount: f.likeCount(postID)}, nil
}

func (f *fakePosts) LikedBy(_ context.Context, userID int64, postIDs []int64) (map[int64]bool, error) {
	out := map[int64]bool{}
	for _, id := range postIDs {
		if f.likes[[2]int64{id, userID}] {
			out[id] = true
		}
	}
	return out, nil
}

// fakeComments stores comments on the shared fakePosts
type fakeComments struct {
	*fakePosts
}

func (f fakeComments) Create(_ context.Context, c *models.Comment) error {
	c.ID = int64(len(f.fakePosts.comments) + 1)
	c.IsActive = true
	cp := *c
	f.fakePosts.comments = append(f.fakePosts.comments, &cp)
	return nil
}

func (f fakeComments) FindByID(_ context.Context, id int64) (*models.Comment, error) {
	for _, c := range f.fakePosts.comments {
		if c.ID == id {
			cp := *c
			return &cp, nil
		}
	}
	return nil, apperrors.NewResourceNotFoundError("comment not found")
}

func (f fakeComments) ListByPost(_ context.Context, postID int64) ([]models.Comment, error) {
	var out []models.Comment
	for _, c := range f.fakePosts.comments {
		if c.PostID == postID {
			out = append(out, *c)
		}
	}
	return out, nil
}

type fakeMessages struct {
	rows []*models.Message
}

func (f *fakeMessages) Create(_ context.Context, m *models.Message) error {
	m.ID = int64(len(f.rows) + 1)
	cp := *m
	f.rows = append(f.rows, &cp)
	return nil
}

func (f *fakeMessages) FindForParticipant(_ context.Context, id, userID int64) (*models.Message, error) {
	for _, m := range f.rows {
		if m.ID == id && (m.SenderID == userID || m.ReceiverID == userID) {
			cp := *m
			return &cp, nil
		}
	}
	return nil, apperrors.NewResourceNotFoundError("message not found")
}

func (f *fakeMessages) list(keep func(m *models.Message) bool) []models.Message {
	var out []models.Message
	for i := len(f.rows) - 1; i >= 0; i-- {
		if keep(f.rows[i]) {
			out = append(out, *f.rows[i])
		}
	}
	return out
}

func (f *fakeMessages) ListReceived(_ context.Context, userID int64) ([]models.Message, error) {
	return f.list(func(m *models.Message) bool { return m.ReceiverID == userID }), nil
}

func (f *fakeMessages) ListSent(_ context.Context, userID int64) ([]models.Message, error) {
	return f.list(func(m *models.Message) bool { return m.SenderID == userID }), nil
}

func (f *fakeMessages) MarkRead(_ context.Context, id, receiverID int64) error {
	for _, m := range f.rows {
		if m.ID == id && m.ReceiverID == receiverID {
			m.IsRead = true
		}
	}
	return nil
}

func (f *fakeMessages) CountUnread(_ context.Context, userID int64) (int, error) {
	return len(f.list(func(m *models.Message) bool { return m.ReceiverID == userID && !m.IsRead })), nil
}

type fakeOutbox struct {
	events []*models.OutboxEvent
}

func (f *fakeOutbox) Insert(_ context.Context, e *models.OutboxEvent) error {
	e.ID = uuid.New()
	f.events = append(f.events, e)
	return nil
}

func (f *fakeOutbox) types() []string {
	out := make([]string, 0, len(f.events))
	for _, e := range f.events {
		out = append(out, e.EventType)
	}
	return out
}

type fakeFiles struct {
	saved   []string
	deleted []string
	saveErr error
}

func (f *fakeFiles) SaveFileWithPath(fh *multipart.FileHeader, folder string, policy filestorage.Policy) (string, error) {
	if f.saveErr != nil {
		return "", f.saveErr
	}
	if err := policy.Check(fh); err != nil {
		return "", err
	}
	url := "/uploads/" + folder + "/" + fh.Filename
	f.saved = append(f.saved, url)
	return url, nil
}

func (f *fakeFiles) DeleteFile(url string) error {
	f.deleted = append(f.deleted, url)
	return nil
}

type fakePusher struct {
	frames map[int64][]websocket.Frame
}

func (f *fakePusher) SendToUser(userID int64, frame websocket.Frame) {
	if f.frames == nil {
		f.frames = map[int64][]websocket.Frame{}
	}
	f.frames[userID] = append(f.frames[userID], frame)
}
