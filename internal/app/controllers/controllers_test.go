package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gradlink/alumni/internal/app/models/dto"
	"github.com/gradlink/alumni/internal/app/services"
	"github.com/gradlink/alumni/internal/middleware"
	"github.com/gradlink/alumni/internal/pkg/apperrors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const callerID int64 = 7

// asCaller stands in for JWTAuth
func asCaller(c *gin.Context) {
	c.Set(middleware.ContextUserID, callerID)
	c.Next()
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *dto.ErrorDetail
}

func do(t *testing.T, r http.Handler, req *http.Request) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w, env
}

type stubEvents struct {
	services.EventService
	register   func(userID, eventID int64) (*dto.RegistrationResponse, error)
	listEvents func(query dto.EventQuery, page, size int) (*dto.EventListResponse, error)
}

func (s *stubEvents) Register(_ context.Context, userID, eventID int64) (*dto.RegistrationResponse, error) {
	return s.register(userID, eventID)
}

func (s *stubEvents) ListEvents(_ context.Context, _ int64, query dto.EventQuery, page, size int) (*dto.EventListResponse, error) {
	return s.listEvents(query, page, size)
}

func eventRouter(svc services.EventService) *gin.Engine {
	c := NewEventController(svc, zerolog.Nop())
	r := gin.New()
	r.GET("/events", asCaller, c.ListEvents)
	r.POST("/events/:id/register", asCaller, c.Register)
	r.POST("/anonymous/:id/register", c.Register)
	return r
}

func TestEventController_Register(t *testing.T) {
	var gotUser, gotEvent int64
	svc := &stubEvents{register: func(userID, eventID int64) (*dto.RegistrationResponse, error) {
		gotUser, gotEvent = userID, eventID
		return &dto.RegistrationResponse{ID: 1, EventID: eventID, Status: "registered", AttendeeCount: 2}, nil
	}}

	w, env := do(t, eventRouter(svc), httptest.NewRequest(http.MethodPost, "/events/3/register", nil))

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, env.Success)
	assert.Equal(t, callerID, gotUser)
	assert.Equal(t, int64(3), gotEvent)

	var reg dto.RegistrationResponse
	require.NoError(t, json.Unmarshal(env.Data, &reg))
	assert.Equal(t, 2, reg.AttendeeCount)
}

func TestEventController_RegisterErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   dto.ErrorCode
	}{
		{"organizer", apperrors.NewForbiddenError("organizers cannot register"), http.StatusForbidden, dto.ErrorCodeForbidden},
		{"deadline", apperrors.NewDeadlineExceededError("registration closed"), http.StatusUnprocessableEntity, dto.ErrorCodeDeadlineExceeded},
		{"full", apperrors.NewCapacityExceededError("event is full"), http.StatusConflict, dto.ErrorCodeCapacityExceeded},
		{"duplicate", apperrors.NewConflictError("already registered"), http.StatusConflict, dto.ErrorCodeConflict},
		{"missing", apperrors.NewResourceNotFoundError("event not found"), http.StatusNotFound, dto.ErrorCodeResourceNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubEvents{register: func(int64, int64) (*dto.RegistrationResponse, error) { return nil, tt.err }}

			w, env := do(t, eventRouter(svc), httptest.NewRequest(http.MethodPost, "/events/3/register", nil))

			assert.Equal(t, tt.status, w.Code)
			assert.False(t, env.Success)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.code, env.Error.Code)
		})
	}
}

func TestEventController_RejectsBadIDAndMissingCaller(t *testing.T) {
	called := false
	svc := &stubEvents{register: func(int64, int64) (*dto.RegistrationResponse, error) {
		called = true
		return &dto.RegistrationResponse{}, nil
	}}
	r := eventRouter(svc)

	w, env := do(t, r, httptest.NewRequest(http.MethodPost, "/events/abc/register", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrorCodeBadRequest, env.Error.Code)

	w, env = do(t, r, httptest.NewRequest(http.MethodPost, "/events/0/register", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env = do(t, r, httptest.NewRequest(http.MethodPost, "/anonymous/3/register", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, dto.ErrorCodeUnauthorized, env.Error.Code)

	assert.False(t, called)
}

func TestEventController_ListEventsBindsFilters(t *testing.T) {
	var gotQuery dto.EventQuery
	var gotPage, gotSize int
	svc := &stubEvents{listEvents: func(query dto.EventQuery, page, size int) (*dto.EventListResponse, error) {
		gotQuery, gotPage, gotSize = query, page, size
		return &dto.EventListResponse{}, nil
	}}
	r := eventRouter(svc)

	w, _ := do(t, r, httptest.NewRequest(http.MethodGet, "/events?time=past&search=gala&is_virtual=true&page=2&size=5", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "past", gotQuery.Time)
	assert.Equal(t, "gala", gotQuery.Search)
	require.NotNil(t, gotQuery.IsVirtual)
	assert.True(t, *gotQuery.IsVirtual)
	assert.Equal(t, 2, gotPage)
	assert.Equal(t, 5, gotSize)

	w, env := do(t, r, httptest.NewRequest(http.MethodGet, "/events?time=tomorrow", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrorCodeValidationFailed, env.Error.Code)
}

type stubJobs struct {
	services.JobService
	apply func(applicantID, jobID int64, coverLetter string, resume *multipart.FileHeader) (*dto.JobApplicationResponse, error)
}

func (s *stubJobs) Apply(_ context.Context, applicantID, jobID int64, coverLetter string, resume *multipart.FileHeader) (*dto.JobApplicationResponse, error) {
	return s.apply(applicantID, jobID, coverLetter, resume)
}

func multipartApply(t *testing.T, coverLetter string, withResume bool) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("coverLetter", coverLetter))
	if withResume {
		part, err := mw.CreateFormFile("resume", "cv.pdf")
		require.NoError(t, err)
		_, err = part.Write([]byte("%PDF-1.4 resume"))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/jobs/9/apply", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestJobController_Apply(t *testing.T) {
	var gotLetter, gotFile string
	var gotJob int64
	svc := &stubJobs{apply: func(_ int64, jobID int64, coverLetter string, resume *multipart.FileHeader) (*dto.JobApplicationResponse, error) {
		gotJob, gotLetter = jobID, coverLetter
		gotFile = ""
		if resume != nil {
			gotFile = resume.Filename
		}
		return &dto.JobApplicationResponse{ID: 1, JobID: jobID, Status: "applied"}, nil
	}}
	c := NewJobController(svc)
	r := gin.New()
	r.POST("/jobs/:id/apply", asCaller, c.Apply)

	w, _ := do(t, r, multipartApply(t, "I would love to join", true))
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, int64(9), gotJob)
	assert.Equal(t, "I would love to join", gotLetter)
	assert.Equal(t, "cv.pdf", gotFile)

	w, _ = do(t, r, multipartApply(t, "no attachment", false))
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Empty(t, gotFile)
}

type stubAccounts struct {
	services.AccountService
	login func(req *dto.LoginRequest) (*dto.AuthResponse, error)
}

func (s *stubAccounts) Login(_ context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	return s.login(req)
}

func TestAuthController_Login(t *testing.T) {
	svc := &stubAccounts{login: func(req *dto.LoginRequest) (*dto.AuthResponse, error) {
		if req.Password != "s3cretpassw0rd" {
			return nil, apperrors.ErrInvalidCredentials
		}
		return &dto.AuthResponse{Token: dto.TokenResponse{AccessToken: "a.b.c", TokenType: "Bearer"}}, nil
	}}
	c := NewAuthController(svc, zerolog.Nop())
	r := gin.New()
	r.POST("/auth/login", c.Login)

	post := func(body string) *http.Request {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		return req
	}

	w, env := do(t, r, post(`{"email":"jane@alumni.edu","password":"s3cretpassw0rd"}`))
	require.Equal(t, http.StatusOK, w.Code)
	var auth dto.AuthResponse
	require.NoError(t, json.Unmarshal(env.Data, &auth))
	assert.Equal(t, "a.b.c", auth.Token.AccessToken)

	w, env = do(t, r, post(`{"email":"jane@alumni.edu","password":"wrong"}`))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, dto.ErrorCodeInvalidCredentials, env.Error.Code)

	w, env = do(t, r, post(`{"email":"not-an-email","password":"x"}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrorCodeValidationFailed, env.Error.Code)
}

type stubHome struct {
	services.HomeService
}

func (stubHome) Home(context.Context) (*dto.HomeResponse, error) {
	return &dto.HomeResponse{RecentJobs: []dto.JobResponse{{ID: 1, Title: "Backend Engineer"}}}, nil
}

func TestHomeController_HomeIsPublic(t *testing.T) {
	c := NewHomeController(stubHome{})
	r := gin.New()
	r.GET("/home", c.Home)
	r.GET("/dashboard", c.Dashboard)

	w, env := do(t, r, httptest.NewRequest(http.MethodGet, "/home", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var home dto.HomeResponse
	require.NoError(t, json.Unmarshal(env.Data, &home))
	require.Len(t, home.RecentJobs, 1)
	assert.Equal(t, "Backend Engineer", home.RecentJobs[0].Title)

	w, _ = do(t, r, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
