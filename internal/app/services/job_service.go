package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"

	"github.com/gradlink/alumni/internal/app/models"
	"github.com/gradlink/alumni/internal/app/models/dto"
	"github.com/gradlink/alumni/internal/app/repositories"
	"github.com/gradlink/alumni/internal/pkg/apperrors"
	"github.com/gradlink/alumni/internal/pkg/filestorage"
	"github.com/rs/zerolog"
)

// JobService manages the job board
type JobService interface {
	PostJob(ctx context.Context, userID int64, req *dto.JobRequest) (*dto.JobResponse, error)
	GetJob(ctx context.Context, viewerID, jobID int64) (*dto.JobResponse, error)
	ListJobs(ctx context.Context, viewerID int64, query dto.JobQuery, page, size int) (*dto.JobListResponse, error)
	Apply(ctx context.Context, applicantID, jobID int64, coverLetter string, resume *multipart.FileHeader) (*dto.JobApplicationResponse, error)
	ListMyApplications(ctx context.Context, userID int64) ([]dto.JobApplicationResponse, error)
	ListMyPostedJobs(ctx context.Context, userID int64) ([]dto.JobResponse, error)
	ListCategories(ctx context.Context) ([]dto.JobCategoryResponse, error)
}

type jobServiceImpl struct {
	jobs         JobStore
	applications ApplicationStore
	users        UserStore
	files        FileStore
	notifier     Notifier
	logger       zerolog.Logger
}

// NewJobService creates a new JobService
func NewJobService(
	jobs JobStore,
	applications ApplicationStore,
	users UserStore,
	files FileStore,
	notifier Notifier,
	logger zerolog.Logger,
) JobService {
	return &jobServiceImpl{
		jobs:         jobs,
		applications: applications,
		users:        users,
		files:        files,
		notifier:     notifier,
		logger:       logger,
	}
}

// PostJob publishes a job posted by userID
func (s *jobServiceImpl) PostJob(ctx context.Context, userID int64, req *dto.JobRequest) (*dto.JobResponse, error) {
	if req.SalaryMin != nil && req.SalaryMax != nil && *req.SalaryMin > *req.SalaryMax {
		return nil, apperrors.NewBadRequestError("salary minimum must not exceed the maximum")
	}

	job := req.ToModel(userID)
	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("jobID", job.ID).Int64("postedBy", userID).Msg("Job posted")
	return s.GetJob(ctx, userID, job.ID)
}

// GetJob returns an active job with whether the viewer applied
func (s *jobServiceImpl) GetJob(ctx context.Context, viewerID, jobID int64) (*dto.JobResponse, error) {
	job, err := s.jobs.FindActiveByID(ctx, jobID)
	if err != nil {
		return nil, err
	}

	applied := false
	if viewerID != 0 {
		if applied, err = s.applications.HasApplied(ctx, jobID, viewerID); err != nil {
			return nil, err
		}
	}

	users, err := loadUsers(ctx, s.users, []int64{job.PostedBy})
	if err != nil {
		return nil, err
	}
	job.Poster = users[job.PostedBy]

	resp := dto.FromJob(job, applied)
	return &resp, nil
}

// ListJobs pages through active jobs, newest first
func (s *jobServiceImpl) ListJobs(ctx context.Context, viewerID int64, query dto.JobQuery, page, size int) (*dto.JobListResponse, error) {
	jobs, total, err := s.jobs.List(ctx, repositories.JobFilter{
		Search:          query.Search,
		JobType:         query.JobType,
		ExperienceLevel: query.ExperienceLevel,
		CategoryID:      query.CategoryID,
		Location:        query.Location,
		Page:            pageOf(page, size),
	})
	if err != nil {
		return nil, err
	}

	items, err := s.toResponses(ctx, viewerID, jobs)
	if err != nil {
		return nil, err
	}
	return &dto.JobListResponse{
		Jobs:       items,
		Pagination: paginationOf(total, page, size),
	}, nil
}

// Apply submits an application with an optional resume. The application deadline is not enforced.
func (s *jobServiceImpl) Apply(ctx context.Context, applicantID, jobID int64, coverLetter string, resume *multipart.FileHeader) (*dto.JobApplicationResponse, error) {
	job, err := s.jobs.FindActiveByID(ctx, jobID)
	if err != nil {
		return nil, err
	}

	applied, err := s.applications.HasApplied(ctx, jobID, applicantID)
	if err != nil {
		return nil, err
	}
	if applied {
		return nil, apperrors.NewConflictError("you have already applied for this job")
	}

	app := &models.JobApplication{
		JobID:       jobID,
		ApplicantID: applicantID,
		CoverLetter: coverLetter,
		Status:      models.ApplicationApplied,
	}

	if resume != nil {
		url, err := s.files.SaveFileWithPath(resume, filestorage.ResumeFolder, filestorage.ResumePolicy)
		if err != nil {
			if errors.Is(err, filestorage.ErrUnsupportedFile) {
				return nil, apperrors.NewBadRequestError(err.Error())
			}
			return nil, fmt.Errorf("failed to store resume: %w", err)
		}
		app.ResumeURL = &url
	}

	if err := s.applications.Create(ctx, app); err != nil {
		if app.ResumeURL != nil {
			if delErr := s.files.DeleteFile(*app.ResumeURL); delErr != nil {
				s.logger.Warn().Err(delErr).Str("url", *app.ResumeURL).Msg("Failed to remove orphaned resume")
			}
		}
		return nil, err
	}
	app.Job = job

	s.notifier.Notify(ctx, models.Notification{
		AggregateType: "job",
		AggregateID:   jobID,
		EventType:     models.EventJobApplied,
		RecipientID:   job.PostedBy,
		ActorID:       applicantID,
		Data:          map[string]interface{}{"applicationId": app.ID},
	})

	resp := dto.FromJobApplication(app)
	return &resp, nil
}

// ListMyApplications lists the caller's applications, newest first
func (s *jobServiceImpl) ListMyApplications(ctx context.Context, userID int64) ([]dto.JobApplicationResponse, error) {
	apps, err := s.applications.ListByApplicant(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.JobApplicationResponse, 0, len(apps))
	for i := range apps {
		out = append(out, dto.FromJobApplication(&apps[i]))
	}
	return out, nil
}

// ListMyPostedJobs lists the jobs the caller posted
func (s *jobServiceImpl) ListMyPostedJobs(ctx context.Context, userID int64) ([]dto.JobResponse, error) {
	jobs, err := s.jobs.ListByPoster(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.toResponses(ctx, userID, jobs)
}

// ListCategories lists all job categories
func (s *jobServiceImpl) ListCategories(ctx context.Context) ([]dto.JobCategoryResponse, error) {
	categories, err := s.jobs.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.JobCategoryResponse, 0, len(categories))
	for i := range categories {
		out = append(out, dto.FromJobCategory(&categories[i]))
	}
	return out, nil
}

func (s *jobServiceImpl) toResponses(ctx context.Context, viewerID int64, jobs []models.Job) ([]dto.JobResponse, error) {
	jobIDs := make([]int64, 0, len(jobs))
	posterIDs := make([]int64, 0, len(jobs))
	for i := range jobs {
		jobIDs = append(jobIDs, jobs[i].ID)
		posterIDs = append(posterIDs, jobs[i].PostedBy)
	}

	applied := map[int64]bool{}
	if viewerID != 0 && len(jobIDs) > 0 {
		var err error
		if applied, err = s.applications.AppliedAmong(ctx, viewerID, jobIDs); err != nil {
			return nil, err
		}
	}
	posters, err := loadUsers(ctx, s.users, posterIDs)
	if err != nil {
		return nil, err
	}

	out := make([]dto.JobResponse, 0, len(jobs))
	for i := range jobs {
		j := &jobs[i]
		j.Poster = posters[j.PostedBy]
		out = append(out, dto.FromJob(j, applied[j.ID]))
	}
	return out, nil
}
