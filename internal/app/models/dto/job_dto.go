package dto

import (
	"time"

	"github.com/gradlink/alumni/internal/app/models"
)

// JobRequest posts a new job
type JobRequest struct {
	Title               string                 `json:"title" binding:"required,max=200" example:"Backend Engineer"`
	Company             string                 `json:"company" binding:"required,max=200" example:"Acme"`
	Location            string                 `json:"location" binding:"required,max=200" example:"Berlin"`
	JobType             models.JobType         `json:"jobType" binding:"required,oneof=full_time part_time contract internship freelance" example:"full_time"`
	ExperienceLevel     models.ExperienceLevel `json:"experienceLevel" binding:"required,oneof=entry mid senior executive" example:"mid"`
	CategoryID          *int64                 `json:"categoryId" binding:"omitempty,min=1"`
	Description         string                 `json:"description" binding:"required"`
	Requirements        string                 `json:"requirements"`
	SalaryMin           *int                   `json:"salaryMin" binding:"omitempty,min=0"`
	SalaryMax           *int                   `json:"salaryMax" binding:"omitempty,min=0"`
	ApplicationDeadline *time.Time             `json:"applicationDeadline"`
	ExternalURL         string                 `json:"externalUrl" binding:"omitempty,url,max=500"`
}

// ToModel builds the job posted by userID
func (r *JobRequest) ToModel(userID int64) *models.Job {
	return &models.Job{
		Title:               r.Title,
		Company:             r.Company,
		Location:            r.Location,
		JobType:             r.JobType,
		ExperienceLevel:     r.ExperienceLevel,
		CategoryID:          r.CategoryID,
		Description:         r.Description,
		Requirements:        r.Requirements,
		SalaryMin:           r.SalaryMin,
		SalaryMax:           r.SalaryMax,
		PostedBy:            userID,
		ApplicationDeadline: r.ApplicationDeadline,
		ExternalURL:         r.ExternalURL,
	}
}

// ApplyRequest is the multipart form of a job application; the resume file travels alongside it
type ApplyRequest struct {
	CoverLetter string `form:"coverLetter" binding:"max=5000"`
}

// JobResponse represents a job posting
type JobResponse struct {
	ID                  int64        `json:"id"`
	Title               string       `json:"title"`
	Company             string       `json:"company"`
	Location            string       `json:"location"`
	JobType             string       `json:"jobType"`
	ExperienceLevel     string       `json:"experienceLevel"`
	CategoryID          *int64       `json:"categoryId,omitempty"`
	Description         string       `json:"description"`
	Requirements        string       `json:"requirements"`
	SalaryMin           *int         `json:"salaryMin,omitempty"`
	SalaryMax           *int         `json:"salaryMax,omitempty"`
	ApplicationDeadline *time.Time   `json:"applicationDeadline,omitempty"`
	ExternalURL         string       `json:"externalUrl,omitempty"`
	ApplicationCount    int          `json:"applicationCount"`
	HasApplied          bool         `json:"hasApplied"`
	PostedBy            *UserSummary `json:"postedBy,omitempty"`
	CreatedAt           time.Time    `json:"createdAt"`
}

// JobListResponse is a page of jobs
type JobListResponse struct {
	Jobs       []JobResponse  `json:"jobs"`
	Pagination PaginationInfo `json:"pagination"`
}

// JobApplicationResponse represents one of the user's applications
type JobApplicationResponse struct {
	ID          int64     `json:"id"`
	JobID       int64     `json:"jobId"`
	JobTitle    string    `json:"jobTitle,omitempty"`
	Company     string    `json:"company,omitempty"`
	CoverLetter string    `json:"coverLetter"`
	ResumeURL   *string   `json:"resumeUrl,omitempty"`
	Status      string    `json:"status" example:"applied"`
	AppliedAt   time.Time `json:"appliedAt"`
}

// JobCategoryResponse represents a job category
type JobCategoryResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// FromJob converts a job model
func FromJob(j *models.Job, hasApplied bool) JobResponse {
	return JobResponse{
		ID:                  j.ID,
		Title:               j.Title,
		Company:             j.Company,
		Location:            j.Location,
		JobType:             string(j.JobType),
		ExperienceLevel:     string(j.ExperienceLevel),
		CategoryID:          j.CategoryID,
		Description:         j.Description,
		Requirements:        j.Requirements,
		SalaryMin:           j.SalaryMin,
		SalaryMax:           j.SalaryMax,
		ApplicationDeadline: j.ApplicationDeadline,
		ExternalURL:         j.ExternalURL,
		ApplicationCount:    j.ApplicationCount,
		HasApplied:          hasApplied,
		PostedBy:            FromUserSummary(j.Poster),
		CreatedAt:           j.CreatedAt,
	}
}

// FromJobApplication converts an application; the job relation is optional
func FromJobApplication(a *models.JobApplication) JobApplicationResponse {
	resp := JobApplicationResponse{
		ID:          a.ID,
		JobID:       a.JobID,
		CoverLetter: a.CoverLetter,
		ResumeURL:   a.ResumeURL,
		Status:      string(a.Status),
		AppliedAt:   a.AppliedAt,
	}
	if a.Job != nil {
		resp.JobTitle = a.Job.Title
		resp.Company = a.Job.Company
	}
	return resp
}

// JobQuery holds the job board filters
type JobQuery struct {
	Search          string                 `form:"search"`
	CategoryID      *int64                 `form:"category" binding:"omitempty,min=1"`
	JobType         models.JobType         `form:"job_type" binding:"omitempty,oneof=full_time part_time contract internship freelance"`
	ExperienceLevel models.ExperienceLevel `form:"experience_level" binding:"omitempty,oneof=entry mid senior executive"`
	Location        string                 `form:"location"`
}

// FromJobCategory converts a job category
func FromJobCategory(c *models.JobCategory) JobCategoryResponse {
	return JobCategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
	}
}
