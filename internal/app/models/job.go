package models

import "time"

// JobType enumerates employment types
type JobType string

const (
	JobFullTime   JobType = "full_time"
	JobPartTime   JobType = "part_time"
	JobContract   JobType = "contract"
	JobInternship JobType = "internship"
	JobFreelance  JobType = "freelance"
)

// ExperienceLevel enumerates seniority levels
type ExperienceLevel string

const (
	ExperienceEntry     ExperienceLevel = "entry"
	ExperienceMid       ExperienceLevel = "mid"
	ExperienceSenior    ExperienceLevel = "senior"
	ExperienceExecutive ExperienceLevel = "executive"
)

// JobCategory groups job postings
type JobCategory struct {
	ID          int64  `json:"id" db:"id"`
	Name        string `json:"name" db:"name"`
	Description string `json:"description" db:"description"`
}

// Job defines a job posting
type Job struct {
	ID                  int64           `json:"id" db:"id"`
	Title               string          `json:"title" db:"title"`
	Company             string          `json:"company" db:"company"`
	Location            string          `json:"location" db:"location"`
	JobType             JobType         `json:"jobType" db:"job_type"`
	ExperienceLevel     ExperienceLevel `json:"experienceLevel" db:"experience_level"`
	CategoryID          *int64          `json:"categoryId,omitempty" db:"category_id"`
	Description         string          `json:"description" db:"description"`
	Requirements        string          `json:"requirements" db:"requirements"`
	SalaryMin           *int            `json:"salaryMin,omitempty" db:"salary_min"`
	SalaryMax           *int            `json:"salaryMax,omitempty" db:"salary_max"`
	PostedBy            int64           `json:"postedBy" db:"posted_by"`
	IsActive            bool            `json:"isActive" db:"is_active"`
	ApplicationDeadline *time.Time      `json:"applicationDeadline,omitempty" db:"application_deadline"`
	ExternalURL         string          `json:"externalUrl" db:"external_url"`
	CreatedAt           time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt           time.Time       `json:"updatedAt" db:"updated_at"`

	ApplicationCount int          `json:"applicationCount"`   // Computed
	Category         *JobCategory `json:"category,omitempty"` // Relation, no db tag
	Poster           *User        `json:"poster,omitempty"`   // Relation, no db tag
}

// JobApplication is one applicant's application. Unique per (job, applicant).
type JobApplication struct {
	ID          int64             `json:"id" db:"id"`
	JobID       int64             `json:"jobId" db:"job_id"`
	ApplicantID int64             `json:"applicantId" db:"applicant_id"`
	CoverLetter string            `json:"coverLetter" db:"cover_letter"`
	ResumeURL   *string           `json:"resumeUrl,omitempty" db:"resume_url"`
	Status      ApplicationStatus `json:"status" db:"status"`
	AppliedAt   time.Time         `json:"appliedAt" db:"applied_at"`

	Job *Job `json:"job,omitempty"` // Relation, no db tag
}
