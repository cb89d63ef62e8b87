package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/gradlink/alumni/internal/app/models"
	"github.com/gradlink/alumni/internal/db"
	"github.com/gradlink/alumni/internal/pkg/apperrors"
	"github.com/gradlink/alumni/internal/pkg/dberrors"
	"github.com/jackc/pgx/v5"
)

var jobSelectColumns = []string{
	"j.id", "j.title", "j.company", "j.location", "j.job_type", "j.experience_level", "j.category_id",
	"j.description", "j.requirements", "j.salary_min", "j.salary_max", "j.posted_by", "j.is_active",
	"j.application_deadline", "j.external_url", "j.created_at", "j.updated_at",
	"(SELECT COUNT(*) FROM job_applications a WHERE a.job_id = j.id) AS application_count",
}

// JobFilter narrows the job board listing
type JobFilter struct {
	Search          string
	JobType         models.JobType
	ExperienceLevel models.ExperienceLevel
	CategoryID      *int64
	Location        string
	Page            Page
}

// JobRepository handles job postings and job categories
type JobRepository struct {
	db db.Pool
}

// NewJobRepository creates a new JobRepository
func NewJobRepository(pool db.Pool) *JobRepository {
	return &JobRepository{db: pool}
}

func scanJob(row pgx.Row, j *models.Job) error {
	return row.Scan(
		&j.ID, &j.Title, &j.Company, &j.Location, &j.JobType, &j.ExperienceLevel, &j.CategoryID,
		&j.Description, &j.Requirements, &j.SalaryMin, &j.SalaryMax, &j.PostedBy, &j.IsActive,
		&j.ApplicationDeadline, &j.ExternalURL, &j.CreatedAt, &j.UpdatedAt, &j.ApplicationCount,
	)
}

func (r *JobRepository) queryJobs(ctx context.Context, q squirrel.SelectBuilder) ([]models.Job, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	jobs := []models.Job{}
	for rows.Next() {
		var j models.Job
		if err := scanJob(rows, &j); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

// Create inserts a new job posting
func (r *JobRepository) Create(ctx context.Context, j *models.Job) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO jobs (title, company, location, job_type, experience_level, category_id, description,
			requirements, salary_min, salary_max, posted_by, application_deadline, external_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, is_active, created_at, updated_at`,
		j.Title, j.Company, j.Location, j.JobType, j.ExperienceLevel, j.CategoryID, j.Description,
		j.Requirements, j.SalaryMin, j.SalaryMax, j.PostedBy, j.ApplicationDeadline, j.ExternalURL,
	).Scan(&j.ID, &j.IsActive, &j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.NewResourceNotFoundError("job category not found")
		}
		return fmt.Errorf("error inserting job: %w", err)
	}
	return nil
}

// FindActiveByID loads an active job posting
func (r *JobRepository) FindActiveByID(ctx context.Context, id int64) (*models.Job, error) {
	sql, args, err := psql.Select(jobSelectColumns...).
		From("jobs j").
		Where(squirrel.Eq{"j.id": id, "j.is_active": true}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	var j models.Job
	if err := scanJob(r.db.QueryRow(ctx, sql, args...), &j); err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.NewResourceNotFoundError("job not found")
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	return &j, nil
}

func buildJobListQuery(base squirrel.SelectBuilder, f JobFilter) squirrel.SelectBuilder {
	q := base.From("jobs j").Where(squirrel.Eq{"j.is_active": true})

	if f.Search != "" {
		pattern := likePattern(f.Search)
		q = q.Where(squirrel.Or{
			squirrel.ILike{"j.title": pattern},
			squirrel.ILike{"j.company": pattern},
			squirrel.ILike{"j.description": pattern},
		})
	}
	if f.JobType != "" {
		q = q.Where(squirrel.Eq{"j.job_type": string(f.JobType)})
	}
	if f.ExperienceLevel != "" {
		q = q.Where(squirrel.Eq{"j.experience_level": string(f.ExperienceLevel)})
	}
	if f.CategoryID != nil {
		q = q.Where(squirrel.Eq{"j.category_id": *f.CategoryID})
	}
	if f.Location != "" {
		q = q.Where(squirrel.ILike{"j.location": likePattern(f.Location)})
	}
	return q
}

// List returns one page of active jobs, newest first, and the total count
func (r *JobRepository) List(ctx context.Context, f JobFilter) ([]models.Job, int64, error) {
	countSQL, countArgs, err := buildJobListQuery(psql.Select("COUNT(*)"), f).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building SQL: %w", err)
	}
	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting jobs: %w", err)
	}

	offset, limit := f.Page.offsetLimit()
	jobs, err := r.queryJobs(ctx, buildJobListQuery(psql.Select(jobSelectColumns...), f).
		OrderBy("j.created_at DESC", "j.id DESC").
		Offset(offset).
		Limit(limit))
	if err != nil {
		return nil, 0, err
	}
	return jobs, total, nil
}

// ListRecent returns the most recently posted active jobs
func (r *JobRepository) ListRecent(ctx context.Context, limit uint64) ([]models.Job, error) {
	return r.queryJobs(ctx, psql.Select(jobSelectColumns...).
		From("jobs j").
		Where(squirrel.Eq{"j.is_active": true}).
		OrderBy("j.created_at DESC").
		Limit(limit))
}

// ListByPoster returns every job the user posted
func (r *JobRepository) ListByPoster(ctx context.Context, userID int64) ([]models.Job, error) {
	return r.queryJobs(ctx, psql.Select(jobSelectColumns...).
		From("jobs j").
		Where(squirrel.Eq{"j.posted_by": userID}).
		OrderBy("j.created_at DESC"))
}

// ListCategories returns all job categories
func (r *JobRepository) ListCategories(ctx context.Context) ([]models.JobCategory, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, description FROM job_categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	categories := []models.JobCategory{}
	for rows.Next() {
		var c models.JobCategory
		if err := rows.Scan(&c.ID, &c.Name, &c.Description); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// EnsureCategory inserts a job category unless one with the same name exists
func (r *JobRepository) EnsureCategory(ctx context.Context, c *models.JobCategory) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		INSERT INTO job_categories (name, description) VALUES ($1, $2)
		ON CONFLICT (name) DO NOTHING`, c.Name, c.Description)
	if err != nil {
		return false, fmt.Errorf("error executing query: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// JobApplicationRepository handles applications to job postings
type JobApplicationRepository struct {
	db db.Pool
}

// NewJobApplicationRepository creates a new JobApplicationRepository
func NewJobApplicationRepository(pool db.Pool) *JobApplicationRepository {
	return &JobApplicationRepository{db: pool}
}

// Create inserts an application. A second application for the same job loses on the unique constraint.
func (r *JobApplicationRepository) Create(ctx context.Context, a *models.JobApplication) error {
	a.Status = models.ApplicationApplied
	err := r.db.QueryRow(ctx, `
		INSERT INTO job_applications (job_id, applicant_id, cover_letter, resume_url, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, applied_at`,
		a.JobID, a.ApplicantID, a.CoverLetter, a.ResumeURL, a.Status,
	).Scan(&a.ID, &a.AppliedAt)
	if err != nil {
		switch {
		case dberrors.IsDuplicateConstraintError(err, "uq_job_applications_job_applicant"):
			return apperrors.NewConflictError("you have already applied for this job")
		case dberrors.IsForeignKeyViolation(err):
			return apperrors.NewResourceNotFoundError("job not found")
		}
		return fmt.Errorf("error inserting application: %w", err)
	}
	return nil
}

// HasApplied reports whether the user already applied for the job
func (r *JobApplicationRepository) HasApplied(ctx context.Context, jobID, userID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM job_applications WHERE job_id = $1 AND applicant_id = $2)`,
		jobID, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error executing query: %w", err)
	}
	return exists, nil
}

// ListByApplicant returns the user's applications with their jobs, newest first
func (r *JobApplicationRepository) ListByApplicant(ctx context.Context, userID int64) ([]models.JobApplication, error) {
	rows, err := r.db.Query(ctx, `
		SELECT a.id, a.job_id, a.applicant_id, a.cover_letter, a.resume_url, a.status, a.applied_at,
			j.title, j.company, j.location, j.job_type, j.is_active
		FROM job_applications a
		JOIN jobs j ON j.id = a.job_id
		WHERE a.applicant_id = $1
		ORDER BY a.applied_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	applications := []models.JobApplication{}
	for rows.Next() {
		var a models.JobApplication
		j := &models.Job{}
		if err := rows.Scan(&a.ID, &a.JobID, &a.ApplicantID, &a.CoverLetter, &a.ResumeURL, &a.Status, &a.AppliedAt,
			&j.Title, &j.Company, &j.Location, &j.JobType, &j.IsActive); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		j.ID = a.JobID
		a.Job = j
		applications = append(applications, a)
	}
	return applications, rows.Err()
}
