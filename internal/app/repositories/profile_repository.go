package repositories

import (
	"context"
	"fmt"

	"github.com/gradlink/alumni/internal/app/models"
	"github.com/gradlink/alumni/internal/db"
	"github.com/gradlink/alumni/internal/pkg/apperrors"
	"github.com/gradlink/alumni/internal/pkg/dberrors"
)

// ProfileRepository handles user profiles and directory entries
type ProfileRepository struct {
	db db.Pool
}

// NewProfileRepository creates a new ProfileRepository
func NewProfileRepository(pool db.Pool) *ProfileRepository {
	return &ProfileRepository{db: pool}
}

// GetOrCreate returns the profile of userID, creating an empty one on first access
func (r *ProfileRepository) GetOrCreate(ctx context.Context, userID int64) (*models.UserProfile, error) {
	if _, err := r.db.Exec(ctx, `INSERT INTO user_profiles (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING`, userID); err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return nil, apperrors.NewResourceNotFoundError("user not found")
		}
		return nil, fmt.Errorf("error ensuring profile: %w", err)
	}
	return r.FindByUserID(ctx, userID)
}

// FindByUserID loads a profile with its university
func (r *ProfileRepository) FindByUserID(ctx context.Context, userID int64) (*models.UserProfile, error) {
	var p models.UserProfile
	var uniID *int64
	var uniName, uniLocation *string

	err := r.db.QueryRow(ctx, `
		SELECT p.user_id, p.university_id, p.graduation_year, p.degree, p.major, p.current_position,
			p.current_company, p.industry, p.experience_years, p.skills, p.interests, p.is_mentor,
			p.is_looking_for_mentor, p.is_open_to_networking, p.created_at, p.updated_at,
			u.id, u.name, u.location
		FROM user_profiles p
		LEFT JOIN universities u ON u.id = p.university_id
		WHERE p.user_id = $1`, userID,
	).Scan(
		&p.UserID, &p.UniversityID, &p.GraduationYear, &p.Degree, &p.Major, &p.CurrentPosition,
		&p.CurrentCompany, &p.Industry, &p.ExperienceYears, &p.Skills, &p.Interests, &p.IsMentor,
		&p.IsLookingForMentor, &p.IsOpenToNetworking, &p.CreatedAt, &p.UpdatedAt,
		&uniID, &uniName, &uniLocation,
	)
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.NewResourceNotFoundError("profile not found")
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}

	if uniID != nil {
		p.University = &models.University{ID: *uniID, Name: deref(uniName), Location: deref(uniLocation)}
	}
	return &p, nil
}

// Update writes every editable profile column
func (r *ProfileRepository) Update(ctx context.Context, p *models.UserProfile) error {
	if p.Skills == nil {
		p.Skills = []string{}
	}
	if p.Interests == nil {
		p.Interests = []string{}
	}

	tag, err := r.db.Exec(ctx, `
		UPDATE user_profiles
		SET university_id = $1, graduation_year = $2, degree = $3, major = $4, current_position = $5,
			current_company = $6, industry = $7, experience_years = $8, skills = $9, interests = $10,
			is_mentor = $11, is_looking_for_mentor = $12, is_open_to_networking = $13, updated_at = NOW()
		WHERE user_id = $14`,
		p.UniversityID, p.GraduationYear, p.Degree, p.Major, p.CurrentPosition,
		p.CurrentCompany, p.Industry, p.ExperienceYears, p.Skills, p.Interests,
		p.IsMentor, p.IsLookingForMentor, p.IsOpenToNetworking, p.UserID,
	)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.NewResourceNotFoundError("university not found")
		}
		return fmt.Errorf("error executing query: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewResourceNotFoundError("profile not found")
	}
	return nil
}

// IsMentor reports whether the user exists and is flagged as a mentor
func (r *ProfileRepository) IsMentor(ctx context.Context, userID int64) (bool, error) {
	var isMentor bool
	err := r.db.QueryRow(ctx, `SELECT is_mentor FROM user_profiles WHERE user_id = $1`, userID).Scan(&isMentor)
	if err != nil {
		if dberrors.IsNoRows(err) {
			return false, nil
		}
		return false, fmt.Errorf("error executing query: %w", err)
	}
	return isMentor, nil
}

// GetDirectoryEntry returns the directory settings of a user, defaulting to a public entry
func (r *ProfileRepository) GetDirectoryEntry(ctx context.Context, userID int64) (*models.DirectoryEntry, error) {
	e := models.DirectoryEntry{UserID: userID, IsPublic: true, AllowContact: true}
	err := r.db.QueryRow(ctx, `
		SELECT is_public, allow_contact, featured, achievements, created_at
		FROM directory_entries WHERE user_id = $1`, userID,
	).Scan(&e.IsPublic, &e.AllowContact, &e.Featured, &e.Achievements, &e.CreatedAt)
	if err != nil && !dberrors.IsNoRows(err) {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	return &e, nil
}

// UpsertDirectoryEntry stores the user-controlled directory settings. featured is curated and left alone.
func (r *ProfileRepository) UpsertDirectoryEntry(ctx context.Context, e *models.DirectoryEntry) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO directory_entries (user_id, is_public, allow_contact, achievements)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE
		SET is_public = EXCLUDED.is_public, allow_contact = EXCLUDED.allow_contact, achievements = EXCLUDED.achievements`,
		e.UserID, e.IsPublic, e.AllowContact, e.Achievements,
	)
	if err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
