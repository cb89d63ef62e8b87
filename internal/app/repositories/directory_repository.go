package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/gradlink/alumni/internal/app/models"
	"github.com/gradlink/alumni/internal/db"
)

// DirectoryFilter narrows the member directory. Zero values mean "no filter".
type DirectoryFilter struct {
	ViewerID       int64
	Search         string
	UniversityID   *int64
	GraduationYear *int
	Roles          []models.RoleType
	MentorsOnly    bool
	Industry       string
	Page           Page
}

// DirectoryRepository runs the searchable member listings
type DirectoryRepository struct {
	db db.Pool
}

// NewDirectoryRepository creates a new DirectoryRepository
func NewDirectoryRepository(pool db.Pool) *DirectoryRepository {
	return &DirectoryRepository{db: pool}
}

// buildDirectoryQuery applies the filter to a SELECT over users joined with profiles and directory entries
func buildDirectoryQuery(base squirrel.SelectBuilder, f DirectoryFilter) squirrel.SelectBuilder {
	q := base.
		From("users u").
		Join("user_profiles p ON p.user_id = u.id").
		LeftJoin("directory_entries d ON d.user_id = u.id").
		Where("COALESCE(d.is_public, TRUE)")

	if f.ViewerID > 0 {
		q = q.Where(squirrel.NotEq{"u.id": f.ViewerID})
	}
	if len(f.Roles) > 0 {
		roles := make([]string, len(f.Roles))
		for i, role := range f.Roles {
			roles[i] = string(role)
		}
		q = q.Where(squirrel.Eq{"u.role_type": roles})
	}
	if f.Search != "" {
		pattern := likePattern(f.Search)
		q = q.Where(squirrel.Or{
			squirrel.ILike{"u.first_name": pattern},
			squirrel.ILike{"u.last_name": pattern},
			squirrel.ILike{"p.current_company": pattern},
			squirrel.ILike{"p.current_position": pattern},
			squirrel.ILike{"array_to_string(p.skills, ',')": pattern},
		})
	}
	if f.UniversityID != nil {
		q = q.Where(squirrel.Eq{"p.university_id": *f.UniversityID})
	}
	if f.GraduationYear != nil {
		q = q.Where(squirrel.Eq{"p.graduation_year": *f.GraduationYear})
	}
	if f.MentorsOnly {
		q = q.Where(squirrel.Eq{"p.is_mentor": true})
	}
	if f.Industry != "" {
		q = q.Where(squirrel.ILike{"p.industry": likePattern(f.Industry)})
	}
	return q
}

// Search returns one page of members matching the filter and the total match count
func (r *DirectoryRepository) Search(ctx context.Context, f DirectoryFilter) ([]models.Member, int64, error) {
	countSQL, countArgs, err := buildDirectoryQuery(psql.Select("COUNT(*)"), f).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building SQL: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting members: %w", err)
	}

	offset, limit := f.Page.offsetLimit()
	listSQL, listArgs, err := buildDirectoryQuery(psql.Select(
		"u.id", "u.email", "u.username", "u.first_name", "u.last_name", "u.role_type", "u.is_verified",
		"u.location", "u.profile_picture_url", "u.created_at",
		"p.university_id", "p.graduation_year", "p.degree", "p.major", "p.current_position",
		"p.current_company", "p.industry", "p.experience_years", "p.skills", "p.is_mentor",
		"p.is_open_to_networking",
	), f).
		OrderBy("COALESCE(d.featured, FALSE) DESC", "u.first_name", "u.last_name", "u.id").
		Offset(offset).
		Limit(limit).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, listSQL, listArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	members := []models.Member{}
	for rows.Next() {
		var m models.Member
		if err := rows.Scan(
			&m.User.ID, &m.User.Email, &m.User.Username, &m.User.FirstName, &m.User.LastName,
			&m.User.RoleType, &m.User.IsVerified, &m.User.Location, &m.User.ProfilePictureURL, &m.User.CreatedAt,
			&m.Profile.UniversityID, &m.Profile.GraduationYear, &m.Profile.Degree, &m.Profile.Major,
			&m.Profile.CurrentPosition, &m.Profile.CurrentCompany, &m.Profile.Industry,
			&m.Profile.ExperienceYears, &m.Profile.Skills, &m.Profile.IsMentor, &m.Profile.IsOpenToNetworking,
		); err != nil {
			return nil, 0, fmt.Errorf("error scanning row: %w", err)
		}
		m.Profile.UserID = m.User.ID
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating rows: %w", err)
	}

	return members, total, nil
}

// GraduationYears lists the distinct graduation years present in profiles, newest first
func (r *DirectoryRepository) GraduationYears(ctx context.Context) ([]int, error) {
	rows, err := r.db.Query(ctx, `
		SELECT DISTINCT graduation_year FROM user_profiles
		WHERE graduation_year IS NOT NULL ORDER BY graduation_year DESC`)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	years := []int{}
	for rows.Next() {
		var y int
		if err := rows.Scan(&y); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		years = append(years, y)
	}
	return years, rows.Err()
}

// Industries lists the distinct non-empty industries present in profiles
func (r *DirectoryRepository) Industries(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, `
		SELECT DISTINCT industry FROM user_profiles
		WHERE industry <> '' ORDER BY industry`)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	industries := []string{}
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		industries = append(industries, s)
	}
	return industries, rows.Err()
}
