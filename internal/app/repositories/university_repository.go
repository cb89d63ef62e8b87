package repositories

import (
	"context"
	"fmt"

	"github.com/gradlink/alumni/internal/app/models"
	"github.com/gradlink/alumni/internal/db"
	"github.com/gradlink/alumni/internal/pkg/apperrors"
	"github.com/gradlink/alumni/internal/pkg/dberrors"
)

// UniversityRepository handles database operations for universities
type UniversityRepository struct {
	db db.Pool
}

// NewUniversityRepository creates a new UniversityRepository
func NewUniversityRepository(pool db.Pool) *UniversityRepository {
	return &UniversityRepository{db: pool}
}

// List returns all universities ordered by name
func (r *UniversityRepository) List(ctx context.Context) ([]models.University, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, location, website, logo_url, description, established_year, created_at
		FROM universities ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	universities := []models.University{}
	for rows.Next() {
		var u models.University
		if err := rows.Scan(&u.ID, &u.Name, &u.Location, &u.Website, &u.LogoURL, &u.Description, &u.EstablishedYear, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		universities = append(universities, u)
	}
	return universities, rows.Err()
}

// FindByID retrieves a university by ID
func (r *UniversityRepository) FindByID(ctx context.Context, id int64) (*models.University, error) {
	var u models.University
	err := r.db.QueryRow(ctx, `
		SELECT id, name, location, website, logo_url, description, established_year, created_at
		FROM universities WHERE id = $1`, id,
	).Scan(&u.ID, &u.Name, &u.Location, &u.Website, &u.LogoURL, &u.Description, &u.EstablishedYear, &u.CreatedAt)
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.NewResourceNotFoundError("university not found")
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	return &u, nil
}

// EnsureByName inserts the university unless one with the same name already exists
func (r *UniversityRepository) EnsureByName(ctx context.Context, u *models.University) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		INSERT INTO universities (name, location, website, description, established_year)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (name) DO NOTHING`,
		u.Name, u.Location, u.Website, u.Description, u.EstablishedYear,
	)
	if err != nil {
		return false, fmt.Errorf("error executing query: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}
