package repositories

import (
	"context"
	"fmt"

	"github.com/gradlink/alumni/internal/app/models"
	"github.com/gradlink/alumni/internal/db"
	"github.com/gradlink/alumni/internal/pkg/apperrors"
	"github.com/gradlink/alumni/internal/pkg/dberrors"
	"github.com/jackc/pgx/v5"
)

const userColumns = `id, email, username, password_hash, first_name, last_name, role_type, is_verified,
	bio, phone, location, website, linkedin_url, profile_picture_url, created_at, updated_at`

// UserRepository handles database operations for users
type UserRepository struct {
	db db.Pool
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(pool db.Pool) *UserRepository {
	return &UserRepository{db: pool}
}

func scanUser(row pgx.Row, u *models.User) error {
	return row.Scan(
		&u.ID,
		&u.Email,
		&u.Username,
		&u.Password,
		&u.FirstName,
		&u.LastName,
		&u.RoleType,
		&u.IsVerified,
		&u.Bio,
		&u.Phone,
		&u.Location,
		&u.Website,
		&u.LinkedInURL,
		&u.ProfilePictureURL,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
}

// Create inserts the user together with an empty profile and a public directory entry
func (r *UserRepository) Create(ctx context.Context, user *models.User) (int64, error) {
	err := db.RunInTx(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO users (email, username, password_hash, first_name, last_name, role_type)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, created_at, updated_at`,
			user.Email, user.Username, user.Password, user.FirstName, user.LastName, user.RoleType,
		).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
		if err != nil {
			switch {
			case dberrors.IsDuplicateConstraintError(err, "users_email_key"):
				return apperrors.NewConflictError("a user with this email already exists")
			case dberrors.IsDuplicateConstraintError(err, "users_username_key"):
				return apperrors.NewConflictError("this username is taken")
			}
			return fmt.Errorf("error inserting user: %w", err)
		}

		if _, err := tx.Exec(ctx, `INSERT INTO user_profiles (user_id) VALUES ($1)`, user.ID); err != nil {
			return fmt.Errorf("error inserting profile: %w", err)
		}
		if _, err := tx.Exec(ctx, `INSERT INTO directory_entries (user_id) VALUES ($1)`, user.ID); err != nil {
			return fmt.Errorf("error inserting directory entry: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return user.ID, nil
}

// FindByID retrieves a user by ID
func (r *UserRepository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	var u models.User
	err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id), &u)
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.NewResourceNotFoundError("user not found")
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	return &u, nil
}

// FindByEmail retrieves a user by email, case-insensitively
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE LOWER(email) = LOWER($1)`, email), &u)
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.NewResourceNotFoundError("user not found")
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	return &u, nil
}

// FindByIDs loads users keyed by id. Unknown ids are simply absent from the map.
func (r *UserRepository) FindByIDs(ctx context.Context, ids []int64) (map[int64]*models.User, error) {
	users := make(map[int64]*models.User, len(ids))
	if len(ids) == 0 {
		return users, nil
	}

	rows, err := r.db.Query(ctx, `SELECT `+userColumns+` FROM users WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var u models.User
		if err := scanUser(rows, &u); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		users[u.ID] = &u
	}
	return users, rows.Err()
}

// Exists reports whether a user with the given id exists
func (r *UserRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("error executing query: %w", err)
	}
	return exists, nil
}

// UpdatePersonal updates the editable identity fields. role_type is intentionally absent.
func (r *UserRepository) UpdatePersonal(ctx context.Context, user *models.User) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE users
		SET first_name = $1, last_name = $2, bio = $3, phone = $4, location = $5,
			website = $6, linkedin_url = $7, updated_at = NOW()
		WHERE id = $8`,
		user.FirstName, user.LastName, user.Bio, user.Phone, user.Location,
		user.Website, user.LinkedInURL, user.ID,
	)
	if err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewResourceNotFoundError("user not found")
	}
	return nil
}

// UpdateProfilePicture stores the public URL of the user's picture
func (r *UserRepository) UpdateProfilePicture(ctx context.Context, userID int64, url string) error {
	tag, err := r.db.Exec(ctx, `UPDATE users SET profile_picture_url = $1, updated_at = NOW() WHERE id = $2`, url, userID)
	if err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewResourceNotFoundError("user not found")
	}
	return nil
}

// cascadeStep is one delete executed when an account is removed
type cascadeStep struct {
	name  string
	query string
}

// userCascade lists, in execution order, every row owned by or pointing at a user.
// The foreign keys cascade as well; running the steps explicitly keeps the policy visible
// and lets it be tested without a database.
var userCascade = []cascadeStep{
	{"post likes", `DELETE FROM post_likes WHERE user_id = $1 OR post_id IN (SELECT id FROM posts WHERE author_id = $1)`},
	{"comments", `DELETE FROM comments WHERE author_id = $1 OR post_id IN (SELECT id FROM posts WHERE author_id = $1)`},
	{"posts", `DELETE FROM posts WHERE author_id = $1`},
	{"messages", `DELETE FROM messages WHERE sender_id = $1 OR receiver_id = $1`},
	{"event registrations", `DELETE FROM event_registrations WHERE user_id = $1 OR event_id IN (SELECT id FROM events WHERE organizer_id = $1)`},
	{"events", `DELETE FROM events WHERE organizer_id = $1`},
	{"job applications", `DELETE FROM job_applications WHERE applicant_id = $1 OR job_id IN (SELECT id FROM jobs WHERE posted_by = $1)`},
	{"jobs", `DELETE FROM jobs WHERE posted_by = $1`},
	{"mentorship requests", `DELETE FROM mentorship_requests WHERE mentee_id = $1 OR mentor_id = $1`},
	{"connections", `DELETE FROM connections WHERE sender_id = $1 OR receiver_id = $1`},
	{"directory entry", `DELETE FROM directory_entries WHERE user_id = $1`},
	{"profile", `DELETE FROM user_profiles WHERE user_id = $1`},
}

// DeleteCascade removes the user and everything that depends on it in one transaction
func (r *UserRepository) DeleteCascade(ctx context.Context, userID int64) error {
	return db.RunInTx(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		for _, step := range userCascade {
			if _, err := tx.Exec(ctx, step.query, userID); err != nil {
				return fmt.Errorf("error deleting %s: %w", step.name, err)
			}
		}

		tag, err := tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, userID)
		if err != nil {
			return fmt.Errorf("error deleting user: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return apperrors.NewResourceNotFoundError("user not found")
		}
		return nil
	})
}
