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

const commentColumns = `id, post_id, author_id, content, parent_id, is_active, created_at, updated_at`

// CommentRepository handles post comments
type CommentRepository struct {
	db db.Pool
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(pool db.Pool) *CommentRepository {
	return &CommentRepository{db: pool}
}

func scanComment(row pgx.Row, c *models.Comment) error {
	return row.Scan(&c.ID, &c.PostID, &c.AuthorID, &c.Content, &c.ParentID, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
}

// Create inserts a comment on a post
func (r *CommentRepository) Create(ctx context.Context, c *models.Comment) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO comments (post_id, author_id, content, parent_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, is_active, created_at, updated_at`,
		c.PostID, c.AuthorID, c.Content, c.ParentID,
	).Scan(&c.ID, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.NewResourceNotFoundError("post or parent comment not found")
		}
		return fmt.Errorf("error inserting comment: %w", err)
	}
	return nil
}

// FindByID loads an active comment
func (r *CommentRepository) FindByID(ctx context.Context, id int64) (*models.Comment, error) {
	var c models.Comment
	err := scanComment(r.db.QueryRow(ctx,
		`SELECT `+commentColumns+` FROM comments WHERE id = $1 AND is_active`, id), &c)
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.NewResourceNotFoundError("comment not found")
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	return &c, nil
}

// ListByPost returns the active comments of a post, oldest first
func (r *CommentRepository) ListByPost(ctx context.Context, postID int64) ([]models.Comment, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+commentColumns+` FROM comments
		WHERE post_id = $1 AND is_active
		ORDER BY created_at ASC, id ASC`, postID)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	comments := []models.Comment{}
	for rows.Next() {
		var c models.Comment
		if err := scanComment(rows, &c); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}
