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

var postSelectColumns = []string{
	"p.id", "p.author_id", "p.post_type", "p.title", "p.content", "p.image_url", "p.link_url", "p.tags",
	"p.is_pinned", "p.is_active", "p.created_at", "p.updated_at",
	"(SELECT COUNT(*) FROM post_likes l WHERE l.post_id = p.id) AS like_count",
	"(SELECT COUNT(*) FROM comments c WHERE c.post_id = p.id AND c.is_active) AS comment_count",
}

// PostFilter narrows the community feed
type PostFilter struct {
	Search   string
	PostType models.PostType
	Page     Page
}

// LikeResult is the state after a like toggle
type LikeResult struct {
	Liked     bool
	LikeCount int
}

// PostRepository handles feed posts and their likes
type PostRepository struct {
	db db.Pool
}

// NewPostRepository creates a new PostRepository
func NewPostRepository(pool db.Pool) *PostRepository {
	return &PostRepository{db: pool}
}

func scanPost(row pgx.Row, p *models.Post) error {
	return row.Scan(
		&p.ID, &p.AuthorID, &p.PostType, &p.Title, &p.Content, &p.ImageURL, &p.LinkURL, &p.Tags,
		&p.IsPinned, &p.IsActive, &p.CreatedAt, &p.UpdatedAt, &p.LikeCount, &p.CommentCount,
	)
}

func (r *PostRepository) queryPosts(ctx context.Context, q squirrel.SelectBuilder) ([]models.Post, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	posts := []models.Post{}
	for rows.Next() {
		var p models.Post
		if err := scanPost(rows, &p); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// Create inserts a new post
func (r *PostRepository) Create(ctx context.Context, p *models.Post) error {
	if p.Tags == nil {
		p.Tags = []string{}
	}
	err := r.db.QueryRow(ctx, `
		INSERT INTO posts (author_id, post_type, title, content, image_url, link_url, tags)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, is_pinned, is_active, created_at, updated_at`,
		p.AuthorID, p.PostType, p.Title, p.Content, p.ImageURL, p.LinkURL, p.Tags,
	).Scan(&p.ID, &p.IsPinned, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error inserting post: %w", err)
	}
	return nil
}

// FindActiveByID loads an active post with its like and comment counts
func (r *PostRepository) FindActiveByID(ctx context.Context, id int64) (*models.Post, error) {
	sql, args, err := psql.Select(postSelectColumns...).
		From("posts p").
		Where(squirrel.Eq{"p.id": id, "p.is_active": true}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	var p models.Post
	if err := scanPost(r.db.QueryRow(ctx, sql, args...), &p); err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.NewResourceNotFoundError("post not found")
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	return &p, nil
}

func buildFeedQuery(base squirrel.SelectBuilder, f PostFilter) squirrel.SelectBuilder {
	q := base.From("posts p").Where(squirrel.Eq{"p.is_active": true})
	if f.Search != "" {
		pattern := likePattern(f.Search)
		q = q.Where(squirrel.Or{
			squirrel.ILike{"p.title": pattern},
			squirrel.ILike{"p.content": pattern},
			squirrel.ILike{"array_to_string(p.tags, ',')": pattern},
		})
	}
	if f.PostType != "" {
		q = q.Where(squirrel.Eq{"p.post_type": string(f.PostType)})
	}
	return q
}

// ListFeed returns one page of the feed, pinned posts first then newest first
func (r *PostRepository) ListFeed(ctx context.Context, f PostFilter) ([]models.Post, int64, error) {
	countSQL, countArgs, err := buildFeedQuery(psql.Select("COUNT(*)"), f).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building SQL: %w", err)
	}
	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting posts: %w", err)
	}

	offset, limit := f.Page.offsetLimit()
	posts, err := r.queryPosts(ctx, buildFeedQuery(psql.Select(postSelectColumns...), f).
		OrderBy("p.is_pinned DESC", "p.created_at DESC", "p.id DESC").
		Offset(offset).
		Limit(limit))
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// ListRecent returns the newest active posts
func (r *PostRepository) ListRecent(ctx context.Context, limit uint64) ([]models.Post, error) {
	return r.queryPosts(ctx, psql.Select(postSelectColumns...).
		From("posts p").
		Where(squirrel.Eq{"p.is_active": true}).
		OrderBy("p.created_at DESC").
		Limit(limit))
}

// ListByAuthor returns the user's own active posts, newest first
func (r *PostRepository) ListByAuthor(ctx context.Context, authorID int64) ([]models.Post, error) {
	return r.queryPosts(ctx, psql.Select(postSelectColumns...).
		From("posts p").
		Where(squirrel.Eq{"p.author_id": authorID, "p.is_active": true}).
		OrderBy("p.created_at DESC"))
}

// Delete removes a post owned by authorID; likes and comments go with it
func (r *PostRepository) Delete(ctx context.Context, id, authorID int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM posts WHERE id = $1 AND author_id = $2`, id, authorID)
	if err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewResourceNotFoundError("post not found")
	}
	return nil
}

// ToggleLike removes the user's like if present, otherwise adds it, and returns the new count.
// Two concurrent likes by the same user collapse into one row.
func (r *PostRepository) ToggleLike(ctx context.Context, postID, userID int64) (*LikeResult, error) {
	result := &LikeResult{}

	err := db.RunInTx(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM post_likes WHERE post_id = $1 AND user_id = $2`, postID, userID)
		if err != nil {
			return fmt.Errorf("error removing like: %w", err)
		}

		if tag.RowsAffected() == 0 {
			_, err = tx.Exec(ctx, `
				INSERT INTO post_likes (post_id, user_id) VALUES ($1, $2)
				ON CONFLICT (post_id, user_id) DO NOTHING`, postID, userID)
			if err != nil {
				if dberrors.IsForeignKeyViolation(err) {
					return apperrors.NewResourceNotFoundError("post not found")
				}
				return fmt.Errorf("error adding like: %w", err)
			}
			result.Liked = true
		}

		if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM post_likes WHERE post_id = $1`, postID).Scan(&result.LikeCount); err != nil {
			return fmt.Errorf("error counting likes: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// LikedBy returns which of postIDs the user has liked
func (r *PostRepository) LikedBy(ctx context.Context, userID int64, postIDs []int64) (map[int64]bool, error) {
	liked := make(map[int64]bool, len(postIDs))
	if len(postIDs) == 0 {
		return liked, nil
	}

	rows, err := r.db.Query(ctx, `SELECT post_id FROM post_likes WHERE user_id = $1 AND post_id = ANY($2)`, userID, postIDs)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		liked[id] = true
	}
	return liked, rows.Err()
}
