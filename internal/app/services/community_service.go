package services

import (
	"context"
	"strings"

	"github.com/gradlink/alumni/internal/app/models"
	"github.com/gradlink/alumni/internal/app/models/dto"
	"github.com/gradlink/alumni/internal/app/repositories"
	"github.com/gradlink/alumni/internal/pkg/apperrors"
	"github.com/rs/zerolog"
)

// CommunityService manages the feed: posts, comments and likes
type CommunityService interface {
	CreatePost(ctx context.Context, authorID int64, req *dto.CreatePostRequest) (*dto.PostResponse, error)
	GetPost(ctx context.Context, viewerID, postID int64) (*dto.PostResponse, error)
	ListFeed(ctx context.Context, viewerID int64, query dto.FeedQuery, page, size int) (*dto.FeedResponse, error)
	ListMyPosts(ctx context.Context, userID int64) ([]dto.PostResponse, error)
	DeletePost(ctx context.Context, authorID, postID int64) error
	ToggleLike(ctx context.Context, userID, postID int64) (*dto.LikeResponse, error)
	CreateComment(ctx context.Context, authorID, postID int64, req *dto.CreateCommentRequest) (*dto.CommentResponse, error)
}

type communityServiceImpl struct {
	posts    PostStore
	comments CommentStore
	users    UserStore
	logger   zerolog.Logger
}

// NewCommunityService creates a new CommunityService
func NewCommunityService(posts PostStore, comments CommentStore, users UserStore, logger zerolog.Logger) CommunityService {
	return &communityServiceImpl{
		posts:    posts,
		comments: comments,
		users:    users,
		logger:   logger,
	}
}

// CreatePost publishes a post. The type defaults to text.
func (s *communityServiceImpl) CreatePost(ctx context.Context, authorID int64, req *dto.CreatePostRequest) (*dto.PostResponse, error) {
	postType := req.PostType
	if postType == "" {
		postType = models.PostText
	}

	post := &models.Post{
		AuthorID: authorID,
		PostType: postType,
		Title:    strings.TrimSpace(req.Title),
		Content:  req.Content,
		ImageURL: req.ImageURL,
		LinkURL:  req.LinkURL,
		Tags:     cleanList(req.Tags),
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}
	return s.GetPost(ctx, authorID, post.ID)
}

// GetPost returns a post with its top-level comments and their direct replies
func (s *communityServiceImpl) GetPost(ctx context.Context, viewerID, postID int64) (*dto.PostResponse, error) {
	post, err := s.posts.FindActiveByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	comments, err := s.comments.ListByPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	ids := []int64{post.AuthorID}
	for i := range comments {
		ids = append(ids, comments[i].AuthorID)
	}
	users, err := loadUsers(ctx, s.users, ids)
	if err != nil {
		return nil, err
	}
	post.Author = users[post.AuthorID]
	for i := range comments {
		comments[i].Author = users[comments[i].AuthorID]
	}

	liked, err := s.likedBy(ctx, viewerID, []int64{postID})
	if err != nil {
		return nil, err
	}

	resp := dto.FromPost(post, liked[postID])
	resp.Comments = buildCommentTree(comments)
	return &resp, nil
}

// buildCommentTree nests replies under their parent. Comments arrive oldest first.
func buildCommentTree(comments []models.Comment) []dto.CommentResponse {
	replies := make(map[int64][]dto.CommentResponse)
	for i := range comments {
		c := &comments[i]
		if c.ParentID != nil {
			replies[*c.ParentID] = append(replies[*c.ParentID], dto.FromComment(c))
		}
	}

	tree := make([]dto.CommentResponse, 0, len(comments))
	for i := range comments {
		c := &comments[i]
		if c.ParentID != nil {
			continue
		}
		item := dto.FromComment(c)
		item.Replies = replies[c.ID]
		tree = append(tree, item)
	}
	return tree
}

// ListFeed pages through the feed, pinned posts first and then newest
func (s *communityServiceImpl) ListFeed(ctx context.Context, viewerID int64, query dto.FeedQuery, page, size int) (*dto.FeedResponse, error) {
	posts, total, err := s.posts.ListFeed(ctx, repositories.PostFilter{
		Search:   strings.TrimSpace(query.Search),
		PostType: query.PostType,
		Page:     pageOf(page, size),
	})
	if err != nil {
		return nil, err
	}

	items, err := s.toResponses(ctx, viewerID, posts)
	if err != nil {
		return nil, err
	}
	return &dto.FeedResponse{
		Posts:      items,
		Pagination: paginationOf(total, page, size),
	}, nil
}

// ListMyPosts lists the caller's active posts
func (s *communityServiceImpl) ListMyPosts(ctx context.Context, userID int64) ([]dto.PostResponse, error) {
	posts, err := s.posts.ListByAuthor(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.toResponses(ctx, userID, posts)
}

// DeletePost removes a post written by the caller
func (s *communityServiceImpl) DeletePost(ctx context.Context, authorID, postID int64) error {
	return s.posts.Delete(ctx, postID, authorID)
}

// ToggleLike likes the post, or removes the like if the user already liked it
func (s *communityServiceImpl) ToggleLike(ctx context.Context, userID, postID int64) (*dto.LikeResponse, error) {
	if _, err := s.posts.FindActiveByID(ctx, postID); err != nil {
		return nil, err
	}
	result, err := s.posts.ToggleLike(ctx, postID, userID)
	if err != nil {
		return nil, err
	}
	return &dto.LikeResponse{Liked: result.Liked, LikeCount: result.LikeCount}, nil
}

// CreateComment adds a comment. A reply must point at a comment of the same post.
func (s *communityServiceImpl) CreateComment(ctx context.Context, authorID, postID int64, req *dto.CreateCommentRequest) (*dto.CommentResponse, error) {
	if _, err := s.posts.FindActiveByID(ctx, postID); err != nil {
		return nil, err
	}

	if req.ParentID != nil {
		parent, err := s.comments.FindByID(ctx, *req.ParentID)
		if err != nil {
			return nil, err
		}
		if parent.PostID != postID {
			return nil, apperrors.NewResourceNotFoundError("parent comment not found")
		}
	}

	comment := &models.Comment{
		PostID:   postID,
		AuthorID: authorID,
		Content:  req.Content,
		ParentID: req.ParentID,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}

	author, err := s.users.FindByID(ctx, authorID)
	if err != nil {
		return nil, err
	}
	comment.Author = author

	resp := dto.FromComment(comment)
	return &resp, nil
}

func (s *communityServiceImpl) likedBy(ctx context.Context, viewerID int64, postIDs []int64) (map[int64]bool, error) {
	if viewerID == 0 || len(postIDs) == 0 {
		return map[int64]bool{}, nil
	}
	return s.posts.LikedBy(ctx, viewerID, postIDs)
}

func (s *communityServiceImpl) toResponses(ctx context.Context, viewerID int64, posts []models.Post) ([]dto.PostResponse, error) {
	postIDs := make([]int64, 0, len(posts))
	authorIDs := make([]int64, 0, len(posts))
	for i := range posts {
		postIDs = append(postIDs, posts[i].ID)
		authorIDs = append(authorIDs, posts[i].AuthorID)
	}

	liked, err := s.likedBy(ctx, viewerID, postIDs)
	if err != nil {
		return nil, err
	}
	authors, err := loadUsers(ctx, s.users, authorIDs)
	if err != nil {
		return nil, err
	}

	out := make([]dto.PostResponse, 0, len(posts))
	for i := range posts {
		p := &posts[i]
		p.Author = authors[p.AuthorID]
		out = append(out, dto.FromPost(p, liked[p.ID]))
	}
	return out, nil
}
