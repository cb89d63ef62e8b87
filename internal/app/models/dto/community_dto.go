package dto

import (
	"time"

	"github.com/gradlink/alumni/internal/app/models"
)

// CreatePostRequest creates a feed post
type CreatePostRequest struct {
	PostType models.PostType `json:"postType" binding:"omitempty,oneof=text image link question announcement" example:"text"`
	Title    string          `json:"title" binding:"max=200"`
	Content  string          `json:"content" binding:"required"`
	ImageURL *string         `json:"imageUrl" binding:"omitempty,url,max=500"`
	LinkURL  string          `json:"linkUrl" binding:"omitempty,url,max=500"`
	Tags     []string        `json:"tags" binding:"max=20,dive,min=1,max=50"`
}

// CreateCommentRequest adds a comment, optionally as a reply
type CreateCommentRequest struct {
	Content  string `json:"content" binding:"required,max=5000"`
	ParentID *int64 `json:"parentId" binding:"omitempty,min=1"`
}

// PostResponse represents a post in the feed
type PostResponse struct {
	ID           int64             `json:"id"`
	PostType     string            `json:"postType"`
	Title        string            `json:"title"`
	Content      string            `json:"content"`
	ImageURL     *string           `json:"imageUrl,omitempty"`
	LinkURL      string            `json:"linkUrl,omitempty"`
	Tags         []string          `json:"tags"`
	IsPinned     bool              `json:"isPinned"`
	LikeCount    int               `json:"likeCount"`
	CommentCount int               `json:"commentCount"`
	LikedByMe    bool              `json:"likedByMe"`
	Author       *UserSummary      `json:"author,omitempty"`
	Comments     []CommentResponse `json:"comments,omitempty"`
	CreatedAt    time.Time         `json:"createdAt"`
}

// CommentResponse is a comment with its direct replies
type CommentResponse struct {
	ID        int64             `json:"id"`
	PostID    int64             `json:"postId"`
	ParentID  *int64            `json:"parentId,omitempty"`
	Content   string            `json:"content"`
	Author    *UserSummary      `json:"author,omitempty"`
	Replies   []CommentResponse `json:"replies,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
}

// FeedResponse is a page of the community feed
type FeedResponse struct {
	Posts      []PostResponse `json:"posts"`
	Pagination PaginationInfo `json:"pagination"`
}

// LikeResponse is the post state after a like toggle
type LikeResponse struct {
	Liked     bool `json:"liked"`
	LikeCount int  `json:"likeCount"`
}

// SendMessageRequest sends a private message
type SendMessageRequest struct {
	ReceiverID int64  `json:"receiverId" binding:"required,min=1"`
	Subject    string `json:"subject" binding:"max=200"`
	Content    string `json:"content" binding:"required,max=10000"`
}

// MessageResponse represents a private message
type MessageResponse struct {
	ID        int64        `json:"id"`
	Subject   string       `json:"subject"`
	Content   string       `json:"content"`
	IsRead    bool         `json:"isRead"`
	Sender    *UserSummary `json:"sender,omitempty"`
	Receiver  *UserSummary `json:"receiver,omitempty"`
	CreatedAt time.Time    `json:"createdAt"`
}

// InboxResponse lists received and sent messages
type InboxResponse struct {
	Received    []MessageResponse `json:"received"`
	Sent        []MessageResponse `json:"sent"`
	UnreadCount int               `json:"unreadCount"`
}

// FromPost converts a post model
func FromPost(p *models.Post, likedByMe bool) PostResponse {
	return PostResponse{
		ID:           p.ID,
		PostType:     string(p.PostType),
		Title:        p.Title,
		Content:      p.Content,
		ImageURL:     p.ImageURL,
		LinkURL:      p.LinkURL,
		Tags:         nonNil(p.Tags),
		IsPinned:     p.IsPinned,
		LikeCount:    p.LikeCount,
		CommentCount: p.CommentCount,
		LikedByMe:    likedByMe,
		Author:       FromUserSummary(p.Author),
		CreatedAt:    p.CreatedAt,
	}
}

// FromComment converts a comment model without replies
func FromComment(c *models.Comment) CommentResponse {
	return CommentResponse{
		ID:        c.ID,
		PostID:    c.PostID,
		ParentID:  c.ParentID,
		Content:   c.Content,
		Author:    FromUserSummary(c.Author),
		CreatedAt: c.CreatedAt,
	}
}

// FromMessage converts a message model
func FromMessage(m *models.Message) MessageResponse {
	return MessageResponse{
		ID:        m.ID,
		Subject:   m.Subject,
		Content:   m.Content,
		IsRead:    m.IsRead,
		Sender:    FromUserSummary(m.Sender),
		Receiver:  FromUserSummary(m.Receiver),
		CreatedAt: m.CreatedAt,
	}
}

// FeedQuery holds the feed filters
type FeedQuery struct {
	Search   string          `form:"search"`
	PostType models.PostType `form:"post_type" binding:"omitempty,oneof=text image link question announcement"`
}
