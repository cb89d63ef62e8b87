package models

import "time"

// PostType enumerates feed post kinds
type PostType string

const (
	PostText         PostType = "text"
	PostImage        PostType = "image"
	PostLink         PostType = "link"
	PostQuestion     PostType = "question"
	PostAnnouncement PostType = "announcement"
)

// Post defines a community feed post
type Post struct {
	ID        int64     `json:"id" db:"id"`
	AuthorID  int64     `json:"authorId" db:"author_id"`
	PostType  PostType  `json:"postType" db:"post_type"`
	Title     string    `json:"title" db:"title"`
	Content   string    `json:"content" db:"content"`
	ImageURL  *string   `json:"imageUrl,omitempty" db:"image_url"`
	LinkURL   string    `json:"linkUrl" db:"link_url"`
	Tags      []string  `json:"tags" db:"tags"`
	IsPinned  bool      `json:"isPinned" db:"is_pinned"`
	IsActive  bool      `json:"isActive" db:"is_active"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	LikeCount    int   `json:"likeCount"`        // Computed
	CommentCount int   `json:"commentCount"`     // Computed
	Author       *User `json:"author,omitempty"` // Relation, no db tag
}

// Comment is a reply on a post, optionally nested under another comment of the same post
type Comment struct {
	ID        int64     `json:"id" db:"id"`
	PostID    int64     `json:"postId" db:"post_id"`
	AuthorID  int64     `json:"authorId" db:"author_id"`
	Content   string    `json:"content" db:"content"`
	ParentID  *int64    `json:"parentId,omitempty" db:"parent_id"`
	IsActive  bool      `json:"isActive" db:"is_active"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	Author *User `json:"author,omitempty"` // Relation, no db tag
}

// Message is a private message between two users
type Message struct {
	ID         int64     `json:"id" db:"id"`
	SenderID   int64     `json:"senderId" db:"sender_id"`
	ReceiverID int64     `json:"receiverId" db:"receiver_id"`
	Subject    string    `json:"subject" db:"subject"`
	Content    string    `json:"content" db:"content"`
	IsRead     bool      `json:"isRead" db:"is_read"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`

	Sender   *User `json:"sender,omitempty"`   // Relation, no db tag
	Receiver *User `json:"receiver,omitempty"` // Relation, no db tag
}
