package model

import (
	"errors"
	"time"
)

// Comment represents a comment on a post. ParentCommentID is nil for root
// comments and points at another comment of the same post for replies.
type Comment struct {
	ID              int64     `db:"id" json:"id"`
	PostID          int64     `db:"post_id" json:"post_id"`
	UserID          int64     `db:"user_id" json:"-"`
	Content         string    `db:"content" json:"content"`
	ParentCommentID *int64    `db:"parent_comment_id" json:"parent_comment_id,omitempty"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`

	// Joined field (not in comments table)
	Author *UserSummary `db:"-" json:"-"`
}

// CommentResponse is a comment annotated for the viewer, with up to one level
// of nested replies. Replies carry an empty replies list of their own.
type CommentResponse struct {
	ID              int64             `json:"id"`
	Content         string            `json:"content"`
	CreatedAt       time.Time         `json:"created_at"`
	AuthorName      string            `json:"author_name"`
	AuthorAvatar    string            `json:"author_avatar"`
	LikesCount      int               `json:"likes_count"`
	IsLiked         bool              `json:"is_liked_by_current_user"`
	ParentCommentID *int64            `json:"parent_comment_id,omitempty"`
	Replies         []CommentResponse `json:"replies"`
}

// CreateCommentRequest is the request body for creating a comment or reply.
type CreateCommentRequest struct {
	Content         string `json:"content"`
	ParentCommentID *int64 `json:"parent_comment_id,omitempty"`
}

// CommentListResponse is the paginated root-comment page.
type CommentListResponse struct {
	Comments   []CommentResponse `json:"comments"`
	NextCursor *string           `json:"next_cursor,omitempty"`
	HasMore    bool              `json:"has_more"`
}

// Comment constraints
const (
	MaxCommentLength = 2200
)

// Comment errors
var (
	ErrCommentNotFound = errors.New("comment not found")

	// ErrContentRequired rejects empty or whitespace-only content for both
	// posts and comments.
	ErrContentRequired = errors.New("content is required")

	// ErrParentCommentInvalid covers a dangling parent reference or a parent
	// that belongs to a different post. Both are caller input errors.
	ErrParentCommentInvalid = errors.New("parent comment was not found on this post")
)
