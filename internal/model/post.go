package model

import (
	"errors"
	"time"
)

// Post represents a user's post. Like and comment counts are not stored on the
// row; they are counted from the like/comment tables at read time.
type Post struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	Content   string    `db:"content" json:"content"`
	ImageURL  *string   `db:"image_url" json:"image_url"`
	IsPrivate bool      `db:"is_private" json:"is_private"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`

	// Joined field (not in posts table)
	Author *UserSummary `db:"-" json:"-"`
}

// PostResponse is a feed entry annotated for the viewer.
type PostResponse struct {
	ID            int64     `json:"id"`
	Content       string    `json:"content"`
	ImageURL      *string   `json:"image_url"`
	IsPrivate     bool      `json:"is_private"`
	AuthorName    string    `json:"author_name"`
	AuthorAvatar  string    `json:"author_avatar"`
	LikesCount    int       `json:"likes_count"`
	CommentsCount int       `json:"comments_count"`
	CreatedAt     time.Time `json:"created_at"`
	IsLiked       bool      `json:"is_liked_by_current_user"`
}

// CreatePostRequest is the request body for creating a post.
type CreatePostRequest struct {
	Content   string  `json:"content"`
	ImageURL  *string `json:"image_url"`
	IsPrivate bool    `json:"is_private"`
}

// FeedResponse is the paginated feed page.
type FeedResponse struct {
	Posts      []PostResponse `json:"posts"`
	NextCursor *string        `json:"next_cursor,omitempty"`
	HasMore    bool           `json:"has_more"`
}

// Post constraints
const (
	MaxPostContentLength = 2200
)

// Post errors
var (
	ErrPostNotFound   = errors.New("post not found")
	ErrContentTooLong = errors.New("content too long")
)
