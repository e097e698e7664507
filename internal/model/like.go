package model

import "errors"

// PostLikeResponse is returned by the post like toggle.
type PostLikeResponse struct {
	PostID     int64 `json:"post_id"`
	IsLiked    bool  `json:"is_liked"`
	TotalLikes int   `json:"total_likes"`
}

// CommentLikeResponse is returned by the comment like toggle.
type CommentLikeResponse struct {
	CommentID  int64 `json:"comment_id"`
	IsLiked    bool  `json:"is_liked"`
	TotalLikes int   `json:"total_likes"`
}

// LikeUser is an entry in a paginated likers list.
type LikeUser struct {
	UserID    int64  `json:"user_id"`
	FullName  string `json:"full_name"`
	AvatarURL string `json:"avatar_url"`
}

// LikersResponse is the paginated likers page, ordered by user id ascending.
type LikersResponse struct {
	Users      []LikeUser `json:"users"`
	NextCursor *string    `json:"next_cursor,omitempty"`
	HasMore    bool       `json:"has_more"`
}

// Like errors. A (target, user) pair is unique at the storage layer; these
// sentinels surface the constraint to the toggle engine.
var (
	ErrAlreadyLiked = errors.New("already liked")
	ErrNotLiked     = errors.New("not liked")
)
