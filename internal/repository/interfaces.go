package repository

import (
	"context"
	"time"

	"socialfeed/internal/model"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// LikeStore is a like table scoped to one toggle transaction. Insert returns
// model.ErrAlreadyLiked on a uniqueness conflict and Delete returns
// model.ErrNotLiked when no row was removed, so the toggle engine can treat
// both as expected outcomes of a concurrent flip.
type LikeStore interface {
	Has(ctx context.Context, targetID, userID int64) (bool, error)
	Insert(ctx context.Context, targetID, userID int64) error
	Delete(ctx context.Context, targetID, userID int64) error
	Count(ctx context.Context, targetID int64) (int, error)
}

// CommentCursor is the decoded compound ordering key for comment pages.
type CommentCursor struct {
	CreatedAt time.Time
	ID        int64
}

type PostRepository interface {
	Create(ctx context.Context, userID int64, content string, imageURL *string, isPrivate bool) (*model.Post, error)
	// FindVisible returns the post only when it exists and is readable by the
	// viewer. A missing post and a private post of another user are both
	// model.ErrPostNotFound so private content cannot be probed.
	FindVisible(ctx context.Context, postID, viewerID int64) (*model.Post, error)
	// GetFeedPage fetches up to limit+1 viewer-visible posts with joined
	// authors, ordered by id descending, strictly below the cursor when set.
	GetFeedPage(ctx context.Context, viewerID int64, cursor *int64, limit int) ([]model.Post, error)
	CountLikes(ctx context.Context, postIDs []int64) (map[int64]int, error)
	CountComments(ctx context.Context, postIDs []int64) (map[int64]int, error)
	CheckLikes(ctx context.Context, userID int64, postIDs []int64) (map[int64]bool, error)
	// GetLikers fetches up to limit+1 likers ordered by user id ascending,
	// strictly above the cursor when set.
	GetLikers(ctx context.Context, postID int64, cursor *int64, limit int) ([]model.UserSummary, error)
	// ToggleLikeTx runs fn against the post like table inside one transaction.
	ToggleLikeTx(ctx context.Context, fn func(LikeStore) error) error
}

type CommentRepository interface {
	Create(ctx context.Context, postID, userID int64, content string, parentID *int64) (*model.Comment, error)
	GetByID(ctx context.Context, commentID int64) (*model.Comment, error)
	// FindAccessible gates a comment on its parent post's visibility, with the
	// same not-found semantics as PostRepository.FindVisible.
	FindAccessible(ctx context.Context, commentID, viewerID int64) (*model.Comment, error)
	// GetRoots fetches up to limit+1 root comments with joined authors,
	// ordered by (created_at, id) descending, strictly below the cursor.
	GetRoots(ctx context.Context, postID int64, cursor *CommentCursor, limit int) ([]model.Comment, error)
	// GetReplies fetches the direct replies of all given parents in one query,
	// ordered newest-first.
	GetReplies(ctx context.Context, parentIDs []int64) ([]model.Comment, error)
	CountLikes(ctx context.Context, commentIDs []int64) (map[int64]int, error)
	CheckLikes(ctx context.Context, userID int64, commentIDs []int64) (map[int64]bool, error)
	GetLikers(ctx context.Context, commentID int64, cursor *int64, limit int) ([]model.UserSummary, error)
	ToggleLikeTx(ctx context.Context, fn func(LikeStore) error) error
}
