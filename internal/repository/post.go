package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"socialfeed/internal/model"
)

const (
	postLikesTable   = "post_likes"
	postLikeTargetID = "post_id"
)

type postRepository struct {
	db *sqlx.DB
}

func NewPostRepository(db *sqlx.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, userID int64, content string, imageURL *string, isPrivate bool) (*model.Post, error) {
	query := `
		INSERT INTO posts (user_id, content, image_url, is_private)
		VALUES ($1, $2, $3, $4)
		RETURNING id, user_id, content, image_url, is_private, created_at
	`
	var post model.Post
	err := r.db.GetContext(ctx, &post, query, userID, content, imageURL, isPrivate)
	if err != nil {
		return nil, fmt.Errorf("insert post: %w", err)
	}
	return &post, nil
}

// FindVisible deliberately folds "does not exist" and "not visible" into one
// not-found result.
func (r *postRepository) FindVisible(ctx context.Context, postID, viewerID int64) (*model.Post, error) {
	query := `
		SELECT id, user_id, content, image_url, is_private, created_at
		FROM posts
		WHERE id = $1 AND (NOT is_private OR user_id = $2)
	`
	var post model.Post
	err := r.db.GetContext(ctx, &post, query, postID, viewerID)
	if err == sql.ErrNoRows {
		return nil, model.ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find visible post: %w", err)
	}
	return &post, nil
}

// postRow scans a post with its joined author.
type postRow struct {
	ID              int64     `db:"id"`
	UserID          int64     `db:"user_id"`
	Content         string    `db:"content"`
	ImageURL        *string   `db:"image_url"`
	IsPrivate       bool      `db:"is_private"`
	CreatedAt       time.Time `db:"created_at"`
	AuthorFirstName string    `db:"author_first_name"`
	AuthorLastName  string    `db:"author_last_name"`
	AuthorAvatar    *string   `db:"author_avatar"`
}

func (row postRow) toPost() model.Post {
	return model.Post{
		ID:        row.ID,
		UserID:    row.UserID,
		Content:   row.Content,
		ImageURL:  row.ImageURL,
		IsPrivate: row.IsPrivate,
		CreatedAt: row.CreatedAt,
		Author: &model.UserSummary{
			ID:        row.UserID,
			FirstName: row.AuthorFirstName,
			LastName:  row.AuthorLastName,
			AvatarURL: row.AuthorAvatar,
		},
	}
}

// GetFeedPage orders by id descending as the recency proxy; ids are issued in
// creation order, which keeps the sort stable under concurrent inserts.
func (r *postRepository) GetFeedPage(ctx context.Context, viewerID int64, cursor *int64, limit int) ([]model.Post, error) {
	var query string
	var args []interface{}

	if cursor == nil {
		query = `
			SELECT p.id, p.user_id, p.content, p.image_url, p.is_private, p.created_at,
			       u.first_name AS author_first_name, u.last_name AS author_last_name,
			       u.avatar_url AS author_avatar
			FROM posts p
			JOIN users u ON u.id = p.user_id
			WHERE NOT p.is_private OR p.user_id = $1
			ORDER BY p.id DESC
			LIMIT $2
		`
		args = []interface{}{viewerID, limit + 1}
	} else {
		query = `
			SELECT p.id, p.user_id, p.content, p.image_url, p.is_private, p.created_at,
			       u.first_name AS author_first_name, u.last_name AS author_last_name,
			       u.avatar_url AS author_avatar
			FROM posts p
			JOIN users u ON u.id = p.user_id
			WHERE (NOT p.is_private OR p.user_id = $1) AND p.id < $2
			ORDER BY p.id DESC
			LIMIT $3
		`
		args = []interface{}{viewerID, *cursor, limit + 1}
	}

	var rows []postRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("get feed page: %w", err)
	}

	posts := make([]model.Post, len(rows))
	for i, row := range rows {
		posts[i] = row.toPost()
	}
	return posts, nil
}

func (r *postRepository) CountLikes(ctx context.Context, postIDs []int64) (map[int64]int, error) {
	return countByTarget(ctx, r.db, postLikesTable, postLikeTargetID, postIDs)
}

func (r *postRepository) CountComments(ctx context.Context, postIDs []int64) (map[int64]int, error) {
	// Counts every comment of the post, replies included.
	return countByTarget(ctx, r.db, "comments", "post_id", postIDs)
}

func (r *postRepository) CheckLikes(ctx context.Context, userID int64, postIDs []int64) (map[int64]bool, error) {
	return checkLiked(ctx, r.db, postLikesTable, postLikeTargetID, userID, postIDs)
}

func (r *postRepository) GetLikers(ctx context.Context, postID int64, cursor *int64, limit int) ([]model.UserSummary, error) {
	return selectLikers(ctx, r.db, postLikesTable, postLikeTargetID, postID, cursor, limit)
}

func (r *postRepository) ToggleLikeTx(ctx context.Context, fn func(LikeStore) error) error {
	return inLikeTx(ctx, r.db, postLikesTable, postLikeTargetID, fn)
}
