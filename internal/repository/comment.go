package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"socialfeed/internal/model"
)

const (
	commentLikesTable   = "comment_likes"
	commentLikeTargetID = "comment_id"
)

type commentRepository struct {
	db *sqlx.DB
}

func NewCommentRepository(db *sqlx.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, postID, userID int64, content string, parentID *int64) (*model.Comment, error) {
	query := `
		INSERT INTO comments (post_id, user_id, content, parent_comment_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, post_id, user_id, content, parent_comment_id, created_at
	`
	var comment model.Comment
	err := r.db.GetContext(ctx, &comment, query, postID, userID, content, parentID)
	if err != nil {
		return nil, fmt.Errorf("insert comment: %w", err)
	}
	return &comment, nil
}

func (r *commentRepository) GetByID(ctx context.Context, commentID int64) (*model.Comment, error) {
	query := `
		SELECT id, post_id, user_id, content, parent_comment_id, created_at
		FROM comments
		WHERE id = $1
	`
	var comment model.Comment
	err := r.db.GetContext(ctx, &comment, query, commentID)
	if err == sql.ErrNoRows {
		return nil, model.ErrCommentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get comment: %w", err)
	}
	return &comment, nil
}

// FindAccessible gates on the parent post: a comment is readable iff its post
// is visible to the viewer. Missing and inaccessible are indistinguishable.
func (r *commentRepository) FindAccessible(ctx context.Context, commentID, viewerID int64) (*model.Comment, error) {
	query := `
		SELECT c.id, c.post_id, c.user_id, c.content, c.parent_comment_id, c.created_at
		FROM comments c
		JOIN posts p ON p.id = c.post_id
		WHERE c.id = $1 AND (NOT p.is_private OR p.user_id = $2)
	`
	var comment model.Comment
	err := r.db.GetContext(ctx, &comment, query, commentID, viewerID)
	if err == sql.ErrNoRows {
		return nil, model.ErrCommentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find accessible comment: %w", err)
	}
	return &comment, nil
}

// commentRow scans a comment with its joined author.
type commentRow struct {
	ID              int64     `db:"id"`
	PostID          int64     `db:"post_id"`
	UserID          int64     `db:"user_id"`
	Content         string    `db:"content"`
	ParentCommentID *int64    `db:"parent_comment_id"`
	CreatedAt       time.Time `db:"created_at"`
	AuthorFirstName string    `db:"author_first_name"`
	AuthorLastName  string    `db:"author_last_name"`
	AuthorAvatar    *string   `db:"author_avatar"`
}

func (row commentRow) toComment() model.Comment {
	return model.Comment{
		ID:              row.ID,
		PostID:          row.PostID,
		UserID:          row.UserID,
		Content:         row.Content,
		ParentCommentID: row.ParentCommentID,
		CreatedAt:       row.CreatedAt,
		Author: &model.UserSummary{
			ID:        row.UserID,
			FirstName: row.AuthorFirstName,
			LastName:  row.AuthorLastName,
			AvatarURL: row.AuthorAvatar,
		},
	}
}

// GetRoots pages over top-level comments newest-first with an id tie-break.
func (r *commentRepository) GetRoots(ctx context.Context, postID int64, cursor *CommentCursor, limit int) ([]model.Comment, error) {
	var query string
	var args []interface{}

	if cursor == nil {
		query = `
			SELECT c.id, c.post_id, c.user_id, c.content, c.parent_comment_id, c.created_at,
			       u.first_name AS author_first_name, u.last_name AS author_last_name,
			       u.avatar_url AS author_avatar
			FROM comments c
			JOIN users u ON u.id = c.user_id
			WHERE c.post_id = $1 AND c.parent_comment_id IS NULL
			ORDER BY c.created_at DESC, c.id DESC
			LIMIT $2
		`
		args = []interface{}{postID, limit + 1}
	} else {
		query = `
			SELECT c.id, c.post_id, c.user_id, c.content, c.parent_comment_id, c.created_at,
			       u.first_name AS author_first_name, u.last_name AS author_last_name,
			       u.avatar_url AS author_avatar
			FROM comments c
			JOIN users u ON u.id = c.user_id
			WHERE c.post_id = $1 AND c.parent_comment_id IS NULL
			  AND (c.created_at, c.id) < ($2, $3)
			ORDER BY c.created_at DESC, c.id DESC
			LIMIT $4
		`
		args = []interface{}{postID, cursor.CreatedAt, cursor.ID, limit + 1}
	}

	var rows []commentRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("get root comments: %w", err)
	}

	comments := make([]model.Comment, len(rows))
	for i, row := range rows {
		comments[i] = row.toComment()
	}
	return comments, nil
}

// GetReplies loads the direct children of every parent on the page in one
// batch, avoiding a query per root comment.
func (r *commentRepository) GetReplies(ctx context.Context, parentIDs []int64) ([]model.Comment, error) {
	if len(parentIDs) == 0 {
		return []model.Comment{}, nil
	}

	query := `
		SELECT c.id, c.post_id, c.user_id, c.content, c.parent_comment_id, c.created_at,
		       u.first_name AS author_first_name, u.last_name AS author_last_name,
		       u.avatar_url AS author_avatar
		FROM comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.parent_comment_id = ANY($1)
		ORDER BY c.created_at DESC, c.id DESC
	`
	var rows []commentRow
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(parentIDs)); err != nil {
		return nil, fmt.Errorf("get replies: %w", err)
	}

	comments := make([]model.Comment, len(rows))
	for i, row := range rows {
		comments[i] = row.toComment()
	}
	return comments, nil
}

func (r *commentRepository) CountLikes(ctx context.Context, commentIDs []int64) (map[int64]int, error) {
	return countByTarget(ctx, r.db, commentLikesTable, commentLikeTargetID, commentIDs)
}

func (r *commentRepository) CheckLikes(ctx context.Context, userID int64, commentIDs []int64) (map[int64]bool, error) {
	return checkLiked(ctx, r.db, commentLikesTable, commentLikeTargetID, userID, commentIDs)
}

func (r *commentRepository) GetLikers(ctx context.Context, commentID int64, cursor *int64, limit int) ([]model.UserSummary, error) {
	return selectLikers(ctx, r.db, commentLikesTable, commentLikeTargetID, commentID, cursor, limit)
}

func (r *commentRepository) ToggleLikeTx(ctx context.Context, fn func(LikeStore) error) error {
	return inLikeTx(ctx, r.db, commentLikesTable, commentLikeTargetID, fn)
}
