package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"socialfeed/internal/model"
)

// likeTable implements LikeStore over one of the two like tables inside a
// transaction. The table and target column are compile-time constants from
// the callers, never user input.
type likeTable struct {
	tx        *sqlx.Tx
	table     string
	targetCol string
}

func (l *likeTable) Has(ctx context.Context, targetID, userID int64) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS(SELECT 1 FROM %s WHERE %s = $1 AND user_id = $2)`,
		l.table, l.targetCol)
	var exists bool
	if err := l.tx.GetContext(ctx, &exists, query, targetID, userID); err != nil {
		return false, fmt.Errorf("check like: %w", err)
	}
	return exists, nil
}

func (l *likeTable) Insert(ctx context.Context, targetID, userID int64) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s, user_id) VALUES ($1, $2)`, l.table, l.targetCol)
	if _, err := l.tx.ExecContext(ctx, query, targetID, userID); err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return model.ErrAlreadyLiked
		}
		return fmt.Errorf("insert like: %w", err)
	}
	return nil
}

func (l *likeTable) Delete(ctx context.Context, targetID, userID int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND user_id = $2`, l.table, l.targetCol)
	result, err := l.tx.ExecContext(ctx, query, targetID, userID)
	if err != nil {
		return fmt.Errorf("delete like: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrNotLiked
	}
	return nil
}

func (l *likeTable) Count(ctx context.Context, targetID int64) (int, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s = $1`, l.table, l.targetCol)
	var count int
	if err := l.tx.GetContext(ctx, &count, query, targetID); err != nil {
		return 0, fmt.Errorf("count likes: %w", err)
	}
	return count, nil
}

// inLikeTx runs fn against the given like table within a single transaction,
// so a toggle's check, write and recount commit or roll back together.
func inLikeTx(ctx context.Context, db *sqlx.DB, table, targetCol string, fn func(LikeStore) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&likeTable{tx: tx, table: table, targetCol: targetCol}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// likerRow is a paginated likers query result with the joined user.
type likerRow struct {
	ID        int64   `db:"id"`
	FirstName string  `db:"first_name"`
	LastName  string  `db:"last_name"`
	AvatarURL *string `db:"avatar_url"`
}

// selectLikers fetches up to limit+1 likers of a target ordered by user id
// ascending, strictly above the cursor when set.
func selectLikers(ctx context.Context, db *sqlx.DB, table, targetCol string, targetID int64, cursor *int64, limit int) ([]model.UserSummary, error) {
	var query string
	var args []interface{}

	if cursor == nil {
		query = fmt.Sprintf(`
			SELECT u.id, u.first_name, u.last_name, u.avatar_url
			FROM %s l
			JOIN users u ON u.id = l.user_id
			WHERE l.%s = $1
			ORDER BY l.user_id ASC
			LIMIT $2
		`, table, targetCol)
		args = []interface{}{targetID, limit + 1}
	} else {
		query = fmt.Sprintf(`
			SELECT u.id, u.first_name, u.last_name, u.avatar_url
			FROM %s l
			JOIN users u ON u.id = l.user_id
			WHERE l.%s = $1 AND l.user_id > $2
			ORDER BY l.user_id ASC
			LIMIT $3
		`, table, targetCol)
		args = []interface{}{targetID, *cursor, limit + 1}
	}

	var rows []likerRow
	if err := db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("get likers: %w", err)
	}

	users := make([]model.UserSummary, len(rows))
	for i, row := range rows {
		users[i] = model.UserSummary{
			ID:        row.ID,
			FirstName: row.FirstName,
			LastName:  row.LastName,
			AvatarURL: row.AvatarURL,
		}
	}
	return users, nil
}

// countByTarget aggregates like rows per target in one query.
func countByTarget(ctx context.Context, db *sqlx.DB, table, targetCol string, targetIDs []int64) (map[int64]int, error) {
	result := make(map[int64]int, len(targetIDs))
	if len(targetIDs) == 0 {
		return result, nil
	}

	query := fmt.Sprintf(`
		SELECT %s AS target_id, COUNT(*) AS n
		FROM %s
		WHERE %s = ANY($1)
		GROUP BY %s
	`, targetCol, table, targetCol, targetCol)

	var rows []struct {
		TargetID int64 `db:"target_id"`
		N        int   `db:"n"`
	}
	if err := db.SelectContext(ctx, &rows, query, pq.Array(targetIDs)); err != nil {
		return nil, fmt.Errorf("count likes by target: %w", err)
	}

	for _, row := range rows {
		result[row.TargetID] = row.N
	}
	return result, nil
}

// checkLiked reports which of the targets the user has liked.
func checkLiked(ctx context.Context, db *sqlx.DB, table, targetCol string, userID int64, targetIDs []int64) (map[int64]bool, error) {
	result := make(map[int64]bool, len(targetIDs))
	for _, id := range targetIDs {
		result[id] = false
	}
	if len(targetIDs) == 0 {
		return result, nil
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE user_id = $1 AND %s = ANY($2)`,
		targetCol, table, targetCol)

	var likedIDs []int64
	if err := db.SelectContext(ctx, &likedIDs, query, userID, pq.Array(targetIDs)); err != nil {
		return nil, fmt.Errorf("check liked: %w", err)
	}

	for _, id := range likedIDs {
		result[id] = true
	}
	return result, nil
}
