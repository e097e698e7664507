// Package pagination implements keyset (seek) pagination over ordered
// collections. Queries fetch limit+1 rows strictly beyond the cursor in the
// ordering direction; the extra row only signals that more exist and is never
// returned. Cursors walk strictly away from a fixed starting key, so pages
// never overlap and inserts at the head of the ordering do not invalidate
// already-issued cursors.
package pagination

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultLimit is used when the caller does not specify a page size.
	DefaultLimit = 20

	// MaxLimit bounds response size regardless of the requested page size.
	MaxLimit = 100
)

var (
	ErrInvalidLimit  = errors.New("limit must be a positive integer")
	ErrInvalidCursor = errors.New("invalid cursor")
)

// ParseLimit interprets the raw limit query parameter. An absent value yields
// DefaultLimit; zero or negative values are rejected; values above MaxLimit
// are clamped.
func ParseLimit(raw string) (int, error) {
	if raw == "" {
		return DefaultLimit, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return 0, ErrInvalidLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return limit, nil
}

// Page is one page of an ordered collection plus the cursor for the next one.
// NextCursor is nil once the collection is exhausted.
type Page[T any] struct {
	Items      []T
	NextCursor *string
	HasMore    bool
}

// Trim turns a fetch of up to limit+1 items into a page. When the extra item
// is present it is discarded and the key of the last returned item becomes
// the next cursor.
func Trim[T any](items []T, limit int, cursorOf func(T) string) Page[T] {
	if len(items) <= limit {
		return Page[T]{Items: items}
	}
	items = items[:limit]
	c := cursorOf(items[len(items)-1])
	return Page[T]{Items: items, NextCursor: &c, HasMore: true}
}

// FormatIDCursor encodes an integer ordering key (post id, liker user id).
func FormatIDCursor(id int64) string {
	return strconv.FormatInt(id, 10)
}

// ParseIDCursor decodes an integer cursor. The referenced row need not still
// exist; the value is only used as a comparison bound.
func ParseIDCursor(cursor string) (int64, error) {
	id, err := strconv.ParseInt(cursor, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidCursor, cursor)
	}
	return id, nil
}

// FormatTimeIDCursor encodes a compound (created_at, id) ordering key as
// "id:unixmicros". Used for comment pages ordered by creation time with an id
// tie-break. Microsecond precision matches the timestamp columns; anything
// coarser would make the id tie-break fire for rows that merely share a
// second, skipping them at page boundaries.
func FormatTimeIDCursor(t time.Time, id int64) string {
	return fmt.Sprintf("%d:%d", id, t.UnixMicro())
}

// ParseTimeIDCursor decodes a compound "id:unixmicros" cursor.
func ParseTimeIDCursor(cursor string) (time.Time, int64, error) {
	parts := strings.Split(cursor, ":")
	if len(parts) != 2 {
		return time.Time{}, 0, fmt.Errorf("%w: %q", ErrInvalidCursor, cursor)
	}
	id, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return time.Time{}, 0, fmt.Errorf("%w: %q", ErrInvalidCursor, cursor)
	}
	ts, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return time.Time{}, 0, fmt.Errorf("%w: %q", ErrInvalidCursor, cursor)
	}
	return time.UnixMicro(ts), id, nil
}
