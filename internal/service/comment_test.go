package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"socialfeed/internal/model"
	"socialfeed/internal/pagination"
	"socialfeed/internal/repository"
)

// =============================================================================
// MOCK COMMENT REPOSITORY
// =============================================================================

type mockCommentRepository struct {
	createFn         func(ctx context.Context, postID, userID int64, content string, parentID *int64) (*model.Comment, error)
	getByIDFn        func(ctx context.Context, commentID int64) (*model.Comment, error)
	findAccessibleFn func(ctx context.Context, commentID, viewerID int64) (*model.Comment, error)
	getRootsFn       func(ctx context.Context, postID int64, cursor *repository.CommentCursor, limit int) ([]model.Comment, error)
	getRepliesFn     func(ctx context.Context, parentIDs []int64) ([]model.Comment, error)
	countLikesFn     func(ctx context.Context, commentIDs []int64) (map[int64]int, error)
	checkLikesFn     func(ctx context.Context, userID int64, commentIDs []int64) (map[int64]bool, error)
	getLikersFn      func(ctx context.Context, commentID int64, cursor *int64, limit int) ([]model.UserSummary, error)

	likes repository.LikeStore
}

func (m *mockCommentRepository) Create(ctx context.Context, postID, userID int64, content string, parentID *int64) (*model.Comment, error) {
	if m.createFn != nil {
		return m.createFn(ctx, postID, userID, content, parentID)
	}
	return &model.Comment{ID: 1, PostID: postID, UserID: userID, Content: content, ParentCommentID: parentID, CreatedAt: time.Now()}, nil
}

func (m *mockCommentRepository) GetByID(ctx context.Context, commentID int64) (*model.Comment, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, commentID)
	}
	return nil, model.ErrCommentNotFound
}

func (m *mockCommentRepository) FindAccessible(ctx context.Context, commentID, viewerID int64) (*model.Comment, error) {
	if m.findAccessibleFn != nil {
		return m.findAccessibleFn(ctx, commentID, viewerID)
	}
	return &model.Comment{ID: commentID}, nil
}

func (m *mockCommentRepository) GetRoots(ctx context.Context, postID int64, cursor *repository.CommentCursor, limit int) ([]model.Comment, error) {
	if m.getRootsFn != nil {
		return m.getRootsFn(ctx, postID, cursor, limit)
	}
	return nil, nil
}

func (m *mockCommentRepository) GetReplies(ctx context.Context, parentIDs []int64) ([]model.Comment, error) {
	if m.getRepliesFn != nil {
		return m.getRepliesFn(ctx, parentIDs)
	}
	return nil, nil
}

func (m *mockCommentRepository) CountLikes(ctx context.Context, commentIDs []int64) (map[int64]int, error) {
	if m.countLikesFn != nil {
		return m.countLikesFn(ctx, commentIDs)
	}
	return map[int64]int{}, nil
}

func (m *mockCommentRepository) CheckLikes(ctx context.Context, userID int64, commentIDs []int64) (map[int64]bool, error) {
	if m.checkLikesFn != nil {
		return m.checkLikesFn(ctx, userID, commentIDs)
	}
	return map[int64]bool{}, nil
}

func (m *mockCommentRepository) GetLikers(ctx context.Context, commentID int64, cursor *int64, limit int) ([]model.UserSummary, error) {
	if m.getLikersFn != nil {
		return m.getLikersFn(ctx, commentID, cursor, limit)
	}
	return nil, nil
}

func (m *mockCommentRepository) ToggleLikeTx(ctx context.Context, fn func(repository.LikeStore) error) error {
	return fn(m.likes)
}

func newCommentService(commentRepo repository.CommentRepository, postRepo repository.PostRepository) *CommentService {
	users := &mockUserRepository{
		getByIDFn: func(ctx context.Context, id int64) (*model.User, error) {
			return &model.User{ID: id, FirstName: "Ada", LastName: "Lovelace"}, nil
		},
	}
	return NewCommentService(commentRepo, postRepo, users)
}

func int64p(v int64) *int64 { return &v }

// =============================================================================
// CREATE TESTS
// =============================================================================

func TestCommentService_Create_EmptyContent(t *testing.T) {
	svc := newCommentService(&mockCommentRepository{}, &mockPostRepository{})

	_, err := svc.Create(context.Background(), 1, 1, model.CreateCommentRequest{Content: "   "})
	if !errors.Is(err, model.ErrContentRequired) {
		t.Errorf("error = %v, want %v", err, model.ErrContentRequired)
	}
}

func TestCommentService_Create_HiddenPost(t *testing.T) {
	mockPosts := &mockPostRepository{
		findVisibleFn: func(ctx context.Context, postID, viewerID int64) (*model.Post, error) {
			return nil, model.ErrPostNotFound
		},
	}
	svc := newCommentService(&mockCommentRepository{}, mockPosts)

	_, err := svc.Create(context.Background(), 1, 1, model.CreateCommentRequest{Content: "hi"})
	if !errors.Is(err, model.ErrPostNotFound) {
		t.Errorf("error = %v, want %v", err, model.ErrPostNotFound)
	}
}

func TestCommentService_Create_ParentValidation(t *testing.T) {
	// Comment 10 lives on post 1; comment 20 does not exist.
	mockComments := &mockCommentRepository{
		getByIDFn: func(ctx context.Context, commentID int64) (*model.Comment, error) {
			if commentID == 10 {
				return &model.Comment{ID: 10, PostID: 1}, nil
			}
			return nil, model.ErrCommentNotFound
		},
	}
	svc := newCommentService(mockComments, &mockPostRepository{})

	tests := []struct {
		name    string
		postID  int64
		parent  *int64
		wantErr error
	}{
		{name: "root comment", postID: 1, parent: nil},
		{name: "reply to existing parent", postID: 1, parent: int64p(10)},
		{name: "dangling parent", postID: 1, parent: int64p(20), wantErr: model.ErrParentCommentInvalid},
		{name: "parent on another post", postID: 2, parent: int64p(10), wantErr: model.ErrParentCommentInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := svc.Create(context.Background(), tt.postID, 1, model.CreateCommentRequest{
				Content:         "hello",
				ParentCommentID: tt.parent,
			})

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("expected no error, got: %v", err)
			}
			if (resp.ParentCommentID == nil) != (tt.parent == nil) {
				t.Errorf("parent_comment_id = %v, want %v", resp.ParentCommentID, tt.parent)
			}
			if len(resp.Replies) != 0 {
				t.Error("a fresh comment has no replies")
			}
		})
	}
}

// =============================================================================
// COMMENT PAGE TESTS
// =============================================================================

func commentAt(id int64, postID int64, parent *int64, created time.Time) model.Comment {
	return model.Comment{
		ID:              id,
		PostID:          postID,
		UserID:          100,
		Content:         "c",
		ParentCommentID: parent,
		CreatedAt:       created,
		Author:          author(100, "Ada", "Lovelace"),
	}
}

func TestCommentService_GetComments_Tree(t *testing.T) {
	base := time.Unix(1700000000, 0)

	// Roots 3 and 2 newest-first; replies 7 and 5 belong to root 3, reply 6 to
	// root 2. The repository returns replies for all parents in one call,
	// already newest-first.
	roots := []model.Comment{
		commentAt(3, 1, nil, base.Add(2*time.Minute)),
		commentAt(2, 1, nil, base.Add(time.Minute)),
	}
	replies := []model.Comment{
		commentAt(7, 1, int64p(3), base.Add(5*time.Minute)),
		commentAt(6, 1, int64p(2), base.Add(4*time.Minute)),
		commentAt(5, 1, int64p(3), base.Add(3*time.Minute)),
	}

	var repliesAskedFor []int64
	mockComments := &mockCommentRepository{
		getRootsFn: func(ctx context.Context, postID int64, cursor *repository.CommentCursor, limit int) ([]model.Comment, error) {
			return roots, nil
		},
		getRepliesFn: func(ctx context.Context, parentIDs []int64) ([]model.Comment, error) {
			repliesAskedFor = parentIDs
			return replies, nil
		},
		countLikesFn: func(ctx context.Context, commentIDs []int64) (map[int64]int, error) {
			return map[int64]int{3: 2, 7: 1}, nil
		},
		checkLikesFn: func(ctx context.Context, userID int64, commentIDs []int64) (map[int64]bool, error) {
			return map[int64]bool{7: true}, nil
		},
	}
	svc := newCommentService(mockComments, &mockPostRepository{})

	page, err := svc.GetComments(context.Background(), 1, 1, nil, 20)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if len(page.Comments) != 2 {
		t.Fatalf("roots = %d, want 2", len(page.Comments))
	}
	if len(repliesAskedFor) != 2 {
		t.Errorf("replies fetched for %d parents, want one batch for both roots", len(repliesAskedFor))
	}

	first := page.Comments[0]
	if first.ID != 3 {
		t.Fatalf("first root = %d, want 3 (newest)", first.ID)
	}
	if len(first.Replies) != 2 || first.Replies[0].ID != 7 || first.Replies[1].ID != 5 {
		t.Fatalf("root 3 replies = %+v, want [7 5] newest-first", first.Replies)
	}
	// Only one level is materialized.
	if len(first.Replies[0].Replies) != 0 {
		t.Error("replies must carry empty reply lists")
	}

	second := page.Comments[1]
	if second.ID != 2 || len(second.Replies) != 1 || second.Replies[0].ID != 6 {
		t.Fatalf("root 2 replies = %+v, want [6]", second.Replies)
	}

	// Annotations cover roots and replies alike.
	if first.LikesCount != 2 {
		t.Errorf("root 3 likes = %d, want 2", first.LikesCount)
	}
	reply := first.Replies[0]
	if reply.LikesCount != 1 || !reply.IsLiked {
		t.Errorf("reply 7 annotations = %+v", reply)
	}
}

func TestCommentService_GetComments_Pagination(t *testing.T) {
	base := time.Unix(1700000000, 0)

	// Three roots, limit 2: the extra row signals a next page keyed by the
	// compound (id, created_at) cursor of the last returned root.
	roots := []model.Comment{
		commentAt(9, 1, nil, base.Add(3*time.Minute)),
		commentAt(8, 1, nil, base.Add(2*time.Minute)),
		commentAt(7, 1, nil, base.Add(time.Minute)),
	}

	var gotCursor *repository.CommentCursor
	mockComments := &mockCommentRepository{
		getRootsFn: func(ctx context.Context, postID int64, cursor *repository.CommentCursor, limit int) ([]model.Comment, error) {
			gotCursor = cursor
			if cursor == nil {
				return roots, nil
			}
			var page []model.Comment
			for _, c := range roots {
				if c.CreatedAt.Before(cursor.CreatedAt) ||
					(c.CreatedAt.Equal(cursor.CreatedAt) && c.ID < cursor.ID) {
					page = append(page, c)
				}
			}
			return page, nil
		},
	}
	svc := newCommentService(mockComments, &mockPostRepository{})

	page1, err := svc.GetComments(context.Background(), 1, 1, nil, 2)
	if err != nil {
		t.Fatalf("page 1: %v", err)
	}
	if len(page1.Comments) != 2 || !page1.HasMore || page1.NextCursor == nil {
		t.Fatalf("page 1 = %+v, want 2 roots and a cursor", page1)
	}

	want := pagination.FormatTimeIDCursor(roots[1].CreatedAt, roots[1].ID)
	if *page1.NextCursor != want {
		t.Errorf("cursor = %q, want %q", *page1.NextCursor, want)
	}

	page2, err := svc.GetComments(context.Background(), 1, 1, page1.NextCursor, 2)
	if err != nil {
		t.Fatalf("page 2: %v", err)
	}
	if gotCursor == nil || gotCursor.ID != 8 {
		t.Errorf("decoded cursor = %+v, want id 8", gotCursor)
	}
	if len(page2.Comments) != 1 || page2.HasMore {
		t.Fatalf("page 2 = %+v, want the final root", page2)
	}
	if page2.Comments[0].ID != 7 {
		t.Errorf("final root = %d, want 7", page2.Comments[0].ID)
	}
}

func TestCommentService_GetComments_SubSecondTimestamps(t *testing.T) {
	base := time.Unix(1700000000, 0)

	// Three roots created within the same second. The mock compares tuples the
	// way the database does, at full timestamp precision; walking with limit 1
	// must still visit every root exactly once.
	roots := []model.Comment{
		commentAt(3, 1, nil, base.Add(700*time.Millisecond)),
		commentAt(2, 1, nil, base.Add(300*time.Millisecond)),
		commentAt(1, 1, nil, base.Add(100*time.Millisecond)),
	}

	mockComments := &mockCommentRepository{
		getRootsFn: func(ctx context.Context, postID int64, cursor *repository.CommentCursor, limit int) ([]model.Comment, error) {
			var page []model.Comment
			for _, c := range roots {
				if cursor != nil &&
					!c.CreatedAt.Before(cursor.CreatedAt) &&
					!(c.CreatedAt.Equal(cursor.CreatedAt) && c.ID < cursor.ID) {
					continue
				}
				page = append(page, c)
				if len(page) == limit+1 {
					break
				}
			}
			return page, nil
		},
	}
	svc := newCommentService(mockComments, &mockPostRepository{})

	var seen []int64
	var cursor *string
	for {
		page, err := svc.GetComments(context.Background(), 1, 1, cursor, 1)
		if err != nil {
			t.Fatalf("walk: %v", err)
		}
		for _, c := range page.Comments {
			seen = append(seen, c.ID)
		}
		if !page.HasMore {
			break
		}
		cursor = page.NextCursor
	}

	want := []int64{3, 2, 1}
	if len(seen) != len(want) {
		t.Fatalf("walk returned ids %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("walk returned ids %v, want %v", seen, want)
		}
	}
}

// =============================================================================
// LIKE TOGGLE TESTS
// =============================================================================

func TestCommentService_ToggleLike_Pair(t *testing.T) {
	likes := newFakeLikeStore()
	svc := newCommentService(&mockCommentRepository{likes: likes}, &mockPostRepository{})

	resp, err := svc.ToggleLike(context.Background(), 4, 1)
	if err != nil {
		t.Fatalf("first toggle: %v", err)
	}
	if !resp.IsLiked || resp.TotalLikes != 1 || resp.CommentID != 4 {
		t.Errorf("first toggle = %+v, want liked with 1 total", resp)
	}

	resp, err = svc.ToggleLike(context.Background(), 4, 1)
	if err != nil {
		t.Fatalf("second toggle: %v", err)
	}
	if resp.IsLiked || resp.TotalLikes != 0 {
		t.Errorf("second toggle = %+v, want unliked with 0 total", resp)
	}
}

func TestCommentService_ToggleLike_HiddenComment(t *testing.T) {
	mockComments := &mockCommentRepository{
		findAccessibleFn: func(ctx context.Context, commentID, viewerID int64) (*model.Comment, error) {
			return nil, model.ErrCommentNotFound
		},
	}
	svc := newCommentService(mockComments, &mockPostRepository{})

	_, err := svc.ToggleLike(context.Background(), 4, 1)
	if !errors.Is(err, model.ErrCommentNotFound) {
		t.Errorf("error = %v, want %v", err, model.ErrCommentNotFound)
	}
}
