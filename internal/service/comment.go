package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"socialfeed/internal/model"
	"socialfeed/internal/pagination"
	"socialfeed/internal/repository"
)

type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
	userRepo    repository.UserRepository
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	postRepo repository.PostRepository,
	userRepo repository.UserRepository,
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		userRepo:    userRepo,
	}
}

// Create adds a comment or reply to a post the viewer can see. A reply's
// parent must exist and belong to the same post; replies to replies are
// stored at their real depth even though pages only surface one level.
func (s *CommentService) Create(ctx context.Context, postID, userID int64, req model.CreateCommentRequest) (*model.CommentResponse, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, model.ErrContentRequired
	}
	if len(content) > model.MaxCommentLength {
		return nil, model.ErrContentTooLong
	}

	if _, err := s.postRepo.FindVisible(ctx, postID, userID); err != nil {
		return nil, err
	}

	if req.ParentCommentID != nil {
		parent, err := s.commentRepo.GetByID(ctx, *req.ParentCommentID)
		if err != nil {
			if errors.Is(err, model.ErrCommentNotFound) {
				return nil, model.ErrParentCommentInvalid
			}
			return nil, err
		}
		if parent.PostID != postID {
			return nil, model.ErrParentCommentInvalid
		}
	}

	comment, err := s.commentRepo.Create(ctx, postID, userID, content, req.ParentCommentID)
	if err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}

	author, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get author: %w", err)
	}

	log.Printf("[CommentService] User %d commented on post %d", userID, postID)

	return &model.CommentResponse{
		ID:              comment.ID,
		Content:         comment.Content,
		CreatedAt:       comment.CreatedAt,
		AuthorName:      author.FullName(),
		AuthorAvatar:    model.ResolveAvatar(author.AvatarURL),
		ParentCommentID: comment.ParentCommentID,
		Replies:         []model.CommentResponse{},
	}, nil
}

// GetComments returns a page of root comments newest-first, each carrying its
// direct replies (one level), with like counts and the viewer's like state
// computed for every comment on the page.
func (s *CommentService) GetComments(ctx context.Context, postID, viewerID int64, cursor *string, limit int) (*model.CommentListResponse, error) {
	if _, err := s.postRepo.FindVisible(ctx, postID, viewerID); err != nil {
		return nil, err
	}

	var rootCursor *repository.CommentCursor
	if cursor != nil {
		ts, id, err := pagination.ParseTimeIDCursor(*cursor)
		if err != nil {
			return nil, err
		}
		rootCursor = &repository.CommentCursor{CreatedAt: ts, ID: id}
	}

	roots, err := s.commentRepo.GetRoots(ctx, postID, rootCursor, limit)
	if err != nil {
		return nil, fmt.Errorf("get root comments: %w", err)
	}

	page := pagination.Trim(roots, limit, func(c model.Comment) string {
		return pagination.FormatTimeIDCursor(c.CreatedAt, c.ID)
	})

	rootIDs := make([]int64, len(page.Items))
	for i, c := range page.Items {
		rootIDs[i] = c.ID
	}

	// One batch query for every reply on the page, already newest-first.
	replies, err := s.commentRepo.GetReplies(ctx, rootIDs)
	if err != nil {
		return nil, fmt.Errorf("get replies: %w", err)
	}

	repliesByParent := make(map[int64][]model.Comment)
	for _, reply := range replies {
		parentID := *reply.ParentCommentID
		repliesByParent[parentID] = append(repliesByParent[parentID], reply)
	}

	allIDs := make([]int64, 0, len(page.Items)+len(replies))
	allIDs = append(allIDs, rootIDs...)
	for _, reply := range replies {
		allIDs = append(allIDs, reply.ID)
	}

	likeCounts, err := s.commentRepo.CountLikes(ctx, allIDs)
	if err != nil {
		return nil, fmt.Errorf("count comment likes: %w", err)
	}
	likedByViewer, err := s.commentRepo.CheckLikes(ctx, viewerID, allIDs)
	if err != nil {
		return nil, fmt.Errorf("check comment likes: %w", err)
	}

	toResponse := func(c model.Comment, nested []model.CommentResponse) model.CommentResponse {
		return model.CommentResponse{
			ID:              c.ID,
			Content:         c.Content,
			CreatedAt:       c.CreatedAt,
			AuthorName:      c.Author.FullName(),
			AuthorAvatar:    model.ResolveAvatar(c.Author.AvatarURL),
			LikesCount:      likeCounts[c.ID],
			IsLiked:         likedByViewer[c.ID],
			ParentCommentID: c.ParentCommentID,
			Replies:         nested,
		}
	}

	responses := make([]model.CommentResponse, len(page.Items))
	for i, root := range page.Items {
		children := repliesByParent[root.ID]
		nested := make([]model.CommentResponse, len(children))
		for j, child := range children {
			// Only one level is materialized; replies carry empty lists.
			nested[j] = toResponse(child, []model.CommentResponse{})
		}
		responses[i] = toResponse(root, nested)
	}

	return &model.CommentListResponse{
		Comments:   responses,
		NextCursor: page.NextCursor,
		HasMore:    page.HasMore,
	}, nil
}

// ToggleLike flips the viewer's like on a comment. Same transaction and
// conflict policy as the post like toggle.
func (s *CommentService) ToggleLike(ctx context.Context, commentID, viewerID int64) (*model.CommentLikeResponse, error) {
	if _, err := s.commentRepo.FindAccessible(ctx, commentID, viewerID); err != nil {
		return nil, err
	}

	resp, err := s.toggleOnce(ctx, commentID, viewerID)
	if errors.Is(err, model.ErrAlreadyLiked) || errors.Is(err, model.ErrNotLiked) {
		log.Printf("[CommentService] Like toggle conflict: comment=%d user=%d, re-reading state", commentID, viewerID)
		return s.likeState(ctx, commentID, viewerID)
	}
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *CommentService) toggleOnce(ctx context.Context, commentID, viewerID int64) (*model.CommentLikeResponse, error) {
	var resp *model.CommentLikeResponse
	err := s.commentRepo.ToggleLikeTx(ctx, func(likes repository.LikeStore) error {
		has, err := likes.Has(ctx, commentID, viewerID)
		if err != nil {
			return err
		}
		if has {
			err = likes.Delete(ctx, commentID, viewerID)
		} else {
			err = likes.Insert(ctx, commentID, viewerID)
		}
		if err != nil {
			return err
		}
		total, err := likes.Count(ctx, commentID)
		if err != nil {
			return err
		}
		resp = &model.CommentLikeResponse{CommentID: commentID, IsLiked: !has, TotalLikes: total}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *CommentService) likeState(ctx context.Context, commentID, viewerID int64) (*model.CommentLikeResponse, error) {
	var resp *model.CommentLikeResponse
	err := s.commentRepo.ToggleLikeTx(ctx, func(likes repository.LikeStore) error {
		has, err := likes.Has(ctx, commentID, viewerID)
		if err != nil {
			return err
		}
		total, err := likes.Count(ctx, commentID)
		if err != nil {
			return err
		}
		resp = &model.CommentLikeResponse{CommentID: commentID, IsLiked: has, TotalLikes: total}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// GetLikers returns a page of users who liked a comment, ordered by user id
// ascending.
func (s *CommentService) GetLikers(ctx context.Context, commentID, viewerID int64, cursor *string, limit int) (*model.LikersResponse, error) {
	if _, err := s.commentRepo.FindAccessible(ctx, commentID, viewerID); err != nil {
		return nil, err
	}

	var cursorID *int64
	if cursor != nil {
		id, err := pagination.ParseIDCursor(*cursor)
		if err != nil {
			return nil, err
		}
		cursorID = &id
	}

	likers, err := s.commentRepo.GetLikers(ctx, commentID, cursorID, limit)
	if err != nil {
		return nil, fmt.Errorf("get comment likers: %w", err)
	}

	return likersResponse(likers, limit), nil
}
