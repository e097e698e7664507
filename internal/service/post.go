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

type PostService struct {
	postRepo repository.PostRepository
	userRepo repository.UserRepository
}

func NewPostService(postRepo repository.PostRepository, userRepo repository.UserRepository) *PostService {
	return &PostService{
		postRepo: postRepo,
		userRepo: userRepo,
	}
}

// Create creates a new post for the author.
func (s *PostService) Create(ctx context.Context, userID int64, req model.CreatePostRequest) (*model.PostResponse, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, model.ErrContentRequired
	}
	if len(content) > model.MaxPostContentLength {
		return nil, model.ErrContentTooLong
	}

	post, err := s.postRepo.Create(ctx, userID, content, req.ImageURL, req.IsPrivate)
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}

	author, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get author: %w", err)
	}

	return &model.PostResponse{
		ID:           post.ID,
		Content:      post.Content,
		ImageURL:     post.ImageURL,
		IsPrivate:    post.IsPrivate,
		AuthorName:   author.FullName(),
		AuthorAvatar: model.ResolveAvatar(author.AvatarURL),
		CreatedAt:    post.CreatedAt,
	}, nil
}

// GetFeed returns a page of posts visible to the viewer, newest-first by post
// id, annotated with like/comment counts and the viewer's own like state.
func (s *PostService) GetFeed(ctx context.Context, viewerID int64, cursor *string, limit int) (*model.FeedResponse, error) {
	var cursorID *int64
	if cursor != nil {
		id, err := pagination.ParseIDCursor(*cursor)
		if err != nil {
			return nil, err
		}
		cursorID = &id
	}

	posts, err := s.postRepo.GetFeedPage(ctx, viewerID, cursorID, limit)
	if err != nil {
		return nil, fmt.Errorf("get feed page: %w", err)
	}

	page := pagination.Trim(posts, limit, func(p model.Post) string {
		return pagination.FormatIDCursor(p.ID)
	})

	postIDs := make([]int64, len(page.Items))
	for i, p := range page.Items {
		postIDs[i] = p.ID
	}

	likeCounts, err := s.postRepo.CountLikes(ctx, postIDs)
	if err != nil {
		return nil, fmt.Errorf("count likes: %w", err)
	}
	commentCounts, err := s.postRepo.CountComments(ctx, postIDs)
	if err != nil {
		return nil, fmt.Errorf("count comments: %w", err)
	}
	likedByViewer, err := s.postRepo.CheckLikes(ctx, viewerID, postIDs)
	if err != nil {
		return nil, fmt.Errorf("check likes: %w", err)
	}

	responses := make([]model.PostResponse, len(page.Items))
	for i, p := range page.Items {
		responses[i] = model.PostResponse{
			ID:            p.ID,
			Content:       p.Content,
			ImageURL:      p.ImageURL,
			IsPrivate:     p.IsPrivate,
			AuthorName:    p.Author.FullName(),
			AuthorAvatar:  model.ResolveAvatar(p.Author.AvatarURL),
			LikesCount:    likeCounts[p.ID],
			CommentsCount: commentCounts[p.ID],
			CreatedAt:     p.CreatedAt,
			IsLiked:       likedByViewer[p.ID],
		}
	}

	return &model.FeedResponse{
		Posts:      responses,
		NextCursor: page.NextCursor,
		HasMore:    page.HasMore,
	}, nil
}

// ToggleLike flips the viewer's like on a post and returns the new state with
// a fresh total. The check, write and recount run in one transaction. When a
// concurrent toggle from the same viewer wins the race, the database
// uniqueness constraint rejects our write; that is treated as "the state
// already flipped" and the current state is returned as a no-op.
func (s *PostService) ToggleLike(ctx context.Context, postID, viewerID int64) (*model.PostLikeResponse, error) {
	if _, err := s.postRepo.FindVisible(ctx, postID, viewerID); err != nil {
		return nil, err
	}

	resp, err := s.toggleOnce(ctx, postID, viewerID)
	if errors.Is(err, model.ErrAlreadyLiked) || errors.Is(err, model.ErrNotLiked) {
		log.Printf("[PostService] Like toggle conflict: post=%d user=%d, re-reading state", postID, viewerID)
		return s.likeState(ctx, postID, viewerID)
	}
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *PostService) toggleOnce(ctx context.Context, postID, viewerID int64) (*model.PostLikeResponse, error) {
	var resp *model.PostLikeResponse
	err := s.postRepo.ToggleLikeTx(ctx, func(likes repository.LikeStore) error {
		has, err := likes.Has(ctx, postID, viewerID)
		if err != nil {
			return err
		}
		if has {
			err = likes.Delete(ctx, postID, viewerID)
		} else {
			err = likes.Insert(ctx, postID, viewerID)
		}
		if err != nil {
			return err
		}
		total, err := likes.Count(ctx, postID)
		if err != nil {
			return err
		}
		resp = &model.PostLikeResponse{PostID: postID, IsLiked: !has, TotalLikes: total}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// likeState reads the current like state without writing. Used after a lost
// toggle race.
func (s *PostService) likeState(ctx context.Context, postID, viewerID int64) (*model.PostLikeResponse, error) {
	var resp *model.PostLikeResponse
	err := s.postRepo.ToggleLikeTx(ctx, func(likes repository.LikeStore) error {
		has, err := likes.Has(ctx, postID, viewerID)
		if err != nil {
			return err
		}
		total, err := likes.Count(ctx, postID)
		if err != nil {
			return err
		}
		resp = &model.PostLikeResponse{PostID: postID, IsLiked: has, TotalLikes: total}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// GetLikers returns a page of users who liked a post, ordered by user id
// ascending.
func (s *PostService) GetLikers(ctx context.Context, postID, viewerID int64, cursor *string, limit int) (*model.LikersResponse, error) {
	if _, err := s.postRepo.FindVisible(ctx, postID, viewerID); err != nil {
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

	likers, err := s.postRepo.GetLikers(ctx, postID, cursorID, limit)
	if err != nil {
		return nil, fmt.Errorf("get post likers: %w", err)
	}

	return likersResponse(likers, limit), nil
}

// likersResponse trims a limit+1 likers fetch into a page keyed by user id.
func likersResponse(likers []model.UserSummary, limit int) *model.LikersResponse {
	page := pagination.Trim(likers, limit, func(u model.UserSummary) string {
		return pagination.FormatIDCursor(u.ID)
	})

	users := make([]model.LikeUser, len(page.Items))
	for i, u := range page.Items {
		users[i] = model.LikeUser{
			UserID:    u.ID,
			FullName:  u.FullName(),
			AvatarURL: model.ResolveAvatar(u.AvatarURL),
		}
	}

	return &model.LikersResponse{
		Users:      users,
		NextCursor: page.NextCursor,
		HasMore:    page.HasMore,
	}
}
