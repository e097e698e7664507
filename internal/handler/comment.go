package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"socialfeed/internal/httputil"
	"socialfeed/internal/model"
	"socialfeed/internal/pagination"
	"socialfeed/internal/service"
	"socialfeed/internal/transport/http/middleware"
)

type CommentHandler struct {
	commentService *service.CommentService
}

func NewCommentHandler(commentService *service.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

// Create handles POST /posts/:id/comments
// Creates a root comment or, when parent_comment_id is set, a reply.
func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	postID, ok := parseIDParam(r, "id")
	if !ok {
		httputil.WriteBadRequest(w, "Invalid post ID")
		return
	}

	var req model.CreateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	comment, err := h.commentService.Create(r.Context(), postID, userID, req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrPostNotFound):
			httputil.WriteNotFound(w, "Post not found")
		case errors.Is(err, model.ErrContentRequired):
			httputil.WriteBadRequest(w, "Content is required")
		case errors.Is(err, model.ErrContentTooLong):
			httputil.WriteBadRequest(w, "Content too long (max 2200 characters)")
		case errors.Is(err, model.ErrParentCommentInvalid):
			httputil.WriteBadRequest(w, "Parent comment was not found on this post")
		default:
			log.Printf("[ERROR] Create comment handler: user=%d post=%d err=%v", userID, postID, err)
			httputil.WriteInternalError(w, "Failed to create comment")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, comment)
}

// GetComments handles GET /posts/:id/comments
// Returns a page of root comments, each with one level of replies attached.
func (h *CommentHandler) GetComments(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	postID, ok := parseIDParam(r, "id")
	if !ok {
		httputil.WriteBadRequest(w, "Invalid post ID")
		return
	}

	limit, cursor, err := parsePageParams(r)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid limit parameter")
		return
	}

	comments, err := h.commentService.GetComments(r.Context(), postID, userID, cursor, limit)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrPostNotFound):
			httputil.WriteNotFound(w, "Post not found")
		case errors.Is(err, pagination.ErrInvalidCursor):
			httputil.WriteBadRequest(w, "Invalid cursor")
		default:
			log.Printf("[ERROR] Get comments handler: post=%d err=%v", postID, err)
			httputil.WriteInternalError(w, "Failed to get comments")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, comments)
}

// ToggleLike handles POST /comments/:id/likes
func (h *CommentHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	commentID, ok := parseIDParam(r, "id")
	if !ok {
		httputil.WriteBadRequest(w, "Invalid comment ID")
		return
	}

	resp, err := h.commentService.ToggleLike(r.Context(), commentID, userID)
	if err != nil {
		if errors.Is(err, model.ErrCommentNotFound) {
			httputil.WriteNotFound(w, "Comment not found")
			return
		}
		log.Printf("[ERROR] Toggle comment like handler: user=%d comment=%d err=%v", userID, commentID, err)
		httputil.WriteInternalError(w, "Failed to toggle like")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, resp)
}

// GetLikers handles GET /comments/:id/likes
func (h *CommentHandler) GetLikers(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	commentID, ok := parseIDParam(r, "id")
	if !ok {
		httputil.WriteBadRequest(w, "Invalid comment ID")
		return
	}

	limit, cursor, err := parsePageParams(r)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid limit parameter")
		return
	}

	likers, err := h.commentService.GetLikers(r.Context(), commentID, userID, cursor, limit)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrCommentNotFound):
			httputil.WriteNotFound(w, "Comment not found")
		case errors.Is(err, pagination.ErrInvalidCursor):
			httputil.WriteBadRequest(w, "Invalid cursor")
		default:
			log.Printf("[ERROR] Get comment likers handler: comment=%d err=%v", commentID, err)
			httputil.WriteInternalError(w, "Failed to get likers")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, likers)
}
