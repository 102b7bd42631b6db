package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"devsocial/internal/middleware"
	"devsocial/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// PostHandler handles post and comment HTTP requests
type PostHandler struct {
	postService *services.PostService
}

// NewPostHandler creates a new post handler
func NewPostHandler(postService *services.PostService) *PostHandler {
	return &PostHandler{postService: postService}
}

// PostRequest represents the request body for creating or updating a post
type PostRequest struct {
	Title    string  `json:"title"`
	Content  string  `json:"content"`
	ImageURL *string `json:"image_url"`
}

// SearchPosts handles GET /api/v1/posts
func (h *PostHandler) SearchPosts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	q := r.URL.Query().Get("q")
	limit := 50
	offset := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsedLimit, err := strconv.Atoi(limitStr); err == nil {
			limit = parsedLimit
		}
	}
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if parsedOffset, err := strconv.Atoi(offsetStr); err == nil {
			offset = parsedOffset
		}
	}

	posts, err := h.postService.SearchPosts(ctx, q, limit, offset)
	if err != nil {
		log.Error().Err(err).Str("q", q).Msg("Failed to search posts")
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, posts)
}

// GetPost handles GET /api/v1/posts/{post_id}
func (h *PostHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	postID := chi.URLParam(r, "post_id")

	post, err := h.postService.GetPost(ctx, postID)
	if err != nil {
		log.Error().Err(err).Str("post_id", postID).Msg("Failed to get post")
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, post)
}

// CreatePost handles POST /api/v1/posts
func (h *PostHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req PostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	post, err := h.postService.CreatePost(ctx, userID, req.Title, req.Content, req.ImageURL)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to create post")
		respondServiceError(w, err)
		return
	}

	log.Info().Str("user_id", userID).Str("post_id", post.ID).Msg("Post created")
	respondJSON(w, http.StatusCreated, post)
}

// UpdatePost handles PUT /api/v1/posts/{post_id}
func (h *PostHandler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	postID := chi.URLParam(r, "post_id")

	var req PostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	post, err := h.postService.UpdatePost(ctx, userID, postID, req.Title, req.Content, req.ImageURL)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Str("post_id", postID).Msg("Failed to update post")
		respondServiceError(w, err)
		return
	}

	log.Info().Str("user_id", userID).Str("post_id", postID).Msg("Post updated")
	respondJSON(w, http.StatusOK, post)
}

// DeletePost handles DELETE /api/v1/posts/{post_id}
func (h *PostHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	postID := chi.URLParam(r, "post_id")

	if err := h.postService.DeletePost(ctx, userID, postID); err != nil {
		log.Error().Err(err).Str("user_id", userID).Str("post_id", postID).Msg("Failed to delete post")
		respondServiceError(w, err)
		return
	}

	log.Info().Str("user_id", userID).Str("post_id", postID).Msg("Post deleted")
	w.WriteHeader(http.StatusNoContent)
}

// CommentRequest represents the request body for adding a comment
type CommentRequest struct {
	Content string `json:"content"`
}

// ListComments handles GET /api/v1/posts/{post_id}/comments
func (h *PostHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	postID := chi.URLParam(r, "post_id")

	comments, err := h.postService.ListComments(ctx, postID)
	if err != nil {
		log.Error().Err(err).Str("post_id", postID).Msg("Failed to list comments")
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, comments)
}

// AddComment handles POST /api/v1/posts/{post_id}/comments
func (h *PostHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	postID := chi.URLParam(r, "post_id")

	var req CommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	comment, err := h.postService.AddComment(ctx, userID, postID, req.Content)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Str("post_id", postID).Msg("Failed to add comment")
		respondServiceError(w, err)
		return
	}

	log.Info().Str("user_id", userID).Str("post_id", postID).Str("comment_id", comment.ID).Msg("Comment added")
	respondJSON(w, http.StatusCreated, comment)
}

// DeleteComment handles DELETE /api/v1/comments/{comment_id}
func (h *PostHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	commentID := chi.URLParam(r, "comment_id")

	if err := h.postService.DeleteComment(ctx, userID, commentID); err != nil {
		log.Error().Err(err).Str("user_id", userID).Str("comment_id", commentID).Msg("Failed to delete comment")
		respondServiceError(w, err)
		return
	}

	log.Info().Str("user_id", userID).Str("comment_id", commentID).Msg("Comment deleted")
	w.WriteHeader(http.StatusNoContent)
}
