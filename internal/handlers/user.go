package handlers

import (
	"encoding/json"
	"net/http"

	"devsocial/internal/middleware"
	"devsocial/internal/repository"
	"devsocial/internal/services"

	"github.com/rs/zerolog/log"
)

// UserHandler handles current-user HTTP requests
type UserHandler struct {
	authService        *services.AuthService
	postService        *services.PostService
	interactionService *services.InteractionService
}

// NewUserHandler creates a new user handler
func NewUserHandler(
	authService *services.AuthService,
	postService *services.PostService,
	interactionService *services.InteractionService,
) *UserHandler {
	return &UserHandler{
		authService:        authService,
		postService:        postService,
		interactionService: interactionService,
	}
}

// GetMe handles GET /api/v1/users/me
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	user, err := h.authService.GetProfile(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to get profile")
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// UpdateMeRequest represents the request body for profile updates
type UpdateMeRequest struct {
	Username          string  `json:"username"`
	Email             string  `json:"email"`
	OldPassword       string  `json:"old_password"`
	NewPassword       string  `json:"new_password"`
	ProfilePictureURL *string `json:"profile_picture_url"`
}

// UpdateMe handles PUT /api/v1/users/me
func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req UpdateMeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.authService.UpdateProfile(ctx, userID, services.ProfileUpdate{
		Username:          req.Username,
		Email:             req.Email,
		OldPassword:       req.OldPassword,
		NewPassword:       req.NewPassword,
		ProfilePictureURL: req.ProfilePictureURL,
	})
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to update profile")
		respondServiceError(w, err)
		return
	}

	log.Info().Str("user_id", userID).Msg("Profile updated")
	respondJSON(w, http.StatusOK, user)
}

// GetMyPosts handles GET /api/v1/users/me/posts
func (h *UserHandler) GetMyPosts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	posts, err := h.postService.ListUserPosts(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to list user posts")
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, posts)
}

// GetMyLikes handles GET /api/v1/users/me/likes
func (h *UserHandler) GetMyLikes(w http.ResponseWriter, r *http.Request) {
	h.listPostIDs(w, r, repository.KindLike)
}

// GetMyFavorites handles GET /api/v1/users/me/favorites
func (h *UserHandler) GetMyFavorites(w http.ResponseWriter, r *http.Request) {
	h.listPostIDs(w, r, repository.KindFavorite)
}

func (h *UserHandler) listPostIDs(w http.ResponseWriter, r *http.Request, kind repository.Kind) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	refs, err := h.interactionService.ListPostIDs(ctx, kind, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Str("kind", string(kind)).Msg("Failed to list interactions")
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, refs)
}

// GetMyFavoritePosts handles GET /api/v1/users/me/favorites/posts
func (h *UserHandler) GetMyFavoritePosts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	posts, err := h.postService.ListFavoritePosts(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to list favorite posts")
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, posts)
}
