package handlers

import (
	"net/http"

	"devsocial/internal/middleware"
	"devsocial/internal/repository"
	"devsocial/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// InteractionHandler handles like/favorite toggle HTTP requests
type InteractionHandler struct {
	interactionService *services.InteractionService
}

// NewInteractionHandler creates a new interaction handler
func NewInteractionHandler(interactionService *services.InteractionService) *InteractionHandler {
	return &InteractionHandler{interactionService: interactionService}
}

// ToggleLike handles POST /api/v1/posts/{post_id}/like
func (h *InteractionHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, repository.KindLike)
}

// ToggleFavorite handles POST /api/v1/posts/{post_id}/favorite
func (h *InteractionHandler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, repository.KindFavorite)
}

func (h *InteractionHandler) toggle(w http.ResponseWriter, r *http.Request, kind repository.Kind) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	postID := chi.URLParam(r, "post_id")

	if postID == "" {
		respondError(w, "post_id is required", http.StatusBadRequest)
		return
	}

	result, err := h.interactionService.Toggle(ctx, kind, userID, postID)
	if err != nil {
		log.Error().
			Err(err).
			Str("user_id", userID).
			Str("post_id", postID).
			Str("kind", string(kind)).
			Msg("Failed to toggle interaction")
		respondServiceError(w, err)
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("post_id", postID).
		Str("kind", string(kind)).
		Bool("active", result.Active).
		Int64("count", result.Count).
		Msg("Interaction toggled")

	respondJSON(w, http.StatusOK, result)
}
