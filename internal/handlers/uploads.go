package handlers

import (
	"encoding/json"
	"net/http"

	"devsocial/internal/middleware"
	"devsocial/internal/services"

	"github.com/rs/zerolog/log"
)

// UploadHandler handles image upload HTTP requests
type UploadHandler struct {
	uploadService *services.UploadService
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(uploadService *services.UploadService) *UploadHandler {
	return &UploadHandler{uploadService: uploadService}
}

// UploadRequest represents the request body for requesting an upload URL
type UploadRequest struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
}

// RequestUpload handles POST /api/v1/uploads
func (h *UploadHandler) RequestUpload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req UploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	response, err := h.uploadService.PresignImageUpload(ctx, userID, req.Filename, req.ContentType)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Str("filename", req.Filename).Msg("Failed to presign upload")
		respondServiceError(w, err)
		return
	}

	log.Info().Str("user_id", userID).Str("filename", req.Filename).Msg("Upload URL generated")
	respondJSON(w, http.StatusOK, response)
}
