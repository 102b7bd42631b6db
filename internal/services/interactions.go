package services

import (
	"context"

	"devsocial/internal/errs"
	"devsocial/internal/models"
	"devsocial/internal/repository"
)

// InteractionStore is the relation persistence surface the interaction
// service needs; implemented by repository.InteractionRepository.
type InteractionStore interface {
	Toggle(ctx context.Context, kind repository.Kind, userID, postID string) (*models.ToggleResult, error)
	ListPostIDs(ctx context.Context, kind repository.Kind, userID string) ([]models.PostRef, error)
}

// InteractionService flips like/favorite relations and reports the
// resulting state plus the authoritative count.
type InteractionService struct {
	interactions InteractionStore
}

// NewInteractionService creates a new interaction service
func NewInteractionService(interactions InteractionStore) *InteractionService {
	return &InteractionService{interactions: interactions}
}

// Toggle flips the relation for a verified user. The empty-user check is
// unreachable when route guarding is correct.
func (s *InteractionService) Toggle(ctx context.Context, kind repository.Kind, userID, postID string) (*models.ToggleResult, error) {
	if userID == "" {
		return nil, errs.ErrUnauthorized
	}
	if postID == "" {
		return nil, errs.ErrValidation
	}
	return s.interactions.Toggle(ctx, kind, userID, postID)
}

// ListPostIDs returns the ids of the posts the user currently likes or
// favorites, used by clients to seed their local state.
func (s *InteractionService) ListPostIDs(ctx context.Context, kind repository.Kind, userID string) ([]models.PostRef, error) {
	if userID == "" {
		return nil, errs.ErrUnauthorized
	}
	return s.interactions.ListPostIDs(ctx, kind, userID)
}
