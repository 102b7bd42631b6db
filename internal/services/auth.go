package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"devsocial/internal/errs"
	"devsocial/internal/models"
	"devsocial/internal/token"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// UserStore is the user persistence surface the auth service needs
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UsernameTaken(ctx context.Context, username, excludeUserID string) (bool, error)
	EmailTaken(ctx context.Context, email, excludeUserID string) (bool, error)
	Update(ctx context.Context, user *models.User) error
}

// AuthService handles registration, login and profile management
type AuthService struct {
	users  UserStore
	tokens *token.Service
}

// NewAuthService creates a new auth service
func NewAuthService(users UserStore, tokens *token.Service) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

// Register creates a user and returns a session token alongside the profile
func (s *AuthService) Register(ctx context.Context, username, email, password string) (string, *models.User, error) {
	if username == "" || email == "" || password == "" {
		return "", nil, fmt.Errorf("%w: username, email and password are required", errs.ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return "", nil, err
	}

	tok, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", nil, fmt.Errorf("failed to issue token: %w", err)
	}
	return tok, user, nil
}

// Login exchanges credentials for a session token and the user profile.
// A wrong password and an unknown email are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	if email == "" || password == "" {
		return "", nil, fmt.Errorf("%w: email and password are required", errs.ErrValidation)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return "", nil, errs.ErrUnauthorized
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, errs.ErrUnauthorized
	}

	tok, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", nil, fmt.Errorf("failed to issue token: %w", err)
	}
	return tok, user, nil
}

// GetProfile resolves a user id to the stored profile
func (s *AuthService) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	return s.users.GetByID(ctx, userID)
}

// ProfileUpdate carries the optional profile changes. Empty string fields
// are left unchanged; a nil ProfilePictureURL leaves the picture as is.
type ProfileUpdate struct {
	Username          string
	Email             string
	OldPassword       string
	NewPassword       string
	ProfilePictureURL *string
}

// UpdateProfile applies the requested changes after uniqueness and
// old-password checks, mirroring the registration validation rules.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, upd ProfileUpdate) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	changed := false

	if upd.Username != "" && upd.Username != user.Username {
		taken, err := s.users.UsernameTaken(ctx, upd.Username, userID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, fmt.Errorf("username: %w", errs.ErrAlreadyExists)
		}
		user.Username = upd.Username
		changed = true
	}

	if upd.Email != "" && upd.Email != user.Email {
		taken, err := s.users.EmailTaken(ctx, upd.Email, userID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, fmt.Errorf("email: %w", errs.ErrAlreadyExists)
		}
		user.Email = upd.Email
		changed = true
	}

	if upd.ProfilePictureURL != nil {
		user.ProfilePictureURL = upd.ProfilePictureURL
		changed = true
	}

	if upd.NewPassword != "" {
		if upd.OldPassword == "" {
			return nil, fmt.Errorf("%w: old password is required to change password", errs.ErrValidation)
		}
		if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(upd.OldPassword)) != nil {
			return nil, errs.ErrUnauthorized
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(upd.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = string(hash)
		changed = true
	}

	if !changed {
		return nil, fmt.Errorf("%w: no fields to update", errs.ErrValidation)
	}

	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, errs.ErrAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return user, nil
}
