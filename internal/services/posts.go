package services

import (
	"context"
	"fmt"
	"time"

	"devsocial/internal/errs"
	"devsocial/internal/models"

	"github.com/google/uuid"
)

// PostStore is the post persistence surface the post service needs
type PostStore interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id string) (*models.Post, error)
	Search(ctx context.Context, q string, limit, offset int) ([]*models.Post, error)
	ListByUser(ctx context.Context, userID string) ([]*models.Post, error)
	ListFavoritedBy(ctx context.Context, userID string) ([]*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id string) error
}

// CommentStore is the comment persistence surface the post service needs
type CommentStore interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id string) (*models.Comment, error)
	ListByPost(ctx context.Context, postID string) ([]*models.Comment, error)
	Delete(ctx context.Context, id, postID string) error
}

// PostService handles post and comment business logic
type PostService struct {
	posts    PostStore
	comments CommentStore
}

// NewPostService creates a new post service
func NewPostService(posts PostStore, comments CommentStore) *PostService {
	return &PostService{posts: posts, comments: comments}
}

// CreatePost creates a post owned by the calling user
func (s *PostService) CreatePost(ctx context.Context, userID, title, content string, imageURL *string) (*models.Post, error) {
	if title == "" || content == "" {
		return nil, fmt.Errorf("%w: title and content are required", errs.ErrValidation)
	}
	now := time.Now()
	post := &models.Post{
		ID:        uuid.New().String(),
		UserID:    userID,
		Title:     title,
		Content:   content,
		ImageURL:  imageURL,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// GetPost retrieves a single post
func (s *PostService) GetPost(ctx context.Context, id string) (*models.Post, error) {
	return s.posts.GetByID(ctx, id)
}

// SearchPosts lists the feed, optionally filtered by a text query
func (s *PostService) SearchPosts(ctx context.Context, q string, limit, offset int) ([]*models.Post, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return s.posts.Search(ctx, q, limit, offset)
}

// ListUserPosts lists a user's own posts
func (s *PostService) ListUserPosts(ctx context.Context, userID string) ([]*models.Post, error) {
	return s.posts.ListByUser(ctx, userID)
}

// ListFavoritePosts lists the posts a user has favorited
func (s *PostService) ListFavoritePosts(ctx context.Context, userID string) ([]*models.Post, error) {
	return s.posts.ListFavoritedBy(ctx, userID)
}

// UpdatePost rewrites a post's fields; only the owner may update
func (s *PostService) UpdatePost(ctx context.Context, userID, postID, title, content string, imageURL *string) (*models.Post, error) {
	if title == "" || content == "" {
		return nil, fmt.Errorf("%w: title and content are required", errs.ErrValidation)
	}
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.UserID != userID {
		return nil, errs.ErrForbidden
	}
	post.Title = title
	post.Content = content
	post.ImageURL = imageURL
	post.UpdatedAt = time.Now()
	if err := s.posts.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// DeletePost removes a post; only the owner may delete
func (s *PostService) DeletePost(ctx context.Context, userID, postID string) error {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.UserID != userID {
		return errs.ErrForbidden
	}
	return s.posts.Delete(ctx, postID)
}

// ListComments lists a post's comments
func (s *PostService) ListComments(ctx context.Context, postID string) ([]*models.Comment, error) {
	return s.comments.ListByPost(ctx, postID)
}

// AddComment appends a comment to a post
func (s *PostService) AddComment(ctx context.Context, userID, postID, content string) (*models.Comment, error) {
	if content == "" {
		return nil, fmt.Errorf("%w: content is required", errs.ErrValidation)
	}
	comment := &models.Comment{
		ID:        uuid.New().String(),
		PostID:    postID,
		UserID:    userID,
		Content:   content,
		CreatedAt: time.Now(),
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// DeleteComment removes a comment; only its author may delete
func (s *PostService) DeleteComment(ctx context.Context, userID, commentID string) error {
	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.UserID != userID {
		return errs.ErrForbidden
	}
	return s.comments.Delete(ctx, commentID, comment.PostID)
}
