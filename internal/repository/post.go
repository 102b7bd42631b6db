package repository

import (
	"context"
	"errors"
	"fmt"

	"devsocial/internal/errs"
	"devsocial/internal/models"

	"github.com/jackc/pgx/v5"
)

const postColumns = `
	p.id, p.user_id, u.username, p.title, p.content, p.image_url,
	p.likes_count, p.favorites_count, p.comments_count, p.created_at, p.updated_at`

// PostRepository handles database operations for posts
type PostRepository struct {
	db PgxPool
}

// NewPostRepository creates a new post repository
func NewPostRepository(db PgxPool) *PostRepository {
	return &PostRepository{db: db}
}

// Create inserts a new post with zeroed counters
func (r *PostRepository) Create(ctx context.Context, post *models.Post) error {
	query := `
		INSERT INTO posts (id, user_id, title, content, image_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.Exec(ctx, query,
		post.ID, post.UserID, post.Title, post.Content, post.ImageURL, post.CreatedAt, post.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}
	return nil
}

// GetByID retrieves a post with its author and counters
func (r *PostRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	query := `
		SELECT ` + postColumns + `
		FROM posts p
		JOIN users u ON p.user_id = u.id
		WHERE p.id = $1
	`
	row := r.db.QueryRow(ctx, query, id)
	post, err := scanPost(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	return post, nil
}

// Search lists posts newest first, optionally filtered by a title/content match
func (r *PostRepository) Search(ctx context.Context, q string, limit, offset int) ([]*models.Post, error) {
	query := `
		SELECT ` + postColumns + `
		FROM posts p
		JOIN users u ON p.user_id = u.id
		WHERE $1 = '' OR p.title ILIKE '%' || $1 || '%' OR p.content ILIKE '%' || $1 || '%'
		ORDER BY p.created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, q, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to search posts: %w", err)
	}
	defer rows.Close()
	return collectPosts(rows)
}

// ListByUser lists a user's own posts newest first
func (r *PostRepository) ListByUser(ctx context.Context, userID string) ([]*models.Post, error) {
	query := `
		SELECT ` + postColumns + `
		FROM posts p
		JOIN users u ON p.user_id = u.id
		WHERE p.user_id = $1
		ORDER BY p.created_at DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list user posts: %w", err)
	}
	defer rows.Close()
	return collectPosts(rows)
}

// ListFavoritedBy lists the posts a user has favorited, most recently favorited first
func (r *PostRepository) ListFavoritedBy(ctx context.Context, userID string) ([]*models.Post, error) {
	query := `
		SELECT ` + postColumns + `
		FROM posts p
		JOIN favorites f ON p.id = f.post_id
		JOIN users u ON p.user_id = u.id
		WHERE f.user_id = $1
		ORDER BY f.created_at DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorited posts: %w", err)
	}
	defer rows.Close()
	return collectPosts(rows)
}

// Update rewrites the mutable post fields
func (r *PostRepository) Update(ctx context.Context, post *models.Post) error {
	query := `
		UPDATE posts
		SET title = $2, content = $3, image_url = $4, updated_at = $5
		WHERE id = $1
	`
	result, err := r.db.Exec(ctx, query,
		post.ID, post.Title, post.Content, post.ImageURL, post.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update post: %w", err)
	}
	if result.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// Delete removes a post; relation rows and comments go with it via FK cascade
func (r *PostRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	if result.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func scanPost(row pgx.Row) (*models.Post, error) {
	var post models.Post
	err := row.Scan(
		&post.ID, &post.UserID, &post.Username, &post.Title, &post.Content, &post.ImageURL,
		&post.LikesCount, &post.FavoritesCount, &post.CommentsCount, &post.CreatedAt, &post.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func collectPosts(rows pgx.Rows) ([]*models.Post, error) {
	posts := make([]*models.Post, 0)
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read posts: %w", err)
	}
	return posts, nil
}
