package repository

import (
	"context"
	"errors"
	"fmt"

	"devsocial/internal/errs"
	"devsocial/internal/models"

	"github.com/jackc/pgx/v5"
)

// CommentRepository handles database operations for comments and keeps the
// post's comments_count equal to the number of comment rows.
type CommentRepository struct {
	db PgxPool
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(db PgxPool) *CommentRepository {
	return &CommentRepository{db: db}
}

// Create inserts a comment and refreshes the post counter in one transaction
func (r *CommentRepository) Create(ctx context.Context, comment *models.Comment) (err error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed to begin comment tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
			return
		}
		if e := tx.Commit(ctx); e != nil {
			err = e
		}
	}()

	var exists bool
	if err = tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM posts WHERE id = $1)`, comment.PostID).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check post: %w", err)
	}
	if !exists {
		err = errs.ErrNotFound
		return err
	}

	insert := `
		INSERT INTO comments (id, post_id, user_id, content, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err = tx.Exec(ctx, insert,
		comment.ID, comment.PostID, comment.UserID, comment.Content, comment.CreatedAt,
	); err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}

	err = r.refreshCount(ctx, tx, comment.PostID)
	return err
}

// GetByID retrieves a single comment
func (r *CommentRepository) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	query := `
		SELECT c.id, c.post_id, c.user_id, u.username, c.content, c.created_at
		FROM comments c
		JOIN users u ON c.user_id = u.id
		WHERE c.id = $1
	`
	var comment models.Comment
	err := r.db.QueryRow(ctx, query, id).Scan(
		&comment.ID, &comment.PostID, &comment.UserID, &comment.Username, &comment.Content, &comment.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}
	return &comment, nil
}

// ListByPost lists a post's comments oldest first
func (r *CommentRepository) ListByPost(ctx context.Context, postID string) ([]*models.Comment, error) {
	query := `
		SELECT c.id, c.post_id, c.user_id, u.username, c.content, c.created_at
		FROM comments c
		JOIN users u ON c.user_id = u.id
		WHERE c.post_id = $1
		ORDER BY c.created_at ASC
	`
	rows, err := r.db.Query(ctx, query, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	comments := make([]*models.Comment, 0)
	for rows.Next() {
		var comment models.Comment
		if err := rows.Scan(
			&comment.ID, &comment.PostID, &comment.UserID, &comment.Username, &comment.Content, &comment.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, &comment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read comments: %w", err)
	}
	return comments, nil
}

// Delete removes a comment and refreshes the post counter
func (r *CommentRepository) Delete(ctx context.Context, id, postID string) (err error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed to begin delete tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
			return
		}
		if e := tx.Commit(ctx); e != nil {
			err = e
		}
	}()

	result, err := tx.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	if result.RowsAffected() == 0 {
		err = errs.ErrNotFound
		return err
	}

	err = r.refreshCount(ctx, tx, postID)
	return err
}

func (r *CommentRepository) refreshCount(ctx context.Context, tx pgx.Tx, postID string) error {
	query := `
		UPDATE posts
		SET comments_count = (SELECT COUNT(*) FROM comments WHERE post_id = $1)
		WHERE id = $1
	`
	if _, err := tx.Exec(ctx, query, postID); err != nil {
		return fmt.Errorf("failed to refresh comments_count: %w", err)
	}
	return nil
}
