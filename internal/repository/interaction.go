package repository

import (
	"context"
	"fmt"

	"devsocial/internal/errs"
	"devsocial/internal/models"

	"github.com/jackc/pgx/v5"
)

// Kind selects which user-post relation a toggle operates on
type Kind string

const (
	KindLike     Kind = "like"
	KindFavorite Kind = "favorite"
)

// table returns the relation table for the kind. Kinds are a closed enum;
// the returned name is never derived from request input.
func (k Kind) table() string {
	if k == KindFavorite {
		return "favorites"
	}
	return "likes"
}

// countColumn returns the denormalized counter column on posts
func (k Kind) countColumn() string {
	if k == KindFavorite {
		return "favorites_count"
	}
	return "likes_count"
}

// InteractionRepository handles like and favorite relation rows and keeps
// the denormalized post counters equal to relation cardinality.
type InteractionRepository struct {
	db PgxPool
}

// NewInteractionRepository creates a new interaction repository
func NewInteractionRepository(db PgxPool) *InteractionRepository {
	return &InteractionRepository{db: db}
}

// Toggle flips the (userID, postID) relation row for the kind and returns
// the new state plus the authoritative count. The insert is guarded by the
// relation's primary key, so two racing toggles by the same user cannot
// produce a duplicate row; the count is recomputed from relation rows in
// the same transaction, so it can never go negative or drift.
func (r *InteractionRepository) Toggle(ctx context.Context, kind Kind, userID, postID string) (res *models.ToggleResult, err error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to begin toggle tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
			return
		}
		if e := tx.Commit(ctx); e != nil {
			err = e
			res = nil
		}
	}()

	var exists bool
	if err = tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM posts WHERE id = $1)`, postID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("failed to check post: %w", err)
	}
	if !exists {
		err = errs.ErrNotFound
		return nil, err
	}

	insert := fmt.Sprintf(`
		INSERT INTO %s (user_id, post_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, post_id) DO NOTHING
	`, kind.table())
	tag, err := tx.Exec(ctx, insert, userID, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to insert %s relation: %w", kind, err)
	}

	// The insert losing to the conflict means the relation already exists,
	// so this toggle turns it off.
	active := tag.RowsAffected() == 1
	if !active {
		del := fmt.Sprintf(`DELETE FROM %s WHERE user_id = $1 AND post_id = $2`, kind.table())
		if _, err = tx.Exec(ctx, del, userID, postID); err != nil {
			return nil, fmt.Errorf("failed to delete %s relation: %w", kind, err)
		}
	}

	recount := fmt.Sprintf(`
		UPDATE posts
		SET %[1]s = (SELECT COUNT(*) FROM %[2]s WHERE post_id = $1)
		WHERE id = $1
		RETURNING %[1]s
	`, kind.countColumn(), kind.table())
	var count int64
	if err = tx.QueryRow(ctx, recount, postID).Scan(&count); err != nil {
		return nil, fmt.Errorf("failed to recount %s: %w", kind, err)
	}

	return &models.ToggleResult{Active: active, Count: count}, nil
}

// ListPostIDs returns the ids of every post the user currently has an
// active relation of the kind with, most recent first.
func (r *InteractionRepository) ListPostIDs(ctx context.Context, kind Kind, userID string) ([]models.PostRef, error) {
	query := fmt.Sprintf(`
		SELECT post_id FROM %s WHERE user_id = $1 ORDER BY created_at DESC
	`, kind.table())
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s post ids: %w", kind, err)
	}
	defer rows.Close()

	refs := make([]models.PostRef, 0)
	for rows.Next() {
		var ref models.PostRef
		if err := rows.Scan(&ref.PostID); err != nil {
			return nil, fmt.Errorf("failed to scan %s post id: %w", kind, err)
		}
		refs = append(refs, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s post ids: %w", kind, err)
	}
	return refs, nil
}
