package postgres

import (
	"context"
	"fmt"

	"github.com/priyanshu73/theUniBay/pkg/database"
)

// LikeRepository implements repository.LikeRepository using PostgreSQL.
type LikeRepository struct {
	db database.DBTX
}

// NewLikeRepository creates a new PostgreSQL-backed like repository.
func NewLikeRepository(db database.DBTX) *LikeRepository {
	return &LikeRepository{db: db}
}

// Toggle flips the like state for the (user, product) pair inside a
// transaction: delete first, and only insert when nothing was deleted. The
// ON CONFLICT guard keeps a concurrent duplicate insert from failing the
// toggle. Returns true when the product is liked after the call.
func (r *LikeRepository) Toggle(ctx context.Context, userID, productID int64) (bool, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("begin like toggle: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	ct, err := tx.Exec(ctx, `DELETE FROM likes WHERE user_id = $1 AND product_id = $2`, userID, productID)
	if err != nil {
		return false, fmt.Errorf("delete like: %w", err)
	}

	liked := false
	if ct.RowsAffected() == 0 {
		query := `
			INSERT INTO likes (user_id, product_id)
			VALUES ($1, $2)
			ON CONFLICT (user_id, product_id) DO NOTHING`
		if _, err := tx.Exec(ctx, query, userID, productID); err != nil {
			return false, fmt.Errorf("insert like: %w", err)
		}
		liked = true
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("commit like toggle: %w", err)
	}

	return liked, nil
}

// CountByProduct returns the number of likes on a product.
func (r *LikeRepository) CountByProduct(ctx context.Context, productID int64) (int, error) {
	query := `SELECT count(*) FROM likes WHERE product_id = $1`

	var count int
	if err := r.db.QueryRow(ctx, query, productID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count likes: %w", err)
	}

	return count, nil
}

// Exists reports whether the user currently likes the product.
func (r *LikeRepository) Exists(ctx context.Context, userID, productID int64) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM likes WHERE user_id = $1 AND product_id = $2)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, userID, productID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check like: %w", err)
	}

	return exists, nil
}
