package postgres

import (
	"context"
	"fmt"

	"github.com/priyanshu73/theUniBay/internal/domain"
	"github.com/priyanshu73/theUniBay/pkg/database"
)

// CommentRepository implements repository.CommentRepository using PostgreSQL.
type CommentRepository struct {
	db database.DBTX
}

// NewCommentRepository creates a new PostgreSQL-backed comment repository.
func NewCommentRepository(db database.DBTX) *CommentRepository {
	return &CommentRepository{db: db}
}

// Create inserts a new comment into the database and populates its ID.
func (r *CommentRepository) Create(ctx context.Context, c *domain.Comment) error {
	query := `
		INSERT INTO comments (user_id, product_id, text, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	err := r.db.QueryRow(ctx, query,
		c.UserID,
		c.ProductID,
		c.Text,
		c.CreatedAt,
	).Scan(&c.ID)
	if err != nil {
		return fmt.Errorf("insert comment: %w", err)
	}

	return nil
}

// ListByProduct returns a product's comments in conversation order, oldest
// first, with the author name joined in.
func (r *CommentRepository) ListByProduct(ctx context.Context, productID int64) ([]domain.Comment, error) {
	query := `
		SELECT cm.id, cm.user_id, cm.product_id, cm.text, cm.created_at, u.name AS author_name
		FROM comments cm
		JOIN users u ON u.id = cm.user_id
		WHERE cm.product_id = $1
		ORDER BY cm.created_at ASC`

	rows, err := r.db.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	var comments []domain.Comment
	for rows.Next() {
		var c domain.Comment
		if err := rows.Scan(&c.ID, &c.UserID, &c.ProductID, &c.Text, &c.CreatedAt, &c.AuthorName); err != nil {
			return nil, fmt.Errorf("scan comment row: %w", err)
		}
		comments = append(comments, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate comment rows: %w", err)
	}

	if comments == nil {
		comments = []domain.Comment{}
	}

	return comments, nil
}

// CountByProduct returns the number of comments on a product.
func (r *CommentRepository) CountByProduct(ctx context.Context, productID int64) (int, error) {
	query := `SELECT count(*) FROM comments WHERE product_id = $1`

	var count int
	if err := r.db.QueryRow(ctx, query, productID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count comments: %w", err)
	}

	return count, nil
}
