package postgres

import (
	"context"
	"fmt"

	"github.com/priyanshu73/theUniBay/internal/domain"
	"github.com/priyanshu73/theUniBay/pkg/database"
)

// ReviewRepository implements repository.ReviewRepository using PostgreSQL.
type ReviewRepository struct {
	db database.DBTX
}

// NewReviewRepository creates a new PostgreSQL-backed review repository.
func NewReviewRepository(db database.DBTX) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Create inserts a new review into the database and populates its ID.
func (r *ReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	query := `
		INSERT INTO reviews (reviewer_id, reviewed_user_id, product_id, rating, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	err := r.db.QueryRow(ctx, query,
		review.ReviewerID,
		review.ReviewedUserID,
		review.ProductID,
		review.Rating,
		review.Comment,
		review.CreatedAt,
	).Scan(&review.ID)
	if err != nil {
		return fmt.Errorf("insert review: %w", err)
	}

	return nil
}

// ListByReviewedUser returns the reviews a user has received, newest-first,
// with the reviewer name joined in.
func (r *ReviewRepository) ListByReviewedUser(ctx context.Context, userID int64) ([]domain.Review, error) {
	query := `
		SELECT rv.id, rv.reviewer_id, rv.reviewed_user_id, rv.product_id, rv.rating, rv.comment, rv.created_at,
		       u.name AS reviewer_name
		FROM reviews rv
		JOIN users u ON u.id = rv.reviewer_id
		WHERE rv.reviewed_user_id = $1
		ORDER BY rv.created_at DESC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	var reviews []domain.Review
	for rows.Next() {
		var rv domain.Review
		if err := rows.Scan(
			&rv.ID,
			&rv.ReviewerID,
			&rv.ReviewedUserID,
			&rv.ProductID,
			&rv.Rating,
			&rv.Comment,
			&rv.CreatedAt,
			&rv.ReviewerName,
		); err != nil {
			return nil, fmt.Errorf("scan review row: %w", err)
		}
		reviews = append(reviews, rv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate review rows: %w", err)
	}

	if reviews == nil {
		reviews = []domain.Review{}
	}

	return reviews, nil
}

// AverageRating returns the mean rating a user has received. AVG over zero
// rows is NULL, which scans into a nil pointer rather than a zero rating.
func (r *ReviewRepository) AverageRating(ctx context.Context, userID int64) (*float64, error) {
	query := `SELECT avg(rating) FROM reviews WHERE reviewed_user_id = $1`

	var avg *float64
	if err := r.db.QueryRow(ctx, query, userID).Scan(&avg); err != nil {
		return nil, fmt.Errorf("average rating: %w", err)
	}

	return avg, nil
}
