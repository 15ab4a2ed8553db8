package repository

import (
	"context"

	"github.com/priyanshu73/theUniBay/internal/domain"
)

// ListingFilter bundles a normalized search filter with pagination.
type ListingFilter struct {
	Filter  domain.SearchFilter
	Page    int
	PerPage int
}

// UserRepository defines the interface for user persistence operations.
type UserRepository interface {
	// Create inserts a new user and populates its ID.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique identifier.
	GetByID(ctx context.Context, id int64) (*domain.User, error)

	// GetByEmail retrieves a user by their lowercase email address.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// Update modifies an existing user in the store.
	Update(ctx context.Context, user *domain.User) error

	// Delete removes a user; owned products, comments, likes, and reviews
	// are removed by the schema's cascade rules.
	Delete(ctx context.Context, id int64) error
}

// CampusRepository defines read access to campus reference data.
type CampusRepository interface {
	List(ctx context.Context) ([]domain.Campus, error)
}

// CategoryRepository defines access to category reference data and the
// per-category product tally.
type CategoryRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Category, error)
	List(ctx context.Context) ([]domain.Category, error)

	// CountsByCategory returns a product count for every category,
	// including zero-product ones, ordered count descending then name
	// ascending.
	CountsByCategory(ctx context.Context) ([]domain.CategoryCount, error)
}

// ProductRepository defines the interface for product persistence operations.
type ProductRepository interface {
	// Create inserts a new product and populates its ID.
	Create(ctx context.Context, p *domain.Product) error

	// GetByID retrieves a bare product row by its identifier.
	GetByID(ctx context.Context, id int64) (*domain.Product, error)

	// GetListing retrieves a product enriched with seller name, category
	// name, and live like count.
	GetListing(ctx context.Context, id int64) (*domain.Listing, error)

	// Update modifies an existing product in the store.
	Update(ctx context.Context, p *domain.Product) error

	// Delete removes a product; its comments and likes cascade.
	Delete(ctx context.Context, id int64) error

	// Search folds the normalized filter into one parameterized query and
	// returns matching listings newest-first with the total match count.
	Search(ctx context.Context, filter ListingFilter) ([]domain.Listing, int, error)

	// ListBySeller returns all listings posted by the given user,
	// newest-first.
	ListBySeller(ctx context.Context, sellerID int64) ([]domain.Listing, error)
}

// CommentRepository defines the interface for comment persistence operations.
type CommentRepository interface {
	Create(ctx context.Context, c *domain.Comment) error
	ListByProduct(ctx context.Context, productID int64) ([]domain.Comment, error)
	CountByProduct(ctx context.Context, productID int64) (int, error)
}

// LikeRepository defines the interface for like persistence operations.
type LikeRepository interface {
	// Toggle flips the like state for the (user, product) pair atomically
	// and reports the resulting state: true when the product is now liked.
	Toggle(ctx context.Context, userID, productID int64) (bool, error)

	CountByProduct(ctx context.Context, productID int64) (int, error)
	Exists(ctx context.Context, userID, productID int64) (bool, error)
}

// ReviewRepository defines the interface for review persistence operations.
type ReviewRepository interface {
	Create(ctx context.Context, r *domain.Review) error
	ListByReviewedUser(ctx context.Context, userID int64) ([]domain.Review, error)

	// AverageRating returns the mean rating received by the user, or nil
	// when the user has no reviews.
	AverageRating(ctx context.Context, userID int64) (*float64, error)
}
