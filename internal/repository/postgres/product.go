package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/priyanshu73/theUniBay/internal/domain"
	"github.com/priyanshu73/theUniBay/internal/repository"
	"github.com/priyanshu73/theUniBay/pkg/database"
	apperrors "github.com/priyanshu73/theUniBay/pkg/errors"
)

// listingSelectColumns is the joined projection shared by every listing
// query: the product row plus seller name, category name, and a live like
// count.
const listingSelectColumns = `
	SELECT p.id, p.title, p.description, p.price_cents, p.category_id, p.condition,
	       p.image_path, p.is_sold, p.seller_id, p.date_posted,
	       u.name AS seller_name, c.name AS category_name,
	       (SELECT count(*) FROM likes l WHERE l.product_id = p.id) AS like_count`

const listingSelect = listingSelectColumns + `
	FROM products p
	JOIN users u ON u.id = p.seller_id
	JOIN categories c ON c.id = p.category_id`

// ProductRepository implements repository.ProductRepository using PostgreSQL.
type ProductRepository struct {
	db database.DBTX
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(db database.DBTX) *ProductRepository {
	return &ProductRepository{db: db}
}

// Create inserts a new product into the database and populates its ID.
func (r *ProductRepository) Create(ctx context.Context, p *domain.Product) error {
	query := `
		INSERT INTO products (title, description, price_cents, category_id, condition, image_path, is_sold, seller_id, date_posted)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`

	err := r.db.QueryRow(ctx, query,
		p.Title,
		p.Description,
		p.PriceCents,
		p.CategoryID,
		p.Condition,
		p.ImagePath,
		p.IsSold,
		p.SellerID,
		p.DatePosted,
	).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}

	return nil
}

// GetByID retrieves a bare product row by its ID.
func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	query := `
		SELECT id, title, description, price_cents, category_id, condition, image_path, is_sold, seller_id, date_posted
		FROM products
		WHERE id = $1`

	var p domain.Product
	err := r.db.QueryRow(ctx, query, id).Scan(
		&p.ID,
		&p.Title,
		&p.Description,
		&p.PriceCents,
		&p.CategoryID,
		&p.Condition,
		&p.ImagePath,
		&p.IsSold,
		&p.SellerID,
		&p.DatePosted,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("product", id)
		}
		return nil, fmt.Errorf("scan product: %w", err)
	}

	return &p, nil
}

// GetListing retrieves a product enriched with seller name, category name,
// and like count.
func (r *ProductRepository) GetListing(ctx context.Context, id int64) (*domain.Listing, error) {
	query := listingSelect + `
	WHERE p.id = $1`

	var l domain.Listing
	err := r.db.QueryRow(ctx, query, id).Scan(
		&l.ID,
		&l.Title,
		&l.Description,
		&l.PriceCents,
		&l.CategoryID,
		&l.Condition,
		&l.ImagePath,
		&l.IsSold,
		&l.SellerID,
		&l.DatePosted,
		&l.SellerName,
		&l.CategoryName,
		&l.LikeCount,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("product", id)
		}
		return nil, fmt.Errorf("scan listing: %w", err)
	}

	return &l, nil
}

// Search folds the normalized filter into a single parameterized query and
// returns matching listings newest-first with the total match count.
func (r *ProductRepository) Search(ctx context.Context, filter repository.ListingFilter) ([]domain.Listing, int, error) {
	var (
		conditions []string
		args       []any
		argIndex   = 1
	)

	f := filter.Filter

	if f.Keyword != nil {
		conditions = append(conditions, fmt.Sprintf("(p.title ILIKE $%d OR p.description ILIKE $%d)", argIndex, argIndex))
		args = append(args, "%"+*f.Keyword+"%")
		argIndex++
	}

	if f.CategoryID != nil {
		conditions = append(conditions, fmt.Sprintf("p.category_id = $%d", argIndex))
		args = append(args, *f.CategoryID)
		argIndex++
	}

	if f.MinCents != nil {
		conditions = append(conditions, fmt.Sprintf("p.price_cents >= $%d", argIndex))
		args = append(args, *f.MinCents)
		argIndex++
	}

	if f.MaxCents != nil {
		conditions = append(conditions, fmt.Sprintf("p.price_cents <= $%d", argIndex))
		args = append(args, *f.MaxCents)
		argIndex++
	}

	if f.Condition != nil {
		conditions = append(conditions, fmt.Sprintf("p.condition = $%d", argIndex))
		args = append(args, *f.Condition)
		argIndex++
	}

	if sold := f.Sold(); sold != nil {
		conditions = append(conditions, fmt.Sprintf("p.is_sold = $%d", argIndex))
		args = append(args, *sold)
		argIndex++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	// Use count(*) OVER() for total count in a single query.
	query := fmt.Sprintf(`%s,
	       count(*) OVER() AS total_count
	FROM products p
	JOIN users u ON u.id = p.seller_id
	JOIN categories c ON c.id = p.category_id
	%s
	ORDER BY p.date_posted DESC
	LIMIT $%d OFFSET $%d`,
		listingSelectColumns, whereClause, argIndex, argIndex+1,
	)

	limit := filter.PerPage
	if limit <= 0 {
		limit = 20
	}
	offset := 0
	if filter.Page > 1 {
		offset = (filter.Page - 1) * limit
	}

	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("search listings: %w", err)
	}
	defer rows.Close()

	var (
		listings   []domain.Listing
		totalCount int
	)

	for rows.Next() {
		var l domain.Listing
		if err := rows.Scan(
			&l.ID,
			&l.Title,
			&l.Description,
			&l.PriceCents,
			&l.CategoryID,
			&l.Condition,
			&l.ImagePath,
			&l.IsSold,
			&l.SellerID,
			&l.DatePosted,
			&l.SellerName,
			&l.CategoryName,
			&l.LikeCount,
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("scan listing row: %w", err)
		}
		listings = append(listings, l)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate listing rows: %w", err)
	}

	if listings == nil {
		listings = []domain.Listing{}
	}

	return listings, totalCount, nil
}

// ListBySeller returns every listing posted by the given user, newest-first.
func (r *ProductRepository) ListBySeller(ctx context.Context, sellerID int64) ([]domain.Listing, error) {
	query := listingSelect + `
	WHERE p.seller_id = $1
	ORDER BY p.date_posted DESC`

	rows, err := r.db.Query(ctx, query, sellerID)
	if err != nil {
		return nil, fmt.Errorf("list seller products: %w", err)
	}
	defer rows.Close()

	var listings []domain.Listing
	for rows.Next() {
		var l domain.Listing
		if err := rows.Scan(
			&l.ID,
			&l.Title,
			&l.Description,
			&l.PriceCents,
			&l.CategoryID,
			&l.Condition,
			&l.ImagePath,
			&l.IsSold,
			&l.SellerID,
			&l.DatePosted,
			&l.SellerName,
			&l.CategoryName,
			&l.LikeCount,
		); err != nil {
			return nil, fmt.Errorf("scan listing row: %w", err)
		}
		listings = append(listings, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate listing rows: %w", err)
	}

	if listings == nil {
		listings = []domain.Listing{}
	}

	return listings, nil
}

// Update modifies an existing product in the database.
func (r *ProductRepository) Update(ctx context.Context, p *domain.Product) error {
	query := `
		UPDATE products
		SET title = $1, description = $2, price_cents = $3, category_id = $4,
		    condition = $5, image_path = $6, is_sold = $7
		WHERE id = $8`

	ct, err := r.db.Exec(ctx, query,
		p.Title,
		p.Description,
		p.PriceCents,
		p.CategoryID,
		p.Condition,
		p.ImagePath,
		p.IsSold,
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("product", p.ID)
	}

	return nil
}

// Delete removes a product; its comments and likes cascade away with it.
func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM products WHERE id = $1`

	ct, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("product", id)
	}

	return nil
}

// isUniqueViolation checks if the error is a PostgreSQL unique constraint violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "23505")
}
