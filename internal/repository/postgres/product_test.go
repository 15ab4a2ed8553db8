package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/priyanshu73/theUniBay/internal/domain"
	"github.com/priyanshu73/theUniBay/internal/repository"
	"github.com/priyanshu73/theUniBay/pkg/database"
	apperrors "github.com/priyanshu73/theUniBay/pkg/errors"
)

func newProductTestFixture(t *testing.T) (*ProductRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	repo := NewProductRepository(mock)
	return repo, mock
}

func sampleProduct() *domain.Product {
	return &domain.Product{
		ID:          42,
		Title:       "TI-84 Plus calculator",
		Description: "Lightly used, works great",
		PriceCents:  3500,
		CategoryID:  1,
		Condition:   domain.ConditionGood,
		ImagePath:   nil,
		IsSold:      false,
		SellerID:    7,
		DatePosted:  testNow,
	}
}

func sampleListing() *domain.Listing {
	return &domain.Listing{
		Product:      *sampleProduct(),
		SellerName:   "Alice Chen",
		CategoryName: "Electronics",
		LikeCount:    3,
	}
}

func productColumns() []string {
	return []string{
		"id", "title", "description", "price_cents", "category_id",
		"condition", "image_path", "is_sold", "seller_id", "date_posted",
	}
}

func productRow(p *domain.Product) *pgxmock.Rows {
	return pgxmock.NewRows(productColumns()).AddRow(
		p.ID, p.Title, p.Description, p.PriceCents, p.CategoryID,
		p.Condition, p.ImagePath, p.IsSold, p.SellerID, p.DatePosted,
	)
}

func listingColumns() []string {
	return append(productColumns(), "seller_name", "category_name", "like_count")
}

func listingRow(l *domain.Listing) *pgxmock.Rows {
	return pgxmock.NewRows(listingColumns()).AddRow(
		l.ID, l.Title, l.Description, l.PriceCents, l.CategoryID,
		l.Condition, l.ImagePath, l.IsSold, l.SellerID, l.DatePosted,
		l.SellerName, l.CategoryName, l.LikeCount,
	)
}

func searchRows(listings []*domain.Listing, total int) *pgxmock.Rows {
	rows := pgxmock.NewRows(append(listingColumns(), "total_count"))
	for _, l := range listings {
		rows.AddRow(
			l.ID, l.Title, l.Description, l.PriceCents, l.CategoryID,
			l.Condition, l.ImagePath, l.IsSold, l.SellerID, l.DatePosted,
			l.SellerName, l.CategoryName, l.LikeCount, total,
		)
	}
	return rows
}

// ---------------------------------------------------------------------------
// Create / Get
// ---------------------------------------------------------------------------

func TestProductRepository_Create_Success(t *testing.T) {
	repo, mock := newProductTestFixture(t)
	defer mock.Close()

	p := sampleProduct()
	p.ID = 0

	mock.ExpectQuery("INSERT INTO products").
		WithArgs(
			p.Title, p.Description, p.PriceCents, p.CategoryID,
			p.Condition, p.ImagePath, p.IsSold, p.SellerID, p.DatePosted,
		).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(42)))

	err := repo.Create(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, int64(42), p.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_GetByID_Success(t *testing.T) {
	repo, mock := newProductTestFixture(t)
	defer mock.Close()

	p := sampleProduct()

	mock.ExpectQuery("SELECT .+ FROM products").
		WithArgs(p.ID).
		WillReturnRows(productRow(p))

	got, err := repo.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.Title, got.Title)
	assert.Equal(t, p.SellerID, got.SellerID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := newProductTestFixture(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT .+ FROM products").
		WithArgs(int64(99)).
		WillReturnError(pgx.ErrNoRows)

	got, err := repo.GetByID(context.Background(), 99)
	assert.Nil(t, got)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound), "expected ErrNotFound, got: %v", err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_GetListing_Success(t *testing.T) {
	repo, mock := newProductTestFixture(t)
	defer mock.Close()

	l := sampleListing()

	mock.ExpectQuery("SELECT .+ FROM products p").
		WithArgs(l.ID).
		WillReturnRows(listingRow(l))

	got, err := repo.GetListing(context.Background(), l.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice Chen", got.SellerName)
	assert.Equal(t, "Electronics", got.CategoryName)
	assert.Equal(t, 3, got.LikeCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ---------------------------------------------------------------------------
// Search
// ---------------------------------------------------------------------------

func TestProductRepository_Search_NoFilters(t *testing.T) {
	repo, mock := newProductTestFixture(t)
	defer mock.Close()

	l := sampleListing()

	// The default status is available, so the only predicate is is_sold.
	mock.ExpectQuery("SELECT .+ FROM products p .+ WHERE p.is_sold = \\$1 ORDER BY p.date_posted DESC").
		WithArgs(false, 20, 0).
		WillReturnRows(searchRows([]*domain.Listing{l}, 1))

	filter := repository.ListingFilter{Filter: domain.SearchQuery{}.Normalize(), Page: 1, PerPage: 20}
	listings, total, err := repo.Search(context.Background(), filter)
	require.NoError(t, err)
	assert.Len(t, listings, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_Search_AllPredicates(t *testing.T) {
	repo, mock := newProductTestFixture(t)
	defer mock.Close()

	l := sampleListing()

	q := domain.SearchQuery{
		Keyword:   "calculator",
		Category:  "1",
		MinPrice:  "10",
		MaxPrice:  "50",
		Condition: "good",
		Status:    "available",
	}

	mock.ExpectQuery("SELECT .+ FROM products p").
		WithArgs(
			"%calculator%",
			int64(1),
			int64(1000),
			int64(5000),
			domain.ConditionGood,
			false,
			20,
			0,
		).
		WillReturnRows(searchRows([]*domain.Listing{l}, 1))

	filter := repository.ListingFilter{Filter: q.Normalize(), Page: 1, PerPage: 20}
	listings, total, err := repo.Search(context.Background(), filter)
	require.NoError(t, err)
	assert.Len(t, listings, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_Search_StatusAllOmitsSoldPredicate(t *testing.T) {
	repo, mock := newProductTestFixture(t)
	defer mock.Close()

	l := sampleListing()

	// status=all means no is_sold predicate at all; only category + condition.
	mock.ExpectQuery("SELECT .+ FROM products p").
		WithArgs(int64(1), domain.ConditionNew, 20, 0).
		WillReturnRows(searchRows([]*domain.Listing{l}, 1))

	q := domain.SearchQuery{Category: "1", Condition: "new", Status: "all"}
	filter := repository.ListingFilter{Filter: q.Normalize(), Page: 1, PerPage: 20}
	_, _, err := repo.Search(context.Background(), filter)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_Search_Pagination(t *testing.T) {
	repo, mock := newProductTestFixture(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT .+ FROM products p").
		WithArgs(false, 10, 20).
		WillReturnRows(searchRows(nil, 0))

	filter := repository.ListingFilter{Filter: domain.SearchQuery{}.Normalize(), Page: 3, PerPage: 10}
	listings, total, err := repo.Search(context.Background(), filter)
	require.NoError(t, err)
	assert.Empty(t, listings)
	assert.NotNil(t, listings)
	assert.Equal(t, 0, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ---------------------------------------------------------------------------
// ListBySeller / Update / Delete
// ---------------------------------------------------------------------------

func TestProductRepository_ListBySeller(t *testing.T) {
	repo, mock := newProductTestFixture(t)
	defer mock.Close()

	l := sampleListing()

	mock.ExpectQuery("SELECT .+ FROM products p .+ WHERE p.seller_id =").
		WithArgs(l.SellerID).
		WillReturnRows(listingRow(l))

	listings, err := repo.ListBySeller(context.Background(), l.SellerID)
	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.Equal(t, l.Title, listings[0].Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_Update_Success(t *testing.T) {
	repo, mock := newProductTestFixture(t)
	defer mock.Close()

	p := sampleProduct()
	p.IsSold = true

	mock.ExpectExec("UPDATE products").
		WithArgs(
			p.Title, p.Description, p.PriceCents, p.CategoryID,
			p.Condition, p.ImagePath, p.IsSold, p.ID,
		).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.Update(context.Background(), p)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_Update_NotFound(t *testing.T) {
	repo, mock := newProductTestFixture(t)
	defer mock.Close()

	p := sampleProduct()
	p.ID = 99

	mock.ExpectExec("UPDATE products").
		WithArgs(
			p.Title, p.Description, p.PriceCents, p.CategoryID,
			p.Condition, p.ImagePath, p.IsSold, p.ID,
		).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.Update(context.Background(), p)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound), "expected ErrNotFound, got: %v", err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_Delete_Success(t *testing.T) {
	repo, mock := newProductTestFixture(t)
	defer mock.Close()

	mock.ExpectExec("DELETE FROM products WHERE id =").
		WithArgs(int64(42)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	err := repo.Delete(context.Background(), 42)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_Delete_NotFound(t *testing.T) {
	repo, mock := newProductTestFixture(t)
	defer mock.Close()

	mock.ExpectExec("DELETE FROM products WHERE id =").
		WithArgs(int64(99)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := repo.Delete(context.Background(), 99)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound), "expected ErrNotFound, got: %v", err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
