package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/priyanshu73/theUniBay/pkg/database"
	apperrors "github.com/priyanshu73/theUniBay/pkg/errors"
)

func newCategoryTestFixture(t *testing.T) (*CategoryRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	repo := NewCategoryRepository(mock)
	return repo, mock
}

func TestCategoryRepository_GetByID_Success(t *testing.T) {
	repo, mock := newCategoryTestFixture(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT .+ FROM categories WHERE id =").
		WithArgs(int64(1)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "description"}).
			AddRow(int64(1), "Electronics", "Phones, laptops, calculators, and other devices"))

	got, err := repo.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Electronics", got.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := newCategoryTestFixture(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT .+ FROM categories WHERE id =").
		WithArgs(int64(99)).
		WillReturnError(pgx.ErrNoRows)

	got, err := repo.GetByID(context.Background(), 99)
	assert.Nil(t, got)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound), "expected ErrNotFound, got: %v", err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryRepository_List(t *testing.T) {
	repo, mock := newCategoryTestFixture(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT .+ FROM categories ORDER BY name").
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "description"}).
			AddRow(int64(1), "Electronics", "").
			AddRow(int64(2), "Textbooks", ""))

	categories, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "Electronics", categories[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Zero-product categories stay in the tally thanks to the left join.
func TestCategoryRepository_CountsByCategory(t *testing.T) {
	repo, mock := newCategoryTestFixture(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT .+ FROM categories c").
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "product_count"}).
			AddRow(int64(2), "Textbooks", 12).
			AddRow(int64(1), "Electronics", 5).
			AddRow(int64(7), "Other", 0))

	counts, err := repo.CountsByCategory(context.Background())
	require.NoError(t, err)
	require.Len(t, counts, 3)
	assert.Equal(t, "Textbooks", counts[0].Name)
	assert.Equal(t, 12, counts[0].ProductCount)
	assert.Equal(t, 0, counts[2].ProductCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}
