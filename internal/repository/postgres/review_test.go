package postgres

import (
	"context"
	"testing"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/priyanshu73/theUniBay/internal/domain"
	"github.com/priyanshu73/theUniBay/pkg/database"
)

func newReviewTestFixture(t *testing.T) (*ReviewRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	repo := NewReviewRepository(mock)
	return repo, mock
}

func sampleReview() *domain.Review {
	productID := int64(42)
	return &domain.Review{
		ID:             11,
		ReviewerID:     7,
		ReviewedUserID: 8,
		ProductID:      &productID,
		Rating:         5,
		Comment:        "Smooth handoff, item as described",
		CreatedAt:      testNow,
	}
}

func TestReviewRepository_Create_Success(t *testing.T) {
	repo, mock := newReviewTestFixture(t)
	defer mock.Close()

	rv := sampleReview()
	rv.ID = 0

	mock.ExpectQuery("INSERT INTO reviews").
		WithArgs(rv.ReviewerID, rv.ReviewedUserID, rv.ProductID, rv.Rating, rv.Comment, rv.CreatedAt).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(11)))

	err := repo.Create(context.Background(), rv)
	require.NoError(t, err)
	assert.Equal(t, int64(11), rv.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_ListByReviewedUser(t *testing.T) {
	repo, mock := newReviewTestFixture(t)
	defer mock.Close()

	rv := sampleReview()

	rows := pgxmock.NewRows([]string{
		"id", "reviewer_id", "reviewed_user_id", "product_id", "rating", "comment", "created_at", "reviewer_name",
	}).AddRow(
		rv.ID, rv.ReviewerID, rv.ReviewedUserID, rv.ProductID, rv.Rating, rv.Comment, rv.CreatedAt, "Alice Chen",
	)

	mock.ExpectQuery("SELECT .+ FROM reviews rv").
		WithArgs(rv.ReviewedUserID).
		WillReturnRows(rows)

	reviews, err := repo.ListByReviewedUser(context.Background(), rv.ReviewedUserID)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, "Alice Chen", reviews[0].ReviewerName)
	assert.Equal(t, 5, reviews[0].Rating)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_ListByReviewedUser_Empty(t *testing.T) {
	repo, mock := newReviewTestFixture(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT .+ FROM reviews rv").
		WithArgs(int64(8)).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "reviewer_id", "reviewed_user_id", "product_id", "rating", "comment", "created_at", "reviewer_name",
		}))

	reviews, err := repo.ListByReviewedUser(context.Background(), 8)
	require.NoError(t, err)
	assert.Empty(t, reviews)
	assert.NotNil(t, reviews)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_AverageRating_Value(t *testing.T) {
	repo, mock := newReviewTestFixture(t)
	defer mock.Close()

	avg := 4.0
	mock.ExpectQuery("SELECT avg").
		WithArgs(int64(8)).
		WillReturnRows(pgxmock.NewRows([]string{"avg"}).AddRow(&avg))

	got, err := repo.AverageRating(context.Background(), 8)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.InDelta(t, 4.0, *got, 0.001)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// avg(rating) over zero reviews is NULL, not zero.
func TestReviewRepository_AverageRating_NoReviews(t *testing.T) {
	repo, mock := newReviewTestFixture(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT avg").
		WithArgs(int64(8)).
		WillReturnRows(pgxmock.NewRows([]string{"avg"}).AddRow((*float64)(nil)))

	got, err := repo.AverageRating(context.Background(), 8)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}
