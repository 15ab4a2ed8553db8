package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_Defaults(t *testing.T) {
	f := SearchQuery{}.Normalize()

	assert.Nil(t, f.Keyword)
	assert.Nil(t, f.CategoryID)
	assert.Nil(t, f.MinCents)
	assert.Nil(t, f.MaxCents)
	assert.Nil(t, f.Condition)
	assert.Equal(t, StatusAvailable, f.Status)
	assert.False(t, f.FiltersApplied())

	sold := f.Sold()
	require.NotNil(t, sold)
	assert.False(t, *sold)
}

func TestNormalize_KeywordTrimmed(t *testing.T) {
	f := SearchQuery{Keyword: "  calculus textbook  "}.Normalize()
	require.NotNil(t, f.Keyword)
	assert.Equal(t, "calculus textbook", *f.Keyword)
	assert.True(t, f.FiltersApplied())

	f = SearchQuery{Keyword: "   "}.Normalize()
	assert.Nil(t, f.Keyword)
	assert.False(t, f.FiltersApplied())
}

func TestNormalize_Category(t *testing.T) {
	f := SearchQuery{Category: "3"}.Normalize()
	require.NotNil(t, f.CategoryID)
	assert.Equal(t, int64(3), *f.CategoryID)

	for _, bad := range []string{"0", "-1", "abc", "1.5", ""} {
		f := SearchQuery{Category: bad}.Normalize()
		assert.Nil(t, f.CategoryID, "category %q should be dropped", bad)
	}
}

func TestNormalize_PriceSwap(t *testing.T) {
	f := SearchQuery{MinPrice: "50", MaxPrice: "20"}.Normalize()
	require.NotNil(t, f.MinCents)
	require.NotNil(t, f.MaxCents)
	assert.Equal(t, int64(2000), *f.MinCents)
	assert.Equal(t, int64(5000), *f.MaxCents)

	// Swapped and unswapped inputs normalize identically.
	g := SearchQuery{MinPrice: "20", MaxPrice: "50"}.Normalize()
	assert.Equal(t, g, f)
}

func TestNormalize_PriceInvalidDropped(t *testing.T) {
	for _, bad := range []string{"-5", "abc", "1e999", ""} {
		f := SearchQuery{MinPrice: bad}.Normalize()
		assert.Nil(t, f.MinCents, "min price %q should be dropped", bad)
	}

	f := SearchQuery{MinPrice: "19.99"}.Normalize()
	require.NotNil(t, f.MinCents)
	assert.Equal(t, int64(1999), *f.MinCents)
}

func TestNormalize_Condition(t *testing.T) {
	f := SearchQuery{Condition: "like_new"}.Normalize()
	require.NotNil(t, f.Condition)
	assert.Equal(t, ConditionLikeNew, *f.Condition)

	f = SearchQuery{Condition: "mint"}.Normalize()
	assert.Nil(t, f.Condition)
	assert.False(t, f.FiltersApplied())
}

func TestNormalize_Status(t *testing.T) {
	f := SearchQuery{Status: "sold"}.Normalize()
	assert.Equal(t, StatusSold, f.Status)
	sold := f.Sold()
	require.NotNil(t, sold)
	assert.True(t, *sold)
	assert.True(t, f.FiltersApplied())

	f = SearchQuery{Status: "all"}.Normalize()
	assert.Equal(t, StatusAll, f.Status)
	assert.Nil(t, f.Sold())
	assert.True(t, f.FiltersApplied())

	// Unknown status falls back to the available default.
	f = SearchQuery{Status: "banana"}.Normalize()
	assert.Equal(t, StatusAvailable, f.Status)
	assert.False(t, f.FiltersApplied())
}

func TestFiltersApplied_ExplicitAvailableAlone(t *testing.T) {
	// status=available supplied explicitly with no other filter is still the
	// default view.
	f := SearchQuery{Status: "available"}.Normalize()
	assert.False(t, f.FiltersApplied())

	// Any other filter flips the flag even with the default status.
	f = SearchQuery{Status: "available", Keyword: "bike"}.Normalize()
	assert.True(t, f.FiltersApplied())
}

func TestIsValidCondition(t *testing.T) {
	for _, c := range []string{"new", "like_new", "good", "fair", "poor"} {
		assert.True(t, IsValidCondition(c))
	}
	assert.False(t, IsValidCondition("NEW"))
	assert.False(t, IsValidCondition(""))
}
