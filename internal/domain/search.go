package domain

import (
	"math"
	"strconv"
	"strings"
)

// ListingStatus selects which sold states a search should return.
type ListingStatus string

const (
	StatusAvailable ListingStatus = "available"
	StatusSold      ListingStatus = "sold"
	StatusAll       ListingStatus = "all"
)

// SearchQuery holds the raw, loosely-typed filter inputs exactly as the
// client supplied them. Every field is optional; Normalize applies the
// defaulting and validation rules independently per field.
type SearchQuery struct {
	Keyword   string
	Category  string
	MinPrice  string
	MaxPrice  string
	Condition string
	Status    string
}

// SearchFilter is the normalized form of a SearchQuery. A nil field means
// "no predicate". Predicates are combined with logical AND.
type SearchFilter struct {
	Keyword    *string
	CategoryID *int64
	MinCents   *int64
	MaxCents   *int64
	Condition  *Condition
	Status     ListingStatus
}

// Normalize applies the per-field rules:
//   - keyword is trimmed; empty means no keyword predicate
//   - category must parse as a positive integer, otherwise it is dropped
//   - min/max price must parse as non-negative decimals, otherwise they are
//     silently dropped; when both survive and min > max they are swapped
//   - condition must be a recognized enum value, otherwise it is dropped
//   - status defaults to "available" when absent or unrecognized
func (q SearchQuery) Normalize() SearchFilter {
	var f SearchFilter

	if kw := strings.TrimSpace(q.Keyword); kw != "" {
		f.Keyword = &kw
	}

	if id, err := strconv.ParseInt(strings.TrimSpace(q.Category), 10, 64); err == nil && id > 0 {
		f.CategoryID = &id
	}

	f.MinCents = parsePriceCents(q.MinPrice)
	f.MaxCents = parsePriceCents(q.MaxPrice)
	if f.MinCents != nil && f.MaxCents != nil && *f.MinCents > *f.MaxCents {
		f.MinCents, f.MaxCents = f.MaxCents, f.MinCents
	}

	if IsValidCondition(q.Condition) {
		c := Condition(q.Condition)
		f.Condition = &c
	}

	switch ListingStatus(q.Status) {
	case StatusSold:
		f.Status = StatusSold
	case StatusAll:
		f.Status = StatusAll
	default:
		f.Status = StatusAvailable
	}

	return f
}

// Sold returns the sold-flag predicate implied by the status, or nil when
// status is "all".
func (f SearchFilter) Sold() *bool {
	switch f.Status {
	case StatusSold:
		v := true
		return &v
	case StatusAvailable:
		v := false
		return &v
	default:
		return nil
	}
}

// FiltersApplied reports whether any filter beyond the default
// status=available was supplied. It is a pure function of the normalized
// filter, used by callers to decide whether the filter panel should render
// expanded.
func (f SearchFilter) FiltersApplied() bool {
	return f.Keyword != nil ||
		f.CategoryID != nil ||
		f.MinCents != nil ||
		f.MaxCents != nil ||
		f.Condition != nil ||
		f.Status != StatusAvailable
}

// parsePriceCents parses a decimal dollar amount into cents. Invalid or
// negative input yields nil rather than an error.
func parsePriceCents(s string) *int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 || math.IsInf(v, 0) || math.IsNaN(v) {
		return nil
	}
	cents := int64(math.Round(v * 100))
	return &cents
}
