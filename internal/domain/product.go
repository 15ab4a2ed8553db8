package domain

import "time"

// Condition describes the wear level of a listed item.
type Condition string

const (
	ConditionNew     Condition = "new"
	ConditionLikeNew Condition = "like_new"
	ConditionGood    Condition = "good"
	ConditionFair    Condition = "fair"
	ConditionPoor    Condition = "poor"
)

// IsValidCondition reports whether s is one of the recognized condition values.
func IsValidCondition(s string) bool {
	switch Condition(s) {
	case ConditionNew, ConditionLikeNew, ConditionGood, ConditionFair, ConditionPoor:
		return true
	}
	return false
}

// Product is an item listed for sale. Prices are stored in cents.
type Product struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	PriceCents  int64     `json:"price_cents"`
	CategoryID  int64     `json:"category_id"`
	Condition   Condition `json:"condition"`
	ImagePath   *string   `json:"image_path,omitempty"`
	IsSold      bool      `json:"is_sold"`
	SellerID    int64     `json:"seller_id"`
	DatePosted  time.Time `json:"date_posted"`
}

// Listing is a product row enriched for presentation: seller name, category
// name, and a live like count computed at query time.
type Listing struct {
	Product
	SellerName   string `json:"seller_name"`
	CategoryName string `json:"category_name"`
	LikeCount    int    `json:"like_count"`
}

// Category is static reference data; every product belongs to exactly one.
type Category struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CategoryCount is a per-category product tally. Categories with zero
// products are still present.
type CategoryCount struct {
	CategoryID   int64  `json:"category_id"`
	Name         string `json:"name"`
	ProductCount int    `json:"product_count"`
}
