package domain

import "time"

// Comment is an immutable remark left on a product by any authenticated user.
type Comment struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	ProductID  int64     `json:"product_id"`
	Text       string    `json:"text"`
	CreatedAt  time.Time `json:"created_at"`
	AuthorName string    `json:"author_name,omitempty"`
}

// Like marks that a user has liked a product. At most one like exists per
// (user, product) pair.
type Like struct {
	UserID    int64     `json:"user_id"`
	ProductID int64     `json:"product_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Review is feedback one user leaves about another, optionally tied to a
// specific product. Rating is an integer from 1 to 5.
type Review struct {
	ID             int64     `json:"id"`
	ReviewerID     int64     `json:"reviewer_id"`
	ReviewedUserID int64     `json:"reviewed_user_id"`
	ProductID      *int64    `json:"product_id,omitempty"`
	Rating         int       `json:"rating"`
	Comment        string    `json:"comment"`
	CreatedAt      time.Time `json:"created_at"`
	ReviewerName   string    `json:"reviewer_name,omitempty"`
}
