package domain

import "time"

// User represents a registered marketplace member. Emails are stored
// lowercase and must belong to an allowed institutional domain.
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	ProfileInfo  string    `json:"profile_info"`
	CampusID     *int64    `json:"campus_id,omitempty"`
	JoinDate     time.Time `json:"join_date"`
}

// Campus is static reference data describing an institution.
type Campus struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	City  string `json:"city"`
	State string `json:"state"`
}
