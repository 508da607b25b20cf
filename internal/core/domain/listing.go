package domain

import "time"

// Listing is a sitter's offered service. SitterID always references a user
// with the sitter role.
type Listing struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Location    string    `json:"location"`
	SitterID    string    `json:"sitterId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// OwnedBy reports whether userID is the listing's sitter.
func (l *Listing) OwnedBy(userID string) bool {
	return l != nil && l.SitterID == userID
}
