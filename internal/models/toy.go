package models

import (
	"time"
)

// Toy is a single catalog item. Messages are owned by the toy and have no
// lifecycle of their own.
type Toy struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	InStock   bool      `json:"inStock"`
	Labels    []string  `json:"labels"`
	ImgURL    string    `json:"imgUrl"`
	Messages  []ToyMsg  `json:"messages"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ToyMsg is a discussion message embedded in a toy. AuthorBy is a snapshot
// of the poster's claims at the time of posting.
type ToyMsg struct {
	ID        string      `json:"id"`
	Text      string      `json:"text"`
	AuthorBy  TokenClaims `json:"authorBy"`
	CreatedAt time.Time   `json:"createdAt"`
}

// HasLabel reports whether the toy carries the given label.
func (t *Toy) HasLabel(label string) bool {
	for _, l := range t.Labels {
		if l == label {
			return true
		}
	}
	return false
}
