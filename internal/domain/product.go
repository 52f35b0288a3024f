package domain

import "time"

type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Category    string    `json:"category"`
	Brand       string    `json:"brand"`
	Description string    `json:"description"`
	Images      []string  `json:"images"`
	Stock       int       `json:"stock"`
	Price       string    `json:"price"`
	Rating      string    `json:"rating"`
	NumReviews  int       `json:"numReviews"`
	IsFeatured  bool      `json:"isFeatured"`
	Banner      *string   `json:"banner,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// FirstImage returns the primary product image, or "" when none exist.
func (p Product) FirstImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}
