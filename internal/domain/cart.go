package domain

import "time"

// Cart is owned by either a registered user or an anonymous session,
// never both at once. The four price fields are derived from Items and
// recomputed on every mutation; they are not independently settable.
type Cart struct {
	ID            string     `json:"id"`
	UserID        *string    `json:"userId,omitempty"`
	SessionCartID string     `json:"-"`
	Items         []CartItem `json:"items"`
	ItemsPrice    string     `json:"itemsPrice"`
	ShippingPrice string     `json:"shippingPrice"`
	TaxPrice      string     `json:"taxPrice"`
	TotalPrice    string     `json:"totalPrice"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// CartItem is one product line within a cart. Price is a fixed-point
// decimal string snapshotted from the product at add time.
type CartItem struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	Image     string `json:"image"`
	Price     string `json:"price"`
	Qty       int    `json:"qty"`
}

// CartTotals holds the derived price fields for a set of cart items.
// All values are decimal strings with exactly two fraction digits.
type CartTotals struct {
	ItemsPrice    string `json:"itemsPrice"`
	ShippingPrice string `json:"shippingPrice"`
	TaxPrice      string `json:"taxPrice"`
	TotalPrice    string `json:"totalPrice"`
}
