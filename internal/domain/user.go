package domain

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Address is the shipping address stored on users and orders.
type Address struct {
	FullName      string   `json:"fullName"`
	StreetAddress string   `json:"streetAddress"`
	City          string   `json:"city"`
	PostalCode    string   `json:"postalCode"`
	Country       string   `json:"country"`
	Lat           *float64 `json:"lat,omitempty"`
	Lng           *float64 `json:"lng,omitempty"`
}

// User represents a registered account.
type User struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	PasswordHash  string    `json:"-"`
	Role          string    `json:"role"`
	Address       *Address  `json:"address,omitempty"`
	PaymentMethod string    `json:"paymentMethod,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
