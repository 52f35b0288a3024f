package domain

import "time"

// PaymentMethods lists the accepted checkout payment methods.
var PaymentMethods = []string{"PayPal", "Stripe", "CashOnDelivery"}

// DefaultPaymentMethod is used when a user never picked one.
const DefaultPaymentMethod = "PayPal"

// ValidPaymentMethod reports whether m is an accepted payment method.
func ValidPaymentMethod(m string) bool {
	for _, pm := range PaymentMethods {
		if pm == m {
			return true
		}
	}
	return false
}

// PaymentResult is the opaque provider confirmation stored on a paid
// order. Providers themselves are external to this service.
type PaymentResult struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	EmailAddress string `json:"email_address"`
	PricePaid    string `json:"pricePaid"`
}

type Order struct {
	ID              string         `json:"id"`
	UserID          string         `json:"userId"`
	UserName        string         `json:"userName,omitempty"`
	UserEmail       string         `json:"userEmail,omitempty"`
	ShippingAddress Address        `json:"shippingAddress"`
	PaymentMethod   string         `json:"paymentMethod"`
	PaymentResult   *PaymentResult `json:"paymentResult,omitempty"`
	Items           []OrderItem    `json:"items,omitempty"`
	ItemsPrice      string         `json:"itemsPrice"`
	ShippingPrice   string         `json:"shippingPrice"`
	TaxPrice        string         `json:"taxPrice"`
	TotalPrice      string         `json:"totalPrice"`
	IsPaid          bool           `json:"isPaid"`
	PaidAt          *time.Time     `json:"paidAt,omitempty"`
	IsDelivered     bool           `json:"isDelivered"`
	DeliveredAt     *time.Time     `json:"deliveredAt,omitempty"`
	CreatedAt       time.Time      `json:"createdAt"`
}

type OrderItem struct {
	OrderID   string `json:"-"`
	ProductID string `json:"productId"`
	Qty       int    `json:"qty"`
	Price     string `json:"price"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	Image     string `json:"image"`
}
