// Package order implements checkout and order management. An order is
// created from the user's server-side cart; prices are re-read from the
// catalog and the totals recomputed so a stale cart cannot fix a price.
package order

import (
	"context"
	"errors"
	"io"
	"log"

	"eshop-api/internal/domain"
	"eshop-api/internal/email"
	"eshop-api/internal/identity"
	"eshop-api/internal/pricing"
	orderrepo "eshop-api/internal/repository/order"
)

type Service struct {
	repo     orderRepo
	carts    cartService
	products productRepo
	mailer   email.Mailer
	logger   *log.Logger
}

type orderRepo interface {
	Create(ctx context.Context, o domain.Order) (*domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
	ListAll(ctx context.Context) ([]domain.Order, error)
	MarkPaid(ctx context.Context, id string, result domain.PaymentResult) (*domain.Order, error)
	MarkDelivered(ctx context.Context, id string) (*domain.Order, error)
}

type cartService interface {
	Get(ctx context.Context, id identity.Identity) (*domain.Cart, error)
	Clear(ctx context.Context, id identity.Identity) error
}

type productRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

func New(repo orderrepo.Repository, carts cartService, products productRepo, mailer email.Mailer, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{repo: repo, carts: carts, products: products, mailer: mailer, logger: logger}
}

// CreateInput carries the checkout payload. The items come from the
// user's cart, never from the request.
type CreateInput struct {
	ShippingAddress domain.Address `json:"shippingAddress" binding:"required"`
	PaymentMethod   string         `json:"paymentMethod" binding:"required"`
}

var ErrEmptyCart = errors.New("cart is empty")

// Create places an order for the user's current cart. Product prices
// are re-read and the totals recomputed; stock is decremented inside
// the order transaction, so a concurrent checkout of the same stock
// fails cleanly with domain.ErrInsufficientStock. On success the cart
// is deleted and a receipt is mailed in the background.
func (s *Service) Create(ctx context.Context, user *domain.User, in CreateInput) (*domain.Order, error) {
	if !domain.ValidPaymentMethod(in.PaymentMethod) {
		return nil, domain.Validation("invalid payment method")
	}
	addr := in.ShippingAddress
	if addr.FullName == "" || addr.StreetAddress == "" || addr.City == "" || addr.PostalCode == "" || addr.Country == "" {
		return nil, domain.Validation("all address fields are required")
	}

	cart, err := s.carts.Get(ctx, identity.ForUser(user.ID))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrEmptyCart
		}
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, ErrEmptyCart
	}

	items := make([]domain.CartItem, 0, len(cart.Items))
	orderItems := make([]domain.OrderItem, 0, len(cart.Items))
	for _, line := range cart.Items {
		p, err := s.products.GetByID(ctx, line.ProductID)
		if err != nil {
			return nil, err
		}
		if line.Qty > p.Stock {
			return nil, domain.ErrInsufficientStock
		}
		items = append(items, domain.CartItem{ProductID: p.ID, Price: p.Price, Qty: line.Qty})
		orderItems = append(orderItems, domain.OrderItem{
			ProductID: p.ID,
			Qty:       line.Qty,
			Price:     p.Price,
			Name:      p.Name,
			Slug:      p.Slug,
			Image:     p.FirstImage(),
		})
	}
	totals, err := pricing.Calculate(items)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, domain.Order{
		UserID:          user.ID,
		ShippingAddress: addr,
		PaymentMethod:   in.PaymentMethod,
		Items:           orderItems,
		ItemsPrice:      totals.ItemsPrice,
		ShippingPrice:   totals.ShippingPrice,
		TaxPrice:        totals.TaxPrice,
		TotalPrice:      totals.TotalPrice,
	})
	if err != nil {
		return nil, err
	}

	if err := s.carts.Clear(ctx, identity.ForUser(user.ID)); err != nil {
		s.logger.Printf("order service: clear cart user=%s error=%v", user.ID, err)
	}

	if s.mailer != nil {
		receipt := *created
		go func() {
			if err := s.mailer.SendOrderReceipt(context.Background(), user.Email, &receipt); err != nil {
				s.logger.Printf("order service: receipt mail order=%s error=%v", receipt.ID, err)
			}
		}()
	}

	return created, nil
}

// Get returns an order, restricted to its owner unless the caller is
// an admin.
func (s *Service) Get(ctx context.Context, user *domain.User, id string) (*domain.Order, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.UserID != user.ID && !user.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	return o, nil
}

func (s *Service) ListMine(ctx context.Context, userID string) ([]domain.Order, error) {
	return s.repo.ListByUser(ctx, userID)
}

// ListAll returns every order. Admin only, enforced at the HTTP layer.
func (s *Service) ListAll(ctx context.Context) ([]domain.Order, error) {
	return s.repo.ListAll(ctx)
}

// MarkPaid records the payment confirmation on an order.
func (s *Service) MarkPaid(ctx context.Context, id string, result domain.PaymentResult) (*domain.Order, error) {
	return s.repo.MarkPaid(ctx, id, result)
}

// MarkDelivered flags a paid order as delivered.
func (s *Service) MarkDelivered(ctx context.Context, id string) (*domain.Order, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !o.IsPaid {
		return nil, domain.Validation("order is not paid")
	}
	return s.repo.MarkDelivered(ctx, id)
}
