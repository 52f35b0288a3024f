package review

import (
	"context"

	"eshop-api/internal/domain"
)

type Repository interface {
	// Create inserts the review and recomputes the product's rating
	// aggregate in one transaction.
	Create(ctx context.Context, rv domain.Review) (*domain.Review, error)
	Update(ctx context.Context, rv domain.Review) (*domain.Review, error)
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Review, error)
	ListByProduct(ctx context.Context, productID string, limit, offset int) ([]domain.Review, int, error)
	// HasPurchased reports whether the user has an order containing
	// the product, for the verified-purchase flag.
	HasPurchased(ctx context.Context, userID, productID string) (bool, error)
}
