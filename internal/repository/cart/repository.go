package cart

import (
	"context"

	"eshop-api/internal/domain"
)

// CreateCartInput carries everything needed to persist a new cart row.
// SessionCartID is always set; UserID only for authenticated owners.
type CreateCartInput struct {
	UserID        *string
	SessionCartID string
	Items         []domain.CartItem
	Totals        domain.CartTotals
}

type Repository interface {
	Create(ctx context.Context, in CreateCartInput) (*domain.Cart, error)
	GetByUser(ctx context.Context, userID string) (*domain.Cart, error)
	GetBySession(ctx context.Context, sessionCartID string) (*domain.Cart, error)
	// Update replaces the item collection and derived totals in one
	// statement; callers must have recomputed totals from items.
	Update(ctx context.Context, id string, items []domain.CartItem, totals domain.CartTotals) (*domain.Cart, error)
	Delete(ctx context.Context, id string) error
}
