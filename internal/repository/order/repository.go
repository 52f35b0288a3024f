package order

import (
	"context"

	"eshop-api/internal/domain"
)

type Repository interface {
	// Create inserts the order and its items in one transaction,
	// decrementing product stock conditionally. It fails with
	// domain.ErrInsufficientStock when any line no longer fits the
	// available stock, leaving nothing modified.
	Create(ctx context.Context, o domain.Order) (*domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
	ListAll(ctx context.Context) ([]domain.Order, error)
	MarkPaid(ctx context.Context, id string, result domain.PaymentResult) (*domain.Order, error)
	MarkDelivered(ctx context.Context, id string) (*domain.Order, error)
}
