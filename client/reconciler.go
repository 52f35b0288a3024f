package client

import (
	"context"
	"io"
	"log"

	"eshop-api/internal/domain"
)

// Reconciler folds a local cart into the server-side cart after login.
// Lines are replayed in local order; each failure is logged and
// skipped, so stock changes since the lines were added never abort the
// sync. The local cart is discarded afterwards and the server cart
// becomes the single source of truth.
type Reconciler struct {
	local  *LocalCart
	client *Client
	logger *log.Logger
}

func NewReconciler(local *LocalCart, client *Client, logger *log.Logger) *Reconciler {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Reconciler{local: local, client: client, logger: logger}
}

// Sync pushes the local lines to the server and returns the resulting
// server cart.
func (r *Reconciler) Sync(ctx context.Context) (*domain.Cart, error) {
	for _, line := range r.local.Items {
		if _, err := r.client.AddCartItem(ctx, line.ProductID, line.Qty); err != nil {
			r.logger.Printf("cart sync: skip product=%s qty=%d: %v", line.ProductID, line.Qty, err)
		}
	}

	if err := r.local.Clear(); err != nil {
		return nil, err
	}
	return r.client.GetCart(ctx)
}
