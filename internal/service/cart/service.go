// Package cart implements the cart store: one cart per identity, with
// add/update/remove/clear operations that keep the derived price
// fields consistent with the line items on every mutation.
package cart

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"

	"eshop-api/internal/domain"
	"eshop-api/internal/identity"
	"eshop-api/internal/pricing"
	cartrepo "eshop-api/internal/repository/cart"
)

type Service struct {
	repo     cartRepo
	products productRepo
	locks    *identityLocks
	logger   *log.Logger
}

type cartRepo interface {
	Create(ctx context.Context, in cartrepo.CreateCartInput) (*domain.Cart, error)
	GetByUser(ctx context.Context, userID string) (*domain.Cart, error)
	GetBySession(ctx context.Context, sessionCartID string) (*domain.Cart, error)
	Update(ctx context.Context, id string, items []domain.CartItem, totals domain.CartTotals) (*domain.Cart, error)
	Delete(ctx context.Context, id string) error
}

type productRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

func New(repo cartrepo.Repository, products productRepo, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{
		repo:     repo,
		products: products,
		locks:    newIdentityLocks(),
		logger:   logger,
	}
}

// AddItemInput is the validated payload for AddItem.
type AddItemInput struct {
	ProductID string `json:"productId" binding:"required"`
	Qty       int    `json:"qty" binding:"required,min=1"`
}

// Get returns the cart for the identity, or domain.ErrNotFound.
func (s *Service) Get(ctx context.Context, id identity.Identity) (*domain.Cart, error) {
	return s.resolve(ctx, id)
}

// AddItem adds qty of a product to the identity's cart, creating the
// cart on first touch and merging quantities when the product is
// already present. The returned bool reports whether a new cart was
// created.
func (s *Service) AddItem(ctx context.Context, id identity.Identity, in AddItemInput) (*domain.Cart, bool, error) {
	if strings.TrimSpace(in.ProductID) == "" {
		return nil, false, domain.Validation("productId required")
	}
	if in.Qty < 1 {
		return nil, false, domain.Validation("quantity must be positive")
	}

	unlock := s.locks.acquire(id.Key())
	defer unlock()

	product, err := s.products.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, false, err
	}

	cart, err := s.resolve(ctx, id)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, false, err
	}

	if cart == nil {
		if in.Qty > product.Stock {
			return nil, false, domain.ErrInsufficientStock
		}
		items := []domain.CartItem{lineFromProduct(*product, in.Qty)}
		totals, err := pricing.Calculate(items)
		if err != nil {
			return nil, false, err
		}
		created, err := s.repo.Create(ctx, cartrepo.CreateCartInput{
			UserID:        userIDPtr(id),
			SessionCartID: sessionKeyFor(id),
			Items:         items,
			Totals:        totals,
		})
		if err != nil {
			return nil, false, err
		}
		return created, true, nil
	}

	items := cloneItems(cart.Items)
	idx := indexOf(items, in.ProductID)
	if idx >= 0 {
		newQty := items[idx].Qty + in.Qty
		if newQty > product.Stock {
			return nil, false, domain.ErrInsufficientStock
		}
		items[idx].Qty = newQty
	} else {
		if in.Qty > product.Stock {
			return nil, false, domain.ErrInsufficientStock
		}
		items = append(items, lineFromProduct(*product, in.Qty))
	}

	totals, err := pricing.Calculate(items)
	if err != nil {
		return nil, false, err
	}
	updated, err := s.repo.Update(ctx, cart.ID, items, totals)
	if err != nil {
		return nil, false, err
	}
	return updated, false, nil
}

// UpdateItem sets a line's quantity to exactly qty (absolute set).
func (s *Service) UpdateItem(ctx context.Context, id identity.Identity, productID string, qty int) (*domain.Cart, error) {
	if qty < 1 {
		return nil, domain.Validation("quantity must be positive")
	}

	unlock := s.locks.acquire(id.Key())
	defer unlock()

	cart, err := s.resolve(ctx, id)
	if err != nil {
		return nil, err
	}

	items := cloneItems(cart.Items)
	idx := indexOf(items, productID)
	if idx < 0 {
		return nil, domain.ErrNotFound
	}

	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if qty > product.Stock {
		return nil, domain.ErrInsufficientStock
	}

	items[idx].Qty = qty
	totals, err := pricing.Calculate(items)
	if err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, cart.ID, items, totals)
}

// RemoveItem removes a line. Removing the last line deletes the cart
// and returns a nil cart rather than persisting an empty priced shell.
func (s *Service) RemoveItem(ctx context.Context, id identity.Identity, productID string) (*domain.Cart, error) {
	unlock := s.locks.acquire(id.Key())
	defer unlock()

	cart, err := s.resolve(ctx, id)
	if err != nil {
		return nil, err
	}

	idx := indexOf(cart.Items, productID)
	if idx < 0 {
		return nil, domain.ErrNotFound
	}

	items := append(cloneItems(cart.Items[:idx]), cart.Items[idx+1:]...)
	if len(items) == 0 {
		if err := s.repo.Delete(ctx, cart.ID); err != nil {
			return nil, err
		}
		return nil, nil
	}
	totals, err := pricing.Calculate(items)
	if err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, cart.ID, items, totals)
}

// Clear deletes the identity's cart. An absent cart is not an error.
func (s *Service) Clear(ctx context.Context, id identity.Identity) error {
	unlock := s.locks.acquire(id.Key())
	defer unlock()

	cart, err := s.resolve(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}
	if err := s.repo.Delete(ctx, cart.ID); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	return nil
}

// MergeSessionIntoUser moves the lines of a server-side anonymous cart
// into the user's cart after login, then deletes the anonymous cart.
// Lines are merged in stored order; a line that fails (stock gone,
// product deleted) is logged and skipped, so a partial merge never
// aborts the login flow.
func (s *Service) MergeSessionIntoUser(ctx context.Context, userID, sessionToken string) error {
	if sessionToken == "" {
		return nil
	}
	anon, err := s.repo.GetBySession(ctx, sessionToken)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}

	user := identity.ForUser(userID)
	for _, item := range anon.Items {
		if _, _, err := s.AddItem(ctx, user, AddItemInput{ProductID: item.ProductID, Qty: item.Qty}); err != nil {
			s.logger.Printf("cart merge: skip product=%s qty=%d user=%s: %v", item.ProductID, item.Qty, userID, err)
		}
	}

	if err := s.repo.Delete(ctx, anon.ID); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	return nil
}

// resolve looks the cart up by exactly one key: user id when
// authenticated, session token otherwise.
func (s *Service) resolve(ctx context.Context, id identity.Identity) (*domain.Cart, error) {
	if uid, ok := id.UserID(); ok {
		return s.repo.GetByUser(ctx, uid)
	}
	if tok, ok := id.SessionToken(); ok {
		return s.repo.GetBySession(ctx, tok)
	}
	return nil, domain.ErrNotFound
}

func lineFromProduct(p domain.Product, qty int) domain.CartItem {
	return domain.CartItem{
		ProductID: p.ID,
		Name:      p.Name,
		Slug:      p.Slug,
		Image:     p.FirstImage(),
		Price:     p.Price,
		Qty:       qty,
	}
}

func userIDPtr(id identity.Identity) *string {
	if uid, ok := id.UserID(); ok {
		return &uid
	}
	return nil
}

// sessionKeyFor returns the session token to store on a new cart row.
// User-owned carts still carry a token to satisfy the schema, but it
// is never used for lookup while user_id is set.
func sessionKeyFor(id identity.Identity) string {
	if tok, ok := id.SessionToken(); ok {
		return tok
	}
	return identity.MintSessionToken()
}

func indexOf(items []domain.CartItem, productID string) int {
	for i, item := range items {
		if item.ProductID == productID {
			return i
		}
	}
	return -1
}

func cloneItems(items []domain.CartItem) []domain.CartItem {
	out := make([]domain.CartItem, len(items))
	copy(out, items)
	return out
}
