package client

import (
	"encoding/json"
	"errors"
	"os"

	"eshop-api/internal/domain"
	"eshop-api/internal/pricing"
)

// LocalCart is a cart kept in a JSON file, used while offline or
// before any server round trip. It prices itself with the same rules
// the server applies, so the displayed totals match after a sync.
type LocalCart struct {
	path  string
	Items []domain.CartItem `json:"items"`
}

// OpenLocalCart loads the cart file, or starts an empty cart when the
// file does not exist yet.
func OpenLocalCart(path string) (*LocalCart, error) {
	cart := &LocalCart{path: path}
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cart, nil
		}
		return nil, err
	}
	if err := json.Unmarshal(raw, cart); err != nil {
		return nil, err
	}
	cart.path = path
	return cart, nil
}

// Totals prices the current lines. It fails when a stored line price
// is not a valid decimal.
func (c *LocalCart) Totals() (domain.CartTotals, error) {
	return pricing.Calculate(c.Items)
}

// Add merges qty into an existing line or appends a new one.
func (c *LocalCart) Add(p domain.Product, qty int) error {
	if qty < 1 {
		return errors.New("quantity must be positive")
	}
	for i := range c.Items {
		if c.Items[i].ProductID == p.ID {
			c.Items[i].Qty += qty
			return c.save()
		}
	}
	c.Items = append(c.Items, domain.CartItem{
		ProductID: p.ID,
		Name:      p.Name,
		Slug:      p.Slug,
		Image:     p.FirstImage(),
		Price:     p.Price,
		Qty:       qty,
	})
	return c.save()
}

// SetQty sets a line's quantity to exactly qty.
func (c *LocalCart) SetQty(productID string, qty int) error {
	if qty < 1 {
		return errors.New("quantity must be positive")
	}
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items[i].Qty = qty
			return c.save()
		}
	}
	return domain.ErrNotFound
}

// Remove drops a line. Removing the last line deletes the file.
func (c *LocalCart) Remove(productID string) error {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return c.save()
		}
	}
	return domain.ErrNotFound
}

// Clear empties the cart and deletes the file.
func (c *LocalCart) Clear() error {
	c.Items = nil
	return c.save()
}

func (c *LocalCart) save() error {
	if len(c.Items) == 0 {
		err := os.Remove(c.path)
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	raw, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(c.path, raw, 0o600)
}
