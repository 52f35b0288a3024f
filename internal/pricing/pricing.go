// Package pricing computes the derived price fields of a cart. The
// calculation is pure: same items in, same totals out, no I/O.
package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"eshop-api/internal/domain"
)

var (
	// FreeShippingThreshold is exclusive: a cart at exactly 100.00
	// still pays shipping.
	FreeShippingThreshold = decimal.NewFromInt(100)
	// ShippingPrice is the flat charge below the free threshold.
	ShippingPrice = decimal.NewFromInt(10)
	// TaxRate is applied to the items subtotal.
	TaxRate = decimal.RequireFromString("0.15")
)

// Calculate returns items/shipping/tax/total for the given lines, each
// fixed to two decimal places. Tax is computed on the unrounded items
// subtotal and rounded once at the end, so the identity
// total == items + shipping + tax holds exactly at two places.
//
// Prices are written by this service from numeric columns, so a line
// that fails to parse means the stored cart is corrupt; Calculate
// reports it instead of quietly pricing the line as free.
//
// An empty slice yields 0.00/10.00/0.00/10.00; callers persisting carts
// must delete the cart instead of storing that degenerate result.
func Calculate(items []domain.CartItem) (domain.CartTotals, error) {
	itemsPrice := decimal.Zero
	for _, item := range items {
		price, err := decimal.NewFromString(item.Price)
		if err != nil {
			return domain.CartTotals{}, fmt.Errorf("parse price %q of product %s: %w", item.Price, item.ProductID, err)
		}
		itemsPrice = itemsPrice.Add(price.Mul(decimal.NewFromInt(int64(item.Qty))))
	}

	shipping := ShippingPrice
	if itemsPrice.GreaterThan(FreeShippingThreshold) {
		shipping = decimal.Zero
	}

	tax := itemsPrice.Mul(TaxRate).Round(2)
	total := itemsPrice.Add(shipping).Add(tax)

	return domain.CartTotals{
		ItemsPrice:    itemsPrice.StringFixed(2),
		ShippingPrice: shipping.StringFixed(2),
		TaxPrice:      tax.StringFixed(2),
		TotalPrice:    total.StringFixed(2),
	}, nil
}
