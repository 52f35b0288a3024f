package pricing

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"eshop-api/internal/domain"
)

func item(price string, qty int) domain.CartItem {
	return domain.CartItem{ProductID: "p", Price: price, Qty: qty}
}

func mustCalculate(t *testing.T, items []domain.CartItem) domain.CartTotals {
	t.Helper()
	got, err := Calculate(items)
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	return got
}

func TestCalculateBelowFreeShipping(t *testing.T) {
	got := mustCalculate(t, []domain.CartItem{item("60.00", 1)})
	want := domain.CartTotals{
		ItemsPrice:    "60.00",
		ShippingPrice: "10.00",
		TaxPrice:      "9.00",
		TotalPrice:    "79.00",
	}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestCalculateAboveFreeShipping(t *testing.T) {
	got := mustCalculate(t, []domain.CartItem{item("60.00", 2)})
	want := domain.CartTotals{
		ItemsPrice:    "120.00",
		ShippingPrice: "0.00",
		TaxPrice:      "18.00",
		TotalPrice:    "138.00",
	}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestCalculateExactlyAtThresholdPaysShipping(t *testing.T) {
	got := mustCalculate(t, []domain.CartItem{item("100.00", 1)})
	if got.ShippingPrice != "10.00" {
		t.Fatalf("shipping at exactly 100.00 should be 10.00, got %s", got.ShippingPrice)
	}
	if got.TotalPrice != "125.00" {
		t.Fatalf("total at exactly 100.00 should be 125.00, got %s", got.TotalPrice)
	}
}

func TestCalculateJustAboveThreshold(t *testing.T) {
	got := mustCalculate(t, []domain.CartItem{item("100.01", 1)})
	if got.ShippingPrice != "0.00" {
		t.Fatalf("shipping above 100.00 should be 0.00, got %s", got.ShippingPrice)
	}
}

func TestCalculateEmpty(t *testing.T) {
	got := mustCalculate(t, nil)
	want := domain.CartTotals{
		ItemsPrice:    "0.00",
		ShippingPrice: "10.00",
		TaxPrice:      "0.00",
		TotalPrice:    "10.00",
	}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestCalculateTaxRoundedOnce(t *testing.T) {
	// 3 * 33.33 = 99.99; tax 14.9985 rounds to 15.00 only at the end,
	// not per line.
	got := mustCalculate(t, []domain.CartItem{item("33.33", 3)})
	if got.ItemsPrice != "99.99" {
		t.Fatalf("items price: got %s", got.ItemsPrice)
	}
	if got.TaxPrice != "15.00" {
		t.Fatalf("tax price: got %s", got.TaxPrice)
	}
	if got.TotalPrice != "124.99" {
		t.Fatalf("total price: got %s", got.TotalPrice)
	}
}

func TestCalculateTotalIdentity(t *testing.T) {
	carts := [][]domain.CartItem{
		{item("19.99", 3)},
		{item("0.01", 1)},
		{item("33.33", 3), item("0.07", 13)},
		{item("12.49", 7), item("89.90", 1), item("5.55", 2)},
	}
	for _, items := range carts {
		got := mustCalculate(t, items)
		ip := decimal.RequireFromString(got.ItemsPrice)
		sp := decimal.RequireFromString(got.ShippingPrice)
		tp := decimal.RequireFromString(got.TaxPrice)
		want := ip.Add(sp).Add(tp).StringFixed(2)
		if got.TotalPrice != want {
			t.Fatalf("total %s != items+shipping+tax %s for %+v", got.TotalPrice, want, items)
		}
	}
}

func TestCalculateRejectsMalformedPrice(t *testing.T) {
	_, err := Calculate([]domain.CartItem{item("not-a-price", 2), item("10.00", 1)})
	if err == nil {
		t.Fatalf("expected an error for a malformed line price")
	}
	if !strings.Contains(err.Error(), "not-a-price") {
		t.Fatalf("error should name the offending price, got %v", err)
	}
}
