package importer

import (
	"context"
	"strings"
	"testing"

	"eshop-api/internal/domain"
)

type captureWriter struct {
	products []domain.Product
}

func (w *captureWriter) Upsert(_ context.Context, p domain.Product) (*domain.Product, error) {
	w.products = append(w.products, p)
	return &p, nil
}

const sampleCatalog = `{
  "products": [
    {
      "name": "Polo Sporting Stretch Shirt",
      "category": "Men's Dress Shirts",
      "brand": "Polo",
      "description": "Classic Polo style",
      "images": ["/images/p1-1.jpg"],
      "stock": 5,
      "price": "59.9",
      "isFeatured": true
    },
    {
      "name": "Brooks Brothers Long Sleeved Shirt",
      "slug": "custom-slug",
      "category": "Men's Dress Shirts",
      "brand": "Brooks Brothers",
      "stock": 8,
      "price": "85.90"
    }
  ]
}`

func TestRunImportsCatalog(t *testing.T) {
	w := &captureWriter{}
	imp := NewJSONImporter(strings.NewReader(sampleCatalog), w)

	count, err := imp.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if count != 2 || len(w.products) != 2 {
		t.Fatalf("expected 2 imports, got %d", count)
	}

	first := w.products[0]
	if first.Slug != "polo-sporting-stretch-shirt" {
		t.Fatalf("slug must be derived from the name, got %q", first.Slug)
	}
	if first.Price != "59.90" {
		t.Fatalf("price must be normalized, got %q", first.Price)
	}
	if w.products[1].Slug != "custom-slug" {
		t.Fatalf("explicit slug must win, got %q", w.products[1].Slug)
	}
}

func TestRunRejectsInvalidPrice(t *testing.T) {
	catalog := `{"products":[{"name":"X","category":"c","brand":"b","price":"free"}]}`
	imp := NewJSONImporter(strings.NewReader(catalog), &captureWriter{})

	if _, err := imp.Run(context.Background()); err == nil {
		t.Fatalf("invalid price must abort the import")
	}
}

func TestRunRejectsEmptyCatalog(t *testing.T) {
	imp := NewJSONImporter(strings.NewReader(`{"products":[]}`), &captureWriter{})
	if _, err := imp.Run(context.Background()); err == nil {
		t.Fatalf("empty catalog must be an error")
	}
}

func TestRunRejectsUnknownFields(t *testing.T) {
	catalog := `{"products":[{"name":"X","category":"c","brand":"b","price":"1","pricee":"2"}]}`
	imp := NewJSONImporter(strings.NewReader(catalog), &captureWriter{})
	if _, err := imp.Run(context.Background()); err == nil {
		t.Fatalf("unknown fields must abort the import")
	}
}
