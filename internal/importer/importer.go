// Package importer loads a JSON catalog export into the products table.
package importer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/shopspring/decimal"

	"eshop-api/internal/domain"
	"eshop-api/internal/service/product"
)

type ProductWriter interface {
	Upsert(ctx context.Context, p domain.Product) (*domain.Product, error)
}

// JSONImporter reads a catalog file of the shape {"products": [...]}
// and upserts each entry by slug.
type JSONImporter struct {
	reader      io.Reader
	productRepo ProductWriter
}

func NewJSONImporter(r io.Reader, repo ProductWriter) *JSONImporter {
	return &JSONImporter{reader: r, productRepo: repo}
}

type catalogFile struct {
	Products []catalogProduct `json:"products"`
}

type catalogProduct struct {
	Name        string   `json:"name"`
	Slug        string   `json:"slug"`
	Category    string   `json:"category"`
	Brand       string   `json:"brand"`
	Description string   `json:"description"`
	Images      []string `json:"images"`
	Stock       int      `json:"stock"`
	Price       string   `json:"price"`
	IsFeatured  bool     `json:"isFeatured"`
	Banner      *string  `json:"banner"`
}

// Run parses the catalog and upserts every product. It stops at the
// first invalid entry so a typo in the export is caught, not skipped.
func (i *JSONImporter) Run(ctx context.Context) (int, error) {
	var file catalogFile
	dec := json.NewDecoder(i.reader)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&file); err != nil {
		return 0, fmt.Errorf("parse catalog: %w", err)
	}
	if len(file.Products) == 0 {
		return 0, errors.New("catalog holds no products")
	}

	imported := 0
	for n, entry := range file.Products {
		p, err := entry.toDomain()
		if err != nil {
			return imported, fmt.Errorf("product %d (%q): %w", n, entry.Name, err)
		}
		if _, err := i.productRepo.Upsert(ctx, p); err != nil {
			return imported, fmt.Errorf("upsert product %q: %w", p.Slug, err)
		}
		imported++
	}
	return imported, nil
}

func (e catalogProduct) toDomain() (domain.Product, error) {
	if e.Name == "" {
		return domain.Product{}, errors.New("name required")
	}
	if e.Category == "" || e.Brand == "" {
		return domain.Product{}, errors.New("category and brand required")
	}
	price, err := decimal.NewFromString(e.Price)
	if err != nil || price.IsNegative() {
		return domain.Product{}, fmt.Errorf("invalid price %q", e.Price)
	}
	if e.Stock < 0 {
		return domain.Product{}, errors.New("stock must not be negative")
	}

	slug := e.Slug
	if slug == "" {
		slug = product.Slugify(e.Name)
	}
	if slug == "" {
		return domain.Product{}, errors.New("name yields an empty slug")
	}

	return domain.Product{
		Name:        e.Name,
		Slug:        slug,
		Category:    e.Category,
		Brand:       e.Brand,
		Description: e.Description,
		Images:      e.Images,
		Stock:       e.Stock,
		Price:       price.StringFixed(2),
		IsFeatured:  e.IsFeatured,
		Banner:      e.Banner,
	}, nil
}
