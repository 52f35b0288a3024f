package product

import (
	"context"

	"eshop-api/internal/domain"
)

// ListInput describes catalog filtering, sorting and paging. Zero
// values mean "no constraint"; Limit defaults to the storefront page
// size when unset.
type ListInput struct {
	Category string
	Brand    string
	Search   string
	MinPrice string
	MaxPrice string
	SortBy   string
	Order    string
	Limit    int
	Offset   int
}

type Repository interface {
	List(ctx context.Context, in ListInput) ([]domain.Product, int, error)
	Latest(ctx context.Context, limit int) ([]domain.Product, error)
	Featured(ctx context.Context) ([]domain.Product, error)
	// Categories lists the distinct category names, sorted.
	Categories(ctx context.Context) ([]string, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Product, error)
	Create(ctx context.Context, p domain.Product) (*domain.Product, error)
	Update(ctx context.Context, p domain.Product) (*domain.Product, error)
	// Upsert inserts the product or, when the slug is taken, updates
	// the existing row. Used by the importer and the seeder.
	Upsert(ctx context.Context, p domain.Product) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
}
