// Package product implements the catalog: browsing with filters and
// the admin CRUD operations.
package product

import (
	"context"
	"errors"
	"io"
	"log"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"eshop-api/internal/domain"
	productrepo "eshop-api/internal/repository/product"
)

const (
	defaultPageSize = 12
	latestLimit     = 4
)

type Service struct {
	repo   productRepo
	logger *log.Logger
}

type productRepo interface {
	List(ctx context.Context, in productrepo.ListInput) ([]domain.Product, int, error)
	Latest(ctx context.Context, limit int) ([]domain.Product, error)
	Featured(ctx context.Context) ([]domain.Product, error)
	Categories(ctx context.Context) ([]string, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Product, error)
	Create(ctx context.Context, p domain.Product) (*domain.Product, error)
	Update(ctx context.Context, p domain.Product) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
}

func New(repo productrepo.Repository, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{repo: repo, logger: logger}
}

// ListInput mirrors the catalog query parameters.
type ListInput struct {
	Category string
	Brand    string
	Search   string
	MinPrice string
	MaxPrice string
	SortBy   string
	Order    string
	Page     int
	PageSize int
}

// ListResult is one catalog page plus paging metadata.
type ListResult struct {
	Items      []domain.Product `json:"items"`
	Total      int              `json:"total"`
	Page       int              `json:"page"`
	TotalPages int              `json:"totalPages"`
}

func (s *Service) List(ctx context.Context, in ListInput) (*ListResult, error) {
	if in.Page < 1 {
		in.Page = 1
	}
	if in.PageSize < 1 {
		in.PageSize = defaultPageSize
	}
	for _, bound := range []string{in.MinPrice, in.MaxPrice} {
		if bound == "" {
			continue
		}
		if _, err := decimal.NewFromString(bound); err != nil {
			return nil, domain.Validation("price bounds must be decimal")
		}
	}

	items, total, err := s.repo.List(ctx, productrepo.ListInput{
		Category: in.Category,
		Brand:    in.Brand,
		Search:   in.Search,
		MinPrice: in.MinPrice,
		MaxPrice: in.MaxPrice,
		SortBy:   in.SortBy,
		Order:    in.Order,
		Limit:    in.PageSize,
		Offset:   (in.Page - 1) * in.PageSize,
	})
	if err != nil {
		return nil, err
	}

	totalPages := (total + in.PageSize - 1) / in.PageSize
	return &ListResult{Items: items, Total: total, Page: in.Page, TotalPages: totalPages}, nil
}

func (s *Service) Latest(ctx context.Context) ([]domain.Product, error) {
	return s.repo.Latest(ctx, latestLimit)
}

func (s *Service) Featured(ctx context.Context) ([]domain.Product, error) {
	return s.repo.Featured(ctx)
}

// Categories returns the distinct category names in the catalog.
func (s *Service) Categories(ctx context.Context) ([]string, error) {
	return s.repo.Categories(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	return s.repo.GetBySlug(ctx, slug)
}

// CreateInput carries a new catalog entry. Slug is derived from the
// name when not given.
type CreateInput struct {
	Name        string   `json:"name" binding:"required"`
	Slug        string   `json:"slug"`
	Category    string   `json:"category" binding:"required"`
	Brand       string   `json:"brand" binding:"required"`
	Description string   `json:"description"`
	Images      []string `json:"images"`
	Stock       int      `json:"stock" binding:"min=0"`
	Price       string   `json:"price" binding:"required"`
	IsFeatured  bool     `json:"isFeatured"`
	Banner      *string  `json:"banner"`
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*domain.Product, error) {
	price, err := parsePrice(in.Price)
	if err != nil {
		return nil, err
	}
	if in.Stock < 0 {
		return nil, domain.Validation("stock must not be negative")
	}

	slug := in.Slug
	if slug == "" {
		slug = Slugify(in.Name)
	}
	if slug == "" {
		return nil, domain.Validation("name yields an empty slug")
	}

	p := domain.Product{
		Name:        strings.TrimSpace(in.Name),
		Slug:        slug,
		Category:    in.Category,
		Brand:       in.Brand,
		Description: in.Description,
		Images:      in.Images,
		Stock:       in.Stock,
		Price:       price,
		IsFeatured:  in.IsFeatured,
		Banner:      in.Banner,
	}

	created, err := s.repo.Create(ctx, p)
	if err == nil {
		return created, nil
	}
	if !errors.Is(err, domain.ErrAlreadyExists) || in.Slug != "" {
		return nil, err
	}

	// Derived slug collided; retry with numeric suffixes.
	for i := 2; i <= 50; i++ {
		p.Slug = slug + "-" + strconv.Itoa(i)
		created, err = s.repo.Create(ctx, p)
		if err == nil {
			return created, nil
		}
		if !errors.Is(err, domain.ErrAlreadyExists) {
			return nil, err
		}
	}
	return nil, domain.ErrAlreadyExists
}

// UpdateInput carries admin edits. Nil pointers leave fields untouched.
type UpdateInput struct {
	Name        *string   `json:"name"`
	Slug        *string   `json:"slug"`
	Category    *string   `json:"category"`
	Brand       *string   `json:"brand"`
	Description *string   `json:"description"`
	Images      *[]string `json:"images"`
	Stock       *int      `json:"stock"`
	Price       *string   `json:"price"`
	IsFeatured  *bool     `json:"isFeatured"`
	Banner      *string   `json:"banner"`
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (*domain.Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		p.Name = strings.TrimSpace(*in.Name)
	}
	if in.Slug != nil {
		p.Slug = *in.Slug
	}
	if in.Category != nil {
		p.Category = *in.Category
	}
	if in.Brand != nil {
		p.Brand = *in.Brand
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Images != nil {
		p.Images = *in.Images
	}
	if in.Stock != nil {
		if *in.Stock < 0 {
			return nil, domain.Validation("stock must not be negative")
		}
		p.Stock = *in.Stock
	}
	if in.Price != nil {
		price, err := parsePrice(*in.Price)
		if err != nil {
			return nil, err
		}
		p.Price = price
	}
	if in.IsFeatured != nil {
		p.IsFeatured = *in.IsFeatured
	}
	if in.Banner != nil {
		p.Banner = in.Banner
	}

	return s.repo.Update(ctx, *p)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// Slugify lowercases the name and collapses every non-alphanumeric run
// into a single dash.
func Slugify(name string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

func parsePrice(raw string) (string, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return "", domain.Validation("price must be decimal")
	}
	if d.IsNegative() {
		return "", domain.Validation("price must not be negative")
	}
	return d.StringFixed(2), nil
}
