// Package seed inserts demo data for manual testing.
package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"eshop-api/internal/domain"
)

type userSeed struct {
	Name     string
	Email    string
	Password string
	Role     string
}

type productSeed struct {
	Name        string
	Slug        string
	Category    string
	Brand       string
	Description string
	Images      []string
	Stock       int
	Price       string
	IsFeatured  bool
}

// Apply inserts basic seed data. It is idempotent via ON CONFLICT.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	users := []userSeed{
		{Name: "Admin", Email: "admin@example.com", Password: "123456", Role: domain.RoleAdmin},
		{Name: "Jane", Email: "jane@example.com", Password: "123456", Role: domain.RoleUser},
	}
	for _, u := range users {
		if err := upsertUser(ctx, pool, u); err != nil {
			return fmt.Errorf("upsert user %s: %w", u.Email, err)
		}
	}

	products := []productSeed{
		{
			Name:        "Polo Sporting Stretch Shirt",
			Slug:        "polo-sporting-stretch-shirt",
			Category:    "Men's Dress Shirts",
			Brand:       "Polo",
			Description: "Classic Polo style with modern comfort",
			Images:      []string{"/images/sample-products/p1-1.jpg", "/images/sample-products/p1-2.jpg"},
			Stock:       5,
			Price:       "59.99",
			IsFeatured:  true,
		},
		{
			Name:        "Brooks Brothers Long Sleeved Shirt",
			Slug:        "brooks-brothers-long-sleeved-shirt",
			Category:    "Men's Dress Shirts",
			Brand:       "Brooks Brothers",
			Description: "Timeless style and premium comfort",
			Images:      []string{"/images/sample-products/p2-1.jpg", "/images/sample-products/p2-2.jpg"},
			Stock:       8,
			Price:       "85.90",
			IsFeatured:  true,
		},
		{
			Name:        "Tommy Hilfiger Classic Fit Dress Shirt",
			Slug:        "tommy-hilfiger-classic-fit-dress-shirt",
			Category:    "Men's Dress Shirts",
			Brand:       "Tommy Hilfiger",
			Description: "A perfect blend of sophistication and comfort",
			Images:      []string{"/images/sample-products/p3-1.jpg", "/images/sample-products/p3-2.jpg"},
			Stock:       0,
			Price:       "99.95",
		},
		{
			Name:        "Polo Classic Pink Hoodie",
			Slug:        "polo-classic-pink-hoodie",
			Category:    "Men's Sweatshirts",
			Brand:       "Polo",
			Description: "Soft, stylish, and perfect for laid-back days",
			Images:      []string{"/images/sample-products/p6-1.jpg", "/images/sample-products/p6-2.jpg"},
			Stock:       8,
			Price:       "99.99",
		},
	}
	for _, p := range products {
		if err := upsertProduct(ctx, pool, p); err != nil {
			return fmt.Errorf("upsert product %s: %w", p.Slug, err)
		}
	}

	return nil
}

func upsertUser(ctx context.Context, pool *pgxpool.Pool, u userSeed) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	const q = `
INSERT INTO users (name, email, password_hash, role)
VALUES ($1, $2, $3, $4)
ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name, role = EXCLUDED.role
`
	_, err = pool.Exec(ctx, q, u.Name, u.Email, string(hash), u.Role)
	return err
}

func upsertProduct(ctx context.Context, pool *pgxpool.Pool, p productSeed) error {
	const q = `
INSERT INTO products (name, slug, category, brand, description, images, stock, price, is_featured)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8::numeric, $9)
ON CONFLICT (slug) DO UPDATE
SET name = EXCLUDED.name,
    category = EXCLUDED.category,
    brand = EXCLUDED.brand,
    description = EXCLUDED.description,
    images = EXCLUDED.images,
    stock = EXCLUDED.stock,
    price = EXCLUDED.price,
    is_featured = EXCLUDED.is_featured
`
	_, err := pool.Exec(ctx, q, p.Name, p.Slug, p.Category, p.Brand, p.Description, p.Images, p.Stock, p.Price, p.IsFeatured)
	return err
}
