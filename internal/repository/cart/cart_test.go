package cart

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"eshop-api/internal/domain"
	"eshop-api/internal/migrate"
)

func TestPostgres_CartLifecycle(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	resetTables(ctx, t, pool)

	repo := NewPostgres(pool, nil)

	items := []domain.CartItem{{
		ProductID: insertProduct(ctx, t, pool),
		Name:      "Shirt",
		Slug:      "shirt",
		Image:     "/img/shirt.jpg",
		Price:     "60.00",
		Qty:       1,
	}}
	totals := domain.CartTotals{ItemsPrice: "60.00", ShippingPrice: "10.00", TaxPrice: "9.00", TotalPrice: "79.00"}

	created, err := repo.Create(ctx, CreateCartInput{
		SessionCartID: "sess-1",
		Items:         items,
		Totals:        totals,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.UserID != nil || created.SessionCartID != "sess-1" {
		t.Fatalf("unexpected cart identity %+v", created)
	}
	if created.ItemsPrice != "60.00" || created.TotalPrice != "79.00" {
		t.Fatalf("price columns mismatch %+v", created)
	}
	if len(created.Items) != 1 || created.Items[0].Qty != 1 {
		t.Fatalf("items not stored %+v", created.Items)
	}

	fetched, err := repo.GetBySession(ctx, "sess-1")
	if err != nil {
		t.Fatalf("GetBySession: %v", err)
	}
	if fetched.ID != created.ID {
		t.Fatalf("fetched mismatch %+v", fetched)
	}

	items[0].Qty = 2
	newTotals := domain.CartTotals{ItemsPrice: "120.00", ShippingPrice: "0.00", TaxPrice: "18.00", TotalPrice: "138.00"}
	updated, err := repo.Update(ctx, created.ID, items, newTotals)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Items[0].Qty != 2 || updated.TotalPrice != "138.00" {
		t.Fatalf("update not applied %+v", updated)
	}

	if err := repo.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.GetBySession(ctx, "sess-1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
	if err := repo.Delete(ctx, created.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("second delete must be not found, got %v", err)
	}
}

func TestPostgres_OneCartPerUser(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	resetTables(ctx, t, pool)

	repo := NewPostgres(pool, nil)
	userID := insertUser(ctx, t, pool)

	totals := domain.CartTotals{ItemsPrice: "0.00", ShippingPrice: "10.00", TaxPrice: "0.00", TotalPrice: "10.00"}
	if _, err := repo.Create(ctx, CreateCartInput{UserID: &userID, SessionCartID: "sess-a", Totals: totals}); err != nil {
		t.Fatalf("first create: %v", err)
	}
	_, err := repo.Create(ctx, CreateCartInput{UserID: &userID, SessionCartID: "sess-b", Totals: totals})
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("second cart for the same user must fail, got %v", err)
	}

	cart, err := repo.GetByUser(ctx, userID)
	if err != nil {
		t.Fatalf("GetByUser: %v", err)
	}
	// A user-owned cart is invisible to session lookup.
	if _, err := repo.GetBySession(ctx, cart.SessionCartID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("session lookup must skip user carts, got %v", err)
	}
}

func testPool(ctx context.Context, t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	return pool
}

func resetTables(ctx context.Context, t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	if _, err := pool.Exec(ctx, `TRUNCATE reviews, order_items, orders, carts, products, users RESTART IDENTITY CASCADE`); err != nil {
		t.Fatalf("truncate tables: %v", err)
	}
}

func insertProduct(ctx context.Context, t *testing.T, pool *pgxpool.Pool) string {
	t.Helper()
	var id string
	err := pool.QueryRow(ctx, `
INSERT INTO products (name, slug, category, brand, description, images, stock, price)
VALUES ('Shirt', 'shirt', 'Shirts', 'Polo', '', '{}', 5, 60.00)
RETURNING id::text`).Scan(&id)
	if err != nil {
		t.Fatalf("insert product: %v", err)
	}
	return id
}

func insertUser(ctx context.Context, t *testing.T, pool *pgxpool.Pool) string {
	t.Helper()
	var id string
	err := pool.QueryRow(ctx, `
INSERT INTO users (name, email, password_hash, role)
VALUES ('Ada', 'ada@example.com', 'hash', 'user')
RETURNING id::text`).Scan(&id)
	if err != nil {
		t.Fatalf("insert user: %v", err)
	}
	return id
}
