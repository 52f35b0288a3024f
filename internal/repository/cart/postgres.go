package cart

import (
	"context"
	"errors"
	"io"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"eshop-api/internal/domain"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

const cartColumns = `
id::text, user_id::text, session_cart_id, items,
items_price::text, shipping_price::text, tax_price::text, total_price::text,
created_at, updated_at`

func (r *postgresRepo) Create(ctx context.Context, in CreateCartInput) (*domain.Cart, error) {
	const q = `
INSERT INTO carts (user_id, session_cart_id, items, items_price, shipping_price, tax_price, total_price)
VALUES ($1, $2, $3, $4::numeric, $5::numeric, $6::numeric, $7::numeric)
RETURNING ` + cartColumns
	items := in.Items
	if items == nil {
		items = []domain.CartItem{}
	}
	row := r.pool.QueryRow(ctx, q,
		in.UserID,
		in.SessionCartID,
		items,
		in.Totals.ItemsPrice,
		in.Totals.ShippingPrice,
		in.Totals.TaxPrice,
		in.Totals.TotalPrice,
	)
	cart, err := scanCart(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrAlreadyExists
		}
		r.logger.Printf("cart repo: create session=%s error=%v", in.SessionCartID, err)
		return nil, err
	}
	return cart, nil
}

func (r *postgresRepo) GetByUser(ctx context.Context, userID string) (*domain.Cart, error) {
	const q = `
SELECT ` + cartColumns + `
FROM carts
WHERE user_id = $1
`
	return scanCart(r.pool.QueryRow(ctx, q, userID))
}

func (r *postgresRepo) GetBySession(ctx context.Context, sessionCartID string) (*domain.Cart, error) {
	const q = `
SELECT ` + cartColumns + `
FROM carts
WHERE session_cart_id = $1 AND user_id IS NULL
`
	return scanCart(r.pool.QueryRow(ctx, q, sessionCartID))
}

func (r *postgresRepo) Update(ctx context.Context, id string, items []domain.CartItem, totals domain.CartTotals) (*domain.Cart, error) {
	const q = `
UPDATE carts
SET items = $2,
    items_price = $3::numeric,
    shipping_price = $4::numeric,
    tax_price = $5::numeric,
    total_price = $6::numeric,
    updated_at = now()
WHERE id = $1
RETURNING ` + cartColumns
	if items == nil {
		items = []domain.CartItem{}
	}
	row := r.pool.QueryRow(ctx, q, id, items,
		totals.ItemsPrice, totals.ShippingPrice, totals.TaxPrice, totals.TotalPrice)
	return scanCart(row)
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM carts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanCart(row pgx.Row) (*domain.Cart, error) {
	var cart domain.Cart
	err := row.Scan(
		&cart.ID,
		&cart.UserID,
		&cart.SessionCartID,
		&cart.Items,
		&cart.ItemsPrice,
		&cart.ShippingPrice,
		&cart.TaxPrice,
		&cart.TotalPrice,
		&cart.CreatedAt,
		&cart.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if cart.Items == nil {
		cart.Items = []domain.CartItem{}
	}
	return &cart, nil
}
