package order

import (
	"context"
	"errors"
	"io"
	"log"

	"github.com/jackc/pgx/v5"
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

const orderColumns = `
o.id::text, o.user_id::text, o.shipping_address, o.payment_method, o.payment_result,
o.items_price::text, o.shipping_price::text, o.tax_price::text, o.total_price::text,
o.is_paid, o.paid_at, o.is_delivered, o.delivered_at, o.created_at`

func (r *postgresRepo) Create(ctx context.Context, o domain.Order) (*domain.Order, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	const insertOrder = `
INSERT INTO orders (user_id, shipping_address, payment_method, items_price, shipping_price, tax_price, total_price)
VALUES ($1, $2, $3, $4::numeric, $5::numeric, $6::numeric, $7::numeric)
RETURNING id::text, created_at
`
	var orderID string
	if err := tx.QueryRow(ctx, insertOrder,
		o.UserID, o.ShippingAddress, o.PaymentMethod,
		o.ItemsPrice, o.ShippingPrice, o.TaxPrice, o.TotalPrice,
	).Scan(&orderID, &o.CreatedAt); err != nil {
		return nil, err
	}
	o.ID = orderID

	for _, item := range o.Items {
		cmd, err := tx.Exec(ctx, `
UPDATE products SET stock = stock - $2 WHERE id = $1 AND stock >= $2
`, item.ProductID, item.Qty)
		if err != nil {
			return nil, err
		}
		if cmd.RowsAffected() == 0 {
			r.logger.Printf("order repo: stock gate failed product=%s qty=%d", item.ProductID, item.Qty)
			return nil, domain.ErrInsufficientStock
		}

		if _, err := tx.Exec(ctx, `
INSERT INTO order_items (order_id, product_id, qty, price, name, slug, image)
VALUES ($1, $2, $3, $4::numeric, $5, $6, $7)
`, orderID, item.ProductID, item.Qty, item.Price, item.Name, item.Slug, item.Image); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	r.logger.Printf("order repo: created id=%s user=%s lines=%d", orderID, o.UserID, len(o.Items))
	return r.GetByID(ctx, orderID)
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	const q = `
SELECT ` + orderColumns + `, u.name, u.email
FROM orders o
JOIN users u ON u.id = o.user_id
WHERE o.id = $1
`
	var o domain.Order
	err := r.pool.QueryRow(ctx, q, id).Scan(
		&o.ID, &o.UserID, &o.ShippingAddress, &o.PaymentMethod, &o.PaymentResult,
		&o.ItemsPrice, &o.ShippingPrice, &o.TaxPrice, &o.TotalPrice,
		&o.IsPaid, &o.PaidAt, &o.IsDelivered, &o.DeliveredAt, &o.CreatedAt,
		&o.UserName, &o.UserEmail,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	items, err := r.itemsFor(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return &o, nil
}

func (r *postgresRepo) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	const q = `
SELECT ` + orderColumns + `, u.name, u.email
FROM orders o
JOIN users u ON u.id = o.user_id
WHERE o.user_id = $1
ORDER BY o.created_at DESC
`
	return r.list(ctx, q, userID)
}

func (r *postgresRepo) ListAll(ctx context.Context) ([]domain.Order, error) {
	const q = `
SELECT ` + orderColumns + `, u.name, u.email
FROM orders o
JOIN users u ON u.id = o.user_id
ORDER BY o.created_at DESC
`
	return r.list(ctx, q)
}

func (r *postgresRepo) list(ctx context.Context, q string, args ...interface{}) ([]domain.Order, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Order
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(
			&o.ID, &o.UserID, &o.ShippingAddress, &o.PaymentMethod, &o.PaymentResult,
			&o.ItemsPrice, &o.ShippingPrice, &o.TaxPrice, &o.TotalPrice,
			&o.IsPaid, &o.PaidAt, &o.IsDelivered, &o.DeliveredAt, &o.CreatedAt,
			&o.UserName, &o.UserEmail,
		); err != nil {
			return nil, err
		}
		result = append(result, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range result {
		items, err := r.itemsFor(ctx, result[i].ID)
		if err != nil {
			return nil, err
		}
		result[i].Items = items
	}
	return result, nil
}

func (r *postgresRepo) MarkPaid(ctx context.Context, id string, result domain.PaymentResult) (*domain.Order, error) {
	cmd, err := r.pool.Exec(ctx, `
UPDATE orders SET is_paid = TRUE, paid_at = now(), payment_result = $2 WHERE id = $1
`, id, result)
	if err != nil {
		return nil, err
	}
	if cmd.RowsAffected() == 0 {
		return nil, domain.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *postgresRepo) MarkDelivered(ctx context.Context, id string) (*domain.Order, error) {
	cmd, err := r.pool.Exec(ctx, `
UPDATE orders SET is_delivered = TRUE, delivered_at = now() WHERE id = $1
`, id)
	if err != nil {
		return nil, err
	}
	if cmd.RowsAffected() == 0 {
		return nil, domain.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *postgresRepo) itemsFor(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	const q = `
SELECT order_id::text, product_id::text, qty, price::text, name, slug, image
FROM order_items
WHERE order_id = $1
ORDER BY name ASC
`
	rows, err := r.pool.Query(ctx, q, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var it domain.OrderItem
		if err := rows.Scan(&it.OrderID, &it.ProductID, &it.Qty, &it.Price, &it.Name, &it.Slug, &it.Image); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
