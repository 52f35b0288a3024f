package review

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

const reviewColumns = `
r.id::text, r.user_id::text, r.product_id::text, r.rating, r.title,
r.description, r.is_verified_purchase, r.created_at`

func (r *postgresRepo) Create(ctx context.Context, rv domain.Review) (*domain.Review, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	const q = `
INSERT INTO reviews (user_id, product_id, rating, title, description, is_verified_purchase)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id::text, created_at
`
	if err := tx.QueryRow(ctx, q,
		rv.UserID, rv.ProductID, rv.Rating, rv.Title, rv.Description, rv.IsVerifiedPurchase,
	).Scan(&rv.ID, &rv.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrAlreadyExists
		}
		r.logger.Printf("review repo: create product=%s user=%s error=%v", rv.ProductID, rv.UserID, err)
		return nil, err
	}

	if err := updateProductAggregate(ctx, tx, rv.ProductID); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &rv, nil
}

func (r *postgresRepo) Update(ctx context.Context, rv domain.Review) (*domain.Review, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	const q = `
UPDATE reviews SET rating = $2, title = $3, description = $4 WHERE id = $1
RETURNING user_id::text, product_id::text, is_verified_purchase, created_at
`
	if err := tx.QueryRow(ctx, q, rv.ID, rv.Rating, rv.Title, rv.Description).Scan(
		&rv.UserID, &rv.ProductID, &rv.IsVerifiedPurchase, &rv.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	if err := updateProductAggregate(ctx, tx, rv.ProductID); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &rv, nil
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var productID string
	err = tx.QueryRow(ctx, `DELETE FROM reviews WHERE id = $1 RETURNING product_id::text`, id).Scan(&productID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		return err
	}

	if err := updateProductAggregate(ctx, tx, productID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Review, error) {
	const q = `
SELECT ` + reviewColumns + `, u.name
FROM reviews r
JOIN users u ON u.id = r.user_id
WHERE r.id = $1
`
	var rv domain.Review
	err := r.pool.QueryRow(ctx, q, id).Scan(
		&rv.ID, &rv.UserID, &rv.ProductID, &rv.Rating, &rv.Title,
		&rv.Description, &rv.IsVerifiedPurchase, &rv.CreatedAt, &rv.UserName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &rv, nil
}

func (r *postgresRepo) ListByProduct(ctx context.Context, productID string, limit, offset int) ([]domain.Review, int, error) {
	if limit <= 0 {
		limit = 10
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM reviews WHERE product_id = $1`, productID).Scan(&total); err != nil {
		return nil, 0, err
	}

	const q = `
SELECT ` + reviewColumns + `, u.name
FROM reviews r
JOIN users u ON u.id = r.user_id
WHERE r.product_id = $1
ORDER BY r.created_at DESC
LIMIT $2 OFFSET $3
`
	rows, err := r.pool.Query(ctx, q, productID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []domain.Review
	for rows.Next() {
		var rv domain.Review
		if err := rows.Scan(
			&rv.ID, &rv.UserID, &rv.ProductID, &rv.Rating, &rv.Title,
			&rv.Description, &rv.IsVerifiedPurchase, &rv.CreatedAt, &rv.UserName,
		); err != nil {
			return nil, 0, err
		}
		result = append(result, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

func (r *postgresRepo) HasPurchased(ctx context.Context, userID, productID string) (bool, error) {
	const q = `
SELECT EXISTS (
	SELECT 1
	FROM order_items oi
	JOIN orders o ON o.id = oi.order_id
	WHERE o.user_id = $1 AND oi.product_id = $2
)
`
	var exists bool
	if err := r.pool.QueryRow(ctx, q, userID, productID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// updateProductAggregate keeps products.rating and products.num_reviews
// consistent with the reviews table inside the caller's transaction.
func updateProductAggregate(ctx context.Context, tx pgx.Tx, productID string) error {
	_, err := tx.Exec(ctx, `
UPDATE products
SET rating = COALESCE((SELECT ROUND(AVG(rating), 2) FROM reviews WHERE product_id = $1), 0),
    num_reviews = (SELECT count(*) FROM reviews WHERE product_id = $1)
WHERE id = $1
`, productID)
	return err
}
