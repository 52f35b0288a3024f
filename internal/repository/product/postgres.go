package product

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

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

const productColumns = `
id::text, name, slug, category, brand, description, images, stock,
price::text, rating::text, num_reviews, is_featured, banner, created_at`

var sortColumns = map[string]string{
	"createdAt": "created_at",
	"price":     "price",
	"name":      "name",
	"rating":    "rating",
}

func (r *postgresRepo) List(ctx context.Context, in ListInput) ([]domain.Product, int, error) {
	var conds []string
	var args []interface{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if in.Category != "" {
		conds = append(conds, "category = "+arg(in.Category))
	}
	if in.Brand != "" {
		conds = append(conds, "brand = "+arg(in.Brand))
	}
	if in.Search != "" {
		conds = append(conds, "name ILIKE "+arg("%"+in.Search+"%"))
	}
	if in.MinPrice != "" {
		conds = append(conds, "price >= "+arg(in.MinPrice)+"::numeric")
	}
	if in.MaxPrice != "" {
		conds = append(conds, "price <= "+arg(in.MaxPrice)+"::numeric")
	}

	where := ""
	if len(conds) > 0 {
		where = "WHERE " + strings.Join(conds, " AND ")
	}

	sortCol, ok := sortColumns[in.SortBy]
	if !ok {
		sortCol = "created_at"
	}
	dir := "DESC"
	if strings.EqualFold(in.Order, "asc") {
		dir = "ASC"
	}

	limit := in.Limit
	if limit <= 0 {
		limit = 12
	}

	countQuery := "SELECT count(*) FROM products " + where
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		r.logger.Printf("product repo: count error=%v", err)
		return nil, 0, err
	}

	query := fmt.Sprintf(
		"SELECT %s FROM products %s ORDER BY %s %s LIMIT %s OFFSET %s",
		productColumns, where, sortCol, dir, arg(limit), arg(in.Offset),
	)
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.logger.Printf("product repo: list error=%v", err)
		return nil, 0, err
	}
	defer rows.Close()

	products, err := scanProducts(rows)
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (r *postgresRepo) Latest(ctx context.Context, limit int) ([]domain.Product, error) {
	if limit <= 0 {
		limit = 4
	}
	q := fmt.Sprintf("SELECT %s FROM products ORDER BY created_at DESC LIMIT $1", productColumns)
	rows, err := r.pool.Query(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProducts(rows)
}

func (r *postgresRepo) Featured(ctx context.Context) ([]domain.Product, error) {
	q := fmt.Sprintf("SELECT %s FROM products WHERE is_featured ORDER BY created_at DESC", productColumns)
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProducts(rows)
}

func (r *postgresRepo) Categories(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT DISTINCT category FROM products ORDER BY category`)
	if err != nil {
		r.logger.Printf("product repo: categories error=%v", err)
		return nil, err
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	q := fmt.Sprintf("SELECT %s FROM products WHERE id = $1", productColumns)
	return r.getOne(ctx, q, id)
}

func (r *postgresRepo) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	q := fmt.Sprintf("SELECT %s FROM products WHERE slug = $1", productColumns)
	return r.getOne(ctx, q, slug)
}

func (r *postgresRepo) getOne(ctx context.Context, q string, key string) (*domain.Product, error) {
	var p domain.Product
	err := scanProduct(r.pool.QueryRow(ctx, q, key), &p)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("product repo: get %s error=%v", key, err)
		return nil, err
	}
	return &p, nil
}

func (r *postgresRepo) Create(ctx context.Context, p domain.Product) (*domain.Product, error) {
	const q = `
INSERT INTO products (name, slug, category, brand, description, images, stock, price, is_featured, banner)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8::numeric, $9, $10)
RETURNING ` + productColumns
	var created domain.Product
	err := scanProduct(r.pool.QueryRow(ctx, q,
		p.Name, p.Slug, p.Category, p.Brand, p.Description, p.Images, p.Stock, p.Price, p.IsFeatured, p.Banner,
	), &created)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrAlreadyExists
		}
		r.logger.Printf("product repo: create slug=%s error=%v", p.Slug, err)
		return nil, err
	}
	r.logger.Printf("product repo: created id=%s slug=%s", created.ID, created.Slug)
	return &created, nil
}

func (r *postgresRepo) Update(ctx context.Context, p domain.Product) (*domain.Product, error) {
	const q = `
UPDATE products
SET name = $2, slug = $3, category = $4, brand = $5, description = $6,
    images = $7, stock = $8, price = $9::numeric, is_featured = $10, banner = $11
WHERE id = $1
RETURNING ` + productColumns
	var updated domain.Product
	err := scanProduct(r.pool.QueryRow(ctx, q,
		p.ID, p.Name, p.Slug, p.Category, p.Brand, p.Description, p.Images, p.Stock, p.Price, p.IsFeatured, p.Banner,
	), &updated)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		if isUniqueViolation(err) {
			return nil, domain.ErrAlreadyExists
		}
		r.logger.Printf("product repo: update id=%s error=%v", p.ID, err)
		return nil, err
	}
	return &updated, nil
}

func (r *postgresRepo) Upsert(ctx context.Context, p domain.Product) (*domain.Product, error) {
	const q = `
INSERT INTO products (name, slug, category, brand, description, images, stock, price, is_featured, banner)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8::numeric, $9, $10)
ON CONFLICT (slug) DO UPDATE
SET name = EXCLUDED.name,
    category = EXCLUDED.category,
    brand = EXCLUDED.brand,
    description = EXCLUDED.description,
    images = EXCLUDED.images,
    stock = EXCLUDED.stock,
    price = EXCLUDED.price,
    is_featured = EXCLUDED.is_featured,
    banner = EXCLUDED.banner
RETURNING ` + productColumns
	var stored domain.Product
	err := scanProduct(r.pool.QueryRow(ctx, q,
		p.Name, p.Slug, p.Category, p.Brand, p.Description, p.Images, p.Stock, p.Price, p.IsFeatured, p.Banner,
	), &stored)
	if err != nil {
		r.logger.Printf("product repo: upsert slug=%s error=%v", p.Slug, err)
		return nil, err
	}
	return &stored, nil
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		r.logger.Printf("product repo: delete id=%s error=%v", id, err)
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanProduct(row pgx.Row, p *domain.Product) error {
	return row.Scan(
		&p.ID, &p.Name, &p.Slug, &p.Category, &p.Brand, &p.Description,
		&p.Images, &p.Stock, &p.Price, &p.Rating, &p.NumReviews,
		&p.IsFeatured, &p.Banner, &p.CreatedAt,
	)
}

func scanProducts(rows pgx.Rows) ([]domain.Product, error) {
	var result []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := scanProduct(rows, &p); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
