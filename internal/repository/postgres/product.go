package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/utafrali/sportsstore/internal/domain"
	"github.com/utafrali/sportsstore/internal/repository"
	"github.com/utafrali/sportsstore/pkg/database"
	apperrors "github.com/utafrali/sportsstore/pkg/errors"
)

const (
	productColumns = `id, name, description, price::text, category, image_url`

	listProductsSQL = `SELECT ` + productColumns + ` FROM products`

	getProductSQL = `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	insertProductSQL = `
		INSERT INTO products (name, description, price, category, image_url)
		VALUES ($1, $2, $3::numeric, $4, $5)
		RETURNING id`

	updateProductSQL = `
		UPDATE products
		SET name = $2, description = $3, price = $4::numeric, category = $5, image_url = $6, updated_at = NOW()
		WHERE id = $1`

	deleteProductSQL = `DELETE FROM products WHERE id = $1 RETURNING ` + productColumns
)

// ProductRepository implements repository.ProductRepository using PostgreSQL.
type ProductRepository struct {
	pool database.DBTX
}

var _ repository.ProductRepository = (*ProductRepository)(nil)

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool database.DBTX) *ProductRepository {
	return &ProductRepository{pool: pool}
}

// List returns every product in storage order.
func (r *ProductRepository) List(ctx context.Context) (products []domain.Product, err error) {
	ctx, end := database.TraceQuery(ctx, "ListProducts", listProductsSQL)
	defer func() { end(err) }()

	rows, err := r.pool.Query(ctx, listProductsSQL)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	products = []domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return products, nil
}

// GetByID retrieves a product by its ID.
func (r *ProductRepository) GetByID(ctx context.Context, id int64) (p *domain.Product, err error) {
	ctx, end := database.TraceQuery(ctx, "GetProduct", getProductSQL)
	defer func() { end(err) }()

	p, err = scanProduct(r.pool.QueryRow(ctx, getProductSQL, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	return p, err
}

// Save inserts new products and updates existing ones.
func (r *ProductRepository) Save(ctx context.Context, p *domain.Product) (err error) {
	if p.IsNew() {
		ctx, end := database.TraceQuery(ctx, "InsertProduct", insertProductSQL)
		defer func() { end(err) }()

		err = r.pool.QueryRow(ctx, insertProductSQL,
			p.Name, p.Description, p.Price.String(), p.Category, p.ImageURL,
		).Scan(&p.ID)
		if err != nil {
			return fmt.Errorf("insert product: %w", err)
		}
		return nil
	}

	ctx, end := database.TraceQuery(ctx, "UpdateProduct", updateProductSQL)
	defer func() { end(err) }()

	tag, err := r.pool.Exec(ctx, updateProductSQL,
		p.ID, p.Name, p.Description, p.Price.String(), p.Category, p.ImageURL,
	)
	if err != nil {
		return fmt.Errorf("update product %d: %w", p.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// Delete removes a product and returns the deleted row.
func (r *ProductRepository) Delete(ctx context.Context, id int64) (p *domain.Product, err error) {
	ctx, end := database.TraceQuery(ctx, "DeleteProduct", deleteProductSQL)
	defer func() { end(err) }()

	p, err = scanProduct(r.pool.QueryRow(ctx, deleteProductSQL, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	return p, err
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	var (
		p     domain.Product
		price string
	)
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &price, &p.Category, &p.ImageURL); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan product: %w", err)
	}

	var err error
	if p.Price, err = parseMoney(price); err != nil {
		return nil, err
	}
	return &p, nil
}
