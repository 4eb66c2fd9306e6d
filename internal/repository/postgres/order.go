package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/utafrali/sportsstore/internal/domain"
	"github.com/utafrali/sportsstore/internal/repository"
	"github.com/utafrali/sportsstore/pkg/database"
	apperrors "github.com/utafrali/sportsstore/pkg/errors"
)

const (
	insertOrderSQL = `
		INSERT INTO orders (name, line1, line2, line3, city, state, zip, country, gift_wrap, shipped, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`

	insertOrderLineSQL = `
		INSERT INTO order_lines (order_id, product_id, product_name, price, quantity)
		VALUES ($1, $2, $3, $4::numeric, $5)
		RETURNING id`

	// Lines are aggregated into one JSONB column so an order and its lines
	// load in a single round trip.
	selectOrdersSQL = `
		SELECT
			o.id, o.name, o.line1, o.line2, o.line3, o.city, o.state, o.zip, o.country,
			o.gift_wrap, o.shipped, o.created_at,
			COALESCE(
				JSONB_AGG(
					JSONB_BUILD_OBJECT(
						'id', ol.id,
						'product_id', ol.product_id,
						'product_name', ol.product_name,
						'price', ol.price::text,
						'quantity', ol.quantity
					) ORDER BY ol.id
				) FILTER (WHERE ol.id IS NOT NULL),
				'[]'::jsonb
			) AS lines
		FROM orders o
		LEFT JOIN order_lines ol ON ol.order_id = o.id`

	listOrdersSQL = selectOrdersSQL + `
		WHERE $1 OR NOT o.shipped
		GROUP BY o.id
		ORDER BY o.id`

	getOrderSQL = selectOrdersSQL + `
		WHERE o.id = $1
		GROUP BY o.id`

	markShippedSQL = `UPDATE orders SET shipped = TRUE WHERE id = $1`
)

// OrderRepository implements repository.OrderRepository using PostgreSQL.
type OrderRepository struct {
	pool database.DBTX
}

var _ repository.OrderRepository = (*OrderRepository)(nil)

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool database.DBTX) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// SaveOrder inserts the order and its lines in one transaction.
func (r *OrderRepository) SaveOrder(ctx context.Context, o *domain.Order) (err error) {
	ctx, end := database.TraceQuery(ctx, "SaveOrder", insertOrderSQL)
	defer func() { end(err) }()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var orderID int64
	err = tx.QueryRow(ctx, insertOrderSQL,
		o.Name, o.Line1, o.Line2, o.Line3, o.City, o.State, o.Zip, o.Country,
		o.GiftWrap, o.Shipped, o.CreatedAt,
	).Scan(&orderID)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	lineIDs := make([]int64, len(o.Lines))
	for i, l := range o.Lines {
		err = tx.QueryRow(ctx, insertOrderLineSQL,
			orderID, l.ProductID, l.ProductName, l.Price.String(), l.Quantity,
		).Scan(&lineIDs[i])
		if err != nil {
			return fmt.Errorf("insert order line: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	o.ID = orderID
	for i := range o.Lines {
		o.Lines[i].ID = lineIDs[i]
	}
	return nil
}

// List returns unshipped orders, or all orders when includeShipped is set.
func (r *OrderRepository) List(ctx context.Context, includeShipped bool) (orders []domain.Order, err error) {
	ctx, end := database.TraceQuery(ctx, "ListOrders", listOrdersSQL)
	defer func() { end(err) }()

	rows, err := r.pool.Query(ctx, listOrdersSQL, includeShipped)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	orders = []domain.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}
	return orders, nil
}

// GetByID retrieves an order with its lines.
func (r *OrderRepository) GetByID(ctx context.Context, id int64) (o *domain.Order, err error) {
	ctx, end := database.TraceQuery(ctx, "GetOrder", getOrderSQL)
	defer func() { end(err) }()

	o, err = scanOrder(r.pool.QueryRow(ctx, getOrderSQL, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	return o, err
}

// MarkShipped sets the shipped flag.
func (r *OrderRepository) MarkShipped(ctx context.Context, id int64) (err error) {
	ctx, end := database.TraceQuery(ctx, "MarkOrderShipped", markShippedSQL)
	defer func() { end(err) }()

	tag, err := r.pool.Exec(ctx, markShippedSQL, id)
	if err != nil {
		return fmt.Errorf("mark order %d shipped: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var (
		o         domain.Order
		linesJSON []byte
	)
	err := row.Scan(
		&o.ID, &o.Name, &o.Line1, &o.Line2, &o.Line3, &o.City, &o.State, &o.Zip, &o.Country,
		&o.GiftWrap, &o.Shipped, &o.CreatedAt, &linesJSON,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan order: %w", err)
	}

	o.Lines = []domain.OrderLine{}
	if len(linesJSON) > 0 {
		if err := json.Unmarshal(linesJSON, &o.Lines); err != nil {
			return nil, fmt.Errorf("unmarshal order lines: %w", err)
		}
	}
	return &o, nil
}
