package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cardhaus/preorder-api/internal/domain/order"
)

const orderColumns = `id, customer_name, customer_email, customer_address,
	customer_city, customer_state, customer_zip, customer_country,
	quantity, discount_percentage, subtotal, total, status, notes,
	created_at, updated_at`

const createOrderSQL = `INSERT INTO orders (
		customer_name, customer_email, customer_address, customer_city,
		customer_state, customer_zip, customer_country, quantity,
		discount_percentage, subtotal, total, status, notes)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	RETURNING id, created_at, updated_at`

const getOrderSQL = `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

const listOrdersSQL = `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC, id DESC`

const updateOrderStatusSQL = `UPDATE orders SET status = $2, updated_at = NOW()
	WHERE id = $1
	RETURNING ` + orderColumns

const deleteOrderSQL = `DELETE FROM orders WHERE id = $1`

const countByDiscountSQL = `SELECT discount_percentage, COUNT(*) FROM orders
	GROUP BY discount_percentage`

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository backed by PostgreSQL.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Create persists a new order and fills in the database-assigned ID and
// timestamps.
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	err := r.pool.QueryRow(ctx, createOrderSQL,
		o.CustomerName, o.CustomerEmail, o.CustomerAddress, o.CustomerCity,
		o.CustomerState, o.CustomerZip, o.CustomerCountry, o.Quantity,
		o.DiscountPercentage, o.Subtotal, o.Total, o.Status, o.Notes,
	).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating order: %w", err)
	}
	return nil
}

// GetByID returns a single order. It maps pgx.ErrNoRows to order.ErrNotFound.
func (r *OrderRepository) GetByID(ctx context.Context, id int64) (*order.Order, error) {
	o, err := scanOrder(r.pool.QueryRow(ctx, getOrderSQL, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrNotFound
		}
		return nil, fmt.Errorf("getting order %d: %w", id, err)
	}
	return o, nil
}

// List returns all orders, most recently created first.
func (r *OrderRepository) List(ctx context.Context) ([]order.Order, error) {
	rows, err := r.pool.Query(ctx, listOrdersSQL)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	defer rows.Close()

	var out []order.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning order: %w", err)
		}
		out = append(out, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	return out, nil
}

// UpdateStatus sets the status and refreshes updated_at in one statement,
// returning the updated row.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id int64, status order.Status) (*order.Order, error) {
	o, err := scanOrder(r.pool.QueryRow(ctx, updateOrderStatusSQL, id, status))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrNotFound
		}
		return nil, fmt.Errorf("updating order %d status: %w", id, err)
	}
	return o, nil
}

// Delete removes the order, reporting order.ErrNotFound when no row matched.
func (r *OrderRepository) Delete(ctx context.Context, id int64) error {
	ct, err := r.pool.Exec(ctx, deleteOrderSQL, id)
	if err != nil {
		return fmt.Errorf("deleting order %d: %w", id, err)
	}
	if ct.RowsAffected() == 0 {
		return order.ErrNotFound
	}
	return nil
}

// CountByDiscount returns the number of orders stamped with each discount
// percentage.
func (r *OrderRepository) CountByDiscount(ctx context.Context) (map[int]int, error) {
	rows, err := r.pool.Query(ctx, countByDiscountSQL)
	if err != nil {
		return nil, fmt.Errorf("counting orders by discount: %w", err)
	}
	defer rows.Close()

	counts := make(map[int]int)
	for rows.Next() {
		var pct int
		var n int64
		if err := rows.Scan(&pct, &n); err != nil {
			return nil, fmt.Errorf("scanning discount count: %w", err)
		}
		counts[pct] = int(n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("counting orders by discount: %w", err)
	}
	return counts, nil
}

func scanOrder(row pgx.Row) (*order.Order, error) {
	var o order.Order
	err := row.Scan(
		&o.ID, &o.CustomerName, &o.CustomerEmail, &o.CustomerAddress,
		&o.CustomerCity, &o.CustomerState, &o.CustomerZip, &o.CustomerCountry,
		&o.Quantity, &o.DiscountPercentage, &o.Subtotal, &o.Total,
		&o.Status, &o.Notes, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}
