package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vladislavdragonenkov/catalog/internal/domain"
	"github.com/vladislavdragonenkov/catalog/internal/query"
)

const orderColumnList = `id, buyer_email, products, status`

var orderColumns = map[string]column{
	domain.OrderFieldProducts: {name: "products", array: true},
	domain.OrderFieldStatus:   {name: "status"},
}

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository создаёт PostgreSQL-реализацию OrderRepository.
func NewOrderRepository(store *Store) domain.OrderRepository {
	return &orderRepository{db: store.DB()}
}

func (r *orderRepository) Find(ctx context.Context, filter query.Filter, page domain.Page) ([]domain.Order, error) {
	if page.Limit == 0 {
		return []domain.Order{}, nil
	}

	where, args, err := renderFilter(filter, orderColumns, nil)
	if err != nil {
		return nil, err
	}
	sqlText, args := appendPage(`SELECT `+orderColumnList+` FROM orders`+where+orderByID, args, page.Offset, page.Limit)

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, sqlText, args...)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	orders := make([]domain.Order, 0, page.Limit)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}
	return orders, nil
}

func (r *orderRepository) Count(ctx context.Context, filter query.Filter) (int, error) {
	where, args, err := renderFilter(filter, orderColumns, nil)
	if err != nil {
		return 0, err
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders`+where, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count orders: %w", err)
	}
	return total, nil
}

func (r *orderRepository) Get(ctx context.Context, id string) (domain.Order, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	order, err := scanOrder(r.db.QueryRowContext(ctx, `SELECT `+orderColumnList+` FROM orders WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	if err != nil {
		return domain.Order{}, err
	}
	return order, nil
}

func (r *orderRepository) Insert(ctx context.Context, order domain.Order) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO orders (id, buyer_email, products, status)
		VALUES ($1, $2, $3, $4)
	`, order.ID, order.BuyerEmail, nonNilStrings(order.Products), string(order.Status))
	if err != nil {
		return fmt.Errorf("insert order: %w", translateError(err))
	}
	return nil
}

func (r *orderRepository) Update(ctx context.Context, order domain.Order) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET buyer_email = $2, products = $3, status = $4, updated_at = NOW()
		WHERE id = $1
	`, order.ID, order.BuyerEmail, nonNilStrings(order.Products), string(order.Status))
	if err != nil {
		return fmt.Errorf("update order: %w", translateError(err))
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update order rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

func (r *orderRepository) Delete(ctx context.Context, id string) (int, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("delete order: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete order rows affected: %w", err)
	}
	return int(affected), nil
}

func scanOrder(row rowScanner) (domain.Order, error) {
	types, release := acquireTypeMap()
	defer release()

	var (
		o      domain.Order
		status string
	)
	if err := row.Scan(&o.ID, &o.BuyerEmail, types.SQLScanner(&o.Products), &status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Order{}, err
		}
		return domain.Order{}, fmt.Errorf("scan order: %w", err)
	}
	o.Status = domain.OrderStatus(status)
	o.Products = nonNilStrings(o.Products)
	return o, nil
}
