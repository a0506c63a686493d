package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vladislavdragonenkov/catalog/internal/domain"
	"github.com/vladislavdragonenkov/catalog/internal/query"
)

const productColumnList = `id, name, description, price, tags, image`

var productColumns = map[string]column{
	domain.ProductFieldTags: {name: "tags", array: true},
}

type productRepository struct {
	db *sql.DB
}

// NewProductRepository создаёт PostgreSQL-реализацию ProductRepository.
func NewProductRepository(store *Store) domain.ProductRepository {
	return &productRepository{db: store.DB()}
}

func (r *productRepository) Find(ctx context.Context, filter query.Filter, page domain.Page) ([]domain.Product, error) {
	if page.Limit == 0 {
		return []domain.Product{}, nil
	}

	where, args, err := renderFilter(filter, productColumns, nil)
	if err != nil {
		return nil, err
	}
	sqlText, args := appendPage(`SELECT `+productColumnList+` FROM products`+where+orderByID, args, page.Offset, page.Limit)

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, sqlText, args...)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	products := make([]domain.Product, 0, page.Limit)
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return products, nil
}

func (r *productRepository) Count(ctx context.Context, filter query.Filter) (int, error) {
	where, args, err := renderFilter(filter, productColumns, nil)
	if err != nil {
		return 0, err
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`+where, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return total, nil
}

func (r *productRepository) Get(ctx context.Context, id string) (domain.Product, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	row := r.db.QueryRowContext(ctx, `SELECT `+productColumnList+` FROM products WHERE id = $1`, id)
	product, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Product{}, domain.ErrProductNotFound
	}
	if err != nil {
		return domain.Product{}, err
	}
	return product, nil
}

func (r *productRepository) GetMany(ctx context.Context, ids []string) (map[string]domain.Product, error) {
	found := make(map[string]domain.Product, len(ids))
	if len(ids) == 0 {
		return found, nil
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `SELECT `+productColumnList+` FROM products WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("query products by ids: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		found[product.ID] = product
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products by ids: %w", err)
	}
	return found, nil
}

func (r *productRepository) Insert(ctx context.Context, product domain.Product) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO products (id, name, description, price, tags, image)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, product.ID, product.Name, product.Description, product.Price, nonNilStrings(product.Tags), product.Image)
	if err != nil {
		return fmt.Errorf("insert product: %w", translateError(err))
	}
	return nil
}

func (r *productRepository) Update(ctx context.Context, product domain.Product) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `
		UPDATE products
		SET name = $2, description = $3, price = $4, tags = $5, image = $6, updated_at = NOW()
		WHERE id = $1
	`, product.ID, product.Name, product.Description, product.Price, nonNilStrings(product.Tags), product.Image)
	if err != nil {
		return fmt.Errorf("update product: %w", translateError(err))
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update product rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func (r *productRepository) Delete(ctx context.Context, id string) (int, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("delete product: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete product rows affected: %w", err)
	}
	return int(affected), nil
}

func scanProduct(row rowScanner) (domain.Product, error) {
	types, release := acquireTypeMap()
	defer release()

	var p domain.Product
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, types.SQLScanner(&p.Tags), &p.Image); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Product{}, err
		}
		return domain.Product{}, fmt.Errorf("scan product: %w", err)
	}
	p.Tags = nonNilStrings(p.Tags)
	return p, nil
}
