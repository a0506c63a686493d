package catalog

import (
	"context"

	"github.com/vladislavdragonenkov/catalog/internal/domain"
)

// ProductCache — кэш чтения товаров. Промах не является ошибкой: отсутствующие
// ключи просто не попадают в результат.
type ProductCache interface {
	GetProducts(ctx context.Context, ids []string) (map[string]domain.Product, error)
	SetProducts(ctx context.Context, products []domain.Product) error
	DeleteProducts(ctx context.Context, ids []string) error
}

type noopCache struct{}

func (noopCache) GetProducts(context.Context, []string) (map[string]domain.Product, error) {
	return map[string]domain.Product{}, nil
}

func (noopCache) SetProducts(context.Context, []domain.Product) error { return nil }

func (noopCache) DeleteProducts(context.Context, []string) error { return nil }
