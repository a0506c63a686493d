package domain

import (
	"context"

	"github.com/vladislavdragonenkov/catalog/internal/query"
)

// Page задаёт окно offset/limit. Limit == 0 даёт пустую выборку.
type Page struct {
	Offset int
	Limit  int
}

// Validate отклоняет отрицательные значения окна.
func (p Page) Validate() error {
	verr := &ValidationError{}
	if p.Offset < 0 {
		verr.add("offset", ErrOffsetNegative)
	}
	if p.Limit < 0 {
		verr.add("limit", ErrLimitNegative)
	}
	return verr.orNil()
}

// ProductRepository описывает требования к хранилищу товаров.
type ProductRepository interface {
	// Find возвращает товары, подходящие под фильтр, в порядке возрастания ID.
	Find(ctx context.Context, filter query.Filter, page Page) ([]Product, error)
	// Count возвращает общее количество товаров под фильтром.
	Count(ctx context.Context, filter query.Filter) (int, error)
	// Get возвращает товар или ErrProductNotFound.
	Get(ctx context.Context, id string) (Product, error)
	// GetMany возвращает найденные товары по набору ID; отсутствующие просто пропускаются.
	GetMany(ctx context.Context, ids []string) (map[string]Product, error)
	// Insert сохраняет новый товар. ErrAlreadyExists при коллизии ID.
	Insert(ctx context.Context, product Product) error
	// Update перезаписывает товар целиком или возвращает ErrProductNotFound.
	Update(ctx context.Context, product Product) error
	// Delete удаляет товар и возвращает количество удалённых записей.
	Delete(ctx context.Context, id string) (int, error)
}

// OrderRepository описывает требования к хранилищу заказов.
type OrderRepository interface {
	// Find возвращает заказы под фильтром, отсортированные по ID по возрастанию.
	Find(ctx context.Context, filter query.Filter, page Page) ([]Order, error)
	// Count возвращает общее количество заказов под фильтром.
	Count(ctx context.Context, filter query.Filter) (int, error)
	// Get возвращает заказ или ErrOrderNotFound.
	Get(ctx context.Context, id string) (Order, error)
	// Insert сохраняет новый заказ. ErrAlreadyExists при коллизии ID.
	Insert(ctx context.Context, order Order) error
	// Update перезаписывает заказ целиком (last-write-wins) или возвращает ErrOrderNotFound.
	Update(ctx context.Context, order Order) error
	// Delete удаляет заказ и возвращает количество удалённых записей.
	Delete(ctx context.Context, id string) (int, error)
}
