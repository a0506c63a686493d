package memory

import (
	"context"
	"sync"

	"github.com/vladislavdragonenkov/catalog/internal/domain"
	"github.com/vladislavdragonenkov/catalog/internal/query"
)

// productRepositoryInMemory — in-memory реализация ProductRepository.
type productRepositoryInMemory struct {
	mu    sync.RWMutex
	items map[string]domain.Product
}

// NewProductRepository возвращает in-memory репозиторий товаров для локальной разработки и тестов.
func NewProductRepository() domain.ProductRepository {
	return &productRepositoryInMemory{
		items: make(map[string]domain.Product),
	}
}

func (r *productRepositoryInMemory) Find(_ context.Context, filter query.Filter, page domain.Page) ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := window(matchingIDs(r.items, filter), page)
	result := make([]domain.Product, 0, len(ids))
	for _, id := range ids {
		result = append(result, copyProduct(r.items[id]))
	}
	return result, nil
}

func (r *productRepositoryInMemory) Count(_ context.Context, filter query.Filter) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(matchingIDs(r.items, filter)), nil
}

func (r *productRepositoryInMemory) Get(_ context.Context, id string) (domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.items[id]
	if !ok {
		return domain.Product{}, domain.ErrProductNotFound
	}
	return copyProduct(product), nil
}

func (r *productRepositoryInMemory) GetMany(_ context.Context, ids []string) (map[string]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make(map[string]domain.Product, len(ids))
	for _, id := range ids {
		if product, ok := r.items[id]; ok {
			result[id] = copyProduct(product)
		}
	}
	return result, nil
}

// Insert сохраняет новый товар, если ID ещё не занят.
func (r *productRepositoryInMemory) Insert(_ context.Context, product domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[product.ID]; exists {
		return domain.ErrAlreadyExists
	}
	r.items[product.ID] = copyProduct(product)
	return nil
}

// Update перезаписывает товар без проверки версий: выигрывает последняя запись.
func (r *productRepositoryInMemory) Update(_ context.Context, product domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[product.ID]; !ok {
		return domain.ErrProductNotFound
	}
	r.items[product.ID] = copyProduct(product)
	return nil
}

func (r *productRepositoryInMemory) Delete(_ context.Context, id string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return 0, nil
	}
	delete(r.items, id)
	return 1, nil
}

// copyProduct отвязывает срез тегов от вызывающего кода.
func copyProduct(p domain.Product) domain.Product {
	tags := make([]string, len(p.Tags))
	copy(tags, p.Tags)
	p.Tags = tags
	return p
}

var _ domain.ProductRepository = (*productRepositoryInMemory)(nil)
