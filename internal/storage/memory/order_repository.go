package memory

import (
	"context"
	"sync"

	"github.com/vladislavdragonenkov/catalog/internal/domain"
	"github.com/vladislavdragonenkov/catalog/internal/query"
)

// orderRepositoryInMemory — простая in-memory реализация OrderRepository.
type orderRepositoryInMemory struct {
	mu    sync.RWMutex
	items map[string]domain.Order
}

// NewOrderRepository возвращает in-memory репозиторий для локальной разработки и тестов.
func NewOrderRepository() domain.OrderRepository {
	return &orderRepositoryInMemory{
		items: make(map[string]domain.Order),
	}
}

// Find возвращает заказы под фильтром, отсортированные по ID.
func (r *orderRepositoryInMemory) Find(_ context.Context, filter query.Filter, page domain.Page) ([]domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := window(matchingIDs(r.items, filter), page)
	result := make([]domain.Order, 0, len(ids))
	for _, id := range ids {
		result = append(result, copyOrder(r.items[id]))
	}
	return result, nil
}

func (r *orderRepositoryInMemory) Count(_ context.Context, filter query.Filter) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(matchingIDs(r.items, filter)), nil
}

// Get возвращает заказ или ErrOrderNotFound, если его нет.
func (r *orderRepositoryInMemory) Get(_ context.Context, id string) (domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.items[id]
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	return copyOrder(order), nil
}

// Insert сохраняет новый заказ, если ID ещё не занят.
func (r *orderRepositoryInMemory) Insert(_ context.Context, order domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[order.ID]; exists {
		return domain.ErrAlreadyExists
	}
	// Сохраняем копию, чтобы избежать непредсказуемых мутаций извне.
	r.items[order.ID] = copyOrder(order)
	return nil
}

// Update перезаписывает заказ целиком.
func (r *orderRepositoryInMemory) Update(_ context.Context, order domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[order.ID]; !ok {
		return domain.ErrOrderNotFound
	}
	r.items[order.ID] = copyOrder(order)
	return nil
}

func (r *orderRepositoryInMemory) Delete(_ context.Context, id string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return 0, nil
	}
	delete(r.items, id)
	return 1, nil
}

func copyOrder(o domain.Order) domain.Order {
	products := make([]string, len(o.Products))
	copy(products, o.Products)
	o.Products = products
	return o
}

var _ domain.OrderRepository = (*orderRepositoryInMemory)(nil)
