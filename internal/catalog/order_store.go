package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/catalog/internal/domain"
	"github.com/vladislavdragonenkov/catalog/internal/query"
)

const entityOrder = "order"

// OrderListOptions задаёт окно выборки и необязательные фильтры.
// Пустые ProductID и Status не ограничивают выборку.
type OrderListOptions struct {
	Offset    int
	Limit     int
	ProductID string
	Status    domain.OrderStatus
}

func (o OrderListOptions) filter() query.Filter {
	return query.New().
		Contains(domain.OrderFieldProducts, o.ProductID).
		Eq(domain.OrderFieldStatus, string(o.Status))
}

func (o OrderListOptions) validate() error {
	page := domain.Page{Offset: o.Offset, Limit: o.Limit}
	if err := page.Validate(); err != nil {
		return err
	}
	if o.Status != "" && !o.Status.Valid() {
		return &domain.ValidationError{Issues: []domain.FieldIssue{{Field: "status", Err: domain.ErrStatusInvalid}}}
	}
	return nil
}

// OrderStore — CRUD и постраничная выборка заказов.
//
// Get и Create возвращают заказ с развёрнутыми товарами, Edit — нет: он отдаёт
// сохранённую запись с ID товаров. Это часть контракта API.
type OrderStore struct {
	repo     domain.OrderRepository
	resolver *Resolver
	opts     storeOptions
}

// NewOrderStore создаёт хранилище заказов. resolver разворачивает ссылки на товары.
func NewOrderStore(repo domain.OrderRepository, resolver *Resolver, options ...Option) *OrderStore {
	return &OrderStore{
		repo:     repo,
		resolver: resolver,
		opts:     buildOptions("order-store", options),
	}
}

// List возвращает заказы, отсортированные по ID по возрастанию. Ссылки не разворачиваются.
func (s *OrderStore) List(ctx context.Context, opts OrderListOptions) (_ []domain.Order, err error) {
	defer s.observe("list", time.Now(), &err)

	if err := opts.validate(); err != nil {
		return nil, err
	}
	orders, err := s.repo.Find(ctx, opts.filter(), domain.Page{Offset: opts.Offset, Limit: opts.Limit})
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

// Count возвращает общее количество заказов под теми же фильтрами, что и List.
func (s *OrderStore) Count(ctx context.Context, productID string, status domain.OrderStatus) (_ int, err error) {
	defer s.observe("count", time.Now(), &err)

	opts := OrderListOptions{ProductID: productID, Status: status}
	if err := opts.validate(); err != nil {
		return 0, err
	}
	total, err := s.repo.Count(ctx, opts.filter())
	if err != nil {
		return 0, fmt.Errorf("count orders: %w", err)
	}
	return total, nil
}

// Get возвращает заказ с развёрнутыми товарами и признак наличия.
func (s *OrderStore) Get(ctx context.Context, id string) (_ domain.ResolvedOrder, _ bool, err error) {
	defer s.observe("get", time.Now(), &err)

	order, err := s.repo.Get(ctx, id)
	if errors.Is(err, domain.ErrOrderNotFound) {
		return domain.ResolvedOrder{}, false, nil
	}
	if err != nil {
		return domain.ResolvedOrder{}, false, fmt.Errorf("get order %s: %w", id, err)
	}

	resolved, err := s.resolver.Resolve(ctx, order)
	if err != nil {
		return domain.ResolvedOrder{}, false, err
	}
	return resolved, true, nil
}

// Create валидирует поля, сохраняет заказ со статусом CREATED по умолчанию и
// разворачивает ссылки. Сохранение и разворачивание не атомарны.
func (s *OrderStore) Create(ctx context.Context, fields domain.OrderFields) (_ domain.ResolvedOrder, err error) {
	defer s.observe("create", time.Now(), &err)

	if err := fields.Validate(); err != nil {
		return domain.ResolvedOrder{}, err
	}
	id, err := s.opts.newID()
	if err != nil {
		return domain.ResolvedOrder{}, fmt.Errorf("generate order id: %w", err)
	}

	order := fields.Build(id)
	if err := s.repo.Insert(ctx, order); err != nil {
		return domain.ResolvedOrder{}, fmt.Errorf("insert order: %w", err)
	}

	s.opts.logger.WithFields(log.Fields{
		"order_id": id,
		"products": len(order.Products),
	}).Debug("order created")
	s.opts.publish(ctx, domain.EventOrderCreated, id, order)

	return s.resolver.Resolve(ctx, order)
}

// Edit накладывает разрешённые поля change на заказ и сохраняет его.
// Любой допустимый статус принимается независимо от текущего.
func (s *OrderStore) Edit(ctx context.Context, id string, change domain.OrderChange) (_ domain.Order, err error) {
	defer s.observe("edit", time.Now(), &err)

	if err := change.Validate(); err != nil {
		return domain.Order{}, err
	}
	order, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.Order{}, fmt.Errorf("edit order %s: %w", id, err)
	}

	change.Apply(&order)
	if err := s.repo.Update(ctx, order); err != nil {
		return domain.Order{}, fmt.Errorf("edit order %s: %w", id, err)
	}

	s.opts.publish(ctx, domain.EventOrderUpdated, id, order)
	return order, nil
}

// Destroy удаляет заказ или возвращает ErrOrderNotFound, если удалять было нечего.
func (s *OrderStore) Destroy(ctx context.Context, id string) (err error) {
	defer s.observe("destroy", time.Now(), &err)

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete order %s: %w", id, err)
	}
	if deleted == 0 {
		return fmt.Errorf("delete order %s: %w", id, domain.ErrOrderNotFound)
	}

	s.opts.publish(ctx, domain.EventOrderDeleted, id, nil)
	return nil
}

func (s *OrderStore) observe(operation string, started time.Time, errp *error) {
	s.opts.metrics.ObserveOperation(entityOrder, operation, started, *errp)
	if *errp != nil && !errors.Is(*errp, domain.ErrNotFound) && !domain.IsValidation(*errp) {
		s.opts.logger.WithError(*errp).WithFields(log.Fields{
			"entity":    entityOrder,
			"operation": operation,
		}).Error("store operation failed")
	}
}
