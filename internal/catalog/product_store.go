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

const entityProduct = "product"

// ProductListOptions задаёт окно выборки и необязательный тег.
type ProductListOptions struct {
	Offset int
	Limit  int
	Tag    string
}

func (o ProductListOptions) filter() query.Filter {
	return query.New().Contains(domain.ProductFieldTags, o.Tag)
}

// ProductStore — CRUD и постраничная выборка товаров.
type ProductStore struct {
	repo     domain.ProductRepository
	resolver *Resolver
	opts     storeOptions
}

// NewProductStore создаёт хранилище товаров с внедрённым persistence-хэндлом.
func NewProductStore(repo domain.ProductRepository, options ...Option) *ProductStore {
	opts := buildOptions("product-store", options)
	return &ProductStore{
		repo:     repo,
		resolver: NewResolver(repo, opts.cache, opts.logger),
		opts:     opts,
	}
}

// List возвращает не более Limit товаров после пропуска Offset в порядке возрастания ID.
func (s *ProductStore) List(ctx context.Context, opts ProductListOptions) (_ []domain.Product, err error) {
	defer s.observe("list", time.Now(), &err)

	page := domain.Page{Offset: opts.Offset, Limit: opts.Limit}
	if err := page.Validate(); err != nil {
		return nil, err
	}
	products, err := s.repo.Find(ctx, opts.filter(), page)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

// Count возвращает общее количество товаров с тегом (или всех, если тег пуст).
func (s *ProductStore) Count(ctx context.Context, tag string) (_ int, err error) {
	defer s.observe("count", time.Now(), &err)

	total, err := s.repo.Count(ctx, ProductListOptions{Tag: tag}.filter())
	if err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return total, nil
}

// Get возвращает товар и признак наличия. Отсутствие товара ошибкой не считается.
func (s *ProductStore) Get(ctx context.Context, id string) (_ domain.Product, _ bool, err error) {
	defer s.observe("get", time.Now(), &err)

	found, err := s.resolver.Load(ctx, []string{id})
	if err != nil {
		return domain.Product{}, false, fmt.Errorf("get product %s: %w", id, err)
	}
	product, ok := found[id]
	return product, ok, nil
}

// Create выдаёт новый ID и сохраняет товар.
func (s *ProductStore) Create(ctx context.Context, fields domain.ProductFields) (_ domain.Product, err error) {
	defer s.observe("create", time.Now(), &err)

	if err := fields.Validate(); err != nil {
		return domain.Product{}, err
	}
	id, err := s.opts.newID()
	if err != nil {
		return domain.Product{}, fmt.Errorf("generate product id: %w", err)
	}

	product := fields.Build(id)
	if err := s.repo.Insert(ctx, product); err != nil {
		return domain.Product{}, fmt.Errorf("insert product: %w", err)
	}

	s.opts.logger.WithField("product_id", id).Debug("product created")
	s.opts.publish(ctx, domain.EventProductCreated, id, product)
	return product, nil
}

// Edit накладывает разрешённые поля change на существующий товар.
// Возвращает ErrProductNotFound, если товара нет.
func (s *ProductStore) Edit(ctx context.Context, id string, change domain.ProductChange) (_ domain.Product, err error) {
	defer s.observe("edit", time.Now(), &err)

	if err := change.Validate(); err != nil {
		return domain.Product{}, err
	}
	product, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.Product{}, fmt.Errorf("edit product %s: %w", id, err)
	}

	change.Apply(&product)
	if err := s.repo.Update(ctx, product); err != nil {
		return domain.Product{}, fmt.Errorf("edit product %s: %w", id, err)
	}

	s.invalidate(ctx, id)
	s.opts.publish(ctx, domain.EventProductUpdated, id, product)
	return product, nil
}

// Destroy удаляет товар; результат сообщает, была ли запись удалена.
// Заказы, ссылающиеся на товар, не трогаются.
func (s *ProductStore) Destroy(ctx context.Context, id string) (_ domain.DeletionResult, err error) {
	defer s.observe("destroy", time.Now(), &err)

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return domain.DeletionResult{}, fmt.Errorf("delete product %s: %w", id, err)
	}

	s.invalidate(ctx, id)
	if deleted > 0 {
		s.opts.publish(ctx, domain.EventProductDeleted, id, nil)
	}
	return domain.DeletionResult{DeletedCount: deleted}, nil
}

// Resolver отдаёт resolver, разделяющий кэш с этим хранилищем.
func (s *ProductStore) Resolver() *Resolver {
	return s.resolver
}

func (s *ProductStore) invalidate(ctx context.Context, id string) {
	if err := s.resolver.Invalidate(ctx, id); err != nil {
		s.opts.logger.WithError(err).WithField("product_id", id).Warn("failed to invalidate product cache")
	}
}

func (s *ProductStore) observe(operation string, started time.Time, errp *error) {
	s.opts.metrics.ObserveOperation(entityProduct, operation, started, *errp)
	if *errp != nil && !errors.Is(*errp, domain.ErrNotFound) && !domain.IsValidation(*errp) {
		s.opts.logger.WithError(*errp).WithFields(log.Fields{
			"entity":    entityProduct,
			"operation": operation,
		}).Error("store operation failed")
	}
}
