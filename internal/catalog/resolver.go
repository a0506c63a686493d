package catalog

import (
	"context"
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/catalog/internal/domain"
)

// Resolver разворачивает ID товаров заказа в полные записи.
//
// epoch растёт при каждой инвалидации. Заполнение кэша после чтения из
// репозитория выполняется только если epoch не изменился за время чтения,
// иначе конкурентный Edit/Destroy мог бы быть перезаписан старой версией.
type Resolver struct {
	products domain.ProductRepository
	cache    ProductCache
	logger   *log.Entry

	mu    sync.Mutex
	epoch uint64
}

// NewResolver создаёт resolver поверх репозитория товаров и (опционального) кэша.
func NewResolver(products domain.ProductRepository, cache ProductCache, logger *log.Entry) *Resolver {
	if cache == nil {
		cache = noopCache{}
	}
	if logger == nil {
		logger = log.WithField("component", "resolver")
	}
	return &Resolver{products: products, cache: cache, logger: logger}
}

// Resolve сохраняет порядок и длину списка. ID, для которого товар не найден,
// превращается в nil-слот, а не выкидывается.
func (r *Resolver) Resolve(ctx context.Context, order domain.Order) (domain.ResolvedOrder, error) {
	found, err := r.Load(ctx, order.Products)
	if err != nil {
		return domain.ResolvedOrder{}, fmt.Errorf("resolve products of order %s: %w", order.ID, err)
	}

	slots := make([]*domain.Product, len(order.Products))
	for i, id := range order.Products {
		if product, ok := found[id]; ok {
			p := product
			slots[i] = &p
		}
	}

	return domain.ResolvedOrder{
		ID:         order.ID,
		BuyerEmail: order.BuyerEmail,
		Products:   slots,
		Status:     order.Status,
	}, nil
}

// Load достаёт товары сначала из кэша, затем недостающие из репозитория.
// Сбой кэша не прерывает чтение.
func (r *Resolver) Load(ctx context.Context, ids []string) (map[string]domain.Product, error) {
	unique := dedupe(ids)
	if len(unique) == 0 {
		return map[string]domain.Product{}, nil
	}

	found, err := r.cache.GetProducts(ctx, unique)
	if err != nil {
		r.logger.WithError(err).Warn("product cache read failed, falling back to storage")
		found = map[string]domain.Product{}
	}

	missing := make([]string, 0, len(unique))
	for _, id := range unique {
		if _, ok := found[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) == 0 {
		return found, nil
	}

	started := r.currentEpoch()
	loaded, err := r.products.GetMany(ctx, missing)
	if err != nil {
		return nil, err
	}

	fresh := make([]domain.Product, 0, len(loaded))
	for id, product := range loaded {
		found[id] = product
		fresh = append(fresh, product)
	}
	if len(fresh) > 0 {
		r.fill(ctx, started, fresh)
	}

	return found, nil
}

// Invalidate удаляет товары из кэша и отменяет заполнения, начатые до вызова.
func (r *Resolver) Invalidate(ctx context.Context, ids ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.epoch++
	return r.cache.DeleteProducts(ctx, ids)
}

func (r *Resolver) currentEpoch() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.epoch
}

func (r *Resolver) fill(ctx context.Context, started uint64, products []domain.Product) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.epoch != started {
		r.logger.Debug("skip product cache fill: invalidated during read")
		return
	}
	if err := r.cache.SetProducts(ctx, products); err != nil {
		r.logger.WithError(err).Warn("product cache write failed")
	}
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
