package catalog_test

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/catalog/internal/catalog"
	"github.com/vladislavdragonenkov/catalog/internal/domain"
	"github.com/vladislavdragonenkov/catalog/internal/storage/memory"
)

func loggerForTests() *logrus.Entry {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: false, DisableTimestamp: true})
	logger.SetLevel(logrus.DebugLevel)
	return logger.WithField("component", "test")
}

// sequentialIDs выдаёт предсказуемые, лексикографически упорядоченные ID.
func sequentialIDs(prefix string) catalog.IDGenerator {
	var (
		mu sync.Mutex
		n  int
	)
	return func() (string, error) {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("%s-%03d", prefix, n), nil
	}
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event domain.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) types() []domain.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]domain.EventType, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type mapCache struct {
	mu      sync.Mutex
	items   map[string]domain.Product
	reads   int
	deletes []string
	readErr error
}

func newMapCache() *mapCache {
	return &mapCache{items: map[string]domain.Product{}}
}

func (c *mapCache) GetProducts(_ context.Context, ids []string) (map[string]domain.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reads++
	if c.readErr != nil {
		return nil, c.readErr
	}
	out := map[string]domain.Product{}
	for _, id := range ids {
		if p, ok := c.items[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (c *mapCache) SetProducts(_ context.Context, products []domain.Product) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, p := range products {
		c.items[p.ID] = p
	}
	return nil
}

func (c *mapCache) DeleteProducts(_ context.Context, ids []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range ids {
		delete(c.items, id)
		c.deletes = append(c.deletes, id)
	}
	return nil
}

// failingOrderRepo имитирует недоступное хранилище.
type failingOrderRepo struct {
	domain.OrderRepository
}

var errStorageDown = errors.New("storage unavailable")

func (failingOrderRepo) Get(context.Context, string) (domain.Order, error) {
	return domain.Order{}, errStorageDown
}

type fixture struct {
	products    *catalog.ProductStore
	orders      *catalog.OrderStore
	productRepo domain.ProductRepository
	orderRepo   domain.OrderRepository
	publisher   *recordingPublisher
}

func newFixture(options ...catalog.Option) fixture {
	productRepo := memory.NewProductRepository()
	orderRepo := memory.NewOrderRepository()
	publisher := &recordingPublisher{}

	base := []catalog.Option{
		catalog.WithLogger(loggerForTests()),
		catalog.WithPublisher(publisher),
	}
	products := catalog.NewProductStore(productRepo,
		append(append(base, catalog.WithIDGenerator(sequentialIDs("p"))), options...)...)
	orders := catalog.NewOrderStore(orderRepo, products.Resolver(),
		append(append(base, catalog.WithIDGenerator(sequentialIDs("o"))), options...)...)

	return fixture{
		products:    products,
		orders:      orders,
		productRepo: productRepo,
		orderRepo:   orderRepo,
		publisher:   publisher,
	}
}

// pausingProductRepo останавливает GetMany после чтения, пока тест не отпустит его.
type pausingProductRepo struct {
	domain.ProductRepository
	read    chan struct{}
	release chan struct{}
	once    sync.Once
}

func newPausingProductRepo(inner domain.ProductRepository) *pausingProductRepo {
	return &pausingProductRepo{
		ProductRepository: inner,
		read:              make(chan struct{}),
		release:           make(chan struct{}),
	}
}

func (r *pausingProductRepo) GetMany(ctx context.Context, ids []string) (map[string]domain.Product, error) {
	found, err := r.ProductRepository.GetMany(ctx, ids)
	paused := false
	r.once.Do(func() { paused = true })
	if paused {
		close(r.read)
		<-r.release
	}
	return found, err
}
