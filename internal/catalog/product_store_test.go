package catalog_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/catalog/internal/catalog"
	"github.com/vladislavdragonenkov/catalog/internal/domain"
	"github.com/vladislavdragonenkov/catalog/internal/storage/memory"
)

func decimalComparer() cmp.Option {
	return cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })
}

func mugFields() domain.ProductFields {
	return domain.ProductFields{
		Name:        "Mug",
		Description: "ceramic, 300ml",
		Price:       decimal.RequireFromString("12.50"),
		Tags:        []string{"kitchen", "gift"},
		Image:       "https://img.example.com/mug.png",
	}
}

func TestProductStore_CreateGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	created, err := f.products.Create(ctx, mugFields())
	require.NoError(t, err)
	require.Equal(t, "p-001", created.ID)

	got, ok, err := f.products.Get(ctx, created.ID)
	require.NoError(t, err)
	require.True(t, ok)
	if diff := cmp.Diff(created, got, decimalComparer()); diff != "" {
		t.Fatalf("round trip mismatch (-created +got):\n%s", diff)
	}

	require.Equal(t, []domain.EventType{domain.EventProductCreated}, f.publisher.types())
}

func TestProductStore_GetMissingIsNotAnError(t *testing.T) {
	f := newFixture()

	_, ok, err := f.products.Get(context.Background(), "nope")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestProductStore_CreateValidates(t *testing.T) {
	f := newFixture()

	_, err := f.products.Create(context.Background(), domain.ProductFields{Price: decimal.NewFromInt(-1)})
	require.True(t, domain.IsValidation(err))
	require.Empty(t, f.publisher.types())
}

func TestProductStore_EditChangesOnlyGivenField(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	created, err := f.products.Create(ctx, mugFields())
	require.NoError(t, err)

	price := decimal.NewFromInt(10)
	edited, err := f.products.Edit(ctx, created.ID, domain.ProductChange{Price: &price})
	require.NoError(t, err)

	want := created
	want.Price = price
	if diff := cmp.Diff(want, edited, decimalComparer()); diff != "" {
		t.Fatalf("unexpected edit result (-want +got):\n%s", diff)
	}

	stored, ok, err := f.products.Get(ctx, created.ID)
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, stored.Price.Equal(price))
}

func TestProductStore_EditMissing(t *testing.T) {
	f := newFixture()
	name := "x"

	_, err := f.products.Edit(context.Background(), "missing", domain.ProductChange{Name: &name})
	require.ErrorIs(t, err, domain.ErrProductNotFound)
	require.True(t, domain.IsNotFound(err))
}

func TestProductStore_Destroy(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	created, err := f.products.Create(ctx, mugFields())
	require.NoError(t, err)

	res, err := f.products.Destroy(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, 1, res.DeletedCount)

	res, err = f.products.Destroy(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, 0, res.DeletedCount)

	_, ok, err := f.products.Get(ctx, created.ID)
	require.NoError(t, err)
	require.False(t, ok)

	require.Equal(t, []domain.EventType{domain.EventProductCreated, domain.EventProductDeleted}, f.publisher.types())
}

func TestProductStore_ListPaginationAndTag(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	for i, tags := range [][]string{{"red"}, {"blue"}, {"red", "sale"}, nil, {"red"}} {
		fields := mugFields()
		fields.Name = "item"
		fields.Tags = tags
		_, err := f.products.Create(ctx, fields)
		require.NoError(t, err, "create #%d", i)
	}

	tests := []struct {
		name string
		opts catalog.ProductListOptions
		want []string
	}{
		{name: "first page", opts: catalog.ProductListOptions{Limit: 2}, want: []string{"p-001", "p-002"}},
		{name: "offset", opts: catalog.ProductListOptions{Offset: 3, Limit: 5}, want: []string{"p-004", "p-005"}},
		{name: "tag", opts: catalog.ProductListOptions{Limit: 10, Tag: "red"}, want: []string{"p-001", "p-003", "p-005"}},
		{name: "tag with offset", opts: catalog.ProductListOptions{Offset: 1, Limit: 1, Tag: "red"}, want: []string{"p-003"}},
		{name: "zero limit", opts: catalog.ProductListOptions{Limit: 0}, want: []string{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			products, err := f.products.List(ctx, tc.opts)
			require.NoError(t, err)
			require.LessOrEqual(t, len(products), tc.opts.Limit)

			ids := make([]string, 0, len(products))
			for _, p := range products {
				ids = append(ids, p.ID)
				if tc.opts.Tag != "" {
					require.Contains(t, p.Tags, tc.opts.Tag)
				}
			}
			require.Equal(t, tc.want, ids)
		})
	}

	total, err := f.products.Count(ctx, "red")
	require.NoError(t, err)
	require.Equal(t, 3, total)
}

func TestProductStore_ListRejectsNegativeWindow(t *testing.T) {
	f := newFixture()

	_, err := f.products.List(context.Background(), catalog.ProductListOptions{Offset: -1, Limit: 5})
	require.ErrorIs(t, err, domain.ErrOffsetNegative)
}

func TestProductStore_CacheIsReadAndInvalidated(t *testing.T) {
	ctx := context.Background()
	cache := newMapCache()
	f := newFixture(catalog.WithCache(cache))

	created, err := f.products.Create(ctx, mugFields())
	require.NoError(t, err)

	_, ok, err := f.products.Get(ctx, created.ID)
	require.NoError(t, err)
	require.True(t, ok)
	require.Contains(t, cache.items, created.ID, "miss must populate cache")

	name := "Big mug"
	_, err = f.products.Edit(ctx, created.ID, domain.ProductChange{Name: &name})
	require.NoError(t, err)
	require.NotContains(t, cache.items, created.ID, "edit must invalidate cache")

	got, _, err := f.products.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "Big mug", got.Name)
}

func TestProductStore_CacheFailureFallsBackToStorage(t *testing.T) {
	ctx := context.Background()
	cache := newMapCache()
	cache.readErr = errors.New("redis down")
	f := newFixture(catalog.WithCache(cache))

	created, err := f.products.Create(ctx, mugFields())
	require.NoError(t, err)

	got, ok, err := f.products.Get(ctx, created.ID)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, created.ID, got.ID)
}

func TestProductStore_PublishFailureDoesNotFailOperation(t *testing.T) {
	f := newFixture()
	f.publisher.err = errors.New("broker unavailable")

	_, err := f.products.Create(context.Background(), mugFields())
	require.NoError(t, err)
	require.Len(t, f.publisher.types(), 1)
}

func TestProductStore_ConcurrentWriteBlocksStaleCacheFill(t *testing.T) {
	tests := []struct {
		name  string
		write func(t *testing.T, s *catalog.ProductStore, id string)
		check func(t *testing.T, got domain.Product, ok bool)
	}{
		{
			name: "destroy",
			write: func(t *testing.T, s *catalog.ProductStore, id string) {
				res, err := s.Destroy(context.Background(), id)
				require.NoError(t, err)
				require.Equal(t, 1, res.DeletedCount)
			},
			check: func(t *testing.T, _ domain.Product, ok bool) {
				require.False(t, ok, "deleted product must not come back from cache")
			},
		},
		{
			name: "edit",
			write: func(t *testing.T, s *catalog.ProductStore, id string) {
				name := "Big mug"
				_, err := s.Edit(context.Background(), id, domain.ProductChange{Name: &name})
				require.NoError(t, err)
			},
			check: func(t *testing.T, got domain.Product, ok bool) {
				require.True(t, ok)
				require.Equal(t, "Big mug", got.Name)
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			repo := newPausingProductRepo(memory.NewProductRepository())
			cache := newMapCache()
			store := catalog.NewProductStore(repo,
				catalog.WithLogger(loggerForTests()),
				catalog.WithCache(cache),
				catalog.WithIDGenerator(sequentialIDs("p")),
			)

			created, err := store.Create(ctx, mugFields())
			require.NoError(t, err)

			done := make(chan struct{})
			go func() {
				defer close(done)
				_, _, _ = store.Get(ctx, created.ID)
			}()

			<-repo.read
			tc.write(t, store, created.ID)
			close(repo.release)
			<-done

			cache.mu.Lock()
			_, cached := cache.items[created.ID]
			cache.mu.Unlock()
			require.False(t, cached, "read started before the write must not fill the cache")

			got, ok, err := store.Get(ctx, created.ID)
			require.NoError(t, err)
			tc.check(t, got, ok)
		})
	}
}

func TestOrderStore_DanglingReferenceAfterConcurrentDestroy(t *testing.T) {
	ctx := context.Background()
	repo := newPausingProductRepo(memory.NewProductRepository())
	cache := newMapCache()
	products := catalog.NewProductStore(repo,
		catalog.WithLogger(loggerForTests()),
		catalog.WithCache(cache),
		catalog.WithIDGenerator(sequentialIDs("p")),
	)
	orders := catalog.NewOrderStore(memory.NewOrderRepository(), products.Resolver(),
		catalog.WithLogger(loggerForTests()),
		catalog.WithIDGenerator(sequentialIDs("o")),
	)

	product, err := products.Create(ctx, mugFields())
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _, _ = products.Get(ctx, product.ID)
	}()
	<-repo.read
	_, err = products.Destroy(ctx, product.ID)
	require.NoError(t, err)
	close(repo.release)
	<-done

	order, err := orders.Create(ctx, domain.OrderFields{
		BuyerEmail: "buyer@example.com",
		Products:   []string{product.ID},
	})
	require.NoError(t, err)
	require.Len(t, order.Products, 1)
	require.Nil(t, order.Products[0])
}
