package core_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"wallet-backend-go/internal/core"
	"wallet-backend-go/internal/db"
	"wallet-backend-go/internal/models"
	"wallet-backend-go/pkg/cache"
)

// fakeProductRepo is an in-memory ProductRepository that counts List calls so
// tests can observe cache hits.
type fakeProductRepo struct {
	products  map[string]*models.Product
	nextID    int
	listCalls int
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[string]*models.Product)}
}

func (r *fakeProductRepo) Create(_ context.Context, product *models.Product) (string, error) {
	r.nextID++
	id := fmt.Sprintf("prod-%d", r.nextID)
	product.ID = id
	p := *product
	r.products[id] = &p
	return id, nil
}

func (r *fakeProductRepo) GetByID(_ context.Context, productID string) (*models.Product, error) {
	p, ok := r.products[productID]
	if !ok {
		return nil, fmt.Errorf("product '%s': %w", productID, db.ErrNotFound)
	}
	out := *p
	return &out, nil
}

func (r *fakeProductRepo) List(_ context.Context, includeInactive bool) ([]*models.Product, error) {
	r.listCalls++
	var out []*models.Product
	for _, p := range r.products {
		if !includeInactive && p.Inactive() {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeProductRepo) Update(_ context.Context, product *models.Product) error {
	if _, ok := r.products[product.ID]; !ok {
		return fmt.Errorf("product '%s': %w", product.ID, db.ErrNotFound)
	}
	p := *product
	r.products[product.ID] = &p
	return nil
}

func (r *fakeProductRepo) Delete(_ context.Context, productID string) error {
	if _, ok := r.products[productID]; !ok {
		return fmt.Errorf("product '%s': %w", productID, db.ErrNotFound)
	}
	delete(r.products, productID)
	return nil
}

func newTestProductService(t *testing.T) (core.ProductService, *fakeProductRepo) {
	t.Helper()
	repo := newFakeProductRepo()
	service := core.NewProductService(repo, cache.NewMemoryCache(), time.Minute, zap.NewNop())
	return service, repo
}

// =============================================================================
// CATALOG TESTS
// =============================================================================

func TestProductService_CreateAndGet(t *testing.T) {
	service, _ := newTestProductService(t)
	ctx := context.Background()

	created, err := service.Create(ctx, models.CreateProductRequest{Name: "Mug", Price: 40, Stock: 5})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	got, err := service.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mug", got.Name)
	assert.Equal(t, int64(40), got.Price)
	assert.Equal(t, int64(5), got.Stock)
}

func TestProductService_Create_RequiresNameAndPositivePrice(t *testing.T) {
	service, _ := newTestProductService(t)
	ctx := context.Background()

	_, err := service.Create(ctx, models.CreateProductRequest{Name: "", Price: 40})
	assert.ErrorIs(t, err, core.ErrInvalidPrice)

	_, err = service.Create(ctx, models.CreateProductRequest{Name: "Mug", Price: 0})
	assert.ErrorIs(t, err, core.ErrInvalidPrice)
}

func TestProductService_Get_Unknown_NotFound(t *testing.T) {
	service, _ := newTestProductService(t)

	_, err := service.Get(context.Background(), "ghost")

	assert.ErrorIs(t, err, core.ErrProductNotFound)
}

func TestProductService_List_ServedFromCache(t *testing.T) {
	// GIVEN: A populated catalog listed once
	// WHEN: Listing again within the TTL
	// THEN: The repository is not hit a second time

	service, repo := newTestProductService(t)
	ctx := context.Background()

	_, err := service.Create(ctx, models.CreateProductRequest{Name: "Mug", Price: 40})
	require.NoError(t, err)

	_, err = service.List(ctx, false)
	require.NoError(t, err)
	_, err = service.List(ctx, false)
	require.NoError(t, err)

	assert.Equal(t, 1, repo.listCalls, "second listing should come from cache")
}

func TestProductService_Mutation_InvalidatesCache(t *testing.T) {
	// GIVEN: A cached listing
	// WHEN: A product is created afterwards
	// THEN: The next listing reflects the new product

	service, _ := newTestProductService(t)
	ctx := context.Background()

	_, err := service.Create(ctx, models.CreateProductRequest{Name: "Mug", Price: 40})
	require.NoError(t, err)

	first, err := service.List(ctx, false)
	require.NoError(t, err)
	require.Len(t, first, 1)

	_, err = service.Create(ctx, models.CreateProductRequest{Name: "Sticker", Price: 10})
	require.NoError(t, err)

	second, err := service.List(ctx, false)
	require.NoError(t, err)
	assert.Len(t, second, 2)
}

func TestProductService_List_ExcludesInactiveForMarketplace(t *testing.T) {
	service, _ := newTestProductService(t)
	ctx := context.Background()

	_, err := service.Create(ctx, models.CreateProductRequest{Name: "Live", Price: 10})
	require.NoError(t, err)
	inactive := false
	_, err = service.Create(ctx, models.CreateProductRequest{Name: "Retired", Price: 10, Active: &inactive})
	require.NoError(t, err)

	active, err := service.List(ctx, false)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Live", active[0].Name)

	all, err := service.List(ctx, true)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestProductService_Update_AppliesOnlyProvidedFields(t *testing.T) {
	service, _ := newTestProductService(t)
	ctx := context.Background()

	created, err := service.Create(ctx, models.CreateProductRequest{Name: "Mug", Price: 40, Stock: 5})
	require.NoError(t, err)

	newPrice := int64(45)
	updated, err := service.Update(ctx, created.ID, models.UpdateProductRequest{Price: &newPrice})
	require.NoError(t, err)

	assert.Equal(t, int64(45), updated.Price)
	assert.Equal(t, "Mug", updated.Name, "unset fields must be left alone")
	assert.Equal(t, int64(5), updated.Stock)
}

func TestProductService_Update_RejectsInvalidValues(t *testing.T) {
	service, _ := newTestProductService(t)
	ctx := context.Background()

	created, err := service.Create(ctx, models.CreateProductRequest{Name: "Mug", Price: 40})
	require.NoError(t, err)

	badPrice := int64(0)
	_, err = service.Update(ctx, created.ID, models.UpdateProductRequest{Price: &badPrice})
	assert.ErrorIs(t, err, core.ErrInvalidPrice)

	badStock := int64(-1)
	_, err = service.Update(ctx, created.ID, models.UpdateProductRequest{Stock: &badStock})
	assert.ErrorIs(t, err, core.ErrInvalidAmount)
}

func TestProductService_Delete(t *testing.T) {
	service, _ := newTestProductService(t)
	ctx := context.Background()

	created, err := service.Create(ctx, models.CreateProductRequest{Name: "Mug", Price: 40})
	require.NoError(t, err)

	require.NoError(t, service.Delete(ctx, created.ID))

	_, err = service.Get(ctx, created.ID)
	assert.ErrorIs(t, err, core.ErrProductNotFound)

	err = service.Delete(ctx, created.ID)
	assert.ErrorIs(t, err, core.ErrProductNotFound)
}
