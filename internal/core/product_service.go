package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"wallet-backend-go/internal/db"
	"wallet-backend-go/internal/models"
	"wallet-backend-go/pkg/cache"
)

// Cache keys for the product catalog listings.
const (
	productCacheKeyActive = "products:active"
	productCacheKeyAll    = "products:all"
)

// productService implements the ProductService interface. Catalog listings
// are cached with a short TTL; any catalog mutation invalidates both keys.
// Stock changes from purchases bypass this service entirely, which is why the
// TTL stays short instead of the cache being authoritative.
type productService struct {
	productRepo db.ProductRepository
	cache       cache.Cache
	cacheTTL    time.Duration
	logger      *zap.Logger
}

// NewProductService creates a new ProductService instance.
func NewProductService(productRepo db.ProductRepository, c cache.Cache, cacheTTL time.Duration, logger *zap.Logger) ProductService {
	if c == nil {
		c = cache.NewMemoryCache()
	}
	return &productService{
		productRepo: productRepo,
		cache:       c,
		cacheTTL:    cacheTTL,
		logger:      logger,
	}
}

// List returns the catalog, from cache when fresh. Inactive products are only
// included for admin callers.
func (s *productService) List(ctx context.Context, includeInactive bool) ([]*models.Product, error) {
	key := productCacheKeyActive
	if includeInactive {
		key = productCacheKeyAll
	}

	if cached, err := s.cache.Get(key); err == nil && cached != "" {
		var products []*models.Product
		if err := json.Unmarshal([]byte(cached), &products); err == nil {
			return products, nil
		}
		// Unreadable cache entry; fall through to the repository.
		_ = s.cache.Delete(key)
	}

	products, err := s.productRepo.List(ctx, includeInactive)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	if s.cacheTTL > 0 {
		if encoded, err := json.Marshal(products); err == nil {
			if err := s.cache.Set(key, string(encoded), s.cacheTTL); err != nil && s.logger != nil {
				s.logger.Warn("Failed to cache product listing", zap.Error(err))
			}
		}
	}
	return products, nil
}

// Get returns one product by ID.
func (s *productService) Get(ctx context.Context, productID string) (*models.Product, error) {
	if productID == "" {
		return nil, ErrInvalidProduct
	}
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product '%s': %w", productID, err)
	}
	return product, nil
}

// Create adds a product to the catalog. Name and a positive price are
// mandatory; stock defaults to 0 and active to true.
func (s *productService) Create(ctx context.Context, req models.CreateProductRequest) (*models.Product, error) {
	if req.Name == "" || req.Price <= 0 {
		return nil, ErrInvalidPrice
	}
	if req.Stock < 0 {
		req.Stock = 0
	}

	product := &models.Product{
		Name:        req.Name,
		Price:       req.Price,
		Stock:       req.Stock,
		ImageURL:    req.ImageURL,
		Description: req.Description,
		Tags:        req.Tags,
		Active:      req.Active,
		CreatedAt:   time.Now().UTC(),
	}
	if product.Tags == nil {
		product.Tags = []string{}
	}

	if _, err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	s.invalidate()
	return product, nil
}

// Update applies the allowlisted changes to a product. Stock edits here are
// an admin restock/correction; sales go through the ledger transaction.
func (s *productService) Update(ctx context.Context, productID string, req models.UpdateProductRequest) (*models.Product, error) {
	if productID == "" {
		return nil, ErrInvalidProduct
	}
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product '%s' for update: %w", productID, err)
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Price != nil {
		if *req.Price <= 0 {
			return nil, ErrInvalidPrice
		}
		product.Price = *req.Price
	}
	if req.Stock != nil {
		if *req.Stock < 0 {
			return nil, ErrInvalidAmount
		}
		product.Stock = *req.Stock
	}
	if req.ImageURL != nil {
		product.ImageURL = *req.ImageURL
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Tags != nil {
		product.Tags = *req.Tags
	}
	if req.Active != nil {
		product.Active = req.Active
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to update product '%s': %w", productID, err)
	}
	s.invalidate()
	return product, nil
}

// Delete removes a product from the catalog.
func (s *productService) Delete(ctx context.Context, productID string) error {
	if productID == "" {
		return ErrInvalidProduct
	}
	if err := s.productRepo.Delete(ctx, productID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return ErrProductNotFound
		}
		return fmt.Errorf("failed to delete product '%s': %w", productID, err)
	}
	s.invalidate()
	return nil
}

func (s *productService) invalidate() {
	for _, key := range []string{productCacheKeyActive, productCacheKeyAll} {
		if err := s.cache.Delete(key); err != nil && s.logger != nil {
			s.logger.Warn("Failed to invalidate product cache", zap.String("key", key), zap.Error(err))
		}
	}
}
