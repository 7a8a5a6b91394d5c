package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/himalayanBull/RameshOrchards/internal/entity"
	"github.com/himalayanBull/RameshOrchards/internal/repository"
)

const productCacheTTL = 10 * time.Minute

// ProductCatalog is the repository surface the catalog service reads from.
type ProductCatalog interface {
	GetProductByID(ctx context.Context, id int) (*entity.Product, error)
	ListProducts(ctx context.Context, category, fruitType string) ([]entity.Product, error)
	AdjustStock(ctx context.Context, id, delta int) error
}

// ProductService serves the catalog with a Redis read-through cache and
// applies stock adjustments coming from the order event consumer.
type ProductService struct {
	catalog ProductCatalog
	rdb     *redis.Client
}

func NewProductService(catalog ProductCatalog, rdb *redis.Client) *ProductService {
	return &ProductService{catalog: catalog, rdb: rdb}
}

// GetProduct retrieves one product, preferring the cache.
func (p *ProductService) GetProduct(ctx context.Context, productID int) (*entity.Product, error) {
	key := fmt.Sprintf("product:%d", productID)

	cached, err := p.rdb.Get(ctx, key).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		logger.Error().Err(err).Msgf("Error getting product %d from cache", productID)
	}
	if cached != "" {
		var product entity.Product
		if err := json.Unmarshal([]byte(cached), &product); err == nil {
			return &product, nil
		}
		logger.Warn().Msgf("Dropping unreadable cache entry for product %d", productID)
	}

	product, err := p.catalog.GetProductByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	p.cacheProduct(ctx, product)
	return product, nil
}

// ListProducts returns the catalog with optional category and fruit-type
// filters. List reads go straight to the store; only per-product lookups are
// cached.
func (p *ProductService) ListProducts(ctx context.Context, category, fruitType string) ([]entity.Product, error) {
	return p.catalog.ListProducts(ctx, category, fruitType)
}

// ReserveStock subtracts kilograms from a product's stock when an order is
// placed.
func (p *ProductService) ReserveStock(ctx context.Context, productID, kilograms int) error {
	return p.adjustStock(ctx, productID, -kilograms)
}

// ReleaseStock returns kilograms to a product's stock when an order is
// cancelled.
func (p *ProductService) ReleaseStock(ctx context.Context, productID, kilograms int) error {
	return p.adjustStock(ctx, productID, kilograms)
}

// Restock adds kilograms from the orchard side.
func (p *ProductService) Restock(ctx context.Context, productID, kilograms int) (*entity.Product, error) {
	if err := p.adjustStock(ctx, productID, kilograms); err != nil {
		return nil, err
	}
	return p.GetProduct(ctx, productID)
}

func (p *ProductService) adjustStock(ctx context.Context, productID, delta int) error {
	if err := p.catalog.AdjustStock(ctx, productID, delta); err != nil {
		logger.Error().Err(err).Msgf("Error adjusting stock for product %d", productID)
		return err
	}

	// Refresh the cache from the store so readers see the new stock.
	product, err := p.catalog.GetProductByID(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return err
		}
		logger.Error().Err(err).Msgf("Error reloading product %d after stock change", productID)
		return nil
	}
	p.cacheProduct(ctx, product)
	return nil
}

func (p *ProductService) cacheProduct(ctx context.Context, product *entity.Product) {
	key := fmt.Sprintf("product:%d", product.ID)
	payload, err := json.Marshal(product)
	if err != nil {
		return
	}
	if err := p.rdb.Set(ctx, key, payload, productCacheTTL).Err(); err != nil {
		logger.Error().Err(err).Msgf("Error setting product %d in cache", product.ID)
	}
}
