package catalog

import (
	"context"
	"errors"
	"fmt"
	"log"

	"golang.org/x/sync/singleflight"

	"github.com/lamanda20/ecommerce-backend/internal/cache"
	"github.com/lamanda20/ecommerce-backend/internal/domain"
	"github.com/lamanda20/ecommerce-backend/internal/repository"
)

// Service is the catalog accessor: product reads go through an optional
// redis cache, writes invalidate it. A nil cache disables caching.
type Service struct {
	repo  repository.ProductRepository
	cache cache.ProductCache
	sfg   singleflight.Group // Prevents cache stampede
}

func NewService(repo repository.ProductRepository, cache cache.ProductCache) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
	}
}

// FindProductByID returns the product or repository.ErrProductNotFound.
// Not-found results are never cached.
func (s *Service) FindProductByID(ctx context.Context, id int64) (*domain.Product, error) {
	if s.cache == nil {
		return s.repo.GetProduct(ctx, id)
	}

	// Use singleflight to prevent multiple concurrent cache misses for same key
	v, err, _ := s.sfg.Do(fmt.Sprintf("product:%d", id), func() (interface{}, error) {

		product, err := s.cache.Get(ctx, id)
		if err == nil {
			return product, nil // product is in cache
		}

		if !errors.Is(err, cache.ErrCacheMiss) {
			log.Printf("cache get error: %v \n", err) // log cache error but continue
		}

		product, errGet := s.repo.GetProduct(ctx, id)
		if errGet != nil {
			return nil, errGet
		}

		// set cache
		go func() {
			errSet := s.cache.Set(context.Background(), product)
			if errSet != nil {
				log.Printf("cache set error: %v \n", errSet)
			}
		}()

		return product, nil
	})

	if err != nil {
		return nil, err
	}

	return v.(*domain.Product), nil
}

// ListProducts returns the catalog, optionally filtered by category.
// The list path is uncached.
func (s *Service) ListProducts(ctx context.Context, category string) ([]*domain.Product, error) {
	return s.repo.GetAllProducts(ctx, category)
}

// CreateProduct inserts a product and drops any stale cache entry for the
// assigned id.
func (s *Service) CreateProduct(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	created, err := s.repo.CreateProduct(ctx, p)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if errInvalidate := s.cache.Delete(ctx, created.ID); errInvalidate != nil {
			log.Printf("cache invalidate error: %v \n", errInvalidate)
		}
	}

	return created, nil
}
