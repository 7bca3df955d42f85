package cache

import (
	"context"
	"errors"

	"github.com/lamanda20/ecommerce-backend/internal/domain"
)

type ProductCache interface {
	Get(ctx context.Context, productID int64) (*domain.Product, error)
	Set(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, productID int64) error
}

var ErrCacheMiss = errors.New("cache miss")
