package service

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/lamanda20/ecommerce-backend/internal/cartstore"
	"github.com/lamanda20/ecommerce-backend/internal/domain"
	"github.com/lamanda20/ecommerce-backend/internal/events"
	"github.com/lamanda20/ecommerce-backend/internal/repository"
)

// ErrInvalidVariant is returned when the supplied variant is not in the
// product's declared variant set.
var ErrInvalidVariant = errors.New("invalid variant")

// ProductFinder is the slice of the catalog the cart engine depends on.
type ProductFinder interface {
	FindProductByID(ctx context.Context, id int64) (*domain.Product, error)
}

// CartService owns the cart registry and the add/remove/clear/view
// operations. View enrichment goes through a circuit breaker so a broken
// catalog degrades items to a null product instead of stalling requests.
type CartService struct {
	store   cartstore.Store
	catalog ProductFinder
	events  events.Publisher
	breaker *gobreaker.CircuitBreaker[*domain.Product]
}

func NewCartService(store cartstore.Store, catalog ProductFinder, publisher events.Publisher) *CartService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &CartService{
		store:   store,
		catalog: catalog,
		events:  publisher,
		breaker: gobreaker.NewCircuitBreaker[*domain.Product](gobreaker.Settings{
			Name: "catalog-lookup",
			// Not-found is a valid answer, only infrastructure errors
			// should trip the breaker.
			IsSuccessful: func(err error) bool {
				return err == nil || errors.Is(err, repository.ErrProductNotFound)
			},
		}),
	}
}

// ProductSummary is the projection attached to view items.
type ProductSummary struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	ImageURL string  `json:"imageUrl"`
}

// EnrichedItem is a line item joined with its catalog record. Product is
// null when the referenced product no longer exists or the lookup failed.
type EnrichedItem struct {
	domain.CartItem
	Product *ProductSummary `json:"product"`
}

type CartView struct {
	CartID string         `json:"cartId"`
	Items  []EnrichedItem `json:"items"`
}

// ViewCart returns the cart joined with catalog data. Per-item lookups run
// concurrently; results are reassembled in the original line order. A
// failed lookup degrades that single item, never the response.
func (s *CartService) ViewCart(ctx context.Context, cartID string) *CartView {
	items := s.store.Items(cartID)

	enriched := make([]EnrichedItem, len(items))
	var wg sync.WaitGroup
	for i, item := range items {
		wg.Add(1)
		go func(i int, item domain.CartItem) {
			defer wg.Done()
			enriched[i] = EnrichedItem{
				CartItem: item,
				Product:  s.lookupSummary(ctx, item.ProductID),
			}
		}(i, item)
	}
	wg.Wait()

	return &CartView{CartID: cartID, Items: enriched}
}

func (s *CartService) lookupSummary(ctx context.Context, productID int64) *ProductSummary {
	product, err := s.breaker.Execute(func() (*domain.Product, error) {
		return s.catalog.FindProductByID(ctx, productID)
	})
	if err != nil {
		if !errors.Is(err, repository.ErrProductNotFound) {
			log.Printf("catalog lookup for product %d failed: %v", productID, err)
		}
		return nil
	}
	return &ProductSummary{
		ID:       product.ID,
		Name:     product.Name,
		Price:    product.Price,
		ImageURL: product.ImageURL,
	}
}

// AddItem validates the product reference and variant, then merges the
// quantity into the cart. The variant check is fail-open: a stored variant
// encoding that does not parse places no constraint on the add.
func (s *CartService) AddItem(ctx context.Context, cartID string, productID int64, variant *string, quantity int) ([]domain.CartItem, error) {
	product, err := s.catalog.FindProductByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if variant != nil && *variant != "" {
		if names := product.VariantNames(); len(names) > 0 && !product.HasVariant(*variant) {
			return nil, ErrInvalidVariant
		}
	}

	items := s.store.AddItem(cartID, productID, variant, quantity)
	s.publish(events.Event{
		Type:      events.TypeItemAdded,
		CartID:    cartID,
		ProductID: productID,
		Variant:   variant,
		Quantity:  quantity,
	})
	return items, nil
}

// RemoveItem deletes or decrements the (productID, variant) line. A
// quantity of zero removes the whole line. The product reference is not
// revalidated against the catalog on this path.
func (s *CartService) RemoveItem(ctx context.Context, cartID string, productID int64, variant *string, quantity int) ([]domain.CartItem, error) {
	items, err := s.store.RemoveItem(cartID, productID, variant, quantity)
	if err != nil {
		return nil, err
	}

	s.publish(events.Event{
		Type:      events.TypeItemRemoved,
		CartID:    cartID,
		ProductID: productID,
		Variant:   variant,
		Quantity:  quantity,
	})
	return items, nil
}

// ClearCart resets the cart to empty. Always succeeds.
func (s *CartService) ClearCart(ctx context.Context, cartID string) []domain.CartItem {
	items := s.store.Clear(cartID)
	s.publish(events.Event{
		Type:   events.TypeCleared,
		CartID: cartID,
	})
	return items
}

// publish is fire-and-forget: the mutation already happened and must not
// depend on the broker.
func (s *CartService) publish(e events.Event) {
	e.At = time.Now()
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if err := s.events.Publish(ctx, e); err != nil {
			log.Printf("publish cart event error: %v \n", err)
		}
	}()
}
