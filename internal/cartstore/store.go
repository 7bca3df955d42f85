package cartstore

import (
	"errors"

	"github.com/lamanda20/ecommerce-backend/internal/domain"
)

// ErrItemNotFound is returned when a (productID, variant) key is not
// present in the cart.
var ErrItemNotFound = errors.New("item not in cart")

// Store is the process-wide cart registry. Carts are created lazily on
// first reference and live until the process exits; there is no eviction.
// Every method returns a snapshot of the cart after the operation, so
// callers never hold a reference into shared state.
type Store interface {
	// Items returns the cart's line items, creating an empty cart if the
	// id was never seen.
	Items(cartID string) []domain.CartItem

	// AddItem merges quantity into an existing (productID, variant) line
	// or appends a new line at the end.
	AddItem(cartID string, productID int64, variant *string, quantity int) []domain.CartItem

	// RemoveItem deletes or decrements the (productID, variant) line.
	// quantity <= 0 removes the line outright; a quantity at or above the
	// stored amount removes it too, otherwise the stored amount is
	// decremented in place.
	RemoveItem(cartID string, productID int64, variant *string, quantity int) ([]domain.CartItem, error)

	// Clear resets the cart to empty, creating the registry entry if absent.
	Clear(cartID string) []domain.CartItem
}
