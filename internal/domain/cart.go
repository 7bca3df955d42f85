package domain

// CartItem is one line of a cart. Variant is a pointer because an absent
// variant and an empty-string variant are distinct merge keys.
type CartItem struct {
	ProductID int64   `json:"productId"`
	Variant   *string `json:"variant,omitempty"`
	Quantity  int     `json:"quantity"`
}

// MatchesKey reports whether the item has the given (productID, variant)
// merge key. Two variants match when both are absent or both hold the
// same value.
func (i CartItem) MatchesKey(productID int64, variant *string) bool {
	if i.ProductID != productID {
		return false
	}
	if i.Variant == nil || variant == nil {
		return i.Variant == nil && variant == nil
	}
	return *i.Variant == *variant
}

// Cart is an ordered list of line items under one identifier. Items keep
// insertion order; removal is the only reordering.
type Cart struct {
	ID    string     `json:"cartId"`
	Items []CartItem `json:"items"`
}
