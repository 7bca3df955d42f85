package domain

import "encoding/json"

// Product is a catalog record. Variants holds the stored encoding as-is:
// a JSON string array, e.g. `["S","M","L"]`. The encoding is written by
// the catalog and may be malformed; readers must treat a malformed value
// as "no variant constraint".
type Product struct {
	ID       int64
	Name     string
	Price    float64
	ImageURL string
	Category string
	InStock  bool
	Variants string
}

// VariantNames parses the stored variant encoding. A missing or malformed
// encoding yields nil rather than an error.
func (p *Product) VariantNames() []string {
	if p.Variants == "" {
		return nil
	}
	var names []string
	if err := json.Unmarshal([]byte(p.Variants), &names); err != nil {
		return nil
	}
	return names
}

// HasVariant reports whether v is one of the product's declared variants.
func (p *Product) HasVariant(v string) bool {
	for _, name := range p.VariantNames() {
		if name == v {
			return true
		}
	}
	return false
}
