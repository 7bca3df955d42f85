package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestMatchesKey(t *testing.T) {
	item := CartItem{ProductID: 1, Variant: strPtr("M"), Quantity: 1}

	assert.True(t, item.MatchesKey(1, strPtr("M")))
	assert.False(t, item.MatchesKey(1, strPtr("L")))
	assert.False(t, item.MatchesKey(2, strPtr("M")))
	assert.False(t, item.MatchesKey(1, nil))

	noVariant := CartItem{ProductID: 1, Quantity: 1}
	assert.True(t, noVariant.MatchesKey(1, nil))
	assert.False(t, noVariant.MatchesKey(1, strPtr("M")))
	// Absent and empty-string variants are different keys.
	assert.False(t, noVariant.MatchesKey(1, strPtr("")))
}
