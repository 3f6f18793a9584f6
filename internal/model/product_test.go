package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsLowStockDefaultThreshold(t *testing.T) {
	p := Product{Quantity: DefaultReorderPoint}
	assert.True(t, p.IsLowStock())

	p.Quantity = DefaultReorderPoint + 1
	assert.False(t, p.IsLowStock())
}

func TestIsLowStockCustomReorderPoint(t *testing.T) {
	threshold := 50
	p := Product{Quantity: 40, ReorderPoint: &threshold}
	assert.True(t, p.IsLowStock())

	p.Quantity = 51
	assert.False(t, p.IsLowStock())
}

func TestTotalValue(t *testing.T) {
	p := Product{Quantity: 4, Price: 2.5}
	assert.Equal(t, 10.0, p.TotalValue())
}
