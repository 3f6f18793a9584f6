package model

import (
	"gorm.io/datatypes"
)

// DefaultReorderPoint classifies a product as low-stock when it carries no
// explicit reorder point of its own.
const DefaultReorderPoint = 10

type Product struct {
	BaseModel
	SKU      string  `gorm:"type:varchar(50);uniqueIndex;not null" json:"sku" validate:"required"`
	Name     string  `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Price    float64 `gorm:"default:0" json:"price" validate:"gte=0"`
	Quantity int     `gorm:"default:0" json:"quantity" validate:"gte=0"`

	// Optional descriptive attributes
	Category     string  `gorm:"type:varchar(100)" json:"category,omitempty"`
	Supplier     string  `gorm:"type:varchar(255)" json:"supplier,omitempty"`
	Cost         float64 `gorm:"default:0" json:"cost,omitempty"`
	ReorderPoint *int    `json:"reorder_point,omitempty"`
	ImageURL     string  `gorm:"type:text" json:"image_url,omitempty"`

	// Extra scan targets besides the SKU itself, stored as a JSON string list
	Barcodes datatypes.JSON `json:"barcodes,omitempty"`

	// Expiry lots; removed together with the product
	Batches []Batch `gorm:"constraint:OnDelete:CASCADE" json:"batches,omitempty"`
}

// IsLowStock reports whether the quantity has fallen to or below the
// product's reorder point (DefaultReorderPoint when unset).
func (p *Product) IsLowStock() bool {
	threshold := DefaultReorderPoint
	if p.ReorderPoint != nil {
		threshold = *p.ReorderPoint
	}
	return p.Quantity <= threshold
}

// TotalValue is quantity * price, used by the export report and dashboard.
func (p *Product) TotalValue() float64 {
	return float64(p.Quantity) * p.Price
}
