package model

import (
	"time"

	"github.com/google/uuid"
)

// Batch is an expiry lot attached to a product. The authoritative stock
// count lives on Product.Quantity; batch quantities only describe how the
// stock is split across expiry dates.
type Batch struct {
	BaseModel
	ProductID  uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id" validate:"uuid_required"`
	Quantity   int       `gorm:"not null" json:"quantity" validate:"gte=0"`
	ExpiryDate time.Time `gorm:"not null;index" json:"expiry_date" validate:"required"`
	BatchCode  string    `gorm:"type:varchar(50)" json:"batch_code"`
}

func (Batch) TableName() string {
	return "batches"
}
