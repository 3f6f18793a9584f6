package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type AuditAction string

const (
	ActionScanIn  AuditAction = "SCAN_IN"
	ActionScanOut AuditAction = "SCAN_OUT"
	ActionAdjust  AuditAction = "ADJUST"
	ActionCreate  AuditAction = "CREATE"
	ActionUpdate  AuditAction = "UPDATE"
	ActionDelete  AuditAction = "DELETE"
)

// AuditLog is one immutable record of a single ledger mutation. Rows are
// appended in the same database transaction as the mutation they describe
// and are never updated; the only delete path is the administrative reset.
type AuditLog struct {
	ID        uuid.UUID   `gorm:"type:uuid;primary_key;" json:"id"`
	CreatedAt time.Time   `gorm:"index" json:"created_at"`
	UserEmail string      `gorm:"type:varchar(255)" json:"user_email,omitempty"`
	Action    AuditAction `gorm:"type:varchar(20);not null;index" json:"action"`

	// Quantity delta and resulting total as first-class columns so movement
	// reports can aggregate without parsing Details. Zero for plain CRUD.
	Delta    int `json:"delta"`
	NewTotal int `json:"new_total"`

	// Opaque structured payload: product identity, old/new values, reason.
	Details datatypes.JSON `json:"details,omitempty"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

func (l *AuditLog) BeforeCreate(tx *gorm.DB) (err error) {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return
}
