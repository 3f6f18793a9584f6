package repository

import (
	"time"

	"magazine-pro-api/internal/model"

	"gorm.io/gorm"
)

// MaxAuditWindow caps how many recent entries a single listing returns.
const MaxAuditWindow = 100

type AuditLogRepository interface {
	Append(tx *gorm.DB, entry *model.AuditLog) error
	List(limit int) ([]model.AuditLog, error)
	Count() (int64, error)
	GetStockMovement(startDate, endDate time.Time) ([]StockMovementData, error)
	Clear(tx *gorm.DB) error
}

// StockMovementData is one day of aggregated scan activity for the chart.
type StockMovementData struct {
	Date     string `json:"date"`
	Inbound  int    `json:"inbound"`
	Outbound int    `json:"outbound"`
}

type auditLogRepo struct {
	db *gorm.DB
}

func NewAuditLogRepo(db *gorm.DB) AuditLogRepository {
	return &auditLogRepo{db}
}

// Append writes one entry inside the caller's transaction so the audit row
// commits or rolls back together with the mutation it describes.
func (r *auditLogRepo) Append(tx *gorm.DB, entry *model.AuditLog) error {
	return tx.Create(entry).Error
}

func (r *auditLogRepo) List(limit int) ([]model.AuditLog, error) {
	if limit <= 0 || limit > MaxAuditWindow {
		limit = MaxAuditWindow
	}
	var entries []model.AuditLog
	err := r.db.Order("created_at DESC").Limit(limit).Find(&entries).Error
	return entries, err
}

func (r *auditLogRepo) Count() (int64, error) {
	var count int64
	err := r.db.Model(&model.AuditLog{}).Count(&count).Error
	return count, err
}

// GetStockMovement aggregates scan deltas per day. Deltas are stored
// signed, so outbound flips the sign back to a positive magnitude.
func (r *auditLogRepo) GetStockMovement(startDate, endDate time.Time) ([]StockMovementData, error) {
	var results []StockMovementData

	rows, err := r.db.Model(&model.AuditLog{}).
		Select(`
			DATE(created_at) as date,
			COALESCE(SUM(CASE WHEN action = 'SCAN_IN' THEN delta ELSE 0 END), 0) as inbound,
			COALESCE(SUM(CASE WHEN action = 'SCAN_OUT' THEN -delta ELSE 0 END), 0) as outbound
		`).
		Where("created_at BETWEEN ? AND ?", startDate, endDate).
		Group("DATE(created_at)").
		Order("date ASC").
		Rows()

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var data StockMovementData
		if err := rows.Scan(&data.Date, &data.Inbound, &data.Outbound); err != nil {
			return nil, err
		}
		results = append(results, data)
	}

	return results, nil
}

func (r *auditLogRepo) Clear(tx *gorm.DB) error {
	return tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.AuditLog{}).Error
}
