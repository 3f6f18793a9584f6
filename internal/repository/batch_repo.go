package repository

import (
	"time"

	"magazine-pro-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BatchRepository interface {
	BulkInsert(tx *gorm.DB, batches []model.Batch) error
	FindByProduct(productID uuid.UUID) ([]model.Batch, error)
	ExpiringWithin(days int) ([]model.Batch, error)
	DeleteByProduct(tx *gorm.DB, productID uuid.UUID) error
	Clear(tx *gorm.DB) error
}

type batchRepo struct {
	db *gorm.DB
}

func NewBatchRepo(db *gorm.DB) BatchRepository {
	return &batchRepo{db}
}

func (r *batchRepo) BulkInsert(tx *gorm.DB, batches []model.Batch) error {
	if len(batches) == 0 {
		return nil
	}
	return tx.Create(&batches).Error
}

func (r *batchRepo) FindByProduct(productID uuid.UUID) ([]model.Batch, error) {
	var batches []model.Batch
	err := r.db.Where("product_id = ?", productID).Order("expiry_date").Find(&batches).Error
	return batches, err
}

func (r *batchRepo) ExpiringWithin(days int) ([]model.Batch, error) {
	now := time.Now()
	var batches []model.Batch
	err := r.db.
		Where("expiry_date BETWEEN ? AND ?", now, now.AddDate(0, 0, days)).
		Order("expiry_date").
		Find(&batches).Error
	return batches, err
}

func (r *batchRepo) DeleteByProduct(tx *gorm.DB, productID uuid.UUID) error {
	return tx.Delete(&model.Batch{}, "product_id = ?", productID).Error
}

func (r *batchRepo) Clear(tx *gorm.DB) error {
	return tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.Batch{}).Error
}
