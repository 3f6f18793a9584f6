package repository

import (
	"strings"

	"magazine-pro-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductRepository interface {
	Create(product *model.Product) error
	FindAll() ([]model.Product, error)
	FindByID(id uuid.UUID) (*model.Product, error)
	FindBySKU(sku string) (*model.Product, error)
	FindByBarcode(code string) (*model.Product, error)
	Update(product *model.Product) error
	Delete(tx *gorm.DB, id uuid.UUID) error
	AdjustQuantity(tx *gorm.DB, id uuid.UUID, delta int) (int64, error)
	SetQuantity(tx *gorm.DB, id uuid.UUID, quantity int) error
	UpsertBySKU(tx *gorm.DB, products []model.Product) error
	GetStats() (*ProductStats, error)
	Clear(tx *gorm.DB) error
}

// ProductStats is the dashboard overview of the catalog.
type ProductStats struct {
	TotalProducts  int64   `json:"total_products"`
	LowStockCount  int64   `json:"low_stock_count"`
	TotalValuation float64 `json:"total_valuation"`
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) Create(product *model.Product) error {
	return r.db.Create(product).Error
}

func (r *productRepo) FindAll() ([]model.Product, error) {
	var products []model.Product
	err := r.db.Order("name").Find(&products).Error
	return products, err
}

func (r *productRepo) FindByID(id uuid.UUID) (*model.Product, error) {
	var product model.Product
	err := r.db.First(&product, "id = ?", id).Error
	return &product, err
}

func (r *productRepo) FindBySKU(sku string) (*model.Product, error) {
	var product model.Product
	err := r.db.First(&product, "sku = ?", sku).Error
	return &product, err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// FindByBarcode matches the SKU first, then the optional barcodes list.
// The CAST keeps the containment check portable between the JSONB column on
// Postgres and the plain text column SQLite stores. The scanned code is
// escaped so LIKE metacharacters from a garbled read match literally and can
// never wildcard onto another product.
func (r *productRepo) FindByBarcode(code string) (*model.Product, error) {
	pattern := `%"` + likeEscaper.Replace(code) + `"%`
	var product model.Product
	err := r.db.
		Where(`sku = ? OR CAST(barcodes AS TEXT) LIKE ? ESCAPE '\'`, code, pattern).
		First(&product).Error
	return &product, err
}

func (r *productRepo) Update(product *model.Product) error {
	return r.db.Save(product).Error
}

func (r *productRepo) Delete(tx *gorm.DB, id uuid.UUID) error {
	return tx.Delete(&model.Product{}, "id = ?", id).Error
}

// AdjustQuantity applies a signed delta atomically. The non-negativity
// guard lives in the WHERE clause, so a concurrent scan can never drive the
// count below zero and two concurrent deltas never overwrite each other.
// Returns the number of rows affected; zero means the guard rejected the
// delta or the product does not exist.
func (r *productRepo) AdjustQuantity(tx *gorm.DB, id uuid.UUID, delta int) (int64, error) {
	res := tx.Model(&model.Product{}).
		Where("id = ? AND quantity + ? >= 0", id, delta).
		Update("quantity", gorm.Expr("quantity + ?", delta))
	return res.RowsAffected, res.Error
}

func (r *productRepo) SetQuantity(tx *gorm.DB, id uuid.UUID, quantity int) error {
	return tx.Model(&model.Product{}).
		Where("id = ?", id).
		Update("quantity", quantity).Error
}

// UpsertBySKU merges import rows with existing products on the sku unique
// key; an existing row takes the incoming field values.
func (r *productRepo) UpsertBySKU(tx *gorm.DB, products []model.Product) error {
	if len(products) == 0 {
		return nil
	}
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "sku"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "price", "quantity", "barcodes", "updated_at"}),
	}).Create(&products).Error
}

func (r *productRepo) GetStats() (*ProductStats, error) {
	var stats ProductStats

	if err := r.db.Model(&model.Product{}).Count(&stats.TotalProducts).Error; err != nil {
		return nil, err
	}

	if err := r.db.Model(&model.Product{}).
		Where("quantity <= COALESCE(reorder_point, ?)", model.DefaultReorderPoint).
		Count(&stats.LowStockCount).Error; err != nil {
		return nil, err
	}

	if err := r.db.Model(&model.Product{}).
		Select("COALESCE(SUM(quantity * price), 0)").
		Scan(&stats.TotalValuation).Error; err != nil {
		return nil, err
	}

	return &stats, nil
}

func (r *productRepo) Clear(tx *gorm.DB) error {
	return tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.Product{}).Error
}
