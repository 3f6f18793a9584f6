package repository

import (
	"fmt"
	"testing"

	"magazine-pro-api/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.Role{}, &model.User{}, &model.Product{}, &model.Batch{}, &model.AuditLog{}))
	return db
}

func TestAdjustQuantityGuard(t *testing.T) {
	db := newTestDB(t)
	repo := NewProductRepo(db)

	product := &model.Product{SKU: "SKU-1", Name: "Widget", Quantity: 5}
	require.NoError(t, repo.Create(product))

	rows, err := repo.AdjustQuantity(db, product.ID, -5)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)

	// 0 - 1 would go negative: the WHERE guard rejects it
	rows, err = repo.AdjustQuantity(db, product.ID, -1)
	require.NoError(t, err)
	assert.Zero(t, rows)

	reloaded, err := repo.FindByID(product.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, reloaded.Quantity)

	// Unknown product affects nothing
	rows, err = repo.AdjustQuantity(db, uuid.New(), 3)
	require.NoError(t, err)
	assert.Zero(t, rows)
}

func TestFindByBarcode(t *testing.T) {
	db := newTestDB(t)
	repo := NewProductRepo(db)

	product := &model.Product{
		SKU:      "SKU-1",
		Name:     "Widget",
		Barcodes: datatypes.JSON([]byte(`["SKU-1","4006381333931"]`)),
	}
	require.NoError(t, repo.Create(product))

	bySKU, err := repo.FindByBarcode("SKU-1")
	require.NoError(t, err)
	assert.Equal(t, product.ID, bySKU.ID)

	byEAN, err := repo.FindByBarcode("4006381333931")
	require.NoError(t, err)
	assert.Equal(t, product.ID, byEAN.ID)

	_, err = repo.FindByBarcode("unknown-code")
	assert.Error(t, err)
}

func TestFindByBarcodeEscapesWildcards(t *testing.T) {
	db := newTestDB(t)
	repo := NewProductRepo(db)

	require.NoError(t, repo.Create(&model.Product{
		SKU:      "SKU-1",
		Name:     "Widget",
		Barcodes: datatypes.JSON([]byte(`["SKU-1"]`)),
	}))

	// A garbled scanner read full of LIKE metacharacters must not
	// wildcard-match an unrelated product
	for _, code := range []string{"%", "_", "SKU-_", "%SKU-1%", `\`} {
		_, err := repo.FindByBarcode(code)
		assert.Error(t, err, "code %q must not match anything", code)
	}

	// A stored barcode that happens to contain metacharacters still
	// resolves by exact membership
	require.NoError(t, repo.Create(&model.Product{
		SKU:      "SKU-2",
		Name:     "Odd Label",
		Barcodes: datatypes.JSON([]byte(`["AB_1%"]`)),
	}))

	found, err := repo.FindByBarcode("AB_1%")
	require.NoError(t, err)
	assert.Equal(t, "SKU-2", found.SKU)

	_, err = repo.FindByBarcode("AB91x")
	assert.Error(t, err)
}

func TestUpsertBySKUMergesExisting(t *testing.T) {
	db := newTestDB(t)
	repo := NewProductRepo(db)

	require.NoError(t, repo.Create(&model.Product{SKU: "SKU-1", Name: "Old Name", Quantity: 2}))

	require.NoError(t, repo.UpsertBySKU(db, []model.Product{
		{SKU: "SKU-1", Name: "New Name", Price: 3.5, Quantity: 8},
		{SKU: "SKU-2", Name: "Fresh", Price: 1, Quantity: 1},
	}))

	var count int64
	require.NoError(t, db.Model(&model.Product{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)

	merged, err := repo.FindBySKU("SKU-1")
	require.NoError(t, err)
	assert.Equal(t, "New Name", merged.Name)
	assert.Equal(t, 8, merged.Quantity)
}

func TestGetStatsLowStockThresholds(t *testing.T) {
	db := newTestDB(t)
	repo := NewProductRepo(db)

	rp := 3
	require.NoError(t, repo.Create(&model.Product{SKU: "A", Name: "A", Quantity: 10, Price: 2}))               // low on default threshold
	require.NoError(t, repo.Create(&model.Product{SKU: "B", Name: "B", Quantity: 11, Price: 1}))               // fine
	require.NoError(t, repo.Create(&model.Product{SKU: "C", Name: "C", Quantity: 5, ReorderPoint: &rp}))       // fine on its own threshold
	require.NoError(t, repo.Create(&model.Product{SKU: "D", Name: "D", Quantity: 2, ReorderPoint: &rp, Price: 4})) // low

	stats, err := repo.GetStats()
	require.NoError(t, err)
	assert.Equal(t, int64(4), stats.TotalProducts)
	assert.Equal(t, int64(2), stats.LowStockCount)
	assert.InDelta(t, 10*2+11*1+2*4, stats.TotalValuation, 0.001)
}
