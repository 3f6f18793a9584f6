package service

import (
	"strings"
	"testing"

	"magazine-pro-api/internal/model"
	"magazine-pro-api/internal/repository"

	"github.com/360EntSecGroup-Skylar/excelize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestAdmin(t *testing.T) (AdminService, LedgerService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	pRepo := repository.NewProductRepo(db)
	bRepo := repository.NewBatchRepo(db)
	aRepo := repository.NewAuditLogRepo(db)
	admin := NewAdminService(pRepo, bRepo, aRepo, db, nil)
	ledger := NewLedgerService(pRepo, bRepo, aRepo, db, nil)
	return admin, ledger, db
}

func TestImportCSVUpsertsBySKU(t *testing.T) {
	admin, _, db := newTestAdmin(t)
	seedProduct(t, db, "SKU-1", 5)

	// Two rows share SKU-1: the last one wins and merges into the existing
	// product instead of creating a second row.
	csv := strings.Join([]string{
		"SKU,Name,Price,Qty,Expiry",
		"SKU-1,First Pass,1.50,3,2030-01-01",
		"SKU-1,Second Pass,2.75,9,2030-06-01",
		"SKU-2,Brand New,4.00,1,",
	}, "\n")

	summary, err := admin.Import([]byte(csv), "stock.csv", Actor{Email: "admin@example.com"})
	require.NoError(t, err)
	assert.Equal(t, 3, summary.RowsProcessed)
	assert.Equal(t, 2, summary.ProductsUpserted)
	assert.Equal(t, 2, summary.BatchesCreated)

	var count int64
	require.NoError(t, db.Model(&model.Product{}).Where("sku = ?", "SKU-1").Count(&count).Error)
	assert.Equal(t, int64(1), count, "upsert on sku must not duplicate the product")

	var merged model.Product
	require.NoError(t, db.First(&merged, "sku = ?", "SKU-1").Error)
	assert.Equal(t, "Second Pass", merged.Name)
	assert.Equal(t, 2.75, merged.Price)
	assert.Equal(t, 9, merged.Quantity)

	var lots []model.Batch
	require.NoError(t, db.Where("product_id = ?", merged.ID).Find(&lots).Error)
	require.Len(t, lots, 1)
	assert.True(t, strings.HasPrefix(lots[0].BatchCode, "IMP-"))
}

func TestImportCSVHeaderVariants(t *testing.T) {
	admin, _, db := newTestAdmin(t)

	// "product name", "quantity" and "date" in mixed case
	csv := strings.Join([]string{
		"sku,Product Name,PRICE,Quantity,Date",
		"SKU-7,Canned Soup,0.99,12,2031-03-15",
	}, "\n")

	_, err := admin.Import([]byte(csv), "upload.CSV", Actor{})
	require.NoError(t, err)

	var product model.Product
	require.NoError(t, db.First(&product, "sku = ?", "SKU-7").Error)
	assert.Equal(t, "Canned Soup", product.Name)
	assert.Equal(t, 12, product.Quantity)
}

func TestImportWorkbook(t *testing.T) {
	admin, _, db := newTestAdmin(t)

	f := excelize.NewFile()
	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	headers := []string{"SKU", "Name", "Price", "Qty", "Expiry"}
	cells := [][]interface{}{
		{"SKU-10", "Olive Oil", 8.5, 6, "2029-12-31"},
		{"", "No SKU means skipped", 1, 1, ""},
	}
	cols := []string{"A", "B", "C", "D", "E"}
	for i, h := range headers {
		f.SetCellValue(sheet, cols[i]+"1", h)
	}
	for r, row := range cells {
		for i, v := range row {
			f.SetCellValue(sheet, cols[i]+string(rune('2'+r)), v)
		}
	}
	var buf strings.Builder
	require.NoError(t, f.Write(&buf))

	summary, err := admin.Import([]byte(buf.String()), "stock.xlsx", Actor{})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.ProductsUpserted)

	var product model.Product
	require.NoError(t, db.First(&product, "sku = ?", "SKU-10").Error)
	assert.Equal(t, "Olive Oil", product.Name)
	assert.Equal(t, 6, product.Quantity)
}

func TestImportRejectsEmptyFile(t *testing.T) {
	admin, _, _ := newTestAdmin(t)

	_, err := admin.Import([]byte("sku,name,price\n"), "empty.csv", Actor{})
	assert.Error(t, err)
}

func TestExportCSV(t *testing.T) {
	admin, _, db := newTestAdmin(t)
	seedProduct(t, db, "SKU-1", 4) // price 2.5 -> value 10

	data, filename, err := admin.ExportReport("csv")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(filename, ".csv"))

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Product,SKU,Price,Total Qty,Value", lines[0])
	assert.Contains(t, lines[1], "SKU-1")
	assert.Contains(t, lines[1], "10")
}

func TestExportWorkbook(t *testing.T) {
	admin, _, db := newTestAdmin(t)
	seedProduct(t, db, "SKU-1", 4)

	data, filename, err := admin.ExportReport("xlsx")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(filename, ".xlsx"))
	assert.NotEmpty(t, data)
}

func TestClearAllData(t *testing.T) {
	admin, ledger, db := newTestAdmin(t)
	p := seedProduct(t, db, "SKU-1", 5)
	_, err := ledger.ScanIn(p.ID, 3, Actor{Email: "op@example.com"})
	require.NoError(t, err)
	require.NoError(t, db.Create(&model.Batch{ProductID: p.ID, Quantity: 3, ExpiryDate: p.CreatedAt.AddDate(1, 0, 0)}).Error)

	require.NoError(t, admin.ClearAllData(Actor{Email: "admin@example.com"}))

	var products, batches, logs int64
	require.NoError(t, db.Model(&model.Product{}).Count(&products).Error)
	require.NoError(t, db.Model(&model.Batch{}).Count(&batches).Error)
	require.NoError(t, db.Model(&model.AuditLog{}).Count(&logs).Error)
	assert.Zero(t, products)
	assert.Zero(t, batches)
	assert.Zero(t, logs)
}
