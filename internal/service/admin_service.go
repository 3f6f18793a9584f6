package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"magazine-pro-api/internal/model"
	"magazine-pro-api/internal/repository"
	"magazine-pro-api/internal/ws"
	"magazine-pro-api/pkg/logger"
	"magazine-pro-api/pkg/metrics"
	"magazine-pro-api/pkg/spreadsheet"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var ErrNoImportRows = errors.New("no importable rows found in file")

// ImportSummary reports what a bulk import did.
type ImportSummary struct {
	RowsProcessed    int `json:"rows_processed"`
	ProductsUpserted int `json:"products_upserted"`
	BatchesCreated   int `json:"batches_created"`
}

// AdminService backs the admin panel: bulk import/export and the
// destructive full reset. Callers are expected to have passed the ADMIN
// role gate already.
type AdminService interface {
	Import(data []byte, filename string, actor Actor) (*ImportSummary, error)
	ExportReport(format string) ([]byte, string, error)
	ClearAllData(actor Actor) error
}

type adminService struct {
	productRepo repository.ProductRepository
	batchRepo   repository.BatchRepository
	auditRepo   repository.AuditLogRepository
	db          *gorm.DB
	wsHub       *ws.Hub
}

func NewAdminService(pRepo repository.ProductRepository, bRepo repository.BatchRepository, aRepo repository.AuditLogRepository, db *gorm.DB, hub *ws.Hub) AdminService {
	return &adminService{
		productRepo: pRepo,
		batchRepo:   bRepo,
		auditRepo:   aRepo,
		db:          db,
		wsHub:       hub,
	}
}

// Import parses an .xlsx or .csv file, dedupes rows by SKU (last row wins)
// and upserts products keyed on the sku unique index. Rows carrying stock
// and an expiry date additionally produce an expiry lot coded IMP-YYYYMMDD.
func (s *adminService) Import(data []byte, filename string, actor Actor) (*ImportSummary, error) {
	var rows []spreadsheet.ImportRow
	var err error
	if strings.HasSuffix(strings.ToLower(filename), ".csv") {
		rows, err = spreadsheet.ParseCSV(data)
	} else {
		rows, err = spreadsheet.ParseWorkbook(data)
	}
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNoImportRows
	}

	// Last occurrence of a SKU wins, and the upsert sees each SKU once
	bySKU := make(map[string]int)
	var deduped []spreadsheet.ImportRow
	for _, row := range rows {
		if i, seen := bySKU[row.SKU]; seen {
			deduped[i] = row
			continue
		}
		bySKU[row.SKU] = len(deduped)
		deduped = append(deduped, row)
	}

	batchCode := "IMP-" + time.Now().Format("20060102")
	summary := &ImportSummary{RowsProcessed: len(rows)}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		products := make([]model.Product, 0, len(deduped))
		for _, row := range deduped {
			barcodes, _ := json.Marshal([]string{row.SKU})
			products = append(products, model.Product{
				SKU:      row.SKU,
				Name:     row.Name,
				Price:    row.Price,
				Quantity: row.Quantity,
				Barcodes: datatypes.JSON(barcodes),
			})
		}
		if err := s.productRepo.UpsertBySKU(tx, products); err != nil {
			return err
		}
		summary.ProductsUpserted = len(products)

		// Map SKUs back to ids for the expiry lots
		skus := make([]string, 0, len(deduped))
		for _, row := range deduped {
			skus = append(skus, row.SKU)
		}
		var persisted []model.Product
		if err := tx.Where("sku IN ?", skus).Find(&persisted).Error; err != nil {
			return err
		}
		idBySKU := make(map[string]model.Product, len(persisted))
		for _, p := range persisted {
			idBySKU[p.SKU] = p
		}

		var batches []model.Batch
		for _, row := range deduped {
			if row.Quantity <= 0 {
				continue
			}
			p, ok := idBySKU[row.SKU]
			if !ok {
				continue
			}
			expiry := time.Now().AddDate(1, 0, 0)
			if row.Expiry != nil {
				expiry = *row.Expiry
			}
			batches = append(batches, model.Batch{
				ProductID:  p.ID,
				Quantity:   row.Quantity,
				ExpiryDate: expiry,
				BatchCode:  batchCode,
			})
		}
		if err := s.batchRepo.BulkInsert(tx, batches); err != nil {
			return err
		}
		summary.BatchesCreated = len(batches)
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.ImportedRows.Add(float64(summary.ProductsUpserted))
	s.wsHub.Publish("products", "UPDATE", nil)
	logger.Logger.Info().
		Str("user", actor.Email).
		Int("rows", summary.RowsProcessed).
		Int("products", summary.ProductsUpserted).
		Int("batches", summary.BatchesCreated).
		Msg("bulk import completed")
	return summary, nil
}

// ExportReport serializes the catalog (name, SKU, price, quantity, value)
// as xlsx or csv.
func (s *adminService) ExportReport(format string) ([]byte, string, error) {
	products, err := s.productRepo.FindAll()
	if err != nil {
		return nil, "", err
	}

	rows := make([]spreadsheet.ReportRow, 0, len(products))
	for _, p := range products {
		rows = append(rows, spreadsheet.ReportRow{
			Product:  p.Name,
			SKU:      p.SKU,
			Price:    p.Price,
			TotalQty: p.Quantity,
			Value:    p.TotalValue(),
		})
	}

	date := time.Now().Format("2006-01-02")
	if format == "csv" {
		data, err := spreadsheet.BuildCSV(rows)
		return data, fmt.Sprintf("inventory-report-%s.csv", date), err
	}
	data, err := spreadsheet.BuildWorkbook(rows)
	return data, fmt.Sprintf("inventory-report-%s.xlsx", date), err
}

// ClearAllData wipes audit_logs, batches and products in that order, in a
// single transaction. The audit log goes first so no entry can dangle a
// reference to a product deleted moments earlier; the wipe itself is not
// logged because the log is part of what is wiped.
func (s *adminService) ClearAllData(actor Actor) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.auditRepo.Clear(tx); err != nil {
			return err
		}
		if err := s.batchRepo.Clear(tx); err != nil {
			return err
		}
		return s.productRepo.Clear(tx)
	})
	if err != nil {
		return err
	}

	s.wsHub.Publish("products", "DELETE", nil)
	s.wsHub.Publish("audit_logs", "DELETE", nil)
	logger.Logger.Warn().Str("user", actor.Email).Msg("all inventory data cleared")
	return nil
}
