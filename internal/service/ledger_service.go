package service

import (
	"encoding/json"
	"errors"

	"magazine-pro-api/internal/model"
	"magazine-pro-api/internal/repository"
	"magazine-pro-api/internal/ws"
	"magazine-pro-api/pkg/metrics"
	"magazine-pro-api/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrSKUExists         = errors.New("SKU already exists")
	ErrInvalidQuantity   = errors.New("quantity must be a positive integer")
	ErrNegativeQuantity  = errors.New("quantity cannot be negative")
	ErrInsufficientStock = errors.New("insufficient stock remaining")
)

// Actor is the authenticated principal a mutation is attributed to.
type Actor struct {
	ID    string
	Name  string
	Email string
}

// LedgerService owns the authoritative quantity-per-product state. Every
// mutation writes the stock change and its audit entry in one database
// transaction: either both commit or neither does.
type LedgerService interface {
	CreateProduct(req *model.Product, actor Actor) error
	UpdateProduct(id uuid.UUID, req *model.Product, actor Actor) (*model.Product, error)
	DeleteProduct(id uuid.UUID, actor Actor) error
	ScanIn(productID uuid.UUID, quantity int, actor Actor) (*model.Product, error)
	ScanOut(productID uuid.UUID, quantity int, actor Actor) (*model.Product, error)
	AdjustStock(productID uuid.UUID, newQuantity int, reason string, actor Actor) (*model.Product, error)
	GetAllProducts() ([]model.Product, error)
	GetProduct(id uuid.UUID) (*model.Product, error)
	GetProductByBarcode(code string) (*model.Product, error)
	GetAuditLogs(limit int) ([]model.AuditLog, error)
}

type ledgerService struct {
	productRepo repository.ProductRepository
	batchRepo   repository.BatchRepository
	auditRepo   repository.AuditLogRepository
	db          *gorm.DB
	wsHub       *ws.Hub
}

func NewLedgerService(pRepo repository.ProductRepository, bRepo repository.BatchRepository, aRepo repository.AuditLogRepository, db *gorm.DB, hub *ws.Hub) LedgerService {
	return &ledgerService{
		productRepo: pRepo,
		batchRepo:   bRepo,
		auditRepo:   aRepo,
		db:          db,
		wsHub:       hub,
	}
}

// The sku unique index is the single authority on duplicates: a concurrent
// create slips past any pre-read and surfaces as a translated
// duplicate-key error from the index itself.
func mapDuplicateSKU(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrSKUExists
	}
	return err
}

func newAuditEntry(action model.AuditAction, actor Actor, delta, newTotal int, details interface{}) *model.AuditLog {
	raw, _ := json.Marshal(details)
	return &model.AuditLog{
		UserEmail: actor.Email,
		Action:    action,
		Delta:     delta,
		NewTotal:  newTotal,
		Details:   datatypes.JSON(raw),
	}
}

func (s *ledgerService) committed(action model.AuditAction, product *model.Product, entry *model.AuditLog) {
	metrics.LedgerMutations.WithLabelValues(string(action)).Inc()
	event := "UPDATE"
	switch action {
	case model.ActionCreate:
		event = "INSERT"
	case model.ActionDelete:
		event = "DELETE"
	}
	s.wsHub.Publish("products", event, product)
	s.wsHub.Publish("audit_logs", "INSERT", entry)
}

func (s *ledgerService) CreateProduct(req *model.Product, actor Actor) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return errors.New(validator.Describe(errs))
	}

	// The SKU doubles as a barcode when no explicit list is given
	if len(req.Barcodes) == 0 {
		raw, _ := json.Marshal([]string{req.SKU})
		req.Barcodes = datatypes.JSON(raw)
	}

	entry := newAuditEntry(model.ActionCreate, actor, 0, req.Quantity, map[string]interface{}{
		"name": req.Name,
		"sku":  req.SKU,
	})

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(req).Error; err != nil {
			return err
		}
		return s.auditRepo.Append(tx, entry)
	})
	if err != nil {
		return mapDuplicateSKU(err)
	}

	s.committed(model.ActionCreate, req, entry)
	return nil
}

// UpdateProduct edits descriptive attributes. Quantity is deliberately not
// touched here: every quantity change must flow through ScanIn, ScanOut or
// AdjustStock so it carries a delta-bearing audit entry.
func (s *ledgerService) UpdateProduct(id uuid.UUID, req *model.Product, actor Actor) (*model.Product, error) {
	var updated *model.Product
	var entry *model.AuditLog

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing model.Product
		if err := tx.First(&existing, "id = ?", id).Error; err != nil {
			return ErrProductNotFound
		}

		existing.Name = req.Name
		existing.SKU = req.SKU
		existing.Price = req.Price
		existing.Category = req.Category
		existing.Supplier = req.Supplier
		existing.Cost = req.Cost
		existing.ReorderPoint = req.ReorderPoint
		existing.ImageURL = req.ImageURL
		if len(req.Barcodes) > 0 {
			existing.Barcodes = req.Barcodes
		}

		if errs := validator.ValidateStruct(&existing); len(errs) > 0 {
			return errors.New(validator.Describe(errs))
		}

		if err := tx.Save(&existing).Error; err != nil {
			return err
		}
		updated = &existing

		entry = newAuditEntry(model.ActionUpdate, actor, 0, existing.Quantity, map[string]interface{}{
			"id":   existing.ID,
			"name": existing.Name,
			"sku":  existing.SKU,
		})
		return s.auditRepo.Append(tx, entry)
	})
	if err != nil {
		return nil, mapDuplicateSKU(err)
	}

	s.committed(model.ActionUpdate, updated, entry)
	return updated, nil
}

func (s *ledgerService) DeleteProduct(id uuid.UUID, actor Actor) error {
	var deleted *model.Product
	var entry *model.AuditLog

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing model.Product
		if err := tx.First(&existing, "id = ?", id).Error; err != nil {
			return ErrProductNotFound
		}
		deleted = &existing

		// Expiry lots do not outlive their product
		if err := s.batchRepo.DeleteByProduct(tx, id); err != nil {
			return err
		}
		if err := s.productRepo.Delete(tx, id); err != nil {
			return err
		}

		entry = newAuditEntry(model.ActionDelete, actor, 0, 0, map[string]interface{}{
			"id":   existing.ID,
			"name": existing.Name,
			"sku":  existing.SKU,
		})
		return s.auditRepo.Append(tx, entry)
	})
	if err != nil {
		return err
	}

	s.committed(model.ActionDelete, deleted, entry)
	return nil
}

func (s *ledgerService) ScanIn(productID uuid.UUID, quantity int, actor Actor) (*model.Product, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	var updated *model.Product
	var entry *model.AuditLog

	err := s.db.Transaction(func(tx *gorm.DB) error {
		rows, err := s.productRepo.AdjustQuantity(tx, productID, quantity)
		if err != nil {
			return err
		}
		if rows == 0 {
			// A positive delta never trips the non-negativity guard
			return ErrProductNotFound
		}

		var product model.Product
		if err := tx.First(&product, "id = ?", productID).Error; err != nil {
			return err
		}
		updated = &product

		entry = newAuditEntry(model.ActionScanIn, actor, quantity, product.Quantity, map[string]interface{}{
			"product_id":   product.ID,
			"product_name": product.Name,
			"sku":          product.SKU,
			"added":        quantity,
			"new_total":    product.Quantity,
		})
		return s.auditRepo.Append(tx, entry)
	})
	if err != nil {
		return nil, err
	}

	s.committed(model.ActionScanIn, updated, entry)
	return updated, nil
}

func (s *ledgerService) ScanOut(productID uuid.UUID, quantity int, actor Actor) (*model.Product, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	var updated *model.Product
	var entry *model.AuditLog

	err := s.db.Transaction(func(tx *gorm.DB) error {
		rows, err := s.productRepo.AdjustQuantity(tx, productID, -quantity)
		if err != nil {
			return err
		}
		if rows == 0 {
			// Guard rejected: missing product or not enough stock
			var product model.Product
			if err := tx.First(&product, "id = ?", productID).Error; err != nil {
				return ErrProductNotFound
			}
			metrics.InsufficientStock.Inc()
			return ErrInsufficientStock
		}

		var product model.Product
		if err := tx.First(&product, "id = ?", productID).Error; err != nil {
			return err
		}
		updated = &product

		entry = newAuditEntry(model.ActionScanOut, actor, -quantity, product.Quantity, map[string]interface{}{
			"product_id":   product.ID,
			"product_name": product.Name,
			"sku":          product.SKU,
			"removed":      quantity,
			"new_total":    product.Quantity,
		})
		return s.auditRepo.Append(tx, entry)
	})
	if err != nil {
		return nil, err
	}

	s.committed(model.ActionScanOut, updated, entry)
	return updated, nil
}

func (s *ledgerService) AdjustStock(productID uuid.UUID, newQuantity int, reason string, actor Actor) (*model.Product, error) {
	if newQuantity < 0 {
		return nil, ErrNegativeQuantity
	}

	var updated *model.Product
	var entry *model.AuditLog

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var product model.Product
		if err := tx.First(&product, "id = ?", productID).Error; err != nil {
			return ErrProductNotFound
		}

		oldQuantity := product.Quantity
		if err := s.productRepo.SetQuantity(tx, productID, newQuantity); err != nil {
			return err
		}
		product.Quantity = newQuantity
		updated = &product

		entry = newAuditEntry(model.ActionAdjust, actor, newQuantity-oldQuantity, newQuantity, map[string]interface{}{
			"product_id":   product.ID,
			"product_name": product.Name,
			"sku":          product.SKU,
			"old":          oldQuantity,
			"new":          newQuantity,
			"reason":       reason,
		})
		return s.auditRepo.Append(tx, entry)
	})
	if err != nil {
		return nil, err
	}

	s.committed(model.ActionAdjust, updated, entry)
	return updated, nil
}

func (s *ledgerService) GetAllProducts() ([]model.Product, error) {
	return s.productRepo.FindAll()
}

// GetProduct returns the product detail with its expiry lots attached.
func (s *ledgerService) GetProduct(id uuid.UUID) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	if batches, err := s.batchRepo.FindByProduct(id); err == nil {
		product.Batches = batches
	}
	return product, nil
}

func (s *ledgerService) GetProductByBarcode(code string) (*model.Product, error) {
	product, err := s.productRepo.FindByBarcode(code)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (s *ledgerService) GetAuditLogs(limit int) ([]model.AuditLog, error) {
	return s.auditRepo.List(limit)
}
