package handler

import (
	"errors"
	"time"

	"magazine-pro-api/internal/model"
	"magazine-pro-api/internal/service"
	"magazine-pro-api/pkg/validator"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type LedgerHandler struct {
	service service.LedgerService
	history *service.ScanHistory
}

func NewLedgerHandler(s service.LedgerService, history *service.ScanHistory) *LedgerHandler {
	return &LedgerHandler{service: s, history: history}
}

// Helpers to pull the acting principal from the JWT context (set by RequireAuth)
func getActor(c *fiber.Ctx) service.Actor {
	actor := service.Actor{}
	if v, ok := c.Locals("user_id").(string); ok {
		actor.ID = v
	}
	if v, ok := c.Locals("user_name").(string); ok {
		actor.Name = v
	}
	if v, ok := c.Locals("user_email").(string); ok {
		actor.Email = v
	}
	return actor
}

func ledgerStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrProductNotFound):
		return 404
	case errors.Is(err, service.ErrInsufficientStock), errors.Is(err, service.ErrSKUExists):
		return 409
	default:
		return 400
	}
}

func (h *LedgerHandler) GetProducts(c *fiber.Ctx) error {
	products, err := h.service.GetAllProducts()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(products)
}

func (h *LedgerHandler) GetProduct(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}
	product, err := h.service.GetProduct(id)
	if errors.Is(err, service.ErrProductNotFound) {
		return c.Status(404).JSON(fiber.Map{"error": "Product not found"})
	}
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(product)
}

func (h *LedgerHandler) GetProductByBarcode(c *fiber.Ctx) error {
	code := c.Params("code")
	product, err := h.service.GetProductByBarcode(code)
	if errors.Is(err, service.ErrProductNotFound) {
		return c.Status(404).JSON(fiber.Map{"error": "No product matches that barcode"})
	}
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(product)
}

func (h *LedgerHandler) CreateProduct(c *fiber.Ctx) error {
	var product model.Product
	if err := c.BodyParser(&product); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if err := h.service.CreateProduct(&product, getActor(c)); err != nil {
		return c.Status(ledgerStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(201).JSON(fiber.Map{"message": "Product created", "data": product})
}

func (h *LedgerHandler) UpdateProduct(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	var product model.Product
	if err := c.BodyParser(&product); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	updated, err := h.service.UpdateProduct(id, &product, getActor(c))
	if err != nil {
		return c.Status(ledgerStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"message": "Product updated", "data": updated})
}

func (h *LedgerHandler) DeleteProduct(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	if err := h.service.DeleteProduct(id, getActor(c)); err != nil {
		return c.Status(ledgerStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"message": "Product deleted"})
}

// ScanRequest records one scan event. Either product_id or barcode
// identifies the product; barcode wins the SKU lookup path.
type ScanRequest struct {
	ProductID uuid.UUID `json:"product_id"`
	Barcode   string    `json:"barcode"`
	Type      string    `json:"type" validate:"required,oneof=IN OUT"`
	Quantity  int       `json:"quantity" validate:"required,gt=0"`
}

func (h *LedgerHandler) Scan(c *fiber.Ctx) error {
	var req ScanRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if errs := validator.ValidateStruct(&req); len(errs) > 0 {
		return c.Status(400).JSON(fiber.Map{"error": validator.Describe(errs)})
	}

	productID := req.ProductID
	if productID == uuid.Nil {
		if req.Barcode == "" {
			return c.Status(400).JSON(fiber.Map{"error": "product_id or barcode is required"})
		}
		product, err := h.service.GetProductByBarcode(req.Barcode)
		if errors.Is(err, service.ErrProductNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "No product matches that barcode"})
		}
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
		}
		productID = product.ID
	}

	actor := getActor(c)
	var product *model.Product
	var err error
	action := model.ActionScanIn
	if req.Type == "OUT" {
		action = model.ActionScanOut
		product, err = h.service.ScanOut(productID, req.Quantity, actor)
	} else {
		product, err = h.service.ScanIn(productID, req.Quantity, actor)
	}
	if err != nil {
		return c.Status(ledgerStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}

	h.history.Record(c.Context(), actor.Email, service.ScanRecord{
		SKU:      product.SKU,
		Name:     product.Name,
		Action:   action,
		Quantity: req.Quantity,
		At:       time.Now(),
	})

	return c.Status(201).JSON(fiber.Map{"message": "Scan recorded", "data": product})
}

// AdjustRequest sets an absolute quantity with a free-text reason.
type AdjustRequest struct {
	Quantity int    `json:"quantity" validate:"gte=0"`
	Reason   string `json:"reason"`
}

func (h *LedgerHandler) AdjustStock(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	var req AdjustRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if errs := validator.ValidateStruct(&req); len(errs) > 0 {
		return c.Status(400).JSON(fiber.Map{"error": validator.Describe(errs)})
	}

	product, err := h.service.AdjustStock(id, req.Quantity, req.Reason, getActor(c))
	if err != nil {
		return c.Status(ledgerStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"message": "Stock adjusted", "data": product})
}

func (h *LedgerHandler) GetAuditLogs(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 100)
	logs, err := h.service.GetAuditLogs(limit)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(logs)
}

func (h *LedgerHandler) GetScanHistory(c *fiber.Ctx) error {
	actor := getActor(c)
	records, err := h.history.Recent(c.Context(), actor.Email, int64(c.QueryInt("limit", 20)))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to load scan history"})
	}
	if records == nil {
		records = []service.ScanRecord{}
	}
	return c.JSON(records)
}
