package handler

import (
	"io"

	"magazine-pro-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

type AdminHandler struct {
	service service.AdminService
}

func NewAdminHandler(s service.AdminService) *AdminHandler {
	return &AdminHandler{service: s}
}

// Import accepts an .xlsx or .csv upload in the "file" multipart field.
func (h *AdminHandler) Import(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Missing 'file' upload"})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Failed to open upload"})
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Failed to read upload"})
	}

	summary, err := h.service.Import(data, fileHeader.Filename, getActor(c))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"message": "Import complete", "data": summary})
}

// Export streams the inventory report, xlsx by default, csv on
// ?format=csv.
func (h *AdminHandler) Export(c *fiber.Ctx) error {
	format := c.Query("format", "xlsx")

	data, filename, err := h.service.ExportReport(format)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to build report"})
	}

	contentType := "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	if format == "csv" {
		contentType = "text/csv"
	}
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(data)
}

// ClearAll deletes every product, batch and audit entry.
func (h *AdminHandler) ClearAll(c *fiber.Ctx) error {
	if err := h.service.ClearAllData(getActor(c)); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to clear data"})
	}
	return c.JSON(fiber.Map{"message": "All data cleared"})
}
