package handler

import (
	"magazine-pro-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	service service.DashboardService
}

func NewDashboardHandler(s service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: s}
}

func (h *DashboardHandler) GetStats(c *fiber.Ctx) error {
	stats, err := h.service.GetStats()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to load dashboard stats"})
	}
	return c.JSON(stats)
}

func (h *DashboardHandler) GetStockMovement(c *fiber.Ctx) error {
	days := c.QueryInt("days", 7)
	if days <= 0 || days > 365 {
		days = 7
	}

	movement, err := h.service.GetStockMovement(days)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to load stock movement"})
	}
	return c.JSON(movement)
}

func (h *DashboardHandler) GetExpiringBatches(c *fiber.Ctx) error {
	batches, err := h.service.GetExpiringBatches()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to load expiring batches"})
	}
	return c.JSON(batches)
}
