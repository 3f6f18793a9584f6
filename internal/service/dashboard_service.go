package service

import (
	"time"

	"magazine-pro-api/internal/model"
	"magazine-pro-api/internal/repository"
)

// ExpiryWarningDays is the window for the expiring-soon report.
const ExpiryWarningDays = 7

type DashboardService interface {
	GetStats() (*DashboardStats, error)
	GetStockMovement(days int) ([]repository.StockMovementData, error)
	GetExpiringBatches() ([]model.Batch, error)
}

// DashboardStats is the admin overview.
type DashboardStats struct {
	repository.ProductStats
	ExpiringSoon int   `json:"expiring_soon"`
	AuditEntries int64 `json:"audit_entries"`
}

type dashboardService struct {
	productRepo repository.ProductRepository
	batchRepo   repository.BatchRepository
	auditRepo   repository.AuditLogRepository
}

func NewDashboardService(pRepo repository.ProductRepository, bRepo repository.BatchRepository, aRepo repository.AuditLogRepository) DashboardService {
	return &dashboardService{
		productRepo: pRepo,
		batchRepo:   bRepo,
		auditRepo:   aRepo,
	}
}

func (s *dashboardService) GetStats() (*DashboardStats, error) {
	productStats, err := s.productRepo.GetStats()
	if err != nil {
		return nil, err
	}

	expiring, err := s.batchRepo.ExpiringWithin(ExpiryWarningDays)
	if err != nil {
		return nil, err
	}

	entries, err := s.auditRepo.Count()
	if err != nil {
		return nil, err
	}

	return &DashboardStats{
		ProductStats: *productStats,
		ExpiringSoon: len(expiring),
		AuditEntries: entries,
	}, nil
}

func (s *dashboardService) GetStockMovement(days int) ([]repository.StockMovementData, error) {
	endDate := time.Now()
	startDate := endDate.AddDate(0, 0, -days)

	return s.auditRepo.GetStockMovement(startDate, endDate)
}

func (s *dashboardService) GetExpiringBatches() ([]model.Batch, error) {
	return s.batchRepo.ExpiringWithin(ExpiryWarningDays)
}
