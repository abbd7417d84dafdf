package service

import (
	"time"

	"go-forklift-catalog/internal/repository"
)

type DashboardService interface {
	GetQuoteVolume(days int) ([]repository.QuoteVolumeData, error)
	GetCatalogStats() (*repository.CatalogStats, error)
}

type dashboardService struct {
	statsRepo repository.StatsRepository
}

func NewDashboardService(statsRepo repository.StatsRepository) DashboardService {
	return &dashboardService{statsRepo: statsRepo}
}

func (s *dashboardService) GetQuoteVolume(days int) ([]repository.QuoteVolumeData, error) {
	endDate := time.Now()
	startDate := endDate.AddDate(0, 0, -days)

	return s.statsRepo.GetQuoteVolume(startDate, endDate)
}

func (s *dashboardService) GetCatalogStats() (*repository.CatalogStats, error) {
	return s.statsRepo.GetCatalogStats()
}
