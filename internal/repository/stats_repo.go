package repository

import (
	"time"

	"go-forklift-catalog/internal/model"

	"gorm.io/gorm"
)

// CatalogStats is the back-office overview card data.
type CatalogStats struct {
	TotalProducts     int64 `json:"total_products"`
	PublishedProducts int64 `json:"published_products"`
	MissingSlugs      int64 `json:"missing_slugs"`
	QuotesThisYear    int64 `json:"quotes_this_year"`
	UnhandledContacts int64 `json:"unhandled_contacts"`
}

// QuoteVolumeData aggregates quotes per day for charts.
type QuoteVolumeData struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type StatsRepository interface {
	GetCatalogStats() (*CatalogStats, error)
	GetQuoteVolume(startDate, endDate time.Time) ([]QuoteVolumeData, error)
}

type statsRepo struct {
	db *gorm.DB
}

func NewStatsRepo(db *gorm.DB) StatsRepository {
	return &statsRepo{db}
}

func (r *statsRepo) GetCatalogStats() (*CatalogStats, error) {
	var stats CatalogStats

	r.db.Model(&model.Product{}).Count(&stats.TotalProducts)
	r.db.Model(&model.Product{}).Where("published = ?", true).Count(&stats.PublishedProducts)
	r.db.Model(&model.Product{}).Where("slug = '' OR slug IS NULL").Count(&stats.MissingSlugs)

	yearStart := time.Date(time.Now().Year(), 1, 1, 0, 0, 0, 0, time.Local)
	r.db.Model(&model.Quote{}).Where("created_at >= ?", yearStart).Count(&stats.QuotesThisYear)

	r.db.Model(&model.ContactMessage{}).Where("handled = ?", false).Count(&stats.UnhandledContacts)

	return &stats, nil
}

func (r *statsRepo) GetQuoteVolume(startDate, endDate time.Time) ([]QuoteVolumeData, error) {
	var results []QuoteVolumeData

	rows, err := r.db.Model(&model.Quote{}).
		Select("DATE(created_at) as date, COUNT(*) as count").
		Where("created_at BETWEEN ? AND ?", startDate, endDate).
		Group("DATE(created_at)").
		Order("date ASC").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var data QuoteVolumeData
		if err := rows.Scan(&data.Date, &data.Count); err != nil {
			return nil, err
		}
		results = append(results, data)
	}

	return results, nil
}
