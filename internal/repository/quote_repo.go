package repository

import (
	"fmt"
	"time"

	"go-forklift-catalog/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type QuoteRepository interface {
	// Create assigns the next per-year quote number and inserts the quote
	// atomically. The counter row is locked for the whole transaction.
	Create(quote *model.Quote) error
	FindAll() ([]model.Quote, error)
	FindByID(id uuid.UUID) (*model.Quote, error)
	CountForYear(year int) (int64, error)
}

type quoteRepo struct {
	db *gorm.DB
}

func NewQuoteRepo(db *gorm.DB) QuoteRepository {
	return &quoteRepo{db}
}

func (r *quoteRepo) Create(quote *model.Quote) error {
	year := time.Now().Year()

	return r.db.Transaction(func(tx *gorm.DB) error {
		var counter model.QuoteCounter
		// Lock the counter row (Pessimistic Locking); concurrent quote
		// creation serializes here so numbers never repeat
		err := tx.Set("gorm:query_option", "FOR UPDATE").First(&counter, "year = ?", year).Error
		if err == gorm.ErrRecordNotFound {
			counter = model.QuoteCounter{Year: year, LastNumber: 0}
			if err := tx.Create(&counter).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		counter.LastNumber++
		if err := tx.Save(&counter).Error; err != nil {
			return err
		}

		quote.Number = fmt.Sprintf("Q-%d-%04d", year, counter.LastNumber)
		return tx.Create(quote).Error
	})
}

func (r *quoteRepo) FindAll() ([]model.Quote, error) {
	var quotes []model.Quote
	err := r.db.Preload("Product").Preload("CreatedByUser").Order("created_at DESC").Find(&quotes).Error
	return quotes, err
}

func (r *quoteRepo) FindByID(id uuid.UUID) (*model.Quote, error) {
	var quote model.Quote
	err := r.db.Preload("Product").Preload("CreatedByUser").First(&quote, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &quote, nil
}

func (r *quoteRepo) CountForYear(year int) (int64, error) {
	var count int64
	start := time.Date(year, 1, 1, 0, 0, 0, 0, time.Local)
	err := r.db.Model(&model.Quote{}).
		Where("created_at >= ? AND created_at < ?", start, start.AddDate(1, 0, 0)).
		Count(&count).Error
	return count, err
}
