package repository

import (
	"go-forklift-catalog/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FAQRepository interface {
	Create(f *model.FAQ) error
	Update(f *model.FAQ) error
	Delete(id uuid.UUID) error
	FindByID(id uuid.UUID) (*model.FAQ, error)
	FindAll(publishedOnly bool) ([]model.FAQ, error)
}

type faqRepo struct {
	db *gorm.DB
}

func NewFAQRepo(db *gorm.DB) FAQRepository {
	return &faqRepo{db}
}

func (r *faqRepo) Create(f *model.FAQ) error {
	return r.db.Create(f).Error
}

func (r *faqRepo) Update(f *model.FAQ) error {
	return r.db.Save(f).Error
}

func (r *faqRepo) Delete(id uuid.UUID) error {
	return r.db.Delete(&model.FAQ{}, "id = ?", id).Error
}

func (r *faqRepo) FindByID(id uuid.UUID) (*model.FAQ, error) {
	var f model.FAQ
	if err := r.db.First(&f, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *faqRepo) FindAll(publishedOnly bool) ([]model.FAQ, error) {
	var items []model.FAQ
	q := r.db.Order("display_order ASC, created_at ASC")
	if publishedOnly {
		q = q.Where("published = ?", true)
	}
	err := q.Find(&items).Error
	return items, err
}
