package repository

import (
	"go-forklift-catalog/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TestimonialRepository interface {
	Create(t *model.Testimonial) error
	Update(t *model.Testimonial) error
	Delete(id uuid.UUID) error
	FindByID(id uuid.UUID) (*model.Testimonial, error)
	FindAll(publishedOnly bool) ([]model.Testimonial, error)
}

type testimonialRepo struct {
	db *gorm.DB
}

func NewTestimonialRepo(db *gorm.DB) TestimonialRepository {
	return &testimonialRepo{db}
}

func (r *testimonialRepo) Create(t *model.Testimonial) error {
	return r.db.Create(t).Error
}

func (r *testimonialRepo) Update(t *model.Testimonial) error {
	return r.db.Save(t).Error
}

func (r *testimonialRepo) Delete(id uuid.UUID) error {
	return r.db.Delete(&model.Testimonial{}, "id = ?", id).Error
}

func (r *testimonialRepo) FindByID(id uuid.UUID) (*model.Testimonial, error) {
	var t model.Testimonial
	if err := r.db.First(&t, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *testimonialRepo) FindAll(publishedOnly bool) ([]model.Testimonial, error) {
	var items []model.Testimonial
	q := r.db.Order("display_order ASC, created_at DESC")
	if publishedOnly {
		q = q.Where("published = ?", true)
	}
	err := q.Find(&items).Error
	return items, err
}
