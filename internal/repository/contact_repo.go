package repository

import (
	"go-forklift-catalog/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ContactRepository interface {
	Create(m *model.ContactMessage) error
	FindAll() ([]model.ContactMessage, error)
	MarkHandled(id uuid.UUID, handledBy string) error
}

type contactRepo struct {
	db *gorm.DB
}

func NewContactRepo(db *gorm.DB) ContactRepository {
	return &contactRepo{db}
}

func (r *contactRepo) Create(m *model.ContactMessage) error {
	return r.db.Create(m).Error
}

func (r *contactRepo) FindAll() ([]model.ContactMessage, error) {
	var messages []model.ContactMessage
	err := r.db.Order("created_at DESC").Find(&messages).Error
	return messages, err
}

func (r *contactRepo) MarkHandled(id uuid.UUID, handledBy string) error {
	return r.db.Model(&model.ContactMessage{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"handled":    true,
			"updated_by": handledBy,
		}).Error
}
