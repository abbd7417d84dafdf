package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Quote is a sales quote issued by the back office for a catalog machine.
type Quote struct {
	BaseModel
	// Number is assigned by the repository from the per-year counter,
	// e.g. "Q-2026-0042". Never set by the caller.
	Number        string          `gorm:"type:varchar(20);uniqueIndex" json:"number"`
	CustomerName  string          `gorm:"type:varchar(255);not null" json:"customer_name" validate:"required"`
	CustomerEmail string          `gorm:"type:varchar(255)" json:"customer_email" validate:"omitempty,email"`
	CustomerPhone string          `gorm:"type:varchar(50)" json:"customer_phone"`
	ProductID     *uuid.UUID      `gorm:"type:uuid" json:"product_id,omitempty"`
	Product       *Product        `json:"product,omitempty" validate:"-"`
	Amount        decimal.Decimal `gorm:"type:numeric(12,2);default:0" json:"amount"`
	Note          string          `gorm:"type:text" json:"note"`

	// User tracking
	CreatedByUserID *string `gorm:"type:varchar(255)" json:"created_by_user_id,omitempty"`
	CreatedByUser   *User   `gorm:"foreignKey:CreatedByUserID;references:ID" json:"created_by_user,omitempty"`
}

// QuoteCounter is the persisted per-year quote sequence. The repository
// increments LastNumber under a row lock in the same transaction that
// inserts the quote.
type QuoteCounter struct {
	Year       int `gorm:"primaryKey" json:"year"`
	LastNumber int `gorm:"not null;default:0" json:"last_number"`
}
