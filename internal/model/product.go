package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SpecSheet is the open technical attribute bag of a forklift.
// All fields are optional; zero values are omitted from API payloads.
type SpecSheet struct {
	CapacityKG     int    `gorm:"default:0" json:"capacity_kg,omitempty"`
	LiftHeightMM   int    `gorm:"default:0" json:"lift_height_mm,omitempty"`
	ProductionYear int    `gorm:"default:0" json:"production_year,omitempty"`
	OperatingHours int    `gorm:"default:0" json:"operating_hours,omitempty"`
	MastType       string `gorm:"type:varchar(50)" json:"mast_type,omitempty"`
	FuelType       string `gorm:"type:varchar(50)" json:"fuel_type,omitempty"`
	Condition      string `gorm:"type:varchar(50)" json:"condition,omitempty"`
}

type Product struct {
	BaseModel
	// Slug is unique among live products and only ever set by regeneration,
	// never by direct user edit. Empty means generation failed or backfill
	// has not run yet; such products stay addressable by ID only.
	// Uniqueness is enforced at assignment time in the service layer, like
	// SerialNumber below: empty slugs repeat and soft-deleted rows keep
	// theirs, both of which a plain unique index would reject.
	Slug string `gorm:"type:varchar(255);index" json:"slug"`
	Name string `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	// Model is the manufacturer model designation, e.g. "SWE 200D"
	Model string `gorm:"type:varchar(100)" json:"model"`
	// SerialNumber uniqueness is enforced at validation time in the service
	// layer (a DB unique index would reject multiple empty values)
	SerialNumber string          `gorm:"type:varchar(100);index" json:"serial_number"`
	Price        decimal.Decimal `gorm:"type:numeric(12,2);default:0" json:"price"`
	Description  string          `gorm:"type:text" json:"description"`
	Published    bool            `gorm:"default:true" json:"published"`
	Specs        SpecSheet       `gorm:"embedded;embeddedPrefix:spec_" json:"specs"`

	// User tracking
	CreatedByUserID *string `gorm:"type:varchar(255)" json:"created_by_user_id,omitempty"`
	UpdatedByUserID *string `gorm:"type:varchar(255)" json:"updated_by_user_id,omitempty"`
	CreatedByUser   *User   `gorm:"foreignKey:CreatedByUserID;references:ID" json:"created_by_user,omitempty"`
	UpdatedByUser   *User   `gorm:"foreignKey:UpdatedByUserID;references:ID" json:"updated_by_user,omitempty"`

	// Images are owned by the product: replaced wholesale on update and
	// deleted before the product row on delete.
	Images []ProductImage `json:"images,omitempty"`
}

// ProductImage is a child row of Product. DisplayOrder is meaningful
// (primary image first); NULL means unordered, sorted after ordered ones.
type ProductImage struct {
	BaseModel
	ProductID    uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id"`
	URL          string    `gorm:"type:text;not null" json:"url" validate:"required"`
	DisplayOrder *int      `json:"display_order,omitempty"`
	AltText      string    `gorm:"type:varchar(255)" json:"alt_text,omitempty"`
}

// PrimaryImage returns the first image by display order, or nil.
func (p *Product) PrimaryImage() *ProductImage {
	if len(p.Images) == 0 {
		return nil
	}
	return &p.Images[0]
}
