package model

// ContactMessage is a storefront contact-form submission.
type ContactMessage struct {
	BaseModel
	Name    string `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Email   string `gorm:"type:varchar(255);not null" json:"email" validate:"required,email"`
	Phone   string `gorm:"type:varchar(50)" json:"phone"`
	Message string `gorm:"type:text;not null" json:"message" validate:"required"`
	Handled bool   `gorm:"default:false" json:"handled"`
}
