package model

type Testimonial struct {
	BaseModel
	Author       string `gorm:"type:varchar(255);not null" json:"author" validate:"required"`
	Company      string `gorm:"type:varchar(255)" json:"company"`
	Body         string `gorm:"type:text;not null" json:"body" validate:"required"`
	Rating       int    `gorm:"default:5" json:"rating" validate:"omitempty,min=1,max=5"`
	DisplayOrder int    `gorm:"default:0" json:"display_order"`
	Published    bool   `gorm:"default:true" json:"published"`
}
