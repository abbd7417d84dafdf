package model

type FAQ struct {
	BaseModel
	Question     string `gorm:"type:text;not null" json:"question" validate:"required"`
	Answer       string `gorm:"type:text;not null" json:"answer" validate:"required"`
	DisplayOrder int    `gorm:"default:0" json:"display_order"`
	Published    bool   `gorm:"default:true" json:"published"`
}
