package model

import "github.com/google/uuid"

type ProductGallery struct {
	BaseModel
	ProductID uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id"`
	ImageURL  string    `gorm:"type:varchar(1024);not null" json:"image_url"`
	SortOrder int       `gorm:"not null;default:0" json:"sort_order"`
}
