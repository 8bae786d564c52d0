package domain

import (
	"time"
)

// GalleryImage domain model (gallery_images table)
type GalleryImage struct {
	ID        uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Title     string    `gorm:"column:title;size:200" json:"title"`
	Category  string    `gorm:"column:category;size:50;index" json:"category"`
	ImagePath string    `gorm:"column:image_path;size:500" json:"image_path"`
	ImageURL  string    `gorm:"column:image_url;size:500" json:"image_url,omitempty"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

func (GalleryImage) TableName() string {
	return "gallery_images"
}
