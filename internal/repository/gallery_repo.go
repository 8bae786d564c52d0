package repository

import (
	"errors"

	"github.com/sevasetu/backend/internal/common"
	"github.com/sevasetu/backend/internal/domain"
	"gorm.io/gorm"
)

// GalleryRepository defines the interface for gallery image data access
type GalleryRepository interface {
	Create(image *domain.GalleryImage) error
	FindByID(id uint) (*domain.GalleryImage, error)
	List(category string, page, limit int) ([]*domain.GalleryImage, int64, error)
	Delete(id uint) error
}

type galleryRepository struct {
	db *gorm.DB
}

// NewGalleryRepository creates a new GalleryRepository
func NewGalleryRepository(db *gorm.DB) GalleryRepository {
	return &galleryRepository{db: db}
}

func (r *galleryRepository) Create(image *domain.GalleryImage) error {
	if err := r.db.Create(image).Error; err != nil {
		return &common.PersistenceError{Op: "gallery create", Cause: err}
	}
	return nil
}

func (r *galleryRepository) FindByID(id uint) (*domain.GalleryImage, error) {
	var image domain.GalleryImage
	err := r.db.First(&image, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, &common.PersistenceError{Op: "gallery find", Cause: err}
	}
	return &image, nil
}

func (r *galleryRepository) List(category string, page, limit int) ([]*domain.GalleryImage, int64, error) {
	query := r.db.Model(&domain.GalleryImage{})
	if category != "" {
		query = query.Where("category = ?", category)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, &common.PersistenceError{Op: "gallery count", Cause: err}
	}

	var images []*domain.GalleryImage
	err := query.
		Order("id DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&images).Error
	if err != nil {
		return nil, 0, &common.PersistenceError{Op: "gallery list", Cause: err}
	}

	return images, total, nil
}

// Delete hard-deletes a gallery row; the stored file is removed by the service
func (r *galleryRepository) Delete(id uint) error {
	result := r.db.Delete(&domain.GalleryImage{}, id)
	if result.Error != nil {
		return &common.PersistenceError{Op: "gallery delete", Cause: result.Error}
	}
	if result.RowsAffected == 0 {
		return common.ErrNotFound
	}
	return nil
}
