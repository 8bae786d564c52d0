package service

import (
	"context"
	"io"

	"github.com/rs/zerolog"
	"github.com/sevasetu/backend/internal/domain"
	"github.com/sevasetu/backend/internal/repository"
	pkglogger "github.com/sevasetu/backend/pkg/logger"
	"github.com/sevasetu/backend/pkg/storage"
)

// GalleryService defines the business logic for gallery images
type GalleryService interface {
	Upload(ctx context.Context, title, category, filename string, size int64, body io.Reader) (*domain.GalleryImage, error)
	List(category string, page, limit int) (*ListResponse, error)
	Delete(ctx context.Context, id uint) error
}

type galleryService struct {
	repo  repository.GalleryRepository
	store storage.Storage
	log   zerolog.Logger
}

// NewGalleryService creates a new GalleryService
func NewGalleryService(repo repository.GalleryRepository, store storage.Storage) GalleryService {
	return &galleryService{
		repo:  repo,
		store: store,
		log:   pkglogger.WithComponent("gallery-service"),
	}
}

// Upload stores the image file and records it under a category
func (s *galleryService) Upload(ctx context.Context, title, category, filename string, size int64, body io.Reader) (*domain.GalleryImage, error) {
	if err := validateImageUpload(filename, size); err != nil {
		return nil, err
	}

	path, err := s.store.Save(ctx, "gallery", filename, body)
	if err != nil {
		return nil, err
	}

	image := &domain.GalleryImage{
		Title:     title,
		Category:  category,
		ImagePath: path,
	}
	if err := s.repo.Create(image); err != nil {
		if delErr := s.store.Delete(ctx, path); delErr != nil {
			s.log.Warn().Err(delErr).Str("path", path).Msg("orphaned gallery file cleanup failed")
		}
		return nil, err
	}
	return image, nil
}

// List retrieves gallery images, optionally filtered by category
func (s *galleryService) List(category string, page, limit int) (*ListResponse, error) {
	page, limit = normalizePage(page, limit)

	images, total, err := s.repo.List(category, page, limit)
	if err != nil {
		return nil, err
	}
	return newListResponse(images, total, page, limit), nil
}

// Delete removes both the database row and the stored file
func (s *galleryService) Delete(ctx context.Context, id uint) error {
	image, err := s.repo.FindByID(id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(id); err != nil {
		return err
	}
	if image.ImagePath != "" {
		if err := s.store.Delete(ctx, image.ImagePath); err != nil {
			s.log.Warn().Err(err).Str("path", image.ImagePath).Msg("gallery file delete failed")
		}
	}
	return nil
}
