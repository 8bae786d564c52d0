package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/sevasetu/backend/internal/common"
	"github.com/sevasetu/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockGalleryRepo struct {
	mock.Mock
}

func (m *mockGalleryRepo) Create(image *domain.GalleryImage) error {
	return m.Called(image).Error(0)
}

func (m *mockGalleryRepo) FindByID(id uint) (*domain.GalleryImage, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GalleryImage), args.Error(1)
}

func (m *mockGalleryRepo) List(category string, page, limit int) ([]*domain.GalleryImage, int64, error) {
	args := m.Called(category, page, limit)
	return args.Get(0).([]*domain.GalleryImage), args.Get(1).(int64), args.Error(2)
}

func (m *mockGalleryRepo) Delete(id uint) error {
	return m.Called(id).Error(0)
}

// fakeStore records saves and deletes in memory
type fakeStore struct {
	saved     []string
	deleted   []string
	saveErr   error
	deleteErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{}
}

func (f *fakeStore) Save(_ context.Context, category, filename string, _ io.Reader) (string, error) {
	if f.saveErr != nil {
		return "", f.saveErr
	}
	path := category + "/" + filename
	f.saved = append(f.saved, path)
	return path, nil
}

func (f *fakeStore) Open(context.Context, string) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader("")), nil
}

func (f *fakeStore) Delete(_ context.Context, path string) error {
	f.deleted = append(f.deleted, path)
	return f.deleteErr
}

func TestGalleryService(t *testing.T) {
	t.Run("upload saves file then row", func(t *testing.T) {
		repo := new(mockGalleryRepo)
		store := newFakeStore()
		svc := NewGalleryService(repo, store)

		repo.On("Create", mock.MatchedBy(func(img *domain.GalleryImage) bool {
			return img.Title == "Annual camp" && img.ImagePath == "gallery/camp.jpg"
		})).Return(nil)

		img, err := svc.Upload(context.Background(), "Annual camp", "events", "camp.jpg", 8, strings.NewReader("jpegdata"))
		require.NoError(t, err)
		assert.Equal(t, "gallery/camp.jpg", img.ImagePath)
		assert.Equal(t, []string{"gallery/camp.jpg"}, store.saved)
		repo.AssertExpectations(t)
	})

	t.Run("upload cleans up file when row insert fails", func(t *testing.T) {
		repo := new(mockGalleryRepo)
		store := newFakeStore()
		svc := NewGalleryService(repo, store)

		repo.On("Create", mock.Anything).Return(errors.New("duplicate"))

		_, err := svc.Upload(context.Background(), "t", "c", "x.jpg", 4, strings.NewReader("data"))
		require.Error(t, err)
		assert.Equal(t, []string{"gallery/x.jpg"}, store.deleted, "orphaned file must be removed")
	})

	t.Run("upload rejects non-image extension", func(t *testing.T) {
		repo := new(mockGalleryRepo)
		store := newFakeStore()
		svc := NewGalleryService(repo, store)

		_, err := svc.Upload(context.Background(), "t", "c", "payload.exe", 4, strings.NewReader("data"))
		var verr *common.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Empty(t, store.saved, "rejected upload must not touch storage")
		repo.AssertNotCalled(t, "Create", mock.Anything)
	})

	t.Run("upload rejects oversize image", func(t *testing.T) {
		repo := new(mockGalleryRepo)
		store := newFakeStore()
		svc := NewGalleryService(repo, store)

		_, err := svc.Upload(context.Background(), "t", "c", "huge.jpg", 11*1024*1024, strings.NewReader("data"))
		var verr *common.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Empty(t, store.saved)
	})

	t.Run("delete removes row and file", func(t *testing.T) {
		repo := new(mockGalleryRepo)
		store := newFakeStore()
		svc := NewGalleryService(repo, store)

		repo.On("FindByID", uint(3)).Return(&domain.GalleryImage{ImagePath: "gallery/old.jpg"}, nil)
		repo.On("Delete", uint(3)).Return(nil)

		require.NoError(t, svc.Delete(context.Background(), 3))
		assert.Equal(t, []string{"gallery/old.jpg"}, store.deleted)
	})

	t.Run("delete survives file removal failure", func(t *testing.T) {
		repo := new(mockGalleryRepo)
		store := newFakeStore()
		store.deleteErr = errors.New("gone already")
		svc := NewGalleryService(repo, store)

		repo.On("FindByID", uint(3)).Return(&domain.GalleryImage{ImagePath: "gallery/old.jpg"}, nil)
		repo.On("Delete", uint(3)).Return(nil)

		require.NoError(t, svc.Delete(context.Background(), 3), "row delete wins over file delete")
	})
}
