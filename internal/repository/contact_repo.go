package repository

import (
	"errors"

	"github.com/sevasetu/backend/internal/common"
	"github.com/sevasetu/backend/internal/domain"
	"gorm.io/gorm"
)

// contactUpdatableFields is the allow-list for partial contact updates.
// Staff may correct contact details and flip read state; the message body
// itself is immutable.
var contactUpdatableFields = map[string]bool{
	"name":   true,
	"email":  true,
	"phone":  true,
	"status": true,
}

// ContactFilter narrows contact listings
type ContactFilter struct {
	Status string
	Search string
	Page   int
	Limit  int
}

// ContactRepository defines the interface for contact message data access
type ContactRepository interface {
	Create(contact *domain.Contact) error
	FindByID(id uint) (*domain.Contact, error)
	List(filter ContactFilter) ([]*domain.Contact, int64, error)
	Update(id uint, fields map[string]interface{}) error
	Archive(id uint) error
}

type contactRepository struct {
	db *gorm.DB
}

// NewContactRepository creates a new ContactRepository
func NewContactRepository(db *gorm.DB) ContactRepository {
	return &contactRepository{db: db}
}

func (r *contactRepository) Create(contact *domain.Contact) error {
	contact.Status = domain.ContactStatusNew
	if err := r.db.Create(contact).Error; err != nil {
		return &common.PersistenceError{Op: "contact create", Cause: err}
	}
	return nil
}

func (r *contactRepository) FindByID(id uint) (*domain.Contact, error) {
	var contact domain.Contact
	err := r.db.First(&contact, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, &common.PersistenceError{Op: "contact find", Cause: err}
	}
	return &contact, nil
}

func (r *contactRepository) List(filter ContactFilter) ([]*domain.Contact, int64, error) {
	query := r.db.Model(&domain.Contact{})

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where(
			"LOWER(name) LIKE LOWER(?) OR LOWER(email) LIKE LOWER(?) OR LOWER(subject) LIKE LOWER(?)",
			pattern, pattern, pattern,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, &common.PersistenceError{Op: "contact count", Cause: err}
	}

	var contacts []*domain.Contact
	err := query.
		Order("id DESC").
		Offset((filter.Page - 1) * filter.Limit).
		Limit(filter.Limit).
		Find(&contacts).Error
	if err != nil {
		return nil, 0, &common.PersistenceError{Op: "contact list", Cause: err}
	}

	return contacts, total, nil
}

func (r *contactRepository) Update(id uint, fields map[string]interface{}) error {
	updates, err := filterAllowedFields(fields, contactUpdatableFields)
	if err != nil {
		return err
	}

	result := r.db.Model(&domain.Contact{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return &common.PersistenceError{Op: "contact update", Cause: result.Error}
	}
	if result.RowsAffected == 0 {
		return common.ErrNotFound
	}
	return nil
}

// Archive soft-deletes a contact message; contact rows are never removed
func (r *contactRepository) Archive(id uint) error {
	result := r.db.Model(&domain.Contact{}).
		Where("id = ?", id).
		Update("status", domain.ContactStatusArchived)
	if result.Error != nil {
		return &common.PersistenceError{Op: "contact archive", Cause: result.Error}
	}
	if result.RowsAffected == 0 {
		return common.ErrNotFound
	}
	return nil
}
