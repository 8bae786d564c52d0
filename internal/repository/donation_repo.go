package repository

import (
	"errors"

	"github.com/sevasetu/backend/internal/common"
	"github.com/sevasetu/backend/internal/domain"
	"gorm.io/gorm"
)

// donationUpdatableFields is the allow-list for partial donation updates
var donationUpdatableFields = map[string]bool{
	"donor_name":      true,
	"email":           true,
	"phone":           true,
	"address":         true,
	"purpose":         true,
	"payment_method":  true,
	"transaction_ref": true,
	"message":         true,
}

// DonationFilter narrows donation listings
type DonationFilter struct {
	Status  string
	Purpose string
	Search  string
	Page    int
	Limit   int
}

// DonationRepository defines the interface for donation data access
type DonationRepository interface {
	Create(donation *domain.Donation) error
	FindByID(id uint) (*domain.Donation, error)
	FindByCode(code string) (*domain.Donation, error)
	List(filter DonationFilter) ([]*domain.Donation, int64, error)
	Update(id uint, fields map[string]interface{}) error
	Save(donation *domain.Donation) error
	Delete(id uint) error
	CountByStatus() (map[string]int64, error)
	SumApprovedAmount() (float64, error)
}

// donationRepository implements DonationRepository with GORM
type donationRepository struct {
	db *gorm.DB
}

// NewDonationRepository creates a new DonationRepository
func NewDonationRepository(db *gorm.DB) DonationRepository {
	return &donationRepository{db: db}
}

// Create generates the donation code and inserts the row, retrying once on
// a duplicate code (see member repository for the race discussion).
func (r *donationRepository) Create(donation *domain.Donation) error {
	donation.Status = domain.StatusPending

	for attempt := 0; attempt < 2; attempt++ {
		err := r.db.Transaction(func(tx *gorm.DB) error {
			code, err := nextCode(tx, &domain.Donation{}, domain.DonationCodePrefix)
			if err != nil {
				return err
			}
			donation.Code = code
			return tx.Create(donation).Error
		})
		if err == nil {
			return nil
		}
		if isDuplicateKey(err) && attempt == 0 {
			donation.ID = 0
			continue
		}
		return &common.PersistenceError{Op: "donation create", Cause: err}
	}
	return nil
}

// FindByID finds a donation by numeric id
func (r *donationRepository) FindByID(id uint) (*domain.Donation, error) {
	var donation domain.Donation
	err := r.db.First(&donation, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, &common.PersistenceError{Op: "donation find", Cause: err}
	}
	return &donation, nil
}

// FindByCode finds a donation by human-facing code
func (r *donationRepository) FindByCode(code string) (*domain.Donation, error) {
	var donation domain.Donation
	err := r.db.Where("code = ?", code).First(&donation).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, &common.PersistenceError{Op: "donation find", Cause: err}
	}
	return &donation, nil
}

// List retrieves donations with filters and pagination
func (r *donationRepository) List(filter DonationFilter) ([]*domain.Donation, int64, error) {
	query := r.db.Model(&domain.Donation{})

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Purpose != "" {
		query = query.Where("purpose = ?", filter.Purpose)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where(
			"LOWER(donor_name) LIKE LOWER(?) OR LOWER(email) LIKE LOWER(?) OR LOWER(code) LIKE LOWER(?)",
			pattern, pattern, pattern,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, &common.PersistenceError{Op: "donation count", Cause: err}
	}

	var donations []*domain.Donation
	err := query.
		Order("id DESC").
		Offset((filter.Page - 1) * filter.Limit).
		Limit(filter.Limit).
		Find(&donations).Error
	if err != nil {
		return nil, 0, &common.PersistenceError{Op: "donation list", Cause: err}
	}

	return donations, total, nil
}

// Update applies an allow-listed partial update
func (r *donationRepository) Update(id uint, fields map[string]interface{}) error {
	updates, err := filterAllowedFields(fields, donationUpdatableFields)
	if err != nil {
		return err
	}

	result := r.db.Model(&domain.Donation{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return &common.PersistenceError{Op: "donation update", Cause: result.Error}
	}
	if result.RowsAffected == 0 {
		return common.ErrNotFound
	}
	return nil
}

// Save persists the full donation row (workflow transitions)
func (r *donationRepository) Save(donation *domain.Donation) error {
	if err := r.db.Save(donation).Error; err != nil {
		return &common.PersistenceError{Op: "donation save", Cause: err}
	}
	return nil
}

// Delete hard-deletes a donation row (administrative)
func (r *donationRepository) Delete(id uint) error {
	result := r.db.Delete(&domain.Donation{}, id)
	if result.Error != nil {
		return &common.PersistenceError{Op: "donation delete", Cause: result.Error}
	}
	if result.RowsAffected == 0 {
		return common.ErrNotFound
	}
	return nil
}

// CountByStatus returns donation counts grouped by status
func (r *donationRepository) CountByStatus() (map[string]int64, error) {
	type row struct {
		Status string
		Count  int64
	}
	var rows []row
	err := r.db.Model(&domain.Donation{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, &common.PersistenceError{Op: "donation stats", Cause: err}
	}

	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}

// SumApprovedAmount totals approved donation amounts (dashboard stats)
func (r *donationRepository) SumApprovedAmount() (float64, error) {
	var total float64
	err := r.db.Model(&domain.Donation{}).
		Where("status = ?", domain.StatusApproved).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, &common.PersistenceError{Op: "donation sum", Cause: err}
	}
	return total, nil
}
