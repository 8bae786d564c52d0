package repository

import (
	"errors"

	"github.com/sevasetu/backend/internal/common"
	"github.com/sevasetu/backend/internal/domain"
	"gorm.io/gorm"
)

// memberUpdatableFields is the allow-list for partial member updates.
// Status and audit fields only change through the workflow operations.
var memberUpdatableFields = map[string]bool{
	"name":       true,
	"email":      true,
	"phone":      true,
	"address":    true,
	"occupation": true,
	"plan":       true,
	"photo_path": true,
}

// MemberFilter narrows member listings
type MemberFilter struct {
	Status string
	Plan   string
	Search string
	Page   int
	Limit  int
}

// MemberRepository defines the interface for member data access
type MemberRepository interface {
	Create(member *domain.Member) error
	FindByID(id uint) (*domain.Member, error)
	FindByCode(code string) (*domain.Member, error)
	List(filter MemberFilter) ([]*domain.Member, int64, error)
	Update(id uint, fields map[string]interface{}) error
	Save(member *domain.Member) error
	SoftDelete(id uint) error
	CountByStatus() (map[string]int64, error)
}

// memberRepository implements MemberRepository with GORM
type memberRepository struct {
	db *gorm.DB
}

// NewMemberRepository creates a new MemberRepository
func NewMemberRepository(db *gorm.DB) MemberRepository {
	return &memberRepository{db: db}
}

// Create generates the member code and inserts the row. Code generation and
// insert run in one transaction; a duplicate-key failure (two concurrent
// creates computing the same code) is retried once with a fresh scan.
func (r *memberRepository) Create(member *domain.Member) error {
	member.Status = domain.StatusPending

	for attempt := 0; attempt < 2; attempt++ {
		err := r.db.Transaction(func(tx *gorm.DB) error {
			code, err := nextCode(tx, &domain.Member{}, domain.MemberCodePrefix)
			if err != nil {
				return err
			}
			member.Code = code
			return tx.Create(member).Error
		})
		if err == nil {
			return nil
		}
		if isDuplicateKey(err) && attempt == 0 {
			member.ID = 0
			continue
		}
		return &common.PersistenceError{Op: "member create", Cause: err}
	}
	return nil
}

// FindByID finds a member by numeric id
func (r *memberRepository) FindByID(id uint) (*domain.Member, error) {
	var member domain.Member
	err := r.db.First(&member, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, &common.PersistenceError{Op: "member find", Cause: err}
	}
	return &member, nil
}

// FindByCode finds a member by human-facing code
func (r *memberRepository) FindByCode(code string) (*domain.Member, error) {
	var member domain.Member
	err := r.db.Where("code = ?", code).First(&member).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, &common.PersistenceError{Op: "member find", Cause: err}
	}
	return &member, nil
}

// List retrieves members with filters and pagination
func (r *memberRepository) List(filter MemberFilter) ([]*domain.Member, int64, error) {
	query := r.db.Model(&domain.Member{})

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Plan != "" {
		query = query.Where("plan = ?", filter.Plan)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where(
			"LOWER(name) LIKE LOWER(?) OR LOWER(email) LIKE LOWER(?) OR LOWER(code) LIKE LOWER(?) OR phone LIKE ?",
			pattern, pattern, pattern, pattern,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, &common.PersistenceError{Op: "member count", Cause: err}
	}

	var members []*domain.Member
	err := query.
		Order("id DESC").
		Offset((filter.Page - 1) * filter.Limit).
		Limit(filter.Limit).
		Find(&members).Error
	if err != nil {
		return nil, 0, &common.PersistenceError{Op: "member list", Cause: err}
	}

	return members, total, nil
}

// Update applies an allow-listed partial update
func (r *memberRepository) Update(id uint, fields map[string]interface{}) error {
	updates, err := filterAllowedFields(fields, memberUpdatableFields)
	if err != nil {
		return err
	}

	result := r.db.Model(&domain.Member{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return &common.PersistenceError{Op: "member update", Cause: result.Error}
	}
	if result.RowsAffected == 0 {
		return common.ErrNotFound
	}
	return nil
}

// Save persists the full member row (workflow transitions)
func (r *memberRepository) Save(member *domain.Member) error {
	if err := r.db.Save(member).Error; err != nil {
		return &common.PersistenceError{Op: "member save", Cause: err}
	}
	return nil
}

// SoftDelete flips the member to inactive; member rows are never removed
func (r *memberRepository) SoftDelete(id uint) error {
	result := r.db.Model(&domain.Member{}).
		Where("id = ?", id).
		Update("status", domain.StatusInactive)
	if result.Error != nil {
		return &common.PersistenceError{Op: "member delete", Cause: result.Error}
	}
	if result.RowsAffected == 0 {
		return common.ErrNotFound
	}
	return nil
}

// CountByStatus returns member counts grouped by status (dashboard stats)
func (r *memberRepository) CountByStatus() (map[string]int64, error) {
	type row struct {
		Status string
		Count  int64
	}
	var rows []row
	err := r.db.Model(&domain.Member{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, &common.PersistenceError{Op: "member stats", Cause: err}
	}

	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}
