package repository

import (
	"testing"

	"github.com/sevasetu/backend/internal/common"
	"github.com/sevasetu/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.Member{},
		&domain.Donation{},
		&domain.Contact{},
		&domain.GalleryImage{},
	))
	return db
}

func TestMemberCreateAssignsSequentialCodes(t *testing.T) {
	repo := NewMemberRepository(newTestDB(t))

	first := &domain.Member{Name: "Asha Verma", Email: "asha@example.com", Plan: "annual"}
	require.NoError(t, repo.Create(first))
	assert.Equal(t, "SSS000001", first.Code)
	assert.Equal(t, domain.StatusPending, first.Status)

	second := &domain.Member{Name: "Ravi Kumar", Email: "ravi@example.com", Plan: "lifetime"}
	require.NoError(t, repo.Create(second))
	assert.Equal(t, "SSS000002", second.Code)
}

func TestMemberCreateSkipsGapsToMaxSuffix(t *testing.T) {
	db := newTestDB(t)
	repo := NewMemberRepository(db)

	// Seed a high code as if earlier rows were hard-purged
	require.NoError(t, db.Create(&domain.Member{
		Code: "SSS000041", Name: "Seed", Email: "seed@example.com",
	}).Error)

	member := &domain.Member{Name: "Next", Email: "next@example.com"}
	require.NoError(t, repo.Create(member))
	assert.Equal(t, "SSS000042", member.Code)
}

func TestMemberUpdateAllowList(t *testing.T) {
	repo := NewMemberRepository(newTestDB(t))

	member := &domain.Member{Name: "Asha Verma", Email: "asha@example.com"}
	require.NoError(t, repo.Create(member))

	// Disallowed fields are dropped silently, allowed ones applied
	err := repo.Update(member.ID, map[string]interface{}{
		"phone":  "9876543210",
		"status": domain.StatusApproved,
		"code":   "SSS999999",
	})
	require.NoError(t, err)

	got, err := repo.FindByID(member.ID)
	require.NoError(t, err)
	assert.Equal(t, "9876543210", got.Phone)
	assert.Equal(t, domain.StatusPending, got.Status)
	assert.Equal(t, member.Code, got.Code)
}

func TestMemberUpdateNoAllowedFields(t *testing.T) {
	repo := NewMemberRepository(newTestDB(t))

	member := &domain.Member{Name: "Asha Verma", Email: "asha@example.com"}
	require.NoError(t, repo.Create(member))

	err := repo.Update(member.ID, map[string]interface{}{"status": domain.StatusApproved})
	var ve *common.ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestMemberListFilters(t *testing.T) {
	db := newTestDB(t)
	repo := NewMemberRepository(db)

	for _, m := range []*domain.Member{
		{Name: "Asha Verma", Email: "asha@example.com", Plan: "annual"},
		{Name: "Ravi Kumar", Email: "ravi@example.com", Plan: "lifetime"},
		{Name: "Meera Nair", Email: "meera@example.com", Plan: "annual"},
	} {
		require.NoError(t, repo.Create(m))
	}
	require.NoError(t, db.Model(&domain.Member{}).
		Where("email = ?", "ravi@example.com").
		Update("status", domain.StatusApproved).Error)

	members, total, err := repo.List(MemberFilter{Status: domain.StatusPending, Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, members, 2)

	members, total, err = repo.List(MemberFilter{Search: "RAVI", Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "Ravi Kumar", members[0].Name)

	members, total, err = repo.List(MemberFilter{Plan: "annual", Page: 1, Limit: 1})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, members, 1)
}

func TestMemberSoftDelete(t *testing.T) {
	repo := NewMemberRepository(newTestDB(t))

	member := &domain.Member{Name: "Asha Verma", Email: "asha@example.com"}
	require.NoError(t, repo.Create(member))
	require.NoError(t, repo.SoftDelete(member.ID))

	got, err := repo.FindByID(member.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInactive, got.Status)
}

func TestMemberFindByIDNotFound(t *testing.T) {
	repo := NewMemberRepository(newTestDB(t))

	_, err := repo.FindByID(12345)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestMemberCountByStatus(t *testing.T) {
	db := newTestDB(t)
	repo := NewMemberRepository(db)

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Create(&domain.Member{Name: "M", Email: "m@example.com"}))
	}
	require.NoError(t, db.Model(&domain.Member{}).
		Where("id = ?", 1).
		Update("status", domain.StatusApproved).Error)

	counts, err := repo.CountByStatus()
	require.NoError(t, err)
	assert.EqualValues(t, 2, counts[domain.StatusPending])
	assert.EqualValues(t, 1, counts[domain.StatusApproved])
}
