package repository

import (
	"testing"

	"github.com/sevasetu/backend/internal/common"
	"github.com/sevasetu/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDonationCreateAssignsCode(t *testing.T) {
	repo := NewDonationRepository(newTestDB(t))

	donation := &domain.Donation{DonorName: "Ravi Kumar", Email: "ravi@example.com", Amount: 1500}
	require.NoError(t, repo.Create(donation))
	assert.Equal(t, "DON000001", donation.Code)
	assert.Equal(t, domain.StatusPending, donation.Status)

	second := &domain.Donation{DonorName: "Asha Verma", Email: "asha@example.com", Amount: 500}
	require.NoError(t, repo.Create(second))
	assert.Equal(t, "DON000002", second.Code)
}

func TestDonationSumApprovedAmount(t *testing.T) {
	db := newTestDB(t)
	repo := NewDonationRepository(db)

	amounts := []float64{1000, 250.50, 99.50}
	for _, a := range amounts {
		require.NoError(t, repo.Create(&domain.Donation{DonorName: "D", Email: "d@example.com", Amount: a}))
	}
	// Approve the first two
	require.NoError(t, db.Model(&domain.Donation{}).
		Where("id IN ?", []uint{1, 2}).
		Update("status", domain.StatusApproved).Error)

	total, err := repo.SumApprovedAmount()
	require.NoError(t, err)
	assert.InDelta(t, 1250.50, total, 0.001)
}

func TestDonationHardDelete(t *testing.T) {
	repo := NewDonationRepository(newTestDB(t))

	donation := &domain.Donation{DonorName: "Ravi", Email: "ravi@example.com", Amount: 100}
	require.NoError(t, repo.Create(donation))
	require.NoError(t, repo.Delete(donation.ID))

	_, err := repo.FindByID(donation.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)

	assert.ErrorIs(t, repo.Delete(donation.ID), common.ErrNotFound)
}

func TestDonationUpdateAllowList(t *testing.T) {
	repo := NewDonationRepository(newTestDB(t))

	donation := &domain.Donation{DonorName: "Ravi", Email: "ravi@example.com", Amount: 100}
	require.NoError(t, repo.Create(donation))

	require.NoError(t, repo.Update(donation.ID, map[string]interface{}{
		"transaction_ref": "UTR-9912",
		"status":          domain.StatusApproved,
	}))

	got, err := repo.FindByID(donation.ID)
	require.NoError(t, err)
	assert.Equal(t, "UTR-9912", got.TransactionRef)
	assert.Equal(t, domain.StatusPending, got.Status)
}

func TestDonationListByPurpose(t *testing.T) {
	repo := NewDonationRepository(newTestDB(t))

	require.NoError(t, repo.Create(&domain.Donation{DonorName: "A", Email: "a@example.com", Amount: 10, Purpose: "education"}))
	require.NoError(t, repo.Create(&domain.Donation{DonorName: "B", Email: "b@example.com", Amount: 20, Purpose: "health"}))

	donations, total, err := repo.List(DonationFilter{Purpose: "education", Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "A", donations[0].DonorName)
}
