package service

import (
	"context"
	"testing"
	"time"

	"github.com/sevasetu/backend/internal/common"
	"github.com/sevasetu/backend/internal/domain"
	"github.com/sevasetu/backend/internal/notify"
	"github.com/sevasetu/backend/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- Mock DonationRepository ---

type mockDonationRepo struct {
	mock.Mock
}

func (m *mockDonationRepo) Create(donation *domain.Donation) error {
	return m.Called(donation).Error(0)
}

func (m *mockDonationRepo) FindByID(id uint) (*domain.Donation, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Donation), args.Error(1)
}

func (m *mockDonationRepo) FindByCode(code string) (*domain.Donation, error) {
	args := m.Called(code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Donation), args.Error(1)
}

func (m *mockDonationRepo) List(filter repository.DonationFilter) ([]*domain.Donation, int64, error) {
	args := m.Called(filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*domain.Donation), args.Get(1).(int64), args.Error(2)
}

func (m *mockDonationRepo) Update(id uint, fields map[string]interface{}) error {
	return m.Called(id, fields).Error(0)
}

func (m *mockDonationRepo) Save(donation *domain.Donation) error {
	return m.Called(donation).Error(0)
}

func (m *mockDonationRepo) Delete(id uint) error {
	return m.Called(id).Error(0)
}

func (m *mockDonationRepo) CountByStatus() (map[string]int64, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int64), args.Error(1)
}

func (m *mockDonationRepo) SumApprovedAmount() (float64, error) {
	args := m.Called()
	return args.Get(0).(float64), args.Error(1)
}

func newDonationFixture(t *testing.T) (*mockDonationRepo, *fakeNotifier, *fakeRenderer, *fakeEvents, DonationService) {
	t.Helper()
	repo := new(mockDonationRepo)
	notifier := &fakeNotifier{}
	renderer := &fakeRenderer{}
	events := &fakeEvents{}
	svc := NewDonationService(repo, notifier, renderer, events, t.TempDir())
	return repo, notifier, renderer, events, svc
}

func TestDonationCreateParsesAmount(t *testing.T) {
	repo, notifier, _, events, svc := newDonationFixture(t)

	repo.On("Create", mock.Anything).Run(func(args mock.Arguments) {
		d := args.Get(0).(*domain.Donation)
		d.ID = 1
		d.Code = "DON000001"
		d.Status = domain.StatusPending
	}).Return(nil)

	resp, err := svc.Create(context.Background(), &domain.CreateDonationRequest{
		DonorName: "Ravi Kumar",
		Email:     "ravi@example.com",
		Amount:    "1,500.50",
	})
	require.NoError(t, err)
	assert.Equal(t, 1500.50, resp.Amount)
	assert.Equal(t, "DON000001", resp.Code)

	// Both donor and admin are notified on submission
	sent := notifier.Sent()
	require.Len(t, sent, 2)
	assert.Equal(t, notify.KindAdminNewSubmission, sent[0].kind)
	assert.Equal(t, notify.KindDonorThankYou, sent[1].kind)
	assert.Contains(t, events.Events(), "donation.created")
}

func TestDonationCreateInvalidAmount(t *testing.T) {
	repo, _, _, _, svc := newDonationFixture(t)

	_, err := svc.Create(context.Background(), &domain.CreateDonationRequest{
		DonorName: "Ravi",
		Email:     "ravi@example.com",
		Amount:    "a lot",
	})
	var ve *common.ValidationError
	assert.ErrorAs(t, err, &ve)
	repo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestDonationApproveRendersReceiptInBackground(t *testing.T) {
	repo, notifier, renderer, events, svc := newDonationFixture(t)

	donation := &domain.Donation{ID: 3, Code: "DON000003", DonorName: "Asha",
		Email: "asha@example.com", Amount: 500, Status: domain.StatusPending}
	repo.On("FindByID", uint(3)).Return(donation, nil)
	repo.On("Save", mock.Anything).Return(nil)

	resp, err := svc.Approve(3, "admin")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, resp.Status)

	sent := awaitNotifications(t, notifier, 1)
	assert.Equal(t, notify.KindReceiptWithPDF, sent[0].kind)
	require.NotNil(t, sent[0].opts.Attachment)
	assert.False(t, sent[0].opts.Sync)

	require.Len(t, renderer.Rendered(), 1)
	assert.Contains(t, renderer.Rendered()[0], "DON000003.pdf")
	assert.Contains(t, events.Events(), "donation.approved")
}

func TestDonationApproveRejectsNonPending(t *testing.T) {
	repo, _, _, _, svc := newDonationFixture(t)

	donation := &domain.Donation{ID: 4, Status: domain.StatusApproved}
	repo.On("FindByID", uint(4)).Return(donation, nil)

	_, err := svc.Approve(4, "admin")
	assert.ErrorIs(t, err, common.ErrInvalidTransition)
	repo.AssertNotCalled(t, "Save", mock.Anything)
}

func TestDonationRejectRecordsReason(t *testing.T) {
	repo, _, _, _, svc := newDonationFixture(t)

	donation := &domain.Donation{ID: 5, Status: domain.StatusPending}
	repo.On("FindByID", uint(5)).Return(donation, nil)
	repo.On("Save", mock.Anything).Return(nil)

	resp, err := svc.Reject(5, "admin", "payment not traced")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRejected, resp.Status)
	assert.Equal(t, "payment not traced", resp.RejectionReason)
}

func TestDonationResendReceiptIsSynchronous(t *testing.T) {
	repo := new(mockDonationRepo)
	notifier := &fakeNotifier{err: assert.AnError}
	svc := NewDonationService(repo, notifier, &fakeRenderer{}, &fakeEvents{}, t.TempDir())

	now := time.Now()
	donation := &domain.Donation{ID: 6, Code: "DON000006", Email: "a@example.com",
		Status: domain.StatusApproved, ApprovedAt: &now}
	repo.On("FindByID", uint(6)).Return(donation, nil)

	err := svc.ResendReceipt(context.Background(), 6)
	assert.ErrorIs(t, err, assert.AnError)

	sent := notifier.Sent()
	require.Len(t, sent, 1)
	assert.True(t, sent[0].opts.Sync)
}

func TestDonationStats(t *testing.T) {
	repo, _, _, _, svc := newDonationFixture(t)

	repo.On("CountByStatus").Return(map[string]int64{"pending": 2, "approved": 5}, nil)
	repo.On("SumApprovedAmount").Return(12500.0, nil)

	stats, err := svc.Stats()
	require.NoError(t, err)
	assert.Equal(t, 12500.0, stats["approved_amount"])
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input   string
		want    float64
		wantErr bool
	}{
		{"1500", 1500, false},
		{"1,500.50", 1500.5, false},
		{" 99.9 ", 99.9, false},
		{"", 0, true},
		{"abc", 0, true},
	}

	for _, tt := range tests {
		got, err := parseAmount(tt.input)
		if tt.wantErr {
			assert.Error(t, err, tt.input)
			continue
		}
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.want, got, tt.input)
	}
}
