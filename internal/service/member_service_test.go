package service

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sevasetu/backend/internal/common"
	"github.com/sevasetu/backend/internal/config"
	"github.com/sevasetu/backend/internal/domain"
	"github.com/sevasetu/backend/internal/notify"
	"github.com/sevasetu/backend/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- Mock MemberRepository ---

type mockMemberRepo struct {
	mock.Mock
}

func (m *mockMemberRepo) Create(member *domain.Member) error {
	return m.Called(member).Error(0)
}

func (m *mockMemberRepo) FindByID(id uint) (*domain.Member, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Member), args.Error(1)
}

func (m *mockMemberRepo) FindByCode(code string) (*domain.Member, error) {
	args := m.Called(code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Member), args.Error(1)
}

func (m *mockMemberRepo) List(filter repository.MemberFilter) ([]*domain.Member, int64, error) {
	args := m.Called(filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*domain.Member), args.Get(1).(int64), args.Error(2)
}

func (m *mockMemberRepo) Update(id uint, fields map[string]interface{}) error {
	return m.Called(id, fields).Error(0)
}

func (m *mockMemberRepo) Save(member *domain.Member) error {
	return m.Called(member).Error(0)
}

func (m *mockMemberRepo) SoftDelete(id uint) error {
	return m.Called(id).Error(0)
}

func (m *mockMemberRepo) CountByStatus() (map[string]int64, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int64), args.Error(1)
}

// --- Fakes for the notification and artifact side effects ---

type sentNotification struct {
	kind notify.Kind
	opts notify.Options
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []sentNotification
	err  error
}

func (f *fakeNotifier) Notify(_ context.Context, kind notify.Kind, _ map[string]interface{}, opts notify.Options) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentNotification{kind: kind, opts: opts})
	return f.err
}

func (f *fakeNotifier) Sent() []sentNotification {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sentNotification(nil), f.sent...)
}

type fakeRenderer struct {
	delay time.Duration
	err   error

	mu    sync.Mutex
	paths []string
}

func (f *fakeRenderer) render(outPath string) error {
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	f.paths = append(f.paths, outPath)
	f.mu.Unlock()
	return nil
}

func (f *fakeRenderer) RenderReceipt(_ context.Context, _ notify.Canonical, outPath string) error {
	return f.render(outPath)
}

func (f *fakeRenderer) RenderMemberCard(_ context.Context, _ notify.Canonical, _ time.Time, outPath string) error {
	return f.render(outPath)
}

func (f *fakeRenderer) Rendered() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.paths...)
}

type fakeEvents struct {
	mu     sync.Mutex
	events []string
}

func (f *fakeEvents) Publish(eventType string, _ interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, eventType)
}

func (f *fakeEvents) Events() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.events...)
}

func testConfig() *config.Config {
	return &config.Config{Plans: config.DefaultPlans()}
}

func newMemberFixture(t *testing.T) (*mockMemberRepo, *fakeNotifier, *fakeRenderer, *fakeEvents, MemberService) {
	t.Helper()
	repo := new(mockMemberRepo)
	notifier := &fakeNotifier{}
	renderer := &fakeRenderer{}
	events := &fakeEvents{}
	svc := NewMemberService(repo, notifier, renderer, events, nil, testConfig(), t.TempDir())
	return repo, notifier, renderer, events, svc
}

func awaitNotifications(t *testing.T, n *fakeNotifier, count int) []sentNotification {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if sent := n.Sent(); len(sent) >= count {
			return sent
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("expected %d notifications, got %d", count, len(n.Sent()))
	return nil
}

func TestMemberApproveSetsValidTillFromPlan(t *testing.T) {
	repo, notifier, _, events, svc := newMemberFixture(t)

	member := &domain.Member{ID: 7, Code: "SSS000007", Name: "Asha", Email: "asha@example.com",
		Plan: "annual", Status: domain.StatusPending}
	repo.On("FindByID", uint(7)).Return(member, nil)
	repo.On("Save", mock.Anything).Return(nil)

	resp, err := svc.Approve(7, "admin")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, resp.Status)
	assert.Equal(t, "admin", resp.ApprovedBy)
	require.NotNil(t, resp.ValidTill)

	wantTill := time.Now().AddDate(0, 12, 0)
	assert.WithinDuration(t, wantTill, *resp.ValidTill, time.Minute)

	awaitNotifications(t, notifier, 1)
	assert.Contains(t, events.Events(), "member.approved")
}

func TestMemberApproveLifetimePlan(t *testing.T) {
	repo, notifier, _, _, svc := newMemberFixture(t)

	member := &domain.Member{ID: 8, Code: "SSS000008", Name: "Ravi", Email: "ravi@example.com",
		Plan: "lifetime", Status: domain.StatusPending}
	repo.On("FindByID", uint(8)).Return(member, nil)
	repo.On("Save", mock.Anything).Return(nil)

	resp, err := svc.Approve(8, "admin")
	require.NoError(t, err)
	require.NotNil(t, resp.ValidTill)
	assert.WithinDuration(t, time.Now().AddDate(50, 0, 0), *resp.ValidTill, time.Hour)

	awaitNotifications(t, notifier, 1)
}

func TestMemberApproveRejectsNonPending(t *testing.T) {
	repo, _, _, _, svc := newMemberFixture(t)

	member := &domain.Member{ID: 9, Status: domain.StatusApproved}
	repo.On("FindByID", uint(9)).Return(member, nil)

	_, err := svc.Approve(9, "admin")
	assert.ErrorIs(t, err, common.ErrInvalidTransition)
	repo.AssertNotCalled(t, "Save", mock.Anything)
}

func TestMemberApproveReturnsBeforeArtifacts(t *testing.T) {
	repo := new(mockMemberRepo)
	notifier := &fakeNotifier{}
	renderer := &fakeRenderer{delay: 300 * time.Millisecond}
	events := &fakeEvents{}
	svc := NewMemberService(repo, notifier, renderer, events, nil, testConfig(), t.TempDir())

	member := &domain.Member{ID: 10, Code: "SSS000010", Email: "a@example.com",
		Plan: "annual", Status: domain.StatusPending}
	repo.On("FindByID", uint(10)).Return(member, nil)
	repo.On("Save", mock.Anything).Return(nil)

	start := time.Now()
	_, err := svc.Approve(10, "admin")
	require.NoError(t, err)
	assert.Less(t, time.Since(start), 150*time.Millisecond,
		"approve must not wait for card rendering")

	awaitNotifications(t, notifier, 1)
	assert.Len(t, renderer.Rendered(), 1)
}

func TestMemberApproveCardFailureDoesNotUndoApproval(t *testing.T) {
	repo := new(mockMemberRepo)
	notifier := &fakeNotifier{}
	renderer := &fakeRenderer{err: assert.AnError}
	svc := NewMemberService(repo, notifier, renderer, &fakeEvents{}, nil, testConfig(), t.TempDir())

	member := &domain.Member{ID: 11, Status: domain.StatusPending, Plan: "annual", Email: "a@example.com"}
	repo.On("FindByID", uint(11)).Return(member, nil)
	repo.On("Save", mock.Anything).Return(nil)

	resp, err := svc.Approve(11, "admin")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, resp.Status)

	// The render failure suppresses the email but the approval stands
	time.Sleep(100 * time.Millisecond)
	assert.Empty(t, notifier.Sent())
}

func TestMemberRejectRequiresPending(t *testing.T) {
	repo, _, _, events, svc := newMemberFixture(t)

	pending := &domain.Member{ID: 12, Status: domain.StatusPending}
	repo.On("FindByID", uint(12)).Return(pending, nil)
	repo.On("Save", mock.Anything).Return(nil)

	resp, err := svc.Reject(12, "admin", "incomplete documents")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRejected, resp.Status)
	assert.Equal(t, "incomplete documents", resp.RejectionReason)
	assert.Contains(t, events.Events(), "member.rejected")

	rejected := &domain.Member{ID: 13, Status: domain.StatusRejected}
	repo.On("FindByID", uint(13)).Return(rejected, nil)
	_, err = svc.Reject(13, "admin", "again")
	assert.ErrorIs(t, err, common.ErrInvalidTransition)
}

func TestMemberResendCardPropagatesDeliveryError(t *testing.T) {
	repo := new(mockMemberRepo)
	notifier := &fakeNotifier{err: assert.AnError}
	renderer := &fakeRenderer{}
	svc := NewMemberService(repo, notifier, renderer, &fakeEvents{}, nil, testConfig(), t.TempDir())

	till := time.Now().AddDate(1, 0, 0)
	member := &domain.Member{ID: 14, Code: "SSS000014", Email: "a@example.com",
		Status: domain.StatusApproved, ValidTill: &till}
	repo.On("FindByID", uint(14)).Return(member, nil)

	err := svc.ResendCard(context.Background(), 14)
	assert.ErrorIs(t, err, assert.AnError)

	sent := notifier.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, notify.KindApprovalWithCard, sent[0].kind)
	assert.True(t, sent[0].opts.Sync)
	require.NotNil(t, sent[0].opts.Attachment)
}

func TestMemberCreateNotifiesAdmin(t *testing.T) {
	repo, notifier, _, events, svc := newMemberFixture(t)

	repo.On("Create", mock.Anything).Run(func(args mock.Arguments) {
		m := args.Get(0).(*domain.Member)
		m.ID = 1
		m.Code = "SSS000001"
		m.Status = domain.StatusPending
	}).Return(nil)

	resp, err := svc.Create(context.Background(), &domain.CreateMemberRequest{
		Name:  "Asha Verma",
		Email: "asha@example.com",
	}, nil, "", 0)
	require.NoError(t, err)
	assert.Equal(t, "SSS000001", resp.Code)
	assert.Equal(t, "annual", resp.Plan)

	sent := notifier.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, notify.KindAdminNewSubmission, sent[0].kind)
	assert.Contains(t, events.Events(), "member.created")
}

func TestMemberCreateNotificationFailureDoesNotAbort(t *testing.T) {
	repo := new(mockMemberRepo)
	notifier := &fakeNotifier{err: assert.AnError}
	svc := NewMemberService(repo, notifier, &fakeRenderer{}, &fakeEvents{}, nil, testConfig(), t.TempDir())

	repo.On("Create", mock.Anything).Return(nil)

	_, err := svc.Create(context.Background(), &domain.CreateMemberRequest{
		Name:  "Asha",
		Email: "asha@example.com",
	}, nil, "", 0)
	assert.NoError(t, err)
}

func TestMemberCreatePhotoValidation(t *testing.T) {
	repo := new(mockMemberRepo)
	store := newFakeStore()
	svc := NewMemberService(repo, &fakeNotifier{}, &fakeRenderer{}, &fakeEvents{}, store, testConfig(), t.TempDir())

	req := &domain.CreateMemberRequest{Name: "Asha", Email: "asha@example.com"}

	_, err := svc.Create(context.Background(), req, strings.NewReader("x"), "resume.pdf", 2)
	var verr *common.ValidationError
	require.ErrorAs(t, err, &verr)

	_, err = svc.Create(context.Background(), req, strings.NewReader("x"), "photo.jpg", 11*1024*1024)
	require.ErrorAs(t, err, &verr)

	assert.Empty(t, store.saved, "rejected photo must not touch storage")
	repo.AssertNotCalled(t, "Create", mock.Anything)
}
