package service

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sevasetu/backend/internal/common"
	"github.com/sevasetu/backend/internal/domain"
	"github.com/sevasetu/backend/internal/mailer"
	"github.com/sevasetu/backend/internal/notify"
	"github.com/sevasetu/backend/internal/pdf"
	"github.com/sevasetu/backend/internal/repository"
	pkglogger "github.com/sevasetu/backend/pkg/logger"
)

// DonationService defines the business logic for donations,
// including the approval workflow and receipt generation.
type DonationService interface {
	Create(ctx context.Context, req *domain.CreateDonationRequest) (*domain.DonationResponse, error)
	Get(id uint) (*domain.DonationResponse, error)
	List(filter repository.DonationFilter) (*ListResponse, error)
	Update(id uint, fields map[string]interface{}) (*domain.DonationResponse, error)
	Approve(id uint, actorID string) (*domain.DonationResponse, error)
	Reject(id uint, actorID, reason string) (*domain.DonationResponse, error)
	ResendReceipt(ctx context.Context, id uint) error
	Delete(id uint) error
	Stats() (map[string]interface{}, error)
}

type donationService struct {
	repo        repository.DonationRepository
	notifier    Notifier
	renderer    pdf.Renderer
	events      EventPublisher
	artifactDir string
	log         zerolog.Logger
}

// NewDonationService creates a new DonationService
func NewDonationService(
	repo repository.DonationRepository,
	notifier Notifier,
	renderer pdf.Renderer,
	events EventPublisher,
	artifactDir string,
) DonationService {
	return &donationService{
		repo:        repo,
		notifier:    notifier,
		renderer:    renderer,
		events:      events,
		artifactDir: artifactDir,
		log:         pkglogger.WithComponent("donation-service"),
	}
}

// Create stores a public donation submission as pending, thanks the donor
// and notifies the admin mailbox. Notification failures never abort the
// submission.
func (s *donationService) Create(ctx context.Context, req *domain.CreateDonationRequest) (*domain.DonationResponse, error) {
	amount, err := parseAmount(req.Amount)
	if err != nil {
		return nil, common.NewValidationError("invalid amount %q", req.Amount)
	}

	donation := &domain.Donation{
		DonorName:      req.DonorName,
		Email:          req.Email,
		Phone:          req.Phone,
		Address:        req.Address,
		Amount:         amount,
		Purpose:        req.Purpose,
		PaymentMethod:  req.PaymentMethod,
		TransactionRef: req.TransactionRef,
		Anonymous:      req.Anonymous,
		Message:        req.Message,
	}

	if err := s.repo.Create(donation); err != nil {
		return nil, err
	}

	record := s.record(donation)
	s.notifier.Notify(ctx, notify.KindAdminNewSubmission, record, notify.Options{}) //nolint:errcheck
	s.notifier.Notify(ctx, notify.KindDonorThankYou, record, notify.Options{})      //nolint:errcheck
	s.events.Publish("donation.created", donation.ToResponse())

	return donation.ToResponse(), nil
}

// Get retrieves a donation by id
func (s *donationService) Get(id uint) (*domain.DonationResponse, error) {
	donation, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}
	return donation.ToResponse(), nil
}

// List retrieves donations with filters and pagination
func (s *donationService) List(filter repository.DonationFilter) (*ListResponse, error) {
	filter.Page, filter.Limit = normalizePage(filter.Page, filter.Limit)

	donations, total, err := s.repo.List(filter)
	if err != nil {
		return nil, err
	}

	items := make([]*domain.DonationResponse, len(donations))
	for i, d := range donations {
		items[i] = d.ToResponse()
	}
	return newListResponse(items, total, filter.Page, filter.Limit), nil
}

// Update applies an allow-listed partial update
func (s *donationService) Update(id uint, fields map[string]interface{}) (*domain.DonationResponse, error) {
	if err := s.repo.Update(id, fields); err != nil {
		return nil, err
	}
	donation, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}
	s.events.Publish("donation.updated", donation.ToResponse())
	return donation.ToResponse(), nil
}

// Approve transitions a pending donation to approved and returns
// immediately; the receipt PDF and thank-you email run in the background.
func (s *donationService) Approve(id uint, actorID string) (*domain.DonationResponse, error) {
	donation, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if donation.Status != domain.StatusPending {
		return nil, common.ErrInvalidTransition
	}

	now := time.Now()
	donation.Status = domain.StatusApproved
	donation.ApprovedBy = actorID
	donation.ApprovedAt = &now

	if err := s.repo.Save(donation); err != nil {
		return nil, err
	}

	go s.processApproval(donation)

	s.events.Publish("donation.approved", donation.ToResponse())
	return donation.ToResponse(), nil
}

// Reject transitions a pending donation to rejected with a reason
func (s *donationService) Reject(id uint, actorID, reason string) (*domain.DonationResponse, error) {
	donation, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if donation.Status != domain.StatusPending {
		return nil, common.ErrInvalidTransition
	}

	now := time.Now()
	donation.Status = domain.StatusRejected
	donation.ApprovedBy = actorID
	donation.ApprovedAt = &now
	donation.RejectionReason = reason

	if err := s.repo.Save(donation); err != nil {
		return nil, err
	}

	s.events.Publish("donation.rejected", donation.ToResponse())
	return donation.ToResponse(), nil
}

// ResendReceipt regenerates the receipt and re-sends it synchronously so
// staff see delivery failures. Allowed whatever the current status.
func (s *donationService) ResendReceipt(ctx context.Context, id uint) error {
	donation, err := s.repo.FindByID(id)
	if err != nil {
		return err
	}

	receiptPath, err := s.renderReceipt(ctx, donation)
	if err != nil {
		return fmt.Errorf("receipt render: %w", err)
	}

	return s.notifier.Notify(ctx, notify.KindReceiptWithPDF, s.record(donation), notify.Options{
		Attachment: &mailer.Attachment{Name: "donation-receipt.pdf", Path: receiptPath},
		Sync:       true,
	})
}

// Delete hard-deletes a donation (administrative)
func (s *donationService) Delete(id uint) error {
	if err := s.repo.Delete(id); err != nil {
		return err
	}
	s.events.Publish("donation.deleted", map[string]uint{"id": id})
	return nil
}

// Stats returns dashboard counts and the approved total
func (s *donationService) Stats() (map[string]interface{}, error) {
	counts, err := s.repo.CountByStatus()
	if err != nil {
		return nil, err
	}
	total, err := s.repo.SumApprovedAmount()
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"by_status":       counts,
		"approved_amount": total,
	}, nil
}

// processApproval runs after the approval response is flushed
func (s *donationService) processApproval(donation *domain.Donation) {
	ctx, cancel := context.WithTimeout(context.Background(), artifactTimeoutSeconds*time.Second)
	defer cancel()

	receiptPath, err := s.renderReceipt(ctx, donation)
	if err != nil {
		s.log.Error().Err(err).Uint("donation_id", donation.ID).Msg("receipt render failed")
		return
	}

	donation.ReceiptPath = receiptPath
	if err := s.repo.Save(donation); err != nil {
		s.log.Error().Err(err).Uint("donation_id", donation.ID).Msg("receipt path save failed")
	}

	s.notifier.Notify(context.Background(), notify.KindReceiptWithPDF, s.record(donation), notify.Options{ //nolint:errcheck
		Attachment: &mailer.Attachment{Name: "donation-receipt.pdf", Path: receiptPath},
	})
}

func (s *donationService) renderReceipt(ctx context.Context, donation *domain.Donation) (string, error) {
	canonical := notify.Normalize(s.record(donation))
	receiptPath := filepath.Join(s.artifactDir, "receipts", fmt.Sprintf("%s.pdf", donation.Code))
	if err := s.renderer.RenderReceipt(ctx, canonical, receiptPath); err != nil {
		return "", err
	}
	return receiptPath, nil
}

// record exposes the donation in the heterogeneous shape Normalize accepts
func (s *donationService) record(donation *domain.Donation) map[string]interface{} {
	return map[string]interface{}{
		"donor_name":      donation.DonorName,
		"email":           donation.Email,
		"phone":           donation.Phone,
		"address":         donation.Address,
		"amount":          donation.Amount,
		"purpose":         donation.Purpose,
		"transaction_ref": donation.TransactionRef,
		"anonymous":       donation.Anonymous,
		"code":            donation.Code,
		"created_at":      donation.CreatedAt,
	}
}

// parseAmount accepts "1500.5" and "1,500.50" style inputs
func parseAmount(s string) (float64, error) {
	cleaned := strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if cleaned == "" {
		return 0, fmt.Errorf("empty amount")
	}
	return strconv.ParseFloat(cleaned, 64)
}
