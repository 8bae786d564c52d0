package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/sevasetu/backend/internal/common"
	"github.com/sevasetu/backend/internal/config"
	"github.com/sevasetu/backend/internal/domain"
	"github.com/sevasetu/backend/internal/mailer"
	"github.com/sevasetu/backend/internal/notify"
	"github.com/sevasetu/backend/internal/pdf"
	"github.com/sevasetu/backend/internal/repository"
	pkglogger "github.com/sevasetu/backend/pkg/logger"
	"github.com/sevasetu/backend/pkg/storage"
)

// MemberService defines the business logic for membership applications,
// including the approval workflow.
type MemberService interface {
	Create(ctx context.Context, req *domain.CreateMemberRequest, photo io.Reader, photoName string, photoSize int64) (*domain.MemberResponse, error)
	Get(id uint) (*domain.MemberResponse, error)
	List(filter repository.MemberFilter) (*ListResponse, error)
	Update(id uint, fields map[string]interface{}) (*domain.MemberResponse, error)
	Approve(id uint, actorID string) (*domain.MemberResponse, error)
	Reject(id uint, actorID, reason string) (*domain.MemberResponse, error)
	ResendCard(ctx context.Context, id uint) error
	Delete(id uint) error
	CountByStatus() (map[string]int64, error)
}

type memberService struct {
	repo        repository.MemberRepository
	notifier    Notifier
	renderer    pdf.Renderer
	events      EventPublisher
	store       storage.Storage
	cfg         *config.Config
	artifactDir string
	log         zerolog.Logger
}

// NewMemberService creates a new MemberService
func NewMemberService(
	repo repository.MemberRepository,
	notifier Notifier,
	renderer pdf.Renderer,
	events EventPublisher,
	store storage.Storage,
	cfg *config.Config,
	artifactDir string,
) MemberService {
	return &memberService{
		repo:        repo,
		notifier:    notifier,
		renderer:    renderer,
		events:      events,
		store:       store,
		cfg:         cfg,
		artifactDir: artifactDir,
		log:         pkglogger.WithComponent("member-service"),
	}
}

// Create stores a public membership application as pending and notifies
// the admin mailbox. Notification failure never aborts the submission.
func (s *memberService) Create(ctx context.Context, req *domain.CreateMemberRequest, photo io.Reader, photoName string, photoSize int64) (*domain.MemberResponse, error) {
	plan := req.Plan
	if plan == "" {
		plan = "annual"
	}

	member := &domain.Member{
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		Address:    req.Address,
		Occupation: req.Occupation,
		Plan:       plan,
	}

	if photo != nil {
		if err := validateImageUpload(photoName, photoSize); err != nil {
			return nil, err
		}
		path, err := s.store.Save(ctx, "member-photos", photoName, photo)
		if err != nil {
			return nil, common.NewValidationError("photo upload failed: %v", err)
		}
		member.PhotoPath = path
	}

	if err := s.repo.Create(member); err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, notify.KindAdminNewSubmission, s.record(member), notify.Options{}) //nolint:errcheck
	s.events.Publish("member.created", member.ToResponse())

	return member.ToResponse(), nil
}

// Get retrieves a member by id
func (s *memberService) Get(id uint) (*domain.MemberResponse, error) {
	member, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}
	return member.ToResponse(), nil
}

// List retrieves members with filters and pagination
func (s *memberService) List(filter repository.MemberFilter) (*ListResponse, error) {
	filter.Page, filter.Limit = normalizePage(filter.Page, filter.Limit)

	members, total, err := s.repo.List(filter)
	if err != nil {
		return nil, err
	}

	items := make([]*domain.MemberResponse, len(members))
	for i, m := range members {
		items[i] = m.ToResponse()
	}
	return newListResponse(items, total, filter.Page, filter.Limit), nil
}

// Update applies an allow-listed partial update
func (s *memberService) Update(id uint, fields map[string]interface{}) (*domain.MemberResponse, error) {
	if err := s.repo.Update(id, fields); err != nil {
		return nil, err
	}
	member, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}
	s.events.Publish("member.updated", member.ToResponse())
	return member.ToResponse(), nil
}

// Approve transitions a pending member to approved, computes the
// membership expiry from plan rules and returns immediately. The
// membership card PDF and approval email are produced by a background
// task so the staff request is never held up by rendering or SMTP.
func (s *memberService) Approve(id uint, actorID string) (*domain.MemberResponse, error) {
	member, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if member.Status != domain.StatusPending {
		return nil, common.ErrInvalidTransition
	}

	now := time.Now()
	member.Status = domain.StatusApproved
	member.ApprovedBy = actorID
	member.ApprovedAt = &now

	validTill := s.validTill(member.Plan, now)
	member.ValidTill = &validTill

	if err := s.repo.Save(member); err != nil {
		return nil, err
	}

	// Respond-then-process: the transition is committed; card + email run
	// after this returns and their failures are logged only.
	go s.processApproval(member)

	s.events.Publish("member.approved", member.ToResponse())
	return member.ToResponse(), nil
}

// Reject transitions a pending member to rejected with a reason
func (s *memberService) Reject(id uint, actorID, reason string) (*domain.MemberResponse, error) {
	member, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if member.Status != domain.StatusPending {
		return nil, common.ErrInvalidTransition
	}

	now := time.Now()
	member.Status = domain.StatusRejected
	member.ApprovedBy = actorID
	member.ApprovedAt = &now
	member.RejectionReason = reason

	if err := s.repo.Save(member); err != nil {
		return nil, err
	}

	s.events.Publish("member.rejected", member.ToResponse())
	return member.ToResponse(), nil
}

// ResendCard regenerates the membership card and re-sends the approval
// email synchronously so staff see delivery failures. Allowed whatever
// the current status: an admin may need to resend after a bounce.
func (s *memberService) ResendCard(ctx context.Context, id uint) error {
	member, err := s.repo.FindByID(id)
	if err != nil {
		return err
	}

	validTill := time.Now().AddDate(1, 0, 0)
	if member.ValidTill != nil {
		validTill = *member.ValidTill
	}

	cardPath, err := s.renderCard(ctx, member, validTill)
	if err != nil {
		return fmt.Errorf("card render: %w", err)
	}

	return s.notifier.Notify(ctx, notify.KindApprovalWithCard, s.record(member), notify.Options{
		Attachment: &mailer.Attachment{Name: "membership-card.pdf", Path: cardPath},
		Sync:       true,
	})
}

// Delete soft-deletes a member (status flip, row preserved)
func (s *memberService) Delete(id uint) error {
	if err := s.repo.SoftDelete(id); err != nil {
		return err
	}
	s.events.Publish("member.deleted", map[string]uint{"id": id})
	return nil
}

// CountByStatus returns dashboard counts
func (s *memberService) CountByStatus() (map[string]int64, error) {
	return s.repo.CountByStatus()
}

// processApproval runs after the approval response is flushed
func (s *memberService) processApproval(member *domain.Member) {
	ctx, cancel := context.WithTimeout(context.Background(), artifactTimeoutSeconds*time.Second)
	defer cancel()

	validTill := time.Now().AddDate(1, 0, 0)
	if member.ValidTill != nil {
		validTill = *member.ValidTill
	}

	cardPath, err := s.renderCard(ctx, member, validTill)
	if err != nil {
		s.log.Error().Err(err).Uint("member_id", member.ID).Msg("membership card render failed")
		return
	}

	member.CardPath = cardPath
	if err := s.repo.Save(member); err != nil {
		s.log.Error().Err(err).Uint("member_id", member.ID).Msg("card path save failed")
	}

	s.notifier.Notify(context.Background(), notify.KindApprovalWithCard, s.record(member), notify.Options{ //nolint:errcheck
		Attachment: &mailer.Attachment{Name: "membership-card.pdf", Path: cardPath},
	})
}

func (s *memberService) renderCard(ctx context.Context, member *domain.Member, validTill time.Time) (string, error) {
	canonical := notify.Normalize(s.record(member))
	cardPath := filepath.Join(s.artifactDir, "cards", fmt.Sprintf("%s.pdf", member.Code))
	if err := s.renderer.RenderMemberCard(ctx, canonical, validTill, cardPath); err != nil {
		return "", err
	}
	return cardPath, nil
}

// validTill derives the membership expiry from plan rules
func (s *memberService) validTill(plan string, from time.Time) time.Time {
	rule := s.cfg.PlanRuleFor(plan)
	if rule.Lifetime {
		return from.AddDate(50, 0, 0)
	}
	months := rule.Months
	if months <= 0 {
		months = 12
	}
	return from.AddDate(0, months, 0)
}

// record exposes the member in the heterogeneous shape Normalize accepts
func (s *memberService) record(member *domain.Member) map[string]interface{} {
	return map[string]interface{}{
		"name":       member.Name,
		"email":      member.Email,
		"phone":      member.Phone,
		"address":    member.Address,
		"plan":       member.Plan,
		"code":       member.Code,
		"created_at": member.CreatedAt,
	}
}
