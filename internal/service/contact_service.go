package service

import (
	"context"

	"github.com/sevasetu/backend/internal/domain"
	"github.com/sevasetu/backend/internal/notify"
	"github.com/sevasetu/backend/internal/repository"
)

// ContactService defines the business logic for contact messages
type ContactService interface {
	Create(ctx context.Context, req *domain.CreateContactRequest) (*domain.ContactResponse, error)
	Get(id uint) (*domain.ContactResponse, error)
	List(filter repository.ContactFilter) (*ListResponse, error)
	MarkRead(id uint) (*domain.ContactResponse, error)
	Archive(id uint) error
}

type contactService struct {
	repo     repository.ContactRepository
	notifier Notifier
	events   EventPublisher
}

// NewContactService creates a new ContactService
func NewContactService(repo repository.ContactRepository, notifier Notifier, events EventPublisher) ContactService {
	return &contactService{repo: repo, notifier: notifier, events: events}
}

// Create stores a contact message, acknowledges the sender and forwards
// the message body to the admin mailbox
func (s *contactService) Create(ctx context.Context, req *domain.CreateContactRequest) (*domain.ContactResponse, error) {
	contact := &domain.Contact{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Subject: req.Subject,
		Message: req.Message,
	}

	if err := s.repo.Create(contact); err != nil {
		return nil, err
	}

	record := map[string]interface{}{
		"name":       contact.Name,
		"email":      contact.Email,
		"phone":      contact.Phone,
		"created_at": contact.CreatedAt,
	}
	extra := map[string]string{
		"subject": contact.Subject,
		"message": contact.Message,
	}
	s.notifier.Notify(ctx, notify.KindContactAck, record, notify.Options{Extra: extra})         //nolint:errcheck
	s.notifier.Notify(ctx, notify.KindContactNotifyAdmin, record, notify.Options{Extra: extra}) //nolint:errcheck
	s.events.Publish("contact.created", contact.ToResponse())

	return contact.ToResponse(), nil
}

// Get retrieves a contact message by id
func (s *contactService) Get(id uint) (*domain.ContactResponse, error) {
	contact, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}
	return contact.ToResponse(), nil
}

// List retrieves contact messages with filters and pagination
func (s *contactService) List(filter repository.ContactFilter) (*ListResponse, error) {
	filter.Page, filter.Limit = normalizePage(filter.Page, filter.Limit)

	contacts, total, err := s.repo.List(filter)
	if err != nil {
		return nil, err
	}

	items := make([]*domain.ContactResponse, len(contacts))
	for i, c := range contacts {
		items[i] = c.ToResponse()
	}
	return newListResponse(items, total, filter.Page, filter.Limit), nil
}

// MarkRead flags a message as read by staff
func (s *contactService) MarkRead(id uint) (*domain.ContactResponse, error) {
	if err := s.repo.Update(id, map[string]interface{}{"status": domain.ContactStatusRead}); err != nil {
		return nil, err
	}
	contact, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}
	return contact.ToResponse(), nil
}

// Archive soft-deletes a message; it drops out of default listings but
// stays recoverable
func (s *contactService) Archive(id uint) error {
	if err := s.repo.Archive(id); err != nil {
		return err
	}
	s.events.Publish("contact.archived", map[string]uint{"id": id})
	return nil
}
