package service

import (
	"context"

	"github.com/sevasetu/backend/internal/notify"
)

// ListResponse is the common paginated listing shape
type ListResponse struct {
	Items      interface{} `json:"items"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	Limit      int         `json:"limit"`
	TotalPages int         `json:"total_pages"`
}

func newListResponse(items interface{}, total int64, page, limit int) *ListResponse {
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &ListResponse{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}
}

// normalizePage clamps paging inputs to sane defaults
func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}

// Notifier dispatches templated notifications (satisfied by notify.Dispatcher)
type Notifier interface {
	Notify(ctx context.Context, kind notify.Kind, record map[string]interface{}, opts notify.Options) error
}

// EventPublisher pushes fire-and-forget change events to dashboards
// (satisfied by ws.Hub)
type EventPublisher interface {
	Publish(eventType string, payload interface{})
}

// artifactTimeout bounds background PDF generation so a wedged render
// cannot leak goroutines forever.
const artifactTimeoutSeconds = 30
