package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sevasetu/backend/internal/common"
	"github.com/sevasetu/backend/internal/domain"
	"github.com/sevasetu/backend/internal/repository"
	"github.com/sevasetu/backend/internal/service"
	"github.com/sevasetu/backend/pkg/ginutil"
)

// ContactHandler handles HTTP requests for contact messages
type ContactHandler struct {
	service service.ContactService
}

// NewContactHandler creates a new ContactHandler
func NewContactHandler(service service.ContactService) *ContactHandler {
	return &ContactHandler{service: service}
}

// CreateContact godoc
// @Summary      Submit a contact message
// @Description  Public endpoint. The sender gets an acknowledgement email and
// @Description  the message is forwarded to the admin mailbox.
// @Tags         contacts
// @Accept       json
// @Produce      json
// @Param        body  body  domain.CreateContactRequest  true  "Message"
// @Success      201  {object}  common.APIResponse{data=domain.ContactResponse}
// @Failure      400  {object}  common.APIResponse
// @Router       /contacts [post]
func (h *ContactHandler) CreateContact(c *gin.Context) {
	var req domain.CreateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}

	data, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		common.MapError(c, err)
		return
	}

	common.CreatedResponse(c, data)
}

// ListContacts godoc
// @Summary      List contact messages
// @Tags         contacts
// @Produce      json
// @Param        status  query  string  false  "new, read, archived"
// @Param        search  query  string  false  "Name, email or subject"
// @Param        page    query  int     false  "Page number"
// @Param        limit   query  int     false  "Page size"
// @Success      200  {object}  common.APIResponse{data=service.ListResponse}
// @Security     BearerAuth
// @Router       /admin/contacts [get]
func (h *ContactHandler) ListContacts(c *gin.Context) {
	filter := repository.ContactFilter{
		Status: c.Query("status"),
		Search: c.Query("search"),
		Page:   ginutil.QueryInt(c, "page", 1),
		Limit:  ginutil.QueryInt(c, "limit", 20),
	}

	data, err := h.service.List(filter)
	if err != nil {
		common.MapError(c, err)
		return
	}

	common.SuccessResponse(c, data.Items, &common.Meta{
		Page:       data.Page,
		Limit:      data.Limit,
		Total:      data.Total,
		TotalPages: data.TotalPages,
	})
}

// GetContact godoc
// @Summary      Get contact message
// @Tags         contacts
// @Produce      json
// @Param        id  path  int  true  "Contact ID"
// @Success      200  {object}  common.APIResponse{data=domain.ContactResponse}
// @Failure      404  {object}  common.APIResponse
// @Security     BearerAuth
// @Router       /admin/contacts/{id} [get]
func (h *ContactHandler) GetContact(c *gin.Context) {
	id, err := ginutil.ParamUint(c, "id")
	if err != nil {
		common.ErrorResponse(c, 400, "Invalid contact ID", err)
		return
	}

	data, err := h.service.Get(id)
	if err != nil {
		common.MapError(c, err)
		return
	}

	common.SuccessResponse(c, data, nil)
}

// MarkContactRead godoc
// @Summary      Mark contact message as read
// @Tags         contacts
// @Produce      json
// @Param        id  path  int  true  "Contact ID"
// @Success      200  {object}  common.APIResponse{data=domain.ContactResponse}
// @Security     BearerAuth
// @Router       /admin/contacts/{id}/read [post]
func (h *ContactHandler) MarkContactRead(c *gin.Context) {
	id, err := ginutil.ParamUint(c, "id")
	if err != nil {
		common.ErrorResponse(c, 400, "Invalid contact ID", err)
		return
	}

	data, err := h.service.MarkRead(id)
	if err != nil {
		common.MapError(c, err)
		return
	}

	common.SuccessResponse(c, data, nil)
}

// ArchiveContact godoc
// @Summary      Archive contact message
// @Description  Soft delete; the message drops out of default listings.
// @Tags         contacts
// @Produce      json
// @Param        id  path  int  true  "Contact ID"
// @Success      200  {object}  common.APIResponse
// @Security     BearerAuth
// @Router       /admin/contacts/{id} [delete]
func (h *ContactHandler) ArchiveContact(c *gin.Context) {
	id, err := ginutil.ParamUint(c, "id")
	if err != nil {
		common.ErrorResponse(c, 400, "Invalid contact ID", err)
		return
	}

	if err := h.service.Archive(id); err != nil {
		common.MapError(c, err)
		return
	}

	common.SuccessResponse(c, gin.H{"status": "archived"}, nil)
}
