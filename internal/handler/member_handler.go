package handler

import (
	"io"
	"mime/multipart"

	"github.com/gin-gonic/gin"
	"github.com/sevasetu/backend/internal/common"
	"github.com/sevasetu/backend/internal/domain"
	"github.com/sevasetu/backend/internal/middleware"
	"github.com/sevasetu/backend/internal/repository"
	"github.com/sevasetu/backend/internal/service"
	"github.com/sevasetu/backend/pkg/ginutil"
)

// MemberHandler handles HTTP requests for membership applications
type MemberHandler struct {
	service service.MemberService
}

// NewMemberHandler creates a new MemberHandler
func NewMemberHandler(service service.MemberService) *MemberHandler {
	return &MemberHandler{service: service}
}

// CreateMember godoc
// @Summary      Submit membership application
// @Description  Public endpoint. Accepts the application form with an optional photo.
// @Tags         members
// @Accept       multipart/form-data
// @Produce      json
// @Param        name   formData  string  true   "Applicant name"
// @Param        email  formData  string  true   "Applicant email"
// @Param        photo  formData  file    false  "Applicant photo"
// @Success      201  {object}  common.APIResponse{data=domain.MemberResponse}
// @Failure      400  {object}  common.APIResponse
// @Router       /members [post]
func (h *MemberHandler) CreateMember(c *gin.Context) {
	var req domain.CreateMemberRequest
	if err := c.ShouldBind(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}

	var photo io.Reader
	var photoName string
	var photoSize int64
	if file, err := c.FormFile("photo"); err == nil {
		f, openErr := file.Open()
		if openErr != nil {
			common.ErrorResponse(c, 400, "Invalid photo upload", openErr)
			return
		}
		defer func(f multipart.File) { _ = f.Close() }(f)
		photo = f
		photoName = file.Filename
		photoSize = file.Size
	}

	data, err := h.service.Create(c.Request.Context(), &req, photo, photoName, photoSize)
	if err != nil {
		common.MapError(c, err)
		return
	}

	common.CreatedResponse(c, data)
}

// ListMembers godoc
// @Summary      List membership applications
// @Description  Staff endpoint. Filter by status, plan and free-text search.
// @Tags         members
// @Produce      json
// @Param        status  query  string  false  "pending, approved, rejected, inactive"
// @Param        plan    query  string  false  "Membership plan"
// @Param        search  query  string  false  "Name, email, code or phone"
// @Param        page    query  int     false  "Page number"
// @Param        limit   query  int     false  "Page size"
// @Success      200  {object}  common.APIResponse{data=service.ListResponse}
// @Security     BearerAuth
// @Router       /admin/members [get]
func (h *MemberHandler) ListMembers(c *gin.Context) {
	filter := repository.MemberFilter{
		Status: c.Query("status"),
		Plan:   c.Query("plan"),
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

// GetMember godoc
// @Summary      Get membership application
// @Tags         members
// @Produce      json
// @Param        id  path  int  true  "Member ID"
// @Success      200  {object}  common.APIResponse{data=domain.MemberResponse}
// @Failure      404  {object}  common.APIResponse
// @Security     BearerAuth
// @Router       /admin/members/{id} [get]
func (h *MemberHandler) GetMember(c *gin.Context) {
	id, err := ginutil.ParamUint(c, "id")
	if err != nil {
		common.ErrorResponse(c, 400, "Invalid member ID", err)
		return
	}

	data, err := h.service.Get(id)
	if err != nil {
		common.MapError(c, err)
		return
	}

	common.SuccessResponse(c, data, nil)
}

// UpdateMember godoc
// @Summary      Update membership application
// @Description  Staff endpoint. Partial update of contact fields; workflow fields
// @Description  change only through approve/reject.
// @Tags         members
// @Accept       json
// @Produce      json
// @Param        id  path  int  true  "Member ID"
// @Success      200  {object}  common.APIResponse{data=domain.MemberResponse}
// @Security     BearerAuth
// @Router       /admin/members/{id} [patch]
func (h *MemberHandler) UpdateMember(c *gin.Context) {
	id, err := ginutil.ParamUint(c, "id")
	if err != nil {
		common.ErrorResponse(c, 400, "Invalid member ID", err)
		return
	}

	var fields map[string]interface{}
	if err := c.ShouldBindJSON(&fields); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}

	data, err := h.service.Update(id, fields)
	if err != nil {
		common.MapError(c, err)
		return
	}

	common.SuccessResponse(c, data, nil)
}

// ApproveMember godoc
// @Summary      Approve membership application
// @Description  Transitions a pending application to approved. The membership
// @Description  card and notification email are processed in the background.
// @Tags         members
// @Produce      json
// @Param        id  path  int  true  "Member ID"
// @Success      200  {object}  common.APIResponse{data=domain.MemberResponse}
// @Failure      409  {object}  common.APIResponse
// @Security     BearerAuth
// @Router       /admin/members/{id}/approve [post]
func (h *MemberHandler) ApproveMember(c *gin.Context) {
	id, err := ginutil.ParamUint(c, "id")
	if err != nil {
		common.ErrorResponse(c, 400, "Invalid member ID", err)
		return
	}

	data, err := h.service.Approve(id, middleware.GetUserID(c))
	if err != nil {
		common.MapError(c, err)
		return
	}

	common.SuccessResponse(c, data, nil)
}

// RejectMember godoc
// @Summary      Reject membership application
// @Tags         members
// @Accept       json
// @Produce      json
// @Param        id      path  int                   true  "Member ID"
// @Param        body    body  domain.RejectRequest  true  "Rejection reason"
// @Success      200  {object}  common.APIResponse{data=domain.MemberResponse}
// @Failure      409  {object}  common.APIResponse
// @Security     BearerAuth
// @Router       /admin/members/{id}/reject [post]
func (h *MemberHandler) RejectMember(c *gin.Context) {
	id, err := ginutil.ParamUint(c, "id")
	if err != nil {
		common.ErrorResponse(c, 400, "Invalid member ID", err)
		return
	}

	var req domain.RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Rejection reason is required", err)
		return
	}

	data, err := h.service.Reject(id, middleware.GetUserID(c), req.Reason)
	if err != nil {
		common.MapError(c, err)
		return
	}

	common.SuccessResponse(c, data, nil)
}

// ResendCard godoc
// @Summary      Resend membership card email
// @Description  Regenerates the card PDF and re-sends it synchronously so
// @Description  delivery problems surface to the caller.
// @Tags         members
// @Produce      json
// @Param        id  path  int  true  "Member ID"
// @Success      200  {object}  common.APIResponse
// @Security     BearerAuth
// @Router       /admin/members/{id}/resend-card [post]
func (h *MemberHandler) ResendCard(c *gin.Context) {
	id, err := ginutil.ParamUint(c, "id")
	if err != nil {
		common.ErrorResponse(c, 400, "Invalid member ID", err)
		return
	}

	if err := h.service.ResendCard(c.Request.Context(), id); err != nil {
		common.MapError(c, err)
		return
	}

	common.SuccessResponse(c, gin.H{"status": "sent"}, nil)
}

// DeleteMember godoc
// @Summary      Delete membership application
// @Description  Soft delete; the record stays recoverable in the database.
// @Tags         members
// @Produce      json
// @Param        id  path  int  true  "Member ID"
// @Success      200  {object}  common.APIResponse
// @Security     BearerAuth
// @Router       /admin/members/{id} [delete]
func (h *MemberHandler) DeleteMember(c *gin.Context) {
	id, err := ginutil.ParamUint(c, "id")
	if err != nil {
		common.ErrorResponse(c, 400, "Invalid member ID", err)
		return
	}

	if err := h.service.Delete(id); err != nil {
		common.MapError(c, err)
		return
	}

	common.SuccessResponse(c, gin.H{"status": "deleted"}, nil)
}
