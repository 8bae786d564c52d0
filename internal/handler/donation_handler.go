package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sevasetu/backend/internal/common"
	"github.com/sevasetu/backend/internal/domain"
	"github.com/sevasetu/backend/internal/middleware"
	"github.com/sevasetu/backend/internal/repository"
	"github.com/sevasetu/backend/internal/service"
	"github.com/sevasetu/backend/pkg/ginutil"
)

// DonationHandler handles HTTP requests for donations
type DonationHandler struct {
	service service.DonationService
}

// NewDonationHandler creates a new DonationHandler
func NewDonationHandler(service service.DonationService) *DonationHandler {
	return &DonationHandler{service: service}
}

// CreateDonation godoc
// @Summary      Submit a donation
// @Description  Public endpoint. Records the donation as pending verification.
// @Tags         donations
// @Accept       json
// @Produce      json
// @Param        body  body  domain.CreateDonationRequest  true  "Donation details"
// @Success      201  {object}  common.APIResponse{data=domain.DonationResponse}
// @Failure      400  {object}  common.APIResponse
// @Router       /donations [post]
func (h *DonationHandler) CreateDonation(c *gin.Context) {
	var req domain.CreateDonationRequest
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

// ListDonations godoc
// @Summary      List donations
// @Tags         donations
// @Produce      json
// @Param        status  query  string  false  "pending, approved, rejected"
// @Param        search  query  string  false  "Donor name, email, code or reference"
// @Param        page    query  int     false  "Page number"
// @Param        limit   query  int     false  "Page size"
// @Success      200  {object}  common.APIResponse{data=service.ListResponse}
// @Security     BearerAuth
// @Router       /admin/donations [get]
func (h *DonationHandler) ListDonations(c *gin.Context) {
	filter := repository.DonationFilter{
		Status:  c.Query("status"),
		Purpose: c.Query("purpose"),
		Search:  c.Query("search"),
		Page:    ginutil.QueryInt(c, "page", 1),
		Limit:   ginutil.QueryInt(c, "limit", 20),
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

// GetDonation godoc
// @Summary      Get donation
// @Tags         donations
// @Produce      json
// @Param        id  path  int  true  "Donation ID"
// @Success      200  {object}  common.APIResponse{data=domain.DonationResponse}
// @Failure      404  {object}  common.APIResponse
// @Security     BearerAuth
// @Router       /admin/donations/{id} [get]
func (h *DonationHandler) GetDonation(c *gin.Context) {
	id, err := ginutil.ParamUint(c, "id")
	if err != nil {
		common.ErrorResponse(c, 400, "Invalid donation ID", err)
		return
	}

	data, err := h.service.Get(id)
	if err != nil {
		common.MapError(c, err)
		return
	}

	common.SuccessResponse(c, data, nil)
}

// UpdateDonation godoc
// @Summary      Update donation
// @Description  Staff endpoint. Partial update of donor contact fields and
// @Description  the payment reference.
// @Tags         donations
// @Accept       json
// @Produce      json
// @Param        id  path  int  true  "Donation ID"
// @Success      200  {object}  common.APIResponse{data=domain.DonationResponse}
// @Security     BearerAuth
// @Router       /admin/donations/{id} [patch]
func (h *DonationHandler) UpdateDonation(c *gin.Context) {
	id, err := ginutil.ParamUint(c, "id")
	if err != nil {
		common.ErrorResponse(c, 400, "Invalid donation ID", err)
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

// ApproveDonation godoc
// @Summary      Approve donation
// @Description  Transitions a pending donation to approved. The receipt PDF and
// @Description  email are processed in the background.
// @Tags         donations
// @Produce      json
// @Param        id  path  int  true  "Donation ID"
// @Success      200  {object}  common.APIResponse{data=domain.DonationResponse}
// @Failure      409  {object}  common.APIResponse
// @Security     BearerAuth
// @Router       /admin/donations/{id}/approve [post]
func (h *DonationHandler) ApproveDonation(c *gin.Context) {
	id, err := ginutil.ParamUint(c, "id")
	if err != nil {
		common.ErrorResponse(c, 400, "Invalid donation ID", err)
		return
	}

	data, err := h.service.Approve(id, middleware.GetUserID(c))
	if err != nil {
		common.MapError(c, err)
		return
	}

	common.SuccessResponse(c, data, nil)
}

// RejectDonation godoc
// @Summary      Reject donation
// @Tags         donations
// @Accept       json
// @Produce      json
// @Param        id    path  int                   true  "Donation ID"
// @Param        body  body  domain.RejectRequest  true  "Rejection reason"
// @Success      200  {object}  common.APIResponse{data=domain.DonationResponse}
// @Failure      409  {object}  common.APIResponse
// @Security     BearerAuth
// @Router       /admin/donations/{id}/reject [post]
func (h *DonationHandler) RejectDonation(c *gin.Context) {
	id, err := ginutil.ParamUint(c, "id")
	if err != nil {
		common.ErrorResponse(c, 400, "Invalid donation ID", err)
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

// ResendReceipt godoc
// @Summary      Resend donation receipt email
// @Description  Regenerates the receipt PDF and re-sends it synchronously so
// @Description  delivery problems surface to the caller.
// @Tags         donations
// @Produce      json
// @Param        id  path  int  true  "Donation ID"
// @Success      200  {object}  common.APIResponse
// @Security     BearerAuth
// @Router       /admin/donations/{id}/resend-receipt [post]
func (h *DonationHandler) ResendReceipt(c *gin.Context) {
	id, err := ginutil.ParamUint(c, "id")
	if err != nil {
		common.ErrorResponse(c, 400, "Invalid donation ID", err)
		return
	}

	if err := h.service.ResendReceipt(c.Request.Context(), id); err != nil {
		common.MapError(c, err)
		return
	}

	common.SuccessResponse(c, gin.H{"status": "sent"}, nil)
}

// DeleteDonation godoc
// @Summary      Delete donation
// @Tags         donations
// @Produce      json
// @Param        id  path  int  true  "Donation ID"
// @Success      200  {object}  common.APIResponse
// @Security     BearerAuth
// @Router       /admin/donations/{id} [delete]
func (h *DonationHandler) DeleteDonation(c *gin.Context) {
	id, err := ginutil.ParamUint(c, "id")
	if err != nil {
		common.ErrorResponse(c, 400, "Invalid donation ID", err)
		return
	}

	if err := h.service.Delete(id); err != nil {
		common.MapError(c, err)
		return
	}

	common.SuccessResponse(c, gin.H{"status": "deleted"}, nil)
}
