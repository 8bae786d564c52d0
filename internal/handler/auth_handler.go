package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sevasetu/backend/internal/common"
	"github.com/sevasetu/backend/internal/service"
)

// AuthHandler handles staff authentication requests
type AuthHandler struct {
	service service.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(service service.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

// LoginRequest is the staff login body
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login godoc
// @Summary      Staff login
// @Description  Verifies staff credentials and returns a bearer token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  LoginRequest  true  "Credentials"
// @Success      200  {object}  common.APIResponse{data=service.LoginResponse}
// @Failure      401  {object}  common.APIResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}

	data, err := h.service.Login(req.Username, req.Password)
	if err != nil {
		common.MapError(c, err)
		return
	}

	common.SuccessResponse(c, data, nil)
}
