package service

import (
	"github.com/sevasetu/backend/internal/common"
	"github.com/sevasetu/backend/internal/config"
	"github.com/sevasetu/backend/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

// LoginResponse is the token payload returned on a successful login
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	Name        string `json:"name"`
	Role        string `json:"role"`
}

// AuthService handles staff authentication
type AuthService interface {
	Login(username, password string) (*LoginResponse, error)
}

type authService struct {
	cfg        config.AuthConfig
	jwtManager *jwt.Manager
	expiresIn  int
}

// NewAuthService creates a new AuthService
func NewAuthService(cfg config.AuthConfig, jwtManager *jwt.Manager, expiresIn int) AuthService {
	return &authService{cfg: cfg, jwtManager: jwtManager, expiresIn: expiresIn}
}

// Login verifies the configured staff credentials and issues a JWT
func (s *authService) Login(username, password string) (*LoginResponse, error) {
	if s.cfg.AdminPasswordHash == "" {
		return nil, &common.ConfigurationError{Msg: "staff login is not configured"}
	}
	if username != s.cfg.AdminUser {
		return nil, common.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.cfg.AdminPasswordHash), []byte(password)); err != nil {
		return nil, common.ErrUnauthorized
	}

	token, err := s.jwtManager.Generate(username, s.cfg.AdminName, "admin")
	if err != nil {
		return nil, err
	}

	return &LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   s.expiresIn,
		Name:        s.cfg.AdminName,
		Role:        "admin",
	}, nil
}
