package services

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/contabilidad_ve/internal/core/domain"
	portssvc "github.com/SscSPs/contabilidad_ve/internal/core/ports/services"
	"github.com/SscSPs/contabilidad_ve/internal/platform/config"
	"github.com/SscSPs/contabilidad_ve/internal/utils"
)

// tokenService issues JWT access tokens.
type tokenService struct {
	cfg *config.Config
}

// NewTokenService creates a new instance of tokenService.
func NewTokenService(cfg *config.Config) portssvc.TokenSvc {
	return &tokenService{cfg: cfg}
}

var _ portssvc.TokenSvc = (*tokenService)(nil)

// GenerateAccessToken creates a new JWT access token for the given user.
func (s *tokenService) GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error) {
	expiryTime := time.Now().Add(s.cfg.JWTExpiryDuration)
	accessToken, err := utils.GenerateJWT(user.UserID, s.cfg.JWTSecret, s.cfg.JWTExpiryDuration, s.cfg.JWTIssuer)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign access token: %w", err)
	}
	return accessToken, expiryTime, nil
}
