package services

import (
	"context"
	"time"

	"github.com/SscSPs/contabilidad_ve/internal/core/domain"
)

// TokenSvc issues access tokens for authenticated users.
type TokenSvc interface {
	// GenerateAccessToken returns a signed token and its expiry.
	GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error)
}
