package services

import (
	"context"

	"github.com/SscSPs/contabilidad_ve/internal/core/domain"
	"github.com/SscSPs/contabilidad_ve/internal/dto"
)

// UserReaderSvc defines read operations for users
type UserReaderSvc interface {
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
}

// UserWriterSvc defines write operations for users
type UserWriterSvc interface {
	CreateUser(ctx context.Context, req dto.CreateUserRequest) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID string, req dto.UpdateProfileRequest) (*domain.User, error)
	// ChangePassword fails with ErrUnauthorized when currentPassword does not match.
	ChangePassword(ctx context.Context, userID string, req dto.ChangePasswordRequest) error
}

// UserAuthSvc verifies credentials
type UserAuthSvc interface {
	// Authenticate returns the user when the password matches, ErrUnauthorized otherwise.
	Authenticate(ctx context.Context, username, password string) (*domain.User, error)
}

// UserSvcFacade combines all user-related service interfaces
type UserSvcFacade interface {
	UserReaderSvc
	UserWriterSvc
	UserAuthSvc
}
