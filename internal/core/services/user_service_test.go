package services_test

import (
	"context"
	"testing"

	"github.com/SscSPs/contabilidad_ve/internal/apperrors"
	portssvc "github.com/SscSPs/contabilidad_ve/internal/core/ports/services"
	"github.com/SscSPs/contabilidad_ve/internal/core/services"
	"github.com/SscSPs/contabilidad_ve/internal/dto"
	"github.com/SscSPs/contabilidad_ve/internal/repositories/memory"
	"github.com/stretchr/testify/suite"
)

type UserServiceTestSuite struct {
	suite.Suite
	ctx   context.Context
	users portssvc.UserSvcFacade
}

func (s *UserServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.users = services.NewUserService(memory.New().Repositories().UserRepo)
}

func (s *UserServiceTestSuite) register(username, email string) string {
	user, err := s.users.CreateUser(s.ctx, dto.CreateUserRequest{
		Username: username,
		Email:    email,
		Password: "clave-segura-1",
	})
	s.Require().NoError(err)
	return user.UserID
}

func (s *UserServiceTestSuite) TestUpdateProfile() {
	id := s.register("maria", "maria@example.com")
	first, email := "  María ", "maria.p@example.com"

	updated, err := s.users.UpdateProfile(s.ctx, id, dto.UpdateProfileRequest{FirstName: &first, Email: &email})

	s.Require().NoError(err)
	s.Equal("María", updated.FirstName)
	s.Equal("maria.p@example.com", updated.Email)
	got, err := s.users.GetUserByID(s.ctx, id)
	s.Require().NoError(err)
	s.Equal("maria.p@example.com", got.Email)
	s.Equal("maria", got.Username)
}

func (s *UserServiceTestSuite) TestUpdateProfile_Rejections() {
	s.register("jose", "jose@example.com")
	id := s.register("luis", "luis@example.com")

	taken := "jose@example.com"
	_, err := s.users.UpdateProfile(s.ctx, id, dto.UpdateProfileRequest{Email: &taken})
	s.ErrorIs(err, apperrors.ErrDuplicate)

	blank := " "
	_, err = s.users.UpdateProfile(s.ctx, id, dto.UpdateProfileRequest{Email: &blank})
	s.ErrorIs(err, apperrors.ErrValidation)

	_, err = s.users.UpdateProfile(s.ctx, "missing", dto.UpdateProfileRequest{Email: &taken})
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *UserServiceTestSuite) TestChangePassword() {
	id := s.register("ana", "ana@example.com")

	err := s.users.ChangePassword(s.ctx, id, dto.ChangePasswordRequest{CurrentPassword: "equivocada", NewPassword: "nueva-clave-2"})
	s.ErrorIs(err, apperrors.ErrUnauthorized)

	err = s.users.ChangePassword(s.ctx, id, dto.ChangePasswordRequest{CurrentPassword: "clave-segura-1", NewPassword: "corta"})
	s.ErrorIs(err, apperrors.ErrValidation)

	s.Require().NoError(s.users.ChangePassword(s.ctx, id, dto.ChangePasswordRequest{CurrentPassword: "clave-segura-1", NewPassword: "nueva-clave-2"}))

	_, err = s.users.Authenticate(s.ctx, "ana", "clave-segura-1")
	s.ErrorIs(err, apperrors.ErrUnauthorized)
	user, err := s.users.Authenticate(s.ctx, "ana", "nueva-clave-2")
	s.Require().NoError(err)
	s.Equal(id, user.UserID)
}

func TestUserService(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}
