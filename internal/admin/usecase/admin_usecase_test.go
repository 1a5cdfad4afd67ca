package usecase_test

import (
	"context"
	"errors"
	"testing"

	"agency-cms/internal/admin/adapter/security"
	"agency-cms/internal/admin/config"
	"agency-cms/internal/admin/domain/model"
	"agency-cms/internal/admin/domain/repository"
	"agency-cms/internal/admin/testutil"
	"agency-cms/internal/admin/usecase"
	apperrors "agency-cms/internal/shared/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"
)

type AdminUsecaseTestSuite struct {
	suite.Suite
	repo     *testutil.MockAdminRepository
	tokens   *security.JWTokenService
	cfg      *config.Config
	uc       *usecase.AdminUsecase
	fixtures *testutil.AdminFixture
	ctx      context.Context
}

func (s *AdminUsecaseTestSuite) SetupTest() {
	s.repo = &testutil.MockAdminRepository{}
	s.cfg = testutil.Config()
	tokens, err := security.NewJWTokenService(s.cfg)
	require.NoError(s.T(), err)
	s.tokens = tokens
	s.uc = usecase.NewAdminUsecase(s.repo, s.tokens, s.cfg, nil, nil)
	s.fixtures = testutil.NewAdminFixture()
	s.ctx = context.Background()
}

func (s *AdminUsecaseTestSuite) TestLogin_ValidDBCredentials() {
	admin := s.fixtures.ValidAdmin()
	s.repo.On("FindByEmail", mock.Anything, "owner@agency.io").Return(admin, nil)
	s.repo.On("UpdateLastLogin", mock.Anything, admin.ID, mock.Anything).Return(nil)

	res, err := s.uc.Login(s.ctx, usecase.LoginRequest{Email: " Owner@Agency.io", Password: testutil.DefaultPassword})
	require.NoError(s.T(), err)
	assert.NotEmpty(s.T(), res.Token)
	assert.Equal(s.T(), admin.ID, res.Admin.ID)

	claims, err := s.tokens.ValidateToken(s.ctx, res.Token)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "admin", claims.Role)
	assert.Equal(s.T(), admin.Email, claims.Email)
	s.repo.AssertExpectations(s.T())
}

func (s *AdminUsecaseTestSuite) TestLogin_WrongPassword() {
	s.repo.On("FindByEmail", mock.Anything, "owner@agency.io").Return(s.fixtures.ValidAdmin(), nil)

	_, err := s.uc.Login(s.ctx, usecase.LoginRequest{Email: "owner@agency.io", Password: "nope"})
	assert.Same(s.T(), usecase.ErrInvalidCredentials, err)
	assert.Equal(s.T(), 401, apperrors.HTTPStatus(err))
	s.repo.AssertNotCalled(s.T(), "UpdateLastLogin", mock.Anything, mock.Anything, mock.Anything)
}

func (s *AdminUsecaseTestSuite) TestLogin_Deactivated() {
	s.repo.On("FindByEmail", mock.Anything, "owner@agency.io").Return(s.fixtures.DisabledAdmin(), nil)

	_, err := s.uc.Login(s.ctx, usecase.LoginRequest{Email: "owner@agency.io", Password: testutil.DefaultPassword})
	assert.Equal(s.T(), 403, apperrors.HTTPStatus(err))
}

func (s *AdminUsecaseTestSuite) TestLogin_EnvFallback() {
	s.repo.On("FindByEmail", mock.Anything, "env@agency.io").Return(nil, model.ErrAdminNotFound)

	res, err := s.uc.Login(s.ctx, usecase.LoginRequest{Email: "ENV@agency.io", Password: "env-password"})
	require.NoError(s.T(), err)
	assert.Equal(s.T(), model.EnvAdminID, res.Admin.ID)
	assert.Equal(s.T(), "Env Admin", res.Admin.Name)
}

func (s *AdminUsecaseTestSuite) TestLogin_EnvFallbackWrongPassword() {
	s.repo.On("FindByEmail", mock.Anything, "env@agency.io").Return(nil, model.ErrAdminNotFound)

	_, err := s.uc.Login(s.ctx, usecase.LoginRequest{Email: "env@agency.io", Password: "wrong"})
	assert.Same(s.T(), usecase.ErrInvalidCredentials, err)
}

func (s *AdminUsecaseTestSuite) TestLogin_UnknownEmail() {
	s.repo.On("FindByEmail", mock.Anything, "ghost@agency.io").Return(nil, model.ErrAdminNotFound)

	_, err := s.uc.Login(s.ctx, usecase.LoginRequest{Email: "ghost@agency.io", Password: "env-password"})
	assert.Same(s.T(), usecase.ErrInvalidCredentials, err)
}

func (s *AdminUsecaseTestSuite) TestLogin_DBRecordShadowsEnvAdmin() {
	admin := s.fixtures.AdminWithPassword("env@agency.io", "rotated-password")
	s.repo.On("FindByEmail", mock.Anything, "env@agency.io").Return(admin, nil)

	_, err := s.uc.Login(s.ctx, usecase.LoginRequest{Email: "env@agency.io", Password: "env-password"})
	assert.Same(s.T(), usecase.ErrInvalidCredentials, err)
}

func (s *AdminUsecaseTestSuite) TestLogin_MalformedInput() {
	_, err := s.uc.Login(s.ctx, usecase.LoginRequest{Email: "", Password: "x"})
	assert.Equal(s.T(), 400, apperrors.HTTPStatus(err))
}

func (s *AdminUsecaseTestSuite) TestLogin_RepositoryFailure() {
	s.repo.On("FindByEmail", mock.Anything, "owner@agency.io").Return(nil, errors.New("connection reset"))

	_, err := s.uc.Login(s.ctx, usecase.LoginRequest{Email: "owner@agency.io", Password: "x"})
	assert.Equal(s.T(), 500, apperrors.HTTPStatus(err))
}

func (s *AdminUsecaseTestSuite) TestLogin_LastLoginFailureIsNotFatal() {
	admin := s.fixtures.ValidAdmin()
	s.repo.On("FindByEmail", mock.Anything, admin.Email).Return(admin, nil)
	s.repo.On("UpdateLastLogin", mock.Anything, admin.ID, mock.Anything).Return(errors.New("timeout"))

	res, err := s.uc.Login(s.ctx, usecase.LoginRequest{Email: admin.Email, Password: testutil.DefaultPassword})
	require.NoError(s.T(), err)
	assert.NotEmpty(s.T(), res.Token)
}

func (s *AdminUsecaseTestSuite) TestMe() {
	admin := s.fixtures.ValidAdmin()
	s.repo.On("FindByID", mock.Anything, admin.ID).Return(admin, nil)

	profile, err := s.uc.Me(s.ctx, &repository.Claims{ID: admin.ID})
	require.NoError(s.T(), err)
	assert.Equal(s.T(), admin.Email, profile.Email)

	envProfile, err := s.uc.Me(s.ctx, &repository.Claims{ID: model.EnvAdminID, Email: "env@agency.io", Name: "Env Admin"})
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "env@agency.io", envProfile.Email)
}

func (s *AdminUsecaseTestSuite) TestUpdateCredentials_NoCurrentPasswordNeeded() {
	admin := s.fixtures.ValidAdmin()
	newEmail := "new@agency.io"
	newPassword := "brand-new-password"
	updated := *admin
	updated.Email = newEmail

	s.repo.On("FindByID", mock.Anything, admin.ID).Return(admin, nil)
	s.repo.On("FindByEmail", mock.Anything, newEmail).Return(nil, model.ErrAdminNotFound)
	s.repo.On("Update", mock.Anything, admin.ID, mock.MatchedBy(func(c model.AdminChanges) bool {
		return c.Email != nil && *c.Email == newEmail && c.Name == nil &&
			c.PasswordHash != nil && bcrypt.CompareHashAndPassword([]byte(*c.PasswordHash), []byte(newPassword)) == nil
	})).Return(&updated, nil)

	res, err := s.uc.UpdateCredentials(s.ctx, &repository.Claims{ID: admin.ID}, usecase.UpdateCredentialsRequest{
		Email:    &newEmail,
		Password: &newPassword,
	})
	require.NoError(s.T(), err)
	assert.Equal(s.T(), newEmail, res.Admin.Email)
	assert.NotEmpty(s.T(), res.Token)
	s.repo.AssertExpectations(s.T())
}

func (s *AdminUsecaseTestSuite) TestUpdateCredentials_EmailTaken() {
	admin := s.fixtures.ValidAdmin()
	other := s.fixtures.AdminWithPassword("taken@agency.io", "x")
	email := "taken@agency.io"
	s.repo.On("FindByID", mock.Anything, admin.ID).Return(admin, nil)
	s.repo.On("FindByEmail", mock.Anything, email).Return(other, nil)

	_, err := s.uc.UpdateCredentials(s.ctx, &repository.Claims{ID: admin.ID}, usecase.UpdateCredentialsRequest{Email: &email})
	assert.Equal(s.T(), 409, apperrors.HTTPStatus(err))
}

func (s *AdminUsecaseTestSuite) TestUpdateCredentials_Empty() {
	admin := s.fixtures.ValidAdmin()
	s.repo.On("FindByID", mock.Anything, admin.ID).Return(admin, nil)

	_, err := s.uc.UpdateCredentials(s.ctx, &repository.Claims{ID: admin.ID}, usecase.UpdateCredentialsRequest{})
	assert.Same(s.T(), usecase.ErrNothingToUpdate, err)
}

func (s *AdminUsecaseTestSuite) TestUpdateCredentials_MaterializesEnvAdmin() {
	name := "Renamed"
	s.repo.On("FindByEmail", mock.Anything, "env@agency.io").Return(nil, model.ErrAdminNotFound)
	s.repo.On("Create", mock.Anything, mock.MatchedBy(func(a *model.Admin) bool {
		return a.Email == "env@agency.io" && bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte("env-password")) == nil
	})).Return(nil)
	s.repo.On("Update", mock.Anything, mock.AnythingOfType("string"), mock.Anything).
		Return(&model.Admin{ID: "abc", Email: "env@agency.io", Name: name}, nil)

	res, err := s.uc.UpdateCredentials(s.ctx, &repository.Claims{ID: model.EnvAdminID, Email: "env@agency.io"},
		usecase.UpdateCredentialsRequest{Name: &name})
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "abc", res.Admin.ID)
	assert.Equal(s.T(), name, res.Admin.Name)
	s.repo.AssertExpectations(s.T())
}

func (s *AdminUsecaseTestSuite) TestChangePassword() {
	admin := s.fixtures.ValidAdmin()
	s.repo.On("FindByID", mock.Anything, admin.ID).Return(admin, nil)
	s.repo.On("Update", mock.Anything, admin.ID, mock.MatchedBy(func(c model.AdminChanges) bool {
		return c.PasswordHash != nil && c.Email == nil
	})).Return(admin, nil)

	err := s.uc.ChangePassword(s.ctx, &repository.Claims{ID: admin.ID}, usecase.ChangePasswordRequest{
		CurrentPassword: testutil.DefaultPassword,
		NewPassword:     "another-password",
	})
	require.NoError(s.T(), err)
	s.repo.AssertExpectations(s.T())
}

func (s *AdminUsecaseTestSuite) TestChangePassword_WrongCurrent() {
	admin := s.fixtures.ValidAdmin()
	s.repo.On("FindByID", mock.Anything, admin.ID).Return(admin, nil)

	err := s.uc.ChangePassword(s.ctx, &repository.Claims{ID: admin.ID}, usecase.ChangePasswordRequest{
		CurrentPassword: "guess",
		NewPassword:     "another-password",
	})
	assert.Same(s.T(), usecase.ErrWrongPassword, err)
	s.repo.AssertNotCalled(s.T(), "Update", mock.Anything, mock.Anything, mock.Anything)
}

func (s *AdminUsecaseTestSuite) TestSeed() {
	s.repo.On("FindByEmail", mock.Anything, "env@agency.io").Return(nil, model.ErrAdminNotFound).Once()
	s.repo.On("Create", mock.Anything, mock.AnythingOfType("*model.Admin")).Return(nil).Once()
	require.NoError(s.T(), s.uc.Seed(s.ctx))

	s.repo.On("FindByEmail", mock.Anything, "env@agency.io").Return(s.fixtures.ValidAdmin(), nil).Once()
	require.NoError(s.T(), s.uc.Seed(s.ctx))

	s.repo.AssertNumberOfCalls(s.T(), "Create", 1)
}

func (s *AdminUsecaseTestSuite) TestSeed_NoEnvAdmin() {
	s.cfg.AdminEmail = ""
	s.cfg.AdminPassword = ""
	require.NoError(s.T(), s.uc.Seed(s.ctx))
	s.repo.AssertNotCalled(s.T(), "FindByEmail", mock.Anything, mock.Anything)
}

func (s *AdminUsecaseTestSuite) TestValidateToken() {
	res, err := s.uc.Login(s.ctx, s.envLogin())
	require.NoError(s.T(), err)

	claims, err := s.uc.ValidateToken(s.ctx, res.Token)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), model.EnvAdminID, claims.ID)

	_, err = s.uc.ValidateToken(s.ctx, res.Token+"x")
	assert.Same(s.T(), usecase.ErrTokenInvalid, err)
}

func (s *AdminUsecaseTestSuite) envLogin() usecase.LoginRequest {
	s.repo.On("FindByEmail", mock.Anything, "env@agency.io").Return(nil, model.ErrAdminNotFound)
	return usecase.LoginRequest{Email: "env@agency.io", Password: "env-password"}
}

func TestAdminUsecaseTestSuite(t *testing.T) {
	suite.Run(t, new(AdminUsecaseTestSuite))
}
