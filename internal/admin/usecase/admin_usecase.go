package usecase

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"agency-cms/internal/admin/config"
	"agency-cms/internal/admin/domain/model"
	"agency-cms/internal/admin/domain/repository"
	apperrors "agency-cms/internal/shared/errors"
	"agency-cms/internal/shared/eventbus"
	"agency-cms/internal/shared/logger"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = apperrors.NewAuthenticationError("Invalid credentials")
	ErrAccountDisabled    = apperrors.NewAuthorizationError("Account is deactivated")
	ErrTokenInvalid       = apperrors.NewAuthenticationError("Invalid or expired token")
	ErrWrongPassword      = apperrors.NewAuthenticationError("Current password is incorrect")
	ErrNothingToUpdate    = apperrors.NewValidationError("Provide at least one of email, name or password")
	ErrEmailInUse         = apperrors.NewConflictError("Email is already used by another admin")
)

// AdminUsecaseInterface defines the contract for admin identity use cases.
type AdminUsecaseInterface interface {
	Login(ctx context.Context, req LoginRequest) (*AuthResult, error)
	ValidateToken(ctx context.Context, tokenString string) (*repository.Claims, error)
	Me(ctx context.Context, claims *repository.Claims) (*model.Profile, error)
	UpdateCredentials(ctx context.Context, claims *repository.Claims, req UpdateCredentialsRequest) (*AuthResult, error)
	ChangePassword(ctx context.Context, claims *repository.Claims, req ChangePasswordRequest) error
	Seed(ctx context.Context) error
}

// LoginRequest represents the login request
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateCredentialsRequest changes any of the signed-in admin's email, name or password
type UpdateCredentialsRequest struct {
	Email    *string `json:"email,omitempty"`
	Name     *string `json:"name,omitempty"`
	Password *string `json:"password,omitempty"`
}

// ChangePasswordRequest requires the current password
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// AuthResult is a signed token plus the admin it was issued to
type AuthResult struct {
	Token string        `json:"token"`
	Admin model.Profile `json:"admin"`
}

// AdminUsecase implements the admin identity logic.
type AdminUsecase struct {
	repo     repository.AdminRepository
	tokenSvc repository.TokenService
	config   *config.Config
	bus      eventbus.EventBusInterface
	log      logger.Logger
	now      func() time.Time
}

// NewAdminUsecase creates a new instance of AdminUsecase.
func NewAdminUsecase(
	repo repository.AdminRepository,
	tokenSvc repository.TokenService,
	cfg *config.Config,
	bus eventbus.EventBusInterface,
	log logger.Logger,
) *AdminUsecase {
	if log == nil {
		log = logger.NewNop()
	}
	return &AdminUsecase{
		repo:     repo,
		tokenSvc: tokenSvc,
		config:   cfg,
		bus:      bus,
		log:      log.WithComponent("admin"),
		now:      time.Now,
	}
}

// Login checks the admins collection first and falls back to the env admin
// only when no record exists for the email.
func (uc *AdminUsecase) Login(ctx context.Context, req LoginRequest) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return nil, apperrors.NewValidationError("Email and password are required")
	}

	admin, err := uc.repo.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, model.ErrAdminNotFound) {
			return nil, apperrors.NewInfrastructureError("failed to look up admin").WithCause(err)
		}
		return uc.loginEnvAdmin(ctx, email, req.Password)
	}

	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)) != nil {
		return nil, ErrInvalidCredentials
	}
	if !admin.Active() {
		return nil, ErrAccountDisabled
	}

	if err := uc.repo.UpdateLastLogin(ctx, admin.ID, uc.now()); err != nil {
		uc.log.WithContext(ctx).Warnf("failed to update last_login for %s: %v", admin.ID, err)
	}
	return uc.issue(ctx, admin.Profile())
}

func (uc *AdminUsecase) loginEnvAdmin(ctx context.Context, email, password string) (*AuthResult, error) {
	if !uc.config.HasEnvAdmin() || email != uc.config.AdminEmail {
		return nil, ErrInvalidCredentials
	}
	if subtle.ConstantTimeCompare([]byte(password), []byte(uc.config.AdminPassword)) != 1 {
		return nil, ErrInvalidCredentials
	}
	return uc.issue(ctx, uc.envProfile())
}

func (uc *AdminUsecase) envProfile() model.Profile {
	return model.Profile{ID: model.EnvAdminID, Email: uc.config.AdminEmail, Name: uc.config.AdminName}
}

func (uc *AdminUsecase) issue(ctx context.Context, profile model.Profile) (*AuthResult, error) {
	token, err := uc.tokenSvc.GenerateToken(ctx, profile)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to generate token").WithCause(err)
	}
	if uc.bus != nil {
		uc.bus.PublishAndForget(context.WithoutCancel(ctx),
			eventbus.NewEvent(eventbus.EventTypeAdminLoggedIn, eventbus.AdminLoggedIn{ID: profile.ID, Email: profile.Email}, "admin"))
	}
	return &AuthResult{Token: token, Admin: profile}, nil
}

// ValidateToken validates a JWT string
func (uc *AdminUsecase) ValidateToken(ctx context.Context, tokenString string) (*repository.Claims, error) {
	claims, err := uc.tokenSvc.ValidateToken(ctx, tokenString)
	if err != nil {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// Me returns the current profile of the signed-in admin
func (uc *AdminUsecase) Me(ctx context.Context, claims *repository.Claims) (*model.Profile, error) {
	if claims.ID == model.EnvAdminID {
		profile := claims.Profile()
		return &profile, nil
	}

	admin, err := uc.repo.FindByID(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, model.ErrAdminNotFound) {
			return nil, apperrors.NewNotFoundError("Admin")
		}
		return nil, apperrors.NewInfrastructureError("failed to load admin").WithCause(err)
	}
	if !admin.Active() {
		return nil, ErrAccountDisabled
	}
	profile := admin.Profile()
	return &profile, nil
}

// UpdateCredentials changes email, name or password without asking for the current password.
// A fresh token is returned because the old one embeds the previous email and name.
func (uc *AdminUsecase) UpdateCredentials(ctx context.Context, claims *repository.Claims, req UpdateCredentialsRequest) (*AuthResult, error) {
	admin, err := uc.resolve(ctx, claims)
	if err != nil {
		return nil, err
	}

	var changes model.AdminChanges
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if email != "" && email != admin.Email {
			if err := uc.ensureEmailFree(ctx, email, admin.ID); err != nil {
				return nil, err
			}
			changes.Email = &email
		}
	}
	if req.Name != nil {
		if name := strings.TrimSpace(*req.Name); name != "" {
			changes.Name = &name
		}
	}
	if req.Password != nil && *req.Password != "" {
		hash, err := uc.hash(*req.Password)
		if err != nil {
			return nil, err
		}
		changes.PasswordHash = &hash
	}
	if changes.Empty() {
		return nil, ErrNothingToUpdate
	}

	updated, err := uc.repo.Update(ctx, admin.ID, changes)
	if err != nil {
		return nil, uc.mapWriteError(err)
	}
	uc.log.WithContext(ctx).Infof("admin %s updated credentials", updated.ID)
	return uc.issue(ctx, updated.Profile())
}

// ChangePassword re-hashes the password after checking the current one
func (uc *AdminUsecase) ChangePassword(ctx context.Context, claims *repository.Claims, req ChangePasswordRequest) error {
	if req.CurrentPassword == "" || req.NewPassword == "" {
		return apperrors.NewValidationError("Current and new password are required")
	}

	admin, err := uc.resolve(ctx, claims)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.CurrentPassword)) != nil {
		return ErrWrongPassword
	}

	hash, err := uc.hash(req.NewPassword)
	if err != nil {
		return err
	}
	if _, err := uc.repo.Update(ctx, admin.ID, model.AdminChanges{PasswordHash: &hash}); err != nil {
		return uc.mapWriteError(err)
	}
	uc.log.WithContext(ctx).Infof("admin %s changed password", admin.ID)
	return nil
}

// resolve loads the admin behind the token. The env admin is materialized
// into the collection on first use so credential changes have a record to land on.
func (uc *AdminUsecase) resolve(ctx context.Context, claims *repository.Claims) (*model.Admin, error) {
	if claims.ID != model.EnvAdminID {
		admin, err := uc.repo.FindByID(ctx, claims.ID)
		if err != nil {
			if errors.Is(err, model.ErrAdminNotFound) {
				return nil, apperrors.NewNotFoundError("Admin")
			}
			return nil, apperrors.NewInfrastructureError("failed to load admin").WithCause(err)
		}
		if !admin.Active() {
			return nil, ErrAccountDisabled
		}
		return admin, nil
	}

	if !uc.config.HasEnvAdmin() {
		return nil, ErrTokenInvalid
	}
	admin, err := uc.repo.FindByEmail(ctx, uc.config.AdminEmail)
	if err == nil {
		return admin, nil
	}
	if !errors.Is(err, model.ErrAdminNotFound) {
		return nil, apperrors.NewInfrastructureError("failed to load admin").WithCause(err)
	}
	return uc.createEnvAdmin(ctx)
}

func (uc *AdminUsecase) createEnvAdmin(ctx context.Context) (*model.Admin, error) {
	hash, err := uc.hash(uc.config.AdminPassword)
	if err != nil {
		return nil, err
	}
	active := true
	admin := &model.Admin{
		Email:        uc.config.AdminEmail,
		PasswordHash: hash,
		Name:         uc.config.AdminName,
		IsActive:     &active,
	}
	if err := uc.repo.Create(ctx, admin); err != nil {
		return nil, uc.mapWriteError(err)
	}
	uc.log.WithContext(ctx).Infof("created admin record for %s", admin.Email)
	return admin, nil
}

// Seed inserts the env admin when it has no record yet. Existing admins are never touched.
func (uc *AdminUsecase) Seed(ctx context.Context) error {
	if !uc.config.HasEnvAdmin() {
		uc.log.Info("ADMIN_EMAIL/ADMIN_PASSWORD not set, skipping admin seed")
		return nil
	}

	_, err := uc.repo.FindByEmail(ctx, uc.config.AdminEmail)
	if err == nil {
		uc.log.Debugf("admin %s already exists", uc.config.AdminEmail)
		return nil
	}
	if !errors.Is(err, model.ErrAdminNotFound) {
		return fmt.Errorf("failed to check admin: %w", err)
	}
	if _, err := uc.createEnvAdmin(ctx); err != nil {
		if errors.Is(err, ErrEmailInUse) {
			return nil
		}
		return fmt.Errorf("failed to seed admin: %w", err)
	}
	return nil
}

func (uc *AdminUsecase) ensureEmailFree(ctx context.Context, email, selfID string) error {
	other, err := uc.repo.FindByEmail(ctx, email)
	switch {
	case err == nil && other.ID != selfID:
		return ErrEmailInUse
	case err != nil && !errors.Is(err, model.ErrAdminNotFound):
		return apperrors.NewInfrastructureError("failed to check email").WithCause(err)
	}
	return nil
}

func (uc *AdminUsecase) hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), uc.config.BcryptCost)
	if err != nil {
		return "", apperrors.NewInternalError("failed to hash password").WithCause(err)
	}
	return string(hash), nil
}

func (uc *AdminUsecase) mapWriteError(err error) error {
	switch {
	case errors.Is(err, model.ErrEmailTaken):
		return ErrEmailInUse
	case errors.Is(err, model.ErrAdminNotFound):
		return apperrors.NewNotFoundError("Admin")
	}
	return apperrors.WrapError(err, "failed to save admin")
}

// Ensure AdminUsecase implements AdminUsecaseInterface
var _ AdminUsecaseInterface = (*AdminUsecase)(nil)
