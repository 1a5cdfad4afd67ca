package http_test

import (
	"context"

	"agency-cms/internal/admin/domain/model"
	"agency-cms/internal/admin/domain/repository"
	"agency-cms/internal/admin/usecase"

	"github.com/stretchr/testify/mock"
)

// mockAdminUsecase is a shared mock type for the AdminUsecaseInterface
type mockAdminUsecase struct {
	mock.Mock
}

func (m *mockAdminUsecase) Login(ctx context.Context, req usecase.LoginRequest) (*usecase.AuthResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.AuthResult), args.Error(1)
}

func (m *mockAdminUsecase) ValidateToken(ctx context.Context, tokenString string) (*repository.Claims, error) {
	args := m.Called(ctx, tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.Claims), args.Error(1)
}

func (m *mockAdminUsecase) Me(ctx context.Context, claims *repository.Claims) (*model.Profile, error) {
	args := m.Called(ctx, claims)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Profile), args.Error(1)
}

func (m *mockAdminUsecase) UpdateCredentials(ctx context.Context, claims *repository.Claims, req usecase.UpdateCredentialsRequest) (*usecase.AuthResult, error) {
	args := m.Called(ctx, claims, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.AuthResult), args.Error(1)
}

func (m *mockAdminUsecase) ChangePassword(ctx context.Context, claims *repository.Claims, req usecase.ChangePasswordRequest) error {
	return m.Called(ctx, claims, req).Error(0)
}

func (m *mockAdminUsecase) Seed(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
