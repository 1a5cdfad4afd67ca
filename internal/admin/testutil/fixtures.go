package testutil

import (
	"context"
	"time"

	"agency-cms/internal/admin/config"
	"agency-cms/internal/admin/domain/model"
	"agency-cms/internal/admin/domain/repository"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// DefaultPassword is the plain password behind every fixture hash
const DefaultPassword = "password123"

// AdminFixture provides test data for the Admin model
type AdminFixture struct{}

// NewAdminFixture creates a new AdminFixture instance
func NewAdminFixture() *AdminFixture {
	return &AdminFixture{}
}

// ValidAdmin returns an active admin whose password is DefaultPassword
func (f *AdminFixture) ValidAdmin() *model.Admin {
	return f.AdminWithPassword("owner@agency.io", DefaultPassword)
}

// AdminWithPassword returns an active admin with the given credentials
func (f *AdminFixture) AdminWithPassword(email, password string) *model.Admin {
	hashed, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	oid := primitive.NewObjectID()
	active := true
	return &model.Admin{
		ID:           oid.Hex(),
		ObjectID:     oid,
		Email:        email,
		PasswordHash: string(hashed),
		Name:         "Owner",
		IsActive:     &active,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
}

// DisabledAdmin returns an admin with is_active=false
func (f *AdminFixture) DisabledAdmin() *model.Admin {
	admin := f.ValidAdmin()
	inactive := false
	admin.IsActive = &inactive
	return admin
}

// Config returns an admin config with a fallback admin set
func Config() *config.Config {
	return &config.Config{
		JWTSecret:     "test-secret-key-32-characters-long-12345",
		JWTIssuer:     "agency-cms-test",
		JWTExpiresIn:  config.Expiry(time.Hour),
		AdminEmail:    "env@agency.io",
		AdminPassword: "env-password",
		AdminName:     "Env Admin",
		BcryptCost:    bcrypt.MinCost,
	}
}

// MockAdminRepository is a testify mock of repository.AdminRepository
type MockAdminRepository struct {
	mock.Mock
}

func (m *MockAdminRepository) Create(ctx context.Context, admin *model.Admin) error {
	args := m.Called(ctx, admin)
	if args.Error(0) == nil && admin.ID == "" {
		admin.ObjectID = primitive.NewObjectID()
		admin.ID = admin.ObjectID.Hex()
	}
	return args.Error(0)
}

func (m *MockAdminRepository) FindByEmail(ctx context.Context, email string) (*model.Admin, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Admin), args.Error(1)
}

func (m *MockAdminRepository) FindByID(ctx context.Context, id string) (*model.Admin, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Admin), args.Error(1)
}

func (m *MockAdminRepository) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	return m.Called(ctx, id, at).Error(0)
}

func (m *MockAdminRepository) Update(ctx context.Context, id string, changes model.AdminChanges) (*model.Admin, error) {
	args := m.Called(ctx, id, changes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Admin), args.Error(1)
}

func (m *MockAdminRepository) EnsureIndexes(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

var _ repository.AdminRepository = (*MockAdminRepository)(nil)
