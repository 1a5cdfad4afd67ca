package repository

import (
	"context"
	"time"

	"agency-cms/internal/admin/domain/model"
)

// AdminRepository defines the persistence operations on the admins collection
type AdminRepository interface {
	Create(ctx context.Context, admin *model.Admin) error
	FindByEmail(ctx context.Context, email string) (*model.Admin, error)
	FindByID(ctx context.Context, id string) (*model.Admin, error)
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
	Update(ctx context.Context, id string, changes model.AdminChanges) (*model.Admin, error)
	EnsureIndexes(ctx context.Context) error
}
