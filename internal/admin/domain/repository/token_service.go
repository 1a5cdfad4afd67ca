package repository

import (
	"context"

	"agency-cms/internal/admin/domain/model"

	"github.com/golang-jwt/jwt/v5"
)

// TokenService defines the interface for token operations
type TokenService interface {
	GenerateToken(ctx context.Context, admin model.Profile) (string, error)
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims represents JWT claims
type Claims struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

// IsAdmin reports whether the token carries the admin role
func (c *Claims) IsAdmin() bool {
	return c.Role == model.RoleAdmin
}

// Profile returns the admin identity embedded in the token
func (c *Claims) Profile() model.Profile {
	return model.Profile{ID: c.ID, Email: c.Email, Name: c.Name}
}
