package model

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrAdminNotFound = errors.New("admin not found")
	ErrEmailTaken    = errors.New("email is already taken")
)

// EnvAdminID is the token subject of the fallback admin from ADMIN_EMAIL/ADMIN_PASSWORD
const EnvAdminID = "env-admin"

// RoleAdmin is the only role issued
const RoleAdmin = "admin"

// Admin is a person allowed into the admin panel
type Admin struct {
	ID           string             `json:"id" bson:"-"`
	ObjectID     primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	Email        string             `json:"email" bson:"email"`
	PasswordHash string             `json:"-" bson:"passwordHash"`
	Name         string             `json:"name" bson:"name"`
	IsActive     *bool              `json:"is_active,omitempty" bson:"is_active,omitempty"`
	LastLogin    *time.Time         `json:"last_login,omitempty" bson:"last_login,omitempty"`
	CreatedAt    time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at" bson:"updated_at"`
}

// Active treats a missing is_active as active; only an explicit false disables
func (a *Admin) Active() bool {
	return a.IsActive == nil || *a.IsActive
}

// Profile is the public view of an admin
func (a *Admin) Profile() Profile {
	return Profile{ID: a.ID, Email: a.Email, Name: a.Name}
}

// Profile is what the API returns for the signed-in admin
type Profile struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// AdminChanges lists the fields a credential update may set; nil means unchanged
type AdminChanges struct {
	Email        *string
	Name         *string
	PasswordHash *string
}

// Empty reports whether no field is set
func (c AdminChanges) Empty() bool {
	return c.Email == nil && c.Name == nil && c.PasswordHash == nil
}
