package repository

import "agency-cms/internal/shared/database"

// Repository persists one content kind
type Repository[T any] interface {
	database.Repository[T]
}
