package database

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Repository is the persistence contract a Store fulfils. Writes take validated field maps.
type Repository[T any] interface {
	Find(ctx context.Context, filter bson.M, opts FindOptions) ([]T, error)
	FindOne(ctx context.Context, filter bson.M) (*T, error)
	FindByID(ctx context.Context, id string) (*T, error)
	Count(ctx context.Context, filter bson.M) (int64, error)
	Insert(ctx context.Context, fields bson.M) (*T, error)
	Update(ctx context.Context, id string, fields bson.M) (*T, error)
	Upsert(ctx context.Context, filter bson.M, fields bson.M) (*T, error)
	Delete(ctx context.Context, id string) error
	DeleteOne(ctx context.Context, filter bson.M) error
	EnsureIndexes(ctx context.Context, models ...mongo.IndexModel) error
}

var _ Repository[struct{}] = (*Store[struct{}])(nil)
