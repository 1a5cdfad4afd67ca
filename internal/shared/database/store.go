package database

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrNotFound is returned when no document matches
	ErrNotFound = errors.New("document not found")
	// ErrDuplicate is returned when a unique index rejects a write
	ErrDuplicate = errors.New("duplicate document")
)

// Base carries the fields every stored document has
type Base struct {
	ID        primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time          `json:"updated_at,omitempty" bson:"updated_at,omitempty"`
}

// IDHex returns the id as a hex string
func (b Base) IDHex() string {
	return b.ID.Hex()
}

// FindOptions narrows a Find call
type FindOptions struct {
	Sort  bson.D
	Limit int64
}

// Store is a typed view over one collection. Writes take field maps so partial
// updates only touch what the caller validated.
type Store[T any] struct {
	collection *mongo.Collection
	now        func() time.Time
}

// NewStore creates a store over db.<name>
func NewStore[T any](db *mongo.Database, name string) *Store[T] {
	return &Store[T]{collection: db.Collection(name), now: time.Now}
}

// Name returns the collection name
func (s *Store[T]) Name() string {
	return s.collection.Name()
}

// EnsureIndexes creates the given indexes
func (s *Store[T]) EnsureIndexes(ctx context.Context, models ...mongo.IndexModel) error {
	if len(models) == 0 {
		return nil
	}
	_, err := s.collection.Indexes().CreateMany(ctx, models)
	return err
}

// Find returns every document matching filter
func (s *Store[T]) Find(ctx context.Context, filter bson.M, opts FindOptions) ([]T, error) {
	if filter == nil {
		filter = bson.M{}
	}
	findOpts := options.Find()
	if len(opts.Sort) > 0 {
		findOpts.SetSort(opts.Sort)
	}
	if opts.Limit > 0 {
		findOpts.SetLimit(opts.Limit)
	}

	cursor, err := s.collection.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	out := make([]T, 0)
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FindOne returns the first document matching filter
func (s *Store[T]) FindOne(ctx context.Context, filter bson.M) (*T, error) {
	var doc T
	if err := s.collection.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &doc, nil
}

// FindByID looks a document up by its hex id; malformed ids are not found
func (s *Store[T]) FindByID(ctx context.Context, id string) (*T, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	return s.FindOne(ctx, bson.M{"_id": oid})
}

// Count counts documents matching filter
func (s *Store[T]) Count(ctx context.Context, filter bson.M) (int64, error) {
	if filter == nil {
		filter = bson.M{}
	}
	return s.collection.CountDocuments(ctx, filter)
}

// Insert stores fields as a new document, stamping _id and timestamps
func (s *Store[T]) Insert(ctx context.Context, fields bson.M) (*T, error) {
	doc := bson.M{}
	for k, v := range fields {
		doc[k] = v
	}
	now := s.now().UTC()
	doc["_id"] = primitive.NewObjectID()
	if _, ok := doc["created_at"]; !ok {
		doc["created_at"] = now
	}
	doc["updated_at"] = now

	if _, err := s.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return decode[T](doc)
}

// Update sets fields on the document and returns it as stored afterwards
func (s *Store[T]) Update(ctx context.Context, id string, fields bson.M) (*T, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	set := bson.M{}
	for k, v := range fields {
		set[k] = v
	}
	set["updated_at"] = s.now().UTC()

	return s.findOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After))
}

// Upsert sets fields on the document matching filter, creating it when absent
func (s *Store[T]) Upsert(ctx context.Context, filter bson.M, fields bson.M) (*T, error) {
	now := s.now().UTC()
	set := bson.M{}
	for k, v := range fields {
		set[k] = v
	}
	set["updated_at"] = now

	update := bson.M{
		"$set":         set,
		"$setOnInsert": bson.M{"created_at": now},
	}
	return s.findOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After).SetUpsert(true))
}

func (s *Store[T]) findOneAndUpdate(ctx context.Context, filter, update bson.M, opts *options.FindOneAndUpdateOptions) (*T, error) {
	var doc T
	err := s.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	if err != nil {
		switch {
		case errors.Is(err, mongo.ErrNoDocuments):
			return nil, ErrNotFound
		case mongo.IsDuplicateKeyError(err):
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return &doc, nil
}

// Delete removes the document with the given hex id
func (s *Store[T]) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	return s.DeleteOne(ctx, bson.M{"_id": oid})
}

// DeleteOne removes the first document matching filter
func (s *Store[T]) DeleteOne(ctx context.Context, filter bson.M) error {
	res, err := s.collection.DeleteOne(ctx, filter)
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func decode[T any](doc bson.M) (*T, error) {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var out T
	if err := bson.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
