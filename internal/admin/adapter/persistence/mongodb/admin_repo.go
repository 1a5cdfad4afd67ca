package mongodb

import (
	"context"
	"errors"
	"strings"
	"time"

	"agency-cms/internal/admin/domain/model"
	"agency-cms/internal/admin/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CollectionName is where admins live
const CollectionName = "admins"

// MongoAdminRepository implements the AdminRepository interface using MongoDB
type MongoAdminRepository struct {
	collection *mongo.Collection
	now        func() time.Time
}

// NewMongoAdminRepository creates a new MongoDB admin repository
func NewMongoAdminRepository(db *mongo.Database) *MongoAdminRepository {
	return &MongoAdminRepository{
		collection: db.Collection(CollectionName),
		now:        time.Now,
	}
}

// EnsureIndexes creates the unique email index
func (r *MongoAdminRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("admins_email_unique"),
	})
	return err
}

// Create inserts a new admin and fills in its ID and timestamps
func (r *MongoAdminRepository) Create(ctx context.Context, admin *model.Admin) error {
	if admin == nil {
		return errors.New("admin cannot be nil")
	}

	now := r.now().UTC()
	admin.Email = normalizeEmail(admin.Email)
	admin.CreatedAt = now
	admin.UpdatedAt = now
	if admin.ObjectID.IsZero() {
		admin.ObjectID = primitive.NewObjectID()
	}
	if admin.IsActive == nil {
		active := true
		admin.IsActive = &active
	}

	if _, err := r.collection.InsertOne(ctx, admin); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return model.ErrEmailTaken
		}
		return err
	}
	admin.ID = admin.ObjectID.Hex()
	return nil
}

// FindByEmail retrieves an admin by email
func (r *MongoAdminRepository) FindByEmail(ctx context.Context, email string) (*model.Admin, error) {
	if email == "" {
		return nil, errors.New("email cannot be empty")
	}
	return r.findOne(ctx, bson.M{"email": normalizeEmail(email)})
}

// FindByID retrieves an admin by its hex ObjectID
func (r *MongoAdminRepository) FindByID(ctx context.Context, id string) (*model.Admin, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, model.ErrAdminNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *MongoAdminRepository) findOne(ctx context.Context, filter bson.M) (*model.Admin, error) {
	var admin model.Admin
	if err := r.collection.FindOne(ctx, filter).Decode(&admin); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, model.ErrAdminNotFound
		}
		return nil, err
	}
	admin.ID = admin.ObjectID.Hex()
	return &admin, nil
}

// UpdateLastLogin stamps last_login
func (r *MongoAdminRepository) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return model.ErrAdminNotFound
	}

	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"last_login": at.UTC()}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return model.ErrAdminNotFound
	}
	return nil
}

// Update applies credential changes and returns the updated admin
func (r *MongoAdminRepository) Update(ctx context.Context, id string, changes model.AdminChanges) (*model.Admin, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, model.ErrAdminNotFound
	}

	set := bson.M{"updated_at": r.now().UTC()}
	if changes.Email != nil {
		set["email"] = normalizeEmail(*changes.Email)
	}
	if changes.Name != nil {
		set["name"] = *changes.Name
	}
	if changes.PasswordHash != nil {
		set["passwordHash"] = *changes.PasswordHash
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var admin model.Admin
	err = r.collection.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&admin)
	if err != nil {
		switch {
		case errors.Is(err, mongo.ErrNoDocuments):
			return nil, model.ErrAdminNotFound
		case mongo.IsDuplicateKeyError(err):
			return nil, model.ErrEmailTaken
		}
		return nil, err
	}
	admin.ID = admin.ObjectID.Hex()
	return &admin, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

var _ repository.AdminRepository = (*MongoAdminRepository)(nil)
