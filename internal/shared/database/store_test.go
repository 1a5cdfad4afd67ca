package database_test

import (
	"context"
	"testing"
	"time"

	"agency-cms/internal/shared/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

type note struct {
	database.Base `bson:",inline"`
	Title         string `json:"title" bson:"title"`
	Pinned        bool   `json:"pinned" bson:"pinned"`
}

func TestStore(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ns := "agency_site.notes"

	mt.Run("insert stamps id and timestamps", func(mt *mtest.T) {
		store := database.NewStore[note](mt.DB, "notes")
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		n, err := store.Insert(context.Background(), bson.M{"title": "hello", "pinned": true})
		require.NoError(mt, err)
		assert.False(mt, n.ID.IsZero())
		assert.Equal(mt, "hello", n.Title)
		assert.True(mt, n.Pinned)
		assert.False(mt, n.CreatedAt.IsZero())
	})

	mt.Run("insert duplicate", func(mt *mtest.T) {
		store := database.NewStore[note](mt.DB, "notes")
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{Index: 0, Code: 11000, Message: "dup"}))

		_, err := store.Insert(context.Background(), bson.M{"title": "hello"})
		assert.ErrorIs(mt, err, database.ErrDuplicate)
	})

	mt.Run("find decodes every document", func(mt *mtest.T) {
		store := database.NewStore[note](mt.DB, "notes")
		first := mtest.CreateCursorResponse(1, ns, mtest.FirstBatch,
			bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "title", Value: "a"}},
		)
		second := mtest.CreateCursorResponse(0, ns, mtest.NextBatch,
			bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "title", Value: "b"}},
		)
		mt.AddMockResponses(first, second)

		notes, err := store.Find(context.Background(), nil, database.FindOptions{Sort: bson.D{{Key: "title", Value: 1}}, Limit: 5})
		require.NoError(mt, err)
		require.Len(mt, notes, 2)
		assert.Equal(mt, "b", notes[1].Title)
	})

	mt.Run("find on empty collection returns empty slice", func(mt *mtest.T) {
		store := database.NewStore[note](mt.DB, "notes")
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		notes, err := store.Find(context.Background(), bson.M{"pinned": true}, database.FindOptions{})
		require.NoError(mt, err)
		assert.NotNil(mt, notes)
		assert.Empty(mt, notes)
	})

	mt.Run("find by malformed id is not found", func(mt *mtest.T) {
		store := database.NewStore[note](mt.DB, "notes")
		_, err := store.FindByID(context.Background(), "nope")
		assert.ErrorIs(mt, err, database.ErrNotFound)
	})

	mt.Run("find by id missing", func(mt *mtest.T) {
		store := database.NewStore[note](mt.DB, "notes")
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		_, err := store.FindByID(context.Background(), primitive.NewObjectID().Hex())
		assert.ErrorIs(mt, err, database.ErrNotFound)
	})

	mt.Run("update returns document after", func(mt *mtest.T) {
		store := database.NewStore[note](mt.DB, "notes")
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: bson.D{
			{Key: "_id", Value: id},
			{Key: "title", Value: "changed"},
			{Key: "updated_at", Value: time.Now()},
		}}))

		n, err := store.Update(context.Background(), id.Hex(), bson.M{"title": "changed"})
		require.NoError(mt, err)
		assert.Equal(mt, id, n.ID)
		assert.Equal(mt, "changed", n.Title)
	})

	mt.Run("update missing document", func(mt *mtest.T) {
		store := database.NewStore[note](mt.DB, "notes")
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}))

		_, err := store.Update(context.Background(), primitive.NewObjectID().Hex(), bson.M{"title": "x"})
		assert.ErrorIs(mt, err, database.ErrNotFound)
	})

	mt.Run("upsert", func(mt *mtest.T) {
		store := database.NewStore[note](mt.DB, "notes")
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: bson.D{
			{Key: "_id", Value: primitive.NewObjectID()},
			{Key: "title", Value: "hero"},
		}}))

		n, err := store.Upsert(context.Background(), bson.M{"title": "hero"}, bson.M{"pinned": false})
		require.NoError(mt, err)
		assert.Equal(mt, "hero", n.Title)
	})

	mt.Run("delete", func(mt *mtest.T) {
		store := database.NewStore[note](mt.DB, "notes")
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}),
		)

		require.NoError(mt, store.Delete(context.Background(), primitive.NewObjectID().Hex()))
		assert.ErrorIs(mt, store.Delete(context.Background(), primitive.NewObjectID().Hex()), database.ErrNotFound)
		assert.ErrorIs(mt, store.Delete(context.Background(), "bad"), database.ErrNotFound)
	})

	mt.Run("count", func(mt *mtest.T) {
		store := database.NewStore[note](mt.DB, "notes")
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{{Key: "n", Value: int32(3)}}))

		n, err := store.Count(context.Background(), bson.M{"pinned": true})
		require.NoError(mt, err)
		assert.Equal(mt, int64(3), n)
	})
}
