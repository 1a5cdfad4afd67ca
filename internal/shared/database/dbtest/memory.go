// Package dbtest holds an in-memory repository for tests that do not need MongoDB.
package dbtest

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"sync"
	"time"

	"agency-cms/internal/shared/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// MemoryRepository implements database.Repository over a slice of documents.
// It understands equality, $ne and $or filters.
type MemoryRepository[T any] struct {
	mu     sync.Mutex
	docs   []bson.M
	unique [][]string

	// Err, when set, is returned by every call
	Err error
	Now func() time.Time
}

// NewMemoryRepository creates an empty repository; each unique entry is a set of
// fields that must not repeat across documents
func NewMemoryRepository[T any](unique ...[]string) *MemoryRepository[T] {
	return &MemoryRepository[T]{unique: unique, Now: time.Now}
}

// Docs returns a copy of the raw documents
func (r *MemoryRepository[T]) Docs() []bson.M {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]bson.M, len(r.docs))
	for i, d := range r.docs {
		out[i] = copyDoc(d)
	}
	return out
}

func (r *MemoryRepository[T]) Find(_ context.Context, filter bson.M, opts database.FindOptions) ([]T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}

	matched := make([]bson.M, 0)
	for _, d := range r.docs {
		if matches(d, filter) {
			matched = append(matched, d)
		}
	}
	sortDocs(matched, opts.Sort)
	if opts.Limit > 0 && int64(len(matched)) > opts.Limit {
		matched = matched[:opts.Limit]
	}

	out := make([]T, 0, len(matched))
	for _, d := range matched {
		item, err := decode[T](d)
		if err != nil {
			return nil, err
		}
		out = append(out, *item)
	}
	return out, nil
}

func (r *MemoryRepository[T]) FindOne(_ context.Context, filter bson.M) (*T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	for _, d := range r.docs {
		if matches(d, filter) {
			return decode[T](d)
		}
	}
	return nil, database.ErrNotFound
}

func (r *MemoryRepository[T]) FindByID(ctx context.Context, id string) (*T, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, database.ErrNotFound
	}
	return r.FindOne(ctx, bson.M{"_id": oid})
}

func (r *MemoryRepository[T]) Count(_ context.Context, filter bson.M) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return 0, r.Err
	}
	var n int64
	for _, d := range r.docs {
		if matches(d, filter) {
			n++
		}
	}
	return n, nil
}

func (r *MemoryRepository[T]) Insert(_ context.Context, fields bson.M) (*T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}

	doc := copyDoc(fields)
	now := r.Now().UTC()
	doc["_id"] = primitive.NewObjectID()
	if _, ok := doc["created_at"]; !ok {
		doc["created_at"] = now
	}
	doc["updated_at"] = now
	if r.violatesUnique(doc, -1) {
		return nil, database.ErrDuplicate
	}
	r.docs = append(r.docs, doc)
	return decode[T](doc)
}

func (r *MemoryRepository[T]) Update(_ context.Context, id string, fields bson.M) (*T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, database.ErrNotFound
	}
	for i, d := range r.docs {
		if d["_id"] != oid {
			continue
		}
		next := copyDoc(d)
		for k, v := range fields {
			next[k] = v
		}
		next["updated_at"] = r.Now().UTC()
		if r.violatesUnique(next, i) {
			return nil, database.ErrDuplicate
		}
		r.docs[i] = next
		return decode[T](next)
	}
	return nil, database.ErrNotFound
}

func (r *MemoryRepository[T]) Upsert(_ context.Context, filter bson.M, fields bson.M) (*T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	now := r.Now().UTC()
	for i, d := range r.docs {
		if matches(d, filter) {
			next := copyDoc(d)
			for k, v := range fields {
				next[k] = v
			}
			next["updated_at"] = now
			r.docs[i] = next
			return decode[T](next)
		}
	}

	doc := copyDoc(filter)
	for k, v := range fields {
		doc[k] = v
	}
	doc["_id"] = primitive.NewObjectID()
	doc["created_at"] = now
	doc["updated_at"] = now
	r.docs = append(r.docs, doc)
	return decode[T](doc)
}

func (r *MemoryRepository[T]) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return database.ErrNotFound
	}
	return r.DeleteOne(ctx, bson.M{"_id": oid})
}

func (r *MemoryRepository[T]) DeleteOne(_ context.Context, filter bson.M) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	for i, d := range r.docs {
		if matches(d, filter) {
			r.docs = append(r.docs[:i], r.docs[i+1:]...)
			return nil
		}
	}
	return database.ErrNotFound
}

func (r *MemoryRepository[T]) EnsureIndexes(context.Context, ...mongo.IndexModel) error {
	return r.Err
}

func (r *MemoryRepository[T]) violatesUnique(doc bson.M, skip int) bool {
	for _, fields := range r.unique {
		for i, other := range r.docs {
			if i == skip {
				continue
			}
			same := true
			for _, f := range fields {
				if !reflect.DeepEqual(doc[f], other[f]) {
					same = false
					break
				}
			}
			if same {
				return true
			}
		}
	}
	return false
}

func matches(doc bson.M, filter bson.M) bool {
	for key, want := range filter {
		if key == "$or" {
			alternatives, _ := want.(bson.A)
			hit := false
			for _, alt := range alternatives {
				if m, ok := alt.(bson.M); ok && matches(doc, m) {
					hit = true
					break
				}
			}
			if !hit {
				return false
			}
			continue
		}

		if op, ok := want.(bson.M); ok {
			if ne, ok := op["$ne"]; ok {
				if equal(doc[key], ne) {
					return false
				}
				continue
			}
		}
		if !equal(doc[key], want) {
			return false
		}
	}
	return true
}

// equal treats a list field as matching any of its elements
func equal(have, want interface{}) bool {
	if reflect.DeepEqual(have, want) {
		return true
	}
	v := reflect.ValueOf(have)
	if v.Kind() == reflect.Slice {
		for i := 0; i < v.Len(); i++ {
			if reflect.DeepEqual(v.Index(i).Interface(), want) {
				return true
			}
		}
	}
	return false
}

func sortDocs(docs []bson.M, order bson.D) {
	if len(order) == 0 {
		return
	}
	sort.SliceStable(docs, func(i, j int) bool {
		for _, e := range order {
			dir, _ := e.Value.(int)
			c := compare(docs[i][e.Key], docs[j][e.Key])
			if c == 0 {
				continue
			}
			if dir < 0 {
				return c > 0
			}
			return c < 0
		}
		return false
	})
}

func compare(a, b interface{}) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	switch av := a.(type) {
	case int:
		bv, _ := b.(int)
		return av - bv
	case string:
		bv, _ := b.(string)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
		return 0
	case bool:
		bv, _ := b.(bool)
		switch {
		case av == bv:
			return 0
		case !av:
			return -1
		}
		return 1
	case time.Time:
		bv, _ := b.(time.Time)
		return av.Compare(bv)
	}
	return 0
}

func copyDoc(d bson.M) bson.M {
	out := make(bson.M, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

func decode[T any](doc bson.M) (*T, error) {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}
	var out T
	if err := bson.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}
	return &out, nil
}

var _ database.Repository[struct{}] = (*MemoryRepository[struct{}])(nil)
