// internal/app/store/deleted/deletedstore.go
package deletedstore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/psalmeida/organregistry/internal/domain/models"
)

// Store is the audit trail of removed organs and maintenance records.
// It is append-only: there is no update or delete path.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("deletedItems")}
}

// Collection exposes the underlying collection for change-stream watchers.
func (s *Store) Collection() *mongo.Collection {
	return s.c
}

// Insert appends an audit record. DeletedAt defaults to now when unset.
func (s *Store) Insert(ctx context.Context, item models.DeletedItem) (models.DeletedItem, error) {
	if item.DeletedAt.IsZero() {
		item.DeletedAt = time.Now().UTC()
	}
	if _, err := s.c.InsertOne(ctx, item); err != nil {
		return models.DeletedItem{}, err
	}
	return item, nil
}

// Filter narrows a history query. Zero values mean "no constraint".
type Filter struct {
	Type string
	Adm  models.Administration

	// From and To bound DeletedAt, inclusive on both ends.
	From time.Time
	To   time.Time
}

// Query returns audit records matching the filter, most recent first.
func (s *Store) Query(ctx context.Context, f Filter) ([]models.DeletedItem, error) {
	q := bson.M{}
	if f.Type != "" {
		q["type"] = f.Type
	}
	if f.Adm != "" {
		q["metadata.adm"] = f.Adm
	}
	if !f.From.IsZero() || !f.To.IsZero() {
		rng := bson.M{}
		if !f.From.IsZero() {
			rng["$gte"] = f.From
		}
		if !f.To.IsZero() {
			rng["$lte"] = f.To
		}
		q["deleted_at"] = rng
	}

	opts := options.Find().SetSort(bson.D{{Key: "deleted_at", Value: -1}})
	cur, err := s.c.Find(ctx, q, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.DeletedItem
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// All returns the full audit trail, most recent first.
func (s *Store) All(ctx context.Context) ([]models.DeletedItem, error) {
	return s.Query(ctx, Filter{})
}
