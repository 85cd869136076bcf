// internal/app/store/organs/organstore.go
package organstore

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/psalmeida/organregistry/internal/domain/models"
)

type Store struct {
	c *mongo.Collection
}

var ErrNotFound = errors.New("organ not found")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("organs")}
}

// Collection exposes the underlying collection for change-stream watchers.
func (s *Store) Collection() *mongo.Collection {
	return s.c
}

// Save writes the organ under its caller-generated ID, creating or fully
// replacing the document. CreatedAt is preserved on replace; UpdatedAt is
// refreshed.
func (s *Store) Save(ctx context.Context, o models.Organ) (models.Organ, error) {
	now := time.Now().UTC()
	if o.CreatedAt.IsZero() {
		if prev, err := s.GetByID(ctx, o.ID); err == nil {
			o.CreatedAt = prev.CreatedAt
		} else {
			o.CreatedAt = now
		}
	}
	o.UpdatedAt = &now

	opts := options.Replace().SetUpsert(true)
	if _, err := s.c.ReplaceOne(ctx, bson.M{"_id": o.ID}, o, opts); err != nil {
		return models.Organ{}, err
	}
	return o, nil
}

// GetByID returns an organ by its ID.
func (s *Store) GetByID(ctx context.Context, id string) (models.Organ, error) {
	var o models.Organ
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&o)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Organ{}, ErrNotFound
	}
	if err != nil {
		return models.Organ{}, err
	}
	return o, nil
}

// All returns every organ in the registry.
func (s *Store) All(ctx context.Context) ([]models.Organ, error) {
	cur, err := s.c.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Organ
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ByLocation returns the organs registered at the given location.
func (s *Store) ByLocation(ctx context.Context, locationID string) ([]models.Organ, error) {
	cur, err := s.c.Find(ctx, bson.M{"location_id": locationID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Organ
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes an organ by ID. Returns the number of documents deleted
// (0 or 1). Callers run this inside a transaction together with the cascade
// over the organ's maintenances and the audit-trail inserts.
func (s *Store) Delete(ctx context.Context, id string) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
