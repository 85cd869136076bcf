// internal/app/store/maintenances/maintenancestore.go
package maintenancestore

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

var ErrNotFound = errors.New("maintenance not found")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("maintenances")}
}

// Collection exposes the underlying collection for change-stream watchers.
func (s *Store) Collection() *mongo.Collection {
	return s.c
}

// Save writes the maintenance under its caller-generated ID, creating or
// fully replacing the document. CreatedAt is preserved on replace; UpdatedAt
// is refreshed.
func (s *Store) Save(ctx context.Context, m models.Maintenance) (models.Maintenance, error) {
	now := time.Now().UTC()
	if m.CreatedAt.IsZero() {
		if prev, err := s.GetByID(ctx, m.ID); err == nil {
			m.CreatedAt = prev.CreatedAt
		} else {
			m.CreatedAt = now
		}
	}
	m.UpdatedAt = &now

	opts := options.Replace().SetUpsert(true)
	if _, err := s.c.ReplaceOne(ctx, bson.M{"_id": m.ID}, m, opts); err != nil {
		return models.Maintenance{}, err
	}
	return m, nil
}

// GetByID returns a maintenance record by its ID.
func (s *Store) GetByID(ctx context.Context, id string) (models.Maintenance, error) {
	var m models.Maintenance
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&m)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Maintenance{}, ErrNotFound
	}
	if err != nil {
		return models.Maintenance{}, err
	}
	return m, nil
}

// All returns every maintenance record.
func (s *Store) All(ctx context.Context) ([]models.Maintenance, error) {
	cur, err := s.c.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Maintenance
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ByOrgan returns the organ's maintenance history, most recent visit first.
func (s *Store) ByOrgan(ctx context.Context, organID string) ([]models.Maintenance, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{"organ_id": organID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Maintenance
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes a maintenance record by ID. Returns the number of documents
// deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id string) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteByOrgan removes every maintenance record for the organ and returns
// how many were deleted. Used by the organ-delete cascade, inside the same
// transaction as the organ removal.
func (s *Store) DeleteByOrgan(ctx context.Context, organID string) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"organ_id": organID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
