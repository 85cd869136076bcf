// internal/app/store/locations/locationstore.go
package locationstore

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/psalmeida/organregistry/internal/domain/models"
)

type Store struct {
	c *mongo.Collection
}

var ErrNotFound = errors.New("location not found")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("locations")}
}

// Collection exposes the underlying collection for change-stream watchers.
func (s *Store) Collection() *mongo.Collection {
	return s.c
}

// EnsureSeeded inserts any of the given reference locations that are not
// already present. Existing documents are left untouched, so renames applied
// directly in the database survive restarts.
func (s *Store) EnsureSeeded(ctx context.Context, seed []models.Location) error {
	for _, loc := range seed {
		update := bson.M{"$setOnInsert": loc}
		opts := options.Update().SetUpsert(true)
		if _, err := s.c.UpdateOne(ctx, bson.M{"_id": loc.ID}, update, opts); err != nil {
			return err
		}
	}
	return nil
}

// GetByID returns a location by its ID.
func (s *Store) GetByID(ctx context.Context, id string) (models.Location, error) {
	var l models.Location
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&l)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Location{}, ErrNotFound
	}
	if err != nil {
		return models.Location{}, err
	}
	return l, nil
}

// All returns every location, sorted by name.
func (s *Store) All(ctx context.Context) ([]models.Location, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Location
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ByAdm returns the locations under the given administration, sorted by name.
func (s *Store) ByAdm(ctx context.Context, adm models.Administration) ([]models.Location, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"adm": adm}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Location
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
