package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/psalmeida/organregistry/internal/domain/models"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateLocation inserts a location under the given administration.
func (f *Fixtures) CreateLocation(ctx context.Context, name string, adm models.Administration) models.Location {
	f.t.Helper()

	loc := models.Location{
		ID:   uuid.NewString(),
		Name: name,
		Adm:  adm,
	}
	if _, err := f.db.Collection("locations").InsertOne(ctx, loc); err != nil {
		f.t.Fatalf("failed to create test location: %v", err)
	}
	return loc
}

// CreateOrgan inserts an organ at the given location.
func (f *Fixtures) CreateOrgan(ctx context.Context, locationID string) models.Organ {
	f.t.Helper()

	now := time.Now().UTC()
	o := models.Organ{
		ID:              uuid.NewString(),
		Model:           "Test Model",
		SerialNumber:    "SN-" + uuid.NewString()[:8],
		PatrimonyNumber: "P-" + uuid.NewString()[:8],
		ChurchLocation:  "Nave",
		LocationID:      locationID,
		CreatedAt:       now,
		UpdatedAt:       &now,
	}
	if _, err := f.db.Collection("organs").InsertOne(ctx, o); err != nil {
		f.t.Fatalf("failed to create test organ: %v", err)
	}
	return o
}

// CreateMaintenance inserts a maintenance visit for the given organ on the
// given YYYY-MM-DD date.
func (f *Fixtures) CreateMaintenance(ctx context.Context, organID, date string) models.Maintenance {
	f.t.Helper()

	now := time.Now().UTC()
	m := models.Maintenance{
		ID:          uuid.NewString(),
		OrganID:     organID,
		Date:        date,
		Technicians: []string{"Test Technician"},
		Occurrence:  "routine tuning",
		CreatedAt:   now,
		UpdatedAt:   &now,
	}
	if _, err := f.db.Collection("maintenances").InsertOne(ctx, m); err != nil {
		f.t.Fatalf("failed to create test maintenance: %v", err)
	}
	return m
}
