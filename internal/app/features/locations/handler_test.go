package locations_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/psalmeida/organregistry/internal/app/features/locations"
	deletedstore "github.com/psalmeida/organregistry/internal/app/store/deleted"
	locationstore "github.com/psalmeida/organregistry/internal/app/store/locations"
	maintenancestore "github.com/psalmeida/organregistry/internal/app/store/maintenances"
	organstore "github.com/psalmeida/organregistry/internal/app/store/organs"
	"github.com/psalmeida/organregistry/internal/app/system/snapshot"
	"github.com/psalmeida/organregistry/internal/domain/models"
	"github.com/psalmeida/organregistry/internal/testutil"
)

func loadedSnapshot(t *testing.T, db *mongo.Database) *snapshot.Cache {
	t.Helper()
	snap := snapshot.New(
		organstore.New(db),
		maintenancestore.New(db),
		deletedstore.New(db),
		locationstore.New(db),
		zap.NewNop(),
	)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	snap.Load(ctx)
	return snap
}

type detailResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Organs []struct {
		ID           string `json:"id"`
		Model        string `json:"model"`
		Pending      bool   `json:"pending"`
		Maintenances []struct {
			Date string `json:"date"`
		} `json:"maintenances"`
	} `json:"organs"`
	PendingOrganCount int `json:"pendingOrganCount"`
}

func TestServeDetail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	loc := fx.CreateLocation(ctx, "Catedral da Sé", models.AdmCentral)
	organ := fx.CreateOrgan(ctx, loc.ID)
	fx.CreateMaintenance(ctx, organ.ID, "2025-01-10")
	fx.CreateMaintenance(ctx, organ.ID, "2026-02-20")

	h := locations.NewHandler(loadedSnapshot(t, db), zap.NewNop())

	req := testutil.WithChiURLParam(
		httptest.NewRequest(http.MethodGet, "/locations/"+loc.ID, nil),
		"id", loc.ID,
	)
	rec := httptest.NewRecorder()
	h.ServeDetail(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var got detailResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	if got.ID != loc.ID || got.Name != "Catedral da Sé" {
		t.Errorf("location = %q %q", got.ID, got.Name)
	}
	if len(got.Organs) != 1 {
		t.Fatalf("got %d organs, want 1", len(got.Organs))
	}
	hist := got.Organs[0].Maintenances
	if len(hist) != 2 || hist[0].Date != "2026-02-20" {
		t.Errorf("history not sorted most recent first: %+v", hist)
	}
}

func TestServeDetail_Search(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	loc := fx.CreateLocation(ctx, "Igreja de Santana", models.AdmNorte)
	a := fx.CreateOrgan(ctx, loc.ID)
	fx.CreateOrgan(ctx, loc.ID)

	// Make organ A findable by serial number.
	if _, err := organstore.New(db).Save(ctx, models.Organ{
		ID: a.ID, Model: "Walcker Op. 120", SerialNumber: "UNIQ-777",
		PatrimonyNumber: a.PatrimonyNumber, LocationID: loc.ID,
	}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	h := locations.NewHandler(loadedSnapshot(t, db), zap.NewNop())

	req := testutil.WithChiURLParam(
		httptest.NewRequest(http.MethodGet, "/locations/"+loc.ID+"?q=uniq-7", nil),
		"id", loc.ID,
	)
	rec := httptest.NewRecorder()
	h.ServeDetail(rec, req)

	var got detailResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	if len(got.Organs) != 1 || got.Organs[0].ID != a.ID {
		t.Errorf("search should match only organ A, got %+v", got.Organs)
	}
	// Count ignores the search filter: both organs are unserviced.
	if got.PendingOrganCount != 2 {
		t.Errorf("pendingOrganCount = %d, want 2", got.PendingOrganCount)
	}
}

func TestServeDetail_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := locations.NewHandler(loadedSnapshot(t, db), zap.NewNop())

	req := testutil.WithChiURLParam(
		httptest.NewRequest(http.MethodGet, "/locations/missing", nil),
		"id", "missing",
	)
	rec := httptest.NewRecorder()
	h.ServeDetail(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
