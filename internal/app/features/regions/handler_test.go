package regions_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/psalmeida/organregistry/internal/app/features/regions"
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

func TestServeList(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// One never-serviced organ in ADM Norte makes that region pending.
	loc := fx.CreateLocation(ctx, "Igreja de Santana", models.AdmNorte)
	fx.CreateOrgan(ctx, loc.ID)

	h := regions.NewHandler(loadedSnapshot(t, db), zap.NewNop())

	rec := httptest.NewRecorder()
	h.ServeList(rec, httptest.NewRequest(http.MethodGet, "/regions", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var got []struct {
		Adm     models.Administration `json:"adm"`
		Pending bool                  `json:"pending"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	if len(got) != len(models.Administrations) {
		t.Fatalf("got %d regions, want %d", len(got), len(models.Administrations))
	}

	byAdm := map[models.Administration]bool{}
	for _, rg := range got {
		byAdm[rg.Adm] = rg.Pending
	}
	if !byAdm[models.AdmNorte] {
		t.Error("ADM Norte should be pending")
	}
	if byAdm[models.AdmCentral] {
		t.Error("ADM Central should not be pending")
	}
}

func TestServeLocations(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	loc := fx.CreateLocation(ctx, "Catedral da Sé", models.AdmCentral)
	fx.CreateLocation(ctx, "Igreja de Santana", models.AdmNorte)
	organ := fx.CreateOrgan(ctx, loc.ID)
	fx.CreateOrgan(ctx, loc.ID)
	fx.CreateMaintenance(ctx, organ.ID, "2099-01-01")

	h := regions.NewHandler(loadedSnapshot(t, db), zap.NewNop())

	req := testutil.WithChiURLParam(
		httptest.NewRequest(http.MethodGet, "/regions/ADM%20Central/locations", nil),
		"adm", string(models.AdmCentral),
	)
	rec := httptest.NewRecorder()
	h.ServeLocations(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var got []struct {
		ID                string `json:"id"`
		Name              string `json:"name"`
		Pending           bool   `json:"pending"`
		OrganCount        int    `json:"organCount"`
		PendingOrganCount int    `json:"pendingOrganCount"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d locations, want 1 (other region excluded)", len(got))
	}
	if got[0].OrganCount != 2 {
		t.Errorf("organCount = %d, want 2", got[0].OrganCount)
	}
	// One organ serviced far in the future, one never serviced.
	if got[0].PendingOrganCount != 1 || !got[0].Pending {
		t.Errorf("pending = %v pendingOrganCount = %d, want true/1", got[0].Pending, got[0].PendingOrganCount)
	}
}

func TestServeLocations_UnknownRegion(t *testing.T) {
	db := testutil.SetupTestDB(t)

	h := regions.NewHandler(loadedSnapshot(t, db), zap.NewNop())

	req := testutil.WithChiURLParam(
		httptest.NewRequest(http.MethodGet, "/regions/ADM%20Oeste/locations", nil),
		"adm", "ADM Oeste",
	)
	rec := httptest.NewRecorder()
	h.ServeLocations(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
