package maintenancestore_test

import (
	"errors"
	"testing"

	maintenancestore "github.com/psalmeida/organregistry/internal/app/store/maintenances"
	"github.com/psalmeida/organregistry/internal/domain/models"
	"github.com/psalmeida/organregistry/internal/testutil"
)

func TestStore_SaveAndGet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := maintenancestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	m := models.Maintenance{
		ID:          "maint-1",
		OrganID:     "organ-1",
		Date:        "2026-03-10",
		Technicians: []string{"Ana", "Bruno"},
		Occurrence:  "tuning and voicing",
	}

	saved, err := store.Save(ctx, m)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if saved.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}

	got, err := store.GetByID(ctx, "maint-1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Date != "2026-03-10" || len(got.Technicians) != 2 {
		t.Errorf("got %+v", got)
	}
}

func TestStore_ByOrgan_SortsMostRecentFirst(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := maintenancestore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx.CreateMaintenance(ctx, "organ-1", "2025-01-10")
	fx.CreateMaintenance(ctx, "organ-1", "2026-02-20")
	fx.CreateMaintenance(ctx, "organ-1", "2024-12-01")
	fx.CreateMaintenance(ctx, "organ-2", "2026-01-01")

	got, err := store.ByOrgan(ctx, "organ-1")
	if err != nil {
		t.Fatalf("ByOrgan failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d records, want 3", len(got))
	}
	if got[0].Date != "2026-02-20" || got[2].Date != "2024-12-01" {
		t.Errorf("unexpected order: %s, %s, %s", got[0].Date, got[1].Date, got[2].Date)
	}
}

func TestStore_DeleteByOrgan(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := maintenancestore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx.CreateMaintenance(ctx, "organ-1", "2025-01-10")
	fx.CreateMaintenance(ctx, "organ-1", "2026-02-20")
	other := fx.CreateMaintenance(ctx, "organ-2", "2026-01-01")

	n, err := store.DeleteByOrgan(ctx, "organ-1")
	if err != nil {
		t.Fatalf("DeleteByOrgan failed: %v", err)
	}
	if n != 2 {
		t.Errorf("deleted %d, want 2", n)
	}

	if _, err := store.GetByID(ctx, other.ID); err != nil {
		t.Errorf("other organ's record must survive: %v", err)
	}
}

func TestStore_Delete_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := maintenancestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	n, err := store.Delete(ctx, "missing")
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if n != 0 {
		t.Errorf("deleted %d, want 0", n)
	}

	_, err = store.GetByID(ctx, "missing")
	if !errors.Is(err, maintenancestore.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}
