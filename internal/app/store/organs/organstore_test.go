package organstore_test

import (
	"errors"
	"testing"
	"time"

	organstore "github.com/psalmeida/organregistry/internal/app/store/organs"
	"github.com/psalmeida/organregistry/internal/domain/models"
	"github.com/psalmeida/organregistry/internal/testutil"
)

func TestStore_SaveAndGet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := organstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	o := models.Organ{
		ID:              "organ-1",
		Model:           "Walcker Op. 120",
		SerialNumber:    "SN-42",
		PatrimonyNumber: "P-42",
		LocationID:      "loc-1",
	}

	saved, err := store.Save(ctx, o)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if saved.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}
	if saved.UpdatedAt == nil || saved.UpdatedAt.IsZero() {
		t.Error("expected UpdatedAt to be set")
	}

	got, err := store.GetByID(ctx, "organ-1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Model != "Walcker Op. 120" {
		t.Errorf("Model: got %q", got.Model)
	}
}

func TestStore_Save_ReplacePreservesCreatedAt(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := organstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	first, err := store.Save(ctx, models.Organ{
		ID: "organ-1", Model: "A", SerialNumber: "S", PatrimonyNumber: "P", LocationID: "loc-1",
	})
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	time.Sleep(5 * time.Millisecond)

	second, err := store.Save(ctx, models.Organ{
		ID: "organ-1", Model: "B", SerialNumber: "S", PatrimonyNumber: "P", LocationID: "loc-1",
	})
	if err != nil {
		t.Fatalf("Save (replace) failed: %v", err)
	}

	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Errorf("CreatedAt changed on replace: %v vs %v", second.CreatedAt, first.CreatedAt)
	}

	got, err := store.GetByID(ctx, "organ-1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Model != "B" {
		t.Errorf("Model after replace: got %q, want %q", got.Model, "B")
	}
}

func TestStore_GetByID_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := organstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.GetByID(ctx, "missing")
	if !errors.Is(err, organstore.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestStore_ByLocation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := organstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx.CreateOrgan(ctx, "loc-1")
	fx.CreateOrgan(ctx, "loc-1")
	fx.CreateOrgan(ctx, "loc-2")

	got, err := store.ByLocation(ctx, "loc-1")
	if err != nil {
		t.Fatalf("ByLocation failed: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("got %d organs, want 2", len(got))
	}
}

func TestStore_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := organstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	o := fx.CreateOrgan(ctx, "loc-1")

	n, err := store.Delete(ctx, o.ID)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if n != 1 {
		t.Errorf("deleted %d, want 1", n)
	}

	if _, err := store.GetByID(ctx, o.ID); !errors.Is(err, organstore.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}
