package settingsstore_test

import (
	"testing"

	settingsstore "github.com/DivyanshJain907/tracku/internal/app/store/settings"
	"github.com/DivyanshJain907/tracku/internal/domain/models"
	"github.com/DivyanshJain907/tracku/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_Get_Defaults(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := settingsstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	settings, err := store.Get(ctx)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	if settings.MaintenanceMode {
		t.Error("maintenance should default to off")
	}
	if !settings.AllowNewRegistrations {
		t.Error("registrations should default to open")
	}
}

func TestStore_Save_NewSettings(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := settingsstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := primitive.NewObjectID()
	err := store.Save(ctx, models.SiteSettings{
		MaintenanceMode:       true,
		AllowNewRegistrations: false,
	}, admin)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	saved, err := store.Get(ctx)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !saved.MaintenanceMode {
		t.Error("expected maintenance on")
	}
	if saved.AllowNewRegistrations {
		t.Error("expected registrations closed")
	}
	if saved.UpdatedAt == nil {
		t.Error("expected UpdatedAt to be set")
	}
	if saved.UpdatedByID == nil || *saved.UpdatedByID != admin {
		t.Errorf("UpdatedByID: got %v, want %v", saved.UpdatedByID, admin)
	}
}

func TestStore_Save_UpdatesExisting(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := settingsstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := primitive.NewObjectID()
	if err := store.Save(ctx, models.SiteSettings{MaintenanceMode: true, AllowNewRegistrations: true}, admin); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := store.Save(ctx, models.SiteSettings{MaintenanceMode: false, AllowNewRegistrations: true}, admin); err != nil {
		t.Fatalf("second Save failed: %v", err)
	}

	saved, err := store.Get(ctx)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if saved.MaintenanceMode {
		t.Error("expected maintenance off after update")
	}

	// Upsert keeps a single document.
	n, err := db.Collection("site_settings").CountDocuments(ctx, bson.M{})
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if n != 1 {
		t.Errorf("documents: got %d, want 1", n)
	}
}
