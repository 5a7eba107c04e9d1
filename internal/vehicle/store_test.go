package vehicle

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/obddrive/obd-core/internal/infrastructure/database"
	"github.com/obddrive/obd-core/internal/obd"
	_ "github.com/obddrive/obd-core/migrations"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := database.Open(database.Config{
		Path:        filepath.Join(t.TempDir(), "test.db"),
		WALMode:     true,
		BusyTimeout: 5,
	})
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("migrating test database: %v", err)
	}
	return NewStore(db)
}

func TestStore_UpsertDevice(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	err := s.UpsertDevice(ctx, Device{CarID: "car1", Name: "My Car", Model: "My Car", SWVersion: "1.0"})
	if err != nil {
		t.Fatal(err)
	}

	d, err := s.GetDevice(ctx, "car1")
	if err != nil {
		t.Fatal(err)
	}
	if d == nil || d.Name != "My Car" || d.SWVersion != "1.0" {
		t.Fatalf("device = %+v", d)
	}

	// Update keeps the stored version when the new one is empty.
	if err := s.UpsertDevice(ctx, Device{CarID: "car1", Name: "Renamed", Model: "Renamed"}); err != nil {
		t.Fatal(err)
	}
	d, err = s.GetDevice(ctx, "car1")
	if err != nil {
		t.Fatal(err)
	}
	if d.Name != "Renamed" {
		t.Errorf("name = %q, want Renamed", d.Name)
	}
	if d.SWVersion != "1.0" {
		t.Errorf("sw_version = %q, want preserved 1.0", d.SWVersion)
	}
}

func TestStore_GetDevice_Missing(t *testing.T) {
	s := openTestStore(t)
	d, err := s.GetDevice(context.Background(), "ghost")
	if err != nil {
		t.Fatal(err)
	}
	if d != nil {
		t.Errorf("device = %+v, want nil for unknown id", d)
	}
}

func TestStore_RecordEntity_Idempotent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.UpsertDevice(ctx, Device{CarID: "car1", Name: "My Car", Model: "My Car"}); err != nil {
		t.Fatal(err)
	}

	e := Entity{CarID: "car1", SignalKey: "engine_rpm", Name: "Engine RPM", Unit: "rpm", PIDCode: "0c"}
	if err := s.RecordEntity(ctx, e); err != nil {
		t.Fatal(err)
	}
	if err := s.RecordEntity(ctx, e); err != nil {
		t.Fatal(err)
	}

	entities, err := s.ListEntities(ctx, "car1")
	if err != nil {
		t.Fatal(err)
	}
	if len(entities) != 1 {
		t.Fatalf("entities = %d, want 1 after duplicate record", len(entities))
	}
	got := entities[0]
	if got.Kind != EntityKindSensor || got.Unit != "rpm" || got.PIDCode != "0c" {
		t.Errorf("entity = %+v", got)
	}
	if got.ID == "" {
		t.Error("entity id should be generated")
	}
}

func TestStore_DeleteVehicle_Cascades(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.UpsertDevice(ctx, Device{CarID: "car1", Name: "My Car", Model: "My Car"}); err != nil {
		t.Fatal(err)
	}
	if err := s.RecordEntity(ctx, Entity{CarID: "car1", SignalKey: "engine_rpm", Name: "Engine RPM", Unit: "rpm"}); err != nil {
		t.Fatal(err)
	}
	if err := s.RecordEntity(ctx, Entity{CarID: "car1", SignalKey: "gps", Kind: EntityKindTracker, Name: "My Car"}); err != nil {
		t.Fatal(err)
	}

	if err := s.DeleteVehicle(ctx, "car1"); err != nil {
		t.Fatal(err)
	}

	if d, _ := s.GetDevice(ctx, "car1"); d != nil {
		t.Error("device should be gone")
	}
	entities, err := s.ListEntities(ctx, "car1")
	if err != nil {
		t.Fatal(err)
	}
	if len(entities) != 0 {
		t.Errorf("entities = %d, want cascade delete", len(entities))
	}
}

func TestCoordinator_Rehydrate(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if err := store.UpsertDevice(ctx, Device{CarID: "car1", Name: "My Car", Model: "My Car", SWVersion: "1.0"}); err != nil {
		t.Fatal(err)
	}
	if err := store.RecordEntity(ctx, Entity{CarID: "car1", SignalKey: "engine_rpm", Name: "Engine RPM", Unit: "rpm", PIDCode: "0c"}); err != nil {
		t.Fatal(err)
	}
	if err := store.RecordEntity(ctx, Entity{CarID: "car1", SignalKey: "gps", Kind: EntityKindTracker, Name: "My Car"}); err != nil {
		t.Fatal(err)
	}

	c := NewCoordinator(Options{Store: store})
	if err := c.Rehydrate(ctx); err != nil {
		t.Fatal(err)
	}

	vehicles := c.Vehicles()
	if len(vehicles) != 1 || vehicles[0].Name != "My Car" {
		t.Fatalf("vehicles = %+v", vehicles)
	}

	meta := c.GetMeta("car1")
	if m := meta["engine_rpm"]; m == nil || m.Unit != "rpm" {
		t.Errorf("rehydrated meta = %+v", m)
	}

	// Creators registered after rehydration replay over the catalog.
	var signals []string
	c.RegisterSignalCreator(ctx, func(_, key string, _ *obd.FieldMeta) error {
		signals = append(signals, key)
		return nil
	})
	if len(signals) != 1 || signals[0] != "engine_rpm" {
		t.Errorf("signals = %v, want rehydrated engine_rpm", signals)
	}

	var trackers []string
	c.RegisterTrackerCreator(ctx, func(carID, name string) error {
		trackers = append(trackers, carID+"/"+name)
		return nil
	})
	if len(trackers) != 1 || trackers[0] != "car1/My Car" {
		t.Errorf("trackers = %v, want rehydrated tracker", trackers)
	}
}
