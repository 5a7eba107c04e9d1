package vehicle

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/obddrive/obd-core/internal/ingest"
	"github.com/obddrive/obd-core/internal/obd"
)

type createdSignal struct {
	carID string
	key   string
}

func testSession(carID, name string) *ingest.Session {
	return &ingest.Session{
		ID:       "s-" + carID,
		LastSeen: time.Now().UTC(),
		Profile:  ingest.Profile{Name: name, ID: carID},
		Values: map[string]any{
			"engine_rpm":   2500.0,
			"coolant_temp": 90.0,
		},
		Meta: map[string]*obd.FieldMeta{
			"engine_rpm":   {Name: "Engine RPM", Unit: "rpm", FullEN: "Engine RPM", Code: "0c"},
			"coolant_temp": {Name: "Engine Coolant Temperature", Unit: "°C", FullEN: "Engine Coolant Temperature", Code: "05"},
		},
	}
}

func withGPS(s *ingest.Session) *ingest.Session {
	s.Values["gpslat"] = 48.85
	s.Values["gpslon"] = 2.35
	s.Meta["gpslat"] = &obd.FieldMeta{Name: "GPS Latitude", Unit: "°", FullEN: "GPS Latitude", Code: "ff1006"}
	s.Meta["gpslon"] = &obd.FieldMeta{Name: "GPS Longitude", Unit: "°", FullEN: "GPS Longitude", Code: "ff1005"}
	return s
}

func TestUpdateFromSession_CreatesSignalsOnce(t *testing.T) {
	c := NewCoordinator(Options{})
	var created []createdSignal
	c.RegisterSignalCreator(context.Background(), func(carID, key string, _ *obd.FieldMeta) error {
		created = append(created, createdSignal{carID, key})
		return nil
	})

	if err := c.UpdateFromSession(context.Background(), testSession("car1", "My Car")); err != nil {
		t.Fatal(err)
	}
	if len(created) != 2 {
		t.Fatalf("created %d signals, want 2", len(created))
	}

	// Second frame for the same vehicle creates nothing new.
	if err := c.UpdateFromSession(context.Background(), testSession("car1", "My Car")); err != nil {
		t.Fatal(err)
	}
	if len(created) != 2 {
		t.Errorf("created %d signals after second frame, want still 2", len(created))
	}
}

func TestRegisterSignalCreator_Backfills(t *testing.T) {
	c := NewCoordinator(Options{})

	if err := c.UpdateFromSession(context.Background(), testSession("car1", "My Car")); err != nil {
		t.Fatal(err)
	}

	var created []createdSignal
	c.RegisterSignalCreator(context.Background(), func(carID, key string, _ *obd.FieldMeta) error {
		created = append(created, createdSignal{carID, key})
		return nil
	})
	if len(created) != 2 {
		t.Errorf("backfill created %d signals, want 2", len(created))
	}
}

func TestUpdateFromSession_TrackerOnGPSFix(t *testing.T) {
	c := NewCoordinator(Options{})
	var trackers []string
	c.RegisterTrackerCreator(context.Background(), func(carID, _ string) error {
		trackers = append(trackers, carID)
		return nil
	})

	// No GPS, no tracker.
	if err := c.UpdateFromSession(context.Background(), testSession("car1", "My Car")); err != nil {
		t.Fatal(err)
	}
	if len(trackers) != 0 {
		t.Fatal("tracker created without a GPS fix")
	}

	if err := c.UpdateFromSession(context.Background(), withGPS(testSession("car1", "My Car"))); err != nil {
		t.Fatal(err)
	}
	if len(trackers) != 1 || trackers[0] != "car1" {
		t.Fatalf("trackers = %v, want [car1]", trackers)
	}

	// GPS again, tracker already exists.
	if err := c.UpdateFromSession(context.Background(), withGPS(testSession("car1", "My Car"))); err != nil {
		t.Fatal(err)
	}
	if len(trackers) != 1 {
		t.Errorf("trackers = %v, want one per vehicle", trackers)
	}
}

func TestPendingTracker_RetriedOnRegistration(t *testing.T) {
	c := NewCoordinator(Options{})

	// GPS fix arrives before the platform registers its creator.
	if err := c.UpdateFromSession(context.Background(), withGPS(testSession("car1", "My Car"))); err != nil {
		t.Fatal(err)
	}

	var trackers []string
	c.RegisterTrackerCreator(context.Background(), func(carID, _ string) error {
		trackers = append(trackers, carID)
		return nil
	})
	if len(trackers) != 1 {
		t.Errorf("trackers = %v, want creator replayed on registration", trackers)
	}
}

func TestPendingTracker_RetriedAfterFailure(t *testing.T) {
	c := NewCoordinator(Options{})
	fail := true
	var trackers []string
	c.RegisterTrackerCreator(context.Background(), func(carID, _ string) error {
		if fail {
			return errors.New("not ready")
		}
		trackers = append(trackers, carID)
		return nil
	})

	if err := c.UpdateFromSession(context.Background(), withGPS(testSession("car1", "My Car"))); err != nil {
		t.Fatal(err)
	}
	if len(trackers) != 0 {
		t.Fatal("tracker should not be recorded while the creator fails")
	}

	fail = false
	if err := c.UpdateFromSession(context.Background(), withGPS(testSession("car1", "My Car"))); err != nil {
		t.Fatal(err)
	}
	if len(trackers) != 1 {
		t.Errorf("trackers = %v, want retry on next frame", trackers)
	}
}

func TestDeviceNaming(t *testing.T) {
	c := NewCoordinator(Options{})

	// First frame carries a good name.
	s := testSession("car1", "My Car")
	if err := c.UpdateFromSession(context.Background(), s); err != nil {
		t.Fatal(err)
	}
	if got := c.Vehicles()[0].Name; got != "My Car" {
		t.Errorf("name = %q, want My Car", got)
	}

	// A later poor name does not overwrite it.
	if err := c.UpdateFromSession(context.Background(), testSession("car1", "Vehicle")); err != nil {
		t.Fatal(err)
	}
	if got := c.Vehicles()[0].Name; got != "My Car" {
		t.Errorf("name = %q, poor name should not overwrite", got)
	}
}

func TestDeviceNaming_Placeholder(t *testing.T) {
	c := NewCoordinator(Options{})
	s := testSession("abcdef123456", "")
	if err := c.UpdateFromSession(context.Background(), s); err != nil {
		t.Fatal(err)
	}
	if got := c.Vehicles()[0].Name; got != "Vehicle abcdef" {
		t.Errorf("name = %q, want placeholder from id prefix", got)
	}
}

func TestGetValue(t *testing.T) {
	c := NewCoordinator(Options{})
	s := testSession("car1", "My Car")
	s.Values["bad"] = math.Inf(1)
	s.Values["text_inf"] = "Infinity"
	if err := c.UpdateFromSession(context.Background(), s); err != nil {
		t.Fatal(err)
	}

	if got := c.GetValue("car1", "engine_rpm"); got != 2500.0 {
		t.Errorf("engine_rpm = %v, want 2500", got)
	}
	if got := c.GetValue("car1", "bad"); got != nil {
		t.Errorf("non-finite value = %v, want nil", got)
	}
	if got := c.GetValue("car1", "text_inf"); got != nil {
		t.Errorf("non-finite string = %v, want nil", got)
	}
	if got := c.GetValue("car1", "missing"); got != nil {
		t.Errorf("missing key = %v, want nil", got)
	}
	if got := c.GetValue("ghost", "engine_rpm"); got != nil {
		t.Errorf("unknown vehicle = %v, want nil", got)
	}
}

func TestUpdateFromSession_DoesNotMutateSession(t *testing.T) {
	c := NewCoordinator(Options{})
	s := testSession("car1", "My Car")
	s.Values["bad"] = math.Inf(1)
	s.Values["text_nan"] = "NaN"
	if err := c.UpdateFromSession(context.Background(), s); err != nil {
		t.Fatal(err)
	}

	if v := s.Values["bad"]; !math.IsInf(v.(float64), 1) {
		t.Errorf("bad = %v, want +Inf untouched", v)
	}
	if v := s.Values["text_nan"]; v != "NaN" {
		t.Errorf("text_nan = %v, want raw string untouched", v)
	}
	if got := c.GetValue("car1", "text_nan"); got != nil {
		t.Errorf("GetValue(text_nan) = %v, want nil", got)
	}
}

func TestForgetVehicle(t *testing.T) {
	c := NewCoordinator(Options{})
	var created []createdSignal
	c.RegisterSignalCreator(context.Background(), func(carID, key string, _ *obd.FieldMeta) error {
		created = append(created, createdSignal{carID, key})
		return nil
	})

	if err := c.UpdateFromSession(context.Background(), testSession("car1", "My Car")); err != nil {
		t.Fatal(err)
	}
	if err := c.ForgetVehicle(context.Background(), "car1"); err != nil {
		t.Fatal(err)
	}

	if len(c.Vehicles()) != 0 {
		t.Error("vehicle should be gone after forget")
	}
	if got := c.GetValue("car1", "engine_rpm"); got != nil {
		t.Errorf("value after forget = %v, want nil", got)
	}

	// The next frame recreates its entities from scratch.
	created = created[:0]
	if err := c.UpdateFromSession(context.Background(), testSession("car1", "My Car")); err != nil {
		t.Fatal(err)
	}
	if len(created) != 2 {
		t.Errorf("created %d signals after forget, want 2", len(created))
	}
}

func TestUpdateFromSession_CarIDFallback(t *testing.T) {
	c := NewCoordinator(Options{})
	s := testSession("", "My Red Car")
	if err := c.UpdateFromSession(context.Background(), s); err != nil {
		t.Fatal(err)
	}

	vehicles := c.Vehicles()
	if len(vehicles) != 1 || vehicles[0].CarID != "my_red_car" {
		t.Errorf("vehicles = %+v, want slug of the name as id", vehicles)
	}
}

func TestUpdateFromSession_NilSession(t *testing.T) {
	c := NewCoordinator(Options{})
	if err := c.UpdateFromSession(context.Background(), nil); err == nil {
		t.Error("nil session should error")
	}
}
