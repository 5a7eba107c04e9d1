package vehicle

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/obddrive/obd-core/internal/ingest"
	"github.com/obddrive/obd-core/internal/obd"
	"github.com/obddrive/obd-core/internal/obd/catalog"
	"github.com/obddrive/obd-core/internal/slug"
)

// Logger defines the logging interface used by the Coordinator.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// SignalCreator is invoked once per vehicle signal when it first
// becomes known, so downstream layers can materialize an entity.
type SignalCreator func(carID, signalKey string, meta *obd.FieldMeta) error

// TrackerCreator is invoked once per vehicle when a full GPS fix first
// appears.
type TrackerCreator func(carID, name string) error

// Info is the read-model summary of a known vehicle.
type Info struct {
	CarID    string    `json:"car_id"`
	Name     string    `json:"name"`
	Version  string    `json:"version,omitempty"`
	LastSeen time.Time `json:"last_seen"`
	Signals  int       `json:"signals"`
}

// Coordinator is the vehicle registry: it receives accepted sessions,
// maintains the latest state per vehicle, creates entities exactly once
// per signal, and fans state out to the message bus and the time-series
// store.
//
// It implements ingest.Sink. All exported methods are safe for
// concurrent use.
type Coordinator struct {
	mu sync.RWMutex

	cars    map[string]*ingest.Session
	names   map[string]string
	tracked map[string]bool
	pending map[string]bool

	signalCreator  SignalCreator
	trackerCreator TrackerCreator

	store     *Store
	publisher StatePublisher
	writer    TelemetryWriter

	logger Logger
}

// Options configures a Coordinator. All fields are optional.
type Options struct {
	Store     *Store
	Publisher StatePublisher
	Writer    TelemetryWriter
	Logger    Logger
}

// NewCoordinator creates an empty vehicle registry.
func NewCoordinator(opts Options) *Coordinator {
	logger := opts.Logger
	if logger == nil {
		logger = noopLogger{}
	}
	return &Coordinator{
		cars:      make(map[string]*ingest.Session),
		names:     make(map[string]string),
		tracked:   make(map[string]bool),
		pending:   make(map[string]bool),
		store:     opts.Store,
		publisher: opts.Publisher,
		writer:    opts.Writer,
		logger:    logger,
	}
}

// SetLogger replaces the coordinator's logger.
func (c *Coordinator) SetLogger(l Logger) {
	if l == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.logger = l
}

// RegisterSignalCreator installs the entity-creation callback and
// replays it for every signal already known, so creators registered
// after the first frames still materialize everything.
func (c *Coordinator) RegisterSignalCreator(ctx context.Context, creator SignalCreator) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.signalCreator = creator
	for carID, session := range c.cars {
		c.createSignalsLocked(ctx, carID, session)
	}
}

// RegisterTrackerCreator installs the tracker-creation callback and
// replays it for every vehicle that already has a GPS fix or a
// rehydrated tracker entity.
func (c *Coordinator) RegisterTrackerCreator(ctx context.Context, creator TrackerCreator) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.trackerCreator = creator
	c.retryPendingLocked(ctx)
	for carID, session := range c.cars {
		if hasGPSFix(session.Values) {
			c.createTrackerLocked(ctx, carID, session)
		}
	}
}

// UpdateFromSession applies one accepted session to the registry. It
// never returns an error for downstream fan-out failures; those are
// logged and retried implicitly by the next frame.
func (c *Coordinator) UpdateFromSession(ctx context.Context, s *ingest.Session) error {
	if s == nil {
		return fmt.Errorf("vehicle: nil session")
	}

	name := s.Profile.Name
	if name == "" {
		name = "Vehicle"
	}
	carID := s.Profile.ID
	if carID == "" {
		carID = slug.Make(name)
	}

	c.mu.Lock()
	c.cars[carID] = s
	effectiveName := c.ensureDeviceLocked(ctx, carID, s.Profile)

	if hasGPSFix(s.Values) {
		c.createTrackerLocked(ctx, carID, s)
	}
	c.createSignalsLocked(ctx, carID, s)
	c.retryPendingLocked(ctx)
	c.mu.Unlock()

	c.publishState(carID, effectiveName, s)
	c.writeTelemetry(carID, s)
	return nil
}

// ensureDeviceLocked resolves the display name for a vehicle and
// persists the device record. A poor uploaded name never overwrites a
// good remembered one. Caller holds c.mu.
func (c *Coordinator) ensureDeviceLocked(ctx context.Context, carID string, profile ingest.Profile) string {
	effective := profile.Name
	if isPoorDeviceName(effective, carID) {
		if remembered := c.names[carID]; remembered != "" {
			effective = remembered
		} else {
			effective = "Vehicle " + firstN(carID, 6)
		}
	}
	c.names[carID] = effective

	if c.store != nil {
		err := c.store.UpsertDevice(ctx, Device{
			CarID:     carID,
			Name:      effective,
			Model:     effective,
			SWVersion: profile.Version,
		})
		if err != nil {
			c.logger.Error("persisting device", "car_id", carID, "error", err)
		}
	}
	return effective
}

// isPoorDeviceName mirrors the naming rules applied at ingest, plus
// the degenerate case of a name equal to the vehicle id.
func isPoorDeviceName(name, carID string) bool {
	s := strings.TrimSpace(name)
	if s == "" || s == carID {
		return true
	}
	low := strings.ToLower(s)
	return low == "vehicle" || low == "véhicule"
}

// createTrackerLocked creates the GPS tracker for a vehicle exactly
// once. Failures park the vehicle in the pending set for a later
// retry. Caller holds c.mu.
func (c *Coordinator) createTrackerLocked(ctx context.Context, carID string, s *ingest.Session) {
	key := carID + ":" + catalog.EntityGPS
	if c.tracked[key] {
		return
	}
	if c.trackerCreator == nil {
		c.pending[carID] = true
		return
	}
	name := c.names[carID]
	if name == "" {
		name = s.Profile.Name
	}
	if err := c.trackerCreator(carID, name); err != nil {
		c.logger.Error("creating tracker", "car_id", carID, "error", err)
		c.pending[carID] = true
		return
	}
	c.tracked[key] = true
	delete(c.pending, carID)
	c.recordEntityLocked(ctx, Entity{
		CarID:     carID,
		SignalKey: catalog.EntityGPS,
		Kind:      EntityKindTracker,
		Name:      name,
	})
}

// createSignalsLocked creates entities for every creatable signal of a
// session that has not been created yet. Caller holds c.mu.
func (c *Coordinator) createSignalsLocked(ctx context.Context, carID string, s *ingest.Session) {
	if c.signalCreator == nil {
		return
	}
	for key, meta := range s.Meta {
		if !isCreatableSignal(key, meta) {
			continue
		}
		tracked := carID + ":" + key
		if c.tracked[tracked] {
			continue
		}
		if err := c.signalCreator(carID, key, meta); err != nil {
			c.logger.Error("creating signal entity",
				"car_id", carID, "signal", key, "error", err)
			continue
		}
		c.tracked[tracked] = true
		c.recordEntityLocked(ctx, Entity{
			CarID:     carID,
			SignalKey: key,
			Kind:      EntityKindSensor,
			Name:      meta.Name,
			Unit:      meta.Unit,
			PIDCode:   meta.Code,
		})
	}
}

// retryPendingLocked retries tracker creation for vehicles whose first
// attempt failed or predated the creator. Caller holds c.mu.
func (c *Coordinator) retryPendingLocked(ctx context.Context) {
	if c.trackerCreator == nil || len(c.pending) == 0 {
		return
	}
	for carID := range c.pending {
		session, ok := c.cars[carID]
		if !ok {
			delete(c.pending, carID)
			continue
		}
		c.createTrackerLocked(ctx, carID, session)
	}
}

func (c *Coordinator) recordEntityLocked(ctx context.Context, e Entity) {
	if c.store == nil {
		return
	}
	if err := c.store.RecordEntity(ctx, e); err != nil {
		c.logger.Error("recording entity",
			"car_id", e.CarID, "signal", e.SignalKey, "error", err)
	}
}

// GetValue returns the latest value of one signal, nil when the
// vehicle or signal is unknown or the value is not finite.
func (c *Coordinator) GetValue(carID, key string) any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.cars[carID]
	if !ok {
		return nil
	}
	v, ok := s.Values[key]
	if !ok || isNonFinite(v) {
		return nil
	}
	return v
}

// GetMeta returns the signal metadata of a vehicle, empty when unknown.
func (c *Coordinator) GetMeta(carID string) map[string]*obd.FieldMeta {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.cars[carID]
	if !ok {
		return map[string]*obd.FieldMeta{}
	}
	return s.Meta
}

// GetSession returns the latest session of a vehicle.
func (c *Coordinator) GetSession(carID string) (*ingest.Session, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.cars[carID]
	return s, ok
}

// Vehicles lists the known vehicles ordered by id.
func (c *Coordinator) Vehicles() []Info {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Info, 0, len(c.cars))
	for carID, s := range c.cars {
		out = append(out, Info{
			CarID:    carID,
			Name:     c.names[carID],
			Version:  s.Profile.Version,
			LastSeen: s.LastSeen,
			Signals:  len(s.Meta),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CarID < out[j].CarID })
	return out
}

// ForgetVehicle removes a vehicle from the registry and the persisted
// catalog. Its entities can be recreated by the next frame it sends.
func (c *Coordinator) ForgetVehicle(ctx context.Context, carID string) error {
	c.mu.Lock()
	delete(c.cars, carID)
	delete(c.names, carID)
	delete(c.pending, carID)
	prefix := carID + ":"
	for key := range c.tracked {
		if strings.HasPrefix(key, prefix) {
			delete(c.tracked, key)
		}
	}
	store := c.store
	c.mu.Unlock()

	if store != nil {
		if err := store.DeleteVehicle(ctx, carID); err != nil {
			return err
		}
	}
	return nil
}

// hasGPSFix reports whether a value map carries both coordinates.
func hasGPSFix(values map[string]any) bool {
	_, lat := values[catalog.KeyGPSLat].(float64)
	_, lon := values[catalog.KeyGPSLon].(float64)
	return lat && lon
}

var nonFiniteStrings = map[string]bool{
	"inf": true, "+inf": true, "-inf": true, "infinity": true, "nan": true,
}

func isNonFinite(v any) bool {
	switch t := v.(type) {
	case float64:
		return math.IsNaN(t) || math.IsInf(t, 0)
	case string:
		return nonFiniteStrings[strings.ToLower(strings.TrimSpace(t))]
	}
	return false
}

func firstN(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
