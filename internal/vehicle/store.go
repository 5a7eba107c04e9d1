package vehicle

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/obddrive/obd-core/internal/infrastructure/database"
)

// Device is a persisted vehicle record.
type Device struct {
	CarID     string    `json:"car_id"`
	Name      string    `json:"name"`
	Model     string    `json:"model"`
	SWVersion string    `json:"sw_version,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Entity is a persisted entity-catalog row: one created sensor or
// tracker for a vehicle, used to rebuild entities after a restart.
type Entity struct {
	ID        string `json:"id"`
	CarID     string `json:"car_id"`
	SignalKey string `json:"signal_key"`
	Kind      string `json:"kind"`
	Name      string `json:"name"`
	Unit      string `json:"unit"`
	PIDCode   string `json:"pid_code"`
}

const (
	EntityKindSensor  = "sensor"
	EntityKindTracker = "tracker"
)

// Store persists devices and their entity catalog in SQLite.
type Store struct {
	db *database.DB
}

// NewStore wraps an open database handle.
func NewStore(db *database.DB) *Store {
	return &Store{db: db}
}

// UpsertDevice inserts or refreshes a device row. Name and model are
// always taken from the caller, which applies the naming rules first.
func (s *Store) UpsertDevice(ctx context.Context, d Device) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO devices (car_id, name, model, sw_version, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(car_id) DO UPDATE SET
			name = excluded.name,
			model = excluded.model,
			sw_version = CASE WHEN excluded.sw_version != '' THEN excluded.sw_version ELSE devices.sw_version END,
			updated_at = excluded.updated_at`,
		d.CarID, d.Name, d.Model, d.SWVersion, now, now,
	)
	if err != nil {
		return fmt.Errorf("upserting device %s: %w", d.CarID, err)
	}
	return nil
}

// GetDevice loads one device row.
func (s *Store) GetDevice(ctx context.Context, carID string) (*Device, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT car_id, name, model, sw_version, created_at, updated_at
		FROM devices WHERE car_id = ?`, carID)
	d, err := scanDevice(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading device %s: %w", carID, err)
	}
	return d, nil
}

// ListDevices returns all persisted devices ordered by id.
func (s *Store) ListDevices(ctx context.Context) ([]Device, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT car_id, name, model, sw_version, created_at, updated_at
		FROM devices ORDER BY car_id`)
	if err != nil {
		return nil, fmt.Errorf("listing devices: %w", err)
	}
	defer rows.Close()

	var out []Device
	for rows.Next() {
		d, err := scanDevice(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning device: %w", err)
		}
		out = append(out, *d)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDevice(r rowScanner) (*Device, error) {
	var d Device
	var created, updated string
	if err := r.Scan(&d.CarID, &d.Name, &d.Model, &d.SWVersion, &created, &updated); err != nil {
		return nil, err
	}
	d.CreatedAt, _ = time.Parse(time.RFC3339, created)
	d.UpdatedAt, _ = time.Parse(time.RFC3339, updated)
	return &d, nil
}

// RecordEntity remembers that an entity was created for a vehicle
// signal. Idempotent on (car_id, signal_key).
func (s *Store) RecordEntity(ctx context.Context, e Entity) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Kind == "" {
		e.Kind = EntityKindSensor
	}
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO entities (id, car_id, signal_key, kind, name, unit, pid_code, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.CarID, e.SignalKey, e.Kind, e.Name, e.Unit, e.PIDCode, now,
	)
	if err != nil {
		return fmt.Errorf("recording entity %s/%s: %w", e.CarID, e.SignalKey, err)
	}
	return nil
}

// ListEntities returns the persisted entity catalog, optionally for a
// single vehicle.
func (s *Store) ListEntities(ctx context.Context, carID string) ([]Entity, error) {
	query := `
		SELECT id, car_id, signal_key, kind, name, unit, pid_code
		FROM entities`
	args := []any{}
	if carID != "" {
		query += ` WHERE car_id = ?`
		args = append(args, carID)
	}
	query += ` ORDER BY car_id, signal_key`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing entities: %w", err)
	}
	defer rows.Close()

	var out []Entity
	for rows.Next() {
		var e Entity
		if err := rows.Scan(&e.ID, &e.CarID, &e.SignalKey, &e.Kind, &e.Name, &e.Unit, &e.PIDCode); err != nil {
			return nil, fmt.Errorf("scanning entity: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// DeleteVehicle removes a device; the foreign key cascade drops its
// entity rows with it.
func (s *Store) DeleteVehicle(ctx context.Context, carID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM devices WHERE car_id = ?`, carID)
	if err != nil {
		return fmt.Errorf("deleting device %s: %w", carID, err)
	}
	return nil
}
