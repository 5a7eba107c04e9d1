package vehicle

import (
	"context"
	"fmt"

	"github.com/obddrive/obd-core/internal/ingest"
	"github.com/obddrive/obd-core/internal/obd"
	"github.com/obddrive/obd-core/internal/obd/catalog"
)

// Rehydrate rebuilds the registry from the persisted catalog after a
// restart. Devices come back with their remembered names and signal
// metadata but without values; entity creators registered afterwards
// replay over the rehydrated state, so entities reappear before the
// first frame arrives.
func (c *Coordinator) Rehydrate(ctx context.Context) error {
	if c.store == nil {
		return nil
	}

	devices, err := c.store.ListDevices(ctx)
	if err != nil {
		return fmt.Errorf("rehydrating devices: %w", err)
	}
	entities, err := c.store.ListEntities(ctx, "")
	if err != nil {
		return fmt.Errorf("rehydrating entities: %w", err)
	}

	byCar := make(map[string][]Entity)
	for _, e := range entities {
		byCar[e.CarID] = append(byCar[e.CarID], e)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, d := range devices {
		if _, ok := c.cars[d.CarID]; ok {
			continue
		}

		meta := make(map[string]*obd.FieldMeta)
		hadTracker := false
		for _, e := range byCar[d.CarID] {
			if e.Kind == EntityKindTracker {
				hadTracker = true
				continue
			}
			meta[e.SignalKey] = rehydratedMeta(e)
		}

		c.cars[d.CarID] = &ingest.Session{
			ID:       "rehydrated:" + d.CarID,
			LastSeen: d.UpdatedAt,
			Profile: ingest.Profile{
				Name:    d.Name,
				ID:      d.CarID,
				Version: d.SWVersion,
			},
			Values: map[string]any{},
			Meta:   meta,
		}
		c.names[d.CarID] = d.Name
		if hadTracker {
			c.pending[d.CarID] = true
		}
	}

	c.logger.Info("registry rehydrated",
		"vehicles", len(devices), "entities", len(entities))
	return nil
}

// rehydratedMeta rebuilds field metadata from a catalog row, filling
// gaps from the static code catalog.
func rehydratedMeta(e Entity) *obd.FieldMeta {
	m := &obd.FieldMeta{
		Name: e.Name,
		Unit: e.Unit,
		Code: e.PIDCode,
	}
	if m.Name == "" {
		m.Name = catalog.DefaultFullName(e.SignalKey)
	}
	if m.Unit == "" {
		m.Unit = catalog.DefaultUnit(e.SignalKey)
	}
	m.FullEN = catalog.DefaultFullName(e.SignalKey)
	if m.FullEN == "" {
		m.FullEN = m.Name
	}
	return m
}
