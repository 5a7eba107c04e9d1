package vehicle

import (
	"encoding/json"
	"time"

	"github.com/obddrive/obd-core/internal/infrastructure/mqtt"
	"github.com/obddrive/obd-core/internal/ingest"
	"github.com/obddrive/obd-core/internal/obd"
	"github.com/obddrive/obd-core/internal/obd/catalog"
)

// StatePublisher pushes the latest vehicle snapshot to the message bus.
type StatePublisher interface {
	PublishRetained(topic string, payload []byte) error
}

// EventPublisher pushes entity discovery events to the message bus.
type EventPublisher interface {
	PublishEvent(topic string, payload []byte) error
}

// TelemetryWriter records time-series points for accepted sessions.
type TelemetryWriter interface {
	WriteTelemetry(carID, key, unit string, value float64, at time.Time)
	WritePosition(carID string, lat, lon float64, altitude, accuracy *float64, at time.Time)
}

// statePayload is the retained MQTT snapshot for one vehicle.
type statePayload struct {
	CarID     string         `json:"car_id"`
	Name      string         `json:"name"`
	Version   string         `json:"version,omitempty"`
	Values    map[string]any `json:"values"`
	Timestamp string         `json:"timestamp"`
}

// publishState pushes the retained state snapshot. Failures are logged
// and dropped: the next accepted frame re-publishes the full snapshot.
func (c *Coordinator) publishState(carID, name string, s *ingest.Session) {
	if c.publisher == nil {
		return
	}
	payload, err := json.Marshal(statePayload{
		CarID:     carID,
		Name:      name,
		Version:   s.Profile.Version,
		Values:    s.Values,
		Timestamp: s.LastSeen.Format(time.RFC3339),
	})
	if err != nil {
		c.logger.Error("marshaling vehicle state", "car_id", carID, "error", err)
		return
	}
	topic := mqtt.Topics{}.VehicleState(carID)
	if err := c.publisher.PublishRetained(topic, payload); err != nil {
		c.logger.Warn("publishing vehicle state", "car_id", carID, "error", err)
	}
}

// NewSignalAnnouncer returns a SignalCreator that announces each newly
// materialized signal entity on the vehicle event topic. With a nil
// publisher it is log-only, so the entity catalog still fills when the
// message bus is disabled.
func NewSignalAnnouncer(pub EventPublisher, log Logger) SignalCreator {
	if log == nil {
		log = noopLogger{}
	}
	return func(carID, signalKey string, meta *obd.FieldMeta) error {
		log.Info("signal entity created",
			"car_id", carID, "signal", signalKey, "name", meta.Name)
		if pub == nil {
			return nil
		}
		payload, err := json.Marshal(map[string]any{
			"event":  "signal_added",
			"car_id": carID,
			"signal": signalKey,
			"name":   meta.Name,
			"unit":   meta.Unit,
			"code":   meta.Code,
		})
		if err != nil {
			return err
		}
		return pub.PublishEvent(mqtt.Topics{}.VehicleEvent(carID), payload)
	}
}

// NewTrackerAnnouncer returns a TrackerCreator that announces the
// position tracker for a vehicle on its event topic. Log-only with a
// nil publisher.
func NewTrackerAnnouncer(pub EventPublisher, log Logger) TrackerCreator {
	if log == nil {
		log = noopLogger{}
	}
	return func(carID, name string) error {
		log.Info("tracker entity created", "car_id", carID, "name", name)
		if pub == nil {
			return nil
		}
		payload, err := json.Marshal(map[string]any{
			"event":  "tracker_added",
			"car_id": carID,
			"name":   name,
		})
		if err != nil {
			return err
		}
		return pub.PublishEvent(mqtt.Topics{}.VehicleEvent(carID), payload)
	}
}

// writeTelemetry records the numeric signals and the GPS fix of an
// accepted session.
func (c *Coordinator) writeTelemetry(carID string, s *ingest.Session) {
	if c.writer == nil {
		return
	}
	at := s.LastSeen

	for key, v := range s.Values {
		f, ok := v.(float64)
		if !ok {
			continue
		}
		if key == catalog.KeyGPSLat || key == catalog.KeyGPSLon {
			continue
		}
		unit := ""
		if m := s.Meta[key]; m != nil {
			unit = m.Unit
		}
		c.writer.WriteTelemetry(carID, key, unit, f, at)
	}

	lat, latOK := s.Values[catalog.KeyGPSLat].(float64)
	lon, lonOK := s.Values[catalog.KeyGPSLon].(float64)
	if latOK && lonOK {
		var altitude, accuracy *float64
		if a, ok := s.Values[catalog.KeyGPSAltitude].(float64); ok {
			altitude = &a
		}
		if a, ok := s.Values[catalog.KeyGPSAccuracy].(float64); ok {
			accuracy = &a
		}
		c.writer.WritePosition(carID, lat, lon, altitude, accuracy, at)
	}
}
