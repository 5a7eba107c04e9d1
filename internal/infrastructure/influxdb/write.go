package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// WriteTelemetry records one decoded signal value for a vehicle.
//
// Points land in the obd_telemetry measurement, tagged by vehicle and
// signal so Flux queries can slice per-vehicle or per-signal. The write
// is non-blocking; data is batched and sent asynchronously.
func (c *Client) WriteTelemetry(carID, key, unit string, value float64, at time.Time) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"obd_telemetry",
		map[string]string{
			"car_id": carID,
			"key":    key,
			"unit":   unit,
		},
		map[string]interface{}{
			"value": value,
		},
		at,
	)

	c.writeAPI.WritePoint(point)
}

// WritePosition records a GPS fix for a vehicle.
func (c *Client) WritePosition(carID string, lat, lon float64, altitude, accuracy *float64, at time.Time) {
	if !c.IsConnected() {
		return
	}

	fields := map[string]interface{}{
		"latitude":  lat,
		"longitude": lon,
	}
	if altitude != nil {
		fields["altitude"] = *altitude
	}
	if accuracy != nil {
		fields["gps_accuracy"] = *accuracy
	}

	point := write.NewPoint(
		"obd_position",
		map[string]string{
			"car_id": carID,
		},
		fields,
		at,
	)

	c.writeAPI.WritePoint(point)
}

// WritePoint writes a custom point for measurements that don't fit the
// helpers above.
func (c *Client) WritePoint(measurement string, tags map[string]string, fields map[string]interface{}) {
	if !c.IsConnected() {
		return
	}

	c.writeAPI.WritePoint(write.NewPoint(measurement, tags, fields, time.Now()))
}
