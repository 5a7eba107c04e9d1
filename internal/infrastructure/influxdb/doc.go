// Package influxdb records telemetry history in InfluxDB v2.
//
// Decoded signal values go to the obd_telemetry measurement (tagged by
// car_id, key, unit) and GPS fixes to obd_position. Writes are batched
// and asynchronous; a dropped point costs one sample of history, so
// failures are logged rather than retried inline.
package influxdb
