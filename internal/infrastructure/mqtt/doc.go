// Package mqtt publishes vehicle state to an MQTT broker.
//
// The service is publish-only: each accepted telemetry frame can result
// in a retained state snapshot on obdcore/vehicle/<car_id>/state, and
// service availability is announced on obdcore/system/status with a Last
// Will and Testament covering unexpected disconnects.
//
// The client auto-reconnects with exponential backoff; publishes while
// disconnected return ErrNotConnected and are simply dropped by callers,
// since the next frame re-publishes the full snapshot anyway.
package mqtt
