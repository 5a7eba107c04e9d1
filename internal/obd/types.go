// Package obd defines the shared telemetry field types used by the
// decoder, the unit pipeline, and the vehicle registry.
package obd

// FieldMeta describes one decoded telemetry field.
//
// Unit tracks the unit of the current value: unit conversion rewrites
// both the value and Unit together so they never disagree.
type FieldMeta struct {
	// Name is the localized display label.
	Name string `json:"name"`

	// Unit is the unit of the field's current value.
	Unit string `json:"unit"`

	// FullEN is the canonical English label, used as the localization key.
	FullEN string `json:"full_en"`

	// Code is the catalog code the field was decoded from. Empty for
	// synthesized compat fields.
	Code string `json:"code"`

	// RawSeconds preserves the original value of a trip-duration field
	// after the seconds-to-minutes normalization, for diagnostics.
	RawSeconds *float64 `json:"raw_seconds,omitempty"`
}

// Clone returns a copy of the metadata safe to mutate independently.
func (m *FieldMeta) Clone() *FieldMeta {
	if m == nil {
		return nil
	}
	out := *m
	if m.RawSeconds != nil {
		v := *m.RawSeconds
		out.RawSeconds = &v
	}
	return &out
}
