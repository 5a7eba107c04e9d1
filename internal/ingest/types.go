package ingest

import (
	"context"
	"time"

	"github.com/obddrive/obd-core/internal/obd"
)

// Merge modes for route configuration.
const (
	MergeModeNone = "none"
	MergeModeName = "name"
	MergeModeVIN  = "vin"
)

// Profile is the resolved identity of an uploaded frame.
type Profile struct {
	Name    string `json:"name"`
	ID      string `json:"id"`
	Email   string `json:"email"`
	Version string `json:"version,omitempty"`
}

// Session is one decoded, normalized telemetry frame.
//
// Sessions are created fresh per request, stored in the session cache
// keyed by ID, and handed to the registry by reference. They are not
// mutated after storage.
type Session struct {
	ID       string    `json:"id"`
	LastSeen time.Time `json:"last_seen"`
	Profile  Profile   `json:"profile"`

	// Values maps short field names to a float64, a raw string, or nil
	// (nil replaces non-finite numbers).
	Values map[string]any `json:"values"`

	// Meta carries per-field metadata; Meta[short].Unit always matches
	// the unit of Values[short].
	Meta map[string]*obd.FieldMeta `json:"meta"`

	// Unknown holds unrecognized field codes for diagnostics, capped at
	// maxUnknownCodes entries.
	Unknown map[string]string `json:"unknown"`

	Lang           string `json:"lang"`
	UnitPreference string `json:"unit_preference"`
}

// Sink receives accepted sessions. The vehicle registry implements it.
type Sink interface {
	UpdateFromSession(ctx context.Context, s *Session) error
}

// Result classifies the outcome of processing one frame.
type Result int

const (
	// ResultAccepted means the frame was decoded, cached, and published.
	ResultAccepted Result = iota

	// ResultIgnored means the frame was well-formed but filtered: no
	// route matched, or the identity policy rejected it.
	ResultIgnored
)
