package ingest

import "errors"

// Sentinel errors; check with errors.Is().
var (
	// ErrInactive is returned when the upload endpoint is
	// administratively disabled. The HTTP layer maps it to 404.
	ErrInactive = errors.New("ingest: endpoint inactive")
)
