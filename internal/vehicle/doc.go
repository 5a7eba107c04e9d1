// Package vehicle is the registry layer above ingestion: it keeps the
// latest session per vehicle, names and persists devices, creates
// entities exactly once per signal, and fans accepted state out to the
// message bus and the time-series store.
//
// The Coordinator is the package's single entry point and implements
// ingest.Sink. Entity creation is callback-based so the API layer (or
// tests) decide what an "entity" materializes as; callbacks registered
// late are replayed over everything already known, including state
// rehydrated from the persisted catalog.
package vehicle
