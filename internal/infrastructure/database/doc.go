// Package database manages the SQLite connection for the vehicle catalog.
//
// The catalog persists discovered vehicles and their signals so entity
// rehydration can replay them after a restart. SQLite is opened in WAL
// mode with a single-writer pool, and schema migrations are embedded
// into the binary (see the migrations package) and applied at startup.
//
// Usage:
//
//	db, err := database.Open(database.Config{Path: "./data/obdcore.db", WALMode: true})
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	if err := db.Migrate(ctx); err != nil {
//	    return err
//	}
package database
