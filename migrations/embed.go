// Package migrations embeds SQL migration files into the binary so the
// service can migrate its catalog database without shipping loose files.
package migrations

import (
	"embed"

	"github.com/obddrive/obd-core/internal/infrastructure/database"
)

//go:embed *.sql
var migrationsFS embed.FS

func init() {
	database.MigrationsFS = migrationsFS
	database.MigrationsDir = "." // Files are at root of embedded FS
}
