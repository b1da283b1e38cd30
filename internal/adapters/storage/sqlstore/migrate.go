package sqlstore

import (
	"database/sql"
	"embed"
	"fmt"
	"sort"
	"strings"

	"med-reminder/internal/platform/logger"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrate aplica en orden los migrations/*.up.sql pendientes, registrando
// cada versión en schema_migrations. El SQL es común a postgres y sqlite.
func Migrate(db *sql.DB, d Dialect, log logger.Logger) error {
	if log == nil {
		log = logger.Nop()
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return fmt.Errorf("creating migrations table: %w", err)
	}

	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upMigrations []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upMigrations = append(upMigrations, entry.Name())
		}
	}
	sort.Strings(upMigrations)

	for _, filename := range upMigrations {
		version := extractVersion(filename)

		var exists int
		if err := db.QueryRow(rebind(d, "SELECT COUNT(*) FROM schema_migrations WHERE version = ?"), version).Scan(&exists); err != nil {
			return fmt.Errorf("checking migration %d: %w", version, err)
		}
		if exists > 0 {
			continue
		}

		content, err := migrationsFS.ReadFile("migrations/" + filename)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", filename, err)
		}

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("beginning transaction for migration %d: %w", version, err)
		}

		if _, err := tx.Exec(string(content)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("executing migration %s: %w", filename, err)
		}

		if _, err := tx.Exec(rebind(d, "INSERT INTO schema_migrations (version) VALUES (?)"), version); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("recording migration %d: %w", version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing migration %d: %w", version, err)
		}

		log.Info("applied migration", map[string]any{"version": version, "file": filename})
	}

	return nil
}

func extractVersion(filename string) int {
	var version int
	_, _ = fmt.Sscanf(filename, "%d_", &version)
	return version
}
