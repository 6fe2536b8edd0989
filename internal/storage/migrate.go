// ABOUTME: Schema migrations for the SQLite store.
// ABOUTME: golang-migrate tracks the applied version; rerunning on a current database is a no-op.
package storage

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// SchemaVersion is the schema version this build expects.
const SchemaVersion uint = 1

// migrate brings the schema up to SchemaVersion.
func (d *DB) migrate() error {
	m, src, err := d.migrator()
	if err != nil {
		return err
	}
	// m.Close would also close the shared *sql.DB, so only the source is released.
	defer func() { _ = src.Close() }()

	err = m.Up()
	switch {
	case errors.Is(err, migrate.ErrNoChange):
		d.log.Debug("schema up to date", "version", SchemaVersion)
		return nil
	case err != nil:
		return fmt.Errorf("apply migrations: %w", err)
	}
	d.log.Info("schema migrated", "version", SchemaVersion, "path", d.dbPath)
	return nil
}

// Version reports the applied schema version and whether the last migration
// was left dirty.
func (d *DB) Version() (uint, bool, error) {
	m, src, err := d.migrator()
	if err != nil {
		return 0, false, err
	}
	defer func() { _ = src.Close() }()

	v, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("read schema version: %w", err)
	}
	return v, dirty, nil
}

func (d *DB) migrator() (*migrate.Migrate, interface{ Close() error }, error) {
	src, err := iofs.New(migrationFS, "migrations")
	if err != nil {
		return nil, nil, fmt.Errorf("load migrations: %w", err)
	}
	driver, err := sqlite.WithInstance(d.db, &sqlite.Config{})
	if err != nil {
		_ = src.Close()
		return nil, nil, fmt.Errorf("create migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		_ = src.Close()
		return nil, nil, fmt.Errorf("create migrator: %w", err)
	}
	return m, src, nil
}
