package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed *.sql
var files embed.FS

// Status reports the schema version before and after Up ran.
type Status struct {
	PreMigrationVersion  uint
	PostMigrationVersion uint
}

// Up applies every pending migration to db. The caller keeps ownership of db;
// the migrate instance is not closed because that would close db as well.
func Up(db *sql.DB) (Status, error) {
	source, err := iofs.New(files, ".")
	if err != nil {
		return Status{}, fmt.Errorf("iofs.New: %w", err)
	}

	driver, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
	if err != nil {
		return Status{}, fmt.Errorf("sqlite.WithInstance: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "sqlite", driver)
	if err != nil {
		return Status{}, fmt.Errorf("migrate.NewWithInstance: %w", err)
	}

	var status Status
	status.PreMigrationVersion, _, err = m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return Status{}, fmt.Errorf("m.Version.preMigrationVersion: %w", err)
	}

	err = m.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return Status{}, fmt.Errorf("m.Up: %w", err)
	}

	status.PostMigrationVersion, _, err = m.Version()
	if err != nil {
		return Status{}, fmt.Errorf("m.Version.postMigrationVersion: %w", err)
	}

	return status, nil
}
