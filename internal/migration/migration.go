// Package migration creates the destination star-schema tables, optionally
// dropping them first so every batch starts from clean tables.
package migration

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/lyrastream/songlake/internal/config"
	"github.com/lyrastream/songlake/internal/star"
	"gorm.io/gorm"
)

//go:embed migrations/*.sql
var embeddedMigrations embed.FS

const migrationsDir = "migrations"

// Run prepares the destination tables. With ResetTables set, the existing
// tables are dropped and recreated; otherwise they are created if missing.
// Postgres goes through golang-migrate with the embedded SQL; other dialects
// (sqlite in local runs and tests) use gorm's migrator.
func Run(db *gorm.DB, cfg config.Config) error {
	if db == nil {
		return errors.New("migration database handle is required")
	}
	if cfg.DBType != "postgres" {
		return runGorm(db, cfg.ResetTables)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return RunMigrations(sqlDB, cfg.ResetTables)
}

// RunMigrations applies the embedded schema to a postgres database.
func RunMigrations(db *sql.DB, reset bool) error {
	sub, err := fs.Sub(embeddedMigrations, migrationsDir)
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}

	source, err := iofs.New(sub, ".")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	driver, err := migratepg.WithInstance(db, &migratepg.Config{})
	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}

	migrator, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	if reset {
		if err := migrator.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("drop tables: %w", err)
		}
	}
	if err := migrator.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	// Do not close the migrator here because it would close the shared *sql.DB.

	return nil
}

func runGorm(db *gorm.DB, reset bool) error {
	models := []any{
		&star.Artist{},
		&star.Song{},
		&star.User{},
		&star.TimeRecord{},
		&star.SongPlay{},
	}
	if reset {
		if err := db.Migrator().DropTable(models...); err != nil {
			return fmt.Errorf("drop tables: %w", err)
		}
	}
	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("create tables: %w", err)
	}
	return nil
}
