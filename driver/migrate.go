package driver

import (
	"database/sql"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migratemysql "github.com/golang-migrate/migrate/v4/database/mysql"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"campuslands/config"
	"campuslands/migrations"
)

// Migrate applies every pending up migration for cfg.StoreDriver. It uses its
// own connection, closed before returning.
func Migrate(cfg config.Config, log logrus.FieldLogger) error {
	if cfg.StoreDriver == config.DriverMemory {
		return errors.New("memory store has no schema to migrate")
	}

	db, err := sql.Open(cfg.StoreDriver, cfg.DatabaseDSN)
	if err != nil {
		return errors.Wrapf(err, "open %s", cfg.StoreDriver)
	}

	var target database.Driver
	switch cfg.StoreDriver {
	case config.DriverSQLite:
		target, err = migratesqlite.WithInstance(db, &migratesqlite.Config{})
	case config.DriverMySQL:
		target, err = migratemysql.WithInstance(db, &migratemysql.Config{})
	default:
		err = errors.Errorf("unsupported store driver %q", cfg.StoreDriver)
	}
	if err != nil {
		db.Close()
		return errors.Wrap(err, "migration driver")
	}

	src, err := iofs.New(migrations.FS, cfg.StoreDriver)
	if err != nil {
		target.Close()
		return errors.Wrap(err, "migration source")
	}

	m, err := migrate.NewWithInstance("iofs", src, cfg.StoreDriver, target)
	if err != nil {
		src.Close()
		target.Close()
		return errors.Wrap(err, "new migrator")
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return errors.Wrap(err, "apply migrations")
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return errors.Wrap(err, "read schema version")
	}
	log.WithFields(logrus.Fields{
		"driver":  cfg.StoreDriver,
		"version": version,
		"dirty":   dirty,
	}).Info("schema migrated")
	return nil
}
