package driver

import (
	"context"
	"database/sql"

	_ "github.com/go-sql-driver/mysql"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"campuslands/config"
	"campuslands/storage"
)

// ConnectDB opens and pings the SQL database selected by cfg.StoreDriver.
func ConnectDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	db, err := sql.Open(cfg.StoreDriver, cfg.DatabaseDSN)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", cfg.StoreDriver)
	}
	if cfg.StoreDriver == config.DriverSQLite {
		// sqlite allows a single writer; one connection avoids SQLITE_BUSY.
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.Wrapf(err, "ping %s", cfg.StoreDriver)
	}
	return db, nil
}

// OpenStore returns the record store for cfg, migrating the schema first when
// AutoMigrate is set.
func OpenStore(ctx context.Context, cfg config.Config, log logrus.FieldLogger) (storage.Store, error) {
	if cfg.StoreDriver == config.DriverMemory {
		log.Info("using in-memory camper store")
		return storage.NewMemoryStore(), nil
	}

	if cfg.AutoMigrate {
		if err := Migrate(cfg, log); err != nil {
			return nil, err
		}
	}

	db, err := ConnectDB(ctx, cfg)
	if err != nil {
		return nil, err
	}
	log.WithField("driver", cfg.StoreDriver).Info("connected to camper database")
	return storage.NewSQLStore(db), nil
}
