// Package sqlite contains the concrete implementation of the persistence layer
// using GORM over a local SQLite database file.
package sqlite

import (
	"context"
	"log/slog"
	"time"

	"harvest/config"
	"harvest/internal/errors"
	"harvest/internal/infra/persistence/model"

	"go.uber.org/fx"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const migrateTimeout = 10 * time.Second

// Params defines the required parameters
type Params struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
}

// New opens the local SQLite database and provisions its schema.
func New(params Params) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(params.Config.Storage.Path), &gorm.Config{
		// Disable GORM's per-statement implicit transaction.
		// We keep explicit transactions via txManager.Execute for multi-step atomic operations.
		SkipDefaultTransaction: true,
		Logger:                 newGormSlogLogger(params.Logger, params.Config),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to open SQLite database")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get SQLite sql.DB")
	}

	params.Append(fx.Hook{
		OnStart: func(startCtx context.Context) error {
			ctx, cancel := context.WithTimeout(startCtx, migrateTimeout)
			defer cancel()

			if err := Migrate(db.WithContext(ctx)); err != nil {
				return errors.Wrap(err, "failed to migrate SQLite schema")
			}

			return nil
		},
		OnStop: func(_ context.Context) error {
			return sqlDB.Close()
		},
	})

	return db, nil
}

// Migrate provisions the tables backing the local store. It is idempotent
// and safe to run on every startup.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.KeyValueModel{},
		&model.CollectionEntryModel{},
	)
}
