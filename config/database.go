package config

import (
	"context"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/andrewpaige1/flashcards-api/store"
	"github.com/andrewpaige1/flashcards-api/store/firestorestore"
	"github.com/andrewpaige1/flashcards-api/store/memstore"
	"github.com/andrewpaige1/flashcards-api/store/sqlstore"
)

// Connect opens the SQL database selected by StoreDriver.
func Connect(cfg *Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.StoreDriver {
	case "postgres":
		dialector = postgres.Open(cfg.DBURL)
	case "sqlite":
		dialector = sqlite.Open(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("store driver %s has no SQL database", cfg.StoreDriver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}
	return db, nil
}

// OpenStore builds the store selected by StoreDriver. SQL stores are migrated on open.
func OpenStore(ctx context.Context, cfg *Config) (store.Store, error) {
	switch cfg.StoreDriver {
	case "memory":
		return memstore.New(), nil
	case "firestore":
		return firestorestore.New(ctx, cfg.FirestoreProject, cfg.FirestoreCredentials)
	default:
		db, err := Connect(cfg)
		if err != nil {
			return nil, err
		}
		if err := sqlstore.Migrate(db); err != nil {
			return nil, fmt.Errorf("failed to auto migrate database: %w", err)
		}
		return sqlstore.New(db), nil
	}
}
