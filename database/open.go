// Package database provides the key-value backends behind the persistence shim.
package database

import (
	"context"
	"fmt"
)

// Store is a key-value backend that can be closed at shutdown.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Open selects the backend by driver name: "postgres" or "sqlite".
func Open(driver, dsn string, debug bool) (Store, error) {
	switch driver {
	case "postgres":
		db, err := ConnectPostgres(dsn, debug)
		if err != nil {
			return nil, err
		}
		return NewGormStore(db), nil
	case "sqlite":
		return NewSQLiteStore(dsn)
	default:
		return nil, fmt.Errorf("unknown database driver %q", driver)
	}
}
