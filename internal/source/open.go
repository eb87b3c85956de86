package source

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/karnalakavya0/hospital-readmission-proj/pkg/config"
)

// Open builds the Source described by cfg. The returned close function
// releases any connection pool and is never nil.
func Open(ctx context.Context, cfg config.SourceConfig, logger *zap.Logger) (Source, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Driver {
	case config.DriverSQLite:
		return NewSQLite(cfg.Path, cfg.Table, logger), noop, nil
	case config.DriverJSON:
		return NewJSONFile(cfg.Path), noop, nil
	case config.DriverPostgres:
		db, err := sql.Open("postgres", cfg.DSN)
		if err != nil {
			return nil, noop, fmt.Errorf("opening postgres: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, noop, fmt.Errorf("connecting to postgres: %w", err)
		}
		return NewPostgres(db, cfg.Table, logger), db.Close, nil
	default:
		return nil, noop, fmt.Errorf("unknown source driver %q", cfg.Driver)
	}
}
