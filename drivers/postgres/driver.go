// Package postgres registers the "postgres" lookup driver: a query-style
// driver whose Find key is a literal SQL statement.
//
// Grounded on data/postgres/driver.go's Connect/Close/Ping shape (same
// pgx-backed database/sql registration, same pool knobs), generalized the
// same way drivers/mysql generalizes data/mysql/driver.go.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ncobase/lookup/driver"
	"github.com/ncobase/lookup/registry"
	"github.com/ncobase/lookup/sqllookup"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Config holds connection-pool tuning.
type Config struct {
	DSN             string
	MaxIdleConn     int
	MaxOpenConn     int
	ConnMaxLifeTime int // seconds
}

var activeConfig Config

// Configure sets the DSN and pool tuning used by every subsequent Open.
func Configure(cfg Config) { activeConfig = cfg }

type postgresDriver struct{}

func (d *postgresDriver) Open(ctx context.Context, filename string) (any, error) {
	if activeConfig.DSN == "" {
		return nil, fmt.Errorf("postgres: no DSN configured")
	}
	db, err := sql.Open("pgx", activeConfig.DSN)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to open connection: %w", err)
	}
	if activeConfig.MaxIdleConn > 0 {
		db.SetMaxIdleConns(activeConfig.MaxIdleConn)
	}
	if activeConfig.MaxOpenConn > 0 {
		db.SetMaxOpenConns(activeConfig.MaxOpenConn)
	}
	if activeConfig.ConnMaxLifeTime > 0 {
		db.SetConnMaxLifetime(time.Duration(activeConfig.ConnMaxLifeTime) * time.Second)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("postgres: failed to ping database: %w", err)
	}
	return db, nil
}

func (d *postgresDriver) Check(ctx context.Context, args driver.CheckArgs) error { return nil }

func (d *postgresDriver) Find(ctx context.Context, args driver.FindArgs) driver.FindReply {
	db, ok := args.Handle.(*sql.DB)
	if !ok {
		return driver.FindReply{Result: driver.Defer, Err: fmt.Errorf("postgres: invalid handle type")}
	}
	return sqllookup.Query(ctx, db, args.Key)
}

func (d *postgresDriver) Close(handle any) error {
	db, ok := handle.(*sql.DB)
	if !ok {
		return fmt.Errorf("postgres: invalid connection type, expected *sql.DB")
	}
	return db.Close()
}

func (d *postgresDriver) Tidy() {}

func (d *postgresDriver) Quote(s string) (string, bool) {
	return sqllookup.QuotePostgresStyle(s), true
}

func init() {
	registry.Register(registry.Descriptor{
		Name:  "postgres",
		Style: driver.StyleQuery,
		Capabilities: driver.Capabilities{
			SupportsQuoting: true,
		},
		Driver: &postgresDriver{},
	})
}
