// Package mysql registers the "mysql" lookup driver: a query-style driver
// whose Find key is a literal SQL statement, executed against a
// database/sql connection.
//
// Grounded on data/mysql/driver.go's Connect/Close/Ping shape (same DSN
// handling, same connection-pool knobs, same official driver import) but
// generalized from ncore's DatabaseDriver.Connect(cfg) contract to this
// dispatcher's Open(filename)/Find(key) contract: filename is empty
// (query-style), and the connection pool settings come from package-level
// Config instead of a *config.DBNode, since there is no surrounding
// config.DBNode type in this module.
package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ncobase/lookup/driver"
	"github.com/ncobase/lookup/registry"
	"github.com/ncobase/lookup/sqllookup"

	_ "github.com/go-sql-driver/mysql"
)

// Config holds connection-pool tuning, mirroring data.config.DBNode's
// MaxIdleConn/MaxOpenConn/ConnMaxLifeTime knobs.
type Config struct {
	DSN             string
	MaxIdleConn     int
	MaxOpenConn     int
	ConnMaxLifeTime int // seconds
}

var activeConfig Config

// Configure sets the DSN and pool tuning used by every subsequent Open.
// Called once from main/config wiring before any lookup runs.
func Configure(cfg Config) { activeConfig = cfg }

type mysqlDriver struct{}

func (d *mysqlDriver) Open(ctx context.Context, filename string) (any, error) {
	if activeConfig.DSN == "" {
		return nil, fmt.Errorf("mysql: no DSN configured")
	}
	db, err := sql.Open("mysql", activeConfig.DSN)
	if err != nil {
		return nil, fmt.Errorf("mysql: failed to open connection: %w", err)
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
		return nil, fmt.Errorf("mysql: failed to ping database: %w", err)
	}
	return db, nil
}

func (d *mysqlDriver) Check(ctx context.Context, args driver.CheckArgs) error { return nil }

func (d *mysqlDriver) Find(ctx context.Context, args driver.FindArgs) driver.FindReply {
	db, ok := args.Handle.(*sql.DB)
	if !ok {
		return driver.FindReply{Result: driver.Defer, Err: fmt.Errorf("mysql: invalid handle type")}
	}
	return sqllookup.Query(ctx, db, args.Key)
}

func (d *mysqlDriver) Close(handle any) error {
	db, ok := handle.(*sql.DB)
	if !ok {
		return fmt.Errorf("mysql: invalid connection type, expected *sql.DB")
	}
	return db.Close()
}

func (d *mysqlDriver) Tidy() {}

func (d *mysqlDriver) Quote(s string) (string, bool) {
	return sqllookup.QuoteMySQLStyle(s), true
}

func init() {
	registry.Register(registry.Descriptor{
		Name:  "mysql",
		Style: driver.StyleQuery,
		Capabilities: driver.Capabilities{
			SupportsQuoting: true,
		},
		Driver: &mysqlDriver{},
	})
}
