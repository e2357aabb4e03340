// Package sqlite registers the "sqlite" lookup driver: an absfile-query
// driver — Open receives the database file path (spec.md §4.3's
// absfile-query style), Find's key is a literal SQL statement executed
// against that file's connection.
//
// Grounded on data/sqlite/driver.go's Connect/Close/Ping shape (same
// mattn/go-sqlite3-backed database/sql registration, same MaxOpenConn=1
// write-safety default), generalized from a single configured DSN to
// "one *sql.DB per opened file", since sqlite is the one driver in this
// set addressed by file path rather than a fixed DSN.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ncobase/lookup/driver"
	"github.com/ncobase/lookup/registry"
	"github.com/ncobase/lookup/sqllookup"

	_ "github.com/mattn/go-sqlite3"
)

type sqliteDriver struct{}

func (d *sqliteDriver) Open(ctx context.Context, filename string) (any, error) {
	if filename == "" {
		return nil, fmt.Errorf("sqlite: no database file given")
	}
	db, err := sql.Open("sqlite3", filename)
	if err != nil {
		return nil, fmt.Errorf("sqlite: failed to open %q: %w", filename, err)
	}
	db.SetMaxOpenConns(1) // sqlite3 serializes writes; avoid pool contention
	db.SetMaxIdleConns(2)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: failed to ping %q: %w", filename, err)
	}
	return db, nil
}

func (d *sqliteDriver) Check(ctx context.Context, args driver.CheckArgs) error { return nil }

func (d *sqliteDriver) Find(ctx context.Context, args driver.FindArgs) driver.FindReply {
	db, ok := args.Handle.(*sql.DB)
	if !ok {
		return driver.FindReply{Result: driver.Defer, Err: fmt.Errorf("sqlite: invalid handle type")}
	}
	return sqllookup.Query(ctx, db, args.Key)
}

func (d *sqliteDriver) Close(handle any) error {
	db, ok := handle.(*sql.DB)
	if !ok {
		return fmt.Errorf("sqlite: invalid connection type, expected *sql.DB")
	}
	return db.Close()
}

func (d *sqliteDriver) Tidy() {}

func (d *sqliteDriver) Quote(s string) (string, bool) {
	return sqllookup.QuotePostgresStyle(s), true
}

func init() {
	registry.Register(registry.Descriptor{
		Name:  "sqlite",
		Style: driver.StyleAbsFileQuery,
		Capabilities: driver.Capabilities{
			SupportsQuoting: true,
			IsFileBacked:    true,
		},
		Driver: &sqliteDriver{},
	})
}
