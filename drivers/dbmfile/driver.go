// Package dbmfile registers the "dbmfile" lookup driver: a single-key-file
// driver that indexes the whole file into memory once at Open, trading
// lsearch's per-Find linear scan for an O(1) map lookup — the "indexed
// flat-file variant" SPEC_FULL.md calls for alongside lsearch.
//
// Grounded the same way drivers/lsearch is (no teacher precedent for a
// flat-file driver; built from data/driver.go's registration idiom).
package dbmfile

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ncobase/lookup/driver"
	"github.com/ncobase/lookup/registry"
)

// handle is the in-memory index built at Open.
type handle struct {
	path  string
	index map[string]string
}

type dbmfileDriver struct{}

func (d *dbmfileDriver) Open(ctx context.Context, filename string) (any, error) {
	if filename == "" {
		return nil, fmt.Errorf("dbmfile: no filename given")
	}
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("dbmfile: %w", err)
	}
	defer f.Close()

	index := make(map[string]string)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		index[key] = strings.TrimSpace(value)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("dbmfile: indexing %q: %w", filename, err)
	}
	return &handle{path: filename, index: index}, nil
}

func (d *dbmfileDriver) Check(ctx context.Context, args driver.CheckArgs) error {
	info, err := os.Stat(args.Filename)
	if err != nil {
		return fmt.Errorf("dbmfile: stat %q: %w", args.Filename, err)
	}
	if info.Mode().Perm()&^os.FileMode(args.ModeMask) != 0 {
		return fmt.Errorf("dbmfile: %q has disallowed mode bits set", args.Filename)
	}
	return nil
}

func (d *dbmfileDriver) Find(ctx context.Context, args driver.FindArgs) driver.FindReply {
	h, ok := args.Handle.(*handle)
	if !ok {
		return driver.FindReply{Result: driver.Defer, Err: fmt.Errorf("dbmfile: invalid handle type")}
	}
	if v, ok := h.index[args.Key]; ok {
		return driver.FindReply{Result: driver.OK, Payload: v, TTL: driver.ForeverTTL}
	}
	return driver.FindReply{Result: driver.Fail, TTL: driver.ForeverTTL}
}

func (d *dbmfileDriver) Close(handle any) error { return nil }

func (d *dbmfileDriver) Tidy() {}

func (d *dbmfileDriver) Quote(s string) (string, bool) { return "", false }

func init() {
	registry.Register(registry.Descriptor{
		Name:  "dbmfile",
		Style: driver.StyleSingleKeyFile,
		Capabilities: driver.Capabilities{
			SupportsPartial: true,
			SupportsCheck:   true,
			IsFileBacked:    true,
		},
		Driver: &dbmfileDriver{},
	})
}
