// Package lsearch registers the "lsearch" lookup driver: a single-key-file
// driver that scans a flat "key:\s*value" text file linearly on every
// Find. No file in ncobase/ncore does flat-file scanning — the shape
// here borrows data/driver.go's Name/Connect/Close registration idiom and
// cache/cache.go's plain-struct field layout, generalized to "read a file,
// scan it" instead of "hold a backend connection".
package lsearch

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ncobase/lookup/driver"
	"github.com/ncobase/lookup/registry"
)

// handle is the open lsearch file: just its path, re-read on every Find.
// A flat file has no persistent connection worth holding onto beyond the
// path itself — Open's job is mostly validating the file exists.
type handle struct {
	path string
}

type lsearchDriver struct{}

func (d *lsearchDriver) Open(ctx context.Context, filename string) (any, error) {
	if filename == "" {
		return nil, fmt.Errorf("lsearch: no filename given")
	}
	if _, err := os.Stat(filename); err != nil {
		return nil, fmt.Errorf("lsearch: %w", err)
	}
	return &handle{path: filename}, nil
}

func (d *lsearchDriver) Check(ctx context.Context, args driver.CheckArgs) error {
	info, err := os.Stat(args.Filename)
	if err != nil {
		return fmt.Errorf("lsearch: stat %q: %w", args.Filename, err)
	}
	if info.Mode().Perm()&^os.FileMode(args.ModeMask) != 0 {
		return fmt.Errorf("lsearch: %q has disallowed mode bits set", args.Filename)
	}
	return nil
}

// Find scans the file line by line for a "key:value" or "key: value" entry
// matching args.Key exactly. Lines starting with '#' are comments.
func (d *lsearchDriver) Find(ctx context.Context, args driver.FindArgs) driver.FindReply {
	h, ok := args.Handle.(*handle)
	if !ok {
		return driver.FindReply{Result: driver.Defer, Err: fmt.Errorf("lsearch: invalid handle type")}
	}

	f, err := os.Open(h.path)
	if err != nil {
		return driver.FindReply{Result: driver.Defer, Err: fmt.Errorf("lsearch: open %q: %w", h.path, err)}
	}
	defer f.Close()

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
		if key == args.Key {
			return driver.FindReply{Result: driver.OK, Payload: strings.TrimSpace(value), TTL: driver.ForeverTTL}
		}
	}
	if err := scanner.Err(); err != nil {
		return driver.FindReply{Result: driver.Defer, Err: fmt.Errorf("lsearch: scan %q: %w", h.path, err)}
	}
	return driver.FindReply{Result: driver.Fail, TTL: driver.ForeverTTL}
}

func (d *lsearchDriver) Close(handle any) error { return nil }

func (d *lsearchDriver) Tidy() {}

func (d *lsearchDriver) Quote(s string) (string, bool) { return "", false }

func init() {
	registry.Register(registry.Descriptor{
		Name:  "lsearch",
		Style: driver.StyleSingleKeyFile,
		Capabilities: driver.Capabilities{
			SupportsPartial: true,
			SupportsCheck:   true,
			IsFileBacked:    true,
		},
		Driver: &lsearchDriver{},
	})
}
