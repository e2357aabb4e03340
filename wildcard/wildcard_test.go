package wildcard

import (
	"context"
	"testing"

	"github.com/ncobase/lookup/core"
	"github.com/ncobase/lookup/driver"
	"github.com/ncobase/lookup/expand"
	"github.com/ncobase/lookup/handlecache"
	"github.com/ncobase/lookup/registry"
	"github.com/ncobase/lookup/taint"
)

// tableDriver is a minimal file-backed, partial-capable driver backed by an
// in-memory map, grounded on the same "fake backend behind the real
// interface" style data/driver_test.go uses for its driver registry.
type tableDriver struct {
	rows map[string]string
}

func (d *tableDriver) Open(ctx context.Context, filename string) (any, error) { return d, nil }
func (d *tableDriver) Check(ctx context.Context, args driver.CheckArgs) error { return nil }
func (d *tableDriver) Close(handle any) error                                 { return nil }
func (d *tableDriver) Tidy()                                                   {}
func (d *tableDriver) Quote(s string) (string, bool)                          { return s, true }

func (d *tableDriver) Find(ctx context.Context, args driver.FindArgs) driver.FindReply {
	if v, ok := d.rows[args.Key]; ok {
		return driver.FindReply{Result: driver.OK, Payload: v, TTL: driver.ForeverTTL}
	}
	return driver.FindReply{Result: driver.Fail, TTL: driver.ForeverTTL}
}

func setupEngine(t *testing.T, rows map[string]string, caps driver.Capabilities) (*Engine, core.Handle) {
	t.Helper()
	name := t.Name()
	idx, err := registry.FindByName(name)
	if err != nil {
		registry.Register(registry.Descriptor{
			Name:         name,
			Style:        driver.StyleSingleKeyFile,
			Capabilities: caps,
			Driver:       &tableDriver{rows: rows},
		})
		idx, err = registry.FindByName(name)
		if err != nil {
			t.Fatalf("register: %v", err)
		}
	}

	hc := handlecache.New(10)
	c := core.New(hc, core.Options{})
	h, err := c.Open(context.Background(), idx, taint.Clean("/etc/table"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return New(c), h
}

func TestFindVerbatimHit(t *testing.T) {
	e, h := setupEngine(t, map[string]string{"alice": "1001"}, driver.Capabilities{SupportsPartial: true, IsFileBacked: true})

	res := e.Find(h, "/etc/table", taint.Clean("alice"), -1, "", false, false, nil, nil)
	if !res.HasPayload || res.Payload != "1001" {
		t.Fatalf("expected verbatim hit, got %+v", res)
	}
}

func TestFindPartialFallback(t *testing.T) {
	e, h := setupEngine(t, map[string]string{"example.com": "mail.example.com"}, driver.Capabilities{SupportsPartial: true, IsFileBacked: true})

	sink := &expand.Slice{}
	res := e.Find(h, "/etc/table", taint.Clean("a.b.example.com"), 2, "", false, false, sink, nil)
	if !res.HasPayload || res.Payload != "mail.example.com" {
		t.Fatalf("expected partial match hit, got %+v", res)
	}
	if len(sink.Vars) != 2 {
		t.Fatalf("expected 2 expansion vars, got %d", len(sink.Vars))
	}
	if sink.Vars[0].Value != "a.b" {
		t.Fatalf("expected wild=%q, got %q", "a.b", sink.Vars[0].Value)
	}
	if sink.Vars[1].Value != "example.com" {
		t.Fatalf("expected fixed=%q, got %q", "example.com", sink.Vars[1].Value)
	}
}

func TestFindStarAtDefault(t *testing.T) {
	e, h := setupEngine(t, map[string]string{"*@example.com": "catchall"}, driver.Capabilities{SupportsPartial: true, IsFileBacked: true})

	sink := &expand.Slice{}
	res := e.Find(h, "/etc/table", taint.Clean("bob@example.com"), -1, "", false, true, sink, nil)
	if !res.HasPayload || res.Payload != "catchall" {
		t.Fatalf("expected *@ default hit, got %+v", res)
	}
	if len(sink.Vars) != 2 {
		t.Fatalf("expected 2 expansion vars, got %d", len(sink.Vars))
	}
	if sink.Vars[0].Value != "bob@example.com" || sink.Vars[0].Length != 4 {
		t.Fatalf("expected wild=%q len=4, got %q len=%d", "bob@example.com", sink.Vars[0].Value, sink.Vars[0].Length)
	}
	if sink.Vars[1].Value != "bob@example.com" || sink.Vars[1].Length != 0 {
		t.Fatalf("expected fixed=%q len=0, got %q len=%d", "bob@example.com", sink.Vars[1].Value, sink.Vars[1].Length)
	}
}

func TestFindStarDefault(t *testing.T) {
	e, h := setupEngine(t, map[string]string{"*": "fallback"}, driver.Capabilities{SupportsPartial: true, IsFileBacked: true})

	res := e.Find(h, "/etc/table", taint.Clean("nobody"), -1, "", true, false, nil, nil)
	if !res.HasPayload || res.Payload != "fallback" {
		t.Fatalf("expected * default hit, got %+v", res)
	}
}

func TestFindMiss(t *testing.T) {
	e, h := setupEngine(t, map[string]string{}, driver.Capabilities{SupportsPartial: true, IsFileBacked: true})

	res := e.Find(h, "/etc/table", taint.Clean("nobody"), -1, "", false, false, nil, nil)
	if res.HasPayload {
		t.Fatalf("expected miss, got %+v", res)
	}
}

func TestFindRetKeyOption(t *testing.T) {
	e, h := setupEngine(t, map[string]string{"alice": "1001"}, driver.Capabilities{SupportsPartial: true, IsFileBacked: true})

	opts := "ret=key"
	res := e.Find(h, "/etc/table", taint.Clean("alice"), -1, "", false, false, nil, &opts)
	if !res.HasPayload || res.Payload != "alice" {
		t.Fatalf("expected ret=key to substitute the matched key, got %+v", res)
	}
}

func TestPreprocessOptsStripsDispatcherOptions(t *testing.T) {
	raw := "ret=key,cache=no_rd,foo=bar"
	retKey, cacheNoRd, forwarded := preprocessOpts(&raw)
	if !retKey || !cacheNoRd {
		t.Fatalf("expected both flags set, got retKey=%v cacheNoRd=%v", retKey, cacheNoRd)
	}
	if forwarded == nil || *forwarded != "foo=bar" {
		t.Fatalf("expected forwarded opts %q, got %v", "foo=bar", forwarded)
	}
}

func TestPreprocessOptsNil(t *testing.T) {
	retKey, cacheNoRd, forwarded := preprocessOpts(nil)
	if retKey || cacheNoRd || forwarded != nil {
		t.Fatalf("expected all zero values for nil opts, got (%v, %v, %v)", retKey, cacheNoRd, forwarded)
	}
}
