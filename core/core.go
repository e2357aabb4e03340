// Package core implements the Open protocol (spec.md §4.4), the Lookup
// Core / internal_find (spec.md §4.6) and the Tidy protocol (spec.md
// §4.8) — the three operations that actually touch the handle cache, the
// LRU chain and a driver.
//
// Grounded on data/connection/connection.go's Connections type (lazy
// per-backend connect, a single Close that walks every live connection
// and tolerates partial failure) generalized from "one connection per
// configured backend" to "one handle per (driver, resource) key", and on
// data/driver.go's registration/lookup-by-name idiom for the driver side.
package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ncobase/lookup/driver"
	"github.com/ncobase/lookup/handlecache"
	"github.com/ncobase/lookup/registry"
	"github.com/ncobase/lookup/taint"

	"github.com/sony/gobreaker"
)

// Sentinel errors, per spec.md §7's error-kind table. Driver-supplied
// detail is wrapped with %w so callers can still read the original cause.
var (
	ErrTaintedFilename      = errors.New("core: tainted filename rejected")
	ErrDriverOpenFailed     = errors.New("core: driver open failed")
	ErrDriverCheckFailed    = errors.New("core: driver check failed")
	ErrTaintedQueryUnquoted = errors.New("core: tainted query not properly quoted")
)

// Handle identifies an open slot in the handle cache by its index; the
// first slot opened is 0. Callers receive a Handle only from Open, and
// the value Open returns alongside an error is not a usable handle.
type Handle int

// Logger is the subset of logging behavior core depends on. The logging
// package's Logger satisfies this; tests can supply a no-op stub.
type Logger interface {
	Warnf(format string, args ...any)
	// TaintPanic logs a TaintedFilename rejection at the distinguished
	// level spec.md §7 calls "panic level" — see logging.Logger for why
	// this does not call Go's panic().
	TaintPanic(format string, args ...any)
}

// Metrics is the subset of metrics.Collector core depends on.
type Metrics interface {
	OpenHit(driverName string)
	OpenMiss(driverName string)
	Evict(driverName string)
	FindHit(driverName string)
	FindMiss(driverName string)
}

type nopLogger struct{}

func (nopLogger) Warnf(string, ...any)     {}
func (nopLogger) TaintPanic(string, ...any) {}

type nopMetrics struct{}

func (nopMetrics) OpenHit(string)  {}
func (nopMetrics) OpenMiss(string) {}
func (nopMetrics) Evict(string)    {}
func (nopMetrics) FindHit(string)  {}
func (nopMetrics) FindMiss(string) {}

// Options configures a Core.
type Options struct {
	Logger Logger
	Metrics Metrics
	// StrictTaint upgrades TaintedQueryUnquoted from "warn and proceed" to
	// "defer with error", per spec.md §9's open question. The zero value
	// is warn-and-proceed; config.LoadConfig defaults strict_taint to
	// true, so a Core built from loaded configuration is strict unless the
	// configuration turns it off.
	StrictTaint bool
	// Breaker enables a per-driver circuit breaker around Find calls to
	// non-file-backed drivers (see SPEC_FULL.md's Resilience section).
	Breaker bool
	// Clock lets tests control "now" for TTL expiry. Defaults to time.Now.
	Clock func() time.Time
}

// Core is the Lookup Core plus the Open/Tidy protocols: everything that
// needs direct access to the handle cache and the registry.
type Core struct {
	cache    *handlecache.Cache
	logger   Logger
	metrics  Metrics
	strict   bool
	useBreak bool
	now      func() time.Time
	breakers map[string]*gobreaker.CircuitBreaker
}

// New builds a Core over cache, applying defaults for any zero-valued Options fields.
func New(cache *handlecache.Cache, opts Options) *Core {
	c := &Core{
		cache:    cache,
		logger:   opts.Logger,
		metrics:  opts.Metrics,
		strict:   opts.StrictTaint,
		useBreak: opts.Breaker,
		now:      opts.Clock,
		breakers: make(map[string]*gobreaker.CircuitBreaker),
	}
	if c.logger == nil {
		c.logger = nopLogger{}
	}
	if c.metrics == nil {
		c.metrics = nopMetrics{}
	}
	if c.now == nil {
		c.now = time.Now
	}
	return c
}

// Open implements spec.md §4.4.
func (c *Core) Open(ctx context.Context, driverIndex int, filename taint.String) (Handle, error) {
	if filename.IsTainted() {
		c.logger.TaintPanic("core: rejected tainted filename for driver %d", driverIndex)
		return 0, fmt.Errorf("%w", ErrTaintedFilename)
	}

	desc := registry.Get(driverIndex)
	key := handlecache.MakeKey(driverIndex, filename.Value())

	if idx, found := c.cache.Lookup(key); found {
		slot := c.cache.Slot(idx)
		if slot.Handle != nil {
			c.metrics.OpenHit(desc.Name)
			return Handle(idx), nil
		}
		// Previously evicted: reopen into the same slot, preserving its item cache.
		if _, err := c.reopen(ctx, desc, idx, filename.Value()); err != nil {
			return 0, err
		}
		c.metrics.OpenMiss(desc.Name)
		return Handle(idx), nil
	}

	c.admitForOpen(desc)

	handle, err := desc.Driver.Open(ctx, filename.Value())
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %w", ErrDriverOpenFailed, desc.Name, err)
	}
	if desc.Capabilities.SupportsCheck {
		if err := desc.Driver.Check(ctx, driver.CheckArgs{Handle: handle, Filename: filename.Value()}); err != nil {
			_ = desc.Driver.Close(handle)
			return 0, fmt.Errorf("%w: %s: %w", ErrDriverCheckFailed, desc.Name, err)
		}
	}

	idx := c.cache.Insert(key, driverIndex, filename.Value(), desc.Capabilities.IsFileBacked)
	c.cache.Slot(idx).Handle = handle
	if desc.Capabilities.IsFileBacked {
		c.cache.PromoteToHead(idx)
	}
	c.metrics.OpenMiss(desc.Name)
	return Handle(idx), nil
}

// reopen re-invokes the driver's open (and check) hooks for an existing,
// currently-closed slot, reviving it in place.
func (c *Core) reopen(ctx context.Context, desc registry.Descriptor, idx int, filename string) (any, error) {
	c.admitForOpen(desc)

	handle, err := desc.Driver.Open(ctx, filename)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDriverOpenFailed, desc.Name, err)
	}
	if desc.Capabilities.SupportsCheck {
		if err := desc.Driver.Check(ctx, driver.CheckArgs{Handle: handle, Filename: filename}); err != nil {
			_ = desc.Driver.Close(handle)
			return nil, fmt.Errorf("%w: %s: %w", ErrDriverCheckFailed, desc.Name, err)
		}
	}
	c.cache.Slot(idx).Handle = handle
	if desc.Capabilities.IsFileBacked {
		c.cache.PromoteToHead(idx)
	}
	return handle, nil
}

// admitForOpen implements spec.md §4.4 step 5: if the driver is
// file-backed and the open-file cap is reached, evict the LRU tail first.
func (c *Core) admitForOpen(desc registry.Descriptor) {
	if !desc.Capabilities.IsFileBacked || c.cache.Count() < c.cache.Max() {
		return
	}
	evicted, ok := c.cache.EvictTail()
	if !ok {
		// Cap misconfigured vs. active handles: the design note (spec.md §9)
		// leaves this ambiguous. We log once and attempt the open anyway,
		// which may transiently exceed the cap.
		c.logger.Warnf("core: open-file cap reached with no eviction candidate (count=%d max=%d)", c.cache.Count(), c.cache.Max())
		return
	}
	slot := c.cache.Slot(evicted)
	evictedDesc := registry.Get(slot.DriverIndex)
	if slot.Handle != nil {
		_ = evictedDesc.Driver.Close(slot.Handle)
		slot.Handle = nil
	}
	c.metrics.Evict(evictedDesc.Name)
}

// FindResult is the outcome of Find.
type FindResult struct {
	Payload    string
	HasPayload bool
	Deferred   bool
	Err        error
}

// Find implements spec.md §4.6's internal_find: a single lookup attempt
// against an already-open handle, through the item cache, with taint
// enforcement and the cache-write policy. Called once per wildcard
// attempt by package wildcard.
func (c *Core) Find(ctx context.Context, h Handle, key taint.String, cacheRead bool, opts *string) FindResult {
	if key.Value() == "" {
		return FindResult{}
	}

	slot := c.cache.Slot(int(h))
	desc := registry.Get(slot.DriverIndex)

	// spec.md §4.5: every find moves a live file-backed handle to the MRU end.
	if slot.FileBacked && slot.Handle != nil {
		c.cache.PromoteToHead(int(h))
	}

	if desc.Style == driver.StyleQuery && desc.Capabilities.SupportsQuoting && key.IsTainted() {
		if !c.isProperlyQuoted(desc, key.Value()) {
			if c.strict {
				c.logger.Warnf("core: deferring tainted unquoted query against driver %q", desc.Name)
				return FindResult{Deferred: true, Err: fmt.Errorf("%w: driver %q", ErrTaintedQueryUnquoted, desc.Name)}
			}
			c.logger.Warnf("core: tainted query against driver %q is not properly quoted; proceeding per warn-and-proceed policy", desc.Name)
		}
	}

	now := c.now().Unix()
	if entry, hit := slot.Items.Lookup(key.Value(), now, opts, cacheRead); hit {
		c.metrics.FindHit(desc.Name)
		return FindResult{Payload: entry.Payload, HasPayload: entry.HasPayload}
	}
	c.metrics.FindMiss(desc.Name)

	reply := c.callDriverFind(desc, driver.FindArgs{
		Handle:   slot.Handle,
		Filename: slot.Resource,
		Key:      key.Value(),
		Opts:     derefOpts(opts),
	})

	switch reply.Result {
	case driver.OK, driver.Fail:
		if reply.TTL != 0 {
			var expiry int64
			if reply.TTL != driver.ForeverTTL {
				expiry = now + int64(reply.TTL)
			}
			slot.Items.Set(key.Value(), reply.Payload, reply.Result == driver.OK, expiry, opts)
		} else {
			slot.Items.DropAll()
		}
	case driver.Defer:
		// no cache write
	}

	switch reply.Result {
	case driver.OK:
		return FindResult{Payload: reply.Payload, HasPayload: true}
	case driver.Defer:
		return FindResult{Deferred: true, Err: reply.Err}
	default:
		return FindResult{Err: reply.Err}
	}
}

// isProperlyQuoted applies the heuristic spec.md §4.6 leaves informal:
// a key is "already quoted in the driver's style" if quoting it again is
// a no-op.
func (c *Core) isProperlyQuoted(desc registry.Descriptor, key string) bool {
	quoted, ok := desc.Driver.Quote(key)
	return ok && quoted == key
}

func (c *Core) callDriverFind(desc registry.Descriptor, args driver.FindArgs) driver.FindReply {
	if !c.useBreak || desc.Capabilities.IsFileBacked {
		return desc.Driver.Find(context.Background(), args)
	}
	br := c.breakerFor(desc)
	v, err := br.Execute(func() (any, error) {
		r := desc.Driver.Find(context.Background(), args)
		if r.Result == driver.Defer {
			return r, fmt.Errorf("driver deferred: %w", r.Err)
		}
		return r, nil
	})
	if err != nil {
		if r, ok := v.(driver.FindReply); ok {
			return r
		}
		return driver.FindReply{Result: driver.Defer, Err: err}
	}
	return v.(driver.FindReply)
}

func (c *Core) breakerFor(desc registry.Descriptor) *gobreaker.CircuitBreaker {
	if br, ok := c.breakers[desc.Name]; ok {
		return br
	}
	br := gobreaker.NewCircuitBreaker(gobreaker.Settings{Name: desc.Name})
	c.breakers[desc.Name] = br
	return br
}

func derefOpts(opts *string) string {
	if opts == nil {
		return ""
	}
	return *opts
}

// Quote exposes the driver's quoting hook directly (spec.md §6, §9 SUPPLEMENT).
func (c *Core) Quote(driverIndex int, s string) (string, bool) {
	return registry.Get(driverIndex).Driver.Quote(s)
}

// Tidy implements spec.md §4.8: close every live handle, reset the LRU
// chain and handle cache, and invoke each touched driver's process-wide
// Tidy hook exactly once.
func (c *Core) Tidy() {
	touched := map[int]bool{}
	for _, slot := range c.cache.All() {
		if slot.Handle != nil {
			desc := registry.Get(slot.DriverIndex)
			_ = desc.Driver.Close(slot.Handle)
		}
		touched[slot.DriverIndex] = true
	}
	for idx := range touched {
		registry.Get(idx).Driver.Tidy()
	}
	c.breakers = make(map[string]*gobreaker.CircuitBreaker)
	c.cache.Tidy()
}

// Stats is a read-only operational snapshot (SPEC_FULL.md SUPPLEMENT).
type Stats struct {
	OpenHandles   int
	OpenFileCount int
	OpenFileMax   int
}

// Stats returns a snapshot of dispatcher-wide resource usage.
func (c *Core) Stats() Stats {
	return Stats{
		OpenHandles:   len(c.cache.All()),
		OpenFileCount: c.cache.Count(),
		OpenFileMax:   c.cache.Max(),
	}
}
