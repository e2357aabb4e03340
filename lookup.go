// Package lookup is the public entry point: it composes registry,
// typespec, splitarg, handlecache, core and wildcard into the dispatcher
// API spec.md §6 describes (parse_type, split_args, open, find, tidy),
// plus SPEC_FULL.md's SUPPLEMENT entry points (Quote, Stats).
//
// Grounded on data/connection/connection.go's Connections type for the
// overall "one facade struct owning every backend, one Close for all of
// them" shape, and on go.opentelemetry.io/otel for wrapping Open/Find in
// spans per SPEC_FULL.md's Resilience/Tracing section — ncobase/ncore's
// own logging/observes/tracer.go has no existing tracing wiring worth
// imitating (it is a thin wrapper with no span attributes of its own),
// so span naming/attributes here follow otel's own conventions instead.
package lookup

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ncobase/lookup/core"
	"github.com/ncobase/lookup/expand"
	"github.com/ncobase/lookup/handlecache"
	"github.com/ncobase/lookup/registry"
	"github.com/ncobase/lookup/splitarg"
	"github.com/ncobase/lookup/taint"
	"github.com/ncobase/lookup/typespec"
	"github.com/ncobase/lookup/wildcard"
)

var tracer = otel.Tracer("github.com/ncobase/lookup")

// Handle re-exports core.Handle so callers never need to import package
// core directly.
type Handle = core.Handle

// Dispatcher is the top-level facade: one per process (or per test),
// owning the handle cache, the Lookup Core and the Wildcard Engine.
type Dispatcher struct {
	core    *core.Core
	engine  *wildcard.Engine
	maxOpen int
}

// Options configures a new Dispatcher.
type Options struct {
	MaxOpenFiles int // open_filecount cap, spec.md §5; with 0, every file-backed open first evicts the LRU tail, so at most one file-backed handle stays open
	Core         core.Options
}

// New builds a Dispatcher. Drivers must already be registered (via blank
// imports of the drivers/* packages) before it is used.
func New(opts Options) *Dispatcher {
	hc := handlecache.New(opts.MaxOpenFiles)
	c := core.New(hc, opts.Core)
	return &Dispatcher{core: c, engine: wildcard.New(c), maxOpen: opts.MaxOpenFiles}
}

// ParseType implements spec.md §4.2's parse_type.
func (d *Dispatcher) ParseType(raw string) (typespec.Spec, error) {
	return typespec.Parse(raw)
}

// SplitArgs implements spec.md §4.3's split_args for the driver resolved
// by spec.
func (d *Dispatcher) SplitArgs(spec typespec.Spec, raw, key, opts string) (filename, keyquery string) {
	desc := registry.Get(spec.DriverIndex)
	return splitarg.Split(desc.Style, raw, key, opts)
}

// Open implements spec.md §4.4, wrapped in an otel span.
func (d *Dispatcher) Open(ctx context.Context, driverIndex int, filename taint.String) (Handle, error) {
	desc := registry.Get(driverIndex)
	ctx, span := tracer.Start(ctx, "lookup.Open", trace.WithAttributes(
		attribute.String("lookup.driver", desc.Name),
	))
	defer span.End()

	h, err := d.core.Open(ctx, driverIndex, filename)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return h, err
}

// Result is the outcome of Find, collapsing core.FindResult and
// wildcard.Result into one caller-facing shape.
type Result struct {
	Payload    string
	HasPayload bool
	Deferred   bool
	Err        error
}

// Find implements spec.md §4.6/§4.7: dispatches through the Wildcard
// Engine using spec's partial/star flags, wrapped in an otel span.
func (d *Dispatcher) Find(ctx context.Context, h Handle, spec typespec.Spec, filename string, key taint.String, sink expand.Sink) Result {
	desc := registry.Get(spec.DriverIndex)
	_, span := tracer.Start(ctx, "lookup.Find", trace.WithAttributes(
		attribute.String("lookup.driver", desc.Name),
	))
	defer span.End()

	r := d.engine.Find(h, filename, key, spec.Partial, spec.Affix, spec.Star, spec.StarAt, sink, spec.Opts)
	if r.Err != nil {
		span.RecordError(r.Err)
		span.SetStatus(codes.Error, r.Err.Error())
	}
	span.SetAttributes(attribute.Bool("lookup.hit", r.HasPayload))
	return Result{Payload: r.Payload, HasPayload: r.HasPayload, Deferred: r.Deferred, Err: r.Err}
}

// Quote implements spec.md §6/§9 SUPPLEMENT's quote entry point.
func (d *Dispatcher) Quote(driverIndex int, s string) (string, bool) {
	return d.core.Quote(driverIndex, s)
}

// Tidy implements spec.md §4.8.
func (d *Dispatcher) Tidy() {
	d.core.Tidy()
}

// Stats is SPEC_FULL.md's SUPPLEMENT operational snapshot.
type Stats = core.Stats

// Stats returns a snapshot of dispatcher-wide resource usage.
func (d *Dispatcher) Stats() Stats {
	return d.core.Stats()
}
