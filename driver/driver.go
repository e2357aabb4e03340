// Package driver defines the contract every lookup backend implements.
//
// It mirrors the shape of data.DatabaseDriver/data.CacheDriver/data.SearchDriver
// (ncore's database/sql-style driver registration) but generalized to the
// single six-hook contract spec.md §6 describes: open, check, find, close,
// tidy, quote. A concrete backend (flat file, SQL engine, document store,
// search index) implements Driver and registers a Descriptor with registry.Register.
package driver

import "context"

// Style is the lookup-type style a driver accepts, per spec.md §4.3.
type Style int

const (
	// StyleSingleKeyFile identifies the driver by (filename, key): lsearch, dbmfile.
	StyleSingleKeyFile Style = iota
	// StyleQuery identifies the driver by a query string alone: sql, redis, mongodb...
	StyleQuery
	// StyleAbsFileQuery identifies the driver by an optional leading filename plus a query: sqlite.
	StyleAbsFileQuery
)

func (s Style) String() string {
	switch s {
	case StyleSingleKeyFile:
		return "single-key-file"
	case StyleQuery:
		return "query"
	case StyleAbsFileQuery:
		return "absfile-query"
	default:
		return "unknown"
	}
}

// Result is the outcome of a Find hook invocation.
type Result int

const (
	// OK indicates a successful lookup; Payload holds the result (may be empty).
	OK Result = iota
	// Fail indicates the key was not found.
	Fail
	// Defer indicates a transient failure; callers should treat this differently from Fail.
	Defer
)

// ForeverTTL is the sentinel TTL value meaning "cache this result until tidy".
const ForeverTTL uint32 = ^uint32(0)

// FindArgs bundles the inputs to a driver's Find hook.
type FindArgs struct {
	Handle   any    // opaque backend handle, as returned by Open
	Filename string // empty unless the driver is file-backed
	Key      string
	Opts     string // per-query options string, opaque to the dispatcher
}

// FindReply is the outcome of a Find hook invocation.
type FindReply struct {
	Result  Result
	Payload string // valid when Result == OK
	TTL     uint32 // seconds; ForeverTTL = cache forever, 0 = forget all prior results for this handle
	Err     error
}

// CheckArgs bundles the inputs to a driver's optional Check hook (file ownership/mode validation).
type CheckArgs struct {
	Handle   any
	Filename string
	ModeMask uint32
	OwnersOK map[int]bool
	GroupsOK map[int]bool
}

// Driver is the contract a concrete lookup backend implements.
//
// Check, Tidy and Quote are optional: a driver that does not support them
// leaves the corresponding method returning nil, doing nothing, or
// ("", false) respectively. Capability bits on the Descriptor tell the
// dispatcher whether to bother calling them.
type Driver interface {
	// Open establishes or re-establishes the backend resource named by filename
	// (empty for query-style drivers). Returning a non-nil error aborts the open.
	Open(ctx context.Context, filename string) (handle any, err error)

	// Check validates an already-open handle (e.g. file ownership/mode). Drivers
	// without Capabilities.SupportsCheck on their Descriptor are never asked.
	Check(ctx context.Context, args CheckArgs) error

	// Find executes a query against an open handle.
	Find(ctx context.Context, args FindArgs) FindReply

	// Close releases the backend resource. Called on LRU eviction and on tidy.
	Close(handle any) error

	// Tidy performs process-wide cleanup once, after every handle has been closed.
	Tidy()

	// Quote renders s safe to embed in a query in this driver's quoting style.
	// ok is false for drivers that do not support quoting.
	Quote(s string) (quoted string, ok bool)
}

// Capabilities are the static capability bits spec.md §3 attaches to a DriverDescriptor.
type Capabilities struct {
	SupportsPartial  bool // may be used with "partial" / star flags in a type-spec
	SupportsQuoting  bool // Quote is meaningful
	SupportsCheck    bool // Check should be invoked after Open
	IsFileBacked     bool // participates in the LRU file chain and open-file cap
}
