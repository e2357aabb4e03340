// Package registry is the driver registry described in spec.md §4.1.
//
// ncore's data package (data/driver.go) keeps one map-per-backend-kind
// registry, looked up by exact string key and guarded by a sync.RWMutex,
// following the database/sql pattern of self-registering drivers via
// init(). This package keeps that self-registration idiom (Register is
// meant to be called from a driver package's init) but replaces the map
// with the sorted slice + binary search spec.md §4.1 specifies, since the
// dispatcher needs prefix-aware resolution (a name that is itself a
// prefix of another registered name) that a map cannot give for free.
package registry

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/ncobase/lookup/driver"
)

// Descriptor is the static, registry-owned description of a driver, per spec.md §3.
type Descriptor struct {
	Name         string
	Style        driver.Style
	Capabilities driver.Capabilities
	Driver       driver.Driver
}

var (
	mu    sync.RWMutex
	table []Descriptor // kept sorted by Name
)

// Register makes a driver available under its name. Intended to be called
// from a driver package's init(), exactly like data.RegisterDatabaseDriver.
// Panics on a duplicate name or a nil driver, matching that function's
// fail-fast registration contract.
func Register(d Descriptor) {
	mu.Lock()
	defer mu.Unlock()

	if d.Driver == nil {
		panic("registry: Register driver is nil")
	}
	if d.Name == "" {
		panic("registry: Register driver name is empty")
	}

	i := sort.Search(len(table), func(i int) bool { return table[i].Name >= d.Name })
	if i < len(table) && table[i].Name == d.Name {
		panic(fmt.Sprintf("registry: Register called twice for driver %q", d.Name))
	}

	table = append(table, Descriptor{})
	copy(table[i+1:], table[i:])
	table[i] = d
}

// reset clears the registry. Test-only: production call sites never need
// to unregister a driver once the binary has linked it in.
func reset() {
	table = nil
}

// ErrKind distinguishes "name not known to this binary at all" from
// "name known, but this build did not compile the driver in" (spec.md §4.1).
type ErrKind int

const (
	ErrUnknown ErrKind = iota
	ErrNotCompiledIn
)

// canonicalNames lists every lookup type spec.md §3 defines, independent of
// which of drivers/* a given binary actually links in via blank import.
// FindByName consults this list to tell "never heard of this type" apart
// from "this type exists but its driver package wasn't imported".
var canonicalNames = []string{
	"dbmfile", "elasticsearch", "lsearch", "mongodb", "mysql", "postgres", "redis", "sqlite",
}

func isCanonicalName(name string) bool {
	for _, n := range canonicalNames {
		if n == name {
			return true
		}
	}
	return false
}

// LookupError is returned by FindByName on failure.
type LookupError struct {
	Kind ErrKind
	Name string
}

func (e *LookupError) Error() string {
	switch e.Kind {
	case ErrNotCompiledIn:
		return fmt.Sprintf("registry: lookup type %q is not available in this binary", e.Name)
	default:
		return fmt.Sprintf("registry: unknown lookup type %q", e.Name)
	}
}

// FindByName resolves name (a slice, not necessarily the whole remaining
// string — callers pass name[:n] for the basename portion of a type-spec)
// to its index in the registry via binary search.
//
// The search treats a candidate that is a strict prefix of a stored name
// as "less than" that name and continues upward, so "mysql" and "mysql2"
// (if both were registered) disambiguate correctly regardless of which one
// the caller's slice happens to terminate early on. On a miss, name is
// checked against canonicalNames: a name spec.md §3 defines but whose
// driver package this binary never blank-imported resolves to
// ErrNotCompiledIn rather than ErrUnknown.
func FindByName(name string) (int, error) {
	mu.RLock()
	defer mu.RUnlock()

	lo, hi := 0, len(table)
	for lo < hi {
		mid := (lo + hi) / 2
		c := compareNames(name, table[mid].Name)
		switch {
		case c == 0:
			return mid, nil
		case c < 0:
			hi = mid
		default:
			lo = mid + 1
		}
	}
	if isCanonicalName(name) {
		return -1, &LookupError{Kind: ErrNotCompiledIn, Name: name}
	}
	return -1, &LookupError{Kind: ErrUnknown, Name: name}
}

// compareNames implements spec.md §4.1's prefix-disambiguation rule: if
// candidate is a strict prefix of stored, candidate sorts before stored
// (so the binary search keeps moving toward exact matches of the shorter
// name rather than hopping past it).
func compareNames(candidate, stored string) int {
	if strings.HasPrefix(stored, candidate) && len(candidate) < len(stored) {
		return -1
	}
	return strings.Compare(candidate, stored)
}

// Get returns the Descriptor at index i. Panics if i is out of range;
// callers only ever pass indices returned by FindByName.
func Get(i int) Descriptor {
	mu.RLock()
	defer mu.RUnlock()
	return table[i]
}

// Len reports how many drivers are registered.
func Len() int {
	mu.RLock()
	defer mu.RUnlock()
	return len(table)
}

// Names returns a snapshot of all registered driver names, sorted.
// Mirrors data.ListRegisteredDrivers' debugging/diagnostics role.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, len(table))
	for i, d := range table {
		out[i] = d.Name
	}
	return out
}
