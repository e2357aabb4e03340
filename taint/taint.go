// Package taint re-architects spec.md §3's "Taint Flag" as a type rather
// than a pervasive per-string marker bit, per spec.md §9 "Taint as type".
//
// A String carries its taint with it; detainting is the explicit,
// single-purpose operation §4.7 describes ("the fixed portion is
// detainted because the lookup validated it"), not an ambient flag flip.
package taint

// String is a string that may have originated outside the trust boundary.
type String struct {
	val    string
	tainted bool
}

// Clean wraps a string known to originate inside the trust boundary
// (a literal in a config file, the output of a successful detaint).
func Clean(s string) String { return String{val: s} }

// Tainted wraps a string known to originate outside the trust boundary
// (user input, network, untrusted files).
func Tainted(s string) String { return String{val: s, tainted: true} }

// Value returns the underlying string regardless of taint state. Callers
// that need to gate on taint must check IsTainted first; Value never
// silently detaints.
func (s String) Value() string { return s.val }

// IsTainted reports whether s originated outside the trust boundary.
func (s String) IsTainted() bool { return s.tainted }

// Detaint returns a Clean copy of s's value. Call only at the point a
// validation has actually occurred (e.g. a successful lookup matched the
// value, as in the wildcard engine's "fixed" suffix) — detainting is a
// deliberate assertion, not a formatting convenience.
func (s String) Detaint() String { return Clean(s.val) }

func (s String) String() string { return s.val }
