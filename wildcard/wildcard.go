// Package wildcard implements the Wildcard Engine of spec.md §4.7: the
// verbatim/partial/"*@"/"*" fallback sequence, options preprocessing for
// the two dispatcher-level options (ret=key, cache=no_rd), and population
// of the caller's expand.Sink.
//
// No file in ncobase/ncore does anything like left-trimming a dotted
// key for a cache fallback — its closest analogue is the config
// layer's environment-variable fallback chains (viper's multiple sources
// tried in order), which is the shape this borrows: try a sequence of
// progressively more general lookups and stop at the first hit.
package wildcard

import (
	"strings"

	"github.com/ncobase/lookup/core"
	"github.com/ncobase/lookup/expand"
	"github.com/ncobase/lookup/taint"
)

// Engine runs the wildcard fallback sequence over a Core.
type Engine struct {
	core *core.Core
}

// New wraps c.
func New(c *core.Core) *Engine {
	return &Engine{core: c}
}

// Result is the outcome of Find.
type Result struct {
	Payload    string
	HasPayload bool
	Deferred   bool
	Err        error
}

// Find implements spec.md §4.7.
func (e *Engine) Find(h core.Handle, filename string, key taint.String, partial int, affix string, star, starAt bool, sink expand.Sink, rawOpts *string) Result {
	retKey, cacheNoRd, forwardOpts := preprocessOpts(rawOpts)
	cacheRead := !cacheNoRd

	finish := func(r core.FindResult) Result {
		if r.Deferred {
			return Result{Deferred: true, Err: r.Err}
		}
		if retKey && r.HasPayload {
			r.Payload = key.Detaint().Value()
		}
		return Result{Payload: r.Payload, HasPayload: r.HasPayload, Err: r.Err}
	}

	// Attempt 1: verbatim.
	r := e.core.Find(nil, h, key, cacheRead, forwardOpts)
	if r.Deferred {
		return finish(r)
	}
	if r.HasPayload {
		if partial >= 0 {
			pushMatchedWithoutWildcard(sink, key)
		}
		return finish(r)
	}

	// Attempt 2: partial match.
	if partial >= 0 {
		if res, ok, deferred := e.tryPartial(h, key, partial, affix, sink, cacheRead, forwardOpts); deferred {
			return finish(res)
		} else if ok {
			return finish(res)
		}
	}

	// Attempt 3: "*@" default.
	if starAt {
		if res, ok, deferred := e.tryStarAt(h, key, sink, cacheRead, forwardOpts); deferred {
			return finish(res)
		} else if ok {
			return finish(res)
		}
	}

	// Attempt 4: "*" default.
	if star || starAt {
		if res, ok, deferred := e.tryStar(h, key, sink, cacheRead, forwardOpts); deferred {
			return finish(res)
		} else if ok {
			return finish(res)
		}
	}

	return finish(core.FindResult{})
}

// pushMatchedWithoutWildcard populates the expansion sink per spec.md
// §4.7's "matched without wildcarding" case: the full key as wild and an
// empty fixed part, following the same two-variable (wild, fixed) shape
// the partial-match case uses so callers don't need a third branch to
// handle this.
func pushMatchedWithoutWildcard(sink expand.Sink, key taint.String) {
	if sink == nil {
		return
	}
	sink.Push(expand.Var{Value: key.Value(), Length: len(key.Value())})
	sink.Push(expand.Var{Value: "", Length: 0})
}

func (e *Engine) tryPartial(h core.Handle, key taint.String, partial int, affix string, sink expand.Sink, cacheRead bool, opts *string) (core.FindResult, bool, bool) {
	k := key.Value()

	if affix != "" {
		r := e.core.Find(nil, h, rewrap(key, affix+k), cacheRead, opts)
		if r.Deferred {
			return r, false, true
		}
		if r.HasPayload {
			pushPartialMatch(sink, key, affix, k, false)
			return r, true, false
		}
	}

	dots := strings.Count(k, ".")
	cursor := k
	for dots >= partial {
		i := strings.IndexByte(cursor, '.')
		if i < 0 {
			break
		}
		cursor = cursor[i+1:]
		dots--
		candidate := affix + cursor
		r := e.core.Find(nil, h, rewrap(key, candidate), cacheRead, opts)
		if r.Deferred {
			return r, false, true
		}
		if r.HasPayload {
			pushPartialMatch(sink, key, affix, cursor, true)
			return r, true, false
		}
	}

	// Last-step policy: cursor has reached end-of-string (no more dots to
	// trim). If affix is non-empty, try the affix alone (stripping a
	// trailing '.' when the affix is longer than one character).
	if affix != "" {
		final := affix
		if len(affix) > 1 && strings.HasSuffix(affix, ".") {
			final = affix[:len(affix)-1]
		}
		r := e.core.Find(nil, h, rewrap(key, final), cacheRead, opts)
		if r.Deferred {
			return r, false, true
		}
		if r.HasPayload {
			pushPartialMatch(sink, key, affix, "", false)
			return r, true, false
		}
	}

	return core.FindResult{}, false, false
}

// pushPartialMatch populates (wild, wildlen), (fixed-detainted, fixedlen)
// per spec.md §4.7: wild is the original key's prefix that was trimmed
// away, fixed is the remaining suffix (the part the driver actually
// matched against), detainted because the lookup validated it. trimmed
// reports whether at least one dot-trimming step ran to reach
// matchedSuffix: each such step consumes the separating '.' along with
// the label before it, so wild excludes that extra separator byte too.
// The zero-trim cases (the whole key matched verbatim, or the affix
// matched alone with nothing of the key left) have no such separator to
// account for.
func pushPartialMatch(sink expand.Sink, key taint.String, affix, matchedSuffix string, trimmed bool) {
	if sink == nil {
		return
	}
	full := key.Value()
	fixedLen := len(matchedSuffix)
	wildLen := len(full) - fixedLen
	if trimmed {
		wildLen--
	}
	if wildLen < 0 {
		wildLen = 0
	}
	sink.Push(expand.Var{Value: full[:wildLen], Length: wildLen})
	fixed := taint.Tainted(full[len(full)-fixedLen:]).Detaint()
	sink.Push(expand.Var{Value: fixed.Value(), Length: len(fixed.Value())})
}

func (e *Engine) tryStarAt(h core.Handle, key taint.String, sink expand.Sink, cacheRead bool, opts *string) (core.FindResult, bool, bool) {
	k := key.Value()
	at := strings.LastIndexByte(k, '@')
	if at < 1 {
		return core.FindResult{}, false, false
	}
	// The "*@" default replaces the entire local part with "*", keeping
	// the domain: alice@example.com -> *@example.com.
	candidate := "*" + k[at:]
	r := e.core.Find(nil, h, rewrap(key, candidate), cacheRead, opts)
	if r.Deferred {
		return r, false, true
	}
	if r.HasPayload {
		if sink != nil {
			sink.Push(expand.Var{Value: key.Value(), Length: at + 1})
			sink.Push(expand.Var{Value: key.Value(), Length: 0})
		}
		return r, true, false
	}
	return core.FindResult{}, false, false
}

func (e *Engine) tryStar(h core.Handle, key taint.String, sink expand.Sink, cacheRead bool, opts *string) (core.FindResult, bool, bool) {
	r := e.core.Find(nil, h, rewrap(key, "*"), cacheRead, opts)
	if r.Deferred {
		return r, false, true
	}
	if r.HasPayload {
		if sink != nil {
			sink.Push(expand.Var{Value: key.Value(), Length: len(key.Value())})
			sink.Push(expand.Var{Value: key.Value(), Length: 0})
		}
		return r, true, false
	}
	return core.FindResult{}, false, false
}

// rewrap produces a taint.String for a derived lookup key (affix-prefixed
// or star-substituted), preserving the original key's taint state: a
// value built from a tainted key is itself untrusted until a lookup
// validates it.
func rewrap(original taint.String, value string) taint.String {
	if original.IsTainted() {
		return taint.Tainted(value)
	}
	return taint.Clean(value)
}

// preprocessOpts implements spec.md §4.7's options preprocessing: split on
// commas, peel off ret=key and cache=no_rd, reassemble the rest.
func preprocessOpts(raw *string) (retKey, cacheNoRd bool, forwarded *string) {
	if raw == nil {
		return false, false, nil
	}
	var kept []string
	for _, part := range strings.Split(*raw, ",") {
		switch part {
		case "ret=key":
			retKey = true
		case "cache=no_rd":
			cacheNoRd = true
		default:
			kept = append(kept, part)
		}
	}
	if len(kept) == 0 {
		return retKey, cacheNoRd, nil
	}
	joined := strings.Join(kept, ",")
	return retKey, cacheNoRd, &joined
}
