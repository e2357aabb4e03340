// Package typespec parses the lookup-type mini-syntax call sites use,
// per spec.md §4.2:
//
//	type       := partial? basename star? options?
//	partial    := "partial" digits? ( "(" affix ")" | "-" )
//	star       := "*" | "*@"
//	options    := "," raw-to-end
//
// There is no precedent for this grammar in ncobase/ncore — its config
// parsing (data/config/*.go) is all structured YAML/env via viper, never
// a hand-rolled mini-language — so this parser is built from scratch in
// the same error-handling idiom as data/*/driver.go (sentinel errors
// wrapped with fmt.Errorf) rather than grounded on a specific file.
package typespec

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ncobase/lookup/driver"
	"github.com/ncobase/lookup/registry"
)

// ErrMalformed is wrapped into a descriptive error for any grammar violation.
var ErrMalformed = errors.New("typespec: malformed lookup type")

// Spec is the parsed result of a lookup-type string.
type Spec struct {
	DriverIndex int
	Partial     int    // -1 = disabled
	Affix       string // "" if partial disabled or affix explicitly empty
	Star        bool
	StarAt      bool
	Opts        *string // nil if no options clause present
}

// Parse parses full, a decorated lookup-type string such as
// "partial2(*.)lsearch*@,ret=key", into a Spec.
func Parse(full string) (Spec, error) {
	s := Spec{Partial: -1}
	rest := full

	if strings.HasPrefix(rest, "partial") {
		rest = rest[len("partial"):]

		n, nRest, err := takeDigits(rest)
		if err != nil {
			return Spec{}, err
		}
		rest = nRest
		partial := 2
		if n != "" {
			v, err := strconv.Atoi(n)
			if err != nil || v < 0 {
				return Spec{}, fmt.Errorf("%w: bad partial count %q", ErrMalformed, n)
			}
			partial = v
		}
		s.Partial = partial

		switch {
		case strings.HasPrefix(rest, "-"):
			rest = rest[1:]
			s.Affix = "*."
		case strings.HasPrefix(rest, "("):
			affix, nRest, err := takeAffix(rest)
			if err != nil {
				return Spec{}, err
			}
			s.Affix = affix
			rest = nRest
		default:
			return Spec{}, fmt.Errorf("%w: \"partial\" must be followed by \"-\" or \"(affix)\"", ErrMalformed)
		}
	}

	basename, rest := takeBasename(rest)
	if basename == "" {
		return Spec{}, fmt.Errorf("%w: empty lookup type name", ErrMalformed)
	}

	switch {
	case strings.HasPrefix(rest, "*@"):
		s.StarAt = true
		rest = rest[2:]
	case strings.HasPrefix(rest, "*"):
		s.Star = true
		rest = rest[1:]
	}

	if strings.HasPrefix(rest, ",") {
		opts := rest[1:]
		s.Opts = &opts
		rest = ""
	}

	if rest != "" {
		return Spec{}, fmt.Errorf("%w: unexpected trailing %q", ErrMalformed, rest)
	}

	idx, err := registry.FindByName(basename)
	if err != nil {
		return Spec{}, err
	}
	s.DriverIndex = idx

	desc := registry.Get(idx)
	if desc.Style == driver.StyleQuery && (s.Partial >= 0 || s.Star || s.StarAt) {
		return Spec{}, fmt.Errorf("%w: query-style driver %q may not use partial or star matching", ErrMalformed, desc.Name)
	}
	if !desc.Capabilities.SupportsPartial && s.Partial >= 0 {
		return Spec{}, fmt.Errorf("%w: driver %q does not support partial matching", ErrMalformed, desc.Name)
	}

	return s, nil
}

// takeDigits consumes a leading run of ASCII digits, returning them and the remainder.
func takeDigits(s string) (digits, rest string, err error) {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	return s[:i], s[i:], nil
}

// takeAffix parses "(AFFIX)" per spec.md §4.2: AFFIX characters are
// restricted to punctuation other than ')', captured verbatim.
func takeAffix(s string) (affix, rest string, err error) {
	if len(s) == 0 || s[0] != '(' {
		return "", "", fmt.Errorf("%w: expected '(' to start affix", ErrMalformed)
	}
	end := strings.IndexByte(s, ')')
	if end < 0 {
		return "", "", fmt.Errorf("%w: unterminated affix, missing ')'", ErrMalformed)
	}
	affix = s[1:end]
	for _, r := range affix {
		if !isAffixPunct(r) {
			return "", "", fmt.Errorf("%w: invalid affix character %q", ErrMalformed, r)
		}
	}
	return affix, s[end+1:], nil
}

// isAffixPunct reports whether r is allowed inside an explicit affix:
// ASCII punctuation other than ')'. '*' and '.' (the common affix chars)
// fall under this, as do others like '-' or '_'.
func isAffixPunct(r rune) bool {
	if r == ')' {
		return false
	}
	return (r >= '!' && r <= '/') || (r >= ':' && r <= '@') || (r >= '[' && r <= '`') || (r >= '{' && r <= '~')
}

// takeBasename consumes everything up to the first '*' or ',' (or end of string).
func takeBasename(s string) (name, rest string) {
	i := strings.IndexAny(s, "*,")
	if i < 0 {
		return s, ""
	}
	return s[:i], s[i:]
}

// Canonical reconstructs the decorated type-spec string a Spec was parsed
// from, in canonical form. Used to verify parse_type's round-trip law
// (spec.md §8): canonical(parse(full)) parses to an equivalent Spec.
func Canonical(s Spec, basename string) string {
	var b strings.Builder
	if s.Partial >= 0 {
		b.WriteString("partial")
		if s.Partial != 2 {
			b.WriteString(strconv.Itoa(s.Partial))
		}
		if s.Affix == "*." {
			b.WriteString("-")
		} else {
			b.WriteString("(")
			b.WriteString(s.Affix)
			b.WriteString(")")
		}
	}
	b.WriteString(basename)
	switch {
	case s.StarAt:
		b.WriteString("*@")
	case s.Star:
		b.WriteString("*")
	}
	if s.Opts != nil {
		b.WriteString(",")
		b.WriteString(*s.Opts)
	}
	return b.String()
}
