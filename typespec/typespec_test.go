package typespec

import (
	"context"
	"testing"

	"github.com/ncobase/lookup/driver"
	"github.com/ncobase/lookup/registry"
)

type stubDriver struct{}

func (stubDriver) Open(ctx context.Context, filename string) (any, error) { return nil, nil }
func (stubDriver) Check(ctx context.Context, args driver.CheckArgs) error { return nil }
func (stubDriver) Find(ctx context.Context, args driver.FindArgs) driver.FindReply {
	return driver.FindReply{Result: driver.Fail}
}
func (stubDriver) Close(handle any) error       { return nil }
func (stubDriver) Tidy()                        {}
func (stubDriver) Quote(s string) (string, bool) { return s, false }

func registerTestDrivers(t *testing.T) {
	t.Helper()
	if _, err := registry.FindByName("lsearch"); err != nil {
		registry.Register(registry.Descriptor{
			Name:         "lsearch",
			Style:        driver.StyleSingleKeyFile,
			Capabilities: driver.Capabilities{SupportsPartial: true, IsFileBacked: true},
			Driver:       stubDriver{},
		})
	}
	if _, err := registry.FindByName("mysql"); err != nil {
		registry.Register(registry.Descriptor{
			Name:         "mysql",
			Style:        driver.StyleQuery,
			Capabilities: driver.Capabilities{SupportsQuoting: true},
			Driver:       stubDriver{},
		})
	}
}

func TestParsePartialDashDefaultAffix(t *testing.T) {
	registerTestDrivers(t)
	s, err := Parse("partial2-lsearch*@,ret=key")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if s.Partial != 2 || s.Affix != "*." || !s.StarAt || s.Star {
		t.Fatalf("got %+v", s)
	}
	if s.Opts == nil || *s.Opts != "ret=key" {
		t.Fatalf("opts = %v", s.Opts)
	}
}

func TestParseExplicitAffix(t *testing.T) {
	registerTestDrivers(t)
	s, err := Parse("partial(*.)lsearch")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if s.Partial != 2 || s.Affix != "*." {
		t.Fatalf("got %+v", s)
	}
}

func TestParseNoPartial(t *testing.T) {
	registerTestDrivers(t)
	s, err := Parse("lsearch")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if s.Partial != -1 {
		t.Fatalf("expected disabled partial, got %d", s.Partial)
	}
}

func TestParseQueryStyleRejectsPartial(t *testing.T) {
	registerTestDrivers(t)
	if _, err := Parse("partial2-mysql"); err == nil {
		t.Fatal("expected error for partial on query-style driver")
	}
	if _, err := Parse("mysql*"); err == nil {
		t.Fatal("expected error for star on query-style driver")
	}
}

func TestParseUnknownType(t *testing.T) {
	registerTestDrivers(t)
	if _, err := Parse("nosuchdriver"); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestParseMalformedPartial(t *testing.T) {
	registerTestDrivers(t)
	if _, err := Parse("partiallsearch"); err == nil {
		t.Fatal("expected malformed error: partial requires '-' or '(affix)'")
	}
}

func TestCanonicalRoundTrip(t *testing.T) {
	registerTestDrivers(t)
	for _, in := range []string{"partial2-lsearch*@,ret=key", "lsearch*", "lsearch"} {
		s, err := Parse(in)
		if err != nil {
			t.Fatalf("Parse(%q): %v", in, err)
		}
		canon := Canonical(s, "lsearch")
		s2, err := Parse(canon)
		if err != nil {
			t.Fatalf("Parse(Canonical(%q))=%q: %v", in, canon, err)
		}
		if !specsEqual(s, s2) {
			t.Fatalf("round trip mismatch for %q: %+v vs %+v (canon %q)", in, s, s2, canon)
		}
	}
}

func specsEqual(a, b Spec) bool {
	if a.DriverIndex != b.DriverIndex || a.Partial != b.Partial || a.Affix != b.Affix ||
		a.Star != b.Star || a.StarAt != b.StarAt {
		return false
	}
	if (a.Opts == nil) != (b.Opts == nil) {
		return false
	}
	return a.Opts == nil || *a.Opts == *b.Opts
}
