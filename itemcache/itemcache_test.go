package itemcache

import "testing"

func TestLookupMissThenHit(t *testing.T) {
	c := New()
	if _, ok := c.Lookup("k", 100, nil, true); ok {
		t.Fatal("expected miss on empty cache")
	}
	c.Set("k", "v1", true, 0, nil)
	e, ok := c.Lookup("k", 100, nil, true)
	if !ok || e.Payload != "v1" {
		t.Fatalf("expected hit with v1, got %+v ok=%v", e, ok)
	}
}

func TestLookupExpiry(t *testing.T) {
	c := New()
	c.Set("k", "v1", true, 150, nil) // expires at t=150
	if _, ok := c.Lookup("k", 100, nil, true); !ok {
		t.Fatal("expected hit before expiry")
	}
	if _, ok := c.Lookup("k", 151, nil, true); ok {
		t.Fatal("expected miss after expiry")
	}
}

func TestLookupForever(t *testing.T) {
	c := New()
	c.Set("k", "v1", true, 0, nil) // expiry 0 = forever
	if _, ok := c.Lookup("k", 1<<40, nil, true); !ok {
		t.Fatal("expected hit, expiry 0 never expires")
	}
}

func TestLookupOptsFingerprintMismatch(t *testing.T) {
	c := New()
	o1 := "a=1"
	c.Set("k", "v1", true, 0, &o1)
	if _, ok := c.Lookup("k", 0, nil, true); ok {
		t.Fatal("expected miss: nil opts != recorded opts")
	}
	o2 := "a=2"
	if _, ok := c.Lookup("k", 0, &o2, true); ok {
		t.Fatal("expected miss: differing opts")
	}
	if _, ok := c.Lookup("k", 0, &o1, true); !ok {
		t.Fatal("expected hit: matching opts")
	}
}

func TestLookupCacheReadDisabled(t *testing.T) {
	c := New()
	c.Set("k", "v1", true, 0, nil)
	if _, ok := c.Lookup("k", 0, nil, false); ok {
		t.Fatal("expected miss when cacheRead is false")
	}
}

func TestDropAll(t *testing.T) {
	c := New()
	c.Set("k1", "v1", true, 0, nil)
	c.Set("k2", "v2", true, 0, nil)
	c.DropAll()
	if c.Len() != 0 {
		t.Fatalf("expected empty cache after DropAll, got %d", c.Len())
	}
}

func TestLookupAbsence(t *testing.T) {
	c := New()
	c.Set("k", "", false, 0, nil) // cached negative answer
	e, ok := c.Lookup("k", 0, nil, true)
	if !ok || e.HasPayload {
		t.Fatalf("expected cached absence, got %+v ok=%v", e, ok)
	}
}
