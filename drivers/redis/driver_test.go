package redis

import (
	"context"
	"testing"

	"github.com/ncobase/lookup/driver"
	"github.com/ncobase/lookup/registry"
)

func TestRegisteredAsQueryStyleNoQuoting(t *testing.T) {
	idx, err := registry.FindByName("redis")
	if err != nil {
		t.Fatalf("FindByName: %v", err)
	}
	desc := registry.Get(idx)
	if desc.Style != driver.StyleQuery {
		t.Fatalf("expected query style, got %v", desc.Style)
	}
	if desc.Capabilities.SupportsQuoting {
		t.Fatal("redis does not support quoting")
	}
}

func TestOpenRejectsNoAddress(t *testing.T) {
	activeConfig = Config{}
	d := &redisDriver{}
	if _, err := d.Open(context.Background(), ""); err == nil {
		t.Fatal("expected error opening with no address configured")
	}
}
