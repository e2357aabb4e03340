package postgres

import (
	"testing"

	"github.com/ncobase/lookup/driver"
	"github.com/ncobase/lookup/registry"
)

func TestRegisteredAsQueryStyle(t *testing.T) {
	idx, err := registry.FindByName("postgres")
	if err != nil {
		t.Fatalf("FindByName: %v", err)
	}
	desc := registry.Get(idx)
	if desc.Style != driver.StyleQuery {
		t.Fatalf("expected query style, got %v", desc.Style)
	}
	if !desc.Capabilities.SupportsQuoting {
		t.Fatal("expected SupportsQuoting")
	}
}

func TestQuoteDelegatesToPostgresStyle(t *testing.T) {
	d := &postgresDriver{}
	quoted, ok := d.Quote(`O'Brien`)
	if !ok || quoted != `O''Brien` {
		t.Fatalf("got (%q, %v)", quoted, ok)
	}
}
