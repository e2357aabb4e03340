package mysql

import (
	"testing"

	"github.com/ncobase/lookup/driver"
	"github.com/ncobase/lookup/registry"
)

func TestRegisteredAsQueryStyle(t *testing.T) {
	idx, err := registry.FindByName("mysql")
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
	if desc.Capabilities.IsFileBacked {
		t.Fatal("mysql is not file-backed")
	}
}

func TestQuoteDelegatesToMySQLStyle(t *testing.T) {
	d := &mysqlDriver{}
	quoted, ok := d.Quote(`O'Brien`)
	if !ok || quoted != `O\'Brien` {
		t.Fatalf("got (%q, %v)", quoted, ok)
	}
}
