package dbmfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ncobase/lookup/driver"
)

func writeFile(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "users")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestOpenIndexesFile(t *testing.T) {
	path := writeFile(t, "alice: 1001\nbob:1002\n")
	d := &dbmfileDriver{}
	h, err := d.Open(context.Background(), path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	idx := h.(*handle)
	if len(idx.index) != 2 {
		t.Fatalf("expected 2 indexed entries, got %d", len(idx.index))
	}
}

func TestFindHitAndMiss(t *testing.T) {
	path := writeFile(t, "alice: 1001\n")
	d := &dbmfileDriver{}
	h, err := d.Open(context.Background(), path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	reply := d.Find(context.Background(), driver.FindArgs{Handle: h, Key: "alice"})
	if reply.Result != driver.OK || reply.Payload != "1001" {
		t.Fatalf("expected OK/1001, got %+v", reply)
	}

	reply = d.Find(context.Background(), driver.FindArgs{Handle: h, Key: "nobody"})
	if reply.Result != driver.Fail {
		t.Fatalf("expected Fail for unknown key, got %+v", reply)
	}
}
