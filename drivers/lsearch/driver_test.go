package lsearch

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

func TestOpenMissingFile(t *testing.T) {
	d := &lsearchDriver{}
	if _, err := d.Open(context.Background(), "/nonexistent/path"); err == nil {
		t.Fatal("expected error opening a missing file")
	}
}

func TestFindHitAndMiss(t *testing.T) {
	path := writeFile(t, "# comment\nalice: 1001\nbob:1002\n")
	d := &lsearchDriver{}
	h, err := d.Open(context.Background(), path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	reply := d.Find(context.Background(), driver.FindArgs{Handle: h, Key: "alice"})
	if reply.Result != driver.OK || reply.Payload != "1001" {
		t.Fatalf("expected OK/1001, got %+v", reply)
	}

	reply = d.Find(context.Background(), driver.FindArgs{Handle: h, Key: "bob"})
	if reply.Result != driver.OK || reply.Payload != "1002" {
		t.Fatalf("expected OK/1002, got %+v", reply)
	}

	reply = d.Find(context.Background(), driver.FindArgs{Handle: h, Key: "carol"})
	if reply.Result != driver.Fail {
		t.Fatalf("expected Fail for unknown key, got %+v", reply)
	}
}

func TestCheckRejectsDisallowedMode(t *testing.T) {
	path := writeFile(t, "alice: 1001\n")
	if err := os.Chmod(path, 0o666); err != nil {
		t.Fatalf("Chmod: %v", err)
	}
	d := &lsearchDriver{}
	err := d.Check(context.Background(), driver.CheckArgs{Filename: path, ModeMask: 0o600})
	if err == nil {
		t.Fatal("expected Check to reject world-writable file outside the mode mask")
	}
}
