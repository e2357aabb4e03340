package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

func writeConfigFile(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoadConfigDefaultsMaxOpenFiles(t *testing.T) {
	path := writeConfigFile(t, "app_name: lookup\n")
	v = viper.New()
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.MaxOpenFiles != 128 {
		t.Fatalf("expected default MaxOpenFiles=128, got %d", cfg.MaxOpenFiles)
	}
}

func TestLoadConfigReadsBackendBlocks(t *testing.T) {
	path := writeConfigFile(t, `
app_name: lookup
max_open_files: 64
strict_taint: true
mysql:
  source: "user:pass@tcp(localhost:3306)/db"
redis:
  addr: "localhost:6379"
  db: 2
`)
	v = viper.New()
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.MaxOpenFiles != 64 {
		t.Fatalf("expected MaxOpenFiles=64, got %d", cfg.MaxOpenFiles)
	}
	if !cfg.StrictTaint {
		t.Fatal("expected StrictTaint=true")
	}
	if cfg.MySQL.Source == "" {
		t.Fatal("expected mysql.source to be populated")
	}
	if cfg.Redis.Addr != "localhost:6379" || cfg.Redis.Db != 2 {
		t.Fatalf("expected redis config populated, got %+v", cfg.Redis)
	}
}
