package sqlite

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("SHALA_DB_CONFIG_FILE", "")
	t.Setenv("SHALA_DB_PATH", "")
	t.Setenv("SHALA_DB_MAX_OPEN_CONNS", "")
	t.Setenv("SHALA_DB_MAX_IDLE_CONNS", "")
	t.Setenv("SHALA_DB_BUSY_TIMEOUT", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.MaxOpenConns != 4 || cfg.MaxIdleConns != 4 {
		t.Fatalf("conn defaults = %d/%d", cfg.MaxOpenConns, cfg.MaxIdleConns)
	}
	if cfg.BusyTimeout != 5*time.Second {
		t.Fatalf("busy timeout default = %s", cfg.BusyTimeout)
	}
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "db.json")
	payload := `{"path":"/from/file.db","max_open_conns":2,"busy_timeout":"1s"}`
	if err := os.WriteFile(file, []byte(payload), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	t.Setenv("SHALA_DB_CONFIG_FILE", file)
	t.Setenv("SHALA_DB_PATH", "/from/env.db")
	t.Setenv("SHALA_DB_MAX_OPEN_CONNS", "8")
	t.Setenv("SHALA_DB_MAX_IDLE_CONNS", "")
	t.Setenv("SHALA_DB_BUSY_TIMEOUT", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Path != "/from/env.db" {
		t.Fatalf("path = %q, want env value", cfg.Path)
	}
	if cfg.MaxOpenConns != 8 {
		t.Fatalf("max open conns = %d, want env value", cfg.MaxOpenConns)
	}
	if cfg.BusyTimeout != time.Second {
		t.Fatalf("busy timeout = %s, want file value", cfg.BusyTimeout)
	}
}

func TestLoadConfigRejectsBadEnv(t *testing.T) {
	t.Setenv("SHALA_DB_CONFIG_FILE", "")
	t.Setenv("SHALA_DB_MAX_OPEN_CONNS", "lots")
	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestConfigMerge(t *testing.T) {
	base := Config{Path: "base.db", MaxOpenConns: 2, BusyTimeout: time.Second}
	merged := base.Merge(Config{Path: "  override.db  ", MaxIdleConns: 3})
	if merged.Path != "override.db" {
		t.Fatalf("path = %q", merged.Path)
	}
	if merged.MaxOpenConns != 2 || merged.MaxIdleConns != 3 {
		t.Fatalf("conns = %d/%d", merged.MaxOpenConns, merged.MaxIdleConns)
	}
	if merged.BusyTimeout != time.Second {
		t.Fatalf("busy timeout = %s", merged.BusyTimeout)
	}
}
