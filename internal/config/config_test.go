package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := defaults()

	if cfg.Store.Path != "data/swarmbase.db" {
		t.Errorf("expected store path data/swarmbase.db, got %s", cfg.Store.Path)
	}
	if cfg.Web.Port != 5000 {
		t.Errorf("expected web port 5000, got %d", cfg.Web.Port)
	}
	if !cfg.Web.Enabled {
		t.Error("expected web enabled by default")
	}
	if cfg.NATS.Port != 4222 {
		t.Errorf("expected nats port 4222, got %d", cfg.NATS.Port)
	}
	if cfg.Workspaces.BasePath != "workspaces" {
		t.Errorf("expected workspaces base path workspaces, got %s", cfg.Workspaces.BasePath)
	}
	if cfg.LLM.DefaultModel != "gpt-4o" {
		t.Errorf("expected default model gpt-4o, got %s", cfg.LLM.DefaultModel)
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	// Point config to a non-existent file so we use defaults
	t.Setenv("SWARMBASE_CONFIG", "/nonexistent/config.yaml")
	t.Setenv("SWARMBASE_STORE_PATH", "/tmp/other.db")
	t.Setenv("SWARMBASE_WEB_PORT", "9090")
	t.Setenv("SWARMBASE_WEB_PASSWORD", "secret")
	t.Setenv("SWARMBASE_VAULT_PASSPHRASE", "hunter2")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Store.Path != "/tmp/other.db" {
		t.Errorf("expected store path /tmp/other.db, got %s", cfg.Store.Path)
	}
	if cfg.Web.Port != 9090 {
		t.Errorf("expected web port 9090, got %d", cfg.Web.Port)
	}
	if cfg.Web.Auth != "secret" {
		t.Errorf("expected web auth secret, got %s", cfg.Web.Auth)
	}
	if cfg.Vault.Passphrase != "hunter2" {
		t.Errorf("expected vault passphrase hunter2, got %s", cfg.Vault.Passphrase)
	}
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")

	yaml := `
store:
  path: "custom/swarm.db"
web:
  port: 3000
  enabled: false
workspaces:
  base_path: "/srv/workspaces"
llm:
  default_model: "claude-2"
`
	if err := os.WriteFile(cfgPath, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("SWARMBASE_CONFIG", cfgPath)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Store.Path != "custom/swarm.db" {
		t.Errorf("expected custom/swarm.db, got %s", cfg.Store.Path)
	}
	if cfg.Web.Port != 3000 {
		t.Errorf("expected web port 3000, got %d", cfg.Web.Port)
	}
	if cfg.Web.Enabled {
		t.Error("expected web disabled")
	}
	if cfg.Workspaces.BasePath != "/srv/workspaces" {
		t.Errorf("expected /srv/workspaces, got %s", cfg.Workspaces.BasePath)
	}
	if cfg.LLM.DefaultModel != "claude-2" {
		t.Errorf("expected claude-2, got %s", cfg.LLM.DefaultModel)
	}
}
