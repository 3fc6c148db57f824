package config

import (
	"path/filepath"
	"testing"
)

func TestLoad_ConfigYAML(t *testing.T) {
	path := filepath.Join("..", "..", "config.yaml")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Database.Host == "" {
		t.Fatalf("expected database.host to be set")
	}
	if cfg.Server.Port == 0 {
		t.Fatalf("expected server.port to be set")
	}
	if cfg.RabbitMQ.Port == 0 {
		t.Fatalf("expected rabbitmq.port to be set")
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "no-such-config.yaml"))
	if err != nil {
		t.Fatalf("Load returned error for missing file: %v", err)
	}
	if cfg.Database.Port != 5432 {
		t.Errorf("expected default database port 5432, got %d", cfg.Database.Port)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("DB_HOST", "db.example.internal")
	t.Setenv("DB_PORT", "6543")

	cfg, err := Load(filepath.Join("..", "..", "config.yaml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Database.Host != "db.example.internal" {
		t.Errorf("expected env override for host, got %q", cfg.Database.Host)
	}
	if cfg.Database.Port != 6543 {
		t.Errorf("expected env override for port, got %d", cfg.Database.Port)
	}
}
