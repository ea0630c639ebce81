package config_test

import (
	"testing"

	"github.com/aseed/a-seed/backend/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "OLLAMA_HOST", "MODEL_NAME", "NUM_CTX", "GEN_TEMP", "TOP_P", "DATA_DIR"} {
		t.Setenv(key, "")
	}

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}

	if cfg.Server.Addr != ":8000" {
		t.Fatalf("unexpected addr: %q", cfg.Server.Addr)
	}
	if cfg.AI.Host != "http://127.0.0.1:11434" {
		t.Fatalf("unexpected backend host: %q", cfg.AI.Host)
	}
	if cfg.AI.NumCtx != 4096 {
		t.Fatalf("unexpected num_ctx: %d", cfg.AI.NumCtx)
	}
	if cfg.AI.Temperature != 0.7 || cfg.AI.TopP != 0.9 {
		t.Fatalf("unexpected sampling defaults: %+v", cfg.AI)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "127.0.0.1:9001")
	t.Setenv("NUM_CTX", "8192")
	t.Setenv("GEN_TEMP", "0.2")
	t.Setenv("DATA_DIR", "/var/lib/aseed")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}

	if cfg.Server.Addr != "127.0.0.1:9001" {
		t.Fatalf("unexpected addr: %q", cfg.Server.Addr)
	}
	if cfg.AI.NumCtx != 8192 {
		t.Fatalf("unexpected num_ctx: %d", cfg.AI.NumCtx)
	}
	if cfg.AI.Temperature != 0.2 {
		t.Fatalf("unexpected temperature: %v", cfg.AI.Temperature)
	}
	if cfg.Store.SessionsDir() != "/var/lib/aseed/sessions" {
		t.Fatalf("unexpected sessions dir: %q", cfg.Store.SessionsDir())
	}
	if cfg.Store.UsersFile() != "/var/lib/aseed/users.json" {
		t.Fatalf("unexpected users file: %q", cfg.Store.UsersFile())
	}
}

func TestLoadRejectsBadNumbers(t *testing.T) {
	t.Setenv("NUM_CTX", "lots")
	if _, err := config.Load(); err == nil {
		t.Fatal("expected error for non-numeric NUM_CTX")
	}

	t.Setenv("NUM_CTX", "")
	t.Setenv("GEN_TEMP", "warm")
	if _, err := config.Load(); err == nil {
		t.Fatal("expected error for non-numeric GEN_TEMP")
	}
}
