package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "storefront.yml")
	data := []byte(`
system:
  workdir: ` + dir + `
web:
  port: 9090
remote:
  base_url: https://tables.example.com
  tables:
    products: Products
cart:
  storage: bolt
`)
	if err := os.WriteFile(file, data, 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("STOREFRONT_REMOTE_TOKEN", "abc")
	t.Setenv("STOREFRONT_CART_IDLE_MINUTES", "30")
	t.Setenv("STOREFRONT_WEB_PORT", "not-a-number")

	cfg, err := LoadConfig(file)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Web.Port != 9090 {
		t.Fatalf("port %d, want 9090", cfg.Web.Port)
	}
	if cfg.Remote.BaseURL != "https://tables.example.com" || cfg.Remote.Tables.Products != "Products" {
		t.Fatalf("remote %+v", cfg.Remote)
	}
	if cfg.Remote.Tables.Therapies != DefaultAppConfig.Remote.Tables.Therapies {
		t.Fatalf("unset table lost its default: %q", cfg.Remote.Tables.Therapies)
	}
	if cfg.Remote.Token != "abc" || cfg.Cart.IdleMinutes != 30 || cfg.Cart.Storage != "bolt" {
		t.Fatalf("env overrides not applied: %+v", cfg.Cart)
	}
	if _, err := os.Stat(cfg.GetDataDir()); err != nil {
		t.Fatalf("data dir not created: %v", err)
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yml")); err == nil {
		t.Fatalf("expected error")
	}
}
