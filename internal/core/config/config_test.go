package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadYAMLWithDefaultsAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := []byte("app:\n  http:\n    port: 9090\ndb:\n  driver: postgres\n  dsn: host=db\n")
	if err := os.WriteFile(path, yaml, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("APP_JWT_SECRET", "from-env")

	c := Load(path)
	if c.App.HTTP.Port != 9090 {
		t.Errorf("port = %d, want 9090", c.App.HTTP.Port)
	}
	if c.DB.Driver != "postgres" || c.DB.DSN != "host=db" {
		t.Errorf("db = %+v", c.DB)
	}
	if c.App.Admin.Port != 8081 {
		t.Errorf("admin port default = %d, want 8081", c.App.Admin.Port)
	}
	if c.JWT.Issuer != "restaurant-forum" {
		t.Errorf("jwt issuer default = %q", c.JWT.Issuer)
	}
	if c.JWT.Secret != "from-env" {
		t.Errorf("jwt secret from env = %q", c.JWT.Secret)
	}
}
