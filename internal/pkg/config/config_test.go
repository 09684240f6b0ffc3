package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Client.APIURL != "http://localhost:8080/api" {
		t.Fatalf("unexpected api url %q", cfg.Client.APIURL)
	}
	if cfg.Client.RequestTimeout != 10*time.Second {
		t.Fatalf("unexpected timeout %v", cfg.Client.RequestTimeout)
	}
	if cfg.Server.Port != "8080" || cfg.Server.StoreDriver != DriverMongo {
		t.Fatalf("unexpected server config %+v", cfg.Server)
	}
	if cfg.Session.TTL != 24*time.Hour || cfg.Session.CookieName != "tasktrack_session" {
		t.Fatalf("unexpected session config %+v", cfg.Session)
	}
}

func TestLoadFrom_Overrides(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"API_URL":         "http://api.test/api",
		"REQUEST_TIMEOUT": "3s",
		"STORE_DRIVER":    "memory",
		"SESSION_SECRET":  "s3cret",
		"REDIS_DB":        "2",
		"REDIS_PASSWORD":  "pw",
		"REDIS_TIMEOUT":   "750ms",
		"CORS_ORIGINS":    "http://a.test,http://b.test",
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Client.APIURL != "http://api.test/api" || cfg.Client.RequestTimeout != 3*time.Second {
		t.Fatalf("client overrides not applied: %+v", cfg.Client)
	}
	if len(cfg.Server.CORSOrigins) != 2 || cfg.Server.CORSOrigins[1] != "http://b.test" {
		t.Fatalf("unexpected cors origins %v", cfg.Server.CORSOrigins)
	}
	if cfg.Redis.DB != 2 || cfg.Redis.Password != "pw" || cfg.Redis.Timeout != 750*time.Millisecond {
		t.Fatalf("redis overrides not applied: %+v", cfg.Redis)
	}
	if err := cfg.ValidateServer(); err != nil {
		t.Fatalf("expected valid server config, got %v", err)
	}
}

func TestValidateServer(t *testing.T) {
	cfg := &Config{Server: ServerConfig{StoreDriver: DriverMemory}}
	if err := cfg.ValidateServer(); err == nil {
		t.Fatalf("expected missing secret error")
	}

	cfg.Session.Secret = "x"
	cfg.Server.StoreDriver = "sqlite"
	if err := cfg.ValidateServer(); err == nil {
		t.Fatalf("expected unknown driver error")
	}
}

func TestLoadFrom_BadDuration(t *testing.T) {
	_, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"REQUEST_TIMEOUT": "soon",
	}))
	if err == nil {
		t.Fatalf("expected parse error")
	}
}
