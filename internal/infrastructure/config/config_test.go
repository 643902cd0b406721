package config

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.StoreDriver != StoreDriverMongo {
		t.Errorf("store driver = %q, want mongo default", cfg.StoreDriver)
	}
	if cfg.MongoConnectTimeout != 10*time.Second {
		t.Errorf("mongo connect timeout = %v, want 10s", cfg.MongoConnectTimeout)
	}
	if cfg.ProbeURL == "" {
		t.Error("probe url default missing")
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", StoreDriverMemory)
	t.Setenv("MONGO_CONNECT_TIMEOUT", "3")
	t.Setenv("PARTNER_API_URL", "http://partner.example/api/v1/")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.StoreDriver != StoreDriverMemory {
		t.Errorf("store driver = %q", cfg.StoreDriver)
	}
	if cfg.MongoConnectTimeout != 3*time.Second {
		t.Errorf("mongo connect timeout = %v, want 3s", cfg.MongoConnectTimeout)
	}
	if got := cfg.Endpoints().SeasonListURL(); got != "http://partner.example/api/v1/Season" {
		t.Errorf("season url = %q, trailing slash must be trimmed", got)
	}
}
