package config

import (
	"testing"
	"time"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "TZ", "DB_PATH", "DEVICE_ENDPOINT", "DEVICE_API_KEY", "DEVICE_TIMEOUT",
		"COMMIT_TIMEOUT", "COMMIT_RETRIES", "TEMPLATE_PATHS", "REQUIRE_OPERATOR"} {
		t.Setenv(k, "")
	}
	cfg := FromEnv()
	if cfg.Port != "8080" || cfg.Timezone != "UTC" || cfg.DBPath != "farmops.db" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.DeviceTimeout != 10*time.Second || cfg.CommitTimeout != 5*time.Second || cfg.CommitRetries != 3 {
		t.Fatalf("unexpected timing defaults %+v", cfg)
	}
	if cfg.DeviceEndpoint != "" || len(cfg.TemplatePaths) != 0 || cfg.RequireOperator {
		t.Fatalf("unexpected optional defaults %+v", cfg)
	}
	if cfg.Location() != time.UTC {
		t.Fatalf("expected UTC location, got %v", cfg.Location())
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DEVICE_ENDPOINT", "http://ctl.local/api/")
	t.Setenv("DEVICE_TIMEOUT", "2s")
	t.Setenv("COMMIT_TIMEOUT", "nonsense")
	t.Setenv("COMMIT_RETRIES", "0")
	t.Setenv("TEMPLATE_PATHS", " a.csv, ,b.yaml ")
	t.Setenv("REQUIRE_OPERATOR", "true")

	cfg := FromEnv()
	if cfg.Port != "9000" || cfg.DeviceEndpoint != "http://ctl.local/api" {
		t.Fatalf("unexpected cfg %+v", cfg)
	}
	if cfg.DeviceTimeout != 2*time.Second || cfg.CommitTimeout != 5*time.Second {
		t.Fatalf("unexpected timeouts %+v", cfg)
	}
	if cfg.CommitRetries != 0 {
		t.Fatalf("expected zero retries, got %d", cfg.CommitRetries)
	}
	if len(cfg.TemplatePaths) != 2 || cfg.TemplatePaths[0] != "a.csv" || cfg.TemplatePaths[1] != "b.yaml" {
		t.Fatalf("unexpected template paths %q", cfg.TemplatePaths)
	}
	if !cfg.RequireOperator {
		t.Fatal("expected RequireOperator")
	}
}
