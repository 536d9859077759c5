package config

import "testing"

func TestRegistrationDefaults(t *testing.T) {
	cfg := New()

	if len(cfg.ServiceTags) != 2 || cfg.ServiceTags[0] != "tenancy" || cfg.ServiceTags[1] != "rbac" {
		t.Errorf("Expected default tags [tenancy rbac], got %v", cfg.ServiceTags)
	}
	if cfg.HealthCheckPath != "/health" {
		t.Errorf("Expected default health check path /health, got %s", cfg.HealthCheckPath)
	}
}

func TestServiceTagsFromEnv(t *testing.T) {
	t.Setenv("TENANCY_SERVICE_TAGS", " tenancy, rbac ,internal,")

	cfg := New()

	if len(cfg.ServiceTags) != 3 {
		t.Fatalf("Expected 3 tags, got %v", cfg.ServiceTags)
	}
	for i, expected := range []string{"tenancy", "rbac", "internal"} {
		if cfg.ServiceTags[i] != expected {
			t.Errorf("Tag %d: expected %s, got %s", i, expected, cfg.ServiceTags[i])
		}
	}
}
