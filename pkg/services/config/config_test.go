package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestGetProfile_AllFields(t *testing.T) {
	path := writeFile(t, "credentials", `[default]
key_id    = ABC123DEFG
issuer_id = 57246542-96fe-1a63-e053-0824d011072a
vendor    = 85012345
key_path  = /keys/AuthKey_ABC123DEFG.p8
`)

	registry, err := NewRegistry(path)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	profile, err := registry.GetProfile(context.Background(), "default")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if profile.KeyID != "ABC123DEFG" {
		t.Errorf("expected KeyID=ABC123DEFG, got %s", profile.KeyID)
	}
	if profile.IssuerID != "57246542-96fe-1a63-e053-0824d011072a" {
		t.Errorf("unexpected IssuerID %s", profile.IssuerID)
	}
	if profile.Vendor != "85012345" {
		t.Errorf("expected Vendor=85012345, got %s", profile.Vendor)
	}
	if profile.KeyPath != "/keys/AuthKey_ABC123DEFG.p8" {
		t.Errorf("unexpected KeyPath %s", profile.KeyPath)
	}
}

func TestGetProfile_IncompleteIsFatal(t *testing.T) {
	path := writeFile(t, "credentials", `[default]
key_id = ABC123DEFG
`)

	registry, err := NewRegistry(path)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	_, err = registry.GetProfile(context.Background(), "default")
	if err == nil {
		t.Error("expected error for incomplete profile, got nil")
	}
}

func TestGetProfile_UnknownProfile(t *testing.T) {
	path := writeFile(t, "credentials", `[default]
key_id = A
`)

	registry, err := NewRegistry(path)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	_, err = registry.GetProfile(context.Background(), "other")
	if err == nil {
		t.Error("expected error for unknown profile, got nil")
	}
}

func TestGetProfiles_ListsSections(t *testing.T) {
	path := writeFile(t, "credentials", `[default]
key_id = A
[work]
key_id = B
`)

	registry, err := NewRegistry(path)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	profiles, err := registry.GetProfiles(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(profiles) != 2 {
		t.Fatalf("expected 2 profiles, got %d: %v", len(profiles), profiles)
	}
}

func TestLoadSettings_ValidYAML(t *testing.T) {
	path := writeFile(t, "settings.yaml", `target_currency: "EUR"
cache_path: "/tmp/cache.db"
rates_url: "https://rates.example.com"`)

	s, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if s.TargetCurrency != "EUR" {
		t.Errorf("expected TargetCurrency=EUR, got %s", s.TargetCurrency)
	}
	if s.CachePath != "/tmp/cache.db" {
		t.Errorf("unexpected CachePath %s", s.CachePath)
	}
	if s.RatesURL != "https://rates.example.com" {
		t.Errorf("unexpected RatesURL %s", s.RatesURL)
	}
}

func TestLoadSettings_DefaultsApplied(t *testing.T) {
	path := writeFile(t, "settings.yaml", `rates_url: "https://rates.example.com"`)

	s, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if s.TargetCurrency != "USD" {
		t.Errorf("expected default TargetCurrency=USD, got %s", s.TargetCurrency)
	}
	if s.CachePath != "proceeds-cache.db" {
		t.Errorf("expected default CachePath, got %s", s.CachePath)
	}
}

func TestLoadSettings_MissingFile(t *testing.T) {
	_, err := LoadSettings(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Error("expected error for missing settings file, got nil")
	}
}
