package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

// envVars lists every env var Load reads; each test starts with them cleared.
var envVars = []string{
	"EDGEEXT_ORG_ID", "EDGEEXT_NATS_URL", "EDGEEXT_FLUSH_TIMEOUT", "EDGEEXT_PROFILE",
	"EDGEEXT_S3_BUCKET", "EDGEEXT_S3_ENDPOINT", "EDGEEXT_S3_REGION", "EDGEEXT_S3_KEY",
}

func clearAllEnv(t *testing.T) {
	t.Helper()
	for _, key := range envVars {
		t.Setenv(key, "")
	}
	// Keep the developer's real profile out of the tests.
	t.Setenv("HOME", t.TempDir())
}

func writeProfile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profile.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write profile: %v", err)
	}
	return path
}

const testProfile = `
org_id = "PROFILE@AdobeOrg"
reserved_names = ["myGlobal"]

[data_elements]
containerId = 12
consent = "all"
`

func TestLoadDefaults(t *testing.T) {
	clearAllEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.S3Region != "us-east-1" {
		t.Errorf("S3Region = %q, want %q", cfg.S3Region, "us-east-1")
	}
	if cfg.S3Key != "edgeext/settings.json" {
		t.Errorf("S3Key = %q, want %q", cfg.S3Key, "edgeext/settings.json")
	}
	if cfg.FlushTimeout != 5*time.Second {
		t.Errorf("FlushTimeout = %v, want 5s", cfg.FlushTimeout)
	}
	if filepath.Base(cfg.ProfilePath) != "profile.toml" {
		t.Errorf("ProfilePath = %q", cfg.ProfilePath)
	}
	if cfg.OrgID != "" || cfg.NATSURL != "" || cfg.S3Bucket != "" {
		t.Errorf("expected empty optional settings, got %+v", cfg)
	}
}

func TestLoadCustom(t *testing.T) {
	clearAllEnv(t)
	t.Setenv("EDGEEXT_NATS_URL", "nats://localhost:4222")
	t.Setenv("EDGEEXT_FLUSH_TIMEOUT", "250ms")
	t.Setenv("EDGEEXT_S3_BUCKET", "my-bucket")
	t.Setenv("EDGEEXT_S3_ENDPOINT", "http://minio:9000")
	t.Setenv("EDGEEXT_S3_REGION", "eu-west-1")
	t.Setenv("EDGEEXT_S3_KEY", "custom/settings.json")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.NATSURL != "nats://localhost:4222" {
		t.Errorf("NATSURL = %q", cfg.NATSURL)
	}
	if cfg.FlushTimeout != 250*time.Millisecond {
		t.Errorf("FlushTimeout = %v", cfg.FlushTimeout)
	}
	if cfg.S3Bucket != "my-bucket" {
		t.Errorf("S3Bucket = %q", cfg.S3Bucket)
	}
	if cfg.S3Endpoint != "http://minio:9000" {
		t.Errorf("S3Endpoint = %q", cfg.S3Endpoint)
	}
	if cfg.S3Region != "eu-west-1" {
		t.Errorf("S3Region = %q", cfg.S3Region)
	}
	if cfg.S3Key != "custom/settings.json" {
		t.Errorf("S3Key = %q", cfg.S3Key)
	}
}

func TestLoadInvalidFlushTimeout(t *testing.T) {
	clearAllEnv(t)
	t.Setenv("EDGEEXT_FLUSH_TIMEOUT", "soon")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid EDGEEXT_FLUSH_TIMEOUT")
	}
}

func TestLoadProfile(t *testing.T) {
	clearAllEnv(t)
	t.Setenv("EDGEEXT_PROFILE", writeProfile(t, testProfile))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.OrgID != "PROFILE@AdobeOrg" {
		t.Errorf("OrgID = %q, want profile org", cfg.OrgID)
	}
	if got := cfg.Defaults().Clone().OrganizationID; got != "PROFILE@AdobeOrg" {
		t.Errorf("default organization = %q", got)
	}

	checker := cfg.NameChecker()
	for _, name := range []string{"myGlobal", "window"} {
		if !checker.IsGlobalNameTaken(name) {
			t.Errorf("expected %q to be reserved", name)
		}
	}
	if checker.IsGlobalNameTaken("alloy") {
		t.Error("alloy should not be reserved")
	}

	v, ok := cfg.Resolver().Resolve("consent")
	if !ok || v != "all" {
		t.Errorf("Resolve(consent) = %v, %v", v, ok)
	}
}

func TestLoadEnvOverridesProfile(t *testing.T) {
	clearAllEnv(t)
	t.Setenv("EDGEEXT_PROFILE", writeProfile(t, testProfile))
	t.Setenv("EDGEEXT_ORG_ID", "ENV@AdobeOrg")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.OrgID != "ENV@AdobeOrg" {
		t.Errorf("OrgID = %q, want env org", cfg.OrgID)
	}
}

func TestLoadMalformedProfile(t *testing.T) {
	clearAllEnv(t)
	t.Setenv("EDGEEXT_PROFILE", writeProfile(t, "org_id = ["))

	if _, err := Load(); err == nil {
		t.Fatal("expected error for malformed profile")
	}
}

func TestLoadProfileMissingFile(t *testing.T) {
	p, err := LoadProfile(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff(Profile{}, p); diff != "" {
		t.Errorf("expected empty profile (-want +got):\n%s", diff)
	}
}

func TestSaveProfileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "profile.toml")
	want := Profile{
		OrgID:         "ORG@AdobeOrg",
		ReservedNames: []string{"a", "b"},
		DataElements:  map[string]any{"consent": "none"},
	}
	if err := SaveProfile(path, want); err != nil {
		t.Fatalf("SaveProfile: %v", err)
	}
	got, err := LoadProfile(path)
	if err != nil {
		t.Fatalf("LoadProfile: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("profile mismatch (-want +got):\n%s", diff)
	}
}

func TestEnvOrDefault(t *testing.T) {
	for _, tc := range []struct {
		name     string
		key      string
		envVal   string
		fallback string
		want     string
	}{
		{"EmptyUsesDefault", "TEST_ENVDEFAULT_EMPTY", "", "default-val", "default-val"},
		{"SetUsesEnv", "TEST_ENVDEFAULT_SET", "custom", "default-val", "custom"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.key, tc.envVal)
			got := envOrDefault(tc.key, tc.fallback)
			if got != tc.want {
				t.Errorf("envOrDefault(%q, %q) = %q, want %q", tc.key, tc.fallback, got, tc.want)
			}
		})
	}
}
