package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/alfredjeanlab/edgeext/internal/model"
)

type Config struct {
	OrgID        string        // EDGEEXT_ORG_ID (overrides the profile's org_id)
	NATSURL      string        // EDGEEXT_NATS_URL (optional, empty = no events)
	FlushTimeout time.Duration // EDGEEXT_FLUSH_TIMEOUT (default 5s)
	ProfilePath  string        // EDGEEXT_PROFILE (default ~/.config/edgeext/profile.toml)

	// Export settings
	S3Bucket   string // EDGEEXT_S3_BUCKET (enables S3 when set)
	S3Endpoint string // EDGEEXT_S3_ENDPOINT (custom endpoint for MinIO)
	S3Region   string // EDGEEXT_S3_REGION (default "us-east-1")
	S3Key      string // EDGEEXT_S3_KEY (default "edgeext/settings.json")

	Profile Profile
}

// Profile is the session context normally supplied by the tag manager host:
// the organization of the current user, extra reserved global names, and the
// values data elements resolve to.
type Profile struct {
	OrgID         string         `toml:"org_id"`
	ReservedNames []string       `toml:"reserved_names,omitempty"`
	DataElements  map[string]any `toml:"data_elements,omitempty"`
}

func Load() (*Config, error) {
	c := &Config{
		NATSURL:     os.Getenv("EDGEEXT_NATS_URL"),
		ProfilePath: envOrDefault("EDGEEXT_PROFILE", defaultProfilePath()),
		S3Bucket:    os.Getenv("EDGEEXT_S3_BUCKET"),
		S3Endpoint:  os.Getenv("EDGEEXT_S3_ENDPOINT"),
		S3Region:    envOrDefault("EDGEEXT_S3_REGION", "us-east-1"),
		S3Key:       envOrDefault("EDGEEXT_S3_KEY", "edgeext/settings.json"),
	}

	d, err := time.ParseDuration(envOrDefault("EDGEEXT_FLUSH_TIMEOUT", "5s"))
	if err != nil {
		return nil, fmt.Errorf("EDGEEXT_FLUSH_TIMEOUT: %w", err)
	}
	c.FlushTimeout = d

	if c.ProfilePath != "" {
		p, err := LoadProfile(c.ProfilePath)
		if err != nil {
			return nil, fmt.Errorf("loading profile %s: %w", c.ProfilePath, err)
		}
		c.Profile = p
	}
	c.OrgID = envOrDefault("EDGEEXT_ORG_ID", c.Profile.OrgID)

	return c, nil
}

// LoadProfile decodes a TOML profile. A missing file yields an empty profile.
func LoadProfile(path string) (Profile, error) {
	var p Profile
	if _, err := toml.DecodeFile(path, &p); err != nil {
		if os.IsNotExist(err) {
			return Profile{}, nil
		}
		return Profile{}, err
	}
	return p, nil
}

// SaveProfile writes p to path, creating parent directories as needed.
func SaveProfile(path string, p Profile) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(p)
}

// Defaults returns the instance defaults for the configured organization.
func (c *Config) Defaults() model.Defaults {
	return model.NewDefaults(c.OrgID)
}

// NameChecker returns the browser globals plus the profile's reserved names.
func (c *Config) NameChecker() model.GlobalNameChecker {
	names := model.DefaultReservedNames()
	names.Add(c.Profile.ReservedNames...)
	return names
}

// Resolver resolves data element tokens from the profile.
func (c *Config) Resolver() model.Resolver {
	return model.MapResolver(c.Profile.DataElements)
}

func defaultProfilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "edgeext", "profile.toml")
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
