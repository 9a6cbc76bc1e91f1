// Package config provides configuration loading for batchdeck.
//
// Two files live under the per-user config directory: config.ini holds named
// credential profiles (one section per profile, an api_key entry each), and
// batchdeck.yml holds optional app settings. On first run the credential
// store is seeded from a bundled example so the user has a template to edit.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "embed"

	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"
)

const (
	credentialsFilename = "config.ini"
	settingsFilename    = "batchdeck.yml"

	// apiKeyPrefix is the expected shape of a usable token
	apiKeyPrefix = "sk-"
)

//go:embed config.ini.example
var exampleCredentials []byte

// ErrConfigMissing indicates the credential store does not exist yet
var ErrConfigMissing = errors.New("credential store not found")

// Profile is a named credential resolved from the store
type Profile struct {
	Name   string
	APIKey string
}

// Valid reports whether the profile carries a usable token
func (p Profile) Valid() bool {
	return strings.HasPrefix(p.APIKey, apiKeyPrefix)
}

// Dir returns the per-user config directory, honoring XDG conventions
func Dir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve config dir: %w", err)
	}
	return filepath.Join(base, "batchdeck"), nil
}

// CredentialsPath returns the path of the credential store
func CredentialsPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, credentialsFilename), nil
}

// EnsureCredentials creates the config directory and seeds the credential
// store from the bundled example when absent. Idempotent.
func EnsureCredentials() (string, error) {
	path, err := CredentialsPath()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create config dir: %w", err)
	}

	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	if err := os.WriteFile(path, exampleCredentials, 0600); err != nil {
		return "", fmt.Errorf("failed to seed credential store: %w", err)
	}
	return path, nil
}

// LoadProfiles reads the credential store and returns its profiles in file
// order. A missing store yields ErrConfigMissing; profiles with malformed
// tokens are returned as-is and flagged via Profile.Valid.
func LoadProfiles(path string) ([]Profile, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrConfigMissing, path)
	}

	cfg, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse credential store: %w", err)
	}

	var profiles []Profile
	for _, section := range cfg.Sections() {
		if section.Name() == ini.DefaultSection {
			continue
		}
		profiles = append(profiles, Profile{
			Name:   section.Name(),
			APIKey: section.Key("api_key").String(),
		})
	}

	return profiles, nil
}

// Settings holds optional app settings with defaults applied
type Settings struct {
	DownloadDir     string `yaml:"download_dir"`
	BatchLimit      int    `yaml:"batch_limit"`
	DefaultEndpoint string `yaml:"default_endpoint"`
}

// DefaultSettings returns the settings used when batchdeck.yml is absent
func DefaultSettings() Settings {
	return Settings{
		DownloadDir:     "downloads",
		BatchLimit:      20,
		DefaultEndpoint: "/v1/chat/completions",
	}
}

// LoadSettings reads batchdeck.yml from the config directory. A missing file
// returns defaults with no error; a malformed file returns defaults with the
// parse error so callers can surface it without failing.
func LoadSettings() (Settings, error) {
	settings := DefaultSettings()

	dir, err := Dir()
	if err != nil {
		return settings, nil
	}

	data, err := os.ReadFile(filepath.Join(dir, settingsFilename))
	if err != nil {
		return settings, nil
	}

	if err := yaml.Unmarshal(data, &settings); err != nil {
		return DefaultSettings(), fmt.Errorf("failed to parse %s: %w", settingsFilename, err)
	}

	if settings.DownloadDir == "" {
		settings.DownloadDir = DefaultSettings().DownloadDir
	}
	if settings.BatchLimit <= 0 {
		settings.BatchLimit = DefaultSettings().BatchLimit
	}
	if settings.DefaultEndpoint == "" {
		settings.DefaultEndpoint = DefaultSettings().DefaultEndpoint
	}

	return settings, nil
}
