// Package settings manages persistent user settings for the spconf CLI.
package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// DefaultRedisAddr is used when no snapshot cache address is configured.
const DefaultRedisAddr = "127.0.0.1:6379"

// Settings holds persistent user preferences
type Settings struct {
	// DefaultHost is the appliance to use when -H is not specified
	DefaultHost string `json:"default_host,omitempty"`

	// Username is the appliance login when -U is not specified
	Username string `json:"username,omitempty"`

	// RedisAddr is the snapshot cache address
	RedisAddr string `json:"redis_addr,omitempty"`

	// SpecDir is the directory searched for desired-state YAML files
	SpecDir string `json:"spec_dir,omitempty"`

	// AuditLog overrides the audit log path
	AuditLog string `json:"audit_log,omitempty"`
}

// DefaultSettingsPath returns the default path for the settings file
func DefaultSettingsPath() string {
	return filepath.Join(configDir(), "settings.json")
}

func configDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".spconf"
	}
	return filepath.Join(home, ".spconf")
}

// Load reads settings from the default location
func Load() (*Settings, error) {
	return LoadFrom(DefaultSettingsPath())
}

// LoadFrom reads settings from a specific path
func LoadFrom(path string) (*Settings, error) {
	s := &Settings{}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parsing settings %s: %w", path, err)
	}

	return s, nil
}

// Save writes settings to the default location
func (s *Settings) Save() error {
	return s.SaveTo(DefaultSettingsPath())
}

// SaveTo writes settings to a specific path
func (s *Settings) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}

// GetRedisAddr returns the snapshot cache address (with fallback)
func (s *Settings) GetRedisAddr() string {
	if s.RedisAddr != "" {
		return s.RedisAddr
	}
	return DefaultRedisAddr
}

// GetSpecDir returns the desired-state directory (with fallback)
func (s *Settings) GetSpecDir() string {
	if s.SpecDir != "" {
		return s.SpecDir
	}
	return filepath.Join(configDir(), "specs")
}

// GetAuditLog returns the audit log path (with fallback)
func (s *Settings) GetAuditLog() string {
	if s.AuditLog != "" {
		return s.AuditLog
	}
	return filepath.Join(configDir(), "audit.log")
}

// fields maps each settings key to its storage.
func (s *Settings) fields() map[string]*string {
	return map[string]*string{
		"default_host": &s.DefaultHost,
		"username":     &s.Username,
		"redis_addr":   &s.RedisAddr,
		"spec_dir":     &s.SpecDir,
		"audit_log":    &s.AuditLog,
	}
}

// Keys returns the settable keys in alphabetical order.
func (s *Settings) Keys() []string {
	var keys []string
	for k := range s.fields() {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get returns the stored value for key.
func (s *Settings) Get(key string) (string, error) {
	p, ok := s.fields()[key]
	if !ok {
		return "", fmt.Errorf("unknown setting %q", key)
	}
	return *p, nil
}

// Set stores value under key. An empty value clears it.
func (s *Settings) Set(key, value string) error {
	p, ok := s.fields()[key]
	if !ok {
		return fmt.Errorf("unknown setting %q", key)
	}
	*p = value
	return nil
}

// Clear resets all settings to defaults
func (s *Settings) Clear() {
	*s = Settings{}
}
