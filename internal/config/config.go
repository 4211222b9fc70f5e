// Package config loads and saves weft.json, the project configuration
// for the Weft development server.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/weft-ui/weft/internal/werrors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "weft.json"

	// DefaultPort is the default development server port.
	DefaultPort = 4600

	// DefaultHost is the default development server host.
	DefaultHost = "localhost"

	// DefaultMetricsNamespace is the default Prometheus namespace.
	DefaultMetricsNamespace = "weft"
)

// Config represents the complete weft.json configuration.
type Config struct {
	// Name is the project name.
	Name string `json:"name,omitempty"`

	// Version is the project version.
	Version string `json:"version,omitempty"`

	// Dev contains development server configuration.
	Dev DevConfig `json:"dev,omitempty"`

	// Metrics contains Prometheus exposure configuration.
	Metrics MetricsConfig `json:"metrics,omitempty"`

	// Snapshot contains snapshot-store configuration.
	Snapshot SnapshotConfig `json:"snapshot,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// DevConfig contains development server configuration.
type DevConfig struct {
	// Host is the interface to bind.
	Host string `json:"host,omitempty"`

	// Port is the port to listen on.
	Port int `json:"port,omitempty"`

	// MaxUpdateDepth bounds self-triggered re-renders per instance.
	// Zero disables the guard.
	MaxUpdateDepth int `json:"maxUpdateDepth,omitempty"`
}

// MetricsConfig contains Prometheus exposure configuration.
type MetricsConfig struct {
	// Enabled exposes /metrics on the dev server.
	Enabled bool `json:"enabled,omitempty"`

	// Namespace is the metrics namespace.
	Namespace string `json:"namespace,omitempty"`
}

// SnapshotConfig contains snapshot-store configuration.
type SnapshotConfig struct {
	// Bucket is the S3 bucket for published snapshots (only used by
	// S3-backed builds).
	Bucket string `json:"bucket,omitempty"`

	// Prefix is the key prefix for published snapshots.
	Prefix string `json:"prefix,omitempty"`
}

// New returns a configuration populated with defaults.
func New() *Config {
	return &Config{
		Dev: DevConfig{
			Host: DefaultHost,
			Port: DefaultPort,
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Namespace: DefaultMetricsNamespace,
		},
	}
}

// Load reads configuration from the specified directory.
// It looks for weft.json in the directory.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, werrors.New("E060").
				WithDetail("no %s found in %s", ConfigFileName, filepath.Dir(path))
		}
		return nil, werrors.New("E060").Wrap(err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, werrors.New("E060").
			WithDetail("failed to parse %s: %v", ConfigFileName, err).
			WithSuggestion("Check that " + ConfigFileName + " is valid JSON")
	}

	cfg.configPath = path
	cfg.applyDefaults()

	return cfg, nil
}

// LoadOrDefault reads weft.json from dir, falling back to defaults
// when the file does not exist. Parse errors are still reported.
func LoadOrDefault(dir string) (*Config, error) {
	if !Exists(dir) {
		return New(), nil
	}
	return Load(dir)
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return werrors.Newf(werrors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return werrors.New("E060").Wrap(err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return werrors.New("E060").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Dev.Host == "" {
		c.Dev.Host = DefaultHost
	}
	if c.Dev.Port == 0 {
		c.Dev.Port = DefaultPort
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultMetricsNamespace
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Dev.Port < 0 || c.Dev.Port > 65535 {
		return werrors.New("E060").WithDetail("invalid port %d", c.Dev.Port)
	}
	if c.Dev.MaxUpdateDepth < 0 {
		return werrors.New("E060").WithDetail("maxUpdateDepth must not be negative")
	}
	return nil
}

// DevAddress returns the host:port address for the dev server.
func (c *Config) DevAddress() string {
	return c.Dev.Host + ":" + itoa(c.Dev.Port)
}

// Exists reports whether a weft.json is present in dir.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}

// itoa converts int to string without importing strconv.
func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	if n < 0 {
		return "-" + itoa(-n)
	}
	digits := make([]byte, 0, 10)
	for n > 0 {
		digits = append(digits, byte('0'+n%10))
		n /= 10
	}
	for i, j := 0, len(digits)-1; i < j; i, j = i+1, j-1 {
		digits[i], digits[j] = digits[j], digits[i]
	}
	return string(digits)
}
