package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ecofamily/famsync/internal/types"
)

// Config is the root configuration structure.
// It is read-only after Load() returns and thread-safe for concurrent reads.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Remote   RemoteConfig   `yaml:"remote"`
	Client   ClientConfig   `yaml:"client"`
	Family   FamilyConfig   `yaml:"family"`
	Backup   BackupConfig   `yaml:"backup"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port            int      `yaml:"port"`
	ReadTimeout     Duration `yaml:"read_timeout"`
	WriteTimeout    Duration `yaml:"write_timeout"`
	ShutdownTimeout Duration `yaml:"shutdown_timeout"`
}

// DatabaseConfig contains the server-side document store settings.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// RemoteConfig tells the client where the famsync server lives.
type RemoteConfig struct {
	BaseURL string   `yaml:"base_url"`
	Timeout Duration `yaml:"timeout"`
}

// ClientConfig contains client-side local state settings.
type ClientConfig struct {
	StateDir string `yaml:"state_dir"`
}

// FamilyConfig carries the static roster and calendar settings.
type FamilyConfig struct {
	Members             []types.Person `yaml:"members"`
	MinCodeLength       int            `yaml:"min_code_length"`
	DefaultActivityTime string         `yaml:"default_activity_time"`
	DefaultMealTime     string         `yaml:"default_meal_time"`
	DefaultMealPortions int            `yaml:"default_meal_portions"`
}

// BackupConfig contains optional S3-compatible database backup settings.
// An empty bucket disables backups entirely.
type BackupConfig struct {
	Endpoint  string   `yaml:"endpoint"`
	Bucket    string   `yaml:"bucket"`
	AccessKey string   `yaml:"-"` // env-only, never in YAML
	SecretKey string   `yaml:"-"` // env-only, never in YAML
	UseSSL    bool     `yaml:"use_ssl"`
	Interval  Duration `yaml:"interval"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// PersonByID looks a person up in the roster. An absent id yields ok=false,
// never a fabricated default.
func (f FamilyConfig) PersonByID(id int) (types.Person, bool) {
	for _, p := range f.Members {
		if p.ID == id {
			return p, true
		}
	}
	return types.Person{}, false
}

// Duration is a wrapper around time.Duration that supports YAML string parsing.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler for Duration.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Load loads configuration with precedence: defaults → YAML file → env vars.
// Returns an immutable Config suitable for concurrent read access.
func Load() (*Config, error) {
	cfg := newDefaults()

	configPath := getEnv("FAMSYNC_CONFIG_PATH", "config/famsync.yaml")

	// Missing file is not an error; defaults apply.
	if err := loadYAMLFile(cfg, configPath); err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromFile loads configuration from a specific path.
// Used for testing and explicit path specification.
func LoadFromFile(path string) (*Config, error) {
	cfg := newDefaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// newDefaults returns a Config with all default values, including the
// built-in roster.
func newDefaults() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     Duration(30 * time.Second),
			WriteTimeout:    Duration(30 * time.Second),
			ShutdownTimeout: Duration(15 * time.Second),
		},
		Database: DatabaseConfig{
			Path: "data/famsync.db",
		},
		Remote: RemoteConfig{
			BaseURL: "http://localhost:8080",
			Timeout: Duration(30 * time.Second),
		},
		Client: ClientConfig{
			StateDir: defaultStateDir(),
		},
		Family: FamilyConfig{
			Members: []types.Person{
				{ID: 1, Name: "Jon", ColorTag: "blue"},
				{ID: 2, Name: "Johanna", ColorTag: "purple"},
				{ID: 3, Name: "Linnéa", ColorTag: "pink"},
				{ID: 4, Name: "Rafael", ColorTag: "green"},
				{ID: 5, Name: "Alicia", ColorTag: "orange"},
			},
			MinCodeLength:       6,
			DefaultActivityTime: "17:00",
			DefaultMealTime:     "19:00",
			DefaultMealPortions: 4,
		},
		Backup: BackupConfig{
			UseSSL:   true,
			Interval: Duration(6 * time.Hour),
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

func defaultStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".famsync"
	}
	return home + "/.famsync"
}

// loadYAMLFile loads configuration from a YAML file if it exists.
func loadYAMLFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
// Only non-empty env vars override config values.
func applyEnvOverrides(cfg *Config) {
	// Server
	if v := os.Getenv("FAMSYNC_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("FAMSYNC_READ_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Server.ReadTimeout = Duration(d)
		}
	}
	if v := os.Getenv("FAMSYNC_WRITE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Server.WriteTimeout = Duration(d)
		}
	}
	if v := os.Getenv("FAMSYNC_SHUTDOWN_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Server.ShutdownTimeout = Duration(d)
		}
	}

	// Database
	if v := os.Getenv("FAMSYNC_DB_PATH"); v != "" {
		cfg.Database.Path = v
	}

	// Remote
	if v := os.Getenv("FAMSYNC_REMOTE_URL"); v != "" {
		cfg.Remote.BaseURL = v
	}
	if v := os.Getenv("FAMSYNC_REMOTE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Remote.Timeout = Duration(d)
		}
	}

	// Client
	if v := os.Getenv("FAMSYNC_STATE_DIR"); v != "" {
		cfg.Client.StateDir = v
	}

	// Family
	if v := os.Getenv("FAMSYNC_MIN_CODE_LENGTH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Family.MinCodeLength = n
		}
	}

	// Backup
	if v := os.Getenv("FAMSYNC_BACKUP_ENDPOINT"); v != "" {
		cfg.Backup.Endpoint = v
	}
	if v := os.Getenv("FAMSYNC_BACKUP_BUCKET"); v != "" {
		cfg.Backup.Bucket = v
	}
	if v := os.Getenv("FAMSYNC_BACKUP_ACCESS_KEY"); v != "" {
		cfg.Backup.AccessKey = v
	}
	if v := os.Getenv("FAMSYNC_BACKUP_SECRET_KEY"); v != "" {
		cfg.Backup.SecretKey = v
	}
	if v := os.Getenv("FAMSYNC_BACKUP_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Backup.Interval = Duration(d)
		}
	}

	// Log
	if v := os.Getenv("FAMSYNC_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("FAMSYNC_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
}

// validate checks configuration invariants that would otherwise surface as
// confusing runtime failures.
func (c *Config) validate() error {
	if len(c.Family.Members) == 0 {
		return fmt.Errorf("family roster must not be empty")
	}
	seen := map[int]bool{}
	for _, p := range c.Family.Members {
		if p.ID <= 0 {
			return fmt.Errorf("family member %q has invalid id %d", p.Name, p.ID)
		}
		if seen[p.ID] {
			return fmt.Errorf("duplicate family member id %d", p.ID)
		}
		seen[p.ID] = true
	}
	if c.Family.MinCodeLength < 1 {
		return fmt.Errorf("min_code_length must be positive")
	}
	if c.Backup.Bucket != "" && c.Backup.Endpoint == "" {
		return fmt.Errorf("backup bucket configured without endpoint")
	}
	return nil
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
