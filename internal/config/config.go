package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	ModeDevelopment = "development"
	ModeProduction  = "production"
)

// Config is the top-level configuration, read once at process start
type Config struct {
	Server   ServerConfig   `mapstructure:"server" yaml:"server"`
	TLS      TLSConfig      `mapstructure:"tls" yaml:"tls"`
	Runtime  RuntimeConfig  `mapstructure:"runtime" yaml:"runtime"`
	Data     DataConfig     `mapstructure:"data" yaml:"data"`
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`
	Logging  LoggingConfig  `mapstructure:"logging" yaml:"logging"`
}

// ServerConfig holds listener settings
type ServerConfig struct {
	Host         string        `mapstructure:"host" yaml:"host"`
	Port         string        `mapstructure:"port" yaml:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
}

// TLSConfig holds HTTPS settings
type TLSConfig struct {
	Enabled    bool   `mapstructure:"enabled" yaml:"enabled"`
	CertFile   string `mapstructure:"cert_file" yaml:"cert_file"`
	KeyFile    string `mapstructure:"key_file" yaml:"key_file"`
	MinVersion string `mapstructure:"min_version" yaml:"min_version"`
}

// RuntimeConfig selects development or production behaviour.
// Dataset writes are only accepted outside production.
type RuntimeConfig struct {
	Mode string `mapstructure:"mode" yaml:"mode"`
}

// Production reports whether the runtime is in production mode
func (r RuntimeConfig) Production() bool {
	return strings.EqualFold(r.Mode, ModeProduction)
}

// DataConfig locates the dataset JSON files and screenshot assets
type DataConfig struct {
	Dir       string `mapstructure:"dir" yaml:"dir"`
	AssetsDir string `mapstructure:"assets_dir" yaml:"assets_dir"`
}

// DatabaseConfig locates the SQLite answer log
type DatabaseConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// LoggingConfig holds settings for the logger
type LoggingConfig struct {
	Directory  string `mapstructure:"directory" yaml:"directory"`
	Level      string `mapstructure:"level" yaml:"level"`
	MaxSize    int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge     int    `mapstructure:"max_age" yaml:"max_age"`
	Compress   bool   `mapstructure:"compress" yaml:"compress"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)

	v.SetDefault("tls.enabled", false)
	v.SetDefault("tls.cert_file", "")
	v.SetDefault("tls.key_file", "")
	v.SetDefault("tls.min_version", "1.2")

	v.SetDefault("runtime.mode", ModeDevelopment)

	v.SetDefault("data.dir", "./data")
	v.SetDefault("data.assets_dir", "./public")

	v.SetDefault("database.path", "./data/answers.db")

	v.SetDefault("logging.directory", "logs")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.max_size", 10)
	v.SetDefault("logging.max_backups", 3)
	v.SetDefault("logging.max_age", 7)
	v.SetDefault("logging.compress", true)
}

// Load builds the configuration from defaults, an optional
// <projectRoot>/config/config.yaml and QUIZ_* environment variables
// (e.g. QUIZ_RUNTIME_MODE=production).
func Load(projectRoot string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.AddConfigPath(filepath.Join(projectRoot, "config"))
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvPrefix("QUIZ")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// A missing file is fine; defaults and env vars are used
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks settings that would otherwise fail late
func (c *Config) Validate() error {
	switch strings.ToLower(c.Runtime.Mode) {
	case ModeDevelopment, ModeProduction:
	default:
		return fmt.Errorf("runtime.mode must be %q or %q, got %q", ModeDevelopment, ModeProduction, c.Runtime.Mode)
	}
	if c.Data.Dir == "" {
		return errors.New("data.dir is required")
	}
	if c.TLS.Enabled && (c.TLS.CertFile == "" || c.TLS.KeyFile == "") {
		return errors.New("tls.cert_file and tls.key_file are required when tls is enabled")
	}
	return nil
}

// Addr returns host:port for the HTTP listener
func (c *Config) Addr() string {
	return c.Server.Host + ":" + c.Server.Port
}

// Render returns the effective configuration as YAML
func Render(cfg *Config) ([]byte, error) {
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to render config: %w", err)
	}
	return out, nil
}
