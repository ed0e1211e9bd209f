// Package config loads runtime settings from configs/config.yml, an optional
// .env file and BOOKS_* environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "BOOKS"

// Storage drivers.
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
)

// Catalog seed sources.
const (
	SourceBuiltin = "builtin"
	SourceFile    = "file"
	SourceS3      = "s3"
)

type Config struct {
	Port     string        `mapstructure:"port"`
	LogLevel string        `mapstructure:"log_level"`
	Auth     AuthConfig    `mapstructure:"auth"`
	Storage  StorageConfig `mapstructure:"storage"`
	Catalog  CatalogConfig `mapstructure:"catalog"`
}

// AuthConfig controls token signing and the session cookie.
// The default secret is a placeholder and must be overridden outside development.
type AuthConfig struct {
	Secret       string        `mapstructure:"secret"`
	TokenTTL     time.Duration `mapstructure:"token_ttl"`
	CookieName   string        `mapstructure:"cookie_name"`
	CookieSecure bool          `mapstructure:"cookie_secure"`
}

type StorageConfig struct {
	Driver     string `mapstructure:"driver"`
	SQLitePath string `mapstructure:"sqlite_path"`
}

type CatalogConfig struct {
	Source string   `mapstructure:"source"`
	Path   string   `mapstructure:"path"`
	S3     S3Config `mapstructure:"s3"`
}

// S3Config points at a JSON catalog object in S3-compatible storage.
type S3Config struct {
	Bucket    string `mapstructure:"bucket"`
	Key       string `mapstructure:"key"`
	Region    string `mapstructure:"region"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "5000")
	v.SetDefault("log_level", "info")
	v.SetDefault("auth.secret", "access")
	v.SetDefault("auth.token_ttl", time.Hour)
	v.SetDefault("auth.cookie_name", "session")
	v.SetDefault("auth.cookie_secure", false)
	v.SetDefault("storage.driver", DriverMemory)
	v.SetDefault("storage.sqlite_path", ":memory:")
	v.SetDefault("catalog.source", SourceBuiltin)
	v.SetDefault("catalog.path", "")
	v.SetDefault("catalog.s3.bucket", "")
	v.SetDefault("catalog.s3.key", "books.json")
	v.SetDefault("catalog.s3.region", "us-east-1")
	v.SetDefault("catalog.s3.endpoint", "")
	v.SetDefault("catalog.s3.access_key", "")
	v.SetDefault("catalog.s3.secret_key", "")
}

// Load reads config.yml from the first of dirs that has one. A missing file
// is not an error; defaults and environment still apply.
func Load(dirs ...string) (*Config, error) {
	// .env is optional; real environment variables win over it
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yml")
	for _, d := range dirs {
		v.AddConfigPath(d)
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case DriverMemory, DriverSQLite:
	default:
		return fmt.Errorf("storage.driver %q: want %q or %q", c.Storage.Driver, DriverMemory, DriverSQLite)
	}
	switch c.Catalog.Source {
	case SourceBuiltin:
	case SourceFile:
		if c.Catalog.Path == "" {
			return errors.New("catalog.path is required when catalog.source is file")
		}
	case SourceS3:
		if c.Catalog.S3.Bucket == "" || c.Catalog.S3.Key == "" {
			return errors.New("catalog.s3.bucket and catalog.s3.key are required when catalog.source is s3")
		}
	default:
		return fmt.Errorf("catalog.source %q: want builtin, file or s3", c.Catalog.Source)
	}
	if c.Auth.Secret == "" {
		return errors.New("auth.secret must not be empty")
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("auth.token_ttl must be positive, got %s", c.Auth.TokenTTL)
	}
	return nil
}
