// Package config loads server configuration from defaults, an optional
// YAML file and environment variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server  ServerConfig
	DB      DBConfig
	Log     LogConfig
	Auth    AuthConfig
	Redis   RedisConfig
	Ledger  LedgerConfig
	Storage StorageConfig
}

// ServerConfig holds HTTP listener settings
type ServerConfig struct {
	Port            int
	StaticPath      string // optional directory served at /
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

type DBConfig struct {
	Path string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // text, json
}

type AuthConfig struct {
	JWTSecret         string
	TokenDuration     time.Duration
	AllowRegistration bool
}

// RedisConfig enables shared session revocation when Addr is set.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type LedgerConfig struct {
	LoadTimeout           time.Duration
	WriteTimeout          time.Duration
	PersistReconciliation bool
	Timezone              string // IANA name or "Local"
}

// StorageConfig bounds retries of failed store calls.
type StorageConfig struct {
	RetryAttempts int
	RetryBase     time.Duration
	RetryMax      time.Duration
}

// Location resolves the ledger time zone.
func (c LedgerConfig) Location() (*time.Location, error) {
	if c.Timezone == "" || strings.EqualFold(c.Timezone, "local") {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

// envNames keeps the short variable names deployments already use.
var envNames = map[string]string{
	"server.port":        "PORT",
	"server.static_path": "STATIC_PATH",
	"db.path":            "DB_PATH",
	"log.level":          "LOG_LEVEL",
	"log.format":         "LOG_FORMAT",
	"auth.jwt_secret":    "JWT_SECRET",
	"redis.addr":         "REDIS_ADDR",
	"redis.password":     "REDIS_PASSWORD",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.static_path", "")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("db.path", "./data/telecomsupply.db")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_duration", 24*time.Hour)
	v.SetDefault("auth.allow_registration", false)

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("ledger.load_timeout", 10*time.Second)
	v.SetDefault("ledger.write_timeout", 5*time.Second)
	v.SetDefault("ledger.persist_reconciliation", true)
	v.SetDefault("ledger.timezone", "Local")

	v.SetDefault("storage.retry_attempts", 3)
	v.SetDefault("storage.retry_base", 100*time.Millisecond)
	v.SetDefault("storage.retry_max", 2*time.Second)
}

// Load reads configuration. If path is empty, config.yaml is looked up in
// the working directory and ./config; a missing file is not an error.
// Every key can also be set as TELECOMSUPPLY_<SECTION>_<KEY>.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	v.SetEnvPrefix("TELECOMSUPPLY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range envNames {
		if err := v.BindEnv(key, "TELECOMSUPPLY_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            v.GetInt("server.port"),
			StaticPath:      v.GetString("server.static_path"),
			ReadTimeout:     v.GetDuration("server.read_timeout"),
			WriteTimeout:    v.GetDuration("server.write_timeout"),
			ShutdownTimeout: v.GetDuration("server.shutdown_timeout"),
		},
		DB: DBConfig{
			Path: v.GetString("db.path"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
		Auth: AuthConfig{
			JWTSecret:         v.GetString("auth.jwt_secret"),
			TokenDuration:     v.GetDuration("auth.token_duration"),
			AllowRegistration: v.GetBool("auth.allow_registration"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("redis.addr"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Ledger: LedgerConfig{
			LoadTimeout:           v.GetDuration("ledger.load_timeout"),
			WriteTimeout:          v.GetDuration("ledger.write_timeout"),
			PersistReconciliation: v.GetBool("ledger.persist_reconciliation"),
			Timezone:              v.GetString("ledger.timezone"),
		},
		Storage: StorageConfig{
			RetryAttempts: v.GetInt("storage.retry_attempts"),
			RetryBase:     v.GetDuration("storage.retry_base"),
			RetryMax:      v.GetDuration("storage.retry_max"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var errs []error
	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	} else if len(c.Auth.JWTSecret) < 16 {
		errs = append(errs, errors.New("JWT_SECRET must be at least 16 characters"))
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("invalid port %d", c.Server.Port))
	}
	if c.DB.Path == "" {
		errs = append(errs, errors.New("DB_PATH is required"))
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("invalid log format %q (want text or json)", c.Log.Format))
	}
	if c.Ledger.LoadTimeout <= 0 || c.Ledger.WriteTimeout <= 0 {
		errs = append(errs, errors.New("ledger timeouts must be positive"))
	}
	if c.Storage.RetryAttempts < 1 {
		errs = append(errs, errors.New("storage.retry_attempts must be at least 1"))
	}
	if _, err := c.Ledger.Location(); err != nil {
		errs = append(errs, fmt.Errorf("invalid ledger timezone: %w", err))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}
