package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	HTTP struct {
		Addr            string        `validate:"required,hostname_port"`
		RequestTimeout  time.Duration `validate:"gt=0"`
		ShutdownTimeout time.Duration `validate:"gt=0"`
	}
	DB struct {
		Driver string `validate:"required,oneof=sqlite3 postgres pgx mysql"`
		DSN    string `validate:"required"`
	}
	Log struct {
		Level  string `validate:"oneof=debug info warn error"`
		Pretty bool
	}
	Auth struct {
		Mode         string `validate:"oneof=none token oidc"`
		Token        string `validate:"required_if=Mode token"`
		OIDCIssuer   string `validate:"required_if=Mode oidc"`
		OIDCClientID string `validate:"required_if=Mode oidc"`
	}
	RateLimit struct {
		RPS   float64 `validate:"gte=0"`
		Burst int     `validate:"gte=1"`
	}
}

// Load reads config from a .env file (if present), the environment
// (BOOKMARKS_ prefix) and an optional bookmarks.yaml. When file is non-empty it
// is read instead of bookmarks.yaml and must exist.
func Load(file string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix("BOOKMARKS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", file, err)
		}
	} else {
		v.SetConfigName("bookmarks")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		_ = v.ReadInConfig() // optional config file
	}

	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.request_timeout", "10s")
	v.SetDefault("http.shutdown_timeout", "5s")
	v.SetDefault("db.driver", "sqlite3")
	v.SetDefault("db.dsn", "bookmarks.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
	v.SetDefault("auth.mode", "none")
	v.SetDefault("ratelimit.rps", 0)
	v.SetDefault("ratelimit.burst", 20)

	cfg := &Config{}
	cfg.HTTP.Addr = v.GetString("http.addr")
	cfg.HTTP.RequestTimeout = v.GetDuration("http.request_timeout")
	cfg.HTTP.ShutdownTimeout = v.GetDuration("http.shutdown_timeout")
	cfg.DB.Driver = v.GetString("db.driver")
	cfg.DB.DSN = v.GetString("db.dsn")
	cfg.Log.Level = strings.ToLower(v.GetString("log.level"))
	cfg.Log.Pretty = v.GetBool("log.pretty")
	cfg.Auth.Mode = strings.ToLower(v.GetString("auth.mode"))
	cfg.Auth.Token = v.GetString("auth.token")
	cfg.Auth.OIDCIssuer = v.GetString("auth.oidc_issuer")
	cfg.Auth.OIDCClientID = v.GetString("auth.oidc_client_id")
	cfg.RateLimit.RPS = v.GetFloat64("ratelimit.rps")
	cfg.RateLimit.Burst = v.GetInt("ratelimit.burst")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the struct tags above and reports the first offending key
// using its environment variable name.
func (c *Config) Validate() error {
	err := validator.New().Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	return fmt.Errorf("invalid %s: failed %q check (value %q)", envName(fe.Namespace()), fe.Tag(), fmt.Sprint(fe.Value()))
}

var envNames = map[string]string{
	"Config.HTTP.Addr":            "BOOKMARKS_HTTP_ADDR",
	"Config.HTTP.RequestTimeout":  "BOOKMARKS_HTTP_REQUEST_TIMEOUT",
	"Config.HTTP.ShutdownTimeout": "BOOKMARKS_HTTP_SHUTDOWN_TIMEOUT",
	"Config.DB.Driver":            "BOOKMARKS_DB_DRIVER",
	"Config.DB.DSN":               "BOOKMARKS_DB_DSN",
	"Config.Log.Level":            "BOOKMARKS_LOG_LEVEL",
	"Config.Auth.Mode":            "BOOKMARKS_AUTH_MODE",
	"Config.Auth.Token":           "BOOKMARKS_AUTH_TOKEN",
	"Config.Auth.OIDCIssuer":      "BOOKMARKS_AUTH_OIDC_ISSUER",
	"Config.Auth.OIDCClientID":    "BOOKMARKS_AUTH_OIDC_CLIENT_ID",
	"Config.RateLimit.RPS":        "BOOKMARKS_RATELIMIT_RPS",
	"Config.RateLimit.Burst":      "BOOKMARKS_RATELIMIT_BURST",
}

func envName(namespace string) string {
	if name, ok := envNames[namespace]; ok {
		return name
	}
	return namespace
}
