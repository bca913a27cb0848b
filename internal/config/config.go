package config

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/hkdf"
	"gopkg.in/yaml.v3"

	"tienda.shop/app/internal/session"
	"tienda.shop/app/internal/storage"
	"tienda.shop/app/internal/storeapi"
)

// Config is the web front end configuration. Values come from defaults, then
// the YAML file named by CONFIG_FILE, then environment variables.
type Config struct {
	HTTPAddr string `yaml:"http_addr"`
	GinMode  string `yaml:"gin_mode"`
	LogLevel string `yaml:"log_level"`

	APIBaseURL       string        `yaml:"api_base_url"`
	APITimeout       time.Duration `yaml:"api_timeout"`
	RegisterContract string        `yaml:"register_contract"`

	AppSecret         string        `yaml:"app_secret"`
	CookieSecure      bool          `yaml:"cookie_secure"`
	SessionDriver     string        `yaml:"session_driver"`
	SessionCookieName string        `yaml:"session_cookie_name"`
	SessionMaxAge     time.Duration `yaml:"session_max_age"`
	DBDSN             string        `yaml:"db_dsn"`

	Storage storage.Config `yaml:"storage"`
}

const minSecretLen = 32

func Defaults() Config {
	return Config{
		HTTPAddr:          ":8080",
		GinMode:           "release",
		LogLevel:          "info",
		APITimeout:        10 * time.Second,
		RegisterContract:  string(storeapi.ContractFullName),
		SessionDriver:     "cookie",
		SessionCookieName: session.DefaultCookieName,
		SessionMaxAge:     365 * 24 * time.Hour,
		Storage:           storage.DefaultConfig(),
	}
}

// Load builds the configuration and validates it.
func Load() (Config, error) {
	cfg := Defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.mergeEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) mergeEnv() error {
	setString(&c.HTTPAddr, "HTTP_ADDR")
	setString(&c.GinMode, "GIN_MODE")
	setString(&c.LogLevel, "LOG_LEVEL")
	setString(&c.APIBaseURL, "API_BASE_URL")
	setString(&c.RegisterContract, "REGISTER_CONTRACT")
	setString(&c.AppSecret, "APP_SECRET")
	setString(&c.SessionDriver, "SESSION_DRIVER")
	setString(&c.SessionCookieName, "SESSION_COOKIE_NAME")
	setString(&c.DBDSN, "DB_DSN")
	setString(&c.Storage.Driver, "STORAGE_DRIVER")
	setString(&c.Storage.LocalDir, "LOCAL_UPLOAD_DIR")
	setString(&c.Storage.LocalURLPrefix, "LOCAL_UPLOAD_URL_PREFIX")
	setString(&c.Storage.S3Region, "S3_REGION")
	setString(&c.Storage.S3Bucket, "S3_BUCKET")
	setString(&c.Storage.S3Prefix, "S3_PREFIX")
	setString(&c.Storage.S3PublicBaseURL, "S3_PUBLIC_BASE_URL")

	var errs []error
	errs = append(errs,
		setDuration(&c.APITimeout, "API_TIMEOUT"),
		setDuration(&c.SessionMaxAge, "SESSION_MAX_AGE"),
		setBool(&c.CookieSecure, "COOKIE_SECURE"),
	)
	return errors.Join(errs...)
}

func (c Config) Validate() error {
	var errs []error
	if c.APIBaseURL == "" {
		errs = append(errs, errors.New("API_BASE_URL is required"))
	} else if u, err := url.Parse(c.APIBaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("API_BASE_URL must be an absolute URL, got %q", c.APIBaseURL))
	}
	if len(c.AppSecret) < minSecretLen {
		errs = append(errs, fmt.Errorf("APP_SECRET must be at least %d bytes", minSecretLen))
	}
	if !storeapi.Contract(c.RegisterContract).Valid() {
		errs = append(errs, fmt.Errorf("REGISTER_CONTRACT must be %q or %q", storeapi.ContractFullName, storeapi.ContractName))
	}
	switch c.SessionDriver {
	case "cookie":
	case "mysql":
		if c.DBDSN == "" {
			errs = append(errs, errors.New("DB_DSN is required when SESSION_DRIVER=mysql"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown SESSION_DRIVER: %s", c.SessionDriver))
	}
	if c.SessionMaxAge <= 0 {
		errs = append(errs, errors.New("SESSION_MAX_AGE must be positive"))
	}
	return errors.Join(errs...)
}

// Key derives a size-byte key for purpose from APP_SECRET, so the flash
// and session cookies never share key material.
func (c Config) Key(purpose string, size int) []byte {
	r := hkdf.New(sha256.New, []byte(c.AppSecret), nil, []byte("tienda/"+purpose))
	out := make([]byte, size)
	if _, err := io.ReadFull(r, out); err != nil {
		// hkdf only fails past 255*32 bytes of output.
		panic(err)
	}
	return out
}

func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// SessionStore returns the session store settings.
func (c Config) SessionStore() session.StoreConfig {
	return session.StoreConfig{
		Driver: c.SessionDriver,
		Cookie: session.CookieOptions{
			Name:   c.SessionCookieName,
			MaxAge: c.SessionMaxAge,
			Secure: c.CookieSecure,
		},
		HashKey:  c.Key("session-hash", 64),
		BlockKey: c.Key("session-block", 32),
		DSN:      c.DBDSN,
	}
}

// StoreAPI returns the remote API client settings.
func (c Config) StoreAPI() storeapi.Config {
	return storeapi.Config{
		BaseURL:  c.APIBaseURL,
		Timeout:  c.APITimeout,
		Contract: storeapi.Contract(c.RegisterContract),
	}
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = d
	return nil
}

func setBool(dst *bool, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = b
	return nil
}
