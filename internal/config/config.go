// Package config loads the options of the shell client and of the dev server
// from command-line flags, an optional JSON file and environment variables,
// in that order of increasing precedence.
package config

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"
)

// Defaults.
const (
	DefaultBaseURL    = "http://localhost:8000/api"
	DefaultTimeout    = 10 * time.Second
	DefaultAddr       = "localhost:8000"
	DefaultTokenTTL   = 24 * time.Hour
	defaultConfigPath = "config.json"
)

// ClientOptions configures the shell client.
type ClientOptions struct {
	// BaseURL is the API root, including the /api prefix.
	BaseURL string
	// CAFile is an optional PEM bundle trusted for HTTPS.
	CAFile string
	// Timeout bounds every HTTP exchange.
	Timeout  time.Duration
	LogLevel string
	// Config is the path to the JSON config file.
	Config string
}

// ServerOptions configures the dev server.
type ServerOptions struct {
	// Addr is the listen address (ip:port).
	Addr string
	// DatabaseDSN selects PostgreSQL. Empty means an in-memory store.
	DatabaseDSN string
	JWTSecret   string
	// TokenTTL is the lifetime of issued tokens. Zero issues tokens without expiry.
	TokenTTL time.Duration
	LogLevel string
	// AdminPassword, when set, seeds an "admin" account on an empty store.
	AdminPassword string
	// TLSDir, when set, serves HTTPS with a certificate kept in that directory.
	TLSDir string
	Config string
}

// clientFile and serverFile are the JSON file layouts. Durations are strings
// such as "5s".
type clientFile struct {
	BaseURL  *string `json:"base_url"`
	CAFile   *string `json:"ca_file"`
	Timeout  *string `json:"timeout"`
	LogLevel *string `json:"log_level"`
}

type serverFile struct {
	Addr          *string `json:"address"`
	DatabaseDSN   *string `json:"database_dsn"`
	JWTSecret     *string `json:"jwt_secret"`
	TokenTTL      *string `json:"token_ttl"`
	LogLevel      *string `json:"log_level"`
	AdminPassword *string `json:"admin_password"`
	TLSDir        *string `json:"tls_dir"`
}

// ParseClient reads client options from args (without the program name).
func ParseClient(args []string) (*ClientOptions, error) {
	o := &ClientOptions{}
	fs := flag.NewFlagSet("blogctl", flag.ContinueOnError)
	fs.StringVar(&o.BaseURL, "url", DefaultBaseURL, "blog API base URL")
	fs.StringVar(&o.CAFile, "ca", "", "PEM file with extra trusted CAs")
	fs.DurationVar(&o.Timeout, "timeout", DefaultTimeout, "HTTP timeout")
	fs.StringVar(&o.LogLevel, "log-level", "Warn", "log level")
	configFlags(fs, &o.Config)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	var f clientFile
	if err := loadFile(&o.Config, &f); err != nil {
		return nil, err
	}
	setString(&o.BaseURL, f.BaseURL)
	setString(&o.CAFile, f.CAFile)
	setString(&o.LogLevel, f.LogLevel)
	if err := setDuration(&o.Timeout, f.Timeout); err != nil {
		return nil, fmt.Errorf("config file timeout: %w", err)
	}

	envString(&o.BaseURL, "BLOG_API_URL")
	envString(&o.LogLevel, "LOG_LEVEL")
	if err := envDuration(&o.Timeout, "BLOG_API_TIMEOUT"); err != nil {
		return nil, err
	}

	if o.BaseURL == "" {
		return nil, errors.New("base URL is empty")
	}
	return o, nil
}

// ParseServer reads dev server options from args (without the program name).
func ParseServer(args []string) (*ServerOptions, error) {
	o := &ServerOptions{}
	fs := flag.NewFlagSet("devserver", flag.ContinueOnError)
	fs.StringVar(&o.Addr, "a", DefaultAddr, "run on ip:port server")
	fs.StringVar(&o.DatabaseDSN, "d", "", "db address")
	fs.DurationVar(&o.TokenTTL, "ttl", DefaultTokenTTL, "token lifetime")
	fs.StringVar(&o.LogLevel, "log-level", "Info", "log level")
	fs.StringVar(&o.TLSDir, "tls-dir", "", "serve HTTPS with certificates in this directory")
	configFlags(fs, &o.Config)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	var f serverFile
	if err := loadFile(&o.Config, &f); err != nil {
		return nil, err
	}
	setString(&o.Addr, f.Addr)
	setString(&o.DatabaseDSN, f.DatabaseDSN)
	setString(&o.JWTSecret, f.JWTSecret)
	setString(&o.LogLevel, f.LogLevel)
	setString(&o.AdminPassword, f.AdminPassword)
	setString(&o.TLSDir, f.TLSDir)
	if err := setDuration(&o.TokenTTL, f.TokenTTL); err != nil {
		return nil, fmt.Errorf("config file token_ttl: %w", err)
	}

	envString(&o.Addr, "SERVER_ADDRESS")
	envString(&o.DatabaseDSN, "DATABASE_DSN")
	envString(&o.JWTSecret, "JWT_SECRET")
	envString(&o.LogLevel, "LOG_LEVEL")
	envString(&o.AdminPassword, "ADMIN_PASSWORD")
	envString(&o.TLSDir, "TLS_DIR")
	if err := envDuration(&o.TokenTTL, "TOKEN_TTL"); err != nil {
		return nil, err
	}

	if o.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is not set")
	}
	return o, nil
}

func configFlags(fs *flag.FlagSet, path *string) {
	fs.StringVar(path, "config", defaultConfigPath, "path to config file")
	fs.StringVar(path, "c", defaultConfigPath, "path to config file (shorthand)")
}

// loadFile decodes the config file into dst. The CONFIG variable overrides
// the path. A missing file is not an error.
func loadFile(path *string, dst any) error {
	envString(path, "CONFIG")
	if *path == "" {
		return nil
	}
	data, err := os.ReadFile(*path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("error while reading config file: %w", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("error while parsing config file: %w", err)
	}
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setDuration(dst *time.Duration, v *string) error {
	if v == nil {
		return nil
	}
	d, err := time.ParseDuration(*v)
	if err != nil {
		return err
	}
	*dst = d
	return nil
}

func envString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envDuration(dst *time.Duration, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = d
	return nil
}
