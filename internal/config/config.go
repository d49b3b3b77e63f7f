package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/jbweber/homelab/items/internal/datastore"
	"github.com/jbweber/homelab/items/internal/logging"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	defaultDBPath          = "~/items/data/items.db"
	defaultHTTPAddr        = ":8080"
	defaultShutdownTimeout = 5 * time.Second
	defaultDBMaxConns      = int32(4)
)

// Config holds all configuration for the items service
type Config struct {
	Driver          string         `yaml:"driver" validate:"oneof=sqlite postgres"`
	DBPath          string         `yaml:"db_path" validate:"required_if=Driver sqlite"`
	DatabaseURL     string         `yaml:"database_url" validate:"required_if=Driver postgres"`
	DBMaxConns      int32          `yaml:"db_max_conns" validate:"gte=1"`
	HTTPAddr        string         `yaml:"http_addr" validate:"required"`
	ShutdownTimeout time.Duration  `yaml:"shutdown_timeout" validate:"gt=0"`
	CORSOrigins     []string       `yaml:"cors_origins"`
	Log             logging.Config `yaml:"log"`
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		Driver:          DriverSQLite,
		DBPath:          defaultDBPath,
		DBMaxConns:      defaultDBMaxConns,
		HTTPAddr:        defaultHTTPAddr,
		ShutdownTimeout: defaultShutdownTimeout,
		Log: logging.Config{
			Enabled: true,
			Level:   "info",
			Format:  "json",
		},
	}
}

// Load builds a Config from defaults, the optional YAML file at path and
// ITEMS_* environment variables, in that order of precedence.
func Load(path string) (*Config, error) {
	cfg := NewConfig()

	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v := strings.TrimSpace(os.Getenv("ITEMS_DB_DRIVER")); v != "" {
		c.Driver = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv("ITEMS_DB_PATH")); v != "" {
		c.DBPath = v
	}
	if v := strings.TrimSpace(os.Getenv("DATABASE_URL")); v != "" {
		c.DatabaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv("ITEMS_DB_MAX_CONNS")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return errors.New("ITEMS_DB_MAX_CONNS must be a positive integer")
		}
		c.DBMaxConns = int32(n)
	}
	if v := strings.TrimSpace(os.Getenv("ITEMS_HTTP_ADDR")); v != "" {
		c.HTTPAddr = v
	}
	if v := strings.TrimSpace(os.Getenv("ITEMS_SHUTDOWN_TIMEOUT")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse ITEMS_SHUTDOWN_TIMEOUT: %w", err)
		}
		c.ShutdownTimeout = d
	}
	if v := strings.TrimSpace(os.Getenv("ITEMS_CORS_ORIGINS")); v != "" {
		c.CORSOrigins = splitList(v)
	}
	if v := strings.TrimSpace(os.Getenv("ITEMS_LOG_LEVEL")); v != "" {
		c.Log.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv("ITEMS_LOG_FORMAT")); v != "" {
		c.Log.Format = strings.ToLower(v)
	}
	return nil
}

// Validate checks the struct rules and returns one error listing every failed field.
func (c *Config) Validate() error {
	err := validator.New().Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("invalid config: %w", err)
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fmt.Sprintf("%s failed rule '%s'", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

// InitializeDatabase opens and tunes the SQLite database, then applies all
// pending migrations.
func (c *Config) InitializeDatabase(ctx context.Context) (*datastore.Datastore, error) {
	ds, err := c.OpenDatabase(ctx)
	if err != nil {
		return nil, err
	}

	if err := ds.Migrate(ctx); err != nil {
		ds.Close()
		return nil, err
	}

	return ds, nil
}

// OpenDatabase creates the database directory, opens the SQLite database and
// applies connection tuning without touching the schema.
func (c *Config) OpenDatabase(ctx context.Context) (*datastore.Datastore, error) {
	dbPath := c.expandPath(c.DBPath)

	dbDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	ds, err := datastore.Open(ctx, dbPath)
	if err != nil {
		return nil, err
	}

	OptimizeDatabaseConnection(ds.DB)

	if err := ApplyPragmaOptimizations(ctx, ds.DB); err != nil {
		ds.Close()
		return nil, fmt.Errorf("failed to apply performance optimizations: %w", err)
	}

	return ds, nil
}

// expandPath expands ~ to home directory
func (c *Config) expandPath(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	return filepath.Join(homeDir, path[2:])
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
