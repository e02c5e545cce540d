package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/cmlabs-hris/capacity-planner/internal/domain/task"
	"github.com/cmlabs-hris/capacity-planner/internal/fixtures"
)

const (
	StorageMemory   = "memory"
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
)

type Config struct {
	App      AppConfig
	Storage  StorageConfig
	Database DatabaseConfig
	Planner  PlannerConfig
}

// AppConfig holds application configuration
type AppConfig struct {
	Host           string
	Port           int
	Env            string
	LogLevel       string
	AllowedOrigins []string
}

// StorageConfig selects where the planner state is kept
type StorageConfig struct {
	Driver     string
	SQLitePath string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// PlannerConfig overrides the seeded state of a fresh planner. Zero values
// keep the built-in defaults.
type PlannerConfig struct {
	Werkplaats         string
	DefaultCapacity    *float64
	CapacityByWorkshop map[int]float64
	Workshops          []task.Workshop
}

func Load() (*Config, error) {
	// The .env file is optional; the environment alone is enough.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	config := &Config{}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Host:           getEnv("APP_HOST", "127.0.0.1"),
		Port:           appPort,
		Env:            getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		AllowedOrigins: getEnvSlice("ALLOWED_ORIGINS"),
	}

	config.Storage = StorageConfig{
		Driver:     strings.ToLower(getEnv("STORAGE_DRIVER", StorageSQLite)),
		SQLitePath: getEnv("SQLITE_PATH", "data/planner.db"),
	}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "capacity_planner"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Planner seed overrides
	config.Planner = PlannerConfig{Werkplaats: getEnv("DEFAULT_WERKPLAATS", "")}

	if raw := getEnv("DEFAULT_CAPACITY", ""); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid DEFAULT_CAPACITY: %w", err)
		}
		config.Planner.DefaultCapacity = &v
	}

	if config.Planner.CapacityByWorkshop, err = parseCapacities(getEnvSlice("CAPACITY_BY_WORKSHOP")); err != nil {
		return nil, fmt.Errorf("invalid CAPACITY_BY_WORKSHOP: %w", err)
	}

	if config.Planner.Workshops, err = parseWorkshops(getEnvSlice("WORKSHOPS")); err != nil {
		return nil, fmt.Errorf("invalid WORKSHOPS: %w", err)
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.App.Port <= 0 || c.App.Port > 65535 {
		return fmt.Errorf("APP_PORT must be between 1 and 65535")
	}

	switch c.Storage.Driver {
	case StorageMemory:
	case StorageSQLite:
		if c.Storage.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required")
		}
	case StoragePostgres:
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required")
		}
	default:
		return fmt.Errorf("unsupported STORAGE_DRIVER %q", c.Storage.Driver)
	}

	if c.Planner.DefaultCapacity != nil && *c.Planner.DefaultCapacity < 0 {
		return fmt.Errorf("DEFAULT_CAPACITY must not be negative")
	}
	return nil
}

// Address returns the listen address
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.App.Host, c.App.Port)
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// SlogLevel maps LOG_LEVEL onto a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.App.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// Seed applies the planner overrides to the built-in seed.
func (c *Config) Seed() fixtures.Seed {
	seed := fixtures.DefaultSeed()
	if c.Planner.Werkplaats != "" {
		seed.Werkplaats = c.Planner.Werkplaats
	}
	if len(c.Planner.Workshops) > 0 {
		seed.Workshops = append([]task.Workshop(nil), c.Planner.Workshops...)
	}
	if len(c.Planner.CapacityByWorkshop) > 0 {
		seed.Capacity.ByWorkshop = make(map[int]float64, len(c.Planner.CapacityByWorkshop))
		for id, v := range c.Planner.CapacityByWorkshop {
			seed.Capacity.ByWorkshop[id] = v
		}
	}
	if c.Planner.DefaultCapacity != nil {
		seed.Capacity.Default = *c.Planner.DefaultCapacity
	}
	return seed
}

// parseCapacities reads "1:160,2:120".
func parseCapacities(pairs []string) (map[int]float64, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(map[int]float64, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, ":")
		if !ok {
			return nil, fmt.Errorf("%q is not id:hours", pair)
		}
		id, err := strconv.Atoi(strings.TrimSpace(key))
		if err != nil {
			return nil, fmt.Errorf("%q: workshop id must be a number", pair)
		}
		hours, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil || hours < 0 {
			return nil, fmt.Errorf("%q: hours must be a non-negative number", pair)
		}
		out[id] = hours
	}
	return out, nil
}

// parseWorkshops reads "1:Almere,2:Venlo" keeping the given order.
func parseWorkshops(pairs []string) ([]task.Workshop, error) {
	var out []task.Workshop
	for _, pair := range pairs {
		key, name, ok := strings.Cut(pair, ":")
		if !ok {
			return nil, fmt.Errorf("%q is not id:name", pair)
		}
		id, err := strconv.Atoi(strings.TrimSpace(key))
		if err != nil {
			return nil, fmt.Errorf("%q: workshop id must be a number", pair)
		}
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("%q: workshop name is empty", pair)
		}
		out = append(out, task.Workshop{ID: id, Name: name})
	}
	return out, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(env string) []string {
	value := getEnv(env, "")
	if value == "" {
		return []string{}
	}
	var result []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			result = append(result, item)
		}
	}
	return result
}
