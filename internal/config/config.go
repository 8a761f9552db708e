package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env  string
	Port int

	Log     LogConfig
	Catalog CatalogConfig
	Solver  SolverConfig
}

type LogConfig struct {
	Level  string
	Format string
}

// CatalogConfig locates the course data served by the provider
type CatalogConfig struct {
	Path        string
	Format      string
	RatingsPath string
}

// SolverConfig bounds every solve and toggles the optional constraints
type SolverConfig struct {
	MaxNodes      uint64
	Timeout       time.Duration
	LinkSections  bool
	ExcludeClosed bool
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Catalog = CatalogConfig{
		Path:        v.GetString("CATALOG_PATH"),
		Format:      strings.ToLower(v.GetString("CATALOG_FORMAT")),
		RatingsPath: v.GetString("CATALOG_RATINGS_PATH"),
	}

	timeout, err := parseDuration(v.GetString("SOLVER_TIMEOUT"), 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid SOLVER_TIMEOUT: %w", err)
	}

	cfg.Solver = SolverConfig{
		MaxNodes:      v.GetUint64("SOLVER_MAX_NODES"),
		Timeout:       timeout,
		LinkSections:  v.GetBool("SOLVER_LINK_SECTIONS"),
		ExcludeClosed: v.GetBool("SOLVER_EXCLUDE_CLOSED"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("CATALOG_PATH", "./course_data.json")
	v.SetDefault("CATALOG_FORMAT", "json")
	v.SetDefault("CATALOG_RATINGS_PATH", "")

	v.SetDefault("SOLVER_MAX_NODES", 200000)
	v.SetDefault("SOLVER_TIMEOUT", "5s")
	v.SetDefault("SOLVER_LINK_SECTIONS", false)
	v.SetDefault("SOLVER_EXCLUDE_CLOSED", false)
}

// parseDuration returns fallback for an empty value; anything else must be a non-negative Go duration
func parseDuration(raw string, fallback time.Duration) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("negative duration %q", raw)
	}

	return d, nil
}
