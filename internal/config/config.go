// Package config loads service configuration from a YAML file with
// ROUTING_-prefixed environment overrides.
package config

import (
	"delivery-status-service/internal/domain"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix marks environment overrides; "__" separates nested keys,
// e.g. ROUTING_SERVER__PORT overrides server.port.
const EnvPrefix = "ROUTING_"

type Config struct {
	Server ServerConfig `koanf:"server"`
	Data   DataConfig   `koanf:"data"`
	Log    LogConfig    `koanf:"log"`
	Fleet  FleetConfig  `koanf:"fleet"`
}

type ServerConfig struct {
	Port              int           `koanf:"port"`
	ReadHeaderTimeout time.Duration `koanf:"read_header_timeout"`
	ReadTimeout       time.Duration `koanf:"read_timeout"`
	WriteTimeout      time.Duration `koanf:"write_timeout"`
	IdleTimeout       time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout   time.Duration `koanf:"shutdown_timeout"`
}

// DataConfig selects where planning input is read from.
type DataConfig struct {
	// Source is "csv" or "postgres".
	Source      string `koanf:"source"`
	Dir         string `koanf:"dir"`
	DatabaseURL string `koanf:"database_url"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Pretty bool   `koanf:"pretty"`
}

// FleetConfig mirrors domain.Fleet with times written as "HH:MM".
type FleetConfig struct {
	Hub            string        `koanf:"hub"`
	Drivers        int           `koanf:"drivers"`
	DayStart       string        `koanf:"day_start"`
	DayEnd         string        `koanf:"day_end"`
	MileageCeiling float64       `koanf:"mileage_ceiling"`
	Trucks         []TruckConfig `koanf:"trucks"`
}

type TruckConfig struct {
	ID       int     `koanf:"id"`
	Capacity int     `koanf:"capacity"`
	SpeedMPH float64 `koanf:"speed_mph"`
	Dispatch string  `koanf:"dispatch"`
}

// Load reads the YAML file at path (skipped when path is empty), applies
// environment overrides and defaults, then validates the result.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		ext := strings.ToLower(filepath.Ext(path))
		if ext != ".yaml" && ext != ".yml" {
			return nil, fmt.Errorf("load config: unsupported config format: %s", ext)
		}
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config: read %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(s, EnvPrefix)
		return strings.ReplaceAll(strings.ToLower(s), "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("load config: env overrides: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: unmarshal: %w", err)
	}

	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &cfg, nil
}

// SetDefaults fills zero values. DATABASE_URL is honored when no URL is configured.
func (c *Config) SetDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.ReadHeaderTimeout == 0 {
		c.Server.ReadHeaderTimeout = 5 * time.Second
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 10 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 30 * time.Second
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}

	if c.Data.Source == "" {
		c.Data.Source = "csv"
	}
	if c.Data.Dir == "" {
		c.Data.Dir = "data"
	}
	if c.Data.DatabaseURL == "" {
		c.Data.DatabaseURL = os.Getenv("DATABASE_URL")
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}

	if c.Fleet.Drivers == 0 {
		c.Fleet.Drivers = 2
	}
	if c.Fleet.DayStart == "" {
		c.Fleet.DayStart = "08:00"
	}
	if c.Fleet.DayEnd == "" {
		c.Fleet.DayEnd = "17:00"
	}
	if c.Fleet.MileageCeiling == 0 {
		c.Fleet.MileageCeiling = 140
	}
	for i := range c.Fleet.Trucks {
		if c.Fleet.Trucks[i].Capacity == 0 {
			c.Fleet.Trucks[i].Capacity = 16
		}
		if c.Fleet.Trucks[i].SpeedMPH == 0 {
			c.Fleet.Trucks[i].SpeedMPH = 18
		}
	}
}

func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}

	switch c.Data.Source {
	case "csv":
		if c.Data.Dir == "" {
			return fmt.Errorf("data.dir is required for the csv source")
		}
	case "postgres":
		if strings.TrimSpace(c.Data.DatabaseURL) == "" {
			return fmt.Errorf("data.database_url (or DATABASE_URL) is required for the postgres source")
		}
	default:
		return fmt.Errorf("data.source must be csv or postgres, got %q", c.Data.Source)
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be debug, info, warn or error, got %q", c.Log.Level)
	}

	if _, err := c.Fleet.ToFleet(); err != nil {
		return err
	}
	return nil
}

// ToFleet parses the configured times and returns a validated domain fleet.
func (f FleetConfig) ToFleet() (domain.Fleet, error) {
	dayStart, err := domain.ParseTimeOfDay(f.DayStart)
	if err != nil {
		return domain.Fleet{}, fmt.Errorf("fleet.day_start: %w", err)
	}
	dayEnd, err := domain.ParseTimeOfDay(f.DayEnd)
	if err != nil {
		return domain.Fleet{}, fmt.Errorf("fleet.day_end: %w", err)
	}

	fleet := domain.Fleet{
		Hub:            strings.TrimSpace(f.Hub),
		Drivers:        f.Drivers,
		DayStart:       dayStart,
		DayEnd:         dayEnd,
		MileageCeiling: f.MileageCeiling,
		Trucks:         make([]domain.TruckSpec, 0, len(f.Trucks)),
	}
	for _, t := range f.Trucks {
		dispatch, err := domain.ParseTimeOfDay(t.Dispatch)
		if err != nil {
			return domain.Fleet{}, fmt.Errorf("fleet.trucks[%d].dispatch: %w", t.ID, err)
		}
		fleet.Trucks = append(fleet.Trucks, domain.TruckSpec{
			ID:         t.ID,
			Capacity:   t.Capacity,
			SpeedMPH:   t.SpeedMPH,
			DispatchAt: dispatch,
		})
	}

	if err := fleet.Validate(); err != nil {
		return domain.Fleet{}, err
	}
	return fleet, nil
}
