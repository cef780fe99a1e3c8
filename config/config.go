package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration.
type Config struct {
	Server       ServerConfig       `yaml:"server"`
	Housekeeping HousekeepingConfig `yaml:"housekeeping"`
	Database     DatabaseConfig     `yaml:"database"`
	Push         PushConfig         `yaml:"push"`
	WorkerPool   WorkerPoolConfig   `yaml:"worker_pool"`
}

// WorkerPoolConfig holds the configuration for the notification worker pool.
type WorkerPoolConfig struct {
	Size int `yaml:"size"`
}

// PushConfig holds the VAPID keys for web push notifications.
type PushConfig struct {
	PublicKey  string `yaml:"vapid_public_key"`
	PrivateKey string `yaml:"vapid_private_key"`
	Subject    string `yaml:"subject"`
	TTL        int    `yaml:"ttl"`
}

// ServerConfig holds the server-related configuration.
type ServerConfig struct {
	Port            int     `yaml:"port"`
	RequestIPHeader string  `yaml:"request_ip_header"`
	RateLimitPerSec float64 `yaml:"rate_limit_per_sec"`
	CacheTTLSeconds int     `yaml:"cache_ttl_seconds"`
}

// HousekeepingConfig holds the facilities-sync configuration. The sync polls
// the facilities system for room inventory and physical condition changes.
type HousekeepingConfig struct {
	Enabled            bool                `yaml:"enabled"`
	IntervalSeconds    int                 `yaml:"interval_seconds"`
	Interval           time.Duration       `yaml:"-"` // Ignored by YAML parser
	HTTPProxy          string              `yaml:"http_proxy"`
	Request            HousekeepingRequest `yaml:"request"`
	AvailableValues    []int               `yaml:"condition_available_values"`
	MaintenanceValues  []int               `yaml:"condition_maintenance_values"`
	CleaningValues     []int               `yaml:"condition_cleaning_values"`
	OutOfServiceValues []int               `yaml:"condition_out_of_service_values"`
}

// HousekeepingRequest defines the HTTP request for the facilities feed.
type HousekeepingRequest struct {
	URL      string            `yaml:"url"`
	Headers  map[string]string `yaml:"headers"`
	PageSize int               `yaml:"pageSize"`
	Payload  map[string]any    `yaml:"payload"`
}

// DatabaseConfig holds the database connection configuration.
type DatabaseConfig struct {
	DSN                       string `yaml:"dsn"`
	MaxOpenConns              int    `yaml:"max_open_conns"`
	MaxIdleConns              int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes    int    `yaml:"conn_max_lifetime_minutes"`
	EnableExclusionConstraint bool   `yaml:"enable_exclusion_constraint"`
}

// Load reads the configuration from the given path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}

	if cfg.Housekeeping.IntervalSeconds <= 0 {
		cfg.Housekeeping.IntervalSeconds = 300
	}
	cfg.Housekeeping.Interval = time.Duration(cfg.Housekeeping.IntervalSeconds) * time.Second

	if cfg.Housekeeping.Request.PageSize <= 0 {
		cfg.Housekeeping.Request.PageSize = 100
	}

	if cfg.Push.TTL <= 0 {
		cfg.Push.TTL = 3600
	}

	if cfg.WorkerPool.Size <= 0 {
		log.Printf("worker_pool.size is not set or invalid; defaulting to 1")
		cfg.WorkerPool.Size = 1
	}

	return &cfg, nil
}
