package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

var (
	once     sync.Once
	instance *Config
)

var ErrInvalid = errors.New("invalid config")

// ComponentConfig holds the network settings a service listens on.
type ComponentConfig struct {
	Protocol string `yaml:"protocol"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Debug    bool   `yaml:"debug"`
}

// CatalogConfig points at the dataset and overrides its page size.
type CatalogConfig struct {
	Path         string `yaml:"path"`
	BooksPerPage int    `yaml:"books_per_page"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
	Path  string `yaml:"path"`
}

type SessionConfig struct {
	TTL   time.Duration `yaml:"ttl"`
	Sweep time.Duration `yaml:"sweep"`
}

type RateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

type MetricsConfig struct {
	PushgatewayURL string `yaml:"pushgateway_url"`
}

type CLIConfig struct {
	Debug       bool   `yaml:"debug"`
	HistoryFile string `yaml:"history_file"`
}

// Config is the root of bookshelf.yaml.
type Config struct {
	Catalog     CatalogConfig   `yaml:"catalog"`
	WebAdapter  ComponentConfig `yaml:"web_adapter"`
	Datamanager ComponentConfig `yaml:"datamanager"`
	Log         LogConfig       `yaml:"log"`
	Sessions    SessionConfig   `yaml:"sessions"`
	RateLimit   RateLimitConfig `yaml:"rate_limit"`
	Metrics     MetricsConfig   `yaml:"metrics"`
	CLI         CLIConfig       `yaml:"cli"`
}

// Default returns the settings used for anything bookshelf.yaml leaves out.
func Default() *Config {
	return &Config{
		Catalog:     CatalogConfig{Path: "data/books.json"},
		WebAdapter:  ComponentConfig{Protocol: "http", Host: "0.0.0.0", Port: 8080},
		Datamanager: ComponentConfig{Protocol: "grpc", Host: "0.0.0.0", Port: 50051},
		Log:         LogConfig{Level: "info"},
		Sessions:    SessionConfig{TTL: 30 * time.Minute, Sweep: time.Minute},
		RateLimit:   RateLimitConfig{RPS: 50, Burst: 100},
		CLI:         CLIConfig{HistoryFile: ".bookshelf_history"},
	}
}

// Get returns the process-wide config, read once from BOOKSHELF_CONFIG
// (default bookshelf.yaml). A missing file means defaults.
func Get() *Config {
	once.Do(func() {
		path := os.Getenv("BOOKSHELF_CONFIG")
		if path == "" {
			path = "bookshelf.yaml"
		}

		cfg, err := Load(path)
		if errors.Is(err, os.ErrNotExist) {
			cfg, err = Default(), nil
		}
		if err != nil {
			log.Fatalf("[CONFIG ERROR] %v", err)
		}
		instance = cfg
	})
	return instance
}

// Load reads and validates a YAML config file on top of Default.
func Load(path string) (*Config, error) {
	f, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return Parse(f)
}

// Parse decodes YAML on top of Default and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Catalog.Path == "" {
		return fmt.Errorf("%w: catalog.path is required", ErrInvalid)
	}
	if c.Catalog.BooksPerPage < 0 {
		return fmt.Errorf("%w: catalog.books_per_page must be positive", ErrInvalid)
	}
	if c.WebAdapter.Port <= 0 || c.Datamanager.Port <= 0 {
		return fmt.Errorf("%w: web_adapter.port and datamanager.port are required", ErrInvalid)
	}
	if c.RateLimit.RPS < 0 || c.RateLimit.Burst < 0 {
		return fmt.Errorf("%w: rate_limit must not be negative", ErrInvalid)
	}
	return nil
}

// Address returns host:port.
func (c ComponentConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// FullURL returns protocol://host:port.
func (c ComponentConfig) FullURL() string {
	return fmt.Sprintf("%s://%s:%d", c.Protocol, c.Host, c.Port)
}
