package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"logging"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	Cache struct {
		Backend    string        `yaml:"backend"` // memory, redis, or mirrored
		MaxEntries int           `yaml:"max_entries"`
		DefaultTTL time.Duration `yaml:"default_ttl"`
		MirrorDir  string        `yaml:"mirror_dir"`
		Redis      struct {
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	Feeds struct {
		FREDAPIKey     string        `yaml:"fred_api_key"`
		FREDBaseURL    string        `yaml:"fred_base_url"`
		RegisterURL    string        `yaml:"register_url"`
		TradeCSVURL    string        `yaml:"trade_csv_url"`
		GeoCSVURL      string        `yaml:"geo_csv_url"`
		QuoteBaseURL   string        `yaml:"quote_base_url"`
		ScreenURL      string        `yaml:"screen_url"`
		HeadlinesURL   string        `yaml:"headlines_url"`
		RequestTimeout time.Duration `yaml:"request_timeout"`
		UserAgent      string        `yaml:"user_agent"`
	} `yaml:"feeds"`
	Pulse struct {
		PolicyTTL     time.Duration `yaml:"policy_ttl"`
		RegulatoryTTL time.Duration `yaml:"regulatory_ttl"`
		TradeTTL      time.Duration `yaml:"trade_ttl"`
		GeoTTL        time.Duration `yaml:"geo_ttl"`
	} `yaml:"pulse"`
	Snapshot struct {
		TTL           time.Duration `yaml:"ttl"`
		IncludeMovers bool          `yaml:"include_movers"`
	} `yaml:"snapshot"`
	Narrative struct {
		MaxHeadlines int `yaml:"max_headlines"`
	} `yaml:"narrative"`
	RateLimit struct {
		Enabled bool    `yaml:"enabled"`
		Rate    float64 `yaml:"rate"`
		Burst   int     `yaml:"burst"`
	} `yaml:"rate_limit"`
	ClickHouse struct {
		Enabled          bool          `yaml:"enabled"`
		Host             string        `yaml:"host"`
		Port             int           `yaml:"port"`
		Database         string        `yaml:"database"`
		User             string        `yaml:"user"`
		Password         string        `yaml:"password"`
		UseHTTP          bool          `yaml:"use_http"`
		AsyncInsert      bool          `yaml:"async_insert"`
		WaitForAsync     bool          `yaml:"wait_for_async_insert"`
		DialTimeout      time.Duration `yaml:"dial_timeout"`
		ReadTimeout      time.Duration `yaml:"read_timeout"`
		WriteTimeout     time.Duration `yaml:"write_timeout"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time"`
	} `yaml:"clickhouse"`
	Kafka struct {
		Enabled      bool     `yaml:"enabled"`
		Brokers      []string `yaml:"brokers"`
		EventsTopic  string   `yaml:"events_topic"`
		LogsTopic    string   `yaml:"logs_topic"`
		RequiredAcks int      `yaml:"required_acks"`
		Compression  string   `yaml:"compression"`
		Producer     struct {
			MaxAttempts  int           `yaml:"max_attempts"`
			Linger       time.Duration `yaml:"linger"`
			BatchBytes   int           `yaml:"batch_bytes"`
			BatchSize    int           `yaml:"batch_size"`
			WriteTimeout time.Duration `yaml:"write_timeout"`
			ReadTimeout  time.Duration `yaml:"read_timeout"`
			Async        bool          `yaml:"async"`
		} `yaml:"producer"`
	} `yaml:"kafka"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// Validate required fields
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	// Override with environment variables
	if v := os.Getenv("FRED_API_KEY"); v != "" {
		c.Feeds.FREDAPIKey = v
	}
	if v := os.Getenv("CACHE_BACKEND"); v != "" {
		c.Cache.Backend = v
	}
	if v := os.Getenv("CACHE_MIRROR_DIR"); v != "" {
		c.Cache.MirrorDir = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Cache.Redis.Addr = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("CLICKHOUSE_HOST"); v != "" {
		c.ClickHouse.Host = v
	}

	return c, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be positive, got %d", c.Server.Port)
	}
	switch c.Cache.Backend {
	case "memory", "redis", "mirrored":
	case "":
		return fmt.Errorf("cache.backend is required")
	default:
		return fmt.Errorf("cache.backend must be 'memory', 'redis' or 'mirrored', got '%s'", c.Cache.Backend)
	}
	if c.Cache.Backend == "mirrored" && c.Cache.MirrorDir == "" {
		return fmt.Errorf("cache.mirror_dir is required for the mirrored backend")
	}
	if c.Cache.Backend == "redis" && c.Cache.Redis.Addr == "" {
		return fmt.Errorf("cache.redis.addr is required for the redis backend")
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers cannot be empty when kafka is enabled")
	}
	if c.ClickHouse.Enabled && c.ClickHouse.Host == "" {
		return fmt.Errorf("clickhouse.host is required when clickhouse is enabled")
	}
	return nil
}

// IsDev reports whether the service runs with development conveniences
// such as console log output.
func (c *Config) IsDev() bool {
	return c.Environment == "development" || c.Environment == "dev"
}
