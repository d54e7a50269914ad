package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Log       LogConfig
	OneC      OneCConfig
	Sync      SyncConfig
	Scheduler SchedulerConfig
	Metrics   MetricsConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // in minutes
	ConnMaxIdleTime int // in minutes
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// OneCConfig holds the ERP SOAP endpoint settings
type OneCConfig struct {
	Endpoint       string `validate:"required,url"`
	Username       string
	Password       string
	TimeoutSeconds int `validate:"gt=0"`
}

// PartitionConfig describes one synchronized catalog partition
type PartitionConfig struct {
	Code           string `mapstructure:"code" validate:"required"`
	RootID         string `mapstructure:"root_id" validate:"required"`
	RootCategoryID int64  `mapstructure:"root_category_id" validate:"gt=0"`
	RootName       string `mapstructure:"root_name" validate:"required"`
}

// SyncConfig holds the partition list the sync jobs operate on
type SyncConfig struct {
	Partitions []PartitionConfig `validate:"dive"`
}

// SchedulerConfig holds the cron schedules and run-lock leases of the
// recurring jobs. Product details run less often than the lightweight
// stock and price syncs.
type SchedulerConfig struct {
	Enabled            bool
	ProductDetailsCron string
	StocksCron         string
	PricesCron         string
	ProductDetailsTTL  time.Duration
	StocksTTL          time.Duration
	PricesTTL          time.Duration
}

// MetricsConfig holds the Prometheus endpoint settings
type MetricsConfig struct {
	Enabled bool
	Port    string
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with CATALOG_ prefix (e.g., CATALOG_DATABASE_PASSWORD)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	v.SetEnvPrefix("CATALOG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("database.host"),
			Port:            v.GetInt("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			DBName:          v.GetString("database.dbname"),
			SSLMode:         v.GetString("database.sslmode"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetInt("database.conn_max_lifetime"),
			ConnMaxIdleTime: v.GetInt("database.conn_max_idle_time"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		OneC: OneCConfig{
			Endpoint:       v.GetString("onec.endpoint"),
			Username:       v.GetString("onec.username"),
			Password:       v.GetString("onec.password"),
			TimeoutSeconds: v.GetInt("onec.timeout_seconds"),
		},
		Scheduler: SchedulerConfig{
			Enabled:            v.GetBool("scheduler.enabled"),
			ProductDetailsCron: v.GetString("scheduler.product_details_cron"),
			StocksCron:         v.GetString("scheduler.stocks_cron"),
			PricesCron:         v.GetString("scheduler.prices_cron"),
			ProductDetailsTTL:  v.GetDuration("scheduler.product_details_ttl"),
			StocksTTL:          v.GetDuration("scheduler.stocks_ttl"),
			PricesTTL:          v.GetDuration("scheduler.prices_ttl"),
		},
		Metrics: MetricsConfig{
			Enabled: v.GetBool("metrics.enabled"),
			Port:    v.GetString("metrics.port"),
		},
	}

	if err := v.UnmarshalKey("sync.partitions", &cfg.Sync.Partitions); err != nil {
		return nil, fmt.Errorf("error parsing sync.partitions: %w", err)
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "catalog-backend"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "postgres"
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = "catalog"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 25
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 60
	}
	if cfg.Database.ConnMaxIdleTime == 0 {
		cfg.Database.ConnMaxIdleTime = 30
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.OneC.Endpoint == "" {
		cfg.OneC.Endpoint = "http://localhost:8091/ws/catalog.1cws"
	}
	if cfg.OneC.TimeoutSeconds == 0 {
		cfg.OneC.TimeoutSeconds = 120
	}
	if cfg.Scheduler.ProductDetailsCron == "" {
		cfg.Scheduler.ProductDetailsCron = "0 3 * * *"
	}
	if cfg.Scheduler.StocksCron == "" {
		cfg.Scheduler.StocksCron = "*/30 * * * *"
	}
	if cfg.Scheduler.PricesCron == "" {
		cfg.Scheduler.PricesCron = "15 * * * *"
	}
	if cfg.Scheduler.ProductDetailsTTL == 0 {
		cfg.Scheduler.ProductDetailsTTL = 2 * time.Hour
	}
	if cfg.Scheduler.StocksTTL == 0 {
		cfg.Scheduler.StocksTTL = time.Hour
	}
	if cfg.Scheduler.PricesTTL == 0 {
		cfg.Scheduler.PricesTTL = time.Hour
	}
	if cfg.Metrics.Port == "" {
		cfg.Metrics.Port = "9090"
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be positive")
	}
	if c.Database.MaxIdleConns < 0 {
		return fmt.Errorf("database.max_idle_conns cannot be negative")
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}

	seen := make(map[string]struct{}, len(c.Sync.Partitions))
	for _, p := range c.Sync.Partitions {
		if _, ok := seen[p.Code]; ok {
			return fmt.Errorf("sync.partitions: duplicate partition code %q", p.Code)
		}
		seen[p.Code] = struct{}{}
	}

	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// Partition returns the partition configuration for the given code
func (s *SyncConfig) Partition(code string) (PartitionConfig, error) {
	for _, p := range s.Partitions {
		if p.Code == code {
			return p, nil
		}
	}
	return PartitionConfig{}, fmt.Errorf("unknown partition %q", code)
}

// DSN returns the database connection string with properly escaped values
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

// Addr returns the host:port address of the Redis server
func (r *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}
