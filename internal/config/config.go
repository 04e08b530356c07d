package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application
type Config struct {
	Kafka    KafkaConfig
	MSSQL    MSSQLConfig
	Redis    RedisConfig
	API      APIConfig
	Metrics  MetricsConfig
	Log      LogConfig
	Pipeline PipelineConfig
}

// KafkaConfig holds Kafka configuration
type KafkaConfig struct {
	Brokers       string `env:"KAFKA_BROKERS" envDefault:"localhost:9092"`
	Topic         string `env:"KAFKA_TOPIC" envDefault:"events"`
	ConsumerGroup string `env:"KAFKA_CONSUMER_GROUP" envDefault:"event-consumer-group"`
}

// MSSQLConfig holds MS SQL configuration
type MSSQLConfig struct {
	Server   string `env:"MSSQL_SERVER" envDefault:"localhost"`
	Port     int    `env:"MSSQL_PORT" envDefault:"1433"`
	User     string `env:"MSSQL_USER" envDefault:"sa"`
	Password string `env:"MSSQL_PASSWORD"`
	Database string `env:"MSSQL_DATABASE" envDefault:"eventdb"`
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string `env:"REDIS_HOST" envDefault:"localhost"`
	Port     int    `env:"REDIS_PORT" envDefault:"6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
	DLQKey   string `env:"REDIS_DLQ_KEY" envDefault:"dlq:events"`
}

// APIConfig holds API server configuration
type APIConfig struct {
	Port string `env:"API_PORT" envDefault:"8080"`
}

// MetricsConfig holds metrics server configuration
type MetricsConfig struct {
	Port string `env:"METRICS_PORT" envDefault:"9090"`
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level string `env:"LOG_LEVEL" envDefault:"info"`
}

// PipelineConfig controls how batches are drained and checked
type PipelineConfig struct {
	BatchSize   int           `env:"PIPELINE_BATCH_SIZE" envDefault:"500"`
	IdleTimeout time.Duration `env:"PIPELINE_IDLE_TIMEOUT" envDefault:"2s"`
	RulesFile   string        `env:"PIPELINE_RULES_FILE"`
	Rules       Rules
}

// Rules are the business checks applied to decoded records. Zero values
// disable the corresponding check.
type Rules struct {
	AllowedCurrencies []string `yaml:"allowedCurrencies"`
	MaxOrderAmount    float64  `yaml:"maxOrderAmount"`
	MaxAdjustment     int      `yaml:"maxAdjustment"`
	// Atomic rejects the whole batch when any record breaks a rule.
	Atomic bool `yaml:"atomic"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (optional)
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if cfg.Pipeline.BatchSize <= 0 {
		return nil, fmt.Errorf("invalid PIPELINE_BATCH_SIZE: %d", cfg.Pipeline.BatchSize)
	}

	if cfg.Pipeline.RulesFile != "" {
		rules, err := LoadRules(cfg.Pipeline.RulesFile)
		if err != nil {
			return nil, err
		}
		cfg.Pipeline.Rules = rules
	}

	return &cfg, nil
}

// LoadRules reads pipeline rules from a YAML file
func LoadRules(path string) (Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, fmt.Errorf("failed to read rules file: %w", err)
	}

	return ParseRules(data)
}

// ParseRules decodes YAML rules
func ParseRules(data []byte) (Rules, error) {
	var rules Rules
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return Rules{}, fmt.Errorf("failed to parse rules: %w", err)
	}

	if rules.MaxOrderAmount < 0 {
		return Rules{}, fmt.Errorf("invalid maxOrderAmount: %v", rules.MaxOrderAmount)
	}

	return rules, nil
}

// GetConnectionString returns MS SQL connection string
func (c *MSSQLConfig) GetConnectionString() string {
	return fmt.Sprintf("server=%s;port=%d;user id=%s;password=%s;database=%s;encrypt=disable",
		c.Server, c.Port, c.User, c.Password, c.Database)
}

// GetRedisAddr returns Redis address
func (c *RedisConfig) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// GetAPIAddr returns the API listen address
func (c *APIConfig) GetAPIAddr() string {
	return ":" + c.Port
}
