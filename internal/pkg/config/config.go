package config

import (
    "fmt"

    "github.com/spf13/viper"
)

type Config struct {
    ServerPort    string `mapstructure:"SERVER_PORT"`
    QueueCapacity int    `mapstructure:"QUEUE_CAPACITY"`
    NumWorkers    int    `mapstructure:"NUM_WORKERS"`

    // Pattern library overrides (optional YAML file)
    PatternsFile string `mapstructure:"PATTERNS_FILE"`

    // Batch reanalysis
    BatchLimit     int `mapstructure:"BATCH_LIMIT"`
    BatchRateLimit int `mapstructure:"BATCH_RATE_LIMIT"` // items per second

    // Audit trail bulk export
    AuditURL      string `mapstructure:"AUDIT_URL"`
    BulkThreshold int    `mapstructure:"BULK_THRESHOLD"`
    FlushInterval int    `mapstructure:"FLUSH_INTERVAL"`
    MaxRetries    int    `mapstructure:"MAX_RETRIES"`

    // Redis config (reputation counter cache)
    RedisHost     string `mapstructure:"REDIS_HOST"`
    RedisPort     string `mapstructure:"REDIS_PORT"`
    RedisPassword string `mapstructure:"REDIS_PASSWORD"`
    RedisDB       int    `mapstructure:"REDIS_DB"`
    RedisDisabled bool   `mapstructure:"REDIS_DISABLED"`

    LogLevel string `mapstructure:"LOG_LEVEL"`
}

func LoadConfig() (*Config, error) {
    // Set defaults for configuration values
    viper.SetDefault("SERVER_PORT", "8080")
    viper.SetDefault("QUEUE_CAPACITY", 1000)
    viper.SetDefault("NUM_WORKERS", 4)
    viper.SetDefault("PATTERNS_FILE", "")

    viper.SetDefault("BATCH_LIMIT", 100)
    viper.SetDefault("BATCH_RATE_LIMIT", 50)

    viper.SetDefault("AUDIT_URL", "")
    viper.SetDefault("BULK_THRESHOLD", 20)
    viper.SetDefault("FLUSH_INTERVAL", 30)
    viper.SetDefault("MAX_RETRIES", 3)

    // Redis defaults
    viper.SetDefault("REDIS_HOST", "localhost")
    viper.SetDefault("REDIS_PORT", "6379")
    viper.SetDefault("REDIS_PASSWORD", "")
    viper.SetDefault("REDIS_DB", 0)
    viper.SetDefault("REDIS_DISABLED", false)

    viper.SetDefault("LOG_LEVEL", "info")

    viper.AutomaticEnv()

    var config Config
    if err := viper.Unmarshal(&config); err != nil {
        return nil, fmt.Errorf("failed to unmarshal config: %w", err)
    }
    return &config, nil
}
