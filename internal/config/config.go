package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Engine EngineConfig `yaml:"engine" mapstructure:"engine"`
	Batch  BatchConfig  `yaml:"batch" mapstructure:"batch"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// EngineConfig configures formula evaluation.
type EngineConfig struct {
	// DateField is the record attribute used for time-scope filtering.
	DateField string `yaml:"date_field" mapstructure:"date_field"`
	// MaxDepth bounds call and parenthesis nesting in a formula.
	MaxDepth int `yaml:"max_depth" mapstructure:"max_depth"`
}

// BatchConfig configures dataset-wide batch evaluation.
type BatchConfig struct {
	MaxConcurrentRecords int `yaml:"max_concurrent_records" mapstructure:"max_concurrent_records"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("FIELDCALC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("engine.date_field", "created_at")
	v.SetDefault("engine.max_depth", 32)
	v.SetDefault("batch.max_concurrent_records", 8)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
