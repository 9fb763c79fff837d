// Package config loads application configuration from file and environment.
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
	Atlas  AtlasConfig  `yaml:"atlas" mapstructure:"atlas"`
	Render RenderConfig `yaml:"render" mapstructure:"render"`
	Server ServerConfig `yaml:"server" mapstructure:"server"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// AtlasConfig configures the country geometry database backend.
type AtlasConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	Path        string `yaml:"path" mapstructure:"path"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// RenderConfig configures map rendering defaults.
type RenderConfig struct {
	Width            int     `yaml:"width" mapstructure:"width"`
	Height           int     `yaml:"height" mapstructure:"height"`
	TargetPercentage float64 `yaml:"target_percentage" mapstructure:"target_percentage"`
	ExcludeExclaves  bool    `yaml:"exclude_exclaves" mapstructure:"exclude_exclaves"`
	LabelType        string  `yaml:"label_type" mapstructure:"label_type"`
	BorderWidth      float64 `yaml:"border_width" mapstructure:"border_width"`
	StylePath        string  `yaml:"style_path" mapstructure:"style_path"`
	OutputDir        string  `yaml:"output_dir" mapstructure:"output_dir"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port             int      `yaml:"port" mapstructure:"port"`
	RendersPerSecond float64  `yaml:"renders_per_second" mapstructure:"renders_per_second"`
	RenderBurst      int      `yaml:"render_burst" mapstructure:"render_burst"`
	AllowedOrigins   []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
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
	v.SetEnvPrefix("TERRITORY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("atlas.driver", "sqlite")
	v.SetDefault("atlas.path", "natural_earth_vector.sqlite")
	v.SetDefault("render.width", 1200)
	v.SetDefault("render.height", 1000)
	v.SetDefault("render.target_percentage", 0.3)
	v.SetDefault("render.exclude_exclaves", true)
	v.SetDefault("render.label_type", "name")
	v.SetDefault("render.border_width", 1.5)
	v.SetDefault("render.output_dir", "/tmp")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.renders_per_second", 2.0)
	v.SetDefault("server.render_burst", 4)
	v.SetDefault("server.allowed_origins", []string{"*"})
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
