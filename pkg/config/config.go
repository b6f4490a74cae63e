package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application
type Config struct {
	// Log configuration
	Log LogConfig `mapstructure:"log" yaml:"log"`

	// Server configuration
	Server ServerConfig `mapstructure:"server" yaml:"server"`

	// Graph configuration
	Graph GraphConfig `mapstructure:"graph" yaml:"graph"`

	// Attention configuration
	Attention AttentionConfig `mapstructure:"attention" yaml:"attention"`

	// Analyzer configuration
	Analyzer AnalyzerConfig `mapstructure:"analyzer" yaml:"analyzer"`

	// Telemetry configuration
	Telemetry TelemetryConfig `mapstructure:"telemetry" yaml:"telemetry"`

	// Export configuration
	Export ExportConfig `mapstructure:"export" yaml:"export"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host string `mapstructure:"host" yaml:"host"`
	Port int    `mapstructure:"port" yaml:"port"`
	Mode string `mapstructure:"mode" yaml:"mode"` // gin mode: debug, release, test
}

// GraphConfig holds temporal graph configuration
type GraphConfig struct {
	// LayerDurationDays is the width of a temporal layer bucket
	LayerDurationDays int `mapstructure:"layer_duration_days" yaml:"layer_duration_days"`
}

// AttentionConfig holds attention engine configuration
type AttentionConfig struct {
	CacheSize       int `mapstructure:"cache_size" yaml:"cache_size"`
	CacheTTLMinutes int `mapstructure:"cache_ttl_minutes" yaml:"cache_ttl_minutes"`
}

// AnalyzerConfig holds Markovian analyzer configuration
type AnalyzerConfig struct {
	ChunkSizeDays        int    `mapstructure:"chunk_size_days" yaml:"chunk_size_days"`
	MaxDays              int    `mapstructure:"max_days" yaml:"max_days"`
	MaxCarryoverEvents   int    `mapstructure:"max_carryover_events" yaml:"max_carryover_events"`
	MaxCarryoverChains   int    `mapstructure:"max_carryover_chains" yaml:"max_carryover_chains"`
	MaxCarryoverEntities int    `mapstructure:"max_carryover_entities" yaml:"max_carryover_entities"`
	CheckpointDir        string `mapstructure:"checkpoint_dir" yaml:"checkpoint_dir"`
	CheckpointsEnabled   bool   `mapstructure:"checkpoints_enabled" yaml:"checkpoints_enabled"`
}

// TelemetryConfig holds telemetry configuration
type TelemetryConfig struct {
	Enabled     bool   `mapstructure:"enabled" yaml:"enabled"`
	ParquetPath string `mapstructure:"parquet_path" yaml:"parquet_path"`
}

// ExportConfig holds graph export configuration
type ExportConfig struct {
	Dir    string `mapstructure:"dir" yaml:"dir"`
	Format string `mapstructure:"format" yaml:"format"` // json, parquet
}

// Load loads configuration from file and environment variables
func Load() (*Config, error) {
	// Set defaults
	setDefaults()

	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Override with environment variables if present
	overrideWithEnv(config)

	return config, nil
}

// WriteFile writes the configuration as YAML to the given path. Used to
// seed a starter config file for editing.
func (c *Config) WriteFile(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("unable to encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("unable to write config: %w", err)
	}
	return nil
}

// setDefaults sets default configuration values
func setDefaults() {
	// Log defaults
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "text")

	// Server defaults
	viper.SetDefault("server.host", "localhost")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.mode", "debug")

	// Graph defaults
	viper.SetDefault("graph.layer_duration_days", 7)

	// Attention defaults
	viper.SetDefault("attention.cache_size", 2048)
	viper.SetDefault("attention.cache_ttl_minutes", 60)

	// Analyzer defaults
	viper.SetDefault("analyzer.chunk_size_days", 90)
	viper.SetDefault("analyzer.max_days", 1825)
	viper.SetDefault("analyzer.max_carryover_events", 10)
	viper.SetDefault("analyzer.max_carryover_chains", 20)
	viper.SetDefault("analyzer.max_carryover_entities", 15)
	viper.SetDefault("analyzer.checkpoints_enabled", false)

	// Export defaults
	viper.SetDefault("export.format", "json")

	home, err := os.UserHomeDir()
	if err == nil {
		viper.SetDefault("telemetry.parquet_path", fmt.Sprintf("%s/.totg/telemetry", home))
		viper.SetDefault("analyzer.checkpoint_dir", fmt.Sprintf("%s/.totg/checkpoints", home))
		viper.SetDefault("export.dir", fmt.Sprintf("%s/.totg/exports", home))
	}
}

// overrideWithEnv overrides config with environment variables
func overrideWithEnv(config *Config) {
	// Server settings
	if host := os.Getenv("SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if port := os.Getenv("SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	// Log settings
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		config.Log.Level = level
	}

	// Graph settings
	if days := os.Getenv("TOTG_LAYER_DURATION_DAYS"); days != "" {
		if d, err := strconv.Atoi(days); err == nil && d > 0 {
			config.Graph.LayerDurationDays = d
		}
	}

	// Analyzer settings
	if days := os.Getenv("TOTG_CHUNK_SIZE_DAYS"); days != "" {
		if d, err := strconv.Atoi(days); err == nil && d > 0 {
			config.Analyzer.ChunkSizeDays = d
		}
	}
	if dir := os.Getenv("TOTG_CHECKPOINT_DIR"); dir != "" {
		config.Analyzer.CheckpointDir = dir
		config.Analyzer.CheckpointsEnabled = true
	}

	// Telemetry settings
	if path := os.Getenv("TELEMETRY_PARQUET_PATH"); path != "" {
		config.Telemetry.ParquetPath = path
		config.Telemetry.Enabled = true
	}

	// Export settings
	if dir := os.Getenv("TOTG_EXPORT_DIR"); dir != "" {
		config.Export.Dir = dir
	}
}
