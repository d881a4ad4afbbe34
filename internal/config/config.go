package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

const currentVersion = 1

// Config represents the complete drylog configuration
type Config struct {
	Version  int    `json:"version" mapstructure:"version"`
	DataRoot string `json:"dataRoot" mapstructure:"dataRoot"`

	View    ViewConfig    `json:"view" mapstructure:"view"`
	Export  ExportConfig  `json:"export" mapstructure:"export"`
	Logging LoggingConfig `json:"logging" mapstructure:"logging"`
}

// ViewConfig contains the default view scope
type ViewConfig struct {
	DefaultModel string `json:"defaultModel" mapstructure:"defaultModel"`
	DefaultType  string `json:"defaultType" mapstructure:"defaultType"`
}

// ExportConfig contains export output settings
type ExportConfig struct {
	Dir          string `json:"dir" mapstructure:"dir"`
	CompressJSON bool   `json:"compressJson" mapstructure:"compressJson"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Format string `json:"format" mapstructure:"format"`
	Level  string `json:"level" mapstructure:"level"`
	File   string `json:"file" mapstructure:"file"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version:  currentVersion,
		DataRoot: ".",
		View: ViewConfig{
			DefaultModel: "vt8",
			DefaultType:  "evaluationTeam",
		},
		Export: ExportConfig{
			Dir:          "exports",
			CompressJSON: false,
		},
		Logging: LoggingConfig{
			Format: "human",
			Level:  "info",
		},
	}
}

// LoadConfig loads configuration from .drylog/config.json under root,
// falling back to defaults when no config file exists.
func LoadConfig(root string) (*Config, error) {
	v := viper.New()

	v.SetDefault("version", currentVersion)
	v.SetDefault("dataRoot", ".")
	v.SetDefault("view.defaultModel", "vt8")
	v.SetDefault("view.defaultType", "evaluationTeam")
	v.SetDefault("export.dir", "exports")
	v.SetDefault("logging.format", "human")
	v.SetDefault("logging.level", "info")

	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(filepath.Join(root, ".drylog"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes the configuration to .drylog/config.json under root,
// creating the directory if needed.
func (c *Config) Save(root string) error {
	dir := filepath.Join(root, ".drylog")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "config.json"), data, 0644)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Version != currentVersion {
		return &ConfigError{Field: "version", Message: "unsupported config version"}
	}
	if c.View.DefaultType != "evaluationTeam" && c.View.DefaultType != "conditionSetting" {
		return &ConfigError{Field: "view.defaultType", Message: "must be evaluationTeam or conditionSetting"}
	}
	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
