package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/pelletier/go-toml/v2"
)

// AppConfig represents the complete parapet configuration
type AppConfig struct {
	Appearance AppearanceConfig `toml:"appearance"`
	Table      TableConfig      `toml:"table,omitempty"`
	Log        LogConfig        `toml:"log,omitempty"`
}

// AppearanceConfig holds theme and visual settings
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// TableConfig holds the layout inputs for page-size computation.
// Heights are in cells for the terminal host.
type TableConfig struct {
	RowHeight        int `toml:"row_height,omitempty"`
	HeaderHeight     int `toml:"header_height,omitempty"`
	PaginationHeight int `toml:"pagination_height,omitempty"`
	ReservedHeight   int `toml:"reserved_height,omitempty"`
	MinRows          int `toml:"min_rows,omitempty"`
	MaxRows          int `toml:"max_rows,omitempty"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string `toml:"level,omitempty"`
	Path  string `toml:"path,omitempty"`
	JSON  bool   `toml:"json,omitempty"`
}

// GetAppConfigPath returns the path to the parapet configuration file
func GetAppConfigPath() string {
	if configPath := os.Getenv("PARAPET_CONFIG"); configPath != "" {
		return configPath
	}

	switch runtime.GOOS {
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData == "" {
			home, _ := os.UserHomeDir()
			appData = filepath.Join(home, "AppData", "Roaming")
		}
		return filepath.Join(appData, "parapet", "config.toml")
	default:
		if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
			return filepath.Join(xdgConfig, "parapet", "config.toml")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "parapet", "config.toml")
	}
}

// GetDefaultAppConfig returns a config with sensible defaults
func GetDefaultAppConfig() *AppConfig {
	return &AppConfig{
		Appearance: AppearanceConfig{
			Theme: "default",
		},
		Table: TableConfig{
			RowHeight:        1,
			HeaderHeight:     2,
			PaginationHeight: 1,
			ReservedHeight:   6,
			MinRows:          5,
			MaxRows:          100,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// LoadAppConfig loads the parapet configuration with fallback to defaults
func LoadAppConfig() (*AppConfig, error) {
	return LoadAppConfigFromPath(GetAppConfigPath())
}

// LoadAppConfigFromPath loads configuration from a specific path
func LoadAppConfigFromPath(path string) (*AppConfig, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return GetDefaultAppConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := GetDefaultAppConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Zeroed table values fall back to defaults so a partial [table]
	// block never produces an invalid page-size configuration
	defaults := GetDefaultAppConfig().Table
	if config.Table.RowHeight <= 0 {
		config.Table.RowHeight = defaults.RowHeight
	}
	if config.Table.HeaderHeight <= 0 {
		config.Table.HeaderHeight = defaults.HeaderHeight
	}
	if config.Table.PaginationHeight <= 0 {
		config.Table.PaginationHeight = defaults.PaginationHeight
	}
	if config.Table.ReservedHeight <= 0 {
		config.Table.ReservedHeight = defaults.ReservedHeight
	}
	if config.Table.MinRows <= 0 {
		config.Table.MinRows = defaults.MinRows
	}
	if config.Table.MaxRows < config.Table.MinRows {
		config.Table.MaxRows = defaults.MaxRows
	}

	return config, nil
}

// SaveAppConfig persists the configuration to the default path
func SaveAppConfig(config *AppConfig) error {
	configPath := GetAppConfigPath()
	configDir := filepath.Dir(configPath)

	if _, err := os.Stat(configDir); os.IsNotExist(err) {
		if err := os.MkdirAll(configDir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
