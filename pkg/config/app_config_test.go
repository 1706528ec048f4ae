package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadAppConfigMissingFileReturnsDefaults(t *testing.T) {
	config, err := LoadAppConfigFromPath(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	defaults := GetDefaultAppConfig()
	if config.Table != defaults.Table {
		t.Errorf("expected default table config %+v, got %+v", defaults.Table, config.Table)
	}
	if config.Appearance.Theme != defaults.Appearance.Theme {
		t.Errorf("expected default theme %q, got %q", defaults.Appearance.Theme, config.Appearance.Theme)
	}
}

func TestLoadAppConfigParsesTableBlock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[table]
row_height = 2
min_rows = 3
max_rows = 40
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	config, err := LoadAppConfigFromPath(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if config.Table.RowHeight != 2 {
		t.Errorf("expected row height 2, got %d", config.Table.RowHeight)
	}
	if config.Table.MinRows != 3 || config.Table.MaxRows != 40 {
		t.Errorf("expected min/max 3/40, got %d/%d", config.Table.MinRows, config.Table.MaxRows)
	}
	// Unset heights fall back to defaults
	if config.Table.HeaderHeight != GetDefaultAppConfig().Table.HeaderHeight {
		t.Errorf("expected default header height, got %d", config.Table.HeaderHeight)
	}
}

func TestLoadAppConfigRepairsInvalidBounds(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[table]
min_rows = 50
max_rows = 10
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	config, err := LoadAppConfigFromPath(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if config.Table.MaxRows < config.Table.MinRows {
		t.Errorf("bounds not repaired: min=%d max=%d", config.Table.MinRows, config.Table.MaxRows)
	}
}

func TestLoadAppConfigRejectsMalformedTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[table\nrow_height = "), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	if _, err := LoadAppConfigFromPath(path); err == nil {
		t.Error("expected parse error for malformed config")
	}
}
