package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/hallgrim/parapet/pkg/model"
)

// ServerContext represents a named server connection
type ServerContext struct {
	Name   string `yaml:"name"`
	Server string `yaml:"server"`
	User   string `yaml:"user"`
}

// ServerEntry represents a management server configuration
type ServerEntry struct {
	Server      string `yaml:"server"`
	Insecure    bool   `yaml:"insecure,omitempty"`
	APIRootPath string `yaml:"api-root-path,omitempty"`
}

// UserEntry represents a user configuration
type UserEntry struct {
	Name      string `yaml:"name"`
	AuthToken string `yaml:"auth-token,omitempty"`
}

// CLIConfig represents the complete server-context configuration
type CLIConfig struct {
	Contexts       []ServerContext `yaml:"contexts,omitempty"`
	Servers        []ServerEntry   `yaml:"servers,omitempty"`
	Users          []UserEntry     `yaml:"users,omitempty"`
	CurrentContext string          `yaml:"current-context,omitempty"`
}

// GetCLIConfigPath returns the path to the server-context configuration file
func GetCLIConfigPath() string {
	if configPath := os.Getenv("PARAPET_SERVER_CONFIG"); configPath != "" {
		return configPath
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "parapet", "servers")
	}

	return filepath.Join(homeDir, ".config", "parapet", "servers")
}

// ReadCLIConfig reads and parses the server-context configuration
func ReadCLIConfig() (*CLIConfig, error) {
	return ReadCLIConfigFromPath(GetCLIConfigPath())
}

// ReadCLIConfigFromPath reads configuration from a specific path
func ReadCLIConfigFromPath(path string) (*CLIConfig, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read server config: %w", err)
	}

	var config CLIConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse server config: %w", err)
	}

	return &config, nil
}

// ResolveServer resolves the current context into a connectable Server.
// The auth token may still be empty here; pkg/auth fills it in from the
// environment or the keyring.
func (c *CLIConfig) ResolveServer() (*model.Server, error) {
	if c.CurrentContext == "" {
		return nil, fmt.Errorf("no current context set")
	}

	var ctx *ServerContext
	for i := range c.Contexts {
		if c.Contexts[i].Name == c.CurrentContext {
			ctx = &c.Contexts[i]
			break
		}
	}
	if ctx == nil {
		return nil, fmt.Errorf("current context %q not found", c.CurrentContext)
	}

	var entry *ServerEntry
	for i := range c.Servers {
		if c.Servers[i].Server == ctx.Server {
			entry = &c.Servers[i]
			break
		}
	}
	if entry == nil {
		return nil, fmt.Errorf("server %q for context %q not found", ctx.Server, ctx.Name)
	}

	server := &model.Server{
		BaseURL:     entry.Server,
		Insecure:    entry.Insecure,
		APIRootPath: entry.APIRootPath,
	}

	for i := range c.Users {
		if c.Users[i].Name == ctx.User {
			server.Token = c.Users[i].AuthToken
			break
		}
	}

	return server, nil
}
