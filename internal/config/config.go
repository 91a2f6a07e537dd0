// Package config persists the application's settings as a JSON file in
// the user's home directory.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

const configDirName = ".pharmacy-cli"
const configFileName = "config.json"

// DefaultBaseURL points at a local development backend. Production
// deployments set baseUrl in the config file.
const DefaultBaseURL = "http://localhost:4000/api"

// Configuration holds all persisted settings.
type Configuration struct {
	BaseURL string `json:"baseUrl"`
	Debug   bool   `json:"debug"`
	mu      sync.RWMutex
}

// GetConfigDir returns the application's configuration directory,
// creating nothing.
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(homeDir, configDirName), nil
}

// TokenDir returns the directory used for durable token storage.
func TokenDir() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "tokens"), nil
}

// Save persists the configuration to disk with user-only permissions.
func (c *Configuration) Save() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling config to JSON: %w", err)
	}

	dir, err := GetConfigDir()
	if err != nil {
		return err
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.Mkdir(dir, 0700); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}
	}

	if err := os.WriteFile(filepath.Join(dir, configFileName), data, 0600); err != nil {
		return fmt.Errorf("writing configuration file: %w", err)
	}
	return nil
}

// Load reads the configuration file from disk.
func Load() (*Configuration, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Join(dir, configFileName))
	if err != nil {
		return nil, err
	}

	config := &Configuration{}
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	return config, nil
}

// LoadOrCreate loads the configuration, returning defaults when no
// config file exists yet.
func LoadOrCreate() (*Configuration, error) {
	config, err := Load()
	if err != nil {
		if os.IsNotExist(err) {
			return &Configuration{BaseURL: DefaultBaseURL}, nil
		}
		return nil, err
	}
	return config, nil
}
