package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	configDir  = ".config/store"
	configFile = "config.yml"
)

// Config holds settings read from the config file. Empty fields are unset
// and fall through to defaults.
type Config struct {
	APIURL   string `yaml:"api_url,omitempty"`
	APIToken string `yaml:"api_token,omitempty"`
	Project  string `yaml:"project,omitempty"`
	DataType string `yaml:"data_type,omitempty"`
	Timeout  string `yaml:"timeout,omitempty"`
	Proxy    string `yaml:"proxy,omitempty"`
	Verbose  bool   `yaml:"verbose,omitempty"`
}

// GetConfigDir returns the config directory path
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, configDir), nil
}

// DefaultPath returns ~/.config/store/config.yml
func DefaultPath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFile), nil
}

// Load reads the config file at path. The file must exist.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}

	return &cfg, nil
}

// LoadDefault reads the config file from the default path, returning an
// empty config when there is none.
func LoadDefault() (*Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return &Config{}, nil
	}

	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &Config{}, nil
	}
	return cfg, err
}
