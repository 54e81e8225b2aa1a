package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".easyapply"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// LoadConfigFile loads the YAML configuration file.
// If the file does not exist, it returns ErrConfigNotFound.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}
	return &cf, nil
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .easyapply in the current directory
// 3. Look for .easyapply in the user's home directory
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	cwd, err := os.Getwd()
	if err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	home, err := os.UserHomeDir()
	if err == nil {
		homeConfig := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(homeConfig); err == nil {
			return homeConfig
		}
	}

	return ""
}

// Apply copies the values set in the file onto c.
// Zero values in the file leave c untouched.
func (cf *File) Apply(c *Config) {
	if cf.Search.Keywords != "" {
		c.Keywords = cf.Search.Keywords
	}
	if cf.Search.Location != "" {
		c.Location = cf.Search.Location
	}
	if cf.Search.URL != "" {
		c.SearchURL = cf.Search.URL
	}
	if cf.Role != "" {
		c.Role = cf.Role
	}
	if cf.Resume != "" {
		c.ResumePath = cf.Resume
	}
	if cf.Model != "" {
		c.Model = cf.Model
	}
	if cf.MaxApplies != 0 {
		c.MaxApplies = cf.MaxApplies
	}
	if cf.ModalTimeout != 0 {
		c.ModalTimeout = cf.ModalTimeout
	}
	if cf.MaxModalSteps != 0 {
		c.MaxModalSteps = cf.MaxModalSteps
	}
	if cf.CSV != "" {
		c.CSVPath = cf.CSV
	}
	if len(cf.Answers) > 0 {
		c.Answers = append(c.Answers, cf.Answers...)
	}
}
