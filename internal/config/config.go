package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/dooshek/storyteller/internal/fileops"
	"github.com/dooshek/storyteller/internal/types"
	"gopkg.in/yaml.v3"
)

const configFilename = "storyteller.yaml"

// Load reads the config file from the user's config directory. A missing
// file is not an error; the caller gets a nil config and falls back to
// defaults plus environment credentials.
func Load() (*types.Config, error) {
	fileOps, err := fileops.NewDefaultFileOps()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize file operations: %w", err)
	}

	data, err := fileOps.LoadConfig(configFilename)
	if err != nil {
		if errors.Is(err, fileops.ErrConfigNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config types.Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &config, nil
}

// Save writes the config to the user's config directory
func Save(config *types.Config) error {
	fileOps, err := fileops.NewDefaultFileOps()
	if err != nil {
		return fmt.Errorf("failed to initialize file operations: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := fileOps.SaveConfig(configFilename, data); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	return nil
}

// FromEnv fills in credentials from the environment when the config file
// left them empty
func FromEnv(config *types.Config) *types.Config {
	if config == nil {
		config = &types.Config{}
	}
	if config.API.Key == "" {
		config.API.Key = os.Getenv("MINIMAX_API_KEY")
	}
	if config.API.GroupID == "" {
		config.API.GroupID = os.Getenv("MINIMAX_GROUP_ID")
	}
	return config
}
