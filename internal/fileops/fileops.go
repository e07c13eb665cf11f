package fileops

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dooshek/storyteller/internal/logger"
)

// ErrConfigNotFound is returned when a configuration file does not exist
var ErrConfigNotFound = errors.New("configuration file not found")

// FileOps interface defines operations for managing storyteller files
type FileOps interface {
	// GetConfigDir returns the full path to the storyteller config directory
	GetConfigDir() string

	// SaveConfig saves data to a file in the config directory
	SaveConfig(filename string, data []byte) error

	// LoadConfig loads data from a file in the config directory
	LoadConfig(filename string) ([]byte, error)

	// EnsureDir creates a directory if it doesn't exist
	EnsureDir(dir string) error

	// SaveAudio writes audio data to a file inside the given directory
	SaveAudio(dir, filename string, data []byte) (string, error)

	// WriteScript writes the story script to the given path
	WriteScript(path, content string) error

	// CleanupGenerated removes generated audio directories and script files
	// below root and returns how many items were deleted
	CleanupGenerated(root string) (int, error)
}

// DefaultFileOps implements FileOps interface
type DefaultFileOps struct {
	configDir string
}

// NewDefaultFileOps creates a new DefaultFileOps instance
func NewDefaultFileOps() (*DefaultFileOps, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}

	return &DefaultFileOps{
		configDir: filepath.Join(homeDir, ".config", "storyteller"),
	}, nil
}

func (f *DefaultFileOps) GetConfigDir() string {
	return f.configDir
}

func (f *DefaultFileOps) SaveConfig(filename string, data []byte) error {
	if err := os.MkdirAll(f.configDir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	path := filepath.Join(f.configDir, filename)
	return os.WriteFile(path, data, 0o644)
}

func (f *DefaultFileOps) LoadConfig(filename string) ([]byte, error) {
	path := filepath.Join(f.configDir, filename)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, ErrConfigNotFound
	}
	return os.ReadFile(path)
}

func (f *DefaultFileOps) EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

func (f *DefaultFileOps) SaveAudio(dir, filename string, data []byte) (string, error) {
	if err := f.EnsureDir(dir); err != nil {
		return "", err
	}

	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write audio file: %w", err)
	}

	logger.Debugf("Saved %d bytes of audio to %s", len(data), path)
	return path, nil
}

func (f *DefaultFileOps) WriteScript(path, content string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := f.EnsureDir(dir); err != nil {
			return err
		}
	}
	return os.WriteFile(path, []byte(content), 0o644)
}

// CleanupGenerated removes the well-known generated artifacts below root:
// audio directories, story scripts and combined story files.
func (f *DefaultFileOps) CleanupGenerated(root string) (int, error) {
	targets := []string{
		"audio_output",
		"streaming_audio",
		"complete_story.mp3",
		"story_script.txt",
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return 0, fmt.Errorf("failed to read directory %s: %w", root, err)
	}
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, "_script.txt") || (!entry.IsDir() && strings.HasSuffix(name, ".mp3")) {
			targets = append(targets, name)
		}
	}

	deleted := 0
	seen := make(map[string]bool)
	for _, target := range targets {
		if seen[target] {
			continue
		}
		seen[target] = true

		path := filepath.Join(root, target)
		info, err := os.Stat(path)
		if err != nil {
			continue
		}

		if info.IsDir() {
			err = os.RemoveAll(path)
		} else {
			err = os.Remove(path)
		}
		if err != nil {
			logger.Warnf("Failed to delete %s: %v", path, err)
			continue
		}

		logger.Debugf("Deleted %s", path)
		deleted++
	}

	return deleted, nil
}
