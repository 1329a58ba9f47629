package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// EnsureUserConfig makes sure a config file exists under dataDir, seeding it
// from the shipped defaults file on first start, and returns its path. When
// the shipped file is absent (the binary may run from anywhere), the built-in
// defaults are written instead.
func EnsureUserConfig(dataDir, defaultPath string) (string, error) {
	userPath := filepath.Join(dataDir, "config.yml")

	_, err := os.Stat(userPath)
	if err == nil {
		return userPath, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return "", err
	}

	b, err := os.ReadFile(defaultPath)
	if errors.Is(err, os.ErrNotExist) {
		b, err = yaml.Marshal(Default())
	}
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(userPath, b, 0o644); err != nil {
		return "", err
	}
	return userPath, nil
}
