package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// resolveRoot validates a catalog root flag and returns its absolute path.
func resolveRoot(dir string) (string, error) {
	if strings.TrimSpace(dir) == "" {
		return "", fmt.Errorf("catalog root directory is required")
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	abs = filepath.Clean(abs)
	info, err := os.Stat(abs)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%s is not a directory", abs)
	}
	return abs, nil
}

// requireFile checks that a flag points at an existing regular file.
func requireFile(flag, path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("--%s is required", flag)
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("--%s: %w", flag, err)
	}
	if info.IsDir() {
		return fmt.Errorf("--%s: %s is a directory", flag, path)
	}
	return nil
}
