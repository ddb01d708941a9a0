package config

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/docker/go-units"
	"github.com/go-playground/validator/v10"
)

var (
	sizeRegexp  = regexp.MustCompile(`^\d+(KB|MB|GB|TB|PB)$`)
	colorRegexp = regexp.MustCompile(`^#([0-9A-Fa-f]{3}|[0-9A-Fa-f]{6})$`)
)

// validateSize validates the size format (e.g., "10MB", "1GB")
func validateSize(fl validator.FieldLevel) bool {
	value := strings.ToUpper(fl.Field().String())
	if !sizeRegexp.MatchString(value) {
		return false
	}
	_, err := units.FromHumanSize(value)
	return err == nil
}

// validateColorCode checks if the field contains a valid hex color code.
func validateColorCode(fl validator.FieldLevel) bool {
	return colorRegexp.MatchString(fl.Field().String())
}

// validateDirPath accepts a path that is an existing directory or does not
// exist yet. The standard "dirpath" validator rejects some valid paths,
// such as ones with a trailing separator on Windows.
func validateDirPath(fl validator.FieldLevel) bool {
	path := strings.TrimSpace(fl.Field().String())
	if path == "" {
		return false
	}
	if strings.HasPrefix(path, "~") || strings.Contains(path, "$") {
		// checked after expansion
		return true
	}

	fi, err := os.Stat(filepath.Clean(path))
	switch {
	case err == nil:
		return fi.IsDir()
	case os.IsNotExist(err):
		return true
	default:
		return false
	}
}

// expandPath expands environment variables and "~" in paths
func expandPath(path string) (string, error) {
	// Expand "~" to home directory
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, path[2:])
	}

	// Expand environment variables
	path = os.ExpandEnv(path)

	// Convert to absolute path
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	return abs, nil
}
