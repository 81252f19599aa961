package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// expandEnvVar expands an environment variable reference in the given value
// Supports both $VAR and ${VAR} syntax
// If the environment variable is not set, returns empty string.
func expandEnvVar(value string) string {
	if !strings.HasPrefix(value, "$") {
		return value
	}

	var envVarName string
	if strings.HasPrefix(value, "${") && strings.HasSuffix(value, "}") {
		envVarName = value[2 : len(value)-1]
	} else {
		envVarName = strings.TrimPrefix(value, "$")
	}

	return os.Getenv(envVarName)
}

// ResolvePath converts a relative path to absolute path if needed.
// Relative paths are resolved against the directory of the config file in use,
// or the current working directory when no file was read.
func ResolvePath(v *viper.Viper, path string) (string, error) {
	if filepath.IsAbs(path) {
		return path, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("error getting current working directory: %w", err)
	}

	configFile := v.ConfigFileUsed()
	if configFile == "" {
		return filepath.Join(cwd, path), nil
	}

	configDir := filepath.Dir(configFile)
	if !filepath.IsAbs(configDir) {
		configDir = filepath.Join(cwd, configDir)
	}
	return filepath.Join(configDir, path), nil
}
