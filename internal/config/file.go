package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvConfigFile points at a defaults file outside the usual location.
const EnvConfigFile = "BILLOMAT_CONFIG"

// Defaults are the non-secret settings read from config.yaml. Credentials
// never live here; they stay in the keyring or the environment.
type Defaults struct {
	Output      string        `yaml:"output"`
	Timeout     time.Duration `yaml:"timeout"`
	BaseURL     string        `yaml:"base_url"`
	UserAgent   string        `yaml:"user_agent"`
	Profile     string        `yaml:"profile"`
	Concurrency int           `yaml:"concurrency"`
}

var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(?::([^}]*))?\}`)

// expandEnvVars replaces ${VAR} and ${VAR:default} patterns in a string.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		submatch := envVarPattern.FindStringSubmatch(match)
		if len(submatch) < 2 {
			return match
		}
		defaultVal := ""
		if len(submatch) >= 3 {
			defaultVal = submatch[2]
		}
		if val, ok := os.LookupEnv(submatch[1]); ok {
			return val
		}
		return defaultVal
	})
}

// DefaultsPath returns where config.yaml is looked up when no explicit path
// is given.
func DefaultsPath() string {
	if p := strings.TrimSpace(os.Getenv(EnvConfigFile)); p != "" {
		return p
	}
	dir, err := userConfigDir()
	if err != nil || strings.TrimSpace(dir) == "" {
		return ""
	}
	return filepath.Join(dir, "billomat", "config.yaml")
}

// LoadDefaults reads the defaults file at path, or at DefaultsPath when path
// is empty. A missing default file is not an error; a missing explicit one is.
func LoadDefaults(path string) (Defaults, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultsPath()
		if path == "" {
			return Defaults{}, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return Defaults{}, nil
		}
		return Defaults{}, fmt.Errorf("read config file %s: %w", path, err)
	}

	var d Defaults
	if err := yaml.Unmarshal([]byte(expandEnvVars(string(data))), &d); err != nil {
		return Defaults{}, fmt.Errorf("parse config file %s: %w", path, err)
	}
	if d.Timeout < 0 {
		return Defaults{}, fmt.Errorf("parse config file %s: timeout must not be negative", path)
	}
	if d.Concurrency < 0 {
		return Defaults{}, fmt.Errorf("parse config file %s: concurrency must not be negative", path)
	}
	return d, nil
}
