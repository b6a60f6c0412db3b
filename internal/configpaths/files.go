package configpaths

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const (
	appName = "cecinput"

	// SystemConfigDir holds the system-wide configuration used by the
	// installed service.
	SystemConfigDir = "/etc/cecinput"
)

// DefaultConfigDir returns the per-user configuration directory.
func DefaultConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName), nil
	}
	if home := os.Getenv("HOME"); home != "" {
		return filepath.Join(home, ".config", appName), nil
	}
	return "", errors.New("HOME not set")
}

// DefaultConfigPath returns the per-user config file path for format
// ("json", "yaml" or "toml").
func DefaultConfigPath(format string) (string, error) {
	dir, err := DefaultConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config."+Ext(format)), nil
}

// Ext maps a format name to its file extension.
func Ext(format string) string {
	switch format {
	case "yaml", "yml":
		return "yaml"
	case "toml":
		return "toml"
	default:
		return "json"
	}
}

// DefaultSocketPath returns where the control socket lives when none is
// configured.
func DefaultSocketPath() string {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return filepath.Join(dir, appName+".sock")
	}
	if os.Geteuid() == 0 {
		return filepath.Join("/run", appName+".sock")
	}
	return filepath.Join(os.TempDir(), fmt.Sprintf("%s-%d.sock", appName, os.Getuid()))
}

// EnsureDir creates the parent directory of filePath.
func EnsureDir(filePath string) error {
	return os.MkdirAll(filepath.Dir(filePath), 0o755)
}

// ConfigCandidatePaths lists config files per loader, highest priority first.
// userPath, when set, is routed to the loader matching its extension.
func ConfigCandidatePaths(userPath string) (jsonPaths, yamlPaths, tomlPaths []string) {
	add := func(dir, base string) {
		jsonPaths = append(jsonPaths, filepath.Join(dir, base+".json"))
		yamlPaths = append(yamlPaths, filepath.Join(dir, base+".yaml"), filepath.Join(dir, base+".yml"))
		tomlPaths = append(tomlPaths, filepath.Join(dir, base+".toml"))
	}

	if userPath != "" {
		switch filepath.Ext(userPath) {
		case ".yaml", ".yml":
			yamlPaths = append(yamlPaths, userPath)
		case ".toml":
			tomlPaths = append(tomlPaths, userPath)
		default:
			jsonPaths = append(jsonPaths, userPath)
		}
	}

	if wd, err := os.Getwd(); err == nil {
		add(wd, appName)
	}
	if dir, err := DefaultConfigDir(); err == nil {
		add(dir, "config")
	}
	add(SystemConfigDir, "config")
	return
}
