package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/raitses/stamp/internal/vcs"
)

// Config holds the runtime configuration
type Config struct {
	Root       string
	GitBackend string
	Version    string
	LayoutFile string
}

// Load reads configuration from .env files and environment variables
// Priority: env vars > local .env > global .env
// Without a home directory the global file is skipped.
func Load() (*Config, error) {
	globalPath := ""
	if homeDir, err := os.UserHomeDir(); err == nil {
		globalPath = filepath.Join(homeDir, GlobalConfigDir, GlobalEnvFile)
	}
	return LoadFrom(globalPath, LocalEnvFile, os.LookupEnv)
}

// LoadFrom is Load with explicit file locations and environment.
// An empty path is skipped.
func LoadFrom(globalPath, localPath string, lookup func(string) (string, bool)) (*Config, error) {
	values := map[string]string{}

	// Both files are optional; the local one overrides the global one
	for _, path := range []string{globalPath, localPath} {
		if path == "" {
			continue
		}
		if err := loadEnvFile(path, values); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
	}

	// Environment variables override everything
	for _, key := range []string{EnvRoot, EnvGitBackend, EnvVersion, EnvLayout} {
		if v, ok := lookup(key); ok && v != "" {
			values[key] = v
		}
	}

	cfg := &Config{
		Root:       DefaultRoot,
		GitBackend: DefaultGitBackend,
	}
	if v := values[EnvRoot]; v != "" {
		cfg.Root = v
	}
	if v := values[EnvGitBackend]; v != "" {
		cfg.GitBackend = v
	}
	cfg.Version = values[EnvVersion]
	cfg.LayoutFile = values[EnvLayout]

	return cfg, nil
}

// loadEnvFile reads a .env file into values, replacing earlier entries
func loadEnvFile(path string, values map[string]string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")

		// Parse KEY=VALUE
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if !strings.HasPrefix(key, "STAMP_") {
			continue
		}
		values[key] = unquote(strings.TrimSpace(value))
	}

	return scanner.Err()
}

func unquote(v string) string {
	if len(v) >= 2 && (v[0] == '"' || v[0] == '\'') && v[len(v)-1] == v[0] {
		return v[1 : len(v)-1]
	}
	return v
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Root) == "" {
		return fmt.Errorf("%s must not be empty", EnvRoot)
	}
	if _, err := vcs.ForBackend(c.GitBackend, c.Root); err != nil {
		return fmt.Errorf("%s: %w (supported: %s)", EnvGitBackend, err, strings.Join(vcs.Backends(), ", "))
	}
	if c.Version != "" {
		if _, err := semver.StrictNewVersion(strings.TrimPrefix(c.Version, "v")); err != nil {
			return fmt.Errorf("%s %q is not a semantic version: %w", EnvVersion, c.Version, err)
		}
	}
	return nil
}

// LayoutPath returns the layout file to load and whether it was set explicitly
func (c *Config) LayoutPath() (string, bool) {
	if c.LayoutFile == "" {
		return filepath.Join(c.Root, DefaultLayoutFile), false
	}
	if filepath.IsAbs(c.LayoutFile) {
		return c.LayoutFile, true
	}
	return filepath.Join(c.Root, c.LayoutFile), true
}
