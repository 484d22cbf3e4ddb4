package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

const defaultEnvironmentName = "local"

// ResolvedEnvironment is a named environment with concrete values: the
// connection string and the descriptor path, after config and dotenv
// layering.
type ResolvedEnvironment struct {
	Name           string
	DatabaseURL    string
	DescriptorPath string
	DotenvPath     string
	FromConfig     bool
	FromDotenv     bool
}

// ResolveEnvironment resolves a named environment into a concrete
// connection string. Resolution order: tableshape.toml values for the
// environment, then a .env.<name> file next to the config (DATABASE_URL
// and TABLESHAPE_DESCRIPTOR keys), the dotenv winning where both set a
// value.
func ResolveEnvironment(cfg *Config, name string) (*ResolvedEnvironment, error) {
	envName := strings.TrimSpace(name)
	if envName == "" {
		if cfg != nil && cfg.DefaultEnvironment != "" {
			envName = cfg.DefaultEnvironment
		} else {
			envName = defaultEnvironmentName
		}
	}

	resolved := &ResolvedEnvironment{Name: envName}

	var baseDir string
	if cfg != nil {
		baseDir = cfg.ConfigDir()
		resolved.DescriptorPath = cfg.DescriptorPath

		if envCfg, ok := cfg.Environments[envName]; ok {
			resolved.FromConfig = true
			resolved.DatabaseURL = envCfg.DatabaseURL
			if envCfg.DescriptorPath != "" {
				resolved.DescriptorPath = envCfg.DescriptorPath
			}
		}
	}
	if baseDir == "" {
		if cwd, err := os.Getwd(); err == nil {
			baseDir = cwd
		}
	}

	resolved.DotenvPath = filepath.Join(baseDir, ".env."+envName)
	if err := applyDotenv(resolved); err != nil {
		return nil, err
	}

	if resolved.DatabaseURL == "" {
		return nil, fmt.Errorf("environment %q has no database_url (set it in tableshape.toml or %s)",
			envName, resolved.DotenvPath)
	}

	return resolved, nil
}

func applyDotenv(resolved *ResolvedEnvironment) error {
	if _, err := os.Stat(resolved.DotenvPath); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to access %s: %w", resolved.DotenvPath, err)
	}

	values, err := godotenv.Read(resolved.DotenvPath)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", resolved.DotenvPath, err)
	}

	if url := strings.TrimSpace(values["DATABASE_URL"]); url != "" {
		resolved.DatabaseURL = url
		resolved.FromDotenv = true
	}
	if path := strings.TrimSpace(values["TABLESHAPE_DESCRIPTOR"]); path != "" {
		resolved.DescriptorPath = path
		resolved.FromDotenv = true
	}

	return nil
}
