package cmd

import (
	"fmt"
	"strings"

	"github.com/tableshape/tableshape/internal/config"
)

// resolveDatabaseURL picks the connection string for a command: an explicit
// --db flag wins, otherwise the named (or default) environment from
// tableshape.toml and its .env.<name> overrides.
func resolveDatabaseURL(dbFlag, envFlag string) (string, error) {
	if url := strings.TrimSpace(dbFlag); url != "" {
		return url, nil
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return "", fmt.Errorf("failed to load config: %w", err)
	}

	resolved, err := config.ResolveEnvironment(cfg, envFlag)
	if err != nil {
		return "", err
	}
	return resolved.DatabaseURL, nil
}

// resolveDescriptorPath picks the descriptor file for a command: a
// positional argument wins, then the environment's descriptor setting.
func resolveDescriptorPath(args []string, envFlag string) (string, error) {
	if len(args) > 0 && strings.TrimSpace(args[0]) != "" {
		return args[0], nil
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return "", fmt.Errorf("failed to load config: %w", err)
	}

	resolved, err := config.ResolveEnvironment(cfg, envFlag)
	if err == nil && resolved.DescriptorPath != "" {
		return resolved.DescriptorPath, nil
	}
	if cfg.DescriptorPath != "" {
		return cfg.DescriptorPath, nil
	}

	return "", fmt.Errorf("no descriptor file given (pass a path or set descriptor in tableshape.toml)")
}
