package wizard

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/tableshape/tableshape/internal/config"
)

const starterDescriptor = `# Target shape for one table. Columns and indexes listed here are added
# when missing; existing structure is never removed or altered.
table = "raw_reviews"

[[columns]]
name = "product_url"
type = "VARCHAR(500)"
after = "product_name"

[[indexes]]
name = "idx_product_url"
columns = ["product_url"]

[[indexes]]
name = "idx_product_name"
columns = ["product_name"]
`

// GenerateConfig writes tableshape.toml and a starter descriptor into dir.
// Refuses to overwrite an existing config file.
func GenerateConfig(dir string, result *Result) (string, error) {
	configPath := filepath.Join(dir, "tableshape.toml")
	if _, err := os.Stat(configPath); err == nil {
		return "", fmt.Errorf("%s already exists", configPath)
	}

	descriptorPath := "descriptor.toml"
	cfg := config.Config{
		DefaultEnvironment: result.EnvironmentName,
		DescriptorPath:     descriptorPath,
		Environments: map[string]config.EnvironmentConfig{
			result.EnvironmentName: {DatabaseURL: result.DatabaseURL},
		},
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", configPath, err)
	}

	starterPath := filepath.Join(dir, descriptorPath)
	if _, err := os.Stat(starterPath); os.IsNotExist(err) {
		if err := os.WriteFile(starterPath, []byte(starterDescriptor), 0o644); err != nil {
			return "", fmt.Errorf("failed to write %s: %w", starterPath, err)
		}
	}

	return configPath, nil
}
