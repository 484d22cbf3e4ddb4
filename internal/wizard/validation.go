package wizard

import (
	"fmt"
	"strings"

	"github.com/tableshape/tableshape/internal/executor"
)

// ValidateEnvironmentName checks that a name is usable as an environment
// key in tableshape.toml.
func ValidateEnvironmentName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("environment name is required")
	}
	for _, r := range name {
		isLower := r >= 'a' && r <= 'z'
		isDigit := r >= '0' && r <= '9'
		if !isLower && !isDigit && r != '-' && r != '_' {
			return fmt.Errorf("environment name may only contain lowercase letters, digits, - and _")
		}
	}
	return nil
}

// ValidateDatabaseURL checks that a connection string is non-empty and maps
// to a known driver.
func ValidateDatabaseURL(connStr string) error {
	connStr = strings.TrimSpace(connStr)
	if connStr == "" {
		return fmt.Errorf("connection string is required")
	}

	driverType := executor.DetectDriver(connStr)
	if _, err := executor.NewDriver(driverType); err != nil {
		return err
	}
	if _, err := executor.NormalizeConnString(driverType, connStr); err != nil {
		return err
	}
	return nil
}
