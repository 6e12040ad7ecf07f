// SPDX-License-Identifier: AGPL-3.0-only
package config

import (
	"fmt"
	"os"

	yaml "go.yaml.in/yaml/v3"
)

// LoadFile merges a YAML config file into cfg. A missing file is not an
// error so installs without a config file keep working on defaults.
func LoadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}
