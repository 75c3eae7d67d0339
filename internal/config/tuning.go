package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadTuningFile overlays the YAML file at path onto base. A blank path or a
// missing file leaves base untouched.
func LoadTuningFile(path string, base Tuning) (Tuning, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return base, nil
	}

	content, err := os.ReadFile(trimmed)
	if err != nil {
		if os.IsNotExist(err) {
			return base, nil
		}
		return base, fmt.Errorf("read tuning file: %w", err)
	}

	tuning := base
	if err := yaml.Unmarshal(content, &tuning); err != nil {
		return base, fmt.Errorf("parse tuning file %s: %w", trimmed, err)
	}

	return tuning.normalized(), nil
}
