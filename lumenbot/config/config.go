package config

import (
	"fmt"
	"os"
)

// JsonConfig holds the raw bytes of a JSON config file
// so that other components can unmarshal it as desired.
type JsonConfig struct {
	Raw []byte
}

// NewJsonConfig reads the file at the provided path and
// returns its contents as a JsonConfig.
func NewJsonConfig(path string) (*JsonConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read config file %s: %w", path, err)
	}
	return &JsonConfig{Raw: raw}, nil
}
