package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mohammad-meeta/skaters/internal/progress"
)

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	// Points maps each difficulty level to its per-cone multiplier.
	Points map[string]int `yaml:"points"`
}

type ServerConfig struct {
	Port           int      `yaml:"port"`
	Host           string   `yaml:"host"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	AuthToken      string   `yaml:"auth_token"`
}

type StorageConfig struct {
	// Dir overrides the XDG state directory for state.json.
	Dir string `yaml:"dir"`
}

// Load reads the config file at path, layering it over the defaults. A
// missing file is not an error; the defaults are returned as-is.
func Load(path string) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port: 8080,
			Host: "127.0.0.1",
		},
		Points: map[string]int{
			"A": 10,
			"B": 8,
			"C": 6,
			"D": 4,
			"E": 2,
		},
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Multipliers converts the points table into the scoring engine's form.
// Every level must carry a positive factor.
func (c *Config) Multipliers() (progress.Multipliers, error) {
	m := make(progress.Multipliers, len(progress.Levels))
	for _, lvl := range progress.Levels {
		n, ok := c.Points[string(lvl)]
		if !ok {
			return nil, fmt.Errorf("points table missing level %s", lvl)
		}
		if n <= 0 {
			return nil, fmt.Errorf("points multiplier for level %s must be positive, got %d", lvl, n)
		}
		m[lvl] = n
	}
	return m, nil
}
