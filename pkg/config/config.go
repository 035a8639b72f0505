package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

const (
	DefaultEncodeOut = "encoded.png"
	DefaultDecodeOut = "message"
)

// Config holds the defaults for CLI options. Flags given on the command line win.
type Config struct {
	BitIndex  int    `yaml:"bit_idx"`
	EncodeOut string `yaml:"encode_out"`
	DecodeOut string `yaml:"decode_out"`
	Verbose   bool   `yaml:"verbose"`
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		BitIndex:  0,
		EncodeOut: DefaultEncodeOut,
		DecodeOut: DefaultDecodeOut,
	}
}

// Load reads a YAML config file on top of the defaults.
// An empty path or a missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read configuration file '%s': %w", path, err)
	}

	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse configuration file '%s': %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration file '%s': %w", path, err)
	}
	return cfg, nil
}

// Validate rejects values the codec cannot use
func (c Config) Validate() error {
	if c.BitIndex < 0 || c.BitIndex > 7 {
		return fmt.Errorf("bit_idx must be in [0,7], got %d", c.BitIndex)
	}
	if c.EncodeOut == "" {
		return fmt.Errorf("encode_out must not be empty")
	}
	if c.DecodeOut == "" {
		return fmt.Errorf("decode_out must not be empty")
	}
	return nil
}
