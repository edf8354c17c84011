package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New(ctx))
//  2. file (YAML) if STRAIN_CONFIG is set
//  3. env (prefix STRAIN_)
func Load(ctx context.Context) (*Config, error) {
	base := New(ctx)

	k := koanf.New(".")

	if path := os.Getenv("STRAIN_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: STRAIN_ADDR, STRAIN_ACCEL_WINDOW_SIZE, ...
	// Map env keys like STRAIN_ACCEL_WINDOW_SIZE -> accel_window_size,
	// preserving underscores to match koanf tags on the struct.
	envProvider := env.Provider("STRAIN_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "strain_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.AccelWindowSize <= 0:
		return fmt.Errorf("%w: accel_window_size must be positive", ErrInvalidConfig)
	case c.HeartRateWindowSize <= 0:
		return fmt.Errorf("%w: hr_window_size must be positive", ErrInvalidConfig)
	case c.SamplePeriodSeconds <= 0:
		return fmt.Errorf("%w: sample_period_seconds must be positive", ErrInvalidConfig)
	case c.ClassifierTimeoutMS <= 0:
		return fmt.Errorf("%w: classifier_timeout_ms must be positive", ErrInvalidConfig)
	case c.ArchiveEnabled && c.ArchiveURL == "":
		return fmt.Errorf("%w: archive_url required when archiving is enabled", ErrInvalidConfig)
	}
	return nil
}
