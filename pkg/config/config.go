// Package config provides configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/user/grainfx/pkg/batch"
	"gopkg.in/yaml.v3"
)

// ErrInvalid is returned by Validate.
var ErrInvalid = errors.New("config: invalid configuration")

// Log formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Config represents the full configuration for grainfx.
type Config struct {
	// Input/Output
	InputDir  string `yaml:"input_dir"`
	OutputDir string `yaml:"output_dir"`

	// Failure handling: "abort" or "continue"
	OnError string `yaml:"on_error"`

	// Seed makes grain reproducible when set.
	Seed *uint64 `yaml:"seed,omitempty"`

	// External tools
	FFmpegPath  string `yaml:"ffmpeg_path"`
	FFprobePath string `yaml:"ffprobe_path"`

	// Video
	KeepAudio bool `yaml:"keep_audio"`

	// Logging
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	// Reports
	Summary      string `yaml:"summary"`
	PreviewDir   string `yaml:"preview_dir"`
	PreviewEvery int    `yaml:"preview_every"`
}

// Defaults returns a Config with default values.
func Defaults() Config {
	return Config{
		OnError:      string(batch.PolicyAbort),
		KeepAudio:    true,
		LogLevel:     "info",
		LogFormat:    FormatText,
		PreviewEvery: 30,
	}
}

// LoadFromFile loads configuration from a YAML file. Fields missing from
// the file keep their defaults.
func LoadFromFile(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}

	return cfg, nil
}

// SaveToFile writes the configuration as YAML.
func (c Config) SaveToFile(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks that the configuration can drive a run.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.InputDir) == "" {
		errs = append(errs, errors.New("input directory is required"))
	}
	if strings.TrimSpace(c.OutputDir) == "" {
		errs = append(errs, errors.New("output directory is required"))
	}
	if _, err := batch.ParsePolicy(c.OnError); err != nil {
		errs = append(errs, err)
	}
	switch c.LogFormat {
	case "", FormatText, FormatJSON:
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q", c.LogFormat))
	}
	if c.PreviewEvery < 0 {
		errs = append(errs, fmt.Errorf("preview_every must not be negative, got %d", c.PreviewEvery))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}
	return nil
}

// ToBatchConfig converts Config to batch.Config. Call Validate first; an
// unknown policy falls back to abort.
func (c Config) ToBatchConfig() batch.Config {
	policy, err := batch.ParsePolicy(c.OnError)
	if err != nil {
		policy = batch.PolicyAbort
	}
	return batch.Config{
		InputDir:  c.InputDir,
		OutputDir: c.OutputDir,
		Policy:    policy,
	}
}
