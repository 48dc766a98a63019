// ABOUTME: Configuration loading for whisper
// ABOUTME: YAML file with defaults, environment overrides and validation
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/vitruviano/whisper-go/internal/gift"
	"github.com/vitruviano/whisper-go/internal/synth"
	"gopkg.in/yaml.v3"
)

// DefaultModel is the speech model used for synthesis
const DefaultModel = synth.DefaultModel

// Config is the complete configuration
type Config struct {
	Synth    SynthConfig    `yaml:"synth"`
	Server   ServerConfig   `yaml:"server"`
	Playback PlaybackConfig `yaml:"playback"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// SynthConfig configures speech synthesis
type SynthConfig struct {
	APIKey  string        `yaml:"api_key"`
	Model   string        `yaml:"model"`
	Mode    string        `yaml:"mode"`
	Timeout time.Duration `yaml:"timeout"`
}

// ServerConfig configures the whisper service
type ServerConfig struct {
	Port        int    `yaml:"port"`
	ServiceName string `yaml:"service_name"`
	MDNS        bool   `yaml:"mdns"`
}

// PlaybackConfig configures local playback
type PlaybackConfig struct {
	Volume int  `yaml:"volume"`
	Muted  bool `yaml:"muted"`

	// Epsilon is the end-of-buffer slack; 0 selects the default and a
	// negative value disables the slack
	Epsilon time.Duration `yaml:"epsilon"`
}

// LoggingConfig configures the logger
type LoggingConfig struct {
	File  string `yaml:"file"`
	Debug bool   `yaml:"debug"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Synth: SynthConfig{
			Model:   DefaultModel,
			Mode:    string(gift.DefaultMode),
			Timeout: 60 * time.Second,
		},
		Server: ServerConfig{
			Port:        8927,
			ServiceName: "Whisper",
			MDNS:        true,
		},
		Playback: PlaybackConfig{
			Volume:  100,
			Epsilon: 200 * time.Millisecond,
		},
		Logging: LoggingConfig{
			File: "whisper.log",
		},
	}
}

// Load reads path over the defaults and applies environment overrides.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	config := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, config); err != nil {
				return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
			}
		}
	}

	if err := config.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// ApplyEnv overrides fields from the environment
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if key, ok := lookup("GEMINI_API_KEY"); ok && key != "" {
		c.Synth.APIKey = key
	} else if key, ok := lookup("GOOGLE_API_KEY"); ok && key != "" {
		c.Synth.APIKey = key
	}

	if port, ok := lookup("WHISPER_PORT"); ok && port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return fmt.Errorf("invalid WHISPER_PORT %q: %w", port, err)
		}
		c.Server.Port = p
	}

	return nil
}

// Validate checks every section
func (c *Config) Validate() error {
	if err := c.Synth.Validate(); err != nil {
		return fmt.Errorf("synth config: %w", err)
	}
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server config: %w", err)
	}
	if err := c.Playback.Validate(); err != nil {
		return fmt.Errorf("playback config: %w", err)
	}
	return nil
}

// Validate validates synthesis configuration
func (s *SynthConfig) Validate() error {
	if s.Model == "" {
		return fmt.Errorf("model cannot be empty")
	}
	if _, err := gift.ParseMode(s.Mode); err != nil {
		return err
	}
	if s.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", s.Timeout)
	}
	return nil
}

// Validate validates server configuration
func (s *ServerConfig) Validate() error {
	if s.Port < 1 || s.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", s.Port)
	}
	if s.MDNS && s.ServiceName == "" {
		return fmt.Errorf("service_name cannot be empty when mdns is enabled")
	}
	return nil
}

// maxEpsilon bounds the end-of-buffer slack
const maxEpsilon = time.Second

// Validate validates playback configuration
func (p *PlaybackConfig) Validate() error {
	if p.Volume < 0 || p.Volume > 100 {
		return fmt.Errorf("volume must be between 0 and 100, got %d", p.Volume)
	}
	if p.Epsilon > maxEpsilon {
		return fmt.Errorf("epsilon cannot exceed %v, got %v", maxEpsilon, p.Epsilon)
	}
	return nil
}
