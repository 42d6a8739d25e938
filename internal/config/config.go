package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/gobwas/glob"
	"gopkg.in/yaml.v3"
)

// Config is the top-level m3u8-mcp.yaml structure.
type Config struct {
	LogLevel  string          `yaml:"log_level"`
	Server    ServerConfig    `yaml:"server"`
	Fetch     FetchConfig     `yaml:"fetch"`
	FFmpeg    FFmpegConfig    `yaml:"ffmpeg"`
	FFprobe   FFprobeConfig   `yaml:"ffprobe"`
	CaptureUI CaptureUIConfig `yaml:"capture_ui"`
}

type ServerConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

type FetchConfig struct {
	Timeout      time.Duration `yaml:"timeout"`
	UserAgent    string        `yaml:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes"`
	AllowedHosts []string      `yaml:"allowed_hosts"`
	BlockPrivate bool          `yaml:"block_private"`
}

type FFmpegConfig struct {
	Path          string        `yaml:"path"`
	Timeout       time.Duration `yaml:"timeout"`
	DefaultOutput string        `yaml:"default_output"`
}

type FFprobeConfig struct {
	Path    string        `yaml:"path"`
	Timeout time.Duration `yaml:"timeout"`
}

type CaptureUIConfig struct {
	// Command is the capture UI executable; empty means the running binary.
	Command string `yaml:"command"`
}

// Environment variables that override the file.
const (
	EnvConfig    = "M3U8_MCP_CONFIG"
	EnvLogLevel  = "M3U8_MCP_LOG_LEVEL"
	EnvFFmpeg    = "M3U8_MCP_FFMPEG"
	EnvFFprobe   = "M3U8_MCP_FFPROBE"
	EnvCaptureUI = "M3U8_MCP_CAPTURE_UI"
)

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		LogLevel: "info",
		Server: ServerConfig{
			Name:    "m3u8-mcp",
			Version: "0.1.0",
		},
		Fetch: FetchConfig{
			Timeout:      30 * time.Second,
			UserAgent:    "m3u8-mcp/0.1.0",
			MaxBodyBytes: 50 * 1024 * 1024,
		},
		FFmpeg: FFmpegConfig{
			Path:          "ffmpeg",
			DefaultOutput: "output.mp4",
		},
		FFprobe: FFprobeConfig{
			Path:    "ffprobe",
			Timeout: 60 * time.Second,
		},
	}
}

// Load reads the file named by M3U8_MCP_CONFIG, or defaults when unset.
func Load() (*Config, error) {
	return LoadFrom(os.Getenv(EnvConfig))
}

// LoadFrom reads the config at path over the defaults, then applies
// environment overrides. An empty path or a missing file yields defaults.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(EnvFFmpeg); v != "" {
		c.FFmpeg.Path = v
	}
	if v := os.Getenv(EnvFFprobe); v != "" {
		c.FFprobe.Path = v
	}
	if v := os.Getenv(EnvCaptureUI); v != "" {
		c.CaptureUI.Command = v
	}
}

// Validate checks values the loader cannot repair.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "":
	default:
		return fmt.Errorf("invalid log_level %q: want debug or info", c.LogLevel)
	}
	if c.Fetch.Timeout < 0 {
		return fmt.Errorf("fetch.timeout must not be negative")
	}
	if c.Fetch.MaxBodyBytes <= 0 {
		return fmt.Errorf("fetch.max_body_bytes must be positive")
	}
	for _, p := range c.Fetch.AllowedHosts {
		if _, err := glob.Compile(p, '.'); err != nil {
			return fmt.Errorf("fetch.allowed_hosts: invalid pattern %q: %w", p, err)
		}
	}
	if c.FFmpeg.Timeout < 0 {
		return fmt.Errorf("ffmpeg.timeout must not be negative")
	}
	if c.FFprobe.Timeout < 0 {
		return fmt.Errorf("ffprobe.timeout must not be negative")
	}
	if c.FFmpeg.Path == "" || c.FFprobe.Path == "" {
		return fmt.Errorf("ffmpeg.path and ffprobe.path must be set")
	}
	return nil
}

// Debug reports whether debug logging is enabled.
func (c *Config) Debug() bool {
	return c.LogLevel == "debug"
}
