package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"sandfall/internal/sand"
)

const configFileName = ".sandfall.yaml"

type Config struct {
	Mode          string `yaml:"mode"`
	TickMs        int    `yaml:"tick_ms"`
	StepsPerTick  int    `yaml:"steps_per_tick"`
	SaveDirectory string `yaml:"save_directory"`
	ExitOnFinish  bool   `yaml:"exit_on_finish"`
	LogLevel      string `yaml:"log_level"`
	LogFormat     string `yaml:"log_format"`
	LogFile       string `yaml:"log_file"`
	Colors        Colors `yaml:"colors"`
}

// Colors are lipgloss color strings: ANSI numbers ("214") or hex ("#c2b280").
type Colors struct {
	Rock  string `yaml:"rock"`
	Sand  string `yaml:"sand"`
	Grain string `yaml:"grain"`
	Floor string `yaml:"floor"`
	Spawn string `yaml:"spawn"`
}

func defaultConfig() *Config {
	return &Config{
		Mode:         sand.ModeFloor.String(),
		TickMs:       int(defaultTick / time.Millisecond),
		StepsPerTick: 1,
		LogLevel:     "info",
		LogFormat:    "text",
		Colors: Colors{
			Rock:  "245",
			Sand:  "214",
			Grain: "226",
			Floor: "94",
			Spawn: "39",
		},
	}
}

// loadConfig reads path, or ~/.sandfall.yaml when path is empty. Only the
// implicit home file may be missing; defaults fill every key a file leaves out.
func loadConfig(path string) (*Config, error) {
	config := defaultConfig()

	homeDir, _ := os.UserHomeDir()
	implicit := path == ""
	if implicit {
		if homeDir == "" {
			return config, nil
		}
		path = filepath.Join(homeDir, configFileName)
	}

	raw, err := os.ReadFile(path)
	if implicit && errors.Is(err, fs.ErrNotExist) {
		return config, nil
	}
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(raw, config); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	if config.SaveDirectory != "" {
		config.SaveDirectory = expandPath(config.SaveDirectory, homeDir)
	}
	if config.LogFile != "" {
		config.LogFile = expandPath(config.LogFile, homeDir)
	}
	return config, config.validate()
}

func (c *Config) validate() error {
	if _, err := sand.ParseMode(c.Mode); err != nil {
		return err
	}
	if c.TickMs < 1 {
		return fmt.Errorf("tick_ms must be at least 1, got %d", c.TickMs)
	}
	if c.StepsPerTick < 1 || c.StepsPerTick > maxStepsPerTick {
		return fmt.Errorf("steps_per_tick must be between 1 and %d, got %d", maxStepsPerTick, c.StepsPerTick)
	}
	if _, err := parseLogLevel(c.LogLevel); err != nil {
		return err
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("log_format must be text or json, got %q", c.LogFormat)
	}
	return nil
}

func (c *Config) SimMode() sand.Mode {
	mode, _ := sand.ParseMode(c.Mode)
	return mode
}

func (c *Config) Tick() time.Duration {
	return time.Duration(c.TickMs) * time.Millisecond
}

// GetSavePath places filename in the save directory, creating it if needed.
func (c *Config) GetSavePath(filename string) (string, error) {
	if c.SaveDirectory == "" {
		return filename, nil
	}
	if err := os.MkdirAll(c.SaveDirectory, 0o755); err != nil {
		return "", fmt.Errorf("create save directory: %w", err)
	}
	return filepath.Join(c.SaveDirectory, filename), nil
}

func expandPath(value, homeDir string) string {
	if strings.HasPrefix(value, "~") && homeDir != "" {
		value = filepath.Join(homeDir, strings.TrimPrefix(value, "~"))
	}
	if !filepath.IsAbs(value) {
		if absPath, err := filepath.Abs(value); err == nil {
			value = absPath
		}
	}
	return value
}
