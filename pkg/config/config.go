package config

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"
)

// Config holds render settings that can be stored in a JSON file.
type Config struct {
	Scene   string `json:"scene"`
	Width   int    `json:"width"`
	Samples int    `json:"samples"`
	Depth   int    `json:"depth"`
	Seed    int64  `json:"seed"`

	// Scheduling
	Passes   int `json:"passes"`
	Workers  int `json:"workers"`
	TileSize int `json:"tile_size"`

	// Output
	OutputDir string `json:"output_dir"`
	Format    string `json:"format"`
	Resize    int    `json:"resize"`
}

// Flags holds CLI flag values that override config file settings.
// Zero values mean "not set".
type Flags struct {
	Scene     string
	Width     int
	Samples   int
	Depth     int
	Seed      int64
	Passes    int
	Workers   int
	OutputDir string
	Format    string
	Resize    int
}

// Load reads a JSON config file and returns Config.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Resolve applies CLI overrides and fills empty fields with defaults.
// Width, samples, depth and seed stay zero when unset so the scene's own values apply.
func (c *Config) Resolve(flags Flags) {
	if flags.Scene != "" {
		c.Scene = flags.Scene
	}
	if flags.Width > 0 {
		c.Width = flags.Width
	}
	if flags.Samples > 0 {
		c.Samples = flags.Samples
	}
	if flags.Depth > 0 {
		c.Depth = flags.Depth
	}
	if flags.Seed != 0 {
		c.Seed = flags.Seed
	}
	if flags.Passes > 0 {
		c.Passes = flags.Passes
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.Format != "" {
		c.Format = flags.Format
	}
	if flags.Resize > 0 {
		c.Resize = flags.Resize
	}

	if c.Scene == "" {
		c.Scene = "default"
	}
	if c.Passes <= 0 {
		c.Passes = 1
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.TileSize <= 0 {
		c.TileSize = 32
	}
	if c.OutputDir == "" {
		c.OutputDir = "output"
	}
	if c.Format == "" {
		c.Format = "png"
	}
}
