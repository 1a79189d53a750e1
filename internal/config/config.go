// Package config loads the demo's YAML configuration.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/samdwyer/brittlefloor/internal/floor"
	"github.com/samdwyer/brittlefloor/internal/telemetry"
)

// Config holds game configuration options.
type Config struct {
	// Seed for random number generation. Used for the generated map.
	// A seed of 0 means a random seed will be generated.
	Seed int64 `yaml:"seed"`

	SaveDir      string `yaml:"save_dir"`
	SlotDB       string `yaml:"slot_db"`
	LogPath      string `yaml:"log_path"`
	LogVerbosity int    `yaml:"log_verbosity"`

	Telemetry telemetry.Settings `yaml:"telemetry"`

	// StartMap is the map the party starts on in a new game.
	StartMap int `yaml:"start_map"`
	// MoveFrames is the number of frames a one-cell move takes.
	MoveFrames int `yaml:"move_frames"`

	Audio Audio        `yaml:"audio"`
	Floor floor.Params `yaml:"floor"`
}

// Audio configures cue playback.
type Audio struct {
	Enabled    bool `yaml:"enabled"`
	SampleRate int  `yaml:"sample_rate"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		SaveDir:    "saves",
		SlotDB:     "saves/slots.db",
		LogPath:    "brittlefloor.log",
		Telemetry:  telemetry.DefaultSettings(),
		StartMap:   1,
		MoveFrames: 8,
		Audio: Audio{
			Enabled:    true,
			SampleRate: 44100,
		},
		Floor: floor.DefaultParams(),
	}
}

// Load reads a YAML file over the defaults. An empty path returns the
// defaults.
func Load(path string) (Config, error) {
	c := Default()
	if path == "" {
		return c, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return c, err
	}
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return c, fmt.Errorf("%s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return c, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	var errs []error
	if c.SaveDir == "" {
		errs = append(errs, errors.New("save_dir must be set"))
	}
	if c.StartMap <= 0 {
		errs = append(errs, fmt.Errorf("start_map must be > 0, got %d", c.StartMap))
	}
	if c.MoveFrames <= 0 {
		errs = append(errs, fmt.Errorf("move_frames must be > 0, got %d", c.MoveFrames))
	}
	if c.LogVerbosity < 0 {
		errs = append(errs, fmt.Errorf("log_verbosity must be >= 0, got %d", c.LogVerbosity))
	}
	if r := c.Telemetry.SampleRatio; r < 0 || r > 1 {
		errs = append(errs, fmt.Errorf("telemetry.sample_ratio must be within [0,1], got %g", r))
	}
	if c.Audio.Enabled && c.Audio.SampleRate <= 0 {
		errs = append(errs, fmt.Errorf("audio.sample_rate must be > 0, got %d", c.Audio.SampleRate))
	}
	if err := c.Floor.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("floor: %w", err))
	}
	return errors.Join(errs...)
}
