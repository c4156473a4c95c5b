package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// DeviceType selects the pad controller
type DeviceType string

const (
	DeviceTypeClassic  DeviceType = "classic"  // Launchpad S / Mini Mk1
	DeviceTypeColorful DeviceType = "colorful" // Launchpad Mini Mk3
	DeviceTypeVirtual  DeviceType = "virtual"  // on-screen pad, no hardware
)

// DeviceConfig holds configuration for the MIDI device
type DeviceConfig struct {
	Type    DeviceType `json:"type"`
	InPort  string     `json:"in_port"`  // MIDI input port name, empty = auto-detect
	OutPort string     `json:"out_port"` // MIDI output port name, empty = auto-detect
}

// PlaybackConfig holds fade timings and the starting play mode
type PlaybackConfig struct {
	FadeOutMs     int    `json:"fadeout_ms"`
	SoloFadeOutMs int    `json:"solo_fadeout_ms"`
	SoloGraceMs   int    `json:"solo_grace_ms"`
	InitialMode   string `json:"initial_mode"`
}

// LoopConfig tunes the event loop
type LoopConfig struct {
	IdleMs     int `json:"idle_ms"`
	BlinkTicks int `json:"blink_ticks"`
}

// AudioConfig configures the output device
type AudioConfig struct {
	SampleRate int     `json:"sample_rate"`
	BufferMs   int     `json:"buffer_ms"`
	Volume     float64 `json:"volume"` // log2 units, 0 = unchanged
	MaxVoices  int     `json:"max_voices"`
}

// Config holds application configuration
type Config struct {
	Device   DeviceConfig   `json:"device"`
	Playback PlaybackConfig `json:"playback"`
	Loop     LoopConfig     `json:"loop"`
	Audio    AudioConfig    `json:"audio"`
	LogLevel string         `json:"log_level"`
}

// Default returns the configuration used when no file exists
func Default() *Config {
	return &Config{
		Device: DeviceConfig{Type: DeviceTypeClassic},
		Playback: PlaybackConfig{
			FadeOutMs:     100,
			SoloFadeOutMs: 100,
			SoloGraceMs:   200,
			InitialMode:   "toggle",
		},
		Loop: LoopConfig{IdleMs: 1, BlinkTicks: 1000},
		Audio: AudioConfig{
			SampleRate: 44100,
			BufferMs:   50,
			MaxVoices:  16,
		},
		LogLevel: "info",
	}
}

// configDir returns the platform-appropriate config directory
func configDir() (string, error) {
	configHome, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configHome, "soundpad"), nil
}

// ConfigPath returns the full path to the config file
func ConfigPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from disk. A missing file yields the defaults,
// which are written back so there is a file to edit. Failing to write them
// is only logged.
func Load() (*Config, error) {
	configPath, err := ConfigPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(configPath)
	if os.IsNotExist(err) {
		cfg := Default()
		if err := cfg.Save(); err != nil {
			logrus.WithError(err).WithField("path", configPath).Warn("could not write default config")
		}
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", configPath, err)
	}
	cfg.Normalize()
	return cfg, nil
}

// Save writes the config to disk
func (c *Config) Save() error {
	configPath, err := ConfigPath()
	if err != nil {
		return err
	}

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0644)
}

// Normalize replaces out-of-range values with their defaults.
func (c *Config) Normalize() {
	def := Default()

	c.Device.Type = DeviceType(strings.ToLower(strings.TrimSpace(string(c.Device.Type))))
	switch c.Device.Type {
	case DeviceTypeClassic, DeviceTypeColorful, DeviceTypeVirtual:
	default:
		c.Device.Type = def.Device.Type
	}

	positive(&c.Playback.FadeOutMs, def.Playback.FadeOutMs)
	positive(&c.Playback.SoloFadeOutMs, def.Playback.SoloFadeOutMs)
	positive(&c.Playback.SoloGraceMs, def.Playback.SoloGraceMs)
	if strings.TrimSpace(c.Playback.InitialMode) == "" {
		c.Playback.InitialMode = def.Playback.InitialMode
	}
	positive(&c.Loop.IdleMs, def.Loop.IdleMs)
	positive(&c.Loop.BlinkTicks, def.Loop.BlinkTicks)
	positive(&c.Audio.SampleRate, def.Audio.SampleRate)
	positive(&c.Audio.BufferMs, def.Audio.BufferMs)
	positive(&c.Audio.MaxVoices, def.Audio.MaxVoices)

	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		c.LogLevel = def.LogLevel
	}
}

func positive(v *int, def int) {
	if *v <= 0 {
		*v = def
	}
}

func (p PlaybackConfig) FadeOut() time.Duration     { return ms(p.FadeOutMs) }
func (p PlaybackConfig) SoloFadeOut() time.Duration { return ms(p.SoloFadeOutMs) }
func (p PlaybackConfig) SoloGrace() time.Duration   { return ms(p.SoloGraceMs) }
func (l LoopConfig) Idle() time.Duration            { return ms(l.IdleMs) }
func (a AudioConfig) Buffer() time.Duration         { return ms(a.BufferMs) }

func ms(v int) time.Duration {
	return time.Duration(v) * time.Millisecond
}
