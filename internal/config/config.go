// Package config loads the daemon's own YAML configuration: per-module
// bus/GPIO overrides, the machine-identifier override path, network
// staleness timeout, and QoS threshold overrides. It is distinct from
// the board's machine-identifier wiring table in internal/platform,
// which this package can override on a per-module basis.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kaonic-radio/kaonic/internal/netlayer"
	"github.com/kaonic-radio/kaonic/internal/platform"
)

// ModuleOverride replaces one or more of a board-table module's wiring
// fields. Name must match a platform.ModuleConfig.Name; zero-value
// fields leave the board table's value untouched.
type ModuleOverride struct {
	Name          string `yaml:"name"`
	SpiPath       string `yaml:"spi_path,omitempty"`
	SpiClockHz    int    `yaml:"spi_clock_hz,omitempty"`
	ResetLine     string `yaml:"reset_line,omitempty"`
	InterruptLine string `yaml:"interrupt_line,omitempty"`
}

// NetworkConfig mirrors netlayer.Config's YAML-facing fields. Durations
// are plain strings (e.g. "500ms") per yaml.v3's time.Duration support.
type NetworkConfig struct {
	SegmentCap        int           `yaml:"segment_cap"`
	MaxSegments       int           `yaml:"max_segments"`
	MaxSegmentPayload int           `yaml:"max_segment_payload"`
	QueueDepth        int           `yaml:"queue_depth"`
	StaleTimeout      time.Duration `yaml:"stale_timeout"`
}

// QoSConfig overrides the defaults internal/qos.Manager otherwise picks.
type QoSConfig struct {
	CCAThresholdDBm int8 `yaml:"cca_threshold_dbm"`
}

// Config is the daemon's own YAML file, loaded by cmd/kaonic-commd
// before it opens any hardware.
type Config struct {
	// MachineIDPath overrides platform.DefaultMachineIDPath; empty
	// keeps the default.
	MachineIDPath string `yaml:"machine_id_path,omitempty"`

	// Modules overrides individual wiring fields of the board table
	// platform.Table selects, keyed by module name.
	Modules []ModuleOverride `yaml:"modules,omitempty"`

	Network NetworkConfig `yaml:"network"`
	QoS     QoSConfig     `yaml:"qos"`
}

// Load reads and parses the YAML file at path, then fills in defaults
// for anything left zero.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Network.SegmentCap == 0 {
		c.Network.SegmentCap = 2048
	}
	if c.Network.MaxSegments == 0 {
		c.Network.MaxSegments = 8
	}
	if c.Network.MaxSegmentPayload == 0 {
		c.Network.MaxSegmentPayload = c.Network.SegmentCap - 128
	}
	if c.Network.QueueDepth == 0 {
		c.Network.QueueDepth = 16
	}
	if c.Network.StaleTimeout == 0 {
		c.Network.StaleTimeout = 2 * time.Second
	}
	if c.QoS.CCAThresholdDBm == 0 {
		c.QoS.CCAThresholdDBm = -75
	}
}

// Validate checks that the configuration describes a buildable network
// layer; bad durations or sizes are caught here rather than as a panic
// deep inside internal/netlayer.
func (c *Config) Validate() error {
	if c.Network.SegmentCap <= 0 {
		return fmt.Errorf("network.segment_cap must be positive")
	}
	if c.Network.MaxSegments <= 0 {
		return fmt.Errorf("network.max_segments must be positive")
	}
	if c.Network.MaxSegmentPayload <= 0 || c.Network.MaxSegmentPayload > c.Network.SegmentCap {
		return fmt.Errorf("network.max_segment_payload must be between 1 and segment_cap")
	}
	if c.Network.QueueDepth <= 0 {
		return fmt.Errorf("network.queue_depth must be positive")
	}
	if c.Network.StaleTimeout <= 0 {
		return fmt.Errorf("network.stale_timeout must be positive")
	}
	return nil
}

// NetlayerConfig converts the YAML network section into netlayer.Config.
func (c *Config) NetlayerConfig() netlayer.Config {
	return netlayer.Config{
		SegmentCap:        c.Network.SegmentCap,
		MaxSegments:       c.Network.MaxSegments,
		MaxSegmentPayload: c.Network.MaxSegmentPayload,
		QueueDepth:        c.Network.QueueDepth,
		StaleTimeout:      c.Network.StaleTimeout,
	}
}

// ApplyModuleOverrides overlays c.Modules onto table (as returned by
// platform.Table), matching by name. Unknown override names are
// ignored: a config written for a future board revision shouldn't
// break one it wasn't written for.
func (c *Config) ApplyModuleOverrides(table []platform.ModuleConfig) []platform.ModuleConfig {
	if len(c.Modules) == 0 {
		return table
	}

	overrides := make(map[string]ModuleOverride, len(c.Modules))
	for _, o := range c.Modules {
		overrides[o.Name] = o
	}

	out := make([]platform.ModuleConfig, len(table))
	for i, mod := range table {
		o, ok := overrides[mod.Name]
		if !ok {
			out[i] = mod
			continue
		}
		if o.SpiPath != "" {
			mod.SpiPath = o.SpiPath
		}
		if o.SpiClockHz != 0 {
			mod.SpiClockHz = o.SpiClockHz
		}
		if o.ResetLine != "" {
			mod.ResetLine = o.ResetLine
		}
		if o.InterruptLine != "" {
			mod.InterruptLine = o.InterruptLine
		}
		out[i] = mod
	}
	return out
}
