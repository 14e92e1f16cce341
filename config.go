package seep

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
	"periph.io/x/conn/v3/physic"
)

// ClockPresets are the bus clocks, in kHz, that the supported bridges are
// validated at.
var ClockPresets = []int{20, 50, 100, 400, 750}

// Config customizes the programmer beyond the built-in catalog and timing
// defaults. Every field is optional; the zero value changes nothing.
type Config struct {
	Profiles []ProfileConfig `yaml:"profiles"`
	Retry    *RetryConfig    `yaml:"retry"`
	ClockKHz int             `yaml:"clock_khz"`
	Addr     uint16          `yaml:"addr"`
}

// ProfileConfig declares a part the built-in catalog does not list. The
// address width is derived from the capacity.
type ProfileConfig struct {
	Name       string `yaml:"name"`
	TotalBytes int    `yaml:"total_bytes"`
	PageBytes  int    `yaml:"page_bytes"`
}

// RetryConfig overrides fields of DefaultRetryPolicy. Durations are in
// milliseconds; zero fields keep their default.
type RetryConfig struct {
	Attempts        int `yaml:"attempts"`
	IntervalMs      int `yaml:"interval_ms"`
	ProbeIntervalMs int `yaml:"probe_interval_ms"`
	SettleMs        int `yaml:"settle_ms"`
	WriteCycleMs    int `yaml:"write_cycle_ms"`
	ChunkPauseMs    int `yaml:"chunk_pause_ms"`
	ConnectSettleMs int `yaml:"connect_settle_ms"`
}

// LoadConfig reads and validates a YAML config file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks every declared profile, the address and the clock.
func (c *Config) Validate() error {
	for _, pc := range c.Profiles {
		p := NewProfile(pc.Name, pc.TotalBytes, pc.PageBytes)
		if err := p.Validate(); err != nil {
			return err
		}
	}
	if c.Addr != 0 && !Addr(c.Addr).Valid() {
		return fmt.Errorf("config: address %s outside %s..%s", Addr(c.Addr), AddrMin, AddrMax)
	}
	if c.ClockKHz != 0 && !validClock(c.ClockKHz) {
		return fmt.Errorf("config: clock %d kHz not one of %v", c.ClockKHz, ClockPresets)
	}
	return nil
}

func validClock(khz int) bool {
	for _, p := range ClockPresets {
		if khz == p {
			return true
		}
	}
	return false
}

// Clock returns the configured bus clock, or DefaultClock.
func (c *Config) Clock() physic.Frequency {
	if c.ClockKHz == 0 {
		return DefaultClock
	}
	return physic.Frequency(c.ClockKHz) * physic.KiloHertz
}

// RetryPolicy returns DefaultRetryPolicy with the configured overrides
// applied.
func (c *Config) RetryPolicy() RetryPolicy {
	p := DefaultRetryPolicy()
	r := c.Retry
	if r == nil {
		return p
	}
	if r.Attempts > 0 {
		p.Attempts = r.Attempts
	}
	if r.IntervalMs > 0 {
		p.Interval = time.Duration(r.IntervalMs) * time.Millisecond
	}
	if r.ProbeIntervalMs > 0 {
		p.ProbeInterval = time.Duration(r.ProbeIntervalMs) * time.Millisecond
	}
	if r.SettleMs > 0 {
		p.Settle = time.Duration(r.SettleMs) * time.Millisecond
	}
	if r.WriteCycleMs > 0 {
		p.WriteCycle = time.Duration(r.WriteCycleMs) * time.Millisecond
	}
	if r.ChunkPauseMs > 0 {
		p.ChunkPause = time.Duration(r.ChunkPauseMs) * time.Millisecond
	}
	if r.ConnectSettleMs > 0 {
		p.ConnectSettle = time.Duration(r.ConnectSettleMs) * time.Millisecond
	}
	return p
}

// Profile resolves name against the config's extra profiles first, then the
// built-in catalog.
func (c *Config) Profile(name string) (Profile, bool) {
	for _, pc := range c.Profiles {
		p := NewProfile(pc.Name, pc.TotalBytes, pc.PageBytes)
		if canonicalName(p.Name) == canonicalName(name) || p.Name == name {
			return p, true
		}
	}
	return LookupProfile(name)
}
