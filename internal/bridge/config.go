package bridge

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mavsense/mavsense/internal/mavlink/session"
)

var (
	ErrMavlinkPortRequired      = errors.New("bridge: mavlink port is required")
	ErrInvalidHeartbeatInterval = errors.New("bridge: heartbeat interval must be positive")
	ErrInvalidSensor            = errors.New("bridge: invalid sensor entry")
)

// SensorConfig describes one attached sensor head.
type SensorConfig struct {
	Enabled bool
	Name    string
	Port    string
	Baud    int
}

// Config is the bridge service configuration.
type Config struct {
	MavlinkPort string
	MavlinkBaud int
	SystemID    uint8
	ComponentID uint8

	HeartbeatInterval time.Duration
	OutputDir         string

	// StatusAddr enables the health/metrics HTTP endpoint when set.
	StatusAddr string

	// RebroadcastPort mirrors each logged row over a secondary serial
	// link (long-range radio) when set.
	RebroadcastPort string
	RebroadcastBaud int

	Sensors []SensorConfig
}

// DefaultConfig returns field-deployment defaults. MavlinkPort has no
// sane default and must come from configuration.
func DefaultConfig() Config {
	return Config{
		MavlinkBaud:       57600,
		SystemID:          1,
		ComponentID:       191,
		HeartbeatInterval: session.DefaultHeartbeatInterval,
		OutputDir:         "logs",
		RebroadcastBaud:   57600,
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.MavlinkPort) == "" {
		return ErrMavlinkPortRequired
	}
	if c.HeartbeatInterval <= 0 {
		return ErrInvalidHeartbeatInterval
	}
	seen := map[string]bool{}
	for i, s := range c.Sensors {
		if !s.Enabled {
			continue
		}
		if strings.TrimSpace(s.Name) == "" {
			return fmt.Errorf("%w: sensors[%d] missing name", ErrInvalidSensor, i)
		}
		if strings.TrimSpace(s.Port) == "" {
			return fmt.Errorf("%w: sensor %q missing port", ErrInvalidSensor, s.Name)
		}
		if seen[s.Name] {
			return fmt.Errorf("%w: duplicate sensor name %q", ErrInvalidSensor, s.Name)
		}
		seen[s.Name] = true
	}
	return nil
}

// EnabledSensors filters the configured sensors down to active ones.
func (c Config) EnabledSensors() []SensorConfig {
	out := make([]SensorConfig, 0, len(c.Sensors))
	for _, s := range c.Sensors {
		if s.Enabled {
			out = append(out, s)
		}
	}
	return out
}
