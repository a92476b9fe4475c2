package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mavsense/mavsense/internal/bridge"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sensorctl.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadServiceConfigDefaults(t *testing.T) {
	path := writeConfig(t, `mavlink_port = "/dev/ttyUSB0"`)
	cfg, err := loadServiceConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.MavlinkPort != "/dev/ttyUSB0" {
		t.Fatalf("mavlink port %q", cfg.MavlinkPort)
	}
	if cfg.MavlinkBaud != 57600 || cfg.SystemID != 1 || cfg.ComponentID != 191 {
		t.Fatalf("defaults not preserved: %+v", cfg)
	}
	if cfg.HeartbeatInterval != time.Second || cfg.OutputDir != "logs" {
		t.Fatalf("defaults not preserved: %+v", cfg)
	}
	if len(cfg.Sensors) != 0 {
		t.Fatalf("unexpected sensors: %+v", cfg.Sensors)
	}
}

func TestLoadServiceConfigOverrides(t *testing.T) {
	path := writeConfig(t, `
mavlink_port = " /dev/ttyAMA0 "
mavlink_baud = 115200
system_id = 42
component_id = 25
heartbeat_interval = "500ms"
output_directory = "/data/flights"
status_addr = ":9090"
rebroadcast_port = "/dev/ttyUSB3"
rebroadcast_baud = 9600

[[sensor]]
name = "A"
port = "/dev/ttyUSB1"
baud = 230400
enabled = true

[[sensor]]
name = "B"
port = "/dev/ttyUSB2"
baud = 230400
enabled = false
`)
	cfg, err := loadServiceConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.MavlinkPort != "/dev/ttyAMA0" {
		t.Fatalf("port not trimmed: %q", cfg.MavlinkPort)
	}
	if cfg.MavlinkBaud != 115200 || cfg.SystemID != 42 || cfg.ComponentID != 25 {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.HeartbeatInterval != 500*time.Millisecond {
		t.Fatalf("heartbeat interval %v", cfg.HeartbeatInterval)
	}
	if cfg.OutputDir != "/data/flights" || cfg.StatusAddr != ":9090" {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.RebroadcastPort != "/dev/ttyUSB3" || cfg.RebroadcastBaud != 9600 {
		t.Fatalf("rebroadcast overrides: %+v", cfg)
	}
	if len(cfg.Sensors) != 2 || !cfg.Sensors[0].Enabled || cfg.Sensors[1].Enabled {
		t.Fatalf("sensors: %+v", cfg.Sensors)
	}
	if got := cfg.EnabledSensors(); len(got) != 1 || got[0].Name != "A" || got[0].Baud != 230400 {
		t.Fatalf("enabled sensors: %+v", got)
	}
}

func TestLoadServiceConfigBadHeartbeat(t *testing.T) {
	path := writeConfig(t, `
mavlink_port = "/dev/ttyUSB0"
heartbeat_interval = "fast"
`)
	if _, err := loadServiceConfig(path); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestLoadServiceConfigValidates(t *testing.T) {
	path := writeConfig(t, `mavlink_baud = 57600`)
	_, err := loadServiceConfig(path)
	if !errors.Is(err, bridge.ErrMavlinkPortRequired) {
		t.Fatalf("expected ErrMavlinkPortRequired, got %v", err)
	}
}

func TestLoadServiceConfigMissingFile(t *testing.T) {
	if _, err := loadServiceConfig(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
