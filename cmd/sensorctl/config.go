package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/mavsense/mavsense/internal/bridge"
)

type sensorFileConfig struct {
	Name    string `toml:"name"`
	Port    string `toml:"port"`
	Baud    int    `toml:"baud"`
	Enabled bool   `toml:"enabled"`
}

type fileConfig struct {
	MavlinkPort       string             `toml:"mavlink_port"`
	MavlinkBaud       int                `toml:"mavlink_baud"`
	SystemID          uint8              `toml:"system_id"`
	ComponentID       uint8              `toml:"component_id"`
	HeartbeatInterval string             `toml:"heartbeat_interval"`
	OutputDirectory   string             `toml:"output_directory"`
	StatusAddr        string             `toml:"status_addr"`
	RebroadcastPort   string             `toml:"rebroadcast_port"`
	RebroadcastBaud   int                `toml:"rebroadcast_baud"`
	Sensors           []sensorFileConfig `toml:"sensor"`
}

func loadServiceConfig(path string) (bridge.Config, error) {
	cfg := bridge.DefaultConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return bridge.Config{}, fmt.Errorf("load sensorctl config: %w", err)
	}

	if meta.IsDefined("mavlink_port") {
		cfg.MavlinkPort = strings.TrimSpace(raw.MavlinkPort)
	}
	if meta.IsDefined("mavlink_baud") {
		cfg.MavlinkBaud = raw.MavlinkBaud
	}
	if meta.IsDefined("system_id") {
		cfg.SystemID = raw.SystemID
	}
	if meta.IsDefined("component_id") {
		cfg.ComponentID = raw.ComponentID
	}
	if meta.IsDefined("heartbeat_interval") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.HeartbeatInterval))
		if err != nil {
			return bridge.Config{}, fmt.Errorf("parse heartbeat_interval: %w", err)
		}
		cfg.HeartbeatInterval = d
	}
	if meta.IsDefined("output_directory") {
		cfg.OutputDir = strings.TrimSpace(raw.OutputDirectory)
	}
	if meta.IsDefined("status_addr") {
		cfg.StatusAddr = strings.TrimSpace(raw.StatusAddr)
	}
	if meta.IsDefined("rebroadcast_port") {
		cfg.RebroadcastPort = strings.TrimSpace(raw.RebroadcastPort)
	}
	if meta.IsDefined("rebroadcast_baud") {
		cfg.RebroadcastBaud = raw.RebroadcastBaud
	}
	if meta.IsDefined("sensor") {
		cfg.Sensors = make([]bridge.SensorConfig, 0, len(raw.Sensors))
		for _, sc := range raw.Sensors {
			cfg.Sensors = append(cfg.Sensors, bridge.SensorConfig{
				Enabled: sc.Enabled,
				Name:    strings.TrimSpace(sc.Name),
				Port:    strings.TrimSpace(sc.Port),
				Baud:    sc.Baud,
			})
		}
	}

	if err := cfg.Validate(); err != nil {
		return bridge.Config{}, err
	}
	return cfg, nil
}
