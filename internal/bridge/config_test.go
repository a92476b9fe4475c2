package bridge

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	cfg := DefaultConfig()
	cfg.MavlinkPort = "/dev/ttyUSB0"
	cfg.Sensors = []SensorConfig{
		{Enabled: true, Name: "A", Port: "/dev/ttyUSB1", Baud: 115200},
		{Enabled: false, Name: "B", Port: "", Baud: 115200},
	}
	return cfg
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 57600, cfg.MavlinkBaud)
	assert.Equal(t, uint8(1), cfg.SystemID)
	assert.Equal(t, uint8(191), cfg.ComponentID)
	assert.Equal(t, time.Second, cfg.HeartbeatInterval)
	assert.Equal(t, "logs", cfg.OutputDir)
	assert.Empty(t, cfg.MavlinkPort, "the telemetry port must be configured explicitly")
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, validConfig().Validate())

	t.Run("missing_port", func(t *testing.T) {
		cfg := validConfig()
		cfg.MavlinkPort = "  "
		assert.ErrorIs(t, cfg.Validate(), ErrMavlinkPortRequired)
	})

	t.Run("bad_heartbeat", func(t *testing.T) {
		cfg := validConfig()
		cfg.HeartbeatInterval = 0
		assert.ErrorIs(t, cfg.Validate(), ErrInvalidHeartbeatInterval)
	})

	t.Run("sensor_missing_name", func(t *testing.T) {
		cfg := validConfig()
		cfg.Sensors[0].Name = ""
		assert.ErrorIs(t, cfg.Validate(), ErrInvalidSensor)
	})

	t.Run("sensor_missing_port", func(t *testing.T) {
		cfg := validConfig()
		cfg.Sensors[0].Port = ""
		assert.ErrorIs(t, cfg.Validate(), ErrInvalidSensor)
	})

	t.Run("duplicate_sensor_name", func(t *testing.T) {
		cfg := validConfig()
		cfg.Sensors = append(cfg.Sensors, SensorConfig{Enabled: true, Name: "A", Port: "/dev/ttyUSB2"})
		assert.ErrorIs(t, cfg.Validate(), ErrInvalidSensor)
	})

	t.Run("disabled_sensors_skip_validation", func(t *testing.T) {
		cfg := validConfig()
		cfg.Sensors[1].Name = ""
		assert.NoError(t, cfg.Validate())
	})
}

func TestEnabledSensors(t *testing.T) {
	cfg := validConfig()
	enabled := cfg.EnabledSensors()
	require.Len(t, enabled, 1)
	assert.Equal(t, "A", enabled[0].Name)
}
