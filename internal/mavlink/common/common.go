// Package common implements the subset of the MAVLink common message
// set exchanged by the bridge, and exposes it as a mavlink.Dialect.
package common

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/mavsense/mavsense/internal/mavlink"
)

// Message ids from the MAVLink common dialect.
const (
	MsgIDHeartbeat         uint32 = 0
	MsgIDSysStatus         uint32 = 1
	MsgIDAttitude          uint32 = 30
	MsgIDGlobalPositionInt uint32 = 33
	MsgIDNamedValueFloat   uint32 = 251
	MsgIDStatusText        uint32 = 253
)

// MAV_TYPE / MAV_AUTOPILOT / MAV_STATE values used by the bridge.
const (
	MavTypeOnboardController uint8 = 18
	MavAutopilotInvalid      uint8 = 8
	MavStateStandby          uint8 = 3
)

// MAV_SEVERITY values for STATUSTEXT.
const (
	SeverityError  uint8 = 3
	SeverityNotice uint8 = 5
	SeverityInfo   uint8 = 6
)

// NamedValueFloatNameLen is the fixed width of the name field.
const NamedValueFloatNameLen = 10

// StatusTextLen is the fixed width of the text field.
const StatusTextLen = 50

// Heartbeat is HEARTBEAT (id 0).
type Heartbeat struct {
	CustomMode     uint32
	Type           uint8
	Autopilot      uint8
	BaseMode       uint8
	SystemStatus   uint8
	MavlinkVersion uint8
}

func (Heartbeat) ID() uint32 { return MsgIDHeartbeat }

// SysStatus is SYS_STATUS (id 1).
type SysStatus struct {
	SensorsPresent   uint32
	SensorsEnabled   uint32
	SensorsHealth    uint32
	Load             uint16
	VoltageBattery   uint16
	CurrentBattery   int16
	DropRateComm     uint16
	ErrorsComm       uint16
	ErrorsCount1     uint16
	ErrorsCount2     uint16
	ErrorsCount3     uint16
	ErrorsCount4     uint16
	BatteryRemaining int8
}

func (SysStatus) ID() uint32 { return MsgIDSysStatus }

// Attitude is ATTITUDE (id 30).
type Attitude struct {
	TimeBootMS uint32
	Roll       float32
	Pitch      float32
	Yaw        float32
	RollSpeed  float32
	PitchSpeed float32
	YawSpeed   float32
}

func (Attitude) ID() uint32 { return MsgIDAttitude }

// GlobalPositionInt is GLOBAL_POSITION_INT (id 33). Lat/Lon are
// degrees*1e7, altitudes are millimeters, velocities cm/s, Hdg cdeg.
type GlobalPositionInt struct {
	TimeBootMS  uint32
	Lat         int32
	Lon         int32
	Alt         int32
	RelativeAlt int32
	Vx          int16
	Vy          int16
	Vz          int16
	Hdg         uint16
}

func (GlobalPositionInt) ID() uint32 { return MsgIDGlobalPositionInt }

// NamedValueFloat is NAMED_VALUE_FLOAT (id 251).
type NamedValueFloat struct {
	TimeBootMS uint32
	Value      float32
	Name       [NamedValueFloatNameLen]byte
}

func (NamedValueFloat) ID() uint32 { return MsgIDNamedValueFloat }

// SetName truncates or zero-pads s into the fixed-width name field.
func (m *NamedValueFloat) SetName(s string) {
	m.Name = [NamedValueFloatNameLen]byte{}
	copy(m.Name[:], s)
}

// NameString returns the name with trailing zero padding stripped.
func (m *NamedValueFloat) NameString() string {
	return fixedString(m.Name[:])
}

// StatusText is STATUSTEXT (id 253).
type StatusText struct {
	Severity uint8
	Text     [StatusTextLen]byte
}

func (StatusText) ID() uint32 { return MsgIDStatusText }

// SetText truncates or zero-pads s into the fixed-width text field.
func (m *StatusText) SetText(s string) {
	m.Text = [StatusTextLen]byte{}
	copy(m.Text[:], s)
}

// TextString returns the text with trailing zero padding stripped.
func (m *StatusText) TextString() string {
	return fixedString(m.Text[:])
}

func fixedString(b []byte) string {
	n := len(b)
	for n > 0 && b[n-1] == 0 {
		n--
	}
	return string(b[:n])
}

// Dialect maps the message ids above to their layouts and extra-CRC
// seeds. The zero value is ready to use.
type Dialect struct{}

var _ mavlink.Dialect = Dialect{}

// ExtraCRC implements mavlink.Dialect. The seeds are fixed by the
// MAVLink common dialect definition.
func (Dialect) ExtraCRC(msgID uint32) byte {
	switch msgID {
	case MsgIDHeartbeat:
		return 50
	case MsgIDSysStatus:
		return 124
	case MsgIDAttitude:
		return 39
	case MsgIDGlobalPositionInt:
		return 104
	case MsgIDNamedValueFloat:
		return 170
	case MsgIDStatusText:
		return 83
	}
	return 0
}

// Nominal full-length payload sizes.
const (
	heartbeatLen         = 9
	sysStatusLen         = 31
	attitudeLen          = 28
	globalPositionIntLen = 28
	namedValueFloatLen   = 18
	statusTextLen        = 51
)

// Decode implements mavlink.Dialect. Short payloads are zero-extended
// before parsing: v2 senders strip trailing zero bytes.
func (Dialect) Decode(msgID uint32, payload []byte) (mavlink.Message, error) {
	switch msgID {
	case MsgIDHeartbeat:
		p := extend(payload, heartbeatLen)
		return &Heartbeat{
			CustomMode:     binary.LittleEndian.Uint32(p[0:4]),
			Type:           p[4],
			Autopilot:      p[5],
			BaseMode:       p[6],
			SystemStatus:   p[7],
			MavlinkVersion: p[8],
		}, nil
	case MsgIDSysStatus:
		p := extend(payload, sysStatusLen)
		return &SysStatus{
			SensorsPresent:   binary.LittleEndian.Uint32(p[0:4]),
			SensorsEnabled:   binary.LittleEndian.Uint32(p[4:8]),
			SensorsHealth:    binary.LittleEndian.Uint32(p[8:12]),
			Load:             binary.LittleEndian.Uint16(p[12:14]),
			VoltageBattery:   binary.LittleEndian.Uint16(p[14:16]),
			CurrentBattery:   int16(binary.LittleEndian.Uint16(p[16:18])),
			DropRateComm:     binary.LittleEndian.Uint16(p[18:20]),
			ErrorsComm:       binary.LittleEndian.Uint16(p[20:22]),
			ErrorsCount1:     binary.LittleEndian.Uint16(p[22:24]),
			ErrorsCount2:     binary.LittleEndian.Uint16(p[24:26]),
			ErrorsCount3:     binary.LittleEndian.Uint16(p[26:28]),
			ErrorsCount4:     binary.LittleEndian.Uint16(p[28:30]),
			BatteryRemaining: int8(p[30]),
		}, nil
	case MsgIDAttitude:
		p := extend(payload, attitudeLen)
		return &Attitude{
			TimeBootMS: binary.LittleEndian.Uint32(p[0:4]),
			Roll:       f32(p[4:8]),
			Pitch:      f32(p[8:12]),
			Yaw:        f32(p[12:16]),
			RollSpeed:  f32(p[16:20]),
			PitchSpeed: f32(p[20:24]),
			YawSpeed:   f32(p[24:28]),
		}, nil
	case MsgIDGlobalPositionInt:
		p := extend(payload, globalPositionIntLen)
		return &GlobalPositionInt{
			TimeBootMS:  binary.LittleEndian.Uint32(p[0:4]),
			Lat:         int32(binary.LittleEndian.Uint32(p[4:8])),
			Lon:         int32(binary.LittleEndian.Uint32(p[8:12])),
			Alt:         int32(binary.LittleEndian.Uint32(p[12:16])),
			RelativeAlt: int32(binary.LittleEndian.Uint32(p[16:20])),
			Vx:          int16(binary.LittleEndian.Uint16(p[20:22])),
			Vy:          int16(binary.LittleEndian.Uint16(p[22:24])),
			Vz:          int16(binary.LittleEndian.Uint16(p[24:26])),
			Hdg:         binary.LittleEndian.Uint16(p[26:28]),
		}, nil
	case MsgIDNamedValueFloat:
		p := extend(payload, namedValueFloatLen)
		m := &NamedValueFloat{
			TimeBootMS: binary.LittleEndian.Uint32(p[0:4]),
			Value:      f32(p[4:8]),
		}
		copy(m.Name[:], p[8:18])
		return m, nil
	case MsgIDStatusText:
		p := extend(payload, statusTextLen)
		m := &StatusText{Severity: p[0]}
		copy(m.Text[:], p[1:51])
		return m, nil
	}
	return nil, fmt.Errorf("%w: %d", mavlink.ErrUnknownMessage, msgID)
}

// Encode implements mavlink.Dialect. Payloads are emitted at full
// nominal length, never zero-truncated; Decode tolerates peers that
// truncate.
func (Dialect) Encode(msg mavlink.Message) ([]byte, error) {
	switch m := msg.(type) {
	case *Heartbeat:
		p := make([]byte, heartbeatLen)
		binary.LittleEndian.PutUint32(p[0:4], m.CustomMode)
		p[4], p[5], p[6], p[7], p[8] = m.Type, m.Autopilot, m.BaseMode, m.SystemStatus, m.MavlinkVersion
		return p, nil
	case *SysStatus:
		p := make([]byte, sysStatusLen)
		binary.LittleEndian.PutUint32(p[0:4], m.SensorsPresent)
		binary.LittleEndian.PutUint32(p[4:8], m.SensorsEnabled)
		binary.LittleEndian.PutUint32(p[8:12], m.SensorsHealth)
		binary.LittleEndian.PutUint16(p[12:14], m.Load)
		binary.LittleEndian.PutUint16(p[14:16], m.VoltageBattery)
		binary.LittleEndian.PutUint16(p[16:18], uint16(m.CurrentBattery))
		binary.LittleEndian.PutUint16(p[18:20], m.DropRateComm)
		binary.LittleEndian.PutUint16(p[20:22], m.ErrorsComm)
		binary.LittleEndian.PutUint16(p[22:24], m.ErrorsCount1)
		binary.LittleEndian.PutUint16(p[24:26], m.ErrorsCount2)
		binary.LittleEndian.PutUint16(p[26:28], m.ErrorsCount3)
		binary.LittleEndian.PutUint16(p[28:30], m.ErrorsCount4)
		p[30] = byte(m.BatteryRemaining)
		return p, nil
	case *Attitude:
		p := make([]byte, attitudeLen)
		binary.LittleEndian.PutUint32(p[0:4], m.TimeBootMS)
		putF32(p[4:8], m.Roll)
		putF32(p[8:12], m.Pitch)
		putF32(p[12:16], m.Yaw)
		putF32(p[16:20], m.RollSpeed)
		putF32(p[20:24], m.PitchSpeed)
		putF32(p[24:28], m.YawSpeed)
		return p, nil
	case *GlobalPositionInt:
		p := make([]byte, globalPositionIntLen)
		binary.LittleEndian.PutUint32(p[0:4], m.TimeBootMS)
		binary.LittleEndian.PutUint32(p[4:8], uint32(m.Lat))
		binary.LittleEndian.PutUint32(p[8:12], uint32(m.Lon))
		binary.LittleEndian.PutUint32(p[12:16], uint32(m.Alt))
		binary.LittleEndian.PutUint32(p[16:20], uint32(m.RelativeAlt))
		binary.LittleEndian.PutUint16(p[20:22], uint16(m.Vx))
		binary.LittleEndian.PutUint16(p[22:24], uint16(m.Vy))
		binary.LittleEndian.PutUint16(p[24:26], uint16(m.Vz))
		binary.LittleEndian.PutUint16(p[26:28], m.Hdg)
		return p, nil
	case *NamedValueFloat:
		p := make([]byte, namedValueFloatLen)
		binary.LittleEndian.PutUint32(p[0:4], m.TimeBootMS)
		putF32(p[4:8], m.Value)
		copy(p[8:18], m.Name[:])
		return p, nil
	case *StatusText:
		p := make([]byte, statusTextLen)
		p[0] = m.Severity
		copy(p[1:51], m.Text[:])
		return p, nil
	}
	return nil, fmt.Errorf("%w: %T", mavlink.ErrUnknownMessage, msg)
}

func extend(p []byte, n int) []byte {
	if len(p) >= n {
		return p
	}
	out := make([]byte, n)
	copy(out, p)
	return out
}

func f32(p []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(p))
}

func putF32(p []byte, v float32) {
	binary.LittleEndian.PutUint32(p, math.Float32bits(v))
}
