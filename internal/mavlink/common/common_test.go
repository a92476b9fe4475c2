package common

import (
	"errors"
	"testing"

	"github.com/mavsense/mavsense/internal/mavlink"
)

func roundTrip(t *testing.T, msg mavlink.Message) mavlink.Message {
	t.Helper()
	d := Dialect{}
	payload, err := d.Encode(msg)
	if err != nil {
		t.Fatalf("encode %T: %v", msg, err)
	}
	out, err := d.Decode(msg.ID(), payload)
	if err != nil {
		t.Fatalf("decode %T: %v", msg, err)
	}
	return out
}

func TestHeartbeatRoundTrip(t *testing.T) {
	in := &Heartbeat{
		CustomMode:     7,
		Type:           MavTypeOnboardController,
		Autopilot:      MavAutopilotInvalid,
		BaseMode:       0,
		SystemStatus:   MavStateStandby,
		MavlinkVersion: 3,
	}
	out, ok := roundTrip(t, in).(*Heartbeat)
	if !ok || *out != *in {
		t.Fatalf("round trip mismatch: %+v vs %+v", out, in)
	}
}

func TestGlobalPositionIntRoundTrip(t *testing.T) {
	in := &GlobalPositionInt{
		TimeBootMS:  123456,
		Lat:         405954666,
		Lon:         -1051388320,
		Alt:         1523000,
		RelativeAlt: 52750,
		Vx:          -12,
		Vy:          34,
		Vz:          -5,
		Hdg:         27000,
	}
	out, ok := roundTrip(t, in).(*GlobalPositionInt)
	if !ok || *out != *in {
		t.Fatalf("round trip mismatch: %+v vs %+v", out, in)
	}
}

func TestSysStatusRoundTrip(t *testing.T) {
	in := &SysStatus{
		SensorsPresent:   0x1F,
		SensorsEnabled:   0x0F,
		SensorsHealth:    0x1F,
		Load:             512,
		VoltageBattery:   12600,
		CurrentBattery:   -150,
		DropRateComm:     3,
		ErrorsComm:       1,
		BatteryRemaining: 87,
	}
	out, ok := roundTrip(t, in).(*SysStatus)
	if !ok || *out != *in {
		t.Fatalf("round trip mismatch: %+v vs %+v", out, in)
	}
}

func TestAttitudeRoundTrip(t *testing.T) {
	in := &Attitude{TimeBootMS: 99, Roll: 0.12, Pitch: -0.04, Yaw: 1.57, YawSpeed: 0.01}
	out, ok := roundTrip(t, in).(*Attitude)
	if !ok || *out != *in {
		t.Fatalf("round trip mismatch: %+v vs %+v", out, in)
	}
}

func TestNamedValueFloatNameFixup(t *testing.T) {
	m := &NamedValueFloat{TimeBootMS: 1000, Value: 2.14587}

	m.SetName("CH4A")
	if m.NameString() != "CH4A" {
		t.Fatalf("short name mangled: %q", m.NameString())
	}
	for _, b := range m.Name[4:] {
		if b != 0 {
			t.Fatalf("short name not zero padded: %v", m.Name)
		}
	}

	m.SetName("C2H6_SENSOR_B_LONG")
	if m.NameString() != "C2H6_SENSO" {
		t.Fatalf("long name not truncated to field width: %q", m.NameString())
	}

	out, ok := roundTrip(t, m).(*NamedValueFloat)
	if !ok || out.NameString() != "C2H6_SENSO" || out.Value != m.Value {
		t.Fatalf("round trip mismatch: %+v", out)
	}
}

func TestStatusTextRoundTrip(t *testing.T) {
	m := &StatusText{Severity: SeverityNotice}
	m.SetText("sensor A online")
	out, ok := roundTrip(t, m).(*StatusText)
	if !ok || out.TextString() != "sensor A online" || out.Severity != SeverityNotice {
		t.Fatalf("round trip mismatch: %+v", out)
	}
}

func TestDecodeZeroExtendsTruncatedPayload(t *testing.T) {
	d := Dialect{}
	full, err := d.Encode(&GlobalPositionInt{TimeBootMS: 5000, Lat: 1})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	// Strip the trailing zero bytes the way v2 senders do.
	n := len(full)
	for n > 1 && full[n-1] == 0 {
		n--
	}
	if n == len(full) {
		t.Fatalf("test payload has no trailing zeros to strip")
	}
	out, err := d.Decode(MsgIDGlobalPositionInt, full[:n])
	if err != nil {
		t.Fatalf("decode truncated: %v", err)
	}
	got := out.(*GlobalPositionInt)
	if got.TimeBootMS != 5000 || got.Lat != 1 || got.Hdg != 0 {
		t.Fatalf("zero extension mismatch: %+v", got)
	}
}

func TestUnknownMessageID(t *testing.T) {
	d := Dialect{}
	if _, err := d.Decode(0xBEEF, nil); !errors.Is(err, mavlink.ErrUnknownMessage) {
		t.Fatalf("expected ErrUnknownMessage, got %v", err)
	}
	if d.ExtraCRC(0xBEEF) != 0 {
		t.Fatalf("unknown ids must seed 0")
	}
}
