package mavlink

import "fmt"

const (
	// MagicV2 marks the start of a MAVLink v2 frame.
	MagicV2 byte = 0xFD

	// MaxPayload is the wire limit on payload length.
	MaxPayload = 255

	// IncompatFlagSigned is bit 0 of the incompatible-flags byte.
	IncompatFlagSigned byte = 0x01

	fixedHeaderLen = 10 // marker through message id
	checksumLen    = 2
	signatureLen   = 13 // link id + timestamp + signature, never authenticated
)

// Header carries the per-frame routing fields.
type Header struct {
	Sequence    uint8
	SystemID    uint8
	ComponentID uint8
}

// Frame is the transport view of one complete wire unit.
type Frame struct {
	Header
	MessageID uint32
	Payload   []byte
	Checksum  uint16
	Signed    bool
}

// EncodeFrame serializes (header, message) into MAVLink v2 wire bytes.
// Incompatible and compatible flags are always zero: the bridge never
// signs outgoing frames.
func EncodeFrame(dialect Dialect, h Header, msg Message) ([]byte, error) {
	payload, err := dialect.Encode(msg)
	if err != nil {
		return nil, fmt.Errorf("%w: message %d: %v", ErrSerialization, msg.ID(), err)
	}
	if len(payload) > MaxPayload {
		return nil, fmt.Errorf("%w: message %d: %d bytes", ErrPayloadTooLarge, msg.ID(), len(payload))
	}

	id := msg.ID()
	buf := make([]byte, 0, fixedHeaderLen+len(payload)+checksumLen)
	buf = append(buf,
		MagicV2,
		byte(len(payload)),
		0, // incompatible flags
		0, // compatible flags
		h.Sequence,
		h.SystemID,
		h.ComponentID,
		byte(id), byte(id>>8), byte(id>>16),
	)
	buf = append(buf, payload...)

	crc := Checksum(buf[1:], dialect.ExtraCRC(id))
	buf = append(buf, byte(crc), byte(crc>>8))
	return buf, nil
}
