package mavlink

// Message is one decoded MAVLink message body.
type Message interface {
	// ID returns the 24-bit MAVLink message id.
	ID() uint32
}

// Dialect owns the set of known message kinds and their binary layouts.
// The codec treats it as an opaque capability: it never branches on
// specific message ids itself.
type Dialect interface {
	// Decode parses a payload for the given message id. Payloads may be
	// shorter than the nominal message length (v2 zero-byte truncation);
	// implementations zero-extend before parsing.
	Decode(msgID uint32, payload []byte) (Message, error)

	// Encode serializes a message body to payload bytes.
	Encode(msg Message) ([]byte, error)

	// ExtraCRC returns the message-specific checksum seed byte.
	// Unknown ids return 0, which makes their frames fail the checksum
	// unless the sender used the same convention.
	ExtraCRC(msgID uint32) byte
}
