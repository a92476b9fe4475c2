package mavlink

import (
	"bytes"
	"fmt"
)

// Result is one decoder outcome. Err == nil means an accepted frame;
// otherwise Err matches ErrChecksumMismatch or ErrPayloadDecode.
type Result struct {
	Header  Header
	Message Message
	Err     error
}

// Accepted reports whether the result carries a decoded frame.
func (r Result) Accepted() bool { return r.Err == nil }

// Decoder incrementally parses MAVLink v2 frames out of an
// arbitrarily-chunked byte stream.
//
// Bytes before the cursor are fully consumed and never re-scanned.
// Unconsumed bytes survive across Feed calls, so a frame split at any
// position decodes once the remainder arrives. A checksum mismatch
// advances the cursor exactly one byte past the offending marker, which
// guarantees forward progress instead of reprocessing the same false
// marker forever.
type Decoder struct {
	dialect Dialect
	buf     []byte
	cur     int
}

// NewDecoder creates a Decoder bound to a message dialect.
func NewDecoder(dialect Dialect) *Decoder {
	return &Decoder{dialect: dialect}
}

// Feed appends one chunk of raw input. Chunks may be any size,
// including a single byte.
func (d *Decoder) Feed(p []byte) {
	if d.cur > 0 {
		// Reclaim the consumed prefix before growing.
		d.buf = append(d.buf[:0], d.buf[d.cur:]...)
		d.cur = 0
	}
	d.buf = append(d.buf, p...)
}

// Buffered returns the number of unconsumed bytes held by the decoder.
func (d *Decoder) Buffered() int { return len(d.buf) - d.cur }

// Next returns the next decode outcome, or ok=false when no further
// frame can be extracted until more input is fed. It never blocks.
func (d *Decoder) Next() (Result, bool) {
	rest := d.buf[d.cur:]
	i := bytes.IndexByte(rest, MagicV2)
	if i < 0 {
		// No frame is possible yet; a marker may still arrive.
		return Result{}, false
	}
	// Bytes before a found marker are noise, drop them.
	d.cur += i
	rest = rest[i:]

	// Need payload length and both flag bytes after the marker.
	if len(rest) < 4 {
		return Result{}, false
	}
	payloadLen := int(rest[1])
	signed := rest[2]&IncompatFlagSigned != 0

	total := fixedHeaderLen + payloadLen + checksumLen
	if signed {
		total += signatureLen
	}
	if len(rest) < total {
		return Result{}, false
	}

	msgID := uint32(rest[7]) | uint32(rest[8])<<8 | uint32(rest[9])<<16
	payload := rest[fixedHeaderLen : fixedHeaderLen+payloadLen]
	wireCRC := uint16(rest[fixedHeaderLen+payloadLen]) |
		uint16(rest[fixedHeaderLen+payloadLen+1])<<8

	want := Checksum(rest[1:fixedHeaderLen+payloadLen], d.dialect.ExtraCRC(msgID))
	if want != wireCRC {
		// One byte past the marker only; the real frame may start inside
		// what looked like this one.
		d.cur++
		return Result{
			Err: fmt.Errorf("%w: message %d: got %#04x want %#04x",
				ErrChecksumMismatch, msgID, wireCRC, want),
		}, true
	}

	hdr := Header{Sequence: rest[4], SystemID: rest[5], ComponentID: rest[6]}
	// The frame is structurally valid: consume it entirely, signature
	// trailer included, regardless of what the dialect says next.
	d.cur += total

	msg, err := d.dialect.Decode(msgID, payload)
	if err != nil {
		return Result{
			Header: hdr,
			Err:    fmt.Errorf("%w: message %d: %v", ErrPayloadDecode, msgID, err),
		}, true
	}
	return Result{Header: hdr, Message: msg}, true
}
