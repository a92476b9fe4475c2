package session

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mavsense/mavsense/internal/mavlink"
	"github.com/mavsense/mavsense/internal/mavlink/common"
	"github.com/mavsense/mavsense/internal/observability"
)

const readChunk = 4096

// Session binds one duplex byte stream to a MAVLink decoder/encoder
// pair and tracks the outgoing sequence counter.
//
// Writes are serialized behind a mutex: interleaved partial frames
// would corrupt the wire. Reads are likewise single-reader. Closing the
// Session closes the stream and abandons any buffered partial frame.
type Session struct {
	systemID    uint8
	componentID uint8
	dialect     mavlink.Dialect
	stream      io.ReadWriteCloser
	log         zerolog.Logger

	writeMu sync.Mutex
	seq     uint8

	readMu sync.Mutex
	dec    *mavlink.Decoder
	rbuf   []byte
}

// New creates a Session owning stream. The Session assumes exclusive
// use of the stream from this point on.
func New(stream io.ReadWriteCloser, dialect mavlink.Dialect, systemID, componentID uint8) *Session {
	return &Session{
		systemID:    systemID,
		componentID: componentID,
		dialect:     dialect,
		stream:      stream,
		log: log.With().
			Str("component", "mavlink.session").
			Uint8("system_id", systemID).
			Logger(),
		dec:  mavlink.NewDecoder(dialect),
		rbuf: make([]byte, readChunk),
	}
}

// Send allocates the next sequence number, encodes msg and writes it to
// the stream. The sequence counter advances even when the write fails,
// so a caller retry uses a fresh number and never replays a consumed
// one. Write failures are fatal to the Session.
func (s *Session) Send(msg mavlink.Message) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	h := mavlink.Header{
		Sequence:    s.seq,
		SystemID:    s.systemID,
		ComponentID: s.componentID,
	}
	wire, err := mavlink.EncodeFrame(s.dialect, h, msg)
	if err != nil {
		// Programmer/caller error, the sequence number is not consumed.
		s.log.Error().Err(err).Uint32("message_id", msg.ID()).Msg("encode failed")
		return err
	}
	s.seq++ // wraps mod 256

	if _, err := s.stream.Write(wire); err != nil {
		return fmt.Errorf("mavlink session: write frame: %w", err)
	}
	observability.RecordFrameSent()
	return nil
}

// Recv pulls bytes from the stream until an accepted frame is produced.
// Checksum and payload rejections are logged and discarded internally;
// only transport failures and accepted frames reach the caller. Returns
// io.EOF when the stream ends.
func (s *Session) Recv() (mavlink.Header, mavlink.Message, error) {
	s.readMu.Lock()
	defer s.readMu.Unlock()

	for {
		for {
			res, ok := s.dec.Next()
			if !ok {
				break
			}
			if res.Err != nil {
				observability.RecordFrameRejected(rejectReason(res.Err))
				s.log.Debug().Err(res.Err).Msg("dropping rejected frame")
				continue
			}
			observability.RecordFrameAccepted()
			return res.Header, res.Message, nil
		}

		n, err := s.stream.Read(s.rbuf)
		if n > 0 {
			s.dec.Feed(s.rbuf[:n])
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				if n > 0 {
					continue // drain whatever the final read returned
				}
				return mavlink.Header{}, nil, io.EOF
			}
			return mavlink.Header{}, nil, fmt.Errorf("mavlink session: read: %w", err)
		}
	}
}

// Heartbeat builds the bridge's fixed-field heartbeat message. Pure, no
// I/O.
func (s *Session) Heartbeat() mavlink.Message {
	return &common.Heartbeat{
		CustomMode:     0,
		Type:           common.MavTypeOnboardController,
		Autopilot:      common.MavAutopilotInvalid,
		BaseMode:       0,
		SystemStatus:   common.MavStateStandby,
		MavlinkVersion: 3,
	}
}

// SendNamedFloat sends a NAMED_VALUE_FLOAT with name truncated or
// zero-padded to the fixed-width field and elapsed milliseconds since
// bootTime.
func (s *Session) SendNamedFloat(name string, value float32, bootTime time.Time) error {
	msg := &common.NamedValueFloat{
		TimeBootMS: uint32(time.Since(bootTime).Milliseconds()),
		Value:      value,
	}
	msg.SetName(name)
	return s.Send(msg)
}

// SendStatusText sends a STATUSTEXT notice for ground-station operators.
func (s *Session) SendStatusText(severity uint8, text string) error {
	msg := &common.StatusText{Severity: severity}
	msg.SetText(text)
	return s.Send(msg)
}

// Close closes the underlying stream. Any buffered partial frame is
// abandoned.
func (s *Session) Close() error {
	return s.stream.Close()
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, mavlink.ErrChecksumMismatch):
		return "checksum"
	case errors.Is(err, mavlink.ErrPayloadDecode):
		return "payload"
	}
	return "other"
}
