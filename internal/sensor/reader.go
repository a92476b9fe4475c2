package sensor

import (
	"bufio"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Reader turns the sensor's line-oriented serial output into Rows.
// Malformed lines are logged and skipped, matching the device's habit
// of emitting banner and partial lines around power-up.
type Reader struct {
	name string
	sc   *bufio.Scanner
	log  zerolog.Logger
}

// NewReader wraps r. name identifies the sensor in logs ("A", "B").
func NewReader(name string, r io.Reader) *Reader {
	return &Reader{
		name: name,
		sc:   bufio.NewScanner(r),
		log:  log.With().Str("component", "sensor.reader").Str("sensor", name).Logger(),
	}
}

// Name returns the sensor identifier.
func (r *Reader) Name() string { return r.name }

// Next blocks until a parseable row arrives. Returns io.EOF when the
// underlying stream ends, or the scanner's error on read failure.
func (r *Reader) Next() (*Row, error) {
	for r.sc.Scan() {
		line := strings.TrimSpace(r.sc.Text())
		if line == "" {
			continue
		}
		row, err := ParseLine(line)
		if err != nil {
			r.log.Warn().Err(err).Str("line", line).Msg("skipping malformed row")
			continue
		}
		return row, nil
	}
	if err := r.sc.Err(); err != nil {
		return nil, err
	}
	return nil, io.EOF
}
