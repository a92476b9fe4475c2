package bridge

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.bug.st/serial"

	"github.com/mavsense/mavsense/internal/mavlink"
	"github.com/mavsense/mavsense/internal/mavlink/common"
	"github.com/mavsense/mavsense/internal/mavlink/session"
	"github.com/mavsense/mavsense/internal/observability"
	"github.com/mavsense/mavsense/internal/sensor"
)

// telemetryLink is the slice of the session surface the service drives.
type telemetryLink interface {
	Send(msg mavlink.Message) error
	Recv() (mavlink.Header, mavlink.Message, error)
	Heartbeat() mavlink.Message
	SendNamedFloat(name string, value float32, bootTime time.Time) error
	SendStatusText(severity uint8, text string) error
	Close() error
}

// Service runs the sensor-to-telemetry bridge.
type Service struct {
	cfg Config
	log zerolog.Logger

	// openPort is swapped out by tests.
	openPort func(port string, baud int) (io.ReadWriteCloser, error)
	// newLink is swapped out by tests.
	newLink func(stream io.ReadWriteCloser) telemetryLink

	mu          sync.RWMutex
	position    *sensor.Location
	lastFixAt   time.Time
	rowsHandled uint64
}

// NewService creates a Service from cfg. Call Run to start it.
func NewService(cfg Config) *Service {
	s := &Service{
		cfg: cfg,
		log: log.With().Str("component", "bridge").Logger(),
	}
	s.openPort = openSerialPort
	s.newLink = func(stream io.ReadWriteCloser) telemetryLink {
		return session.New(stream, common.Dialect{}, cfg.SystemID, cfg.ComponentID)
	}
	return s
}

func openSerialPort(port string, baud int) (io.ReadWriteCloser, error) {
	p, err := serial.Open(port, &serial.Mode{BaudRate: baud})
	if err != nil {
		return nil, fmt.Errorf("bridge: open serial %s: %w", port, err)
	}
	return p, nil
}

// inboundFrame is one accepted frame delivered to the main loop.
type inboundFrame struct {
	header  mavlink.Header
	message mavlink.Message
}

// sensorReading pairs a parsed row with its source sensor.
type sensorReading struct {
	sensorName string
	row        *sensor.Row
	logWriter  *sensor.LogWriter
}

// Run opens every port, then drives the main loop until ctx is
// cancelled or the telemetry transport fails. Transport errors are
// fatal; the caller decides whether to restart.
func (s *Service) Run(ctx context.Context) error {
	if err := s.cfg.Validate(); err != nil {
		return err
	}

	s.log.Info().
		Str("port", s.cfg.MavlinkPort).
		Int("baud", s.cfg.MavlinkBaud).
		Uint8("system_id", s.cfg.SystemID).
		Uint8("component_id", s.cfg.ComponentID).
		Msg("opening telemetry serial port")
	stream, err := s.openPort(s.cfg.MavlinkPort, s.cfg.MavlinkBaud)
	if err != nil {
		return err
	}
	link := s.newLink(stream)
	defer link.Close()

	s.log.Info().Str("dir", s.cfg.OutputDir).Msg("creating output directory")
	if err := os.MkdirAll(s.cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("bridge: create output dir: %w", err)
	}

	var rebroadcast io.Writer
	if strings.TrimSpace(s.cfg.RebroadcastPort) != "" {
		rb, err := s.openPort(s.cfg.RebroadcastPort, s.cfg.RebroadcastBaud)
		if err != nil {
			return err
		}
		defer rb.Close()
		rebroadcast = rb
	}

	readers, closers, err := s.openSensors()
	defer func() {
		for _, c := range closers {
			c.Close()
		}
	}()
	if err != nil {
		return err
	}

	if strings.TrimSpace(s.cfg.StatusAddr) != "" {
		go s.serveStatus(ctx, s.cfg.StatusAddr)
	}

	bootTime := time.Now()
	hb := session.NewHeartbeatTicker(s.cfg.HeartbeatInterval)
	defer hb.Stop()

	frames := make(chan inboundFrame, 16)
	recvErr := make(chan error, 1)
	go recvLoop(link, frames, recvErr)

	readings := make(chan sensorReading, 16)
	readErr := make(chan error, len(readers))
	for _, r := range readers {
		go readSensorLoop(r, readings, readErr)
	}

	s.log.Info().Int("sensors", len(readers)).Msg("starting main loop")
	for {
		select {
		case <-ctx.Done():
			s.log.Info().Msg("shutdown")
			return nil
		case err := <-recvErr:
			return err
		case err := <-readErr:
			// A dead sensor stream is not fatal; the link and any other
			// sensor keep running.
			s.log.Warn().Err(err).Msg("sensor stream ended")
		case <-hb.C:
			s.log.Trace().Msg("sending heartbeat")
			if err := link.Send(link.Heartbeat()); err != nil {
				return err
			}
			observability.RecordHeartbeatSent()
		case f := <-frames:
			s.handleFrame(f)
		case rd := <-readings:
			if err := s.handleReading(link, rd, rebroadcast, bootTime); err != nil {
				return err
			}
		}
	}
}

type sensorUnit struct {
	reader    *sensor.Reader
	logWriter *sensor.LogWriter
}

func (s *Service) openSensors() ([]*sensorUnit, []io.Closer, error) {
	var units []*sensorUnit
	var closers []io.Closer
	for _, sc := range s.cfg.EnabledSensors() {
		s.log.Info().Str("sensor", sc.Name).Str("port", sc.Port).Int("baud", sc.Baud).
			Msg("opening sensor serial port")
		port, err := s.openPort(sc.Port, sc.Baud)
		if err != nil {
			return nil, closers, err
		}
		closers = append(closers, port)

		path := sensor.LogFileName(s.cfg.OutputDir, sc.Name, time.Now())
		s.log.Info().Str("sensor", sc.Name).Str("path", path).Msg("opening sensor log")
		lw, err := sensor.NewLogWriter(path)
		if err != nil {
			return nil, closers, err
		}
		closers = append(closers, lw)

		units = append(units, &sensorUnit{
			reader:    sensor.NewReader(sc.Name, port),
			logWriter: lw,
		})
	}
	return units, closers, nil
}

func recvLoop(link telemetryLink, frames chan<- inboundFrame, recvErr chan<- error) {
	for {
		h, msg, err := link.Recv()
		if err != nil {
			recvErr <- err
			return
		}
		frames <- inboundFrame{header: h, message: msg}
	}
}

func readSensorLoop(u *sensorUnit, readings chan<- sensorReading, readErr chan<- error) {
	for {
		row, err := u.reader.Next()
		if err != nil {
			readErr <- fmt.Errorf("sensor %s: %w", u.reader.Name(), err)
			return
		}
		readings <- sensorReading{sensorName: u.reader.Name(), row: row, logWriter: u.logWriter}
	}
}

// handleFrame consumes one accepted inbound frame. Only position fixes
// change state; everything else is logged at trace level.
func (s *Service) handleFrame(f inboundFrame) {
	switch m := f.message.(type) {
	case *common.Heartbeat:
	case *common.GlobalPositionInt:
		loc := sensor.LocationFromPosition(m)
		s.mu.Lock()
		s.position = &loc
		s.lastFixAt = time.Now()
		s.mu.Unlock()
		s.log.Debug().
			Float64("lat", loc.Latitude).
			Float64("lon", loc.Longitude).
			Float64("alt", loc.Altitude).
			Msg("position update")
	default:
		s.log.Trace().Uint32("message_id", f.message.ID()).Msg("recv")
	}
}

// handleReading logs one sensor row, rebroadcasts it, and forwards the
// gas readings as named floats. Telemetry send failures are returned as
// fatal; log-file failures only lose the one row.
func (s *Service) handleReading(link telemetryLink, rd sensorReading, rebroadcast io.Writer, bootTime time.Time) error {
	if loc, ok := s.Position(); ok {
		rd.row.SetLocation(loc)
	}

	if err := rd.logWriter.Append(rd.row); err != nil {
		observability.RecordSensorRow(rd.sensorName, "log_error")
		s.log.Error().Err(err).Str("sensor", rd.sensorName).Msg("log append failed")
	}

	if rebroadcast != nil {
		if err := writeRebroadcast(rebroadcast, rd.sensorName, rd.row); err != nil {
			s.log.Warn().Err(err).Str("sensor", rd.sensorName).Msg("rebroadcast failed")
		}
	}

	if err := link.SendNamedFloat("CH4"+rd.sensorName, rd.row.CH4, bootTime); err != nil {
		return err
	}
	if err := link.SendNamedFloat("C2H6"+rd.sensorName, rd.row.C2H6, bootTime); err != nil {
		return err
	}

	observability.RecordSensorRow(rd.sensorName, "ok")
	s.mu.Lock()
	s.rowsHandled++
	s.mu.Unlock()
	return nil
}

// writeRebroadcast mirrors one row over the secondary link as
// "<sensor>,<csv row>", the framing the long-range receiver expects.
func writeRebroadcast(w io.Writer, sensorName string, row *sensor.Row) error {
	var buf bytes.Buffer
	if err := gocsv.MarshalWithoutHeaders([]*sensor.Row{row}, &buf); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%s,%s", sensorName, buf.String())
	return err
}

// Position returns the latest drone fix, if any has arrived.
func (s *Service) Position() (sensor.Location, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.position == nil {
		return sensor.Location{}, false
	}
	return *s.position, true
}
