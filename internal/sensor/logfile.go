package sensor

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
)

// LogWriter appends sensor rows to a CSV log file. The header row is
// written on create; each Append lands on disk before returning.
type LogWriter struct {
	path string
	f    *os.File
}

// LogFileName builds the per-run log file name the way operators expect
// to find it: <local time>_<sensor>.csv under dir.
func LogFileName(dir, sensorName string, now time.Time) string {
	return filepath.Join(dir, fmt.Sprintf("%s_sensor_%s.csv", now.Format("2006-01-02_150405"), sensorName))
}

// NewLogWriter creates path and writes the header row.
func NewLogWriter(path string) (*LogWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("sensor: create log: %w", err)
	}
	header, err := gocsv.MarshalString([]*Row{})
	if err != nil {
		f.Close()
		return nil, err
	}
	if _, err := f.WriteString(header); err != nil {
		f.Close()
		return nil, fmt.Errorf("sensor: write log header: %w", err)
	}
	return &LogWriter{path: path, f: f}, nil
}

// Path returns the file path the writer was created with.
func (w *LogWriter) Path() string { return w.path }

// Append writes one row and syncs it out.
func (w *LogWriter) Append(row *Row) error {
	if err := gocsv.MarshalWithoutHeaders([]*Row{row}, w.f); err != nil {
		return fmt.Errorf("sensor: append log row: %w", err)
	}
	return w.f.Sync()
}

func (w *LogWriter) Close() error {
	return w.f.Close()
}
