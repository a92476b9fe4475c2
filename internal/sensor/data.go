// Package sensor owns ingest of the methane sensor head's CSV output
// and its merge with the drone's GPS position.
package sensor

import (
	"strings"

	"github.com/gocarina/gocsv"

	"github.com/mavsense/mavsense/internal/mavlink/common"
)

// Row is one reading from the sensor head. The device emits headerless
// positional CSV; the three Drone* columns are filled in by the bridge
// before logging and never appear in the device output.
type Row struct {
	TimeStamp   string   `csv:"Time Stamp"`
	InletNumber uint32   `csv:"Inlet Number"`
	Pressure    float32  `csv:"P (mbars)"`
	T0          float32  `csv:"T0 (degC)"`
	T5          float32  `csv:"T5 (degC)"`
	TGas        float32  `csv:"Tgas(degC)"`
	CH4         float32  `csv:"CH4 (ppm)"`
	H2O         float32  `csv:"H2O (ppm)"`
	C2H6        float32  `csv:"C2H6 (ppb)"`
	R           float32  `csv:"R"`
	C2C1        float32  `csv:"C2/C1"`
	Battery     int32    `csv:"Battery Charge (V)"`
	PowerInput  int32    `csv:"Power Input (mV)"`
	Current     int32    `csv:"Current (mA)"`
	SOC         int32    `csv:"SOC (%)"`
	Lat         float64  `csv:"Latitude"`
	Lon         float64  `csv:"Longitude"`
	DroneLat    *float64 `csv:"Drone Latitude"`
	DroneLon    *float64 `csv:"Drone Longitude"`
	DroneAlt    *float64 `csv:"Drone Altitude"`
}

// deviceColumns names the 17 columns the device actually sends, in
// wire order. Prepending it as a header row lets gocsv map the
// headerless line onto Row by name.
const deviceColumns = "Time Stamp,Inlet Number,P (mbars),T0 (degC),T5 (degC),Tgas(degC)," +
	"CH4 (ppm),H2O (ppm),C2H6 (ppb),R,C2/C1,Battery Charge (V),Power Input (mV)," +
	"Current (mA),SOC (%),Latitude,Longitude"

// ParseLine parses one raw device line into a Row.
func ParseLine(line string) (*Row, error) {
	var rows []*Row
	in := strings.NewReader(deviceColumns + "\n" + strings.TrimSpace(line) + "\n")
	if err := gocsv.Unmarshal(in, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, gocsv.ErrEmptyCSVFile
	}
	return rows[0], nil
}

// Location is the drone position in plain units: degrees and meters
// above the home position.
type Location struct {
	Latitude  float64 `csv:"latitude"`
	Longitude float64 `csv:"longitude"`
	Altitude  float64 `csv:"altitude"`
}

// LocationFromPosition converts a GLOBAL_POSITION_INT fix.
func LocationFromPosition(p *common.GlobalPositionInt) Location {
	return Location{
		Latitude:  float64(p.Lat) / 1e7,
		Longitude: float64(p.Lon) / 1e7,
		Altitude:  float64(p.RelativeAlt) / 1000,
	}
}

// SetLocation merges the drone position into the row's Drone* columns.
func (r *Row) SetLocation(loc Location) {
	lat, lon, alt := loc.Latitude, loc.Longitude, loc.Altitude
	r.DroneLat, r.DroneLon, r.DroneAlt = &lat, &lon, &alt
}
