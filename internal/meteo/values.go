package meteo

import (
	"strconv"
	"strings"
)

// missingSentinel is the literal the current-conditions CSV feed uses for
// values the station did not report.
const missingSentinel = "-"

// Fixed unit tags used throughout the model. Values are tagged, never
// converted.
const (
	UnitCelsius       = "°C"
	UnitMillimeters   = "mm"
	UnitMinutes       = "min"
	UnitIrradiance    = "W/m²"
	UnitPercent       = "%"
	UnitDegrees       = "°"
	UnitKmh           = "km/h"
	UnitHectopascal   = "hPa"
	UnitMinPerHour    = "min/h"
	UnitPollenPerCubM = "p/m3"
)

// ParseFloat returns nil for empty input, the feed's missing-data sentinel,
// or anything that does not parse as a float. It never fails.
func ParseFloat(raw string) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == missingSentinel {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}

// ParseInt is the integer counterpart of ParseFloat.
func ParseInt(raw string) *int {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == missingSentinel {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &v
}

// Measurement is a physical quantity paired with its unit tag. A nil Value
// means "not reported or unparseable", which is distinct from a reported
// zero.
type Measurement struct {
	Value *float64 `json:"value"`
	Unit  string   `json:"unit"`
}

// NewMeasurement parses raw via ParseFloat and tags the result with unit.
func NewMeasurement(raw, unit string) Measurement {
	return Measurement{Value: ParseFloat(raw), Unit: unit}
}

// FloatMeasurement wraps an already-decoded optional float with a unit tag.
func FloatMeasurement(value *float64, unit string) Measurement {
	return Measurement{Value: value, Unit: unit}
}

// Absent reports whether the measurement carries no value.
func (m Measurement) Absent() bool {
	return m.Value == nil
}
