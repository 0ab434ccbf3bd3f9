package meteo

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"strings"
	"time"
)

const currentConditionURL = "https://data.geo.admin.ch/ch.meteoschweiz.messwerte-aktuell/VQHA80.csv"

// currentTimestampLayout is the Date column format of the current-conditions
// feed, always UTC.
const currentTimestampLayout = "200601021504"

// CurrentWeatherForStation fetches the current-conditions feed and returns
// the snapshot for the station whose code matches case-insensitively. A
// missing station yields (nil, nil); only an unreachable feed yields an
// error. Callers are expected to treat both as a degraded, non-fatal cycle.
func (c *Client) CurrentWeatherForStation(ctx context.Context, station string) (*CurrentWeather, error) {
	log.Printf("meteo: retrieving current weather for station %s", station)

	var found *CurrentWeather
	err := c.forEachCurrentRow(ctx, func(row csvRow) bool {
		if !strings.EqualFold(row.get("Station/Location"), station) {
			return true
		}
		cw := currentWeatherFromRow(row)
		found = &cw
		return false
	})
	if err != nil {
		return nil, err
	}
	if found == nil {
		log.Printf("meteo: no current-conditions row for station %s", station)
	}
	return found, nil
}

// CurrentWeatherForAllStations returns one snapshot per feed row in file
// order. Rows whose timestamp does not resolve are kept with an absent
// timestamp rather than dropped.
func (c *Client) CurrentWeatherForAllStations(ctx context.Context) ([]CurrentWeather, error) {
	log.Printf("meteo: retrieving current weather for all stations")

	var weather []CurrentWeather
	err := c.forEachCurrentRow(ctx, func(row csvRow) bool {
		weather = append(weather, currentWeatherFromRow(row))
		return true
	})
	if err != nil {
		return nil, err
	}
	return weather, nil
}

func (c *Client) forEachCurrentRow(ctx context.Context, fn func(csvRow) bool) error {
	resp, err := c.get(ctx, "current", c.currentURL, nil)
	if err != nil {
		return fmt.Errorf("current-conditions fetch: %w", err)
	}
	defer resp.Body.Close()

	return forEachSemicolonRow(resp.Body, fn)
}

// csvRow pairs one record with the header index of its file.
type csvRow struct {
	header map[string]int
	record []string
}

// get returns the named column, or "" when the column is missing or the row
// is short.
func (r csvRow) get(column string) string {
	idx, ok := r.header[column]
	if !ok || idx >= len(r.record) {
		return ""
	}
	return r.record[idx]
}

// forEachSemicolonRow stream-parses a semicolon-delimited CSV with a header
// row, invoking fn per data row until fn returns false.
func forEachSemicolonRow(r io.Reader, fn func(csvRow) bool) error {
	reader := csv.NewReader(r)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1

	headerRecord, err := reader.Read()
	if err != nil {
		return fmt.Errorf("csv header: %w", err)
	}
	header := make(map[string]int, len(headerRecord))
	for i, name := range headerRecord {
		header[strings.TrimSpace(name)] = i
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			// Malformed row: skip it, keep the batch going.
			log.Printf("meteo: skipping malformed csv row: %v", err)
			continue
		}
		if !fn(csvRow{header: header, record: record}) {
			return nil
		}
	}
}

func currentWeatherFromRow(row csvRow) CurrentWeather {
	var timestamp *time.Time
	if raw := row.get("Date"); raw != "" {
		if ts, err := time.ParseInLocation(currentTimestampLayout, raw, time.UTC); err == nil {
			timestamp = &ts
		}
	}

	return CurrentWeather{
		StationCode:          row.get("Station/Location"),
		Timestamp:            timestamp,
		AirTemperature:       NewMeasurement(row.get("tre200s0"), UnitCelsius),
		Precipitation:        NewMeasurement(row.get("rre150z0"), UnitMillimeters),
		Sunshine:             NewMeasurement(row.get("sre000z0"), UnitMinutes),
		GlobalRadiation:      NewMeasurement(row.get("gre000z0"), UnitIrradiance),
		RelativeHumidity:     NewMeasurement(row.get("ure200s0"), UnitPercent),
		DewPoint:             NewMeasurement(row.get("tde200s0"), UnitCelsius),
		WindDirection:        NewMeasurement(row.get("dkl010z0"), UnitDegrees),
		WindSpeed:            NewMeasurement(row.get("fu3010z0"), UnitKmh),
		GustPeak:             NewMeasurement(row.get("fu3010z1"), UnitKmh),
		PressureStationLevel: NewMeasurement(row.get("prestas0"), UnitHectopascal),
		PressureSeaLevel:     NewMeasurement(row.get("prestas0"), UnitHectopascal),
		PressureQNH:          NewMeasurement(row.get("pp0qnhs0"), UnitHectopascal),
	}
}
