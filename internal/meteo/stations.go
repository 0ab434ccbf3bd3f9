package meteo

import (
	"context"
	"fmt"
	"log"
	"math"

	"golang.org/x/text/encoding/charmap"

	"github.com/meteobridge/swissweather/internal/common"
)

const (
	stationURLTemplate       = "https://data.geo.admin.ch/ch.meteoschweiz.messnetz-automatisch/ch.meteoschweiz.messnetz-automatisch_%s.csv"
	pollenStationURLTemplate = "https://data.geo.admin.ch/ch.meteoschweiz.messnetz-pollen/ch.meteoschweiz.messnetz-pollen_%s.csv"
)

// Pseudo-rows the station CSV carries alongside real stations.
var stationSkipNames = map[string]bool{
	"creation_time":  true,
	"map_short_name": true,
	"license":        true,
}

// WeatherStations loads the weather station directory. Stations without a
// code or without temperature measurement capability are skipped; a feed
// with zero usable stations yields an empty directory and a warning log, not
// an error.
func (c *Client) WeatherStations(ctx context.Context) ([]StationInfo, error) {
	stations, err := c.stationDirectory(ctx, "stations", fmt.Sprintf(c.stationURL, c.language), true)
	if err != nil {
		return nil, err
	}
	if len(stations) == 0 {
		log.Printf("meteo: weather station directory contains no usable stations")
	}
	return stations, nil
}

// PollenStations loads the pollen station directory. No capability filter
// applies.
func (c *Client) PollenStations(ctx context.Context) ([]StationInfo, error) {
	return c.stationDirectory(ctx, "pollen-stations", fmt.Sprintf(c.pollenStationURL, c.language), false)
}

func (c *Client) stationDirectory(ctx context.Context, feed, url string, temperatureOnly bool) ([]StationInfo, error) {
	resp, err := c.get(ctx, feed, url, nil)
	if err != nil {
		return nil, fmt.Errorf("station directory fetch: %w", err)
	}
	defer resp.Body.Close()

	// The directory feeds are latin-1 encoded.
	body := charmap.ISO8859_1.NewDecoder().Reader(resp.Body)

	var stations []StationInfo
	err = forEachSemicolonRow(body, func(row csvRow) bool {
		if stationSkipNames[row.get("Station")] {
			return true
		}
		code := row.get("Abbr.")
		if code == "" {
			return true
		}
		if temperatureOnly && !common.HasAny(row.get("Measurements"), "Temperature") {
			return true
		}

		stations = append(stations, StationInfo{
			Name:     row.get("Station"),
			Code:     code,
			Type:     row.get("Station type"),
			Altitude: ParseFloat(row.get("Station height m a. sea level")),
			Lat:      ParseFloat(row.get("Latitude")),
			Lng:      ParseFloat(row.get("Longitude")),
			Canton:   row.get("Canton"),
		})
		return true
	})
	if err != nil {
		return nil, err
	}
	return stations, nil
}

// NearestStation returns the directory entry closest to the given
// coordinates, ignoring stations without coordinates. Returns nil for an
// empty directory.
func NearestStation(stations []StationInfo, lat, lng float64) *StationInfo {
	var nearest *StationInfo
	best := math.Inf(1)
	for i := range stations {
		s := &stations[i]
		if s.Lat == nil || s.Lng == nil {
			continue
		}
		if d := haversineKm(lat, lng, *s.Lat, *s.Lng); d < best {
			best = d
			nearest = s
		}
	}
	return nearest
}

func haversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	const earthRadiusKm = 6371.0

	rad := func(deg float64) float64 { return deg * math.Pi / 180 }
	dLat := rad(lat2 - lat1)
	dLng := rad(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rad(lat1))*math.Cos(rad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}
