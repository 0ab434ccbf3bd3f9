package meteo

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"
)

const pollenURLTemplate = "https://www.meteoschweiz.admin.ch/product/output/measured-values/stationsTable/messwerte-pollen-%s-1h/stationsTable.json"

// pollenSpecies lists the monitored plant species in the fixed order they
// are fetched and checked. The key is the species segment of the feed URL.
var pollenSpecies = []struct {
	name string
	key  string
}{
	{"birch", "birke"},
	{"grasses", "graeser"},
	{"alder", "erle"},
	{"hazel", "hasel"},
	{"beech", "buche"},
	{"ash", "esche"},
	{"oak", "eiche"},
}

type pollenPayload struct {
	Stations []struct {
		ID      string `json:"id"`
		Current *struct {
			Date  *int64   `json:"date"`
			Value *float64 `json:"value"`
		} `json:"current"`
	} `json:"stations"`
}

// CurrentPollenForStation fetches the per-species concentration feeds and
// assembles one snapshot for the station. The snapshot's timestamp is the
// first per-species timestamp found in species order; individual species
// were sampled independently, so this is an approximation. Returns
// (nil, nil) when no species has data for the station.
func (c *Client) CurrentPollenForStation(ctx context.Context, station string) (*CurrentPollen, error) {
	log.Printf("meteo: loading pollen data for %s", station)

	values := make([]Measurement, len(pollenSpecies))
	var timestamp *time.Time
	any := false

	for i, species := range pollenSpecies {
		value, date, err := c.pollenValueForSpecies(ctx, species.key, station)
		if err != nil {
			log.Printf("meteo: pollen fetch for %s failed: %v", species.name, err)
			values[i] = Measurement{Unit: UnitPollenPerCubM}
			continue
		}
		values[i] = FloatMeasurement(value, UnitPollenPerCubM)
		if value != nil {
			any = true
		}
		if timestamp == nil && date != nil {
			ts := time.UnixMilli(*date).UTC()
			timestamp = &ts
		}
	}

	if !any {
		log.Printf("meteo: no pollen data for station %s", station)
		return nil, nil
	}

	return &CurrentPollen{
		StationCode: station,
		Timestamp:   timestamp,
		Birch:       values[0],
		Grasses:     values[1],
		Alder:       values[2],
		Hazel:       values[3],
		Beech:       values[4],
		Ash:         values[5],
		Oak:         values[6],
	}, nil
}

func (c *Client) pollenValueForSpecies(ctx context.Context, speciesKey, station string) (*float64, *int64, error) {
	url := fmt.Sprintf(c.pollenURL, speciesKey)
	resp, err := c.get(ctx, "pollen", url, nil)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	var payload pollenPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, nil, fmt.Errorf("pollen decode: %w", err)
	}

	for _, s := range payload.Stations {
		if !strings.EqualFold(s.ID, station) {
			continue
		}
		if s.Current == nil {
			return nil, nil, nil
		}
		return s.Current.Value, s.Current.Date, nil
	}
	return nil, nil, nil
}
