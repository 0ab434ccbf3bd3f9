package meteo

import (
	"fmt"
	"time"
)

// StationInfo describes one entry of a station directory. It is immutable
// once loaded; the directory lives for a single fetch cycle unless the
// caller caches it.
type StationInfo struct {
	Name     string   `json:"name"`
	Code     string   `json:"code"`
	Type     string   `json:"type,omitempty"`
	Altitude *float64 `json:"altitude,omitempty"`
	Lat      *float64 `json:"lat,omitempty"`
	Lng      *float64 `json:"lng,omitempty"`
	Canton   string   `json:"canton,omitempty"`
}

func (s StationInfo) String() string {
	return fmt.Sprintf("Station %s - [Name: %s, Canton: %s]", s.Code, s.Name, s.Canton)
}

// CurrentWeather is one station's ground-truth snapshot from the
// current-conditions feed. StationCode is empty when the snapshot was
// synthesized from a forecast instead of a station row.
type CurrentWeather struct {
	StationCode string     `json:"stationCode,omitempty"`
	Timestamp   *time.Time `json:"timestamp"` // always UTC

	AirTemperature       Measurement `json:"airTemperature"`
	Precipitation        Measurement `json:"precipitation"`
	Sunshine             Measurement `json:"sunshine"`
	GlobalRadiation      Measurement `json:"globalRadiation"`
	RelativeHumidity     Measurement `json:"relativeHumidity"`
	DewPoint             Measurement `json:"dewPoint"`
	WindDirection        Measurement `json:"windDirection"`
	WindSpeed            Measurement `json:"windSpeed"`
	GustPeak             Measurement `json:"gustPeak"`
	PressureStationLevel Measurement `json:"pressureStationLevel"`
	PressureSeaLevel     Measurement `json:"pressureSeaLevel"`
	PressureQNH          Measurement `json:"pressureQnh"`
}

// CurrentState is the icon-derived reading embedded in a forecast payload.
// Condition is empty when the icon is not in any condition class; that is an
// expected outcome, not an error.
type CurrentState struct {
	Temperature Measurement `json:"temperature"`
	Icon        *int        `json:"icon"`
	Condition   string      `json:"condition,omitempty"`
}

// Forecast is one daily or hourly forecast entry. The trailing fields are
// populated for hourly entries only and stay absent on daily entries.
type Forecast struct {
	Timestamp *time.Time `json:"timestamp"`
	Icon      *int       `json:"icon"`
	Condition string     `json:"condition,omitempty"`

	TemperatureMax           Measurement `json:"temperatureMax"`
	TemperatureMin           Measurement `json:"temperatureMin"`
	Precipitation            Measurement `json:"precipitation"`
	PrecipitationProbability Measurement `json:"precipitationProbability"`

	TemperatureMean Measurement `json:"temperatureMean"`
	WindSpeed       Measurement `json:"windSpeed"`
	WindDirection   Measurement `json:"windDirection"`
	WindGustSpeed   Measurement `json:"windGustSpeed"`
	Sunshine        Measurement `json:"sunshine"`
}

// WeatherForecast aggregates everything derived from one plzDetail payload.
// Each section is nil when the corresponding feed section was missing;
// sequences are chronological.
type WeatherForecast struct {
	Current  *CurrentState `json:"current,omitempty"`
	Daily    []Forecast    `json:"daily,omitempty"`
	Hourly   []Forecast    `json:"hourly,omitempty"`
	Sunrise  []time.Time   `json:"sunrise,omitempty"`
	Sunset   []time.Time   `json:"sunset,omitempty"`
	Warnings []Warning     `json:"warnings,omitempty"`
}

// CurrentPollen is one pollen station's per-species snapshot. The timestamp
// is taken from the first species that reported one, even though species are
// sampled independently; the shared timestamp is an approximation.
type CurrentPollen struct {
	StationCode string     `json:"stationCode"`
	Timestamp   *time.Time `json:"timestamp"`

	Birch   Measurement `json:"birch"`
	Grasses Measurement `json:"grasses"`
	Alder   Measurement `json:"alder"`
	Hazel   Measurement `json:"hazel"`
	Beech   Measurement `json:"beech"`
	Ash     Measurement `json:"ash"`
	Oak     Measurement `json:"oak"`
}
