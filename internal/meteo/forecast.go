package meteo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const forecastURLTemplate = "https://app-prod-ws.meteoswiss-app.ch/v1/plzDetail?plz=%s"

// dayDateLayout is the calendar-date format of daily forecast entries. The
// field carries no timezone; it is a date, not an instant.
const dayDateLayout = "2006-01-02"

// forecastPayload is the explicit schema of the plzDetail document. All
// missing-key handling happens at this one boundary.
type forecastPayload struct {
	CurrentWeather *struct {
		Icon        json.Number `json:"icon"`
		Temperature *float64    `json:"temperature"`
	} `json:"currentWeather"`
	Forecast []struct {
		DayDate        string      `json:"dayDate"`
		IconDay        json.Number `json:"iconDay"`
		TemperatureMax *float64    `json:"temperatureMax"`
		TemperatureMin *float64    `json:"temperatureMin"`
		Precipitation  *float64    `json:"precipitation"`
	} `json:"forecast"`
	Graph    *graphPayload    `json:"graph"`
	Warnings []warningPayload `json:"warnings"`
}

type graphPayload struct {
	Start   *int64  `json:"start"`
	Sunrise []int64 `json:"sunrise"`
	Sunset  []int64 `json:"sunset"`

	TemperatureMax1h  []*float64 `json:"temperatureMax1h"`
	TemperatureMean1h []*float64 `json:"temperatureMean1h"`
	TemperatureMin1h  []*float64 `json:"temperatureMin1h"`
	Precipitation1h   []*float64 `json:"precipitation1h"`
	Precipitation10m  []*float64 `json:"precipitation10m"`
	GustSpeed1h       []*float64 `json:"gustSpeed1h"`
	WindSpeed1h       []*float64 `json:"windSpeed1h"`
	Sunshine1h        []*float64 `json:"sunshine1h"`

	// Reported once per 3-hour block.
	WeatherIcon3h              []*int     `json:"weatherIcon3h"`
	WindDirection3h            []*float64 `json:"windDirection3h"`
	PrecipitationProbability3h []*float64 `json:"precipitationProbability3h"`
}

// paddedPostCode right-pads the postal code with zeros to the six digits the
// mobile-app endpoint expects (plz 8001 -> 800100).
func paddedPostCode(postCode string) string {
	for len(postCode) < 6 {
		postCode += "0"
	}
	return postCode
}

// Forecast fetches and normalizes the forecast document for a postal code.
// An unreachable or malformed feed is an error; this is the one fetch whose
// failure is fatal to an update cycle.
func (c *Client) Forecast(ctx context.Context, postCode string) (*WeatherForecast, error) {
	url := fmt.Sprintf(c.forecastURL, paddedPostCode(postCode))
	header := http.Header{
		"User-Agent":      {forecastUserAgent},
		"Accept-Language": {c.language},
		"Accept":          {"application/json"},
	}

	resp, err := c.get(ctx, "forecast", url, header)
	if err != nil {
		return nil, fmt.Errorf("forecast fetch: %w", err)
	}
	defer resp.Body.Close()

	var payload forecastPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("forecast decode: %w", err)
	}

	forecast := &WeatherForecast{
		Current:  currentStateFromPayload(payload),
		Daily:    dailyForecastFromPayload(payload),
		Hourly:   hourlyForecastFromGraph(payload.Graph),
		Warnings: warningsFromPayload(payload.Warnings),
	}

	if g := payload.Graph; g != nil {
		forecast.Sunrise = epochsToTimes(g.Sunrise)
		forecast.Sunset = epochsToTimes(g.Sunset)
	}

	return forecast, nil
}

func currentStateFromPayload(payload forecastPayload) *CurrentState {
	cw := payload.CurrentWeather
	if cw == nil {
		return nil
	}
	icon := ParseInt(cw.Icon.String())
	return &CurrentState{
		Temperature: FloatMeasurement(cw.Temperature, UnitCelsius),
		Icon:        icon,
		Condition:   ConditionForIcon(icon),
	}
}

func dailyForecastFromPayload(payload forecastPayload) []Forecast {
	if payload.Forecast == nil {
		return nil
	}

	daily := make([]Forecast, 0, len(payload.Forecast))
	for _, day := range payload.Forecast {
		var timestamp *time.Time
		if ts, err := time.ParseInLocation(dayDateLayout, day.DayDate, time.UTC); err == nil {
			timestamp = &ts
		}
		icon := ParseInt(day.IconDay.String())
		daily = append(daily, Forecast{
			Timestamp:      timestamp,
			Icon:           icon,
			Condition:      ConditionForIcon(icon),
			TemperatureMax: FloatMeasurement(day.TemperatureMax, UnitCelsius),
			TemperatureMin: FloatMeasurement(day.TemperatureMin, UnitCelsius),
			Precipitation:  FloatMeasurement(day.Precipitation, UnitMillimeters),
		})
	}
	return daily
}

// hourlyForecastFromGraph aligns the graph section's independently-sampled
// series into one hourly sequence. An absent start epoch aborts hourly
// forecasting entirely.
func hourlyForecastFromGraph(g *graphPayload) []Forecast {
	if g == nil || g.Start == nil {
		return nil
	}
	start := time.UnixMilli(*g.Start).UTC()

	precipitation := reconcilePrecipitation(g.Precipitation10m, g.Precipitation1h, len(g.TemperatureMean1h))

	// 3-hour fields: each value covers three hourly slots.
	icons := repeatEach3(g.WeatherIcon3h)
	windDirections := repeatEach3(g.WindDirection3h)
	precipProbabilities := repeatEach3(g.PrecipitationProbability3h)

	// The entry count is the minimum over the series actually present in the
	// payload; an omitted series does not force the count to zero.
	hours, ok := minPresentLength(g.TemperatureMax1h, g.TemperatureMean1h, g.TemperatureMin1h, precipitation)
	if !ok {
		if icons == nil {
			return nil
		}
		hours = len(icons)
	} else if icons != nil && len(icons) < hours {
		hours = len(icons)
	}

	forecast := make([]Forecast, 0, hours)
	for i := 0; i < hours; i++ {
		ts := start.Add(time.Duration(i) * time.Hour)
		icon := intAt(icons, i)
		forecast = append(forecast, Forecast{
			Timestamp:                &ts,
			Icon:                     icon,
			Condition:                ConditionForIcon(icon),
			TemperatureMax:           measurementAt(g.TemperatureMax1h, i, UnitCelsius),
			TemperatureMin:           measurementAt(g.TemperatureMin1h, i, UnitCelsius),
			TemperatureMean:          measurementAt(g.TemperatureMean1h, i, UnitCelsius),
			Precipitation:            measurementAt(precipitation, i, UnitMillimeters),
			PrecipitationProbability: measurementAt(precipProbabilities, i, UnitPercent),
			WindSpeed:                measurementAt(g.WindSpeed1h, i, UnitKmh),
			WindDirection:            measurementAt(windDirections, i, UnitDegrees),
			WindGustSpeed:            measurementAt(g.GustSpeed1h, i, UnitKmh),
			Sunshine:                 measurementAt(g.Sunshine1h, i, UnitMinPerHour),
		})
	}
	return forecast
}

// reconcilePrecipitation merges the 10-minute and hourly precipitation
// series into one hourly series aligned with the other hourly arrays: the
// first hourly value completes the 10-minute series' final chunk, chunks of
// six 10-minute samples are averaged into synthesized hourly values, the
// first meanLen-len(hourly) synthesized values (clamped to what exists) form
// the lead-in, and the raw hourly series follows. When either source series
// is missing the hourly series alone is the result.
func reconcilePrecipitation(tenMinute, hourly []*float64, meanLen int) []*float64 {
	if tenMinute == nil || hourly == nil {
		return hourly
	}

	series := make([]*float64, 0, len(tenMinute)+1)
	series = append(series, tenMinute...)
	if len(hourly) > 0 {
		series = append(series, hourly[0])
	}
	synthesized := averageChunks(series, 6)

	keep := meanLen - len(hourly)
	if keep < 0 {
		keep = 0
	}
	if keep > len(synthesized) {
		keep = len(synthesized)
	}

	out := make([]*float64, 0, keep+len(hourly))
	out = append(out, synthesized[:keep]...)
	out = append(out, hourly...)
	return out
}

// averageChunks averages consecutive non-overlapping chunks, the trailing
// partial chunk included. The mean is taken over the present members of each
// chunk; a chunk with no present member averages to absent.
func averageChunks(values []*float64, size int) []*float64 {
	var out []*float64
	for offset := 0; offset < len(values); offset += size {
		end := offset + size
		if end > len(values) {
			end = len(values)
		}

		var sum float64
		var count int
		for _, v := range values[offset:end] {
			if v != nil {
				sum += *v
				count++
			}
		}
		if count == 0 {
			out = append(out, nil)
			continue
		}
		mean := sum / float64(count)
		out = append(out, &mean)
	}
	return out
}

// repeatEach3 expands a 3-hourly series to hourly resolution by repeating
// each value three times.
func repeatEach3[T any](values []T) []T {
	if values == nil {
		return nil
	}
	out := make([]T, 0, len(values)*3)
	for _, v := range values {
		out = append(out, v, v, v)
	}
	return out
}

// minPresentLength returns the minimum length over the non-nil series.
func minPresentLength(series ...[]*float64) (int, bool) {
	min := 0
	found := false
	for _, s := range series {
		if s == nil {
			continue
		}
		if !found || len(s) < min {
			min = len(s)
		}
		found = true
	}
	return min, found
}

func measurementAt(values []*float64, i int, unit string) Measurement {
	if i >= len(values) {
		return Measurement{Unit: unit}
	}
	return FloatMeasurement(values[i], unit)
}

func intAt(values []*int, i int) *int {
	if i >= len(values) {
		return nil
	}
	return values[i]
}

func epochsToTimes(epochs []int64) []time.Time {
	if epochs == nil {
		return nil
	}
	times := make([]time.Time, 0, len(epochs))
	for _, epoch := range epochs {
		times = append(times, time.UnixMilli(epoch).UTC())
	}
	return times
}
