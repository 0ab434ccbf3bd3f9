package weather

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/meteobridge/swissweather/internal/meteo"
)

// Snapshot is the outcome of one successful weather update cycle.
type Snapshot struct {
	Current   *meteo.CurrentWeather  `json:"current"`
	Forecast  *meteo.WeatherForecast `json:"forecast"`
	FetchedAt time.Time              `json:"fetchedAt"`
	CycleID   string                 `json:"cycleId"`
}

// Client is the feed contract the service depends on.
type Client interface {
	CurrentWeatherForStation(ctx context.Context, station string) (*meteo.CurrentWeather, error)
	Forecast(ctx context.Context, postCode string) (*meteo.WeatherForecast, error)
	CurrentPollenForStation(ctx context.Context, station string) (*meteo.CurrentPollen, error)
	WeatherStations(ctx context.Context) ([]meteo.StationInfo, error)
}

// Store is the contract the snapshot store must satisfy.
type Store interface {
	SaveWeather(snapshot Snapshot)
	LatestWeather() (Snapshot, error)
	SavePollen(pollen meteo.CurrentPollen)
	LatestPollen() (meteo.CurrentPollen, error)
}

// Publisher pushes stored snapshots toward the home-automation platform.
type Publisher interface {
	PublishWeather(snapshot Snapshot) error
	PublishPollen(pollen meteo.CurrentPollen) error
}

// Service runs the periodic update cycles: station conditions degrade
// gracefully, the forecast fetch is the one fatal failure, and alerts are
// re-filtered every cycle.
type Service struct {
	client            Client
	store             Store
	publisher         Publisher
	postCode          string
	stationCode       string
	pollenStationCode string
}

// NewService creates a Service. publisher may be nil.
func NewService(client Client, store Store, publisher Publisher, postCode, stationCode, pollenStationCode string) *Service {
	return &Service{
		client:            client,
		store:             store,
		publisher:         publisher,
		postCode:          postCode,
		stationCode:       stationCode,
		pollenStationCode: pollenStationCode,
	}
}

// UpdateWeather runs one weather update cycle and stores the result. A
// failed station fetch degrades to a forecast-derived current reading; a
// failed forecast fetch fails the cycle.
func (s *Service) UpdateWeather(ctx context.Context) error {
	cycleID := uuid.NewString()

	var current *meteo.CurrentWeather
	if s.stationCode == "" {
		log.Printf("weather: [%s] station code not set, not loading current state", cycleID)
	} else {
		log.Printf("weather: [%s] loading current weather state for %s", cycleID, s.stationCode)
		var err error
		current, err = s.client.CurrentWeatherForStation(ctx, s.stationCode)
		if err != nil {
			// Non-fatal: the forecast may supply a substitute reading.
			log.Printf("weather: [%s] current-conditions fetch failed: %v", cycleID, err)
			current = nil
		}
	}

	log.Printf("weather: [%s] loading forecast for %s", cycleID, s.postCode)
	forecast, err := s.client.Forecast(ctx, s.postCode)
	if err != nil {
		return fmt.Errorf("update failed: %w", err)
	}

	if forecast.Warnings != nil {
		forecast.Warnings = meteo.FilterAndRankWarnings(forecast.Warnings, time.Now().UTC())
	}

	if current == nil {
		current = synthesizeCurrent(forecast)
	}

	snapshot := Snapshot{
		Current:   current,
		Forecast:  forecast,
		FetchedAt: time.Now().UTC(),
		CycleID:   cycleID,
	}
	s.store.SaveWeather(snapshot)

	if s.publisher != nil {
		if err := s.publisher.PublishWeather(snapshot); err != nil {
			log.Printf("weather: [%s] snapshot publish failed: %v", cycleID, err)
		}
	}
	return nil
}

// synthesizeCurrent builds a stand-in current reading from the forecast's
// embedded current state. Everything except the temperature stays absent.
func synthesizeCurrent(forecast *meteo.WeatherForecast) *meteo.CurrentWeather {
	if forecast == nil || forecast.Current == nil {
		return nil
	}
	now := time.Now().UTC()
	return &meteo.CurrentWeather{
		Timestamp:            &now,
		AirTemperature:       forecast.Current.Temperature,
		Precipitation:        meteo.Measurement{Unit: meteo.UnitMillimeters},
		Sunshine:             meteo.Measurement{Unit: meteo.UnitMinutes},
		GlobalRadiation:      meteo.Measurement{Unit: meteo.UnitIrradiance},
		RelativeHumidity:     meteo.Measurement{Unit: meteo.UnitPercent},
		DewPoint:             meteo.Measurement{Unit: meteo.UnitCelsius},
		WindDirection:        meteo.Measurement{Unit: meteo.UnitDegrees},
		WindSpeed:            meteo.Measurement{Unit: meteo.UnitKmh},
		GustPeak:             meteo.Measurement{Unit: meteo.UnitKmh},
		PressureStationLevel: meteo.Measurement{Unit: meteo.UnitHectopascal},
		PressureSeaLevel:     meteo.Measurement{Unit: meteo.UnitHectopascal},
		PressureQNH:          meteo.Measurement{Unit: meteo.UnitHectopascal},
	}
}

// UpdatePollen runs one pollen update cycle.
func (s *Service) UpdatePollen(ctx context.Context) error {
	if s.pollenStationCode == "" {
		log.Printf("weather: pollen station code not set, not loading pollen state")
		return nil
	}

	pollen, err := s.client.CurrentPollenForStation(ctx, s.pollenStationCode)
	if err != nil {
		return fmt.Errorf("pollen update failed: %w", err)
	}
	if pollen == nil {
		// No species had data; keep the last good snapshot if any.
		return nil
	}

	s.store.SavePollen(*pollen)

	if s.publisher != nil {
		if err := s.publisher.PublishPollen(*pollen); err != nil {
			log.Printf("weather: pollen publish failed: %v", err)
		}
	}
	return nil
}

// LatestWeather delegates to the underlying store.
func (s *Service) LatestWeather() (Snapshot, error) {
	return s.store.LatestWeather()
}

// LatestPollen delegates to the underlying store.
func (s *Service) LatestPollen() (meteo.CurrentPollen, error) {
	return s.store.LatestPollen()
}

// Stations loads the weather station directory.
func (s *Service) Stations(ctx context.Context) ([]meteo.StationInfo, error) {
	return s.client.WeatherStations(ctx)
}
