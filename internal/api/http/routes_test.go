package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/meteobridge/swissweather/internal/meteo"
	"github.com/meteobridge/swissweather/internal/store"
	"github.com/meteobridge/swissweather/internal/weather"
)

type stubClient struct{}

func (stubClient) CurrentWeatherForStation(ctx context.Context, station string) (*meteo.CurrentWeather, error) {
	return nil, nil
}

func (stubClient) Forecast(ctx context.Context, postCode string) (*meteo.WeatherForecast, error) {
	return &meteo.WeatherForecast{}, nil
}

func (stubClient) CurrentPollenForStation(ctx context.Context, station string) (*meteo.CurrentPollen, error) {
	return nil, nil
}

func (stubClient) WeatherStations(ctx context.Context) ([]meteo.StationInfo, error) {
	return nil, nil
}

func newTestApp() (*fiber.App, *weather.Service) {
	app := fiber.New()
	svc := weather.NewService(stubClient{}, store.NewMemoryStore(), nil, "8001", "", "")
	RegisterRoutes(app, svc)
	return app, svc
}

// TestCurrentBeforeFirstCycle verifies that the current endpoint reports 404
// until an update cycle has stored a snapshot.
func TestCurrentBeforeFirstCycle(t *testing.T) {
	app, svc := newTestApp()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/weather/current", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, resp.StatusCode)
	}

	if err := svc.UpdateWeather(context.Background()); err != nil {
		t.Fatalf("UpdateWeather: %v", err)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/weather/current", nil)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
}

// TestForecastHoursValidation verifies that the forecast endpoint enforces
// the expected 0-168 range for the `hours` query parameter.
func TestForecastHoursValidation(t *testing.T) {
	app, _ := newTestApp()

	// Non-integer hours value should return 400.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/weather/forecast?hours=abc", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}

	// Out-of-range hours value should also return 400.
	req = httptest.NewRequest(http.MethodGet, "/api/v1/weather/forecast?hours=500", nil)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}
}

// TestStationsCoordinateValidation verifies that lat/lng must be provided
// together and within range.
func TestStationsCoordinateValidation(t *testing.T) {
	app, _ := newTestApp()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/stations?lat=47.4", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/stations?lat=200&lng=8.5", nil)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}
}
