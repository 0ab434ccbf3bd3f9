package httpapi

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/meteobridge/swissweather/internal/meteo"
	"github.com/meteobridge/swissweather/internal/store"
	"github.com/meteobridge/swissweather/internal/weather"
)

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *weather.Service) {
	v1 := app.Group("/api/v1")

	v1.Get("/weather/current", func(c *fiber.Ctx) error {
		snapshot, err := service.LatestWeather()
		if err != nil {
			return snapshotError(err)
		}
		return c.JSON(fiber.Map{
			"current":   snapshot.Current,
			"fetchedAt": snapshot.FetchedAt,
			"cycleId":   snapshot.CycleID,
		})
	})

	v1.Get("/weather/forecast", func(c *fiber.Ctx) error {
		var req forecastQuery
		if err := req.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		snapshot, err := service.LatestWeather()
		if err != nil {
			return snapshotError(err)
		}

		forecast := snapshot.Forecast
		if forecast == nil {
			return fiber.NewError(fiber.StatusNotFound, "no forecast data available")
		}

		hourly := forecast.Hourly
		if req.Hours > 0 && req.Hours < len(hourly) {
			hourly = hourly[:req.Hours]
		}

		return c.JSON(fiber.Map{
			"current":   forecast.Current,
			"daily":     forecast.Daily,
			"hourly":    hourly,
			"sunrise":   forecast.Sunrise,
			"sunset":    forecast.Sunset,
			"fetchedAt": snapshot.FetchedAt,
		})
	})

	v1.Get("/weather/warnings", func(c *fiber.Ctx) error {
		snapshot, err := service.LatestWeather()
		if err != nil {
			return snapshotError(err)
		}

		var warnings any
		if snapshot.Forecast != nil {
			warnings = snapshot.Forecast.Warnings
		}
		return c.JSON(fiber.Map{
			"warnings":  warnings,
			"fetchedAt": snapshot.FetchedAt,
		})
	})

	v1.Get("/pollen/current", func(c *fiber.Ctx) error {
		pollen, err := service.LatestPollen()
		if err != nil {
			return snapshotError(err)
		}
		return c.JSON(pollen)
	})

	v1.Get("/stations", func(c *fiber.Ctx) error {
		var req stationsQuery
		if err := req.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		stations, err := service.Stations(c.Context())
		if err != nil {
			return fiber.NewError(fiber.StatusBadGateway, "failed to load station directory")
		}

		if req.Lat != nil && req.Lng != nil {
			nearest := meteo.NearestStation(stations, *req.Lat, *req.Lng)
			if nearest == nil {
				return fiber.NewError(fiber.StatusNotFound, "no station with coordinates found")
			}
			return c.JSON(nearest)
		}
		return c.JSON(stations)
	})
}

func snapshotError(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "no data fetched yet")
	}
	return fiber.NewError(fiber.StatusInternalServerError, "failed to read snapshot")
}

// forecastQuery holds query parameters for the forecast endpoint.
type forecastQuery struct {
	Hours int `validate:"gte=0,lte=168"`
}

func (q *forecastQuery) bind(c *fiber.Ctx) error {
	raw := c.Query("hours")
	if raw == "" {
		return nil
	}
	hours, err := strconv.Atoi(raw)
	if err != nil {
		return errors.New("hours must be an integer")
	}
	q.Hours = hours
	return nil
}

// stationsQuery holds the optional coordinate pair for nearest-station
// ranking.
type stationsQuery struct {
	Lat *float64 `validate:"omitempty,gte=-90,lte=90"`
	Lng *float64 `validate:"omitempty,gte=-180,lte=180,required_with=Lat"`
}

func (q *stationsQuery) bind(c *fiber.Ctx) error {
	latRaw := c.Query("lat")
	lngRaw := c.Query("lng")
	if (latRaw == "") != (lngRaw == "") {
		return errors.New("lat and lng must be provided together")
	}
	if latRaw == "" {
		return nil
	}

	lat, err := strconv.ParseFloat(latRaw, 64)
	if err != nil {
		return errors.New("invalid lat")
	}
	lng, err := strconv.ParseFloat(lngRaw, 64)
	if err != nil {
		return errors.New("invalid lng")
	}
	q.Lat = &lat
	q.Lng = &lng
	return nil
}
