package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/kelvins/geocoder"

	httpapi "github.com/meteobridge/swissweather/internal/api/http"
	"github.com/meteobridge/swissweather/internal/config"
	"github.com/meteobridge/swissweather/internal/meteo"
	"github.com/meteobridge/swissweather/internal/mqtt"
	"github.com/meteobridge/swissweather/internal/scheduler"
	"github.com/meteobridge/swissweather/internal/store"
	"github.com/meteobridge/swissweather/internal/weather"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Shared HTTP client for outbound feed calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	client := meteo.NewClient(httpClient, cfg.Language)

	stationCode := cfg.StationCode
	if stationCode == "" && cfg.StationAddress != "" && cfg.GeocoderAPIKey != "" {
		stationCode = pickNearestStation(client, cfg)
	}

	memStore := store.NewMemoryStore()

	// Optional MQTT publishing toward the home-automation platform.
	var publisher weather.Publisher
	if cfg.MQTTBroker != "" {
		pub := mqtt.NewPublisher(cfg.MQTTBroker, cfg.MQTTClientID, cfg.MQTTTopicPrefix, cfg.PostCode)
		if err := pub.Connect(); err != nil {
			log.Printf("mqtt connect failed, publishing disabled until reconnect: %v", err)
		}
		defer pub.Disconnect()
		publisher = pub
	}

	// Core service running the update cycles.
	service := weather.NewService(client, memStore, publisher, cfg.PostCode, stationCode, cfg.PollenStationCode)

	// Scheduler that periodically fetches and stores data.
	sched := scheduler.New(service, cfg.FetchInterval, cfg.PollenInterval, cfg.PollenStationCode != "")
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "swissweather-bridge",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "swissweather-bridge",
		})
	})

	// API routes.
	httpapi.RegisterRoutes(app, service)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}

// pickNearestStation geocodes the configured address and ranks the weather
// station directory by distance. A failure here only means the bridge runs
// without a ground station, so it degrades with a log line.
func pickNearestStation(client *meteo.Client, cfg *config.AppConfig) string {
	geocoder.ApiKey = cfg.GeocoderAPIKey

	location, err := geocoder.Geocoding(geocoder.Address{Street: cfg.StationAddress})
	if err != nil {
		log.Printf("geocoding %q failed, running without station: %v", cfg.StationAddress, err)
		return ""
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	stations, err := client.WeatherStations(ctx)
	if err != nil {
		log.Printf("station directory load failed, running without station: %v", err)
		return ""
	}

	nearest := meteo.NearestStation(stations, location.Latitude, location.Longitude)
	if nearest == nil {
		log.Printf("no station with coordinates found, running without station")
		return ""
	}
	log.Printf("picked nearest station %s", nearest)
	return nearest.Code
}
