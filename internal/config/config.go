package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/meteobridge/swissweather/internal/common"
)

// AppConfig holds everything the bridge needs from the environment.
type AppConfig struct {
	// PostCode selects the forecast feed document. Required.
	PostCode string

	// StationCode selects the ground station for current conditions. When
	// empty and StationAddress is set, the nearest temperature-capable
	// station is picked at startup.
	StationCode string

	// PollenStationCode enables the pollen cycle when set.
	PollenStationCode string

	// Language of the feeds: en, de, fr or it.
	Language string

	// FetchInterval controls the weather cycle; PollenInterval the pollen
	// cycle.
	FetchInterval  time.Duration
	PollenInterval time.Duration

	HTTPTimeout time.Duration
	Port        string

	// MQTT publishing is enabled when Broker is non-empty.
	MQTTBroker      string
	MQTTClientID    string
	MQTTTopicPrefix string

	// Optional address-based station auto-pick.
	GeocoderAPIKey string
	StationAddress string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.PostCode = os.Getenv("POST_CODE")
	if cfg.PostCode == "" {
		return nil, fmt.Errorf("POST_CODE is required")
	}
	if _, err := strconv.Atoi(cfg.PostCode); err != nil {
		return nil, fmt.Errorf("invalid POST_CODE: %q", cfg.PostCode)
	}

	cfg.StationCode = os.Getenv("STATION_CODE")
	cfg.PollenStationCode = os.Getenv("POLLEN_STATION_CODE")

	cfg.Language = getenvDefault("LANGUAGE", "en")
	if !common.OneOf(cfg.Language, "en", "de", "fr", "it") {
		return nil, fmt.Errorf("invalid LANGUAGE: %q", cfg.Language)
	}

	// Weather cycle: default 10 minutes, pollen: default 60 minutes.
	interval, err := getenvDuration("FETCH_INTERVAL", "10m")
	if err != nil {
		return nil, err
	}
	cfg.FetchInterval = interval

	pollenInterval, err := getenvDuration("POLLEN_INTERVAL", "60m")
	if err != nil {
		return nil, err
	}
	cfg.PollenInterval = pollenInterval

	timeout, err := getenvDuration("HTTP_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}
	cfg.HTTPTimeout = timeout

	cfg.Port = getenvDefault("PORT", "8080")

	cfg.MQTTBroker = os.Getenv("MQTT_BROKER")
	cfg.MQTTClientID = getenvDefault("MQTT_CLIENT_ID", "swissweather-bridge")
	cfg.MQTTTopicPrefix = getenvDefault("MQTT_TOPIC_PREFIX", "swissweather")

	cfg.GeocoderAPIKey = os.Getenv("GEOCODER_API_KEY")
	cfg.StationAddress = os.Getenv("STATION_ADDRESS")

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	raw := getenvDefault(key, def)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
