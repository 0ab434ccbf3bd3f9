package meteo

import (
	"context"
	"net/http"
	"testing"

	"golang.org/x/text/encoding/charmap"
)

const stationCSVHeader = "Station;Abbr.;Station type;Station height m a. sea level;Latitude;Longitude;Canton;Measurements\n"

func latin1(t *testing.T, s string) []byte {
	t.Helper()
	out, err := charmap.ISO8859_1.NewEncoder().Bytes([]byte(s))
	if err != nil {
		t.Fatalf("latin-1 encode: %v", err)
	}
	return out
}

func TestWeatherStationsFiltersAndDecodes(t *testing.T) {
	csv := stationCSVHeader +
		"Zürich / Kloten;KLO;Weather station;426;47.48;8.54;ZH;Temperature, Precipitation\n" +
		"Genève / Cointrin;GVE;Weather station;411;46.24;6.13;GE;Temperature\n" +
		"Rain only;RNO;Precipitation station;500;47.0;8.0;LU;Precipitation\n" +
		";XXX;Weather station;100;47.0;8.0;BE;Temperature\n" +
		"No code;;Weather station;100;47.0;8.0;BE;Temperature\n" +
		"creation_time;01.04.2023;;;;;;\n"

	var requested string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requested = r.URL.Path
		w.Write(latin1(t, csv))
	}))

	stations, err := client.WeatherStations(context.Background())
	if err != nil {
		t.Fatalf("WeatherStations: %v", err)
	}
	if requested != "/stations_en.csv" {
		t.Errorf("requested %q, want language-specific directory", requested)
	}

	// RNO has no temperature capability, the no-code row has no key and the
	// creation_time pseudo-row is metadata; the nameless XXX row is kept.
	if len(stations) != 3 {
		t.Fatalf("stations = %d, want 3", len(stations))
	}

	klo := stations[0]
	if klo.Name != "Zürich / Kloten" {
		t.Errorf("latin-1 name not decoded: %q", klo.Name)
	}
	if klo.Code != "KLO" || klo.Canton != "ZH" {
		t.Errorf("station = %+v", klo)
	}
	if klo.Altitude == nil || *klo.Altitude != 426 {
		t.Errorf("altitude = %v", klo.Altitude)
	}
	if klo.Lat == nil || *klo.Lat != 47.48 || klo.Lng == nil || *klo.Lng != 8.54 {
		t.Errorf("coordinates = %v/%v", klo.Lat, klo.Lng)
	}
}

func TestPollenStationsHaveNoCapabilityFilter(t *testing.T) {
	csv := stationCSVHeader +
		"Basel;PBS;Pollen station;316;47.56;7.58;BS;Pollen\n"

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(latin1(t, csv))
	}))

	stations, err := client.PollenStations(context.Background())
	if err != nil {
		t.Fatalf("PollenStations: %v", err)
	}
	if len(stations) != 1 || stations[0].Code != "PBS" {
		t.Fatalf("stations = %+v", stations)
	}
}

func TestEmptyDirectoryIsNotAnError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(stationCSVHeader))
	}))

	stations, err := client.WeatherStations(context.Background())
	if err != nil {
		t.Fatalf("WeatherStations: %v", err)
	}
	if len(stations) != 0 {
		t.Fatalf("stations = %+v, want none", stations)
	}
}

func TestNearestStation(t *testing.T) {
	stations := []StationInfo{
		{Code: "KLO", Lat: floatPtr(47.48), Lng: floatPtr(8.54)},
		{Code: "GVE", Lat: floatPtr(46.24), Lng: floatPtr(6.13)},
		{Code: "NOC"}, // no coordinates
	}

	// Near Zurich.
	nearest := NearestStation(stations, 47.37, 8.55)
	if nearest == nil || nearest.Code != "KLO" {
		t.Fatalf("nearest = %+v, want KLO", nearest)
	}

	// Near Geneva.
	nearest = NearestStation(stations, 46.2, 6.15)
	if nearest == nil || nearest.Code != "GVE" {
		t.Fatalf("nearest = %+v, want GVE", nearest)
	}

	if NearestStation(nil, 47, 8) != nil {
		t.Error("empty directory should yield nil")
	}
	if NearestStation([]StationInfo{{Code: "NOC"}}, 47, 8) != nil {
		t.Error("directory without coordinates should yield nil")
	}
}
