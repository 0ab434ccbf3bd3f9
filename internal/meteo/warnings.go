package meteo

import (
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"time"
)

// WarningType identifies the hazard class of a weather alert.
type WarningType int

const (
	WarningWind WarningType = iota
	WarningThunderstorms
	WarningRain
	WarningSnow
	WarningSlipperyRoads
	WarningFrost
	WarningThaw
	WarningHeatWaves
	WarningAvalanches
	WarningEarthquakes
	WarningForestFires
	WarningFlood
	WarningDrought
	WarningUnknown
)

var warningTypeNames = map[WarningType]string{
	WarningWind:          "WIND",
	WarningThunderstorms: "THUNDERSTORMS",
	WarningRain:          "RAIN",
	WarningSnow:          "SNOW",
	WarningSlipperyRoads: "SLIPPERY_ROADS",
	WarningFrost:         "FROST",
	WarningThaw:          "THAW",
	WarningHeatWaves:     "HEAT_WAVES",
	WarningAvalanches:    "AVALANCHES",
	WarningEarthquakes:   "EARTHQUAKES",
	WarningForestFires:   "FOREST_FIRES",
	WarningFlood:         "FLOOD",
	WarningDrought:       "DROUGHT",
	WarningUnknown:       "UNKNOWN",
}

func (t WarningType) String() string {
	if name, ok := warningTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("WarningType(%d)", int(t))
}

func (t WarningType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func warningTypeFromInt(v int) (WarningType, error) {
	t := WarningType(v)
	if t < WarningWind || t > WarningUnknown {
		return 0, fmt.Errorf("warning type %d out of range", v)
	}
	return t, nil
}

// WarningLevel is the ordinal severity of an alert, 0 (no danger) through 5
// (very severe hazard).
type WarningLevel int

func warningLevelFromInt(v int) (WarningLevel, error) {
	if v < 0 || v > 5 {
		return 0, fmt.Errorf("warning level %d out of range", v)
	}
	return WarningLevel(v), nil
}

// WarningLink is one (label, URL) pair attached to an alert.
type WarningLink struct {
	Text string `json:"text"`
	URL  string `json:"url"`
}

// Warning is one weather alert pulled fresh each cycle; no identity persists
// across cycles.
type Warning struct {
	Type      WarningType   `json:"type"`
	Level     WarningLevel  `json:"level"`
	Text      string        `json:"text,omitempty"`
	HTMLText  string        `json:"htmlText,omitempty"`
	Outlook   bool          `json:"outlook"`
	ValidFrom *time.Time    `json:"validFrom,omitempty"`
	ValidTo   *time.Time    `json:"validTo,omitempty"`
	Links     []WarningLink `json:"links"`
}

type warningPayload struct {
	WarnType  json.Number `json:"warnType"`
	WarnLevel json.Number `json:"warnLevel"`
	Text      string      `json:"text"`
	HTMLText  string      `json:"htmlText"`
	Outlook   bool        `json:"outlook"`
	ValidFrom *int64      `json:"validFrom"`
	ValidTo   *int64      `json:"validTo"`
	Links     []struct {
		Text string `json:"text"`
		URL  string `json:"url"`
	} `json:"links"`
}

// warningsFromPayload parses the warnings section. A malformed alert is
// skipped with a log line; the batch continues.
func warningsFromPayload(payloads []warningPayload) []Warning {
	if payloads == nil {
		return nil
	}

	warnings := make([]Warning, 0, len(payloads))
	for _, p := range payloads {
		w, err := warningFromPayload(p)
		if err != nil {
			log.Printf("meteo: skipping malformed warning: %v", err)
			continue
		}
		warnings = append(warnings, w)
	}
	return warnings
}

func warningFromPayload(p warningPayload) (Warning, error) {
	rawType := ParseInt(p.WarnType.String())
	rawLevel := ParseInt(p.WarnLevel.String())
	if rawType == nil || rawLevel == nil {
		return Warning{}, fmt.Errorf("warning type/level unparseable (%q/%q)", p.WarnType, p.WarnLevel)
	}

	warnType, err := warningTypeFromInt(*rawType)
	if err != nil {
		return Warning{}, err
	}
	warnLevel, err := warningLevelFromInt(*rawLevel)
	if err != nil {
		return Warning{}, err
	}

	if p.Links == nil {
		return Warning{}, fmt.Errorf("warning has no links section")
	}
	links := make([]WarningLink, 0, len(p.Links))
	for _, l := range p.Links {
		links = append(links, WarningLink{Text: l.Text, URL: l.URL})
	}

	var validFrom, validTo *time.Time
	if p.ValidFrom != nil {
		ts := time.UnixMilli(*p.ValidFrom).UTC()
		validFrom = &ts
	}
	if p.ValidTo != nil {
		ts := time.UnixMilli(*p.ValidTo).UTC()
		validTo = &ts
	}

	return Warning{
		Type:      warnType,
		Level:     warnLevel,
		Text:      p.Text,
		HTMLText:  p.HTMLText,
		Outlook:   p.Outlook,
		ValidFrom: validFrom,
		ValidTo:   validTo,
		Links:     links,
	}, nil
}

// FilterAndRankWarnings keeps the alerts whose validity window contains now
// and orders them by level, most severe first. Alerts of equal severity keep
// their input order. Validity windows are re-evaluated against now on every
// call; the result is never cached.
func FilterAndRankWarnings(warnings []Warning, now time.Time) []Warning {
	valid := make([]Warning, 0, len(warnings))
	for _, w := range warnings {
		if w.ValidFrom != nil && w.ValidFrom.After(now) {
			continue
		}
		if w.ValidTo != nil && w.ValidTo.Before(now) {
			continue
		}
		valid = append(valid, w)
	}

	sort.SliceStable(valid, func(i, j int) bool {
		return valid[i].Level > valid[j].Level
	})

	log.Printf("meteo: weather warnings - in: %d filtered: %d", len(warnings), len(valid))
	return valid
}
