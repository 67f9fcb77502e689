package viewmodel

import (
	"math"
	"reflect"
	"testing"
	"time"

	"weather-dashboard/forecast"
	"weather-dashboard/models"
)

func ptr(v float64) *float64 { return &v }

func sampleCurrent() models.CurrentWeather {
	return models.CurrentWeather{
		Name:        "Dallas",
		Country:     "US",
		Temperature: 20.4,
		FeelsLike:   19.6,
		Humidity:    55,
		Pressure:    1013,
		Visibility:  9700,
		WindSpeed:   4.2,
		Condition:   &models.Condition{Description: "scattered clouds", Icon: "03d"},
	}
}

func sampleForecast() models.NormalizedForecast {
	start := time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC) // a Friday
	var entries []models.ForecastEntry
	for i := 0; i < 24; i++ {
		entries = append(entries, models.ForecastEntry{
			Time:      start.Add(time.Duration(i) * 3 * time.Hour),
			Temp:      ptr(10 + float64(i%8)),
			Humidity:  float64(40 + i),
			Pressure:  float64(1000 + i),
			Condition: &models.Condition{Description: "light rain", Icon: "10d"},
		})
	}
	return forecast.Normalize(entries, time.UTC)
}

func TestCurrentPanel(t *testing.T) {
	b := NewBuilder(time.UTC)

	c := b.CurrentPanel(sampleCurrent(), models.Celsius)
	if c.Location != "Dallas, US" {
		t.Errorf("unexpected location %q", c.Location)
	}
	if c.Temperature != 20 || c.UnitSymbol != "°C" {
		t.Errorf("unexpected temperature %d%s", c.Temperature, c.UnitSymbol)
	}
	if c.Visibility != "9.7 km" {
		t.Errorf("unexpected visibility %q", c.Visibility)
	}
	// 4.2 m/s * 3.6 = 15.12 km/h
	if c.Wind != "15 km/h" {
		t.Errorf("unexpected wind %q", c.Wind)
	}
	if c.FeelsLike != "20°C" {
		t.Errorf("unexpected feels like %q", c.FeelsLike)
	}
	if c.Pressure != "1013 hPa" || c.Humidity != "55%" {
		t.Errorf("unexpected pressure/humidity %q %q", c.Pressure, c.Humidity)
	}
	if c.UVIndex != "--" {
		t.Errorf("expected missing UV index to render as --, got %q", c.UVIndex)
	}
	if c.Icon != Icon("03d") || c.Description != "scattered clouds" {
		t.Errorf("unexpected condition %q %q", c.Icon, c.Description)
	}

	f := b.CurrentPanel(sampleCurrent(), models.Fahrenheit)
	if f.Temperature != 69 || f.FeelsLike != "67°F" {
		t.Errorf("unexpected fahrenheit values %d %q", f.Temperature, f.FeelsLike)
	}
}

func TestCurrentPanel_UVAndUnknownIcon(t *testing.T) {
	w := sampleCurrent()
	w.UVIndex = ptr(6.25)
	w.Condition = &models.Condition{Description: "odd", Icon: "99x"}

	c := NewBuilder(time.UTC).CurrentPanel(w, models.Celsius)
	if c.UVIndex != "6.2" && c.UVIndex != "6.3" {
		t.Errorf("unexpected uv index %q", c.UVIndex)
	}
	if c.Icon != DefaultIcon {
		t.Errorf("expected default icon for unknown code, got %q", c.Icon)
	}
}

func TestDailyCards(t *testing.T) {
	b := NewBuilder(time.UTC)
	cards := b.DailyCards(sampleForecast().Daily, models.Celsius)

	if len(cards) != 4 {
		t.Fatalf("expected 4 day cards, got %d", len(cards))
	}
	if cards[0].Label != "Today" || cards[1].Label != "Sat" || cards[2].Label != "Sun" {
		t.Errorf("unexpected labels %q %q %q", cards[0].Label, cards[1].Label, cards[2].Label)
	}
	if cards[0].High != 14 || cards[0].Low != 10 {
		t.Errorf("unexpected first day high/low %d/%d", cards[0].High, cards[0].Low)
	}
}

func TestDailyCards_MissingConditionKeepsCard(t *testing.T) {
	days := []models.DailyAggregate{{Time: time.Now(), Temp: models.DailyTemp{Min: 1, Max: 2, Day: 1}}}

	cards := NewBuilder(time.UTC).DailyCards(days, models.Celsius)
	if len(cards) != 1 {
		t.Fatalf("expected card to be kept, got %d", len(cards))
	}
	if cards[0].Icon != DefaultIcon || cards[0].Description != "" {
		t.Errorf("unexpected fallback card %+v", cards[0])
	}
}

func TestHourlyCards_SkipsMalformed(t *testing.T) {
	at := time.Date(2024, 5, 10, 15, 0, 0, 0, time.UTC)
	cond := &models.Condition{Description: "clear sky", Icon: "01d"}
	entries := []models.ForecastEntry{
		{Time: at, Temp: ptr(21), Condition: cond},
		{Time: at, Temp: ptr(21)},                           // no condition
		{Temp: ptr(21), Condition: cond},                    // no timestamp
		{Time: at, Condition: cond},                         // no temperature block
		{Time: at, Temp: ptr(math.NaN()), Condition: cond},  // not finite
		{Time: at, Temp: ptr(math.Inf(1)), Condition: cond}, // not finite
	}

	cards := NewBuilder(time.UTC).HourlyCards(entries, models.Celsius)
	if len(cards) != 1 {
		t.Fatalf("expected only the valid entry, got %d", len(cards))
	}
	if cards[0].Time != "3 PM" || cards[0].Temperature != 21 {
		t.Errorf("unexpected card %+v", cards[0])
	}
}

func TestBuild_HourlyPlaceholder(t *testing.T) {
	fc := models.NormalizedForecast{
		Hourly: []models.ForecastEntry{{Time: time.Now(), Temp: ptr(3)}},
	}

	d := NewBuilder(time.UTC).Build(sampleCurrent(), fc, models.Celsius)
	if len(d.Hourly) != 0 {
		t.Fatalf("expected no hourly cards, got %d", len(d.Hourly))
	}
	if d.HourlyPlaceholder != HourlyPlaceholder {
		t.Errorf("expected placeholder message, got %q", d.HourlyPlaceholder)
	}
}

func TestChartSeries_AlignedWithCards(t *testing.T) {
	b := NewBuilder(time.UTC)
	fc := sampleForecast()

	d := b.Build(sampleCurrent(), fc, models.Fahrenheit)
	n := len(d.Daily)
	if len(d.Charts.Labels) != n || len(d.Charts.Temperature) != n ||
		len(d.Charts.Humidity) != n || len(d.Charts.Pressure) != n {
		t.Fatalf("series lengths differ from %d cards: %+v", n, d.Charts)
	}
	for i, card := range d.Daily {
		if d.Charts.Labels[i] != card.Label {
			t.Errorf("label %d: chart %q card %q", i, d.Charts.Labels[i], card.Label)
		}
		if d.Charts.Humidity[i] != fc.Daily[i].Humidity || d.Charts.Pressure[i] != fc.Daily[i].Pressure {
			t.Errorf("day %d: humidity/pressure must be raw values", i)
		}
	}
	// Day temp of the first day is 10°C = 50°F
	if d.Charts.Temperature[0] != 50 {
		t.Errorf("expected 50°F, got %d", d.Charts.Temperature[0])
	}
	if d.Charts.TemperatureLabel != "Temperature (°F)" {
		t.Errorf("unexpected series label %q", d.Charts.TemperatureLabel)
	}
}

func TestBuild_UnitToggleIsIdempotent(t *testing.T) {
	b := NewBuilder(time.UTC)
	cur, fc := sampleCurrent(), sampleForecast()

	first := b.Build(cur, fc, models.Celsius)
	_ = b.Build(cur, fc, models.Fahrenheit)
	again := b.Build(cur, fc, models.Celsius)

	if !reflect.DeepEqual(first, again) {
		t.Error("rebuilding with the same unit must reproduce the same dashboard")
	}
}
