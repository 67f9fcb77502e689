package models

import (
	"time"
)

// ForecastEntry is a single raw 3-hour forecast bucket.
// Pointer fields are nil when the payload omitted them.
type ForecastEntry struct {
	Time      time.Time  `json:"time"`              // zero when the payload had no timestamp
	Temp      *float64   `json:"temp,omitempty"`    // in Celsius, nil without a temperature block
	TempMin   *float64   `json:"tempMin,omitempty"` // defaults to Temp when absent
	TempMax   *float64   `json:"tempMax,omitempty"` // defaults to Temp when absent
	Humidity  float64    `json:"humidity"`          // percentage
	Pressure  float64    `json:"pressure"`          // in hPa
	WindSpeed float64    `json:"windSpeed"`         // in m/s
	Condition *Condition `json:"condition,omitempty"`
}

// MinOrTemp returns the bucket minimum, falling back to the temperature
func (e ForecastEntry) MinOrTemp() float64 {
	if e.TempMin != nil {
		return *e.TempMin
	}
	return e.tempOrZero()
}

// MaxOrTemp returns the bucket maximum, falling back to the temperature
func (e ForecastEntry) MaxOrTemp() float64 {
	if e.TempMax != nil {
		return *e.TempMax
	}
	return e.tempOrZero()
}

func (e ForecastEntry) tempOrZero() float64 {
	if e.Temp == nil {
		return 0
	}
	return *e.Temp
}

// DailyTemp holds the temperatures summarized for one calendar day
type DailyTemp struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
	Day float64 `json:"day"` // temperature of the representative entry, never revisited
}

// DailyAggregate summarizes the forecast buckets of one calendar day.
// Descriptive fields come from the representative (first seen) entry only;
// Min and Max are running extrema, so Min <= Day <= Max does not always hold.
type DailyAggregate struct {
	DateKey   string          `json:"dateKey"` // YYYY-MM-DD in the normalization time zone
	Time      time.Time       `json:"time"`    // timestamp of the representative entry
	Temp      DailyTemp       `json:"temp"`
	Humidity  float64         `json:"humidity"`
	Pressure  float64         `json:"pressure"`
	WindSpeed float64         `json:"windSpeed"`
	Condition *Condition      `json:"condition,omitempty"`
	Entries   []ForecastEntry `json:"entries"` // subsequent same-day buckets
}

// NormalizedForecast is the forecast payload reshaped for display
type NormalizedForecast struct {
	Daily  []DailyAggregate `json:"daily"`  // up to 7, in first-seen order
	Hourly []ForecastEntry  `json:"hourly"` // first 24 raw buckets
}
