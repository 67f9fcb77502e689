package models

import (
	"time"
)

// Condition is the weather condition reported for a point in time
type Condition struct {
	Description string `json:"description"` // short text description
	Icon        string `json:"icon"`        // provider icon code, e.g. "10d"
}

// CurrentWeather is a snapshot of the current conditions at a coordinate.
// All temperatures are canonical Celsius.
type CurrentWeather struct {
	Name        string     `json:"name"`
	Country     string     `json:"country"`
	Temperature float64    `json:"temperature"` // in Celsius
	FeelsLike   float64    `json:"feelsLike"`   // in Celsius
	Humidity    float64    `json:"humidity"`    // percentage
	Pressure    float64    `json:"pressure"`    // in hPa
	Visibility  float64    `json:"visibility"`  // in meters
	WindSpeed   float64    `json:"windSpeed"`   // in m/s
	Condition   *Condition `json:"condition,omitempty"`
	Timestamp   time.Time  `json:"timestamp"`

	// UVIndex comes from an optional external source, nil when unknown
	UVIndex *float64 `json:"uvIndex,omitempty"`
}
