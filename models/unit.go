package models

import (
	"fmt"
	"strings"
)

// TemperatureUnit is the unit temperatures are displayed in
type TemperatureUnit string

const (
	Celsius    TemperatureUnit = "C"
	Fahrenheit TemperatureUnit = "F"
)

// ParseTemperatureUnit accepts "C", "F" and their long names, case-insensitively
func ParseTemperatureUnit(s string) (TemperatureUnit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "c", "celsius", "metric":
		return Celsius, nil
	case "f", "fahrenheit", "imperial":
		return Fahrenheit, nil
	}
	return "", fmt.Errorf("unknown temperature unit %q", s)
}

// Valid reports whether u is one of the defined units
func (u TemperatureUnit) Valid() bool {
	return u == Celsius || u == Fahrenheit
}
