// Package units converts temperatures between Celsius and Fahrenheit and
// produces the rounded values the dashboard displays.
package units

import (
	"math"

	"weather-dashboard/models"
)

// ToFahrenheit converts Celsius to Fahrenheit
func ToFahrenheit(c float64) float64 {
	return c*9/5 + 32
}

// ToCelsius converts Fahrenheit to Celsius
func ToCelsius(f float64) float64 {
	return (f - 32) * 5 / 9
}

// Convert converts value between units. Pairs other than C<->F return value unchanged.
func Convert(value float64, from, to models.TemperatureUnit) float64 {
	if from == to {
		return value
	}
	switch {
	case from == models.Celsius && to == models.Fahrenheit:
		return ToFahrenheit(value)
	case from == models.Fahrenheit && to == models.Celsius:
		return ToCelsius(value)
	}
	return value
}

// DisplayValue converts a canonical Celsius value to unit and rounds it
// half away from zero (math.Round), so -2.5 displays as -3.
func DisplayValue(celsius float64, unit models.TemperatureUnit) int {
	return int(math.Round(Convert(celsius, models.Celsius, unit)))
}

// Symbol returns the suffix shown next to a temperature
func Symbol(unit models.TemperatureUnit) string {
	if unit == models.Fahrenheit {
		return "°F"
	}
	return "°C"
}

// Toggle flips between Celsius and Fahrenheit
func Toggle(unit models.TemperatureUnit) models.TemperatureUnit {
	if unit == models.Fahrenheit {
		return models.Celsius
	}
	return models.Fahrenheit
}
