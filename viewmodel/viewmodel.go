// Package viewmodel turns canonical weather data into the literal values
// each dashboard panel displays.
package viewmodel

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"weather-dashboard/models"
	"weather-dashboard/units"
)

// HourlyPlaceholder is shown instead of an empty hourly strip
const HourlyPlaceholder = "Unable to load hourly forecast data"

// Current is the current-conditions panel
type Current struct {
	Location    string `json:"location"`
	Temperature int    `json:"temperature"`
	UnitSymbol  string `json:"unitSymbol"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Visibility  string `json:"visibility"`
	Humidity    string `json:"humidity"`
	Wind        string `json:"wind"`
	FeelsLike   string `json:"feelsLike"`
	Pressure    string `json:"pressure"`
	UVIndex     string `json:"uvIndex"`
}

// DayCard is one entry of the 7-day list
type DayCard struct {
	Label       string `json:"label"`
	High        int    `json:"high"`
	Low         int    `json:"low"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
}

// HourCard is one entry of the 24-hour strip
type HourCard struct {
	Time        string `json:"time"`
	Temperature int    `json:"temperature"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
}

// Charts holds index-aligned series for the temperature and humidity/pressure charts
type Charts struct {
	Labels           []string  `json:"labels"`
	TemperatureLabel string    `json:"temperatureLabel"`
	Temperature      []int     `json:"temperature"`
	Humidity         []float64 `json:"humidity"`
	Pressure         []float64 `json:"pressure"`
}

// Dashboard is everything a renderer needs for one frame
type Dashboard struct {
	Unit              models.TemperatureUnit `json:"unit"`
	Current           Current                `json:"current"`
	Daily             []DayCard              `json:"daily"`
	Hourly            []HourCard             `json:"hourly"`
	HourlyPlaceholder string                 `json:"hourlyPlaceholder,omitempty"`
	Charts            Charts                 `json:"charts"`
}

// Builder builds dashboards. Loc is the zone used for weekday and hour labels;
// it must match the zone the forecast was normalized in.
type Builder struct {
	Loc *time.Location
}

// NewBuilder creates a builder labelling times in loc (time.Local when nil)
func NewBuilder(loc *time.Location) *Builder {
	if loc == nil {
		loc = time.Local
	}
	return &Builder{Loc: loc}
}

// Build produces the full dashboard. It has no side effects, so calling it again
// after a unit toggle yields values consistent with the new unit.
func (b *Builder) Build(current models.CurrentWeather, forecast models.NormalizedForecast, unit models.TemperatureUnit) Dashboard {
	daily := b.DailyCards(forecast.Daily, unit)
	hourly := b.HourlyCards(forecast.Hourly, unit)

	d := Dashboard{
		Unit:    unit,
		Current: b.CurrentPanel(current, unit),
		Daily:   daily,
		Hourly:  hourly,
		Charts:  b.ChartSeries(forecast.Daily, unit),
	}
	if len(hourly) == 0 {
		d.HourlyPlaceholder = HourlyPlaceholder
	}
	return d
}

// CurrentPanel formats the current-conditions snapshot
func (b *Builder) CurrentPanel(w models.CurrentWeather, unit models.TemperatureUnit) Current {
	symbol := units.Symbol(unit)
	panel := Current{
		Location:    fmt.Sprintf("%s, %s", w.Name, w.Country),
		Temperature: units.DisplayValue(w.Temperature, unit),
		UnitSymbol:  symbol,
		Icon:        DefaultIcon,
		Visibility:  fmt.Sprintf("%.1f km", w.Visibility/1000),
		Humidity:    formatRaw(w.Humidity) + "%",
		Wind:        fmt.Sprintf("%d km/h", int(math.Round(w.WindSpeed*3.6))),
		FeelsLike:   fmt.Sprintf("%d%s", units.DisplayValue(w.FeelsLike, unit), symbol),
		Pressure:    formatRaw(w.Pressure) + " hPa",
		UVIndex:     "--",
	}
	if w.Condition != nil {
		panel.Description = w.Condition.Description
		panel.Icon = Icon(w.Condition.Icon)
	}
	if w.UVIndex != nil {
		panel.UVIndex = fmt.Sprintf("%.1f", *w.UVIndex)
	}
	return panel
}

// DayLabel is "Today" for the first card, otherwise the abbreviated weekday
func (b *Builder) DayLabel(index int, t time.Time) string {
	if index == 0 {
		return "Today"
	}
	return t.In(b.Loc).Format("Mon")
}

// DailyCards formats up to seven daily aggregates. A day without a condition
// keeps its card, with the default icon and no description, so the cards stay
// aligned with the chart series.
func (b *Builder) DailyCards(days []models.DailyAggregate, unit models.TemperatureUnit) []DayCard {
	cards := make([]DayCard, 0, len(days))
	for i, day := range limitDays(days) {
		card := DayCard{
			Label: b.DayLabel(i, day.Time),
			High:  units.DisplayValue(day.Temp.Max, unit),
			Low:   units.DisplayValue(day.Temp.Min, unit),
			Icon:  DefaultIcon,
		}
		if day.Condition != nil {
			card.Icon = Icon(day.Condition.Icon)
			card.Description = day.Condition.Description
		}
		cards = append(cards, card)
	}
	return cards
}

// HourlyCards formats up to 24 entries, silently skipping any without a
// timestamp, temperature block or condition, or with a non-finite temperature.
func (b *Builder) HourlyCards(entries []models.ForecastEntry, unit models.TemperatureUnit) []HourCard {
	if len(entries) > 24 {
		entries = entries[:24]
	}
	cards := make([]HourCard, 0, len(entries))
	for _, e := range entries {
		if !Renderable(e) {
			continue
		}
		cards = append(cards, HourCard{
			Time:        e.Time.In(b.Loc).Format("3 PM"),
			Temperature: units.DisplayValue(*e.Temp, unit),
			Icon:        Icon(e.Condition.Icon),
			Description: e.Condition.Description,
		})
	}
	return cards
}

// Renderable reports whether an hourly entry carries everything its card needs
func Renderable(e models.ForecastEntry) bool {
	if e.Time.IsZero() || e.Temp == nil || e.Condition == nil {
		return false
	}
	return !math.IsNaN(*e.Temp) && !math.IsInf(*e.Temp, 0)
}

// ChartSeries builds the chart data; every series has one point per daily card
func (b *Builder) ChartSeries(days []models.DailyAggregate, unit models.TemperatureUnit) Charts {
	days = limitDays(days)
	c := Charts{
		Labels:           make([]string, 0, len(days)),
		TemperatureLabel: fmt.Sprintf("Temperature (%s)", units.Symbol(unit)),
		Temperature:      make([]int, 0, len(days)),
		Humidity:         make([]float64, 0, len(days)),
		Pressure:         make([]float64, 0, len(days)),
	}
	for i, day := range days {
		c.Labels = append(c.Labels, b.DayLabel(i, day.Time))
		c.Temperature = append(c.Temperature, units.DisplayValue(day.Temp.Day, unit))
		c.Humidity = append(c.Humidity, day.Humidity)
		c.Pressure = append(c.Pressure, day.Pressure)
	}
	return c
}

func limitDays(days []models.DailyAggregate) []models.DailyAggregate {
	if len(days) > 7 {
		return days[:7]
	}
	return days
}

// formatRaw prints a provider value without forcing decimals (1013, 55.5)
func formatRaw(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
