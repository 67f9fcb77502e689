// Package forecast reshapes the flat 3-hour forecast list into daily
// aggregates and the hourly strip.
package forecast

import (
	"time"

	"weather-dashboard/models"
)

const (
	// MaxDays is the number of daily aggregates kept
	MaxDays = 7
	// MaxHourly is the number of raw buckets kept for the hourly strip
	MaxHourly = 24

	dateKeyLayout = "2006-01-02"
)

// DateKey returns the calendar date of t in loc
func DateKey(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(dateKeyLayout)
}

// Normalize groups entries by calendar day in loc (time.Local when nil).
//
// The first entry seen for a day seeds the whole aggregate, including Temp.Day.
// Later entries of that day only widen Temp.Min/Temp.Max and are appended to
// Entries. Days keep first-appearance order and are capped at MaxDays.
// Hourly is the first MaxHourly input entries regardless of day boundaries.
// Entries without a timestamp or temperature cannot be grouped and only show
// up in Hourly.
func Normalize(entries []models.ForecastEntry, loc *time.Location) models.NormalizedForecast {
	var (
		daily = make([]models.DailyAggregate, 0, MaxDays)
		index = make(map[string]int)
	)

	for _, entry := range entries {
		if entry.Time.IsZero() || entry.Temp == nil {
			continue
		}

		key := DateKey(entry.Time, loc)
		if i, seen := index[key]; seen {
			day := &daily[i]
			day.Temp.Min = min(day.Temp.Min, entry.MinOrTemp())
			day.Temp.Max = max(day.Temp.Max, entry.MaxOrTemp())
			day.Entries = append(day.Entries, entry)
			continue
		}

		index[key] = len(daily)
		daily = append(daily, models.DailyAggregate{
			DateKey: key,
			Time:    entry.Time,
			Temp: models.DailyTemp{
				Min: entry.MinOrTemp(),
				Max: entry.MaxOrTemp(),
				Day: *entry.Temp,
			},
			Humidity:  entry.Humidity,
			Pressure:  entry.Pressure,
			WindSpeed: entry.WindSpeed,
			Condition: entry.Condition,
			Entries:   []models.ForecastEntry{},
		})
	}

	if len(daily) > MaxDays {
		daily = daily[:MaxDays]
	}

	hourly := entries
	if len(hourly) > MaxHourly {
		hourly = hourly[:MaxHourly]
	}

	return models.NormalizedForecast{
		Daily:  daily,
		Hourly: append([]models.ForecastEntry(nil), hourly...),
	}
}
