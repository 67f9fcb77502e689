package forecast

import (
	"testing"
	"time"

	"weather-dashboard/models"
)

func ptr(v float64) *float64 { return &v }

func entryAt(t time.Time, temp float64) models.ForecastEntry {
	return models.ForecastEntry{
		Time:      t,
		Temp:      ptr(temp),
		Humidity:  50,
		Pressure:  1012,
		WindSpeed: 3,
		Condition: &models.Condition{Description: "clear sky", Icon: "01d"},
	}
}

func TestNormalize_SingleDayAggregate(t *testing.T) {
	start := time.Date(2024, 5, 10, 6, 0, 0, 0, time.UTC)
	entries := []models.ForecastEntry{
		entryAt(start, 10),
		entryAt(start.Add(3*time.Hour), 12),
		entryAt(start.Add(6*time.Hour), 8),
	}

	got := Normalize(entries, time.UTC)

	if len(got.Daily) != 1 {
		t.Fatalf("expected 1 day, got %d", len(got.Daily))
	}
	day := got.Daily[0]
	if day.Temp.Day != 10 || day.Temp.Min != 8 || day.Temp.Max != 12 {
		t.Errorf("expected {day:10 min:8 max:12}, got %+v", day.Temp)
	}
	if len(day.Entries) != 2 {
		t.Errorf("expected 2 subsequent entries, got %d", len(day.Entries))
	}
	if !day.Time.Equal(start) {
		t.Errorf("representative time should be the first entry, got %v", day.Time)
	}
}

// Temp.Day stays pinned to the first bucket even when later buckets fall outside it.
func TestNormalize_DayTempNotRevisited(t *testing.T) {
	start := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	first := entryAt(start, 15)
	first.TempMin = ptr(16)
	first.TempMax = ptr(17)
	second := entryAt(start.Add(3*time.Hour), 20)
	second.Humidity = 90
	second.Condition = &models.Condition{Description: "rain", Icon: "10d"}

	day := Normalize([]models.ForecastEntry{first, second}, time.UTC).Daily[0]

	if day.Temp.Day != 15 {
		t.Errorf("expected day temp 15, got %v", day.Temp.Day)
	}
	if day.Temp.Min != 16 || day.Temp.Max != 20 {
		t.Errorf("expected min 16 max 20, got %+v", day.Temp)
	}
	if day.Temp.Min <= day.Temp.Day {
		t.Errorf("expected min above day temp for this input, got %+v", day.Temp)
	}
	if day.Humidity != 50 || day.Condition.Icon != "01d" {
		t.Errorf("descriptive fields must come from the first entry, got humidity %v icon %s",
			day.Humidity, day.Condition.Icon)
	}
}

func TestNormalize_Truncation(t *testing.T) {
	day1 := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	day2 := day1.Add(24 * time.Hour)

	var entries []models.ForecastEntry
	for i := 0; i < 16; i++ {
		entries = append(entries, entryAt(day1.Add(time.Duration(i)*90*time.Minute), float64(i)))
	}
	for i := 0; i < 14; i++ {
		entries = append(entries, entryAt(day2.Add(time.Duration(i)*90*time.Minute), float64(i)))
	}

	got := Normalize(entries, time.UTC)

	if len(got.Hourly) != 24 {
		t.Fatalf("expected 24 hourly entries, got %d", len(got.Hourly))
	}
	if DateKey(got.Hourly[23].Time, time.UTC) != "2024-05-11" {
		t.Errorf("expected hourly strip to reach into day 2, last entry %v", got.Hourly[23].Time)
	}
	if len(got.Daily) != 2 {
		t.Fatalf("expected 2 daily aggregates, got %d", len(got.Daily))
	}
}

func TestNormalize_FirstSeenOrderAndCap(t *testing.T) {
	base := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	// Out of chronological order: later date first.
	entries := []models.ForecastEntry{
		entryAt(base.Add(48*time.Hour), 1),
		entryAt(base, 2),
	}
	for i := 3; i < 12; i++ {
		entries = append(entries, entryAt(base.Add(time.Duration(i)*24*time.Hour), float64(i)))
	}

	got := Normalize(entries, time.UTC)

	if len(got.Daily) != MaxDays {
		t.Fatalf("expected %d days, got %d", MaxDays, len(got.Daily))
	}
	if got.Daily[0].DateKey != "2024-05-12" || got.Daily[1].DateKey != "2024-05-10" {
		t.Errorf("days must keep first-seen order, got %s, %s", got.Daily[0].DateKey, got.Daily[1].DateKey)
	}
}

func TestNormalize_MissingConditionAndMalformed(t *testing.T) {
	start := time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)
	noCondition := entryAt(start, 11)
	noCondition.Condition = nil
	noTemp := models.ForecastEntry{Time: start.Add(3 * time.Hour)}
	noTime := models.ForecastEntry{Temp: ptr(30)}

	got := Normalize([]models.ForecastEntry{noCondition, noTemp, noTime}, time.UTC)

	if len(got.Daily) != 1 {
		t.Fatalf("expected 1 day, got %d", len(got.Daily))
	}
	if got.Daily[0].Condition != nil {
		t.Error("expected nil condition to be carried through")
	}
	if got.Daily[0].Temp.Max != 11 {
		t.Errorf("undated or temperature-less entries must not affect extrema, got %+v", got.Daily[0].Temp)
	}
	if len(got.Hourly) != 3 {
		t.Errorf("hourly keeps raw entries unfiltered, got %d", len(got.Hourly))
	}
}

func TestNormalize_TimeZonePolicy(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*3600)
	// 20:00 UTC on May 10 is 05:00 on May 11 in Tokyo.
	at := time.Date(2024, 5, 10, 20, 0, 0, 0, time.UTC)

	if key := Normalize([]models.ForecastEntry{entryAt(at, 1)}, time.UTC).Daily[0].DateKey; key != "2024-05-10" {
		t.Errorf("expected UTC key 2024-05-10, got %s", key)
	}
	if key := Normalize([]models.ForecastEntry{entryAt(at, 1)}, tokyo).Daily[0].DateKey; key != "2024-05-11" {
		t.Errorf("expected JST key 2024-05-11, got %s", key)
	}
}

func TestNormalize_Empty(t *testing.T) {
	got := Normalize(nil, nil)
	if len(got.Daily) != 0 || len(got.Hourly) != 0 {
		t.Errorf("expected empty forecast, got %+v", got)
	}
}
