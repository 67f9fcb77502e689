// Package render draws dashboards as plain text.
package render

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"weather-dashboard/viewmodel"
)

// DateLayout is the header date, e.g. "Monday, January 2, 2006"
const DateLayout = "Monday, January 2, 2006"

const (
	barWidth   = 30
	ruleLength = 48
)

// Text writes each frame to an io.Writer. It is safe for concurrent use.
type Text struct {
	mu  sync.Mutex
	out io.Writer
	now func() time.Time
}

// NewText creates a text renderer writing to out
func NewText(out io.Writer) *Text {
	return &Text{out: out, now: time.Now}
}

// WithClock replaces the clock used for the date header
func (t *Text) WithClock(now func() time.Time) *Text {
	t.now = now
	return t
}

// Render writes a full frame
func (t *Text) Render(view viewmodel.Dashboard) {
	t.mu.Lock()
	defer t.mu.Unlock()

	var b strings.Builder
	writeFrame(&b, view, t.now())
	io.WriteString(t.out, b.String())
}

func (t *Text) ShowError(message string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.out, "! %s\n", message)
}

func (t *Text) HideError() {}

func (t *Text) SetLoading(loading bool) {
	if !loading {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	io.WriteString(t.out, "Loading weather data...\n")
}

// Frame renders view into a string, as Render would write it
func Frame(view viewmodel.Dashboard, now time.Time) string {
	var b strings.Builder
	writeFrame(&b, view, now)
	return b.String()
}

func writeFrame(b *strings.Builder, view viewmodel.Dashboard, now time.Time) {
	rule := strings.Repeat("=", ruleLength)
	fmt.Fprintf(b, "%s\n%s\n%s\n", rule, now.Format(DateLayout), rule)

	writeCurrent(b, view.Current)
	writeDaily(b, view.Daily)
	writeHourly(b, view)
	writeCharts(b, view.Charts)
}

func writeCurrent(b *strings.Builder, c viewmodel.Current) {
	fmt.Fprintf(b, "\n%s\n", c.Location)
	fmt.Fprintf(b, "  %s %d%s  %s\n", c.Icon, c.Temperature, c.UnitSymbol, c.Description)
	fmt.Fprintf(b, "  Feels like %-10s Humidity   %s\n", c.FeelsLike, c.Humidity)
	fmt.Fprintf(b, "  Wind       %-10s Pressure   %s\n", c.Wind, c.Pressure)
	fmt.Fprintf(b, "  Visibility %-10s UV index   %s\n", c.Visibility, c.UVIndex)
}

func writeDaily(b *strings.Builder, days []viewmodel.DayCard) {
	b.WriteString("\n7-Day Forecast\n")
	for _, d := range days {
		fmt.Fprintf(b, "  %-6s %s %4d° / %4d°  %s\n", d.Label, d.Icon, d.High, d.Low, d.Description)
	}
}

func writeHourly(b *strings.Builder, view viewmodel.Dashboard) {
	b.WriteString("\n24-Hour Forecast\n")
	if len(view.Hourly) == 0 {
		fmt.Fprintf(b, "  %s\n", view.HourlyPlaceholder)
		return
	}
	for _, h := range view.Hourly {
		fmt.Fprintf(b, "  %-6s %s %4d°  %s\n", h.Time, h.Icon, h.Temperature, h.Description)
	}
}

func writeCharts(b *strings.Builder, c viewmodel.Charts) {
	if len(c.Labels) == 0 {
		return
	}

	temps := make([]float64, len(c.Temperature))
	for i, v := range c.Temperature {
		temps[i] = float64(v)
	}
	fmt.Fprintf(b, "\n%s\n", c.TemperatureLabel)
	writeBars(b, c.Labels, temps, "%4.0f")

	b.WriteString("\nHumidity (%)\n")
	writeBars(b, c.Labels, c.Humidity, "%4.0f")

	b.WriteString("\nPressure (hPa)\n")
	writeBars(b, c.Labels, c.Pressure, "%6.0f")
}

// writeBars draws one horizontal bar per label, scaled between the series extrema
func writeBars(b *strings.Builder, labels []string, values []float64, valueFormat string) {
	if len(values) == 0 {
		return
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = min(lo, v)
		hi = max(hi, v)
	}

	for i, label := range labels {
		if i >= len(values) {
			break
		}
		n := barWidth
		if hi > lo {
			n = 1 + int((values[i]-lo)/(hi-lo)*float64(barWidth-1))
		}
		fmt.Fprintf(b, "  %-6s "+valueFormat+" %s\n", label, values[i], strings.Repeat("#", n))
	}
}
