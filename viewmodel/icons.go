package viewmodel

// DefaultIcon is shown for unknown or missing icon codes
const DefaultIcon = "☀"

var iconGlyphs = map[string]string{
	"01d": "☀",
	"01n": "☾",
	"02d": "⛅",
	"02n": "☁",
	"03d": "☁",
	"03n": "☁",
	"04d": "☁",
	"04n": "☁",
	"09d": "🌧",
	"09n": "🌧",
	"10d": "🌦",
	"10n": "🌧",
	"11d": "⚡",
	"11n": "⚡",
	"13d": "❄",
	"13n": "❄",
	"50d": "🌫",
	"50n": "🌫",
}

// Icon maps a provider icon code to its glyph
func Icon(code string) string {
	if glyph, ok := iconGlyphs[code]; ok {
		return glyph
	}
	return DefaultIcon
}
