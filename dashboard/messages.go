package dashboard

import (
	"errors"
	"fmt"

	"weather-dashboard/datasource"
	"weather-dashboard/models"
)

// UserMessage turns an error into the single message shown to the user
func UserMessage(err error) string {
	var upstream *datasource.UpstreamError

	switch {
	case err == nil:
		return ""
	case errors.Is(err, models.ErrConfigInvalid):
		return fmt.Sprintf("Setup required: %v. Add your OpenWeatherMap API key to the configuration and restart.", err)
	case errors.Is(err, models.ErrLocationUnavailable):
		return "Unable to get your location. Please search for a city manually."
	case errors.Is(err, models.ErrEmptyQuery):
		return "Please enter a city name."
	case errors.Is(err, models.ErrNotFound):
		return "City not found. Please try a different city name."
	case errors.Is(err, models.ErrUnauthorized):
		return "API Key Invalid: Your OpenWeatherMap API key is not valid or not activated. " +
			"Please check your key and ensure it's activated in your OpenWeatherMap account."
	case errors.Is(err, models.ErrRateLimited):
		return "API Rate Limit Exceeded: You've exceeded your API call limit. Please wait a moment and try again."
	case errors.As(err, &upstream):
		status := upstream.Status
		if status == "" {
			status = fmt.Sprint(upstream.StatusCode)
		}
		return fmt.Sprintf("API Error: %s. Please check your OpenWeatherMap account and API key.", status)
	case errors.Is(err, models.ErrNetwork):
		return "Network Error: Unable to connect to OpenWeatherMap API. Please check your internet connection and try again."
	}
	return "Failed to fetch weather data. Please try again."
}
