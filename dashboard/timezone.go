package dashboard

import (
	"time"

	"github.com/zsefvlol/timezonemapper"

	"weather-dashboard/models"
)

// Timezone policies for grouping forecast days
const (
	TimezoneLocal    = "local"
	TimezoneLocation = "location"
)

// zoneFor returns the calendar zone used for coord under policy.
// Lookup failures fall back to the local zone.
func zoneFor(policy string, coord models.Coordinate) *time.Location {
	if policy != TimezoneLocation {
		return time.Local
	}
	name := timezonemapper.LatLngToTimezoneString(coord.Lat, coord.Lon)
	if name == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.Local
	}
	return loc
}
