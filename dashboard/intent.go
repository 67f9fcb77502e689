package dashboard

import "weather-dashboard/models"

// IntentKind enumerates what the user (or a scheduler) can ask the dashboard to do
type IntentKind int

const (
	RefreshByDevice IntentKind = iota
	RefreshByQuery
	RefreshByCoordinate
	RefreshCurrent
	ToggleUnit
	DismissError
)

func (k IntentKind) String() string {
	switch k {
	case RefreshByDevice:
		return "device"
	case RefreshByQuery:
		return "query"
	case RefreshByCoordinate:
		return "coordinate"
	case RefreshCurrent:
		return "scheduled"
	case ToggleUnit:
		return "toggle_unit"
	case DismissError:
		return "dismiss_error"
	}
	return "unknown"
}

// Intent is one command for the controller
type Intent struct {
	Kind       IntentKind
	Query      string            // RefreshByQuery
	Coordinate models.Coordinate // RefreshByCoordinate
}

// DeviceRefresh asks for a refresh at the device position
func DeviceRefresh() Intent { return Intent{Kind: RefreshByDevice} }

// QueryRefresh asks for a refresh at a searched place
func QueryRefresh(text string) Intent { return Intent{Kind: RefreshByQuery, Query: text} }

// CoordinateRefresh asks for a refresh at a known coordinate
func CoordinateRefresh(coord models.Coordinate) Intent {
	return Intent{Kind: RefreshByCoordinate, Coordinate: coord}
}
