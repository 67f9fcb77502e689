package models

import "fmt"

// Coordinate is a resolved geographic position (WGS 84)
type Coordinate struct {
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Name    string  `json:"name,omitempty"`
	Country string  `json:"country,omitempty"`
}

// String formats the coordinate for logs
func (c Coordinate) String() string {
	if c.Name != "" {
		return fmt.Sprintf("%s (%.4f,%.4f)", c.Name, c.Lat, c.Lon)
	}
	return fmt.Sprintf("%.4f,%.4f", c.Lat, c.Lon)
}
