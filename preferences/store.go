// Package preferences persists the user's temperature unit.
package preferences

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"weather-dashboard/logger"
	"weather-dashboard/metrics"
	"weather-dashboard/models"
)

// UnitKey is the slot the temperature unit is stored under
const UnitKey = "weatherDashboard_tempUnit"

var (
	// ErrNotSet is returned by backends when the key has never been written
	ErrNotSet = errors.New("preference not set")

	ErrInvalidUnit = errors.New("invalid temperature unit")
)

// Backend is a small persistent key-value slot
type Backend interface {
	Get(key string) (string, error)
	Set(key, value string) error
}

// Store keeps the temperature unit in memory and mirrors it to a backend.
// A failing backend never blocks a unit change; the preference then only
// lasts for the session.
type Store struct {
	backend Backend
	mu      sync.RWMutex
	unit    models.TemperatureUnit
	log     *zap.Logger
}

// NewStore creates a store and loads the saved unit
func NewStore(backend Backend, log *zap.Logger) *Store {
	s := &Store{backend: backend, log: logger.OrNop(log)}
	s.unit = s.Load()
	return s
}

// Load returns the saved unit, or Celsius when nothing valid was saved
func (s *Store) Load() models.TemperatureUnit {
	if s.backend == nil {
		return models.Celsius
	}
	raw, err := s.backend.Get(UnitKey)
	if err != nil {
		if !errors.Is(err, ErrNotSet) {
			s.log.Warn("failed to read temperature unit preference", zap.Error(err))
		}
		return models.Celsius
	}
	unit, err := models.ParseTemperatureUnit(raw)
	if err != nil {
		s.log.Warn("ignoring invalid temperature unit preference", zap.String("value", raw))
		return models.Celsius
	}
	return unit
}

// Save sets the in-memory unit and persists it synchronously. An undefined
// unit is rejected and changes nothing. Any other error only reports the
// persistence failure; the unit is changed regardless.
func (s *Store) Save(unit models.TemperatureUnit) error {
	if !unit.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidUnit, unit)
	}

	s.mu.Lock()
	s.unit = unit
	s.mu.Unlock()

	if s.backend == nil {
		return nil
	}
	if err := s.backend.Set(UnitKey, string(unit)); err != nil {
		metrics.PreferenceWriteFailures.Inc()
		s.log.Warn("temperature unit kept for this session only", zap.Error(err))
		return err
	}
	return nil
}

// Unit returns the current in-memory unit
func (s *Store) Unit() models.TemperatureUnit {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.unit
}
