package preferences

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"weather-dashboard/models"
)

type failingBackend struct {
	getErr, setErr error
	value          string
}

func (f *failingBackend) Get(key string) (string, error) {
	if f.getErr != nil {
		return "", f.getErr
	}
	return f.value, nil
}

func (f *failingBackend) Set(key, value string) error { return f.setErr }

func TestStore_DefaultsToCelsius(t *testing.T) {
	s := NewStore(NewMemoryBackend(), nil)
	if s.Unit() != models.Celsius {
		t.Errorf("expected Celsius, got %s", s.Unit())
	}
}

func TestStore_FileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "prefs.json")

	s := NewStore(NewFileBackend(path), nil)
	if err := s.Save(models.Fahrenheit); err != nil {
		t.Fatalf("unexpected save error: %v", err)
	}

	fresh := NewStore(NewFileBackend(path), nil)
	if fresh.Load() != models.Fahrenheit || fresh.Unit() != models.Fahrenheit {
		t.Errorf("expected Fahrenheit in a fresh instance, got %s", fresh.Unit())
	}
}

func TestStore_WriteFailureKeepsSessionUnit(t *testing.T) {
	backend := &failingBackend{getErr: ErrNotSet, setErr: errors.New("quota exceeded")}
	s := NewStore(backend, nil)

	if err := s.Save(models.Fahrenheit); err == nil {
		t.Fatal("expected the persistence error to be reported")
	}
	if s.Unit() != models.Fahrenheit {
		t.Errorf("in-memory unit must change even when persisting fails, got %s", s.Unit())
	}
}

func TestStore_SaveRejectsUndefinedUnit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.json")
	s := NewStore(NewFileBackend(path), nil)

	if err := s.Save(models.TemperatureUnit("K")); !errors.Is(err, ErrInvalidUnit) {
		t.Fatalf("expected ErrInvalidUnit, got %v", err)
	}
	if s.Unit() != models.Celsius {
		t.Errorf("rejected unit must not change the session, got %s", s.Unit())
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("rejected unit must not be persisted, stat err=%v", err)
	}
}

func TestStore_InvalidOrUnreadableValue(t *testing.T) {
	if u := NewStore(&failingBackend{value: "kelvin"}, nil).Unit(); u != models.Celsius {
		t.Errorf("expected Celsius for invalid value, got %s", u)
	}
	if u := NewStore(&failingBackend{getErr: errors.New("disk gone")}, nil).Unit(); u != models.Celsius {
		t.Errorf("expected Celsius for unreadable backend, got %s", u)
	}
}

func TestFileBackend_CorruptFileIsReplaced(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	b := NewFileBackend(path)

	if _, err := b.Get(UnitKey); err == nil {
		t.Error("expected parse error for corrupt file")
	}
	if err := b.Set(UnitKey, "F"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v, err := b.Get(UnitKey); err != nil || v != "F" {
		t.Errorf("expected F, got %q (%v)", v, err)
	}
}

func TestFileBackend_MissingKey(t *testing.T) {
	b := NewFileBackend(filepath.Join(t.TempDir(), "prefs.json"))
	if _, err := b.Get(UnitKey); !errors.Is(err, ErrNotSet) {
		t.Errorf("expected ErrNotSet, got %v", err)
	}
}
