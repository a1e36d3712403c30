// Package settings holds the two user preferences as an explicit state
// object: loaded once at startup, written through on every change.
package settings

import (
	"context"
	"fmt"
	"sync"

	"github.com/karimata/healthbook/internal/storage/kv"
)

// TimeFormat -.
type TimeFormat string

const (
	TimeFormatAuto TimeFormat = "auto"
	TimeFormat12h  TimeFormat = "h12"
	TimeFormat24h  TimeFormat = "h24"
)

// WeatherSetting -.
type WeatherSetting string

const (
	WeatherOn  WeatherSetting = "on"
	WeatherOff WeatherSetting = "off"
)

const (
	timeFormatKey = "@time_format"
	weatherKey    = "@weather_setting"
)

// Store -.
type Store struct {
	kv *kv.Store

	mu         sync.Mutex
	timeFormat TimeFormat
	weather    WeatherSetting
}

// New -.
func New(store *kv.Store) *Store {
	return &Store{
		kv:         store,
		timeFormat: TimeFormatAuto,
		weather:    WeatherOff,
	}
}

// Load reads the persisted values. Unknown stored values degrade to the
// defaults rather than failing startup.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v, found, err := s.kv.LoadString(ctx, timeFormatKey); err != nil {
		return fmt.Errorf("settings - Store.Load - kv.LoadString: %w", err)
	} else if found {
		switch TimeFormat(v) {
		case TimeFormatAuto, TimeFormat12h, TimeFormat24h:
			s.timeFormat = TimeFormat(v)
		}
	}

	if v, found, err := s.kv.LoadString(ctx, weatherKey); err != nil {
		return fmt.Errorf("settings - Store.Load - kv.LoadString: %w", err)
	} else if found {
		switch WeatherSetting(v) {
		case WeatherOn, WeatherOff:
			s.weather = WeatherSetting(v)
		}
	}

	return nil
}

// TimeFormat -.
func (s *Store) TimeFormat() TimeFormat {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timeFormat
}

// SetTimeFormat -.
func (s *Store) SetTimeFormat(ctx context.Context, f TimeFormat) error {
	switch f {
	case TimeFormatAuto, TimeFormat12h, TimeFormat24h:
	default:
		return fmt.Errorf("settings - Store.SetTimeFormat: unknown format %q", f)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.kv.SaveString(ctx, timeFormatKey, string(f)); err != nil {
		return fmt.Errorf("settings - Store.SetTimeFormat - kv.SaveString: %w", err)
	}
	s.timeFormat = f
	return nil
}

// Weather -.
func (s *Store) Weather() WeatherSetting {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.weather
}

// SetWeather -.
func (s *Store) SetWeather(ctx context.Context, w WeatherSetting) error {
	switch w {
	case WeatherOn, WeatherOff:
	default:
		return fmt.Errorf("settings - Store.SetWeather: unknown setting %q", w)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.kv.SaveString(ctx, weatherKey, string(w)); err != nil {
		return fmt.Errorf("settings - Store.SetWeather - kv.SaveString: %w", err)
	}
	s.weather = w
	return nil
}
