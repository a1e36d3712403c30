// Package healthlog implements the flat log collections: symptoms,
// medication intake, vitals and clinic visits. Records are immutable in
// shape and carry no derived state.
package healthlog

import (
	"errors"
	"fmt"
	"time"
)

// Storage keys, one collection per key.
const (
	HealthKey        = "@health_logs_list"
	MedicationKey    = "@medication_logs_list"
	BloodPressureKey = "@blood_pressure_logs_list"
	WeightKey        = "@weight_logs_list"
	BloodSugarKey    = "@blood_sugar_logs_list"
	TemperatureKey   = "@temperature_logs_list"
	VisitKey         = "@visit_logs_list"
)

// WeatherData is an optional snapshot attached to health logs when the
// weather integration is enabled. It is opaque data here: fetched
// elsewhere, never derived from.
type WeatherData struct {
	Temp        float64 `json:"temp"`
	Pressure    float64 `json:"pressure"`
	Icon        string  `json:"icon"`
	Description string  `json:"description"`
}

type HealthLog struct {
	ID              string       `json:"id"`
	Time            time.Time    `json:"time"`
	Symptoms        []string     `json:"symptoms"`
	ConditionRating int          `json:"conditionRating"`
	Notes           string       `json:"notes,omitempty"`
	Weather         *WeatherData `json:"weather,omitempty"`
	Forecast        *WeatherData `json:"forecast,omitempty"`
	Forecast6h      *WeatherData `json:"forecast6h,omitempty"`
	PastWeather     *WeatherData `json:"pastWeather,omitempty"`
	PastWeather6h   *WeatherData `json:"pastWeather6h,omitempty"`
}

type MedicationLog struct {
	ID     string    `json:"id"`
	Time   time.Time `json:"time"`
	Name   string    `json:"name"`
	Amount string    `json:"amount"`
	Unit   string    `json:"unit"`
	Notes  string    `json:"notes,omitempty"`
}

// Measurement values are kept as the strings the pickers produced,
// matching the persisted layout.
type BloodPressureLog struct {
	ID               string    `json:"id"`
	Time             time.Time `json:"time"`
	Systolic         string    `json:"systolic"`
	Diastolic        string    `json:"diastolic"`
	RestingHeartRate string    `json:"restingHeartRate"`
	Notes            string    `json:"notes,omitempty"`
}

type WeightLog struct {
	ID     string    `json:"id"`
	Time   time.Time `json:"time"`
	Weight string    `json:"weight"`
	Notes  string    `json:"notes,omitempty"`
}

// Timing -.
type Timing string

const (
	TimingBefore Timing = "before"
	TimingAfter  Timing = "after"
	TimingOther  Timing = "other"
)

type BloodSugarLog struct {
	ID     string    `json:"id"`
	Time   time.Time `json:"time"`
	Value  string    `json:"value"`
	Timing Timing    `json:"timing"`
	Notes  string    `json:"notes,omitempty"`
}

type TemperatureLog struct {
	ID    string    `json:"id"`
	Time  time.Time `json:"time"`
	Value string    `json:"value"`
	Notes string    `json:"notes,omitempty"`
}

type VisitLog struct {
	ID            string    `json:"id"`
	Time          time.Time `json:"time"`
	HospitalName  string    `json:"hospitalName"`
	Symptoms      string    `json:"symptoms"`
	HasMedication bool      `json:"hasMedication"`
	Notes         string    `json:"notes,omitempty"`
	ImageURIs     []string  `json:"imageUris,omitempty"`
}

// ErrNotFound reports an update against an id that no longer exists.
var ErrNotFound = errors.New("log entry not found")

// ValidationError reports a record rejected before persistence.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func required(field, value string) error {
	if value == "" {
		return &ValidationError{Field: field, Reason: "required"}
	}
	return nil
}
