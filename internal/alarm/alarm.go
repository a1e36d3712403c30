// Package alarm implements reminder reservations: one-shot or recurring
// records that trigger a native wake-up at a wall-clock time.
package alarm

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// RepeatPattern is the repetition rule governing how a reservation's
// trigger time advances after it fires.
type RepeatPattern string

const (
	RepeatNone       RepeatPattern = "none"
	RepeatDaily      RepeatPattern = "daily"
	RepeatWeekly     RepeatPattern = "weekly"
	RepeatBiweekly   RepeatPattern = "biweekly"
	RepeatTriweekly  RepeatPattern = "triweekly"
	RepeatFourweekly RepeatPattern = "fourweekly"
)

// Known -.
func (p RepeatPattern) Known() bool {
	switch p {
	case RepeatNone, RepeatDaily, RepeatWeekly, RepeatBiweekly, RepeatTriweekly, RepeatFourweekly:
		return true
	}
	return false
}

// Medication is the optional sub-record attached to medication reservations.
type Medication struct {
	Name   string `json:"name"`
	Amount string `json:"amount"`
	Unit   string `json:"unit"`
}

// DefaultUnit is substituted when a carried-over medication has no unit.
const DefaultUnit = "tablet"

// Alarm is a reservation record. The JSON field names are the persisted
// layout and the backup format.
type Alarm struct {
	ID               string        `json:"id"`
	Time             time.Time     `json:"time"`
	NotificationID   string        `json:"notificationId"`
	Title            string        `json:"title,omitempty"`
	Detail           string        `json:"detail,omitempty"`
	MedicationName   string        `json:"medicationName,omitempty"`
	MedicationAmount string        `json:"medicationAmount,omitempty"`
	MedicationUnit   string        `json:"medicationUnit,omitempty"`
	Days             []time.Weekday `json:"days,omitempty"`
	RepeatPattern    RepeatPattern `json:"repeatPattern,omitempty"`
	SkippedDates     []string      `json:"skippedDates,omitempty"`
	SoundKey         string        `json:"soundKey,omitempty"`
}

// EffectivePattern resolves records restored from older backups where the
// pattern field is empty: a day set alone means weekly, otherwise none.
func (a *Alarm) EffectivePattern() RepeatPattern {
	if a.RepeatPattern == "" {
		if len(a.Days) > 0 {
			return RepeatWeekly
		}
		return RepeatNone
	}
	return a.RepeatPattern
}

// Recurring -.
func (a *Alarm) Recurring() bool {
	return a.EffectivePattern() != RepeatNone
}

// Medication returns the attached sub-record, or nil when the reservation
// carries none. The unit falls back to DefaultUnit.
func (a *Alarm) Medication() *Medication {
	if a.MedicationName == "" {
		return nil
	}
	unit := a.MedicationUnit
	if unit == "" {
		unit = DefaultUnit
	}
	return &Medication{Name: a.MedicationName, Amount: a.MedicationAmount, Unit: unit}
}

// DisplayTitle builds the wake-up's notification text. The medication name
// wins over the free-text detail, which the display then suppresses.
func DisplayTitle(title, detail string, med *Medication) string {
	subject := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(title), "log"))
	if subject == "" {
		subject = "Record"
	}

	s := fmt.Sprintf("Time to log %s", subject)
	if med != nil && med.Name != "" {
		s += " (" + med.Name + ")"
	} else if detail != "" {
		s += " (" + detail + ")"
	}
	return s
}

// DateKey formats the day component the way skipped occurrences are recorded.
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// ErrNotFound reports an operation on a reservation id that no longer exists.
var ErrNotFound = errors.New("alarm not found")

// ValidationError reports user input rejected before any mutation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
