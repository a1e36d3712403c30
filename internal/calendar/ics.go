// Package calendar renders the reminder schedule as an iCalendar feed so
// reservations can be subscribed to from any calendar client.
package calendar

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/emersion/go-ical"
	"github.com/teambition/rrule-go"

	"github.com/karimata/healthbook/internal/alarm"
)

const (
	productID         = "-//karimata//healthbook//EN"
	datetimeUTCFormat = "20060102T150405Z"
)

// Feed builds a read-only VCALENDAR view over the current reservations.
type Feed struct {
	alarms *alarm.Controller
	now    func() time.Time
}

// NewFeed -.
func NewFeed(alarms *alarm.Controller) *Feed {
	return &Feed{alarms: alarms, now: time.Now}
}

// Build lists the reservations and maps each one onto a VEVENT. Recurring
// reservations carry an RRULE, skipped occurrences become EXDATEs.
func (f *Feed) Build(ctx context.Context) (*ical.Calendar, error) {
	alarms, err := f.alarms.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("calendar - Feed.Build: %w", err)
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, productID)

	stamp := f.now().UTC()
	for _, a := range alarms {
		cal.Children = append(cal.Children, toEvent(a, stamp).Component)
	}
	return cal, nil
}

// WriteTo encodes the feed in wire form.
func (f *Feed) WriteTo(ctx context.Context, w io.Writer) error {
	cal, err := f.Build(ctx)
	if err != nil {
		return err
	}
	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("calendar - Feed.WriteTo: %w", err)
	}
	return nil
}

func toEvent(a alarm.Alarm, stamp time.Time) *ical.Event {
	event := ical.NewEvent()
	event.Props.SetText(ical.PropUID, a.ID)
	event.Props.SetText(ical.PropSummary, alarm.DisplayTitle(a.Title, a.Detail, a.Medication()))
	if a.Detail != "" {
		event.Props.SetText(ical.PropDescription, a.Detail)
	}
	event.Props.SetDateTime(ical.PropDateTimeStamp, stamp)
	event.Props.SetDateTime(ical.PropDateTimeStart, a.Time)

	if ro := recurrenceOption(a); ro != nil {
		event.Props.SetRecurrenceRule(ro)
	}

	if exString := exceptionDates(a); exString != "" {
		exProp := ical.NewProp(ical.PropExceptionDates)
		exProp.SetValueType(ical.ValueDateTime)
		exProp.Value = exString
		event.Props.Set(exProp)
	}
	return event
}

// recurrenceOption maps a repeat pattern onto an RRULE, or nil for
// one-shot reservations.
func recurrenceOption(a alarm.Alarm) *rrule.ROption {
	ro := rrule.ROption{Dtstart: a.Time.UTC()}

	switch a.EffectivePattern() {
	case alarm.RepeatDaily:
		ro.Freq = rrule.DAILY
	case alarm.RepeatWeekly:
		ro.Freq = rrule.WEEKLY
		for _, d := range a.Days {
			ro.Byweekday = append(ro.Byweekday, rruleDay[d])
		}
	case alarm.RepeatBiweekly:
		ro.Freq = rrule.WEEKLY
		ro.Interval = 2
	case alarm.RepeatTriweekly:
		ro.Freq = rrule.WEEKLY
		ro.Interval = 3
	case alarm.RepeatFourweekly:
		ro.Freq = rrule.WEEKLY
		ro.Interval = 4
	default:
		return nil
	}
	return &ro
}

// exceptionDates joins the skipped days, each at the reservation's time of
// day, into one EXDATE value.
func exceptionDates(a alarm.Alarm) string {
	var exString string
	for _, day := range a.SkippedDates {
		d, err := time.ParseInLocation("2006-01-02", day, a.Time.Location())
		if err != nil {
			continue
		}
		at := time.Date(d.Year(), d.Month(), d.Day(), a.Time.Hour(), a.Time.Minute(), 0, 0, a.Time.Location())
		if exString == "" {
			exString = at.UTC().Format(datetimeUTCFormat)
			continue
		}
		exString = fmt.Sprintf("%s,%s", exString, at.UTC().Format(datetimeUTCFormat))
	}
	return exString
}

var rruleDay = map[time.Weekday]rrule.Weekday{
	time.Sunday:    rrule.SU,
	time.Monday:    rrule.MO,
	time.Tuesday:   rrule.TU,
	time.Wednesday: rrule.WE,
	time.Thursday:  rrule.TH,
	time.Friday:    rrule.FR,
	time.Saturday:  rrule.SA,
}
