package calendar_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karimata/healthbook/internal/alarm"
	"github.com/karimata/healthbook/internal/calendar"
	"github.com/karimata/healthbook/internal/storage/kv"
	"github.com/karimata/healthbook/pkg/badgerstore"
	"github.com/karimata/healthbook/pkg/logger"
)

type nopBridge struct{}

func (nopBridge) Set(context.Context, time.Time, string, string) error { return nil }
func (nopBridge) Cancel(context.Context, string) error                 { return nil }
func (nopBridge) Stop(context.Context) error                           { return nil }

func newFeed(t *testing.T) (*calendar.Feed, *alarm.Controller) {
	t.Helper()

	b, err := badgerstore.New("", badgerstore.InMemory())
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })

	ctrl := alarm.NewController(
		alarm.NewStore(kv.New(b)), nopBridge{}, logger.New("error", "prod"), alarm.DefaultDurations(),
	)
	return calendar.NewFeed(ctrl), ctrl
}

func render(t *testing.T, feed *calendar.Feed) string {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, feed.WriteTo(context.Background(), &buf))
	return buf.String()
}

func TestFeed_Empty(t *testing.T) {
	feed, _ := newFeed(t)

	out := render(t, feed)
	assert.Contains(t, out, "BEGIN:VCALENDAR")
	assert.NotContains(t, out, "BEGIN:VEVENT")
}

func TestFeed_RecurrenceRules(t *testing.T) {
	feed, ctrl := newFeed(t)
	ctx := context.Background()

	at := time.Now().Add(time.Hour)
	_, err := ctrl.Create(ctx, alarm.Reservation{Time: at, Title: "medication", Pattern: alarm.RepeatDaily})
	require.NoError(t, err)
	_, err = ctrl.Create(ctx, alarm.Reservation{
		Time:    at,
		Title:   "weight",
		Pattern: alarm.RepeatWeekly,
		Days:    []time.Weekday{time.Monday, time.Wednesday},
	})
	require.NoError(t, err)
	_, err = ctrl.Create(ctx, alarm.Reservation{Time: at, Title: "visit", Pattern: alarm.RepeatBiweekly})
	require.NoError(t, err)

	out := render(t, feed)
	assert.Contains(t, out, "FREQ=DAILY")
	assert.Contains(t, out, "FREQ=WEEKLY")
	assert.Contains(t, out, "BYDAY=MO,WE")
	assert.Contains(t, out, "INTERVAL=2")
	assert.Contains(t, out, "SUMMARY:Time to log medication")
}

func TestFeed_OneShotHasNoRule(t *testing.T) {
	feed, ctrl := newFeed(t)

	_, err := ctrl.Create(context.Background(), alarm.Reservation{
		Time:  time.Now().Add(time.Hour),
		Title: "temperature",
	})
	require.NoError(t, err)

	out := render(t, feed)
	assert.Contains(t, out, "BEGIN:VEVENT")
	assert.NotContains(t, out, "RRULE")
}

func TestFeed_SkippedDatesBecomeExceptions(t *testing.T) {
	feed, ctrl := newFeed(t)
	ctx := context.Background()

	at := time.Now().Add(time.Hour)
	_, err := ctrl.Create(ctx, alarm.Reservation{Time: at, Title: "medication", Pattern: alarm.RepeatDaily})
	require.NoError(t, err)

	alarms, err := ctrl.List(ctx)
	require.NoError(t, err)
	require.Len(t, alarms, 1)
	require.NoError(t, ctrl.Skip(ctx, alarms[0].ID))

	out := render(t, feed)
	assert.Contains(t, out, "EXDATE")
}
