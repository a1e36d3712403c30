package v1_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karimata/healthbook/internal/alarm"
	"github.com/karimata/healthbook/internal/backup"
	"github.com/karimata/healthbook/internal/calendar"
	v1 "github.com/karimata/healthbook/internal/delivery/http/v1"
	"github.com/karimata/healthbook/internal/healthlog"
	"github.com/karimata/healthbook/internal/settings"
	"github.com/karimata/healthbook/internal/storage/kv"
	"github.com/karimata/healthbook/pkg/badgerstore"
	"github.com/karimata/healthbook/pkg/logger"
)

type nopBridge struct{}

func (nopBridge) Set(context.Context, time.Time, string, string) error { return nil }
func (nopBridge) Cancel(context.Context, string) error                 { return nil }
func (nopBridge) Stop(context.Context) error                           { return nil }

func newServer(t *testing.T) *httptest.Server {
	t.Helper()

	b, err := badgerstore.New("", badgerstore.InMemory())
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })

	store := kv.New(b)
	l := logger.New("error", "prod")

	prefs := settings.New(store)
	require.NoError(t, prefs.Load(context.Background()))

	alarms := alarm.NewController(alarm.NewStore(store), nopBridge{}, l, alarm.DefaultDurations())
	logs := healthlog.NewService(store)
	backups := backup.NewService(logs, alarms)
	feed := calendar.NewFeed(alarms)

	srv := httptest.NewServer(v1.NewRouter(l, alarms, logs, prefs, backups, feed))
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func TestAlarms_CreateAndList(t *testing.T) {
	srv := newServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/alarms", map[string]any{
		"time":          time.Now().Add(time.Hour).Format(time.RFC3339),
		"title":         "medication log",
		"repeatPattern": "daily",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created struct {
		ScheduledFor time.Time `json:"scheduledFor"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	assert.Zero(t, created.ScheduledFor.Second())

	resp = doJSON(t, http.MethodGet, srv.URL+"/alarms", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var list []alarm.Alarm
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	require.Len(t, list, 1)
	assert.Equal(t, alarm.RepeatDaily, list[0].RepeatPattern)
}

func TestAlarms_BadInput(t *testing.T) {
	srv := newServer(t)

	// Unknown pattern is caught by request validation.
	resp := doJSON(t, http.MethodPost, srv.URL+"/alarms", map[string]any{
		"time":          time.Now().Add(time.Hour).Format(time.RFC3339),
		"repeatPattern": "hourly",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Weekly with no days is caught by the controller.
	resp = doJSON(t, http.MethodPost, srv.URL+"/alarms", map[string]any{
		"time":          time.Now().Add(time.Hour).Format(time.RFC3339),
		"repeatPattern": "weekly",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAlarms_UnknownID(t *testing.T) {
	srv := newServer(t)

	resp := doJSON(t, http.MethodGet, srv.URL+"/alarms/nope", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = doJSON(t, http.MethodPut, srv.URL+"/alarms/nope", map[string]any{
		"time": time.Now().Add(time.Hour).Format(time.RFC3339),
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Delete and complete are silent no-ops for unknown ids.
	resp = doJSON(t, http.MethodDelete, srv.URL+"/alarms/nope", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, http.MethodPost, srv.URL+"/alarms/nope/complete", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestLogs_CRUD(t *testing.T) {
	srv := newServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/logs/weight", map[string]any{
		"time":   time.Now().Format(time.RFC3339),
		"weight": "62.5",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created healthlog.WeightLog
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	require.NotEmpty(t, created.ID)

	resp = doJSON(t, http.MethodPut, fmt.Sprintf("%s/logs/weight/%s", srv.URL, created.ID), map[string]any{
		"time":   created.Time.Format(time.RFC3339),
		"weight": "63.0",
	})
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, srv.URL+"/logs/weight", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var list []healthlog.WeightLog
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	require.Len(t, list, 1)
	assert.Equal(t, "63.0", list[0].Weight)

	resp = doJSON(t, http.MethodDelete, fmt.Sprintf("%s/logs/weight/%s", srv.URL, created.ID), nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestLogs_ValidationMapsTo400(t *testing.T) {
	srv := newServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/logs/health", map[string]any{
		"time":            time.Now().Format(time.RFC3339),
		"conditionRating": 9,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, http.MethodPut, srv.URL+"/logs/weight/nope", map[string]any{
		"time":   time.Now().Format(time.RFC3339),
		"weight": "60",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSettings_RoundTrip(t *testing.T) {
	srv := newServer(t)

	resp := doJSON(t, http.MethodPut, srv.URL+"/settings", map[string]any{
		"timeFormat": "h24",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got struct {
		TimeFormat string `json:"timeFormat"`
		Weather    string `json:"weather"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, "h24", got.TimeFormat)
	assert.Equal(t, "off", got.Weather)

	resp = doJSON(t, http.MethodPut, srv.URL+"/settings", map[string]any{
		"timeFormat": "h36",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestBackup_OverHTTP(t *testing.T) {
	srv := newServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/logs/temperature", map[string]any{
		"time":  time.Now().Format(time.RFC3339),
		"value": "36.6",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, srv.URL+"/backup", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var payload backup.Payload
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	require.Len(t, payload.Data.TemperatureLogs, 1)

	other := newServer(t)
	resp = doJSON(t, http.MethodPost, other.URL+"/backup", payload)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, other.URL+"/logs/temperature", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var list []healthlog.TemperatureLog
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	assert.Len(t, list, 1)

	resp = doJSON(t, http.MethodPost, other.URL+"/backup", map[string]any{"version": 7})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCalendarFeed(t *testing.T) {
	srv := newServer(t)

	resp := doJSON(t, http.MethodGet, srv.URL+"/calendar.ics", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/calendar")
}
