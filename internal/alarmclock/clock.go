// Package alarmclock is the in-process implementation of the native alarm
// capability: exact-time wake-ups backed by timers, with a single notion
// of the currently ringing session.
package alarmclock

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/karimata/healthbook/pkg/logger"
)

// Notifier receives ring events when a wake-up fires.
type Notifier interface {
	Ring(id, displayTitle string)
}

// LogNotifier announces rings on the application log. It is the default
// delivery when no richer channel is wired in.
type LogNotifier struct {
	L *logger.Logger
}

func (n *LogNotifier) Ring(id, displayTitle string) {
	n.L.Info("alarm ringing", slog.String("id", id), slog.String("title", displayTitle))
}

// ErrClosed -.
var ErrClosed = errors.New("alarm clock is closed")

type entry struct {
	timer *time.Timer
	title string
	at    time.Time
}

// Clock -.
type Clock struct {
	l        *logger.Logger
	notifier Notifier

	mu      sync.Mutex
	entries map[string]*entry
	ringing string
	closed  bool
}

// New -.
func New(l *logger.Logger, notifier Notifier) *Clock {
	if notifier == nil {
		notifier = &LogNotifier{L: l}
	}
	return &Clock{
		l:        l,
		notifier: notifier,
		entries:  make(map[string]*entry),
	}
}

// Set schedules a wake-up. An already scheduled id is replaced. Instants
// in the past fire immediately.
func (c *Clock) Set(_ context.Context, at time.Time, displayTitle, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}

	if prev, ok := c.entries[id]; ok {
		prev.timer.Stop()
	}

	d := time.Until(at)
	if d < 0 {
		d = 0
	}

	e := &entry{title: displayTitle, at: at}
	e.timer = time.AfterFunc(d, func() { c.fire(id) })
	c.entries[id] = e

	c.l.Debug("wake-up scheduled", slog.String("id", id), slog.Time("at", at))
	return nil
}

// Cancel removes a scheduled wake-up. Unknown ids are a no-op.
func (c *Clock) Cancel(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[id]; ok {
		e.timer.Stop()
		delete(c.entries, id)
	}
	return nil
}

// Stop halts whatever session is currently ringing, regardless of id.
func (c *Clock) Stop(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.ringing = ""
	return nil
}

// Ringing returns the id of the currently ringing session, or "".
func (c *Clock) Ringing() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.ringing
}

// Close cancels every scheduled wake-up. Further Set calls fail.
func (c *Clock) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	for id, e := range c.entries {
		e.timer.Stop()
		delete(c.entries, id)
	}
	c.ringing = ""
}

func (c *Clock) fire(id string) {
	c.mu.Lock()
	e, ok := c.entries[id]
	if !ok || c.closed {
		c.mu.Unlock()
		return
	}
	delete(c.entries, id)
	// Only one session can be audible at a time; a new ring takes over.
	c.ringing = id
	title := e.title
	c.mu.Unlock()

	c.notifier.Ring(id, title)
}
