package alarm

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/karimata/healthbook/pkg/logger"
)

const defaultSoundKey = "default"

// Durations are the snooze policy knobs.
type Durations struct {
	Snooze          time.Duration // delay of an explicit snooze
	AutoSnooze      time.Duration // delay when a logging screen is abandoned
	AutoSnoozeGuard time.Duration // alarms further out than this are left alone
}

// DefaultDurations -.
func DefaultDurations() Durations {
	return Durations{
		Snooze:          30 * time.Minute,
		AutoSnooze:      5 * time.Minute,
		AutoSnoozeGuard: 10 * time.Minute,
	}
}

// Reservation is the user input for Create and Update.
type Reservation struct {
	Time       time.Time
	Title      string
	Detail     string
	Pattern    RepeatPattern
	Days       []time.Weekday
	Medication *Medication
	SoundKey   string
}

func (r Reservation) effectivePattern() RepeatPattern {
	if r.Pattern == "" {
		if len(r.Days) > 0 {
			return RepeatWeekly
		}
		return RepeatNone
	}
	return r.Pattern
}

// Controller is the single authority mutating reservation state. It
// coordinates the Store and the Bridge; all mutations run under one lock,
// preserving the one-logical-writer model of the storage layout.
type Controller struct {
	store  *Store
	bridge Bridge
	l      *logger.Logger
	d      Durations

	mu  sync.Mutex
	now func() time.Time
}

// NewController -.
func NewController(store *Store, bridge Bridge, l *logger.Logger, d Durations) *Controller {
	def := DefaultDurations()
	if d.Snooze <= 0 {
		d.Snooze = def.Snooze
	}
	if d.AutoSnooze <= 0 {
		d.AutoSnooze = def.AutoSnooze
	}
	if d.AutoSnoozeGuard <= 0 {
		d.AutoSnoozeGuard = def.AutoSnoozeGuard
	}

	return &Controller{
		store:  store,
		bridge: bridge,
		l:      l,
		d:      d,
		now:    time.Now,
	}
}

// Create validates and persists a new reservation and schedules its native
// wake-up. Nothing is touched when validation fails. The returned time is
// the committed trigger instant, truncated to the minute.
func (c *Controller) Create(ctx context.Context, r Reservation) (time.Time, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	a, err := c.createLocked(ctx, r)
	if err != nil {
		return time.Time{}, err
	}
	return a.Time, nil
}

func (c *Controller) createLocked(ctx context.Context, r Reservation) (*Alarm, error) {
	t := r.Time.Truncate(time.Minute)
	if err := c.validate(r, t); err != nil {
		return nil, err
	}

	alarms, err := c.store.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("alarm - Controller.Create - store.All: %w", err)
	}

	a := newAlarm(uuid.NewString(), t, r)

	if err := c.bridge.Set(ctx, t, DisplayTitle(a.Title, a.Detail, a.Medication()), a.ID); err != nil {
		return nil, fmt.Errorf("alarm - Controller.Create - bridge.Set: %w", err)
	}

	alarms = append(alarms, a)
	if err := c.store.Replace(ctx, alarms); err != nil {
		// Undo the wake-up so no orphan fires for a record that was
		// never persisted.
		c.cancelQuiet(ctx, a.ID)
		return nil, fmt.Errorf("alarm - Controller.Create - store.Replace: %w", err)
	}

	c.l.Debug("reservation created",
		slog.String("id", a.ID),
		slog.Time("time", a.Time),
		slog.String("pattern", string(a.RepeatPattern)),
	)
	return &a, nil
}

// Update replaces the reservation's fields in place under the same id,
// rescheduling its wake-up. The old wake-up is cancelled tolerantly: an
// already absent native entry is a no-op.
func (c *Controller) Update(ctx context.Context, id string, r Reservation) (time.Time, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.updateLocked(ctx, id, r)
}

func (c *Controller) updateLocked(ctx context.Context, id string, r Reservation) (time.Time, error) {
	t := r.Time.Truncate(time.Minute)
	if err := c.validate(r, t); err != nil {
		return time.Time{}, err
	}

	alarms, err := c.store.All(ctx)
	if err != nil {
		return time.Time{}, fmt.Errorf("alarm - Controller.Update - store.All: %w", err)
	}

	idx := indexByID(alarms, id)
	if idx < 0 {
		return time.Time{}, ErrNotFound
	}

	c.cancelQuiet(ctx, id)

	a := newAlarm(id, t, r)
	a.SkippedDates = alarms[idx].SkippedDates

	if err := c.bridge.Set(ctx, t, DisplayTitle(a.Title, a.Detail, a.Medication()), id); err != nil {
		return time.Time{}, fmt.Errorf("alarm - Controller.Update - bridge.Set: %w", err)
	}

	alarms[idx] = a
	if err := c.store.Replace(ctx, alarms); err != nil {
		return time.Time{}, fmt.Errorf("alarm - Controller.Update - store.Replace: %w", err)
	}

	return t, nil
}

// Delete stops the currently ringing session, cancels the scheduled
// wake-up and removes the record. Unknown ids are silently ignored.
func (c *Controller) Delete(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	alarms, err := c.store.All(ctx)
	if err != nil {
		return fmt.Errorf("alarm - Controller.Delete - store.All: %w", err)
	}

	idx := indexByIDOrNotification(alarms, id)
	if idx < 0 {
		return nil
	}

	c.stopQuiet(ctx)
	c.cancelQuiet(ctx, alarms[idx].ID)

	alarms = append(alarms[:idx], alarms[idx+1:]...)
	if err := c.store.Replace(ctx, alarms); err != nil {
		return fmt.Errorf("alarm - Controller.Delete - store.Replace: %w", err)
	}
	return nil
}

// Complete acknowledges a fired reservation. Terminal patterns are removed;
// recurring ones advance to the next occurrence under the same id.
// Unknown ids are silently ignored.
func (c *Controller) Complete(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.completeLocked(ctx, id, false)
}

// Skip is Complete plus an audit mark: the skipped occurrence's date is
// recorded on the surviving record.
func (c *Controller) Skip(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.completeLocked(ctx, id, true)
}

func (c *Controller) completeLocked(ctx context.Context, id string, markSkipped bool) error {
	alarms, err := c.store.All(ctx)
	if err != nil {
		return fmt.Errorf("alarm - Controller.Complete - store.All: %w", err)
	}

	idx := indexByIDOrNotification(alarms, id)
	if idx < 0 {
		return nil
	}
	a := &alarms[idx]

	c.stopQuiet(ctx)
	c.cancelQuiet(ctx, a.ID)

	pattern := a.EffectivePattern()
	if pattern == RepeatNone || (pattern == RepeatWeekly && len(a.Days) == 0) {
		alarms = append(alarms[:idx], alarms[idx+1:]...)
		if err := c.store.Replace(ctx, alarms); err != nil {
			return fmt.Errorf("alarm - Controller.Complete - store.Replace: %w", err)
		}
		return nil
	}

	if markSkipped {
		a.SkippedDates = append(a.SkippedDates, DateKey(a.Time))
	}

	next, ok := Next(a.Time, pattern, a.Days)
	if !ok {
		alarms = append(alarms[:idx], alarms[idx+1:]...)
		if err := c.store.Replace(ctx, alarms); err != nil {
			return fmt.Errorf("alarm - Controller.Complete - store.Replace: %w", err)
		}
		return nil
	}

	if err := c.bridge.Set(ctx, next, DisplayTitle(a.Title, a.Detail, a.Medication()), a.ID); err != nil {
		return fmt.Errorf("alarm - Controller.Complete - bridge.Set: %w", err)
	}

	a.Time = next
	a.NotificationID = a.ID
	if err := c.store.Replace(ctx, alarms); err != nil {
		return fmt.Errorf("alarm - Controller.Complete - store.Replace: %w", err)
	}

	c.l.Debug("reservation advanced", slog.String("id", a.ID), slog.Time("next", next))
	return nil
}

// Snooze completes the reservation (advancing a recurring series) and
// creates a fresh one-shot a fixed delay from now, carrying over the
// medication sub-record and sound of the original.
func (c *Controller) Snooze(ctx context.Context, id, title, detail string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var med *Medication
	var sound string

	alarms, err := c.store.All(ctx)
	if err != nil {
		return fmt.Errorf("alarm - Controller.Snooze - store.All: %w", err)
	}
	if idx := indexByID(alarms, id); idx >= 0 {
		med = alarms[idx].Medication()
		sound = alarms[idx].SoundKey
	}

	if err := c.completeLocked(ctx, id, false); err != nil {
		return err
	}

	_, err = c.createLocked(ctx, Reservation{
		Time:       c.now().Add(c.d.Snooze),
		Title:      title,
		Detail:     detail,
		Pattern:    RepeatNone,
		Medication: med,
		SoundKey:   sound,
	})
	return err
}

// AutoSnooze reschedules a due reservation whose logging screen was
// abandoned. Reservations more than the guard window in the future are
// left untouched. A recurring series advances and spawns a one-shot; a
// one-shot simply moves, keeping its identity.
func (c *Controller) AutoSnooze(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	alarms, err := c.store.All(ctx)
	if err != nil {
		return fmt.Errorf("alarm - Controller.AutoSnooze - store.All: %w", err)
	}

	idx := indexByID(alarms, id)
	if idx < 0 {
		return nil
	}
	a := alarms[idx]

	now := c.now()
	if a.Time.Sub(now) > c.d.AutoSnoozeGuard {
		c.l.Debug("auto-snooze skipped for future reservation",
			slog.String("id", id),
			slog.Duration("remaining", a.Time.Sub(now)),
		)
		return nil
	}

	r := Reservation{
		Time:       now.Add(c.d.AutoSnooze),
		Title:      a.Title,
		Detail:     a.Detail,
		Pattern:    RepeatNone,
		Medication: a.Medication(),
		SoundKey:   a.SoundKey,
	}

	if a.Recurring() {
		if err := c.completeLocked(ctx, id, false); err != nil {
			return err
		}
		_, err := c.createLocked(ctx, r)
		return err
	}

	_, err = c.updateLocked(ctx, a.ID, r)
	return err
}

// List returns every reservation, soonest first.
func (c *Controller) List(ctx context.Context) ([]Alarm, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	alarms, err := c.store.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("alarm - Controller.List - store.All: %w", err)
	}

	sortByTime(alarms)
	return alarms, nil
}

// Get -.
func (c *Controller) Get(ctx context.Context, id string) (*Alarm, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	alarms, err := c.store.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("alarm - Controller.Get - store.All: %w", err)
	}

	idx := indexByID(alarms, id)
	if idx < 0 {
		return nil, ErrNotFound
	}
	a := alarms[idx]
	return &a, nil
}

// Restore merges backup records by id: replace on match, append otherwise.
// Native wake-ups are not touched; a startup Rearm re-registers whatever
// is in the future.
func (c *Controller) Restore(ctx context.Context, incoming []Alarm) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	alarms, err := c.store.All(ctx)
	if err != nil {
		return fmt.Errorf("alarm - Controller.Restore - store.All: %w", err)
	}

	for _, in := range incoming {
		if idx := indexByID(alarms, in.ID); idx >= 0 {
			alarms[idx] = in
		} else {
			alarms = append(alarms, in)
		}
	}

	if err := c.store.Replace(ctx, alarms); err != nil {
		return fmt.Errorf("alarm - Controller.Restore - store.Replace: %w", err)
	}
	return nil
}

// Rearm reschedules native wake-ups for persisted future reservations.
// Called once at startup, since scheduled wake-ups do not survive a
// process restart.
func (c *Controller) Rearm(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	alarms, err := c.store.All(ctx)
	if err != nil {
		return fmt.Errorf("alarm - Controller.Rearm - store.All: %w", err)
	}

	now := c.now()
	armed := 0
	for _, a := range alarms {
		if !a.Time.After(now) {
			continue
		}
		if err := c.bridge.Set(ctx, a.Time, DisplayTitle(a.Title, a.Detail, a.Medication()), a.ID); err != nil {
			c.l.Warn("rearm failed", slog.String("id", a.ID), logger.Err(err))
			continue
		}
		armed++
	}

	c.l.Info("reservations rearmed", slog.Int("count", armed), slog.Int("total", len(alarms)))
	return nil
}

func (c *Controller) validate(r Reservation, t time.Time) error {
	pattern := r.effectivePattern()
	if !pattern.Known() {
		return &ValidationError{Field: "repeatPattern", Reason: fmt.Sprintf("unknown pattern %q", r.Pattern)}
	}
	if pattern == RepeatWeekly && len(r.Days) == 0 {
		return &ValidationError{Field: "days", Reason: "weekly reservation needs at least one weekday"}
	}
	for _, d := range r.Days {
		if d < time.Sunday || d > time.Saturday {
			return &ValidationError{Field: "days", Reason: fmt.Sprintf("weekday index %d out of range", d)}
		}
	}
	if pattern == RepeatNone && !t.After(c.now()) {
		return &ValidationError{Field: "time", Reason: "one-shot reservation must be strictly in the future"}
	}
	return nil
}

// Cancel and stop failures are non-fatal: the native entry may already be
// gone, which the lifecycle tolerates everywhere.
func (c *Controller) cancelQuiet(ctx context.Context, id string) {
	if err := c.bridge.Cancel(ctx, id); err != nil {
		c.l.Debug("bridge cancel", slog.String("id", id), logger.Err(err))
	}
}

func (c *Controller) stopQuiet(ctx context.Context) {
	if err := c.bridge.Stop(ctx); err != nil {
		c.l.Debug("bridge stop", logger.Err(err))
	}
}

func newAlarm(id string, t time.Time, r Reservation) Alarm {
	sound := r.SoundKey
	if sound == "" {
		sound = defaultSoundKey
	}

	a := Alarm{
		ID:             id,
		Time:           t,
		NotificationID: id,
		Title:          r.Title,
		Detail:         r.Detail,
		RepeatPattern:  r.effectivePattern(),
		Days:           r.Days,
		SoundKey:       sound,
	}
	if r.Medication != nil {
		a.MedicationName = r.Medication.Name
		a.MedicationAmount = r.Medication.Amount
		a.MedicationUnit = r.Medication.Unit
	}
	return a
}

func indexByID(alarms []Alarm, id string) int {
	for i := range alarms {
		if alarms[i].ID == id {
			return i
		}
	}
	return -1
}

func indexByIDOrNotification(alarms []Alarm, id string) int {
	for i := range alarms {
		if alarms[i].ID == id || alarms[i].NotificationID == id {
			return i
		}
	}
	return -1
}

func sortByTime(alarms []Alarm) {
	sort.Slice(alarms, func(i, j int) bool {
		return alarms[i].Time.Before(alarms[j].Time)
	})
}
