package alarm

import (
	"context"
	"time"
)

// Bridge is the native alarm capability: exact-time wake-ups keyed by id,
// plus a single system-wide notion of the currently ringing session.
type Bridge interface {
	// Set schedules a wake-up at the given instant. Scheduling an id that
	// is already set replaces the previous wake-up.
	Set(ctx context.Context, at time.Time, displayTitle, id string) error

	// Cancel removes a scheduled wake-up. Unknown ids are a no-op.
	Cancel(ctx context.Context, id string) error

	// Stop halts whatever session is currently ringing, regardless of id.
	Stop(ctx context.Context) error
}
