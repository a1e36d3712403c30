package badgerstore

import (
	"log/slog"
	"time"
)

// Option -.
type Option func(*Badger)

// InMemory disables disk persistence. Data is lost on Close.
func InMemory() Option {
	return func(b *Badger) {
		b.inMemory = true
		b.syncWrites = false
		b.gcInterval = 0
	}
}

// SyncWrites -.
func SyncWrites(sync bool) Option {
	return func(b *Badger) {
		b.syncWrites = sync
	}
}

// GCInterval sets the value log GC period. Zero disables GC.
func GCInterval(interval time.Duration) Option {
	return func(b *Badger) {
		b.gcInterval = interval
	}
}

// Logger -.
func Logger(log *slog.Logger) Option {
	return func(b *Badger) {
		b.log = log
	}
}
