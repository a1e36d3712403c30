// Package badgerstore implements the embedded key-value storage connection.
package badgerstore

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"
)

const (
	_defaultGCInterval   = 5 * time.Minute
	_defaultGCDiscard    = 0.5
	_defaultSyncWrites   = true
	_defaultDirReadWrite = 0o750
)

// Badger -.
type Badger struct {
	inMemory   bool
	syncWrites bool
	gcInterval time.Duration
	gcDiscard  float64
	log        *slog.Logger

	DB *badger.DB

	gcStop chan struct{}
	gcDone chan struct{}
}

// New opens the database at path, creating the directory if needed.
// Pass InMemory() for tests.
func New(path string, opts ...Option) (*Badger, error) {
	b := &Badger{
		syncWrites: _defaultSyncWrites,
		gcInterval: _defaultGCInterval,
		gcDiscard:  _defaultGCDiscard,
	}

	// Custom options
	for _, opt := range opts {
		opt(b)
	}

	var dbOpts badger.Options
	if b.inMemory {
		dbOpts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if path == "" {
			return nil, errors.New("badgerstore - New - path is required")
		}
		if err := os.MkdirAll(path, _defaultDirReadWrite); err != nil {
			return nil, fmt.Errorf("badgerstore - New - os.MkdirAll: %w", err)
		}
		dbOpts = badger.DefaultOptions(path)
	}

	dbOpts = dbOpts.WithSyncWrites(b.syncWrites).WithNumVersionsToKeep(1)

	if b.log != nil {
		dbOpts = dbOpts.WithLogger(&slogAdapter{log: b.log})
	} else {
		dbOpts = dbOpts.WithLogger(nil)
	}

	db, err := badger.Open(dbOpts)
	if err != nil {
		return nil, fmt.Errorf("badgerstore - New - badger.Open: %w", err)
	}
	b.DB = db

	if b.gcInterval > 0 && !b.inMemory {
		b.gcStop = make(chan struct{})
		b.gcDone = make(chan struct{})
		go b.runGC()
	}

	return b, nil
}

// Close -.
func (b *Badger) Close() error {
	if b.gcStop != nil {
		close(b.gcStop)
		<-b.gcDone
	}
	return b.DB.Close()
}

func (b *Badger) runGC() {
	defer close(b.gcDone)

	ticker := time.NewTicker(b.gcInterval)
	defer ticker.Stop()

	for {
		select {
		case <-b.gcStop:
			return
		case <-ticker.C:
			// ErrNoRewrite means nothing to collect, not a failure.
			err := b.DB.RunValueLogGC(b.gcDiscard)
			if err != nil && !errors.Is(err, badger.ErrNoRewrite) && b.log != nil {
				b.log.Warn("badgerstore value log GC", slog.String("error", err.Error()))
			}
		}
	}
}

// slogAdapter adapts slog to badger's Logger interface.
type slogAdapter struct {
	log *slog.Logger
}

func (a *slogAdapter) Errorf(format string, args ...interface{}) {
	a.log.Error(fmt.Sprintf(format, args...))
}

func (a *slogAdapter) Warningf(format string, args ...interface{}) {
	a.log.Warn(fmt.Sprintf(format, args...))
}

func (a *slogAdapter) Infof(format string, args ...interface{}) {
	a.log.Debug(fmt.Sprintf(format, args...))
}

func (a *slogAdapter) Debugf(format string, args ...interface{}) {
	a.log.Debug(fmt.Sprintf(format, args...))
}
