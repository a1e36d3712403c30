package alarm

import (
	"context"
	"fmt"

	"github.com/karimata/healthbook/internal/storage/kv"
)

// StorageKey holds the full reservation list as one serialized array.
const StorageKey = "@alarms_list"

// Store mirrors the in-memory reservation list to persistent storage.
type Store struct {
	kv *kv.Store
}

// NewStore -.
func NewStore(kv *kv.Store) *Store {
	return &Store{kv: kv}
}

// All returns the persisted reservation list. A never-written key yields
// an empty list.
func (s *Store) All(ctx context.Context) ([]Alarm, error) {
	var alarms []Alarm
	if _, err := s.kv.Load(ctx, StorageKey, &alarms); err != nil {
		return nil, fmt.Errorf("alarm - Store.All - kv.Load: %w", err)
	}
	return alarms, nil
}

// Replace writes the full list back, overwriting the previous state.
func (s *Store) Replace(ctx context.Context, alarms []Alarm) error {
	if err := s.kv.Save(ctx, StorageKey, alarms); err != nil {
		return fmt.Errorf("alarm - Store.Replace - kv.Save: %w", err)
	}
	return nil
}
