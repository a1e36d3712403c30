// Package kv persists whole collections under single keys, the way the
// application treats its storage: read the full list, mutate it, write it back.
package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/karimata/healthbook/pkg/badgerstore"
)

// Store -.
type Store struct {
	db *badger.DB
}

// New -.
func New(b *badgerstore.Badger) *Store {
	return &Store{db: b.DB}
}

// Load unmarshals the value stored under key into v.
// Returns false with a nil error when the key has never been written.
func (s *Store) Load(ctx context.Context, key string, v any) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	var raw []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		raw, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("kv - Load - db.View: %w", err)
	}

	if err := json.Unmarshal(raw, v); err != nil {
		return false, fmt.Errorf("kv - Load - json.Unmarshal: %w", err)
	}
	return true, nil
}

// Save marshals v and writes it under key, replacing any previous value.
func (s *Store) Save(ctx context.Context, key string, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("kv - Save - json.Marshal: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), raw)
	})
	if err != nil {
		return fmt.Errorf("kv - Save - db.Update: %w", err)
	}
	return nil
}

// LoadString -.
func (s *Store) LoadString(ctx context.Context, key string) (string, bool, error) {
	var v string
	found, err := s.Load(ctx, key, &v)
	return v, found, err
}

// SaveString -.
func (s *Store) SaveString(ctx context.Context, key, value string) error {
	return s.Save(ctx, key, value)
}
