package kv_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/karimata/healthbook/internal/storage/kv"
	"github.com/karimata/healthbook/pkg/badgerstore"
)

type record struct {
	ID   string    `json:"id"`
	Time time.Time `json:"time"`
}

func newStore(t *testing.T) *kv.Store {
	t.Helper()

	b, err := badgerstore.New("", badgerstore.InMemory())
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })

	return kv.New(b)
}

func TestStore_LoadMissingKey(t *testing.T) {
	s := newStore(t)

	var out []record
	found, err := s.Load(context.Background(), "@alarms_list", &out)
	require.NoError(t, err)
	require.False(t, found)
	require.Empty(t, out)
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	in := []record{
		{ID: "a", Time: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)},
		{ID: "b", Time: time.Date(2026, 3, 2, 21, 30, 0, 0, time.UTC)},
	}
	require.NoError(t, s.Save(ctx, "@alarms_list", in))

	var out []record
	found, err := s.Load(ctx, "@alarms_list", &out)
	require.NoError(t, err)
	require.True(t, found)
	require.Len(t, out, 2)
	require.True(t, in[0].Time.Equal(out[0].Time))
	require.Equal(t, "b", out[1].ID)
}

func TestStore_SaveReplacesWholeValue(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "k", []record{{ID: "a"}, {ID: "b"}}))
	require.NoError(t, s.Save(ctx, "k", []record{{ID: "c"}}))

	var out []record
	_, err := s.Load(ctx, "k", &out)
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, "c", out[0].ID)
}

func TestStore_Strings(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	_, found, err := s.LoadString(ctx, "@time_format")
	require.NoError(t, err)
	require.False(t, found)

	require.NoError(t, s.SaveString(ctx, "@time_format", "h24"))

	v, found, err := s.LoadString(ctx, "@time_format")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "h24", v)
}
