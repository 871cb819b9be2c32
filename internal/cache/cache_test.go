package cache

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	entries map[string]Entry
	lookups int
	err     error
}

func newFakeStore() *fakeStore { return &fakeStore{entries: map[string]Entry{}} }

func (s *fakeStore) Lookup(_ context.Context, hash string) (string, bool, error) {
	s.lookups++
	if s.err != nil {
		return "", false, s.err
	}
	e, ok := s.entries[hash]
	return e.Translated, ok, nil
}

func (s *fakeStore) Upsert(_ context.Context, e Entry) error {
	if s.err != nil {
		return s.err
	}
	s.entries[e.Hash] = e
	return nil
}

func (s *fakeStore) All(_ context.Context) ([]Entry, error) {
	var out []Entry
	for _, e := range s.entries {
		out = append(out, e)
	}
	return out, s.err
}

func TestMemoryOnly(t *testing.T) {
	c := NewTranslationCache(nil)
	ctx := context.Background()

	_, ok := c.Get(ctx, "en", "ja", "Hello")
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "en", "ja", "Hello", "こんにちは"))
	got, ok := c.Get(ctx, "en", "ja", "Hello")
	require.True(t, ok)
	assert.Equal(t, "こんにちは", got)

	_, ok = c.Get(ctx, "en", "ko", "Hello")
	assert.False(t, ok)
	assert.Equal(t, 1, c.Len())
}

func TestStoreReadThrough(t *testing.T) {
	store := newFakeStore()
	store.entries[Key("en", "ja", "Total")] = Entry{Translated: "合計"}
	c := NewTranslationCache(store)
	ctx := context.Background()

	got, ok := c.Get(ctx, "en", "ja", "Total")
	require.True(t, ok)
	assert.Equal(t, "合計", got)

	c.Get(ctx, "en", "ja", "Total")
	assert.Equal(t, 1, store.lookups)
}

func TestSetWritesStore(t *testing.T) {
	store := newFakeStore()
	c := NewTranslationCache(store)

	require.NoError(t, c.Set(context.Background(), "auto", "ja", "Sheet1", "シート1"))
	e, ok := store.entries[Key("auto", "ja", "Sheet1")]
	require.True(t, ok)
	assert.Equal(t, "Sheet1", e.Text)
	assert.Equal(t, "シート1", e.Translated)
}

func TestStoreErrors(t *testing.T) {
	store := newFakeStore()
	store.err = errors.New("connection reset")
	c := NewTranslationCache(store)
	ctx := context.Background()

	_, ok := c.Get(ctx, "en", "ja", "x")
	assert.False(t, ok)
	assert.ErrorIs(t, c.Set(ctx, "en", "ja", "x", "y"), store.err)

	got, ok := c.Get(ctx, "en", "ja", "x")
	require.True(t, ok)
	assert.Equal(t, "y", got)
	assert.ErrorIs(t, c.Preload(ctx), store.err)
}

func TestPreload(t *testing.T) {
	store := newFakeStore()
	for _, text := range []string{"a", "b", "c"} {
		store.entries[Key("en", "ja", text)] = Entry{Hash: Key("en", "ja", text), Translated: text + "!"}
	}
	c := NewTranslationCache(store)

	require.NoError(t, c.Preload(context.Background()))
	assert.Equal(t, 3, c.Len())
	got, ok := c.Get(context.Background(), "en", "ja", "b")
	require.True(t, ok)
	assert.Equal(t, "b!", got)
	assert.Zero(t, store.lookups)
}

func TestConcurrentAccess(t *testing.T) {
	c := NewTranslationCache(nil)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			text := string(rune('a' + i))
			_ = c.Set(ctx, "en", "ja", text, text)
			c.Get(ctx, "en", "ja", text)
		}()
	}
	wg.Wait()
	assert.Equal(t, 16, c.Len())
}
