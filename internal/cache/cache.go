package cache

import (
	"context"
	"fmt"
	"sync"

	"doc-translator/internal/textutil"

	"github.com/rs/zerolog/log"
)

// Entry is one remembered translation.
type Entry struct {
	Hash       string
	Source     string
	Target     string
	Text       string
	Translated string
}

// Store persists entries beyond the life of the process.
type Store interface {
	Lookup(ctx context.Context, hash string) (string, bool, error)
	Upsert(ctx context.Context, e Entry) error
	All(ctx context.Context) ([]Entry, error)
}

// TranslationCache provides in-memory caching for translations, backed by
// an optional Store.
type TranslationCache struct {
	store  Store
	mu     sync.RWMutex
	memory map[string]string // hash → translated text
}

// NewTranslationCache creates a cache. store may be nil for a memory-only
// cache.
func NewTranslationCache(store Store) *TranslationCache {
	return &TranslationCache{
		store:  store,
		memory: make(map[string]string),
	}
}

// Key identifies a text translated in one direction.
func Key(source, target, text string) string {
	return textutil.Hash(source, target, text)
}

// Get retrieves a cached translation. Returns empty string and false if not found.
func (c *TranslationCache) Get(ctx context.Context, source, target, text string) (string, bool) {
	hash := Key(source, target, text)

	c.mu.RLock()
	if v, ok := c.memory[hash]; ok {
		c.mu.RUnlock()
		return v, true
	}
	c.mu.RUnlock()

	if c.store == nil {
		return "", false
	}
	translated, ok, err := c.store.Lookup(ctx, hash)
	if err != nil {
		log.Debug().Err(err).Msg("Cache lookup failed")
		return "", false
	}
	if !ok {
		return "", false
	}

	c.mu.Lock()
	c.memory[hash] = translated
	c.mu.Unlock()

	return translated, true
}

// Set stores a translation in memory and in the store.
func (c *TranslationCache) Set(ctx context.Context, source, target, text, translated string) error {
	hash := Key(source, target, text)

	c.mu.Lock()
	c.memory[hash] = translated
	c.mu.Unlock()

	if c.store == nil {
		return nil
	}
	err := c.store.Upsert(ctx, Entry{
		Hash:       hash,
		Source:     source,
		Target:     target,
		Text:       text,
		Translated: translated,
	})
	if err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Preload loads all stored translations into memory.
func (c *TranslationCache) Preload(ctx context.Context) error {
	if c.store == nil {
		return nil
	}
	entries, err := c.store.All(ctx)
	if err != nil {
		return fmt.Errorf("preload cache: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, e := range entries {
		c.memory[e.Hash] = e.Translated
	}

	log.Info().Int("count", len(entries)).Msg("Preloaded translation cache")
	return nil
}

// Len reports how many translations are held in memory.
func (c *TranslationCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.memory)
}
