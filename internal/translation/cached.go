package translation

import (
	"context"

	"github.com/rs/zerolog/log"
)

// Memory remembers earlier translations.
type Memory interface {
	Get(ctx context.Context, source, target, text string) (string, bool)
	Set(ctx context.Context, source, target, text, translated string) error
}

// Cached answers from memory before asking the wrapped translator, and
// stores every fresh translation.
type Cached struct {
	next   Translator
	memory Memory
}

func NewCached(next Translator, memory Memory) *Cached {
	return &Cached{next: next, memory: memory}
}

func (c *Cached) Translate(ctx context.Context, text, source, target string) (string, error) {
	if hit, ok := c.memory.Get(ctx, source, target, text); ok {
		return hit, nil
	}
	translated, err := c.next.Translate(ctx, text, source, target)
	if err != nil {
		return "", err
	}
	if translated != "" {
		if err := c.memory.Set(ctx, source, target, text, translated); err != nil {
			log.Warn().Err(err).Msg("Failed to cache translation")
		}
	}
	return translated, nil
}
