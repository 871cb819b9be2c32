package translation

import (
	"context"
	"errors"
	"strings"

	"doc-translator/internal/document"
	"doc-translator/internal/textutil"
	"doc-translator/internal/worker"

	"github.com/rs/zerolog/log"
)

// ErrEmptyTranslation is recorded when a provider returns nothing for a
// text that was not blank.
var ErrEmptyTranslation = errors.New("provider returned an empty translation")

// Pass translates the units of one document.
type Pass struct {
	translator Translator
	workers    int
}

// NewPass creates a pass running up to workers provider calls at once.
func NewPass(t Translator, workers int) *Pass {
	if workers < 1 {
		workers = 1
	}
	return &Pass{translator: t, workers: workers}
}

// Run returns one unit per input in input order. Blank units are returned
// unchanged without a provider call. A unit whose call fails or comes back
// empty keeps its original text and is reported as a failure.
func (p *Pass) Run(ctx context.Context, units []document.Unit, dir Direction) ([]document.Unit, []document.UnitError) {
	out := make([]document.Unit, len(units))
	copy(out, units)

	var pending []int
	for i, u := range units {
		if !document.IsBlank(u.Text) {
			pending = append(pending, i)
		}
	}
	if len(pending) == 0 {
		return out, nil
	}

	pool := worker.NewPool(p.workers, func(ctx context.Context, i int) (string, error) {
		translated, err := p.translator.Translate(ctx, units[i].Text, dir.Source, dir.Target)
		if err != nil {
			return "", err
		}
		if strings.TrimSpace(translated) == "" {
			return "", ErrEmptyTranslation
		}
		return translated, nil
	})

	var failures []document.UnitError
	for _, task := range pool.Execute(ctx, pending) {
		u := units[task.Input]
		if task.Err != nil {
			failures = append(failures, document.UnitError{Addr: u.Addr, Stage: document.StageTranslate, Err: task.Err})
			log.Warn().
				Err(task.Err).
				Str("unit", u.Addr.String()).
				Str("text", textutil.Truncate(u.Text, 40)).
				Msg("Keeping original text")
			continue
		}
		out[task.Input].Text = task.Result
	}

	log.Debug().
		Str("direction", dir.String()).
		Int("units", len(units)).
		Int("translated", len(pending)-len(failures)).
		Int("failed", len(failures)).
		Msg("Translation pass complete")
	return out, failures
}
