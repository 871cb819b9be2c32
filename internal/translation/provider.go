package translation

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Provider names accepted by NewProvider.
const (
	ProviderGoogle   = "google"
	ProviderGemini   = "gemini"
	ProviderIdentity = "identity"
)

// ProviderConfig selects and configures a provider.
type ProviderConfig struct {
	Name         string
	GoogleAPIKey string
	GeminiAPIKey string
	Model        string
	Timeout      time.Duration
}

// NewProvider builds the translator named by cfg.Name. Providers holding
// connections also implement io.Closer.
func NewProvider(ctx context.Context, cfg ProviderConfig) (Translator, error) {
	switch strings.ToLower(cfg.Name) {
	case ProviderGoogle, "":
		return NewGoogleClient(ctx, cfg.GoogleAPIKey)
	case ProviderGemini:
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("gemini provider: GEMINI_API_KEY is not set")
		}
		return NewGeminiClient(cfg.GeminiAPIKey, cfg.Model, cfg.Timeout), nil
	case ProviderIdentity, "none":
		return Identity{}, nil
	default:
		return nil, fmt.Errorf("unknown translation provider %q", cfg.Name)
	}
}
