package cli

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"doc-translator/internal/cache"
	"doc-translator/internal/config"
	"doc-translator/internal/document"
	"doc-translator/internal/pipeline"
	"doc-translator/internal/pptx"
	"doc-translator/internal/translation"
	"doc-translator/internal/xlsx"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// Execute runs the CLI application.
func Execute() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "doc-translator",
		Short: "Translate Word, PowerPoint, Excel and text documents",
		Long:  "Extracts the text of office documents, translates it through a machine translation provider and writes a copy that keeps the original formatting.",

		SilenceUsage: true,
	}

	rootCmd.AddCommand(translateCmd())
	rootCmd.AddCommand(inspectCmd())
	rootCmd.AddCommand(serveCmd())

	return rootCmd
}

// setupContext creates a cancellable context with signal handling.
func setupContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-sigCh:
			log.Warn().Msg("Received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()

	return ctx, cancel
}

func setLogLevel(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		log.Warn().Str("level", level).Msg("Unknown log level, using info")
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
}

// dependencies holds what a command needs to translate documents.
type dependencies struct {
	pipeline *pipeline.Pipeline
	closers  []io.Closer
	store    *cache.PostgresStore
}

func (d *dependencies) Close() {
	for _, c := range d.closers {
		if err := c.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close provider")
		}
	}
	if d.store != nil {
		d.store.Close()
	}
}

// initDependencies wires the provider, the translation cache and the
// codecs into a pipeline.
func initDependencies(ctx context.Context, cfg *config.Config, provider string) (*dependencies, error) {
	deps := &dependencies{}

	tr, err := translation.NewProvider(ctx, translation.ProviderConfig{
		Name:         provider,
		GoogleAPIKey: cfg.GoogleAPIKey,
		GeminiAPIKey: cfg.GeminiAPIKey,
		Model:        cfg.TranslationModel,
		Timeout:      cfg.ProviderTimeout,
	})
	if err != nil {
		return nil, err
	}
	if c, ok := tr.(io.Closer); ok {
		deps.closers = append(deps.closers, c)
	}

	if provider != translation.ProviderIdentity {
		var store cache.Store
		if cfg.DatabaseURL != "" {
			pg, err := cache.Connect(ctx, cfg.DatabaseURL)
			if err != nil {
				deps.Close()
				return nil, err
			}
			log.Info().Msg("Connected to PostgreSQL")
			deps.store = pg
			store = pg
		}
		translationCache := cache.NewTranslationCache(store)
		if err := translationCache.Preload(ctx); err != nil {
			log.Warn().Err(err).Msg("Failed to preload cache")
		}
		tr = translation.NewCached(tr, translationCache)
	}

	backends := []xlsx.Backend{xlsx.NewStructuralBackend()}
	if cfg.ExcelAutomation {
		backends = append([]xlsx.Backend{xlsx.NewAutomationBackend(cfg.ExcelOpenAttempts, cfg.ExcelRetryDelay)}, backends...)
	}

	deps.pipeline = pipeline.New(cfg.OutputDir, translation.NewPass(tr, cfg.WorkerCount),
		pipeline.WithCodec(document.FormatPPTX, pptx.NewCodec(cfg.MaxShapeDepth)),
		pipeline.WithCodec(document.FormatXLSX, xlsx.NewCodec(backends...)),
	)
	log.Info().
		Str("provider", provider).
		Int("workers", cfg.WorkerCount).
		Bool("excel_automation", cfg.ExcelAutomation).
		Str("output_dir", cfg.OutputDir).
		Msg("Pipeline ready")
	return deps, nil
}

func providerName(cfg *config.Config, flag string, dryRun bool) string {
	switch {
	case dryRun:
		return translation.ProviderIdentity
	case flag != "":
		return flag
	default:
		return cfg.TranslationProvider
	}
}
