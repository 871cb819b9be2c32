package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"doc-translator/internal/config"
	"doc-translator/internal/filewalker"
	"doc-translator/internal/report"
	"doc-translator/internal/translation"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

type translateOptions struct {
	direction string
	outputDir string
	provider  string
	dryRun    bool
	summary   string
}

func translateCmd() *cobra.Command {
	opts := &translateOptions{}
	cmd := &cobra.Command{
		Use:   "translate <file-or-directory>",
		Short: "Translate a document, or every supported document under a directory",
		Long: `Translates .docx, .pptx, .xlsx/.xlsm/.xltx/.xltm, .txt and .csv files.
Each result is written to the output directory as <name>_translated_<timestamp><ext>.
Directories are searched recursively and documents are translated one after another.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTranslate(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.direction, "direction", "d", "", `Translation direction such as "en->ja" (default DEFAULT_DIRECTION)`)
	cmd.Flags().StringVarP(&opts.outputDir, "output-dir", "o", "", "Output directory (default OUTPUT_DIR)")
	cmd.Flags().StringVar(&opts.provider, "provider", "", "Translation provider: google, gemini or identity (default TRANSLATION_PROVIDER)")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Rewrite documents without calling a provider")
	cmd.Flags().StringVar(&opts.summary, "summary", "", "Write a JSON summary of every document to this path")

	return cmd
}

// runTranslate handles the `translate` command.
func runTranslate(parent context.Context, target string, opts *translateOptions) error {
	ctx, cancel := setupContext(parent)
	defer cancel()

	cfg := config.Load()
	setLogLevel(cfg.LogLevel)
	if opts.outputDir != "" {
		cfg.OutputDir = opts.outputDir
	}
	direction := cfg.DefaultDirection
	if opts.direction != "" {
		direction = opts.direction
	}
	dir := translation.ParseDirection(direction)

	inputs, err := collectInputs(target, cfg)
	if err != nil {
		return err
	}

	deps, err := initDependencies(ctx, cfg, providerName(cfg, opts.provider, opts.dryRun))
	if err != nil {
		return err
	}
	defer deps.Close()

	log.Info().Int("files", len(inputs)).Str("direction", dir.String()).Msg("Starting translation")

	var (
		summaries []report.Summary
		failed    int
	)
	for _, input := range inputs {
		if ctx.Err() != nil {
			break
		}
		res, err := deps.pipeline.TranslateDocument(ctx, input, dir)
		summaries = append(summaries, report.NewSummary(input, res, err))
		if err != nil {
			failed++
			log.Error().Err(err).Str("file", input).Msg("Document failed")
			continue
		}
		for _, f := range res.Failures {
			log.Warn().Str("file", input).Str("stage", string(f.Stage)).Msg(f.Error())
		}
		fmt.Println(res.Output)
	}

	if opts.summary != "" {
		if err := writeSummary(opts.summary, summaries); err != nil {
			return err
		}
	}

	log.Info().
		Int("documents", len(summaries)).
		Int("failed", failed).
		Msg("Translation finished")

	if err := ctx.Err(); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d documents failed", failed, len(inputs))
	}
	return nil
}

// collectInputs resolves target to the documents to translate. A single
// file is passed through even when its extension is unsupported so the
// pipeline can report it.
func collectInputs(target string, cfg *config.Config) ([]string, error) {
	info, err := os.Stat(target)
	if err != nil {
		return nil, fmt.Errorf("stat input: %w", err)
	}
	if !info.IsDir() {
		return []string{target}, nil
	}

	entries, err := filewalker.NewWalker(cfg.OutputDir, cfg.UploadDir).Walk(target)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, errors.New("no supported documents found")
	}
	inputs := make([]string, len(entries))
	for i, e := range entries {
		inputs[i] = e.Path
	}
	return inputs, nil
}

func writeSummary(path string, summaries []report.Summary) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create summary file: %w", err)
	}
	defer f.Close()
	if err := report.WriteSummaries(f, summaries); err != nil {
		return err
	}
	log.Info().Str("path", path).Msg("Wrote summary")
	return nil
}
