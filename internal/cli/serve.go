package cli

import (
	"context"

	"doc-translator/internal/config"
	"doc-translator/internal/server"
	"doc-translator/internal/translation"

	"github.com/spf13/cobra"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the upload-and-translate web application",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, _ := cmd.Flags().GetString("addr")
			provider, _ := cmd.Flags().GetString("provider")
			return runServe(cmd.Context(), addr, provider)
		},
	}

	cmd.Flags().String("addr", "", "Listen address (default LISTEN_ADDR)")
	cmd.Flags().String("provider", "", "Translation provider: google, gemini or identity (default TRANSLATION_PROVIDER)")

	return cmd
}

// runServe handles the `serve` command.
func runServe(parent context.Context, addr, provider string) error {
	ctx, cancel := setupContext(parent)
	defer cancel()

	cfg := config.Load()
	setLogLevel(cfg.LogLevel)
	if addr == "" {
		addr = cfg.ListenAddr
	}

	deps, err := initDependencies(ctx, cfg, providerName(cfg, provider, false))
	if err != nil {
		return err
	}
	defer deps.Close()

	srv, err := server.New(deps.pipeline, cfg.UploadDir, cfg.OutputDir, cfg.MaxUploadMB, translation.ParseDirection(cfg.DefaultDirection))
	if err != nil {
		return err
	}
	return srv.ListenAndServe(ctx, addr)
}
