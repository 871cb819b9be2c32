package cli

import (
	"fmt"
	"os"

	"doc-translator/internal/config"
	"doc-translator/internal/document"
	"doc-translator/internal/pipeline"
	"doc-translator/internal/pptx"
	"doc-translator/internal/report"

	"github.com/spf13/cobra"
)

func inspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "List the text units of a document without translating",
		Long: `Reads a document the same way translate does and prints every text unit with its address.
Presentations also list their pictures.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			output, _ := cmd.Flags().GetString("output")
			return runInspect(args[0], format, output)
		},
	}

	cmd.Flags().String("format", "tsv", "Output format: tsv or json")
	cmd.Flags().String("output", "", "Write to this path instead of standard output")

	return cmd
}

// runInspect handles the `inspect` command.
func runInspect(path, format, output string) error {
	cfg := config.Load()
	setLogLevel(cfg.LogLevel)

	f, err := document.FormatFor(path)
	if err != nil {
		return err
	}

	var ins *report.Inspection
	if f == document.FormatPPTX {
		deck, err := pptx.NewCodec(cfg.MaxShapeDepth).ReadDeck(path)
		if err != nil {
			return err
		}
		ins = report.NewInspection(path, f, &document.Extraction{Units: deck.Units, Failures: deck.Failures})
		ins.AddImages(deck.Images)
	} else {
		_, ex, err := pipeline.New(cfg.OutputDir, nil).Extract(path)
		if err != nil {
			return err
		}
		ins = report.NewInspection(path, f, ex)
	}

	if output != "" {
		return report.Export(output, format, ins)
	}
	switch format {
	case "tsv":
		return ins.WriteTSV(os.Stdout)
	case "json":
		return ins.WriteJSON(os.Stdout)
	default:
		return fmt.Errorf("unknown export format %q", format)
	}
}
