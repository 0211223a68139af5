// Package cli implements the extract command: a one-shot extraction of a
// local SDS file, printed as JSON or YAML.
package cli

import (
	"io"

	"github.com/spf13/cobra"
)

// NewRootCommand builds the command tree. out receives the extraction result.
func NewRootCommand(out io.Writer) *cobra.Command {
	opts := &extractOptions{}

	root := &cobra.Command{
		Use:   "extract <file>",
		Short: "Extract a trilingual hazard summary from an SDS",
		Long: `extract sends a safety data sheet (PDF or image) to the configured
extraction backend and prints the normalized hazard record with its resolved
GHS pictograms.

Settings come from SDSPOSTER_* environment variables; flags override them.

Example:
  extract sds.pdf
  extract label.png --provider openai --key $OPENAI_API_KEY --format yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd.Context(), out, args[0], opts)
		},
	}

	root.Flags().StringVarP(&opts.format, "format", "f", "json", "output format (json, yaml)")
	root.Flags().StringVar(&opts.key, "key", "", "extraction API key (default: SDSPOSTER_PARSER_API_KEY)")
	root.Flags().StringVar(&opts.provider, "provider", "", "extraction backend (gemini, openai, claude)")
	root.Flags().StringVar(&opts.model, "model", "", "model name override")
	root.Flags().DurationVar(&opts.timeout, "timeout", 0, "overall extraction timeout (default: SDSPOSTER_EXTRACTION_TIMEOUT)")

	root.AddCommand(newClassifyCommand(out))
	return root
}
