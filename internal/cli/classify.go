package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"sdsposter/internal/domain"
)

func newClassifyCommand(out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "classify <token>...",
		Short: "Show which GHS pictogram each hazard token maps to",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, token := range args {
				code, ok := domain.ClassifyPictogram(token)
				if !ok {
					fmt.Fprintf(out, "%s\t-\n", token)
					continue
				}
				p, _ := domain.LookupPictogram(code)
				fmt.Fprintf(out, "%s\t%s\t%s\n", token, code, p.Label)
			}
			return nil
		},
	}
}
