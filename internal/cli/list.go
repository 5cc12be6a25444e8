package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/combviz/pkg/pipeline"
	"github.com/matzehuels/combviz/pkg/scribe"
)

// listCommand creates the list command, which prints a decoded program.
func (c *CLI) listCommand() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "list [base64]",
		Short: "Print the nodes of a program",
		Long: `Decode a program and print its nodes children first, marking the outermost
literals and the nodes folded into them.`,
		Example: `  combviz list pA==
  combviz list --file program.b64`,
		Args: programArgs(&file),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readProgram(args, file, cmd.InOrStdin())
			if err != nil {
				return err
			}
			p, err := pipeline.Decode(text)
			if err != nil {
				return err
			}
			an := scribe.Analyze(p.Arena, p.Root)

			c.Logger.Debug("decoded program", "nodes", p.Arena.Len(), "literals", len(an.Top))
			fmt.Fprintln(c.Out, programTable(p, an))
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "read the program from a file (- for stdin)")

	return cmd
}
