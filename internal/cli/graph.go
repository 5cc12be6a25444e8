package cli

import (
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/combviz/pkg/errors"
	"github.com/matzehuels/combviz/pkg/io"
	"github.com/matzehuels/combviz/pkg/pipeline"
)

// stdoutPath selects standard output as the artifact destination.
const stdoutPath = "-"

// graphFlags holds the flags of the graph command.
type graphFlags struct {
	file    string
	output  string
	format  string
	sharing string
	mode    string
	rankSep float64
	noCache bool
	refresh bool
}

// graphCommand creates the graph command, which renders a program.
func (c *CLI) graphCommand() *cobra.Command {
	var f graphFlags

	cmd := &cobra.Command{
		Use:   "graph [base64]",
		Short: "Render a program as a node-link graph",
		Long: `Decode a program, fold its literals and render the result with Graphviz.

The artifact is written to simplicity.svg unless -o names another file. The
format follows -f, then the extension of -o, then the config file. DOT output
goes to stdout unless -o is given; "-o -" sends any format to stdout.`,
		Example: `  combviz graph pA==
  combviz graph -o program.png IkkqEoA=
  combviz graph -f dot --sharing full --file program.b64 | dot -Tpdf > program.pdf`,
		Args: programArgs(&f.file),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readProgram(args, f.file, cmd.InOrStdin())
			if err != nil {
				return err
			}
			return c.runGraph(cmd, text, f)
		},
	}

	cmd.Flags().StringVar(&f.file, "file", "", "read the program from a file (- for stdin)")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output file (default simplicity.svg, - for stdout)")
	cmd.Flags().StringVarP(&f.format, "format", "f", "", "output format: dot, svg, png, pdf, json")
	cmd.Flags().StringVar(&f.sharing, "sharing", "", "sharing policy: maximal or full")
	cmd.Flags().StringVar(&f.mode, "mode", "", "traversal: truncate or reachable")
	cmd.Flags().Float64Var(&f.rankSep, "ranksep", 0, "vertical spacing between ranks, in inches")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "re-render even if the artifact is cached")

	_ = cmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions(
		[]string{"dot", "svg", "png", "pdf", "json"}, cobra.ShellCompDirectiveNoFileComp))
	_ = cmd.RegisterFlagCompletionFunc("sharing", cobra.FixedCompletions(
		[]string{pipeline.SharingMaximal, pipeline.SharingFull}, cobra.ShellCompDirectiveNoFileComp))
	_ = cmd.RegisterFlagCompletionFunc("mode", cobra.FixedCompletions(
		[]string{"truncate", "reachable"}, cobra.ShellCompDirectiveNoFileComp))

	return cmd
}

// runGraph resolves the settings, runs the pipeline and writes the artifact.
func (c *CLI) runGraph(cmd *cobra.Command, program string, f graphFlags) error {
	format, output, err := c.resolveOutput(cmd, f)
	if err != nil {
		return err
	}

	opts := pipeline.Options{
		Program: program,
		Formats: []string{format},
		Sharing: c.Config.Sharing,
		Mode:    c.Config.Mode,
		RankSep: c.Config.RankSep,
		TTL:     c.cacheTTL(),
		Refresh: f.refresh,
		Logger:  c.Logger,
	}
	if cmd.Flags().Changed("sharing") {
		opts.Sharing = f.sharing
	}
	if cmd.Flags().Changed("mode") {
		opts.Mode = f.mode
	}
	if cmd.Flags().Changed("ranksep") {
		opts.RankSep = f.rankSep
	}

	if f.refresh && (f.noCache || !c.Config.Cache) {
		printWarning(c.Err, "--refresh has no effect while the cache is disabled")
	}

	runner := c.newRunner(f.noCache)
	defer runner.Close()

	result, err := runner.Execute(cmd.Context(), opts)
	if err != nil {
		return err
	}
	data := result.Artifacts[format]

	if output == stdoutPath {
		if _, err := c.Out.Write(data); err != nil {
			return errors.Wrap(errors.ErrCodeIO, err, "write output")
		}
		return nil
	}

	if err := io.WriteFile(output, data); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "write %s", output)
	}

	printSuccess(c.Err, "Rendered %s", strings.ToUpper(format))
	printFile(c.Err, output)
	printStats(c.Err, result.Stats.EntryCount, result.Stats.EdgeCount, result.Graph.LiteralCount(), result.CacheInfo.RenderHit)
	return nil
}

// resolveOutput picks the artifact format and destination from the flags and
// the config.
func (c *CLI) resolveOutput(cmd *cobra.Command, f graphFlags) (format, output string, err error) {
	outputSet := cmd.Flags().Changed("output")
	formatSet := cmd.Flags().Changed("format")

	switch {
	case formatSet:
		format = f.format
	case outputSet && f.output != stdoutPath:
		format = pipeline.FormatForPath(f.output)
		if format == "" {
			format = c.Config.Format
		}
	default:
		format = c.Config.Format
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		return "", "", err
	}

	switch {
	case outputSet:
		output = f.output
	case format == pipeline.FormatDOT:
		output = stdoutPath
	default:
		output = withFormatExt(c.Config.Output, format)
	}

	if output != stdoutPath {
		if err := errors.ValidateOutputPath(output); err != nil {
			return "", "", err
		}
	}
	return format, output, nil
}

// withFormatExt replaces the extension of path with format when the
// extension names a different known format.
func withFormatExt(path, format string) string {
	if current := pipeline.FormatForPath(path); current == "" || current == format {
		return path
	}
	return strings.TrimSuffix(path, filepath.Ext(path)) + "." + format
}
