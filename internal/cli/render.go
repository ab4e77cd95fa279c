package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/bpserial/pkg/render"
)

// renderOpts holds the command-line flags for the render-graph command.
type renderOpts struct {
	output   string // output file; the extension selects the format
	graph    string // graph name, empty for the first graph
	detailed bool   // label edges with pin names and show node comments
}

// renderCommand creates the render-graph command.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render-graph <doc.json>",
		Short: "Draw one graph of a document as DOT or SVG",
		Long: `Draw the nodes and links of one graph of a document.

The output format follows the extension of -o: ".dot" writes Graphviz
source, ".svg" renders it. Without -o the DOT source goes to stdout.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readDocument(args[0])
			if err != nil {
				return err
			}
			g, ok := render.FindGraph(doc, opts.graph)
			if !ok {
				if opts.graph == "" {
					return fmt.Errorf("%s has no graphs", args[0])
				}
				return fmt.Errorf("%s has no graph named %q", args[0], opts.graph)
			}

			dot := render.ToDOT(g, render.Options{Detailed: opts.detailed})
			if opts.output == "" || opts.output == "-" {
				_, err := fmt.Fprint(cmd.OutOrStdout(), dot)
				return err
			}

			var data []byte
			switch ext := strings.ToLower(filepath.Ext(opts.output)); ext {
			case ".dot", ".gv":
				data = []byte(dot)
			case ".svg":
				logger := loggerFromContext(cmd.Context())
				prog := newProgress(logger)
				data, err = render.RenderSVG(cmd.Context(), dot)
				if err != nil {
					return err
				}
				prog.done(fmt.Sprintf("Rendered %s (%d nodes)", g.Name, len(g.Nodes)))
			default:
				return fmt.Errorf("unsupported output format %q: use .dot or .svg", ext)
			}

			if err := os.WriteFile(opts.output, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", opts.output, err)
			}
			w := cmd.OutOrStdout()
			printSuccess(w, "Rendered graph %s", StyleValue.Render(g.Name))
			printFile(w, opts.output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (.dot or .svg)")
	cmd.Flags().StringVar(&opts.graph, "graph", "", "graph to draw (default: the first graph)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show pin names and node comments")
	return cmd
}
