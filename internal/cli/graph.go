package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/bpserial/pkg/document"
	"github.com/matzehuels/bpserial/pkg/edit"
	"github.com/matzehuels/bpserial/pkg/schema"
)

// graphCommand creates the graph command and its editing subcommands.
func (c *CLI) graphCommand() *cobra.Command {
	var graphName string

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Inspect and edit the graphs of a document",
		Long: `Inspect and edit one graph of a document without touching raw JSON.

Pins are addressed as <nodeGuid>.<pinName>. Editing commands write the
document back in place unless -o is given; "-o -" writes it to stdout.
Links are kept on both ends, so an edited document stays valid.`,
	}

	cmd.PersistentFlags().StringVarP(&graphName, "graph", "g", "EventGraph", "name of the graph to work on")
	cmd.AddCommand(
		c.listNodesCommand(&graphName),
		c.showGraphCommand(&graphName),
		c.addNodeCommand(&graphName),
		c.removeNodeCommand(&graphName),
		c.connectCommand(&graphName, true),
		c.connectCommand(&graphName, false),
		c.setDefaultCommand(&graphName),
	)
	return cmd
}

// openGraph reads the document at path and opens the named graph.
func openGraph(path, name string, opts edit.Options) (*document.Document, *edit.Editor, error) {
	doc, err := readDocument(path)
	if err != nil {
		return nil, nil, err
	}
	ed, err := edit.Open(doc, name, opts)
	if err != nil {
		return nil, nil, err
	}
	return doc, ed, nil
}

// saveEdit writes an edited document to output, or back to path when
// output is empty.
func (c *CLI) saveEdit(cmd *cobra.Command, doc *document.Document, path, output string) error {
	if output == "" {
		output = path
	}
	if err := c.writeDocument(cmd.OutOrStdout(), doc, output); err != nil {
		return err
	}
	if output != "-" {
		printFile(cmd.ErrOrStderr(), output)
	}
	return nil
}

func (c *CLI) listNodesCommand(graphName *string) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list-nodes <doc.json>",
		Short: "List the nodes of a graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, ed, err := openGraph(args[0], *graphName, edit.Options{})
			if err != nil {
				return err
			}
			nodes := ed.Nodes()
			w := cmd.OutOrStdout()
			if asJSON {
				return schema.WriteJSON(w, nodes, c.cfg.Pretty)
			}
			if len(nodes) == 0 {
				printInfo(w, "Graph %s has no nodes", ed.Graph().Name)
				return nil
			}
			renderNodeTable(w, nodes)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the nodes as JSON")
	return cmd
}

func renderNodeTable(w io.Writer, nodes []edit.NodeSummary) {
	rows := make([][]string, 0, len(nodes))
	for _, n := range nodes {
		rows = append(rows, []string{
			n.GUID,
			n.Class,
			n.Title,
			fmt.Sprintf("%d, %d", n.X, n.Y),
			strconv.Itoa(n.Pins),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("GUID", "Class", "Title", "Position", "Pins").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == 0 {
				return StyleDim
			}
			return lipgloss.NewStyle()
		})
	fmt.Fprintln(w, t)
}

func (c *CLI) showGraphCommand(graphName *string) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <doc.json>",
		Short: "Summarise a graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, ed, err := openGraph(args[0], *graphName, edit.Options{})
			if err != nil {
				return err
			}
			s := ed.Summary()
			w := cmd.OutOrStdout()
			if asJSON {
				return schema.WriteJSON(w, s, c.cfg.Pretty)
			}
			printKeyValue(w, "Graph", s.Name)
			printKeyValue(w, "Type", s.Type)
			printKeyValue(w, "GUID", s.GUID)
			printKeyValue(w, "Nodes", strconv.Itoa(s.Nodes))
			printKeyValue(w, "Links", strconv.Itoa(s.Links))
			for _, cc := range s.Classes {
				printDetail(w, "%-40s %d", cc.Class, cc.Count)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the summary as JSON")
	return cmd
}

func (c *CLI) addNodeCommand(graphName *string) *cobra.Command {
	var (
		output  string
		pos     string
		title   string
		comment string
		fields  []string
		offline bool
	)

	cmd := &cobra.Command{
		Use:   "add-node <doc.json> <nodeClass>",
		Short: "Add a node with its default pins",
		Long: `Add a node of the given class with a fresh GUID and the pins the class
starts with. The class may be given without its K2Node_ prefix.

Kind fields are set with --set, for example
  --set functionReference=/Script/Engine.KismetSystemLibrary:PrintString
  --set variableReference=Hits

The class is checked against the node schema and its pins come from the
registry. With --offline neither is consulted and any class is accepted.
The new node's GUID is printed to stdout.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			spec := edit.NodeSpec{Class: args[1], Title: title, Comment: comment}
			var err error
			if spec.X, spec.Y, err = parsePosition(pos); err != nil {
				return err
			}
			if spec.Fields, err = parseAssignments(fields); err != nil {
				return err
			}

			var opts edit.Options
			if !offline {
				if opts, err = c.editOptions(cmd.Context()); err != nil {
					return err
				}
			}
			doc, ed, err := openGraph(args[0], *graphName, opts)
			if err != nil {
				return err
			}
			n, err := ed.AddNode(spec)
			if err != nil {
				return err
			}
			if err := c.saveEdit(cmd, doc, args[0], output); err != nil {
				return err
			}
			printSuccess(cmd.ErrOrStderr(), "Added %s to %s with %d pins", nodeLabel(n), ed.Graph().Name, len(n.Pins))
			if output != "-" {
				fmt.Fprintln(cmd.OutOrStdout(), n.GUID)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: edit in place)")
	cmd.Flags().StringVar(&pos, "pos", "0,0", "node position as X,Y")
	cmd.Flags().StringVar(&title, "title", "", "node title (default from the schema)")
	cmd.Flags().StringVar(&comment, "comment", "", "node comment")
	cmd.Flags().StringArrayVar(&fields, "set", nil, "kind field as key=value (repeatable)")
	cmd.Flags().BoolVar(&offline, "offline", false, "skip the registry and the node schema")
	return cmd
}

// editOptions loads the registry and the cached node schema.
func (c *CLI) editOptions(ctx context.Context) (edit.Options, error) {
	sc, store, err := c.newSchemaCache(ctx)
	if err != nil {
		return edit.Options{}, err
	}
	defer store.Close()

	s, err := sc.Get(ctx)
	if s == nil {
		return edit.Options{}, err
	}
	if err != nil {
		loggerFromContext(ctx).Warn("schema cache not updated", "err", err)
	}
	return edit.Options{Registry: sc.Registry(), Schema: s}, nil
}

func nodeLabel(n document.Node) string {
	if n.Title != "" {
		return fmt.Sprintf("%s (%s)", n.Title, n.GUID)
	}
	return n.GUID
}

func parsePosition(s string) (x, y int, err error) {
	xs, ys, ok := strings.Cut(s, ",")
	if ok {
		x, err = strconv.Atoi(strings.TrimSpace(xs))
	}
	if ok && err == nil {
		y, err = strconv.Atoi(strings.TrimSpace(ys))
	}
	if !ok || err != nil {
		return 0, 0, fmt.Errorf("invalid --pos %q: want X,Y", s)
	}
	return x, y, nil
}

func parseAssignments(pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid --set %q: want key=value", p)
		}
		out[k] = v
	}
	return out, nil
}

func (c *CLI) removeNodeCommand(graphName *string) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "remove-node <doc.json> <nodeGuid>",
		Short: "Remove a node and its links",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, ed, err := openGraph(args[0], *graphName, edit.Options{})
			if err != nil {
				return err
			}
			if err := ed.RemoveNode(args[1]); err != nil {
				return err
			}
			if err := c.saveEdit(cmd, doc, args[0], output); err != nil {
				return err
			}
			printSuccess(cmd.ErrOrStderr(), "Removed %s from %s", args[1], ed.Graph().Name)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: edit in place)")
	return cmd
}

// connectCommand creates connect, or disconnect when link is false.
func (c *CLI) connectCommand(graphName *string, link bool) *cobra.Command {
	var output string

	use, short, verb := "connect", "Link two pins", "Connected"
	if !link {
		use, short, verb = "disconnect", "Remove the link between two pins", "Disconnected"
	}

	cmd := &cobra.Command{
		Use:   use + " <doc.json> <fromGuid.pin> <toGuid.pin>",
		Short: short,
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := edit.ParsePinRef(args[1])
			if err != nil {
				return err
			}
			to, err := edit.ParsePinRef(args[2])
			if err != nil {
				return err
			}
			doc, ed, err := openGraph(args[0], *graphName, edit.Options{})
			if err != nil {
				return err
			}
			if link {
				err = ed.Connect(from, to)
			} else {
				err = ed.Disconnect(from, to)
			}
			if err != nil {
				return err
			}
			if err := c.saveEdit(cmd, doc, args[0], output); err != nil {
				return err
			}
			printSuccess(cmd.ErrOrStderr(), "%s %s and %s", verb, from, to)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: edit in place)")
	return cmd
}

func (c *CLI) setDefaultCommand(graphName *string) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "set-default <doc.json> <nodeGuid.pin> <value>",
		Short: "Set the default value of a pin",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := edit.ParsePinRef(args[1])
			if err != nil {
				return err
			}
			doc, ed, err := openGraph(args[0], *graphName, edit.Options{})
			if err != nil {
				return err
			}
			if err := ed.SetDefault(ref, args[2]); err != nil {
				return err
			}
			if err := c.saveEdit(cmd, doc, args[0], output); err != nil {
				return err
			}
			printSuccess(cmd.ErrOrStderr(), "Set %s to %q", ref, args[2])
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: edit in place)")
	return cmd
}
