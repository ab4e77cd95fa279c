package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/bpserial/pkg/document"
	"github.com/matzehuels/bpserial/pkg/nodekind"
	"github.com/matzehuels/bpserial/pkg/pintype"
)

// Options configures diagram generation.
type Options struct {
	// Detailed adds node comments to labels and pin names to edges.
	Detailed bool
}

// ToDOT converts a graph to Graphviz DOT source. Links whose target pin is
// not in the graph are skipped.
func ToDOT(g document.Graph, opts Options) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "digraph %q {\n", g.Name)
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	type end struct {
		node string
		pin  document.Pin
	}
	owner := make(map[string]end)
	for _, n := range g.Nodes {
		for _, p := range n.Pins {
			owner[p.ID] = end{node: n.GUID, pin: p}
		}
	}

	for _, n := range g.Nodes {
		fmt.Fprintf(&buf, "  %q [%s];\n", n.GUID, strings.Join(fmtAttrs(n, opts.Detailed), ", "))
	}

	buf.WriteString("\n")
	for _, n := range g.Nodes {
		for _, p := range n.Pins {
			if p.Direction != document.DirOutput {
				continue
			}
			for _, target := range p.LinkedTo {
				to, ok := owner[target]
				if !ok {
					continue
				}
				fmt.Fprintf(&buf, "  %q -> %q", n.GUID, to.node)
				if attrs := edgeAttrs(p, to.pin, opts.Detailed); len(attrs) > 0 {
					fmt.Fprintf(&buf, " [%s]", strings.Join(attrs, ", "))
				}
				buf.WriteString(";\n")
			}
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// Label returns the text shown for a node.
func Label(n document.Node) string {
	if n.Title != "" {
		return n.Title
	}
	return nodekind.TrimPrefix(n.Class)
}

func fmtAttrs(n document.Node, detailed bool) []string {
	label := Label(n)
	if detailed && n.Comment != "" {
		label += "\n" + n.Comment
	}
	attrs := []string{fmt.Sprintf("label=%q", label)}
	switch fam := nodekind.Of(n.Class); {
	case fam.IsEvent():
		attrs = append(attrs, "fillcolor=\"#f4cccc\"")
	case n.IsPure:
		attrs = append(attrs, "fillcolor=\"#d9ead3\"")
	case fam == nodekind.Knot:
		attrs = append(attrs, "shape=point", "width=0.1")
	}
	return attrs
}

func edgeAttrs(from, to document.Pin, detailed bool) []string {
	var attrs []string
	if isExec(from) {
		attrs = append(attrs, "penwidth=2.5")
	} else {
		attrs = append(attrs, "color=\"#6d9eeb\"")
	}
	if detailed {
		attrs = append(attrs, fmt.Sprintf("taillabel=%q", from.Name), fmt.Sprintf("headlabel=%q", to.Name), "fontsize=10")
	}
	return attrs
}

func isExec(p document.Pin) bool {
	t, err := pintype.Parse(p.Type)
	return err == nil && t.IsExec()
}

// RenderSVG renders DOT source to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root element so the diagram scales with
// its container.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}

// FindGraph returns the graph of doc with the given name. An empty name
// selects the first event graph.
func FindGraph(doc *document.Document, name string) (document.Graph, bool) {
	if g := doc.Graph(name); g != nil {
		return *g, true
	}
	return document.Graph{}, false
}
