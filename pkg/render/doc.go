// Package render draws one graph of a document as a node-link diagram.
//
// Each node becomes a rounded box labelled with its title (or its node
// class when the title is empty). Each link becomes an arrow from the node
// owning the output pin to the node owning the input pin. Execution links
// are drawn bold, data links thin.
//
//	dot := render.ToDOT(doc.EventGraphs[0], render.Options{})
//	svg, err := render.RenderSVG(ctx, dot)
//
// The DOT source can also be saved and processed with external Graphviz
// tools. [RenderSVG] uses [github.com/goccy/go-graphviz] to render in
// process, so no Graphviz installation is required.
package render
