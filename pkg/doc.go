// Package pkg provides the core libraries of bpserial, the Blueprint graph
// serializer.
//
// # Overview
//
// bpserial converts visual-script blueprints (variables, functions, macros,
// components and the node graphs behind them) to a stable JSON document and
// back. The pkg directory is organized into four main areas:
//
//  1. Type and reference codecs ([pintype], [memberref])
//  2. The document model and its codec ([document], [codec], [nodekind])
//  3. Checks and tooling over documents ([validate], [diff], [render], [edit])
//  4. The node schema and its cache ([schema], [cache])
//
// # Architecture
//
// The typical data flow:
//
//	In-memory blueprint ([blueprint])
//	         ↓
//	    [codec.Encode] (blueprint → document)
//	         ↓
//	    JSON document ([document])
//	         ↓
//	    [validate.Document] (static checks against the [registry])
//	         ↓
//	    [codec.Decode] / [codec.Merge] (document → blueprint)
//
// # Quick Start
//
// Validate a document and decode it:
//
//	import (
//	    "github.com/matzehuels/bpserial/pkg/codec"
//	    "github.com/matzehuels/bpserial/pkg/document"
//	    "github.com/matzehuels/bpserial/pkg/registry"
//	    "github.com/matzehuels/bpserial/pkg/validate"
//	)
//
//	reg := registry.Builtin()
//	doc, _ := document.Import("BP_Door.json")
//
//	// 1. Check it
//	if res := validate.Document(doc, reg); !res.Valid() {
//	    for _, issue := range res.Issues {
//	        fmt.Println(issue)
//	    }
//	}
//
//	// 2. Rebuild the blueprint
//	bp, diags := codec.Decode(doc, "/Game/Doors/BP_Door", "", reg)
//
//	// 3. Encode it again
//	out := codec.Encode(bp, reg, codec.EncodeOptions{})
//
// # Main Packages
//
// ## Codecs
//
// [pintype] - The textual pin type grammar ("int", "Array<Vector>",
// "Map<Name,Object:Actor>") and its parser.
//
// [memberref] - Member references to functions, events, variables and
// delegates, and the rules for resolving them against a registry.
//
// [nodekind] - Node families and the kind-specific fields each one carries.
//
// ## Documents
//
// [document] - The JSON document model with gzip-aware import and export.
//
// [blueprint] - The in-memory host graph that documents are encoded from and
// decoded into.
//
// [codec] - Encoder, decoder and merge.
//
// [validate] - Static checks: metadata, signatures, node kinds, link closure
// and, given a registry, reference resolvability.
//
// [diff] - Entity-level change summaries between two documents.
//
// [render] - Graphviz DOT and SVG drawings of a single graph.
//
// ## Schema
//
// [schema] - The master node schema and the node catalog, generated from a
// [registry], with an in-process and on-disk cache.
//
// [cache] - Key/value stores behind the schema cache (file, sqlite, redis,
// null).
//
// ## Support
//
// [registry] - The read-only reflection registry interface, a builtin class
// table and TOML snapshot loading.
//
// [diag] - Diagnostics collected by the decoder and the validator.
//
// [errors] - Structured errors with stable codes.
//
// [observability] - Hooks for schema generation and cache traffic.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                  # All tests
//	go test ./pkg/codec/...            # Specific package
//	BPSERIAL_TEST_REDIS=localhost:6379 go test ./pkg/cache/...
//
// [pintype]: https://pkg.go.dev/github.com/matzehuels/bpserial/pkg/pintype
// [memberref]: https://pkg.go.dev/github.com/matzehuels/bpserial/pkg/memberref
// [nodekind]: https://pkg.go.dev/github.com/matzehuels/bpserial/pkg/nodekind
// [document]: https://pkg.go.dev/github.com/matzehuels/bpserial/pkg/document
// [blueprint]: https://pkg.go.dev/github.com/matzehuels/bpserial/pkg/blueprint
// [codec]: https://pkg.go.dev/github.com/matzehuels/bpserial/pkg/codec
// [codec.Encode]: https://pkg.go.dev/github.com/matzehuels/bpserial/pkg/codec#Encode
// [codec.Decode]: https://pkg.go.dev/github.com/matzehuels/bpserial/pkg/codec#Decode
// [codec.Merge]: https://pkg.go.dev/github.com/matzehuels/bpserial/pkg/codec#Merge
// [validate]: https://pkg.go.dev/github.com/matzehuels/bpserial/pkg/validate
// [validate.Document]: https://pkg.go.dev/github.com/matzehuels/bpserial/pkg/validate#Document
// [diff]: https://pkg.go.dev/github.com/matzehuels/bpserial/pkg/diff
// [render]: https://pkg.go.dev/github.com/matzehuels/bpserial/pkg/render
// [schema]: https://pkg.go.dev/github.com/matzehuels/bpserial/pkg/schema
// [cache]: https://pkg.go.dev/github.com/matzehuels/bpserial/pkg/cache
// [registry]: https://pkg.go.dev/github.com/matzehuels/bpserial/pkg/registry
// [diag]: https://pkg.go.dev/github.com/matzehuels/bpserial/pkg/diag
// [errors]: https://pkg.go.dev/github.com/matzehuels/bpserial/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/bpserial/pkg/observability
package pkg
