// Package document defines the versioned JSON form of a blueprint.
//
// A [Document] is a value: the encoder produces one from a live blueprint,
// the decoder and validator consume one. Nothing in this package consults
// the registry, so documents can be read, written and inspected off-host.
//
// # Format
//
// The top-level keys are metadata, variables, eventGraphs, functions,
// macros, components and implementedInterfaces. Every graph carries its
// nodes; every node carries its pins; pins refer to each other through
// pinId values collected in linkedTo:
//
//	{
//	  "graphName": "EventGraph",
//	  "nodes": [{
//	    "nodeGuid": "5A1C...", "nodeClass": "K2Node_Event",
//	    "eventReference": {"memberName": "ReceiveBeginPlay", ...},
//	    "pins": [{"pinId": "P1", "pinName": "then", "direction": "output",
//	              "pinType": "exec", "linkedTo": ["P2"]}]
//	  }]
//	}
//
// Node-kind fields (functionReference, targetClass, numOutputPins, ...) sit
// flat on the node next to the common fields. Which of them a node should
// carry is decided by package nodekind.
//
// Older exports also carry a nodeSpecificData object of loose strings. It
// is read for compatibility only; see [Node.Normalized].
//
// # Files
//
// [Import] and [Export] read and write files. Paths ending in ".gz" are
// gzip-compressed transparently.
package document
