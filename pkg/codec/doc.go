// Package codec translates between live blueprints and documents.
//
// [Encode] walks a [blueprint.Blueprint] and produces a
// [document.Document]. It is total: the only recoverable condition is a
// missing display field, which is left empty.
//
// [Decode] builds a new blueprint from a document and [Merge] adds a
// document's entities to an existing one. Both run in two phases. The
// materialisation phase creates every node in document order, sets its
// kind fields, resolves references and records its pins by pinId. The
// linkage phase then walks each pin's linkedTo list and links the pins
// that exist, so forward references and link cycles need no special
// handling.
//
// Decoding never stops at the first problem. Everything that goes wrong
// is recorded in the returned [diag.List]; callers decide whether a
// partial result is usable.
//
// # Merge
//
// A document node is skipped when a node with its GUID exists anywhere in
// the blueprint, or when it is an event whose name an existing event
// already implements. Variables, components, functions, macros and
// interfaces are skipped by name. Links are only created among the nodes
// the merge itself created; links into pre-existing nodes are left for
// the caller.
package codec
