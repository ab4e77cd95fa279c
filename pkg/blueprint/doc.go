// Package blueprint is an in-memory stand-in for the host's live
// visual-scripting model: a blueprint owns variables, components and
// graphs; graphs own nodes; nodes own typed pins that link to each other.
//
// # Graphs and pins
//
// A [Graph] indexes its nodes by GUID and its pins by ID. Pins are linked
// symmetrically with [Graph.Link]; linking is idempotent and both pins must
// belong to the graph. Link cycles are allowed: pins refer to each other by
// pointer and the graph owns them all.
//
//	g := blueprint.NewGraph("EventGraph", blueprint.EventGraph)
//	g.AddNode(begin)
//	g.AddNode(print)
//	g.Link(begin.Pin("then", blueprint.Output), print.Pin("execute", blueprint.Input))
//
// # Host services
//
// [AllocateDefaultPins] creates the pin inventory a node kind derives from
// its resolved reference, and [AddDefaultEvent] creates an override event
// for a function the parent class declares as overridable. Both consult a
// [registry.Registry].
//
// # Concurrency
//
// Nothing in this package is safe for concurrent mutation.
package blueprint
