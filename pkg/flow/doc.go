// Package flow defines the activity diagram input contract and converts it
// into a dag.Graph.
//
// A [Diagram] is what an upstream parser produces: an ordered list of flow
// [Element]s and the [Connection]s between them. Diagrams are read from JSON
// or YAML with [Read] or [ReadFile]; keys are camelCase in both formats.
//
// [Build] is lenient: dangling connections, duplicate IDs and repeated
// transitions are dropped with a warning instead of failing the layout.
package flow
