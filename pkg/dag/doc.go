// Package dag provides the in-memory graph model for laying out UML activity
// diagrams.
//
// # Overview
//
// A [Graph] is an arena: nodes live in one registry keyed by their stable
// ID, and relations between them (successors, predecessors, edges) are ID
// references into that registry. Nodes never own each other, so cycles such
// as loop-back transitions are representable without special handling.
//
// The graph also carries the layout state that later steps mutate: the
// layer sequences ([Graph.Layers]) and the swimlane registry
// ([Graph.Lanes]). The invariant between a node's Layer/Pos fields and the
// sequence that holds it is checked by [Graph.ValidateLayers] and restored
// by [Graph.Reindex] after any structural change.
//
// # Node Kinds
//
// Every node has a [Kind] (start, end, decision, fork, note, activity, ...).
// [Classify] derives it from the raw element type and display text by
// walking the ordered rule list [Rules]:
//
//  1. exact type match
//  2. substring match on the type
//  3. keyword heuristics on the display text
//
// falling back to [KindActivity]. [Refine] then upgrades "control" nodes
// whose action is start or stop. [Size] gives each kind its box size.
//
// # Virtual Nodes
//
// Edges that skip layers are split into chains of [KindVirtual] nodes by
// the transform package. Virtual nodes take part in ordering and coordinate
// assignment but are never part of the exported layout.
//
// # Edge Crossings
//
// [CountCrossings] and [CountLayerCrossings] count inversions with a Fenwick
// tree in O(E log V). They are used to report how much the ordering
// heuristic helped.
//
// # Concurrency
//
// Graph instances are not safe for concurrent use. Each layout run builds
// its own graph, so independent diagrams can be laid out in parallel.
//
// # Related Packages
//
// The [transform] subpackage assigns layers and inserts virtual nodes.
//
// [transform]: github.com/matzehuels/umlflow/pkg/dag/transform
package dag
