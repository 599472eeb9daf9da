// Package transform provides graph transformations that prepare an activity
// diagram graph for layered layout.
//
// # Overview
//
// Activity diagrams arrive as arbitrary directed graphs: loops back to an
// earlier step, branches of different lengths converging on one merge,
// orphaned notes. This package turns such a graph into a proper layering
// where:
//
//   - Every node sits in exactly one layer
//   - Every forward edge points strictly downward
//   - Loop-back edges are flagged, retained, and ignored by ranking
//   - Forward edges connect consecutive layers only
//
// [Normalize] applies the complete pipeline in the correct order.
//
// # Layer Assignment
//
// [AssignLayers] ranks nodes with a multi-source breadth-first traversal from
// the start set. A node is rescheduled whenever a longer path reaches it, so
// converging branches land below the longest one. Nodes no start reaches get
// trailing layers, end nodes close the diagram on a layer of their own, and
// empty layers are removed by [Compact].
//
// # Loop-Back Edges
//
// [MarkLoopBacks] runs a white/gray/black depth-first search and flags back
// edges. Flagged edges stay in the graph so renderers can draw them, but the
// forward-neighbor queries of [dag.Graph] skip them.
//
// # Edge Subdivision
//
// [Subdivide] breaks long forward edges into chains of virtual nodes:
//
//	Before: decide (layer 1) → merge (layer 4)
//	After:  decide → decide~merge~2 → decide~merge~3 → merge
//
// # Usage
//
//	report := transform.Normalize(g, logger) // modifies g in place
//
// For fine-grained control, apply the steps individually:
//
//	transform.AssignLayers(g, logger)
//	transform.Subdivide(g)
package transform
