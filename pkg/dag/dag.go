package dag

import (
	"errors"
	"slices"
)

var (
	// ErrInvalidNodeID is returned by [Graph.AddNode] when the node ID is empty.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Graph.AddNode] when a node with the
	// same ID is already registered.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownSourceNode is returned by [Graph.AddEdge] when the From node
	// does not exist.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [Graph.AddEdge] when the To node
	// does not exist.
	ErrUnknownTargetNode = errors.New("unknown target node")

	// ErrNodeNotLayered is returned by [Graph.ValidateLayers] when a node is
	// missing from every layer sequence or appears in more than one.
	ErrNodeNotLayered = errors.New("node not in exactly one layer")

	// ErrLayerMismatch is returned by [Graph.ValidateLayers] when a node's
	// Layer or Pos field disagrees with the sequence that holds it.
	ErrLayerMismatch = errors.New("node layer does not match its layer sequence")

	// ErrNonConsecutiveLayers is returned by [Graph.ValidateSpans] when a
	// forward edge skips one or more layers.
	ErrNonConsecutiveLayers = errors.New("edges must connect consecutive layers")
)

// Node is a vertex of an activity diagram. Layout fields (Layer, Pos, X, Y,
// Barycenter) are scratch state owned by one layout run.
type Node struct {
	ID         string
	Kind       Kind
	RawType    string
	Text       string
	Swimlane   string
	Action     string
	Condition  string
	DecisionID string
	Color      string

	// ExplicitStart is set when the start role comes from a start action
	// rather than from the element type.
	ExplicitStart bool

	Layer  int // -1 until ranked
	Pos    int // index within Layer
	X, Y   float64
	Width  float64
	Height float64

	Virtual    bool
	Barycenter float64
}

// Edge is a directed control-flow transition.
type Edge struct {
	From  string
	To    string
	Label string

	// Virtual marks hops created by edge subdivision.
	Virtual bool
	// LoopBack marks edges that point back up the layering (cycles). They
	// are retained for output but never drive ranking or ordering.
	LoopBack bool
}

// Swimlane is a named vertical band. XStart and Width are fixed by canvas
// sizing; Nodes lists member IDs in insertion order.
type Swimlane struct {
	Name   string
	XStart float64
	Width  float64
	Nodes  []string
}

// XEnd returns the right edge of the lane band.
func (s *Swimlane) XEnd() float64 { return s.XStart + s.Width }

// Graph is the mutable layout state of one diagram: a node registry keyed by
// ID, edges in insertion order, per-node incident edge lists and the layer
// sequences. Cycles and parallel edges are allowed.
//
// The zero value is not usable - use New. A Graph is not safe for
// concurrent use; build one per layout run.
type Graph struct {
	nodes    map[string]*Node
	order    []string
	edges    []*Edge
	outgoing map[string][]*Edge
	incoming map[string][]*Edge
	layers   [][]*Node

	lanes     map[string]*Swimlane
	laneOrder []string
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		nodes:    make(map[string]*Node),
		outgoing: make(map[string][]*Edge),
		incoming: make(map[string][]*Edge),
		lanes:    make(map[string]*Swimlane),
	}
}

// AddNode registers n. The stored node is a copy; use [Graph.Node] to get
// the live pointer. Layer is reset to -1.
func (g *Graph) AddNode(n Node) (*Node, error) {
	if n.ID == "" {
		return nil, ErrInvalidNodeID
	}
	if _, exists := g.nodes[n.ID]; exists {
		return nil, ErrDuplicateNodeID
	}
	node := &n
	node.Layer = -1
	g.nodes[node.ID] = node
	g.order = append(g.order, node.ID)
	return node, nil
}

// AddEdge appends a directed edge between two registered nodes and returns
// the stored edge.
func (g *Graph) AddEdge(e Edge) (*Edge, error) {
	if _, ok := g.nodes[e.From]; !ok {
		return nil, ErrUnknownSourceNode
	}
	if _, ok := g.nodes[e.To]; !ok {
		return nil, ErrUnknownTargetNode
	}
	edge := &e
	g.edges = append(g.edges, edge)
	g.outgoing[e.From] = append(g.outgoing[e.From], edge)
	g.incoming[e.To] = append(g.incoming[e.To], edge)
	return edge, nil
}

// HasEdge reports whether an edge with the same source, target and label
// exists.
func (g *Graph) HasEdge(from, to, label string) bool {
	return slices.ContainsFunc(g.outgoing[from], func(e *Edge) bool {
		return e.To == to && e.Label == label
	})
}

// RemoveEdge removes exactly the given edge from the edge list and both
// endpoints. Other parallel edges between the same nodes are kept.
func (g *Graph) RemoveEdge(e *Edge) {
	idx := slices.Index(g.edges, e)
	if idx < 0 {
		return
	}
	g.edges = slices.Delete(g.edges, idx, idx+1)
	g.outgoing[e.From] = removeOne(g.outgoing[e.From], e)
	g.incoming[e.To] = removeOne(g.incoming[e.To], e)
}

func removeOne(edges []*Edge, e *Edge) []*Edge {
	if i := slices.Index(edges, e); i >= 0 {
		return slices.Delete(edges, i, i+1)
	}
	return edges
}

// Node returns the node with the given ID.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Nodes returns all nodes in registry (insertion) order.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, len(g.order))
	for i, id := range g.order {
		out[i] = g.nodes[id]
	}
	return out
}

// Edges returns the live edges in insertion order. The slice is a copy; the
// edges are not.
func (g *Graph) Edges() []*Edge { return slices.Clone(g.edges) }

// EdgesFrom returns the live outgoing edges of id in insertion order.
func (g *Graph) EdgesFrom(id string) []*Edge { return slices.Clone(g.outgoing[id]) }

// NodeCount returns the number of registered nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Children returns the target IDs of id's outgoing edges.
func (g *Graph) Children(id string) []string { return ends(g.outgoing[id], true, false) }

// Parents returns the source IDs of id's incoming edges.
func (g *Graph) Parents(id string) []string { return ends(g.incoming[id], false, false) }

// ForwardChildren returns the targets of id's non-loop-back edges.
func (g *Graph) ForwardChildren(id string) []string { return ends(g.outgoing[id], true, true) }

// ForwardParents returns the sources of id's non-loop-back incoming edges.
func (g *Graph) ForwardParents(id string) []string { return ends(g.incoming[id], false, true) }

// ends maps incident edges to the node on the far side, optionally skipping
// loop-backs.
func ends(edges []*Edge, targets, forwardOnly bool) []string {
	out := make([]string, 0, len(edges))
	for _, e := range edges {
		if forwardOnly && e.LoopBack {
			continue
		}
		if targets {
			out = append(out, e.To)
		} else {
			out = append(out, e.From)
		}
	}
	return out
}

// AddToLane appends id to the named swimlane, creating the lane on first
// sight. Empty names are ignored.
func (g *Graph) AddToLane(name, id string) {
	if name == "" {
		return
	}
	lane, ok := g.lanes[name]
	if !ok {
		lane = &Swimlane{Name: name}
		g.lanes[name] = lane
		g.laneOrder = append(g.laneOrder, name)
	}
	lane.Nodes = append(lane.Nodes, id)
}

// Lane returns the swimlane with the given name.
func (g *Graph) Lane(name string) (*Swimlane, bool) {
	l, ok := g.lanes[name]
	return l, ok
}

// Lanes returns swimlanes in first-seen order.
func (g *Graph) Lanes() []*Swimlane {
	out := make([]*Swimlane, len(g.laneOrder))
	for i, name := range g.laneOrder {
		out[i] = g.lanes[name]
	}
	return out
}

// LaneCount returns the number of swimlanes.
func (g *Graph) LaneCount() int { return len(g.laneOrder) }

// Layers returns the layer sequences. The outer slice is a copy; the inner
// sequences are live and may be reordered by the caller, who must then call
// [Graph.Reindex].
func (g *Graph) Layers() [][]*Node { return slices.Clone(g.layers) }

// Layer returns the live sequence at index i, or nil when out of range.
func (g *Graph) Layer(i int) []*Node {
	if i < 0 || i >= len(g.layers) {
		return nil
	}
	return g.layers[i]
}

// LayerCount returns the number of layer sequences.
func (g *Graph) LayerCount() int { return len(g.layers) }

// SetLayers replaces the layer sequences and reindexes nodes.
func (g *Graph) SetLayers(layers [][]*Node) {
	g.layers = layers
	g.Reindex()
}

// AppendToLayer appends n to layer i, growing the sequence list if needed,
// and reindexes.
func (g *Graph) AppendToLayer(n *Node, i int) {
	for len(g.layers) <= i {
		g.layers = append(g.layers, nil)
	}
	g.layers[i] = append(g.layers[i], n)
	g.Reindex()
}

// MoveToLayer removes n from whichever sequence holds it and appends it to
// layer i. Empty sequences left behind are kept; compact separately.
func (g *Graph) MoveToLayer(n *Node, i int) {
	for li, layer := range g.layers {
		if idx := slices.Index(layer, n); idx >= 0 {
			g.layers[li] = slices.Delete(layer, idx, idx+1)
			break
		}
	}
	g.AppendToLayer(n, i)
}

// SetLayerOrder installs a reordered sequence for layer i and renumbers Pos.
func (g *Graph) SetLayerOrder(i int, order []*Node) {
	g.layers[i] = order
	for pos, n := range order {
		n.Pos = pos
	}
}

// Reindex re-establishes node.Layer and node.Pos from the layer sequences.
func (g *Graph) Reindex() {
	for li, layer := range g.layers {
		for pos, n := range layer {
			n.Layer = li
			n.Pos = pos
		}
	}
}

// MaxLayer returns the index of the last layer, or -1 if there are none.
func (g *Graph) MaxLayer() int { return len(g.layers) - 1 }

// ValidateLayers checks that every registered node appears in exactly one
// layer sequence and that its Layer and Pos match that placement.
func (g *Graph) ValidateLayers() error {
	seen := make(map[string]int, len(g.nodes))
	for li, layer := range g.layers {
		for pos, n := range layer {
			if _, dup := seen[n.ID]; dup {
				return ErrNodeNotLayered
			}
			seen[n.ID] = li
			if n.Layer != li || n.Pos != pos {
				return ErrLayerMismatch
			}
		}
	}
	if len(seen) != len(g.nodes) {
		return ErrNodeNotLayered
	}
	return nil
}

// ValidateSpans checks that every non-loop-back edge connects consecutive
// layers.
func (g *Graph) ValidateSpans() error {
	for _, e := range g.edges {
		if e.LoopBack {
			continue
		}
		if g.nodes[e.To].Layer != g.nodes[e.From].Layer+1 {
			return ErrNonConsecutiveLayers
		}
	}
	return nil
}

// NodeIDs extracts the ID from each node in a slice.
func NodeIDs(nodes []*Node) []string {
	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	return ids
}

// PosMap maps each ID to its index in ids.
func PosMap(ids []string) map[string]int {
	m := make(map[string]int, len(ids))
	for i, id := range ids {
		m[id] = i
	}
	return m
}
