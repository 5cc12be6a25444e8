package graph

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownSourceNode is returned by [RenderGraph.AddEdge] when From does
	// not refer to a node already in the graph.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [RenderGraph.AddEdge] when To does not
	// refer to a node already in the graph. Targets must be added before any
	// edge that points at them.
	ErrUnknownTargetNode = errors.New("unknown target node")
)

// =============================================================================
// Side - Argument Position
// =============================================================================

// Side records which argument of a two-child combinator an edge points to.
type Side int

const (
	// SideNone marks the edge of a one-child combinator.
	SideNone Side = iota
	// SideLeft marks the first argument of a two-child combinator.
	SideLeft
	// SideRight marks the second argument of a two-child combinator.
	SideRight
)

// String returns "none", "left" or "right".
func (s Side) String() string {
	switch s {
	case SideLeft:
		return "left"
	case SideRight:
		return "right"
	default:
		return "none"
	}
}

// MarshalText encodes the side by name.
func (s Side) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText decodes a side name.
func (s *Side) UnmarshalText(b []byte) error {
	switch string(b) {
	case "none", "":
		*s = SideNone
	case "left":
		*s = SideLeft
	case "right":
		*s = SideRight
	default:
		return fmt.Errorf("invalid side: %q", b)
	}
	return nil
}

// =============================================================================
// Node - Rendered Entry
// =============================================================================

// Node is one rendered entry. Index is its position in [RenderGraph.Nodes].
type Node struct {
	Index      int    `json:"index"`
	Label      string `json:"label"`                // combinator name or literal digits
	Annotation string `json:"annotation,omitempty"` // arrow type or literal domain size
	Literal    bool   `json:"literal,omitempty"`    // collapsed scribe expression
	Identity   string `json:"identity"`             // hex identity of the source node
}

// DisplayLabel returns the label and annotation on separate lines.
func (n *Node) DisplayLabel() string {
	if n.Annotation == "" {
		return n.Label
	}
	return n.Label + "\n" + n.Annotation
}

// =============================================================================
// Edge - Parent to Child
// =============================================================================

// Edge points from a parent entry to one of its children.
type Edge struct {
	From int  `json:"from"`
	To   int  `json:"to"`
	Side Side `json:"side"`
}

// =============================================================================
// RenderGraph - Ordered Node-Link Graph
// =============================================================================

// RenderGraph is an ordered node-link graph in dependency order: every edge
// points at an entry that was added before the edge.
type RenderGraph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// New creates an empty render graph.
func New() *RenderGraph {
	return &RenderGraph{Nodes: []Node{}, Edges: []Edge{}}
}

// AddNode appends n, overwriting its Index, and returns the assigned index.
func (g *RenderGraph) AddNode(n Node) int {
	n.Index = len(g.Nodes)
	g.Nodes = append(g.Nodes, n)
	return n.Index
}

// AddEdge appends e. Returns ErrUnknownSourceNode or ErrUnknownTargetNode if
// either endpoint has not been added yet.
func (g *RenderGraph) AddEdge(e Edge) error {
	if e.From < 0 || e.From >= len(g.Nodes) {
		return ErrUnknownSourceNode
	}
	if e.To < 0 || e.To >= len(g.Nodes) {
		return ErrUnknownTargetNode
	}
	g.Edges = append(g.Edges, e)
	return nil
}

// NodeCount returns the number of entries.
func (g *RenderGraph) NodeCount() int { return len(g.Nodes) }

// EdgeCount returns the number of edges.
func (g *RenderGraph) EdgeCount() int { return len(g.Edges) }

// LiteralCount returns the number of collapsed scribe entries.
func (g *RenderGraph) LiteralCount() int {
	count := 0
	for _, n := range g.Nodes {
		if n.Literal {
			count++
		}
	}
	return count
}

// InDegree returns the number of edges pointing at index.
func (g *RenderGraph) InDegree(index int) int {
	count := 0
	for _, e := range g.Edges {
		if e.To == index {
			count++
		}
	}
	return count
}

// Children returns the edges leaving index, in insertion order.
func (g *RenderGraph) Children(index int) []Edge {
	var out []Edge
	for _, e := range g.Edges {
		if e.From == index {
			out = append(out, e)
		}
	}
	return out
}
