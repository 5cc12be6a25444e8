package graph

import "fmt"

// Rebuild assembles a render graph from decoded parts. Node indices must
// match their positions and every edge must reference existing nodes.
func Rebuild(nodes []Node, edges []Edge) (*RenderGraph, error) {
	g := New()
	for i, n := range nodes {
		if n.Index != i {
			return nil, fmt.Errorf("node %d has index %d", i, n.Index)
		}
		g.AddNode(n)
	}
	for _, e := range edges {
		if err := g.AddEdge(e); err != nil {
			return nil, fmt.Errorf("edge %d→%d: %w", e.From, e.To, err)
		}
	}
	return g, nil
}
