package scribe

import (
	"github.com/matzehuels/combviz/pkg/dag"
	"github.com/matzehuels/combviz/pkg/value"
)

// Map associates node identities with the literal value they encode.
type Map map[dag.Identity]value.Value

// IdentitySet is a set of node identities.
type IdentitySet map[dag.Identity]struct{}

// Contains reports whether id is in s.
func (s IdentitySet) Contains(id dag.Identity) bool {
	_, ok := s[id]
	return ok
}

// Reconstruct computes the value of every node reachable from root whose shape
// statically encodes a literal. Nodes are resolved children first, so each
// entry depends only on entries already computed:
//
//   - unit encodes the unit value and word encodes its literal;
//   - injl and injr encode a sum when their child has a value;
//   - pair encodes a product when both children have values;
//   - every other shape is opaque: it never gets a value and leaves every
//     ancestor that needs it without one.
//
// A missing entry is the normal outcome for non-literal subexpressions, not a
// failure.
func Reconstruct(a *dag.Arena, root int) Map {
	m := make(Map)
	for _, i := range a.PostOrder(root) {
		n := a.Node(i)
		switch n.Shape {
		case dag.ShapeUnit:
			m[n.Identity()] = value.Unit()
		case dag.ShapeWord:
			m[n.Identity()] = n.Word
		case dag.ShapeInjL:
			if v, ok := m[a.Node(n.Left).Identity()]; ok {
				m[n.Identity()] = value.SumLeft(v)
			}
		case dag.ShapeInjR:
			if v, ok := m[a.Node(n.Left).Identity()]; ok {
				m[n.Identity()] = value.SumRight(v)
			}
		case dag.ShapePair:
			l, okL := m[a.Node(n.Left).Identity()]
			r, okR := m[a.Node(n.Right).Identity()]
			if okL && okR {
				m[n.Identity()] = value.Product(l, r)
			}
		case dag.ShapeIden, dag.ShapeTake, dag.ShapeDrop, dag.ShapeComp, dag.ShapeCase,
			dag.ShapeAssertL, dag.ShapeAssertR, dag.ShapeDisconnect,
			dag.ShapeWitness, dag.ShapeFail, dag.ShapeHidden, dag.ShapeJet:
			// opaque
		}
	}
	return m
}

// SelectMaximal partitions the domain of m into the outermost recognized nodes
// (top) and the recognized nodes nested beneath them (hidden).
//
// The walk starts at root and stops at the first recognized node on every
// path, so a node that can only be reached through a recognized ancestor is
// never examined as a candidate. Because the DAG is acyclic and every path is
// cut at its first recognized node, the result does not depend on the order in
// which children are visited.
func SelectMaximal(a *dag.Arena, root int, m Map) (top Map, hidden IdentitySet) {
	top = make(Map)
	visited := make(map[int]bool)
	stack := []int{root}

	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[i] {
			continue
		}
		visited[i] = true

		n := a.Node(i)
		if v, ok := m[n.Identity()]; ok {
			top[n.Identity()] = v
			continue
		}
		for _, c := range n.Children() {
			if !visited[c] {
				stack = append(stack, c)
			}
		}
	}

	hidden = make(IdentitySet)
	for id := range m {
		if _, ok := top[id]; !ok {
			hidden[id] = struct{}{}
		}
	}
	return top, hidden
}

// Reachable returns the identities reachable from root without descending past
// a recognized node. Recognized nodes themselves are included. Nodes inside a
// literal may also be shared with code outside it, so this set cannot be
// derived by subtracting the literals' subtrees from the whole program.
func Reachable(a *dag.Arena, root int, m Map) IdentitySet {
	reached := make(IdentitySet)
	stack := []int{root}

	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		n := a.Node(i)
		if reached.Contains(n.Identity()) {
			continue
		}
		reached[n.Identity()] = struct{}{}

		if _, ok := m[n.Identity()]; ok {
			continue
		}
		for _, c := range n.Children() {
			if !reached.Contains(a.Node(c).Identity()) {
				stack = append(stack, c)
			}
		}
	}
	return reached
}

// Analysis bundles the results of the recognition passes over one program.
type Analysis struct {
	// Scribes holds every recognized node.
	Scribes Map
	// Top holds the outermost recognized nodes.
	Top Map
	// Hidden holds the recognized nodes nested beneath a member of Top.
	Hidden IdentitySet
}

// Analyze runs [Reconstruct] and [SelectMaximal] over the program rooted at
// root.
func Analyze(a *dag.Arena, root int) Analysis {
	m := Reconstruct(a, root)
	top, hidden := SelectMaximal(a, root, m)
	return Analysis{Scribes: m, Top: top, Hidden: hidden}
}
