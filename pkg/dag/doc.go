// Package dag provides the arena that holds a combinator program as a directed
// acyclic graph with structural sharing.
//
// # Overview
//
// A program is a tree of combinators (unit, injections, pairs, compositions,
// jets, witness slots, ...) in which identical subexpressions are shared. The
// [Arena] stores each distinct node once and addresses it by index; children
// are indices, never pointers, so a node may have any number of parents.
//
// # Identity
//
// Every node gets an [Identity] when it is added: a SHA-256 over its shape,
// its payload and its children's identities. Identities are computed once and
// cached, and the arena interns by identity, so adding a structurally repeated
// node returns the index of the existing one:
//
//	a := dag.New()
//	u1 := a.MustAdd(dag.Unit())
//	u2 := a.MustAdd(dag.Unit())  // u1 == u2
//	p := a.MustAdd(dag.Pair(u1, u2))
//
// # Acyclicity
//
// [Arena.Add] rejects children that are not yet in the arena, so every arena
// is acyclic by construction and child indices are always smaller than the
// parent's index.
//
// # Traversal
//
// [Arena.PostOrder] yields the distinct nodes reachable from a root, children
// first. All traversals use explicit stacks: real programs are deep enough to
// overflow a bounded call stack.
package dag
