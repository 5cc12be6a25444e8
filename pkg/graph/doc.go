// Package graph provides the abstract node-link graph produced by rendering a
// combinator program.
//
// A [RenderGraph] is an ordered list of [Node] entries plus directed [Edge]s.
// Entries are appended in dependency order, so every edge points at an entry
// that already exists; [RenderGraph.AddEdge] enforces this. Edges out of
// two-child combinators carry a [Side] to keep argument order visible.
//
// The package knows nothing about layout: pkg/render/nodelink turns a
// RenderGraph into Graphviz DOT and lets Graphviz place it.
//
// Node and Edge carry JSON tags; pkg/io wraps them in an export document and
// uses [Rebuild] to validate what it reads back.
package graph
