// Package scribe recognizes the subexpressions of a combinator program that
// statically encode a literal value.
//
// A scribe expression is a nest of unit, injl, injr, pair and word
// combinators: evaluated on any input it always produces the same constant.
// Recognition runs in two passes over the shared DAG:
//
//  1. [Reconstruct] walks the DAG bottom-up and assigns a [value.Value] to
//     every node whose children all have values.
//  2. [SelectMaximal] walks top-down from the root and keeps only the
//     outermost recognized nodes; everything recognized beneath them is
//     reported as hidden.
//
// [Reachable] computes the nodes a renderer should draw when it filters a
// full traversal instead of cutting descent short.
//
// Any subexpression that depends on a witness, a jet, a hidden branch or any
// other opaque combinator is never recognized: its value would depend on data
// that is not part of the program text.
//
// All passes are pure, use explicit stacks, and return fresh maps.
package scribe
