// Package pkg provides the libraries behind combviz, a tool that draws
// combinator programs with their constant subexpressions folded.
//
// # Overview
//
// A program is a DAG of combinators. Some subexpressions ignore their input
// and build a fixed value out of unit, injections, pairs and words; those are
// scribe literals. combviz finds the outermost ones and draws each as a single
// node labeled with its value.
//
// # Architecture
//
// The typical data flow through combviz:
//
//	base64 program text
//	         ↓
//	    [codec] package (decode the bit-level encoding)
//	         ↓
//	    [dag] package (interned combinator arena)
//	         ↓
//	    [scribe] package (recognize literals, pick the outermost)
//	         ↓
//	    [render/nodelink] package (render graph, DOT, Graphviz)
//	         ↓
//	    DOT/SVG/PNG/PDF/JSON output
//
// # Main Packages
//
//   - [value]: literal values and their bit serialization
//   - [dag]: the combinator arena with hash-consed identities
//   - [codec]: program decoding and encoding
//   - [scribe]: literal recognition, maximal selection, reachability
//   - [graph]: the ordered render graph
//   - [render/nodelink]: sharing policies, labels, DOT and Graphviz output
//   - [pipeline]: decode → recognize → render with caching
//   - [cache], [config], [errors], [io], [buildinfo]: supporting infrastructure
package pkg
