// Package io provides JSON import and export for rendered programs, and the
// atomic file writes every artifact goes through.
//
// # JSON Format
//
// A [Document] carries the render graph plus the run that produced it:
//
//	{
//	  "run_id": "5f0c…",
//	  "program_hash": "9a1e…",
//	  "nodes": [
//	    {"index": 0, "label": "witness", "identity": "…"},
//	    {"index": 1, "label": "unit", "annotation": "1 → 1", "literal": true, "identity": "…"},
//	    {"index": 2, "label": "pair", "identity": "…"}
//	  ],
//	  "edges": [
//	    {"from": 2, "to": 0, "side": "left"},
//	    {"from": 2, "to": 1, "side": "right"}
//	  ]
//	}
//
// Nodes appear in dependency order: every edge points at a node with a
// smaller index.
//
// # Import
//
// Use [ImportJSON] to read a document from a file path, or [ReadJSON] to read
// from any io.Reader. Both validate node indices and edges.
//
// # Export
//
// Use [ExportJSON] to write a document to a file, or [WriteJSON] to write to
// any io.Writer. [WriteFile] writes any artifact through a temporary file and
// a rename.
package io
