package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// ReadJSON decodes a document from r.
//
// The input must be a JSON object with "nodes" and "edges" arrays:
//
//	{
//	  "run_id": "…",
//	  "nodes": [{"index": 0, "label": "unit", "annotation": "1 → 1", "literal": true, "identity": "…"}],
//	  "edges": []
//	}
//
// ReadJSON returns an error if:
//   - The JSON is malformed or invalid
//   - A node's index does not match its position
//   - An edge references a node that does not exist
//
// ReadJSON does not close r.
func ReadJSON(r io.Reader) (Document, error) {
	var d Document
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return Document{}, fmt.Errorf("decode: %w", err)
	}
	if _, err := d.Graph(); err != nil {
		return Document{}, err
	}
	return d, nil
}

// ImportJSON reads a JSON file at path and returns the decoded document.
// The error wraps the underlying cause with the file path for context.
func ImportJSON(path string) (Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return Document{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}
