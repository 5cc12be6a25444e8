package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/matzehuels/combviz/pkg/graph"
)

// Document is the JSON export of one rendered program.
type Document struct {
	RunID       string       `json:"run_id,omitempty"`
	ProgramHash string       `json:"program_hash,omitempty"`
	Nodes       []graph.Node `json:"nodes"`
	Edges       []graph.Edge `json:"edges"`
}

// NewDocument wraps g with the metadata of the run that produced it.
func NewDocument(g *graph.RenderGraph, runID, programHash string) Document {
	return Document{
		RunID:       runID,
		ProgramHash: programHash,
		Nodes:       g.Nodes,
		Edges:       g.Edges,
	}
}

// Graph rebuilds the render graph, validating indices and edges.
func (d Document) Graph() (*graph.RenderGraph, error) {
	return graph.Rebuild(d.Nodes, d.Edges)
}

// WriteJSON encodes a document as indented JSON and writes it to w.
// The output can be re-imported with [ReadJSON].
func WriteJSON(d Document, w io.Writer) error {
	if d.Nodes == nil {
		d.Nodes = []graph.Node{}
	}
	if d.Edges == nil {
		d.Edges = []graph.Edge{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// MarshalJSON returns the indented JSON encoding of d.
func MarshalJSON(d Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteJSON(d, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExportJSON writes a document to a JSON file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(d Document, path string) error {
	data, err := MarshalJSON(d)
	if err != nil {
		return err
	}
	return WriteFile(path, data)
}

// WriteFile writes data to path through a temporary file in the same
// directory, so a failed write never leaves a truncated file behind.
// The file is created with 0644 permissions.
func WriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	name := tmp.Name()
	cleanup := func() { os.Remove(name) }

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Chmod(name, 0644); err != nil {
		cleanup()
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	if err := os.Rename(name, path); err != nil {
		cleanup()
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}
