// Package pipeline provides the decode → recognize → render pipeline shared
// by every combviz command.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Decode: Parse base64 program text into a combinator DAG
//  2. Recognize: Find the scribe literals and the outermost ones among them
//  3. Graph: Build the node-link render graph under a sharing policy
//  4. Render: Generate output in the requested formats (DOT, SVG, PNG, PDF, JSON)
//
// Graphviz output is cached per program and render options.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Program: "pA==",
//	    Formats: []string{"svg"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/combviz/pkg/cache"
	"github.com/matzehuels/combviz/pkg/dag"
	"github.com/matzehuels/combviz/pkg/errors"
	"github.com/matzehuels/combviz/pkg/graph"
	"github.com/matzehuels/combviz/pkg/render/nodelink"
	"github.com/matzehuels/combviz/pkg/scribe"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Config
// =============================================================================

// DefaultOutput is the artifact file written when no output path is given.
const DefaultOutput = "simplicity.svg"

// Format constants for output formats.
const (
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// Sharing policy names.
const (
	SharingMaximal = "maximal"
	SharingFull    = "full"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatDOT:  true,
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
}

// graphvizFormats are rendered by Graphviz and worth caching.
var graphvizFormats = map[string]bool{
	FormatSVG: true,
	FormatPNG: true,
	FormatPDF: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one pipeline run.
type Options struct {
	// Program is the base64 text of the encoded program.
	Program string

	// Render options
	Formats []string
	Sharing string  // "maximal" (default) or "full"
	Mode    string  // "truncate" (default) or "reachable"
	RankSep float64 // zero means nodelink.DefaultRankSep

	// Cache options
	TTL     time.Duration // lifetime of cached artifacts, zero means cache.DefaultTTL
	Refresh bool          // re-render even when the cache has the artifact

	// Logger receives stage progress. Nil uses the runner's logger.
	Logger *log.Logger

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID identifies this run in logs and JSON exports.
	RunID string

	// Program is the decoded program.
	Program *dag.Program

	// ProgramHash is the content hash of the program's canonical encoding.
	ProgramHash string

	// Analysis holds the recognized literals.
	Analysis scribe.Analysis

	// Graph is the node-link render graph.
	Graph *graph.RenderGraph

	// DOT is the Graphviz source of Graph.
	DOT string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which artifacts came from the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount    int // distinct nodes in the decoded program
	ScribeCount  int // recognized literals, nested ones included
	TopCount     int // outermost literals
	HiddenCount  int // literals nested inside an outermost one
	EntryCount   int // rendered entries
	EdgeCount    int // rendered edges
	DecodeTime   time.Duration
	AnalyzeTime  time.Duration
	GraphTime    time.Duration
	RenderTime   time.Duration
}

// CacheInfo tracks cache hits for the render stage.
type CacheInfo struct {
	Hits      []string // formats served from the cache
	RenderHit bool     // whether every Graphviz artifact came from the cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: dot, svg, png, pdf, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateSharing checks that a sharing policy name is valid.
func ValidateSharing(sharing string) error {
	return errors.ValidateChoice("sharing", sharing, SharingMaximal, SharingFull)
}

// FormatForPath infers the output format from a file extension. Unknown or
// missing extensions yield "".
func FormatForPath(path string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if ValidFormats[ext] {
		return ext
	}
	if ext == "gv" {
		return FormatDOT
	}
	return ""
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks the options and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := errors.ValidateProgramText(o.Program); err != nil {
		return err
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Sharing == "" {
		o.Sharing = SharingMaximal
	}
	if err := ValidateSharing(o.Sharing); err != nil {
		return err
	}
	if _, err := nodelink.ParseMode(o.Mode); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid mode %q", o.Mode)
	}
	if o.Mode == "" {
		o.Mode = nodelink.ModeTruncate.String()
	}
	if o.RankSep < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "ranksep must not be negative")
	}
	if o.RankSep == 0 {
		o.RankSep = nodelink.DefaultRankSep
	}
	if o.TTL == 0 {
		o.TTL = cache.DefaultTTL
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:  format,
		Sharing: o.Sharing,
		Mode:    o.Mode,
		RankSep: o.RankSep,
	}
}

// RenderOptions returns the render-graph options selected by o.
func (o *Options) RenderOptions() (nodelink.Options, error) {
	mode, err := nodelink.ParseMode(o.Mode)
	if err != nil {
		return nodelink.Options{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid mode %q", o.Mode)
	}
	var policy nodelink.Sharing
	switch o.Sharing {
	case SharingFull:
		policy = nodelink.NewFullSharing(nodelink.ByLabel)
	case SharingMaximal, "":
		policy = nodelink.NewMaximalSharing()
	default:
		return nodelink.Options{}, errors.New(errors.ErrCodeInvalidInput, "invalid sharing %q", o.Sharing)
	}
	return nodelink.Options{Sharing: policy, Mode: mode}, nil
}
