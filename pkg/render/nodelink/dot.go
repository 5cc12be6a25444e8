package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/combviz/pkg/graph"
	"github.com/matzehuels/combviz/pkg/render"
)

// DefaultRankSep is the vertical spacing between ranks, in inches.
const DefaultRankSep = 0.5

// DOTOptions configures DOT generation.
type DOTOptions struct {
	// RankSep is the vertical spacing between ranks. Zero means DefaultRankSep.
	RankSep float64
}

// Edge colors keep the argument order of two-child combinators visible.
const (
	leftEdgeColor  = "red"
	rightEdgeColor = "blue"
)

// ToDOT converts a render graph to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG], [RenderPNG] or [RenderPDF].
//
// Literal entries are drawn with a grey fill to set them apart from combinators.
func ToDOT(g *graph.RenderGraph, opts DOTOptions) string {
	rankSep := opts.RankSep
	if rankSep <= 0 {
		rankSep = DefaultRankSep
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=24, margin=\"0.2,0.1\"];\n")
	fmt.Fprintf(&buf, "  ranksep=%s;\n", strconv.FormatFloat(rankSep, 'f', -1, 64))
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes {
		fmt.Fprintf(&buf, "  n%d [%s];\n", n.Index, strings.Join(fmtAttrs(n), ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges {
		switch e.Side {
		case graph.SideLeft:
			fmt.Fprintf(&buf, "  n%d -> n%d [color=%s];\n", e.From, e.To, leftEdgeColor)
		case graph.SideRight:
			fmt.Fprintf(&buf, "  n%d -> n%d [color=%s];\n", e.From, e.To, rightEdgeColor)
		default:
			fmt.Fprintf(&buf, "  n%d -> n%d;\n", e.From, e.To)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtAttrs(n graph.Node) []string {
	attrs := []string{fmt.Sprintf("label=%q", n.DisplayLabel())}
	if n.Literal {
		attrs = append(attrs, "fillcolor=lightgrey")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	out, err := renderDOT(ctx, dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(out), nil
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return renderDOT(ctx, dot, graphviz.PNG)
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
// This is a convenience wrapper around [RenderSVG] and [render.ToPDF].
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

func renderDOT(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
