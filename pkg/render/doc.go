// Package render provides output conversion for rendered programs.
//
// # Overview
//
// The [nodelink] subpackage turns a combinator program into a node-link
// graph and renders it with Graphviz. This package holds the conversions that
// Graphviz itself does not provide.
//
// # Format Conversion
//
// [ToPDF] converts any SVG to PDF using the external rsvg-convert tool (from
// librsvg):
//
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	pdf, err := render.ToPDF(ctx, svg)
//
// [nodelink]: github.com/matzehuels/combviz/pkg/render/nodelink
package render
