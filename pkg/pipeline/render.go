package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/combviz/pkg/io"
	"github.com/matzehuels/combviz/pkg/render/nodelink"
)

// renderFormat produces one artifact from a result whose graph and DOT
// source are already built.
func renderFormat(ctx context.Context, format string, result *Result) ([]byte, error) {
	switch format {
	case FormatDOT:
		return []byte(result.DOT), nil
	case FormatSVG:
		return nodelink.RenderSVG(ctx, result.DOT)
	case FormatPNG:
		return nodelink.RenderPNG(ctx, result.DOT)
	case FormatPDF:
		return nodelink.RenderPDF(ctx, result.DOT)
	case FormatJSON:
		return io.MarshalJSON(io.NewDocument(result.Graph, result.RunID, result.ProgramHash))
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}
