// Package nodelink renders combinator programs as node-link diagrams.
//
// # Overview
//
// [Render] turns a program and its literal analysis (see pkg/scribe) into a
// [graph.RenderGraph]: every outermost literal becomes a single entry, every
// other visible node becomes an entry linked to its children, and nodes nested
// inside literals are never rendered at all.
//
//	an := scribe.Analyze(arena, root)
//	g, err := nodelink.Render(arena, root, an, nodelink.Options{})
//	dot := nodelink.ToDOT(g, nodelink.DOTOptions{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # Sharing
//
// Which nodes share one entry is decided by a [Sharing] policy:
//
//   - [MaximalSharing]: one entry per distinct identity (the default)
//   - [FullSharing]: one entry per class of a caller-supplied equivalence,
//     such as [ByLabel]
//
// The renderer always wraps the policy with [WithHideFilter]. The hide filter
// is consulted first, so a node hidden inside one literal can neither reuse
// nor reserve an entry that a visible node elsewhere would resolve to.
//
// # Traversal
//
// [ModeTruncate] stops descending at literals. [ModeReachable] only follows
// the nodes [scribe.Reachable] reports. Both produce the same entries and
// edges under any sharing policy: a node merged into an equivalent entry is
// resolved before its children are visited, so its children are never
// rendered on its behalf.
//
// # Labels
//
// Literals are labeled in upper-case hex when they fill whole bytes and in raw
// bits otherwise, annotated with the size of their domain ("1 → 2^8"). Other
// nodes show their combinator name and arrow. In DOT output the left and
// right edges of two-child combinators are colored red and blue.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG and PNG
// rendering. PDF conversion requires librsvg (rsvg-convert).
package nodelink
