package nodelink

import (
	"errors"
	"fmt"

	"github.com/matzehuels/combviz/pkg/dag"
	"github.com/matzehuels/combviz/pkg/graph"
	"github.com/matzehuels/combviz/pkg/scribe"
)

var (
	// ErrRootOutOfRange is returned by [Render] when root is not an arena index.
	ErrRootOutOfRange = errors.New("root out of range")

	// ErrUnknownMode is returned by [Render] and [ParseMode] for an invalid mode.
	ErrUnknownMode = errors.New("unknown traversal mode")
)

// Mode selects how [Render] decides which nodes to visit.
type Mode int

const (
	// ModeTruncate stops descending at every collapsed literal.
	ModeTruncate Mode = iota
	// ModeReachable follows only the nodes returned by [scribe.Reachable].
	ModeReachable
)

// String returns "truncate" or "reachable".
func (m Mode) String() string {
	switch m {
	case ModeTruncate:
		return "truncate"
	case ModeReachable:
		return "reachable"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode parses a mode name as returned by [Mode.String].
func ParseMode(s string) (Mode, error) {
	switch s {
	case "truncate", "":
		return ModeTruncate, nil
	case "reachable":
		return ModeReachable, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// Options configures [Render].
type Options struct {
	// Sharing decides which nodes share an entry. Nil means [MaximalSharing].
	Sharing Sharing
	// Hide overrides the hide filter. Nil hides the nodes nested inside
	// collapsed literals.
	Hide HideFilter
	// Mode selects the traversal.
	Mode Mode
}

// Render builds the node-link graph of the program rooted at root.
//
// Every outermost literal in an becomes one entry without children. Every
// other visible node becomes an entry labeled with its combinator name and
// arrow, linked to its children: a plain edge for one child, a left and a
// right edge for two. Entries are added children first, so every edge points
// at an earlier entry.
//
// Render panics if a node's child was neither rendered nor hidden, which can
// only happen when the arena was built without [dag.Arena.Add].
func Render(a *dag.Arena, root int, an scribe.Analysis, opts Options) (*graph.RenderGraph, error) {
	if root < 0 || root >= a.Len() {
		return nil, fmt.Errorf("%w: %d of %d", ErrRootOutOfRange, root, a.Len())
	}

	policy := opts.Sharing
	if policy == nil {
		policy = NewMaximalSharing()
	}
	hide := opts.Hide
	if hide == nil {
		hide = HiddenBy(an.Hidden)
	}

	r := &renderer{
		arena:    a,
		top:      an.Top,
		sharing:  WithHideFilter(hide, policy),
		g:        graph.New(),
		resolved: make(map[int]int),
		hidden:   make(map[int]bool),
	}

	switch opts.Mode {
	case ModeTruncate:
		r.truncate(root)
	case ModeReachable:
		r.reachable(root, an)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownMode, int(opts.Mode))
	}
	return r.g, nil
}

type renderer struct {
	arena    *dag.Arena
	top      scribe.Map
	sharing  *FilteredSharing
	g        *graph.RenderGraph
	resolved map[int]int // arena index -> entry index
	hidden   map[int]bool
}

// truncate walks from root in post-order without descending into literals.
func (r *renderer) truncate(root int) {
	r.walk(root, func(int) bool { return true })
}

// reachable walks the same post-order but only follows children in the set
// returned by [scribe.Reachable].
func (r *renderer) reachable(root int, an scribe.Analysis) {
	visible := scribe.Reachable(r.arena, root, an.Top)
	r.walk(root, func(i int) bool {
		return visible.Contains(r.arena.Node(i).Identity())
	})
}

// walk visits the nodes under root in post-order, following a child only when
// follow accepts it. A node that already shares an entry with an equivalent
// node is resolved on the way down, so its children are not rendered on its
// behalf.
func (r *renderer) walk(root int, follow func(i int) bool) {
	type frame struct {
		node     int
		expanded bool
	}
	seen := make(map[int]bool)
	stack := []frame{{node: root}}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if f.expanded {
			r.visit(f.node)
			continue
		}
		if seen[f.node] {
			continue
		}
		seen[f.node] = true

		idx, st := r.sharing.resolve(r.candidate(f.node))
		switch st {
		case slotHidden:
			r.hidden[f.node] = true
			continue
		case slotShared:
			r.resolved[f.node] = idx
			continue
		}

		stack = append(stack, frame{node: f.node, expanded: true})
		if r.isLiteral(f.node) {
			continue
		}
		children := r.arena.Node(f.node).Children()
		for j := len(children) - 1; j >= 0; j-- {
			if c := children[j]; !seen[c] && follow(c) {
				stack = append(stack, frame{node: c})
			}
		}
	}
}

// visit resolves node i once all of its children are resolved.
func (r *renderer) visit(i int) {
	c := r.candidate(i)
	idx, st := r.sharing.resolve(c)
	switch st {
	case slotHidden:
		r.hidden[i] = true
	case slotShared:
		r.resolved[i] = idx
	case slotFresh:
		idx = r.emit(i, c)
		r.sharing.Assign(c, idx)
		r.resolved[i] = idx
	}
}

func (r *renderer) emit(i int, c Candidate) int {
	n := r.arena.Node(i)
	entry := graph.Node{
		Literal:  c.Literal,
		Identity: n.Identity().String(),
	}
	if c.Literal {
		entry.Label, entry.Annotation = LiteralLabel(r.top[n.Identity()])
	} else {
		entry.Label, entry.Annotation = NodeLabel(n)
	}
	from := r.g.AddNode(entry)
	if c.Literal {
		return from
	}

	children := n.Children()
	for k, child := range children {
		if r.hidden[child] {
			continue
		}
		to, ok := r.resolved[child]
		if !ok {
			panic(fmt.Sprintf("nodelink: child %d of node %d (%s) was not rendered", child, i, n.Shape))
		}
		side := graph.SideNone
		if len(children) == 2 {
			side = graph.SideLeft
			if k == 1 {
				side = graph.SideRight
			}
		}
		if err := r.g.AddEdge(graph.Edge{From: from, To: to, Side: side}); err != nil {
			panic(fmt.Sprintf("nodelink: edge %d -> %d: %v", from, to, err))
		}
	}
	return from
}

func (r *renderer) isLiteral(i int) bool {
	_, ok := r.top[r.arena.Node(i).Identity()]
	return ok
}

// candidate describes node i to the sharing policy.
func (r *renderer) candidate(i int) Candidate {
	n := r.arena.Node(i)
	if v, ok := r.top[n.Identity()]; ok {
		label, annotation := LiteralLabel(v)
		return Candidate{Node: n, Label: joinLabel(label, annotation), Literal: true}
	}
	label, annotation := NodeLabel(n)
	return Candidate{Node: n, Label: joinLabel(label, annotation)}
}

func joinLabel(label, annotation string) string {
	if annotation == "" {
		return label
	}
	return label + "\n" + annotation
}
