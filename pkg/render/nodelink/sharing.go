package nodelink

import (
	"github.com/matzehuels/combviz/pkg/dag"
	"github.com/matzehuels/combviz/pkg/scribe"
)

// Candidate is a node about to be rendered, as seen by a sharing policy.
type Candidate struct {
	Node    *dag.Node
	Label   string // rendered label including the annotation
	Literal bool   // collapsed scribe expression
}

// Sharing decides which nodes share one rendered entry.
//
// Lookup reports the entry already assigned to a node equivalent to c. When
// it reports false the renderer creates a new entry and calls Assign with its
// index.
type Sharing interface {
	Lookup(c Candidate) (int, bool)
	Assign(c Candidate, index int)
}

// MaximalSharing gives every distinct identity exactly one entry.
type MaximalSharing struct {
	slots map[dag.Identity]int
}

// NewMaximalSharing creates an empty maximal-sharing policy.
func NewMaximalSharing() *MaximalSharing {
	return &MaximalSharing{slots: make(map[dag.Identity]int)}
}

// Lookup implements [Sharing].
func (s *MaximalSharing) Lookup(c Candidate) (int, bool) {
	i, ok := s.slots[c.Node.Identity()]
	return i, ok
}

// Assign implements [Sharing].
func (s *MaximalSharing) Assign(c Candidate, index int) {
	s.slots[c.Node.Identity()] = index
}

// EquivalenceFunc maps a candidate to its equivalence class key.
type EquivalenceFunc func(c Candidate) string

// ByLabel treats candidates with the same rendered label as equivalent, so
// every "unit" with the same arrow, or every copy of one literal, collapses into
// one entry.
func ByLabel(c Candidate) string {
	if c.Literal {
		return "literal:" + c.Label
	}
	return "node:" + c.Label
}

// FullSharing merges nodes that a caller-supplied equivalence puts in the same
// class. The equivalence should be coarser than identity; identities are
// always shared as well.
type FullSharing struct {
	equiv EquivalenceFunc
	slots map[string]int
	byID  *MaximalSharing
}

// NewFullSharing creates a full-sharing policy over equiv.
func NewFullSharing(equiv EquivalenceFunc) *FullSharing {
	return &FullSharing{
		equiv: equiv,
		slots: make(map[string]int),
		byID:  NewMaximalSharing(),
	}
}

// Lookup implements [Sharing].
func (s *FullSharing) Lookup(c Candidate) (int, bool) {
	if i, ok := s.byID.Lookup(c); ok {
		return i, true
	}
	i, ok := s.slots[s.equiv(c)]
	return i, ok
}

// Assign implements [Sharing].
func (s *FullSharing) Assign(c Candidate, index int) {
	s.byID.Assign(c, index)
	key := s.equiv(c)
	if _, ok := s.slots[key]; !ok {
		s.slots[key] = index
	}
}

// HideFilter reports whether a node is hidden inside a collapsed literal.
type HideFilter interface {
	Hidden(n *dag.Node) bool
}

// HideFilterFunc adapts a function to [HideFilter].
type HideFilterFunc func(n *dag.Node) bool

// Hidden implements [HideFilter].
func (f HideFilterFunc) Hidden(n *dag.Node) bool { return f(n) }

// HiddenBy returns a filter that hides the identities in set.
func HiddenBy(set scribe.IdentitySet) HideFilter {
	return HideFilterFunc(func(n *dag.Node) bool { return set.Contains(n.Identity()) })
}

// slot is the outcome of resolving a candidate.
type slot int

const (
	slotFresh  slot = iota // needs a new entry
	slotShared             // reuses an existing entry
	slotHidden             // never rendered
)

// FilteredSharing consults a hide filter before a sharing policy. A hidden
// node never reaches the policy: it cannot reuse an entry and it cannot
// reserve an equivalence class that a visible node would later collapse into.
type FilteredSharing struct {
	hide   HideFilter
	policy Sharing
}

// WithHideFilter composes hide and policy. A nil hide filter hides nothing.
func WithHideFilter(hide HideFilter, policy Sharing) *FilteredSharing {
	if hide == nil {
		hide = HideFilterFunc(func(*dag.Node) bool { return false })
	}
	return &FilteredSharing{hide: hide, policy: policy}
}

// Lookup implements [Sharing]. Hidden candidates always miss.
func (f *FilteredSharing) Lookup(c Candidate) (int, bool) {
	if f.hide.Hidden(c.Node) {
		return 0, false
	}
	return f.policy.Lookup(c)
}

// Assign implements [Sharing]. Hidden candidates are never recorded.
func (f *FilteredSharing) Assign(c Candidate, index int) {
	if f.hide.Hidden(c.Node) {
		return
	}
	f.policy.Assign(c, index)
}

func (f *FilteredSharing) resolve(c Candidate) (int, slot) {
	if f.hide.Hidden(c.Node) {
		return 0, slotHidden
	}
	if i, ok := f.policy.Lookup(c); ok {
		return i, slotShared
	}
	return 0, slotFresh
}
