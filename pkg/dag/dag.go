package dag

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"

	"github.com/matzehuels/combviz/pkg/value"
)

var (
	// ErrUnknownChild is returned by [Arena.Add] when a child index does not
	// refer to a node already in the arena. Children must be added before their
	// parents, which keeps every arena acyclic by construction.
	ErrUnknownChild = errors.New("unknown child node")

	// ErrArity is returned by [Arena.Add] when the number of children does not
	// match the node's shape.
	ErrArity = errors.New("wrong number of children for shape")

	// ErrPayload is returned by [Arena.Add] when a shape's payload is missing
	// or has the wrong size (jet name, hidden hash, fail entropy).
	ErrPayload = errors.New("invalid payload for shape")

	// ErrEmptyArena is returned by [Arena.Root] when no node has been added.
	ErrEmptyArena = errors.New("arena is empty")
)

// NoChild marks an absent child slot.
const NoChild = -1

// Payload sizes in bytes.
const (
	HashSize    = 32 // hidden nodes and pruned assertion branches
	EntropySize = 64 // fail nodes
)

// Identity is a content-derived node key. Two nodes have equal identities iff
// they have the same shape, the same payload and children with equal identities.
type Identity [sha256.Size]byte

// String returns the full hex encoding of the identity.
func (id Identity) String() string { return hex.EncodeToString(id[:]) }

// Short returns the first 8 hex characters, enough to tell nodes apart in logs.
func (id Identity) Short() string { return hex.EncodeToString(id[:4]) }

// Node is an immutable combinator. Its children are arena indices; use the
// constructor functions ([Unit], [InjL], [Pair], ...) to build one and
// [Arena.Add] to insert it.
type Node struct {
	Shape Shape
	Left  int // first child, or NoChild
	Right int // second child, or NoChild

	// Word is the literal carried by ShapeWord nodes.
	Word value.Value
	// Jet is the primitive name carried by ShapeJet nodes.
	Jet string
	// Payload holds the hash of ShapeHidden nodes and pruned assertion
	// branches, or the entropy of ShapeFail nodes.
	Payload []byte
	// Arrow is an optional "A → B" type annotation supplied by the decoder.
	// It is not part of the identity.
	Arrow string

	id Identity
}

// Identity returns the node's identity. It is only meaningful for nodes
// obtained from an [Arena].
func (n *Node) Identity() Identity { return n.id }

// Children returns the node's child indices in argument order.
func (n *Node) Children() []int {
	switch {
	case n.Left == NoChild:
		return nil
	case n.Right == NoChild:
		return []int{n.Left}
	default:
		return []int{n.Left, n.Right}
	}
}

func leaf(s Shape) Node { return Node{Shape: s, Left: NoChild, Right: NoChild} }

// Iden returns an identity combinator.
func Iden() Node { return leaf(ShapeIden) }

// Unit returns a unit combinator.
func Unit() Node { return leaf(ShapeUnit) }

// Witness returns an opaque witness slot.
func Witness() Node { return leaf(ShapeWitness) }

// Word returns a word combinator carrying the literal v.
func Word(v value.Value) Node {
	n := leaf(ShapeWord)
	n.Word = v
	return n
}

// Jet returns a primitive-operation invocation.
func Jet(name string) Node {
	n := leaf(ShapeJet)
	n.Jet = name
	return n
}

// Hidden returns a pruned branch identified only by its hash.
func Hidden(hash []byte) Node {
	n := leaf(ShapeHidden)
	n.Payload = hash
	return n
}

// Fail returns a fail combinator with the given entropy.
func Fail(entropy []byte) Node {
	n := leaf(ShapeFail)
	n.Payload = entropy
	return n
}

func unary(s Shape, child int) Node {
	return Node{Shape: s, Left: child, Right: NoChild}
}

// InjL returns a left injection of child.
func InjL(child int) Node { return unary(ShapeInjL, child) }

// InjR returns a right injection of child.
func InjR(child int) Node { return unary(ShapeInjR, child) }

// Take returns a take combinator.
func Take(child int) Node { return unary(ShapeTake, child) }

// Drop returns a drop combinator.
func Drop(child int) Node { return unary(ShapeDrop, child) }

// AssertL returns a case whose right branch was pruned to hash.
func AssertL(child int, hash []byte) Node {
	n := unary(ShapeAssertL, child)
	n.Payload = hash
	return n
}

// AssertR returns a case whose left branch was pruned to hash.
func AssertR(child int, hash []byte) Node {
	n := unary(ShapeAssertR, child)
	n.Payload = hash
	return n
}

func binaryNode(s Shape, left, right int) Node {
	return Node{Shape: s, Left: left, Right: right}
}

// Pair returns a pair combinator.
func Pair(left, right int) Node { return binaryNode(ShapePair, left, right) }

// Comp returns a composition.
func Comp(left, right int) Node { return binaryNode(ShapeComp, left, right) }

// Case returns a case combinator.
func Case(left, right int) Node { return binaryNode(ShapeCase, left, right) }

// Disconnect returns a disconnect combinator.
func Disconnect(left, right int) Node { return binaryNode(ShapeDisconnect, left, right) }

// Arena stores the nodes of one program. Nodes are interned by identity, so a
// structurally repeated subexpression is stored once and shared by every parent
// that references it.
//
// The zero value is not usable - use [New]. An Arena is not safe for concurrent
// mutation; once built it may be read from any number of goroutines.
type Arena struct {
	nodes []Node
	index map[Identity]int
}

// New creates an empty arena.
func New() *Arena {
	return &Arena{index: make(map[Identity]int)}
}

// Add inserts n and returns its index. If a node with the same identity is
// already present, Add returns the existing index and discards n (including its
// Arrow annotation).
//
// Returns ErrArity if the children do not match the shape, ErrUnknownChild if
// a child index is not yet in the arena, or ErrPayload for malformed payloads.
func (a *Arena) Add(n Node) (int, error) {
	if err := a.check(n); err != nil {
		return NoChild, err
	}
	n.id = a.identity(&n)
	if i, ok := a.index[n.id]; ok {
		return i, nil
	}
	a.nodes = append(a.nodes, n)
	i := len(a.nodes) - 1
	a.index[n.id] = i
	return i, nil
}

// MustAdd is like [Arena.Add] but panics on error. It is intended for
// programs built by hand in tests and examples.
func (a *Arena) MustAdd(n Node) int {
	i, err := a.Add(n)
	if err != nil {
		panic("dag: " + err.Error())
	}
	return i
}

func (a *Arena) check(n Node) error {
	var got int
	switch {
	case n.Left == NoChild && n.Right == NoChild:
		got = 0
	case n.Left != NoChild && n.Right == NoChild:
		got = 1
	case n.Left != NoChild && n.Right != NoChild:
		got = 2
	default:
		return ErrArity
	}
	if got != n.Shape.Arity() {
		return ErrArity
	}
	for _, c := range n.Children() {
		if c < 0 || c >= len(a.nodes) {
			return ErrUnknownChild
		}
	}
	switch n.Shape {
	case ShapeJet:
		if n.Jet == "" {
			return ErrPayload
		}
	case ShapeHidden, ShapeAssertL, ShapeAssertR:
		if len(n.Payload) != HashSize {
			return ErrPayload
		}
	case ShapeFail:
		if len(n.Payload) != EntropySize {
			return ErrPayload
		}
	}
	return nil
}

// identity hashes the shape tag, the payload and the children's identities.
// Children are already in the arena, so their identities are cached.
func (a *Arena) identity(n *Node) Identity {
	h := sha256.New()
	h.Write([]byte{byte(n.Shape)})

	var lenBuf [binary.MaxVarintLen64]byte
	writeField := func(b []byte) {
		h.Write(lenBuf[:binary.PutUvarint(lenBuf[:], uint64(len(b)))])
		h.Write(b)
	}

	switch n.Shape {
	case ShapeWord:
		bits, nbits := n.Word.ToBytesLen()
		h.Write(lenBuf[:binary.PutUvarint(lenBuf[:], uint64(nbits))])
		writeField(bits)
	case ShapeJet:
		writeField([]byte(n.Jet))
	case ShapeHidden, ShapeFail, ShapeAssertL, ShapeAssertR:
		writeField(n.Payload)
	}
	for _, c := range n.Children() {
		h.Write(a.nodes[c].id[:])
	}

	var id Identity
	h.Sum(id[:0])
	return id
}

// Len returns the number of distinct nodes in the arena.
func (a *Arena) Len() int { return len(a.nodes) }

// Node returns the node at index i. The returned node must not be modified.
// Node panics if i is out of range.
func (a *Arena) Node(i int) *Node { return &a.nodes[i] }

// Lookup returns the index of the node with the given identity.
func (a *Arena) Lookup(id Identity) (int, bool) {
	i, ok := a.index[id]
	return i, ok
}

// Root returns the most recently added node, which is the program root for
// arenas filled in post-order (as the decoder does).
func (a *Arena) Root() (int, error) {
	if len(a.nodes) == 0 {
		return NoChild, ErrEmptyArena
	}
	return len(a.nodes) - 1, nil
}

// PostOrder returns the distinct nodes reachable from root, children before
// parents, each exactly once regardless of how many parents share it. Left
// children are visited before right children.
//
// The walk uses an explicit stack.
func (a *Arena) PostOrder(root int) []int {
	return a.postOrder(root, func(int) bool { return true })
}

// PostOrderFunc is like [Arena.PostOrder] but only descends into the children
// of nodes for which descend returns true. The nodes themselves are always
// included.
func (a *Arena) PostOrderFunc(root int, descend func(i int) bool) []int {
	return a.postOrder(root, descend)
}

func (a *Arena) postOrder(root int, descend func(int) bool) []int {
	type frame struct {
		node     int
		expanded bool
	}
	var order []int
	seen := make(map[int]bool)
	stack := []frame{{node: root}}

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if top.expanded {
			order = append(order, top.node)
			continue
		}
		if seen[top.node] {
			continue
		}
		seen[top.node] = true

		stack = append(stack, frame{node: top.node, expanded: true})
		if !descend(top.node) {
			continue
		}
		children := a.nodes[top.node].Children()
		for j := len(children) - 1; j >= 0; j-- {
			if !seen[children[j]] {
				stack = append(stack, frame{node: children[j]})
			}
		}
	}
	return order
}

// Program is a decoded combinator DAG together with its root.
type Program struct {
	Arena *Arena
	Root  int
}

// RootNode returns the root node of p.
func (p Program) RootNode() *Node { return p.Arena.Node(p.Root) }
