package dag

import (
	"bytes"
	"errors"
	"slices"
	"testing"

	"github.com/matzehuels/combviz/pkg/value"
)

func TestAddInternsByIdentity(t *testing.T) {
	a := New()
	u1 := a.MustAdd(Unit())
	u2 := a.MustAdd(Unit())
	if u1 != u2 {
		t.Errorf("identical units got indices %d and %d", u1, u2)
	}

	l1 := a.MustAdd(InjL(u1))
	r1 := a.MustAdd(InjR(u1))
	l2 := a.MustAdd(InjL(u2))
	if l1 != l2 {
		t.Error("structurally identical injections should share an index")
	}
	if l1 == r1 {
		t.Error("injl and injr of the same child must differ")
	}
	if a.Len() != 3 {
		t.Errorf("Len() = %d, want 3", a.Len())
	}
}

func TestIdentityDistinguishesPayloads(t *testing.T) {
	a := New()
	w1 := a.MustAdd(Word(value.FromBytes([]byte{0x01})))
	w2 := a.MustAdd(Word(value.FromBytes([]byte{0x02})))
	w3 := a.MustAdd(Word(value.Bits([]byte{0x01}, 7)))
	j1 := a.MustAdd(Jet("add_32"))
	j2 := a.MustAdd(Jet("subtract_32"))

	ids := map[Identity]bool{}
	for _, i := range []int{w1, w2, w3, j1, j2} {
		ids[a.Node(i).Identity()] = true
	}
	if len(ids) != 5 {
		t.Errorf("expected 5 distinct identities, got %d", len(ids))
	}
}

func TestIdentityIgnoresArrow(t *testing.T) {
	a := New()
	n := Unit()
	n.Arrow = "1 → 1"
	u1 := a.MustAdd(n)
	m := Unit()
	m.Arrow = "2 → 1"
	u2 := a.MustAdd(m)

	if u1 != u2 {
		t.Fatal("arrow annotations must not affect identity")
	}
	if got := a.Node(u1).Arrow; got != "1 → 1" {
		t.Errorf("first annotation should win, got %q", got)
	}
}

func TestIdentityDependsOnChildOrder(t *testing.T) {
	a := New()
	u := a.MustAdd(Unit())
	i := a.MustAdd(Iden())
	p1 := a.MustAdd(Pair(u, i))
	p2 := a.MustAdd(Pair(i, u))
	if a.Node(p1).Identity() == a.Node(p2).Identity() {
		t.Error("pair(u, i) and pair(i, u) must have different identities")
	}
}

func TestAddErrors(t *testing.T) {
	tests := []struct {
		name string
		node Node
		want error
	}{
		{"unknown child", InjL(5), ErrUnknownChild},
		{"negative child", Node{Shape: ShapeInjL, Left: -2, Right: NoChild}, ErrUnknownChild},
		{"unit with child", Node{Shape: ShapeUnit, Left: 0, Right: NoChild}, ErrArity},
		{"pair with one child", Node{Shape: ShapePair, Left: 0, Right: NoChild}, ErrArity},
		{"right without left", Node{Shape: ShapePair, Left: NoChild, Right: 0}, ErrArity},
		{"jet without name", Jet(""), ErrPayload},
		{"short hidden hash", Hidden([]byte{1, 2, 3}), ErrPayload},
		{"short fail entropy", Fail(make([]byte, HashSize)), ErrPayload},
		{"assert without hash", AssertL(0, nil), ErrPayload},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := New()
			a.MustAdd(Unit())
			if _, err := a.Add(tt.node); !errors.Is(err, tt.want) {
				t.Errorf("Add() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestMustAddPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustAdd() should panic on invalid node")
		}
	}()
	New().MustAdd(InjL(0))
}

func TestRoot(t *testing.T) {
	a := New()
	if _, err := a.Root(); !errors.Is(err, ErrEmptyArena) {
		t.Errorf("Root() on empty arena error = %v, want ErrEmptyArena", err)
	}
	u := a.MustAdd(Unit())
	p := a.MustAdd(Pair(u, u))
	root, err := a.Root()
	if err != nil || root != p {
		t.Errorf("Root() = %d, %v; want %d", root, err, p)
	}
}

func TestPostOrder(t *testing.T) {
	a := New()
	u := a.MustAdd(Unit())
	w := a.MustAdd(Witness())
	l := a.MustAdd(InjL(u))
	p := a.MustAdd(Pair(l, w))
	c := a.MustAdd(Comp(p, l)) // l shared by p and c

	got := a.PostOrder(c)
	want := []int{u, l, w, p, c}
	if !slices.Equal(got, want) {
		t.Errorf("PostOrder() = %v, want %v", got, want)
	}

	// Only reachable nodes appear.
	if got := a.PostOrder(l); !slices.Equal(got, []int{u, l}) {
		t.Errorf("PostOrder(l) = %v, want [%d %d]", got, u, l)
	}
}

func TestPostOrderChildrenFirst(t *testing.T) {
	a := New()
	u := a.MustAdd(Unit())
	i := a.MustAdd(Iden())
	x := a.MustAdd(Pair(u, i))
	y := a.MustAdd(Comp(x, u))
	z := a.MustAdd(Case(y, x))
	root := a.MustAdd(Pair(z, y))

	pos := map[int]int{}
	for k, n := range a.PostOrder(root) {
		if _, dup := pos[n]; dup {
			t.Fatalf("node %d visited twice", n)
		}
		pos[n] = k
	}
	for n, k := range pos {
		for _, c := range a.Node(n).Children() {
			if pos[c] >= k {
				t.Errorf("child %d emitted after parent %d", c, n)
			}
		}
	}
}

func TestPostOrderFunc(t *testing.T) {
	a := New()
	u := a.MustAdd(Unit())
	l := a.MustAdd(InjL(u))
	w := a.MustAdd(Witness())
	p := a.MustAdd(Pair(l, w))

	got := a.PostOrderFunc(p, func(i int) bool { return i != l })
	if !slices.Equal(got, []int{l, w, p}) {
		t.Errorf("PostOrderFunc() = %v, want [%d %d %d]", got, l, w, p)
	}
}

func TestPostOrderDeepChain(t *testing.T) {
	a := New()
	n := a.MustAdd(Unit())
	for i := 0; i < 100000; i++ {
		n = a.MustAdd(InjL(n))
	}
	if got := len(a.PostOrder(n)); got != 100001 {
		t.Errorf("PostOrder() visited %d nodes, want 100001", got)
	}
}

func TestChildren(t *testing.T) {
	a := New()
	u := a.MustAdd(Unit())
	i := a.MustAdd(Iden())
	if got := a.Node(u).Children(); got != nil {
		t.Errorf("leaf Children() = %v, want nil", got)
	}
	l := a.MustAdd(InjR(u))
	if got := a.Node(l).Children(); !slices.Equal(got, []int{u}) {
		t.Errorf("unary Children() = %v", got)
	}
	p := a.MustAdd(Disconnect(i, u))
	if got := a.Node(p).Children(); !slices.Equal(got, []int{i, u}) {
		t.Errorf("binary Children() = %v", got)
	}
}

func TestShape(t *testing.T) {
	tests := []struct {
		shape  Shape
		name   string
		arity  int
		scribe bool
	}{
		{ShapeUnit, "unit", 0, true},
		{ShapeInjL, "injl", 1, true},
		{ShapeInjR, "injr", 1, true},
		{ShapePair, "pair", 2, true},
		{ShapeWord, "word", 0, true},
		{ShapeWitness, "witness", 0, false},
		{ShapeComp, "comp", 2, false},
		{ShapeTake, "take", 1, false},
		{ShapeAssertR, "assertr", 1, false},
		{ShapeJet, "jet", 0, false},
		{Shape(99), "unknown", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.shape.String(); got != tt.name {
				t.Errorf("String() = %q, want %q", got, tt.name)
			}
			if got := tt.shape.Arity(); got != tt.arity {
				t.Errorf("Arity() = %d, want %d", got, tt.arity)
			}
			if got := tt.shape.IsScribe(); got != tt.scribe {
				t.Errorf("IsScribe() = %v, want %v", got, tt.scribe)
			}
		})
	}
}

func TestLookup(t *testing.T) {
	a := New()
	u := a.MustAdd(Unit())
	h := a.MustAdd(Hidden(bytes.Repeat([]byte{7}, HashSize)))

	if got, ok := a.Lookup(a.Node(h).Identity()); !ok || got != h {
		t.Errorf("Lookup(hidden) = %d, %v", got, ok)
	}
	other := New()
	other.MustAdd(Iden())
	if _, ok := a.Lookup(other.Node(0).Identity()); ok {
		t.Error("Lookup() should miss identities from another arena's shapes")
	}
	if a.Node(u).Identity().Short() == "" || len(a.Node(u).Identity().String()) != 64 {
		t.Error("Identity string forms are malformed")
	}
}
