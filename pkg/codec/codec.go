package codec

import (
	"encoding/base64"
	"errors"
	"fmt"
	"math/bits"
	"strings"

	"github.com/matzehuels/combviz/pkg/dag"
	"github.com/matzehuels/combviz/pkg/value"
)

var (
	// ErrTruncated is returned when the input ends inside a node.
	ErrTruncated = errors.New("truncated program")

	// ErrEmptyProgram is returned when the node count is zero or the program
	// has no nodes to encode.
	ErrEmptyProgram = errors.New("empty program")

	// ErrTooManyNodes is returned when the node count cannot fit in the input.
	ErrTooManyNodes = errors.New("node count exceeds input size")

	// ErrNaturalOverflow is returned for a natural number wider than 63 bits.
	ErrNaturalOverflow = errors.New("natural number overflow")

	// ErrBadReference is returned for a child reference that does not point at
	// an earlier node.
	ErrBadReference = errors.New("bad child reference")

	// ErrTrailingBits is returned when data follows the last node beyond the
	// zero padding of the final byte.
	ErrTrailingBits = errors.New("trailing bits after program")

	// ErrUnknownJet is returned for a jet code or name outside the jet table.
	ErrUnknownJet = errors.New("unknown jet")

	// ErrWordWidth is returned for a word whose width is not a power of two
	// between 1 and 2^15 bits.
	ErrWordWidth = errors.New("invalid word width")

	// ErrBase64 is returned for input that is not valid base64.
	ErrBase64 = errors.New("invalid base64")
)

// maxWordDepth bounds word literals to 2^(maxWordDepth-1) bits.
const maxWordDepth = 16

type code struct {
	bits uint64
	n    int
}

// shapeCodes holds the prefix code of every shape. Word and jet codes are
// followed by their own payload.
var shapeCodes = map[dag.Shape]code{
	dag.ShapeComp:       {0b00000, 5},
	dag.ShapeCase:       {0b00001, 5},
	dag.ShapePair:       {0b00010, 5},
	dag.ShapeDisconnect: {0b00011, 5},
	dag.ShapeInjL:       {0b00100, 5},
	dag.ShapeInjR:       {0b00101, 5},
	dag.ShapeTake:       {0b00110, 5},
	dag.ShapeDrop:       {0b00111, 5},
	dag.ShapeIden:       {0b01000, 5},
	dag.ShapeUnit:       {0b01001, 5},
	dag.ShapeFail:       {0b01010, 5},
	dag.ShapeAssertL:    {0b01011, 5},
	dag.ShapeAssertR:    {0b01100, 5},
	dag.ShapeHidden:     {0b01101, 5},
	dag.ShapeWitness:    {0b0111, 4},
	dag.ShapeWord:       {0b10, 2},
	dag.ShapeJet:        {0b11, 2},
}

// childShapes maps the three bits after a 00 prefix to their shape.
var childShapes = [8]dag.Shape{
	dag.ShapeComp, dag.ShapeCase, dag.ShapePair, dag.ShapeDisconnect,
	dag.ShapeInjL, dag.ShapeInjR, dag.ShapeTake, dag.ShapeDrop,
}

// leafShapes maps the three bits after a 01 prefix to their shape. Witness
// uses only two of them.
var leafShapes = [8]dag.Shape{
	dag.ShapeIden, dag.ShapeUnit, dag.ShapeFail, dag.ShapeAssertL,
	dag.ShapeAssertR, dag.ShapeHidden, dag.ShapeWitness, dag.ShapeWitness,
}

// Decode parses an encoded program into a fresh arena.
//
// Nodes are encoded in post-order; each child is a back-reference counting
// back from the referring node. Witness nodes carry no data and decode as
// opaque slots.
func Decode(data []byte) (*dag.Program, error) {
	r := newBitReader(data)

	count, err := r.readNatural()
	if err != nil {
		return nil, fmt.Errorf("node count: %w", err)
	}
	// Every node takes at least two bits.
	if count > uint64(r.remaining()/2) {
		return nil, fmt.Errorf("%w: %d nodes", ErrTooManyNodes, count)
	}

	arena := dag.New()
	index := make([]int, 0, count)
	for i := 0; i < int(count); i++ {
		n, err := decodeNode(r, index)
		if err != nil {
			return nil, fmt.Errorf("node %d: %w", i, err)
		}
		ai, err := arena.Add(n)
		if err != nil {
			return nil, fmt.Errorf("node %d: %w", i, err)
		}
		index = append(index, ai)
	}

	if r.remaining() >= 8 {
		return nil, fmt.Errorf("%w: %d bits", ErrTrailingBits, r.remaining())
	}
	if rest, _ := r.readBits(r.remaining()); rest != 0 {
		return nil, fmt.Errorf("%w: non-zero padding", ErrTrailingBits)
	}

	return &dag.Program{Arena: arena, Root: index[len(index)-1]}, nil
}

func decodeNode(r *bitReader, index []int) (dag.Node, error) {
	shape, err := readShape(r)
	if err != nil {
		return dag.Node{}, err
	}

	child := func() (int, error) {
		off, err := r.readNatural()
		if err != nil {
			return 0, err
		}
		if off > uint64(len(index)) {
			return 0, fmt.Errorf("%w: offset %d at position %d", ErrBadReference, off, len(index))
		}
		return index[len(index)-int(off)], nil
	}

	switch shape {
	case dag.ShapeComp, dag.ShapeCase, dag.ShapePair, dag.ShapeDisconnect:
		left, err := child()
		if err != nil {
			return dag.Node{}, err
		}
		right, err := child()
		if err != nil {
			return dag.Node{}, err
		}
		switch shape {
		case dag.ShapeComp:
			return dag.Comp(left, right), nil
		case dag.ShapeCase:
			return dag.Case(left, right), nil
		case dag.ShapePair:
			return dag.Pair(left, right), nil
		default:
			return dag.Disconnect(left, right), nil
		}

	case dag.ShapeInjL, dag.ShapeInjR, dag.ShapeTake, dag.ShapeDrop:
		c, err := child()
		if err != nil {
			return dag.Node{}, err
		}
		switch shape {
		case dag.ShapeInjL:
			return dag.InjL(c), nil
		case dag.ShapeInjR:
			return dag.InjR(c), nil
		case dag.ShapeTake:
			return dag.Take(c), nil
		default:
			return dag.Drop(c), nil
		}

	case dag.ShapeAssertL, dag.ShapeAssertR:
		c, err := child()
		if err != nil {
			return dag.Node{}, err
		}
		hash, err := r.readPacked(dag.HashSize * 8)
		if err != nil {
			return dag.Node{}, err
		}
		if shape == dag.ShapeAssertL {
			return dag.AssertL(c, hash), nil
		}
		return dag.AssertR(c, hash), nil

	case dag.ShapeIden:
		return dag.Iden(), nil
	case dag.ShapeUnit:
		return dag.Unit(), nil
	case dag.ShapeWitness:
		return dag.Witness(), nil

	case dag.ShapeFail:
		entropy, err := r.readPacked(dag.EntropySize * 8)
		if err != nil {
			return dag.Node{}, err
		}
		return dag.Fail(entropy), nil

	case dag.ShapeHidden:
		hash, err := r.readPacked(dag.HashSize * 8)
		if err != nil {
			return dag.Node{}, err
		}
		return dag.Hidden(hash), nil

	case dag.ShapeWord:
		depth, err := r.readNatural()
		if err != nil {
			return dag.Node{}, err
		}
		if depth > maxWordDepth {
			return dag.Node{}, fmt.Errorf("%w: depth %d", ErrWordWidth, depth)
		}
		width := 1 << (depth - 1)
		data, err := r.readPacked(width)
		if err != nil {
			return dag.Node{}, err
		}
		return dag.Word(value.Bits(data, width)), nil

	case dag.ShapeJet:
		c, err := r.readNatural()
		if err != nil {
			return dag.Node{}, err
		}
		if c > uint64(len(jetNames)) {
			return dag.Node{}, fmt.Errorf("%w: code %d", ErrUnknownJet, c)
		}
		return dag.Jet(jetNames[c-1]), nil
	}
	return dag.Node{}, fmt.Errorf("unhandled shape %s", shape)
}

func readShape(r *bitReader) (dag.Shape, error) {
	prefix, err := r.readBits(2)
	if err != nil {
		return 0, err
	}
	switch prefix {
	case 0b10:
		return dag.ShapeWord, nil
	case 0b11:
		return dag.ShapeJet, nil
	case 0b00:
		c, err := r.readBits(3)
		if err != nil {
			return 0, err
		}
		return childShapes[c], nil
	}

	c, err := r.readBits(2)
	if err != nil {
		return 0, err
	}
	if c == 0b11 {
		return dag.ShapeWitness, nil
	}
	b, err := r.readBit()
	if err != nil {
		return 0, err
	}
	return leafShapes[c<<1|b], nil
}

// Encode serializes the program rooted at p.Root. Only nodes reachable from
// the root are written, each once.
func Encode(p *dag.Program) ([]byte, error) {
	if p == nil || p.Arena == nil || p.Arena.Len() == 0 {
		return nil, ErrEmptyProgram
	}

	order := p.Arena.PostOrder(p.Root)
	pos := make(map[int]int, len(order))

	var w bitWriter
	w.writeNatural(uint64(len(order)))
	for i, ai := range order {
		n := p.Arena.Node(ai)
		if err := encodeNode(&w, n, i, pos); err != nil {
			return nil, fmt.Errorf("node %d (%s): %w", i, n.Shape, err)
		}
		pos[ai] = i
	}
	return w.bytes(), nil
}

func encodeNode(w *bitWriter, n *dag.Node, i int, pos map[int]int) error {
	c, ok := shapeCodes[n.Shape]
	if !ok {
		return fmt.Errorf("unknown shape %d", int(n.Shape))
	}
	w.writeBits(c.bits, c.n)

	for _, child := range n.Children() {
		w.writeNatural(uint64(i - pos[child]))
	}

	switch n.Shape {
	case dag.ShapeAssertL, dag.ShapeAssertR, dag.ShapeHidden, dag.ShapeFail:
		w.writePacked(n.Payload, len(n.Payload)*8)
	case dag.ShapeWord:
		data, width := n.Word.ToBytesLen()
		if width == 0 || width&(width-1) != 0 || width > 1<<(maxWordDepth-1) {
			return fmt.Errorf("%w: %d bits", ErrWordWidth, width)
		}
		w.writeNatural(uint64(bits.Len(uint(width))))
		w.writePacked(data, width)
	case dag.ShapeJet:
		jc, ok := jetCodes[n.Jet]
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownJet, n.Jet)
		}
		w.writeNatural(jc)
	}
	return nil
}

// DecodeBase64 decodes a base64 (standard alphabet) program. Padding is
// optional and surrounding whitespace is ignored.
func DecodeBase64(s string) (*dag.Program, error) {
	s = strings.TrimRight(strings.TrimSpace(s), "=")
	data, err := base64.RawStdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBase64, err)
	}
	return Decode(data)
}

// EncodeBase64 encodes p and returns it as standard base64.
func EncodeBase64(p *dag.Program) (string, error) {
	data, err := Encode(p)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}
