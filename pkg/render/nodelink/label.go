package nodelink

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/matzehuels/combviz/pkg/dag"
	"github.com/matzehuels/combviz/pkg/value"
)

// LiteralLabel returns the label and annotation of a collapsed literal. The
// label is upper-case hex when the literal fills whole bytes and the raw bits
// otherwise; the empty literal is labeled "unit". The annotation is the size
// of the literal's domain.
func LiteralLabel(v value.Value) (label, annotation string) {
	bits, n := v.ToBytesLen()
	return literalDigits(bits, n), DomainAnnotation(n)
}

func literalDigits(bits []byte, n int) string {
	switch {
	case n == 0:
		return "unit"
	case n%8 == 0:
		return strings.ToUpper(hex.EncodeToString(bits))
	}
	var sb strings.Builder
	sb.Grow(n)
	for i := 0; i < n; i++ {
		if bits[i/8]&(0x80>>(i%8)) != 0 {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

// DomainAnnotation returns the arrow from unit to the type of an n-bit literal.
func DomainAnnotation(n int) string {
	switch n {
	case 0:
		return "1 → 1"
	case 1:
		return "1 → 2"
	default:
		return fmt.Sprintf("1 → 2^%d", n)
	}
}

// NodeLabel returns the label and annotation of an ordinary node: its
// combinator name (jets by their own name) and its arrow, if known.
func NodeLabel(n *dag.Node) (label, annotation string) {
	if n.Shape == dag.ShapeJet {
		return n.Jet, n.Arrow
	}
	return n.Shape.String(), n.Arrow
}
