package nodelink

import (
	"testing"

	"github.com/matzehuels/combviz/pkg/dag"
	"github.com/matzehuels/combviz/pkg/value"
)

func TestLiteralLabel(t *testing.T) {
	tests := []struct {
		name           string
		v              value.Value
		wantLabel      string
		wantAnnotation string
	}{
		{"unit", value.Unit(), "unit", "1 → 1"},
		{"one bit", value.SumLeft(value.Unit()), "0", "1 → 2"},
		{"two bits", value.Product(value.SumLeft(value.Unit()), value.SumRight(value.Unit())), "01", "1 → 2^2"},
		{"byte", value.FromBytes([]byte{0xab}), "AB", "1 → 2^8"},
		{"word16", value.FromBytes([]byte{0xde, 0xad}), "DEAD", "1 → 2^16"},
		{"odd width", value.Bits([]byte{0xa0}, 3), "101", "1 → 2^3"},
		{"mixed", value.Product(value.FromBytes([]byte{0x0f}), value.SumRight(value.Unit())), "000011111", "1 → 2^9"},
		{"empty word", value.Bits(nil, 0), "unit", "1 → 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			label, annotation := LiteralLabel(tt.v)
			if label != tt.wantLabel {
				t.Errorf("LiteralLabel() label = %q, want %q", label, tt.wantLabel)
			}
			if annotation != tt.wantAnnotation {
				t.Errorf("LiteralLabel() annotation = %q, want %q", annotation, tt.wantAnnotation)
			}
		})
	}
}

func TestNodeLabel(t *testing.T) {
	comp := dag.Comp(0, 1)
	comp.Arrow = "1 → 2^32"

	tests := []struct {
		name           string
		n              dag.Node
		wantLabel      string
		wantAnnotation string
	}{
		{"plain", dag.Iden(), "iden", ""},
		{"arrow", comp, "comp", "1 → 2^32"},
		{"jet", dag.Jet("sha_256_ctx_8_init"), "sha_256_ctx_8_init", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			label, annotation := NodeLabel(&tt.n)
			if label != tt.wantLabel || annotation != tt.wantAnnotation {
				t.Errorf("NodeLabel() = %q, %q; want %q, %q", label, annotation, tt.wantLabel, tt.wantAnnotation)
			}
		})
	}
}
