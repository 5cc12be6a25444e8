package value

import (
	"encoding/hex"
	"strings"
)

// Kind identifies the shape of a [Value].
type Kind int

const (
	// KindUnit is the single value of the unit type.
	KindUnit Kind = iota
	// KindSumLeft is a left injection into a sum type.
	KindSumLeft
	// KindSumRight is a right injection into a sum type.
	KindSumRight
	// KindProduct is a pair of values.
	KindProduct
	// KindBits is a packed bit string carried by a word literal.
	KindBits
)

// String returns the lower-case name of the kind.
func (k Kind) String() string {
	switch k {
	case KindUnit:
		return "unit"
	case KindSumLeft:
		return "left"
	case KindSumRight:
		return "right"
	case KindProduct:
		return "product"
	case KindBits:
		return "bits"
	}
	return "unknown"
}

// Value is an immutable decoded literal. Values share structure freely: the
// constructors never copy their arguments and no method mutates a Value.
//
// The zero Value is the unit value.
type Value struct {
	kind  Kind
	left  *Value // inner value for sums, left component for products
	right *Value // right component for products
	bits  []byte // packed MSB-first, only for KindBits
	n     int    // bit length, only for KindBits
}

// Unit returns the unit value.
func Unit() Value { return Value{} }

// SumLeft wraps v in a left injection.
func SumLeft(v Value) Value { return Value{kind: KindSumLeft, left: &v} }

// SumRight wraps v in a right injection.
func SumRight(v Value) Value { return Value{kind: KindSumRight, left: &v} }

// Product pairs a and b.
func Product(a, b Value) Value { return Value{kind: KindProduct, left: &a, right: &b} }

// Bits returns a bit-string value holding the first n bits of data (MSB first).
// Bits beyond n in the last byte are cleared. Bits panics if data is too short
// to hold n bits.
func Bits(data []byte, n int) Value {
	if n < 0 || (n+7)/8 > len(data) {
		panic("value: bit length out of range")
	}
	packed := make([]byte, (n+7)/8)
	copy(packed, data)
	if rem := n % 8; rem != 0 {
		packed[len(packed)-1] &= byte(0xFF << (8 - rem))
	}
	return Value{kind: KindBits, bits: packed, n: n}
}

// FromBytes returns a bit-string value of len(data)*8 bits.
func FromBytes(data []byte) Value { return Bits(data, len(data)*8) }

// Kind returns the shape of v.
func (v Value) Kind() Kind { return v.kind }

// Inner returns the injected value of a sum. It panics for other kinds.
func (v Value) Inner() Value {
	if v.kind != KindSumLeft && v.kind != KindSumRight {
		panic("value: Inner on " + v.kind.String())
	}
	return *v.left
}

// Left returns the left component of a product. It panics for other kinds.
func (v Value) Left() Value {
	if v.kind != KindProduct {
		panic("value: Left on " + v.kind.String())
	}
	return *v.left
}

// Right returns the right component of a product. It panics for other kinds.
func (v Value) Right() Value {
	if v.kind != KindProduct {
		panic("value: Right on " + v.kind.String())
	}
	return *v.right
}

// BitLen returns the number of bits in the compact serialization of v:
// one bit per sum tag plus the bits of every word literal.
func (v Value) BitLen() int {
	total := 0
	stack := []*Value{&v}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		switch top.kind {
		case KindSumLeft, KindSumRight:
			total++
			stack = append(stack, top.left)
		case KindProduct:
			stack = append(stack, top.right, top.left)
		case KindBits:
			total += top.n
		}
	}
	return total
}

// ToBytesLen serializes v into packed MSB-first bytes and returns them with the
// number of meaningful bits. Sum tags encode as 0 (left) and 1 (right),
// products serialize left then right, and unit contributes nothing.
func (v Value) ToBytesLen() ([]byte, int) {
	var w bitAppender
	stack := []*Value{&v}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		switch top.kind {
		case KindSumLeft:
			w.push(false)
			stack = append(stack, top.left)
		case KindSumRight:
			w.push(true)
			stack = append(stack, top.left)
		case KindProduct:
			stack = append(stack, top.right, top.left)
		case KindBits:
			for i := 0; i < top.n; i++ {
				w.push(top.bits[i/8]&(0x80>>(i%8)) != 0)
			}
		}
	}
	return w.buf, w.n
}

// Equal reports whether v and o have the same structure. A word literal never
// equals a structured value, even when both serialize to the same bits.
func (v Value) Equal(o Value) bool {
	type pair struct{ a, b *Value }
	stack := []pair{{&v, &o}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if p.a.kind != p.b.kind {
			return false
		}
		switch p.a.kind {
		case KindSumLeft, KindSumRight:
			stack = append(stack, pair{p.a.left, p.b.left})
		case KindProduct:
			stack = append(stack, pair{p.a.left, p.b.left}, pair{p.a.right, p.b.right})
		case KindBits:
			if p.a.n != p.b.n || string(p.a.bits) != string(p.b.bits) {
				return false
			}
		}
	}
	return true
}

// String renders v in a compact structural form, e.g. "(L(unit), 0xff)".
func (v Value) String() string {
	var sb strings.Builder
	// Items are either values to expand or literal text to emit.
	type item struct {
		v    *Value
		text string
	}
	stack := []item{{v: &v}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if top.v == nil {
			sb.WriteString(top.text)
			continue
		}
		switch top.v.kind {
		case KindUnit:
			sb.WriteString("unit")
		case KindSumLeft:
			sb.WriteString("L(")
			stack = append(stack, item{text: ")"}, item{v: top.v.left})
		case KindSumRight:
			sb.WriteString("R(")
			stack = append(stack, item{text: ")"}, item{v: top.v.left})
		case KindProduct:
			sb.WriteString("(")
			stack = append(stack, item{text: ")"}, item{v: top.v.right}, item{text: ", "}, item{v: top.v.left})
		case KindBits:
			sb.WriteString(formatBits(top.v.bits, top.v.n))
		}
	}
	return sb.String()
}

// formatBits renders a bit string as 0x-prefixed hex when it fills whole bytes
// and as 0b-prefixed binary otherwise.
func formatBits(bits []byte, n int) string {
	if n%8 == 0 {
		return "0x" + hex.EncodeToString(bits)
	}
	var sb strings.Builder
	sb.WriteString("0b")
	for i := 0; i < n; i++ {
		if bits[i/8]&(0x80>>(i%8)) != 0 {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

// bitAppender packs bits MSB-first.
type bitAppender struct {
	buf []byte
	n   int
}

func (w *bitAppender) push(bit bool) {
	if w.n%8 == 0 {
		w.buf = append(w.buf, 0)
	}
	if bit {
		w.buf[len(w.buf)-1] |= 0x80 >> (w.n % 8)
	}
	w.n++
}
