package codec

import "math/bits"

// maxNaturalBits bounds the width of an encoded natural number.
const maxNaturalBits = 62

// bitReader reads bits MSB-first from a byte slice.
type bitReader struct {
	data []byte
	pos  int // bit offset
}

func newBitReader(data []byte) *bitReader { return &bitReader{data: data} }

func (r *bitReader) remaining() int { return len(r.data)*8 - r.pos }

func (r *bitReader) readBit() (uint64, error) {
	if r.pos >= len(r.data)*8 {
		return 0, ErrTruncated
	}
	b := r.data[r.pos/8] >> (7 - r.pos%8) & 1
	r.pos++
	return uint64(b), nil
}

// readBits reads n ≤ 64 bits as an unsigned integer.
func (r *bitReader) readBits(n int) (uint64, error) {
	if n > r.remaining() {
		return 0, ErrTruncated
	}
	var v uint64
	for i := 0; i < n; i++ {
		b, _ := r.readBit()
		v = v<<1 | b
	}
	return v, nil
}

// readPacked reads n bits into a packed MSB-first slice.
func (r *bitReader) readPacked(n int) ([]byte, error) {
	if n > r.remaining() {
		return nil, ErrTruncated
	}
	out := make([]byte, (n+7)/8)
	for i := 0; i < n; i++ {
		b, _ := r.readBit()
		out[i/8] |= byte(b) << (7 - i%8)
	}
	return out, nil
}

// readNatural reads an Elias-gamma coded natural number (≥ 1): k zero bits
// followed by the k+1 bit binary form of the number.
func (r *bitReader) readNatural() (uint64, error) {
	k := 0
	for {
		b, err := r.readBit()
		if err != nil {
			return 0, err
		}
		if b == 1 {
			break
		}
		k++
		if k > maxNaturalBits {
			return 0, ErrNaturalOverflow
		}
	}
	rest, err := r.readBits(k)
	if err != nil {
		return 0, err
	}
	return 1<<k | rest, nil
}

// bitWriter packs bits MSB-first.
type bitWriter struct {
	buf []byte
	n   int
}

func (w *bitWriter) writeBit(b uint64) {
	if w.n%8 == 0 {
		w.buf = append(w.buf, 0)
	}
	if b&1 == 1 {
		w.buf[w.n/8] |= 0x80 >> (w.n % 8)
	}
	w.n++
}

// writeBits writes the low n bits of v, most significant first.
func (w *bitWriter) writeBits(v uint64, n int) {
	for i := n - 1; i >= 0; i-- {
		w.writeBit(v >> i & 1)
	}
}

// writePacked writes the first n bits of a packed MSB-first slice.
func (w *bitWriter) writePacked(data []byte, n int) {
	for i := 0; i < n; i++ {
		w.writeBit(uint64(data[i/8] >> (7 - i%8) & 1))
	}
}

// writeNatural writes v ≥ 1 in Elias-gamma form.
func (w *bitWriter) writeNatural(v uint64) {
	k := bits.Len64(v) - 1
	w.writeBits(0, k)
	w.writeBits(v, k+1)
}

// bytes returns the written bits padded with zeros to a whole byte.
func (w *bitWriter) bytes() []byte { return w.buf }
