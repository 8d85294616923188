// Package bitio provides a small bit-level writer used to pack
// sub-byte-width fields (triangle indices, material-batch descriptors, delta
// fields) into a tightly-packed little-endian word stream.
package bitio

// Writer accumulates bits into a pending 64-bit register and flushes
// complete words out to an internal []uint32 buffer. It never emits more
// than 32 bits per Append call.
//
// Bits are appended low-to-high: the first bit written occupies bit 0 of
// the stream, matching the layout a GPU shader reads back with a simple
// shift-and-mask.
type Writer struct {
	words   []uint32
	pending uint64
	nbits   uint
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Append packs the low width bits of value into the stream. width must be
// in [0, 32]; width == 0 is a no-op (value must be 0 in that case — callers
// use it for fields that degenerate to zero bits).
func (w *Writer) Append(value uint32, width int) {
	if width <= 0 {
		return
	}
	if width > 32 {
		width = 32
	}

	mask := uint64(1)<<uint(width) - 1
	w.pending |= (uint64(value) & mask) << w.nbits
	w.nbits += uint(width)

	for w.nbits >= 32 {
		w.words = append(w.words, uint32(w.pending))
		w.pending >>= 32
		w.nbits -= 32
	}
}

// Flush pads the current partial word out to a whole number of
// alignmentBytes (typically 4, i.e. one uint32 word) and emits it. Calling
// Flush with no pending bits and the stream already aligned is a no-op.
func (w *Writer) Flush(alignmentBytes int) {
	if w.nbits > 0 {
		w.words = append(w.words, uint32(w.pending))
		w.pending = 0
		w.nbits = 0
	}

	alignWords := alignmentBytes / 4
	if alignWords <= 0 {
		alignWords = 1
	}
	for len(w.words)%alignWords != 0 {
		w.words = append(w.words, 0)
	}
}

// Words returns the packed uint32 words written so far. The returned slice
// aliases the Writer's internal buffer and must not be retained across
// further Append/Flush calls.
func (w *Writer) Words() []uint32 {
	return w.words
}

// Bytes returns the packed stream as little-endian bytes.
func (w *Writer) Bytes() []byte {
	out := make([]byte, 4*len(w.words))
	for i, word := range w.words {
		out[4*i+0] = byte(word)
		out[4*i+1] = byte(word >> 8)
		out[4*i+2] = byte(word >> 16)
		out[4*i+3] = byte(word >> 24)
	}
	return out
}

// Reset clears the Writer for reuse.
func (w *Writer) Reset() {
	w.words = w.words[:0]
	w.pending = 0
	w.nbits = 0
}
