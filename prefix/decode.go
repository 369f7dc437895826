package prefix

import "github.com/go-wordpack/wordpack/bitio"

// DecodeTable inverts a canonical code table (Canonicalize's output) for
// bit-at-a-time decoding: for each candidate length 1..15 it holds a map
// from the peeked bit pattern to the symbol that owns it. Exactly one
// length will match for any valid prefix-free stream, since codes are
// prefix-free by construction.
type DecodeTable struct {
	byLength [16]map[uint32]int
}

// BuildDecodeTable constructs a DecodeTable from a canonical code table as
// produced by Canonicalize.
func BuildDecodeTable(codes []Code) *DecodeTable {
	t := &DecodeTable{}
	for sym, c := range codes {
		if c.Len == 0 {
			continue
		}
		if t.byLength[c.Len] == nil {
			t.byLength[c.Len] = make(map[uint32]int)
		}
		t.byLength[c.Len][c.Bits] = sym
	}
	return t
}

// Decode reads one symbol from r. ok is false when no code in the table
// matches the next bits: always for an empty table (no symbols were ever
// assigned a code), and also for input the table does not cover, such as
// a 1 bit when the only code is the 1-bit code 0.
func (t *DecodeTable) Decode(r *bitio.Reader) (symbol int, ok bool) {
	for l := uint(1); l <= 15; l++ {
		m := t.byLength[l]
		if m == nil {
			continue
		}
		peek := r.Peek(l)
		if sym, found := m[peek]; found {
			r.Drop(l)
			return sym, true
		}
	}
	return 0, false
}
