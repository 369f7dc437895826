package block

import (
	"github.com/go-wordpack/wordpack/bitio"
	"github.com/go-wordpack/wordpack/prefix"
	"github.com/go-wordpack/wordpack/symtab"
)

// DecodeState carries the previous block's decoded bytes across calls, so
// a match referencing the predecessor block (spec §4.3, §4.5) can be
// resolved. It is exclusively owned by one decoder.
type DecodeState struct {
	prev []byte
}

// NewDecodeState returns an empty cross-block state for a fresh stream.
func NewDecodeState() *DecodeState { return &DecodeState{} }

// DecodeBlock reads one block's 2-bit header and payload from r, returning
// its decoded bytes, and updates state so the next call can resolve
// matches that reach back into this block.
func DecodeBlock(r *bitio.Reader, state *DecodeState) ([]byte, error) {
	header := r.ReadBits(headerBits)
	var out []byte

	if header == headerStored {
		r.Align()
		n := int(r.ReadBits(16))
		out = append(out, r.ReadRaw(n)...)
	} else {
		lengths := prefix.DecodeDescriptor(r, symtab.LLAlphabetSize+symtab.DistAlphabetSize)
		litLengths := lengths[:symtab.LLAlphabetSize]
		distLengths := lengths[symtab.LLAlphabetSize:]

		litTable := prefix.BuildDecodeTable(prefix.Canonicalize(litLengths))
		distTable := prefix.BuildDecodeTable(prefix.Canonicalize(distLengths))

		for {
			sym, ok := litTable.Decode(r)
			if !ok || sym == symtab.EndOfBlock {
				break
			}
			if sym < symtab.LiteralCount {
				out = append(out, byte(sym))
				continue
			}
			lenCode := sym - 257
			band := symtab.LengthBands[lenCode]
			length := band.Base
			if band.Extra > 0 {
				length += int(r.ReadBits(band.Extra))
			}

			distSym, ok := distTable.Decode(r)
			if !ok {
				break
			}
			dband := symtab.DistBands[distSym]
			distance := dband.Base
			if dband.Extra > 0 {
				distance += int(r.ReadBits(dband.Extra))
			}

			copyMatch(&out, state.prev, distance, length)
		}
	}

	state.prev = append(state.prev[:0:0], out...)
	return out, nil
}

// copyMatch appends length bytes read from distance bytes back in the
// unified prev+out address space, byte at a time so self-overlapping
// copies (distance < length) reproduce correctly — the same technique
// DEFLATE decoders use, generalized to also reach into prev when the
// match's start lies before the start of out (spec §9: the cross-block
// copy may start in prev and extend past its end into out before out has
// that many bytes yet).
func copyMatch(out *[]byte, prev []byte, distance, length int) {
	o := *out
	start := len(o) - distance
	for i := 0; i < length; i++ {
		pos := start + i
		var b byte
		if pos < 0 {
			pi := pos + len(prev)
			if pi >= 0 && pi < len(prev) {
				b = prev[pi]
			}
		} else if pos < len(o) {
			b = o[pos]
		}
		o = append(o, b)
	}
	*out = o
}
