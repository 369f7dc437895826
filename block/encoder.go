// Package block implements the codec-A block encoder and decoder (spec
// §4.4, §4.5): each 65,535-byte logical window is tokenized by lz77,
// entropy-coded with prefix, and framed with a 2-bit stored/compressed
// header, choosing whichever representation is actually smaller.
package block

import (
	"github.com/go-wordpack/wordpack/bitio"
	"github.com/go-wordpack/wordpack/lz77"
	"github.com/go-wordpack/wordpack/prefix"
	"github.com/go-wordpack/wordpack/symtab"
)

const (
	headerStored     = 0b00
	headerCompressed = 0b11
	headerBits       = 2
)

// Codec holds the state carried across a stream's blocks: the LZ77 hash
// tables (curr/prev) and the hash seed. It is exclusively owned by one
// encoder or decoder, matching spec §5's single-actor ownership model.
type Codec struct {
	matcher *lz77.Matcher
}

// NewCodec returns a Codec that uses seed for its LZ77 hash function
// (spec §4.3: "a random odd 32-bit seed chosen at encoder construction").
func NewCodec(seed uint32) *Codec {
	return &Codec{matcher: lz77.NewMatcher(seed)}
}

type tables struct {
	litFreq, distFreq     []uint32
	litLengths, distLen   []uint8
	litCodes, distCodes   []prefix.Code
}

func buildTables(tokens []lz77.Token) tables {
	litFreq := make([]uint32, symtab.LLAlphabetSize)
	distFreq := make([]uint32, symtab.DistAlphabetSize)
	litFreq[symtab.EndOfBlock] = 1

	for _, tok := range tokens {
		if tok.Literal {
			litFreq[tok.Byte]++
			continue
		}
		lenCode, _ := symtab.LengthToCode(symtab.LengthBands, tok.Record.Length)
		distCode, _ := symtab.DistanceToCode(tok.Record.Distance())
		litFreq[257+lenCode]++
		distFreq[distCode]++
	}

	litLengths := prefix.BuildLengths(litFreq, 15)
	distLengths := prefix.BuildLengths(distFreq, 15)
	return tables{
		litFreq:    litFreq,
		distFreq:   distFreq,
		litLengths: litLengths,
		distLen:    distLengths,
		litCodes:   prefix.Canonicalize(litLengths),
		distCodes:  prefix.Canonicalize(distLengths),
	}
}

func writePayload(w *bitio.Writer, tokens []lz77.Token, t tables) error {
	combined := make([]uint8, 0, len(t.litLengths)+len(t.distLen))
	combined = append(combined, t.litLengths...)
	combined = append(combined, t.distLen...)
	if err := prefix.EncodeDescriptor(w, combined); err != nil {
		return err
	}

	for _, tok := range tokens {
		if tok.Literal {
			c := t.litCodes[tok.Byte]
			if err := w.WriteBits(c.Bits, uint(c.Len)); err != nil {
				return err
			}
			continue
		}
		lenCode, lenExtra := symtab.LengthToCode(symtab.LengthBands, tok.Record.Length)
		lc := t.litCodes[257+lenCode]
		if err := w.WriteBits(lc.Bits, uint(lc.Len)); err != nil {
			return err
		}
		if band := symtab.LengthBands[lenCode]; band.Extra > 0 {
			if err := w.WriteBits(lenExtra, band.Extra); err != nil {
				return err
			}
		}
		distCode, distExtra := symtab.DistanceToCode(tok.Record.Distance())
		dc := t.distCodes[distCode]
		if err := w.WriteBits(dc.Bits, uint(dc.Len)); err != nil {
			return err
		}
		if band := symtab.DistBands[distCode]; band.Extra > 0 {
			if err := w.WriteBits(distExtra, band.Extra); err != nil {
				return err
			}
		}
	}

	eob := t.litCodes[symtab.EndOfBlock]
	return w.WriteBits(eob.Bits, uint(eob.Len))
}

// EncodeBlock tokenizes raw (spec §4.4 step 1-2), builds canonical tables
// (step 3), and picks stored or compressed by actually measuring both
// representations' bit cost (step 4) rather than the source's cheaper
// lower-bound estimate — see DESIGN.md.
func (c *Codec) EncodeBlock(w *bitio.Writer, raw []byte) error {
	c.matcher.Reset(raw)
	tokens := c.matcher.Tokenize()
	t := buildTables(tokens)

	scratch := bitio.NewWriter(nil)
	if err := writePayload(scratch, tokens, t); err != nil {
		return err
	}
	compressedBits := scratch.BitLength()

	pad := (8 - (w.PendingBits()+headerBits)%8) % 8
	storedBits := int(headerBits+pad) + 16 + len(raw)*8

	if compressedBits+headerBits < storedBits {
		if err := w.WriteBits(headerCompressed, headerBits); err != nil {
			return err
		}
		return writePayload(w, tokens, t)
	}

	if err := w.WriteBits(headerStored, headerBits); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if err := w.WriteBits(uint32(len(raw)), 16); err != nil {
		return err
	}
	return w.WriteRaw(raw)
}
