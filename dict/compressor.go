// Dictionary compression (spec §4.8): the final static dictionary is
// treated as one byte sequence — each entry's raw bytes, followed by a
// literal-band EOW marker — LZ77-compressed with a dedicated hash-table
// configuration (SHIFT=16, min match 4, max match 255) and entropy coded
// with the same literal/length and distance alphabet shapes codec A uses
// (286 and 30 symbols respectively; EOW reuses code 256, the same value
// as codec A's end-of-block).
package dict

import (
	"github.com/cockroachdb/errors"

	"github.com/go-wordpack/wordpack/bitio"
	"github.com/go-wordpack/wordpack/lz77"
	"github.com/go-wordpack/wordpack/prefix"
	"github.com/go-wordpack/wordpack/symtab"
)

type dictItem struct {
	literal  bool
	eow      bool
	b        byte
	length   int
	distance int
}

// splitAtBoundaries partitions matcher's tokens over the flat entry
// concatenation into dictItems, inserting an eow item at each entry
// boundary. A match that would straddle a boundary is trimmed there; the
// LZ77 matcher itself is unaware of entry structure, so this is the only
// point that enforces it. A trimmed remainder shorter than MinMatch
// falls back to literal bytes pulled directly from data, matching the
// same "too short to stay a match" fallback the word encoder uses for
// its own length-gap trimming.
func splitAtBoundaries(tokens []lz77.Token, data []byte, boundaries []int) []dictItem {
	var items []dictItem
	pos, bi := 0, 0

	flush := func() {
		for bi < len(boundaries) && boundaries[bi] <= pos {
			items = append(items, dictItem{eow: true})
			bi++
		}
	}

	for _, tok := range tokens {
		if tok.Literal {
			items = append(items, dictItem{literal: true, b: tok.Byte})
			pos++
			flush()
			continue
		}
		length := tok.Record.Length
		distance := tok.Record.Distance()
		for length > 0 {
			chunk := length
			if bi < len(boundaries) && boundaries[bi]-pos < chunk {
				chunk = boundaries[bi] - pos
			}
			if chunk <= 0 {
				chunk = length
			}
			if chunk >= lz77.DictConfig.MinMatch {
				items = append(items, dictItem{length: chunk, distance: distance})
			} else {
				for k := 0; k < chunk; k++ {
					items = append(items, dictItem{literal: true, b: data[pos+k]})
				}
			}
			pos += chunk
			length -= chunk
			flush()
		}
	}
	return items
}

// CompressDictionary implements spec §4.8. seed parameterizes the
// dedicated LZ77 hash table the same way EncoderOptions.HashSeed does
// for codec A. It returns the compressed payload (the bit-length
// descriptor followed by the entry symbols), the literal+distance
// bit-length vector to serialize alongside it, and the entry count
// needed to bound decoding (the compressed stream is not otherwise
// self-delimiting once padded to a byte boundary).
func CompressDictionary(seed uint32, d *Dictionary) (payload []byte, lengths []uint8, entryCount int, err error) {
	data := make([]byte, 0, 16*len(d.Entries))
	boundaries := make([]int, 0, len(d.Entries))
	for _, e := range d.Entries {
		data = append(data, e...)
		boundaries = append(boundaries, len(data))
	}

	matcher := lz77.NewMatcherWithConfig(seed, lz77.DictConfig)
	matcher.Reset(data)
	items := splitAtBoundaries(matcher.Tokenize(), data, boundaries)

	litFreq := make([]uint32, symtab.LLAlphabetSize)
	distFreq := make([]uint32, symtab.DistAlphabetSize)
	litFreq[symtab.EndOfBlock] = 1
	for _, it := range items {
		switch {
		case it.eow:
			litFreq[symtab.EndOfBlock]++
		case it.literal:
			litFreq[it.b]++
		default:
			code, _ := symtab.LengthToCode(symtab.LengthBands, it.length)
			litFreq[257+code]++
			dcode, _ := symtab.DistanceToCode(it.distance)
			distFreq[dcode]++
		}
	}

	litLengths := prefix.BuildLengths(litFreq, 15)
	distLengths := prefix.BuildLengths(distFreq, 15)
	litCodes := prefix.Canonicalize(litLengths)
	distCodes := prefix.Canonicalize(distLengths)

	combined := make([]uint8, 0, len(litLengths)+len(distLengths))
	combined = append(combined, litLengths...)
	combined = append(combined, distLengths...)

	w := bitio.NewWriter(nil)
	if err := prefix.EncodeDescriptor(w, combined); err != nil {
		return nil, nil, 0, err
	}
	for _, it := range items {
		switch {
		case it.eow:
			c := litCodes[symtab.EndOfBlock]
			if err := w.WriteBits(c.Bits, uint(c.Len)); err != nil {
				return nil, nil, 0, err
			}
		case it.literal:
			c := litCodes[it.b]
			if err := w.WriteBits(c.Bits, uint(c.Len)); err != nil {
				return nil, nil, 0, err
			}
		default:
			code, extra := symtab.LengthToCode(symtab.LengthBands, it.length)
			lc := litCodes[257+code]
			if err := w.WriteBits(lc.Bits, uint(lc.Len)); err != nil {
				return nil, nil, 0, err
			}
			if band := symtab.LengthBands[code]; band.Extra > 0 {
				if err := w.WriteBits(extra, band.Extra); err != nil {
					return nil, nil, 0, err
				}
			}
			dcode, dextra := symtab.DistanceToCode(it.distance)
			dc := distCodes[dcode]
			if err := w.WriteBits(dc.Bits, uint(dc.Len)); err != nil {
				return nil, nil, 0, err
			}
			if band := symtab.DistBands[dcode]; band.Extra > 0 {
				if err := w.WriteBits(dextra, band.Extra); err != nil {
					return nil, nil, 0, err
				}
			}
		}
	}
	if err := w.Flush(); err != nil {
		return nil, nil, 0, err
	}
	return w.Bytes(), combined, len(d.Entries), nil
}

// DecompressDictionary reverses CompressDictionary: payload is the raw
// compressed bytes, lengths is the 286+30-entry bit-length vector shipped
// alongside them, and entryCount bounds how many EOW markers terminate
// decoding (the padded byte stream is not otherwise self-delimiting).
func DecompressDictionary(payload []byte, lengths []uint8, entryCount int) (*Dictionary, error) {
	if len(lengths) != symtab.LLAlphabetSize+symtab.DistAlphabetSize {
		return nil, errors.Newf("dict: expected %d length entries, got %d",
			symtab.LLAlphabetSize+symtab.DistAlphabetSize, len(lengths))
	}
	litLengths := lengths[:symtab.LLAlphabetSize]
	distLengths := lengths[symtab.LLAlphabetSize:]
	litTable := prefix.BuildDecodeTable(prefix.Canonicalize(litLengths))
	distTable := prefix.BuildDecodeTable(prefix.Canonicalize(distLengths))

	r := bitio.NewReader(payload)
	// payload opens with the descriptor CompressDictionary wrote ahead of
	// the symbols; step past it.
	prefix.DecodeDescriptor(r, len(lengths))
	var out []byte
	d := &Dictionary{Entries: make([][]byte, 0, entryCount)}
	entryStart := 0

	for len(d.Entries) < entryCount {
		sym, ok := litTable.Decode(r)
		if !ok {
			return nil, errors.New("dict: dictionary alphabet has no codes")
		}
		if sym == symtab.EndOfBlock {
			d.Entries = append(d.Entries, append([]byte(nil), out[entryStart:]...))
			entryStart = len(out)
			continue
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
			return nil, errors.New("dict: distance alphabet has no codes")
		}
		dband := symtab.DistBands[distSym]
		distance := dband.Base
		if dband.Extra > 0 {
			distance += int(r.ReadBits(dband.Extra))
		}
		start := len(out) - distance
		for i := 0; i < length; i++ {
			var b byte
			if p := start + i; p >= 0 && p < len(out) {
				b = out[p]
			}
			out = append(out, b)
		}
	}
	return d, nil
}
