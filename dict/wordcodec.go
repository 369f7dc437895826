package dict

import (
	"github.com/cockroachdb/errors"

	"github.com/go-wordpack/wordpack/bitio"
	"github.com/go-wordpack/wordpack/prefix"
	"github.com/go-wordpack/wordpack/symtab"
)

// event is one step of a word's precompressed decomposition (spec §4.7
// step 1): either a literal byte or a resolved dictionary match.
type event struct {
	literal   bool
	b         byte
	matchLen  int
	dictIndex int
}

// WordEncoder implements codec B's per-word encoding (spec §4.7): each
// word is pre-compressed against a trie-derived dictionary, then entropy
// coded over the 284-symbol extended alphabet (256 literals + EOW + 27
// length codes) built from frequencies across the whole training set.
type WordEncoder struct {
	trie   *Trie
	filter *Filter
	dict   *Dictionary
	remap  []int32

	lengths []uint8
	codes   []prefix.Code
}

// NewWordEncoder builds canonical codes for the 284-symbol alphabet
// (spec §4.7 steps 2-3) by precompressing every word in words against
// dict via trie/remap, then counting literal/EOW/length-code
// frequencies over the result on top of a count of one for every
// symbol, so words containing bytes or match lengths absent from words
// still have codes. trie, f, dict and remap are normally the values
// Build returned for the same training set.
func NewWordEncoder(trie *Trie, f *Filter, d *Dictionary, remap []int32, words [][]byte) *WordEncoder {
	e := &WordEncoder{trie: trie, filter: f, dict: d, remap: remap}

	freq := make([]uint32, symtab.WordAlphabetSize)
	for s := range freq {
		freq[s] = 1
	}
	for _, w := range words {
		for _, ev := range e.precompress(w) {
			if ev.literal {
				freq[ev.b]++
				continue
			}
			code, _ := symtab.LengthToCode(symtab.WordLengthBands, ev.matchLen)
			freq[257+code]++
		}
		freq[symtab.EndOfWord]++
	}
	e.lengths = prefix.BuildLengths(freq, 15)
	e.codes = prefix.Canonicalize(e.lengths)
	return e
}

// Lengths returns the bit-length vector built for the 284-symbol
// alphabet, serialized alongside the dictionary so a WordDecoder can
// rebuild the same canonical codes.
func (e *WordEncoder) Lengths() []uint8 { return e.lengths }

// precompress walks word against the trie, resolving trie candidates
// through remap and falling back to literals when a matched candidate
// was not admitted into the final dictionary (spec §4.7 step 1; §4.7
// step 2's "if a candidate was rejected ... its bytes fall back to being
// counted as literals"). Matches that would fall in the unrepresentable
// 195..226 length gap (see symtab.WordLengthBands) are trimmed to 194
// bytes; the remaining matched bytes re-enter the scan on the next
// iteration, where they are matched again or emitted as literals.
func (e *WordEncoder) precompress(word []byte) []event {
	var evs []event
	n := len(word)
	for i := 0; i < n; {
		if i+4 <= n && e.filter.Has(word[i:i+4]) {
			if candID, length := e.trie.walk(word[i:]); candID >= 0 && length >= symtab.DictMinMatch {
				if fin := e.remap[candID]; fin >= 0 {
					if length > symtab.DictMaxMatch {
						length = symtab.DictMaxMatch
					}
					if length >= 195 && length <= 226 {
						length = 194
					}
					evs = append(evs, event{matchLen: length, dictIndex: int(fin)})
					i += length
					continue
				}
			}
		}
		evs = append(evs, event{literal: true, b: word[i]})
		i++
	}
	return evs
}

// EncodeWord writes one word's literal/match tuples terminated by EOW
// (spec §4.7 step 4).
func (e *WordEncoder) EncodeWord(w *bitio.Writer, word []byte) error {
	for _, ev := range e.precompress(word) {
		if ev.literal {
			c := e.codes[ev.b]
			if err := w.WriteBits(c.Bits, uint(c.Len)); err != nil {
				return err
			}
			continue
		}
		code, extra := symtab.LengthToCode(symtab.WordLengthBands, ev.matchLen)
		lc := e.codes[257+code]
		if err := w.WriteBits(lc.Bits, uint(lc.Len)); err != nil {
			return err
		}
		if band := symtab.WordLengthBands[code]; band.Extra > 0 {
			if err := w.WriteBits(extra, band.Extra); err != nil {
				return err
			}
		}
		bucket, bextra := symtab.DictIndexToBucket(ev.dictIndex)
		if err := w.WriteBits(uint32(bucket), 5); err != nil {
			return err
		}
		if band := symtab.DictBands[bucket]; band.Extra > 0 {
			if err := w.WriteBits(bextra, band.Extra); err != nil {
				return err
			}
		}
	}
	eow := e.codes[symtab.EndOfWord]
	return w.WriteBits(eow.Bits, uint(eow.Len))
}

// WordDecoder reverses WordEncoder given the same dictionary and the
// bit-length vector shipped alongside it.
type WordDecoder struct {
	dict  *Dictionary
	table *prefix.DecodeTable
}

// NewWordDecoder rebuilds the canonical decode table for the 284-symbol
// alphabet from lengths (as produced by WordEncoder.Lengths and
// deserialized from the stream).
func NewWordDecoder(d *Dictionary, lengths []uint8) *WordDecoder {
	codes := prefix.Canonicalize(lengths)
	return &WordDecoder{dict: d, table: prefix.BuildDecodeTable(codes)}
}

// DecodeWord reads one word's symbol stream from r until EOW.
func (wd *WordDecoder) DecodeWord(r *bitio.Reader) ([]byte, error) {
	var out []byte
	for {
		sym, ok := wd.table.Decode(r)
		if !ok {
			return out, errors.New("dict: word alphabet has no codes")
		}
		if sym == symtab.EndOfWord {
			return out, nil
		}
		if sym < symtab.LiteralCount {
			out = append(out, byte(sym))
			continue
		}
		code := sym - 257
		band := symtab.WordLengthBands[code]
		length := band.Base
		if band.Extra > 0 {
			length += int(r.ReadBits(band.Extra))
		}
		bucket := int(r.ReadBits(5))
		dband := symtab.DictBands[bucket]
		index := dband.Base
		if dband.Extra > 0 {
			index += int(r.ReadBits(dband.Extra))
		}
		if index < 0 || index >= wd.dict.Len() {
			return nil, errors.Newf("dict: dictionary index %d out of range", index)
		}
		entry := wd.dict.Entries[index]
		if length > len(entry) {
			length = len(entry)
		}
		out = append(out, entry[:length]...)
	}
}
