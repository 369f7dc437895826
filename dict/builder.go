package dict

import (
	"sort"

	"github.com/go-wordpack/wordpack/symtab"
)

// Dictionary is the final, index-ordered set of admitted candidate byte
// strings (spec §3): contiguous indices 0..Len()-1, each 4..255 bytes.
type Dictionary struct {
	Entries [][]byte
}

// Len returns the number of entries in the dictionary.
func (d *Dictionary) Len() int { return len(d.Entries) }

// BuildOptions overrides the admission caps used when reducing
// candidates to a final dictionary (SPEC_FULL.md §4.1); zero fields fall
// back to spec.md §4.6's defaults, letting tests exercise a tiny cap
// (spec §8 scenario 6) without touching production limits.
type BuildOptions struct {
	MaxQuads  int
	MaxQuints int
}

func (o BuildOptions) quadCap() int {
	if o.MaxQuads > 0 {
		return o.MaxQuads
	}
	return symtab.MaxQuadPrefixes
}

func (o BuildOptions) quintCap() int {
	if o.MaxQuints > 0 {
		return o.MaxQuints
	}
	return symtab.MaxQuintPrefixes
}

// Build runs the scoring and reduction passes of spec §4.6 over t:
// extract candidates, score them against the trie's retained training
// words, then greedily admit the highest-priority candidates into a
// final dictionary respecting the quad (length-4) and quint (length-5)
// population caps; entries of length >= 6 are bounded only by the
// overall MaxDictIndex total.
//
// It returns the dictionary, a candidate-id -> final-dictionary-index
// remap (-1 for rejected candidates, per spec §4.6 step 4), and the
// trie's membership filter for reuse by a WordEncoder built on the same
// trie.
func Build(t *Trie, opts BuildOptions) (*Dictionary, []int32, *Filter) {
	candidates, f := t.ExtractCandidates()

	for _, w := range t.words {
		scoreWord(t, f, candidates, w)
	}

	type ranked struct {
		id       int32
		priority uint32
		minMatch int
		length   int
	}
	var pool []ranked
	for i, c := range candidates {
		// Retain those with >= 2 quad uses or >= 2 large uses (spec §4.6
		// step 1).
		if c.QuadCount < 2 && c.LargeCount < 2 {
			continue
		}
		length := c.MaxMatch
		if length > len(c.Bytes) {
			length = len(c.Bytes)
		}
		if length > symtab.DictMaxMatch {
			length = symtab.DictMaxMatch
		}
		if length < symtab.DictMinMatch {
			continue
		}
		pool = append(pool, ranked{
			id:       int32(i),
			priority: c.QuadCount + c.LargeCount,
			minMatch: c.MinMatch,
			length:   length,
		})
	}
	sort.Slice(pool, func(i, j int) bool {
		if pool[i].priority != pool[j].priority {
			return pool[i].priority > pool[j].priority
		}
		return pool[i].minMatch < pool[j].minMatch
	})

	remap := make([]int32, len(candidates))
	for i := range remap {
		remap[i] = -1
	}

	quadCap, quintCap := opts.quadCap(), opts.quintCap()
	quads, quints := 0, 0
	dictionary := &Dictionary{}
	for _, r := range pool {
		c := candidates[r.id]
		switch r.length {
		case 4:
			if quads >= quadCap {
				continue
			}
			quads++
		case 5:
			if quints >= quintCap {
				continue
			}
			quints++
		}
		if len(dictionary.Entries) >= symtab.MaxDictIndex {
			break
		}
		remap[r.id] = int32(len(dictionary.Entries))
		dictionary.Entries = append(dictionary.Entries, c.Bytes[:r.length])
	}
	return dictionary, remap, f
}

// scoreWord runs the pre-screen + trie-walk scoring pass of spec §4.6
// over one training word, accumulating each matched candidate's
// quad_count/large_count/min_match/max_match.
func scoreWord(t *Trie, f *Filter, candidates []*Candidate, word []byte) {
	n := len(word)
	for i := 0; i < n; {
		if i+4 <= n && f.Has(word[i:i+4]) {
			if candID, length := t.walk(word[i:]); candID >= 0 && length >= symtab.DictMinMatch {
				c := candidates[candID]
				if length == 4 {
					c.QuadCount++
				} else {
					c.LargeCount++
				}
				if c.MinMatch == 0 || length < c.MinMatch {
					c.MinMatch = length
				}
				if length > c.MaxMatch {
					c.MaxMatch = length
				}
				i += length
				continue
			}
		}
		i++
	}
}
