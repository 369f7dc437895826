package dict

import "github.com/cespare/xxhash/v2"

// filterBits is the size of the candidate-membership filter (spec §4.6:
// "a 2^27-bit membership filter"). The hash function itself is
// unspecified by spec.md, so this uses xxhash rather than a hand-rolled
// multiplicative hash — see DESIGN.md.
const filterBits = 1 << 27

// filter is a fixed-size Bloom-style membership filter over 4-byte
// candidate prefixes, allocated once per trie (spec §5's memory policy).
type Filter struct {
	bits []uint64
}

func NewFilter() *Filter {
	return &Filter{bits: make([]uint64, filterBits/64)}
}

func (f *Filter) slot(key []byte) (word int, mask uint64) {
	idx := xxhash.Sum64(key) % filterBits
	return int(idx / 64), 1 << (idx % 64)
}

// Set marks key (the candidate's first 4 bytes) as present.
func (f *Filter) Set(key []byte) {
	w, m := f.slot(key)
	f.bits[w] |= m
}

// Has reports whether key's slot has been marked, per spec §4.6's
// pre-screen step. False positives are possible by construction; a
// caller must still confirm with an actual trie walk.
func (f *Filter) Has(key []byte) bool {
	w, m := f.slot(key)
	return f.bits[w]&m != 0
}
