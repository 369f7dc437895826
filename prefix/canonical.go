// Package prefix implements the length-limited canonical prefix coder
// shared by both wordpack codecs (spec §4.2) and the RLE "alphabet of
// alphabets" used to ship its bit-length vectors.
//
// BuildLengths implements package-merge (Larmore & Hirschberg's coin
// collector's problem, as used by zopfli's katajainen.c), the algorithm
// spec §4.2 names, rather than an unrestricted Huffman tree plus ad hoc
// overflow redistribution: package-merge is provably optimal for a fixed
// maximum code length, which spec §8's "total code length no worse than
// any other length-limited table" property requires.
package prefix

import "sort"

// Code is a symbol's canonical prefix code: Bits is the code value,
// right-aligned, and Len is its length in bits.
type Code struct {
	Bits uint32
	Len  uint8
}

// pkgItem is one "chain" in the package-merge construction: a merged
// weight plus, for every original leaf, how many times that leaf's
// per-level token has been folded into this chain so far. Summing
// counts across the chains selected at the top level gives each leaf's
// final code length directly.
type pkgItem struct {
	weight uint64
	counts []int32
}

// BuildLengths computes a length-limited (<=maxBits) bit-length vector from
// a symbol frequency table. Symbols with zero frequency are assigned
// length 0 (unused). maxBits must be >= 1; the spec caps it at 15.
func BuildLengths(freq []uint32, maxBits uint) []uint8 {
	lengths := make([]uint8, len(freq))

	type leaf struct {
		symbol int
		weight uint64
	}
	var leaves []leaf
	for sym, f := range freq {
		if f > 0 {
			leaves = append(leaves, leaf{sym, uint64(f)})
		}
	}
	if len(leaves) == 0 {
		return lengths
	}
	if len(leaves) == 1 {
		lengths[leaves[0].symbol] = 1
		return lengths
	}

	// Stable sort ascending by weight, tie-broken by symbol, so equal-
	// frequency symbols still produce a deterministic tree.
	sort.Slice(leaves, func(i, j int) bool {
		if leaves[i].weight != leaves[j].weight {
			return leaves[i].weight < leaves[j].weight
		}
		return leaves[i].symbol < leaves[j].symbol
	})

	n := len(leaves)
	limit := 2*n - 2 // a binary tree over n leaves has n-1 internal nodes, each of degree 2

	base := make([]pkgItem, n)
	for i, lf := range leaves {
		counts := make([]int32, n)
		counts[i] = 1
		base[i] = pkgItem{weight: lf.weight, counts: counts}
	}

	// list_1 is just the base tokens, already sorted ascending.
	current := append([]pkgItem(nil), base...)
	if len(current) > limit {
		current = current[:limit]
	}

	// Build list_2 .. list_maxBits: pair up the previous level's chains
	// into packages, merge those packages with a fresh copy of the base
	// tokens (every level reintroduces one token per leaf), and keep
	// only the limit smallest chains — provably sufficient to reproduce
	// the same top-level selection as keeping every chain.
	for level := uint(2); level <= maxBits; level++ {
		packaged := pairUp(current)
		current = mergeItems(packaged, base, limit)
	}

	total := make([]int32, n)
	selected := current
	if len(selected) > limit {
		selected = selected[:limit]
	}
	for _, it := range selected {
		for i, c := range it.counts {
			total[i] += c
		}
	}
	for i, lf := range leaves {
		lengths[lf.symbol] = uint8(total[i])
	}
	return lengths
}

// pairUp combines consecutive chains of a sorted list into packages,
// summing their weights and counts. A trailing unpaired chain (odd list
// length) is dropped: it can never be selected at a deeper level except
// through a pairing that no longer exists once this level moves on.
// The result stays sorted ascending, since summing consecutive pairs of
// a non-decreasing sequence yields a non-decreasing sequence.
func pairUp(items []pkgItem) []pkgItem {
	out := make([]pkgItem, 0, len(items)/2)
	for i := 0; i+1 < len(items); i += 2 {
		a, b := items[i], items[i+1]
		counts := make([]int32, len(a.counts))
		for j := range counts {
			counts[j] = a.counts[j] + b.counts[j]
		}
		out = append(out, pkgItem{weight: a.weight + b.weight, counts: counts})
	}
	return out
}

// mergeItems merges two ascending-sorted chain lists by weight, keeping
// only the smallest limit chains of the result.
func mergeItems(a, b []pkgItem, limit int) []pkgItem {
	out := make([]pkgItem, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if a[i].weight <= b[j].weight {
			out = append(out, a[i])
			i++
		} else {
			out = append(out, b[j])
			j++
		}
	}
	out = append(out, a[i:]...)
	out = append(out, b[j:]...)
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Canonicalize assigns canonical codes from a bit-length vector: symbols
// are ordered by (length, symbol), and codes increase monotonically,
// left-shifted by one bit on every length boundary (spec §4.2).
func Canonicalize(lengths []uint8) []Code {
	codes := make([]Code, len(lengths))

	maxLen := uint8(0)
	for _, l := range lengths {
		if l > maxLen {
			maxLen = l
		}
	}
	if maxLen == 0 {
		return codes
	}

	var blCount [16]int
	for _, l := range lengths {
		if l > 0 {
			blCount[l]++
		}
	}
	var nextCode [16]uint32
	var code uint32
	for bits := uint8(1); bits <= maxLen; bits++ {
		code = (code + uint32(blCount[bits-1])) << 1
		nextCode[bits] = code
	}

	order := make([]int, 0, len(lengths))
	for sym := range lengths {
		if lengths[sym] > 0 {
			order = append(order, sym)
		}
	}
	sort.Slice(order, func(i, j int) bool {
		li, lj := lengths[order[i]], lengths[order[j]]
		if li != lj {
			return li < lj
		}
		return order[i] < order[j]
	})
	for _, sym := range order {
		l := lengths[sym]
		codes[sym] = Code{Bits: nextCode[l], Len: l}
		nextCode[l]++
	}
	return codes
}

// BitLength returns the total number of bits needed to encode freq using
// the per-symbol lengths in lengths (sum of freq[s]*lengths[s]). The
// stored-vs-compressed choice in block.Codec.EncodeBlock does not use it;
// that measures an actual encoding in a scratch writer.
func BitLength(freq []uint32, lengths []uint8) uint64 {
	var total uint64
	for s, f := range freq {
		if f > 0 {
			total += uint64(f) * uint64(lengths[s])
		}
	}
	return total
}
