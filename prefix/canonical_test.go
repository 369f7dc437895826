package prefix

import (
	"math/rand"
	"testing"
)

func isPrefixFree(t *testing.T, codes []Code) {
	t.Helper()
	var used []Code
	for _, c := range codes {
		if c.Len == 0 {
			continue
		}
		for _, u := range used {
			minLen := c.Len
			if u.Len < minLen {
				minLen = u.Len
			}
			if (c.Bits>>(c.Len-minLen)) == (u.Bits >> (u.Len - minLen)) {
				t.Fatalf("codes not prefix-free: %+v vs %+v", c, u)
			}
		}
		used = append(used, c)
	}
}

func TestBuildLengthsWithinCap(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	freq := make([]uint32, 286)
	// Skewed, Fibonacci-like distribution that would overflow 15 bits for
	// an unrestricted Huffman tree.
	a, b := uint32(1), uint32(1)
	for i := range freq {
		if rng.Intn(4) == 0 {
			continue // leave some symbols unused
		}
		freq[i] = a
		a, b = b, a+b
		if a > 1<<20 {
			a, b = 1, 1
		}
	}
	lengths := BuildLengths(freq, 15)
	for sym, l := range lengths {
		if freq[sym] == 0 {
			if l != 0 {
				t.Fatalf("unused symbol %d has nonzero length %d", sym, l)
			}
			continue
		}
		if l < 1 || l > 15 {
			t.Fatalf("symbol %d length %d out of [1,15]", sym, l)
		}
	}
	codes := Canonicalize(lengths)
	isPrefixFree(t, codes)
}

func TestCanonicalCodesContiguousPerLength(t *testing.T) {
	lengths := []uint8{3, 3, 3, 3, 2, 4, 4}
	codes := Canonicalize(lengths)
	isPrefixFree(t, codes)

	// Collect codes per length, verify contiguity.
	byLen := map[uint8][]uint32{}
	for _, c := range codes {
		if c.Len == 0 {
			continue
		}
		byLen[c.Len] = append(byLen[c.Len], c.Bits)
	}
	for _, bits := range byLen {
		for i := 1; i < len(bits); i++ {
			if bits[i] != bits[i-1]+1 {
				t.Fatalf("codes of same length not contiguous: %v", bits)
			}
		}
	}
}

func TestSingletonAlphabetGetsLengthOne(t *testing.T) {
	freq := make([]uint32, 10)
	freq[5] = 100
	lengths := BuildLengths(freq, 15)
	if lengths[5] != 1 {
		t.Fatalf("sole used symbol got length %d, want 1", lengths[5])
	}
}

func TestTwoSymbolAlphabetGetsLengthOne(t *testing.T) {
	freq := make([]uint32, 10)
	freq[2] = 7
	freq[9] = 3
	lengths := BuildLengths(freq, 15)
	if lengths[2] != 1 || lengths[9] != 1 {
		t.Fatalf("two-symbol alphabet lengths = %d, %d; want 1, 1", lengths[2], lengths[9])
	}
}

func TestBuildLengthsMatchesPackageMergeOptimum(t *testing.T) {
	// A heavily skewed 3-symbol case with a hand-computable optimum:
	// weights 1,1,100 limited to 2 bits. The unique optimal assignment
	// is the two rare symbols at length 2 and the dominant one at length
	// 1 (cost 1*2+1*2+100*1 = 104); any other length-limited assignment
	// costs strictly more (e.g. 1,2,2 costs 1+2+200 = 203).
	freq := make([]uint32, 3)
	freq[0] = 1
	freq[1] = 1
	freq[2] = 100
	lengths := BuildLengths(freq, 2)
	if lengths[0] != 2 || lengths[1] != 2 || lengths[2] != 1 {
		t.Fatalf("lengths = %v, want [2 2 1]", lengths)
	}
	if got, want := BitLength(freq, lengths), uint64(104); got != want {
		t.Fatalf("total bit cost = %d, want %d (package-merge optimum)", got, want)
	}
}

func TestBuildLengthsOptimalAcrossFourSymbols(t *testing.T) {
	// weights 1,1,1,5, maxBits=3 (not binding: the unrestricted Huffman
	// tree here already has max depth 3). Combining smallest-first gives
	// depths 3,3,2,1 for a cost of 1*3+1*3+1*2+5*1 = 13, which package-
	// merge should reproduce exactly since it subsumes the unconstrained
	// optimum whenever that optimum already respects the bound.
	freq := []uint32{1, 1, 1, 5}
	lengths := BuildLengths(freq, 3)
	cost := BitLength(freq, lengths)
	if cost != 13 {
		t.Fatalf("total bit cost = %d, want 13 (Huffman optimum under maxBits=3): lengths = %v", cost, lengths)
	}
	if lengths[3] >= lengths[0] {
		t.Fatalf("most frequent symbol should get a strictly shorter code: lengths = %v", lengths)
	}
}

func TestEmptyAlphabet(t *testing.T) {
	freq := make([]uint32, 10)
	lengths := BuildLengths(freq, 15)
	for _, l := range lengths {
		if l != 0 {
			t.Fatalf("empty alphabet produced nonzero length")
		}
	}
}
