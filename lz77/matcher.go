// Package lz77 implements the sliding-window match finder shared by both
// wordpack codecs (spec §4.3, §4.8): 3-byte hash chains over the current
// block, optionally extending a search into the immediately preceding
// block.
//
// The hash-chain structure (insertion-ordered bucket lists, front-of-bucket
// staleness trimming) is grounded on andybalholm-pack's HashChain
// (chain.go); the multiplicative hash constants follow the teacher's
// hash.go (Hash14/kHashMul32), generalized from brotli's fixed 14-bit hash
// to the caller-supplied seed and Config spec §4.3/§4.8 require: codec A
// uses a 14-bit hash over min/max 3/258 with a 32 KiB window, while codec
// B's dictionary compressor (§4.8) uses a 16-bit hash over min/max 4/255
// with the same window.
package lz77

// Config parameterizes a Matcher's hash width and match bounds so one
// implementation serves both codec A (spec §4.3) and codec B's
// dictionary compressor (spec §4.8).
type Config struct {
	ShiftBits   uint
	MinMatch    int
	MaxMatch    int
	MaxDistance int
}

// DefaultConfig is codec A's LZ77 parameterization (spec §4.3): SHIFT=14
// (16,384 buckets), min match 3, max match 258, window 32768.
var DefaultConfig = Config{ShiftBits: 14, MinMatch: 3, MaxMatch: 258, MaxDistance: 32768}

// DictConfig is codec B's dictionary-compressor parameterization (spec
// §4.8): SHIFT=16 (65,536 buckets), min match 4, max match 255, window
// 32768.
var DictConfig = Config{ShiftBits: 16, MinMatch: 4, MaxMatch: 255, MaxDistance: 32768}

// MinMatch, MaxMatch and MaxDistance mirror DefaultConfig for callers
// that only ever use codec A's bounds.
const (
	MinMatch    = 3
	MaxMatch    = 258
	MaxDistance = 32768
)

// Record describes a matched byte run (spec §3): Start and Where are
// positions in a unified address space where the current block occupies
// [0, len(curr)) and the immediately preceding block occupies the negative
// range [-len(prev), 0). Distance is always Where-Start.
type Record struct {
	Start, Where, Length int
}

// Distance returns Where-Start, the backward distance of the match.
func (r Record) Distance() int { return r.Where - r.Start }

// Token is one step of a block's literal/match decomposition.
type Token struct {
	Literal bool
	Byte    byte
	Record  Record
}

// Matcher holds the curr/prev hash-chain pair (spec §4.3, §9 "Global
// mutable state... per-encoder/per-decoder fields"). A Matcher is owned
// exclusively by one block encoder or dictionary compressor.
type Matcher struct {
	cfg  Config
	seed uint32

	curr        []byte
	prev        []byte
	currBuckets [][]int32
	prevBuckets [][]int32
}

// NewMatcher returns a Matcher using seed as the multiplicative hash
// constant and codec A's DefaultConfig. seed must be odd; callers
// typically pick one randomly once per encoder (spec §4.3) and reuse it
// for every block.
func NewMatcher(seed uint32) *Matcher {
	return NewMatcherWithConfig(seed, DefaultConfig)
}

// NewMatcherWithConfig returns a Matcher parameterized by cfg, for
// callers needing codec B's dictionary-compressor bounds (DictConfig)
// instead of codec A's.
func NewMatcherWithConfig(seed uint32, cfg Config) *Matcher {
	buckets := 1 << cfg.ShiftBits
	return &Matcher{
		cfg:         cfg,
		seed:        seed | 1,
		currBuckets: make([][]int32, buckets),
		prevBuckets: make([][]int32, buckets),
	}
}

// Reset begins a new block: the hash table that was curr becomes prev (a
// byte-for-byte snapshot, per spec §9's "predecessor block is a snapshot,
// not a shared buffer"), its bucket lists are reused directly as the new
// prevBuckets (swap, no realloc), and newCurr becomes the block to search.
func (m *Matcher) Reset(newCurr []byte) {
	m.prev = append(m.prev[:0], m.curr...)
	m.prevBuckets, m.currBuckets = m.currBuckets, m.prevBuckets
	for i := range m.currBuckets {
		m.currBuckets[i] = m.currBuckets[i][:0]
	}
	m.curr = newCurr
}

func (m *Matcher) hash3(pos int) int {
	b0, b1, b2 := m.curr[pos], m.curr[pos+1], m.curr[pos+2]
	v := uint32(b0) | uint32(b1)<<8 | uint32(b2)<<16
	h := v * m.seed
	return int(h >> (32 - m.cfg.ShiftBits))
}

// byteAt reads one byte from the unified curr/prev address space.
func (m *Matcher) byteAt(pos int) byte {
	if pos < 0 {
		return m.prev[pos+len(m.prev)]
	}
	return m.curr[pos]
}

func (m *Matcher) extend(start, where int) int {
	length := 0
	limit := len(m.curr) - where
	if limit > m.cfg.MaxMatch {
		limit = m.cfg.MaxMatch
	}
	for length < limit && m.byteAt(start+length) == m.byteAt(where+length) {
		length++
	}
	return length
}

// insert records position i (0-based within curr) in the current hash
// table, trimming any bucket entries that have already aged out of the
// window so buckets stay bounded.
func (m *Matcher) insert(i int) {
	if len(m.curr)-i < m.cfg.MinMatch {
		return
	}
	h := m.hash3(i)
	bucket := m.currBuckets[h]
	trim := 0
	for trim < len(bucket) && i-int(bucket[trim]) > m.cfg.MaxDistance {
		trim++
	}
	if trim > 0 {
		bucket = append(bucket[:0], bucket[trim:]...)
	}
	m.currBuckets[h] = append(bucket, int32(i))
}

// search finds the best match at position i, per spec §4.3: probe curr's
// bucket first, then (if i < MaxDistance) prev's bucket restricted to
// entries within the window; accept the longest match, ties broken by
// smallest distance (most recent).
func (m *Matcher) search(i int) (Record, bool) {
	h := m.hash3(i)
	var best Record
	haveBest := false

	consider := func(start int) {
		l := m.extend(start, i)
		if l < m.cfg.MinMatch {
			return
		}
		cand := Record{Start: start, Where: i, Length: l}
		if !haveBest {
			best, haveBest = cand, true
			return
		}
		if l > best.Length || (l == best.Length && cand.Distance() < best.Distance()) {
			best = cand
		}
	}

	for _, idx := range m.currBuckets[h] {
		if i-int(idx) > m.cfg.MaxDistance {
			continue
		}
		consider(int(idx))
	}

	if i < m.cfg.MaxDistance && len(m.prev) > 0 {
		minIdx := len(m.prev) - (m.cfg.MaxDistance - i)
		for _, idx := range m.prevBuckets[h] {
			if int(idx) < minIdx {
				continue
			}
			consider(int(idx) - len(m.prev))
		}
	}

	return best, haveBest
}

// Tokenize decomposes the block most recently installed via Reset into a
// sequence of literals and match records, inserting each searched position
// into the hash table per the spec's insertion policy: on a hit, insert
// only the match's starting position and advance by its length; on a miss,
// insert the position and advance by one.
func (m *Matcher) Tokenize() []Token {
	var tokens []Token
	i := 0
	n := len(m.curr)
	for i < n {
		if n-i >= m.cfg.MinMatch {
			if rec, ok := m.search(i); ok {
				tokens = append(tokens, Token{Record: rec})
				m.insert(i)
				i += rec.Length
				continue
			}
			m.insert(i)
		}
		tokens = append(tokens, Token{Literal: true, Byte: m.curr[i]})
		i++
	}
	return tokens
}
