// Package symtab holds the static alphabet tables shared by both codecs:
// match-length and distance code schedules (the DEFLATE schedule, per
// spec), and the dictionary-index bucket schedule used by codec B. These
// are pure data, grounded on the length/distance tables carried (under the
// names lengthBase/lengthExtraBits/offsetBase/offsetExtraBits) in the
// teacher's vendored copy of the standard library's compress/flate in
// flate/huffman_bit_writer.go.
package symtab

// Band describes one code in a length-like alphabet: the symbols that code
// covers run from Base to Base+(1<<Extra)-1, with Extra extra bits
// following the prefix code to select the exact value within the band.
type Band struct {
	Base  int  // smallest value this code represents
	Extra uint // number of extra bits following the code
}

// Max returns the largest value representable by this band.
func (b Band) Max() int {
	return b.Base + (1 << b.Extra) - 1
}

const (
	// LiteralCount is the number of literal byte values, 0..255.
	LiteralCount = 256

	// EndOfBlock is the codec-A literal/length alphabet's block terminator.
	EndOfBlock = 256

	// LLAlphabetSize is codec A's literal/length alphabet size (spec §3):
	// 256 literals + EOB + 29 length codes (257..285).
	LLAlphabetSize = 286

	// DistAlphabetSize is codec A's distance alphabet size (spec §3).
	DistAlphabetSize = 30

	// MinMatch and MaxMatch bound codec-A LZ77 matches (spec §4.3).
	MinMatch = 3
	MaxMatch = 258

	// MaxDistance is the codec-A sliding window size (spec §4.3).
	MaxDistance = 32768

	// EndOfWord is codec B's per-word terminator literal.
	EndOfWord = 256

	// WordAlphabetSize is codec B's extended alphabet (spec §4.7):
	// 256 literals + EOW + 27 length codes (257..283).
	WordAlphabetSize = 284

	// DictMinMatch/DictMaxMatch bound a dictionary reference's matched
	// prefix length (spec §3: dictionary entries are 4..255 bytes).
	DictMinMatch = 4
	DictMaxMatch = 255

	// DictBucketCount is the number of dict-index buckets (spec §3).
	DictBucketCount = 32

	// MaxDictIndex is one past the largest valid dictionary index (spec §3,
	// §4.6's MAX_PREFIXES): the dictionary schedule below is constructed so
	// its total capacity equals exactly this value.
	MaxDictIndex = 1064956

	// MaxQuadPrefixes bounds the count of length-4 dictionary entries
	// (spec §4.6).
	MaxQuadPrefixes = 4092

	// MaxQuintPrefixes bounds the count of length-5 dictionary entries
	// (spec §4.6). Entries of length >= 6 carry no sub-population cap of
	// their own, only the overall MaxDictIndex total.
	MaxQuintPrefixes = 540667
)

// LengthBands is the DEFLATE match-length schedule for codes 257..285,
// indexed by code-257. Values and extra-bit counts match RFC 1951 §3.2.5,
// transcribed from the teacher's lengthBase/lengthExtraBits tables; used
// unmodified by codec A (spec §3, min_length=3, max_length=258).
var LengthBands = []Band{
	{3, 0}, {4, 0}, {5, 0}, {6, 0}, {7, 0}, {8, 0}, {9, 0}, {10, 0},
	{11, 1}, {13, 1}, {15, 1}, {17, 1},
	{19, 2}, {23, 2}, {27, 2}, {31, 2},
	{35, 3}, {43, 3}, {51, 3}, {59, 3},
	{67, 4}, {83, 4}, {99, 4}, {115, 4},
	{131, 5}, {163, 5}, {195, 5}, {227, 5},
	{258, 0},
}

// DistBands is the DEFLATE distance schedule for codes 0..29, transcribed
// from the teacher's offsetBase/offsetExtraBits tables; used by codec A
// (min distance 1, max distance 32768) and by codec B's dictionary
// compressor (spec §4.8).
var DistBands = []Band{
	{1, 0}, {2, 0}, {3, 0}, {4, 0},
	{5, 1}, {7, 1},
	{9, 2}, {13, 2},
	{17, 3}, {25, 3},
	{33, 4}, {49, 4},
	{65, 5}, {97, 5},
	{129, 6}, {193, 6},
	{257, 7}, {385, 7},
	{513, 8}, {769, 8},
	{1025, 9}, {1537, 9},
	{2049, 10}, {3073, 10},
	{4097, 11}, {6145, 11},
	{8193, 12}, {12289, 12},
	{16385, 13}, {24577, 13},
}

// WordLengthBands is codec B's match-length schedule for codes 257..283
// (spec §4.7): the first 26 bands reuse the DEFLATE schedule (lengths
// 3..194) and the last band is redefined to cover 227..255 instead of
// DEFLATE's 195..226, since dictionary entries and hence matched runs
// never exceed DictMaxMatch=255. This leaves 195..226 uncodable; the word
// encoder never emits a match in that gap (see dict.WordEncoder), splitting
// or trimming a would-be match instead, exactly as it already must for
// matches longer than DictMaxMatch.
var WordLengthBands = buildWordLengthBands()

func buildWordLengthBands() []Band {
	bands := make([]Band, 0, 27)
	bands = append(bands, LengthBands[:26]...)
	bands = append(bands, Band{227, 5})
	return bands
}

// DictBands is the dictionary-index bucket schedule (spec §3): 32 buckets
// whose extra-bit widths are 13 ascending pairs (1,1,2,2,...,13,13)
// followed by six singles (14,15,16,17,18,19). That construction is the
// only width assignment consistent with both the literal schedule prefix
// spec.md quotes ("1,1,2,2,3,…,18,19") and the stated capacity: its total
// capacity sums to exactly MaxDictIndex (1,064,956), which no other
// interpretation of the truncated schedule text reproduces.
var DictBands = buildDictBands()

func buildDictBands() []Band {
	var extras []uint
	for w := uint(1); w <= 13; w++ {
		extras = append(extras, w, w)
	}
	for w := uint(14); w <= 19; w++ {
		extras = append(extras, w)
	}
	bands := make([]Band, len(extras))
	base := 0
	for i, e := range extras {
		bands[i] = Band{base, e}
		base += 1 << e
	}
	return bands
}

// LengthToCode maps a match length to (code offset from 257, extra bits
// value) using bands. It is the inverse of Band.Max/Base: the caller picks
// the last band whose Base <= length.
func LengthToCode(bands []Band, length int) (code int, extraValue uint32) {
	for i := len(bands) - 1; i >= 0; i-- {
		if length >= bands[i].Base {
			return i, uint32(length - bands[i].Base)
		}
	}
	return 0, 0
}

// DistanceToCode is LengthToCode specialized for DistBands; kept as a
// separate name for call-site clarity in block/dict encoders.
func DistanceToCode(distance int) (code int, extraValue uint32) {
	return LengthToCode(DistBands, distance)
}

// DictIndexToBucket maps a final dictionary index to (bucket code, extra
// bits value) using DictBands.
func DictIndexToBucket(index int) (bucket int, extraValue uint32) {
	return LengthToCode(DictBands, index)
}
