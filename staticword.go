package wordpack

import (
	"encoding/binary"
	"io"

	"github.com/cockroachdb/errors"

	"github.com/go-wordpack/wordpack/bitio"
	"github.com/go-wordpack/wordpack/dict"
	"github.com/go-wordpack/wordpack/symtab"
	"github.com/go-wordpack/wordpack/wpmetrics"
)

// DictBuilder is codec B's phase-1 handle (spec §6: "train on a sample
// via trie.insert(bytes), then build_dict(trie) -> dict"). It owns one
// dict.Trie exclusively (spec §5) until Build consumes it.
type DictBuilder struct {
	trie *dict.Trie
	opts dict.BuildOptions
}

// NewDictBuilder returns an empty DictBuilder. Zero-valued opts falls
// back to spec.md §4.6's production caps (1,064,956 total entries, see
// dict.BuildOptions); tests that need a small cap (spec §8 scenario 6)
// should set opts.MaxQuads/MaxQuints explicitly.
func NewDictBuilder(opts dict.BuildOptions) *DictBuilder {
	return &DictBuilder{trie: dict.NewTrie(), opts: opts}
}

// Insert trains the dictionary on one sample word, per spec §6's
// trie.insert. It returns dict.ErrCapacityExceeded once the trie's
// 2^24-node cap is reached; the partial trie built so far remains valid
// (spec §8 scenario 6).
func (b *DictBuilder) Insert(word []byte) error {
	return b.trie.Insert(word)
}

// BuiltDictionary is the output of DictBuilder.Build: a final static
// dictionary plus everything a WordEncoder needs to precompress words
// against it (spec §4.6 step 4's remap, and the trie's own membership
// filter, reused rather than rebuilt).
type BuiltDictionary struct {
	trie   *dict.Trie
	dict   *dict.Dictionary
	remap  []int32
	filter *dict.Filter
}

// Len reports the final dictionary's entry count.
func (bd *BuiltDictionary) Len() int { return bd.dict.Len() }

// Build runs spec §4.6's scoring and reduction pass over every word
// inserted so far, producing the final dictionary (spec §6:
// "build_dict(trie) -> dict").
func (b *DictBuilder) Build() *BuiltDictionary {
	d, remap, f := dict.Build(b.trie, b.opts)
	return &BuiltDictionary{trie: b.trie, dict: d, remap: remap, filter: f}
}

// staticHeaderBase is the fixed-width prefix of the codec-B header (spec
// §6): word count (u64 BE), block count (u32 BE), max word size (u32
// BE), before the variable-length dictionary section.
const staticHeaderBase = 8 + 4 + 4

// blockOffsetBits is the width of the per-block logical-stream-offset
// field codec B's "each block carries its offset within the logical
// byte stream" (spec §6) is written with, stored in-band at the start of
// each block's bit stream rather than in a separate table — matching
// how codec A keeps block framing entirely in-stream.
const blockOffsetBits = 64

// StaticEncoder writes a codec-B stream: a length-prefixed compressed
// dictionary (built in a prior DictBuilder phase) followed by the words
// themselves, each pre-compressed against that dictionary and grouped
// into blockWindow-byte logical windows exactly like codec A's Encoder
// (spec §6 phase 2: "per word, precompress(dict, word) -> triples; then
// encode_block(...); finally encode_dict(dict) once"). It exclusively
// owns its word encoder and block buffer (spec §5).
type StaticEncoder struct {
	sink io.WriteSeeker
	bw   *bitio.Writer
	enc  *dict.WordEncoder

	pendingLen int // raw byte count accumulated into the block currently being written

	totalWords  uint64
	totalBlocks uint32
	maxWordSize uint32

	streamOffset uint64 // running logical byte offset across all blocks
	metrics      *wpmetrics.Recorder
	closed       bool

	built *BuiltDictionary
}

// NewStaticEncoder opens sink for writing and reserves space for the
// codec-B header; built is the output of a prior DictBuilder.Build call.
// Training words passed to the builder are reused here to derive the
// word alphabet's canonical codes (spec §4.7 step 2-3).
func NewStaticEncoder(sink io.WriteSeeker, built *BuiltDictionary, trainingWords [][]byte, opts EncoderOptions) (*StaticEncoder, error) {
	e := &StaticEncoder{
		sink:    sink,
		bw:      bitio.NewWriter(sink),
		enc:     dict.NewWordEncoder(built.trie, built.filter, built.dict, built.remap, trainingWords),
		built:   built,
		metrics: opts.Metrics,
	}
	if err := e.writeDictSection(opts.seed()); err != nil {
		return nil, err
	}
	return e, nil
}

// writeDictSection compresses and writes built's dictionary (spec §6:
// "followed by the compressed dictionary (its own length prefix)") after
// a placeholder for the header fields filled in at Close. The dictionary
// section itself carries its own byte length so a decoder can skip
// straight to the block stream without parsing the header first.
func (e *StaticEncoder) writeDictSection(seed uint32) error {
	if _, err := e.sink.Seek(int64(staticHeaderBase), io.SeekStart); err != nil {
		return errors.Wrap(err, "wordpack: seeking past header")
	}
	payload, llLengths, entryCount, err := dict.CompressDictionary(seed, e.built.dict)
	if err != nil {
		return errors.Wrap(err, "wordpack: compressing dictionary")
	}
	wordLengths := e.enc.Lengths()

	var lenField [4]byte
	sectionLen := 4 /* entryCount */ + len(llLengths) + len(wordLengths) + len(payload)
	binary.BigEndian.PutUint32(lenField[:], uint32(sectionLen))
	if _, err := e.sink.Write(lenField[:]); err != nil {
		return errors.Wrap(err, "wordpack: writing dict section length")
	}

	var entryField [4]byte
	binary.BigEndian.PutUint32(entryField[:], uint32(entryCount))
	if _, err := e.sink.Write(entryField[:]); err != nil {
		return errors.Wrap(err, "wordpack: writing dict entry count")
	}
	if _, err := e.sink.Write(llLengths); err != nil {
		return errors.Wrap(err, "wordpack: writing dict literal/distance lengths")
	}
	if _, err := e.sink.Write(wordLengths); err != nil {
		return errors.Wrap(err, "wordpack: writing word alphabet lengths")
	}
	if _, err := e.sink.Write(payload); err != nil {
		return errors.Wrap(err, "wordpack: writing compressed dictionary payload")
	}
	return nil
}

// AddWord precompresses and entropy-codes word against the static
// dictionary, packing blockWindow-byte logical windows exactly like
// codec A's Encoder.AddWord.
func (e *StaticEncoder) AddWord(word []byte) error {
	if len(word) > maxWordLen {
		return markCapacity(errors.Newf("wordpack: word length %d exceeds %d", len(word), maxWordLen))
	}
	if len(word) > int(e.maxWordSize) {
		e.maxWordSize = uint32(len(word))
	}
	if e.pendingLen == 0 {
		if err := e.beginBlock(); err != nil {
			return err
		}
	}
	if err := e.enc.EncodeWord(e.bw, word); err != nil {
		return errors.Wrap(err, "wordpack: encoding word")
	}
	e.totalWords++
	e.pendingLen += len(word)
	e.streamOffset += uint64(len(word))
	if e.metrics != nil {
		e.metrics.WordsEncoded.Inc()
		e.metrics.BytesIn.Add(float64(len(word)))
	}
	if e.pendingLen >= blockWindow {
		e.pendingLen = 0
	}
	return nil
}

// beginBlock writes the next block's logical-stream-offset marker (spec
// §6: "each block carries its offset within the logical byte stream").
func (e *StaticEncoder) beginBlock() error {
	if err := e.bw.WriteBits(uint32(e.streamOffset>>32), 32); err != nil {
		return err
	}
	if err := e.bw.WriteBits(uint32(e.streamOffset), 32); err != nil {
		return err
	}
	e.totalBlocks++
	return nil
}

// Flush finishes the trailing block (if any words remain unflushed by a
// full window) and writes the fixed header fields now that totals are
// known.
func (e *StaticEncoder) Flush() error {
	if err := e.bw.Flush(); err != nil {
		return errors.Wrap(err, "wordpack: flushing bit writer")
	}
	end, err := e.sink.Seek(0, io.SeekCurrent)
	if err != nil {
		return errors.Wrap(err, "wordpack: locating end of stream")
	}
	if _, err := e.sink.Seek(0, io.SeekStart); err != nil {
		return errors.Wrap(err, "wordpack: seeking to header")
	}
	var header [staticHeaderBase]byte
	binary.BigEndian.PutUint64(header[0:8], e.totalWords)
	binary.BigEndian.PutUint32(header[8:12], e.totalBlocks)
	binary.BigEndian.PutUint32(header[12:16], e.maxWordSize)
	if _, err := e.sink.Write(header[:]); err != nil {
		return errors.Wrap(err, "wordpack: writing header")
	}
	if _, err := e.sink.Seek(end, io.SeekStart); err != nil {
		return errors.Wrap(err, "wordpack: restoring write position")
	}
	return nil
}

// Close flushes any residual state. It does not close sink.
func (e *StaticEncoder) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true
	return e.Flush()
}

// StaticDecoder reads a codec-B stream produced by StaticEncoder,
// reconstructing the dictionary and word alphabet from the stream itself
// before decoding any words (spec §6's decoder API, shared in shape with
// codec A's Decoder).
type StaticDecoder struct {
	totalWords  uint64
	totalBlocks uint32
	maxWordSize uint32

	dict *dict.Dictionary
	wdec *dict.WordDecoder

	body []byte
	br   *bitio.Reader

	blocksDecoded uint32
	wordsEmitted  uint64
	pendingLen    int // raw byte count accumulated since the last block boundary, mirrors StaticEncoder.pendingLen
}

// NewStaticDecoder reads the codec-B header, reconstructs the static
// dictionary and word alphabet, and positions the reader at the first
// block.
func NewStaticDecoder(r io.ReaderAt, size int64) (*StaticDecoder, error) {
	if size < staticHeaderBase+4 {
		return nil, markPrecondition(errors.New("wordpack: stream shorter than header"))
	}
	var header [staticHeaderBase]byte
	if _, err := r.ReadAt(header[:], 0); err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "wordpack: reading header")
	}
	d := &StaticDecoder{
		totalWords:  binary.BigEndian.Uint64(header[0:8]),
		totalBlocks: binary.BigEndian.Uint32(header[8:12]),
		maxWordSize: binary.BigEndian.Uint32(header[12:16]),
	}

	var lenField [4]byte
	if _, err := r.ReadAt(lenField[:], staticHeaderBase); err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "wordpack: reading dict section length")
	}
	sectionLen := int64(binary.BigEndian.Uint32(lenField[:]))
	sectionStart := int64(staticHeaderBase) + 4
	section := make([]byte, sectionLen)
	if _, err := r.ReadAt(section, sectionStart); err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "wordpack: reading dict section")
	}

	entryCount := int(binary.BigEndian.Uint32(section[0:4]))
	llLen := symtab.LLAlphabetSize + symtab.DistAlphabetSize
	wordLen := symtab.WordAlphabetSize
	if len(section) < 4+llLen+wordLen {
		return nil, markPrecondition(errors.New("wordpack: truncated dictionary section"))
	}
	llLengths := section[4 : 4+llLen]
	wordLengths := section[4+llLen : 4+llLen+wordLen]
	payload := section[4+llLen+wordLen:]

	dd, err := dict.DecompressDictionary(payload, llLengths, entryCount)
	if err != nil {
		return nil, errors.Wrap(err, "wordpack: decompressing dictionary")
	}
	d.dict = dd
	d.wdec = dict.NewWordDecoder(dd, append([]byte(nil), wordLengths...))

	bodyStart := sectionStart + sectionLen
	bodyLen := size - bodyStart
	d.body = make([]byte, bodyLen)
	if bodyLen > 0 {
		if _, err := r.ReadAt(d.body, bodyStart); err != nil && err != io.EOF {
			return nil, errors.Wrap(err, "wordpack: reading block body")
		}
	}
	d.br = bitio.NewReader(d.body)
	return d, nil
}

// HasNext reports whether Next would return another word.
func (d *StaticDecoder) HasNext() bool {
	return d.wordsEmitted < d.totalWords
}

func (d *StaticDecoder) ensureBlock() error {
	if d.blocksDecoded >= d.totalBlocks {
		return nil
	}
	// A new block begins wherever the previous one left off; blocks
	// carry no word count of their own, so the boundary is implicit in
	// the blockWindow-byte accumulation AddWord performed. Consume the
	// block's leading offset marker (spec §6) and discard it: the
	// decoder reconstructs the logical stream strictly in word order
	// and does not need it for correctness, only parity with the
	// encoder's framing.
	_ = d.br.ReadBits(32)
	_ = d.br.ReadBits(32)
	d.blocksDecoded++
	return nil
}

// Next returns the next word, appending into out if it has spare
// capacity (out may be nil).
func (d *StaticDecoder) Next(out []byte) ([]byte, error) {
	if !d.HasNext() {
		return nil, io.EOF
	}
	if d.pendingLen == 0 {
		if err := d.ensureBlock(); err != nil {
			return nil, err
		}
	}
	word, err := d.wdec.DecodeWord(d.br)
	if err != nil {
		return nil, errors.Wrap(err, "wordpack: decoding word")
	}
	d.wordsEmitted++
	d.pendingLen += len(word)
	if d.pendingLen >= blockWindow {
		d.pendingLen = 0
	}
	if out == nil {
		return word, nil
	}
	return append(out[:0], word...), nil
}
