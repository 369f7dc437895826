package wordpack

import (
	"bytes"
	"encoding/binary"
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"golang.org/x/sys/unix"

	"github.com/go-wordpack/wordpack/bitio"
	"github.com/go-wordpack/wordpack/block"
)

// Decoder reads a codec-A stream produced by Encoder. It exclusively
// owns its block buffers and decoded-word queue (spec §5) and is not
// safe for concurrent use. Construct one with NewDecoder over any
// io.ReaderAt, or OpenMapped for the mmap-backed path spec §6 describes
// as the primary decoder entry point.
type Decoder struct {
	totalWords  uint32
	totalBlocks uint32

	data []byte // stream bytes following the header, owned for this Decoder's lifetime
	mmap []byte // non-nil only when backed by OpenMapped; unmapped by the returned closer

	br            *bitio.Reader
	state         *block.DecodeState
	blocksDecoded uint32

	pending      []byte // decoded bytes not yet split into words
	wordsEmitted uint32
}

// NewDecoder reads the header from r and buffers the remaining size-24
// bytes into memory. size is the total byte length of the underlying
// stream, including the header.
func NewDecoder(r io.ReaderAt, size int64) (*Decoder, error) {
	if size < headerSize {
		return nil, markPrecondition(errors.New("wordpack: stream shorter than header"))
	}
	var header [headerSize]byte
	if _, err := r.ReadAt(header[:], 0); err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "wordpack: reading header")
	}
	body := make([]byte, size-headerSize)
	if len(body) > 0 {
		if _, err := r.ReadAt(body, headerSize); err != nil && err != io.EOF {
			return nil, errors.Wrap(err, "wordpack: reading body")
		}
	}
	d := &Decoder{
		totalWords:  binary.BigEndian.Uint32(header[0:4]),
		totalBlocks: binary.BigEndian.Uint32(header[4:8]),
		data:        body,
	}
	d.Reset()
	return d, nil
}

// OpenMapped opens path read-only and maps it into memory (spec §6: "new
// (memory-mapped-file)"), the way original_source/ccompress's
// cross_file_map.cc backs its reader. The returned closer unmaps the
// file; callers must invoke it once done with the Decoder.
func OpenMapped(path string) (*Decoder, func() error, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.Wrap(err, "wordpack: opening mapped file")
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, nil, errors.Wrap(err, "wordpack: stat mapped file")
	}
	size := info.Size()
	if size < headerSize {
		return nil, nil, markPrecondition(errors.New("wordpack: mapped file shorter than header"))
	}

	mapped, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, nil, errors.Wrap(err, "wordpack: mmap")
	}

	d := &Decoder{
		totalWords:  binary.BigEndian.Uint32(mapped[0:4]),
		totalBlocks: binary.BigEndian.Uint32(mapped[4:8]),
		data:        mapped[headerSize:],
		mmap:        mapped,
	}
	d.Reset()
	closer := func() error { return unix.Munmap(mapped) }
	return d, closer, nil
}

// Reset restarts iteration from the beginning of the stream (spec §6),
// discarding any decoded-but-undelivered bytes and cross-block state.
func (d *Decoder) Reset() error {
	d.br = bitio.NewReader(d.data)
	d.state = block.NewDecodeState()
	d.blocksDecoded = 0
	d.pending = d.pending[:0]
	d.wordsEmitted = 0
	return nil
}

// ensureBytes decodes further blocks until pending holds at least n
// bytes or the stream is exhausted (spec §4.5: blocks are decoded
// strictly in order, one at a time).
func (d *Decoder) ensureBytes(n int) error {
	for len(d.pending) < n && d.blocksDecoded < d.totalBlocks {
		out, err := block.DecodeBlock(d.br, d.state)
		if err != nil {
			return errors.Wrap(err, "wordpack: decoding block")
		}
		d.pending = append(d.pending, out...)
		d.blocksDecoded++
	}
	return nil
}

// HasNext reports whether Next would return another word.
func (d *Decoder) HasNext() bool {
	return d.wordsEmitted < d.totalWords
}

// nextWordBytes decodes enough blocks to expose the next length-prefixed
// word and returns its length and byte range within pending.
func (d *Decoder) nextWordBytes() (n int, err error) {
	if err := d.ensureBytes(3); err != nil {
		return 0, err
	}
	if len(d.pending) < 3 {
		return 0, errors.New("wordpack: truncated stream (missing length prefix)")
	}
	n = int(d.pending[0])<<16 | int(d.pending[1])<<8 | int(d.pending[2])
	if err := d.ensureBytes(3 + n); err != nil {
		return 0, err
	}
	if len(d.pending) < 3+n {
		return 0, errors.New("wordpack: truncated stream (short word)")
	}
	return n, nil
}

func (d *Decoder) consume(n int) []byte {
	word := append([]byte(nil), d.pending[3:3+n]...)
	d.pending = append(d.pending[:0:0], d.pending[3+n:]...)
	return word
}

// Next returns the next word, appending into out if it has spare
// capacity (out may be nil). Words are returned in encode order,
// including empty words (spec §8).
func (d *Decoder) Next(out []byte) ([]byte, error) {
	if !d.HasNext() {
		return nil, io.EOF
	}
	n, err := d.nextWordBytes()
	if err != nil {
		return nil, err
	}
	word := d.consume(n)
	d.wordsEmitted++
	if out == nil {
		return word, nil
	}
	return append(out[:0], word...), nil
}

// Skip advances past the next word without copying its bytes out,
// returning its length.
func (d *Decoder) Skip() (int, error) {
	if !d.HasNext() {
		return 0, io.EOF
	}
	n, err := d.nextWordBytes()
	if err != nil {
		return 0, err
	}
	d.consume(n)
	d.wordsEmitted++
	return n, nil
}

// Match reports whether the next word equals word, consuming it exactly
// like Next (spec §6 groups match alongside next/skip as iterator
// operations, not a non-consuming peek).
func (d *Decoder) Match(word []byte) (bool, error) {
	got, err := d.Next(nil)
	if err != nil {
		return false, err
	}
	return bytes.Equal(got, word), nil
}

// MatchPrefix reports whether the next word starts with prefix,
// consuming it exactly like Next.
func (d *Decoder) MatchPrefix(prefix []byte) (bool, error) {
	got, err := d.Next(nil)
	if err != nil {
		return false, err
	}
	return bytes.HasPrefix(got, prefix), nil
}
