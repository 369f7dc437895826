package wordpack

import (
	"encoding/binary"
	"io"

	"github.com/cockroachdb/errors"

	"github.com/go-wordpack/wordpack/bitio"
	"github.com/go-wordpack/wordpack/block"
	"github.com/go-wordpack/wordpack/wpmetrics"
)

// headerSize is the fixed codec-A file header (spec §6): total_words
// (u32 BE), total_blocks (u32 BE), 16 reserved zero bytes.
const headerSize = 24

// blockWindow is the fixed logical block size codec A packs words into
// before compressing (spec §3).
const blockWindow = 65535

// maxWordLen is the largest word the 3-byte big-endian length prefix can
// address (spec §3: "length 1..2^24-1"; an empty word is also accepted,
// matching the "including empty words" testable property in spec §8).
const maxWordLen = 1<<24 - 1

// Encoder writes a codec-A stream: words are packed into fixed
// blockWindow-byte logical windows and each window is compressed
// independently, with back-references allowed into the immediately
// preceding window (spec §4.3-§4.5). It exclusively owns its block
// buffer and LZ77 tables, matching spec §5's single-actor ownership
// model — an Encoder is not safe for concurrent use.
type Encoder struct {
	sink  io.WriteSeeker
	bw    *bitio.Writer
	codec *block.Codec

	buf []byte // undrained bytes: len-prefixed words waiting to fill a block

	totalWords  uint32
	totalBlocks uint32

	metrics *wpmetrics.Recorder
	closed  bool
}

// NewEncoder opens sink for writing, reserving the 24-byte header area
// (spec §6: "opens/truncates sink, reserves a 24-byte header area").
// The header is filled in by Flush once the final word count and block
// count are known.
func NewEncoder(sink io.WriteSeeker, opts EncoderOptions) (*Encoder, error) {
	if _, err := sink.Seek(headerSize, io.SeekStart); err != nil {
		return nil, errors.Wrap(err, "wordpack: reserving header area")
	}
	return &Encoder{
		sink:    sink,
		bw:      bitio.NewWriter(sink),
		codec:   block.NewCodec(opts.seed()),
		buf:     make([]byte, 0, 2*blockWindow),
		metrics: opts.Metrics,
	}, nil
}

// AddWord appends word to the logical byte stream as (len_be24, bytes)
// (spec §6) and compresses any block windows that fills. Words are not
// required to align to block boundaries; a word may straddle one or more
// block windows, and the decoder reassembles across them (spec §3's "a
// word may straddle at most one block boundary" describes the common
// case — this implementation does not special-case word size, so it
// also handles the general case correctly).
func (e *Encoder) AddWord(word []byte) error {
	if len(word) > maxWordLen {
		return markCapacity(errors.Newf("wordpack: word length %d exceeds %d", len(word), maxWordLen))
	}
	var prefix [3]byte
	n := len(word)
	prefix[0] = byte(n >> 16)
	prefix[1] = byte(n >> 8)
	prefix[2] = byte(n)
	e.buf = append(e.buf, prefix[:]...)
	e.buf = append(e.buf, word...)
	e.totalWords++

	for len(e.buf) >= blockWindow {
		if err := e.emitBlock(e.buf[:blockWindow]); err != nil {
			return err
		}
		e.buf = append(e.buf[:0], e.buf[blockWindow:]...)
	}
	return nil
}

func (e *Encoder) emitBlock(raw []byte) error {
	if err := e.codec.EncodeBlock(e.bw, raw); err != nil {
		return errors.Wrap(err, "wordpack: encoding block")
	}
	e.totalBlocks++
	if e.metrics != nil {
		e.metrics.BytesIn.Add(float64(len(raw)))
	}
	return nil
}

// Flush compresses any residual bytes as a final (possibly short) block,
// pads and drains the bit writer, then seeks back to offset 0 to write
// the completed header, finally restoring the write position to the end
// of the stream (spec §6: "seeks back to offset 0 and writes the
// header").
func (e *Encoder) Flush() error {
	if len(e.buf) > 0 {
		if err := e.emitBlock(e.buf); err != nil {
			return err
		}
		e.buf = e.buf[:0]
	}
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
	var header [headerSize]byte
	binary.BigEndian.PutUint32(header[0:4], e.totalWords)
	binary.BigEndian.PutUint32(header[4:8], e.totalBlocks)
	if _, err := e.sink.Write(header[:]); err != nil {
		return errors.Wrap(err, "wordpack: writing header")
	}
	if _, err := e.sink.Seek(end, io.SeekStart); err != nil {
		return errors.Wrap(err, "wordpack: restoring write position")
	}
	return nil
}

// Close flushes any residual state and releases the Encoder's resources.
// It does not close sink; the caller retains ownership of it (spec §6:
// "close() -> void; releases resources" — the sink itself is the
// caller's handle).
func (e *Encoder) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true
	return e.Flush()
}
