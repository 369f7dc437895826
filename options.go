// Package wordpack implements a compression library for collections of
// short byte strings ("words"), with two coexisting codecs: a
// self-contained streaming block codec (codec A, Encoder in encoder.go and
// Decoder in decoder.go) and a two-pass static-dictionary codec (codec B, see
// staticword.go), sharing bit I/O, canonical prefix coding and LZ77
// match-finding machinery from the bitio, prefix, lz77, symtab and block
// subpackages.
package wordpack

import (
	"math/rand"
	"time"

	"github.com/go-wordpack/wordpack/wpmetrics"
)

// EncoderOptions configures a codec-A Encoder, the way the teacher
// configures brotli.Writer through WriterOptions rather than a config
// file or environment variables (spec.md §6: "The core defines no CLI and
// no env variables").
type EncoderOptions struct {
	// HashSeed overrides the LZ77 match finder's multiplicative hash
	// constant (spec §4.3). Zero means "pick a random odd seed at
	// construction time"; tests that need reproducible output should set
	// this explicitly.
	HashSeed uint32

	// Metrics, if non-nil, receives counters for the words and bytes
	// processed (§4.4 of SPEC_FULL.md): Encoder adds each block's raw byte
	// count to BytesIn, and StaticEncoder increments WordsEncoded and adds
	// each word's length to BytesIn. No encoder updates the Recorder's
	// other fields. Disabled by default so the core codec never requires a
	// metrics backend.
	Metrics *wpmetrics.Recorder
}

func (o EncoderOptions) seed() uint32 {
	if o.HashSeed != 0 {
		return o.HashSeed
	}
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	return rng.Uint32() | 1
}
