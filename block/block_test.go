package block

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/go-wordpack/wordpack/bitio"
)

func roundTrip(t *testing.T, blocks [][]byte) [][]byte {
	t.Helper()
	enc := NewCodec(0x1E35A7BD)
	w := bitio.NewWriter(nil)
	for _, b := range blocks {
		if err := enc.EncodeBlock(w, b); err != nil {
			t.Fatalf("EncodeBlock: %v", err)
		}
	}
	w.Flush()

	r := bitio.NewReader(w.Bytes())
	state := NewDecodeState()
	var got [][]byte
	for range blocks {
		out, err := DecodeBlock(r, state)
		if err != nil {
			t.Fatalf("DecodeBlock: %v", err)
		}
		got = append(got, out)
	}
	return got
}

func TestSingleByteWord(t *testing.T) {
	got := roundTrip(t, [][]byte{{0xAB}})
	if !bytes.Equal(got[0], []byte{0xAB}) {
		t.Fatalf("got %v want [0xAB]", got[0])
	}
}

func TestDescriptorSingletonAlphabet(t *testing.T) {
	block := bytes.Repeat([]byte{0x42}, 300)
	got := roundTrip(t, [][]byte{block})
	if !bytes.Equal(got[0], block) {
		t.Fatalf("mismatch: got %d bytes want %d", len(got[0]), len(block))
	}
}

func TestAllLiteralRandomChoosesStored(t *testing.T) {
	data := make([]byte, 65535)
	rand.New(rand.NewSource(3)).Read(data)

	enc := NewCodec(0x1E35A7BD)
	w := bitio.NewWriter(nil)
	if err := enc.EncodeBlock(w, data); err != nil {
		t.Fatal(err)
	}
	w.Flush()
	if w.Bytes()[0]&0xC0 != headerStored<<6 {
		t.Fatalf("expected stored header for incompressible block")
	}

	r := bitio.NewReader(w.Bytes())
	state := NewDecodeState()
	out, err := DecodeBlock(r, state)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(out, data) {
		t.Fatal("round trip mismatch on stored block")
	}
}

func TestWindowCrossingMatch(t *testing.T) {
	a := bytes.Repeat([]byte{0}, 40000)
	b := bytes.Repeat([]byte{0}, 40000)
	got := roundTrip(t, [][]byte{a, b})
	if !bytes.Equal(got[0], a) || !bytes.Equal(got[1], b) {
		t.Fatal("cross-block round trip mismatch")
	}
}

func TestMixedWordBlocks(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	var blocks [][]byte
	for b := 0; b < 5; b++ {
		var buf []byte
		for len(buf) < 60000 {
			n := 1 + rng.Intn(40)
			word := make([]byte, n)
			rng.Read(word)
			buf = append(buf, byte(n>>16), byte(n>>8), byte(n))
			buf = append(buf, word...)
		}
		blocks = append(blocks, buf)
	}
	got := roundTrip(t, blocks)
	for i := range blocks {
		if !bytes.Equal(got[i], blocks[i]) {
			t.Fatalf("block %d mismatch", i)
		}
	}
}
