package bitio

import (
	"bytes"
	"math/rand"
	"testing"
)

func TestWriteReadRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	rng := rand.New(rand.NewSource(1))
	type entry struct {
		value uint32
		n     uint
	}
	var entries []entry
	for i := 0; i < 10000; i++ {
		n := uint(1 + rng.Intn(24))
		v := uint32(rng.Int63()) & ((uint32(1) << n) - 1)
		entries = append(entries, entry{v, n})
		if err := w.WriteBits(v, n); err != nil {
			t.Fatalf("WriteBits: %v", err)
		}
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	r := NewReader(buf.Bytes())
	for i, e := range entries {
		got := r.ReadBits(e.n)
		if got != e.value {
			t.Fatalf("entry %d: got %d want %d (n=%d)", i, got, e.value, e.n)
		}
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	w := NewWriter(nil)
	w.WriteBits(0b101, 3)
	w.WriteBits(0b11110000, 8)
	w.Flush()

	r := NewReader(w.Bytes())
	if got := r.Peek(3); got != 0b101 {
		t.Fatalf("Peek(3) = %b, want 101", got)
	}
	if got := r.Peek(3); got != 0b101 {
		t.Fatalf("second Peek(3) = %b, want 101 (peek must not consume)", got)
	}
	r.Drop(3)
	if got := r.ReadBits(8); got != 0b11110000 {
		t.Fatalf("ReadBits(8) = %b, want 11110000", got)
	}
}

func TestReadPastEndYieldsZero(t *testing.T) {
	w := NewWriter(nil)
	w.WriteBits(0xFF, 8)
	w.Flush()

	r := NewReader(w.Bytes())
	r.ReadBits(8)
	// Past end of stream: silent zero bits, never an error.
	for i := 0; i < 100; i++ {
		if got := r.ReadBits(16); got != 0 {
			t.Fatalf("read past end = %d, want 0", got)
		}
	}
}

func TestWriteByteFastPath(t *testing.T) {
	w := NewWriter(nil)
	for _, b := range []byte("hello, wordpack") {
		if err := w.WriteByte(b); err != nil {
			t.Fatal(err)
		}
	}
	w.Flush()
	if string(w.Bytes()) != "hello, wordpack" {
		t.Fatalf("got %q", w.Bytes())
	}
}

func TestChunkedSink(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	data := make([]byte, 3*chunkSize+17)
	rand.New(rand.NewSource(2)).Read(data)
	for _, b := range data {
		if err := w.WriteByte(b); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Flush(); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(buf.Bytes(), data) {
		t.Fatalf("chunked sink output mismatch: got %d bytes, want %d", buf.Len(), len(data))
	}
}
