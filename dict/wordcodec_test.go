package dict

import (
	"bytes"
	"testing"

	"github.com/go-wordpack/wordpack/bitio"
)

func TestWordEncodeDecodeRoundTrip(t *testing.T) {
	words := []string{"hello", "hello", "world", "helloworld", "xyz"}
	tr := NewTrie()
	var raw [][]byte
	for _, w := range words {
		b := []byte(w)
		raw = append(raw, b)
		if err := tr.Insert(b); err != nil {
			t.Fatalf("Insert(%q): %v", w, err)
		}
	}
	d, remap, f := Build(tr, BuildOptions{})
	enc := NewWordEncoder(tr, f, d, remap, raw)

	w := bitio.NewWriter(nil)
	for _, b := range raw {
		if err := enc.EncodeWord(w, b); err != nil {
			t.Fatalf("EncodeWord(%q): %v", b, err)
		}
	}
	w.Flush()

	dec := NewWordDecoder(d, enc.Lengths())
	r := bitio.NewReader(w.Bytes())
	for _, want := range raw {
		got, err := dec.DecodeWord(r)
		if err != nil {
			t.Fatalf("DecodeWord: %v", err)
		}
		if !bytes.Equal(got, want) {
			t.Fatalf("DecodeWord = %q, want %q", got, want)
		}
	}
}

func TestWordEncodeEmptyWord(t *testing.T) {
	tr := NewTrie()
	d, remap, f := Build(tr, BuildOptions{})
	enc := NewWordEncoder(tr, f, d, remap, [][]byte{{}})

	w := bitio.NewWriter(nil)
	if err := enc.EncodeWord(w, nil); err != nil {
		t.Fatalf("EncodeWord(nil): %v", err)
	}
	w.Flush()

	dec := NewWordDecoder(d, enc.Lengths())
	got, err := dec.DecodeWord(bitio.NewReader(w.Bytes()))
	if err != nil {
		t.Fatalf("DecodeWord: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("DecodeWord(empty) = %q, want empty", got)
	}
}
