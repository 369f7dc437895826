package wordpack

import (
	"testing"

	"github.com/go-wordpack/wordpack/dict"
)

func buildStaticDict(t *testing.T, trainingWords []string) (*BuiltDictionary, [][]byte) {
	t.Helper()
	b := NewDictBuilder(dict.BuildOptions{})
	var raw [][]byte
	for _, w := range trainingWords {
		word := []byte(w)
		raw = append(raw, word)
		if err := b.Insert(word); err != nil {
			t.Fatalf("Insert(%q): %v", w, err)
		}
	}
	return b.Build(), raw
}

func encodeStatic(t *testing.T, built *BuiltDictionary, training [][]byte, words [][]byte) *memSink {
	t.Helper()
	sink := &memSink{}
	enc, err := NewStaticEncoder(sink, built, training, EncoderOptions{HashSeed: 0x2545F491})
	if err != nil {
		t.Fatalf("NewStaticEncoder: %v", err)
	}
	for _, w := range words {
		if err := enc.AddWord(w); err != nil {
			t.Fatalf("AddWord(%q): %v", w, err)
		}
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	return sink
}

func decodeStaticAll(t *testing.T, sink *memSink) [][]byte {
	t.Helper()
	dec, err := NewStaticDecoder(sink, int64(sink.buf.Len()))
	if err != nil {
		t.Fatalf("NewStaticDecoder: %v", err)
	}
	var got [][]byte
	for dec.HasNext() {
		w, err := dec.Next(nil)
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		got = append(got, append([]byte(nil), w...))
	}
	return got
}

func TestStaticRoundTripAgainstTrainedDictionary(t *testing.T) {
	training := []string{
		"compression", "compression",
		"decompression", "decompression",
		"dictionary", "dictionary",
	}
	built, raw := buildStaticDict(t, training)

	words := [][]byte{
		[]byte("compression"),
		[]byte("decompression"),
		[]byte("dictionary"),
		[]byte("uncataloged"),
		[]byte(""),
	}
	sink := encodeStatic(t, built, raw, words)
	assertWordsEqual(t, decodeStaticAll(t, sink), words)
}

func TestStaticRoundTripEmptyDictionary(t *testing.T) {
	// No training words at all: every word falls back to the literal
	// path, with a zero-entry dictionary section (spec §8 scenario 1's
	// degenerate case for codec B).
	built, raw := buildStaticDict(t, nil)
	words := [][]byte{[]byte("alpha"), []byte("beta"), []byte("")}
	sink := encodeStatic(t, built, raw, words)
	assertWordsEqual(t, decodeStaticAll(t, sink), words)
}

func TestStaticRoundTripSpansBlockBoundary(t *testing.T) {
	training := []string{"filler", "filler"}
	built, raw := buildStaticDict(t, training)

	var words [][]byte
	for i := 0; i < 20000; i++ {
		words = append(words, []byte("filler"))
	}
	sink := encodeStatic(t, built, raw, words)
	assertWordsEqual(t, decodeStaticAll(t, sink), words)
}

func TestStaticDictionaryLenAfterBuild(t *testing.T) {
	built, _ := buildStaticDict(t, []string{"repeatme", "repeatme", "onceonly"})
	if built.Len() == 0 {
		t.Fatal("expected at least one admitted entry for a word repeated twice")
	}
}
