package dict

import (
	"bytes"
	"testing"
)

func TestCompressDictionaryRoundTrip(t *testing.T) {
	d := &Dictionary{Entries: [][]byte{
		[]byte("comp"),
		[]byte("compress"),
		[]byte("decompress"),
		[]byte("xyzw"),
	}}
	payload, lengths, entryCount, err := CompressDictionary(0x9E3779B9, d)
	if err != nil {
		t.Fatalf("CompressDictionary: %v", err)
	}
	if entryCount != len(d.Entries) {
		t.Fatalf("entryCount = %d, want %d", entryCount, len(d.Entries))
	}

	got, err := DecompressDictionary(payload, lengths, entryCount)
	if err != nil {
		t.Fatalf("DecompressDictionary: %v", err)
	}
	if got.Len() != d.Len() {
		t.Fatalf("got %d entries, want %d", got.Len(), d.Len())
	}
	for i := range d.Entries {
		if !bytes.Equal(got.Entries[i], d.Entries[i]) {
			t.Fatalf("entry %d = %q, want %q", i, got.Entries[i], d.Entries[i])
		}
	}
}

func TestCompressDictionaryEmpty(t *testing.T) {
	d := &Dictionary{}
	payload, lengths, entryCount, err := CompressDictionary(1, d)
	if err != nil {
		t.Fatalf("CompressDictionary: %v", err)
	}
	if entryCount != 0 {
		t.Fatalf("entryCount = %d, want 0", entryCount)
	}
	got, err := DecompressDictionary(payload, lengths, entryCount)
	if err != nil {
		t.Fatalf("DecompressDictionary: %v", err)
	}
	if got.Len() != 0 {
		t.Fatalf("got %d entries, want 0", got.Len())
	}
}

func TestSplitAtBoundariesTrimsCrossingMatch(t *testing.T) {
	// Two identical 8-byte entries followed by two 4-byte entries that
	// repeat them: the matcher finds one 16-byte match starting at entry 2
	// that runs on through entries 3 and 4, and splitAtBoundaries must cut
	// it at each entry boundary so every entry decodes on its own.
	d := &Dictionary{Entries: [][]byte{
		[]byte("abcdefgh"),
		[]byte("abcdefgh"),
		[]byte("abcd"),
		[]byte("efgh"),
	}}
	payload, lengths, entryCount, err := CompressDictionary(42, d)
	if err != nil {
		t.Fatalf("CompressDictionary: %v", err)
	}
	got, err := DecompressDictionary(payload, lengths, entryCount)
	if err != nil {
		t.Fatalf("DecompressDictionary: %v", err)
	}
	for i := range d.Entries {
		if !bytes.Equal(got.Entries[i], d.Entries[i]) {
			t.Fatalf("entry %d = %q, want %q", i, got.Entries[i], d.Entries[i])
		}
	}
}
