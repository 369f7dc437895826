package prefix

import (
	"math/rand"
	"reflect"
	"testing"

	"github.com/go-wordpack/wordpack/bitio"
)

func TestDescriptorRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	cases := [][]uint8{
		{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1, 1, 1, 1, 1, 1, 7, 0, 0, 0},
		make([]uint8, 316), // all zero, 286+30
		{5},
		{1, 1, 1, 2, 2, 2, 2, 2, 2, 2, 3},
	}
	for i := 0; i < 50; i++ {
		n := 286 + 30
		v := make([]uint8, n)
		for j := range v {
			if rng.Intn(3) == 0 {
				v[j] = uint8(rng.Intn(16))
			}
		}
		cases = append(cases, v)
	}

	for i, lengths := range cases {
		w := bitio.NewWriter(nil)
		if err := EncodeDescriptor(w, lengths); err != nil {
			t.Fatalf("case %d: encode: %v", i, err)
		}
		w.Flush()
		r := bitio.NewReader(w.Bytes())
		got := DecodeDescriptor(r, len(lengths))
		if !reflect.DeepEqual(got, lengths) {
			t.Fatalf("case %d: round trip mismatch\n got: %v\nwant: %v", i, got, lengths)
		}
	}
}

func TestDescriptorLongZeroRun(t *testing.T) {
	lengths := make([]uint8, 316)
	for i := 200; i < 210; i++ {
		lengths[i] = 4
	}
	w := bitio.NewWriter(nil)
	if err := EncodeDescriptor(w, lengths); err != nil {
		t.Fatal(err)
	}
	w.Flush()
	r := bitio.NewReader(w.Bytes())
	got := DecodeDescriptor(r, len(lengths))
	if !reflect.DeepEqual(got, lengths) {
		t.Fatalf("mismatch: got %v want %v", got, lengths)
	}
}
