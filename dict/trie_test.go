package dict

import (
	"math/rand"
	"testing"

	"github.com/go-wordpack/wordpack/symtab"
)

func TestTrieInsertAndWalk(t *testing.T) {
	tr := NewTrie()
	words := [][]byte{[]byte("hello"), []byte("help"), []byte("world")}
	for _, w := range words {
		if err := tr.Insert(w); err != nil {
			t.Fatalf("Insert(%q): %v", w, err)
		}
	}
	candidates, f := tr.ExtractCandidates()
	if len(candidates) == 0 {
		t.Fatal("expected at least one candidate")
	}
	for _, c := range candidates {
		if !f.Has(c.Bytes[:4]) {
			t.Fatalf("filter miss for candidate %q", c.Bytes)
		}
	}

	candID, length := tr.walk([]byte("help"))
	if candID < 0 || length < symtab.DictMinMatch {
		t.Fatalf("walk(help) = (%d, %d), want a candidate of length >= 4", candID, length)
	}
}

func TestTrieAVLStaysBalanced(t *testing.T) {
	tr := NewTrie()
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 2000; i++ {
		b := byte(rng.Intn(256))
		_, newRoot, err := tr.avlInsert(tr.root, b)
		if err != nil {
			t.Fatalf("avlInsert: %v", err)
		}
		tr.root = newRoot
	}
	// 2000 random bytes give at most 256 distinct keys. A degenerate
	// (unbalanced) BST over them could reach height 256; AVL keeps it
	// within a small constant factor of log2(256) = 8.
	if h := tr.height(tr.root); h > 30 {
		t.Fatalf("tree height %d suggests AVL balancing is broken", h)
	}
}

func TestTrieNodeCap(t *testing.T) {
	tr := NewTrie()
	tr.nodes = make([]node, MaxNodes)
	err := tr.Insert([]byte("x"))
	if err == nil {
		t.Fatal("expected ErrCapacityExceeded once the node cap is reached")
	}
}
