package dict

import (
	"github.com/cockroachdb/errors"

	"github.com/go-wordpack/wordpack/symtab"
)

// MaxNodes caps the trie at 2^24 nodes (spec §4.6): "abort ... once node
// count reaches 2^24 — the hard cap."
const MaxNodes = 1 << 24

// ErrCapacityExceeded reports that a capacity bound was reached mid
// operation (spec §7: "Capacity exceeded ... Return a distinguished
// failure to the caller"). dict cannot import the root wordpack package
// (which imports dict), so it carries its own sentinel rather than
// sharing wordpack.ErrCapacityExceeded.
var ErrCapacityExceeded = errors.New("dict: capacity exceeded")

// node is one arena-allocated trie edge: it represents the byte that
// leads to it from its parent. Its siblings (other children of the same
// parent) form an AVL-balanced BST keyed by byte (left/right); its own
// children form a separate AVL BST rooted at child. This realizes spec
// §4.6's "BST of children ordered by their key" as an arena of 32-bit
// indices rather than raw pointers, per spec §9's re-implementation note.
type node struct {
	key         byte
	left, right int32 // sibling BST pointers, -1 if absent
	height      int8
	child       int32 // BST root of this node's children, -1 if none yet
	numRef      uint16
	candidateID int32 // set during ExtractCandidates, -1 until then
}

// Trie is an arena-backed prefix tree over training words (spec §4.6).
// It is exclusively owned by one dictionary builder (spec §5).
type Trie struct {
	nodes []node
	root  int32 // BST root of depth-1 nodes, -1 if empty

	words [][]byte // retained training words, consumed by Build's scoring pass
}

// NewTrie returns an empty trie ready for Insert.
func NewTrie() *Trie {
	return &Trie{root: -1}
}

func (t *Trie) newNode(key byte) (int32, error) {
	if len(t.nodes) >= MaxNodes {
		return -1, ErrCapacityExceeded
	}
	idx := int32(len(t.nodes))
	t.nodes = append(t.nodes, node{key: key, left: -1, right: -1, height: 1, child: -1, candidateID: -1})
	return idx, nil
}

func (t *Trie) height(idx int32) int8 {
	if idx == -1 {
		return 0
	}
	return t.nodes[idx].height
}

func (t *Trie) updateHeight(idx int32) {
	n := &t.nodes[idx]
	lh, rh := t.height(n.left), t.height(n.right)
	if lh > rh {
		n.height = lh + 1
	} else {
		n.height = rh + 1
	}
}

func (t *Trie) balanceFactor(idx int32) int {
	n := &t.nodes[idx]
	return int(t.height(n.left)) - int(t.height(n.right))
}

func (t *Trie) rotateRight(idx int32) int32 {
	n := &t.nodes[idx]
	l := n.left
	ln := &t.nodes[l]
	n.left = ln.right
	ln.right = idx
	t.updateHeight(idx)
	t.updateHeight(l)
	return l
}

func (t *Trie) rotateLeft(idx int32) int32 {
	n := &t.nodes[idx]
	r := n.right
	rn := &t.nodes[r]
	n.right = rn.left
	rn.left = idx
	t.updateHeight(idx)
	t.updateHeight(r)
	return r
}

// rebalance restores the AVL property at idx after an insertion below it
// (spec §4.6: "balance is maintained after every insertion by walking up
// and rotating"), returning the (possibly new) subtree root.
func (t *Trie) rebalance(idx int32) int32 {
	t.updateHeight(idx)
	switch bf := t.balanceFactor(idx); {
	case bf > 1:
		if t.balanceFactor(t.nodes[idx].left) < 0 {
			t.nodes[idx].left = t.rotateLeft(t.nodes[idx].left)
		}
		return t.rotateRight(idx)
	case bf < -1:
		if t.balanceFactor(t.nodes[idx].right) > 0 {
			t.nodes[idx].right = t.rotateRight(t.nodes[idx].right)
		}
		return t.rotateLeft(idx)
	default:
		return idx
	}
}

// avlInsert inserts key into the sibling BST rooted at root, returning
// the index of the (possibly pre-existing) node for key and the new
// subtree root.
func (t *Trie) avlInsert(root int32, key byte) (found, newRoot int32, err error) {
	if root == -1 {
		idx, err := t.newNode(key)
		if err != nil {
			return -1, -1, err
		}
		return idx, idx, nil
	}
	n := t.nodes[root]
	switch {
	case key < n.key:
		f, nl, err := t.avlInsert(n.left, key)
		if err != nil {
			return -1, -1, err
		}
		t.nodes[root].left = nl
		return f, t.rebalance(root), nil
	case key > n.key:
		f, nr, err := t.avlInsert(n.right, key)
		if err != nil {
			return -1, -1, err
		}
		t.nodes[root].right = nr
		return f, t.rebalance(root), nil
	default:
		return root, root, nil
	}
}

func (t *Trie) findChild(root int32, key byte) int32 {
	for root != -1 {
		n := &t.nodes[root]
		switch {
		case key < n.key:
			root = n.left
		case key > n.key:
			root = n.right
		default:
			return root
		}
	}
	return -1
}

// Insert adds word to the trie, incrementing each traversed node's
// reference count (saturating at 65,535, spec §4.6). It returns
// ErrCapacityExceeded once the 2^24 node cap is reached mid-insert; the
// trie is left valid with whatever prefix of word it managed to insert
// (spec §8 scenario 6: "a dictionary built from the partial trie must
// still decode correctly").
func (t *Trie) Insert(word []byte) error {
	if len(word) == 0 {
		return nil
	}
	// The parent is tracked by index, not pointer: avlInsert may grow the
	// node arena and move it.
	parent := int32(-1)
	for _, b := range word {
		root := t.root
		if parent != -1 {
			root = t.nodes[parent].child
		}
		found, newRoot, err := t.avlInsert(root, b)
		if err != nil {
			return err
		}
		if parent == -1 {
			t.root = newRoot
		} else {
			t.nodes[parent].child = newRoot
		}
		n := &t.nodes[found]
		if n.numRef < 65535 {
			n.numRef++
		}
		parent = found
	}
	t.words = append(t.words, append([]byte(nil), word...))
	return nil
}

// Candidate is a trie-derived dictionary candidate: a root-to-node path
// of at least 4 bytes, plus the usage counters Build's scoring pass
// accumulates (spec §4.6).
type Candidate struct {
	Bytes      []byte
	QuadCount  uint32
	LargeCount uint32
	MinMatch   int
	MaxMatch   int
}

// ExtractCandidates performs the in-order DFS of spec §4.6: every
// root-to-node path of length >= 4 becomes a candidate, assigned the
// next order_num (its index in the returned slice) and hashed into a
// fresh membership filter by its first 4 bytes. Traversal order is
// in-order over each depth's sibling BST with the deeper subtree visited
// immediately after its parent, so ties in insertion order do not affect
// the result — only lexicographic path order does.
func (t *Trie) ExtractCandidates() ([]*Candidate, *Filter) {
	var candidates []*Candidate
	f := NewFilter()
	var path []byte

	var dfs func(root int32)
	dfs = func(root int32) {
		if root == -1 {
			return
		}
		n := &t.nodes[root]
		dfs(n.left)

		path = append(path, n.key)
		if len(path) >= symtab.DictMinMatch {
			n.candidateID = int32(len(candidates))
			cand := &Candidate{Bytes: append([]byte(nil), path...)}
			candidates = append(candidates, cand)
			f.Set(cand.Bytes[:4])
		}
		dfs(n.child)
		path = path[:len(path)-1]

		dfs(n.right)
	}
	dfs(t.root)
	return candidates, f
}

// walk descends the trie along word, returning the deepest candidate
// node's id and the number of bytes matched, or (-1, 0) if no candidate
// prefix of word exists in the trie. ExtractCandidates must have run
// first for candidateID to be populated.
func (t *Trie) walk(word []byte) (candidateID int32, length int) {
	cur := t.root
	lastID := int32(-1)
	lastLen := 0
	depth := 0
	for cur != -1 && depth < len(word) {
		idx := t.findChild(cur, word[depth])
		if idx == -1 {
			break
		}
		depth++
		if t.nodes[idx].candidateID >= 0 {
			lastID = t.nodes[idx].candidateID
			lastLen = depth
		}
		cur = t.nodes[idx].child
	}
	return lastID, lastLen
}
