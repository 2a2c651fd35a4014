package phuffman

import "container/heap"

// node is a Huffman tree node: either a leaf carrying a symbol, or an
// internal node carrying two children. Unlike the C reference this port
// has no parent back-link — codes are assigned from each leaf's depth
// independently of the tree's shape (see code.go's codeLengths/
// ExtractCodes), the same two-step split bwesterb-go-ncrlite's
// buildHuffmanCode/canonicalHuffmanCode use.
type node struct {
	isLeaf bool
	symbol byte
	count  uint64
	depth  int

	zero, one *node
}

// nodeHeap is a min-heap over node.count, with ties broken by depth so
// shallower subtrees merge first — the same tie-break
// bwesterb-go-ncrlite's htHeap uses in huffman.go, adapted from its
// array-of-struct-pointers shape to this package's node type.
type nodeHeap []*node

func (h nodeHeap) Len() int { return len(h) }

func (h nodeHeap) Less(i, j int) bool {
	if h[i].count == h[j].count {
		return h[i].depth < h[j].depth
	}
	return h[i].count < h[j].count
}

func (h nodeHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *nodeHeap) Push(x any) {
	*h = append(*h, x.(*node))
}

func (h *nodeHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return item
}

// BuildTree constructs a Huffman tree from a histogram using the classic
// two-smallest merge: repeatedly combine the two lowest-count subtrees
// into a new internal node until one subtree, the root, remains. This is
// the same merge bwesterb-go-ncrlite's buildHuffmanCode runs over its own
// htHeap to Huffman-code its delta bit-lengths; BuildTree adapts the same
// container/heap two-smallest-merge to run over arbitrary byte histograms
// instead of bit-length deltas.
//
// Symbols with zero frequency do not appear in the tree. If no symbol has
// non-zero frequency, BuildTree returns nil. If exactly one symbol has
// non-zero frequency, the returned tree is a single leaf with no parent —
// callers must special-case this (see code.go) since a lone leaf has no
// bits to walk.
func BuildTree(freq Frequencies) *node {
	var nodes []*node
	for sym := 0; sym < MaxSymbols; sym++ {
		if freq[sym] == 0 {
			continue
		}
		nodes = append(nodes, &node{isLeaf: true, symbol: byte(sym), count: freq[sym]})
	}

	if len(nodes) == 0 {
		return nil
	}

	h := nodeHeap(nodes)
	heap.Init(&h)

	for h.Len() > 1 {
		zero := heap.Pop(&h).(*node)
		one := heap.Pop(&h).(*node)
		heap.Push(&h, &node{
			count: zero.count + one.count,
			zero:  zero,
			one:   one,
			depth: max(zero.depth, one.depth) + 1,
		})
	}

	return h[0]
}
