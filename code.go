package phuffman

import "slices"

// Code is a variable-length bit sequence assigned to a symbol. Bit 0 of
// the code is the least-significant bit of Bits[0]; bit 8 is the
// least-significant bit of Bits[1]; and so on, matching GetBit/SetBit.
// The tail of the last byte, past NumBits, is zero and not part of the
// code.
type Code struct {
	NumBits uint32
	Bits    []byte
}

// CodeTable maps symbol to Code, populated only for symbols with a
// non-zero frequency.
type CodeTable [MaxSymbols]*Code

// codeLengths walks root depth-first, recording each leaf's depth as its
// code length, the same nodeDepth-stack walk bwesterb-go-ncrlite's
// buildHuffmanCode runs over its own tree before calling
// canonicalHuffmanCode. Many distinct trees share the same multiset of
// leaf depths; only the depths, not the tree's shape, matter from here
// on.
func codeLengths(root *node) [MaxSymbols]byte {
	var lengths [MaxSymbols]byte

	type nodeDepth struct {
		n     *node
		depth byte
	}

	stack := []nodeDepth{{root, 0}}
	for len(stack) > 0 {
		nd := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !nd.n.isLeaf {
			stack = append(stack,
				nodeDepth{nd.n.zero, nd.depth + 1},
				nodeDepth{nd.n.one, nd.depth + 1},
			)
			continue
		}

		lengths[nd.n.symbol] = nd.depth
	}

	return lengths
}

// ExtractCodes assigns a canonical Huffman code to every symbol with a
// non-zero code length, adapted directly from bwesterb-go-ncrlite's
// canonicalHuffmanCode: symbols are sorted by (code length, symbol
// value), then walked in that order assigning a counter that increments
// after every symbol and is left-shifted whenever the length grows from
// one symbol to the next. This fixes the code bits from the length
// multiset alone, independently of which of the many equal-length-
// producing trees BuildTree happened to construct.
//
// canonicalHuffmanCode assigns codes MSB-first (the root's branch is the
// code's top bit) and bit-reverses the result for its LSB-first
// bitWriter; ExtractCodes does the same reversal directly against this
// package's GetBit/SetBit convention, since bit 0 of a Code must be the
// first bit EncodeChunk/DecodeStream consume, i.e. the root's branch.
//
// A single-leaf tree (root itself is the leaf, meaning the input has
// exactly one distinct symbol) is a special case: a depth-0 leaf would
// get a zero-length code, which a streaming decoder can never terminate
// on without relying purely on the declared decoded byte count. This
// implementation takes the robust option named in the design notes: a
// lone symbol gets an explicit one-bit code of 0.
func ExtractCodes(root *node) CodeTable {
	var table CodeTable
	if root == nil {
		return table
	}

	if root.isLeaf {
		table[root.symbol] = &Code{NumBits: 1, Bits: []byte{0}}
		return table
	}

	lengths := codeLengths(root)

	type symLength struct {
		sym    byte
		length byte
	}
	var syms []symLength
	for sym := 0; sym < MaxSymbols; sym++ {
		if lengths[sym] != 0 {
			syms = append(syms, symLength{byte(sym), lengths[sym]})
		}
	}

	slices.SortFunc(syms, func(a, b symLength) int {
		if a.length != b.length {
			return int(a.length) - int(b.length)
		}
		return int(a.sym) - int(b.sym)
	})

	var code uint64
	prevLength := byte(0)
	for _, sl := range syms {
		if sl.length != prevLength {
			code <<= sl.length - prevLength
		}

		numBits := uint32(sl.length)
		out := make([]byte, BytesFromBits(numBits))
		for i := uint32(0); i < numBits; i++ {
			srcBit := numBits - 1 - i
			if (code>>srcBit)&1 != 0 {
				SetBit(out, i, 1)
			}
		}
		table[sl.sym] = &Code{NumBits: numBits, Bits: out}

		prevLength = sl.length
		code++
	}

	return table
}

// SymbolCount returns the number of symbols with an entry in the table.
func (t CodeTable) SymbolCount() int {
	n := 0
	for _, c := range t {
		if c != nil {
			n++
		}
	}
	return n
}

// MaxCodeLengthBits is the largest code length representable in the
// container's one-byte code-length field (spec §9, open question 2).
const MaxCodeLengthBits = 255

// Validate reports ErrMalformedTable if any code in the table exceeds
// MaxCodeLengthBits. A two-pass encoder could in principle produce such
// a code for a sufficiently skewed 256-symbol distribution; rather than
// silently truncating it, the container format refuses to represent it.
func (t CodeTable) Validate() error {
	for _, c := range t {
		if c != nil && c.NumBits > MaxCodeLengthBits {
			return ErrMalformedTable
		}
	}
	return nil
}
