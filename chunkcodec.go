package phuffman

// EncodeChunk packs data against table into a bit-stream, LSB-first
// within each byte, concatenating each byte's code in order. It returns
// the packed bytes and tailPad, the number of zero bits appended to the
// final byte to reach a byte boundary (0 if none were needed).
//
// Every byte in data must have an entry in table; EncodeChunk panics
// otherwise, since that can only happen if the caller built table from a
// different input than the one being encoded — a programmer error, not a
// runtime condition callers are expected to handle.
func EncodeChunk(table CodeTable, data []byte) (bits []byte, tailPad int) {
	var totalBits uint64
	for _, b := range data {
		c := table[b]
		if c == nil {
			panic("phuffman: EncodeChunk: no code for symbol")
		}
		totalBits += uint64(c.NumBits)
	}

	out := make([]byte, (totalBits+7)/8)

	pos := uint32(0)
	for _, b := range data {
		c := table[b]
		for i := uint32(0); i < c.NumBits; i++ {
			if GetBit(c.Bits, i) != 0 {
				SetBit(out, pos, 1)
			}
			pos++
		}
	}

	tailPad = int((8 - totalBits%8) % 8)
	return out, tailPad
}

// DecodeStream descends root bit-by-bit through bits, LSB-first within
// each byte: on bit 0 it moves to the zero child, on bit 1 to the one
// child. Reaching a leaf emits its symbol and resets to root. It stops
// once decodedByteCount symbols have been emitted; any remaining bits
// (padding) are ignored. It fails with ErrTruncated if the stream is
// exhausted first.
//
// root must be non-nil if decodedByteCount is non-zero. A root that is
// itself a leaf (the single-symbol case) emits that symbol without
// consuming a bit, decodedByteCount times — this matches ExtractCodes
// only ever handing out a single-leaf root through DecodeStream when the
// header-declared code length for that symbol is 0, which ReadHeader
// itself never produces (it rejects NumBits == 0 as malformed); real
// containers instead carry a 1-bit code and a two-node tree, so this
// path is exercised only by callers driving DecodeStream directly.
func DecodeStream(root *node, bits []byte, decodedByteCount uint32) ([]byte, error) {
	out := make([]byte, 0, decodedByteCount)
	if decodedByteCount == 0 {
		return out, nil
	}

	if root.isLeaf {
		for uint32(len(out)) < decodedByteCount {
			out = append(out, root.symbol)
		}
		return out, nil
	}

	totalBits := uint32(len(bits)) * 8
	cur := root
	for i := uint32(0); i < totalBits; i++ {
		if GetBit(bits, i) == 0 {
			cur = cur.zero
		} else {
			cur = cur.one
		}
		if cur == nil {
			return nil, ErrTruncated
		}

		if cur.isLeaf {
			out = append(out, cur.symbol)
			cur = root

			if uint32(len(out)) == decodedByteCount {
				return out, nil
			}
		}
	}

	return nil, ErrTruncated
}
