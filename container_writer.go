package phuffman

import "encoding/binary"

// cacheSize is the size of the write-through cache used while building a
// container header. It exists only to reduce the number of growth
// reallocations on the output buffer; it has no effect on the container
// format itself.
const cacheSize = 1024

// containerBuilder buffers small writes into a fixed-size cache and
// flushes them into a growable output slice, mirroring the original
// C reference's buf_cache without the caller-owned out-parameters: the
// finished byte slice is returned by finish(), not written through a
// pointer.
type containerBuilder struct {
	cache    []byte
	cacheLen int
	out      []byte
}

func newContainerBuilder() *containerBuilder {
	return &containerBuilder{cache: make([]byte, cacheSize)}
}

func (b *containerBuilder) flush() {
	if b.cacheLen == 0 {
		return
	}
	b.out = append(b.out, b.cache[:b.cacheLen]...)
	b.cacheLen = 0
}

func (b *containerBuilder) write(p []byte) {
	if len(p) > len(b.cache)-b.cacheLen {
		b.flush()
		if len(p) > len(b.cache) {
			b.out = append(b.out, p...)
			return
		}
	}
	b.cacheLen += copy(b.cache[b.cacheLen:], p)
}

func (b *containerBuilder) writeByte(v byte) {
	b.write([]byte{v})
}

func (b *containerBuilder) writeUint32BE(v uint32) {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], v)
	b.write(buf[:])
}

func (b *containerBuilder) finish() []byte {
	b.flush()
	return b.out
}

// WriteHeader serializes entry_count, decoded_byte_count and the code
// table, in ascending symbol order, per the container format in
// SPEC_FULL.md §6. It does not write the bit-stream; callers append that
// separately (the orchestration in encode.go does so after merging
// per-chunk bit-streams).
func WriteHeader(table CodeTable, decodedByteCount uint32) ([]byte, error) {
	if err := table.Validate(); err != nil {
		return nil, err
	}

	b := newContainerBuilder()

	entryCount := uint32(0)
	for _, c := range table {
		if c != nil {
			entryCount++
		}
	}

	b.writeUint32BE(entryCount)
	b.writeUint32BE(decodedByteCount)

	for sym := 0; sym < MaxSymbols; sym++ {
		c := table[sym]
		if c == nil {
			continue
		}
		if c.NumBits == 0 || c.NumBits > MaxCodeLengthBits {
			return nil, ErrMalformedTable
		}

		b.writeByte(byte(sym))
		b.writeByte(byte(c.NumBits))

		nbytes := BytesFromBits(c.NumBits)
		packed := make([]byte, nbytes)
		copy(packed, c.Bits)
		b.write(packed)
	}

	return b.finish(), nil
}
