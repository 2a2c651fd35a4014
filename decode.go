package phuffman

import (
	"fmt"
	"io"
)

// Decode parses a container produced by Encode and returns the original
// bytes.
func Decode(container []byte) ([]byte, error) {
	return DecodeWithLogging(container, nil)
}

// DecodeWithLogging is Decode with an optional diagnostic writer; pass
// nil for silent operation.
func DecodeWithLogging(container []byte, l io.Writer) ([]byte, error) {
	h, err := ReadHeader(container)
	if err != nil {
		return nil, err
	}

	if l != nil {
		fmt.Fprintf(l, "decoded byte count   %d\n", h.DecodedByteCount)
		fmt.Fprintf(l, "symbols              %d\n", h.Table.SymbolCount())
	}

	if h.DecodedByteCount == 0 {
		return []byte{}, nil
	}

	if h.Root == nil {
		return nil, ErrMalformedTable
	}

	bitstream := container[h.BitstreamOffset:]
	return DecodeStream(h.Root, bitstream, h.DecodedByteCount)
}
