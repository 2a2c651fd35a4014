package phuffman

import (
	"context"
	"fmt"
	"io"
)

// Encode compresses input into a self-describing container using coord
// to distribute work across coord.Size() ranks. Encode must be called
// once per rank, concurrently; only rank 0 returns a non-nil container.
//
// The frequency analysis covers the entire input: rank 0 broadcasts the
// input (or an equivalent partition scheme) so every rank can derive the
// identical code table before encoding its own contiguous, byte-aligned
// range. Per spec, ranges are assigned in ascending rank order and the
// merge consumes results in that same order.
func Encode(input []byte, coord Coordinator) ([]byte, error) {
	return EncodeWithLogging(input, coord, nil)
}

// EncodeWithLogging is Encode with an optional diagnostic writer; pass
// nil for silent operation.
func EncodeWithLogging(input []byte, coord Coordinator, l io.Writer) ([]byte, error) {
	if coord == nil {
		return nil, ErrBadArgs
	}

	shared, err := coord.Broadcast(input)
	if err != nil {
		return nil, fmt.Errorf("phuffman: broadcast input: %w", err)
	}

	n := coord.Size()
	rank := coord.Rank()
	if n <= 0 {
		return nil, ErrBadArgs
	}

	freq := CountFrequencies(shared)
	root := BuildTree(freq)
	table := ExtractCodes(root)

	if err := table.Validate(); err != nil {
		return nil, err
	}

	start, end := ChunkRange(rank, n, len(shared))
	bits, tailPad := EncodeChunk(table, shared[start:end])

	payload := append([]byte{byte(tailPad)}, bits...)

	gathered, err := coord.Gather(context.Background(), payload)
	if err != nil {
		return nil, fmt.Errorf("phuffman: gather chunks: %w", err)
	}

	if rank != 0 {
		return nil, nil
	}

	if l != nil {
		fmt.Fprintf(l, "symbols              %d\n", table.SymbolCount())
		fmt.Fprintf(l, "decoded byte count   %d\n", len(shared))
		fmt.Fprintf(l, "workers              %d\n", n)
	}

	header, err := WriteHeader(table, uint32(len(shared)))
	if err != nil {
		return nil, err
	}

	chunks := make([][]byte, n)
	tailPads := make([]int, n)
	for i, p := range gathered {
		if len(p) == 0 {
			continue
		}
		tailPads[i] = int(p[0])
		chunks[i] = p[1:]
	}

	merged := MergeBitStreams(chunks, tailPads)

	return append(header, merged...), nil
}
