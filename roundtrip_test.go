package phuffman_test

import (
	"bytes"
	"math/rand"
	"testing"

	"golang.org/x/sync/errgroup"

	"github.com/scarlat/phuffman"
	"github.com/scarlat/phuffman/backend/shared"
)

// encodeWithWorkers drives one phuffman.Encode call per rank concurrently,
// since Gather is a rendezvous point: every rank must reach it before any
// one of them can proceed, and rank 0's result only becomes available once
// all ranks have deposited their chunk.
func encodeWithWorkers(t *testing.T, input []byte, workers int) []byte {
	t.Helper()
	coords, err := shared.New(workers)
	if err != nil {
		t.Fatal(err)
	}

	containers := make([][]byte, len(coords))
	var g errgroup.Group
	for i, c := range coords {
		i, c := i, c
		g.Go(func() error {
			out, err := phuffman.Encode(input, c)
			containers[i] = out
			return err
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}

	for _, out := range containers {
		if out != nil {
			return out
		}
	}

	t.Fatal("no rank produced a container")
	return nil
}

func TestRoundTripEmpty(t *testing.T) {
	container := encodeWithWorkers(t, []byte{}, 1)

	h, err := phuffman.ReadHeader(container)
	if err != nil {
		t.Fatal(err)
	}
	if h.DecodedByteCount != 0 {
		t.Fatalf("decoded byte count = %d, want 0", h.DecodedByteCount)
	}
	if h.Table.SymbolCount() != 0 {
		t.Fatalf("entry count = %d, want 0", h.Table.SymbolCount())
	}

	out, err := phuffman.Decode(container)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 0 {
		t.Fatalf("got %q, want empty", out)
	}
}

func TestRoundTripSingleSymbol(t *testing.T) {
	input := []byte("aaaa")
	container := encodeWithWorkers(t, input, 1)

	h, err := phuffman.ReadHeader(container)
	if err != nil {
		t.Fatal(err)
	}
	if h.Table.SymbolCount() != 1 {
		t.Fatalf("entry count = %d, want 1", h.Table.SymbolCount())
	}
	if h.DecodedByteCount != 4 {
		t.Fatalf("decoded byte count = %d, want 4", h.DecodedByteCount)
	}

	out, err := phuffman.Decode(container)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(out, input) {
		t.Fatalf("got %q, want %q", out, input)
	}
}

func TestRoundTripTwoSymbols(t *testing.T) {
	input := []byte("aabbbbbb")
	container := encodeWithWorkers(t, input, 1)

	out, err := phuffman.Decode(container)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(out, input) {
		t.Fatalf("got %q, want %q", out, input)
	}

	h, _ := phuffman.ReadHeader(container)
	for _, c := range h.Table {
		if c != nil && c.NumBits != 1 {
			t.Fatalf("expected length-1 codes, got %d", c.NumBits)
		}
	}
}

func TestRoundTripAllByteValues(t *testing.T) {
	input := make([]byte, 256)
	for i := range input {
		input[i] = byte(i)
	}

	container := encodeWithWorkers(t, input, 1)
	h, err := phuffman.ReadHeader(container)
	if err != nil {
		t.Fatal(err)
	}
	if h.Table.SymbolCount() != 256 {
		t.Fatalf("entry count = %d, want 256", h.Table.SymbolCount())
	}

	bitstreamLen := len(container) - h.BitstreamOffset
	if bitstreamLen != 256 {
		t.Fatalf("bit-stream length = %d, want 256", bitstreamLen)
	}

	out, err := phuffman.Decode(container)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(out, input) {
		t.Fatal("round-trip mismatch")
	}
}

func TestRoundTripUniformRandomWorkerCounts(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	input := make([]byte, 1<<20)
	rnd.Read(input)

	var decoded [][]byte
	for _, workers := range []int{1, 4} {
		container := encodeWithWorkers(t, input, workers)
		out, err := phuffman.Decode(container)
		if err != nil {
			t.Fatalf("workers=%d: %v", workers, err)
		}
		if !bytes.Equal(out, input) {
			t.Fatalf("workers=%d: round-trip mismatch", workers)
		}
		decoded = append(decoded, out)
	}

	if !bytes.Equal(decoded[0], decoded[1]) {
		t.Fatal("decoded output differs across worker counts")
	}
}

func TestWorkerCountInvariance(t *testing.T) {
	input := []byte("the quick brown fox jumps over the lazy dog, again and again and again")

	var want []byte
	for _, workers := range []int{1, 2, 4, 8} {
		container := encodeWithWorkers(t, input, workers)
		out, err := phuffman.Decode(container)
		if err != nil {
			t.Fatalf("workers=%d: %v", workers, err)
		}
		if want == nil {
			want = out
		} else if !bytes.Equal(out, want) {
			t.Fatalf("workers=%d: decoded %q, want %q", workers, out, want)
		}
	}
}

func TestEncoderDeterminism(t *testing.T) {
	input := []byte("determinism, determinism, determinism")
	a := encodeWithWorkers(t, input, 4)
	b := encodeWithWorkers(t, input, 4)
	if !bytes.Equal(a, b) {
		t.Fatal("encode is not deterministic across repeated invocations")
	}
}

func TestHeaderConsistency(t *testing.T) {
	input := []byte("mississippi river")
	container := encodeWithWorkers(t, input, 2)

	h, err := phuffman.ReadHeader(container)
	if err != nil {
		t.Fatal(err)
	}

	distinct := map[byte]bool{}
	for _, b := range input {
		distinct[b] = true
	}

	if h.Table.SymbolCount() != len(distinct) {
		t.Fatalf("entry count = %d, want %d", h.Table.SymbolCount(), len(distinct))
	}
	if int(h.DecodedByteCount) != len(input) {
		t.Fatalf("decoded byte count = %d, want %d", h.DecodedByteCount, len(input))
	}
}

func TestDecodeTruncated(t *testing.T) {
	input := []byte("abcabcabcabc")
	container := encodeWithWorkers(t, input, 1)

	truncated := container[:len(container)-1]
	_, err := phuffman.Decode(truncated)
	if err == nil {
		t.Fatal("expected an error decoding a truncated container")
	}
}

func TestDecodeBadHeader(t *testing.T) {
	_, err := phuffman.Decode([]byte{0, 0, 0})
	if err != phuffman.ErrBadHeader {
		t.Fatalf("got %v, want ErrBadHeader", err)
	}
}
