package phuffman

import (
	"bytes"
	"testing"
)

// buildCodeTable derives a code table the way Encode does, then
// reconstructs the tree those codes describe the way ReadHeader does
// (fresh insertCode calls from the codes themselves), rather than
// reusing BuildTree's own tree: ExtractCodes assigns canonical codes
// from the symbols' code lengths, independently of which particular
// tree shape BuildTree happened to produce, so only the reconstructed
// tree is guaranteed to match the codes bit-for-bit.
func buildCodeTable(t *testing.T, data []byte) (CodeTable, *node) {
	t.Helper()
	freq := CountFrequencies(data)
	table := ExtractCodes(BuildTree(freq))

	root := &node{}
	for sym, c := range table {
		if c == nil {
			continue
		}
		if err := insertCode(root, byte(sym), c); err != nil {
			t.Fatal(err)
		}
	}
	return table, root
}

func TestEncodeDecodeChunkRoundTrip(t *testing.T) {
	data := []byte("abracadabra")
	table, root := buildCodeTable(t, data)

	bits, tailPad := EncodeChunk(table, data)
	if tailPad < 0 || tailPad > 7 {
		t.Fatalf("tailPad = %d out of range", tailPad)
	}

	out, err := DecodeStream(root, bits, uint32(len(data)))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(out, data) {
		t.Fatalf("got %q, want %q", out, data)
	}
}

func TestEncodeChunkTailPadFormula(t *testing.T) {
	data := []byte("aaab")
	table, _ := buildCodeTable(t, data)

	_, tailPad := EncodeChunk(table, data)

	var totalBits uint32
	for _, b := range data {
		totalBits += table[b].NumBits
	}
	want := int((8 - totalBits%8) % 8)
	if tailPad != want {
		t.Fatalf("tailPad = %d, want %d", tailPad, want)
	}
}

func TestDecodeStreamTruncated(t *testing.T) {
	data := []byte("abcabc")
	table, root := buildCodeTable(t, data)
	bits, _ := EncodeChunk(table, data)

	_, err := DecodeStream(root, bits, uint32(len(data)+1))
	if err != ErrTruncated {
		t.Fatalf("got %v, want ErrTruncated", err)
	}
}

func TestDecodeStreamIgnoresPadding(t *testing.T) {
	data := []byte("xyzxyzxyz")
	table, root := buildCodeTable(t, data)
	bits, tailPad := EncodeChunk(table, data)
	_ = tailPad

	// Append a byte of garbage after the real stream; DecodeStream must
	// stop once decodedByteCount symbols have been produced and ignore
	// what follows.
	withGarbage := append(append([]byte(nil), bits...), 0xFF)

	out, err := DecodeStream(root, withGarbage, uint32(len(data)))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(out, data) {
		t.Fatalf("got %q, want %q", out, data)
	}
}

func TestDecodeStreamEmpty(t *testing.T) {
	out, err := DecodeStream(nil, nil, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 0 {
		t.Fatalf("got %q, want empty", out)
	}
}
