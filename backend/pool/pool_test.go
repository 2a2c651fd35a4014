package pool_test

import (
	"bytes"
	"testing"

	"github.com/scarlat/phuffman"
	"github.com/scarlat/phuffman/backend/pool"
)

func TestNewRejectsZeroWorkers(t *testing.T) {
	if _, err := pool.New(0); err == nil {
		t.Fatal("expected an error for zero workers")
	}
}

func TestEncodeRejectsZeroRanks(t *testing.T) {
	p, err := pool.New(2)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := p.Encode([]byte("x"), 0); err == nil {
		t.Fatal("expected an error for zero ranks")
	}
}

func TestEncodeRoundTripFewerWorkersThanRanks(t *testing.T) {
	input := []byte("the quick brown fox jumps over the lazy dog")
	p, err := pool.New(2)
	if err != nil {
		t.Fatal(err)
	}

	container, err := p.Encode(input, 8)
	if err != nil {
		t.Fatal(err)
	}

	out, err := phuffman.Decode(container)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(out, input) {
		t.Fatalf("got %q, want %q", out, input)
	}
}

func TestEncodeRoundTripMoreWorkersThanRanks(t *testing.T) {
	input := []byte("mississippi river")
	p, err := pool.New(8)
	if err != nil {
		t.Fatal(err)
	}

	container, err := p.Encode(input, 3)
	if err != nil {
		t.Fatal(err)
	}

	out, err := phuffman.Decode(container)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(out, input) {
		t.Fatalf("got %q, want %q", out, input)
	}
}

func TestEncodeSingleRank(t *testing.T) {
	input := []byte("aaaa")
	p, err := pool.New(4)
	if err != nil {
		t.Fatal(err)
	}

	container, err := p.Encode(input, 1)
	if err != nil {
		t.Fatal(err)
	}

	out, err := phuffman.Decode(container)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(out, input) {
		t.Fatalf("got %q, want %q", out, input)
	}
}
