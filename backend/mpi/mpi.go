// Package mpi implements phuffman.Coordinator by simulating distributed
// ranks: each rank runs in its own goroutine and exchanges messages over
// an in-memory net.Conn pair (net.Pipe), encoded with encoding/gob,
// mirroring the rank-0-as-coordinator MPI_Send/MPI_Recv pattern used by
// the original sequential program's parallel/mpi backend. No real
// networking or process boundary is involved; the conn pairs stand in
// for MPI_COMM_WORLD. Every non-zero rank sends its chunk to rank 0 as a
// single gob message tagged with its rank; rank 0 receives from all
// peers concurrently and places each chunk at its rank's index.
package mpi

import (
	"context"
	"encoding/gob"
	"net"
	"sync"

	"github.com/scarlat/phuffman"
)

// broadcastMsg is what rank 0 sends to every other rank to hand out the
// input ahead of the frequency pass.
type broadcastMsg struct {
	Payload []byte
}

// gatherMsg is what rank i>0 sends to rank 0 carrying its chunk.
type gatherMsg struct {
	Rank    int
	Payload []byte
}

// Ranks spins up size simulated ranks connected to rank 0 by net.Pipe
// conns and returns their Coordinators, indexed by rank. Coordinators
// must be driven concurrently: rank 0's Broadcast and Gather exchange
// messages with every other rank's conn and will block until each peer
// has sent its side.
func Ranks(size int) ([]phuffman.Coordinator, error) {
	if size < 1 {
		return nil, phuffman.ErrBadArgs
	}

	coords := make([]phuffman.Coordinator, size)

	if size == 1 {
		coords[0] = &coordinator{rank: 0, size: 1}
		return coords, nil
	}

	// rank 0 holds one conn endpoint per peer rank, indexed 1..size-1.
	rootConns := make(map[int]net.Conn, size-1)
	peerConns := make([]net.Conn, size)

	for r := 1; r < size; r++ {
		a, b := net.Pipe()
		rootConns[r] = a
		peerConns[r] = b
	}

	coords[0] = &coordinator{rank: 0, size: size, rootConns: rootConns}
	for r := 1; r < size; r++ {
		coords[r] = &coordinator{rank: r, size: size, conn: peerConns[r]}
	}
	return coords, nil
}

type coordinator struct {
	rank int
	size int

	// non-zero ranks talk to rank 0 over conn.
	conn net.Conn

	// rank 0 talks to every other rank over rootConns[rank].
	rootConns map[int]net.Conn
}

func (c *coordinator) Rank() int { return c.rank }
func (c *coordinator) Size() int { return c.size }

// Broadcast sends payload from rank 0 to every other rank over its conn.
// Non-zero ranks receive it by decoding a broadcastMsg off their conn.
func (c *coordinator) Broadcast(payload []byte) ([]byte, error) {
	if c.size == 1 {
		return payload, nil
	}

	if c.rank == 0 {
		var wg sync.WaitGroup
		errs := make([]error, c.size)
		wg.Add(len(c.rootConns))
		for r, conn := range c.rootConns {
			r, conn := r, conn
			go func() {
				defer wg.Done()
				enc := gob.NewEncoder(conn)
				errs[r] = enc.Encode(broadcastMsg{Payload: payload})
			}()
		}
		wg.Wait()
		for _, err := range errs {
			if err != nil {
				return nil, err
			}
		}
		return payload, nil
	}

	var msg broadcastMsg
	dec := gob.NewDecoder(c.conn)
	if err := dec.Decode(&msg); err != nil {
		return nil, err
	}
	return msg.Payload, nil
}

// Gather sends this rank's payload to rank 0 and, on rank 0, collects
// every rank's payload into a rank-indexed slice. Rank 0's own payload
// is placed directly; every other rank's arrives over its conn.
func (c *coordinator) Gather(ctx context.Context, payload []byte) ([][]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if c.size == 1 {
		return [][]byte{payload}, nil
	}

	if c.rank != 0 {
		enc := gob.NewEncoder(c.conn)
		if err := enc.Encode(gatherMsg{Rank: c.rank, Payload: payload}); err != nil {
			return nil, err
		}
		return nil, nil
	}

	results := make([][]byte, c.size)
	results[0] = payload

	var mu sync.Mutex
	var wg sync.WaitGroup
	var firstErr error
	wg.Add(len(c.rootConns))
	for r, conn := range c.rootConns {
		conn := conn
		_ = r
		go func() {
			defer wg.Done()
			var msg gatherMsg
			dec := gob.NewDecoder(conn)
			if err := dec.Decode(&msg); err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
				return
			}
			results[msg.Rank] = msg.Payload
		}()
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return results, nil
}
