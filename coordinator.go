package phuffman

import "context"

// Coordinator abstracts the three ways a parallel backend can move data
// between ranks: in-process shared memory, an explicit goroutine worker
// pool, and message passing across simulated distributed-memory ranks.
// The sequential encode driver in encode.go is written once against this
// capability; each backend package supplies an implementation.
//
// Rank 0 is always the coordinator: it owns Broadcast's source data and
// is the only rank whose Gather call returns the collected results.
type Coordinator interface {
	// Rank returns this Coordinator's rank, 0 for the coordinator.
	Rank() int

	// Size returns the total number of ranks, N >= 1.
	Size() int

	// Broadcast delivers payload from rank 0 to every rank, including
	// rank 0 itself. All ranks block until every rank has a copy.
	Broadcast(payload []byte) ([]byte, error)

	// Gather sends this rank's payload to rank 0 and, on rank 0 only,
	// returns every rank's payload indexed by rank (ascending order).
	// Non-coordinator ranks receive a nil slice.
	Gather(ctx context.Context, payload []byte) ([][]byte, error)
}

// ChunkRange returns the byte range [start, end) that rank owns out of
// an input of length total, split into n contiguous, non-overlapping
// ranges in ascending rank order: rank k owns
// [floor(k*total/n), floor((k+1)*total/n)).
func ChunkRange(rank, n, total int) (start, end int) {
	start = rank * total / n
	end = (rank + 1) * total / n
	return
}
