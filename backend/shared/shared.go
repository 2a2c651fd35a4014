// Package shared implements phuffman.Coordinator for the shared-memory
// backend: every rank is a goroutine in the same process, so Broadcast
// needs no copy and Gather needs no network, only a rendezvous barrier.
package shared

import (
	"context"
	"sync"

	"github.com/scarlat/phuffman"
)

// group is the state shared by every rank produced by a single New call.
// Broadcast and Gather are each a one-shot rendezvous: Encode calls them
// exactly once per rank, so a sync.WaitGroup is enough to detect "every
// rank has arrived" without a reusable barrier.
type group struct {
	broadcastOnce sync.Once
	broadcastData []byte
	broadcastDone chan struct{}

	gatherWG sync.WaitGroup
	gatherMu sync.Mutex
	results  [][]byte
}

func newGroup(n int) *group {
	g := &group{broadcastDone: make(chan struct{})}
	g.gatherWG.Add(n)
	g.results = make([][]byte, n)
	return g
}

type coordinator struct {
	rank int
	size int
	grp  *group
}

// New returns size Coordinators sharing one in-process rendezvous group.
// Rank 0's slot is coords[0]; callers are expected to run each rank's
// Encode call in its own goroutine, since Broadcast and Gather both
// block until every rank has arrived.
func New(size int) ([]phuffman.Coordinator, error) {
	if size < 1 {
		return nil, phuffman.ErrBadArgs
	}
	grp := newGroup(size)
	coords := make([]phuffman.Coordinator, size)
	for r := 0; r < size; r++ {
		coords[r] = &coordinator{rank: r, size: size, grp: grp}
	}
	return coords, nil
}

func (c *coordinator) Rank() int { return c.rank }
func (c *coordinator) Size() int { return c.size }

// Broadcast delivers rank 0's payload to every rank. Rank 0 publishes
// its payload and closes broadcastDone; every rank, including rank 0,
// waits on the channel before reading broadcastData.
func (c *coordinator) Broadcast(payload []byte) ([]byte, error) {
	if c.rank == 0 {
		c.grp.broadcastOnce.Do(func() {
			c.grp.broadcastData = payload
			close(c.grp.broadcastDone)
		})
	}
	<-c.grp.broadcastDone
	return c.grp.broadcastData, nil
}

// Gather deposits payload at this rank's slot and blocks until every
// rank has deposited its own. Only rank 0 receives the assembled slice;
// every other rank gets nil, matching phuffman.Coordinator's contract.
func (c *coordinator) Gather(ctx context.Context, payload []byte) ([][]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.grp.gatherMu.Lock()
	c.grp.results[c.rank] = payload
	c.grp.gatherMu.Unlock()
	c.grp.gatherWG.Done()
	c.grp.gatherWG.Wait()

	if c.rank != 0 {
		return nil, nil
	}
	return c.grp.results, nil
}
