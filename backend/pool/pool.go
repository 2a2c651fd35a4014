// Package pool implements phuffman.Coordinator atop a fixed-size,
// long-lived goroutine pool: ranks are claimed from an atomic counter
// the way deepteams-webp's row-parallel VP8 encoder claims macroblock
// rows, rather than spawning one goroutine per rank as backend/shared
// does. A Pool with fewer workers than ranks simply has each worker
// service more than one rank in turn.
package pool

import (
	"context"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/scarlat/phuffman"
)

// Pool runs each Encode session on a fixed number of worker goroutines,
// started afresh by every call to Encode.
type Pool struct {
	workers int
}

// New returns a Pool backed by workers goroutines.
func New(workers int) (*Pool, error) {
	if workers < 1 {
		return nil, phuffman.ErrBadArgs
	}
	return &Pool{workers: workers}, nil
}

// group is the rendezvous state for one Encode session's ranks.
type group struct {
	broadcastOnce sync.Once
	broadcastData []byte
	broadcastDone chan struct{}

	gatherWG sync.WaitGroup
	gatherMu sync.Mutex
	results  [][]byte
}

func newGroup(ranks int) *group {
	g := &group{broadcastDone: make(chan struct{})}
	g.gatherWG.Add(ranks)
	g.results = make([][]byte, ranks)
	return g
}

type coordinator struct {
	rank int
	size int
	grp  *group
}

func (c *coordinator) Rank() int { return c.rank }
func (c *coordinator) Size() int { return c.size }

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

// Encode splits input across ranks ranks and runs phuffman.Encode for
// each, dispatched onto p.workers persistent goroutines. Each idle
// worker claims the next unclaimed rank from an atomic counter, so a
// pool with fewer workers than ranks simply cycles its workers through
// the remaining ranks. Collection is an errgroup.Group, the same
// fan-out/fan-in primitive backend/shared's and backend/mpi's own tests
// drive ranks with: the first worker error cancels the group's derived
// context, and every worker stops claiming new ranks as soon as it
// observes that cancellation, per the no-partial-output-fallback abort
// policy — a worker does not retry past a failure onto a fresh rank.
func (p *Pool) Encode(input []byte, ranks int) ([]byte, error) {
	if ranks < 1 {
		return nil, phuffman.ErrBadArgs
	}

	grp := newGroup(ranks)

	numWorkers := p.workers
	if numWorkers > ranks {
		numWorkers = ranks
	}

	var nextRank atomic.Int32
	var mu sync.Mutex
	var out []byte

	g, ctx := errgroup.WithContext(context.Background())
	for w := 0; w < numWorkers; w++ {
		g.Go(func() error {
			for {
				if ctx.Err() != nil {
					return nil
				}

				r := int(nextRank.Add(1) - 1)
				if r >= ranks {
					return nil
				}

				c := &coordinator{rank: r, size: ranks, grp: grp}
				o, err := phuffman.Encode(input, c)
				if err != nil {
					return err
				}
				if o != nil {
					mu.Lock()
					out = o
					mu.Unlock()
				}
			}
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
