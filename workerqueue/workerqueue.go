// Package workerqueue serializes calls onto a single *intbtree.Tree from
// any number of goroutines. The tree itself assumes exclusive single-
// threaded access for the duration of a Get or Put call; this package is
// one way an external driver can satisfy that, by funneling every call
// through one owner goroutine and fanning the results back out to
// whichever goroutine is waiting on them.
package workerqueue

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/dbcore/intbtree"
)

// request is a single queued operation: a Put when isPut is set,
// otherwise a Get.
type request struct {
	key   int32
	value int32
	isPut bool
	done  chan result
}

type result struct {
	value int32
	err   error
}

// Queue owns a *intbtree.Tree and runs every operation against it from a
// single goroutine, so callers never need to coordinate locking among
// themselves.
type Queue struct {
	tree   *intbtree.Tree
	reqs   chan request
	closed chan struct{}
}

// New starts a Queue's owner goroutine over tree. The goroutine runs until
// ctx is cancelled or Close is called; the caller must drain one of those
// to avoid leaking it.
func New(ctx context.Context, tree *intbtree.Tree) *Queue {
	q := &Queue{
		tree:   tree,
		reqs:   make(chan request),
		closed: make(chan struct{}),
	}
	go q.run(ctx)
	return q
}

func (q *Queue) run(ctx context.Context) {
	defer close(q.closed)
	for {
		select {
		case <-ctx.Done():
			return
		case req, ok := <-q.reqs:
			if !ok {
				return
			}
			var res result
			if req.isPut {
				res.err = q.tree.Put(req.key, req.value)
			} else {
				res.value, res.err = q.tree.Get(req.key)
			}
			req.done <- res
		}
	}
}

// Close closes the request channel and waits for the owner goroutine to
// exit; a request the owner has already received is finished first. Get
// and Put must not be called once Close has started: sending on the
// closed request channel panics.
func (q *Queue) Close() {
	close(q.reqs)
	<-q.closed
}

// Get submits a Get to the owner goroutine and blocks for the result,
// returning early if ctx is cancelled first.
func (q *Queue) Get(ctx context.Context, key int32) (int32, error) {
	req := request{key: key, done: make(chan result, 1)}
	select {
	case q.reqs <- req:
	case <-ctx.Done():
		return 0, ctx.Err()
	}
	select {
	case res := <-req.done:
		return res.value, res.err
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

// Put submits a Put to the owner goroutine and blocks for the result.
func (q *Queue) Put(ctx context.Context, key, value int32) error {
	req := request{key: key, value: value, isPut: true, done: make(chan result, 1)}
	select {
	case q.reqs <- req:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case res := <-req.done:
		return res.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// GetMany submits n Gets concurrently and waits for all of them, using an
// errgroup so the first error short-circuits the wait. Each key still runs
// through the single owner goroutine in turn; only the waiting is
// concurrent: many callers, one tree-facing goroutine.
func (q *Queue) GetMany(ctx context.Context, keys []int32) ([]int32, error) {
	values := make([]int32, len(keys))
	g, gctx := errgroup.WithContext(ctx)
	for i, key := range keys {
		i, key := i, key
		g.Go(func() error {
			v, err := q.Get(gctx, key)
			if err != nil {
				return err
			}
			values[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return values, nil
}
