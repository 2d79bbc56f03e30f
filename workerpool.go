package chess

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// parseTask is one game's independent parse unit, addressed by its index
// into the cursor's GameIndex slice and carrying the PGN slice to parse.
type parseTask struct {
	index  int
	pgn    string
	strict bool
}

// parseResult carries one task's outcome back in the same order as the
// batch's tasks slice; diag records whether the fallback parse fired.
type parseResult struct {
	index int
	game  *Game
	diag  parseDiagnostic
	err   error
}

// workerPool fans batches of PGN slices out to a bounded set of concurrent
// goroutines, each an independent parser+engine instance (Position/Game
// are not safe to share across threads, so every task gets its own). It
// backs Cursor.All only; every synchronous Cursor operation is single-
// threaded and never touches a workerPool.
//
// There are no long-lived workers: each runBatch call starts one goroutine
// per task and bounds in-flight tasks to n via errgroup's concurrency
// limit, mirroring the teacher's fixed-worker-count fleet (internal/engine
// Engine.SearchWithLimits / workerSearch) adapted from a WaitGroup/channel
// fan-out to errgroup. The "worker" number in a transport error is only a
// label, the task's slot in the batch modulo n.
type workerPool struct {
	n         int
	batchSize int
}

func newWorkerPool(n, batchSize int) *workerPool {
	if n <= 0 {
		n = 1
	}
	if batchSize <= 0 {
		batchSize = 10
	}
	return &workerPool{n: n, batchSize: batchSize}
}

// runBatch parses every task in tasks concurrently (capped at n in
// flight) and returns results in the same order as tasks, regardless of
// completion order. A worker-level transport failure (a panic inside a
// parse goroutine) degrades that single task to an in-process
// ErrWorkerTransport result rather than losing the whole batch; the pool
// itself remains usable for subsequent batches.
func (p *workerPool) runBatch(ctx context.Context, batchID int64, tasks []parseTask) []parseResult {
	results := make([]parseResult, len(tasks))

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(p.n)

	for slot, t := range tasks {
		slot, t := slot, t
		worker := slot % p.n // label for error messages: slot in the batch modulo n
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					results[slot] = parseResult{
						index: t.index,
						err:   fmt.Errorf("%w: worker %d panicked on batch %d: %v", ErrWorkerTransport, worker, batchID, r),
					}
				}
			}()
			game, diag, parseErr := parseGameText(t.pgn, t.strict)
			results[slot] = parseResult{index: t.index, game: game, diag: diag, err: parseErr}
			return nil
		})
	}

	// Per-task errors travel in results, never as the group's error: a
	// single game's parse failure must not abort sibling tasks in the
	// batch.
	_ = g.Wait()
	return results
}

// terminate shuts the pool down. runBatch spawns fresh goroutines per
// call and keeps no long-lived state, so terminate has nothing to join;
// it exists to give Cursor.Terminate a stable, idempotent call even once
// a future revision adds persistent worker goroutines.
func (p *workerPool) terminate() {}
