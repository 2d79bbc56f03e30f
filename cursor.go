package chess

import (
	"context"
	"fmt"
	"iter"
	"strings"
	"sync"

	"github.com/dgraph-io/ristretto/v2"
)

// CursorError pairs a failing game's index with the error that the parse
// flow (primary grammar pass, or primary+fallback) produced for it.
type CursorError struct {
	Index int
	Err   error
}

func (e CursorError) Error() string {
	return fmt.Sprintf("game %d: %v", e.Index, e.Err)
}

// CursorOptions configures a Cursor. Fields left at their zero value take
// the documented default except where noted; Prefetch, CacheSize, and
// WorkerBatchSize treat <= 0 as "use the default" rather than "disable",
// since none of them has a meaningful zero setting.
type CursorOptions struct {
	// Start is the first game index the cursor exposes. Default 0.
	Start int
	// Length is how many games the cursor exposes, starting at Start.
	// <= 0 means unbounded (every remaining game).
	Length int
	// Prefetch is how many games to parse ahead after every Next().
	// <= 0 defaults to 1.
	Prefetch int
	// CacheSize bounds the number of cached parsed games. <= 0 defaults to
	// 10. Eviction is delegated to ristretto's cost-based policy, which the
	// spec explicitly allows as a compatible upgrade from strict FIFO.
	CacheSize int
	// Strict propagates the first parse failure instead of recording it.
	Strict bool
	// OnError is invoked for each failing game in non-strict mode.
	OnError func(err error, gameIndex int)
	// Workers, when > 0, enables the worker pool for All() with that many
	// goroutines; <= 0 (the default) keeps All() single-threaded.
	Workers int
	// WorkerBatchSize is how many games each worker task batches. <= 0
	// defaults to 10.
	WorkerBatchSize int
}

// Cursor is the two-phase reader over a multi-game PGN source: games are
// located once by IndexGames, then parsed lazily (and cached) on demand.
// A Cursor owns its cache, its errors log, and (if enabled) its worker
// pool exclusively; the source text is a read-only, shared reference that
// callers must not mutate while the Cursor is live.
type Cursor struct {
	source string
	games  []GameIndex
	total  int

	start  int
	length int

	prefetch int
	strict   bool
	onError  func(err error, gameIndex int)

	cache *ristretto.Cache[int, *Game]

	current int

	mu     sync.Mutex
	errors []CursorError

	workers         int
	workerBatchSize int
	pool            *workerPool
}

// NewCursor indexes source and returns a Cursor over it configured by opts.
func NewCursor(source string, opts CursorOptions) *Cursor {
	games := IndexGames(source)
	total := len(games)

	start := opts.Start
	if start < 0 {
		start = 0
	}
	if start > total {
		start = total
	}

	length := opts.Length
	if length <= 0 {
		length = total - start
	}

	prefetch := opts.Prefetch
	if prefetch <= 0 {
		prefetch = 1
	}

	cacheSize := opts.CacheSize
	if cacheSize <= 0 {
		cacheSize = 10
	}

	workerBatchSize := opts.WorkerBatchSize
	if workerBatchSize <= 0 {
		workerBatchSize = 10
	}

	cache, err := ristretto.NewCache(&ristretto.Config[int, *Game]{
		NumCounters: int64(cacheSize) * 10,
		MaxCost:     int64(cacheSize),
		BufferItems: 64,
		// Each game is Set with cost 1; without this ristretto adds its own
		// per-item storage cost, which alone exceeds MaxCost.
		IgnoreInternalCost: true,
	})
	if err != nil {
		// Config above is static and always valid; NewCache only errors on
		// a malformed Config.
		panic(fmt.Sprintf("chess: ristretto config rejected: %v", err))
	}

	return &Cursor{
		source:          source,
		games:           games,
		total:           total,
		start:           start,
		length:          length,
		prefetch:        prefetch,
		strict:          opts.Strict,
		onError:         opts.OnError,
		cache:           cache,
		current:         start,
		workers:         opts.Workers,
		workerBatchSize: workerBatchSize,
	}
}

// TotalGames returns the number of games the indexer found in the source
// text, independent of Start/Length.
func (c *Cursor) TotalGames() int {
	return c.total
}

// Errors returns a snapshot of the cursor's accumulated parse errors, in
// the order they were recorded.
func (c *Cursor) Errors() []CursorError {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]CursorError, len(c.errors))
	copy(out, c.errors)
	return out
}

// boundEnd is the exclusive upper bound of the cursor's exposed range.
func (c *Cursor) boundEnd() int {
	return min(c.start+c.length, c.total)
}

// HasNext reports whether current < min(start+length, totalGames).
func (c *Cursor) HasNext() bool {
	return c.current < c.boundEnd()
}

// HasBefore reports whether current > start.
func (c *Cursor) HasBefore() bool {
	return c.current > c.start
}

// Next parses (or fetches from cache) the game at current and advances.
// It returns (nil, nil) when the cursor is exhausted, (nil, err) in strict
// mode on the first parse failure, and (nil, nil) with the failure
// recorded to Errors() in non-strict mode.
func (c *Cursor) Next() (*Game, error) {
	if !c.HasNext() {
		return nil, nil
	}
	i := c.current
	game, err := c.getOrParse(i)
	c.current++
	c.prefetchAhead(c.current)

	if err != nil {
		if c.strict {
			return nil, err
		}
		c.recordFailure(err, i)
		return nil, nil
	}
	return game, nil
}

// Before decrements current and returns the game now at that index, with
// the same error semantics as Next.
func (c *Cursor) Before() (*Game, error) {
	if !c.HasBefore() {
		return nil, nil
	}
	c.current--
	game, err := c.getOrParse(c.current)
	if err != nil {
		if c.strict {
			return nil, err
		}
		c.recordFailure(err, c.current)
		return nil, nil
	}
	return game, nil
}

// Seek sets current to i, returning false (and leaving current unchanged)
// if i is out of [0, totalGames).
func (c *Cursor) Seek(i int) bool {
	if i < 0 || i >= c.total {
		return false
	}
	c.current = i
	return true
}

// Reset sets current back to start and clears the parse cache.
func (c *Cursor) Reset() {
	c.current = c.start
	c.cache.Clear()
}

// FindNext advances current until a game whose pre-scanned headers satisfy
// pred is found, then parses and returns it via Next. Skipped games are
// never parsed: pred only ever sees the Indexer's headers.
func (c *Cursor) FindNext(pred func(headers map[string]string) bool) (*Game, error) {
	for c.HasNext() {
		if pred(c.games[c.current].Headers) {
			return c.Next()
		}
		c.current++
	}
	return nil, nil
}

// PGN re-serializes every game in the cursor's [start, start+length) range,
// preserving current across the call. A non-strict parse failure is
// recorded and the game is skipped from the output.
func (c *Cursor) PGN(opts PGNOptions) (string, error) {
	saved := c.current
	defer func() { c.current = saved }()

	newline := opts.Newline
	if newline == "" {
		newline = "\n"
	}

	var parts []string
	end := c.boundEnd()
	for i := c.start; i < end; i++ {
		game, err := c.getOrParse(i)
		if err != nil {
			if c.strict {
				return "", err
			}
			c.recordFailure(err, i)
			continue
		}
		parts = append(parts, game.PGN(opts))
	}
	return strings.Join(parts, newline+newline), nil
}

// All returns a range-over-func iterator that yields every game index in
// [start, start+length) in order, each paired with its parse error (nil on
// success). Strict mode yields the failing (nil, err) pair and stops;
// non-strict mode yields (nil, nil) for a failing index (recording the
// failure to Errors()) and continues. When Workers > 0 it dispatches
// batches to the worker pool; otherwise it parses serially in this
// goroutine. Abandoning the iteration early (breaking out of the range
// loop) does not release the worker pool — call Terminate() for that.
func (c *Cursor) All(ctx context.Context) iter.Seq2[*Game, error] {
	return func(yield func(*Game, error) bool) {
		if c.workers > 0 {
			c.allWithWorkers(ctx, yield)
			return
		}
		c.allSerial(ctx, yield)
	}
}

func (c *Cursor) allSerial(ctx context.Context, yield func(*Game, error) bool) {
	for c.HasNext() {
		select {
		case <-ctx.Done():
			return
		default:
		}

		i := c.current
		game, err := c.getOrParse(i)
		c.current++

		if err != nil {
			if c.strict {
				yield(nil, err)
				return
			}
			c.recordFailure(err, i)
			if !yield(nil, nil) {
				return
			}
			continue
		}
		if !yield(game, nil) {
			return
		}
	}
}

func (c *Cursor) allWithWorkers(ctx context.Context, yield func(*Game, error) bool) {
	pool := c.ensurePool()
	var batchID int64

	for c.HasNext() {
		select {
		case <-ctx.Done():
			return
		default:
		}

		end := min(c.current+c.workerBatchSize, c.boundEnd())
		tasks := make([]parseTask, 0, end-c.current)
		for i := c.current; i < end; i++ {
			tasks = append(tasks, parseTask{
				index:  i,
				pgn:    c.source[c.games[i].StartOffset:c.games[i].EndOffset],
				strict: c.strict,
			})
		}

		results := pool.runBatch(ctx, batchID, tasks)
		batchID++
		c.current = end

		for _, r := range results {
			if r.diag.usedFallback {
				c.noteDiagnostic(r.diag.primaryErr, r.index)
			}
			if r.err != nil {
				if c.strict {
					yield(nil, r.err)
					return
				}
				c.recordFailure(r.err, r.index)
				if !yield(nil, nil) {
					return
				}
				continue
			}
			c.cacheSet(r.index, r.game)
			if !yield(r.game, nil) {
				return
			}
		}
	}
}

func (c *Cursor) ensurePool() *workerPool {
	if c.pool == nil {
		c.pool = newWorkerPool(c.workers, c.workerBatchSize)
	}
	return c.pool
}

// Terminate shuts down the worker pool, if one was ever spawned. It is
// idempotent and never errors on an already-terminated or never-started
// pool.
func (c *Cursor) Terminate() error {
	if c.pool != nil {
		c.pool.terminate()
	}
	return nil
}

// getOrParse returns the cached game at i, or parses, caches, and returns
// it.
func (c *Cursor) getOrParse(i int) (*Game, error) {
	if game, ok := c.cache.Get(i); ok {
		return game, nil
	}
	game, diag, err := parseGameText(c.source[c.games[i].StartOffset:c.games[i].EndOffset], c.strict)
	if err != nil {
		return nil, err
	}
	if diag.usedFallback {
		c.noteDiagnostic(diag.primaryErr, i)
	}
	c.cacheSet(i, game)
	return game, nil
}

// prefetchAhead best-effort parses up to c.prefetch games starting at from
// into the cache. Failures are swallowed here (not recorded to Errors())
// so that a later real Next()/Before() call at that index is the single
// source of truth for that index's recorded failure.
func (c *Cursor) prefetchAhead(from int) {
	end := min(from+c.prefetch, c.boundEnd())
	for i := from; i < end; i++ {
		if _, ok := c.cache.Get(i); ok {
			continue
		}
		game, diag, err := parseGameText(c.source[c.games[i].StartOffset:c.games[i].EndOffset], c.strict)
		if err != nil {
			continue
		}
		if diag.usedFallback {
			c.noteDiagnostic(diag.primaryErr, i)
		}
		c.cacheSet(i, game)
	}
}

func (c *Cursor) cacheSet(i int, game *Game) {
	c.cache.Set(i, game, 1)
	c.cache.Wait()
}

func (c *Cursor) recordFailure(err error, i int) {
	c.mu.Lock()
	c.errors = append(c.errors, CursorError{Index: i, Err: err})
	c.mu.Unlock()
	if c.onError != nil {
		c.onError(err, i)
	}
}

// noteDiagnostic records a fallback-parse observation (the primary error
// that triggered the fallback) even though the overall parse succeeded,
// per §4.8/§9's "record both errors in errors[] for observability".
func (c *Cursor) noteDiagnostic(primaryErr error, i int) {
	if primaryErr == nil {
		return
	}
	c.mu.Lock()
	c.errors = append(c.errors, CursorError{Index: i, Err: fmt.Errorf("used fallback parse: %w", primaryErr)})
	c.mu.Unlock()
}
