package reachability

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/standardbeagle/swa/internal/config"
)

// Direction-optimizing BFS switch thresholds (spec §4.8): switch from
// top-down to bottom-up once the frontier's outgoing edge count exceeds
// 1/alpha of the remaining unvisited graph's edges, and switch back to
// top-down once the frontier shrinks below 1/beta of all nodes. These are
// the defaults Beamer's 2012 direction-optimizing BFS paper settled on;
// the spec names the same pair.
const (
	alpha = 14
	beta  = 24
)

// direction tracks which traversal strategy the current level is using.
type direction int

const (
	topDown direction = iota
	bottomUp
)

// Result is C7's reachable-set output: a dense-indexed bitmap plus the
// Dense graph it was computed over, so callers can translate back to
// DeclIDs.
type Result struct {
	Dense     *Dense
	Reachable []bool
}

// Compute runs the reachability BFS from roots using the concurrency mode
// named in cfg (spec §4.8, §5). Sequential and parallel modes are
// guaranteed to produce bitwise-equal reachable sets (spec §8 testable
// property 7): membership is decided purely by which bit an atomic
// test-and-set claims, never by which goroutine claims it first.
func Compute(d *Dense, roots []int32, cfg config.Concurrency) *Result {
	visited := newBitmap(d.N)
	frontier := make([]int32, 0, len(roots))
	for _, r := range roots {
		if r < 0 || int(r) >= d.N {
			continue
		}
		if visited.TestAndSet(r) {
			frontier = append(frontier, r)
		}
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}

	switch cfg.ParallelMode {
	case config.ParallelModeSequential:
		workers = 1
	case config.ParallelModeSafe, config.ParallelModeMaximum:
		// both run the same worker-pool algorithm; "safe" callers are
		// expected to pass a smaller Workers budget, "maximum" NumCPU.
	}

	unvisitedEdges := totalEdges(d)
	dir := topDown

	for len(frontier) > 0 {
		mf := d.TotalOutEdges(frontier)
		unvisitedEdges -= mf
		if dir == topDown && mf > 0 && unvisitedEdges > 0 && mf > unvisitedEdges/alpha {
			dir = bottomUp
		} else if dir == bottomUp && int64(len(frontier)) < int64(d.N)/beta {
			dir = topDown
		}

		if dir == topDown {
			frontier = stepTopDown(d, visited, frontier, workers)
		} else {
			frontier = stepBottomUp(d, visited, workers)
		}
	}

	return &Result{Dense: d, Reachable: visited.ToBoolSlice(d.N)}
}

func totalEdges(d *Dense) int64 {
	var sum int64
	for _, deg := range d.OutDegree {
		sum += int64(deg)
	}
	return sum
}

// stepTopDown expands frontier along forward edges: for every node in the
// frontier, visit its out-neighbors. Work is chunked across workers
// goroutines via errgroup; each goroutine only ever claims bits via
// TestAndSet, so the merged result is independent of scheduling order.
func stepTopDown(d *Dense, visited *bitmap, frontier []int32, workers int) []int32 {
	if workers <= 1 || len(frontier) < 2*workers {
		var next []int32
		for _, u := range frontier {
			for _, v := range d.Forward[u] {
				if visited.TestAndSet(v) {
					next = append(next, v)
				}
			}
		}
		return next
	}

	chunks := chunk(frontier, workers)
	results := make([][]int32, len(chunks))
	g, _ := errgroup.WithContext(context.Background())
	for i, c := range chunks {
		i, c := i, c
		g.Go(func() error {
			var local []int32
			for _, u := range c {
				for _, v := range d.Forward[u] {
					if visited.TestAndSet(v) {
						local = append(local, v)
					}
				}
			}
			results[i] = local
			return nil
		})
	}
	_ = g.Wait()

	var next []int32
	for _, r := range results {
		next = append(next, r...)
	}
	return next
}

// stepBottomUp scans every still-unvisited node and checks whether any of
// its in-neighbors is already visited; if so, it joins the frontier. This
// avoids re-walking already-dense frontiers' out-edges once most of the
// graph is reachable (spec §4.8).
func stepBottomUp(d *Dense, visited *bitmap, workers int) []int32 {
	unvisited := make([]int32, 0, d.N)
	for i := 0; i < d.N; i++ {
		if !visited.Test(int32(i)) {
			unvisited = append(unvisited, int32(i))
		}
	}
	if len(unvisited) == 0 {
		return nil
	}

	if workers <= 1 || len(unvisited) < 2*workers {
		var next []int32
		for _, v := range unvisited {
			if hasVisitedParent(d, visited, v) && visited.TestAndSet(v) {
				next = append(next, v)
			}
		}
		return next
	}

	chunks := chunk(unvisited, workers)
	results := make([][]int32, len(chunks))
	g, _ := errgroup.WithContext(context.Background())
	for i, c := range chunks {
		i, c := i, c
		g.Go(func() error {
			var local []int32
			for _, v := range c {
				if hasVisitedParent(d, visited, v) && visited.TestAndSet(v) {
					local = append(local, v)
				}
			}
			results[i] = local
			return nil
		})
	}
	_ = g.Wait()

	var next []int32
	for _, r := range results {
		next = append(next, r...)
	}
	return next
}

func hasVisitedParent(d *Dense, visited *bitmap, v int32) bool {
	for _, p := range d.Reverse[v] {
		if visited.Test(p) {
			return true
		}
	}
	return false
}

func chunk(items []int32, workers int) [][]int32 {
	if workers < 1 {
		workers = 1
	}
	size := (len(items) + workers - 1) / workers
	if size == 0 {
		size = 1
	}
	var chunks [][]int32
	for i := 0; i < len(items); i += size {
		end := i + size
		if end > len(items) {
			end = len(items)
		}
		chunks = append(chunks, items[i:end])
	}
	return chunks
}
