package cmd

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// DefaultConcurrency is the default number of concurrent workers
const DefaultConcurrency = 5

// BulkResult represents the outcome of a single bulk operation
type BulkResult struct {
	ID      int    `json:"id"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// runBulkOperation executes operations concurrently with bounded parallelism.
// Results come back in the order of ids.
func runBulkOperation(
	ctx context.Context,
	ids []int,
	concurrency int64,
	progress bool,
	errOut io.Writer,
	operation func(ctx context.Context, id int) error,
) []BulkResult {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	if errOut == nil {
		errOut = io.Discard
	}

	sem := semaphore.NewWeighted(concurrency)
	var mu sync.Mutex
	results := make([]BulkResult, 0, len(ids))
	order := make(map[int]int, len(ids))
	for i, id := range ids {
		if _, seen := order[id]; !seen {
			order[id] = i
		}
	}
	total := len(ids)
	var done int64

	g, ctx := errgroup.WithContext(ctx)

	for _, id := range ids {
		g.Go(func() error {
			if err := sem.Acquire(ctx, 1); err != nil {
				return nil // context cancelled, don't add to results
			}
			defer sem.Release(1)

			if ctx.Err() != nil {
				return nil
			}

			err := operation(ctx, id)

			mu.Lock()
			result := BulkResult{ID: id, Success: err == nil}
			if err != nil {
				result.Error = err.Error()
			}
			results = append(results, result)
			mu.Unlock()

			if progress && total > 0 {
				current := atomic.AddInt64(&done, 1)
				mu.Lock()
				_, _ = fmt.Fprintf(errOut, "\rProcessed %d/%d", current, total)
				mu.Unlock()
			}

			return nil // don't fail the group on individual errors
		})
	}

	_ = g.Wait()

	if progress && total > 0 {
		_, _ = fmt.Fprintf(errOut, "\rProcessed %d/%d\n", atomic.LoadInt64(&done), total)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return order[results[i].ID] < order[results[j].ID]
	})
	return results
}

// countResults returns success and failure counts from bulk results
func countResults(results []BulkResult) (success, failure int) {
	for _, r := range results {
		if r.Success {
			success++
		} else {
			failure++
		}
	}
	return
}

func bulkConcurrency() int64 {
	if defaults.Concurrency > 0 {
		return int64(defaults.Concurrency)
	}
	return DefaultConcurrency
}

// runBulkCommand runs operation for every id and reports a summary. It fails
// when any single operation failed.
func runBulkCommand(cmd *cobra.Command, action, resource string, ids []int, operation func(ctx context.Context, id int) error) error {
	progress := !isJSON(cmd) && !flags.Quiet && len(ids) > 1
	results := runBulkOperation(cmd.Context(), ids, bulkConcurrency(), progress, cmd.ErrOrStderr(), operation)
	success, failure := countResults(results)

	if isJSON(cmd) {
		if err := printJSON(cmd, map[string]any{
			"success_count": success,
			"failure_count": failure,
			"results":       results,
		}); err != nil {
			return err
		}
	} else {
		for _, r := range results {
			if r.Success {
				printAction(cmd, action, resource, r.ID, "")
			} else {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Failed %s %d: %s\n", resource, r.ID, r.Error)
			}
		}
	}

	if failure > 0 {
		return fmt.Errorf("%d of %d %s operations failed", failure, len(ids), resource)
	}
	return nil
}
