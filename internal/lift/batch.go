package lift

import (
	"context"

	"classlift/internal/instr"

	"github.com/tidwall/match"
	"golang.org/x/sync/errgroup"
)

// BatchOptions configures a concurrent multi-method lift (SPEC_FULL.md
// §4.8). Concurrency <= 0 means unlimited (errgroup.SetLimit(-1)).
// NameFilter, when non-empty, is a github.com/tidwall/match glob applied
// to "OwningClass.Name" — methods that don't match are skipped entirely
// and do not appear in the results.
type BatchOptions struct {
	Concurrency int
	NameFilter  string
}

// BatchResult pairs one input Method with its lift outcome. Exactly one
// of Lifted/Err is non-nil.
type BatchResult struct {
	Method instr.Method
	Lifted *LiftedMethod
	Err    error
}

// Batch lifts every method independently and concurrently: one method's
// Lift never touches another's Arena, locals, or stack (§5), so a failure
// in one method never aborts the others — each slot in the returned slice
// corresponds to methods[i] in input order, or is omitted if it was
// filtered out by NameFilter. Cancelling ctx stops scheduling new lifts;
// lifts already running are allowed to finish (§5).
func Batch(ctx context.Context, methods []instr.Method, opts BatchOptions) ([]BatchResult, error) {
	selected := make([]instr.Method, 0, len(methods))
	for _, m := range methods {
		if opts.NameFilter != "" && !match.Match(m.OwningClass+"."+m.Name, opts.NameFilter) {
			continue
		}
		selected = append(selected, m)
	}

	results := make([]BatchResult, len(selected))
	g, gctx := errgroup.WithContext(ctx)
	if opts.Concurrency > 0 {
		g.SetLimit(opts.Concurrency)
	}

	for idx, m := range selected {
		idx, m := idx, m
		g.Go(func() error {
			select {
			case <-gctx.Done():
				results[idx] = BatchResult{Method: m, Err: gctx.Err()}
				return nil
			default:
			}
			lifted, err := Lift(m)
			results[idx] = BatchResult{Method: m, Lifted: lifted, Err: err}
			return nil
		})
	}
	// Errors are carried per-result rather than propagated through the
	// group: every goroutine returns nil, so g.Wait reports no error and a
	// cancelled ctx shows up only as ctx.Err() in the affected results.
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
