package validator

import (
	"context"
	"sync"
	"time"
)

// FileResult is the outcome of validating a single file in a batch run.
// Err is set when the file could not be loaded or its dialect could not be
// resolved; Result is only meaningful when Err is nil.
type FileResult struct {
	Path     string
	Dialect  Dialect
	Result   EvaluationResult
	Duration time.Duration
	Err      error
}

// Runner evaluates many configuration files through a bounded worker
// pool. Each file is an independent, stateless evaluation.
type Runner struct {
	Concurrency int
}

// Run validates every path with the requested dialect selector ("auto"
// triggers per-file detection). Results are returned in input order.
func (r *Runner) Run(ctx context.Context, paths []string, requested string, strict bool) []FileResult {
	concurrency := r.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup
	results := make([]FileResult, len(paths))

	for i, path := range paths {
		wg.Add(1)
		go func(idx int, p string) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			if ctx.Err() != nil {
				results[idx] = FileResult{Path: p, Err: ctx.Err()}
				return
			}

			start := time.Now()
			results[idx] = validateFile(p, requested, strict)
			results[idx].Duration = time.Since(start)
		}(i, path)
	}

	wg.Wait()
	return results
}

func validateFile(path, requested string, strict bool) FileResult {
	text, err := LoadConfig(path)
	if err != nil {
		return FileResult{Path: path, Err: err}
	}

	dialect, err := ResolveDialect(text, requested)
	if err != nil {
		return FileResult{Path: path, Err: err}
	}

	result := Evaluate(text, dialect)
	if strict {
		result = result.ApplyStrict()
	}
	return FileResult{Path: path, Dialect: dialect, Result: result}
}
