// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package bench times a function run concurrently by a fixed number of
// goroutines, repeated over several rounds.
package bench

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"fortio.org/safecast"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// TotalCalls is the number of calls per round in a Sweep, split evenly
// across goroutines.
const TotalCalls = 16

// SweepThreads are the goroutine counts tried by Sweep
var SweepThreads = []int{1, 2, 4, 8}

var ErrInvalidConfig = errors.New("invalid bench config")

// Config sets the shape of a run
type Config struct {
	// Threads is the number of goroutines per round.
	Threads int
	// SeqIter is how many times each goroutine calls the function.
	SeqIter int
	// Iter is the number of timed rounds.
	Iter int
}

func (c Config) validate() error {
	if c.Threads < 1 || c.SeqIter < 1 || c.Iter < 1 {
		return fmt.Errorf("%w: threads=%d seq_iter=%d iter=%d", ErrInvalidConfig, c.Threads, c.SeqIter, c.Iter)
	}
	return nil
}

// Result is the outcome of a run. Times are in seconds.
type Result struct {
	RunID    string  `json:"run_id"`
	Fun      string  `json:"fun"`
	Args     string  `json:"args"`
	Threads  int     `json:"n_threads"`
	SeqIter  int     `json:"seq_iter"`
	Iter     int     `json:"iter"`
	Mean     float64 `json:"mean"`
	Variance float64 `json:"variance"`
}

// Func is the function under test
type Func func(ctx context.Context) error

// Run executes fn cfg.Iter times over cfg.Threads goroutines each making
// cfg.SeqIter sequential calls, timing each round. The first error aborts
// the run.
func Run(ctx context.Context, name, args string, cfg Config, fn Func) (Result, error) {
	if err := cfg.validate(); err != nil {
		return Result{}, err
	}

	samples := make([]float64, 0, cfg.Iter)
	for i := 0; i < cfg.Iter; i++ {
		elapsed, err := round(ctx, cfg, fn)
		if err != nil {
			return Result{}, fmt.Errorf("%s round %d: %w", name, i, err)
		}
		samples = append(samples, elapsed.Seconds())
	}

	mean, variance := meanVariance(samples)
	return Result{
		RunID:    uuid.New().String(),
		Fun:      name,
		Args:     args,
		Threads:  cfg.Threads,
		SeqIter:  cfg.SeqIter,
		Iter:     cfg.Iter,
		Mean:     mean,
		Variance: variance,
	}, nil
}

// Sweep runs fn with every goroutine count in SweepThreads, keeping the
// total number of calls per round at TotalCalls.
func Sweep(ctx context.Context, name, args string, iter int, fn Func) ([]Result, error) {
	results := make([]Result, 0, len(SweepThreads))
	for _, threads := range SweepThreads {
		cfg := Config{
			Threads: threads,
			SeqIter: TotalCalls / threads,
			Iter:    iter,
		}
		r, err := Run(ctx, name, args, cfg, fn)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, nil
}

// FileName is the name WriteResult gives a result file
func FileName(r Result) string {
	return fmt.Sprintf("%s_%s_%d_%d.json", r.Fun, r.Args, r.Threads, r.SeqIter)
}

// WriteResult writes r as indented JSON into dir and returns the file path
func WriteResult(dir string, r Result) (string, error) {
	b, err := json.MarshalIndent(r, "", "    ")
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, FileName(r))
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

func round(ctx context.Context, cfg Config, fn Func) (time.Duration, error) {
	g, gctx := errgroup.WithContext(ctx)

	start := time.Now()
	for t := 0; t < cfg.Threads; t++ {
		g.Go(func() error {
			for s := 0; s < cfg.SeqIter; s++ {
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}
				if err := fn(gctx); err != nil {
					return err
				}
			}
			return nil
		})
	}
	err := g.Wait()
	return time.Since(start), err
}

// meanVariance returns the mean and the sample variance, which is zero for
// fewer than two samples.
func meanVariance(samples []float64) (float64, float64) {
	n, err := safecast.Conv[float64](len(samples))
	if err != nil || n == 0 {
		return 0, 0
	}
	var sum float64
	for _, s := range samples {
		sum += s
	}
	mean := sum / n
	if n < 2 {
		return mean, 0
	}
	var sq float64
	for _, s := range samples {
		sq += (s - mean) * (s - mean)
	}
	return mean, sq / (n - 1)
}
