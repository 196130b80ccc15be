// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package bench

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestRunCallsEveryWorker(t *testing.T) {
	require := require.New(t)

	var calls atomic.Int64
	cfg := Config{Threads: 4, SeqIter: 3, Iter: 5}
	r, err := Run(context.Background(), "count", "()", cfg, func(context.Context) error {
		calls.Add(1)
		return nil
	})
	require.NoError(err)
	require.Equal(int64(4*3*5), calls.Load())

	require.Equal("count", r.Fun)
	require.Equal("()", r.Args)
	require.Equal(4, r.Threads)
	require.Equal(3, r.SeqIter)
	require.Equal(5, r.Iter)
	require.GreaterOrEqual(r.Mean, 0.0)
	require.GreaterOrEqual(r.Variance, 0.0)
	_, err = uuid.Parse(r.RunID)
	require.NoError(err)
}

func TestRunSingleIterationHasZeroVariance(t *testing.T) {
	r, err := Run(context.Background(), "sleep", "(1)", Config{Threads: 2, SeqIter: 1, Iter: 1}, func(context.Context) error {
		time.Sleep(time.Millisecond)
		return nil
	})
	require.NoError(t, err)
	require.Zero(t, r.Variance)
	require.GreaterOrEqual(t, r.Mean, time.Millisecond.Seconds())
}

func TestRunStopsOnError(t *testing.T) {
	errBoom := errors.New("boom")

	var calls atomic.Int64
	_, err := Run(context.Background(), "fail", "", Config{Threads: 1, SeqIter: 10, Iter: 3}, func(context.Context) error {
		if calls.Add(1) == 2 {
			return errBoom
		}
		return nil
	})
	require.ErrorIs(t, err, errBoom)
	require.Equal(t, int64(2), calls.Load())
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, "noop", "", Config{Threads: 2, SeqIter: 2, Iter: 1}, func(context.Context) error {
		return nil
	})
	require.ErrorIs(t, err, context.Canceled)
}

func TestRunInvalidConfig(t *testing.T) {
	noop := func(context.Context) error { return nil }
	for _, cfg := range []Config{
		{Threads: 0, SeqIter: 1, Iter: 1},
		{Threads: 1, SeqIter: 0, Iter: 1},
		{Threads: 1, SeqIter: 1, Iter: 0},
	} {
		_, err := Run(context.Background(), "noop", "", cfg, noop)
		require.ErrorIs(t, err, ErrInvalidConfig)
	}
}

func TestSweep(t *testing.T) {
	require := require.New(t)

	var calls atomic.Int64
	results, err := Sweep(context.Background(), "count", "", 2, func(context.Context) error {
		calls.Add(1)
		return nil
	})
	require.NoError(err)
	require.Len(results, len(SweepThreads))
	for i, r := range results {
		require.Equal(SweepThreads[i], r.Threads)
		require.Equal(TotalCalls, r.Threads*r.SeqIter)
	}
	require.Equal(int64(len(SweepThreads)*TotalCalls*2), calls.Load())
}

func TestMeanVariance(t *testing.T) {
	require := require.New(t)

	mean, variance := meanVariance([]float64{1, 2, 3, 4})
	require.InDelta(2.5, mean, 1e-12)
	require.InDelta(5.0/3.0, variance, 1e-12)

	mean, variance = meanVariance([]float64{7})
	require.Equal(7.0, mean)
	require.Zero(variance)

	mean, variance = meanVariance(nil)
	require.Zero(mean)
	require.Zero(variance)
}

func TestWriteResult(t *testing.T) {
	require := require.New(t)

	dir := filepath.Join(t.TempDir(), "results")
	want := Result{RunID: "id", Fun: "marshal", Args: "4", Threads: 2, SeqIter: 8, Iter: 16, Mean: 0.5, Variance: 0.01}

	path, err := WriteResult(dir, want)
	require.NoError(err)
	require.Equal(filepath.Join(dir, "marshal_4_2_8.json"), path)

	b, err := os.ReadFile(path)
	require.NoError(err)
	var got Result
	require.NoError(json.Unmarshal(b, &got))
	require.Equal(want, got)
	require.Contains(string(b), `"n_threads": 2`)
}
