// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/luxfi/xmlcodec/bench"
	"github.com/luxfi/xmlcodec/internal/samples"
)

func benchCmd() *cobra.Command {
	var (
		iter   int
		outDir string
	)
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Time marshaling the demo objects across 1, 2, 4 and 8 goroutines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("iter") {
				iter = appCtx.cfg.Bench.Iter
			}
			if !cmd.Flags().Changed("out") {
				outDir = appCtx.cfg.Bench.OutDir
			}

			objs := samples.Objects()
			version := appCtx.cfg.Codec.Version
			marshal := func(context.Context) error {
				_, err := appCtx.manager.Marshal(version, objs...)
				return err
			}

			results, err := bench.Sweep(cmd.Context(), "marshal", strconv.Itoa(len(objs)), iter, marshal)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, r := range results {
				path, err := bench.WriteResult(outDir, r)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "threads=%d seq_iter=%d mean=%.6fs variance=%.3g %s\n",
					r.Threads, r.SeqIter, r.Mean, r.Variance, warnColor.Sprint(path))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&iter, "iter", 0, "timed rounds per goroutine count (default from config)")
	cmd.Flags().StringVar(&outDir, "out", "", "result directory (default from config)")
	return cmd
}
