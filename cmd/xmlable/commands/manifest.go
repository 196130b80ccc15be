// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/luxfi/xmlcodec/manifest"
)

var errBreakingChanges = errors.New("manifest has breaking changes")

func manifestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "manifest",
		Short: "Save or compare registry manifests",
	}
	cmd.AddCommand(manifestSaveCmd(), manifestDiffCmd())
	return cmd
}

func manifestSaveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "save <file>",
		Short: "Write the registry manifest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m := manifest.Snapshot(appCtx.registry)
			if err := manifest.Save(args[0], m); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %d types to %s\n", okColor.Sprint("saved"), len(m.Types), args[0])
			return nil
		},
	}
}

func manifestDiffCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diff <file>",
		Short: "Compare a saved manifest with the registry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			saved, err := manifest.Load(args[0])
			if err != nil {
				return err
			}
			changes := manifest.Diff(saved, manifest.Snapshot(appCtx.registry))
			out := cmd.OutOrStdout()
			if len(changes) == 0 {
				fmt.Fprintln(out, okColor.Sprint("no changes"))
				return nil
			}
			for _, c := range changes {
				fmt.Fprintln(out, warnColor.Sprint(c.String()))
			}
			if manifest.Breaking(changes) {
				return errBreakingChanges
			}
			return nil
		},
	}
}
