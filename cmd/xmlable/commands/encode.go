// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/luxfi/xmlcodec"
	"github.com/luxfi/xmlcodec/internal/samples"
)

func encodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "encode <file>",
		Short: "Write the demo objects to an XML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			objs := samples.Objects()
			if err := xmlcodec.WriteFile(appCtx.manager, appCtx.cfg.Codec.Version, args[0], objs...); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %d objects to %s\n", okColor.Sprint("wrote"), len(objs), args[0])
			return nil
		},
	}
}
