// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package commands

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/luxfi/xmlcodec"
	"github.com/luxfi/xmlcodec/service"
)

func decodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode <file>",
		Short: "Read an XML file and print its objects as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			version, values, err := xmlcodec.ReadFile(appCtx.manager, args[0])
			if err != nil {
				return err
			}
			objects, err := service.RenderAll(appCtx.registry, values)
			if err != nil {
				return err
			}
			b, err := json.MarshalIndent(service.DecodeReply{Version: version, Objects: objects}, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(b))
			return nil
		},
	}
}
