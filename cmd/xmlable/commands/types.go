// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package commands

import (
	"fmt"
	"reflect"

	"github.com/spf13/cobra"

	"github.com/luxfi/xmlcodec"
	"github.com/luxfi/xmlcodec/internal/samples"
)

func typesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List the demo types and whether they are XMLable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, v := range samples.All() {
				t := reflect.TypeOf(v)
				if !xmlcodec.IsXMLable(t) {
					fmt.Fprintf(out, "%-16s %s\n", t, warnColor.Sprint("not XMLable"))
					continue
				}
				d, ok := appCtx.registry.Lookup(t)
				if !ok {
					return fmt.Errorf("%v is tagged but not registered", t)
				}
				fmt.Fprintf(out, "%-16s %s <%s> %d fields\n", t, okColor.Sprint("XMLable"), d.Name, len(d.Fields))
			}
			return nil
		},
	}
}
