// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package commands

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/luxfi/xmlcodec"
	"github.com/luxfi/xmlcodec/elementcodec"
	"github.com/luxfi/xmlcodec/internal/config"
)

var (
	configPath string
	noColor    bool
	appCtx     *app

	okColor   = color.New(color.FgGreen, color.Bold)
	warnColor = color.New(color.FgYellow)
	errColor  = color.New(color.FgRed, color.Bold)
)

type app struct {
	cfg      config.Config
	registry *xmlcodec.TypeRegistry
	manager  xmlcodec.Manager
}

func newApp(cfg config.Config) (*app, error) {
	// the demo types register themselves into Default at init
	reg := xmlcodec.Default
	m := xmlcodec.NewManager(cfg.Codec.MaxSize)
	if err := m.RegisterCodec(cfg.Codec.Version, elementcodec.New(reg, cfg.Codec.MaxSliceLen)); err != nil {
		return nil, err
	}
	return &app{
		cfg:      cfg,
		registry: reg,
		manager:  m,
	}, nil
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "xmlable",
		Short:         "Serialize opt-in Go types to XML",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if noColor {
				color.NoColor = true
			}
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			appCtx, err = newApp(cfg)
			return err
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "TOML config file")
	root.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable coloured output")

	root.AddCommand(typesCmd(), encodeCmd(), decodeCmd(), manifestCmd(), benchCmd(), serveCmd())
	return root
}

func Execute() error {
	root := newRootCmd()
	err := root.Execute()
	if err != nil {
		errColor.Fprintln(root.ErrOrStderr(), "error:", err)
	}
	return err
}
