// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package config loads the xmlable CLI settings from a TOML file.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/luxfi/xmlcodec"
	"github.com/luxfi/xmlcodec/elementcodec"
)

var ErrUnknownKeys = errors.New("unknown config keys")

type Config struct {
	Codec  Codec  `toml:"codec"`
	Bench  Bench  `toml:"bench"`
	Server Server `toml:"server"`
}

type Codec struct {
	Version     uint16 `toml:"version"`
	MaxSize     uint64 `toml:"max_size"`
	MaxSliceLen int    `toml:"max_slice_len"`
}

type Bench struct {
	Iter   int    `toml:"iter"`
	OutDir string `toml:"out_dir"`
}

type Server struct {
	Addr string `toml:"addr"`
}

// Default returns the settings used when no file is given
func Default() Config {
	return Config{
		Codec: Codec{
			Version:     0,
			MaxSize:     xmlcodec.DefaultMaxSize,
			MaxSliceLen: elementcodec.DefaultMaxSliceLen,
		},
		Bench: Bench{
			Iter:   16,
			OutDir: "results",
		},
		Server: Server{
			Addr: "127.0.0.1:9650",
		},
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return Config{}, fmt.Errorf("%s: %w: %s", path, ErrUnknownKeys, strings.Join(keys, ", "))
	}
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch {
	case c.Codec.MaxSize == 0:
		return errors.New("codec.max_size must be positive")
	case c.Codec.MaxSliceLen <= 0:
		return errors.New("codec.max_slice_len must be positive")
	case c.Bench.Iter <= 0:
		return errors.New("bench.iter must be positive")
	case c.Server.Addr == "":
		return errors.New("server.addr is empty")
	}
	return nil
}
