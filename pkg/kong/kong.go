// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package kong re-exports the command-line parser the zeta commands are
// written against, plus the translation hook their help output uses.
package kong

import (
	"github.com/alecthomas/kong"
)

type (
	Kong          = kong.Kong
	Context       = kong.Context
	Option        = kong.Option
	Vars          = kong.Vars
	HelpOptions   = kong.HelpOptions
	DecodeContext = kong.DecodeContext
	MapperFunc    = kong.MapperFunc
)

// New constructs a parser without running it; Parse is the common path.
func New(cli any, options ...Option) (*Kong, error) {
	return kong.New(cli, options...)
}

func NamedMapper(name string, mapper kong.Mapper) Option {
	return kong.NamedMapper(name, mapper)
}

func Name(name string) Option {
	return kong.Name(name)
}

func Description(description string) Option {
	return kong.Description(description)
}

func UsageOnError() Option {
	return kong.UsageOnError()
}

func ConfigureHelp(options HelpOptions) Option {
	return kong.ConfigureHelp(options)
}
