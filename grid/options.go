// SPDX-License-Identifier: MIT

// Package grid: functional configuration of a Grid. This file defines:
//   - Option / options,
//   - WithLogger,
//   - subgridOptions, which hands a "subgrid"-named child logger to every
//     subgrid the grid creates or decodes.
//
// Design goals:
//   - Default logger is zap.NewNop().
//   - Options configure diagnostics only; orders, channels, bin limits and
//     Params are constructor arguments.
//   - Panic only on nonsensical option values (programmer error).

package grid

import (
	"github.com/katalvlaran/pinegrid/subgrid"
	"go.uber.org/zap"
)

// Option configures a Grid.
type Option func(*options)

type options struct {
	logger *zap.Logger
}

// WithLogger sets the logger of the grid and of every subgrid it creates.
// Panics on nil.
func WithLogger(l *zap.Logger) Option {
	if l == nil {
		panic("grid: WithLogger(nil)")
	}

	return func(o *options) { o.logger = l }
}

func gatherOptions(opts ...Option) options {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	return o
}

// subgridOptions forwards the grid logger to subgrid constructors.
func (o options) subgridOptions() []subgrid.Option {
	return []subgrid.Option{subgrid.WithLogger(o.logger.Named("subgrid"))}
}
