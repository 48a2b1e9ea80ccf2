// SPDX-License-Identifier: MIT

// Package subgrid: functional configuration shared by every storage
// strategy. This file defines:
//   - Option / options (functional options with unexported state),
//   - WithLogger,
//   - gatherOptions, which applies options over the defaults.
//
// Design goals:
//   - Options never change numerical results; Params carries everything
//     that does.
//   - Default logger is zap.NewNop(); nothing is logged per cell.
//   - Panic only on nonsensical option values (programmer error).
//
// Logged events (Debug): window growth, storage dropped by Scale(0),
// merge take-over of the operand's storage, dense→sparse conversion.

package subgrid

import "go.uber.org/zap"

const panicNilLogger = "subgrid: WithLogger: logger must not be nil"

// Option configures a subgrid at construction or decode time.
type Option func(*options)

// options holds the resolved configuration; unexported so that only
// WithX constructors can change it.
type options struct {
	logger *zap.Logger
}

// WithLogger routes debug events (window growth, storage drop, merge
// take-over, optimize conversions) to l. Panics on nil (programmer error).
func WithLogger(l *zap.Logger) Option {
	if l == nil {
		panic(panicNilLogger)
	}

	return func(o *options) { o.logger = l }
}

// gatherOptions applies opts over the defaults.
func gatherOptions(opts ...Option) options {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	return o
}
