// SPDX-License-Identifier: MIT

// Package store: functional configuration of a Store. This file defines:
//   - Option / options,
//   - WithLogger (store events and golang-migrate output, both at Debug),
//   - WithClock (source of created_unix_nanos stamps).
//
// Defaults: zap.NewNop() and time.Now. Nil arguments panic.

package store

import (
	"time"

	"go.uber.org/zap"
)

// Option configures a Store.
type Option func(*options)

type options struct {
	logger *zap.Logger
	now    func() time.Time
}

// WithLogger sets the store logger. Panics on nil.
func WithLogger(l *zap.Logger) Option {
	if l == nil {
		panic("store: WithLogger(nil)")
	}

	return func(o *options) { o.logger = l }
}

// WithClock overrides the time source of creation stamps. Panics on nil.
func WithClock(now func() time.Time) Option {
	if now == nil {
		panic("store: WithClock(nil)")
	}

	return func(o *options) { o.now = now }
}

func gatherOptions(opts ...Option) options {
	o := options{logger: zap.NewNop(), now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	return o
}
