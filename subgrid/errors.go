// SPDX-License-Identifier: MIT
// Package subgrid: sentinel error set.
// Every exported operation returns one of these sentinels, possibly wrapped
// with fmt.Errorf("Op: %w", ErrX); callers match them with errors.Is.
// Panics are reserved for programmer errors (nil options) and for the
// Newton inversion of y(x) failing to converge, which cannot happen for a
// finite y inside an axis range.
//
// Error priority in Merge (checked by CanMerge, in this order):
// nil operand / unsupported pair -> self merge -> layout mismatch.
// A rejected Merge leaves both operands untouched.

package subgrid

import "errors"

var (
	// ErrInvalidParams is returned when Params violate an axis invariant
	// (node count must exceed the order, ranges must be finite and ordered).
	ErrInvalidParams = errors.New("subgrid: invalid parameters")

	// ErrEmptySubgrid indicates an operation that needs stored weights was
	// called before the first in-range Fill.
	ErrEmptySubgrid = errors.New("subgrid: subgrid is empty")

	// ErrOutOfRange indicates a scale index outside the materialised window.
	ErrOutOfRange = errors.New("subgrid: index out of range")

	// ErrBufferSize indicates an output buffer whose length is not ny1·ny2.
	ErrBufferSize = errors.New("subgrid: buffer has wrong length")

	// ErrNoNodeGrid is returned by node-based accessors of the raw-sample strategy.
	ErrNoNodeGrid = errors.New("subgrid: strategy has no node grid")

	// ErrNilLuminosity indicates a Luminosity with neither form set.
	ErrNilLuminosity = errors.New("subgrid: luminosity is nil")

	// ErrLuminosityUnsupported indicates the luminosity form cannot be
	// evaluated by the strategy (index-based luminosity on raw samples).
	ErrLuminosityUnsupported = errors.New("subgrid: luminosity form not supported")

	// ErrNodesMismatch indicates node coordinates that do not match the axes.
	ErrNodesMismatch = errors.New("subgrid: node coordinates do not match axes")

	// ErrIncompatibleParams is returned by Merge when both operands were
	// built with different axes, orders or reweighting.
	ErrIncompatibleParams = errors.New("subgrid: incompatible parameters")

	// ErrUnsupportedMerge is returned by Merge for a storage pair that
	// cannot be combined.
	ErrUnsupportedMerge = errors.New("subgrid: unsupported merge combination")

	// ErrSelfMerge is returned when a subgrid is merged with itself.
	ErrSelfMerge = errors.New("subgrid: cannot merge a subgrid with itself")

	// ErrUnknownKind indicates an unrecognised storage strategy.
	ErrUnknownKind = errors.New("subgrid: unknown kind")

	// ErrCorruptData indicates serialized bytes that are not a subgrid.
	ErrCorruptData = errors.New("subgrid: corrupt data")

	// ErrUnsupportedVersion indicates serialized state from a newer format.
	ErrUnsupportedVersion = errors.New("subgrid: unsupported format version")
)
