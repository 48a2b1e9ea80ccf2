// SPDX-License-Identifier: MIT
// Package grid: sentinel error set.
// Errors of the grid itself are defined here; errors of a single subgrid
// (subgrid.ErrUnsupportedMerge, subgrid.ErrIncompatibleParams, ...) are
// passed through wrapped with the operation and slot, so errors.Is matches
// both families.
//
// Validation before mutation: FillEvents checks every event index, Merge
// checks every slot pair, Read checks every slot layout before the grid
// changes. A returned error means nothing was modified.

package grid

import "errors"

// Sentinel errors. Wrapped with fmt.Errorf("Op: %w", ErrX); match with errors.Is.
var (
	// ErrNoChannels indicates a grid without luminosity channels.
	ErrNoChannels = errors.New("grid: no luminosity channels")

	// ErrNoOrders indicates a grid without perturbative orders.
	ErrNoOrders = errors.New("grid: no orders")

	// ErrBadBinLimits indicates fewer than two or non-increasing bin limits.
	ErrBadBinLimits = errors.New("grid: bin limits must be ≥2 strictly increasing finite values")

	// ErrOutOfRange indicates an order, bin or channel index outside the grid.
	ErrOutOfRange = errors.New("grid: index out of range")

	// ErrWeightsLength indicates a FillAll weight slice of the wrong length.
	ErrWeightsLength = errors.New("grid: one weight per channel required")

	// ErrMaskLength indicates a Mask whose order or channel slice has the wrong length.
	ErrMaskLength = errors.New("grid: mask length mismatch")

	// ErrIncompatibleGrid is returned by Merge when orders, channels,
	// bin limits or subgrid parameters differ.
	ErrIncompatibleGrid = errors.New("grid: incompatible grids")

	// ErrCorruptGrid indicates bytes that are not a grid.
	ErrCorruptGrid = errors.New("grid: corrupt data")

	// ErrUnsupportedVersion indicates a grid written by a newer format.
	ErrUnsupportedVersion = errors.New("grid: unsupported format version")
)
