// SPDX-License-Identifier: MIT

package subgrid

import (
	"fmt"
	"math"
)

// Defaults (single source of truth for DefaultParams).
const (
	DefaultQ2Bins  = 40
	DefaultQ2Order = 3
	DefaultQ2Min   = 1e2
	DefaultQ2Max   = 1e8

	DefaultXBins  = 50
	DefaultXOrder = 3
	DefaultXMin   = 2e-7
	DefaultXMax   = 1.0

	DefaultReweight = true
)

// MaxOrder is the largest supported interpolation order on any axis.
// Stencil weights live in fixed-size arrays of MaxOrder+1 elements.
const MaxOrder = 7

// q2Cut is the Q² offset of the τ transform: τ = ln ln(Q²/q2Cut).
const q2Cut = 0.0625

// AxisParams configures one interpolation axis in physical units.
type AxisParams struct {
	Bins  int     // number of nodes, must exceed Order
	Order int     // interpolation order, stencil has Order+1 nodes
	Min   float64 // smallest physical value (x or Q²)
	Max   float64 // largest physical value (x or Q²)
}

// Params configures a subgrid. It is fixed at construction.
//
// LagrangeV1 shares X1 between both partons and ignores X2.
type Params struct {
	Q2       AxisParams
	X1       AxisParams
	X2       AxisParams
	Reweight bool // divide weights by w(x1)·w(x2) on fill, undo on read
}

// DefaultParams returns the parameters used when nothing else is configured:
// 40 Q² nodes in [1e2, 1e8], 50 x nodes in [2e-7, 1], third order
// everywhere, reweighting on.
func DefaultParams() Params {
	x := AxisParams{Bins: DefaultXBins, Order: DefaultXOrder, Min: DefaultXMin, Max: DefaultXMax}

	return Params{
		Q2:       AxisParams{Bins: DefaultQ2Bins, Order: DefaultQ2Order, Min: DefaultQ2Min, Max: DefaultQ2Max},
		X1:       x,
		X2:       x,
		Reweight: DefaultReweight,
	}
}

// Validate checks every axis. Errors wrap ErrInvalidParams.
func (p Params) Validate() error {
	if err := p.Q2.validate("Q2", q2Cut, math.Inf(1)); err != nil {
		return err
	}
	if err := p.X1.validate("X1", 0, 1); err != nil {
		return err
	}

	return p.X2.validate("X2", 0, 1)
}

// validate checks a single axis: lo < Min < Max ≤ hi, Bins ≥ 2, Bins > Order.
func (a AxisParams) validate(name string, lo, hi float64) error {
	if a.Order < 0 || a.Order > MaxOrder {
		return fmt.Errorf("%s.Order=%d not in [0, %d]: %w", name, a.Order, MaxOrder, ErrInvalidParams)
	}
	if a.Bins < 2 || a.Bins <= a.Order {
		return fmt.Errorf("%s.Bins=%d must be ≥ 2 and > Order=%d: %w", name, a.Bins, a.Order, ErrInvalidParams)
	}
	if isNonFinite(a.Min) || isNonFinite(a.Max) {
		return fmt.Errorf("%s range must be finite: %w", name, ErrInvalidParams)
	}
	if a.Min <= lo || a.Max > hi || a.Min >= a.Max {
		return fmt.Errorf("%s range [%g, %g] invalid: %w", name, a.Min, a.Max, ErrInvalidParams)
	}

	return nil
}

func isNonFinite(v float64) bool {
	return math.IsNaN(v) || math.IsInf(v, 0)
}
