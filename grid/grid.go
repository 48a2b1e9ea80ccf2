// SPDX-License-Identifier: MIT

package grid

import (
	"fmt"
	"math"
	"slices"
	"sort"

	"github.com/katalvlaran/pinegrid/subgrid"
	"go.uber.org/zap"
)

// Order is a perturbative order: the powers of αs, α, ln(ξ_R²) and ln(ξ_F²).
type Order struct {
	Alphas int
	Alpha  int
	LogXiR int
	LogXiF int
}

// LumiTerm is one parton pair of a channel with its factor.
type LumiTerm struct {
	PID1   int
	PID2   int
	Factor float64
}

// LumiEntry is a luminosity channel: a sum of parton pairs.
type LumiEntry struct {
	Terms []LumiTerm
}

// Grid holds one subgrid per (order, bin, channel).
type Grid struct {
	orders   []Order
	lumis    []LumiEntry
	limits   []float64
	params   subgrid.Params
	kind     subgrid.Kind
	subgrids []subgrid.Subgrid // order-major: (order·bins + bin)·channels + channel
	log      *zap.Logger
	opts     options
}

// New builds an empty grid. Every slot gets a subgrid of the given kind
// built from params.
//
// Errors: ErrNoChannels, ErrNoOrders, ErrBadBinLimits, or an error
// wrapping subgrid.ErrInvalidParams / subgrid.ErrUnknownKind.
func New(lumis []LumiEntry, orders []Order, limits []float64, params subgrid.Params, kind subgrid.Kind, opts ...Option) (*Grid, error) {
	if len(lumis) == 0 {
		return nil, fmt.Errorf("New: %w", ErrNoChannels)
	}
	if len(orders) == 0 {
		return nil, fmt.Errorf("New: %w", ErrNoOrders)
	}
	if err := validateLimits(limits); err != nil {
		return nil, fmt.Errorf("New: %w", err)
	}

	o := gatherOptions(opts...)
	g := &Grid{
		orders: slices.Clone(orders),
		lumis:  cloneLumis(lumis),
		limits: slices.Clone(limits),
		params: params,
		kind:   kind,
		log:    o.logger,
		opts:   o,
	}
	g.subgrids = make([]subgrid.Subgrid, len(orders)*g.Bins()*len(lumis))
	for i := range g.subgrids {
		sg, err := g.newSubgrid()
		if err != nil {
			return nil, fmt.Errorf("New: %w", err)
		}
		g.subgrids[i] = sg
	}

	return g, nil
}

func (g *Grid) newSubgrid() (subgrid.Subgrid, error) {
	return subgrid.New(g.kind, g.params, g.opts.subgridOptions()...)
}

func validateLimits(limits []float64) error {
	if len(limits) < 2 {
		return ErrBadBinLimits
	}
	for i, v := range limits {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return ErrBadBinLimits
		}
		if i > 0 && v <= limits[i-1] {
			return ErrBadBinLimits
		}
	}

	return nil
}

func cloneLumis(in []LumiEntry) []LumiEntry {
	out := make([]LumiEntry, len(in))
	for i, l := range in {
		out[i] = LumiEntry{Terms: slices.Clone(l.Terms)}
	}

	return out
}

// Orders returns a copy of the perturbative orders.
func (g *Grid) Orders() []Order { return slices.Clone(g.orders) }

// Lumis returns a copy of the luminosity channels.
func (g *Grid) Lumis() []LumiEntry { return cloneLumis(g.lumis) }

// BinLimits returns a copy of the bin limits.
func (g *Grid) BinLimits() []float64 { return slices.Clone(g.limits) }

// Bins returns the number of observable bins.
func (g *Grid) Bins() int { return len(g.limits) - 1 }

// Params returns the subgrid parameters shared by every slot.
func (g *Grid) Params() subgrid.Params { return g.params }

// Kind returns the strategy new slots are created with.
func (g *Grid) Kind() subgrid.Kind { return g.kind }

// Subgrid returns the subgrid of (order, bin, lumi).
func (g *Grid) Subgrid(order, bin, lumi int) (subgrid.Subgrid, error) {
	if err := g.checkIndex(order, bin, lumi); err != nil {
		return nil, fmt.Errorf("Subgrid: %w", err)
	}

	return g.subgrids[g.slot(order, bin, lumi)], nil
}

// SetSubgrid installs sg at (order, bin, lumi). sg must have been built from
// the grid's subgrid parameters; its strategy may differ from Kind().
//
// Errors: ErrOutOfRange, or subgrid.ErrIncompatibleParams for a foreign layout.
func (g *Grid) SetSubgrid(order, bin, lumi int, sg subgrid.Subgrid) error {
	if err := g.checkIndex(order, bin, lumi); err != nil {
		return fmt.Errorf("SetSubgrid: %w", err)
	}
	if err := subgrid.CheckLayout(sg, g.params); err != nil {
		return fmt.Errorf("SetSubgrid: %w", err)
	}
	g.subgrids[g.slot(order, bin, lumi)] = sg

	return nil
}

func (g *Grid) slot(order, bin, lumi int) int {
	return (order*g.Bins()+bin)*len(g.lumis) + lumi
}

func (g *Grid) checkIndex(order, bin, lumi int) error {
	if order < 0 || order >= len(g.orders) {
		return fmt.Errorf("order %d of %d: %w", order, len(g.orders), ErrOutOfRange)
	}
	if bin < 0 || bin >= g.Bins() {
		return fmt.Errorf("bin %d of %d: %w", bin, g.Bins(), ErrOutOfRange)
	}
	if lumi < 0 || lumi >= len(g.lumis) {
		return fmt.Errorf("channel %d of %d: %w", lumi, len(g.lumis), ErrOutOfRange)
	}

	return nil
}

// binIndex returns the bin of observable, or -1 outside [limits[0], limits[n]).
// Complexity: O(log bins).
func (g *Grid) binIndex(observable float64) int {
	if !(observable >= g.limits[0] && observable < g.limits[len(g.limits)-1]) {
		return -1
	}

	return sort.Search(len(g.limits), func(i int) bool { return g.limits[i] > observable }) - 1
}

// Fill routes one sample to the subgrid of (order, bin(observable), lumi).
// Observables outside the bin range are dropped without error.
func (g *Grid) Fill(order int, observable float64, lumi int, s subgrid.Sample) error {
	if err := g.checkIndex(order, 0, lumi); err != nil {
		return fmt.Errorf("Fill: %w", err)
	}
	bin := g.binIndex(observable)
	if bin < 0 {
		return nil
	}
	g.subgrids[g.slot(order, bin, lumi)].Fill(s)

	return nil
}

// FillAll fills the same kinematics into every channel; weights[i]
// replaces s.Weight for channel i and zero weights are skipped.
func (g *Grid) FillAll(order int, observable float64, s subgrid.Sample, weights []float64) error {
	if len(weights) != len(g.lumis) {
		return fmt.Errorf("FillAll: got %d weights for %d channels: %w", len(weights), len(g.lumis), ErrWeightsLength)
	}
	if err := g.checkIndex(order, 0, 0); err != nil {
		return fmt.Errorf("FillAll: %w", err)
	}
	bin := g.binIndex(observable)
	if bin < 0 {
		return nil
	}
	for lumi, w := range weights {
		if w == 0 {
			continue
		}
		s.Weight = w
		g.subgrids[g.slot(order, bin, lumi)].Fill(s)
	}

	return nil
}
