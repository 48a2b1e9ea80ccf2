// SPDX-License-Identifier: MIT

package grid

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/katalvlaran/pinegrid/subgrid"
	"go.uber.org/zap"
)

// mergeStep is how one slot of other enters g.
type mergeStep int

const (
	stepMerge   mergeStep = iota // ours.Merge(theirs)
	stepReplace                  // ours is empty: swap slots
	stepReverse                  // theirs.Merge(ours), then swap slots
)

// Merge adds every subgrid of other into g. Both grids must share orders,
// channels, bin limits and subgrid parameters. An empty slot of g whose
// strategy differs from other's slot is replaced by other's subgrid; a
// dense slot of g receiving a sparse slot is merged into the sparse one,
// which then takes its place. Every slot pair is checked before anything
// is modified, so on error both grids are unchanged.
// other must not be used after a successful merge.
func (g *Grid) Merge(other *Grid) error {
	if other == nil || g == other {
		return fmt.Errorf("Merge: %w", ErrIncompatibleGrid)
	}
	if !slices.Equal(g.orders, other.orders) ||
		!slices.Equal(g.limits, other.limits) ||
		!slices.EqualFunc(g.lumis, other.lumis, func(a, b LumiEntry) bool { return slices.Equal(a.Terms, b.Terms) }) ||
		g.params != other.params {
		return fmt.Errorf("Merge: %w", ErrIncompatibleGrid)
	}

	steps := make([]mergeStep, len(other.subgrids))
	for i, theirs := range other.subgrids {
		if theirs.IsEmpty() {
			continue
		}
		step, err := planSlot(g.subgrids[i], theirs)
		if err != nil {
			return fmt.Errorf("Merge: slot %d: %w", i, err)
		}
		steps[i] = step
	}

	replaced, reversed := 0, 0
	for i, theirs := range other.subgrids {
		if theirs.IsEmpty() {
			continue
		}
		ours := g.subgrids[i]
		switch steps[i] {
		case stepReplace:
			g.subgrids[i], other.subgrids[i] = theirs, ours
			replaced++
		case stepReverse:
			if err := theirs.Merge(ours); err != nil {
				return fmt.Errorf("Merge: slot %d: %w", i, err)
			}
			g.subgrids[i], other.subgrids[i] = theirs, ours
			reversed++
		default:
			if err := ours.Merge(theirs); err != nil {
				return fmt.Errorf("Merge: slot %d: %w", i, err)
			}
		}
	}
	if replaced > 0 || reversed > 0 {
		g.log.Debug("grid merge swapped slots", zap.Int("replaced", replaced), zap.Int("reversed", reversed))
	}

	return nil
}

// planSlot decides how a non-empty theirs enters ours without modifying
// either.
func planSlot(ours, theirs subgrid.Subgrid) (mergeStep, error) {
	if ours.IsEmpty() && ours.Kind() != theirs.Kind() {
		return stepReplace, nil
	}
	err := subgrid.CanMerge(ours, theirs)
	if err == nil {
		return stepMerge, nil
	}
	if errors.Is(err, subgrid.ErrUnsupportedMerge) && subgrid.CanMerge(theirs, ours) == nil {
		return stepReverse, nil
	}

	return stepMerge, err
}

// Scale multiplies every subgrid by factor.
func (g *Grid) Scale(factor float64) {
	for _, sg := range g.subgrids {
		sg.Scale(factor)
	}
}

// ScaleByOrder multiplies the subgrids of each order by
// global · alphas^Alphas · alpha^Alpha · logxir^LogXiR · logxif^LogXiF.
func (g *Grid) ScaleByOrder(alphas, alpha, logxir, logxif, global float64) {
	for io, o := range g.orders {
		factor := global *
			math.Pow(alphas, float64(o.Alphas)) *
			math.Pow(alpha, float64(o.Alpha)) *
			math.Pow(logxir, float64(o.LogXiR)) *
			math.Pow(logxif, float64(o.LogXiF))
		for bin := 0; bin < g.Bins(); bin++ {
			for lumi := range g.lumis {
				g.subgrids[g.slot(io, bin, lumi)].Scale(factor)
			}
		}
	}
}

// Optimize replaces every subgrid by its most compact equivalent
// (see subgrid.Optimize). Convolute results are unchanged.
func (g *Grid) Optimize() error {
	converted := 0
	for i, sg := range g.subgrids {
		opt, err := subgrid.Optimize(sg)
		if err != nil {
			return fmt.Errorf("Optimize: slot %d: %w", i, err)
		}
		if opt != sg {
			converted++
		}
		g.subgrids[i] = opt
	}
	g.log.Debug("grid optimized", zap.Int("converted", converted), zap.Int("slots", len(g.subgrids)))

	return nil
}
