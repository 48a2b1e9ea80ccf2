// SPDX-License-Identifier: MIT

package subgrid

import (
	"fmt"
	"maps"
	"slices"

	"go.uber.org/zap"
)

// LagrangeSparse stores only the nodes a fill or merge has touched, keyed
// by the flat index ((itau·ny1)+iy1)·ny2+iy2. Convolute visits keys in
// ascending order, the same order as the dense strategies, so converting
// between them leaves results bit-identical.
//
// It accepts merges from LagrangeV1 and LagrangeV2 with the same layout,
// which makes it the target of Optimize.
type LagrangeSparse struct {
	layout
	entries          map[int]float64 // nil until first write
	itauMin, itauMax int             // union of every τ stencil written
	log              *zap.Logger
}

// NewLagrangeSparse builds an empty LagrangeSparse. Errors wrap ErrInvalidParams.
func NewLagrangeSparse(p Params, opts ...Option) (*LagrangeSparse, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("NewLagrangeSparse: %w", err)
	}

	return &LagrangeSparse{layout: newLayout(p), log: gatherOptions(opts...).logger}, nil
}

// Kind implements Subgrid.
func (*LagrangeSparse) Kind() Kind { return KindLagrangeSparse }

func (g *LagrangeSparse) key(itau, iy1, iy2 int) int {
	return (itau*g.x1.n+iy1)*g.x2.n + iy2
}

// cover extends the recorded window to [lo, hi).
func (g *LagrangeSparse) cover(lo, hi int) {
	if g.entries == nil {
		g.entries = make(map[int]float64)
		g.itauMin, g.itauMax = lo, hi
		return
	}
	g.itauMin = min(g.itauMin, lo)
	g.itauMax = max(g.itauMax, hi)
}

// Fill implements Subgrid.
func (g *LagrangeSparse) Fill(s Sample) {
	st, ok := g.locate(s)
	if !ok {
		return
	}
	g.cover(st.k3, st.k3+g.q2.order+1)
	g.each(&st, s.Weight, func(itau, iy1, iy2 int, v float64) {
		g.entries[g.key(itau, iy1, iy2)] += v
	})
}

// Convolute implements Subgrid.
func (g *LagrangeSparse) Convolute(nodes Nodes, lumi Luminosity) (float64, error) {
	if lumi.isNil() {
		return 0, fmt.Errorf("Convolute: %w", ErrNilLuminosity)
	}
	if g.entries == nil {
		return 0, nil
	}
	if nodes.X1 == nil && nodes.X2 == nil && nodes.Q2 == nil {
		nodes = g.nodes()
	} else if err := g.checkNodes(nodes); err != nil {
		return 0, fmt.Errorf("Convolute: %w", err)
	}

	plane := g.plane()
	sum := 0.0
	for _, k := range slices.Sorted(maps.Keys(g.entries)) {
		sigma := g.entries[k]
		if sigma == 0 {
			continue
		}
		itau, rest := k/plane, k%plane
		sum += g.cellValue(sigma, rest/g.x2.n, rest%g.x2.n, itau, nodes, lumi)
	}

	return sum, nil
}

// Merge implements Subgrid. Accepts LagrangeSparse, LagrangeV1 and
// LagrangeV2 operands with an identical layout.
func (g *LagrangeSparse) Merge(other Subgrid) error {
	if err := CanMerge(g, other); err != nil {
		return err
	}
	switch o := other.(type) {
	case *LagrangeSparse:
		if o.entries == nil {
			return nil
		}
		if g.entries == nil {
			g.log.Debug("subgrid merge took over storage", zap.Int("entries", len(o.entries)))
			g.entries, g.itauMin, g.itauMax = o.entries, o.itauMin, o.itauMax
		} else {
			g.cover(o.itauMin, o.itauMax)
			for k, v := range o.entries {
				g.entries[k] += v
			}
		}
		o.reset()
	case *LagrangeV1:
		g.mergeDense(&o.lagrange)
	case *LagrangeV2:
		g.mergeDense(&o.lagrange)
	}

	return nil
}

func (g *LagrangeSparse) mergeDense(o *lagrange) {
	g.addDense(o)
	o.store.reset()
}

// addDense adds every non-zero cell of o without modifying o.
func (g *LagrangeSparse) addDense(o *lagrange) {
	if o.store.isEmpty() {
		return
	}
	g.cover(o.store.itauMin, o.store.itauMax)
	for itau := o.store.itauMin; itau < o.store.itauMax; itau++ {
		for i, v := range o.store.row(itau) {
			if v != 0 {
				g.entries[g.key(itau, i/g.x2.n, i%g.x2.n)] += v
			}
		}
	}
}

// Scale implements Subgrid.
func (g *LagrangeSparse) Scale(factor float64) {
	if factor == 0 {
		if g.entries != nil {
			g.log.Debug("subgrid storage dropped by zero scale")
		}
		g.reset()
		return
	}
	for k := range g.entries {
		g.entries[k] *= factor
	}
}

// IsEmpty implements Subgrid.
func (g *LagrangeSparse) IsEmpty() bool {
	return g.entries == nil
}

// Len returns the number of stored nodes.
func (g *LagrangeSparse) Len() int {
	return len(g.entries)
}

// Nodes implements Subgrid.
func (g *LagrangeSparse) Nodes() Nodes {
	return g.nodes()
}

// WindowBounds implements Subgrid.
func (g *LagrangeSparse) WindowBounds() (int, int) {
	return g.itauMin, g.itauMax
}

// ExportSlice implements Subgrid.
func (g *LagrangeSparse) ExportSlice(iq2 int, out []float64) error {
	if g.entries == nil {
		return fmt.Errorf("ExportSlice(%d): %w", iq2, ErrEmptySubgrid)
	}
	if iq2 < g.itauMin || iq2 >= g.itauMax {
		return fmt.Errorf("ExportSlice(%d): window [%d,%d): %w", iq2, g.itauMin, g.itauMax, ErrOutOfRange)
	}
	plane := g.plane()
	if len(out) != plane {
		return fmt.Errorf("ExportSlice: len(out)=%d, want %d: %w", len(out), plane, ErrBufferSize)
	}

	gx1, gx2 := g.exportSlices()
	clear(out)
	for k, v := range g.entries {
		if k/plane != iq2 {
			continue
		}
		i := k % plane
		out[i] = v * gx1[i/g.x2.n] * gx2[i%g.x2.n]
	}

	return nil
}

// prune deletes nodes whose weight is exactly zero.
func (g *LagrangeSparse) prune() {
	maps.DeleteFunc(g.entries, func(_ int, v float64) bool { return v == 0 })
}

func (g *LagrangeSparse) reset() {
	g.entries, g.itauMin, g.itauMax = nil, 0, 0
}

func (*LagrangeSparse) sealed() {}
