// SPDX-License-Identifier: MIT

package subgrid

import (
	"fmt"

	"go.uber.org/zap"
)

// lagrange is the dense windowed implementation shared by LagrangeV1 and
// LagrangeV2. The two differ only in how their x axes are configured and
// serialized.
type lagrange struct {
	layout
	store windowedStore
	log   *zap.Logger
}

func newLagrange(l layout, o options) lagrange {
	return lagrange{layout: l, store: newWindowedStore(l.x1.n, l.x2.n), log: o.logger}
}

// Fill implements Subgrid. Two phases: grow the window to cover the τ
// stencil, then accumulate; no cell is written before storage exists.
func (g *lagrange) Fill(s Sample) {
	st, ok := g.locate(s)
	if !ok {
		return
	}

	lo, hi := st.k3, st.k3+g.q2.order+1
	wasEmpty := g.store.isEmpty()
	if g.store.ensure(lo, hi) && !wasEmpty {
		g.log.Debug("subgrid window grown",
			zap.Int("itaumin", g.store.itauMin), zap.Int("itaumax", g.store.itauMax))
	}

	g.each(&st, s.Weight, g.store.add)
}

// Convolute implements Subgrid.
func (g *lagrange) Convolute(nodes Nodes, lumi Luminosity) (float64, error) {
	if lumi.isNil() {
		return 0, fmt.Errorf("Convolute: %w", ErrNilLuminosity)
	}
	if g.store.isEmpty() {
		return 0, nil
	}
	if nodes.X1 == nil && nodes.X2 == nil && nodes.Q2 == nil {
		nodes = g.nodes()
	} else if err := g.checkNodes(nodes); err != nil {
		return 0, fmt.Errorf("Convolute: %w", err)
	}

	sum := 0.0
	for itau := g.store.itauMin; itau < g.store.itauMax; itau++ {
		row := g.store.row(itau)
		for iy1 := 0; iy1 < g.store.ny1; iy1++ {
			for iy2 := 0; iy2 < g.store.ny2; iy2++ {
				sigma := row[iy1*g.store.ny2+iy2]
				if sigma == 0 {
					continue
				}
				sum += g.cellValue(sigma, iy1, iy2, itau, nodes, lumi)
			}
		}
	}

	return sum, nil
}

// cellValue is σ·L(cell), times w(x1)·w(x2) when reweighting.
func (l *layout) cellValue(sigma float64, iy1, iy2, itau int, nodes Nodes, lumi Luminosity) float64 {
	var value float64
	if lumi.Index != nil {
		value = sigma * lumi.Index(iy1, iy2, itau)
	} else {
		value = sigma * lumi.Value(nodes.X1[iy1], nodes.X2[iy2], nodes.Q2[itau])
	}
	if l.reweight {
		value *= weightfun(nodes.X1[iy1]) * weightfun(nodes.X2[iy2])
	}

	return value
}

// Scale implements Subgrid.
func (g *lagrange) Scale(factor float64) {
	if factor == 0 && !g.store.isEmpty() {
		g.log.Debug("subgrid storage dropped by zero scale")
	}
	g.store.scale(factor)
}

// IsEmpty implements Subgrid.
func (g *lagrange) IsEmpty() bool {
	return g.store.isEmpty()
}

// Nodes implements Subgrid.
func (g *lagrange) Nodes() Nodes {
	return g.nodes()
}

// WindowBounds implements Subgrid.
func (g *lagrange) WindowBounds() (int, int) {
	return g.store.itauMin, g.store.itauMax
}

// ExportSlice implements Subgrid.
func (g *lagrange) ExportSlice(iq2 int, out []float64) error {
	if g.store.isEmpty() {
		return fmt.Errorf("ExportSlice(%d): %w", iq2, ErrEmptySubgrid)
	}
	if iq2 < g.store.itauMin || iq2 >= g.store.itauMax {
		return fmt.Errorf("ExportSlice(%d): window [%d,%d): %w", iq2, g.store.itauMin, g.store.itauMax, ErrOutOfRange)
	}
	if len(out) != g.plane() {
		return fmt.Errorf("ExportSlice: len(out)=%d, want %d: %w", len(out), g.plane(), ErrBufferSize)
	}

	gx1, gx2 := g.exportSlices()
	row := g.store.row(iq2)
	for i := range out {
		ix1, ix2 := i/g.x2.n, i%g.x2.n
		out[i] = row[i] * gx1[ix1] * gx2[ix2]
	}

	return nil
}

// mergeDense adds o into g and empties o. The pair was checked by CanMerge.
func (g *lagrange) mergeDense(o *lagrange) {
	if g.store.isEmpty() && !o.store.isEmpty() {
		g.log.Debug("subgrid merge took over storage",
			zap.Int("itaumin", o.store.itauMin), zap.Int("itaumax", o.store.itauMax))
	}
	g.store.mergeFrom(&o.store)
}

func (*lagrange) sealed() {}

// LagrangeV1 is dense windowed storage whose two momentum-fraction axes are
// one and the same (Params.X1; Params.X2 is ignored).
type LagrangeV1 struct {
	lagrange
}

// NewLagrangeV1 builds an empty LagrangeV1. Errors wrap ErrInvalidParams.
func NewLagrangeV1(p Params, opts ...Option) (*LagrangeV1, error) {
	p.X2 = p.X1
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("NewLagrangeV1: %w", err)
	}

	return &LagrangeV1{lagrange: newLagrange(newLayout(p), gatherOptions(opts...))}, nil
}

// Kind implements Subgrid.
func (*LagrangeV1) Kind() Kind { return KindLagrangeV1 }

// Merge implements Subgrid. Only another LagrangeV1 can be merged in.
func (g *LagrangeV1) Merge(other Subgrid) error {
	if err := CanMerge(g, other); err != nil {
		return err
	}
	g.mergeDense(&other.(*LagrangeV1).lagrange)

	return nil
}

// LagrangeV2 is dense windowed storage with independent x1 and x2 axes.
type LagrangeV2 struct {
	lagrange
}

// NewLagrangeV2 builds an empty LagrangeV2. Errors wrap ErrInvalidParams.
func NewLagrangeV2(p Params, opts ...Option) (*LagrangeV2, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("NewLagrangeV2: %w", err)
	}

	return &LagrangeV2{lagrange: newLagrange(newLayout(p), gatherOptions(opts...))}, nil
}

// Kind implements Subgrid.
func (*LagrangeV2) Kind() Kind { return KindLagrangeV2 }

// Merge implements Subgrid. Only another LagrangeV2 can be merged in.
func (g *LagrangeV2) Merge(other Subgrid) error {
	if err := CanMerge(g, other); err != nil {
		return err
	}
	g.mergeDense(&other.(*LagrangeV2).lagrange)

	return nil
}
