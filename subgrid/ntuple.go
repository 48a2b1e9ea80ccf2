// SPDX-License-Identifier: MIT

package subgrid

import (
	"fmt"

	"go.uber.org/zap"
)

// Ntuple keeps every sample verbatim. It has no interpolation error and
// unbounded memory; it exists to cross-check the node-based strategies.
// Only a value-based Luminosity can be convoluted with it, and it has no
// node grid to export.
type Ntuple struct {
	samples []Sample
	log     *zap.Logger
}

// NewNtuple builds an empty Ntuple.
func NewNtuple(opts ...Option) *Ntuple {
	return &Ntuple{log: gatherOptions(opts...).logger}
}

// Kind implements Subgrid.
func (*Ntuple) Kind() Kind { return KindNtuple }

// Fill implements Subgrid. Nothing is range-checked.
func (g *Ntuple) Fill(s Sample) {
	g.samples = append(g.samples, s)
}

// Samples returns the stored samples; the slice must not be modified.
func (g *Ntuple) Samples() []Sample {
	return g.samples
}

// Convolute implements Subgrid as Σ weight·L(x1, x2, q2). nodes is ignored.
func (g *Ntuple) Convolute(_ Nodes, lumi Luminosity) (float64, error) {
	if lumi.isNil() {
		return 0, fmt.Errorf("Convolute: %w", ErrNilLuminosity)
	}
	if lumi.Value == nil {
		return 0, fmt.Errorf("Convolute: index luminosity on %v: %w", g.Kind(), ErrLuminosityUnsupported)
	}

	sum := 0.0
	for _, s := range g.samples {
		sum += s.Weight * lumi.Value(s.X1, s.X2, s.Q2)
	}

	return sum, nil
}

// Merge implements Subgrid. Only another Ntuple can be merged in; its
// samples are appended after the receiver's.
func (g *Ntuple) Merge(other Subgrid) error {
	if err := CanMerge(g, other); err != nil {
		return err
	}
	o := other.(*Ntuple)
	if g.samples == nil {
		g.samples = o.samples
	} else {
		g.samples = append(g.samples, o.samples...)
	}
	o.samples = nil

	return nil
}

// Scale implements Subgrid.
func (g *Ntuple) Scale(factor float64) {
	if factor == 0 {
		if g.samples != nil {
			g.log.Debug("subgrid storage dropped by zero scale", zap.Int("samples", len(g.samples)))
		}
		g.samples = nil
		return
	}
	for i := range g.samples {
		g.samples[i].Weight *= factor
	}
}

// IsEmpty implements Subgrid.
func (g *Ntuple) IsEmpty() bool {
	return len(g.samples) == 0
}

// Nodes implements Subgrid; raw samples have no nodes.
func (*Ntuple) Nodes() Nodes {
	return Nodes{}
}

// WindowBounds implements Subgrid; always the empty window.
func (*Ntuple) WindowBounds() (int, int) {
	return 0, 0
}

// ExportSlice implements Subgrid; always ErrNoNodeGrid.
func (g *Ntuple) ExportSlice(iq2 int, _ []float64) error {
	return fmt.Errorf("ExportSlice(%d) on %v: %w", iq2, g.Kind(), ErrNoNodeGrid)
}

func (*Ntuple) sealed() {}
