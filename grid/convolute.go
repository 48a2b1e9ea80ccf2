// SPDX-License-Identifier: MIT

package grid

import (
	"fmt"
	"math"

	"github.com/katalvlaran/pinegrid/subgrid"
	"gonum.org/v1/gonum/floats"
)

// PDF returns x·f(x, q2) for parton pid.
type PDF func(pid int, x, q2 float64) float64

// Alphas returns the strong coupling at q2.
type Alphas func(q2 float64) float64

// Mask selects what Convolute evaluates. A nil slice selects everything.
type Mask struct {
	Orders []bool // one entry per order; false skips the order
	Bins   []int  // bins to compute, in output order
	Lumis  []bool // one entry per channel; false skips the channel
}

// Convolute returns one cross section per selected bin, divided by the
// bin width. xir and xif are the renormalisation and factorisation scale
// factors: PDFs are evaluated at xif²·Q² and αs at xir²·Q², and orders
// carrying ln(ξ²) powers contribute only when the matching ξ is not 1.
//
// Complexity: O(Σ stored cells) PDF evaluations, cached per node.
func (g *Grid) Convolute(xfx1, xfx2 PDF, alphas Alphas, mask Mask, xir, xif float64) ([]float64, error) {
	if err := g.checkMask(mask); err != nil {
		return nil, fmt.Errorf("Convolute: %w", err)
	}
	bins := mask.Bins
	if bins == nil {
		bins = make([]int, g.Bins())
		for i := range bins {
			bins[i] = i
		}
	}

	lnXiR2, lnXiF2 := math.Log(xir*xir), math.Log(xif*xif)
	out := make([]float64, len(bins))
	for ib, bin := range bins {
		for io, o := range g.orders {
			if (mask.Orders != nil && !mask.Orders[io]) ||
				(o.LogXiR > 0 && xir == 1) || (o.LogXiF > 0 && xif == 1) {
				continue
			}
			logs := math.Pow(lnXiR2, float64(o.LogXiR)) * math.Pow(lnXiF2, float64(o.LogXiF))
			for il, entry := range g.lumis {
				if mask.Lumis != nil && !mask.Lumis[il] {
					continue
				}
				sg := g.subgrids[g.slot(io, bin, il)]
				if sg.IsEmpty() {
					continue
				}
				lc := newLumiCache(entry, o, xfx1, xfx2, alphas, xir*xir, xif*xif)
				v, err := sg.Convolute(sg.Nodes(), lc.luminosity(sg))
				if err != nil {
					return nil, fmt.Errorf("Convolute: order %d bin %d channel %d: %w", io, bin, il, err)
				}
				out[ib] += logs * v
			}
		}
	}

	widths := make([]float64, len(bins))
	for i, bin := range bins {
		widths[i] = g.limits[bin+1] - g.limits[bin]
	}
	floats.Div(out, widths)

	return out, nil
}

func (g *Grid) checkMask(m Mask) error {
	if m.Orders != nil && len(m.Orders) != len(g.orders) {
		return fmt.Errorf("%d order flags for %d orders: %w", len(m.Orders), len(g.orders), ErrMaskLength)
	}
	if m.Lumis != nil && len(m.Lumis) != len(g.lumis) {
		return fmt.Errorf("%d channel flags for %d channels: %w", len(m.Lumis), len(g.lumis), ErrMaskLength)
	}
	for _, b := range m.Bins {
		if b < 0 || b >= g.Bins() {
			return fmt.Errorf("bin %d of %d: %w", b, g.Bins(), ErrOutOfRange)
		}
	}

	return nil
}

// lumiCache evaluates one channel at one order, memoising PDF and αs
// values per node of the subgrid being convoluted.
type lumiCache struct {
	entry      LumiEntry
	order      Order
	xfx1, xfx2 PDF
	alphas     Alphas
	xir2, xif2 float64
}

func newLumiCache(entry LumiEntry, o Order, xfx1, xfx2 PDF, alphas Alphas, xir2, xif2 float64) *lumiCache {
	return &lumiCache{entry: entry, order: o, xfx1: xfx1, xfx2: xfx2, alphas: alphas, xir2: xir2, xif2: xif2}
}

// value is Σ_terms f·xfx1·xfx2/(x1·x2) · αs^Alphas at physical coordinates.
func (c *lumiCache) value(x1, x2, q2 float64) float64 {
	sum := 0.0
	for _, t := range c.entry.Terms {
		sum += t.Factor * c.xfx1(t.PID1, x1, c.xif2*q2) * c.xfx2(t.PID2, x2, c.xif2*q2)
	}

	return sum / (x1 * x2) * math.Pow(c.alphas(c.xir2*q2), float64(c.order.Alphas))
}

// luminosity picks the form sg accepts. Node grids get the index form,
// which memoises every xfx per (pid, x node, Q² node) and αs per Q² node;
// raw samples get the value form.
func (c *lumiCache) luminosity(sg subgrid.Subgrid) subgrid.Luminosity {
	if sg.Kind() == subgrid.KindNtuple {
		return subgrid.ValueLuminosity(c.value)
	}

	n := sg.Nodes()
	pdf1 := make(map[[3]int]float64)
	pdf2 := make(map[[3]int]float64)
	as := make(map[int]float64)
	memo := func(m map[[3]int]float64, xfx PDF, pid, ix int, x float64, iq2 int) float64 {
		key := [3]int{pid, ix, iq2}
		v, ok := m[key]
		if !ok {
			v = xfx(pid, x, c.xif2*n.Q2[iq2])
			m[key] = v
		}
		return v
	}

	return subgrid.IndexLuminosity(func(ix1, ix2, iq2 int) float64 {
		x1, x2 := n.X1[ix1], n.X2[ix2]
		sum := 0.0
		for _, t := range c.entry.Terms {
			sum += t.Factor * memo(pdf1, c.xfx1, t.PID1, ix1, x1, iq2) * memo(pdf2, c.xfx2, t.PID2, ix2, x2, iq2)
		}
		a, ok := as[iq2]
		if !ok {
			a = math.Pow(c.alphas(c.xir2*n.Q2[iq2]), float64(c.order.Alphas))
			as[iq2] = a
		}
		return sum / (x1 * x2) * a
	})
}
