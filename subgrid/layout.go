// SPDX-License-Identifier: MIT

package subgrid

import (
	"fmt"
	"math"
	"sync"
)

// axis is one interpolation axis in transformed coordinates.
type axis struct {
	n     int     // node count
	order int     // interpolation order
	min   float64 // transformed coordinate of node 0
	max   float64 // transformed coordinate of node n-1
}

// xAxis builds the y axis of a momentum fraction. y decreases with x, so
// the physical maximum becomes the transformed minimum.
func xAxis(p AxisParams) axis {
	return axis{n: p.Bins, order: p.Order, min: fy(p.Max), max: fy(p.Min)}
}

// q2Axis builds the τ axis of the scale.
func q2Axis(p AxisParams) axis {
	return axis{n: p.Bins, order: p.Order, min: ftau(p.Min), max: ftau(p.Max)}
}

func (a axis) delta() float64 {
	return (a.max - a.min) / float64(a.n-1)
}

// node returns the transformed coordinate of node i.
func (a axis) node(i int) float64 {
	return math.FMA(float64(i), a.delta(), a.min)
}

func (a axis) contains(c float64) bool {
	return c >= a.min && c <= a.max
}

// stencil picks the first node k of the (order+1)-node stencil around c and
// returns the fractional offset of c from node k in units of the spacing:
//
//	k = clamp(⌊(c−min)/Δ − ⌊order/2⌋⌋, 0, n−1−order)
func (a axis) stencil(c float64) (k int, u float64) {
	pos := (c-a.min)/a.delta() - float64(a.order/2)
	if pos > 0 {
		k = int(pos) // truncation equals floor for pos > 0
	}
	if limit := a.n - 1 - a.order; k > limit {
		k = limit
	}
	u = (c - a.node(k)) / a.delta()

	return k, u
}

// weights evaluates the Lagrange weights of the whole stencil at u.
func (a axis) weights(u float64) (w [MaxOrder + 1]float64) {
	for i := 0; i <= a.order; i++ {
		w[i] = LagrangeWeight(i, a.order, u)
	}

	return w
}

// layout is the immutable geometry shared by every node-based strategy.
type layout struct {
	q2       axis
	x1       axis
	x2       axis
	reweight bool
}

func newLayout(p Params) layout {
	return layout{q2: q2Axis(p.Q2), x1: xAxis(p.X1), x2: xAxis(p.X2), reweight: p.Reweight}
}

// plane is the number of cells in one scale row (ny1·ny2).
func (l *layout) plane() int {
	return l.x1.n * l.x2.n
}

// stencil is the resolved interpolation footprint of one sample.
type stencil struct {
	k1, k2, k3 int                  // first node along x1, x2, τ
	w1, w2     [MaxOrder + 1]float64 // basis weights along x1, x2
	u3         float64              // fractional τ offset; τ weights are evaluated per row
	factor     float64              // reweighting correction (1 when disabled)
}

// locate transforms s and resolves its stencil. ok is false when any
// coordinate lies outside the static axis ranges; such samples are dropped.
func (l *layout) locate(s Sample) (st stencil, ok bool) {
	y1 := fy(s.X1)
	y2 := fy(s.X2)
	tau := ftau(s.Q2)
	if !l.x1.contains(y1) || !l.x2.contains(y2) || !l.q2.contains(tau) {
		return st, false
	}

	var u1, u2 float64
	st.k1, u1 = l.x1.stencil(y1)
	st.k2, u2 = l.x2.stencil(y2)
	st.k3, st.u3 = l.q2.stencil(tau)
	st.w1 = l.x1.weights(u1)
	st.w2 = l.x2.weights(u2)

	st.factor = 1.0
	if l.reweight {
		st.factor = 1.0 / (weightfun(s.X1) * weightfun(s.X2))
	}

	return st, true
}

// each visits every cell of the stencil with its fill weight
// factor·b1·b2·b3·weight. Cells are visited row by row along τ.
func (l *layout) each(st *stencil, weight float64, fn func(itau, iy1, iy2 int, v float64)) {
	for i3 := 0; i3 <= l.q2.order; i3++ {
		w3 := LagrangeWeight(i3, l.q2.order, st.u3)
		for i1 := 0; i1 <= l.x1.order; i1++ {
			for i2 := 0; i2 <= l.x2.order; i2++ {
				fn(st.k3+i3, st.k1+i1, st.k2+i2, st.factor*st.w1[i1]*st.w2[i2]*w3*weight)
			}
		}
	}
}

// nodes returns the inverse-transformed node coordinates of every axis.
func (l *layout) nodes() Nodes {
	return Nodes{X1: xNodes(l.x1), X2: xNodes(l.x2), Q2: q2Nodes(l.q2)}
}

func xNodes(a axis) []float64 {
	out := make([]float64, a.n)
	for i := range out {
		out[i] = fx(a.node(i))
	}

	return out
}

func q2Nodes(a axis) []float64 {
	out := make([]float64, a.n)
	for i := range out {
		out[i] = fq2(a.node(i))
	}

	return out
}

// checkNodes verifies that caller-supplied node coordinates fit the axes.
func (l *layout) checkNodes(n Nodes) error {
	if len(n.X1) != l.x1.n || len(n.X2) != l.x2.n || len(n.Q2) != l.q2.n {
		return fmt.Errorf("got (%d,%d,%d) nodes, want (%d,%d,%d): %w",
			len(n.X1), len(n.X2), len(n.Q2), l.x1.n, l.x2.n, l.q2.n, ErrNodesMismatch)
	}

	return nil
}

// exportFactors returns g(x) = (w(x) if reweight else 1)/x per node.
func (l *layout) exportFactors(xs []float64) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		w := 1.0
		if l.reweight {
			w = weightfun(x)
		}
		out[i] = w / x
	}

	return out
}

// exportCache maps a layout to its [g(x1 nodes), g(x2 nodes)]. Entries
// are never modified after insertion.
var exportCache sync.Map

// exportSlices returns the ExportSlice factors of l, inverting the x
// transforms only on the first call per layout.
func (l *layout) exportSlices() (gx1, gx2 []float64) {
	if v, ok := exportCache.Load(*l); ok {
		f := v.(*[2][]float64)
		return f[0], f[1]
	}
	f := &[2][]float64{l.exportFactors(xNodes(l.x1)), l.exportFactors(xNodes(l.x2))}
	v, _ := exportCache.LoadOrStore(*l, f)
	f = v.(*[2][]float64)

	return f[0], f[1]
}
