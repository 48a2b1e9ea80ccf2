// SPDX-License-Identifier: MIT

package subgrid

// Test bridge: exposes unexported transforms and storage cells to
// subgrid_test without widening the production API.

var (
	Fy        = fy
	Fx        = fx
	Ftau      = ftau
	Fq2       = fq2
	Weightfun = weightfun
)

// CellAt returns the stored weight of (itau, iy1, iy2) and whether the cell
// is materialised.
func CellAt(sg Subgrid, itau, iy1, iy2 int) (float64, bool) {
	switch g := sg.(type) {
	case *LagrangeV1:
		return g.cellAt(itau, iy1, iy2)
	case *LagrangeV2:
		return g.cellAt(itau, iy1, iy2)
	case *LagrangeSparse:
		v, ok := g.entries[g.key(itau, iy1, iy2)]
		return v, ok
	default:
		return 0, false
	}
}

func (g *lagrange) cellAt(itau, iy1, iy2 int) (float64, bool) {
	if g.store.isEmpty() || itau < g.store.itauMin || itau >= g.store.itauMax {
		return 0, false
	}

	return g.store.data[g.store.indexOf(itau, iy1, iy2)], true
}

// ExportFactorsCached reports whether the ExportSlice factors of sg's layout
// have been computed.
func ExportFactorsCached(sg Subgrid) bool {
	l, ok := layoutOf(sg)
	if !ok {
		return false
	}
	_, cached := exportCache.Load(*l)

	return cached
}
