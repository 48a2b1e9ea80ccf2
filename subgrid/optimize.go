// SPDX-License-Identifier: MIT

package subgrid

import (
	"fmt"

	"go.uber.org/zap"
)

// Optimize returns the most compact equivalent representation of sg.
//
// Conversions:
//   - LagrangeV1, LagrangeV2 → LagrangeSparse holding the non-zero nodes
//     (sg itself is left untouched)
//   - LagrangeSparse → the same value with zero-weight nodes pruned
//   - Ntuple → unchanged (raw samples cannot be compacted losslessly)
//
// Convolute gives bit-identical results before and after, because the
// sparse strategy visits nodes in the dense order and skips the same
// zero cells. The window bounds are preserved.
//
// Complexity: O(window·ny1·ny2) for dense inputs.
func Optimize(sg Subgrid) (Subgrid, error) {
	switch g := sg.(type) {
	case *LagrangeV1:
		return sparseFrom(&g.lagrange), nil
	case *LagrangeV2:
		return sparseFrom(&g.lagrange), nil
	case *LagrangeSparse:
		g.prune()
		return g, nil
	case *Ntuple:
		return g, nil
	case nil:
		return nil, fmt.Errorf("Optimize(nil): %w", ErrUnknownKind)
	default:
		return nil, fmt.Errorf("Optimize(%T): %w", sg, ErrUnknownKind)
	}
}

func sparseFrom(d *lagrange) *LagrangeSparse {
	sp := &LagrangeSparse{layout: d.layout, log: d.log}
	sp.addDense(d)
	if !d.store.isEmpty() {
		// keep the dense window even when its edge rows hold only zeros
		sp.itauMin, sp.itauMax = d.store.itauMin, d.store.itauMax
		d.log.Debug("subgrid optimized to sparse storage",
			zap.Int("cells", len(d.store.data)), zap.Int("entries", len(sp.entries)))
	}

	return sp
}
