// SPDX-License-Identifier: MIT

// Package subgrid stores Monte-Carlo weights on Lagrange-interpolation grids
// so that one expensive partonic calculation can be convoluted again and
// again with any parton-distribution set.
//
// 🚀 What is a subgrid?
//
//	A subgrid accumulates samples (x1, x2, Q², weight) onto nodes of three
//	transformed axes:
//	  • y(x) = −ln x + 5(1−x)   for both momentum fractions
//	  • τ(Q²) = ln ln(Q²/0.0625) for the factorisation scale
//	Each sample is spread over an (order+1)³ stencil of nodes with Lagrange
//	basis weights. Later, Convolute multiplies every node with a caller
//	supplied luminosity and sums.
//
// ✨ Storage strategies (closed set, see Kind):
//   - LagrangeV1:     dense, one x axis shared by both partons
//   - LagrangeV2:     dense, independent x1/x2 axes
//   - LagrangeSparse: coordinate storage of non-zero nodes
//   - Ntuple:         every raw sample kept verbatim (no interpolation error)
//
// Dense strategies materialise only a window [itaumin, itaumax) of the
// scale axis; the momentum-fraction axes are always full width. The
// window grows lazily by reallocate-and-copy whenever a stencil falls
// outside it.
//
// ⚙️ Usage:
//
//	sg, err := subgrid.New(subgrid.KindLagrangeV2, subgrid.DefaultParams())
//	if err != nil {
//	  // handle ErrInvalidParams
//	}
//	sg.Fill(subgrid.Sample{X1: 0.1, X2: 0.2, Q2: 8100, Weight: 1})
//	sum, err := sg.Convolute(sg.Nodes(), subgrid.ValueLuminosity(lumi))
//
// Concurrency:
//
//	A subgrid has exactly one writer at a time (Fill, Merge, Scale).
//	Convolute, Nodes and ExportSlice are read-only. Independent subgrids
//	share no state and can be filled in parallel.
//
// Complexity:
//   - Fill:      O((order+1)³), at most one reallocation
//   - Convolute: O(window·ny1·ny2)
//   - Merge:     O(window·ny1·ny2)
package subgrid
