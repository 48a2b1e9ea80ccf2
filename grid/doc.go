// SPDX-License-Identifier: MIT

// Package grid is a container of subgrids indexed by perturbative order,
// observable bin and luminosity channel.
//
// 🚀 What it does
//
//	A Monte-Carlo integrator hands each weighted event to Fill together
//	with the value of the binned observable. The grid picks the bin,
//	routes the sample to the subgrid of (order, bin, channel) and leaves
//	the interpolation to package subgrid. Afterwards Convolute folds the
//	stored weights with any pair of parton distributions and any strong
//	coupling, returning one cross section per bin, divided by bin width.
//
// ✨ Features
//
//   - Bin lookup on strictly increasing limits; out-of-range values are dropped.
//   - FillEvents fills every channel on its own goroutine (errgroup).
//   - Scale variations through ξ_R and ξ_F in Convolute.
//   - Merge of partial runs, Scale, ScaleByOrder, Optimize.
//   - Write/Read: versioned gzip+gob framing around subgrid.MarshalBinary.
//
// ⚙️ Usage
//
//	g, err := grid.New(lumis, orders, limits, subgrid.DefaultParams(), subgrid.KindLagrangeV2)
//	if err != nil { ... }
//	_ = g.Fill(0, yll, 0, subgrid.Sample{X1: x1, X2: x2, Q2: q2, Weight: w})
//	xs, err := g.Convolute(xfx, xfx, alphas, grid.Mask{}, 1, 1)
//
// Concurrency: a Grid is not safe for concurrent use. FillEvents is the
// only method that spawns goroutines, and it returns after all of them.
package grid
