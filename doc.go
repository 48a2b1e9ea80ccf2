// SPDX-License-Identifier: MIT

// Package pinegrid precomputes PDF-independent interpolation grids from
// Monte-Carlo samples, so a partonic cross section can be re-convoluted
// with any parton distributions and coupling without rerunning the
// integration.
//
// 🚀 What is a grid?
//
//	Each weighted event (x1, x2, Q², w) is spread over the neighbouring
//	nodes of a 3-D Lagrange interpolation grid in transformed coordinates
//	y(x) = −ln x + 5(1−x) and τ(Q²) = ln ln(Q²/0.0625). Folding the node
//	weights with a luminosity later reproduces the Monte-Carlo sum up to
//	the interpolation error.
//
// ✨ Layout
//
//	subgrid/           : transforms, Lagrange basis, windowed storage and the
//	                     four storage strategies (dense v1/v2, sparse, raw samples)
//	grid/              : subgrids indexed by order, bin and channel; PDF
//	                     convolution, merge, scaling, file format
//	store/             : SQLite persistence of partial runs
//	internal/drellyan/ : LO γγ Drell–Yan event generator used as a workload
//	cmd/pinegrid/      : developer CLI
//
// Quick start:
//
//	sg, _ := subgrid.New(subgrid.KindLagrangeV2, subgrid.DefaultParams())
//	sg.Fill(subgrid.Sample{X1: 0.1, X2: 0.2, Q2: 8100, Weight: 1})
//	sigma, _ := sg.Convolute(subgrid.Nodes{}, subgrid.ValueLuminosity(lumi))
//
//	go get github.com/katalvlaran/pinegrid
package pinegrid
