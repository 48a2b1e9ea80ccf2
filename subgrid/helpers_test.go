// SPDX-License-Identifier: MIT
// Package subgrid_test contains shared fixtures.
//
// Purpose:
//   • Deterministic sample streams and smooth luminosities.
//   • Constructors that fail the test instead of returning errors.

package subgrid_test

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/katalvlaran/pinegrid/subgrid"
	"github.com/stretchr/testify/require"
)

// nodeKinds are the strategies that interpolate onto a node grid.
var nodeKinds = []subgrid.Kind{
	subgrid.KindLagrangeV1,
	subgrid.KindLagrangeV2,
	subgrid.KindLagrangeSparse,
}

// allKinds adds the raw-sample strategy.
var allKinds = append(append([]subgrid.Kind(nil), nodeKinds...), subgrid.KindNtuple)

// mustNew builds a subgrid or fails the test.
func mustNew(tb testing.TB, kind subgrid.Kind, p subgrid.Params) subgrid.Subgrid {
	tb.Helper()
	sg, err := subgrid.New(kind, p)
	require.NoError(tb, err)

	return sg
}

// samples draws n log-uniform samples inside the default ranges:
// x ∈ [1e-4, 0.8], Q² ∈ [1e2, 1e4], weight ∈ [0.5, 1.5).
func samples(seed uint64, n int) []subgrid.Sample {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	logUniform := func(lo, hi float64) float64 {
		return math.Exp(math.Log(lo) + rng.Float64()*(math.Log(hi)-math.Log(lo)))
	}
	out := make([]subgrid.Sample, n)
	for i := range out {
		out[i] = subgrid.Sample{
			X1:     logUniform(1e-4, 0.8),
			X2:     logUniform(1e-4, 0.8),
			Q2:     logUniform(1e2, 1e4),
			Weight: 0.5 + rng.Float64(),
		}
	}

	return out
}

// fillAll pushes every sample into sg.
func fillAll(sg subgrid.Subgrid, ss []subgrid.Sample) {
	for _, s := range ss {
		sg.Fill(s)
	}
}

// toyLumi is smooth, positive and Q²-independent:
// L = (1−x1)³(1−x2)³ / (x1·x2).
func toyLumi(x1, x2, _ float64) float64 {
	return math.Pow(1-x1, 3) * math.Pow(1-x2, 3) / (x1 * x2)
}

// toy wraps toyLumi in the value form every strategy accepts.
var toy = subgrid.ValueLuminosity(toyLumi)

// convolute runs Convolute with the subgrid's own nodes or fails the test.
func convolute(tb testing.TB, sg subgrid.Subgrid) float64 {
	tb.Helper()
	v, err := sg.Convolute(subgrid.Nodes{}, toy)
	require.NoError(tb, err)

	return v
}
