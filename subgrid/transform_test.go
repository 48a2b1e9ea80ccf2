// SPDX-License-Identifier: MIT

package subgrid_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/pinegrid/subgrid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestTransform_XRoundTrip checks fx(fy(x)) == x within 1e-10 over many decades.
func TestTransform_XRoundTrip(t *testing.T) {
	for e := -9.0; e < 0; e += 0.25 {
		x := math.Pow(10, e)
		assert.InDelta(t, x, subgrid.Fx(subgrid.Fy(x)), 1e-10, "x=%g", x)
	}
	for _, x := range []float64{0.5, 0.9, 0.99, 0.999999, 1} {
		assert.InDelta(t, x, subgrid.Fx(subgrid.Fy(x)), 1e-10, "x=%g", x)
	}
}

// TestTransform_YMonotone verifies fy decreases with x, so small x maps to large y.
func TestTransform_YMonotone(t *testing.T) {
	prev := math.Inf(1)
	for e := -8.0; e <= 0; e += 0.5 {
		y := subgrid.Fy(math.Pow(10, e))
		require.Less(t, y, prev, "fy must decrease at x=1e%g", e)
		prev = y
	}
	assert.Equal(t, 0.0, subgrid.Fy(1), "fy(1) is the origin")
}

// TestTransform_Q2RoundTrip checks the closed-form τ inverse.
func TestTransform_Q2RoundTrip(t *testing.T) {
	for _, q2 := range []float64{0.1, 1, 10, 8100, 1e4, 1e6, 1e8} {
		assert.InEpsilon(t, q2, subgrid.Fq2(subgrid.Ftau(q2)), 1e-12, "q2=%g", q2)
	}
}

// TestTransform_FxPanicsWithoutConvergence documents the fatal path.
func TestTransform_FxPanicsWithoutConvergence(t *testing.T) {
	assert.Panics(t, func() { subgrid.Fx(math.NaN()) })
}

// TestWeightfun checks the reweighting function at known points.
func TestWeightfun(t *testing.T) {
	assert.Equal(t, 0.0, subgrid.Weightfun(0))
	assert.InEpsilon(t, math.Pow(math.Sqrt(0.5)/(1-0.495), 3), subgrid.Weightfun(0.5), 1e-15)
	assert.Greater(t, subgrid.Weightfun(0.9), subgrid.Weightfun(0.1), "w grows with x")
}
