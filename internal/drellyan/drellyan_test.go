// SPDX-License-Identifier: MIT

package drellyan_test

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/katalvlaran/pinegrid/internal/drellyan"
	"github.com/katalvlaran/pinegrid/subgrid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestHadronicPSP_Kinematics checks momentum conservation and ranges.
func TestHadronicPSP_Kinematics(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for range 1000 {
		p := drellyan.HadronicPSP(rng, drellyan.MMin, drellyan.MMax)
		require.InEpsilon(t, p.S, -(p.T + p.U), 1e-12, "s + t + u = 0 for massless legs")
		require.InEpsilon(t, p.S, p.X1*p.X2*drellyan.MMax*drellyan.MMax, 1e-12)
		require.True(t, p.X1 > 0 && p.X1 <= 1 && p.X2 > 0 && p.X2 <= 1)
		require.GreaterOrEqual(t, p.S, drellyan.MMin*drellyan.MMin*(1-1e-12))
		require.Positive(t, p.Jacobian)
	}
}

// TestIntPhoto_Symmetric checks t ↔ u symmetry.
func TestIntPhoto_Symmetric(t *testing.T) {
	assert.Equal(t, drellyan.IntPhoto(100, -30, -70), drellyan.IntPhoto(100, -70, -30))
	assert.Positive(t, drellyan.IntPhoto(100, -30, -70))
}

// TestGenerate_EventsPassCuts verifies every event lies in the fiducial region.
func TestGenerate_EventsPassCuts(t *testing.T) {
	for _, dynamic := range []bool{false, true} {
		events := drellyan.NewGenerator(drellyan.DefaultSeed1, drellyan.DefaultSeed2, dynamic).Generate(20000)
		require.NotEmpty(t, events)
		for _, e := range events {
			assert.Zero(t, e.Order)
			assert.Zero(t, e.Lumi)
			assert.True(t, e.Observable >= 0 && e.Observable <= drellyan.YMax)
			assert.Positive(t, e.Sample.Weight)
			if dynamic {
				mll := math.Sqrt(e.Sample.Q2)
				assert.True(t, mll >= drellyan.MllLow && mll <= drellyan.MllHigh, "mll=%g", mll)
			} else {
				assert.Equal(t, drellyan.StaticQ2, e.Sample.Q2)
			}
		}
	}
}

// TestGenerate_Deterministic reproduces the stream from the seeds.
func TestGenerate_Deterministic(t *testing.T) {
	a := drellyan.NewGenerator(7, 11, true).Generate(5000)
	b := drellyan.NewGenerator(7, 11, true).Generate(5000)
	assert.Equal(t, a, b)

	c := drellyan.NewGenerator(8, 11, true).Generate(5000)
	assert.NotEqual(t, a, c)
}

// TestWorkload_Setup checks the workload grid definition.
func TestWorkload_Setup(t *testing.T) {
	limits := drellyan.BinLimits()
	require.Len(t, limits, 25)
	assert.Equal(t, 0.0, limits[0])
	assert.Equal(t, 2.4, limits[24])
	require.NoError(t, drellyan.Params().Validate())

	g, err := drellyan.NewGrid(subgrid.KindLagrangeV2)
	require.NoError(t, err)
	assert.Equal(t, 24, g.Bins())

	assert.Zero(t, drellyan.PhotonPDF(1, 0.1, 100))
	assert.Positive(t, drellyan.PhotonPDF(drellyan.PID, 0.1, 100))
}
