// SPDX-License-Identifier: MIT

package subgrid_test

import (
	"testing"

	"github.com/katalvlaran/pinegrid/subgrid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestOptimize_PreservesConvolute converts every strategy and compares bits.
func TestOptimize_PreservesConvolute(t *testing.T) {
	ss := samples(8, 400)
	for _, k := range allKinds {
		sg := mustNew(t, k, subgrid.DefaultParams())
		fillAll(sg, ss)
		want := convolute(t, sg)
		lo, hi := sg.WindowBounds()

		opt, err := subgrid.Optimize(sg)
		require.NoError(t, err)
		assert.Equal(t, want, convolute(t, opt), "%v", k)
		olo, ohi := opt.WindowBounds()
		assert.Equal(t, [2]int{lo, hi}, [2]int{olo, ohi}, "%v", k)

		switch k {
		case subgrid.KindLagrangeV1, subgrid.KindLagrangeV2, subgrid.KindLagrangeSparse:
			assert.Equal(t, subgrid.KindLagrangeSparse, opt.Kind())
		case subgrid.KindNtuple:
			assert.Same(t, sg, opt, "raw samples stay as they are")
		}
	}
}

// TestOptimize_DenseInputUntouched keeps the source usable after conversion.
func TestOptimize_DenseInputUntouched(t *testing.T) {
	sg := mustNew(t, subgrid.KindLagrangeV2, subgrid.DefaultParams())
	fillAll(sg, samples(9, 100))
	want := convolute(t, sg)

	_, err := subgrid.Optimize(sg)
	require.NoError(t, err)
	assert.Equal(t, want, convolute(t, sg))
}

// TestOptimize_PrunesZeros removes cells cancelled by opposite weights.
func TestOptimize_PrunesZeros(t *testing.T) {
	s := subgrid.Sample{X1: 0.3, X2: 0.05, Q2: 5e3, Weight: 1}
	sg, err := subgrid.NewLagrangeSparse(subgrid.DefaultParams())
	require.NoError(t, err)
	sg.Fill(s)
	require.Positive(t, sg.Len())

	s.Weight = -1
	sg.Fill(s)
	opt, err := subgrid.Optimize(sg)
	require.NoError(t, err)
	assert.Zero(t, opt.(*subgrid.LagrangeSparse).Len(), "x + (−x) is exactly zero")
}

// TestOptimize_Nil rejects a nil subgrid.
func TestOptimize_Nil(t *testing.T) {
	_, err := subgrid.Optimize(nil)
	require.ErrorIs(t, err, subgrid.ErrUnknownKind)
}
