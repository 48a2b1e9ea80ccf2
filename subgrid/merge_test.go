// SPDX-License-Identifier: MIT

package subgrid_test

import (
	"testing"

	"github.com/katalvlaran/pinegrid/subgrid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// parts fills three subgrids of kind k from consecutive slices of ss.
func parts(tb testing.TB, k subgrid.Kind, ss []subgrid.Sample) (a, b, c subgrid.Subgrid) {
	tb.Helper()
	third := len(ss) / 3
	a, b, c = mustNew(tb, k, subgrid.DefaultParams()), mustNew(tb, k, subgrid.DefaultParams()), mustNew(tb, k, subgrid.DefaultParams())
	fillAll(a, ss[:third])
	fillAll(b, ss[third:2*third])
	fillAll(c, ss[2*third:])

	return a, b, c
}

// TestMerge_EqualsSingleFill checks that merging partial runs reproduces a
// single run, in either order and grouping.
func TestMerge_EqualsSingleFill(t *testing.T) {
	ss := samples(5, 600)
	for _, k := range allKinds {
		whole := mustNew(t, k, subgrid.DefaultParams())
		fillAll(whole, ss)
		want := convolute(t, whole)

		// (a+b)+c
		a, b, c := parts(t, k, ss)
		require.NoError(t, a.Merge(b))
		require.NoError(t, a.Merge(c))
		assert.InEpsilon(t, want, convolute(t, a), 1e-12, "%v left fold", k)
		assert.True(t, b.IsEmpty() && c.IsEmpty(), "%v: merged operands are emptied", k)

		// c+(b+a)
		a, b, c = parts(t, k, ss)
		require.NoError(t, b.Merge(a))
		require.NoError(t, c.Merge(b))
		assert.InEpsilon(t, want, convolute(t, c), 1e-12, "%v right fold", k)

		lo, hi := whole.WindowBounds()
		clo, chi := c.WindowBounds()
		assert.Equal(t, [2]int{lo, hi}, [2]int{clo, chi}, "%v: window is the union", k)
	}
}

// TestMerge_IntoEmptyTakesOver moves the operand's storage wholesale.
func TestMerge_IntoEmptyTakesOver(t *testing.T) {
	ss := samples(6, 50)
	for _, k := range allKinds {
		src := mustNew(t, k, subgrid.DefaultParams())
		fillAll(src, ss)
		want := convolute(t, src)
		lo, hi := src.WindowBounds()

		dst := mustNew(t, k, subgrid.DefaultParams())
		require.NoError(t, dst.Merge(src))
		assert.Equal(t, want, convolute(t, dst), "%v", k)
		dlo, dhi := dst.WindowBounds()
		assert.Equal(t, [2]int{lo, hi}, [2]int{dlo, dhi}, "%v", k)
		assert.True(t, src.IsEmpty(), "%v", k)

		// merging an empty operand is a no-op
		require.NoError(t, dst.Merge(mustNew(t, k, subgrid.DefaultParams())))
		assert.Equal(t, want, convolute(t, dst), "%v", k)
	}
}

// TestMerge_DenseIntoSparse accepts either dense strategy into sparse storage.
func TestMerge_DenseIntoSparse(t *testing.T) {
	ss := samples(7, 300)
	for _, k := range []subgrid.Kind{subgrid.KindLagrangeV1, subgrid.KindLagrangeV2} {
		dense := mustNew(t, k, subgrid.DefaultParams())
		fillAll(dense, ss)
		want := convolute(t, dense)
		lo, hi := dense.WindowBounds()

		sp := mustNew(t, subgrid.KindLagrangeSparse, subgrid.DefaultParams())
		require.NoError(t, sp.Merge(dense))
		assert.Equal(t, want, convolute(t, sp), "%v into sparse", k)
		slo, shi := sp.WindowBounds()
		assert.Equal(t, [2]int{lo, hi}, [2]int{slo, shi})
		assert.True(t, dense.IsEmpty())
	}
}

// TestMerge_Rejected covers every refused combination.
func TestMerge_Rejected(t *testing.T) {
	p := subgrid.DefaultParams()
	v1 := mustNew(t, subgrid.KindLagrangeV1, p)
	v2 := mustNew(t, subgrid.KindLagrangeV2, p)
	sp := mustNew(t, subgrid.KindLagrangeSparse, p)
	nt := mustNew(t, subgrid.KindNtuple, p)

	unsupported := []struct{ dst, src subgrid.Subgrid }{
		{v1, v2}, {v1, sp}, {v1, nt},
		{v2, v1}, {v2, sp}, {v2, nt},
		{sp, nt},
		{nt, v1}, {nt, v2}, {nt, sp},
		{v1, nil}, {sp, nil}, {nt, nil},
	}
	for _, tc := range unsupported {
		require.ErrorIs(t, tc.dst.Merge(tc.src), subgrid.ErrUnsupportedMerge, "%v <- %v", tc.dst.Kind(), tc.src)
	}

	for _, sg := range []subgrid.Subgrid{v1, v2, sp, nt} {
		sg.Fill(subgrid.Sample{X1: 0.1, X2: 0.2, Q2: 1e3, Weight: 1})
		require.ErrorIs(t, sg.Merge(sg), subgrid.ErrSelfMerge, "%v", sg.Kind())
		assert.False(t, sg.IsEmpty(), "%v: failed merge keeps data", sg.Kind())
	}

	other := subgrid.DefaultParams()
	other.Q2.Bins = 30
	for _, tc := range []struct{ dst, src subgrid.Kind }{
		{subgrid.KindLagrangeV1, subgrid.KindLagrangeV1},
		{subgrid.KindLagrangeV2, subgrid.KindLagrangeV2},
		{subgrid.KindLagrangeSparse, subgrid.KindLagrangeSparse},
		{subgrid.KindLagrangeSparse, subgrid.KindLagrangeV2},
	} {
		dst := mustNew(t, tc.dst, p)
		src := mustNew(t, tc.src, other)
		src.Fill(subgrid.Sample{X1: 0.1, X2: 0.2, Q2: 1e3, Weight: 1})
		require.ErrorIs(t, dst.Merge(src), subgrid.ErrIncompatibleParams, "%v <- %v", tc.dst, tc.src)
		assert.False(t, src.IsEmpty(), "rejected operand is untouched")
	}
}

// TestMerge_TypedNilOperand rejects typed nil pointers instead of
// dereferencing them.
func TestMerge_TypedNilOperand(t *testing.T) {
	p := subgrid.DefaultParams()
	nils := []subgrid.Subgrid{
		(*subgrid.LagrangeV1)(nil),
		(*subgrid.LagrangeV2)(nil),
		(*subgrid.LagrangeSparse)(nil),
		(*subgrid.Ntuple)(nil),
	}
	for _, k := range allKinds {
		dst := mustNew(t, k, p)
		dst.Fill(subgrid.Sample{X1: 0.1, X2: 0.2, Q2: 1e3, Weight: 1})
		for _, src := range nils {
			require.NotPanics(t, func() {
				assert.ErrorIs(t, dst.Merge(src), subgrid.ErrUnsupportedMerge, "%v <- %T", k, src)
			})
			assert.ErrorIs(t, subgrid.CanMerge(dst, src), subgrid.ErrUnsupportedMerge)
		}
		assert.False(t, dst.IsEmpty())
	}
}

// TestCanMerge_AgreesWithMerge checks every kind pair: CanMerge leaves both
// operands untouched and predicts exactly what Merge then does.
func TestCanMerge_AgreesWithMerge(t *testing.T) {
	p := subgrid.DefaultParams()
	s := subgrid.Sample{X1: 0.1, X2: 0.2, Q2: 1e3, Weight: 1}
	for _, dk := range allKinds {
		for _, sk := range allKinds {
			dst, src := mustNew(t, dk, p), mustNew(t, sk, p)
			dst.Fill(s)
			src.Fill(s)

			predicted := subgrid.CanMerge(dst, src)
			assert.False(t, src.IsEmpty(), "%v <- %v: CanMerge consumed the operand", dk, sk)

			err := dst.Merge(src)
			if predicted == nil {
				assert.NoError(t, err, "%v <- %v", dk, sk)
				assert.True(t, src.IsEmpty(), "%v <- %v", dk, sk)
				continue
			}
			assert.ErrorIs(t, err, subgrid.ErrUnsupportedMerge, "%v <- %v", dk, sk)
			assert.ErrorIs(t, predicted, subgrid.ErrUnsupportedMerge, "%v <- %v", dk, sk)
			assert.False(t, src.IsEmpty(), "%v <- %v: rejected operand is untouched", dk, sk)
		}
	}
}

// TestCheckLayout accepts subgrids built from p and rejects foreign ones.
func TestCheckLayout(t *testing.T) {
	p := subgrid.DefaultParams()
	p.X2.Bins = 40
	other := p
	other.Q2.Bins = 30

	for _, k := range allKinds {
		assert.NoError(t, subgrid.CheckLayout(mustNew(t, k, p), p), "%v", k)
	}
	for _, k := range nodeKinds {
		assert.ErrorIs(t, subgrid.CheckLayout(mustNew(t, k, other), p), subgrid.ErrIncompatibleParams, "%v", k)
	}
	assert.NoError(t, subgrid.CheckLayout(mustNew(t, subgrid.KindNtuple, other), p), "raw samples have no layout")
	assert.ErrorIs(t, subgrid.CheckLayout(nil, p), subgrid.ErrIncompatibleParams)
	assert.ErrorIs(t, subgrid.CheckLayout((*subgrid.LagrangeV2)(nil), p), subgrid.ErrIncompatibleParams)
}
