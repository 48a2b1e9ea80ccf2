// SPDX-License-Identifier: MIT

package subgrid_test

import (
	"bytes"
	"compress/gzip"
	"encoding/gob"
	"testing"

	"github.com/katalvlaran/pinegrid/subgrid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// TestMarshal_RoundTrip checks kind, window, convolute bits and byte-stable
// re-encoding for every strategy, filled and empty.
func TestMarshal_RoundTrip(t *testing.T) {
	ss := samples(10, 250)
	for _, k := range allKinds {
		for _, filled := range []bool{true, false} {
			sg := mustNew(t, k, subgrid.DefaultParams())
			if filled {
				fillAll(sg, ss)
			}
			data, err := sg.MarshalBinary()
			require.NoError(t, err)

			back, err := subgrid.Unmarshal(data, subgrid.WithLogger(zaptest.NewLogger(t)))
			require.NoError(t, err)
			assert.Equal(t, k, back.Kind())
			assert.Equal(t, sg.IsEmpty(), back.IsEmpty(), "%v filled=%v", k, filled)
			assert.Equal(t, convolute(t, sg), convolute(t, back), "%v filled=%v", k, filled)

			lo, hi := sg.WindowBounds()
			blo, bhi := back.WindowBounds()
			assert.Equal(t, [2]int{lo, hi}, [2]int{blo, bhi})

			again, err := back.MarshalBinary()
			require.NoError(t, err)
			assert.Equal(t, data, again, "%v: encoding is deterministic", k)
		}
	}
}

// TestUnmarshal_MergesWithFresh ensures decoded geometry equals constructed geometry.
func TestUnmarshal_MergesWithFresh(t *testing.T) {
	for _, k := range nodeKinds {
		sg := mustNew(t, k, subgrid.DefaultParams())
		fillAll(sg, samples(11, 20))
		data, err := sg.MarshalBinary()
		require.NoError(t, err)
		back, err := subgrid.Unmarshal(data)
		require.NoError(t, err)

		fresh := mustNew(t, k, subgrid.DefaultParams())
		require.NoError(t, fresh.Merge(back), "%v", k)
	}
}

// TestUnmarshal_Corrupt covers inputs that are not a subgrid.
func TestUnmarshal_Corrupt(t *testing.T) {
	sg := mustNew(t, subgrid.KindLagrangeV2, subgrid.DefaultParams())
	fillAll(sg, samples(12, 100))
	data, err := sg.MarshalBinary()
	require.NoError(t, err)

	cases := map[string][]byte{
		"empty":     nil,
		"garbage":   []byte("definitely not gzip"),
		"truncated": data[:len(data)/2],
		"wrong magic": gzipGob(t,
			fakeHeader{Magic: "something/else", Version: 1, Kind: int(subgrid.KindNtuple)},
			struct{ Samples []subgrid.Sample }{}),
		"window outside axis": gzipGob(t,
			fakeHeader{Magic: "pinegrid/subgrid", Version: 1, Kind: int(subgrid.KindLagrangeV1)},
			fakeV1{Tau: fakeAxis{N: 10, Order: 3, Min: 1, Max: 2}, Y: fakeAxis{N: 10, Order: 3, Min: 0, Max: 5},
				ITauMin: 8, ITauMax: 12, Data: make([]float64, 400)}),
		"bad axis": gzipGob(t,
			fakeHeader{Magic: "pinegrid/subgrid", Version: 1, Kind: int(subgrid.KindLagrangeV1)},
			fakeV1{Tau: fakeAxis{N: 3, Order: 3, Min: 1, Max: 2}, Y: fakeAxis{N: 10, Order: 3, Min: 0, Max: 5}}),
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := subgrid.Unmarshal(in)
			require.ErrorIs(t, err, subgrid.ErrCorruptData)
		})
	}
}

// TestUnmarshal_VersionAndKind rejects newer formats and unknown strategies.
func TestUnmarshal_VersionAndKind(t *testing.T) {
	newer := gzipGob(t, fakeHeader{Magic: "pinegrid/subgrid", Version: subgrid.FormatVersion + 1, Kind: int(subgrid.KindNtuple)})
	_, err := subgrid.Unmarshal(newer)
	require.ErrorIs(t, err, subgrid.ErrUnsupportedVersion)

	unknown := gzipGob(t, fakeHeader{Magic: "pinegrid/subgrid", Version: subgrid.FormatVersion, Kind: 42})
	_, err = subgrid.Unmarshal(unknown)
	require.ErrorIs(t, err, subgrid.ErrUnknownKind)
}

// Mirrors of the persisted layout; gob matches fields by name.
type (
	fakeHeader struct {
		Magic   string
		Version int
		Kind    int
	}
	fakeAxis struct {
		N, Order int
		Min, Max float64
	}
	fakeV1 struct {
		Tau, Y           fakeAxis
		ITauMin, ITauMax int
		Data             []float64
	}
)

func gzipGob(t *testing.T, values ...any) []byte {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	enc := gob.NewEncoder(gz)
	for _, v := range values {
		require.NoError(t, enc.Encode(v))
	}
	require.NoError(t, gz.Close())

	return buf.Bytes()
}
