// SPDX-License-Identifier: MIT

package subgrid

import (
	"bytes"
	"compress/gzip"
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"slices"
)

// FormatVersion is the version written by MarshalBinary. Unmarshal accepts
// every version up to and including it.
const FormatVersion = 1

const formatMagic = "pinegrid/subgrid"

// header opens every serialized subgrid.
type header struct {
	Magic   string
	Version int
	Kind    Kind
}

// axisState is the persisted form of one transformed axis.
type axisState struct {
	N, Order int
	Min, Max float64
}

func (a axis) state() axisState {
	return axisState{N: a.n, Order: a.order, Min: a.min, Max: a.max}
}

func (s axisState) axis() axis {
	return axis{n: s.N, order: s.Order, min: s.Min, max: s.Max}
}

// validate guards decoded axes: the node and stencil arithmetic assumes
// the same invariants as Params.Validate.
func (s axisState) validate() error {
	if s.Order < 0 || s.Order > MaxOrder || s.N < 2 || s.N <= s.Order || !(s.Min < s.Max) {
		return fmt.Errorf("axis %+v: %w", s, ErrCorruptData)
	}

	return nil
}

// v1State keeps a single y axis: LagrangeV1 shares it between partons.
type v1State struct {
	Tau              axisState
	Y                axisState
	Reweight         bool
	ITauMin, ITauMax int
	Data             []float64
}

// v2State is shared by LagrangeV2 and LagrangeSparse.
type v2State struct {
	Tau              axisState
	Y1, Y2           axisState
	Reweight         bool
	ITauMin, ITauMax int
	Data             []float64 // dense rows (LagrangeV2)
	Keys             []int     // ascending flat keys (LagrangeSparse)
	Values           []float64 // values of Keys (LagrangeSparse)
}

type ntupleState struct {
	Samples []Sample
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (g *LagrangeV1) MarshalBinary() ([]byte, error) {
	return encode(KindLagrangeV1, v1State{
		Tau:      g.q2.state(),
		Y:        g.x1.state(),
		Reweight: g.reweight,
		ITauMin:  g.store.itauMin,
		ITauMax:  g.store.itauMax,
		Data:     g.store.data,
	})
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (g *LagrangeV2) MarshalBinary() ([]byte, error) {
	return encode(KindLagrangeV2, v2State{
		Tau:      g.q2.state(),
		Y1:       g.x1.state(),
		Y2:       g.x2.state(),
		Reweight: g.reweight,
		ITauMin:  g.store.itauMin,
		ITauMax:  g.store.itauMax,
		Data:     g.store.data,
	})
}

// MarshalBinary implements encoding.BinaryMarshaler. Keys are written in
// ascending order so that equal subgrids serialize to equal bytes.
func (g *LagrangeSparse) MarshalBinary() ([]byte, error) {
	st := v2State{
		Tau:      g.q2.state(),
		Y1:       g.x1.state(),
		Y2:       g.x2.state(),
		Reweight: g.reweight,
		ITauMin:  g.itauMin,
		ITauMax:  g.itauMax,
	}
	if g.entries != nil {
		st.Keys = make([]int, 0, len(g.entries))
		for k := range g.entries {
			st.Keys = append(st.Keys, k)
		}
		slices.Sort(st.Keys)
		st.Values = make([]float64, len(st.Keys))
		for i, k := range st.Keys {
			st.Values[i] = g.entries[k]
		}
	}

	return encode(KindLagrangeSparse, st)
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (g *Ntuple) MarshalBinary() ([]byte, error) {
	return encode(KindNtuple, ntupleState{Samples: g.samples})
}

// encode writes gzip(gob(header) gob(state)).
func encode(kind Kind, state any) ([]byte, error) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	enc := gob.NewEncoder(gz)
	if err := enc.Encode(header{Magic: formatMagic, Version: FormatVersion, Kind: kind}); err != nil {
		gz.Close()
		return nil, fmt.Errorf("MarshalBinary: %w", err)
	}
	if err := enc.Encode(state); err != nil {
		gz.Close()
		return nil, fmt.Errorf("MarshalBinary: %w", err)
	}
	if err := gz.Close(); err != nil {
		return nil, fmt.Errorf("MarshalBinary: %w", err)
	}

	return buf.Bytes(), nil
}

// Unmarshal decodes bytes written by MarshalBinary into a subgrid of the
// recorded strategy. opts configure the decoded subgrid (e.g. its logger).
//
// Errors:
//   - ErrCorruptData:        not a subgrid, truncated, or inconsistent state
//   - ErrUnsupportedVersion: written by a newer format
//   - ErrUnknownKind:        unrecognised strategy tag
func Unmarshal(data []byte, opts ...Option) (Subgrid, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("Unmarshal: empty input: %w", ErrCorruptData)
	}
	gz, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("Unmarshal: %w: %v", ErrCorruptData, err)
	}
	defer gz.Close()

	dec := gob.NewDecoder(gz)
	var h header
	if err := dec.Decode(&h); err != nil {
		return nil, decodeErr(err)
	}
	if h.Magic != formatMagic {
		return nil, fmt.Errorf("Unmarshal: magic %q: %w", h.Magic, ErrCorruptData)
	}
	if h.Version < 1 || h.Version > FormatVersion {
		return nil, fmt.Errorf("Unmarshal: version %d: %w", h.Version, ErrUnsupportedVersion)
	}

	o := gatherOptions(opts...)
	switch h.Kind {
	case KindLagrangeV1:
		var st v1State
		if err := dec.Decode(&st); err != nil {
			return nil, decodeErr(err)
		}
		l := layout{q2: st.Tau.axis(), x1: st.Y.axis(), x2: st.Y.axis(), reweight: st.Reweight}
		g := &LagrangeV1{lagrange: newLagrange(l, o)}
		if err := g.restore(st.Tau, st.Y, st.Y, st.ITauMin, st.ITauMax, st.Data); err != nil {
			return nil, err
		}
		return g, nil

	case KindLagrangeV2:
		var st v2State
		if err := dec.Decode(&st); err != nil {
			return nil, decodeErr(err)
		}
		l := layout{q2: st.Tau.axis(), x1: st.Y1.axis(), x2: st.Y2.axis(), reweight: st.Reweight}
		g := &LagrangeV2{lagrange: newLagrange(l, o)}
		if err := g.restore(st.Tau, st.Y1, st.Y2, st.ITauMin, st.ITauMax, st.Data); err != nil {
			return nil, err
		}
		return g, nil

	case KindLagrangeSparse:
		var st v2State
		if err := dec.Decode(&st); err != nil {
			return nil, decodeErr(err)
		}
		return restoreSparse(st, o)

	case KindNtuple:
		var st ntupleState
		if err := dec.Decode(&st); err != nil {
			return nil, decodeErr(err)
		}
		return &Ntuple{samples: st.Samples, log: o.logger}, nil

	default:
		return nil, fmt.Errorf("Unmarshal: kind %d: %w", int(h.Kind), ErrUnknownKind)
	}
}

// restore installs decoded dense state after checking its shape.
func (g *lagrange) restore(tau, y1, y2 axisState, lo, hi int, data []float64) error {
	for _, a := range []axisState{tau, y1, y2} {
		if err := a.validate(); err != nil {
			return fmt.Errorf("Unmarshal: %w", err)
		}
	}
	if data == nil {
		return nil
	}
	if lo < 0 || hi > tau.N || lo >= hi || len(data) != (hi-lo)*g.plane() {
		return fmt.Errorf("Unmarshal: window [%d,%d) with %d cells: %w", lo, hi, len(data), ErrCorruptData)
	}
	g.store.itauMin, g.store.itauMax, g.store.data = lo, hi, data

	return nil
}

func restoreSparse(st v2State, o options) (*LagrangeSparse, error) {
	for _, a := range []axisState{st.Tau, st.Y1, st.Y2} {
		if err := a.validate(); err != nil {
			return nil, fmt.Errorf("Unmarshal: %w", err)
		}
	}
	g := &LagrangeSparse{
		layout: layout{q2: st.Tau.axis(), x1: st.Y1.axis(), x2: st.Y2.axis(), reweight: st.Reweight},
		log:    o.logger,
	}
	if len(st.Keys) != len(st.Values) {
		return nil, fmt.Errorf("Unmarshal: %d keys, %d values: %w", len(st.Keys), len(st.Values), ErrCorruptData)
	}
	if st.ITauMin == st.ITauMax {
		return g, nil
	}
	if st.ITauMin < 0 || st.ITauMax > st.Tau.N || st.ITauMin > st.ITauMax {
		return nil, fmt.Errorf("Unmarshal: window [%d,%d): %w", st.ITauMin, st.ITauMax, ErrCorruptData)
	}
	g.entries = make(map[int]float64, len(st.Keys))
	g.itauMin, g.itauMax = st.ITauMin, st.ITauMax
	limit := st.ITauMax * g.plane()
	for i, k := range st.Keys {
		if k < st.ITauMin*g.plane() || k >= limit {
			return nil, fmt.Errorf("Unmarshal: key %d outside window: %w", k, ErrCorruptData)
		}
		g.entries[k] = st.Values[i]
	}

	return g, nil
}

func decodeErr(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("Unmarshal: truncated: %w", ErrCorruptData)
	}

	return fmt.Errorf("Unmarshal: %w: %v", ErrCorruptData, err)
}
