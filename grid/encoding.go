// SPDX-License-Identifier: MIT

package grid

import (
	"compress/gzip"
	"encoding/gob"
	"errors"
	"fmt"
	"io"

	"github.com/katalvlaran/pinegrid/subgrid"
)

// FormatVersion is the version written by Write.
const FormatVersion = 1

const formatMagic = "pinegrid/grid"

type fileHeader struct {
	Magic   string
	Version int
}

// gridState is the persisted form; each subgrid carries its own
// versioned encoding.
type gridState struct {
	Orders   []Order
	Lumis    []LumiEntry
	Limits   []float64
	Params   subgrid.Params
	Kind     subgrid.Kind
	Subgrids [][]byte
}

// Write serializes g as gzip(gob(header) gob(state)).
func (g *Grid) Write(w io.Writer) error {
	st := gridState{
		Orders:   g.orders,
		Lumis:    g.lumis,
		Limits:   g.limits,
		Params:   g.params,
		Kind:     g.kind,
		Subgrids: make([][]byte, len(g.subgrids)),
	}
	for i, sg := range g.subgrids {
		data, err := sg.MarshalBinary()
		if err != nil {
			return fmt.Errorf("Write: slot %d: %w", i, err)
		}
		st.Subgrids[i] = data
	}

	gz := gzip.NewWriter(w)
	enc := gob.NewEncoder(gz)
	if err := enc.Encode(fileHeader{Magic: formatMagic, Version: FormatVersion}); err != nil {
		gz.Close()
		return fmt.Errorf("Write: %w", err)
	}
	if err := enc.Encode(st); err != nil {
		gz.Close()
		return fmt.Errorf("Write: %w", err)
	}
	if err := gz.Close(); err != nil {
		return fmt.Errorf("Write: %w", err)
	}

	return nil
}

// Read decodes a grid written by Write. opts configure the decoded grid.
//
// Every decoded slot must carry the layout of the stored parameters;
// strategies may differ per slot (Optimize, Merge).
//
// Errors: ErrCorruptGrid, ErrUnsupportedVersion, or a subgrid decoding
// error wrapped with the slot index.
func Read(r io.Reader, opts ...Option) (*Grid, error) {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("Read: %w: %v", ErrCorruptGrid, err)
	}
	defer gz.Close()

	dec := gob.NewDecoder(gz)
	var h fileHeader
	if err := dec.Decode(&h); err != nil {
		return nil, readErr(err)
	}
	if h.Magic != formatMagic {
		return nil, fmt.Errorf("Read: magic %q: %w", h.Magic, ErrCorruptGrid)
	}
	if h.Version < 1 || h.Version > FormatVersion {
		return nil, fmt.Errorf("Read: version %d: %w", h.Version, ErrUnsupportedVersion)
	}
	var st gridState
	if err := dec.Decode(&st); err != nil {
		return nil, readErr(err)
	}

	g, err := New(st.Lumis, st.Orders, st.Limits, st.Params, st.Kind, opts...)
	if err != nil {
		return nil, fmt.Errorf("Read: %w: %v", ErrCorruptGrid, err)
	}
	if len(st.Subgrids) != len(g.subgrids) {
		return nil, fmt.Errorf("Read: %d subgrids, want %d: %w", len(st.Subgrids), len(g.subgrids), ErrCorruptGrid)
	}
	for i, data := range st.Subgrids {
		sg, err := subgrid.Unmarshal(data, g.opts.subgridOptions()...)
		if err != nil {
			return nil, fmt.Errorf("Read: slot %d: %w", i, err)
		}
		if err := subgrid.CheckLayout(sg, st.Params); err != nil {
			return nil, fmt.Errorf("Read: slot %d: %w: %v", i, ErrCorruptGrid, err)
		}
		g.subgrids[i] = sg
	}

	return g, nil
}

func readErr(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("Read: truncated: %w", ErrCorruptGrid)
	}

	return fmt.Errorf("Read: %w: %v", ErrCorruptGrid, err)
}
