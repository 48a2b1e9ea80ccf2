// SPDX-License-Identifier: MIT

package subgrid

import (
	"encoding"
	"fmt"
)

// Sample is one Monte-Carlo observation.
type Sample struct {
	X1     float64 // momentum fraction of parton 1
	X2     float64 // momentum fraction of parton 2
	Q2     float64 // factorisation scale squared
	Weight float64 // event weight
}

// Nodes holds the physical coordinates of every node, per axis.
type Nodes struct {
	X1 []float64
	X2 []float64
	Q2 []float64
}

// Luminosity is the caller's parton luminosity. Exactly one form is
// needed; when both are set the index form wins on node grids.
//
//   - Index: evaluated per node-index triple (ix1, ix2, iq2); lets the
//     caller cache PDF values per node.
//   - Value: evaluated per physical triple (x1, x2, q2); required by Ntuple.
type Luminosity struct {
	Index func(ix1, ix2, iq2 int) float64
	Value func(x1, x2, q2 float64) float64
}

// IndexLuminosity wraps an index-based luminosity.
func IndexLuminosity(f func(ix1, ix2, iq2 int) float64) Luminosity {
	return Luminosity{Index: f}
}

// ValueLuminosity wraps a value-based luminosity.
func ValueLuminosity(f func(x1, x2, q2 float64) float64) Luminosity {
	return Luminosity{Value: f}
}

func (l Luminosity) isNil() bool {
	return l.Index == nil && l.Value == nil
}

// Kind enumerates the closed set of storage strategies.
type Kind int

const (
	// KindLagrangeV1 is dense windowed storage with one shared x axis.
	KindLagrangeV1 Kind = iota + 1

	// KindLagrangeV2 is dense windowed storage with independent x1/x2 axes.
	KindLagrangeV2

	// KindLagrangeSparse stores only touched nodes.
	KindLagrangeSparse

	// KindNtuple keeps every sample verbatim.
	KindNtuple
)

var kindNames = map[Kind]string{
	KindLagrangeV1:     "LagrangeSubgrid",
	KindLagrangeV2:     "LagrangeSubgridV2",
	KindLagrangeSparse: "LagrangeSparseSubgrid",
	KindNtuple:         "NtupleSubgrid",
}

// String returns the strategy name accepted by ParseKind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}

	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind resolves a strategy name as printed by Kind.String.
func ParseKind(name string) (Kind, error) {
	for k, n := range kindNames {
		if n == name {
			return k, nil
		}
	}

	return 0, fmt.Errorf("ParseKind(%q): %w", name, ErrUnknownKind)
}

// Subgrid is the capability shared by every storage strategy.
//
// The set of implementations is closed (LagrangeV1, LagrangeV2,
// LagrangeSparse, Ntuple) because strategies must interoperate pairwise
// under Merge; the unexported method seals the interface.
type Subgrid interface {
	// Kind reports the storage strategy.
	Kind() Kind

	// Fill accumulates one sample. Samples outside the static axis ranges
	// are silently dropped.
	Fill(s Sample)

	// Convolute returns Σ node·luminosity over all stored weights, with the
	// reweighting correction undone. Empty subgrids return 0. Passing a
	// zero-value Nodes makes the subgrid use its own node coordinates.
	Convolute(nodes Nodes, lumi Luminosity) (float64, error)

	// Merge adds other into the receiver and leaves other empty. other
	// must not be used afterwards.
	Merge(other Subgrid) error

	// Scale multiplies every weight by factor; 0 drops the storage.
	Scale(factor float64)

	// IsEmpty reports whether nothing has been stored.
	IsEmpty() bool

	// Nodes returns the physical node coordinates of every axis.
	Nodes() Nodes

	// WindowBounds returns the materialised scale rows [min, max).
	WindowBounds() (int, int)

	// ExportSlice writes the ny1·ny2 node values of scale row iq2 into out,
	// reweighting undone and divided by x1·x2.
	ExportSlice(iq2 int, out []float64) error

	encoding.BinaryMarshaler

	sealed()
}

// New builds an empty subgrid of the given strategy. Params are ignored
// by KindNtuple.
func New(kind Kind, p Params, opts ...Option) (Subgrid, error) {
	var (
		sg  Subgrid
		err error
	)
	switch kind {
	case KindLagrangeV1:
		sg, err = NewLagrangeV1(p, opts...)
	case KindLagrangeV2:
		sg, err = NewLagrangeV2(p, opts...)
	case KindLagrangeSparse:
		sg, err = NewLagrangeSparse(p, opts...)
	case KindNtuple:
		return NewNtuple(opts...), nil
	default:
		return nil, fmt.Errorf("New(%v): %w", kind, ErrUnknownKind)
	}
	if err != nil {
		return nil, err
	}

	return sg, nil
}

// unsupportedMerge reports a strategy pair that Merge cannot combine.
func unsupportedMerge(self, other Subgrid) error {
	if other == nil {
		return fmt.Errorf("Merge(nil into %v): %w", self.Kind(), ErrUnsupportedMerge)
	}

	return fmt.Errorf("Merge(%v into %v): %w", other.Kind(), self.Kind(), ErrUnsupportedMerge)
}
