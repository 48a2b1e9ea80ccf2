// SPDX-License-Identifier: MIT
// Package subgrid: merge compatibility.
// CanMerge answers "would dst.Merge(src) succeed?" without touching either
// operand; every Merge implementation runs it first, so callers combining
// many subgrids can validate all pairs before committing any of them.
//
// Supported pairs (receiver ← operand):
//   - LagrangeV1 ← LagrangeV1
//   - LagrangeV2 ← LagrangeV2
//   - LagrangeSparse ← LagrangeSparse, LagrangeV1, LagrangeV2
//   - Ntuple ← Ntuple

package subgrid

import "fmt"

var mergePairs = map[[2]Kind]bool{
	{KindLagrangeV1, KindLagrangeV1}:         true,
	{KindLagrangeV2, KindLagrangeV2}:         true,
	{KindLagrangeSparse, KindLagrangeSparse}: true,
	{KindLagrangeSparse, KindLagrangeV1}:     true,
	{KindLagrangeSparse, KindLagrangeV2}:     true,
	{KindNtuple, KindNtuple}:                 true,
}

// CanMerge returns the error dst.Merge(src) would return, or nil.
// Neither operand is modified.
//
// Errors: ErrUnsupportedMerge (nil operand or unsupported pair),
// ErrSelfMerge, ErrIncompatibleParams.
func CanMerge(dst, src Subgrid) error {
	if isNil(src) {
		return unsupportedMerge(dst, nil)
	}
	if !mergePairs[[2]Kind{dst.Kind(), src.Kind()}] {
		return unsupportedMerge(dst, src)
	}
	if dst == src {
		return fmt.Errorf("Merge: %w", ErrSelfMerge)
	}
	dl, ok := layoutOf(dst)
	if !ok {
		return nil
	}
	if sl, _ := layoutOf(src); *dl != *sl {
		return fmt.Errorf("Merge: %w", ErrIncompatibleParams)
	}

	return nil
}

// CheckLayout reports whether sg was built from p: same node counts,
// orders, ranges and reweighting. LagrangeV1 is checked against p with X2
// replaced by X1. Ntuple has no layout and always passes.
func CheckLayout(sg Subgrid, p Params) error {
	if isNil(sg) {
		return fmt.Errorf("CheckLayout: nil subgrid: %w", ErrIncompatibleParams)
	}
	l, ok := layoutOf(sg)
	if !ok {
		return nil
	}
	if sg.Kind() == KindLagrangeV1 {
		p.X2 = p.X1
	}
	if *l != newLayout(p) {
		return fmt.Errorf("CheckLayout(%v): %w", sg.Kind(), ErrIncompatibleParams)
	}

	return nil
}

// isNil catches both a nil interface and a typed nil pointer.
func isNil(sg Subgrid) bool {
	switch s := sg.(type) {
	case nil:
		return true
	case *LagrangeV1:
		return s == nil
	case *LagrangeV2:
		return s == nil
	case *LagrangeSparse:
		return s == nil
	case *Ntuple:
		return s == nil
	}

	return false
}

// layoutOf returns the node layout of sg; ok is false for Ntuple.
func layoutOf(sg Subgrid) (l *layout, ok bool) {
	switch s := sg.(type) {
	case *LagrangeV1:
		return &s.layout, true
	case *LagrangeV2:
		return &s.layout, true
	case *LagrangeSparse:
		return &s.layout, true
	}

	return nil, false
}
