// SPDX-License-Identifier: MIT

// Package drellyan generates leading-order photon-initiated Drell–Yan
// lepton-pair events (γγ → ℓ⁺ℓ⁻) with the fiducial cuts of the CMS 7 TeV
// Z-peak rapidity measurement. It serves as a realistic workload for
// filling grids.
package drellyan

import (
	"math"
	"math/rand/v2"

	"github.com/katalvlaran/pinegrid/grid"
	"github.com/katalvlaran/pinegrid/subgrid"
)

// Physical constants.
const (
	Alpha0 = 1.0 / 137.03599911 // fine-structure constant in the Thomson limit
	HBarC2 = 3.893793721e8      // (ħc)² in GeV² pb
	PID    = 22                 // photon
)

// Default seeds of the event stream.
const (
	DefaultSeed1 uint64 = 0xcafef00dd15ea5e5
	DefaultSeed2 uint64 = 0xac28fa16a64abf96
)

// Phase-space boundaries and cuts.
const (
	MMin     = 10.0   // lower invariant mass of the generator, GeV
	MMax     = 7000.0 // upper invariant mass of the generator, GeV
	PtMin    = 14.0   // lepton transverse momentum cut
	YMax     = 2.4    // lepton and pair rapidity cut
	MllLow   = 60.0   // invariant-mass window
	MllHigh  = 120.0
	StaticQ2 = 90.0 * 90.0 // scale used when the scale is not dynamic
)

// PhaseSpacePoint is a 2→2 configuration in the hadronic frame.
type PhaseSpacePoint struct {
	S, T, U  float64 // partonic Mandelstam variables
	X1, X2   float64 // momentum fractions
	Jacobian float64
}

// HadronicPSP samples τ = s/S_max logarithmically in [mmin², mmax²]/mmax²,
// the rapidity split uniformly in ln x1, cos θ uniformly and φ
// analytically. Three uniform numbers are consumed.
func HadronicPSP(rng *rand.Rand, mmin, mmax float64) PhaseSpacePoint {
	smin, smax := mmin*mmin, mmax*mmax

	r1, r2 := rng.Float64(), rng.Float64()
	tau0 := smin / smax
	tau := math.Pow(tau0, r1)
	y := math.Pow(tau, 1-r2)
	x1, x2 := y, tau/y
	s := tau * smax
	ln := math.Log(tau0)
	jacobian := tau * ln * ln * r1

	cosTheta := 2*rng.Float64() - 1
	jacobian *= 2

	t := -0.5 * s * (1 - cosTheta)
	u := -0.5 * s * (1 + cosTheta)

	jacobian *= 2 * math.Pi

	return PhaseSpacePoint{S: s, T: t, U: u, X1: x1, X2: x2, Jacobian: jacobian}
}

// IntPhoto is the γγ → ℓ⁺ℓ⁻ partonic matrix element including flux.
func IntPhoto(s, t, u float64) float64 {
	return Alpha0 * Alpha0 / 2 / s * (t/u + u/t)
}

// Kinematics are the lepton-pair observables of a point.
type Kinematics struct {
	PtL float64 // lepton transverse momentum
	Mll float64 // pair invariant mass
	Yll float64 // pair rapidity
	YLp float64 // |rapidity| of ℓ⁺
	YLm float64 // |rapidity| of ℓ⁻
}

// Observe computes the lepton-pair observables.
func (p PhaseSpacePoint) Observe() Kinematics {
	ptl := math.Sqrt(p.T * p.U / p.S)
	mll := math.Sqrt(p.S)
	yll := 0.5 * math.Log(p.X1/p.X2)
	dy := math.Acosh(0.5 * mll / ptl)

	return Kinematics{PtL: ptl, Mll: mll, Yll: yll, YLp: math.Abs(yll + dy), YLm: math.Abs(yll - dy)}
}

// Pass applies the fiducial cuts.
func (k Kinematics) Pass() bool {
	return k.PtL >= PtMin &&
		math.Abs(k.Yll) <= YMax && k.YLp <= YMax && k.YLm <= YMax &&
		k.Mll >= MllLow && k.Mll <= MllHigh
}

// Generator draws events from a PCG stream.
type Generator struct {
	rng     *rand.Rand
	dynamic bool
}

// NewGenerator seeds a generator. With dynamic set the scale is Q² = m_ll²,
// otherwise the fixed StaticQ2.
func NewGenerator(seed1, seed2 uint64, dynamic bool) *Generator {
	return &Generator{rng: rand.New(rand.NewPCG(seed1, seed2)), dynamic: dynamic}
}

// Generate draws calls phase-space points and returns the events passing
// the cuts, weighted for a total of calls points. Every event targets order
// 0 and channel 0; the observable is |y_ll|.
func (g *Generator) Generate(calls int) []grid.Event {
	events := make([]grid.Event, 0, calls/8)
	for range calls {
		p := HadronicPSP(g.rng, MMin, MMax)
		k := p.Observe()
		if !k.Pass() {
			continue
		}

		q2 := StaticQ2
		if g.dynamic {
			q2 = k.Mll * k.Mll
		}
		weight := p.Jacobian * HBarC2 / float64(calls) * IntPhoto(p.S, p.U, p.T)
		events = append(events, grid.Event{
			Observable: math.Abs(k.Yll),
			Sample:     subgrid.Sample{X1: p.X1, X2: p.X2, Q2: q2, Weight: weight},
		})
	}

	return events
}

// BinLimits are the rapidity bins 0, 0.1, …, 2.4.
func BinLimits() []float64 {
	out := make([]float64, 25)
	for i := range out {
		out[i] = float64(i) / 10
	}

	return out
}

// Params are the interpolation parameters of the workload:
// 30 Q² nodes in [1e2, 1e6], 50 x nodes in [2e-7, 1], third order, reweighted.
func Params() subgrid.Params {
	x := subgrid.AxisParams{Bins: 50, Order: 3, Min: 2e-7, Max: 1}

	return subgrid.Params{
		Q2:       subgrid.AxisParams{Bins: 30, Order: 3, Min: 1e2, Max: 1e6},
		X1:       x,
		X2:       x,
		Reweight: true,
	}
}

// Lumis is the single photon-photon channel.
func Lumis() []grid.LumiEntry {
	return []grid.LumiEntry{{Terms: []grid.LumiTerm{{PID1: PID, PID2: PID, Factor: 1}}}}
}

// Orders is the single LO order α².
func Orders() []grid.Order {
	return []grid.Order{{Alphas: 0, Alpha: 2}}
}

// NewGrid builds an empty grid of the workload.
func NewGrid(kind subgrid.Kind, opts ...grid.Option) (*grid.Grid, error) {
	return grid.New(Lumis(), Orders(), BinLimits(), Params(), kind, opts...)
}

// PhotonPDF is a smooth toy photon density, x·γ(x) = 0.01·x^−0.1·(1−x)⁵,
// independent of Q². Other partons vanish.
func PhotonPDF(pid int, x, _ float64) float64 {
	if pid != PID {
		return 0
	}

	return 0.01 * math.Pow(x, -0.1) * math.Pow(1-x, 5)
}

// ZeroAlphas is the coupling of a pure-QED order.
func ZeroAlphas(float64) float64 { return 0 }
