// SPDX-License-Identifier: MIT

package subgrid

import (
	"fmt"
	"math"
)

const (
	newtonMaxIter   = 100   // iteration budget of the fx inversion
	newtonTolerance = 1e-12 // |δ| at which fx accepts the root
)

// fy maps a momentum fraction onto the y axis: y = −ln x + 5(1−x).
// Monotonically decreasing on (0, 1]; small x lands at large y.
func fy(x float64) float64 {
	return math.FMA(1-x, 5, -math.Log(x))
}

// fx inverts fy by Newton iteration on y′ with x = exp(−y′).
// Panics if the iteration does not converge: inputs come from the node
// grid of a validated axis, so failure means the transform and the
// domain disagree.
func fx(y float64) float64 {
	yp := y
	for i := 0; i < newtonMaxIter; i++ {
		x := math.Exp(-yp)
		delta := y - yp - 5*(1-x)
		if math.Abs(delta) < newtonTolerance {
			return x
		}
		deriv := -1 - 5*x
		yp -= delta / deriv
	}

	panic(fmt.Sprintf("subgrid: fx(%g) did not converge after %d iterations", y, newtonMaxIter))
}

// ftau maps Q² onto the τ axis: τ = ln ln(Q²/0.0625).
func ftau(q2 float64) float64 {
	return math.Log(math.Log(q2 / q2Cut))
}

// fq2 is the closed-form inverse of ftau.
func fq2(tau float64) float64 {
	return q2Cut * math.Exp(math.Exp(tau))
}

// weightfun flattens steep small-x spectra before interpolation:
// w(x) = (√x/(1−0.99x))³.
func weightfun(x float64) float64 {
	v := math.Sqrt(x) / (1 - 0.99*x)
	return v * v * v
}
