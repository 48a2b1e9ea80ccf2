// SPDX-License-Identifier: MIT

package subgrid

// LagrangeWeight returns the weight of node i of an order-n Lagrange stencil
// at fractional offset u (in units of the node spacing, node 0 at u=0):
//
//	fᵢ(u) = Π_{k<i}(u−k) · Π_{i<k≤n}(k−u) / (i!·(n−i)!)
//
// Pure and deterministic: identical inputs give bit-identical outputs on
// every machine, which keeps merges of partial runs reproducible. No bounds
// check is applied; u outside [0, n] extrapolates. For any u the weights
// of one stencil sum to 1.
//
// Complexity: O(n).
func LagrangeWeight(i, n int, u float64) float64 {
	factorials := 1
	product := 1.0
	for z := 0; z < i; z++ {
		product *= u - float64(z)
		factorials *= i - z
	}
	for z := i + 1; z <= n; z++ {
		product *= float64(z) - u
		factorials *= z - i
	}

	return product / float64(factorials)
}
