// SPDX-License-Identifier: MIT

package subgrid

import "gonum.org/v1/gonum/floats"

// windowedStore is a dense (window, ny1, ny2) tensor in one flat slice,
// scale axis outermost. Only rows [itauMin, itauMax) of the scale axis are
// materialised; the x axes are always full width, so every row is one
// contiguous block of ny1·ny2 cells and growth is a single copy.
type windowedStore struct {
	itauMin, itauMax int       // materialised scale rows, half-open
	ny1, ny2         int       // full widths of the x axes
	data             []float64 // nil until first write; len == (itauMax-itauMin)·ny1·ny2
}

func newWindowedStore(ny1, ny2 int) windowedStore {
	return windowedStore{ny1: ny1, ny2: ny2}
}

func (w *windowedStore) isEmpty() bool {
	return w.data == nil
}

func (w *windowedStore) plane() int {
	return w.ny1 * w.ny2
}

// indexOf computes the flat offset of (itau, iy1, iy2); itau is absolute.
// Complexity: O(1).
func (w *windowedStore) indexOf(itau, iy1, iy2 int) int {
	return ((itau-w.itauMin)*w.ny1+iy1)*w.ny2 + iy2
}

// row returns the cells of absolute scale row itau.
func (w *windowedStore) row(itau int) []float64 {
	off := (itau - w.itauMin) * w.plane()
	return w.data[off : off+w.plane()]
}

// ensure makes rows [lo, hi) addressable: allocates the first window or
// grows the current one. Reports whether a (re)allocation happened.
func (w *windowedStore) ensure(lo, hi int) bool {
	if w.data == nil {
		w.itauMin, w.itauMax = lo, hi
		w.data = make([]float64, (hi-lo)*w.plane())
		return true
	}
	if lo >= w.itauMin && hi <= w.itauMax {
		return false
	}
	w.grow(min(lo, w.itauMin), max(hi, w.itauMax))

	return true
}

// grow reallocates to [newMin, newMax) ⊇ current window and copies the old
// block to offset (oldMin-newMin) rows. Existing cells keep their bits.
// Complexity: O(newWindow·ny1·ny2).
func (w *windowedStore) grow(newMin, newMax int) {
	grown := make([]float64, (newMax-newMin)*w.plane())
	copy(grown[(w.itauMin-newMin)*w.plane():], w.data)

	w.itauMin, w.itauMax = newMin, newMax
	w.data = grown
}

func (w *windowedStore) add(itau, iy1, iy2 int, v float64) {
	w.data[w.indexOf(itau, iy1, iy2)] += v
}

// scale multiplies in place; factor 0 drops the storage entirely.
func (w *windowedStore) scale(factor float64) {
	if factor == 0 {
		w.reset()
		return
	}
	if w.data != nil {
		floats.Scale(factor, w.data)
	}
}

// mergeFrom adds o into w over the union window and empties o.
// An empty w takes o's buffer without copying.
func (w *windowedStore) mergeFrom(o *windowedStore) {
	if o.data == nil {
		return
	}
	if w.data == nil {
		w.itauMin, w.itauMax, w.data = o.itauMin, o.itauMax, o.data
		o.reset()
		return
	}
	w.ensure(o.itauMin, o.itauMax)

	off := (o.itauMin - w.itauMin) * w.plane()
	floats.Add(w.data[off:off+len(o.data)], o.data)
	o.reset()
}

func (w *windowedStore) reset() {
	w.itauMin, w.itauMax, w.data = 0, 0, nil
}
