// SPDX-License-Identifier: MIT

package store

import "errors"

var (
	// ErrNotFound indicates no stored run for an id or key.
	ErrNotFound = errors.New("store: not found")

	// ErrInvalidKey indicates an empty name or a negative index.
	ErrInvalidKey = errors.New("store: invalid key")
)
