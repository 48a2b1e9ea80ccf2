// SPDX-License-Identifier: MIT

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/katalvlaran/pinegrid/subgrid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParseParams_Overlay keeps base values for missing keys.
func TestParseParams_Overlay(t *testing.T) {
	base := subgrid.DefaultParams()
	p, err := parseParams([]byte(`
q2: {bins: 30, max: 1.0e6}
x2: {order: 2}
reweight: false
`), base)
	require.NoError(t, err)

	want := base
	want.Q2.Bins, want.Q2.Max = 30, 1e6
	want.X2.Order = 2
	want.Reweight = false
	assert.Equal(t, want, p)
}

// TestParseParams_Errors rejects malformed YAML and invalid axes.
func TestParseParams_Errors(t *testing.T) {
	_, err := parseParams([]byte("q2: [1, 2"), subgrid.DefaultParams())
	require.Error(t, err)

	_, err = parseParams([]byte("x1: {min: 0}"), subgrid.DefaultParams())
	require.ErrorIs(t, err, subgrid.ErrInvalidParams)
}

// TestLoadParams reads from disk and falls back to base without a path.
func TestLoadParams(t *testing.T) {
	base := subgrid.DefaultParams()
	p, err := loadParams("", base)
	require.NoError(t, err)
	assert.Equal(t, base, p)

	path := filepath.Join(t.TempDir(), "params.yaml")
	require.NoError(t, os.WriteFile(path, []byte("x1: {bins: 40}\n"), 0o600))
	p, err = loadParams(path, base)
	require.NoError(t, err)
	assert.Equal(t, 40, p.X1.Bins)

	_, err = loadParams(filepath.Join(t.TempDir(), "missing.yaml"), base)
	require.Error(t, err)
}
