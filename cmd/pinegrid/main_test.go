// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	require.NoError(t, root.Execute(), "pinegrid %s\n%s", strings.Join(args, " "), out.String())

	return out.String()
}

// TestCLI_Workflow drives every subcommand on a small Drell-Yan run.
func TestCLI_Workflow(t *testing.T) {
	dir := t.TempDir()
	path := func(name string) string { return filepath.Join(dir, name) }

	execute(t, "dy", "--calls", "20000", "--dynamic", "-o", path("a.grid"))
	execute(t, "dy", "--calls", "20000", "--dynamic", "--seed1", "1", "-o", path("b.grid"))

	info := execute(t, "info", path("a.grid"))
	assert.Contains(t, info, "kind:     LagrangeSubgridV2")
	assert.Contains(t, info, "bins:     24 in [0, 2.4]")

	execute(t, "merge", path("a.grid"), path("b.grid"), "-o", path("ab.grid"))
	execute(t, "scale", path("ab.grid"), "--factor", "0.5", "-o", path("half.grid"))
	execute(t, "optimize", path("half.grid"), "-o", path("opt.grid"))

	before := execute(t, "convolute", path("half.grid"))
	after := execute(t, "convolute", path("opt.grid"))
	assert.Equal(t, before, after, "optimize keeps results")
	assert.Len(t, strings.Split(strings.TrimSpace(before), "\n"), 25, "header plus 24 bins")

	db := path("runs.db")
	execute(t, "store", "put", "--db", db, "--name", "dy", path("a.grid"))
	execute(t, "store", "put", "--db", db, "--name", "dy", path("b.grid"))
	assert.NotEmpty(t, execute(t, "store", "list", "--db", db, "--name", "dy"))
	execute(t, "store", "merge", "--db", db, "--name", "dy", "--template", path("a.grid"), "-o", path("stored.grid"))

	assert.Equal(t, execute(t, "convolute", path("ab.grid")), execute(t, "convolute", path("stored.grid")))
}

// TestCLI_BadKind reports an unknown strategy.
func TestCLI_BadKind(t *testing.T) {
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"dy", "--kind", "Nope", "-o", filepath.Join(t.TempDir(), "x.grid")})
	require.Error(t, root.Execute())
}
