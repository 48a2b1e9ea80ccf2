// SPDX-License-Identifier: MIT

// Package store persists subgrids of partial Monte-Carlo runs in a SQLite
// file so they can be merged later, possibly on another machine.
//
// Every Put adds one run under a Key (grid name, order, bin, channel) and
// returns its UUID. Merged folds all runs of a key in insertion order;
// MergeInto does that for every slot of a grid. The schema is created and
// upgraded on Open by embedded migrations.
package store
