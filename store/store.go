// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/katalvlaran/pinegrid/grid"
	"github.com/katalvlaran/pinegrid/subgrid"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// Key addresses one grid slot.
type Key struct {
	Name  string // grid name
	Order int
	Bin   int
	Lumi  int
}

func (k Key) validate() error {
	if k.Name == "" || k.Order < 0 || k.Bin < 0 || k.Lumi < 0 {
		return fmt.Errorf("%+v: %w", k, ErrInvalidKey)
	}

	return nil
}

// Record describes one stored run.
type Record struct {
	ID      uuid.UUID
	Key     Key
	Kind    subgrid.Kind
	Created time.Time
}

// Store is a SQLite-backed collection of subgrid runs. Safe for
// concurrent use; the database serialises writers.
type Store struct {
	db  *sql.DB
	log *zap.Logger
	now func() time.Time
}

// Open opens (or creates) the database at path and applies migrations.
func Open(ctx context.Context, path string, opts ...Option) (*Store, error) {
	o := gatherOptions(opts...)
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("Open: %w", err)
	}
	// one connection avoids SQLITE_BUSY between pooled writers
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("Open: %w", err)
	}

	s := &Store{db: db, log: o.logger, now: o.now}
	if err := s.migrateUp(); err != nil {
		db.Close()
		return nil, fmt.Errorf("Open: %w", err)
	}
	s.log.Debug("store opened", zap.String("path", path))

	return s, nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Put stores sg as a new run of k and returns its id.
func (s *Store) Put(ctx context.Context, k Key, sg subgrid.Subgrid) (uuid.UUID, error) {
	if err := k.validate(); err != nil {
		return uuid.Nil, fmt.Errorf("Put: %w", err)
	}
	blob, err := sg.MarshalBinary()
	if err != nil {
		return uuid.Nil, fmt.Errorf("Put: %w", err)
	}

	id := uuid.New()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO subgrids (id, name, ord, bin, lumi, kind, created_unix_nanos, blob)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id.String(), k.Name, k.Order, k.Bin, k.Lumi, sg.Kind().String(), s.now().UnixNano(), blob)
	if err != nil {
		return uuid.Nil, fmt.Errorf("Put: %w", err)
	}

	return id, nil
}

// Get loads one run.
func (s *Store) Get(ctx context.Context, id uuid.UUID) (subgrid.Subgrid, Record, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, ord, bin, lumi, kind, created_unix_nanos, blob
		FROM subgrids WHERE id = ?`, id.String())
	rec, blob, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, Record{}, fmt.Errorf("Get(%s): %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, Record{}, fmt.Errorf("Get(%s): %w", id, err)
	}
	sg, err := subgrid.Unmarshal(blob)
	if err != nil {
		return nil, Record{}, fmt.Errorf("Get(%s): %w", id, err)
	}

	return sg, rec, nil
}

// List returns the runs of a grid name in insertion order.
func (s *Store) List(ctx context.Context, name string) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, ord, bin, lumi, kind, created_unix_nanos, NULL
		FROM subgrids WHERE name = ? ORDER BY rowid`, name)
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		rec, _, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("List: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}

	return out, nil
}

// Merged folds every run of k in insertion order into the first one.
// When a sparse (optimized) run meets dense ones, the sparse run becomes
// the accumulator.
func (s *Store) Merged(ctx context.Context, k Key) (subgrid.Subgrid, error) {
	if err := k.validate(); err != nil {
		return nil, fmt.Errorf("Merged: %w", err)
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT blob FROM subgrids
		WHERE name = ? AND ord = ? AND bin = ? AND lumi = ?
		ORDER BY rowid`, k.Name, k.Order, k.Bin, k.Lumi)
	if err != nil {
		return nil, fmt.Errorf("Merged: %w", err)
	}
	defer rows.Close()

	var acc subgrid.Subgrid
	runs := 0
	for rows.Next() {
		var blob []byte
		if err := rows.Scan(&blob); err != nil {
			return nil, fmt.Errorf("Merged: %w", err)
		}
		sg, err := subgrid.Unmarshal(blob)
		if err != nil {
			return nil, fmt.Errorf("Merged: run %d: %w", runs, err)
		}
		runs++
		if acc == nil {
			acc = sg
			continue
		}
		if err := subgrid.CanMerge(acc, sg); errors.Is(err, subgrid.ErrUnsupportedMerge) && subgrid.CanMerge(sg, acc) == nil {
			acc, sg = sg, acc
		}
		if err := acc.Merge(sg); err != nil {
			return nil, fmt.Errorf("Merged: run %d: %w", runs-1, err)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("Merged: %w", err)
	}
	if acc == nil {
		return nil, fmt.Errorf("Merged(%+v): %w", k, ErrNotFound)
	}
	s.log.Debug("runs merged", zap.String("name", k.Name), zap.Int("runs", runs))

	return acc, nil
}

// PutGrid stores every non-empty slot of g as one run under name.
// It returns the number of runs written.
func (s *Store) PutGrid(ctx context.Context, name string, g *grid.Grid) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("PutGrid: %w", err)
	}
	defer tx.Rollback()

	n := 0
	err = eachSlot(g, func(k Key, sg subgrid.Subgrid) error {
		if sg.IsEmpty() {
			return nil
		}
		k.Name = name
		blob, err := sg.MarshalBinary()
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO subgrids (id, name, ord, bin, lumi, kind, created_unix_nanos, blob)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			uuid.NewString(), k.Name, k.Order, k.Bin, k.Lumi, sg.Kind().String(), s.now().UnixNano(), blob)
		if err != nil {
			return err
		}
		n++
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("PutGrid: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("PutGrid: %w", err)
	}

	return n, nil
}

// MergeInto merges every stored run of name into the matching slot of g.
// Slots without runs are left as they are. The runs are staged in a
// scratch grid and merged with grid.Merge, so on error g is unchanged.
func (s *Store) MergeInto(ctx context.Context, name string, g *grid.Grid) error {
	staged, err := grid.New(g.Lumis(), g.Orders(), g.BinLimits(), g.Params(), g.Kind(), grid.WithLogger(s.log))
	if err != nil {
		return fmt.Errorf("MergeInto: %w", err)
	}
	err = eachSlot(g, func(k Key, _ subgrid.Subgrid) error {
		k.Name = name
		stored, err := s.Merged(ctx, k)
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return staged.SetSubgrid(k.Order, k.Bin, k.Lumi, stored)
	})
	if err != nil {
		return fmt.Errorf("MergeInto: %w", err)
	}
	if err := g.Merge(staged); err != nil {
		return fmt.Errorf("MergeInto: %w", err)
	}

	return nil
}

func eachSlot(g *grid.Grid, fn func(Key, subgrid.Subgrid) error) error {
	for o := range g.Orders() {
		for b := 0; b < g.Bins(); b++ {
			for l := range g.Lumis() {
				sg, err := g.Subgrid(o, b, l)
				if err != nil {
					return err
				}
				if err := fn(Key{Order: o, Bin: b, Lumi: l}, sg); err != nil {
					return err
				}
			}
		}
	}

	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(sc scanner) (Record, []byte, error) {
	var (
		rec   Record
		id    string
		kind  string
		nanos int64
		blob  []byte
	)
	if err := sc.Scan(&id, &rec.Key.Name, &rec.Key.Order, &rec.Key.Bin, &rec.Key.Lumi, &kind, &nanos, &blob); err != nil {
		return Record{}, nil, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return Record{}, nil, err
	}
	rec.Kind, err = subgrid.ParseKind(kind)
	if err != nil {
		return Record{}, nil, err
	}
	rec.ID = parsed
	rec.Created = time.Unix(0, nanos)

	return rec, blob, nil
}
