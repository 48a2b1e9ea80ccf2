// SPDX-License-Identifier: MIT

package grid

import (
	"context"
	"fmt"

	"github.com/katalvlaran/pinegrid/subgrid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Event is one Fill call, recorded for batched filling.
type Event struct {
	Order      int
	Observable float64
	Lumi       int
	Sample     subgrid.Sample
}

// cancelCheckEvery is how many events a worker fills between context checks.
const cancelCheckEvery = 1024

// FillEvents fills a batch with one goroutine per luminosity channel.
//
// Every index is validated before any goroutine starts, so a bad event
// leaves the grid untouched. Each worker owns all subgrids of its channel
// and visits the events in slice order, which makes the result bit-identical
// to calling Fill sequentially. On cancellation the grid holds a partial
// fill and ctx.Err() is returned.
func (g *Grid) FillEvents(ctx context.Context, events []Event) error {
	for i, e := range events {
		if err := g.checkIndex(e.Order, 0, e.Lumi); err != nil {
			return fmt.Errorf("FillEvents: event %d: %w", i, err)
		}
	}

	eg, egCtx := errgroup.WithContext(ctx)
	for ch := range g.lumis {
		eg.Go(func() error {
			return g.fillChannel(egCtx, ch, events)
		})
	}
	if err := eg.Wait(); err != nil {
		return fmt.Errorf("FillEvents: %w", err)
	}
	g.log.Debug("events filled", zap.Int("events", len(events)), zap.Int("channels", len(g.lumis)))

	return nil
}

func (g *Grid) fillChannel(ctx context.Context, ch int, events []Event) error {
	for i, e := range events {
		if i%cancelCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		if e.Lumi != ch {
			continue
		}
		bin := g.binIndex(e.Observable)
		if bin < 0 {
			continue
		}
		g.subgrids[g.slot(e.Order, bin, ch)].Fill(e.Sample)
	}

	return nil
}
