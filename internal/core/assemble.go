package core

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// DefaultWorkers is used when AssembleBookings is given no worker count.
const DefaultWorkers = 4

// minRowsPerWorker keeps small sheets on a single goroutine.
const minRowsPerWorker = 256

// AssembleBookings turns every data row of t into one pending Booking.
//
// Columns are bound positionally to BookingSchema. No row is ever dropped
// or merged: blank rows and exact duplicates each produce a record. Rows are
// normalized on up to workers goroutines and returned in sheet order. The
// only failure is cancellation of ctx.
func AssembleBookings(ctx context.Context, t Table, workers int) ([]Booking, error) {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	binder := PositionalBinder{Fields: BookingFields}
	width := binder.Width(t)
	n := len(t.Rows)
	out := make([]Booking, n)

	chunk := max((n+workers-1)/workers, minRowsPerWorker)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for start := 0; start < n; start += chunk {
		end := min(start+chunk, n)
		g.Go(func() error {
			for i := start; i < end; i++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				row := binder.BindRow(t.Rows[i], width)
				out[i] = BookingFromRow(NormalizeRow(BookingSchema, row))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// ClientBatch is the outcome of assembling a clients sheet.
type ClientBatch struct {
	Clients []Client

	// MissingCode counts rows dropped for a blank customer code.
	MissingCode int
	// Repeated counts rows dropped because an earlier row of the same
	// sheet had the same customer code.
	Repeated int
}

// Skipped is the number of sheet rows that produced no candidate.
func (b ClientBatch) Skipped() int {
	return b.MissingCode + b.Repeated
}

// Codes returns the customer codes of the candidates.
func (b ClientBatch) Codes() []string {
	codes := make([]string, len(b.Clients))
	for i, c := range b.Clients {
		codes[i] = c.CustomerCode
	}
	return codes
}

// Without drops candidates whose code is in existing and reports how many
// were dropped.
func (b ClientBatch) Without(existing map[string]bool) ([]Client, int) {
	if len(existing) == 0 {
		return b.Clients, 0
	}
	kept := make([]Client, 0, len(b.Clients))
	for _, c := range b.Clients {
		if !existing[c.CustomerCode] {
			kept = append(kept, c)
		}
	}
	return kept, len(b.Clients) - len(kept)
}

// AssembleClients binds a clients sheet by header name and builds one
// candidate per distinct customer code. Rows without a code are dropped,
// and for repeated codes the first row wins.
func AssembleClients(t Table) ClientBatch {
	var batch ClientBatch
	seen := make(map[string]bool)

	for _, row := range (HeaderNameBinder{}).Bind(t) {
		c, ok := ClientFromRow(row)
		if !ok {
			batch.MissingCode++
			continue
		}
		if seen[c.CustomerCode] {
			batch.Repeated++
			continue
		}
		seen[c.CustomerCode] = true
		batch.Clients = append(batch.Clients, c)
	}
	return batch
}
