// Package fetch drives the paginated search loop: one page request, then one
// detail request per item, with fixed pacing between requests and a
// cooperative cancellation poll per item.
package fetch

import (
	"context"
	"errors"
	"log"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"jobinsights-engine/internal/aggregate"
	"jobinsights-engine/internal/hh"
	"jobinsights-engine/internal/listing"
)

// State is the lifecycle of one fetch run. The three terminal states are
// final: a Fetcher serves exactly one run.
type State int32

const (
	StateIdle State = iota
	StateRunning
	StateCompleted
	StateCancelled
	StateAborted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateCancelled:
		return "cancelled"
	case StateAborted:
		return "aborted"
	}
	return "unknown"
}

// ErrNotIdle is returned when Run is called on a fetcher that already ran.
var ErrNotIdle = errors.New("fetcher already ran")

// Builder turns a raw detail document into a normalized record.
type Builder func(hh.Vacancy) listing.Record

// Sink receives each record together with its sheet row.
type Sink interface {
	AppendRow(rec listing.Record, row int) error
}

// Notifier receives progress updates; implementations must not block.
type Notifier interface {
	Progress(percent int, title string)
}

// Request is the immutable configuration of one run. Found carries the total
// reported by the initial probe and seeds the progress denominator.
type Request struct {
	Text           string
	AreaID         string
	Pages          int
	Period         int
	OnlyWithSalary bool
	OrderBy        string
	Found          int
}

// Outcome reports how a run ended. On StateAborted, Err holds the cause; a
// *hh.StatusError means the upstream refused a detail fetch.
type Outcome struct {
	State State
	Rows  int
	Err   error
}

const progressTitleLimit = 70

type Fetcher struct {
	client    *hh.Client
	build     Builder
	perPage   int
	pace      *rate.Limiter
	pageDelay time.Duration
	state     atomic.Int32
}

// New builds a single-run fetcher. itemDelay spaces consecutive detail
// requests; pageDelay separates page requests except around the last page.
func New(client *hh.Client, build Builder, perPage int, itemDelay, pageDelay time.Duration) *Fetcher {
	return &Fetcher{
		client:    client,
		build:     build,
		perPage:   perPage,
		pace:      rate.NewLimiter(rate.Every(itemDelay), 1),
		pageDelay: pageDelay,
	}
}

func (f *Fetcher) State() State {
	return State(f.state.Load())
}

func (f *Fetcher) setState(s State) State {
	f.state.Store(int32(s))
	return s
}

// Run executes the fetch loop. Cancellation via the token (or the context)
// ends the run as StateCancelled; an empty page ends it as StateCompleted; a
// failed page or detail fetch ends it as StateAborted. Rows already handed
// to the sink stay written regardless of how the run ends.
func (f *Fetcher) Run(ctx context.Context, req Request, tok *CancelToken, sink Sink, agg *aggregate.State, n Notifier) Outcome {
	if !f.state.CompareAndSwap(int32(StateIdle), int32(StateRunning)) {
		return Outcome{State: f.State(), Err: ErrNotIdle}
	}

	found := req.Found
	rows := 0

	for page := 0; page < req.Pages; page++ {
		sp, err := f.client.SearchPage(ctx, hh.SearchQuery{
			Text:           req.Text,
			AreaID:         req.AreaID,
			Page:           page,
			PerPage:        f.perPage,
			Period:         req.Period,
			OnlyWithSalary: req.OnlyWithSalary,
			OrderBy:        req.OrderBy,
		})
		if err != nil {
			log.Printf("[fetch] page %d failed: %v", page, err)
			return Outcome{State: f.setState(StateAborted), Rows: rows, Err: err}
		}
		if sp.Found > 0 {
			found = sp.Found
		}

		// An empty page means the result set is exhausted, not an error.
		if len(sp.Items) == 0 {
			return Outcome{State: f.setState(StateCompleted), Rows: rows}
		}

		for _, item := range sp.Items {
			if tok.consume() {
				log.Printf("[fetch] cancelled after %d rows", rows)
				return Outcome{State: f.setState(StateCancelled), Rows: rows}
			}

			// Fixed spacing between detail requests keeps the upstream
			// abuse protection quiet.
			if err := f.pace.Wait(ctx); err != nil {
				return Outcome{State: f.setState(StateCancelled), Rows: rows}
			}

			v, err := f.client.Vacancy(ctx, item.URL)
			if err != nil {
				log.Printf("[fetch] detail fetch failed, stopping run: %v", err)
				return Outcome{State: f.setState(StateAborted), Rows: rows, Err: err}
			}

			rec := f.build(v)
			rows++

			// Row 1 holds the table header.
			if err := sink.AppendRow(rec, rows+1); err != nil {
				log.Printf("[fetch] row write failed: %v", err)
				return Outcome{State: f.setState(StateAborted), Rows: rows - 1, Err: err}
			}
			agg.Record(rec)

			if denom := min(found, f.perPage*req.Pages); denom > 0 {
				n.Progress(100*rows/denom, listing.TruncateRunes(rec.Title, progressTitleLimit))
			}
		}

		// The page holding the final result and the final requested page get
		// no trailing delay.
		if page != found/f.perPage && page != req.Pages-1 {
			if err := sleepCtx(ctx, f.pageDelay); err != nil {
				return Outcome{State: f.setState(StateCancelled), Rows: rows}
			}
		}
	}

	return Outcome{State: f.setState(StateCompleted), Rows: rows}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
