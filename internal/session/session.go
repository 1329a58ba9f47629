// Package session wires directory, fetcher, aggregator and report writer
// into one run and owns the run's lifecycle bookkeeping.
package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"jobinsights-engine/internal/aggregate"
	"jobinsights-engine/internal/config"
	"jobinsights-engine/internal/directory"
	"jobinsights-engine/internal/fetch"
	"jobinsights-engine/internal/hh"
	"jobinsights-engine/internal/listing"
	"jobinsights-engine/internal/report"
)

// ErrRunActive rejects a second run while one is in flight.
var ErrRunActive = errors.New("a search run is already active")

// ErrReportBusy means another process holds the report file.
var ErrReportBusy = errors.New("report file is locked by another process")

// Shown in the file name and chart titles when no region filter applies.
const allRegionsLabel = "Все регионы"

// Outcome labels surfaced to the UI.
const (
	OutcomeCompleted = "completed"
	OutcomeCancelled = "cancelled"
	OutcomeAborted   = "aborted"
	OutcomeNoResults = "no_results"
)

// Params is the user's input for one run, as collected by a front end.
type Params struct {
	Query          string
	Region         string
	Pages          int
	Period         int
	OnlyWithSalary bool
	OrderBy        string
}

// Result is the terminal report of a run.
type Result struct {
	Outcome string
	File    string
	Rows    int
	Found   int
	Err     error
}

// Notifier carries progress and the distinct completion message to a UI
// adapter. Implementations are drained by the UI and must not block.
type Notifier interface {
	Progress(percent int, title string)
	Done(res Result)
}

// Status is a point-in-time snapshot for polling surfaces.
type Status struct {
	Running      bool   `json:"running"`
	Percent      int    `json:"percent"`
	CurrentTitle string `json:"current_title"`
	Found        int    `json:"found"`
	LastOutcome  string `json:"last_outcome,omitempty"`
	LastFile     string `json:"last_file,omitempty"`
	LastRows     int    `json:"last_rows"`
	LastError    string `json:"last_error,omitempty"`
	LastRunAt    string `json:"last_run_at,omitempty"`
}

type Runner struct {
	cfg    config.Config
	dir    *directory.Directory
	client *hh.Client
	active atomic.Bool
	tok    atomic.Pointer[fetch.CancelToken]
	status atomic.Value // Status
}

func NewRunner(cfg config.Config, dir *directory.Directory, client *hh.Client) *Runner {
	r := &Runner{cfg: cfg, dir: dir, client: client}
	r.status.Store(Status{})
	return r
}

// Status returns the latest snapshot.
func (r *Runner) Status() Status {
	return r.status.Load().(Status)
}

// Active reports whether a run is in flight.
func (r *Runner) Active() bool {
	return r.active.Load()
}

func (r *Runner) updateStatus(mut func(*Status)) {
	st := r.Status()
	mut(&st)
	r.status.Store(st)
}

// Claim reserves the runner's single run slot and registers the run's cancel
// token, so a front end can reject a concurrent request before spawning the
// run. The caller must follow with RunClaimed, which releases the slot.
func (r *Runner) Claim(tok *fetch.CancelToken) error {
	if !r.active.CompareAndSwap(false, true) {
		return ErrRunActive
	}
	r.tok.Store(tok)
	return nil
}

// Cancel flags the claimed run's token. It reports false when no run was
// ever claimed.
func (r *Runner) Cancel() bool {
	tok := r.tok.Load()
	if tok == nil {
		return false
	}
	tok.Cancel()
	return true
}

// Run executes one search-and-report session. Exactly one run may be active;
// a second call fails fast with ErrRunActive.
func (r *Runner) Run(ctx context.Context, p Params, tok *fetch.CancelToken, n Notifier) (Result, error) {
	if err := r.Claim(tok); err != nil {
		return Result{}, err
	}
	return r.RunClaimed(ctx, p, n)
}

// RunClaimed executes a run whose slot Claim already reserved.
func (r *Runner) RunClaimed(ctx context.Context, p Params, n Notifier) (Result, error) {
	defer r.active.Store(false)
	tok := r.tok.Load()

	p.Pages = config.ClampPages(p.Pages)
	p.Period = config.ClampPeriod(p.Period)

	areaID := ""
	regionLabel := strings.TrimSpace(p.Region)
	if regionLabel == "" {
		regionLabel = allRegionsLabel
	}
	if id, ok := r.dir.ResolveRegion(p.Region); ok {
		areaID = id
	}

	r.updateStatus(func(st *Status) {
		*st = Status{Running: true, LastRunAt: time.Now().UTC().Format(time.RFC3339)}
	})

	res, err := r.run(ctx, p, areaID, regionLabel, tok, n)

	r.updateStatus(func(st *Status) {
		st.Running = false
		st.Percent = 0
		st.CurrentTitle = ""
		st.LastOutcome = res.Outcome
		st.LastFile = res.File
		st.LastRows = res.Rows
		st.LastError = ""
		if res.Err != nil {
			st.LastError = res.Err.Error()
		}
	})

	if err == nil {
		n.Done(res)
	}
	return res, err
}

func (r *Runner) run(ctx context.Context, p Params, areaID, regionLabel string, tok *fetch.CancelToken, n Notifier) (Result, error) {
	probe, err := r.client.SearchPage(ctx, hh.SearchQuery{
		Text:           p.Query,
		AreaID:         areaID,
		Page:           0,
		PerPage:        r.cfg.API.PerPage,
		Period:         p.Period,
		OnlyWithSalary: p.OnlyWithSalary,
		OrderBy:        p.OrderBy,
	})
	if err != nil {
		return Result{Outcome: OutcomeAborted, Err: err}, err
	}
	if strings.TrimSpace(p.Query) == "" || probe.Found == 0 {
		log.Printf("[session] no results for %q (%s)", p.Query, regionLabel)
		return Result{Outcome: OutcomeNoResults}, nil
	}

	r.updateStatus(func(st *Status) { st.Found = probe.Found })

	if err := os.MkdirAll(r.cfg.App.ReportsDir, 0o755); err != nil {
		return Result{}, fmt.Errorf("reports dir: %w", err)
	}

	path := filepath.Join(r.cfg.App.ReportsDir,
		fmt.Sprintf("%s (%s).xlsx", sanitizeName(p.Query), sanitizeName(regionLabel)))

	lock := flock.New(path + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return Result{}, fmt.Errorf("lock report: %w", err)
	}
	if !locked {
		return Result{}, ErrReportBusy
	}
	defer func() {
		lock.Unlock()
		os.Remove(lock.Path())
	}()

	wb, err := report.NewWorkbook(path, p.Query, regionLabel)
	if err != nil {
		return Result{}, fmt.Errorf("create workbook: %w", err)
	}

	agg := aggregate.New()
	builder := func(v hh.Vacancy) listing.Record {
		return listing.FromVacancy(v, r.dir.Rates(), r.dir, time.Now())
	}
	fetcher := fetch.New(r.client, builder, r.cfg.API.PerPage,
		time.Duration(r.cfg.API.ItemDelayMillis)*time.Millisecond,
		time.Duration(r.cfg.API.PageDelaySeconds)*time.Second)

	out := fetcher.Run(ctx, fetch.Request{
		Text:           p.Query,
		AreaID:         areaID,
		Pages:          p.Pages,
		Period:         p.Period,
		OnlyWithSalary: p.OnlyWithSalary,
		OrderBy:        p.OrderBy,
		Found:          probe.Found,
	}, tok, wb, agg, statusNotifier{r, n})

	// Summaries and the file close happen on every terminal state: an
	// aborted run keeps its partial rows.
	midpoints, skills := agg.Snapshot()
	if err := wb.SummarizeSkills(skills); err != nil {
		log.Printf("[session] skills summary: %v", err)
	}
	if err := wb.SummarizeSalary(midpoints); err != nil {
		log.Printf("[session] salary summary: %v", err)
	}
	if err := wb.SummarizeRemote(); err != nil {
		log.Printf("[session] remote summary: %v", err)
	}
	if err := wb.AttachCharts(); err != nil {
		log.Printf("[session] charts: %v", err)
	}

	res := Result{
		Outcome: outcomeFor(out.State),
		File:    path,
		Rows:    out.Rows,
		Found:   probe.Found,
		Err:     out.Err,
	}
	if err := wb.Close(); err != nil {
		log.Printf("[session] close workbook: %v", err)
		if res.Err == nil {
			res.Err = err
		}
	}
	log.Printf("[session] %s: %d rows -> %s", res.Outcome, res.Rows, path)
	return res, nil
}

func outcomeFor(s fetch.State) string {
	switch s {
	case fetch.StateCancelled:
		return OutcomeCancelled
	case fetch.StateAborted:
		return OutcomeAborted
	default:
		return OutcomeCompleted
	}
}

// statusNotifier mirrors progress into the status snapshot before forwarding
// it to the UI adapter.
type statusNotifier struct {
	r *Runner
	n Notifier
}

func (s statusNotifier) Progress(percent int, title string) {
	s.r.updateStatus(func(st *Status) {
		st.Percent = percent
		st.CurrentTitle = title
	})
	s.n.Progress(percent, title)
}

func sanitizeName(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, strings.TrimSpace(s))
}
