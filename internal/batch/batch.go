package batch

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fabrii9/prodsync/internal/sheet"
)

// DefaultWorkers is the pool size when Config.Workers is zero.
const DefaultWorkers = 4

// Result is the outcome of one row.
type Result struct {
	Index   int
	OK      bool
	Message string
}

// Summary tallies a finished run.
type Summary struct {
	Total     int
	Succeeded int
	Failed    int
	Elapsed   time.Duration
}

// Processor handles one row against a live session. *importer.Importer
// satisfies it.
type Processor interface {
	ImportRow(row sheet.Row) (string, error)
}

// SessionFactory builds a new authenticated session. Called at most once
// per worker; the pool retains the returned Processor for the worker's
// lifetime and, when it implements io.Closer, closes it as the pool drains.
type SessionFactory func() (Processor, error)

// Config controls a run.
type Config struct {
	// Workers is the pool size. Zero means DefaultWorkers.
	Workers int

	// DryRun skips all remote work and reports every row as a synthetic
	// success.
	DryRun bool

	// Logger for pool activity. Nil means stderr.
	Logger *log.Logger
}

// Run processes all rows and invokes report once per row, in strictly
// increasing index order, as results become available. It returns the final
// tally.
//
// Unless DryRun is set, Run authenticates the first session before starting
// any worker so that bad credentials abort the run with an error instead of
// failing every row. That session is handed to the first worker; the others
// authenticate lazily on their first row. Every session that implements
// io.Closer is closed as its worker finishes.
//
// Cancelling ctx stops feeding new rows; rows already in flight finish
// normally and rows never started report as canceled failures, keeping the
// one-result-per-row invariant.
func Run(ctx context.Context, rows []sheet.Row, factory SessionFactory, cfg Config, report func(Result)) (*Summary, error) {
	start := time.Now()
	if cfg.Logger == nil {
		cfg.Logger = log.New(os.Stderr, "[batch] ", log.LstdFlags)
	}
	if len(rows) == 0 {
		return &Summary{Elapsed: time.Since(start)}, nil
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if workers > len(rows) {
		workers = len(rows)
	}

	// Fail fast on bad credentials before any row is touched.
	var first Processor
	if !cfg.DryRun {
		var err error
		if first, err = factory(); err != nil {
			return nil, fmt.Errorf("failed to open session: %w", err)
		}
	}

	cfg.Logger.Printf("starting batch: %d rows, %d workers, dry-run=%v", len(rows), workers, cfg.DryRun)

	jobs := make(chan sheet.Row)
	results := make(chan Result, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		var session Processor
		if i == 0 {
			session = first
		}
		go func(session Processor) {
			defer wg.Done()
			w := &worker{factory: factory, cfg: cfg, session: session}
			w.run(jobs, results)
		}(session)
	}

	// Feeder: stops submitting on cancellation but still accounts for every
	// row so the tally always adds up to the total.
	go func() {
		defer close(jobs)
		for _, row := range rows {
			select {
			case jobs <- row:
			case <-ctx.Done():
				results <- Result{Index: row.Index, OK: false, Message: "canceled"}
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	summary := &Summary{Total: len(rows)}
	collect(len(rows), results, func(r Result) {
		if r.OK {
			summary.Succeeded++
		} else {
			summary.Failed++
		}
		if report != nil {
			report(r)
		}
	})

	summary.Elapsed = time.Since(start)
	cfg.Logger.Printf("batch finished: %d ok, %d failed in %s", summary.Succeeded, summary.Failed, summary.Elapsed.Round(time.Millisecond))
	return summary, nil
}

// worker drains the jobs channel with one cached session.
type worker struct {
	factory SessionFactory
	cfg     Config
	session Processor
}

func (w *worker) run(jobs <-chan sheet.Row, results chan<- Result) {
	defer w.closeSession()
	for row := range jobs {
		results <- w.processRow(row)
	}
}

// closeSession releases the worker's cached session once no more rows will
// arrive. Sessions hold live connections, so leaking them matters to
// long-running callers like watch mode.
func (w *worker) closeSession() {
	closer, ok := w.session.(io.Closer)
	if !ok {
		return
	}
	if err := closer.Close(); err != nil {
		w.cfg.Logger.Printf("failed to close session: %v", err)
	}
}

func (w *worker) processRow(row sheet.Row) Result {
	if w.cfg.DryRun {
		return Result{Index: row.Index, OK: true, Message: "(dry-run)"}
	}

	if w.session == nil {
		session, err := w.factory()
		if err != nil {
			return Result{Index: row.Index, OK: false, Message: failureMessage(row, err)}
		}
		w.session = session
	}

	label, err := w.session.ImportRow(row)
	if err != nil {
		return Result{Index: row.Index, OK: false, Message: failureMessage(row, err)}
	}
	return Result{Index: row.Index, OK: true, Message: label}
}

// failureMessage names the row by its code or name so a failure line is
// actionable without opening the workbook.
func failureMessage(row sheet.Row, err error) string {
	ident := strings.TrimSpace(row.Code)
	if ident == "" {
		ident = strings.TrimSpace(row.Name)
	}
	if ident == "" {
		ident = "(no identifier)"
	}
	return fmt.Sprintf("ERROR in %s: %v", ident, err)
}

// collect re-orders out-of-order completions and emits them sequentially.
// It buffers results whose predecessors have not arrived yet.
func collect(total int, results <-chan Result, emit func(Result)) {
	pending := make(map[int]Result)
	next := 0
	for r := range results {
		pending[r.Index] = r
		for {
			buffered, ok := pending[next]
			if !ok {
				break
			}
			delete(pending, next)
			emit(buffered)
			next++
		}
	}
	// Results are unique per index, so anything left means a worker bug;
	// flush in order rather than losing rows.
	for ; next < total; next++ {
		if buffered, ok := pending[next]; ok {
			emit(buffered)
		}
	}
}
