// Package scheduler runs every job of a sequence at once, letting the
// limiter decide how many of them actually transfer.
package scheduler

import (
	"context"
	"fmt"
	"io"
	"log"

	"golang.org/x/sync/errgroup"

	"github.com/trueabc/go/tools/dwrs/internal/job"
	"github.com/trueabc/go/tools/dwrs/internal/limiter"
	"github.com/trueabc/go/tools/dwrs/internal/progress"
	"github.com/trueabc/go/tools/dwrs/internal/transfer"
)

// Registrar hands out one progress indicator per job.
type Registrar interface {
	Register(j job.Job) progress.Indicator
}

// Scheduler spawns one task per job. Tasks are independent: a failure is
// recorded for its own job and nothing else is cancelled.
type Scheduler struct {
	limiter  *limiter.Limiter
	worker   *transfer.Worker
	reporter Registrar
	logger   *log.Logger
}

// New wires a scheduler.
func New(l *limiter.Limiter, w *transfer.Worker, r Registrar, logger *log.Logger) *Scheduler {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Scheduler{limiter: l, worker: w, reporter: r, logger: logger}
}

// Summary holds every outcome in job order.
type Summary struct {
	Outcomes  []transfer.Outcome
	Succeeded int
	Failed    int
	// Err is the first job failure to complete, nil when all succeeded.
	Err       error
}

// Total is the number of jobs run.
func (s Summary) Total() int { return len(s.Outcomes) }

// Run starts all jobs immediately and returns once each has finished or
// failed. Completion order is not spawn order.
func (s *Scheduler) Run(ctx context.Context, seq job.Sequence) Summary {
	outcomes := make([]transfer.Outcome, len(seq))

	// a plain Group: a failed job never cancels its siblings
	var g errgroup.Group
	for i, j := range seq {
		i, j := i, j
		g.Go(func() error {
			outcomes[i] = s.runOne(ctx, j)
			return outcomes[i].Err
		})
	}

	sum := Summary{Outcomes: outcomes, Err: g.Wait()}
	for _, o := range outcomes {
		if o.OK() {
			sum.Succeeded++
		} else {
			sum.Failed++
		}
	}
	s.logger.Printf("run finished: %d ok, %d failed", sum.Succeeded, sum.Failed)
	return sum
}

func (s *Scheduler) runOne(ctx context.Context, j job.Job) (out transfer.Outcome) {
	var ind progress.Indicator
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("job %s panicked: %v", j.ShortID(), r)
			s.logger.Print(err)
			if ind == nil {
				ind = s.reporter.Register(j)
			}
			ind.Finish(err)
			out = transfer.Outcome{Job: j, Err: err}
		}
	}()

	s.logger.Printf("[JOB %s] waiting for a slot (%d/%d in flight)", j.ShortID(), s.limiter.InFlight(), s.limiter.Capacity())
	slot, err := s.limiter.Acquire(ctx)
	if err != nil {
		ind = s.reporter.Register(j)
		ind.Finish(err)
		return transfer.Outcome{Job: j, Err: err}
	}
	defer slot.Release()

	ind = s.reporter.Register(j)
	return s.worker.Do(ctx, j, ind)
}
