// Package worker drives the engine's periodic jobs: lifecycle ticks, queue
// admission, expiry sweeps and index reconciliation.
package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/srgjo27/flashsale_ticket/internal/platform/metrics"
)

// Job is one periodic unit of work. Run is called once per Interval; runs of
// the same job never overlap.
type Job struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context) error
}

type Runner struct {
	jobs    []Job
	log     *zap.Logger
	metrics *metrics.Metrics

	mu      sync.Mutex
	running bool
	wg      sync.WaitGroup
}

func NewRunner(log *zap.Logger, m *metrics.Metrics) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{log: log.Named("worker"), metrics: m}
}

func (r *Runner) Add(job Job) error {
	if job.Name == "" || job.Run == nil {
		return errors.New("worker: job needs a name and a run func")
	}
	if job.Interval <= 0 {
		return fmt.Errorf("worker: job %q has non-positive interval %s", job.Name, job.Interval)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running {
		return fmt.Errorf("worker: cannot add job %q after start", job.Name)
	}
	r.jobs = append(r.jobs, job)
	return nil
}

// Start launches one goroutine per job. They stop when ctx is cancelled.
func (r *Runner) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running {
		return errors.New("worker: runner already started")
	}
	r.running = true

	for _, job := range r.jobs {
		r.wg.Add(1)
		go r.loop(ctx, job)
	}

	r.log.Info("worker runner started", zap.Int("jobs", len(r.jobs)))
	return nil
}

// Wait blocks until every job loop has returned.
func (r *Runner) Wait() {
	r.wg.Wait()
	r.log.Info("worker runner stopped")
}

// RunOnce executes every job a single time, in registration order.
func (r *Runner) RunOnce(ctx context.Context) error {
	r.mu.Lock()
	jobs := append([]Job(nil), r.jobs...)
	r.mu.Unlock()

	var errs []error
	for _, job := range jobs {
		if err := r.execute(ctx, job); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", job.Name, err))
		}
	}
	return errors.Join(errs...)
}

func (r *Runner) loop(ctx context.Context, job Job) {
	defer r.wg.Done()

	ticker := time.NewTicker(job.Interval)
	defer ticker.Stop()

	r.log.Info("job scheduled", zap.String("job", job.Name), zap.Duration("interval", job.Interval))

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := r.execute(ctx, job); err != nil && ctx.Err() == nil {
				r.log.Error("job failed", zap.String("job", job.Name), zap.Error(err))
			}
		}
	}
}

// execute runs a job and turns a panic into an error so one bad tick does not
// take the process down.
func (r *Runner) execute(ctx context.Context, job Job) (err error) {
	started := time.Now()
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
			r.log.Error("job panicked", zap.String("job", job.Name), zap.Any("panic", p), zap.Stack("stack"))
		}
		r.metrics.ObserveJob(job.Name, started)
	}()

	return job.Run(ctx)
}
