// Package effects runs the best-effort work that follows a committed
// transition: in-app notifications, realtime pushes and emails.
//
// A failing task is logged and reported; it never fails the transition that
// produced it and never stops its siblings.
package effects

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"orderreview/internal/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultTimeout     = 10 * time.Second
	DefaultConcurrency = 8
)

// Task is one named unit of side-effect work.
type Task struct {
	Name string
	Run  func(ctx context.Context) error
}

// Batch is the set of tasks produced by one transition.
type Batch struct {
	Name  string
	Tasks []Task
}

// Failure records a task that returned an error or panicked.
type Failure struct {
	Task string
	Err  error
}

// Report is the outcome of running a batch.
type Report struct {
	Batch     string
	Succeeded []string
	Failed    []Failure
}

func (r Report) HasFailures() bool {
	return len(r.Failed) > 0
}

// Runner executes batches with bounded parallelism and a per-batch deadline.
type Runner struct {
	logger      *zap.Logger
	timeout     time.Duration
	concurrency int
	inflight    sync.WaitGroup
}

// NewRunner applies DefaultTimeout and DefaultConcurrency to non-positive values.
func NewRunner(log *zap.Logger, timeout time.Duration, concurrency int) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &Runner{
		logger:      log.With(zap.String("component", "effects")),
		timeout:     timeout,
		concurrency: concurrency,
	}
}

// Run executes every task of batch and waits for them. ctx only contributes
// its values: its cancellation is ignored, the batch deadline applies instead.
func (r *Runner) Run(ctx context.Context, batch Batch) Report {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.timeout)
	defer cancel()

	log := logger.FromContext(ctx, r.logger).With(zap.String("batch", batch.Name))
	report := Report{Batch: batch.Name}
	var mu sync.Mutex

	g := errgroup.Group{}
	g.SetLimit(r.concurrency)

	for _, task := range batch.Tasks {
		g.Go(func() error {
			err := runTask(ctx, task)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				report.Failed = append(report.Failed, Failure{Task: task.Name, Err: err})
				log.Warn("side effect failed", zap.String("task", task.Name), zap.Error(err))
				return nil
			}
			report.Succeeded = append(report.Succeeded, task.Name)
			return nil
		})
	}
	_ = g.Wait()

	log.Debug("side effects finished",
		zap.Int("succeeded", len(report.Succeeded)),
		zap.Int("failed", len(report.Failed)))

	return report
}

// Dispatch runs batch in the background and returns immediately.
func (r *Runner) Dispatch(ctx context.Context, batch Batch) {
	if len(batch.Tasks) == 0 {
		return
	}
	r.inflight.Add(1)
	go func() {
		defer r.inflight.Done()
		r.Run(ctx, batch)
	}()
}

// Wait blocks until dispatched batches finish or ctx is done.
func (r *Runner) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		r.inflight.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for side effects: %w", ctx.Err())
	}
}

func runTask(ctx context.Context, task Task) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
		}
	}()

	if task.Run == nil {
		return errors.New("task has no run function")
	}
	return task.Run(ctx)
}
