package jobs

import (
	"context"
	"fmt"
	"time"

	"orderreview/internal/core/application/effects"
	"orderreview/internal/core/domain/model/order"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const (
	DefaultDigestSchedule = "0 0 * * * *"
	DefaultDigestMinAge   = time.Hour
)

// PendingOrderLister finds orders still waiting for shipping charges.
type PendingOrderLister interface {
	ListPendingReviewCreatedBefore(ctx context.Context, before time.Time) ([]*order.Order, error)
}

// DigestPlanner turns the stuck orders into one email batch for the admins.
type DigestPlanner interface {
	PlanPendingDigest(orders []*order.Order, minAge time.Duration) effects.Batch
}

// BatchRunner runs a batch and reports the outcome.
type BatchRunner interface {
	Run(ctx context.Context, batch effects.Batch) effects.Report
}

// PendingReviewDigestJob reminds admins of orders pending review for longer
// than minAge. Failures are logged; the next run tries again.
type PendingReviewDigestJob struct {
	orders   PendingOrderLister
	planner  DigestPlanner
	runner   BatchRunner
	schedule string
	minAge   time.Duration
	timeout  time.Duration
	cron     *cron.Cron
	logger   *zap.Logger
	now      func() time.Time
}

func NewPendingReviewDigestJob(
	orders PendingOrderLister,
	planner DigestPlanner,
	runner BatchRunner,
	schedule string,
	minAge time.Duration,
	logger *zap.Logger,
) *PendingReviewDigestJob {
	if schedule == "" {
		schedule = DefaultDigestSchedule
	}
	if minAge <= 0 {
		minAge = DefaultDigestMinAge
	}
	return &PendingReviewDigestJob{
		orders:   orders,
		planner:  planner,
		runner:   runner,
		schedule: schedule,
		minAge:   minAge,
		timeout:  time.Minute,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.With(zap.String("component", "pending_review_digest_job")),
		now:      time.Now,
	}
}

// Start schedules the job. The cron expression includes seconds.
func (j *PendingReviewDigestJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
		defer cancel()

		if _, err := j.RunOnce(ctx); err != nil {
			j.logger.Error("pending review digest failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("schedule %q: %w", j.schedule, err)
	}

	j.cron.Start()
	j.logger.Info("pending review digest job started", zap.String("schedule", j.schedule))
	return nil
}

// Stop waits for a running digest to finish.
func (j *PendingReviewDigestJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("pending review digest job stopped")
}

// RunOnce sends one digest if any order qualifies. It returns the report of
// the email batch, empty when nothing was sent.
func (j *PendingReviewDigestJob) RunOnce(ctx context.Context) (effects.Report, error) {
	orders, err := j.orders.ListPendingReviewCreatedBefore(ctx, j.now().Add(-j.minAge))
	if err != nil {
		return effects.Report{}, fmt.Errorf("list orders pending review: %w", err)
	}
	if len(orders) == 0 {
		return effects.Report{}, nil
	}

	report := j.runner.Run(ctx, j.planner.PlanPendingDigest(orders, j.minAge))
	if report.HasFailures() {
		for _, f := range report.Failed {
			j.logger.Warn("digest email failed", zap.String("task", f.Task), zap.Error(f.Err))
		}
	} else {
		j.logger.Info("pending review digest sent", zap.Int("orders", len(orders)))
	}
	return report, nil
}
